package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "View a saved test record",
		Long:  "Render a test record previously written as JSON or YAML by `htf run --output-dir`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := recordStore.LoadRecord(args[0])
			if err != nil {
				return fmt.Errorf("failed to load record: %w", err)
			}

			return ui.DisplayRecord(cmd.Context(), rec)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
