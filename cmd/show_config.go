package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"htf.dev/pkg/htf/pkg/conf"
)

// configCmd represents the config command.
var configCmd = newConfigCmd()

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the CLI settings (htf.yaml, HTF_* environment, flags) and the
station configuration that is stamped into every test record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(map[string]any{
				"cli":     viper.AllSettings(),
				"station": conf.AsDict(),
			})
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}

			cmd.Print(string(out))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}
