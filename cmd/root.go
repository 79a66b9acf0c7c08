// Package cmd provides the root command and CLI setup for htf.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"htf.dev/pkg/htf/internal/adapter"
	"htf.dev/pkg/htf/internal/controller"
	"htf.dev/pkg/htf/pkg/htf"
	"htf.dev/pkg/htf/pkg/logs"
)

var recordStore adapter.RecordStore
var ui controller.UI

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	recordStore = adapter.NewFileRecordStore()
}

const rootLongDescription = `htf runs hardware test stations: a sequence of phases is executed
against each device under test and the resulting test record is written
to the configured outputs.

Framework flags (--dut-serial, --config-file, --config-value, --verbosity,
--log-file, ...) are accepted by every command.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htf",
		Short: "Hardware test framework",
		Long:  rootLongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyConfigToFlags(cmd.Flags()); err != nil {
				return err
			}

			if err := applyStationConfig(); err != nil {
				return err
			}

			logs.SetupLogger()

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	htf.RegisterFlags(cmd.PersistentFlags())
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
