package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"htf.dev/pkg/htf/pkg/conf"
)

const depsFlagName = "deps"

// buildReport describes the running station binary.
type buildReport struct {
	info       *debug.BuildInfo
	stationID  string
	configFile string
	withDeps   bool
}

func (r buildReport) lines() []string {
	if r.info == nil {
		return []string{"version: unknown"}
	}

	version := r.info.Main.Version
	if version == "" || version == "(devel)" {
		version = "devel"
	}

	configFile := r.configFile
	if configFile == "" {
		configFile = "none"
	}

	lines := []string{
		"htf version\t " + version,
		"module\t\t " + r.info.Main.Path,
		"go version\t " + r.info.GoVersion,
		"station\t\t " + r.stationID,
		"config file\t " + configFile,
	}

	if r.withDeps {
		for _, dep := range r.info.Deps {
			lines = append(lines, fmt.Sprintf("dep\t\t %s %s", dep.Path, dep.Version))
		}
	}

	return lines
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the htf build version, the Go version, the station ID and the config file in use.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			withDeps, _ := cmd.Flags().GetBool(depsFlagName)

			report := buildReport{
				stationID:  conf.StationID(),
				configFile: viper.ConfigFileUsed(),
				withDeps:   withDeps,
			}

			if info, ok := debug.ReadBuildInfo(); ok {
				report.info = info
			}

			for _, line := range report.lines() {
				cmd.Println(line)
			}
		},
	}

	cmd.Flags().Bool(depsFlagName, false, "also list module dependencies")

	return cmd
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
