package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"htf.dev/pkg/htf/internal/controller"
	"htf.dev/pkg/htf/internal/domain"
	"htf.dev/pkg/htf/pkg"
	"htf.dev/pkg/htf/pkg/htf"
	"htf.dev/pkg/htf/pkg/outputs"
	"htf.dev/pkg/htf/pkg/record"
	"htf.dev/pkg/htf/pkg/triggers"
)

var runCountFlag int
var runPromptFlag bool
var runHTTPPortFlag int
var runOutputDirFlag string

// runArgs are the resolved settings of one `htf run`.
type runArgs struct {
	Count     int
	Prompt    bool
	HTTPPort  int
	OutputDir string
}

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the station test",
		Long: `Run the bundled station test once per DUT. With --count 0 the station
keeps testing until interrupted. A summary of every run is printed at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runStation(ctx, runArgs{
				Count:     viper.GetInt(runCountKey),
				Prompt:    viper.GetBool(runPromptKey),
				HTTPPort:  viper.GetInt(httpPortKey),
				OutputDir: viper.GetString(outputDirKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runCountFlag, countFlagName, "n", viper.GetInt(runCountKey), "number of DUTs to test, 0 loops until interrupted")
	bindFlagToConfig(cmd.Flags().Lookup(countFlagName), runCountKey)

	cmd.Flags().BoolVar(&runPromptFlag, promptFlagName, viper.GetBool(runPromptKey), "prompt the operator for each DUT serial")
	bindFlagToConfig(cmd.Flags().Lookup(promptFlagName), runPromptKey)

	cmd.Flags().IntVar(&runHTTPPortFlag, httpPortFlagName, viper.GetInt(httpPortKey), "serve the live test state on this port, 0 disables it")
	bindFlagToConfig(cmd.Flags().Lookup(httpPortFlagName), httpPortKey)

	cmd.Flags().StringVarP(&runOutputDirFlag, outputDirFlagName, "o", viper.GetString(outputDirKey), "directory for JSON, YAML and JUnit records")
	bindFlagToConfig(cmd.Flags().Lookup(outputDirFlagName), outputDirKey)
}

func runStation(ctx context.Context, args runArgs) error {
	spill, err := pkg.NewFileSpill[record.Summary]("")
	if err != nil {
		return err
	}

	defer func() {
		if err := spill.Remove(); err != nil {
			slog.Error("Failed to remove summary spill", "path", spill.Path(), "error", err)
		}
	}()

	callbacks := []htf.OutputCallback{outputs.Spill(spill), outputs.Console(ui)}
	if args.OutputDir != "" {
		callbacks = append(callbacks, outputs.JSON(args.OutputDir), outputs.YAML(args.OutputDir), outputs.JUnit(args.OutputDir))
	}

	test, err := htf.New(domain.DemoPhases(), map[string]any{"station_type": "demo"},
		htf.WithTeardown(domain.DemoTeardown()),
		htf.WithHTTPPort(args.HTTPPort),
		htf.WithOutputCallbacks(callbacks...),
	)
	if err != nil {
		return fmt.Errorf("failed to build station test: %w", err)
	}

	var (
		testStart triggers.TestStart
		testStop  triggers.TestStop = triggers.AutoStop
	)

	if args.Prompt {
		testStart = triggers.PromptForTestStart(triggers.WithPrompter(ui))
		testStop = triggers.PromptForTestStop(triggers.WithPrompter(ui))
	}

	for i := 0; args.Count <= 0 || i < args.Count; i++ {
		done, err := runOnce(ctx, test, testStart, testStop, spill)
		if err != nil {
			return err
		}

		if done {
			break
		}
	}

	summaries := make([]record.Summary, 0, spill.Len())

	err = spill.Range(func(_ uint64, s record.Summary) error {
		summaries = append(summaries, s)
		return nil
	})
	if err != nil {
		return err
	}

	return ui.DisplaySummaries(context.WithoutCancel(ctx), summaries)
}

// runOnce tests one DUT. done reports that the station should stop.
func runOnce(ctx context.Context, test *htf.Test, testStart triggers.TestStart, testStop triggers.TestStop, spill pkg.FileSpill[record.Summary]) (bool, error) {
	before := spill.Len()

	err := test.Execute(ctx, testStart)

	switch {
	case errors.Is(err, htf.ErrInterrupted), ctx.Err() != nil:
		return true, nil
	case errors.Is(err, controller.ErrPromptCancelled):
		slog.Info("Operator ended the session")
		return true, nil
	case errors.Is(err, domain.ErrAborted):
		return true, nil
	case err != nil:
		return true, err
	}

	if spill.Len() == before {
		return false, nil
	}

	last, err := spill.Get(spill.Len() - 1)
	if err != nil {
		return true, err
	}

	if err := testStop(ctx, last.DUTID); err != nil {
		if errors.Is(err, controller.ErrPromptCancelled) || ctx.Err() != nil {
			return true, nil
		}

		return true, err
	}

	return false, nil
}
