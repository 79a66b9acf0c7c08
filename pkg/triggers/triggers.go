// Package triggers decides when a test starts and when the station may start
// the next one.
//
// A TestStart returns the DUT identifier, or an empty string if it is not
// known at test start time. A TestStop blocks until the test can restart.
package triggers

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"htf.dev/pkg/htf/internal/controller"
)

// DUTSerialFlag names the flag read by AutoStart.
const DUTSerialFlag = "dut-serial"

// UnknownDUTID is the AutoStart default.
const UnknownDUTID = "UNKNOWN_DUT_ID"

// TestStart is called once per run to obtain the DUT identifier.
type TestStart func(ctx context.Context) (string, error)

// TestStop is called with the DUT identifier of the test that is stopping.
type TestStop func(ctx context.Context, dutID string) error

var dutSerial = UnknownDUTID

// RegisterFlags adds --dut-serial to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	if fs.Lookup(DUTSerialFlag) != nil {
		return
	}

	fs.StringVar(&dutSerial, DUTSerialFlag, dutSerial,
		"DUT serial to start the test with; only used with the AutoStart trigger")
}

// AutoStart starts the test immediately with the --dut-serial value.
func AutoStart(context.Context) (string, error) {
	return dutSerial, nil
}

// AutoStop lets the next test start immediately.
func AutoStop(context.Context, string) error {
	return nil
}

// PromptOption customizes a prompt trigger.
type PromptOption func(*promptConfig)

type promptConfig struct {
	message   string
	textInput bool
	prompter  controller.Prompter
}

// WithMessage sets the text shown to the operator.
func WithMessage(message string) PromptOption {
	return func(c *promptConfig) {
		c.message = message
	}
}

// WithTextInput sets whether the operator types a value or only confirms.
func WithTextInput(textInput bool) PromptOption {
	return func(c *promptConfig) {
		c.textInput = textInput
	}
}

// WithPrompter replaces the terminal prompt.
func WithPrompter(p controller.Prompter) PromptOption {
	return func(c *promptConfig) {
		c.prompter = p
	}
}

func newPromptConfig(message string, textInput bool, opts []PromptOption) *promptConfig {
	c := &promptConfig{message: message, textInput: textInput}
	for _, opt := range opts {
		opt(c)
	}

	if c.prompter == nil {
		c.prompter = controller.NewPrompter()
	}

	return c
}

// PromptForTestStart returns a trigger that asks the operator for the DUT ID.
func PromptForTestStart(opts ...PromptOption) TestStart {
	c := newPromptConfig("Provide a DUT ID in order to start the test.", true, opts)

	return func(ctx context.Context) (string, error) {
		dutID, err := c.prompter.Prompt(ctx, c.message, c.textInput)
		if err != nil {
			return "", err
		}

		slog.Debug("Operator started test", "dut_id", dutID)

		return dutID, nil
	}
}

// PromptForTestStop returns a trigger that waits for the operator to confirm.
func PromptForTestStop(opts ...PromptOption) TestStop {
	c := newPromptConfig("Hit ENTER to complete the test.", false, opts)

	return func(ctx context.Context, dutID string) error {
		_, err := c.prompter.Prompt(ctx, c.message, c.textInput)
		if err != nil {
			return err
		}

		slog.Debug("Operator completed test", "dut_id", dutID)

		return nil
	}
}
