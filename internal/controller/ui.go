// Package controller renders test records and prompts the operator.
package controller

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"htf.dev/pkg/htf/pkg/record"
)

// ErrPromptCancelled is returned when the operator aborts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Prompter asks the operator for input. When textInput is false the operator
// only confirms and the returned string is empty.
type Prompter interface {
	Prompt(ctx context.Context, message string, textInput bool) (string, error)
}

// UI defines the interface for interacting with the operator.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Prompter
	DisplayRecord(ctx context.Context, rec *record.TestRecord) error
	DisplaySummaries(ctx context.Context, summaries []record.Summary) error
}

// NewUI returns the interactive UI when useTTY is set, the plain one otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd.InOrStdin(), cmd.OutOrStdout())
}

// NewPrompter returns a prompter on the process's stdin and stdout.
func NewPrompter() Prompter {
	if IsTTY(os.Stdin) && IsTTY(os.Stdout) {
		return NewTUI(os.Stdin, os.Stdout)
	}

	return NewSimpleUI(os.Stdin, os.Stdout)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// durationMillis renders a start/end pair as a human duration.
func durationMillis(start, end int64) string {
	if end < start || start == 0 {
		return "-"
	}

	return formatMillis(end - start)
}
