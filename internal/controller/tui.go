package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"htf.dev/pkg/htf/pkg/record"
)

var errNotPromptModel = errors.New("unexpected prompt model")

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// TUI implements UI using Bubble Tea for prompts and lipgloss for styling.
type TUI struct {
	input  io.Reader
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(input io.Reader, output io.Writer) *TUI {
	return &TUI{input: input, output: output}
}

// Prompt runs an interactive prompt until the operator submits or aborts.
func (p *TUI) Prompt(ctx context.Context, message string, textInput bool) (string, error) {
	program := tea.NewProgram(
		newPromptModel(message, textInput),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		return "", fmt.Errorf("prompt failed: %w", err)
	}

	model, ok := final.(promptModel)
	if !ok {
		return "", errNotPromptModel
	}

	if model.cancelled {
		return "", ErrPromptCancelled
	}

	return model.value, nil
}

// DisplayRecord prints the record with a styled outcome.
func (p *TUI) DisplayRecord(ctx context.Context, rec *record.TestRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(p.output, "%s\n%s", renderRecordHeader(rec, styledOutcome), renderPhaseTable(rec.PhaseRecords()))

	return err
}

// DisplaySummaries prints the run table with styled outcomes.
func (p *TUI) DisplaySummaries(ctx context.Context, summaries []record.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(p.output, "\n%s", renderSummaryTable(summaries, styledOutcome))

	return err
}

func styledOutcome(o record.Outcome) string {
	switch o {
	case record.OutcomePass:
		return passStyle.Render(string(o))
	case record.OutcomeFail, record.OutcomeError:
		return failStyle.Render(string(o))
	case record.OutcomeTimeout, record.OutcomeAborted:
		return warnStyle.Render(string(o))
	default:
		return plainOutcome(o)
	}
}

// promptModel asks for a line of text, or just for confirmation.
type promptModel struct {
	message   string
	textInput bool
	input     textinput.Model
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(message string, textInput bool) promptModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "DUT ID"
	input.CharLimit = 128
	input.Focus()

	return promptModel{
		message:   message,
		textInput: textInput,
		input:     input,
	}
}

func (pm promptModel) Init() tea.Cmd {
	if pm.textInput {
		return textinput.Blink
	}

	return nil
}

func (pm promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // Only submit and abort keys end the prompt.
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			pm.cancelled = true
			return pm, tea.Quit
		case tea.KeyEnter:
			pm.done = true
			if pm.textInput {
				pm.value = strings.TrimSpace(pm.input.Value())
			}

			return pm, tea.Quit
		}
	}

	if !pm.textInput {
		return pm, nil
	}

	var cmd tea.Cmd
	pm.input, cmd = pm.input.Update(msg)

	return pm, cmd
}

func (pm promptModel) View() string {
	if pm.done || pm.cancelled {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.message))
	b.WriteString("\n\n")

	if pm.textInput {
		b.WriteString(pm.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: submit • esc: abort"))
	} else {
		b.WriteString(helpStyle.Render("enter: continue • esc: abort"))
	}

	b.WriteString("\n")

	return b.String()
}
