package controller

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"htf.dev/pkg/htf/pkg/record"
)

// SimpleUI implements UI with plain text tables and line prompts.
type SimpleUI struct {
	in  *bufio.Reader
	out io.Writer
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(in io.Reader, out io.Writer) *SimpleUI {
	return &SimpleUI{in: bufio.NewReader(in), out: out}
}

// Prompt prints message and reads one line.
func (s *SimpleUI) Prompt(ctx context.Context, message string, textInput bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.printf("%s\n", message)

	if textInput {
		s.printf("> ")
	}

	type lineResult struct {
		line string
		err  error
	}

	done := make(chan lineResult, 1)

	go func() {
		line, err := s.in.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil && (!errors.Is(res.err, io.EOF) || res.line == "") {
			return "", fmt.Errorf("%w: %w", ErrPromptCancelled, res.err)
		}

		if !textInput {
			return "", nil
		}

		return strings.TrimSpace(res.line), nil
	}
}

// DisplayRecord prints the record header and its phase table.
func (s *SimpleUI) DisplayRecord(ctx context.Context, rec *record.TestRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderRecordHeader(rec, plainOutcome))
	s.printf("\n%s", renderPhaseTable(rec.PhaseRecords()))

	return nil
}

// DisplaySummaries prints one row per finished run.
func (s *SimpleUI) DisplaySummaries(ctx context.Context, summaries []record.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summaries, plainOutcome))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func plainOutcome(o record.Outcome) string {
	if o == "" {
		return unknownOutcomeLabel
	}

	return string(o)
}

const unknownOutcomeLabel = "unknown"

func renderRecordHeader(rec *record.TestRecord, outcome func(record.Outcome) string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Test %s (%s)\n", rec.CodeInfo.Name, rec.ID)
	fmt.Fprintf(&b, "  DUT:      %s\n", rec.DUTID)
	fmt.Fprintf(&b, "  Station:  %s\n", rec.StationID)
	fmt.Fprintf(&b, "  Outcome:  %s\n", outcome(rec.Outcome))
	fmt.Fprintf(&b, "  Duration: %s\n", durationMillis(rec.StartTimeMillis, rec.EndTimeMillis))

	return b.String()
}

func renderPhaseTable(phases []record.PhaseRecord) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Phase", "Result", "Duration", "Measurements"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	for _, p := range phases {
		result := p.Result
		if p.Error != "" {
			result += ": " + p.Error
		}

		table.Append([]string{
			p.Name,
			result,
			durationMillis(p.StartTimeMillis, p.EndTimeMillis),
			formatMeasurements(p.Measurements),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Phases %d", len(phases)), "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func renderSummaryTable(summaries []record.Summary, outcome func(record.Outcome) string) string {
	var tableBuffer bytes.Buffer

	sorted := append([]record.Summary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTimeMillis < sorted[j].StartTimeMillis
	})

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Run", "DUT", "Outcome", "Phases", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT,
	})

	passed := 0

	for _, sum := range sorted {
		if sum.Outcome == record.OutcomePass {
			passed++
		}

		table.Append([]string{
			shortID(sum.ID),
			sum.DUTID,
			outcome(sum.Outcome),
			fmt.Sprintf("%d", sum.PhaseCount),
			durationMillis(sum.StartTimeMillis, sum.EndTimeMillis),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Runs %d", len(sorted)),
		"",
		fmt.Sprintf("%d passed", passed),
		"",
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func formatMeasurements(ms []record.MeasurementRecord) string {
	parts := make([]string, 0, len(ms))

	for _, m := range ms {
		if !m.Set {
			parts = append(parts, m.Name+"=<unset>")
			continue
		}

		value := fmt.Sprint(m.Value)
		if m.Units != "" {
			value += " " + m.Units
		}

		parts = append(parts, m.Name+"="+value)
	}

	return strings.Join(parts, ", ")
}

func formatMillis(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
