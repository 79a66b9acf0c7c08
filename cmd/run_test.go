package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"htf.dev/pkg/htf/internal/controller"
	controllermocks "htf.dev/pkg/htf/internal/controller/mocks"
	"htf.dev/pkg/htf/pkg/record"
)

const (
	startMessage = "Provide a DUT ID in order to start the test."
	stopMessage  = "Hit ENTER to complete the test."
)

func swapUI(t *testing.T, replacement controller.UI) {
	t.Helper()

	originalUI := ui
	ui = replacement

	t.Cleanup(func() { ui = originalUI })
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"run"}, args...))

	return cmd.Execute()
}

func TestRunCmd_WritesOutputs(t *testing.T) {
	out := &bytes.Buffer{}
	swapUI(t, controller.NewSimpleUI(strings.NewReader(""), out))

	dir := t.TempDir()

	require.NoError(t, runCommand(t, "--count", "2", "--output-dir", dir, "--dut-serial", "SN-7"))

	for _, ext := range []string{"json", "yaml", "xml"} {
		files, err := filepath.Glob(filepath.Join(dir, "SN-7.*."+ext))
		require.NoError(t, err)
		assert.Len(t, files, 2, ext)
	}

	files, err := filepath.Glob(filepath.Join(dir, "SN-7.*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	rec, err := recordStore.LoadRecord(files[0])
	require.NoError(t, err)
	assert.Equal(t, record.OutcomePass, rec.Outcome)
	assert.Equal(t, "demo", rec.Metadata["station_type"])
	assert.Len(t, rec.Phases, 5)

	assert.Contains(t, out.String(), "power_on")
	assert.Contains(t, strings.ToUpper(out.String()), "TOTAL RUNS 2")
}

func TestRunCmd_PromptLoopsUntilCancelled(t *testing.T) {
	mockUI := controllermocks.NewMockUI(t)
	swapUI(t, mockUI)

	mockUI.EXPECT().Prompt(mock.Anything, startMessage, true).Return("SN-A", nil).Once()
	mockUI.EXPECT().Prompt(mock.Anything, stopMessage, false).Return("", nil).Once()
	mockUI.EXPECT().Prompt(mock.Anything, startMessage, true).Return("", controller.ErrPromptCancelled).Once()

	mockUI.EXPECT().DisplayRecord(mock.Anything, mock.MatchedBy(func(rec *record.TestRecord) bool {
		return rec.DUTID == "SN-A"
	})).Return(nil).Once()

	mockUI.EXPECT().DisplaySummaries(mock.Anything, mock.MatchedBy(func(s []record.Summary) bool {
		return len(s) == 1 && s[0].DUTID == "SN-A" && s[0].Outcome == record.OutcomePass
	})).Return(nil).Once()

	require.NoError(t, runCommand(t, "--count", "0", "--prompt", "--output-dir", ""))
}

func TestRunCmd_RejectsArgs(t *testing.T) {
	require.Error(t, runCommand(t, "extra"))
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{countFlagName, promptFlagName, httpPortFlagName, outputDirFlagName} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
