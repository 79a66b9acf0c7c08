package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	controllermocks "htf.dev/pkg/htf/internal/controller/mocks"
	"htf.dev/pkg/htf/pkg/record"
)

func viewCommand(args ...string) error {
	cmd := newRootCmd()
	cmd.AddCommand(newViewCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"view"}, args...))

	return cmd.Execute()
}

func TestViewCmd_DisplaysSavedRecord(t *testing.T) {
	for _, name := range []string{"run.json", "run.yaml"} {
		t.Run(name, func(t *testing.T) {
			mockUI := controllermocks.NewMockUI(t)
			swapUI(t, mockUI)

			path := filepath.Join(t.TempDir(), name)
			rec := record.NewTestRecord("SN-9", "bench", record.CodeInfo{Name: "board"}, nil)
			rec.Finish(record.OutcomeFail, 10)
			require.NoError(t, recordStore.SaveRecord(path, rec))

			mockUI.EXPECT().DisplayRecord(mock.Anything, mock.MatchedBy(func(got *record.TestRecord) bool {
				return got.ID == rec.ID && got.DUTID == "SN-9" && got.Outcome == record.OutcomeFail
			})).Return(nil).Once()

			require.NoError(t, viewCommand(path))
		})
	}
}

func TestViewCmd_Errors(t *testing.T) {
	swapUI(t, controllermocks.NewMockUI(t))

	require.Error(t, viewCommand())
	require.ErrorContains(t, viewCommand(filepath.Join(t.TempDir(), "missing.json")), "failed to load record")
	require.Error(t, viewCommand("record.txt"))
}
