package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"htf.dev/pkg/htf/pkg/record"
)

func summary(id string, outcome record.Outcome) record.Summary {
	return record.Summary{ID: id, DUTID: "SN-" + id, Outcome: outcome, PhaseCount: 2}
}

func TestFileSpill(t *testing.T) {
	t.Run("NewFileSpill creates file in dir", func(t *testing.T) {
		dir := t.TempDir()

		spill, err := NewFileSpill[record.Summary](dir)
		require.NoError(t, err)
		defer spill.Remove()

		require.Equal(t, dir, filepath.Dir(spill.Path()))
		require.FileExists(t, spill.Path())
	})

	t.Run("NewFileSpill defaults to temp dir", func(t *testing.T) {
		spill, err := NewFileSpill[int]("")
		require.NoError(t, err)
		defer spill.Remove()

		require.Equal(t, filepath.Join(os.TempDir(), "htf-spill"), filepath.Dir(spill.Path()))
	})

	t.Run("NewFileSpill fails on unusable dir", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "plain")
		require.NoError(t, os.WriteFile(file, nil, 0o600))

		_, err := NewFileSpill[int](filepath.Join(file, "sub"))
		require.Error(t, err)
	})

	t.Run("Append and Get summaries", func(t *testing.T) {
		spill, err := NewFileSpill[record.Summary](t.TempDir())
		require.NoError(t, err)
		defer spill.Remove()

		require.NoError(t, spill.Append(summary("a", record.OutcomePass)))
		require.NoError(t, spill.Append(summary("b", record.OutcomeFail)))
		require.Equal(t, uint64(2), spill.Len())

		got, err := spill.Get(1)
		require.NoError(t, err)
		require.Equal(t, summary("b", record.OutcomeFail), got)

		got, err = spill.Get(2)
		require.Error(t, err)
		require.Equal(t, record.Summary{}, got)
	})

	t.Run("AppendBatch and Range keep order", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Remove()

		require.NoError(t, spill.AppendBatch([]int{10, 20, 30}))

		var seen []int

		err = spill.Range(func(index uint64, item int) error {
			require.Equal(t, seen == nil, index == 0)

			seen = append(seen, item)

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []int{10, 20, 30}, seen)
	})

	t.Run("Range stops on callback error", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Remove()

		require.NoError(t, spill.AppendBatch([]int{1, 2, 3}))

		stop := errors.New("stop")
		calls := 0

		err = spill.Range(func(uint64, int) error {
			calls++
			return stop
		})
		require.ErrorIs(t, err, stop)
		require.Equal(t, 1, calls)
	})

	t.Run("Readable after Close but not appendable", func(t *testing.T) {
		spill, err := NewFileSpill[string](t.TempDir())
		require.NoError(t, err)
		defer spill.Remove()

		require.NoError(t, spill.Append("first"))
		require.NoError(t, spill.Close())
		require.NoError(t, spill.Close())

		got, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, "first", got)

		require.Error(t, spill.Append("second"))
	})

	t.Run("Remove deletes the file", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)

		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Remove())
		require.NoFileExists(t, spill.Path())
		require.Equal(t, uint64(0), spill.Len())
		require.NoError(t, spill.Remove())
	})
}

func BenchmarkFileSpill_Append(b *testing.B) {
	spill, err := NewFileSpill[record.Summary](b.TempDir())
	require.NoError(b, err)
	defer spill.Remove()

	s := summary("bench", record.OutcomePass)

	for b.Loop() {
		_ = spill.Append(s)
	}
}
