// Package outputs provides output callbacks that receive every finished
// test record.
package outputs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"htf.dev/pkg/htf/internal/adapter"
	"htf.dev/pkg/htf/internal/controller"
	"htf.dev/pkg/htf/pkg"
	"htf.dev/pkg/htf/pkg/record"
)

// DefaultPattern names record files after the DUT and the start time.
const DefaultPattern = "{dut_id}.{start_time_millis}"

// Callback receives a finished test record.
type Callback = func(rec *record.TestRecord) error

// ExpandPattern substitutes record fields into pattern. Supported
// placeholders are {id}, {dut_id}, {station_id}, {outcome} and
// {start_time_millis}.
func ExpandPattern(pattern string, rec *record.TestRecord) string {
	return strings.NewReplacer(
		"{id}", rec.ID,
		"{dut_id}", rec.DUTID,
		"{station_id}", rec.StationID,
		"{outcome}", string(rec.Outcome),
		"{start_time_millis}", strconv.FormatInt(rec.StartTimeMillis, 10),
	).Replace(pattern)
}

// ToFile saves each record to the file named by pattern. The extension picks
// JSON or YAML.
func ToFile(store adapter.RecordStore, pattern string) Callback {
	return func(rec *record.TestRecord) error {
		path := ExpandPattern(pattern, rec)
		if err := store.SaveRecord(path, rec); err != nil {
			return fmt.Errorf("output %s: %w", path, err)
		}

		slog.Info("Wrote test record", "path", path)

		return nil
	}
}

// JSON saves each record as indented JSON under dir.
func JSON(dir string) Callback {
	return ToFile(adapter.NewFileRecordStore(), joinPattern(dir, DefaultPattern+".json"))
}

// YAML saves each record as YAML under dir.
func YAML(dir string) Callback {
	return ToFile(adapter.NewFileRecordStore(), joinPattern(dir, DefaultPattern+".yaml"))
}

// Console renders each record through ui.
func Console(ui controller.UI) Callback {
	return func(rec *record.TestRecord) error {
		return ui.DisplayRecord(context.Background(), rec)
	}
}

// Spill appends a summary of each record to s.
func Spill(s pkg.FileSpill[record.Summary]) Callback {
	return func(rec *record.TestRecord) error {
		return s.Append(rec.Summarize())
	}
}

func joinPattern(dir, name string) string {
	return filepath.Join(dir, name)
}
