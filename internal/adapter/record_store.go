package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"htf.dev/pkg/htf/pkg/record"
)

// ErrUnknownFormat is returned for record files that are neither JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown record format")

// Format is the on-disk encoding of a record file.
type Format string

const (
	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"
	// FormatYAML writes YAML.
	FormatYAML Format = "yaml"
)

// RecordStore reads and writes finished test records.
type RecordStore interface {
	SaveRecord(path string, rec *record.TestRecord) error
	LoadRecord(path string) (*record.TestRecord, error)
}

// FileRecordStore stores records as files, picking the format from the
// file extension.
type FileRecordStore struct{}

// NewFileRecordStore returns a FileRecordStore.
func NewFileRecordStore() *FileRecordStore {
	return &FileRecordStore{}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Encode serializes rec in the given format.
func Encode(format Format, rec *record.TestRecord) ([]byte, error) {
	snap := rec.Snapshot()

	switch format {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		return yaml.Marshal(snap)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// SaveRecord implements RecordStore.
func (s *FileRecordStore) SaveRecord(path string, rec *record.TestRecord) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := Encode(format, rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		slog.Error("Failed to write record", "path", path, "error", err)
		return fmt.Errorf("failed to write record: %w", err)
	}

	slog.Debug("Saved record", "path", path, "id", rec.ID)

	return nil
}

// LoadRecord implements RecordStore.
func (s *FileRecordStore) LoadRecord(path string) (*record.TestRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	rec := &record.TestRecord{}

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, rec)
	case FormatYAML:
		err = yaml.Unmarshal(data, rec)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", path, err)
	}

	return rec, nil
}
