package record

import (
	"sync"

	"github.com/google/uuid"
)

// Outcome is the overall result of a test run.
type Outcome string

const (
	// OutcomePass indicates every phase completed without error.
	OutcomePass Outcome = "PASS"
	// OutcomeFail indicates a phase reported a failure.
	OutcomeFail Outcome = "FAIL"
	// OutcomeError indicates the framework or a plug failed.
	OutcomeError Outcome = "ERROR"
	// OutcomeTimeout indicates a phase exceeded its timeout.
	OutcomeTimeout Outcome = "TIMEOUT"
	// OutcomeAborted indicates the run was stopped before completion.
	OutcomeAborted Outcome = "ABORTED"
)

// LogRecord is one log event captured into a test record. It is never
// modified after it has been appended.
type LogRecord struct {
	Level           int    `json:"level" yaml:"level"`
	LoggerName      string `json:"logger_name" yaml:"logger_name"`
	Source          string `json:"source" yaml:"source"`
	LineNo          int    `json:"lineno" yaml:"lineno"`
	TimestampMillis int64  `json:"timestamp_millis" yaml:"timestamp_millis"`
	Message         string `json:"message" yaml:"message"`
}

// MeasurementRecord is the recorded value of a single measurement.
type MeasurementRecord struct {
	Name      string `json:"name" yaml:"name"`
	Docstring string `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	Units     string `json:"units,omitempty" yaml:"units,omitempty"`
	Value     any    `json:"value,omitempty" yaml:"value,omitempty"`
	Set       bool   `json:"set" yaml:"set"`
}

// PhaseRecord holds the outcome of a single phase invocation.
type PhaseRecord struct {
	Name            string              `json:"name" yaml:"name"`
	CodeInfo        CodeInfo            `json:"code_info" yaml:"code_info"`
	StartTimeMillis int64               `json:"start_time_millis" yaml:"start_time_millis"`
	EndTimeMillis   int64               `json:"end_time_millis" yaml:"end_time_millis"`
	Result          string              `json:"result" yaml:"result"`
	Error           string              `json:"error,omitempty" yaml:"error,omitempty"`
	Measurements    []MeasurementRecord `json:"measurements,omitempty" yaml:"measurements,omitempty"`
}

// TestRecord accumulates everything known about one test execution. Log
// records and phase records may be appended concurrently.
type TestRecord struct {
	ID              string         `json:"id" yaml:"id"`
	DUTID           string         `json:"dut_id" yaml:"dut_id"`
	StationID       string         `json:"station_id" yaml:"station_id"`
	StartTimeMillis int64          `json:"start_time_millis" yaml:"start_time_millis"`
	EndTimeMillis   int64          `json:"end_time_millis" yaml:"end_time_millis"`
	Outcome         Outcome        `json:"outcome" yaml:"outcome"`
	CodeInfo        CodeInfo       `json:"code_info" yaml:"code_info"`
	Metadata        map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Phases          []PhaseRecord  `json:"phases" yaml:"phases"`
	LogRecords      []LogRecord    `json:"log_records" yaml:"log_records"`

	mu sync.Mutex
}

// NewTestRecord creates an empty record with a fresh ID.
func NewTestRecord(dutID, stationID string, codeInfo CodeInfo, metadata map[string]any) *TestRecord {
	return &TestRecord{
		ID:        uuid.NewString(),
		DUTID:     dutID,
		StationID: stationID,
		CodeInfo:  codeInfo,
		Metadata:  metadata,
	}
}

// AppendLogRecord appends a log record.
func (r *TestRecord) AppendLogRecord(lr LogRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.LogRecords = append(r.LogRecords, lr)
}

// AppendPhase appends a phase record.
func (r *TestRecord) AppendPhase(pr PhaseRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Phases = append(r.Phases, pr)
}

// Logs returns a copy of the log records captured so far.
func (r *TestRecord) Logs() []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]LogRecord(nil), r.LogRecords...)
}

// PhaseRecords returns a copy of the phase records captured so far.
func (r *TestRecord) PhaseRecords() []PhaseRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]PhaseRecord(nil), r.Phases...)
}

// Start stamps the start time.
func (r *TestRecord) Start(startMillis int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.StartTimeMillis = startMillis
}

// Snapshot returns a copy that is safe to read while r is still being
// written to.
func (r *TestRecord) Snapshot() *TestRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadata := make(map[string]any, len(r.Metadata))
	for k, v := range r.Metadata {
		metadata[k] = v
	}

	return &TestRecord{
		ID:              r.ID,
		DUTID:           r.DUTID,
		StationID:       r.StationID,
		StartTimeMillis: r.StartTimeMillis,
		EndTimeMillis:   r.EndTimeMillis,
		Outcome:         r.Outcome,
		CodeInfo:        r.CodeInfo,
		Metadata:        metadata,
		Phases:          append([]PhaseRecord(nil), r.Phases...),
		LogRecords:      append([]LogRecord(nil), r.LogRecords...),
	}
}

// Finish stamps the end time and outcome.
func (r *TestRecord) Finish(outcome Outcome, endMillis int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Outcome = outcome
	r.EndTimeMillis = endMillis
}

// Summary is a flat, gob-friendly digest of a finished record.
type Summary struct {
	ID              string
	DUTID           string
	StationID       string
	Outcome         Outcome
	StartTimeMillis int64
	EndTimeMillis   int64
	PhaseCount      int
	LogCount        int
}

// Summarize builds a Summary of the record.
func (r *TestRecord) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Summary{
		ID:              r.ID,
		DUTID:           r.DUTID,
		StationID:       r.StationID,
		Outcome:         r.Outcome,
		StartTimeMillis: r.StartTimeMillis,
		EndTimeMillis:   r.EndTimeMillis,
		PhaseCount:      len(r.Phases),
		LogCount:        len(r.LogRecords),
	}
}
