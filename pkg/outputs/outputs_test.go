package outputs

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htf.dev/pkg/htf/internal/adapter"
	"htf.dev/pkg/htf/internal/controller"
	"htf.dev/pkg/htf/pkg"
	"htf.dev/pkg/htf/pkg/record"
)

func finishedRecord() *record.TestRecord {
	rec := record.NewTestRecord("SN-42", "bench-1", record.CodeInfo{Name: "board_test"}, nil)
	rec.Start(5000)
	rec.AppendPhase(record.PhaseRecord{
		Name: "power_on", StartTimeMillis: 5000, EndTimeMillis: 5100, Result: "CONTINUE",
		Measurements: []record.MeasurementRecord{{Name: "vcc", Units: "V", Value: 3.3, Set: true}, {Name: "icc"}},
	})
	rec.AppendPhase(record.PhaseRecord{Name: "check", StartTimeMillis: 5100, EndTimeMillis: 5200, Result: "STOP"})
	rec.AppendPhase(record.PhaseRecord{Name: "cleanup", Result: "STOP", Error: "relay stuck\ntrace"})
	rec.Finish(record.OutcomeFail, 6500)

	return rec
}

func TestExpandPattern(t *testing.T) {
	rec := finishedRecord()

	got := ExpandPattern("{station_id}/{dut_id}.{outcome}.{start_time_millis}.{id}", rec)
	assert.Equal(t, "bench-1/SN-42.FAIL.5000."+rec.ID, got)
	assert.Equal(t, "plain", ExpandPattern("plain", rec))
}

func TestFileOutputs_RoundTrip(t *testing.T) {
	store := adapter.NewFileRecordStore()

	tests := []struct {
		name     string
		callback func(dir string) Callback
		ext      string
	}{
		{name: "json", callback: JSON, ext: ".json"},
		{name: "yaml", callback: YAML, ext: ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			rec := finishedRecord()

			require.NoError(t, tt.callback(dir)(rec))

			loaded, err := store.LoadRecord(filepath.Join(dir, "SN-42.5000"+tt.ext))
			require.NoError(t, err)
			assert.Equal(t, rec.ID, loaded.ID)
			assert.Equal(t, record.OutcomeFail, loaded.Outcome)
			assert.Len(t, loaded.Phases, 3)
			assert.Equal(t, "relay stuck\ntrace", loaded.Phases[2].Error)
		})
	}
}

func TestToFile_UnknownFormat(t *testing.T) {
	cb := ToFile(adapter.NewFileRecordStore(), filepath.Join(t.TempDir(), "{dut_id}.txt"))

	err := cb(finishedRecord())
	require.ErrorIs(t, err, adapter.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "SN-42.txt")
}

func TestMarshalJUnit(t *testing.T) {
	data, err := MarshalJUnit(finishedRecord())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte(xml.Header)))

	var doc jUnitXMLDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 1)

	suite := doc.Suites[0]
	assert.Equal(t, "board_test", suite.Name)
	assert.Equal(t, 3, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 1, suite.Errors)
	assert.Equal(t, "1.500", suite.Time)
	assert.Contains(t, suite.Properties, jUnitXMLProperty{Name: "dut_id", Value: "SN-42"})

	require.Len(t, suite.TestCases, 3)
	assert.Equal(t, "vcc=3.3 V\nicc=<unset>", suite.TestCases[0].SystemOut)
	assert.Equal(t, "0.100", suite.TestCases[0].Time)
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Failure)
	require.NotNil(t, suite.TestCases[2].Error)
	assert.Equal(t, "relay stuck", suite.TestCases[2].Error.Message)
}

func TestJUnit_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	require.NoError(t, JUnit(dir)(finishedRecord()))

	data, err := os.ReadFile(filepath.Join(dir, "SN-42.5000.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<testcase classname="board_test" name="power_on"`)
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer

	ui := controller.NewSimpleUI(strings.NewReader(""), &out)

	require.NoError(t, Console(ui)(finishedRecord()))
	assert.Contains(t, out.String(), "SN-42")
	assert.Contains(t, out.String(), "power_on")
}

func TestSpill(t *testing.T) {
	spill, err := pkg.NewFileSpill[record.Summary](t.TempDir())
	require.NoError(t, err)

	defer func() { require.NoError(t, spill.Remove()) }()

	cb := Spill(spill)
	rec := finishedRecord()

	require.NoError(t, cb(rec))
	require.NoError(t, cb(rec))
	require.Equal(t, uint64(2), spill.Len())

	got, err := spill.Get(1)
	require.NoError(t, err)
	assert.Equal(t, rec.Summarize(), got)
}

func TestSpill_Closed(t *testing.T) {
	spill, err := pkg.NewFileSpill[record.Summary](t.TempDir())
	require.NoError(t, err)
	require.NoError(t, spill.Remove())

	err = Spill(spill)(finishedRecord())
	require.Error(t, err)
	assert.False(t, errors.Is(err, adapter.ErrUnknownFormat))
}
