package outputs

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/record"
)

// JUnit XML schema, see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Errors     int                `xml:"errors,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Timestamp  int64              `xml:"timestamp,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName   xml.Name         `xml:"testcase"`
	Classname string           `xml:"classname,attr"`
	Name      string           `xml:"name,attr"`
	Time      string           `xml:"time,attr"`
	Failure   *jUnitXMLFailure `xml:"failure,omitempty"`
	Error     *jUnitXMLFailure `xml:"error,omitempty"`
	SystemOut string           `xml:"system-out,omitempty"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr,omitempty"`
	Contents string `xml:",chardata"`
}

// JUnit writes each record as a JUnit XML report under dir. Every phase
// becomes a test case.
func JUnit(dir string) Callback {
	pattern := joinPattern(dir, DefaultPattern+".xml")

	return func(rec *record.TestRecord) error {
		path := ExpandPattern(pattern, rec)

		data, err := MarshalJUnit(rec)
		if err != nil {
			return fmt.Errorf("failed to encode junit report: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create junit directory: %w", err)
		}

		return os.WriteFile(path, data, 0o600)
	}
}

// MarshalJUnit renders rec as a JUnit XML document.
func MarshalJUnit(rec *record.TestRecord) ([]byte, error) {
	snap := rec.Snapshot()

	suite := jUnitXMLTestSuite{
		Name:      snap.CodeInfo.Name,
		Timestamp: snap.StartTimeMillis,
		Time:      jUnitMillisString(snap.EndTimeMillis - snap.StartTimeMillis),
		Properties: []jUnitXMLProperty{
			{Name: "id", Value: snap.ID},
			{Name: "dut_id", Value: snap.DUTID},
			{Name: "station_id", Value: snap.StationID},
			{Name: "outcome", Value: string(snap.Outcome)},
		},
	}

	for _, p := range snap.Phases {
		suite.Tests++

		tc := jUnitXMLTestCase{
			Classname: snap.CodeInfo.Name,
			Name:      p.Name,
			Time:      jUnitMillisString(p.EndTimeMillis - p.StartTimeMillis),
			SystemOut: measurementLines(p.Measurements),
		}

		switch {
		case p.Error != "":
			suite.Errors++
			tc.Error = &jUnitXMLFailure{Message: firstLine(p.Error), Contents: p.Error}
		case p.Result == phase.Stop.String():
			suite.Failures++
			tc.Failure = &jUnitXMLFailure{Message: "phase requested stop", Type: p.Result}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	data, err := xml.MarshalIndent(jUnitXMLDocument{Suites: []jUnitXMLTestSuite{suite}}, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), append(data, '\n')...), nil
}

func jUnitMillisString(ms int64) string {
	return fmt.Sprintf("%.3f", float64(ms)/1000)
}

func measurementLines(ms []record.MeasurementRecord) string {
	lines := make([]string, 0, len(ms))

	for _, m := range ms {
		if !m.Set {
			lines = append(lines, m.Name+"=<unset>")
			continue
		}

		line := fmt.Sprintf("%s=%v", m.Name, m.Value)
		if m.Units != "" {
			line += " " + m.Units
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
