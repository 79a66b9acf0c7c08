// Package measurements declares the named data points a phase can report.
// Validation of measured values is left to the executor's consumers.
package measurements

import (
	"fmt"
	"sort"
	"strings"
)

// Measurement declares a named value a phase is expected to set.
type Measurement struct {
	Name      string
	Docstring string
	Units     string
	// Tags are free-form labels copied into output integrations.
	Tags []string
}

// New returns a measurement with the given name.
func New(name string) Measurement {
	return Measurement{Name: name}
}

// Doc returns a copy with the docstring set.
func (m Measurement) Doc(doc string) Measurement {
	m = m.Clone()
	m.Docstring = doc

	return m
}

// WithUnits returns a copy with the units set.
func (m Measurement) WithUnits(units string) Measurement {
	m = m.Clone()
	m.Units = units

	return m
}

// Clone returns a deep copy.
func (m Measurement) Clone() Measurement {
	m.Tags = append([]string(nil), m.Tags...)
	return m
}

// WithArgs returns a copy whose {key} placeholders in the name and docstring
// are replaced by the matching argument values.
func (m Measurement) WithArgs(args map[string]any) Measurement {
	m = m.Clone()
	if len(args) == 0 {
		return m
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(args[k]))
	}

	replacer := strings.NewReplacer(pairs...)
	m.Name = replacer.Replace(m.Name)
	m.Docstring = replacer.Replace(m.Docstring)

	return m
}
