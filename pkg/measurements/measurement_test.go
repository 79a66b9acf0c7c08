package measurements

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestWithArgs(t *testing.T) {
	m := New("voltage_ch{channel}").Doc("Voltage on channel {channel} at {load}").WithUnits("V")

	got := m.WithArgs(map[string]any{"channel": 2, "load": "50%"})

	want := Measurement{
		Name:      "voltage_ch2",
		Docstring: "Voltage on channel 2 at 50%",
		Units:     "V",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WithArgs() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "voltage_ch{channel}", m.Name, "original must not change")
}

func TestWithArgs_NoArgs(t *testing.T) {
	m := New("current")
	assert.Equal(t, m, m.WithArgs(nil))
}

func TestClone_TagsIndependent(t *testing.T) {
	m := New("temp")
	m.Tags = []string{"thermal"}

	c := m.Clone()
	c.Tags[0] = "changed"

	assert.Equal(t, "thermal", m.Tags[0])
}
