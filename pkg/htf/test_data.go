package htf

import (
	"fmt"
	"maps"
	"sort"

	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
)

// ConfigMetadataKey holds the configuration snapshot in test metadata.
const ConfigMetadataKey = "config"

// TestData is the static description of a test: its phases, where it was
// defined and free-form metadata.
type TestData struct {
	Phases   []*phase.Info
	CodeInfo record.CodeInfo
	Metadata map[string]any
}

// NewTestData wraps or copies every phase. metadata is copied.
func NewTestData(phases []any, codeInfo record.CodeInfo, metadata map[string]any) (*TestData, error) {
	infos := make([]*phase.Info, 0, len(phases))

	for i, p := range phases {
		info, err := phase.WrapOrCopy(p)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}

		infos = append(infos, info)
	}

	md := make(map[string]any, len(metadata)+1)
	maps.Copy(md, metadata)

	return &TestData{Phases: infos, CodeInfo: codeInfo, Metadata: md}, nil
}

// PlugTypes returns every distinct plug type requested by the phases, sorted
// by name.
func (d *TestData) PlugTypes() []plugs.Type {
	seen := make(map[plugs.Type]bool)

	var types []plugs.Type

	for _, p := range d.Phases {
		for _, plug := range p.Plugs {
			if seen[plug.Type] {
				continue
			}

			seen[plug.Type] = true
			types = append(types, plug.Type)
		}
	}

	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

	return types
}
