package phase

import (
	"context"
	"log/slog"
	"sync"

	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
)

// Result tells the executor what to do after a phase returns.
type Result int

// Available Result values.
const (
	// Continue moves on to the next phase.
	Continue Result = iota
	// Repeat runs the same phase again.
	Repeat
	// Stop ends the test after this phase.
	Stop
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "CONTINUE"
	case Repeat:
		return "REPEAT"
	case Stop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// Args are keyword arguments passed to a phase function.
type Args map[string]any

// Clone returns a shallow copy of the map.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}

	return out
}

// Data is the phase context handed to phase functions that take one.
type Data struct {
	Ctx    context.Context
	Logger *slog.Logger
	Record *record.TestRecord
	Plugs  plugs.Provider

	mu       sync.Mutex
	measured map[string]any
}

// NewData builds the context for one phase invocation.
func NewData(ctx context.Context, logger *slog.Logger, rec *record.TestRecord, provider plugs.Provider) *Data {
	if ctx == nil {
		ctx = context.Background()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Data{
		Ctx:      ctx,
		Logger:   logger,
		Record:   rec,
		Plugs:    provider,
		measured: make(map[string]any),
	}
}

// Measure sets the value of a measurement.
func (d *Data) Measure(name string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.measured == nil {
		d.measured = make(map[string]any)
	}

	d.measured[name] = value
}

// Measured returns a copy of every value set so far.
func (d *Data) Measured() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]any, len(d.measured))
	for k, v := range d.measured {
		out[k] = v
	}

	return out
}
