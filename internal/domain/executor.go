// Package domain runs test phases: the default sequential executor and the
// bundled demo station.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"htf.dev/pkg/htf/pkg/logs"
	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
	"htf.dev/pkg/htf/pkg/triggers"
)

// RepeatLimit is how many times a phase returning phase.Repeat is re-run
// before the executor moves on.
const RepeatLimit = 3

var (
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("executor already started")
	// ErrNotStarted is returned by Wait before Start.
	ErrNotStarted = errors.New("executor not started")
	// ErrAborted is returned by Wait when Stop ended the run.
	ErrAborted = errors.New("test aborted")
	// ErrPhaseTimeout is recorded when a phase exceeds its timeout.
	ErrPhaseTimeout = errors.New("phase timed out")
)

// Plan is the part of a test definition the executor runs.
type Plan struct {
	CodeInfo  record.CodeInfo
	Metadata  map[string]any
	Phases    []*phase.Info
	PlugTypes []plugs.Type
}

// Status is the coarse progress of a run.
type Status string

// Available Status values.
const (
	StatusWaiting   Status = "WAITING_FOR_TEST_START"
	StatusRunning   Status = "RUNNING"
	StatusTeardown  Status = "TEARDOWN"
	StatusCompleted Status = "COMPLETED"
)

// TestState is the live view of a run. It exists once the DUT is known.
type TestState struct {
	mu     sync.Mutex
	status Status
	phase  string
	rec    *record.TestRecord
}

func newTestState(rec *record.TestRecord) *TestState {
	return &TestState{status: StatusRunning, rec: rec}
}

// String implements fmt.Stringer.
func (s *TestState) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fmt.Sprintf("<TestState: status=%s, phase=%q, dut=%q>", s.status, s.phase, s.rec.DUTID)
}

// Status returns the current status.
func (s *TestState) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Phase returns the name of the running phase, if any.
func (s *TestState) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// Record returns the record being built.
func (s *TestState) Record() *record.TestRecord {
	return s.rec
}

func (s *TestState) set(status Status, phaseName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.phase = phaseName
}

// ExecutorOption configures a TestExecutor.
type ExecutorOption func(*TestExecutor)

// WithStationID sets the station stamped on the record.
func WithStationID(id string) ExecutorOption {
	return func(e *TestExecutor) {
		e.stationID = id
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *TestExecutor) {
		e.now = now
	}
}

// WithRecordLogger replaces logs.AttachRecord.
func WithRecordLogger(attach func(*record.TestRecord) (*slog.Logger, func())) ExecutorOption {
	return func(e *TestExecutor) {
		e.attach = attach
	}
}

// TestExecutor runs a Plan's phases one after another in its own goroutine.
type TestExecutor struct {
	plan      Plan
	plugs     plugs.Lifecycle
	teardown  *phase.Info
	stationID string
	now       func() time.Time
	attach    func(*record.TestRecord) (*slog.Logger, func())

	mu        sync.Mutex
	testStart triggers.TestStart
	state     *TestState
	started   bool
	stopped   bool
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

// NewTestExecutor returns an executor for plan. lifecycle provides the plugs
// and teardown, if not nil, runs after the phases however they ended.
func NewTestExecutor(plan Plan, lifecycle plugs.Lifecycle, teardown *phase.Info, opts ...ExecutorOption) *TestExecutor {
	ctx, cancel := context.WithCancel(context.Background())

	e := &TestExecutor{
		plan:      plan,
		plugs:     lifecycle,
		teardown:  teardown,
		now:       time.Now,
		attach:    logs.AttachRecord,
		testStart: triggers.AutoStart,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SetTestStart sets the trigger that provides the DUT identifier.
func (e *TestExecutor) SetTestStart(ts triggers.TestStart) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ts != nil {
		e.testStart = ts
	}
}

// Start launches the run.
func (e *TestExecutor) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}

	e.started = true

	go e.run()

	return nil
}

// Wait blocks until the run finishes. Phase failures are reported in the
// record outcome, not here.
func (e *TestExecutor) Wait() error {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()

	if !started {
		return ErrNotStarted
	}

	<-e.done

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.err
}

// Stop aborts the run. The running phase's context is cancelled and the
// teardown still runs. Stop does not wait.
func (e *TestExecutor) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()

	e.cancel()
}

// State returns the live state, or nil before the DUT is known.
func (e *TestExecutor) State() *TestState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

func (e *TestExecutor) finish(err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()

	e.cancel()
	close(e.done)
}

func (e *TestExecutor) run() {
	e.mu.Lock()
	testStart := e.testStart
	e.mu.Unlock()

	dutID, err := testStart(e.ctx)
	if err != nil {
		if e.ctx.Err() != nil {
			e.finish(ErrAborted)
			return
		}

		slog.Error("Test start trigger failed", "error", err)
		e.finish(fmt.Errorf("test start trigger: %w", err))

		return
	}

	rec := record.NewTestRecord(dutID, e.stationID, e.plan.CodeInfo, e.plan.Metadata)
	rec.Start(e.now().UnixMilli())
	state := newTestState(rec)

	e.mu.Lock()
	e.state = state
	e.mu.Unlock()

	logger, detach := e.attach(rec)
	defer detach()

	logger.Info("Starting test", "dut_id", dutID, "phases", len(e.plan.Phases))

	outcome := e.runPhases(state, logger)

	state.set(StatusTeardown, "")

	if e.teardown != nil {
		if err := e.runTeardown(rec, logger); err != nil && outcome == record.OutcomePass {
			outcome = record.OutcomeError
		}
	}

	if e.plugs != nil {
		if err := e.plugs.TearDown(); err != nil {
			logger.Error("Plug teardown failed", logs.Exception(err))
		}
	}

	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()

	if stopped {
		outcome = record.OutcomeAborted
	}

	rec.Finish(outcome, e.now().UnixMilli())
	state.set(StatusCompleted, "")
	logger.Info("Test finished", "outcome", outcome)

	if stopped {
		e.finish(ErrAborted)
		return
	}

	e.finish(nil)
}

func (e *TestExecutor) runPhases(state *TestState, logger *slog.Logger) record.Outcome {
	if e.plugs != nil {
		if err := e.plugs.Initialize(e.ctx, e.plan.PlugTypes); err != nil {
			logger.Error("Plug initialization failed", logs.Exception(err))
			return record.OutcomeError
		}
	}

	for _, p := range e.plan.Phases {
		if e.ctx.Err() != nil {
			return record.OutcomeAborted
		}

		state.set(StatusRunning, p.Name())

		outcome, stop := e.runPhase(e.ctx, p, state.Record(), logger)
		if stop {
			return outcome
		}
	}

	return record.OutcomePass
}

// runPhase runs p, repeating it as requested. stop reports whether the test
// must end with outcome.
func (e *TestExecutor) runPhase(ctx context.Context, p *phase.Info, rec *record.TestRecord, logger *slog.Logger) (record.Outcome, bool) {
	for attempt := 0; ; attempt++ {
		data := phase.NewData(ctx, logger, rec, e.plugs)

		if p.Options.RunIf != nil && !p.Options.RunIf(data) {
			logger.Debug("Skipping phase", "phase", p.Name())
			return record.OutcomePass, false
		}

		logger.Debug("Executing phase", "phase", p.Name(), "attempt", attempt)

		start := e.now().UnixMilli()
		result, err := invokeWithTimeout(data, p)
		pr := e.phaseRecord(p, data, start, result, err)
		rec.AppendPhase(pr)

		switch {
		case errors.Is(err, ErrPhaseTimeout):
			logger.Error("Phase timed out", "phase", p.Name(), "timeout", p.Options.Timeout)
			return record.OutcomeTimeout, true
		case ctx.Err() != nil:
			return record.OutcomeAborted, true
		case err != nil:
			logger.Error("Phase raised", "phase", p.Name(), logs.Exception(err))
			return record.OutcomeError, true
		}

		switch result {
		case phase.Stop:
			logger.Info("Phase requested stop", "phase", p.Name())
			return record.OutcomeFail, true
		case phase.Repeat:
			if attempt < RepeatLimit {
				continue
			}

			logger.Warn("Phase repeat limit reached", "phase", p.Name(), "limit", RepeatLimit)
		}

		return record.OutcomePass, false
	}
}

func (e *TestExecutor) runTeardown(rec *record.TestRecord, logger *slog.Logger) error {
	// The run context may already be cancelled by Stop.
	ctx := context.WithoutCancel(e.ctx)
	data := phase.NewData(ctx, logger, rec, e.plugs)

	start := e.now().UnixMilli()
	result, err := invokeWithTimeout(data, e.teardown)
	rec.AppendPhase(e.phaseRecord(e.teardown, data, start, result, err))

	if err != nil {
		logger.Error("Teardown phase failed", "phase", e.teardown.Name(), logs.Exception(err))
	}

	return err
}

func (e *TestExecutor) phaseRecord(p *phase.Info, data *phase.Data, start int64, result phase.Result, err error) record.PhaseRecord {
	measured := data.Measured()
	ms := make([]record.MeasurementRecord, 0, len(p.Measurements)+len(measured))
	declared := make(map[string]bool, len(p.Measurements))

	for _, m := range p.Measurements {
		value, set := measured[m.Name]
		declared[m.Name] = true
		ms = append(ms, record.MeasurementRecord{
			Name:      m.Name,
			Docstring: m.Docstring,
			Units:     m.Units,
			Value:     value,
			Set:       set,
		})
	}

	for name, value := range measured {
		if !declared[name] {
			ms = append(ms, record.MeasurementRecord{Name: name, Value: value, Set: true})
		}
	}

	pr := record.PhaseRecord{
		Name:            p.Name(),
		CodeInfo:        p.CodeInfo,
		StartTimeMillis: start,
		EndTimeMillis:   e.now().UnixMilli(),
		Result:          result.String(),
		Measurements:    sortMeasurements(ms, len(p.Measurements)),
	}

	if err != nil {
		pr.Error = err.Error()
	}

	return pr
}

// sortMeasurements keeps declared measurements in declaration order and sorts
// the undeclared ones after them by name.
func sortMeasurements(ms []record.MeasurementRecord, declared int) []record.MeasurementRecord {
	extra := ms[declared:]
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })

	return ms
}

// invokeWithTimeout runs the phase in its own goroutine so a timeout or a
// cancelled context returns control even if the phase ignores its context.
// Panics are converted to errors.
func invokeWithTimeout(data *phase.Data, p *phase.Info) (phase.Result, error) {
	ctx := data.Ctx

	if p.Options.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.Options.Timeout)
		defer cancel()

		data.Ctx = ctx
	}

	type outcome struct {
		result phase.Result
		err    error
	}

	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{result: phase.Stop, err: fmt.Errorf("phase panicked: %v\n%s", r, debug.Stack())}
			}
		}()

		result, err := p.Invoke(data)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return phase.Stop, fmt.Errorf("%w after %s", ErrPhaseTimeout, p.Options.Timeout)
		}

		return phase.Stop, ctx.Err()
	}
}
