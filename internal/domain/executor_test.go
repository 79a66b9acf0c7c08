package domain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"htf.dev/pkg/htf/pkg/measurements"
	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func planOf(phases ...any) Plan {
	infos := make([]*phase.Info, len(phases))
	for i, p := range phases {
		infos[i] = phase.MustWrap(p)
	}

	return Plan{CodeInfo: record.CodeInfo{Name: "executor_test"}, Phases: infos}
}

func runToCompletion(t *testing.T, e *TestExecutor) error {
	t.Helper()

	require.NoError(t, e.Start())

	return e.Wait()
}

func phaseResults(rec *record.TestRecord) []string {
	var out []string
	for _, p := range rec.PhaseRecords() {
		out = append(out, p.Name+":"+p.Result)
	}

	return out
}

func TestExecutor_Pass(t *testing.T) {
	measured := phase.MustWrap(func(d *phase.Data) error {
		d.Measure("vcc", 3.3)
		d.Measure("extra", "yes")
		d.Logger.Info("measured vcc")

		return nil
	}).WithName("measure").WithMeasurements(measurements.New("vcc").WithUnits("V"), measurements.New("icc"))

	e := NewTestExecutor(Plan{CodeInfo: record.CodeInfo{Name: "board"}, Phases: []*phase.Info{measured}}, nil, nil,
		WithStationID("bench-1"))
	e.SetTestStart(func(context.Context) (string, error) { return "SN-1", nil })

	require.NoError(t, runToCompletion(t, e))

	state := e.State()
	require.NotNil(t, state)
	assert.Equal(t, StatusCompleted, state.Status())
	assert.Contains(t, state.String(), `dut="SN-1"`)

	rec := state.Record()
	assert.Equal(t, record.OutcomePass, rec.Outcome)
	assert.Equal(t, "SN-1", rec.DUTID)
	assert.Equal(t, "bench-1", rec.StationID)
	assert.Equal(t, "board", rec.CodeInfo.Name)
	assert.Positive(t, rec.StartTimeMillis)
	assert.GreaterOrEqual(t, rec.EndTimeMillis, rec.StartTimeMillis)

	phases := rec.PhaseRecords()
	require.Len(t, phases, 1)
	assert.Equal(t, []record.MeasurementRecord{
		{Name: "vcc", Units: "V", Value: 3.3, Set: true},
		{Name: "icc"},
		{Name: "extra", Value: "yes", Set: true},
	}, phases[0].Measurements)

	var messages []string
	for _, l := range rec.Logs() {
		messages = append(messages, l.Message)
	}

	assert.Contains(t, messages, "measured vcc")
}

func TestExecutor_RepeatLimit(t *testing.T) {
	var calls atomic.Int32

	e := NewTestExecutor(planOf(func(*phase.Data) (phase.Result, error) {
		calls.Add(1)
		return phase.Repeat, nil
	}, func() {}), nil, nil)

	require.NoError(t, runToCompletion(t, e))

	assert.Equal(t, int32(RepeatLimit+1), calls.Load())
	assert.Equal(t, record.OutcomePass, e.State().Record().Outcome)
	assert.Len(t, e.State().Record().PhaseRecords(), RepeatLimit+2)
}

func TestExecutor_StopResult(t *testing.T) {
	var ranAfter atomic.Bool

	e := NewTestExecutor(planOf(
		func(*phase.Data) (phase.Result, error) { return phase.Stop, nil },
		func() { ranAfter.Store(true) },
	), nil, nil)

	require.NoError(t, runToCompletion(t, e))

	assert.False(t, ranAfter.Load())
	assert.Equal(t, record.OutcomeFail, e.State().Record().Outcome)
}

func TestExecutor_PhaseError(t *testing.T) {
	e := NewTestExecutor(planOf(func() error { return errors.New("relay stuck") }), nil, nil)

	require.NoError(t, runToCompletion(t, e))

	rec := e.State().Record()
	assert.Equal(t, record.OutcomeError, rec.Outcome)
	assert.Equal(t, "relay stuck", rec.PhaseRecords()[0].Error)
}

func TestExecutor_PhasePanic(t *testing.T) {
	e := NewTestExecutor(planOf(func() { panic("boom") }), nil, nil)

	require.NoError(t, runToCompletion(t, e))

	rec := e.State().Record()
	assert.Equal(t, record.OutcomeError, rec.Outcome)
	assert.Contains(t, rec.PhaseRecords()[0].Error, "phase panicked: boom")
}

func TestExecutor_Timeout(t *testing.T) {
	slow := phase.Options{Timeout: 20 * time.Millisecond}.MustApply(func(d *phase.Data) error {
		<-d.Ctx.Done()
		return d.Ctx.Err()
	})

	e := NewTestExecutor(Plan{Phases: []*phase.Info{slow}}, nil, nil)

	require.NoError(t, runToCompletion(t, e))

	rec := e.State().Record()
	assert.Equal(t, record.OutcomeTimeout, rec.Outcome)
	assert.Contains(t, rec.PhaseRecords()[0].Error, ErrPhaseTimeout.Error())
}

func TestExecutor_RunIf(t *testing.T) {
	var ran atomic.Bool

	skipped := phase.Options{RunIf: func(*phase.Data) bool { return false }}.MustApply(func() { ran.Store(true) })

	e := NewTestExecutor(Plan{Phases: []*phase.Info{skipped}}, nil, nil)

	require.NoError(t, runToCompletion(t, e))

	assert.False(t, ran.Load())
	assert.Empty(t, e.State().Record().PhaseRecords())
	assert.Equal(t, record.OutcomePass, e.State().Record().Outcome)
}

func TestExecutor_StopWhileRunning(t *testing.T) {
	started := make(chan struct{})

	var tornDown atomic.Bool

	blocking := func(d *phase.Data) error {
		close(started)
		<-d.Ctx.Done()

		return d.Ctx.Err()
	}

	teardown := phase.MustWrap(func(d *phase.Data) error {
		tornDown.Store(d.Ctx.Err() == nil)
		return nil
	})

	e := NewTestExecutor(planOf(blocking), nil, teardown)
	require.NoError(t, e.Start())

	<-started
	e.Stop()

	require.ErrorIs(t, e.Wait(), ErrAborted)
	assert.True(t, tornDown.Load(), "teardown runs with a live context")
	assert.Equal(t, record.OutcomeAborted, e.State().Record().Outcome)
}

func TestExecutor_TriggerError(t *testing.T) {
	e := NewTestExecutor(planOf(func() {}), nil, nil)
	e.SetTestStart(func(context.Context) (string, error) { return "", errors.New("no barcode") })

	err := runToCompletion(t, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no barcode")
	assert.Nil(t, e.State())
}

func TestExecutor_StopDuringTrigger(t *testing.T) {
	e := NewTestExecutor(planOf(func() {}), nil, nil)

	waiting := make(chan struct{})
	e.SetTestStart(func(ctx context.Context) (string, error) {
		close(waiting)
		<-ctx.Done()

		return "", ctx.Err()
	})

	require.NoError(t, e.Start())
	<-waiting
	e.Stop()

	require.ErrorIs(t, e.Wait(), ErrAborted)
	assert.Nil(t, e.State())
}

type brokenSupply struct{}

func (brokenSupply) Setup(context.Context) error { return errors.New("no usb") }

func TestExecutor_PlugInitFailure(t *testing.T) {
	plan := planOf(func() {})
	plan.PlugTypes = []plugs.Type{plugs.TypeOf[*brokenSupply]()}

	e := NewTestExecutor(plan, plugs.NewManager(), nil)

	require.NoError(t, runToCompletion(t, e))
	assert.Equal(t, record.OutcomeError, e.State().Record().Outcome)
	assert.Empty(t, e.State().Record().PhaseRecords())
}

func TestExecutor_StartTwiceAndWaitBeforeStart(t *testing.T) {
	e := NewTestExecutor(planOf(func() {}), nil, nil)

	require.ErrorIs(t, e.Wait(), ErrNotStarted)
	require.NoError(t, e.Start())
	require.ErrorIs(t, e.Start(), ErrAlreadyStarted)
	require.NoError(t, e.Wait())
}

func TestExecutor_Demo(t *testing.T) {
	phases := DemoPhases()
	infos := make([]*phase.Info, len(phases))

	var types []plugs.Type

	for i, p := range phases {
		infos[i] = phase.MustWrap(p)
		for _, plug := range infos[i].Plugs {
			types = append(types, plug.Type)
		}
	}

	e := NewTestExecutor(Plan{Phases: infos, PlugTypes: types}, plugs.NewManager(), DemoTeardown())

	require.NoError(t, runToCompletion(t, e))

	rec := e.State().Record()
	assert.Equal(t, record.OutcomePass, rec.Outcome, phaseResults(rec))

	phasesRun := rec.PhaseRecords()
	require.Len(t, phasesRun, 5)
	assert.Equal(t, "power_off", phasesRun[4].Name)

	rail := phasesRun[2].Measurements
	require.Len(t, rail, 1)
	assert.Equal(t, "rail_3v3_voltage", rail[0].Name)
	assert.True(t, rail[0].Set)
	assert.InDelta(t, 3.3, rail[0].Value, 0.05)
}
