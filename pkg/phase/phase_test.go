package phase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htf.dev/pkg/htf/pkg/measurements"
	"htf.dev/pkg/htf/pkg/plugs"
)

type dmm struct{ channel int }

type staticProvider map[string]any

func (s staticProvider) ProvidePlugs(reqs []plugs.Request) (map[string]any, error) {
	out := make(map[string]any, len(reqs))
	for _, r := range reqs {
		out[r.Name] = s[r.Name]
	}

	return out, nil
}

type failingProvider struct{}

func (failingProvider) ProvidePlugs([]plugs.Request) (map[string]any, error) {
	return nil, plugs.ErrNotInitialized
}

func measureVoltage(_ *Data) error { return nil }

func TestWrapOrCopy_BareFunctionsAreIndependent(t *testing.T) {
	a, err := WrapOrCopy(measureVoltage)
	require.NoError(t, err)
	b, err := WrapOrCopy(measureVoltage)
	require.NoError(t, err)

	assert.Equal(t, "measureVoltage", a.Name())
	assert.Equal(t, a.Name(), b.Name())

	a.Options.Timeout = time.Second
	a.Plugs = append(a.Plugs, NewPlug("dmm", plugs.TypeOf[*dmm]()))
	a.Measurements = append(a.Measurements, measurements.New("v"))
	a.ExtraKwargs["x"] = 1

	assert.Zero(t, b.Options.Timeout)
	assert.Empty(t, b.Plugs)
	assert.Empty(t, b.Measurements)
	assert.Empty(t, b.ExtraKwargs)
}

func TestWrapOrCopy_DescriptorIsDeepCopied(t *testing.T) {
	orig := MustWrap(measureVoltage).
		WithPlugs(NewPlug("dmm", plugs.TypeOf[*dmm]())).
		WithMeasurements(measurements.New("v"))

	cp, err := WrapOrCopy(orig)
	require.NoError(t, err)
	require.NotSame(t, orig, cp)

	cp.Plugs[0].Name = "other"
	cp.Measurements[0].Name = "changed"
	cp.Signature.Params[0] = "ctx"

	assert.Equal(t, "dmm", orig.Plugs[0].Name)
	assert.Equal(t, "v", orig.Measurements[0].Name)
	assert.Equal(t, "test", orig.Signature.Params[0])
}

func TestWrapOrCopy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"int", 3},
		{"string", "phase"},
		{"nil descriptor", (*Info)(nil)},
		{"nil func", (func())(nil)},
		{"wrong shape", func(int) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WrapOrCopy(tt.in)
			require.ErrorIs(t, err, ErrInvalidPhase)
		})
	}
}

func TestWrapOrCopy_Shapes(t *testing.T) {
	tests := []struct {
		name        string
		in          any
		wantContext bool
	}{
		{"Func", Func(func(*Data, Args) (Result, error) { return Continue, nil }), true},
		{"data and args", func(*Data, Args) (Result, error) { return Continue, nil }, true},
		{"data with result", func(*Data) (Result, error) { return Stop, nil }, true},
		{"data with error", func(*Data) error { return nil }, true},
		{"data only", func(*Data) {}, true},
		{"no args with error", func() error { return nil }, false},
		{"no args", func() {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := WrapOrCopy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantContext, p.TakesContext(0))

			_, err = p.Invoke(NewData(context.Background(), nil, nil, nil))
			require.NoError(t, err)
		})
	}
}

func TestOptions_OverlaysDoNotClobber(t *testing.T) {
	runIf := func(*Data) bool { return false }

	withTimeout, err := Options{Timeout: 5 * time.Second}.Apply(measureVoltage)
	require.NoError(t, err)

	both, err := Options{RunIf: runIf}.Apply(withTimeout)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, both.Options.Timeout)
	require.NotNil(t, both.Options.RunIf)
	assert.False(t, both.Options.RunIf(nil))

	assert.Nil(t, withTimeout.Options.RunIf, "applying an overlay must not modify its target")
}

func TestOptions_ApplyInvalid(t *testing.T) {
	_, err := Options{Timeout: time.Second}.Apply(42)
	require.ErrorIs(t, err, ErrInvalidPhase)

	assert.Panics(t, func() { Options{}.MustApply(42) })
}

func TestWithArgs_MergesAndReparameterizes(t *testing.T) {
	base := MustWrap(measureVoltage).
		WithMeasurements(measurements.New("voltage_ch{channel}")).
		WithArgs(Args{"channel": 1, "range": "auto"})

	ch2 := base.WithArgs(Args{"channel": 2, "settle": time.Millisecond})

	assert.Equal(t, Args{"channel": 2, "range": "auto", "settle": time.Millisecond}, ch2.ExtraKwargs)
	assert.Equal(t, Args{"channel": 1, "range": "auto"}, base.ExtraKwargs, "receiver must be unchanged")
	assert.Equal(t, "voltage_ch1", base.Measurements[0].Name)
	assert.Equal(t, "voltage_ch1", ch2.Measurements[0].Name, "already substituted names stay")

	fresh := MustWrap(measureVoltage).WithMeasurements(measurements.New("voltage_ch{channel}"))
	assert.Equal(t, "voltage_ch3", fresh.WithArgs(Args{"channel": 3}).Measurements[0].Name)
	assert.Equal(t, "voltage_ch{channel}", fresh.Measurements[0].Name)
}

func TestNameAndDoc(t *testing.T) {
	p := MustWrap(measureVoltage).WithDoc("Measures the rail.").WithName("rail_check")
	assert.Equal(t, "rail_check", p.Name())
	assert.Equal(t, "Measures the rail.", p.Doc())
}

func TestSignature_TakesContext(t *testing.T) {
	tests := []struct {
		name      string
		sig       Signature
		numKwargs int
		want      bool
	}{
		{"variadic", Signature{Variadic: true}, 3, true},
		{"keywords with one fixed param", Signature{Params: []string{"test"}, Keywords: true}, 5, true},
		{"keywords with no fixed params", Signature{Keywords: true}, 0, false},
		{"more fixed params than kwargs", Params("test", "dmm"), 1, true},
		{"one fixed param no kwargs", Params("test"), 0, true},
		{"fixed params equal kwargs", Params("dmm", "channel"), 2, false},
		{"no params no kwargs", Signature{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sig.TakesContext(tt.numKwargs))
		})
	}
}

func TestInvoke_PassesContextAndPlugs(t *testing.T) {
	meter := &dmm{}

	var gotData *Data
	var gotArgs Args

	p := New(func(d *Data, args Args) (Result, error) {
		gotData = d
		gotArgs = args

		return Repeat, nil
	}, Params("test", "dmm", "channel")).
		WithPlugs(NewPlug("dmm", plugs.TypeOf[*dmm]())).
		WithArgs(Args{"channel": 4})

	data := NewData(context.Background(), nil, nil, staticProvider{"dmm": meter})

	result, err := p.Invoke(data)
	require.NoError(t, err)
	assert.Equal(t, Repeat, result)
	assert.Same(t, data, gotData)
	assert.Equal(t, Args{"dmm": meter, "channel": 4}, gotArgs)

	got, ok := Arg[*dmm](gotArgs, "dmm")
	require.True(t, ok)
	assert.Same(t, meter, got)
}

func TestInvoke_KeywordOnly(t *testing.T) {
	var gotData *Data

	p := New(func(d *Data, _ Args) (Result, error) {
		gotData = d
		return Continue, nil
	}, Params("dmm")).WithPlugs(NewPlug("dmm", plugs.TypeOf[*dmm]()))

	_, err := p.Invoke(NewData(context.Background(), nil, nil, staticProvider{"dmm": &dmm{}}))
	require.NoError(t, err)
	assert.Nil(t, gotData)
}

func TestInvoke_LifecycleOnlyPlugNotPassed(t *testing.T) {
	p := MustWrap(measureVoltage).WithPlugs(Plug{Name: "dmm", Type: plugs.TypeOf[*dmm](), UpdateKwargs: false})
	assert.Empty(t, p.PlugRequests())

	_, err := p.Invoke(NewData(context.Background(), nil, nil, nil))
	require.NoError(t, err)
}

func TestInvoke_SignatureMismatch(t *testing.T) {
	// (test) with a plug resolves one kwarg, so no context is passed and the
	// call shape is wrong: both "test" is missing and "dmm" is unexpected.
	p := MustWrap(measureVoltage).WithPlugs(NewPlug("dmm", plugs.TypeOf[*dmm]()))

	_, err := p.Invoke(NewData(context.Background(), nil, nil, staticProvider{"dmm": &dmm{}}))

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "measureVoltage", argErr.Phase)
	assert.Contains(t, argErr.Error(), "unexpected keyword argument 'dmm'")
}

func TestInvoke_ExplicitContextMarker(t *testing.T) {
	var calledWith *Data

	fn := func(d *Data, _ Args) (Result, error) {
		calledWith = d
		return Continue, nil
	}

	always := New(fn, Signature{Params: []string{"test", "channel"}}).
		WithArgs(Args{"channel": 1}).
		WithContext(ContextAlways)
	never := New(fn, Signature{Keywords: true, Params: []string{"test"}}).WithContext(ContextNever)

	data := NewData(context.Background(), nil, nil, nil)

	_, err := always.Invoke(data)
	require.NoError(t, err)
	assert.Same(t, data, calledWith)

	_, err = never.Invoke(data)

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, argErr.Reason, "missing required argument(s): 'test'")
}

func TestInvoke_Errors(t *testing.T) {
	boom := errors.New("boom")

	p := MustWrap(func(*Data) error { return boom })
	_, err := p.Invoke(NewData(context.Background(), nil, nil, nil))
	require.ErrorIs(t, err, boom)

	withPlug := p.WithPlugs(NewPlug("dmm", plugs.TypeOf[*dmm]()))
	_, err = withPlug.Invoke(nil)
	require.ErrorIs(t, err, ErrNoPlugProvider)

	_, err = withPlug.Invoke(NewData(context.Background(), nil, nil, failingProvider{}))
	require.ErrorIs(t, err, plugs.ErrNotInitialized)

	tooMany := MustWrap(func() {}).WithContext(ContextAlways)
	_, err = tooMany.Invoke(NewData(context.Background(), nil, nil, nil))

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, argErr.Reason, "takes 0 positional arguments")

	dup := New(func(*Data, Args) (Result, error) { return Continue, nil }, Params("test")).
		WithArgs(Args{"test": 1}).WithContext(ContextAlways)
	_, err = dup.Invoke(NewData(context.Background(), nil, nil, nil))
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, argErr.Reason, "multiple values")
}

func TestData_Measure(t *testing.T) {
	d := NewData(nil, nil, nil, nil)
	d.Measure("v", 3.3)

	m := d.Measured()
	m["v"] = 0

	assert.Equal(t, map[string]any{"v": 3.3}, d.Measured())
	assert.NotNil(t, d.Ctx)
	assert.NotNil(t, d.Logger)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "CONTINUE", Continue.String())
	assert.Equal(t, "REPEAT", Repeat.String())
	assert.Equal(t, "STOP", Stop.String())
	assert.Equal(t, "UNKNOWN", Result(9).String())
}
