// Package phase turns user functions into reusable test phase descriptors.
//
// A descriptor (Info) couples a phase function with its runtime options, the
// plugs it needs and the measurements it reports. Descriptors have value
// semantics: every operation that changes one returns an independent copy, so
// the same function can appear several times in one test with different
// options or arguments.
package phase

import (
	"errors"
	"fmt"
	"time"

	"htf.dev/pkg/htf/pkg/measurements"
	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
)

// ErrInvalidPhase is returned when a value cannot be used as a phase.
var ErrInvalidPhase = errors.New("invalid test phase")

// Func is the uniform phase body. data is nil when the phase is invoked
// without the phase context (see Signature).
type Func func(data *Data, args Args) (Result, error)

// ContextMode is the explicit marker deciding whether a phase receives the
// phase context.
type ContextMode int

// Available ContextMode values.
const (
	// ContextInfer applies the declared Signature's inference rule at call time.
	ContextInfer ContextMode = iota
	// ContextAlways always passes the phase context.
	ContextAlways
	// ContextNever never passes the phase context.
	ContextNever
)

// Options overrides default phase behavior. Zero fields are unset.
type Options struct {
	// Timeout for the phase.
	Timeout time.Duration
	// RunIf decides whether to run the phase. It is passed the Data the phase
	// would be run with.
	RunIf func(data *Data) bool
}

// Apply returns a copy of target with every set field of o copied onto its
// options. Fields unset in o keep whatever the target already had.
//
//	slow := phase.Options{Timeout: time.Minute}.MustApply(MeasureRipple)
func (o Options) Apply(target any) (*Info, error) {
	p, err := WrapOrCopy(target)
	if err != nil {
		return nil, err
	}

	if o.Timeout != 0 {
		p.Options.Timeout = o.Timeout
	}

	if o.RunIf != nil {
		p.Options.RunIf = o.RunIf
	}

	return p, nil
}

// MustApply is Apply that panics on an invalid target.
func (o Options) MustApply(target any) *Info {
	p, err := o.Apply(target)
	if err != nil {
		panic(err)
	}

	return p
}

// Plug declares that a phase needs an instance of Type injected as Name.
// When UpdateKwargs is false the plug is only needed for its lifecycle and is
// not passed to the phase function.
type Plug struct {
	Name         string
	Type         plugs.Type
	UpdateKwargs bool
}

// NewPlug returns a Plug passed to the phase as a keyword argument.
func NewPlug(name string, t plugs.Type) Plug {
	return Plug{Name: name, Type: t, UpdateKwargs: true}
}

// Info describes a callable test phase.
type Info struct {
	Func         Func
	Signature    Signature
	CodeInfo     record.CodeInfo
	Options      Options
	Plugs        []Plug
	Measurements []measurements.Measurement
	ExtraKwargs  Args
	Context      ContextMode
}

// New wraps fn, whose parameter list is declared by sig.
func New(fn Func, sig Signature) *Info {
	return newInfo(fn, sig, record.ForFunction(fn))
}

func newInfo(fn Func, sig Signature, codeInfo record.CodeInfo) *Info {
	return &Info{
		Func:        fn,
		Signature:   sig.clone(),
		CodeInfo:    codeInfo,
		ExtraKwargs: Args{},
	}
}

// WrapOrCopy returns a new descriptor for v. Descriptors are deep-copied so
// the original is never affected by later changes; bare functions are
// wrapped with their source location. Accepted function shapes are Func and:
//
//	func(*Data, Args) (Result, error)  declared as (test, **kwargs)
//	func(*Data) (Result, error)        declared as (test)
//	func(*Data) error                  declared as (test)
//	func(*Data)                        declared as (test)
//	func() error                       declared as ()
//	func()                             declared as ()
func WrapOrCopy(v any) (*Info, error) {
	codeInfo := record.ForFunction(v)

	switch fn := v.(type) {
	case *Info:
		if fn == nil {
			return nil, fmt.Errorf("%w: nil descriptor", ErrInvalidPhase)
		}

		return fn.Clone(), nil
	case Info:
		return fn.Clone(), nil
	case Func:
		if fn == nil {
			break
		}

		return newInfo(fn, withKeywords, codeInfo), nil
	case func(*Data, Args) (Result, error):
		if fn == nil {
			break
		}

		return newInfo(fn, withKeywords, codeInfo), nil
	case func(*Data) (Result, error):
		if fn == nil {
			break
		}

		return newInfo(func(d *Data, _ Args) (Result, error) { return fn(d) }, contextOnly, codeInfo), nil
	case func(*Data) error:
		if fn == nil {
			break
		}

		return newInfo(func(d *Data, _ Args) (Result, error) { return Continue, fn(d) }, contextOnly, codeInfo), nil
	case func(*Data):
		if fn == nil {
			break
		}

		return newInfo(func(d *Data, _ Args) (Result, error) { fn(d); return Continue, nil }, contextOnly, codeInfo), nil
	case func() error:
		if fn == nil {
			break
		}

		return newInfo(func(*Data, Args) (Result, error) { return Continue, fn() }, Signature{}, codeInfo), nil
	case func():
		if fn == nil {
			break
		}

		return newInfo(func(*Data, Args) (Result, error) { fn(); return Continue, nil }, Signature{}, codeInfo), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrInvalidPhase, v)
}

// MustWrap is WrapOrCopy that panics on an invalid value.
func MustWrap(v any) *Info {
	p, err := WrapOrCopy(v)
	if err != nil {
		panic(err)
	}

	return p
}

var (
	withKeywords = Signature{Params: []string{"test"}, Keywords: true}
	contextOnly  = Signature{Params: []string{"test"}}
)

// Name is the phase function's identifier.
func (p *Info) Name() string {
	return p.CodeInfo.Name
}

// Doc is the phase's documentation string.
func (p *Info) Doc() string {
	return p.CodeInfo.Docstring
}

// Clone returns a deep copy sharing no mutable state with p.
func (p *Info) Clone() *Info {
	c := *p
	c.Signature = p.Signature.clone()
	c.Plugs = append([]Plug(nil), p.Plugs...)
	c.ExtraKwargs = p.ExtraKwargs.Clone()

	c.Measurements = make([]measurements.Measurement, len(p.Measurements))
	for i, m := range p.Measurements {
		c.Measurements[i] = m.Clone()
	}

	return &c
}

// WithArgs returns a copy that passes args to the phase when called. Existing
// extra arguments are kept unless overridden, and every measurement is
// re-parameterized with args.
func (p *Info) WithArgs(args Args) *Info {
	c := p.Clone()
	for k, v := range args {
		c.ExtraKwargs[k] = v
	}

	for i, m := range p.Measurements {
		c.Measurements[i] = m.WithArgs(args)
	}

	return c
}

// WithPlugs returns a copy that additionally requires the given plugs.
func (p *Info) WithPlugs(ps ...Plug) *Info {
	c := p.Clone()
	c.Plugs = append(c.Plugs, ps...)

	return c
}

// WithMeasurements returns a copy that additionally declares ms.
func (p *Info) WithMeasurements(ms ...measurements.Measurement) *Info {
	c := p.Clone()
	for _, m := range ms {
		c.Measurements = append(c.Measurements, m.Clone())
	}

	return c
}

// WithName returns a copy with a different name.
func (p *Info) WithName(name string) *Info {
	c := p.Clone()
	c.CodeInfo.Name = name

	return c
}

// WithDoc returns a copy with a documentation string.
func (p *Info) WithDoc(doc string) *Info {
	c := p.Clone()
	c.CodeInfo.Docstring = doc

	return c
}

// WithContext returns a copy with an explicit context marker.
func (p *Info) WithContext(mode ContextMode) *Info {
	c := p.Clone()
	c.Context = mode

	return c
}

// PlugRequests lists the plugs that are passed as keyword arguments.
func (p *Info) PlugRequests() []plugs.Request {
	reqs := make([]plugs.Request, 0, len(p.Plugs))

	for _, plug := range p.Plugs {
		if plug.UpdateKwargs {
			reqs = append(reqs, plugs.Request{Name: plug.Name, Type: plug.Type})
		}
	}

	return reqs
}
