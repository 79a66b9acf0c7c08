package phase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoPlugProvider is returned when a phase needs plugs but was invoked
// without a provider.
var ErrNoPlugProvider = errors.New("no plug provider")

// Signature declares the parameter list of a phase function. It replaces
// inspecting the function itself: the declaration is made once, when the
// phase is registered.
type Signature struct {
	// Params are the fixed positional parameter names, in order.
	Params []string
	// Variadic reports whether the function accepts extra positional arguments.
	Variadic bool
	// Keywords reports whether the function accepts arbitrary keyword arguments.
	Keywords bool
}

// Params is shorthand for a Signature with fixed parameters only.
func Params(names ...string) Signature {
	return Signature{Params: names}
}

func (s Signature) clone() Signature {
	s.Params = append([]string(nil), s.Params...)
	return s
}

// TakesContext reports whether the phase context is passed positionally when
// numKwargs keyword arguments are resolved. It is passed when the function
// accepts variable positional arguments, or accepts variable keyword
// arguments with at least one fixed parameter, or has more fixed parameters
// than there are keyword arguments.
func (s Signature) TakesContext(numKwargs int) bool {
	return s.Variadic || (s.Keywords && len(s.Params) >= 1) || len(s.Params) > numKwargs
}

// ArgumentError reports a call that does not fit the declared signature.
type ArgumentError struct {
	Phase  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s() %s", e.Phase, e.Reason)
}

// bind checks that a call with the given shape fits the signature.
func (s Signature) bind(name string, withContext bool, kwargs Args) error {
	params := s.Params

	if withContext {
		switch {
		case len(params) > 0:
			if _, dup := kwargs[params[0]]; dup {
				return &ArgumentError{Phase: name, Reason: fmt.Sprintf("got multiple values for argument '%s'", params[0])}
			}

			params = params[1:]
		case !s.Variadic:
			return &ArgumentError{Phase: name, Reason: "takes 0 positional arguments but 1 was given"}
		}
	}

	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p] = true
	}

	if !s.Keywords {
		var unexpected []string

		for k := range kwargs {
			if !declared[k] {
				unexpected = append(unexpected, k)
			}
		}

		if len(unexpected) > 0 {
			sort.Strings(unexpected)
			return &ArgumentError{Phase: name, Reason: fmt.Sprintf("got an unexpected keyword argument '%s'", unexpected[0])}
		}
	}

	var missing []string

	for _, p := range params {
		if _, ok := kwargs[p]; !ok {
			missing = append(missing, "'"+p+"'")
		}
	}

	if len(missing) > 0 {
		return &ArgumentError{Phase: name, Reason: "missing required argument(s): " + strings.Join(missing, ", ")}
	}

	return nil
}

// TakesContext reports whether the phase context will be passed when
// numKwargs keyword arguments are resolved, honoring an explicit marker.
func (p *Info) TakesContext(numKwargs int) bool {
	switch p.Context {
	case ContextAlways:
		return true
	case ContextNever:
		return false
	default:
		return p.Signature.TakesContext(numKwargs)
	}
}

// Invoke calls the phase function. Extra arguments and plug instances are
// passed as keyword arguments; data is passed only when TakesContext says
// so. A call that does not fit the declared signature returns an
// *ArgumentError, and errors from the function are returned unchanged.
func (p *Info) Invoke(data *Data) (Result, error) {
	kwargs := p.ExtraKwargs.Clone()

	if reqs := p.PlugRequests(); len(reqs) > 0 {
		if data == nil || data.Plugs == nil {
			return Continue, fmt.Errorf("phase %s: %w", p.Name(), ErrNoPlugProvider)
		}

		provided, err := data.Plugs.ProvidePlugs(reqs)
		if err != nil {
			return Continue, fmt.Errorf("provide plugs for phase %s: %w", p.Name(), err)
		}

		for k, v := range provided {
			kwargs[k] = v
		}
	}

	withContext := p.TakesContext(len(kwargs))
	if err := p.Signature.bind(p.Name(), withContext, kwargs); err != nil {
		return Continue, err
	}

	if p.Func == nil {
		return Continue, fmt.Errorf("%w: %s has no function", ErrInvalidPhase, p.Name())
	}

	if withContext {
		return p.Func(data, kwargs)
	}

	return p.Func(nil, kwargs)
}

// Arg returns the keyword argument name as a T.
func Arg[T any](args Args, name string) (T, bool) {
	v, ok := args[name].(T)
	return v, ok
}
