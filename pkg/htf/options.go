package htf

import (
	"fmt"
	"sort"

	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/record"
)

// Option names accepted by ConfigureByName.
const (
	OptionHTTPPort         = "http_port"
	OptionOutputCallbacks  = "output_callbacks"
	OptionTeardownFunction = "teardown_function"
)

// TestOptions are the user-tunable settings of a Test.
type TestOptions struct {
	// HTTPPort enables the status server when positive.
	HTTPPort        int
	OutputCallbacks []OutputCallback
	Teardown        *phase.Info
}

type dependencies struct {
	executors ExecutorFactory
	plugs     PlugManagerFactory
	servers   StatusServerFactory
	config    ConfigSnapshot
	signals   SignalPort
}

// Option configures a Test.
type Option func(t *Test) error

// WithHTTPPort serves the live state on port. 0 disables the server.
func WithHTTPPort(port int) Option {
	return func(t *Test) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%w: %s %d", ErrInvalidOption, OptionHTTPPort, port)
		}

		t.options.HTTPPort = port

		return nil
	}
}

// WithOutputCallbacks replaces the output callbacks.
func WithOutputCallbacks(callbacks ...OutputCallback) Option {
	return func(t *Test) error {
		t.options.OutputCallbacks = append([]OutputCallback(nil), callbacks...)
		return nil
	}
}

// WithTeardown sets the phase run after every execution. fn is anything
// phase.WrapOrCopy accepts, or nil to clear it.
func WithTeardown(fn any) Option {
	return func(t *Test) error {
		if fn == nil {
			t.options.Teardown = nil
			return nil
		}

		info, err := phase.WrapOrCopy(fn)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOption, OptionTeardownFunction, err)
		}

		t.options.Teardown = info

		return nil
	}
}

// WithExecutorFactory replaces the default executor.
func WithExecutorFactory(f ExecutorFactory) Option {
	return func(t *Test) error {
		t.deps.executors = f
		return nil
	}
}

// WithPlugManagerFactory replaces the default plug manager.
func WithPlugManagerFactory(f PlugManagerFactory) Option {
	return func(t *Test) error {
		t.deps.plugs = f
		return nil
	}
}

// WithStatusServerFactory replaces the default status server.
func WithStatusServerFactory(f StatusServerFactory) Option {
	return func(t *Test) error {
		t.deps.servers = f
		return nil
	}
}

// WithConfigSnapshot replaces the configuration snapshot stamped into metadata.
func WithConfigSnapshot(f ConfigSnapshot) Option {
	return func(t *Test) error {
		t.deps.config = f
		return nil
	}
}

// WithSignalPort replaces the process interrupt source.
func WithSignalPort(p SignalPort) Option {
	return func(t *Test) error {
		t.deps.signals = p
		return nil
	}
}

// optionsByName converts named options, in name order.
func optionsByName(values map[string]any) ([]Option, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}

	sort.Strings(names)

	opts := make([]Option, 0, len(names))

	for _, name := range names {
		opt, err := optionByName(name, values[name])
		if err != nil {
			return nil, err
		}

		opts = append(opts, opt)
	}

	return opts, nil
}

func optionByName(name string, value any) (Option, error) {
	switch name {
	case OptionHTTPPort:
		port, ok := value.(int)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be an int, got %T", ErrInvalidOption, name, value)
		}

		return WithHTTPPort(port), nil
	case OptionOutputCallbacks:
		switch cbs := value.(type) {
		case []OutputCallback:
			return WithOutputCallbacks(cbs...), nil
		case []func(*record.TestRecord) error:
			converted := make([]OutputCallback, len(cbs))
			for i, cb := range cbs {
				converted[i] = cb
			}

			return WithOutputCallbacks(converted...), nil
		default:
			return nil, fmt.Errorf("%w: %s must be a list of callbacks, got %T", ErrInvalidOption, name, value)
		}
	case OptionTeardownFunction:
		return WithTeardown(value), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
}
