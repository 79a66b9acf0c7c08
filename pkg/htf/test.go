// Package htf is the entry point for writing hardware tests: wrap phase
// functions into a Test, configure it and execute it once per DUT.
package htf

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync"

	"htf.dev/pkg/htf/pkg/conf"
	"htf.dev/pkg/htf/pkg/logs"
	"htf.dev/pkg/htf/pkg/record"
	"htf.dev/pkg/htf/pkg/triggers"
)

// Test owns a TestData and runs it, one Execute at a time.
type Test struct {
	data    *TestData
	options TestOptions
	deps    dependencies

	lock     sync.Mutex
	executor Executor
}

// New builds a Test from phases, anything phase.WrapOrCopy accepts, and
// takes over the process interrupt handler. Only one Test should be live at
// a time: a second Test replaces the first one's interrupt handler.
func New(phases []any, metadata map[string]any, opts ...Option) (*Test, error) {
	codeInfo := record.ForModuleFromStack(2)

	t := &Test{
		deps: dependencies{
			executors: NewExecutor,
			plugs:     newPlugManager,
			servers:   NewStatusServer,
			config:    conf.AsDict,
			signals:   defaultSignalPort,
		},
	}

	if err := t.Configure(opts...); err != nil {
		return nil, err
	}

	data, err := NewTestData(phases, codeInfo, metadata)
	if err != nil {
		return nil, err
	}

	data.Metadata[ConfigMetadataKey] = t.deps.config()
	t.data = data

	t.deps.signals.Notify(func() {
		_ = t.StopFromSigInt()
	})

	return t, nil
}

// Data returns the test description.
func (t *Test) Data() *TestData {
	return t.data
}

// Options returns a copy of the current options.
func (t *Test) Options() TestOptions {
	t.lock.Lock()
	defer t.lock.Unlock()

	opts := t.options
	opts.OutputCallbacks = append([]OutputCallback(nil), t.options.OutputCallbacks...)

	return opts
}

// Configure parses the command line and sets up logging, both only once per
// process, then applies opts.
func (t *Test) Configure(opts ...Option) error {
	if err := ParseFlags(); err != nil {
		slog.Warn("Failed to parse command line flags", "error", err)
	}

	logs.SetupLogger()

	t.lock.Lock()
	defer t.lock.Unlock()

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return err
		}
	}

	return nil
}

// ConfigureByName applies options given by name: http_port,
// output_callbacks and teardown_function.
func (t *Test) ConfigureByName(values map[string]any) error {
	opts, err := optionsByName(values)
	if err != nil {
		return err
	}

	return t.Configure(opts...)
}

// AddOutputCallbacks appends callbacks. They run in registration order.
func (t *Test) AddOutputCallbacks(callbacks ...OutputCallback) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.options.OutputCallbacks = append(t.options.OutputCallbacks, callbacks...)
}

// AddOutputCallback was replaced by AddOutputCallbacks and always fails.
func (t *Test) AddOutputCallback(OutputCallback) error {
	return ErrDeprecated
}

// ExecuteOption tunes a single Execute call.
type ExecuteOption func(*executeConfig)

type executeConfig struct {
	loop bool
}

// Loop asked Execute to run forever. Looping moved to the caller, so Execute
// rejects it.
func Loop(loop bool) ExecuteOption {
	return func(c *executeConfig) {
		c.loop = loop
	}
}

// Execute runs the test once. testStart provides the DUT identifier; nil
// keeps the executor's default trigger. Every output callback receives the
// finished record unless the run was interrupted. Cancelling ctx stops the
// run and Execute returns ctx.Err().
func (t *Test) Execute(ctx context.Context, testStart triggers.TestStart, opts ...ExecuteOption) error {
	var cfg executeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.loop {
		return ErrLoopDeprecated
	}

	exec, server, callbacks, err := t.start(testStart)
	if err != nil {
		return err
	}

	defer t.release(exec)

	if server != nil {
		defer func() {
			if err := server.Stop(); err != nil {
				slog.Error("Failed to stop status server", "error", err)
			}
		}()
	}

	waitErr := t.wait(ctx, exec)

	t.lock.Lock()
	interrupted := t.executor != exec
	t.lock.Unlock()

	if interrupted {
		return ErrInterrupted
	}

	if st := exec.GetState(); st != nil {
		deliver(st.GetFinishedRecord(), callbacks)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return waitErr
}

func (t *Test) start(testStart triggers.TestStart) (Executor, StatusServer, []OutputCallback, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.executor != nil {
		return nil, nil, nil, ErrExecuting
	}

	exec := t.deps.executors(t.data, t.deps.plugs(), t.options.Teardown)
	t.executor = exec

	if testStart != nil {
		exec.SetTestStart(testStart)
	}

	var server StatusServer

	if t.options.HTTPPort > 0 {
		server = t.deps.servers(t.options.HTTPPort, exec)
		if err := server.Start(); err != nil {
			t.executor = nil
			return nil, nil, nil, fmt.Errorf("failed to start status server: %w", err)
		}
	}

	if err := exec.Start(); err != nil {
		t.executor = nil

		if server != nil {
			_ = server.Stop()
		}

		return nil, nil, nil, fmt.Errorf("failed to start executor: %w", err)
	}

	return exec, server, append([]OutputCallback(nil), t.options.OutputCallbacks...), nil
}

// wait blocks until exec finishes, stopping it if ctx ends first.
func (t *Test) wait(ctx context.Context, exec Executor) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			exec.Stop()
		case <-done:
		}
	}()

	return exec.Wait()
}

func (t *Test) release(exec Executor) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.executor == exec {
		t.executor = nil
	}
}

func deliver(rec *record.TestRecord, callbacks []OutputCallback) {
	for i, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Output callback panicked", "callback", callbackName(cb), "index", i, "panic", r)
				}
			}()

			if err := cb(rec); err != nil {
				slog.Error("Output callback failed", "callback", callbackName(cb), "index", i, logs.Exception(err))
			}
		}()
	}
}

func callbackName(cb OutputCallback) string {
	if f := runtime.FuncForPC(reflect.ValueOf(cb).Pointer()); f != nil {
		return f.Name()
	}

	return "<unknown>"
}

// StopFromSigInt stops the live executor, if any, and re-raises the
// interrupt. It runs on every process interrupt.
func (t *Test) StopFromSigInt() error {
	slog.Error("Received SIGINT, stopping everything")

	t.lock.Lock()
	signals := t.deps.signals

	if t.executor != nil {
		if st := t.executor.GetState(); st != nil {
			slog.Warn("Stopping test executor", "state", st.String())
		} else {
			slog.Warn("Stopping test executor before test start")
		}

		t.executor.Stop()
		t.executor = nil
	}

	t.lock.Unlock()

	signals.Reraise()

	return ErrInterrupted
}
