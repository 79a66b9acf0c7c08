package htf

import (
	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
	"htf.dev/pkg/htf/pkg/triggers"
)

// OutputCallback receives the finished record of every run.
type OutputCallback func(rec *record.TestRecord) error

// State is a view of a running or finished test.
type State interface {
	String() string
	GetFinishedRecord() *record.TestRecord
}

// Executor runs the phases of one test execution.
type Executor interface {
	SetTestStart(testStart triggers.TestStart)
	Start() error
	Wait() error
	Stop()
	// GetState returns nil until the test start trigger has fired.
	GetState() State
}

// StatusServer publishes the live executor state.
type StatusServer interface {
	Start() error
	Stop() error
}

// SignalPort delivers process interrupts to a single handler.
type SignalPort interface {
	// Notify replaces the interrupt handler.
	Notify(handler func())
	// Reraise restores the default interrupt behaviour and re-delivers the
	// interrupt to the process.
	Reraise()
}

// ExecutorFactory builds the executor for one Execute call.
type ExecutorFactory func(data *TestData, lifecycle plugs.Lifecycle, teardown *phase.Info) Executor

// PlugManagerFactory builds a fresh plug manager for one Execute call.
type PlugManagerFactory func() plugs.Lifecycle

// StatusServerFactory builds the status server bound to a live executor.
type StatusServerFactory func(port int, exec Executor) StatusServer

// ConfigSnapshot returns the resolved configuration stamped into metadata.
type ConfigSnapshot func() map[string]any
