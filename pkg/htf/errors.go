package htf

import "errors"

var (
	// ErrUnknownOption is returned when configuring with an unrecognized option name.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOption is returned when an option value has the wrong type or range.
	ErrInvalidOption = errors.New("invalid option")
	// ErrDeprecated is returned by removed entry points.
	ErrDeprecated = errors.New("deprecated: use AddOutputCallbacks")
	// ErrLoopDeprecated is returned when Execute is asked to loop.
	ErrLoopDeprecated = errors.New("looping is no longer supported by Execute, call it repeatedly instead")
	// ErrInterrupted is returned when an interrupt stopped the run.
	ErrInterrupted = errors.New("test interrupted")
	// ErrExecuting is returned by Execute while another Execute owns the test.
	ErrExecuting = errors.New("test is already executing")
)
