package dispatch

import (
	"context"
	"time"
)

// Call is a callback invocation with its arguments already bound.
type Call func(ctx context.Context) error

// Dispatcher runs a single Call and reports how it went.
type Dispatcher interface {
	Dispatch(ctx context.Context, call Call) Result
}

// Result represents the outcome of a callback execution.
type Result struct {
	// Success is true if the callback completed without error or panic.
	Success bool

	// Error is the error returned by the callback, or the context error
	// when the call was skipped.
	Error error

	// Panicked is true if the callback panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the callback took to execute.
	Duration time.Duration

	// Skipped is true if the callback was not executed because the
	// context was already done.
	Skipped bool
}

// IsSuccess returns true if the result indicates successful execution.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// IsError returns true if the result indicates an error (not panic).
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic returns true if the result indicates a panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// PanicHandler is notified when a callback panics. It receives the panic
// value and the stack trace captured during recovery.
type PanicHandler func(panicValue any, stack []byte)
