package event

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for event dispatch.
var (
	// ErrNilCallback is returned when a nil callback is subscribed.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrNilOwner is returned when an owner-keyed subscription has no owner.
	ErrNilOwner = errors.New("owner cannot be nil")

	// ErrInvalidOwner is returned when the owner key cannot be compared,
	// for example a slice or a map.
	ErrInvalidOwner = errors.New("owner must be a comparable value")

	// ErrDuplicateOwner is returned when an owner subscribes to an event it
	// is already subscribed to on the same publisher.
	ErrDuplicateOwner = errors.New("owner is already subscribed to event")

	// ErrNoListeners is returned by Emit on a publisher created with
	// WithReportUnheard when nothing is subscribed to the event.
	ErrNoListeners = errors.New("no listeners for event")

	// ErrPublisherClosed is returned when a closed publisher is used.
	ErrPublisherClosed = errors.New("publisher is closed")

	// ErrHandlerClosed is returned when a closed event handler is used.
	ErrHandlerClosed = errors.New("event handler is closed")

	// ErrSignatureMismatch is returned when arguments do not match the
	// argument type an event was declared with.
	ErrSignatureMismatch = errors.New("arguments do not match event signature")

	// ErrCallbackPanic is matched by errors.Is when a callback panicked.
	ErrCallbackPanic = errors.New("callback panicked")
)

// CallbackError reports the callback that stopped an emit.
type CallbackError struct {
	// Event is the label of the event being emitted.
	Event string

	// Index is the position of the failing callback in the emit.
	Index int

	// Owner is the owner key of the failing callback, nil if anonymous.
	Owner any

	// Err is the error returned by the callback, or a *PanicError.
	Err error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	msg := "callback " + strconv.Itoa(e.Index) + " for event " + e.Event
	if e.Owner != nil {
		msg += fmt.Sprintf(" (owner %T)", e.Owner)
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking callback.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("callback panicked: %v", e.Value)
}

// Is allows errors.Is to match PanicError with ErrCallbackPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrCallbackPanic
}
