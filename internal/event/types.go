package event

import (
	"context"
	"time"

	"github.com/dshills/pubsub/internal/event/dispatch"
)

// Callback receives the arguments of one emitted event.
// Returning an error stops the emit and surfaces the error to the emitter.
type Callback[T any] func(ctx context.Context, args T) error

// Func adapts a plain function to a Callback that never fails.
func Func[T any](fn func(args T)) Callback[T] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, args T) error {
		fn(args)
		return nil
	}
}

// ErrFunc adapts a function that ignores the context to a Callback.
func ErrFunc[T any](fn func(args T) error) Callback[T] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, args T) error {
		return fn(args)
	}
}

// Observer is notified of subscription changes and completed emits.
// Calls are made synchronously, outside of any publisher lock; an
// Observer must not block.
type Observer interface {
	// Subscribed is called after a callback was added; listeners is the
	// new number of callbacks for the event.
	Subscribed(info Info, listeners int)

	// Unsubscribed is called after a callback was removed.
	Unsubscribed(info Info, listeners int)

	// Emitted is called when an emit returns. delivered counts the
	// callbacks that completed successfully and err is what Emit returned.
	Emitted(info Info, delivered int, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) Subscribed(Info, int) {}
func (nopObserver) Unsubscribed(Info, int) {}
func (nopObserver) Emitted(Info, int, time.Duration, error) {}

// Stats contains publisher statistics.
type Stats struct {
	// Events is the number of events with a handler on the publisher.
	Events int

	// Listeners is the total number of callbacks across all events.
	Listeners int

	// Dispatch holds the callback execution counters.
	Dispatch dispatch.Stats
}
