package event

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/pubsub/internal/event/dispatch"
)

// entry is one subscribed callback.
type entry[T any] struct {
	fn       Callback[T]
	owner    any
	hasOwner bool
	token    *Token
	removed  atomic.Bool
}

// Handler is the ordered set of callbacks subscribed to one event.
// A Publisher owns one Handler per event it has seen a subscription for;
// a Handler can also be used on its own.
//
// Callbacks run in subscription order. Emit works on a snapshot of the
// callbacks taken when it starts: callbacks added during an emit first run
// on the next emit, callbacks removed during an emit are skipped if they
// have not run yet.
//
// Handler is safe for concurrent use.
type Handler[T any] struct {
	info Info

	mu      sync.RWMutex
	entries []*entry[T]
	owners  map[any]*entry[T]
	closed  bool

	dispatcher dispatch.Dispatcher
	observer   Observer
	log        zerolog.Logger
}

// NewHandler creates a standalone handler for ev.
func NewHandler[T any](ev *Event[T]) *Handler[T] {
	return newHandler(ev, dispatch.NewSyncDispatcher(), nopObserver{}, zerolog.Nop())
}

func newHandler[T any](ev *Event[T], d dispatch.Dispatcher, o Observer, log zerolog.Logger) *Handler[T] {
	info := ev.Info()
	return &Handler[T]{
		info:       info,
		owners:     make(map[any]*entry[T]),
		dispatcher: d,
		observer:   o,
		log:        log.With().Str("event", info.String()).Logger(),
	}
}

// Event returns the record of the handled event.
func (h *Handler[T]) Event() Info {
	return h.info
}

// Subscribe appends an anonymous callback.
// The returned token is the only way to remove it individually.
func (h *Handler[T]) Subscribe(fn Callback[T]) (*Token, error) {
	return h.add(nil, false, fn)
}

// SubscribeOwner appends a callback keyed by owner, typically the pointer
// of the subscribing object. An owner can hold only one callback per event;
// a second subscription returns ErrDuplicateOwner and leaves the first one
// in place.
func (h *Handler[T]) SubscribeOwner(owner any, fn Callback[T]) (*Token, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if !reflect.ValueOf(owner).Comparable() {
		return nil, fmt.Errorf("%w: %T", ErrInvalidOwner, owner)
	}
	return h.add(owner, true, fn)
}

func (h *Handler[T]) add(owner any, hasOwner bool, fn Callback[T]) (*Token, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHandlerClosed
	}
	if hasOwner {
		if _, dup := h.owners[owner]; dup {
			h.mu.Unlock()
			return nil, fmt.Errorf("%w: %T on %s", ErrDuplicateOwner, owner, h.info)
		}
	}

	e := &entry[T]{fn: fn, owner: owner, hasOwner: hasOwner}
	e.token = newToken(h.info, func() bool { return h.remove(e) })
	h.entries = append(h.entries, e)
	if hasOwner {
		h.owners[owner] = e
	}
	n := len(h.entries)
	h.mu.Unlock()

	h.log.Debug().
		Bool("owned", hasOwner).
		Str("token", e.token.ID()).
		Int("listeners", n).
		Msg("Callback subscribed")
	h.observer.Subscribed(h.info, n)

	return e.token, nil
}

// Unsubscribe removes the callback registered by owner.
// It reports whether a callback was removed; an unknown owner is a no-op.
func (h *Handler[T]) Unsubscribe(owner any) bool {
	if owner == nil || !reflect.ValueOf(owner).Comparable() {
		return false
	}

	h.mu.RLock()
	e, ok := h.owners[owner]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return h.remove(e)
}

func (h *Handler[T]) remove(e *entry[T]) bool {
	h.mu.Lock()
	if e.removed.Load() {
		h.mu.Unlock()
		return false
	}
	idx := slices.Index(h.entries, e)
	if idx < 0 {
		h.mu.Unlock()
		return false
	}
	h.entries = slices.Delete(h.entries, idx, idx+1)
	if e.hasOwner && h.owners[e.owner] == e {
		delete(h.owners, e.owner)
	}
	e.removed.Store(true)
	e.token.done.Store(true)
	n := len(h.entries)
	h.mu.Unlock()

	h.log.Debug().
		Str("token", e.token.ID()).
		Int("listeners", n).
		Msg("Callback unsubscribed")
	h.observer.Unsubscribed(h.info, n)

	return true
}

// Emit invokes every callback with args, in subscription order, in the
// calling goroutine. The first callback that returns an error or panics
// stops the emit; the failure is returned as a *CallbackError and the
// remaining callbacks are not run. If ctx is done before a callback runs,
// Emit stops and returns ctx.Err().
func (h *Handler[T]) Emit(ctx context.Context, args T) error {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHandlerClosed
	}
	snapshot := slices.Clone(h.entries)
	h.mu.RUnlock()

	start := time.Now()
	delivered := 0
	for i, e := range snapshot {
		if e.removed.Load() {
			continue
		}

		result := h.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
			return e.fn(ctx, args)
		})
		if result.IsSuccess() {
			delivered++
			continue
		}

		err := h.failure(i, e, result)
		h.observer.Emitted(h.info, delivered, time.Since(start), err)
		return err
	}

	h.observer.Emitted(h.info, delivered, time.Since(start), nil)
	return nil
}

func (h *Handler[T]) failure(i int, e *entry[T], result dispatch.Result) error {
	if result.Skipped {
		return result.Error
	}

	cause := result.Error
	if result.Panicked {
		cause = &PanicError{Value: result.PanicValue, Stack: string(result.PanicStack)}
	}
	return &CallbackError{
		Event: h.info.String(),
		Index: i,
		Owner: e.owner,
		Err:   cause,
	}
}

// emitAny emits args after checking they match T.
func (h *Handler[T]) emitAny(ctx context.Context, args any) error {
	v, ok := args.(T)
	if !ok {
		if args != nil || !nilable(h.info.ArgType) {
			return fmt.Errorf("%w: %s takes %s, got %T", ErrSignatureMismatch, h.info, h.info.ArgType, args)
		}
	}
	return h.Emit(ctx, v)
}

// Len returns the number of subscribed callbacks.
func (h *Handler[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Owners returns the owner keys of the owned callbacks in subscription order.
func (h *Handler[T]) Owners() []any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var owners []any
	for _, e := range h.entries {
		if e.hasOwner {
			owners = append(owners, e.owner)
		}
	}
	return owners
}

// Clear removes every callback. The handler stays usable.
// It returns the number of callbacks removed.
func (h *Handler[T]) Clear() int {
	return h.drain(false)
}

// Close removes every callback and rejects later subscriptions and emits
// with ErrHandlerClosed. It returns the number of callbacks removed.
// Closing twice is a no-op.
func (h *Handler[T]) Close() int {
	return h.drain(true)
}

func (h *Handler[T]) drain(closing bool) int {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0
	}
	entries := h.entries
	h.entries = nil
	h.owners = make(map[any]*entry[T])
	h.closed = closing
	for _, e := range entries {
		e.removed.Store(true)
		e.token.done.Store(true)
	}
	h.mu.Unlock()

	if len(entries) > 0 {
		h.log.Debug().
			Int("removed", len(entries)).
			Bool("closed", closing).
			Msg("Callbacks cleared")
		h.observer.Unsubscribed(h.info, 0)
	}
	return len(entries)
}

// The methods below let a Publisher hold handlers of any argument type.

func (h *Handler[T]) event() Info { return h.info }

func (h *Handler[T]) listeners() int { return h.Len() }

func (h *Handler[T]) unsubscribe(owner any) bool { return h.Unsubscribe(owner) }

func (h *Handler[T]) close() int { return h.Close() }

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
