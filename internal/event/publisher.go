package event

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/pubsub/internal/event/dispatch"
)

// handlerSlot is the type-erased view a Publisher keeps of a Handler[T].
type handlerSlot interface {
	event() Info
	listeners() int
	unsubscribe(owner any) bool
	close() int
	emitAny(ctx context.Context, args any) error
}

// Publisher maps events to their handlers. A handler is created the first
// time something subscribes to its event and lives until the publisher is
// closed.
//
// Publisher is safe for concurrent use. Callbacks run synchronously in the
// goroutine that calls Emit.
type Publisher struct {
	name          string
	log           zerolog.Logger
	observer      Observer
	reportUnheard bool
	dispatcher    *dispatch.SyncDispatcher

	mu       sync.RWMutex
	handlers map[ID]handlerSlot
	closed   bool
}

// NewPublisher creates a publisher.
func NewPublisher(opts ...PublisherOption) *Publisher {
	cfg := defaultPublisherConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var dopts []dispatch.SyncOption
	if cfg.panicHandler != nil {
		dopts = append(dopts, dispatch.WithPanicHandler(cfg.panicHandler))
	}

	log := cfg.logger
	if cfg.name != "" {
		log = log.With().Str("publisher", cfg.name).Logger()
	}

	return &Publisher{
		name:          cfg.name,
		log:           log,
		observer:      cfg.observer,
		reportUnheard: cfg.reportUnheard,
		dispatcher:    dispatch.NewSyncDispatcher(dopts...),
		handlers:      make(map[ID]handlerSlot),
	}
}

// Name returns the publisher name given with WithName.
func (p *Publisher) Name() string {
	return p.name
}

// HandlerOf returns the handler for ev on p, creating it if needed.
func HandlerOf[T any](p *Publisher, ev *Event[T]) (*Handler[T], error) {
	id := ev.ID()

	p.mu.RLock()
	slot, ok := p.handlers[id]
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrPublisherClosed
	}
	if ok {
		return typedHandler[T](slot)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if slot, ok := p.handlers[id]; ok {
		return typedHandler[T](slot)
	}

	h := newHandler(ev, p.dispatcher, p.observer, p.log)
	p.handlers[id] = h
	p.log.Debug().Str("event", h.info.String()).Msg("Handler created")
	return h, nil
}

func typedHandler[T any](slot handlerSlot) (*Handler[T], error) {
	h, ok := slot.(*Handler[T])
	if !ok {
		info := slot.event()
		return nil, fmt.Errorf("%w: %s takes %s, not %s",
			ErrSignatureMismatch, info, info.ArgType, reflect.TypeFor[T]())
	}
	return h, nil
}

// lookup returns the existing handler for id, if any.
func (p *Publisher) lookup(id ID) (handlerSlot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPublisherClosed
	}
	return p.handlers[id], nil
}

// Subscribe adds an anonymous callback for ev on p.
func Subscribe[T any](p *Publisher, ev *Event[T], fn Callback[T]) (*Token, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	h, err := HandlerOf(p, ev)
	if err != nil {
		return nil, err
	}
	return closedAs(h.Subscribe(fn))
}

// SubscribeOwner adds a callback for ev on p keyed by owner.
// Unsubscribe with the same owner removes it.
func SubscribeOwner[T any](p *Publisher, ev *Event[T], owner any, fn Callback[T]) (*Token, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	h, err := HandlerOf(p, ev)
	if err != nil {
		return nil, err
	}
	return closedAs(h.SubscribeOwner(owner, fn))
}

// closedAs reports a handler closed underneath a subscribe as a closed publisher.
func closedAs(t *Token, err error) (*Token, error) {
	if errors.Is(err, ErrHandlerClosed) {
		return nil, ErrPublisherClosed
	}
	return t, err
}

// Unsubscribe removes the callback owner registered for ev on p.
// It reports whether a callback was removed. Removing an owner that was
// never subscribed, or from an event p has no handler for, is a no-op.
func Unsubscribe[T any](p *Publisher, ev *Event[T], owner any) (bool, error) {
	slot, err := p.lookup(ev.ID())
	if err != nil || slot == nil {
		return false, err
	}
	return slot.unsubscribe(owner), nil
}

// UnsubscribeOwner removes the callbacks owner registered for any event on
// p and returns how many were removed.
func (p *Publisher) UnsubscribeOwner(owner any) (int, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return 0, ErrPublisherClosed
	}
	slots := p.slots()
	p.mu.RUnlock()

	removed := 0
	for _, slot := range slots {
		if slot.unsubscribe(owner) {
			removed++
		}
	}
	return removed, nil
}

// Emit invokes the callbacks subscribed to ev on p, in subscription order.
// See Handler.Emit for the failure semantics.
//
// Emitting an event nothing is subscribed to does nothing and returns nil,
// unless p was created with WithReportUnheard.
func Emit[T any](ctx context.Context, p *Publisher, ev *Event[T], args T) error {
	slot, err := p.lookup(ev.ID())
	if err != nil {
		return err
	}
	if slot == nil || slot.listeners() == 0 {
		return p.unheard(ev.Info())
	}
	h, err := typedHandler[T](slot)
	if err != nil {
		return err
	}
	return p.emitted(h.Emit(ctx, args))
}

// EmitAny emits an event whose argument type is only known at run time.
// args must be assignable to d.ArgType(); otherwise EmitAny returns
// ErrSignatureMismatch without invoking any callback.
func (p *Publisher) EmitAny(ctx context.Context, d Descriptor, args any) error {
	info := infoOf(d)
	if args != nil && !reflect.TypeOf(args).AssignableTo(info.ArgType) {
		return fmt.Errorf("%w: %s takes %s, got %T", ErrSignatureMismatch, info, info.ArgType, args)
	}
	if args == nil && !nilable(info.ArgType) {
		return fmt.Errorf("%w: %s takes %s, got nil", ErrSignatureMismatch, info, info.ArgType)
	}

	slot, err := p.lookup(info.ID)
	if err != nil {
		return err
	}
	if slot == nil || slot.listeners() == 0 {
		return p.unheard(info)
	}
	return p.emitted(slot.emitAny(ctx, args))
}

func (p *Publisher) unheard(info Info) error {
	if !p.reportUnheard {
		return nil
	}
	p.observer.Emitted(info, 0, 0, ErrNoListeners)
	return fmt.Errorf("%w: %s", ErrNoListeners, info)
}

// emitted maps a handler closed during the emit to a closed publisher.
func (p *Publisher) emitted(err error) error {
	if errors.Is(err, ErrHandlerClosed) {
		return ErrPublisherClosed
	}
	return err
}

// Listeners returns the number of callbacks subscribed to d on p.
func (p *Publisher) Listeners(d Descriptor) int {
	p.mu.RLock()
	slot := p.handlers[d.ID()]
	p.mu.RUnlock()
	if slot == nil {
		return 0
	}
	return slot.listeners()
}

// Events returns the events p has a handler for, ordered by identity.
func (p *Publisher) Events() []Info {
	p.mu.RLock()
	slots := p.slots()
	p.mu.RUnlock()

	infos := make([]Info, 0, len(slots))
	for _, slot := range slots {
		infos = append(infos, slot.event())
	}
	return infos
}

// Stats returns publisher statistics.
func (p *Publisher) Stats() Stats {
	p.mu.RLock()
	slots := p.slots()
	p.mu.RUnlock()

	stats := Stats{
		Events:   len(slots),
		Dispatch: p.dispatcher.Stats(),
	}
	for _, slot := range slots {
		stats.Listeners += slot.listeners()
	}
	return stats
}

// slots returns the handlers ordered by event identity. Callers hold p.mu.
func (p *Publisher) slots() []handlerSlot {
	slots := make([]handlerSlot, 0, len(p.handlers))
	for _, slot := range p.handlers {
		slots = append(slots, slot)
	}
	slices.SortFunc(slots, func(a, b handlerSlot) int {
		return cmp.Compare(a.event().ID, b.event().ID)
	})
	return slots
}

// Close releases every handler. Subsequent subscribe, unsubscribe and emit
// calls return ErrPublisherClosed. Tokens issued by p stay safe to cancel.
// Closing twice is a no-op.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	slots := p.slots()
	p.handlers = make(map[ID]handlerSlot)
	p.mu.Unlock()

	removed := 0
	for _, slot := range slots {
		removed += slot.close()
	}

	p.log.Debug().
		Int("events", len(slots)).
		Int("removed", removed).
		Msg("Publisher closed")
	return nil
}

// IsClosed reports whether Close was called.
func (p *Publisher) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}
