// Package demo runs a scripted publish/subscribe session against a
// publisher, the way an application wires producers and consumers.
package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/pubsub/internal/event"
	"github.com/dshills/pubsub/internal/event/events"
)

// Demo events.
var (
	// A carries no arguments.
	A = event.Declare[event.NoArgs](events.Registry, "demo.a")

	// B carries one integer.
	B = event.Declare[int](events.Registry, "demo.b")
)

// Report is what a run observed.
type Report struct {
	// Order lists the A callbacks in the order they ran.
	Order []string

	// First and Second count the invocations of the two A callbacks.
	First, Second int

	// Received holds every value the receiver got from B.
	Received []int

	// Indexed maps saved paths to their sizes.
	Indexed map[string]int64

	// Stats is the publisher state at the end of the run.
	Stats event.Stats
}

// Run executes the session on p:
//
//  1. two anonymous callbacks subscribe to A, and A is emitted once;
//  2. a Receiver subscribes to B, B is emitted with 1, the receiver
//     unsubscribes, and B is emitted with 1 again;
//  3. an Indexer attaches to the buffer events, two saves and a close are
//     emitted, and the indexer tears down with UnsubscribeFromAll.
//
// The A subscriptions are cancelled before Run returns.
func Run(ctx context.Context, p *event.Publisher, log zerolog.Logger) (*Report, error) {
	rep := &Report{}

	tokens := event.NewGroup()
	defer tokens.CancelAll()

	if err := tokens.Keep(event.Subscribe(p, A, event.Func(func(event.NoArgs) {
		rep.First++
		rep.Order = append(rep.Order, "first")
	}))); err != nil {
		return nil, err
	}
	if err := tokens.Keep(event.Subscribe(p, A, event.Func(func(event.NoArgs) {
		rep.Second++
		rep.Order = append(rep.Order, "second")
	}))); err != nil {
		return nil, err
	}
	log.Info().Int("listeners", p.Listeners(A)).Msg("Subscribed anonymous callbacks to demo.a")

	if err := event.Emit(ctx, p, A, event.NoArgs{}); err != nil {
		return nil, fmt.Errorf("emit %s: %w", A, err)
	}
	log.Info().Int("first", rep.First).Int("second", rep.Second).Msg("Emitted demo.a")

	recv := &Receiver{}
	if err := recv.Attach(p); err != nil {
		return nil, err
	}
	if err := event.Emit(ctx, p, B, 1); err != nil {
		return nil, fmt.Errorf("emit %s: %w", B, err)
	}
	log.Info().Ints("received", recv.Received).Msg("Emitted demo.b")

	if _, err := event.Unsubscribe(p, B, recv); err != nil {
		return nil, err
	}
	if err := event.Emit(ctx, p, B, 1); err != nil && !errors.Is(err, event.ErrNoListeners) {
		return nil, fmt.Errorf("emit %s: %w", B, err)
	}
	rep.Received = recv.Received
	log.Info().Ints("received", recv.Received).Msg("Emitted demo.b after unsubscribe")

	ix := NewIndexer()
	if err := ix.Attach(p); err != nil {
		return nil, err
	}
	saves := []events.BufferSavedArgs{
		{BufferID: "buf-1", Path: "main.go", Bytes: 120},
		{BufferID: "buf-2", Path: "go.mod", Bytes: 48},
	}
	for _, s := range saves {
		if err := event.Emit(ctx, p, events.BufferSaved, s); err != nil {
			return nil, fmt.Errorf("emit %s: %w", events.BufferSaved, err)
		}
	}
	if err := event.Emit(ctx, p, events.BufferClosed, "buf-2"); err != nil {
		return nil, fmt.Errorf("emit %s: %w", events.BufferClosed, err)
	}
	rep.Indexed = ix.Snapshot()
	log.Info().Int("indexed", len(rep.Indexed)).Msg("Emitted buffer events")

	if err := event.UnsubscribeFromAll(ix); err != nil {
		return nil, err
	}
	log.Info().Int("listeners", p.Listeners(events.BufferSaved)).Msg("Indexer unsubscribed")

	tokens.CancelAll()
	rep.Stats = p.Stats()
	return rep, nil
}
