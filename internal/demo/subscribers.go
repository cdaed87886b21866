package demo

import (
	"context"
	"maps"
	"sync"

	"github.com/dshills/pubsub/internal/event"
	"github.com/dshills/pubsub/internal/event/events"
)

// Receiver records the values emitted on B.
type Receiver struct {
	event.Tracker
	Received []int
}

// Attach subscribes the receiver to B on p.
func (r *Receiver) Attach(p *event.Publisher) error {
	if _, err := event.SubscribeOwner(p, B, r, r.onB); err != nil {
		return err
	}
	r.SubscribeTo(p)
	return nil
}

// UnsubscribeFrom implements event.Subscriber.
func (r *Receiver) UnsubscribeFrom(p *event.Publisher) error {
	_, err := event.Unsubscribe(p, B, r)
	return err
}

func (r *Receiver) onB(_ context.Context, x int) error {
	r.Received = append(r.Received, x)
	return nil
}

// Indexer keeps the size of every saved buffer that is still open.
type Indexer struct {
	event.Tracker

	mu    sync.Mutex
	paths map[string]string
	sizes map[string]int64
}

// NewIndexer creates an empty indexer.
func NewIndexer() *Indexer {
	return &Indexer{
		paths: make(map[string]string),
		sizes: make(map[string]int64),
	}
}

// Attach subscribes the indexer to the buffer events on p.
func (ix *Indexer) Attach(p *event.Publisher) error {
	if _, err := event.SubscribeOwner(p, events.BufferSaved, ix, event.Func(ix.onSaved)); err != nil {
		return err
	}
	if _, err := event.SubscribeOwner(p, events.BufferClosed, ix, event.Func(ix.onClosed)); err != nil {
		_, _ = event.Unsubscribe(p, events.BufferSaved, ix)
		return err
	}
	ix.SubscribeTo(p)
	return nil
}

// UnsubscribeFrom implements event.Subscriber.
func (ix *Indexer) UnsubscribeFrom(p *event.Publisher) error {
	if _, err := event.Unsubscribe(p, events.BufferSaved, ix); err != nil {
		return err
	}
	_, err := event.Unsubscribe(p, events.BufferClosed, ix)
	return err
}

// Snapshot returns the indexed sizes by path.
func (ix *Indexer) Snapshot() map[string]int64 {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return maps.Clone(ix.sizes)
}

func (ix *Indexer) onSaved(s events.BufferSavedArgs) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.paths[s.BufferID] = s.Path
	ix.sizes[s.Path] = s.Bytes
}

func (ix *Indexer) onClosed(bufferID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if path, ok := ix.paths[bufferID]; ok {
		delete(ix.sizes, path)
		delete(ix.paths, bufferID)
	}
}

var (
	_ event.Subscriber = (*Receiver)(nil)
	_ event.Subscriber = (*Indexer)(nil)
)
