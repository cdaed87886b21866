package event

import (
	"errors"
	"sync"
	"weak"
)

// Subscriber is implemented by types that subscribe to events on one or
// more publishers and must withdraw from all of them before they go away.
//
// The usual implementation embeds a Tracker, which provides everything but
// UnsubscribeFrom:
//
//	type Indexer struct {
//	    event.Tracker
//	}
//
//	func (ix *Indexer) Attach(p *event.Publisher) error {
//	    if _, err := event.SubscribeOwner(p, Saved, ix, ix.onSaved); err != nil {
//	        return err
//	    }
//	    ix.SubscribeTo(p)
//	    return nil
//	}
//
//	func (ix *Indexer) UnsubscribeFrom(p *event.Publisher) error {
//	    _, err := event.Unsubscribe(p, Saved, ix)
//	    return err
//	}
type Subscriber interface {
	// SubscribeTo records p as a publisher the subscriber is registered
	// with. Call it after the per-event subscriptions on p.
	SubscribeTo(p *Publisher)

	// UnsubscribeFrom removes every callback the subscriber registered on p.
	UnsubscribeFrom(p *Publisher) error

	// TrackedPublishers returns the live publishers recorded by SubscribeTo.
	TrackedPublishers() []*Publisher

	// Untrack forgets p.
	Untrack(p *Publisher)
}

// Tracker keeps weak back-references to the publishers a subscriber is
// registered with. It never keeps a publisher alive.
//
// The zero value is ready to use. Tracker must not be copied after first use.
type Tracker struct {
	mu         sync.Mutex
	publishers []weak.Pointer[Publisher]
}

// SubscribeTo records p. Recording the same publisher twice keeps one entry.
func (t *Tracker) SubscribeTo(p *Publisher) {
	if p == nil {
		return
	}
	wp := weak.Make(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.publishers {
		if existing == wp {
			return
		}
	}
	t.publishers = append(t.publishers, wp)
}

// TrackedPublishers returns the recorded publishers that are still alive,
// in the order they were first recorded. Collected publishers are dropped.
func (t *Tracker) TrackedPublishers() []*Publisher {
	t.mu.Lock()
	defer t.mu.Unlock()

	live := t.publishers[:0]
	var out []*Publisher
	for _, wp := range t.publishers {
		if p := wp.Value(); p != nil {
			live = append(live, wp)
			out = append(out, p)
		}
	}
	clear(t.publishers[len(live):])
	t.publishers = live
	return out
}

// Untrack forgets p.
func (t *Tracker) Untrack(p *Publisher) {
	if p == nil {
		return
	}
	wp := weak.Make(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.publishers {
		if existing == wp {
			t.publishers = append(t.publishers[:i], t.publishers[i+1:]...)
			return
		}
	}
}

// Tracking reports whether p is recorded.
func (t *Tracker) Tracking(p *Publisher) bool {
	if p == nil {
		return false
	}
	wp := weak.Make(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.publishers {
		if existing == wp {
			return true
		}
	}
	return false
}

// UnsubscribeFromAll calls s.UnsubscribeFrom for every tracked publisher and
// untracks each one that succeeded. Publishers that were collected or
// closed are untracked without being called. Failures are joined into the
// returned error; their publishers stay tracked so the call can be retried.
//
// Run it while tearing s down, before anything it subscribed becomes invalid.
func UnsubscribeFromAll(s Subscriber) error {
	var errs []error
	for _, p := range s.TrackedPublishers() {
		if p.IsClosed() {
			s.Untrack(p)
			continue
		}
		if err := s.UnsubscribeFrom(p); err != nil && !errors.Is(err, ErrPublisherClosed) {
			errs = append(errs, err)
			continue
		}
		s.Untrack(p)
	}
	return errors.Join(errs...)
}
