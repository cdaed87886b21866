package event

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Token is the handle returned by every subscribe call.
// Cancelling it removes exactly the callback it was issued for, whether the
// callback was anonymous or owner-keyed.
type Token struct {
	id     string
	event  Info
	remove func() bool
	done   atomic.Bool
}

func newToken(info Info, remove func() bool) *Token {
	return &Token{
		id:     uuid.NewString(),
		event:  info,
		remove: remove,
	}
}

// ID returns the unique token identifier.
func (t *Token) ID() string {
	return t.id
}

// Event returns the event the callback was subscribed to.
func (t *Token) Event() Info {
	return t.event
}

// Active reports whether the callback is still subscribed.
func (t *Token) Active() bool {
	return !t.done.Load()
}

// Cancel removes the callback. It reports whether this call removed it;
// cancelling twice, or after the callback was removed some other way, is a
// no-op that returns false. Cancel is safe after the publisher closed.
func (t *Token) Cancel() bool {
	if t.done.Swap(true) {
		return false
	}
	return t.remove()
}

// Group manages a set of tokens that are cancelled together.
type Group struct {
	mu     sync.Mutex
	tokens []*Token
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Add adds tokens to the group. Nil tokens are ignored.
func (g *Group) Add(tokens ...*Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, t := range tokens {
		if t != nil {
			g.tokens = append(g.tokens, t)
		}
	}
}

// Keep adds the result of a subscribe call to the group and passes the
// error through:
//
//	if err := g.Keep(event.Subscribe(p, Saved, onSaved)); err != nil {
//	    return err
//	}
func (g *Group) Keep(t *Token, err error) error {
	if err != nil {
		return err
	}
	g.Add(t)
	return nil
}

// CancelAll cancels every token in the group and empties it.
// It returns how many callbacks were removed.
func (g *Group) CancelAll() int {
	g.mu.Lock()
	tokens := g.tokens
	g.tokens = nil
	g.mu.Unlock()

	removed := 0
	for _, t := range tokens {
		if t.Cancel() {
			removed++
		}
	}
	return removed
}

// Len returns the number of tokens in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tokens)
}
