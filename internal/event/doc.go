// Package event provides typed, in-process, synchronous publish/subscribe.
//
// Producers and consumers share event declarations instead of knowing each
// other's concrete types. A declaration binds an argument type to a
// process-wide identity; a Publisher keeps one Handler per event and calls
// its callbacks in the order they subscribed.
//
// # Architecture
//
//	┌─────────────┐    ID()    ┌──────────────────────────────────────┐
//	│  Event[T]   │───────────▶│              Publisher               │
//	│  - identity │            │  - map[ID]Handler, created lazily    │
//	│  - name     │            │  - Emit / EmitAny / Unsubscribe      │
//	└─────────────┘            └──────────────────────────────────────┘
//	       │                                     │
//	       ▼                                     ▼
//	┌─────────────┐            ┌──────────────────────────────────────┐
//	│  Registry   │            │             Handler[T]               │
//	│  - Lookup   │            │  - ordered callbacks, owner table    │
//	│  - Find     │            │  - snapshot emit via dispatch        │
//	└─────────────┘            └──────────────────────────────────────┘
//
// # Declaring Events
//
// Events are package-level variables. The type parameter is what callbacks
// receive; use NoArgs for events without data and Args2 or Args3 for events
// with several values:
//
//	var (
//	    Opened = event.New[event.NoArgs]("file.opened")
//	    Moved  = event.New[event.Args2[int, int]]("cursor.moved")
//	)
//
// Every declaration gets a distinct ID, assigned once and never reused
// while the process runs. Names are optional labels; declared names can be
// listed with Registry.Find.
//
// # Subscribing
//
// Anonymous callbacks can only be removed through the Token that Subscribe
// returns. Owner-keyed callbacks can also be removed with Unsubscribe:
//
//	tok, err := event.Subscribe(p, Opened, event.Func(func(event.NoArgs) {
//	    opened++
//	}))
//
//	_, err = event.SubscribeOwner(p, Moved, view, view.onMoved)
//	...
//	_, err = event.Unsubscribe(p, Moved, view)
//
// An owner holds at most one callback per event on a publisher; a second
// SubscribeOwner fails with ErrDuplicateOwner.
//
// # Emitting
//
// Emit runs in the caller's goroutine and returns when every callback has
// returned. The first callback that fails stops the emit:
//
//	err := event.Emit(ctx, p, Moved, event.Args2[int, int]{V1: 3, V2: 14})
//	var cbErr *event.CallbackError
//	if errors.As(err, &cbErr) {
//	    // cbErr.Index is the position of the failing callback
//	}
//
// Panics are recovered and reported the same way; errors.Is(err,
// ErrCallbackPanic) tells them apart. Emitting an event with no callbacks
// is a no-op unless the publisher was created with WithReportUnheard.
//
// # Subscriber Lifetime
//
// A callback bound to a method keeps its receiver reachable, so a consumer
// that goes away must withdraw its callbacks. Types implementing Subscriber
// record each publisher with SubscribeTo and call UnsubscribeFromAll while
// tearing down. Tracker implements the bookkeeping with weak pointers, so
// a publisher that was dropped or closed first is skipped instead of
// touched.
//
// Tokens are the alternative: collect them in a Group and cancel the group.
//
// # Thread Safety
//
// Publisher, Handler, Tracker, Token and Group are safe for concurrent use.
// Each Handler has its own lock; Emit copies the callback list under that
// lock and runs the callbacks without holding it, so callbacks may
// subscribe and unsubscribe freely.
package event
