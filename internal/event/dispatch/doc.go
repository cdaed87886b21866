// Package dispatch runs bound event callbacks.
//
// A Call is one callback with its arguments already applied. The Executor
// runs a single Call with panic recovery and timing, and reports the outcome
// as a Result. The SyncDispatcher wraps an Executor with counters so the
// publisher can expose dispatch statistics.
//
// Everything here runs in the caller's goroutine. Nothing is queued, retried
// or run concurrently.
//
// # Usage
//
//	d := dispatch.NewSyncDispatcher(
//	    dispatch.WithPanicHandler(func(panicValue any, stack []byte) {
//	        log.Printf("panic in callback: %v\n%s", panicValue, stack)
//	    }),
//	)
//	result := d.Dispatch(ctx, func(ctx context.Context) error {
//	    return onSaved(ctx, args)
//	})
//	if !result.IsSuccess() {
//	    // result.Error or result.PanicValue describe the failure
//	}
package dispatch
