// Package events declares the editor events shared by the demo program and
// the pubsub command.
//
// Each event pairs a name with the payload type its callbacks receive.
// Every declaration here is recorded in Registry, which the command uses to
// list events by pattern:
//
//   - Buffer events: saves, closes, content changes
//   - Cursor events: movement
//   - Config events: setting changes, reloads
//
// # Usage
//
//	import (
//	    "github.com/dshills/pubsub/internal/event"
//	    "github.com/dshills/pubsub/internal/event/events"
//	)
//
//	_, err := event.SubscribeOwner(p, events.BufferSaved, ix,
//	    func(ctx context.Context, saved events.BufferSavedArgs) error {
//	        return ix.reindex(ctx, saved.Path)
//	    })
//
//	err = event.Emit(ctx, p, events.BufferSaved, events.BufferSavedArgs{
//	    BufferID: "buf-1",
//	    Path:     "main.go",
//	})
package events

import "github.com/dshills/pubsub/internal/event"

// Registry records every event declared in this package.
var Registry = event.NewRegistry()
