package events

import "github.com/dshills/pubsub/internal/event"

// CursorMoved is emitted when the primary cursor moves. Callbacks receive
// the old and new positions.
var CursorMoved = event.Declare[event.Args2[Position, Position]](Registry, "cursor.moved")
