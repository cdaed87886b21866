package events

import "github.com/dshills/pubsub/internal/event"

// Buffer events.
var (
	// BufferSaved is emitted after a buffer was written to disk.
	BufferSaved = event.Declare[BufferSavedArgs](Registry, "buffer.saved")

	// BufferClosed is emitted when a buffer is closed; callbacks receive the
	// buffer ID.
	BufferClosed = event.Declare[string](Registry, "buffer.closed")

	// BufferContentInserted is emitted when text is inserted into a buffer.
	BufferContentInserted = event.Declare[BufferContentInsertedArgs](Registry, "buffer.content.inserted")

	// BufferContentDeleted is emitted when text is deleted from a buffer.
	BufferContentDeleted = event.Declare[BufferContentDeletedArgs](Registry, "buffer.content.deleted")
)

// Position is a position in a buffer.
type Position struct {
	// Line is the zero-based line number.
	Line int

	// Column is the zero-based column number (in bytes).
	Column int
}

// Range is a range in a buffer.
type Range struct {
	// Start is the beginning of the range (inclusive).
	Start Position

	// End is the end of the range (exclusive).
	End Position
}

// BufferSavedArgs are passed to BufferSaved callbacks.
type BufferSavedArgs struct {
	BufferID string
	Path     string

	// Bytes is the size written.
	Bytes int64
}

// BufferContentInsertedArgs are passed to BufferContentInserted callbacks.
type BufferContentInsertedArgs struct {
	BufferID string
	Position Position
	Text     string
}

// BufferContentDeletedArgs are passed to BufferContentDeleted callbacks.
type BufferContentDeletedArgs struct {
	BufferID string
	Range    Range

	// DeletedText is the text that was removed.
	DeletedText string
}
