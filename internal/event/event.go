package event

import (
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dshills/pubsub/internal/event/topic"
)

// ID is the process-wide identity of a declared event.
// Zero is never assigned.
type ID uint64

// String returns the identity in decimal.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// nextID is shared by every registry so identities never collide.
var nextID atomic.Uint64

// Descriptor is the type-erased view of a declared event.
type Descriptor interface {
	// ID returns the event identity. Repeated calls return the same value.
	ID() ID

	// Name returns the declared name, empty for unnamed events.
	Name() topic.Topic

	// ArgType returns the type callbacks receive.
	ArgType() reflect.Type
}

// IdentityOf returns the identity of d.
func IdentityOf(d Descriptor) ID {
	return d.ID()
}

// NoArgs is the argument type of events that carry no data.
type NoArgs = struct{}

// Args2 carries the arguments of a two-argument event.
type Args2[A, B any] struct {
	V1 A
	V2 B
}

// Args3 carries the arguments of a three-argument event.
type Args3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

// Event declares an event whose callbacks receive a T.
//
// Events are meant to be declared once, as package-level variables, and
// shared by pointer. The zero value is usable: its identity is assigned on
// first use and it is recorded in the default registry.
type Event[T any] struct {
	name     topic.Topic
	registry *Registry

	once sync.Once
	id   ID
}

// New declares an event in the default registry.
// It panics if name is not a valid event name; an empty name is allowed.
func New[T any](name topic.Topic) *Event[T] {
	return Declare[T](DefaultRegistry(), name)
}

// Declare declares an event in r.
// It panics if name is not a valid event name; an empty name is allowed.
func Declare[T any](r *Registry, name topic.Topic) *Event[T] {
	if name != "" {
		if err := name.Validate(); err != nil {
			panic("event: " + err.Error())
		}
	}
	e := &Event[T]{name: name, registry: r}
	e.ID()
	return e
}

// ID returns the event identity, assigning it on the first call.
func (e *Event[T]) ID() ID {
	e.once.Do(func() {
		e.id = ID(nextID.Add(1))
		r := e.registry
		if r == nil {
			r = DefaultRegistry()
		}
		r.record(e.info())
	})
	return e.id
}

// Name returns the declared name.
func (e *Event[T]) Name() topic.Topic {
	return e.name
}

// ArgType returns reflect.TypeFor[T]().
func (e *Event[T]) ArgType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Info returns the registry record for the event.
func (e *Event[T]) Info() Info {
	e.ID()
	return e.info()
}

// String returns the event label used in logs and errors.
func (e *Event[T]) String() string {
	return e.Info().String()
}

func (e *Event[T]) info() Info {
	return Info{ID: e.id, Name: e.name, ArgType: reflect.TypeFor[T]()}
}

// Info describes a declared event.
type Info struct {
	ID      ID
	Name    topic.Topic
	ArgType reflect.Type
}

// String returns the name, or "event#<id>" for unnamed events.
func (i Info) String() string {
	if i.Name != "" {
		return string(i.Name)
	}
	return "event#" + i.ID.String()
}

// infoOf builds an Info from any descriptor.
func infoOf(d Descriptor) Info {
	if ip, ok := d.(interface{ Info() Info }); ok {
		return ip.Info()
	}
	return Info{ID: d.ID(), Name: d.Name(), ArgType: d.ArgType()}
}
