package event

import (
	"sort"
	"sync"

	"github.com/dshills/pubsub/internal/event/topic"
)

// Registry records every event declared against it.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	byID map[ID]Info
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by New and by zero-value events.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[ID]Info),
	}
}

func (r *Registry) record(info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[info.ID] = info
}

// Lookup returns the record for id.
func (r *Registry) Lookup(id ID) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.byID[id]
	return info, ok
}

// LookupName returns every event declared with name, in identity order.
// Names are labels, so more than one event may carry the same one.
func (r *Registry) LookupName(name topic.Topic) []Info {
	return r.collect(func(info Info) bool { return info.Name == name })
}

// Find returns the named events matching pattern, in identity order.
// Unnamed events never match.
func (r *Registry) Find(pattern topic.Topic) []Info {
	return r.collect(func(info Info) bool {
		return info.Name != "" && info.Name.Matches(pattern)
	})
}

// All returns every recorded event in identity order.
func (r *Registry) All() []Info {
	return r.collect(func(Info) bool { return true })
}

// Len returns the number of recorded events.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

func (r *Registry) collect(keep func(Info) bool) []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Info
	for _, info := range r.byID {
		if keep(info) {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
