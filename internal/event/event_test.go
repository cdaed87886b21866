package event

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pubsub/internal/event/topic"
)

func TestEvent_IdentityStable(t *testing.T) {
	ev := Declare[int](NewRegistry(), "test.stable")

	first := ev.ID()
	for range 10 {
		assert.Equal(t, first, ev.ID())
	}
	assert.NotZero(t, first)
}

func TestEvent_DistinctIdentities(t *testing.T) {
	r := NewRegistry()
	a := Declare[NoArgs](r, "test.a")
	b := Declare[int](r, "test.b")
	c := Declare[int](r, "test.c")
	other := Declare[int](NewRegistry(), "test.a")

	ids := map[ID]bool{}
	for _, d := range []Descriptor{a, b, c, other} {
		assert.False(t, ids[d.ID()], "identity %s reused", d.ID())
		ids[d.ID()] = true
	}
}

func TestEvent_ConcurrentFirstUse(t *testing.T) {
	var ev Event[string]

	const n = 32
	ids := make([]ID, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = ev.ID()
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestEvent_ZeroValue(t *testing.T) {
	var ev Event[int]

	id := ev.ID()
	require.NotZero(t, id)

	info, ok := DefaultRegistry().Lookup(id)
	require.True(t, ok)
	assert.Equal(t, topic.Topic(""), info.Name)
	assert.Equal(t, "event#"+id.String(), ev.String())
}

func TestEvent_ArgType(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		d    Descriptor
		want reflect.Type
	}{
		{"no args", Declare[NoArgs](r, ""), reflect.TypeFor[struct{}]()},
		{"int", Declare[int](r, ""), reflect.TypeFor[int]()},
		{"two args", Declare[Args2[string, int]](r, ""), reflect.TypeFor[Args2[string, int]]()},
		{"interface", Declare[error](r, ""), reflect.TypeFor[error]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.ArgType())
		})
	}
}

func TestDeclare_InvalidName(t *testing.T) {
	r := NewRegistry()

	for _, name := range []topic.Topic{"buffer.*", "a..b", " spaced"} {
		assert.Panics(t, func() { Declare[int](r, name) }, "name %q", name)
	}
	assert.Zero(t, r.Len())
}

func TestIdentityOf(t *testing.T) {
	ev := Declare[int](NewRegistry(), "test.identity")
	assert.Equal(t, ev.ID(), IdentityOf(ev))
}

func TestInfo_String(t *testing.T) {
	assert.Equal(t, "buffer.saved", Info{ID: 3, Name: "buffer.saved"}.String())
	assert.Equal(t, "event#7", Info{ID: 7}.String())
}
