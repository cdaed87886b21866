package demo

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pubsub/internal/event"
	"github.com/dshills/pubsub/internal/event/events"
)

func TestRun(t *testing.T) {
	for _, unheard := range []bool{false, true} {
		opts := []event.PublisherOption{event.WithName("demo")}
		if unheard {
			opts = append(opts, event.WithReportUnheard())
		}
		p := event.NewPublisher(opts...)

		var buf bytes.Buffer
		rep, err := Run(context.Background(), p, zerolog.New(&buf))
		require.NoError(t, err)

		assert.Equal(t, []string{"first", "second"}, rep.Order)
		assert.Equal(t, 1, rep.First)
		assert.Equal(t, 1, rep.Second)
		assert.Equal(t, []int{1}, rep.Received)
		assert.Equal(t, map[string]int64{"main.go": 120}, rep.Indexed)
		assert.Zero(t, rep.Stats.Listeners)
		assert.Contains(t, buf.String(), "Indexer unsubscribed")

		assert.Zero(t, p.Listeners(A), "A subscriptions outlived the run")
		require.NoError(t, p.Close())
	}
}

func TestRun_ClosedPublisher(t *testing.T) {
	p := event.NewPublisher()
	require.NoError(t, p.Close())

	_, err := Run(context.Background(), p, zerolog.Nop())
	assert.ErrorIs(t, err, event.ErrPublisherClosed)
}

func TestReceiver(t *testing.T) {
	ctx := context.Background()
	p1, p2 := event.NewPublisher(), event.NewPublisher()
	defer p1.Close()
	defer p2.Close()

	r := &Receiver{}
	require.NoError(t, r.Attach(p1))
	require.NoError(t, r.Attach(p2))
	assert.ErrorIs(t, r.Attach(p1), event.ErrDuplicateOwner)
	assert.Len(t, r.TrackedPublishers(), 2)

	require.NoError(t, event.Emit(ctx, p1, B, 1))
	require.NoError(t, event.Emit(ctx, p2, B, 2))
	require.NoError(t, event.UnsubscribeFromAll(r))
	require.NoError(t, event.Emit(ctx, p1, B, 3))
	require.NoError(t, event.Emit(ctx, p2, B, 4))

	assert.Equal(t, []int{1, 2}, r.Received)
	assert.Empty(t, r.TrackedPublishers())
}

func TestIndexer(t *testing.T) {
	ctx := context.Background()
	p := event.NewPublisher()
	defer p.Close()

	ix := NewIndexer()
	require.NoError(t, ix.Attach(p))

	require.NoError(t, event.Emit(ctx, p, events.BufferSaved, events.BufferSavedArgs{BufferID: "b1", Path: "a.go", Bytes: 1}))
	require.NoError(t, event.Emit(ctx, p, events.BufferSaved, events.BufferSavedArgs{BufferID: "b1", Path: "a.go", Bytes: 5}))
	assert.Equal(t, map[string]int64{"a.go": 5}, ix.Snapshot())

	require.NoError(t, event.Emit(ctx, p, events.BufferClosed, "b1"))
	assert.Empty(t, ix.Snapshot())

	require.NoError(t, event.UnsubscribeFromAll(ix))
	assert.Zero(t, p.Listeners(events.BufferSaved))
	assert.Zero(t, p.Listeners(events.BufferClosed))
}
