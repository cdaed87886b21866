package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pubsub/internal/event"
)

var (
	registry = event.NewRegistry()
	saved    = event.Declare[string](registry, "buffer.saved")
	closed   = event.Declare[string](registry, "buffer.closed")
)

func newObserved(t *testing.T, opts ...event.PublisherOption) (*event.Publisher, *Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg, "pubsub")
	require.NoError(t, err)

	p := event.NewPublisher(append(opts, event.WithObserver(c))...)
	t.Cleanup(func() { _ = p.Close() })
	return p, c, reg
}

func TestCollector_Emits(t *testing.T) {
	ctx := context.Background()
	p, c, _ := newObserved(t)

	_, err := event.Subscribe(p, saved, event.Func(func(string) {}))
	require.NoError(t, err)
	_, err = event.Subscribe(p, saved, event.Func(func(string) {}))
	require.NoError(t, err)

	require.NoError(t, event.Emit(ctx, p, saved, "a.go"))
	require.NoError(t, event.Emit(ctx, p, saved, "b.go"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.emits.WithLabelValues("buffer.saved", OutcomeOK)))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.callbacks.WithLabelValues("buffer.saved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.subscriptions.WithLabelValues("buffer.saved")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestCollector_Failures(t *testing.T) {
	ctx := context.Background()
	p, c, _ := newObserved(t, event.WithReportUnheard())

	_, err := event.Subscribe(p, saved, event.Func(func(string) {}))
	require.NoError(t, err)
	_, err = event.Subscribe(p, saved, event.ErrFunc(func(path string) error {
		if path == "panic" {
			panic("boom")
		}
		return errors.New("read-only")
	}))
	require.NoError(t, err)

	require.Error(t, event.Emit(ctx, p, saved, "x"))
	require.Error(t, event.Emit(ctx, p, saved, "panic"))
	require.ErrorIs(t, event.Emit(ctx, p, closed, "x"), event.ErrNoListeners)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.emits.WithLabelValues("buffer.saved", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.emits.WithLabelValues("buffer.saved", OutcomePanicked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.emits.WithLabelValues("buffer.closed", OutcomeUnheard)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.callbacks.WithLabelValues("buffer.saved")))
}

func TestCollector_Subscriptions(t *testing.T) {
	p, _, reg := newObserved(t)

	owner := new(int)
	_, err := event.SubscribeOwner(p, closed, owner, event.Func(func(string) {}))
	require.NoError(t, err)
	tok, err := event.Subscribe(p, closed, event.Func(func(string) {}))
	require.NoError(t, err)
	tok.Cancel()

	expected := `
# HELP pubsub_subscriptions Current number of subscribed callbacks
# TYPE pubsub_subscriptions gauge
pubsub_subscriptions{event="buffer.closed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pubsub_subscriptions"))

	require.NoError(t, p.Close())
	expected = strings.Replace(expected, "} 1", "} 0", 1)
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pubsub_subscriptions"))
}

func TestCollector_DurationHistogram(t *testing.T) {
	p, _, reg := newObserved(t)

	_, err := event.Subscribe(p, saved, event.Func(func(string) {}))
	require.NoError(t, err)
	for range 3 {
		require.NoError(t, event.Emit(context.Background(), p, saved, "x"))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "pubsub_dispatch_duration_seconds" {
			require.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
			require.Len(t, mf.GetMetric(), 1)
			hist = mf.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, uint64(3), hist.GetSampleCount())
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg, "pubsub")
	require.NoError(t, err)

	_, err = NewCollector(reg, "pubsub")
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fmt.Errorf("%w: x", event.ErrNoListeners), OutcomeUnheard},
		{&event.CallbackError{Err: &event.PanicError{Value: 1}}, OutcomePanicked},
		{context.Canceled, OutcomeCancelled},
		{context.DeadlineExceeded, OutcomeCancelled},
		{errors.New("x"), OutcomeFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err), "%v", tt.err)
	}
}
