// Package metrics exports publisher activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/pubsub/internal/event"
)

// Emit outcomes used as the "outcome" label value.
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomePanicked  = "panicked"
	OutcomeCancelled = "cancelled"
	OutcomeUnheard   = "unheard"
)

// Collector implements event.Observer by updating Prometheus metrics.
// Every metric is labelled with the event name.
type Collector struct {
	emits         *prometheus.CounterVec
	callbacks     *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions *prometheus.GaugeVec
}

var _ event.Observer = (*Collector)(nil)

// NewCollector creates the metrics under namespace and registers them on reg.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		emits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emits_total",
				Help:      "Total number of emits by outcome",
			},
			[]string{"event", "outcome"},
		),
		callbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callbacks_total",
				Help:      "Total number of callbacks that completed successfully",
			},
			[]string{"event"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of emits in seconds",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"event"},
		),
		subscriptions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "subscriptions",
				Help:      "Current number of subscribed callbacks",
			},
			[]string{"event"},
		),
	}

	for _, m := range []prometheus.Collector{c.emits, c.callbacks, c.duration, c.subscriptions} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Subscribed implements event.Observer.
func (c *Collector) Subscribed(info event.Info, listeners int) {
	c.subscriptions.WithLabelValues(info.String()).Set(float64(listeners))
}

// Unsubscribed implements event.Observer.
func (c *Collector) Unsubscribed(info event.Info, listeners int) {
	c.subscriptions.WithLabelValues(info.String()).Set(float64(listeners))
}

// Emitted implements event.Observer.
func (c *Collector) Emitted(info event.Info, delivered int, elapsed time.Duration, err error) {
	name := info.String()
	outcome := Outcome(err)

	c.emits.WithLabelValues(name, outcome).Inc()
	if outcome == OutcomeUnheard {
		return
	}
	c.callbacks.WithLabelValues(name).Add(float64(delivered))
	c.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// Outcome classifies an error returned by Emit.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, event.ErrNoListeners):
		return OutcomeUnheard
	case errors.Is(err, event.ErrCallbackPanic):
		return OutcomePanicked
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
