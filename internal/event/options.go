package event

import (
	"github.com/rs/zerolog"

	"github.com/dshills/pubsub/internal/event/dispatch"
)

// PublisherOption configures a Publisher.
type PublisherOption func(*publisherConfig)

// publisherConfig contains configuration for a publisher.
type publisherConfig struct {
	// name identifies the publisher in logs and metrics.
	name string

	// logger receives debug records for subscription changes.
	logger zerolog.Logger

	// observer is notified of subscriptions and emits.
	observer Observer

	// reportUnheard makes Emit return ErrNoListeners for unheard events.
	reportUnheard bool

	// panicHandler is called when a callback panics.
	panicHandler dispatch.PanicHandler
}

func defaultPublisherConfig() publisherConfig {
	return publisherConfig{
		logger:   zerolog.Nop(),
		observer: nopObserver{},
	}
}

// WithName sets the publisher name.
func WithName(name string) PublisherOption {
	return func(c *publisherConfig) {
		c.name = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) PublisherOption {
	return func(c *publisherConfig) {
		c.logger = log
	}
}

// WithObserver sets the observer notified of subscriptions and emits.
func WithObserver(o Observer) PublisherOption {
	return func(c *publisherConfig) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithReportUnheard makes Emit return ErrNoListeners when no callback is
// subscribed to the emitted event. By default such an emit is a silent no-op.
func WithReportUnheard() PublisherOption {
	return func(c *publisherConfig) {
		c.reportUnheard = true
	}
}

// WithPanicHandler sets a function called with the value and stack of every
// recovered callback panic. The panic is still reported by Emit.
func WithPanicHandler(h dispatch.PanicHandler) PublisherOption {
	return func(c *publisherConfig) {
		c.panicHandler = h
	}
}
