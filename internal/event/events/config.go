package events

import "github.com/dshills/pubsub/internal/event"

// Config events.
var (
	// ConfigChanged is emitted when a setting changes.
	ConfigChanged = event.Declare[ConfigChangedArgs](Registry, "config.changed")

	// ConfigReloaded is emitted after the configuration was read again.
	ConfigReloaded = event.Declare[event.NoArgs](Registry, "config.reloaded")
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

// Configuration sources in order of precedence.
const (
	ConfigSourceDefault ConfigSource = "default"
	ConfigSourceFile    ConfigSource = "file"
	ConfigSourceEnv     ConfigSource = "env"
)

// ConfigChangedArgs are passed to ConfigChanged callbacks.
type ConfigChangedArgs struct {
	// Path is the dot-notation path to the setting (e.g., "log.level").
	Path string

	OldValue any
	NewValue any
	Source   ConfigSource
}
