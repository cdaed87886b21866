package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds every setting of the pubsub command.
type Config struct {
	Log       LogConfig       `toml:"log" yaml:"log" json:"log"`
	Publisher PublisherConfig `toml:"publisher" yaml:"publisher" json:"publisher"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics" json:"metrics"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string `toml:"level" yaml:"level" json:"level"`

	// Format is FormatConsole or FormatJSON.
	Format string `toml:"format" yaml:"format" json:"format"`

	// File, when set, receives a copy of every record in JSON format.
	File string `toml:"file" yaml:"file" json:"file"`

	// MaxSizeMB is the size at which File is rotated.
	MaxSizeMB int `toml:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `toml:"max_backups" yaml:"max_backups" json:"max_backups"`
}

// PublisherConfig configures the demo publisher.
type PublisherConfig struct {
	Name string `toml:"name" yaml:"name" json:"name"`

	// ReportUnheard makes emits with no listeners fail with
	// event.ErrNoListeners.
	ReportUnheard bool `toml:"report_unheard" yaml:"report_unheard" json:"report_unheard"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled" json:"enabled"`
	Namespace string `toml:"namespace" yaml:"namespace" json:"namespace"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      zerolog.InfoLevel.String(),
			Format:     FormatConsole,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Publisher: PublisherConfig{
			Name: "demo",
		},
		Metrics: MetricsConfig{
			Namespace: "pubsub",
		},
	}
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		errs = append(errs, &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "unknown level"})
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		errs = append(errs, &ValidationError{
			Path:    "log.format",
			Value:   c.Log.Format,
			Message: fmt.Sprintf("must be %q or %q", FormatConsole, FormatJSON),
		})
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		errs = append(errs, &ValidationError{Path: "log.max_size_mb", Value: c.Log.MaxSizeMB, Message: "must be positive"})
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, &ValidationError{Path: "log.max_backups", Value: c.Log.MaxBackups, Message: "must not be negative"})
	}
	if c.Metrics.Enabled && !validNamespace(c.Metrics.Namespace) {
		errs = append(errs, &ValidationError{
			Path:    "metrics.namespace",
			Value:   c.Metrics.Namespace,
			Message: "must match [a-zA-Z_][a-zA-Z0-9_]*",
		})
	}

	return errors.Join(errs...)
}

func validNamespace(ns string) bool {
	if ns == "" {
		return false
	}
	for i, r := range ns {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
