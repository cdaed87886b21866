package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel      = "PUBSUB_LOG_LEVEL"
	EnvLogFormat     = "PUBSUB_LOG_FORMAT"
	EnvLogFile       = "PUBSUB_LOG_FILE"
	EnvPublisherName = "PUBSUB_PUBLISHER_NAME"
	EnvReportUnheard = "PUBSUB_REPORT_UNHEARD"
	EnvMetrics       = "PUBSUB_METRICS"
)

// LookupFunc looks up an environment variable; os.LookupEnv is the usual one.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings with the PUBSUB_* environment variables that
// are set. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Log.File = v
	}
	if v, ok := lookup(EnvPublisherName); ok {
		c.Publisher.Name = v
	}
	if v, ok := lookup(EnvReportUnheard); ok {
		b, err := parseBool(EnvReportUnheard, v)
		if err != nil {
			return err
		}
		c.Publisher.ReportUnheard = b
	}
	if v, ok := lookup(EnvMetrics); ok {
		b, err := parseBool(EnvMetrics, v)
		if err != nil {
			return err
		}
		c.Metrics.Enabled = b
	}
	return nil
}

func parseBool(key, v string) (bool, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "yes", "on":
		return true, nil
	case "no", "off", "":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, &ValidationError{Path: key, Value: v, Message: fmt.Sprintf("not a boolean: %v", err)}
	}
	return b, nil
}
