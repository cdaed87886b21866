package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, FormatConsole, cfg.Log.Format)
	assert.Equal(t, "demo", cfg.Publisher.Name)
	assert.False(t, cfg.Publisher.ReportUnheard)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "pubsub", cfg.Metrics.Namespace)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "pubsub.toml",
			content: `
[log]
level = "debug"
format = "json"

[publisher]
name = "editor"
report_unheard = true

[metrics]
enabled = true
`,
		},
		{
			name: "yaml",
			file: "pubsub.yaml",
			content: `
log:
  level: debug
  format: json
publisher:
  name: editor
  report_unheard: true
metrics:
  enabled: true
`,
		},
		{
			name:    "json",
			file:    "pubsub.json",
			content: `{"log":{"level":"debug","format":"json"},"publisher":{"name":"editor","report_unheard":true},"metrics":{"enabled":true}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, FormatJSON, cfg.Log.Format)
			assert.Equal(t, "editor", cfg.Publisher.Name)
			assert.True(t, cfg.Publisher.ReportUnheard)
			assert.True(t, cfg.Metrics.Enabled)
			assert.Equal(t, "pubsub", cfg.Metrics.Namespace, "default lost")
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yaml", "empty.json"} {
		cfg, err := Load(writeFile(t, name, ""))
		require.NoError(t, err, name)
		assert.Equal(t, Default(), cfg, name)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Load(writeFile(t, "pubsub.ini", "level=debug"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "bad.toml", "[log\nlevel ="))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "toml", pe.Format)

	_, err = Load(writeFile(t, "unknown.yml", "log:\n  colour: red\n"))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "yaml", pe.Format)

	_, err = Load(writeFile(t, "unknown.json", `{"logging":{}}`))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "json", pe.Format)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:      "WARN",
		EnvLogFormat:     "json",
		EnvLogFile:       "/tmp/pubsub.log",
		EnvPublisherName: "from-env",
		EnvReportUnheard: "yes",
		EnvMetrics:       "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
	assert.Equal(t, "/tmp/pubsub.log", cfg.Log.File)
	assert.Equal(t, "from-env", cfg.Publisher.Name)
	assert.True(t, cfg.Publisher.ReportUnheard)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestApplyEnv_Unset(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(string) (string, bool) { return "", false }))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_BadBool(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == EnvMetrics {
			return "maybe", true
		}
		return "", false
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"empty level", func(c *Config) { c.Log.Level = "" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"rotation", func(c *Config) { c.Log.File = "x.log"; c.Log.MaxSizeMB = 0 }, "log.max_size_mb"},
		{"backups", func(c *Config) { c.Log.MaxBackups = -1 }, "log.max_backups"},
		{"namespace", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "9lives" }, "metrics.namespace"},
		{"namespace dash", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "pub-sub" }, "metrics.namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.path, ve.Path)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
}
