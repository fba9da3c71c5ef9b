package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sigbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
log_level: debug
metrics:
  enabled: true
source:
  kind: websocket
  url: ws://localhost:8080/feed
  interval: 1500ms
  initial: 3
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
		assert.Equal(t, SourceWebSocket, cfg.Source.Kind)
		assert.Equal(t, "ws://localhost:8080/feed", cfg.Source.URL)
		assert.Equal(t, 1500*time.Millisecond, cfg.Source.Interval.Std())
		assert.Equal(t, 3, cfg.Source.Initial)
		assert.Equal(t, 10, cfg.Source.Count)
	})

	t.Run("rejects bad durations", func(t *testing.T) {
		path := writeConfig(t, "source:\n  interval: soon\n")

		_, err := Load(path)
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "source: [")

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestDuration(t *testing.T) {
	out, err := yaml.Marshal(struct {
		D Duration `yaml:"d"`
	}{Duration(90 * time.Second)})

	require.NoError(t, err)
	assert.Equal(t, "d: 1m30s\n", string(out))
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := Default()
		assert.NoError(t, cfg.Validate())
	})

	cases := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"unknown kind", func(c *Config) { c.Source.Kind = "kafka" }, ErrUnknownSource},
		{"zero interval", func(c *Config) { c.Source.Interval = 0 }, ErrInvalid},
		{"negative count", func(c *Config) { c.Source.Count = -1 }, ErrInvalid},
		{"cron without schedule", func(c *Config) { c.Source.Kind = SourceCron; c.Source.Cron = "" }, ErrInvalid},
		{"websocket without url", func(c *Config) { c.Source.Kind = SourceWebSocket }, ErrInvalid},
		{"metrics without addr", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Addr = "" }, ErrInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)

			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
}
