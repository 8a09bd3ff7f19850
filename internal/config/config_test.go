package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "zonecheck.yaml", `
components:
  dir: models
  exclude: [Draft*]
checks:
  workers: 4
  timeout: 30s
cache:
  backend: redis
  redis:
    address: localhost:6379
    ttl: 1h
    lock: true
log_level: debug
log_format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "models"), cfg.Components.Dir)
	assert.Equal(t, []string{"Draft*"}, cfg.Components.Exclude)
	assert.Equal(t, 4, cfg.Checks.Workers)
	assert.Equal(t, 30*time.Second, cfg.Checks.Timeout)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.Redis.TTL)
	assert.True(t, cfg.Cache.Redis.Lock)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "json", cfg.LogFormat)

	// Untouched sections keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.Metrics)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "zonecheck.json", `{"cache": {"backend": "sqlite", "sqlite": {"path": "v.db"}}, "server": {"port": "9090"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "v.db"), cfg.Cache.SQLite.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "zonecheck.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colour: blue\n",
		"bad backend":     "cache: {backend: etcd}\n",
		"redis address":   "cache: {backend: redis}\n",
		"lock w/o redis":  "cache: {redis: {lock: true}}\n",
		"negative worker": "checks: {workers: -1}\n",
		"bad port":        "server: {port: 70000}\n",
		"bad level":       "log_level: loud\n",
		"bad log format":  "log_format: xml\n",
		"bad duration":    "checks: {timeout: soon}\n",
		"not yaml":        "components: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, "zonecheck.yaml", content))
			assert.Error(t, err)
		})
	}
}
