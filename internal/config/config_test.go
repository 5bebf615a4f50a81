package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "embedded", cfg.Catalog.Source)
	assert.Equal(t, "none", cfg.Catalog.LatencyMode)
	assert.Equal(t, "file", cfg.Saved.Backend)
	assert.Equal(t, "savedProperties", cfg.Saved.Key)
}

func TestLoadConfig_File(t *testing.T) {
	dir := writeConfig(t, `
http:
  port: 9090
  timeout: 3s
catalog:
  source: mysql
  latency_mode: fixed
  latency: 250ms
database:
  host: db
  user: app
  password: secret
  name: catalog
saved:
  backend: redis
  key: bookmarks
tracing:
  service_name: browser-api
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Catalog.Latency)
	assert.Equal(t, "redis", cfg.Saved.Backend)
	assert.Equal(t, "bookmarks", cfg.Saved.Key)
	assert.Equal(t, "browser-api", cfg.Tracing.ServiceName)
	assert.Equal(t, "app:secret@tcp(db:3306)/catalog?parseTime=true", cfg.Database.DSN())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "catalog:\n  source: embedded\n")
	t.Setenv("CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_SEED_PATH", "/srv/listings.json")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Equal(t, "/srv/listings.json", cfg.Catalog.SeedPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown source":       "catalog:\n  source: postgres\n",
		"file without path":    "catalog:\n  source: file\n",
		"unknown backend":      "saved:\n  backend: sqlite\n",
		"bad log level":        "logger:\n  level: loud\n",
		"port out of range":    "http:\n  port: 70000\n",
		"malformed yaml":       "http: [\n",
		"unparseable duration": "http:\n  timeout: soon\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
