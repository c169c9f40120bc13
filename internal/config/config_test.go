package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "test.db")
	path := writeConfig(t, `
server:
  port: 8080
  api_key: secret
  rate_limit: 10
  rate_burst: 20
database:
  path: `+dbPath+`
redis:
  address: localhost:6379
  cache_ttl_seconds: 300
booking:
  min_advance_minutes: 60
  max_advance_days: 30
  lock_wait_seconds: 5
  lenient_transitions: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, 10.0, cfg.Server.RateLimit)
	assert.Equal(t, dbPath, cfg.Database.Path)
	assert.True(t, cfg.Booking.LenientTransitions)

	assert.Equal(t, time.Hour, cfg.BookingMinAdvance())
	assert.Equal(t, 30*24*time.Hour, cfg.BookingMaxAdvance())
	assert.Equal(t, 5*time.Second, cfg.LockWait())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())

	// Load creates the database directory.
	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadDefaults(t *testing.T) {
	wd := t.TempDir()
	path := writeConfig(t, "server:\n  api_key: \"\"\ndatabase:\n  path: "+filepath.Join(wd, "app.db")+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Zero(t, cfg.BookingMinAdvance())
	assert.Zero(t, cfg.BookingMaxAdvance())
	assert.Zero(t, cfg.CacheTTL())
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_BOOKING_KEY", "from-env")

	path := writeConfig(t, `
server:
  api_key: ${TEST_BOOKING_KEY}
database:
  path: `+filepath.Join(t.TempDir(), "env.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: map")
	_, err := Load(path)
	assert.Error(t, err)
}
