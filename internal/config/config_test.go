package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[store]
mode = "memory"

[cache]
enabled = true
backend = "redis"

[cache.redis]
addr = "redis:6379"

[scheduling]
timezone = "America/Argentina/Buenos_Aires"
max_week_offset = 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.Store.Mode)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 8, cfg.Scheduling.MaxWeekOffset)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Argentina/Buenos_Aires", loc.String())

	// значения по умолчанию
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 3, cfg.Backend.Retries)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[store]
mode = "remote"

[backend]
url = "http://file:8000"
`)
	t.Setenv("BACKEND_URL", "http://env:8000")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:8000", cfg.Backend.URL)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
}

func TestMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("STORE_MODE", "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Mode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "remote without url", body: "[store]\nmode = \"remote\"\n"},
		{name: "postgres without host", body: "[store]\nmode = \"postgres\"\n"},
		{name: "unknown store", body: "[store]\nmode = \"sqlite\"\n"},
		{name: "unknown cache", body: "[store]\nmode = \"memory\"\n[cache]\nbackend = \"memcached\"\n"},
		{name: "negative offset", body: "[store]\nmode = \"memory\"\n[scheduling]\nmax_week_offset = -1\n"},
		{name: "bad timezone", body: "[store]\nmode = \"memory\"\n[scheduling]\ntimezone = \"Mars/Olympus\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "turnos", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=turnos sslmode=disable", c.DSN())
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("STORE_MODE=memory\nLOG_LEVEL=debug\n"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// t.Setenv восстановит исходное состояние после теста
	t.Setenv("STORE_MODE", "")
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("STORE_MODE"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Mode)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestCORSAndRateLimitFromEnv(t *testing.T) {
	t.Setenv("STORE_MODE", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("BACKEND_RATE_LIMIT", "20")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 20.0, cfg.Backend.RateLimit)
	assert.Equal(t, 1, cfg.Backend.RateBurst)
}

func TestNegativeRateLimit(t *testing.T) {
	_, err := Load(writeConfig(t, "[store]\nmode = \"memory\"\n[backend]\nrate_limit = -1.0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
