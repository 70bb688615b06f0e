package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "https://clearance-asce.onrender.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Scanner.PollInterval)
	assert.Equal(t, SessionCacheFile, cfg.Session.CacheBackend)
	assert.Equal(t, 12, cfg.Session.TTLHours)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("SCANNER_POLL_INTERVAL", "500ms")
	t.Setenv("SESSION_CACHE_BACKEND", "redis")
	t.Setenv("SESSION_REDIS_ADDR", "redis.internal:6379")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	// Trailing slash stripped so path joins stay predictable.
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Scanner.PollInterval)
	assert.Equal(t, SessionCacheRedis, cfg.Session.CacheBackend)
	assert.Equal(t, "redis.internal:6379", cfg.Session.Redis.Addr)
}

func TestAPIConfig_SanitizeGuardrails(t *testing.T) {
	cfg := APIConfig{BaseURL: "   ", Timeout: -1}
	cfg.Sanitize()

	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestScannerConfig_SanitizeGuardrails(t *testing.T) {
	cfg := ScannerConfig{PollInterval: 0, TagBuffer: -3}
	cfg.Sanitize()

	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 1, cfg.TagBuffer)
}

func TestSessionConfig_InvalidBackendFallsBackToFile(t *testing.T) {
	cfg := SessionConfig{CacheBackend: "sqlite"}
	cfg.Sanitize()

	assert.Equal(t, SessionCacheFile, cfg.CacheBackend)
}

func TestSessionConfig_RedisWithoutAddrFallsBackToFile(t *testing.T) {
	cfg := SessionConfig{
		CacheBackend: SessionCacheRedis,
		Redis:        RedisConfig{Addr: "   "},
	}
	cfg.Sanitize()

	assert.Equal(t, SessionCacheFile, cfg.CacheBackend)
}

func TestObservabilityMetricsConfig_DisabledWithoutAddress(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "}
	cfg.Sanitize()

	assert.False(t, cfg.IsEnabled())
	assert.Equal(t, "clearance_portal", cfg.Prefix)
}

func TestDetectDevMode_AppEnvFallback(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
