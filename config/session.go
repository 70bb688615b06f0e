package config

import "strings"

// SessionCacheBackend selects where the session cache is persisted.
type SessionCacheBackend string

const (
	// SessionCacheFile stores the session in a JSON file under the user
	// config directory. Default for single-user workstations.
	SessionCacheFile SessionCacheBackend = "file"
	// SessionCacheRedis stores the session in Redis. Used by shared kiosk
	// terminals where several front-desk machines present one operator
	// session.
	SessionCacheRedis SessionCacheBackend = "redis"
)

// SessionConfig contains session cache configuration.
type SessionConfig struct {
	// CacheBackend selects the session cache adapter: "file" or "redis".
	CacheBackend SessionCacheBackend `env:"SESSION_CACHE_BACKEND" envDefault:"file"`

	// CachePath overrides the session cache file location. Empty means
	// <user config dir>/clearance-portal/session.json.
	CachePath string `env:"SESSION_CACHE_PATH"`

	// TTL bounds how long a cached session is trusted before restore
	// refuses to use it. The backend token may expire sooner; restore
	// revalidates either way.
	TTLHours int `env:"SESSION_TTL_HOURS" envDefault:"12"`

	// Redis connection settings, used when CacheBackend is "redis".
	Redis RedisConfig `envPrefix:"SESSION_REDIS_"`
}

// RedisConfig contains Redis connection configuration for the shared
// session cache.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	// KeyPrefix namespaces cache entries so several portals can share one
	// Redis instance.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"clearance:session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	switch c.CacheBackend {
	case SessionCacheFile, SessionCacheRedis:
	default:
		c.CacheBackend = SessionCacheFile
	}
	c.CachePath = strings.TrimSpace(c.CachePath)
	if c.TTLHours <= 0 {
		c.TTLHours = 12
	}
	c.Redis.Addr = strings.TrimSpace(c.Redis.Addr)
	if c.Redis.Addr == "" && c.CacheBackend == SessionCacheRedis {
		c.CacheBackend = SessionCacheFile
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "clearance:session:"
	}
}
