package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

const defaultRedisPrefix = "clearance:session:"

// sessionKey names the single slot a terminal's session occupies. Kiosk
// deployments share one operator session per prefix.
const sessionKey = "current"

// RedisStore persists the session in redis with TTL semantics, for shared
// kiosk terminals where a local file would be wiped between boots.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed session cache. An empty prefix uses
// the default; a non-positive ttl stores without expiry.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) (domain.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, apperrors.NotFound("no cached session")
		}
		return domain.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (r *RedisStore) Save(ctx context.Context, sess domain.Session) error {
	if !sess.Valid() {
		return errors.New("refusing to cache an invalid session")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var expiry time.Duration
	if r.ttl > 0 {
		expiry = r.ttl
	}
	return r.client.Set(ctx, r.prefix+sessionKey, data, expiry).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.prefix+sessionKey).Err()
}
