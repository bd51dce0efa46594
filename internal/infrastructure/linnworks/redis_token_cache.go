package linnworks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionKey = "erp:session"

// RedisTokenStore caches the ERP session in Redis so multiple instances
// share one authenticated session instead of each holding its own.
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

// NewRedisTokenStore creates a Redis-backed token store
func NewRedisTokenStore(client *redis.Client, key string) *RedisTokenStore {
	if key == "" {
		key = defaultSessionKey
	}
	return &RedisTokenStore{client: client, key: key}
}

// Get returns the cached session, or nil when absent or expired. The key
// TTL tracks the session expiry, so an expired session is simply missing.
func (s *RedisTokenStore) Get(ctx context.Context) (*Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it
		return nil, nil
	}
	if !session.Valid() {
		return nil, nil
	}
	return &session, nil
}

// Set stores the session with a TTL matching its expiry
func (s *RedisTokenStore) Set(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached session
func (s *RedisTokenStore) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate session in redis: %w", err)
	}
	return nil
}

// Ensure RedisTokenStore implements TokenStore
var _ TokenStore = (*RedisTokenStore)(nil)
