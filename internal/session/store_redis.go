package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 2 * time.Hour

// RedisStore persists sessions in Redis with a TTL, standing in for the
// session-scoped storage the browser client used: records expire when the
// session context ends rather than being explicitly destroyed.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A non-positive ttl
// falls back to the default.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, storageKey(data.SessionID), raw, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Data, bool) {
	raw, err := s.client.Get(ctx, storageKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("session read failed, treating as missing", "session_id", id, "error", err)
		}
		return nil, false
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Warn("discarding undecodable session record", "session_id", id, "error", err)
		return nil, false
	}
	return &data, true
}
