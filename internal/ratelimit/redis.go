package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore keeps fixed-window counters in Redis so several API instances
// share one budget per key.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing client
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: redisKeyPrefix}
}

// Increment implements Store. The expiry is only set when the key has none,
// i.e. on the first hit of a window, so later hits never extend it.
func (s *RedisStore) Increment(ctx context.Context, key string, d time.Duration) (int, time.Time, error) {
	k := s.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis increment %s: %w", k, err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		if err := s.client.PExpire(ctx, k, d).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis expire %s: %w", k, err)
		}
		remaining = d
	}
	return int(incr.Val()), time.Now().Add(remaining), nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
