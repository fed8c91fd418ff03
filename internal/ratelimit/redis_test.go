package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore_Increment(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	count, resetAt, err := store.Increment(ctx, "ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), resetAt, 2*time.Second)

	count, _, err = store.Increment(ctx, "ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, time.Minute, mr.TTL("ratelimit:ip:1.2.3.4"))
}

func TestRedisStore_WindowExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	limiter := New(store, 2, time.Minute)
	ctx := context.Background()

	limiter.Hit(ctx, "k")
	limiter.Hit(ctx, "k")
	res, err := limiter.Hit(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	mr.FastForward(time.Minute + time.Second)

	res, err = limiter.Hit(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, _, err := store.Increment(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
