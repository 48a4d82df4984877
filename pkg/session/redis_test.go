package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, opts...)
	t.Cleanup(func() { client.Close() })
	return store, mr
}

func TestRedisStoreContract(t *testing.T) {
	store, _ := newTestRedisStore(t)
	runStoreContract(t, store)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, WithRedisTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("short-lived")))

	// Keys carry a native TTL; advancing the clock evicts them.
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Touch(ctx, "short-lived"), ErrNotFound)
}

func TestRedisStoreTouchExtendsTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, WithRedisTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("kept-alive")))

	mr.FastForward(40 * time.Second)
	require.NoError(t, store.Touch(ctx, "kept-alive"))
	mr.FastForward(40 * time.Second)

	// 80s elapsed in total, but the touch reset the 60s clock.
	_, err := store.Load(ctx, "kept-alive")
	assert.NoError(t, err)
}

func TestRedisStoreKeysArePrefixed(t *testing.T) {
	store, mr := newTestRedisStore(t, WithRedisPrefix("myapp:sess:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("abc")))
	assert.True(t, mr.Exists("myapp:sess:abc"), "data key missing or unprefixed")
	assert.True(t, mr.Exists("myapp:sess:index"), "index key missing or unprefixed")
}

func TestRedisStoreSweepPrunesIndex(t *testing.T) {
	store, _ := newTestRedisStore(t, WithRedisTTL(30*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("a")))
	require.NoError(t, store.Save(ctx, NewState("b")))

	// Index scores compare against wall-clock time.
	time.Sleep(50 * time.Millisecond)

	n, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A second sweep finds nothing.
	n, err = store.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStoreCloseOwnership(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	// A store built from an existing client must not close it.
	store := NewRedisStoreFromClient(client)
	require.NoError(t, store.Close())
	require.NoError(t, client.Ping(context.Background()).Err())

	// A store that dialed for itself closes its own client.
	owned := NewRedisStore(mr.Addr(), "", 0)
	require.NoError(t, owned.Save(context.Background(), NewState("x")))
	require.NoError(t, owned.Close())
}
