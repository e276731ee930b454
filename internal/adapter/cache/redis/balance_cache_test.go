package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*BalanceCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewBalanceCache(client, ttl), server
}

func TestBalanceCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 0)
	userID := uuid.New()

	require.NoError(t, cache.Set(ctx, userID, 1250))

	balance, ok, err := cache.Get(ctx, userID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1250), balance)
}

func TestBalanceCache_NegativeBalance(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 0)
	userID := uuid.New()

	require.NoError(t, cache.Set(ctx, userID, -300))

	balance, ok, err := cache.Get(ctx, userID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-300), balance)
}

func TestBalanceCache_ZeroIsPresentNotAbsent(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 0)
	userID := uuid.New()

	require.NoError(t, cache.Set(ctx, userID, 0))

	balance, ok, err := cache.Get(ctx, userID)

	require.NoError(t, err)
	assert.True(t, ok, "a cached 0 must be reported as present")
	assert.Equal(t, int64(0), balance)
}

func TestBalanceCache_GetAbsent(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 0)

	balance, ok, err := cache.Get(ctx, uuid.New())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), balance)
}

func TestBalanceCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 0)
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	require.NoError(t, cache.Set(ctx, alice, 100))
	require.NoError(t, cache.Set(ctx, bob, 200))
	require.NoError(t, cache.Set(ctx, carol, 300))

	// Duplicates and never-cached ids must not fail the call.
	err := cache.Invalidate(ctx, []uuid.UUID{alice, bob, alice, uuid.New()})
	require.NoError(t, err)

	_, ok, err := cache.Get(ctx, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cache.Get(ctx, bob)
	require.NoError(t, err)
	assert.False(t, ok)

	balance, ok, err := cache.Get(ctx, carol)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(300), balance)
}

func TestBalanceCache_InvalidateEmptyInput(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, 0)

	assert.NoError(t, cache.Invalidate(ctx, nil))
	assert.NoError(t, cache.Invalidate(ctx, []uuid.UUID{}))
}

func TestBalanceCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, time.Minute)
	userID := uuid.New()

	require.NoError(t, cache.Set(ctx, userID, 500))

	server.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceCache_MalformedValue(t *testing.T) {
	ctx := context.Background()
	cache, server := newTestCache(t, 0)
	userID := uuid.New()

	server.Set(balanceKey(userID), "not-a-number")

	_, _, err := cache.Get(ctx, userID)
	assert.Error(t, err)
}
