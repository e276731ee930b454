package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/splitledger/backend/internal/domain"
)

// Key prefix for namespacing balance entries.
const balanceKeyPrefix = "user_balance:"

// BalanceCache implements domain.BalanceCache on top of Redis.
// redis.Nil is the only "absent" signal, so a cached balance of exactly
// zero stays distinguishable from a missing entry.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration // 0 means no expiry
}

// NewBalanceCache creates a new Redis-backed balance cache.
// A ttl of 0 stores entries without expiry; invalidation on write is the
// primary coherence mechanism either way.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

// Get returns the cached balance for the user and whether it was present.
func (c *BalanceCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	val, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read balance from cache: %w", err)
	}

	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("malformed cached balance %q: %w", val, err)
	}

	return balance, true, nil
}

// Set stores the balance for the user.
func (c *BalanceCache) Set(ctx context.Context, userID uuid.UUID, balance int64) error {
	if err := c.client.Set(ctx, balanceKey(userID), balance, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write balance to cache: %w", err)
	}

	return nil
}

// Invalidate removes the cached balances for all given users. DEL on an
// absent key is a no-op, so duplicates and unknown ids are harmless.
func (c *BalanceCache) Invalidate(ctx context.Context, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, balanceKey(id))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached balances: %w", err)
	}

	return nil
}

func balanceKey(userID uuid.UUID) string {
	return balanceKeyPrefix + userID.String()
}

// assert interface compliance at compile time
var _ domain.BalanceCache = (*BalanceCache)(nil)
