package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	subusecases "sokogate/internal/application/subscription/usecases"
	"sokogate/internal/shared/logger"
)

const (
	usageKeyPrefix = "usage:subscription:"
	baseUsageTTL   = 60 * time.Second
	usageTTLJitter = 30 * time.Second // TTL range: 60-90s (anti-stampede)
)

// RedisUsageCache caches usage snapshots as JSON with a short, jittered TTL.
// Writers invalidate on every reservation and release, so the TTL only bounds
// staleness after a missed invalidation.
type RedisUsageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisUsageCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisUsageCache {
	if ttl <= 0 {
		ttl = baseUsageTTL
	}
	return &RedisUsageCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisUsageCache) key(subscriptionID uint) string {
	return fmt.Sprintf("%s%d", usageKeyPrefix, subscriptionID)
}

func (c *RedisUsageCache) Get(ctx context.Context, subscriptionID uint) (*subusecases.UsageSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(subscriptionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get usage from cache: %w", err)
	}

	var snapshot subusecases.UsageSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// Treat a corrupt entry as a miss and drop it.
		c.logger.Warnw("discarding corrupt usage cache entry",
			"subscription_id", subscriptionID,
			"error", err,
		)
		_ = c.client.Del(ctx, c.key(subscriptionID)).Err()
		return nil, false, nil
	}
	return &snapshot, true, nil
}

func (c *RedisUsageCache) Set(ctx context.Context, subscriptionID uint, snapshot *subusecases.UsageSnapshot) error {
	cachedAt := time.Now().UTC()
	toStore := *snapshot
	toStore.CachedAt = &cachedAt

	raw, err := json.Marshal(&toStore)
	if err != nil {
		return fmt.Errorf("failed to encode usage snapshot: %w", err)
	}

	if err := c.client.Set(ctx, c.key(subscriptionID), raw, c.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("failed to set usage in cache: %w", err)
	}

	c.logger.Debugw("usage snapshot cached",
		"subscription_id", subscriptionID,
		"preorder_count", snapshot.PreorderCount,
		"preorder_value_cents", snapshot.PreorderValueCents,
	)
	return nil
}

func (c *RedisUsageCache) Invalidate(ctx context.Context, subscriptionID uint) error {
	if err := c.client.Del(ctx, c.key(subscriptionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate usage cache: %w", err)
	}

	c.logger.Debugw("usage cache invalidated", "subscription_id", subscriptionID)
	return nil
}

// ttlWithJitter randomizes the TTL to prevent synchronized expiry across keys.
func (c *RedisUsageCache) ttlWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(usageTTLJitter)))
	return c.ttl + jitter
}
