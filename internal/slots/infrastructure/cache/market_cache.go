package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/slotswap/internal/slots/application/queries"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultMarketTTL keeps market listings cached just long enough to absorb
// bursts of browsing without serving a meaningfully stale market.
const DefaultMarketTTL = 5 * time.Second

// RedisMarketCache implements queries.MarketCache on Redis. Entries expire
// by TTL only; writes never invalidate, so readers may briefly see a slot
// that was just reserved. The swap engine re-checks everything inside its
// transaction, so a stale listing costs a rejected proposal at worst.
type RedisMarketCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisMarketCache creates a market cache on the given Redis client.
func NewRedisMarketCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisMarketCache {
	if ttl <= 0 {
		ttl = DefaultMarketTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisMarketCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func marketKey(excludeOwnerID uuid.UUID) string {
	return "slotswap:market:" + excludeOwnerID.String()
}

// Get returns the cached market view for a user, if present.
func (c *RedisMarketCache) Get(ctx context.Context, excludeOwnerID uuid.UUID) ([]queries.SlotDTO, bool) {
	data, err := c.client.Get(ctx, marketKey(excludeOwnerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("market cache read failed", "error", err)
		}
		return nil, false
	}

	var dtos []queries.SlotDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		c.logger.Warn("market cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return dtos, true
}

// Set stores the market view for a user. Failures are logged and swallowed;
// the cache is advisory.
func (c *RedisMarketCache) Set(ctx context.Context, excludeOwnerID uuid.UUID, slots []queries.SlotDTO) {
	data, err := json.Marshal(slots)
	if err != nil {
		c.logger.Warn("market cache marshal failed", "error", err)
		return
	}

	if err := c.client.Set(ctx, marketKey(excludeOwnerID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("market cache write failed", "error", err)
	}
}
