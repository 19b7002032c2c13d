package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/espengetz/brandprotocol/internal/domain"
)

// DefaultCacheTTL bounds staleness even if an invalidation is lost.
const DefaultCacheTTL = time.Hour

const cacheKeyPrefix = "brand:knowledge:"

// Cache stores merged BrandKnowledge per brand. Entries are invalidated
// explicitly whenever a source is added or deleted; the TTL is only a
// backstop. Cache failures are treated as misses, never as request errors.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache creates a knowledge cache. A non-positive ttl uses the default.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached knowledge for a brand, or false on a miss.
func (c *Cache) Get(ctx context.Context, brandID string) (*domain.BrandKnowledge, bool) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+brandID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "knowledge cache get failed",
				slog.String("brand_id", brandID), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var bk domain.BrandKnowledge
	if err := json.Unmarshal(data, &bk); err != nil {
		c.logger.WarnContext(ctx, "knowledge cache entry corrupt",
			slog.String("brand_id", brandID), slog.String("error", err.Error()))
		return nil, false
	}
	return &bk, true
}

// Set stores the merged knowledge for a brand.
func (c *Cache) Set(ctx context.Context, brandID string, bk *domain.BrandKnowledge) {
	data, err := json.Marshal(bk)
	if err != nil {
		c.logger.WarnContext(ctx, "knowledge cache marshal failed",
			slog.String("brand_id", brandID), slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+brandID, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "knowledge cache set failed",
			slog.String("brand_id", brandID), slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached knowledge for a brand. Called on every source
// add or delete so stale guidelines are never served.
func (c *Cache) Invalidate(ctx context.Context, brandID string) error {
	if err := c.client.Del(ctx, cacheKeyPrefix+brandID).Err(); err != nil {
		return err
	}
	return nil
}
