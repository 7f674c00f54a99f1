package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sweetshop/inventory-api/internal/api/metrics"
	"github.com/sweetshop/inventory-api/internal/core/domain"
)

const catalogKey = "catalog:sweets"

// CatalogCache is a cache-aside store for the unfiltered catalog, backed by
// Redis. Entries expire after the configured TTL and are dropped eagerly on
// every catalog mutation.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a CatalogCache wrapping the given Redis client.
// If ttl <= 0 a 30 second default is used.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns the cached catalog and whether the key was present.
func (c *CatalogCache) Get(ctx context.Context) ([]*domain.Sweet, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("catalog cache get: %w", err)
	}

	var sweets []*domain.Sweet
	if err := json.Unmarshal(raw, &sweets); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	return sweets, true, nil
}

// Set stores the catalog snapshot with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, sweets []*domain.Sweet) error {
	raw, err := json.Marshal(sweets)
	if err != nil {
		return fmt.Errorf("catalog cache marshal: %w", err)
	}
	return c.client.Set(ctx, catalogKey, raw, c.ttl).Err()
}

// Invalidate drops the cached snapshot.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
