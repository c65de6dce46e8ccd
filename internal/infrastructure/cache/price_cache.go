package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const priceQueryKeyPrefix = "price:query:"

// PriceQueryCache caches serialized price query responses keyed by SKU and
// district. Entries expire on their own; writes to prices for a SKU
// invalidate every district entry for that SKU.
type PriceQueryCache interface {
	// Get returns the cached payload, or found=false on a miss
	Get(ctx context.Context, skuID, districtID uuid.UUID) (payload []byte, found bool, err error)

	// Set stores a payload under the SKU and district key
	Set(ctx context.Context, skuID, districtID uuid.UUID, payload []byte) error

	// InvalidateSKU drops every cached entry for a SKU
	InvalidateSKU(ctx context.Context, skuID uuid.UUID) error
}

// RedisPriceQueryCache implements PriceQueryCache on Redis, suitable for
// deployments with more than one API instance
type RedisPriceQueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPriceQueryCache creates a Redis-backed price query cache
func NewRedisPriceQueryCache(client *redis.Client, ttl time.Duration) *RedisPriceQueryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &RedisPriceQueryCache{
		client: client,
		ttl:    ttl,
	}
}

func priceQueryKey(skuID, districtID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", priceQueryKeyPrefix, skuID, districtID)
}

// Get returns the cached payload, or found=false on a miss
func (c *RedisPriceQueryCache) Get(ctx context.Context, skuID, districtID uuid.UUID) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, priceQueryKey(skuID, districtID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read price cache: %w", err)
	}
	return payload, true, nil
}

// Set stores a payload under the SKU and district key
func (c *RedisPriceQueryCache) Set(ctx context.Context, skuID, districtID uuid.UUID, payload []byte) error {
	if err := c.client.Set(ctx, priceQueryKey(skuID, districtID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}
	return nil
}

// InvalidateSKU drops every cached entry for a SKU
func (c *RedisPriceQueryCache) InvalidateSKU(ctx context.Context, skuID uuid.UUID) error {
	pattern := priceQueryKeyPrefix + skuID.String() + ":*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan price cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate price cache: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ensure RedisPriceQueryCache implements PriceQueryCache
var _ PriceQueryCache = (*RedisPriceQueryCache)(nil)
