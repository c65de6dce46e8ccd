package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// cacheEntry holds a cached payload with expiration
type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryPriceQueryCache implements PriceQueryCache with an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryPriceQueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewInMemoryPriceQueryCache creates a new in-memory price query cache
func NewInMemoryPriceQueryCache(ttl time.Duration) *InMemoryPriceQueryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &InMemoryPriceQueryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached payload, or found=false on a miss
func (c *InMemoryPriceQueryCache) Get(ctx context.Context, skuID, districtID uuid.UUID) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[priceQueryKey(skuID, districtID)]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.payload, true, nil
}

// Set stores a payload under the SKU and district key
func (c *InMemoryPriceQueryCache) Set(ctx context.Context, skuID, districtID uuid.UUID, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[priceQueryKey(skuID, districtID)] = cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// InvalidateSKU drops every cached entry for a SKU
func (c *InMemoryPriceQueryCache) InvalidateSKU(ctx context.Context, skuID uuid.UUID) error {
	prefix := priceQueryKeyPrefix + skuID.String() + ":"

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Ensure InMemoryPriceQueryCache implements PriceQueryCache
var _ PriceQueryCache = (*InMemoryPriceQueryCache)(nil)
