package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPriceQueryCache_GetSet(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryPriceQueryCache(time.Minute)

		payload, found, err := c.Get(ctx, uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, payload)
	})

	t.Run("hit after set", func(t *testing.T) {
		c := NewInMemoryPriceQueryCache(time.Minute)
		skuID := uuid.New()
		districtID := uuid.New()

		require.NoError(t, c.Set(ctx, skuID, districtID, []byte(`{"prices":[]}`)))

		payload, found, err := c.Get(ctx, skuID, districtID)

		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte(`{"prices":[]}`), payload)
	})

	t.Run("keys are scoped per district", func(t *testing.T) {
		c := NewInMemoryPriceQueryCache(time.Minute)
		skuID := uuid.New()

		require.NoError(t, c.Set(ctx, skuID, uuid.New(), []byte("a")))

		_, found, err := c.Get(ctx, skuID, uuid.New())

		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewInMemoryPriceQueryCache(time.Nanosecond)
		skuID := uuid.New()
		districtID := uuid.New()

		require.NoError(t, c.Set(ctx, skuID, districtID, []byte("a")))
		time.Sleep(5 * time.Millisecond)

		_, found, err := c.Get(ctx, skuID, districtID)

		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestInMemoryPriceQueryCache_InvalidateSKU(t *testing.T) {
	ctx := context.Background()

	t.Run("drops every district entry for the SKU", func(t *testing.T) {
		c := NewInMemoryPriceQueryCache(time.Minute)
		skuID := uuid.New()
		d1 := uuid.New()
		d2 := uuid.New()
		otherSKU := uuid.New()
		otherDistrict := uuid.New()

		require.NoError(t, c.Set(ctx, skuID, d1, []byte("a")))
		require.NoError(t, c.Set(ctx, skuID, d2, []byte("b")))
		require.NoError(t, c.Set(ctx, otherSKU, otherDistrict, []byte("c")))

		require.NoError(t, c.InvalidateSKU(ctx, skuID))

		_, found, _ := c.Get(ctx, skuID, d1)
		assert.False(t, found)
		_, found, _ = c.Get(ctx, skuID, d2)
		assert.False(t, found)

		payload, found, _ := c.Get(ctx, otherSKU, otherDistrict)
		assert.True(t, found)
		assert.Equal(t, []byte("c"), payload)
	})
}
