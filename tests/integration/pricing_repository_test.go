package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/fertigov/backend/internal/infrastructure/persistence"
)

func TestReferencePriceRepository_FindApplicable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	repo := persistence.NewGormReferencePriceRepository(tdb.DB)
	ctx := context.Background()

	skuID := uuid.New()
	districtID := uuid.New()
	officerID := uuid.New()
	tdb.CreateTestSKU(skuID)
	tdb.CreateTestDistrict(districtID)
	tdb.CreateTestUser(officerID, "district_officer")

	from := time.Now().Add(-24 * time.Hour)

	// Global reference price
	global, err := pricing.NewReferencePrice(skuID, nil, decimal.NewFromInt(1200), from, nil, officerID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, global))

	// District-specific reference price overrides the global one
	local, err := pricing.NewReferencePrice(skuID, &districtID, decimal.NewFromInt(1150), from, nil, officerID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, local))

	t.Run("district price wins over global", func(t *testing.T) {
		found, err := repo.FindApplicable(ctx, skuID, []uuid.UUID{districtID}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, local.ID, found.ID)
		assert.True(t, found.Price.Equal(decimal.NewFromInt(1150)))
	})

	t.Run("falls back to global outside the district", func(t *testing.T) {
		otherDistrict := uuid.New()
		found, err := repo.FindApplicable(ctx, skuID, []uuid.UUID{otherDistrict}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, global.ID, found.ID)
	})

	t.Run("not found before effective date", func(t *testing.T) {
		_, err := repo.FindApplicable(ctx, skuID, []uuid.UUID{districtID}, from.Add(-time.Hour))
		assert.ErrorIs(t, err, shared.ErrNoReferencePrice)
	})
}

func TestPublishedPriceRepository_ComplianceFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	repo := persistence.NewGormPublishedPriceRepository(tdb.DB)
	ctx := context.Background()

	skuID := uuid.New()
	districtID := uuid.New()
	userID := uuid.New()
	retailerID := uuid.New()
	tdb.CreateTestSKU(skuID)
	tdb.CreateTestRetailer(retailerID, userID, districtID)

	reference := decimal.NewFromInt(1000)

	// Within the compliant band: 2% markup
	eval, err := pricing.Evaluate(decimal.NewFromInt(1020), reference)
	require.NoError(t, err)
	pp, err := pricing.NewPublishedPrice(retailerID, skuID, districtID, decimal.NewFromInt(1020), 50, time.Now(), eval)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, pp))

	t.Run("round trips compliance fields", func(t *testing.T) {
		found, err := repo.FindByID(ctx, pp.ID)
		require.NoError(t, err)
		assert.True(t, found.Compliant)
		assert.Equal(t, pricing.SeverityMinor, found.Severity)
		assert.True(t, found.ReferencePriceUsed.Equal(reference))
	})

	t.Run("current price lookup by retailer and SKU", func(t *testing.T) {
		found, err := repo.FindCurrentByRetailerAndSKU(ctx, retailerID, skuID)
		require.NoError(t, err)
		assert.Equal(t, pp.ID, found.ID)
	})

	t.Run("cheapest compliant listing", func(t *testing.T) {
		prices, err := repo.FindCheapestCompliant(ctx, skuID, districtID, 10)
		require.NoError(t, err)
		require.Len(t, prices, 1)
		assert.Equal(t, pp.ID, prices[0].ID)
	})

	t.Run("filter by severity", func(t *testing.T) {
		filter := pricing.NewPublishedPriceFilter()
		sev := pricing.SeverityMinor
		filter.Severity = &sev
		prices, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(1))
		for _, p := range prices {
			assert.Equal(t, pricing.SeverityMinor, p.Severity)
		}
	})
}
