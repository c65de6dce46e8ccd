package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishEnv struct {
	pubPrices *MockPublishedPriceRepository
	refPrices *MockReferencePriceRepository
	alerts    *MockPriceAlertRepository
	audits    *MockPriceAuditRepository
	retailers *stubRetailerFinder
	skus      *stubSKUFinder
	districts *stubDistrictFinder
	publisher *recordingPublisher
	svc       *PublishService

	state  *district.District
	pune   *district.District
	sku    *catalog.SKU
	seller *retailer.Retailer
	userID uuid.UUID
}

func newPublishEnv(t *testing.T) *publishEnv {
	t.Helper()

	state, err := district.NewDistrict("MH", "Maharashtra")
	require.NoError(t, err)
	pune, err := district.NewChildDistrict("MH-PUNE", "Pune", state)
	require.NoError(t, err)

	sku, err := catalog.NewSKU("DAP-50", "DAP 18-46-0", "GreenGrow Ltd", decimal.NewFromInt(50))
	require.NoError(t, err)

	userID := uuid.New()
	seller, err := retailer.NewRetailer(userID, pune.ID, "AgriMart Supplies", "LIC-2024-001")
	require.NoError(t, err)
	require.NoError(t, seller.Verify(uuid.New()))

	env := &publishEnv{
		pubPrices: new(MockPublishedPriceRepository),
		refPrices: new(MockReferencePriceRepository),
		alerts:    new(MockPriceAlertRepository),
		audits:    new(MockPriceAuditRepository),
		retailers: &stubRetailerFinder{byUser: map[uuid.UUID]*retailer.Retailer{userID: seller}},
		skus:      &stubSKUFinder{skus: map[uuid.UUID]*catalog.SKU{sku.ID: sku}},
		districts: &stubDistrictFinder{known: map[uuid.UUID]*district.District{state.ID: state, pune.ID: pune}},
		publisher: &recordingPublisher{},
		state:     state,
		pune:      pune,
		sku:       sku,
		seller:    seller,
		userID:    userID,
	}
	env.svc = NewPublishService(
		env.pubPrices,
		env.refPrices,
		env.alerts,
		env.audits,
		env.retailers,
		env.skus,
		env.districts,
		env.publisher,
		nil,
		zap.NewNop(),
	)
	return env
}

// expectReference wires the reference price lookup for the retailer's chain
func (e *publishEnv) expectReference(t *testing.T, price decimal.Decimal) {
	t.Helper()
	rp, err := pricing.NewReferencePrice(e.sku.ID, nil, price, time.Now().Add(-24*time.Hour), nil, uuid.New())
	require.NoError(t, err)

	e.refPrices.On("FindApplicable", mock.Anything, e.sku.ID,
		[]uuid.UUID{e.pune.ID, e.state.ID}, mock.AnythingOfType("time.Time")).
		Return(rp, nil)
}

func TestPublishService_PublishPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("compliant price is auto approved without an alert", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))

		env.pubPrices.On("Create", ctx, mock.AnythingOfType("*pricing.PublishedPrice")).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)

		info, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID:        env.userID,
			SKUID:         env.sku.ID,
			Price:         decimal.NewFromInt(1010),
			StockQuantity: 40,
		})

		require.NoError(t, err)
		assert.True(t, info.Compliant)
		assert.Equal(t, pricing.SeverityNone, info.Severity)
		assert.Equal(t, pricing.ApprovalAutoApproved, info.Approval)
		assert.True(t, info.MarkupPct.Equal(decimal.NewFromInt(1)))
		env.alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("minor markup stays compliant but raises a low alert", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))

		env.pubPrices.On("Create", ctx, mock.AnythingOfType("*pricing.PublishedPrice")).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)
		env.alerts.On("Create", ctx, mock.MatchedBy(func(a *pricing.PriceAlert) bool {
			return a.Severity == pricing.AlertLow
		})).Return(nil)

		info, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1020),
		})

		require.NoError(t, err)
		assert.Equal(t, pricing.SeverityMinor, info.Severity)
		env.alerts.AssertExpectations(t)
	})

	t.Run("major markup is held for review with a high alert", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))

		env.pubPrices.On("Create", ctx, mock.AnythingOfType("*pricing.PublishedPrice")).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)
		env.alerts.On("Create", ctx, mock.MatchedBy(func(a *pricing.PriceAlert) bool {
			return a.Severity == pricing.AlertHigh && a.RetailerID == env.seller.ID
		})).Return(nil)

		info, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1080),
		})

		require.NoError(t, err)
		assert.False(t, info.Compliant)
		assert.Equal(t, pricing.SeverityMajor, info.Severity)
		assert.Equal(t, pricing.ApprovalPendingReview, info.Approval)
		env.alerts.AssertExpectations(t)
	})

	t.Run("below-reference price is severe with a critical alert", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))

		env.pubPrices.On("Create", ctx, mock.AnythingOfType("*pricing.PublishedPrice")).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)
		env.alerts.On("Create", ctx, mock.MatchedBy(func(a *pricing.PriceAlert) bool {
			return a.Severity == pricing.AlertCritical
		})).Return(nil)

		info, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(900),
		})

		require.NoError(t, err)
		assert.Equal(t, pricing.SeveritySevere, info.Severity)
		assert.Equal(t, pricing.ApprovalPendingReview, info.Approval)
	})

	t.Run("unverified retailer cannot publish", func(t *testing.T) {
		env := newPublishEnv(t)
		pending, err := retailer.NewRetailer(uuid.New(), env.pune.ID, "New Depot", "LIC-2024-002")
		require.NoError(t, err)
		env.retailers.byUser[pending.UserID] = pending

		_, err = env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: pending.UserID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1000),
		})

		assertDomainErrorCode(t, err, "RETAILER_NOT_VERIFIED")
	})

	t.Run("suspended retailer cannot publish", func(t *testing.T) {
		env := newPublishEnv(t)
		require.NoError(t, env.seller.Suspend("expired license"))

		_, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1000),
		})

		assertDomainErrorCode(t, err, "RETAILER_SUSPENDED")
	})

	t.Run("fails when no reference price covers the SKU", func(t *testing.T) {
		env := newPublishEnv(t)
		env.refPrices.On("FindApplicable", mock.Anything, env.sku.ID,
			mock.Anything, mock.AnythingOfType("time.Time")).
			Return(nil, shared.ErrNoReferencePrice)

		_, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1000),
		})

		require.ErrorIs(t, err, shared.ErrNoReferencePrice)
		env.pubPrices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("inactive SKU is rejected", func(t *testing.T) {
		env := newPublishEnv(t)
		require.NoError(t, env.sku.Deactivate())

		_, err := env.svc.PublishPrice(ctx, PublishPriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1000),
		})

		assertDomainErrorCode(t, err, "SKU_NOT_ACTIVE")
	})
}

func TestPublishService_ValidatePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("price inside the ceiling is allowed", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))
		env.audits.On("Create", ctx, mock.MatchedBy(func(a *pricing.PriceAudit) bool {
			return a.EventType == pricing.AuditValidationSuccess
		})).Return(nil)

		result, err := env.svc.ValidatePrice(ctx, ValidatePriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1090),
		})

		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.True(t, result.RequiresReview)
		env.audits.AssertExpectations(t)
	})

	t.Run("price above the ceiling is refused", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))
		env.audits.On("Create", ctx, mock.MatchedBy(func(a *pricing.PriceAudit) bool {
			return a.EventType == pricing.AuditValidationFailure
		})).Return(nil)

		result, err := env.svc.ValidatePrice(ctx, ValidatePriceInput{
			UserID: env.userID,
			SKUID:  env.sku.ID,
			Price:  decimal.NewFromInt(1150),
		})

		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.NotEmpty(t, result.Message)
		env.audits.AssertExpectations(t)
	})
}

func TestPublishService_Review(t *testing.T) {
	ctx := context.Background()

	newPendingPrice := func(t *testing.T, env *publishEnv) *pricing.PublishedPrice {
		t.Helper()
		eval := mustEval(t, decimal.NewFromInt(1080), decimal.NewFromInt(1000))
		pp, err := pricing.NewPublishedPrice(env.seller.ID, env.sku.ID, env.pune.ID,
			decimal.NewFromInt(1080), 10, time.Now(), eval)
		require.NoError(t, err)
		pp.ClearDomainEvents()
		return pp
	}

	t.Run("approve makes the price visible", func(t *testing.T) {
		env := newPublishEnv(t)
		pp := newPendingPrice(t, env)
		reviewer := uuid.New()

		env.pubPrices.On("FindByID", ctx, pp.ID).Return(pp, nil)
		env.pubPrices.On("Update", ctx, pp).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)

		info, err := env.svc.ApprovePrice(ctx, ReviewPriceInput{
			PriceID:    pp.ID,
			ReviewerID: reviewer,
			Note:       "seasonal transport cost accepted",
		})

		require.NoError(t, err)
		assert.Equal(t, pricing.ApprovalApproved, info.Approval)
		assert.True(t, pp.IsVisibleToFarmers())
	})

	t.Run("reject requires a note", func(t *testing.T) {
		env := newPublishEnv(t)
		pp := newPendingPrice(t, env)

		env.pubPrices.On("FindByID", ctx, pp.ID).Return(pp, nil)

		_, err := env.svc.RejectPrice(ctx, ReviewPriceInput{
			PriceID:    pp.ID,
			ReviewerID: uuid.New(),
		})

		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})

	t.Run("reject hides the price", func(t *testing.T) {
		env := newPublishEnv(t)
		pp := newPendingPrice(t, env)

		env.pubPrices.On("FindByID", ctx, pp.ID).Return(pp, nil)
		env.pubPrices.On("Update", ctx, pp).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)

		info, err := env.svc.RejectPrice(ctx, ReviewPriceInput{
			PriceID:    pp.ID,
			ReviewerID: uuid.New(),
			Note:       "markup not justified",
		})

		require.NoError(t, err)
		assert.Equal(t, pricing.ApprovalRejected, info.Approval)
		assert.False(t, pp.IsVisibleToFarmers())
	})

	t.Run("resolved reviews cannot be re-reviewed", func(t *testing.T) {
		env := newPublishEnv(t)
		pp := newPendingPrice(t, env)
		require.NoError(t, pp.Approve(uuid.New(), ""))

		env.pubPrices.On("FindByID", ctx, pp.ID).Return(pp, nil)

		_, err := env.svc.ApprovePrice(ctx, ReviewPriceInput{
			PriceID:    pp.ID,
			ReviewerID: uuid.New(),
		})

		assertDomainErrorCode(t, err, "INVALID_STATE")
	})
}

func TestPublishService_UpdatePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("another retailer's price cannot be updated", func(t *testing.T) {
		env := newPublishEnv(t)

		eval := mustEval(t, decimal.NewFromInt(1000), decimal.NewFromInt(1000))
		other, err := pricing.NewPublishedPrice(uuid.New(), env.sku.ID, env.pune.ID,
			decimal.NewFromInt(1000), 5, time.Now(), eval)
		require.NoError(t, err)

		env.pubPrices.On("FindByID", ctx, other.ID).Return(other, nil)

		_, err = env.svc.UpdatePrice(ctx, UpdatePublishedPriceInput{
			UserID:  env.userID,
			PriceID: other.ID,
			Price:   decimal.NewFromInt(1010),
		})

		assertDomainErrorCode(t, err, "NOT_OWNER")
	})

	t.Run("update re-evaluates compliance", func(t *testing.T) {
		env := newPublishEnv(t)
		env.expectReference(t, decimal.NewFromInt(1000))

		eval := mustEval(t, decimal.NewFromInt(1000), decimal.NewFromInt(1000))
		pp, err := pricing.NewPublishedPrice(env.seller.ID, env.sku.ID, env.pune.ID,
			decimal.NewFromInt(1000), 5, time.Now(), eval)
		require.NoError(t, err)
		pp.ClearDomainEvents()

		env.pubPrices.On("FindByID", ctx, pp.ID).Return(pp, nil)
		env.pubPrices.On("Update", ctx, pp).Return(nil)
		env.audits.On("Create", ctx, mock.AnythingOfType("*pricing.PriceAudit")).Return(nil)
		env.alerts.On("Create", ctx, mock.MatchedBy(func(a *pricing.PriceAlert) bool {
			return a.Severity == pricing.AlertHigh
		})).Return(nil)

		info, err := env.svc.UpdatePrice(ctx, UpdatePublishedPriceInput{
			UserID:        env.userID,
			PriceID:       pp.ID,
			Price:         decimal.NewFromInt(1080),
			StockQuantity: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, pricing.SeverityMajor, info.Severity)
		assert.Equal(t, pricing.ApprovalPendingReview, info.Approval)
		assert.Equal(t, 3, info.StockQuantity)
	})
}
