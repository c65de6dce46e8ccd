package pricing

import (
	"context"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/fertigov/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferencePriceService manages government-mandated reference prices
type ReferencePriceService struct {
	refPriceRepo pricing.ReferencePriceRepository
	skuRepo      catalog.SKURepository
	districtRepo district.DistrictRepository
	eventBus     shared.EventPublisher
	priceCache   cache.PriceQueryCache
	logger       *zap.Logger
}

// NewReferencePriceService creates a new reference price service
func NewReferencePriceService(
	refPriceRepo pricing.ReferencePriceRepository,
	skuRepo catalog.SKURepository,
	districtRepo district.DistrictRepository,
	eventBus shared.EventPublisher,
	priceCache cache.PriceQueryCache,
	logger *zap.Logger,
) *ReferencePriceService {
	return &ReferencePriceService{
		refPriceRepo: refPriceRepo,
		skuRepo:      skuRepo,
		districtRepo: districtRepo,
		eventBus:     eventBus,
		priceCache:   priceCache,
		logger:       logger,
	}
}

// SetReferencePrice mandates a reference price for a SKU, statewide or for a
// district. Overlapping windows in the same scope are rejected.
func (s *ReferencePriceService) SetReferencePrice(ctx context.Context, input SetReferencePriceInput) (*ReferencePriceInfo, error) {
	sku, err := s.skuRepo.FindByID(ctx, input.SKUID)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}
	if !sku.IsActive() {
		return nil, shared.NewDomainError("SKU_NOT_ACTIVE", "Reference prices can only be set for active SKUs")
	}

	if input.DistrictID != nil {
		if _, err := s.districtRepo.FindByID(ctx, *input.DistrictID); err != nil {
			return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
		}
	}

	overlapping, err := s.refPriceRepo.FindOverlapping(ctx, input.SKUID, input.DistrictID, input.EffectiveFrom, input.EffectiveUntil, nil)
	if err != nil {
		s.logger.Error("Failed to check window overlap", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check reference price windows")
	}
	if len(overlapping) > 0 {
		return nil, shared.ErrPriceWindowOverlap
	}

	rp, err := pricing.NewReferencePrice(input.SKUID, input.DistrictID, input.Price, input.EffectiveFrom, input.EffectiveUntil, input.SetBy)
	if err != nil {
		return nil, err
	}
	rp.Notes = input.Notes

	if err := s.refPriceRepo.Create(ctx, rp); err != nil {
		s.logger.Error("Failed to create reference price", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create reference price")
	}

	s.publishEvents(ctx, rp)
	s.invalidateCache(ctx, rp.SKUID)

	s.logger.Info("Reference price set",
		zap.String("sku_id", rp.SKUID.String()),
		zap.String("price", rp.Price.String()),
		zap.Bool("global", rp.IsGlobal()))

	info := NewReferencePriceInfo(rp)
	return &info, nil
}

// GetReferencePrice retrieves a reference price by ID
func (s *ReferencePriceService) GetReferencePrice(ctx context.Context, id uuid.UUID) (*ReferencePriceInfo, error) {
	rp, err := s.refPriceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("REFERENCE_PRICE_NOT_FOUND", "Reference price not found")
	}

	info := NewReferencePriceInfo(rp)
	return &info, nil
}

// ListReferencePrices returns a page of reference prices matching the query
func (s *ReferencePriceService) ListReferencePrices(ctx context.Context, input ListReferencePricesInput) (*ListReferencePricesResult, error) {
	filter := pricing.NewReferencePriceFilter()
	filter.SKUID = input.SKUID
	filter.DistrictID = input.DistrictID
	filter.GlobalOnly = input.GlobalOnly
	filter.ActiveOnly = input.ActiveOnly
	filter.ActiveOn = input.ActiveOn
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	prices, total, err := s.refPriceRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list reference prices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reference prices")
	}

	infos := make([]ReferencePriceInfo, 0, len(prices))
	for _, rp := range prices {
		infos = append(infos, NewReferencePriceInfo(rp))
	}

	return &ListReferencePricesResult{
		Prices:   infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UpdateReferencePrice changes the mandated price or closes the window
func (s *ReferencePriceService) UpdateReferencePrice(ctx context.Context, input UpdateReferencePriceInput) (*ReferencePriceInfo, error) {
	rp, err := s.refPriceRepo.FindByID(ctx, input.ReferencePriceID)
	if err != nil {
		return nil, shared.NewDomainError("REFERENCE_PRICE_NOT_FOUND", "Reference price not found")
	}

	if input.Price != nil {
		if err := rp.UpdatePrice(*input.Price, input.UpdatedBy); err != nil {
			return nil, err
		}
	}
	if input.EffectiveUntil != nil {
		if err := rp.CloseWindow(*input.EffectiveUntil); err != nil {
			return nil, err
		}
	}

	if err := s.refPriceRepo.Update(ctx, rp); err != nil {
		s.logger.Error("Failed to update reference price", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update reference price")
	}

	s.publishEvents(ctx, rp)
	s.invalidateCache(ctx, rp.SKUID)

	info := NewReferencePriceInfo(rp)
	return &info, nil
}

// RetireReferencePrice deactivates a reference price
func (s *ReferencePriceService) RetireReferencePrice(ctx context.Context, id, retiredBy uuid.UUID) (*ReferencePriceInfo, error) {
	rp, err := s.refPriceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("REFERENCE_PRICE_NOT_FOUND", "Reference price not found")
	}

	if err := rp.Retire(); err != nil {
		return nil, err
	}

	if err := s.refPriceRepo.Update(ctx, rp); err != nil {
		s.logger.Error("Failed to retire reference price", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to retire reference price")
	}

	s.publishEvents(ctx, rp)
	s.invalidateCache(ctx, rp.SKUID)

	s.logger.Info("Reference price retired",
		zap.String("reference_price_id", rp.ID.String()),
		zap.String("retired_by", retiredBy.String()))

	info := NewReferencePriceInfo(rp)
	return &info, nil
}

// ResolveReferencePrice resolves the reference price applicable to a SKU in a
// district on a date, walking the district chain innermost first and falling
// back to the statewide price.
func (s *ReferencePriceService) ResolveReferencePrice(ctx context.Context, skuID, districtID uuid.UUID, date time.Time) (*ReferencePriceInfo, error) {
	chain, err := districtLookupChain(ctx, s.districtRepo, districtID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	rp, err := s.refPriceRepo.FindApplicable(ctx, skuID, chain, date)
	if err != nil {
		return nil, err
	}

	info := NewReferencePriceInfo(rp)
	return &info, nil
}

func (s *ReferencePriceService) publishEvents(ctx context.Context, rp *pricing.ReferencePrice) {
	events := rp.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish reference price events", zap.Error(err))
	}
	rp.ClearDomainEvents()
}

func (s *ReferencePriceService) invalidateCache(ctx context.Context, skuID uuid.UUID) {
	if s.priceCache == nil {
		return
	}
	if err := s.priceCache.InvalidateSKU(ctx, skuID); err != nil {
		s.logger.Warn("Failed to invalidate price cache",
			zap.String("sku_id", skuID.String()),
			zap.Error(err))
	}
}

// districtLookupChain returns the district and its ancestors, innermost first
func districtLookupChain(ctx context.Context, repo district.DistrictRepository, districtID uuid.UUID) ([]uuid.UUID, error) {
	d, err := repo.FindByID(ctx, districtID)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	return districtChainOf(d), nil
}
