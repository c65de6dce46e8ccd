package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/fertigov/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxPriceQuotes caps the number of retailer quotes in a public query response.
const maxPriceQuotes = 3

// QueryService answers public price queries from farmers: the applicable
// reference price for the district plus the cheapest compliant retailer
// quotes. Responses are cached per SKU and district; price writes invalidate
// the SKU's entries.
type QueryService struct {
	pubPriceRepo pricing.PublishedPriceRepository
	refPriceRepo pricing.ReferencePriceRepository
	skuRepo      catalog.SKURepository
	districtRepo district.DistrictRepository
	priceCache   cache.PriceQueryCache
	logger       *zap.Logger
}

// NewQueryService creates a new price query service
func NewQueryService(
	pubPriceRepo pricing.PublishedPriceRepository,
	refPriceRepo pricing.ReferencePriceRepository,
	skuRepo catalog.SKURepository,
	districtRepo district.DistrictRepository,
	priceCache cache.PriceQueryCache,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		pubPriceRepo: pubPriceRepo,
		refPriceRepo: refPriceRepo,
		skuRepo:      skuRepo,
		districtRepo: districtRepo,
		priceCache:   priceCache,
		logger:       logger,
	}
}

// QueryPrices returns the applicable reference price for a SKU in a district
// together with the cheapest compliant approved prices, ordered by price
// ascending
func (s *QueryService) QueryPrices(ctx context.Context, input QueryPricesInput) (*QueryPricesResult, error) {
	if s.priceCache != nil {
		if payload, found, err := s.priceCache.Get(ctx, input.SKUID, input.DistrictID); err == nil && found {
			var cached QueryPricesResult
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		} else if err != nil {
			s.logger.Warn("Price cache read failed", zap.Error(err))
		}
	}

	sku, err := s.skuRepo.FindByID(ctx, input.SKUID)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}
	if !sku.IsActive() {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}

	d, err := s.districtRepo.FindByID(ctx, input.DistrictID)
	if err != nil || !d.IsActive() {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	chain := districtChainOf(d)
	rp, err := s.refPriceRepo.FindApplicable(ctx, input.SKUID, chain, time.Now())
	if err != nil {
		if errors.Is(err, shared.ErrNoReferencePrice) {
			return nil, shared.ErrNoReferencePrice
		}
		s.logger.Error("Failed to resolve reference price", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to query prices")
	}

	prices, err := s.pubPriceRepo.FindCheapestCompliant(ctx, input.SKUID, input.DistrictID, maxPriceQuotes)
	if err != nil {
		s.logger.Error("Failed to query prices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to query prices")
	}

	quotes := make([]PriceQuote, 0, len(prices))
	for _, pp := range prices {
		quotes = append(quotes, PriceQuote{
			RetailerID:    pp.RetailerID,
			Price:         pp.Price,
			StockQuantity: pp.StockQuantity,
			EffectiveDate: pp.EffectiveDate,
		})
	}

	result := &QueryPricesResult{
		SKUID:      input.SKUID,
		DistrictID: input.DistrictID,
		ReferencePrice: ReferencePriceQuote{
			ID:            rp.ID,
			Price:         rp.Price,
			DistrictID:    rp.DistrictID,
			EffectiveFrom: rp.EffectiveFrom,
		},
		Quotes: quotes,
	}

	if s.priceCache != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.priceCache.Set(ctx, input.SKUID, input.DistrictID, payload); err != nil {
				s.logger.Warn("Price cache write failed", zap.Error(err))
			}
		}
	}

	return result, nil
}

// districtChainOf orders a district's lookup chain most-specific first.
func districtChainOf(d *district.District) []uuid.UUID {
	ancestors := d.GetAncestorIDs()
	chain := make([]uuid.UUID, 0, len(ancestors)+1)
	chain = append(chain, d.ID)
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}
	return chain
}
