package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/fertigov/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PublishService manages retailer price submissions and their compliance
// lifecycle: evaluation, alerting, auditing, and admin review.
type PublishService struct {
	pubPriceRepo pricing.PublishedPriceRepository
	refPriceRepo pricing.ReferencePriceRepository
	alertRepo    pricing.PriceAlertRepository
	auditRepo    pricing.PriceAuditRepository
	retailerRepo retailer.RetailerRepository
	skuRepo      catalog.SKURepository
	districtRepo district.DistrictRepository
	eventBus     shared.EventPublisher
	priceCache   cache.PriceQueryCache
	logger       *zap.Logger
}

// NewPublishService creates a new publish service
func NewPublishService(
	pubPriceRepo pricing.PublishedPriceRepository,
	refPriceRepo pricing.ReferencePriceRepository,
	alertRepo pricing.PriceAlertRepository,
	auditRepo pricing.PriceAuditRepository,
	retailerRepo retailer.RetailerRepository,
	skuRepo catalog.SKURepository,
	districtRepo district.DistrictRepository,
	eventBus shared.EventPublisher,
	priceCache cache.PriceQueryCache,
	logger *zap.Logger,
) *PublishService {
	return &PublishService{
		pubPriceRepo: pubPriceRepo,
		refPriceRepo: refPriceRepo,
		alertRepo:    alertRepo,
		auditRepo:    auditRepo,
		retailerRepo: retailerRepo,
		skuRepo:      skuRepo,
		districtRepo: districtRepo,
		eventBus:     eventBus,
		priceCache:   priceCache,
		logger:       logger,
	}
}

// PublishPrice submits a retail price for a SKU. The price is evaluated
// against the applicable reference price; band violations raise an alert and
// severe ones are queued for admin review instead of going live.
func (s *PublishService) PublishPrice(ctx context.Context, input PublishPriceInput) (*PublishedPriceInfo, error) {
	r, err := s.resolvePublishingRetailer(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	sku, err := s.skuRepo.FindByID(ctx, input.SKUID)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}
	if !sku.IsActive() {
		return nil, shared.NewDomainError("SKU_NOT_ACTIVE", "Prices can only be published for active SKUs")
	}

	eval, err := s.evaluateAgainstReference(ctx, input.SKUID, r.DistrictID, input.Price)
	if err != nil {
		return nil, err
	}

	pp, err := pricing.NewPublishedPrice(r.ID, input.SKUID, r.DistrictID, input.Price, input.StockQuantity, input.EffectiveDate, eval)
	if err != nil {
		return nil, err
	}

	if err := s.pubPriceRepo.Create(ctx, pp); err != nil {
		s.logger.Error("Failed to create published price", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to publish price")
	}

	s.raiseAlert(ctx, pp, sku.Code)
	s.writeAudit(ctx, pricing.AuditPriceCreated, input.UserID, pp)
	s.publishEvents(ctx, pp)
	s.invalidateCache(ctx, pp.SKUID)

	s.logger.Info("Price published",
		zap.String("retailer_id", pp.RetailerID.String()),
		zap.String("sku_id", pp.SKUID.String()),
		zap.String("price", pp.Price.String()),
		zap.String("severity", string(pp.Severity)),
		zap.String("approval", string(pp.Approval)))

	info := NewPublishedPriceInfo(pp)
	return &info, nil
}

// UpdatePrice changes a retailer's own published price and re-evaluates it
func (s *PublishService) UpdatePrice(ctx context.Context, input UpdatePublishedPriceInput) (*PublishedPriceInfo, error) {
	r, err := s.resolvePublishingRetailer(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	pp, err := s.pubPriceRepo.FindByID(ctx, input.PriceID)
	if err != nil {
		return nil, shared.NewDomainError("PRICE_NOT_FOUND", "Published price not found")
	}
	if pp.RetailerID != r.ID {
		return nil, shared.NewDomainError("NOT_OWNER", "The price belongs to another retailer")
	}

	eval, err := s.evaluateAgainstReference(ctx, pp.SKUID, pp.DistrictID, input.Price)
	if err != nil {
		return nil, err
	}

	if err := pp.UpdatePrice(input.Price, input.StockQuantity, eval); err != nil {
		return nil, err
	}

	if err := s.pubPriceRepo.Update(ctx, pp); err != nil {
		s.logger.Error("Failed to update published price", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update price")
	}

	s.raiseAlert(ctx, pp, "")
	s.writeAudit(ctx, pricing.AuditPriceUpdated, input.UserID, pp)
	s.publishEvents(ctx, pp)
	s.invalidateCache(ctx, pp.SKUID)

	info := NewPublishedPriceInfo(pp)
	return &info, nil
}

// UpdateStock adjusts the stock on a price without re-evaluating compliance
func (s *PublishService) UpdateStock(ctx context.Context, userID, priceID uuid.UUID, stockQuantity int) (*PublishedPriceInfo, error) {
	r, err := s.retailerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer profile not found")
	}

	pp, err := s.pubPriceRepo.FindByID(ctx, priceID)
	if err != nil {
		return nil, shared.NewDomainError("PRICE_NOT_FOUND", "Published price not found")
	}
	if pp.RetailerID != r.ID {
		return nil, shared.NewDomainError("NOT_OWNER", "The price belongs to another retailer")
	}

	if err := pp.UpdateStock(stockQuantity); err != nil {
		return nil, err
	}

	if err := s.pubPriceRepo.Update(ctx, pp); err != nil {
		s.logger.Error("Failed to update stock", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update stock")
	}

	info := NewPublishedPriceInfo(pp)
	return &info, nil
}

// DeletePrice removes a retailer's own published price
func (s *PublishService) DeletePrice(ctx context.Context, userID, priceID uuid.UUID) error {
	r, err := s.retailerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer profile not found")
	}

	pp, err := s.pubPriceRepo.FindByID(ctx, priceID)
	if err != nil {
		return shared.NewDomainError("PRICE_NOT_FOUND", "Published price not found")
	}
	if pp.RetailerID != r.ID {
		return shared.NewDomainError("NOT_OWNER", "The price belongs to another retailer")
	}

	if err := s.pubPriceRepo.Delete(ctx, priceID); err != nil {
		s.logger.Error("Failed to delete published price", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete price")
	}

	s.writeAudit(ctx, pricing.AuditPriceDeleted, userID, pp)
	s.invalidateCache(ctx, pp.SKUID)

	return nil
}

// ValidatePrice checks a candidate price against the reference price without
// publishing it. The outcome is recorded in the audit log.
func (s *PublishService) ValidatePrice(ctx context.Context, input ValidatePriceInput) (*ValidationResult, error) {
	r, err := s.resolvePublishingRetailer(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	eval, err := s.evaluateAgainstReference(ctx, input.SKUID, r.DistrictID, input.Price)
	if err != nil {
		if errors.Is(err, shared.ErrNoReferencePrice) {
			s.auditValidation(ctx, input, r, false, "no reference price")
			return nil, err
		}
		return nil, err
	}

	result := &ValidationResult{
		Allowed:        eval.WithinPermittedMarkup(),
		ReferencePrice: eval.ReferencePrice,
		MarkupPct:      eval.MarkupPct,
		Severity:       eval.Severity,
		Compliant:      eval.Compliant,
		RequiresReview: eval.RequiresReview,
	}
	switch {
	case !result.Allowed:
		result.Message = fmt.Sprintf("Markup %s%% is outside the permitted range", eval.MarkupPct.String())
	case eval.RequiresReview:
		result.Message = "The price will be held for review before becoming visible"
	case !eval.Compliant:
		result.Message = fmt.Sprintf("Markup %s%% exceeds the compliance band", eval.MarkupPct.String())
	}

	s.auditValidation(ctx, input, r, result.Allowed, result.Message)

	return result, nil
}

// GetPrice retrieves a published price by ID
func (s *PublishService) GetPrice(ctx context.Context, id uuid.UUID) (*PublishedPriceInfo, error) {
	pp, err := s.pubPriceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("PRICE_NOT_FOUND", "Published price not found")
	}

	info := NewPublishedPriceInfo(pp)
	return &info, nil
}

// ListPrices returns a page of published prices matching the query
func (s *PublishService) ListPrices(ctx context.Context, input ListPublishedPricesInput) (*ListPublishedPricesResult, error) {
	filter := pricing.NewPublishedPriceFilter()
	filter.RetailerID = input.RetailerID
	filter.SKUID = input.SKUID
	filter.DistrictID = input.DistrictID
	filter.Severity = input.Severity
	filter.Approval = input.Approval
	filter.Compliant = input.Compliant
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

	prices, total, err := s.pubPriceRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list published prices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list prices")
	}

	infos := make([]PublishedPriceInfo, 0, len(prices))
	for _, pp := range prices {
		infos = append(infos, NewPublishedPriceInfo(pp))
	}

	return &ListPublishedPricesResult{
		Prices:   infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListReviewQueue returns prices held for admin review, oldest first
func (s *PublishService) ListReviewQueue(ctx context.Context, page, pageSize int) (*ListPublishedPricesResult, error) {
	pending := pricing.ApprovalPendingReview
	return s.ListPrices(ctx, ListPublishedPricesInput{
		Approval:  &pending,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    "created_at",
		SortOrder: "asc",
	})
}

// ApprovePrice resolves a review in favour of the retailer
func (s *PublishService) ApprovePrice(ctx context.Context, input ReviewPriceInput) (*PublishedPriceInfo, error) {
	return s.reviewPrice(ctx, input, (*pricing.PublishedPrice).Approve)
}

// RejectPrice resolves a review against the retailer; the price stays hidden
func (s *PublishService) RejectPrice(ctx context.Context, input ReviewPriceInput) (*PublishedPriceInfo, error) {
	return s.reviewPrice(ctx, input, (*pricing.PublishedPrice).Reject)
}

func (s *PublishService) reviewPrice(ctx context.Context, input ReviewPriceInput, resolve func(*pricing.PublishedPrice, uuid.UUID, string) error) (*PublishedPriceInfo, error) {
	pp, err := s.pubPriceRepo.FindByID(ctx, input.PriceID)
	if err != nil {
		return nil, shared.NewDomainError("PRICE_NOT_FOUND", "Published price not found")
	}

	if err := resolve(pp, input.ReviewerID, input.Note); err != nil {
		return nil, err
	}

	if err := s.pubPriceRepo.Update(ctx, pp); err != nil {
		s.logger.Error("Failed to save price review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save price review")
	}

	s.writeAudit(ctx, pricing.AuditComplianceCheck, input.ReviewerID, pp)
	s.publishEvents(ctx, pp)
	s.invalidateCache(ctx, pp.SKUID)

	s.logger.Info("Price review resolved",
		zap.String("price_id", pp.ID.String()),
		zap.String("outcome", string(pp.Approval)),
		zap.String("reviewer", input.ReviewerID.String()))

	info := NewPublishedPriceInfo(pp)
	return &info, nil
}

// resolvePublishingRetailer loads the retailer profile for a user and checks
// that it is allowed to publish prices
func (s *PublishService) resolvePublishingRetailer(ctx context.Context, userID uuid.UUID) (*retailer.Retailer, error) {
	r, err := s.retailerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer profile not found")
	}
	if r.IsSuspended() {
		return nil, shared.NewDomainError("RETAILER_SUSPENDED", "Suspended retailers cannot publish prices")
	}
	if !r.CanPublishPrices() {
		return nil, shared.NewDomainError("RETAILER_NOT_VERIFIED", "Only verified retailers can publish prices")
	}
	return r, nil
}

// evaluateAgainstReference resolves the applicable reference price for the
// retailer's district chain and evaluates the candidate price against it
func (s *PublishService) evaluateAgainstReference(ctx context.Context, skuID, districtID uuid.UUID, price decimal.Decimal) (pricing.Evaluation, error) {
	chain, err := districtLookupChain(ctx, s.districtRepo, districtID)
	if err != nil {
		return pricing.Evaluation{}, err
	}

	rp, err := s.refPriceRepo.FindApplicable(ctx, skuID, chain, time.Now())
	if err != nil {
		if errors.Is(err, shared.ErrNoReferencePrice) {
			return pricing.Evaluation{}, shared.ErrNoReferencePrice
		}
		s.logger.Error("Failed to resolve reference price", zap.Error(err))
		return pricing.Evaluation{}, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve reference price")
	}

	return pricing.Evaluate(price, rp.Price)
}

func (s *PublishService) raiseAlert(ctx context.Context, pp *pricing.PublishedPrice, skuCode string) {
	message := fmt.Sprintf("Price %s exceeds reference %s by %s%%",
		pp.Price.String(), pp.ReferencePriceUsed.String(), pp.MarkupPct.String())
	if pp.MarkupPct.IsNegative() {
		message = fmt.Sprintf("Price %s is below reference %s", pp.Price.String(), pp.ReferencePriceUsed.String())
	}
	if skuCode != "" {
		message = skuCode + ": " + message
	}

	alert := pricing.NewPriceAlert(pp, message)
	if alert == nil {
		return
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		s.logger.Error("Failed to create price alert",
			zap.String("price_id", pp.ID.String()),
			zap.Error(err))
	}
}

func (s *PublishService) writeAudit(ctx context.Context, eventType pricing.AuditEventType, actorID uuid.UUID, pp *pricing.PublishedPrice) {
	detail, _ := json.Marshal(map[string]interface{}{
		"price":      pp.Price,
		"markup_pct": pp.MarkupPct,
		"severity":   pp.Severity,
		"compliant":  pp.Compliant,
		"approval":   pp.Approval,
	})

	audit := pricing.NewPriceAudit(eventType, string(detail)).
		WithActor(actorID).
		WithSKU(pp.SKUID).
		WithRetailer(pp.RetailerID).
		WithDistrict(pp.DistrictID)

	if err := s.auditRepo.Create(ctx, audit); err != nil {
		s.logger.Error("Failed to write price audit", zap.Error(err))
	}
}

func (s *PublishService) auditValidation(ctx context.Context, input ValidatePriceInput, r *retailer.Retailer, allowed bool, message string) {
	eventType := pricing.AuditValidationSuccess
	if !allowed {
		eventType = pricing.AuditValidationFailure
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"price":   input.Price,
		"message": message,
	})

	audit := pricing.NewPriceAudit(eventType, string(detail)).
		WithActor(input.UserID).
		WithSKU(input.SKUID).
		WithRetailer(r.ID).
		WithDistrict(r.DistrictID)

	if err := s.auditRepo.Create(ctx, audit); err != nil {
		s.logger.Error("Failed to write validation audit", zap.Error(err))
	}
}

func (s *PublishService) publishEvents(ctx context.Context, pp *pricing.PublishedPrice) {
	events := pp.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish price events", zap.Error(err))
	}
	pp.ClearDomainEvents()
}

func (s *PublishService) invalidateCache(ctx context.Context, skuID uuid.UUID) {
	if s.priceCache == nil {
		return
	}
	if err := s.priceCache.InvalidateSKU(ctx, skuID); err != nil {
		s.logger.Warn("Failed to invalidate price cache",
			zap.String("sku_id", skuID.String()),
			zap.Error(err))
	}
}
