package pricing

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeReferencePrice = "ReferencePrice"
	AggregateTypePublishedPrice = "PublishedPrice"
)

// Pricing domain event types
const (
	EventTypeReferencePriceSet     = "ReferencePriceSet"
	EventTypeReferencePriceUpdated = "ReferencePriceUpdated"
	EventTypeReferencePriceRetired = "ReferencePriceRetired"
	EventTypePriceCreated          = "PriceCreated"
	EventTypePriceUpdated          = "PriceUpdated"
	EventTypePriceReviewed         = "PriceReviewed"
)

// ReferencePriceSetEvent is published when a reference price is created
type ReferencePriceSetEvent struct {
	shared.BaseDomainEvent
	SKUID      uuid.UUID       `json:"sku_id"`
	DistrictID *uuid.UUID      `json:"district_id,omitempty"`
	Price      decimal.Decimal `json:"price"`
}

// NewReferencePriceSetEvent creates a new ReferencePriceSetEvent
func NewReferencePriceSetEvent(rp *ReferencePrice) *ReferencePriceSetEvent {
	return &ReferencePriceSetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReferencePriceSet, AggregateTypeReferencePrice, rp.ID),
		SKUID:           rp.SKUID,
		DistrictID:      rp.DistrictID,
		Price:           rp.Price,
	}
}

// ReferencePriceUpdatedEvent is published when a reference price changes
type ReferencePriceUpdatedEvent struct {
	shared.BaseDomainEvent
	SKUID      uuid.UUID       `json:"sku_id"`
	DistrictID *uuid.UUID      `json:"district_id,omitempty"`
	OldPrice   decimal.Decimal `json:"old_price"`
	NewPrice   decimal.Decimal `json:"new_price"`
}

// NewReferencePriceUpdatedEvent creates a new ReferencePriceUpdatedEvent
func NewReferencePriceUpdatedEvent(rp *ReferencePrice, oldPrice decimal.Decimal) *ReferencePriceUpdatedEvent {
	return &ReferencePriceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReferencePriceUpdated, AggregateTypeReferencePrice, rp.ID),
		SKUID:           rp.SKUID,
		DistrictID:      rp.DistrictID,
		OldPrice:        oldPrice,
		NewPrice:        rp.Price,
	}
}

// ReferencePriceRetiredEvent is published when a reference price is retired
type ReferencePriceRetiredEvent struct {
	shared.BaseDomainEvent
	SKUID      uuid.UUID  `json:"sku_id"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
}

// NewReferencePriceRetiredEvent creates a new ReferencePriceRetiredEvent
func NewReferencePriceRetiredEvent(rp *ReferencePrice) *ReferencePriceRetiredEvent {
	return &ReferencePriceRetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReferencePriceRetired, AggregateTypeReferencePrice, rp.ID),
		SKUID:           rp.SKUID,
		DistrictID:      rp.DistrictID,
	}
}

// PriceCreatedEvent is published when a retailer publishes a price
type PriceCreatedEvent struct {
	shared.BaseDomainEvent
	RetailerID uuid.UUID         `json:"retailer_id"`
	SKUID      uuid.UUID         `json:"sku_id"`
	DistrictID uuid.UUID         `json:"district_id"`
	Price      decimal.Decimal   `json:"price"`
	MarkupPct  decimal.Decimal   `json:"markup_pct"`
	Severity   ViolationSeverity `json:"severity"`
	Compliant  bool              `json:"compliant"`
}

// NewPriceCreatedEvent creates a new PriceCreatedEvent
func NewPriceCreatedEvent(pp *PublishedPrice) *PriceCreatedEvent {
	return &PriceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceCreated, AggregateTypePublishedPrice, pp.ID),
		RetailerID:      pp.RetailerID,
		SKUID:           pp.SKUID,
		DistrictID:      pp.DistrictID,
		Price:           pp.Price,
		MarkupPct:       pp.MarkupPct,
		Severity:        pp.Severity,
		Compliant:       pp.Compliant,
	}
}

// PriceUpdatedEvent is published when a retailer updates a price
type PriceUpdatedEvent struct {
	shared.BaseDomainEvent
	RetailerID uuid.UUID         `json:"retailer_id"`
	SKUID      uuid.UUID         `json:"sku_id"`
	DistrictID uuid.UUID         `json:"district_id"`
	OldPrice   decimal.Decimal   `json:"old_price"`
	NewPrice   decimal.Decimal   `json:"new_price"`
	MarkupPct  decimal.Decimal   `json:"markup_pct"`
	Severity   ViolationSeverity `json:"severity"`
	Compliant  bool              `json:"compliant"`
}

// NewPriceUpdatedEvent creates a new PriceUpdatedEvent
func NewPriceUpdatedEvent(pp *PublishedPrice, oldPrice decimal.Decimal) *PriceUpdatedEvent {
	return &PriceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceUpdated, AggregateTypePublishedPrice, pp.ID),
		RetailerID:      pp.RetailerID,
		SKUID:           pp.SKUID,
		DistrictID:      pp.DistrictID,
		OldPrice:        oldPrice,
		NewPrice:        pp.Price,
		MarkupPct:       pp.MarkupPct,
		Severity:        pp.Severity,
		Compliant:       pp.Compliant,
	}
}

// PriceReviewedEvent is published when an admin resolves a price review
type PriceReviewedEvent struct {
	shared.BaseDomainEvent
	RetailerID uuid.UUID      `json:"retailer_id"`
	SKUID      uuid.UUID      `json:"sku_id"`
	Outcome    ApprovalStatus `json:"outcome"`
	ReviewedBy *uuid.UUID     `json:"reviewed_by,omitempty"`
}

// NewPriceReviewedEvent creates a new PriceReviewedEvent
func NewPriceReviewedEvent(pp *PublishedPrice, outcome ApprovalStatus) *PriceReviewedEvent {
	return &PriceReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePriceReviewed, AggregateTypePublishedPrice, pp.ID),
		RetailerID:      pp.RetailerID,
		SKUID:           pp.SKUID,
		Outcome:         outcome,
		ReviewedBy:      pp.ReviewedBy,
	}
}
