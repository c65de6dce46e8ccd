package pricing

import (
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PublishedPrice is a retail price submitted by a retailer for a SKU.
// Compliance fields are derived from the applicable reference price when the
// price is created or updated.
type PublishedPrice struct {
	shared.BaseAggregateRoot
	RetailerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_pubprice_retailer_sku"`
	SKUID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_pubprice_retailer_sku"`
	DistrictID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	EffectiveDate time.Time       `gorm:"not null;index"`

	// Derived compliance fields
	ReferencePriceUsed decimal.Decimal   `gorm:"type:decimal(12,2)"`
	MarkupPct          decimal.Decimal   `gorm:"type:decimal(7,2)"`
	Severity           ViolationSeverity `gorm:"type:varchar(20);not null;default:'none'"`
	Compliant          bool              `gorm:"not null;default:false"`
	Approval           ApprovalStatus    `gorm:"type:varchar(20);not null;default:'pending_review'"`
	ReviewedBy         *uuid.UUID        `gorm:"type:uuid"`
	ReviewedAt         *time.Time
	ReviewNote         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PublishedPrice) TableName() string {
	return "published_prices"
}

// NewPublishedPrice creates a published price and applies the compliance
// evaluation computed against the applicable reference price.
func NewPublishedPrice(retailerID, skuID, districtID uuid.UUID, price decimal.Decimal, stockQuantity int, effectiveDate time.Time, eval Evaluation) (*PublishedPrice, error) {
	if retailerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETAILER", "Retailer ID is required")
	}
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID is required")
	}
	if districtID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRICT", "District ID is required")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if stockQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	if effectiveDate.IsZero() {
		effectiveDate = time.Now()
	}

	pp := &PublishedPrice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RetailerID:        retailerID,
		SKUID:             skuID,
		DistrictID:        districtID,
		Price:             price.Round(2),
		StockQuantity:     stockQuantity,
		EffectiveDate:     effectiveDate,
	}
	pp.applyEvaluation(eval)

	pp.AddDomainEvent(NewPriceCreatedEvent(pp))

	return pp, nil
}

// UpdatePrice changes the price and stock and re-applies the compliance
// evaluation. A price under review keeps its pending status.
func (pp *PublishedPrice) UpdatePrice(price decimal.Decimal, stockQuantity int, eval Evaluation) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if stockQuantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	if pp.Approval == ApprovalRejected {
		return shared.NewDomainError("INVALID_STATE", "Rejected prices cannot be updated; publish a new price")
	}

	oldPrice := pp.Price
	pp.Price = price.Round(2)
	pp.StockQuantity = stockQuantity
	pp.applyEvaluation(eval)
	pp.ReviewedBy = nil
	pp.ReviewedAt = nil
	pp.ReviewNote = ""
	pp.UpdatedAt = time.Now()
	pp.IncrementVersion()

	pp.AddDomainEvent(NewPriceUpdatedEvent(pp, oldPrice))

	return nil
}

// UpdateStock adjusts the available stock without touching compliance
func (pp *PublishedPrice) UpdateStock(stockQuantity int) error {
	if stockQuantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	pp.StockQuantity = stockQuantity
	pp.UpdatedAt = time.Now()
	pp.IncrementVersion()

	return nil
}

// Approve resolves an admin review in favour of the retailer
func (pp *PublishedPrice) Approve(reviewedBy uuid.UUID, note string) error {
	if pp.Approval != ApprovalPendingReview {
		return shared.NewDomainError("INVALID_STATE", "Only prices pending review can be approved")
	}

	now := time.Now()
	pp.Approval = ApprovalApproved
	pp.ReviewedBy = &reviewedBy
	pp.ReviewedAt = &now
	pp.ReviewNote = note
	pp.UpdatedAt = now
	pp.IncrementVersion()

	pp.AddDomainEvent(NewPriceReviewedEvent(pp, ApprovalApproved))

	return nil
}

// Reject resolves an admin review against the retailer
func (pp *PublishedPrice) Reject(reviewedBy uuid.UUID, note string) error {
	if pp.Approval != ApprovalPendingReview {
		return shared.NewDomainError("INVALID_STATE", "Only prices pending review can be rejected")
	}
	if note == "" {
		return shared.NewDomainError("INVALID_INPUT", "A rejection note is required")
	}

	now := time.Now()
	pp.Approval = ApprovalRejected
	pp.ReviewedBy = &reviewedBy
	pp.ReviewedAt = &now
	pp.ReviewNote = note
	pp.UpdatedAt = now
	pp.IncrementVersion()

	pp.AddDomainEvent(NewPriceReviewedEvent(pp, ApprovalRejected))

	return nil
}

// IsVisibleToFarmers reports whether the price should appear in public
// price queries. Rejected and review-pending prices are hidden.
func (pp *PublishedPrice) IsVisibleToFarmers() bool {
	return pp.Approval == ApprovalAutoApproved || pp.Approval == ApprovalApproved
}

func (pp *PublishedPrice) applyEvaluation(eval Evaluation) {
	pp.ReferencePriceUsed = eval.ReferencePrice
	pp.MarkupPct = eval.MarkupPct
	pp.Severity = eval.Severity
	pp.Compliant = eval.Compliant
	pp.Approval = eval.Approval
}
