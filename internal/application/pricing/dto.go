package pricing

import (
	"time"

	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetReferencePriceInput contains the data to mandate a reference price
type SetReferencePriceInput struct {
	SKUID          uuid.UUID       `json:"sku_id" binding:"required"`
	DistrictID     *uuid.UUID      `json:"district_id"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	EffectiveFrom  time.Time       `json:"effective_from" binding:"required"`
	EffectiveUntil *time.Time      `json:"effective_until"`
	Notes          string          `json:"notes"`
	SetBy          uuid.UUID       `json:"-"`
}

// UpdateReferencePriceInput contains the mutable fields of a reference price
type UpdateReferencePriceInput struct {
	ReferencePriceID uuid.UUID        `json:"-"`
	Price            *decimal.Decimal `json:"price"`
	EffectiveUntil   *time.Time       `json:"effective_until"`
	UpdatedBy        uuid.UUID        `json:"-"`
}

// ListReferencePricesInput contains query parameters for reference prices
type ListReferencePricesInput struct {
	SKUID      *uuid.UUID `form:"sku_id"`
	DistrictID *uuid.UUID `form:"district_id"`
	GlobalOnly bool       `form:"global_only"`
	ActiveOnly bool       `form:"active_only"`
	ActiveOn   *time.Time `form:"active_on"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	SortBy     string     `form:"sort_by"`
	SortOrder  string     `form:"sort_order"`
}

// ReferencePriceInfo is the reference price representation returned to clients
type ReferencePriceInfo struct {
	ID             uuid.UUID       `json:"id"`
	SKUID          uuid.UUID       `json:"sku_id"`
	DistrictID     *uuid.UUID      `json:"district_id,omitempty"`
	Price          decimal.Decimal `json:"price"`
	EffectiveFrom  time.Time       `json:"effective_from"`
	EffectiveUntil *time.Time      `json:"effective_until,omitempty"`
	SetBy          uuid.UUID       `json:"set_by"`
	Notes          string          `json:"notes,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewReferencePriceInfo maps a reference price to its client representation
func NewReferencePriceInfo(rp *pricing.ReferencePrice) ReferencePriceInfo {
	return ReferencePriceInfo{
		ID:             rp.ID,
		SKUID:          rp.SKUID,
		DistrictID:     rp.DistrictID,
		Price:          rp.Price,
		EffectiveFrom:  rp.EffectiveFrom,
		EffectiveUntil: rp.EffectiveUntil,
		SetBy:          rp.SetBy,
		Notes:          rp.Notes,
		Active:         rp.Active,
		CreatedAt:      rp.CreatedAt,
	}
}

// ListReferencePricesResult is a page of reference prices
type ListReferencePricesResult struct {
	Prices   []ReferencePriceInfo `json:"prices"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// PublishPriceInput contains the data for a retailer price submission.
// UserID identifies the retailer's user account, resolved to a profile.
type PublishPriceInput struct {
	UserID        uuid.UUID       `json:"-"`
	SKUID         uuid.UUID       `json:"sku_id" binding:"required"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
	EffectiveDate time.Time       `json:"effective_date"`
}

// UpdatePublishedPriceInput contains the mutable fields of a published price
type UpdatePublishedPriceInput struct {
	UserID        uuid.UUID       `json:"-"`
	PriceID       uuid.UUID       `json:"-"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
}

// ValidatePriceInput contains the data for a pre-submission price check
type ValidatePriceInput struct {
	UserID uuid.UUID       `json:"-"`
	SKUID  uuid.UUID       `json:"sku_id" binding:"required"`
	Price  decimal.Decimal `json:"price" binding:"required"`
}

// ValidationResult is the outcome of a pre-submission price check
type ValidationResult struct {
	Allowed        bool                      `json:"allowed"`
	ReferencePrice decimal.Decimal           `json:"reference_price"`
	MarkupPct      decimal.Decimal           `json:"markup_pct"`
	Severity       pricing.ViolationSeverity `json:"severity"`
	Compliant      bool                      `json:"compliant"`
	RequiresReview bool                      `json:"requires_review"`
	Message        string                    `json:"message,omitempty"`
}

// ReviewPriceInput contains the data to resolve a price review
type ReviewPriceInput struct {
	PriceID    uuid.UUID `json:"-"`
	ReviewerID uuid.UUID `json:"-"`
	Note       string    `json:"note"`
}

// ListPublishedPricesInput contains query parameters for published prices
type ListPublishedPricesInput struct {
	RetailerID *uuid.UUID                 `form:"retailer_id"`
	SKUID      *uuid.UUID                 `form:"sku_id"`
	DistrictID *uuid.UUID                 `form:"district_id"`
	Severity   *pricing.ViolationSeverity `form:"severity"`
	Approval   *pricing.ApprovalStatus    `form:"approval"`
	Compliant  *bool                      `form:"compliant"`
	Page       int                        `form:"page"`
	PageSize   int                        `form:"page_size"`
	SortBy     string                     `form:"sort_by"`
	SortOrder  string                     `form:"sort_order"`
}

// PublishedPriceInfo is the published price representation returned to clients
type PublishedPriceInfo struct {
	ID                 uuid.UUID                 `json:"id"`
	RetailerID         uuid.UUID                 `json:"retailer_id"`
	SKUID              uuid.UUID                 `json:"sku_id"`
	DistrictID         uuid.UUID                 `json:"district_id"`
	Price              decimal.Decimal           `json:"price"`
	StockQuantity      int                       `json:"stock_quantity"`
	EffectiveDate      time.Time                 `json:"effective_date"`
	ReferencePriceUsed decimal.Decimal           `json:"reference_price_used"`
	MarkupPct          decimal.Decimal           `json:"markup_pct"`
	Severity           pricing.ViolationSeverity `json:"severity"`
	Compliant          bool                      `json:"compliant"`
	Approval           pricing.ApprovalStatus    `json:"approval"`
	ReviewNote         string                    `json:"review_note,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// NewPublishedPriceInfo maps a published price to its client representation
func NewPublishedPriceInfo(pp *pricing.PublishedPrice) PublishedPriceInfo {
	return PublishedPriceInfo{
		ID:                 pp.ID,
		RetailerID:         pp.RetailerID,
		SKUID:              pp.SKUID,
		DistrictID:         pp.DistrictID,
		Price:              pp.Price,
		StockQuantity:      pp.StockQuantity,
		EffectiveDate:      pp.EffectiveDate,
		ReferencePriceUsed: pp.ReferencePriceUsed,
		MarkupPct:          pp.MarkupPct,
		Severity:           pp.Severity,
		Compliant:          pp.Compliant,
		Approval:           pp.Approval,
		ReviewNote:         pp.ReviewNote,
		CreatedAt:          pp.CreatedAt,
		UpdatedAt:          pp.UpdatedAt,
	}
}

// ListPublishedPricesResult is a page of published prices
type ListPublishedPricesResult struct {
	Prices   []PublishedPriceInfo `json:"prices"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// QueryPricesInput contains the parameters of a public price query
type QueryPricesInput struct {
	SKUID      uuid.UUID `form:"sku_id" binding:"required"`
	DistrictID uuid.UUID `form:"district_id" binding:"required"`
}

// PriceQuote is a single entry in a public price query response
type PriceQuote struct {
	RetailerID    uuid.UUID       `json:"retailer_id"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	EffectiveDate time.Time       `json:"effective_date"`
}

// ReferencePriceQuote is the applicable reference price in a public price
// query response. DistrictID is nil when the national price applied.
type ReferencePriceQuote struct {
	ID            uuid.UUID       `json:"id"`
	Price         decimal.Decimal `json:"price"`
	DistrictID    *uuid.UUID      `json:"district_id"`
	EffectiveFrom time.Time       `json:"effective_from"`
}

// QueryPricesResult is the public price query response
type QueryPricesResult struct {
	SKUID          uuid.UUID           `json:"sku_id"`
	DistrictID     uuid.UUID           `json:"district_id"`
	ReferencePrice ReferencePriceQuote `json:"reference_price"`
	Quotes         []PriceQuote        `json:"quotes"`
}

// ListAlertsInput contains query parameters for price alerts
type ListAlertsInput struct {
	Severity     *pricing.AlertSeverity `form:"severity"`
	RetailerID   *uuid.UUID             `form:"retailer_id"`
	SKUID        *uuid.UUID             `form:"sku_id"`
	DistrictID   *uuid.UUID             `form:"district_id"`
	Acknowledged *bool                  `form:"acknowledged"`
	Since        *time.Time             `form:"since"`
	Page         int                    `form:"page"`
	PageSize     int                    `form:"page_size"`
}

// AlertInfo is the alert representation returned to clients
type AlertInfo struct {
	ID               uuid.UUID                 `json:"id"`
	PublishedPriceID uuid.UUID                 `json:"published_price_id"`
	RetailerID       uuid.UUID                 `json:"retailer_id"`
	SKUID            uuid.UUID                 `json:"sku_id"`
	DistrictID       uuid.UUID                 `json:"district_id"`
	Severity         pricing.AlertSeverity     `json:"severity"`
	Violation        pricing.ViolationSeverity `json:"violation"`
	Message          string                    `json:"message"`
	Acknowledged     bool                      `json:"acknowledged"`
	AcknowledgedAt   *time.Time                `json:"acknowledged_at,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
}

// NewAlertInfo maps an alert to its client representation
func NewAlertInfo(a *pricing.PriceAlert) AlertInfo {
	return AlertInfo{
		ID:               a.ID,
		PublishedPriceID: a.PublishedPriceID,
		RetailerID:       a.RetailerID,
		SKUID:            a.SKUID,
		DistrictID:       a.DistrictID,
		Severity:         a.Severity,
		Violation:        a.Violation,
		Message:          a.Message,
		Acknowledged:     a.Acknowledged,
		AcknowledgedAt:   a.AcknowledgedAt,
		CreatedAt:        a.CreatedAt,
	}
}

// ListAlertsResult is a page of alerts
type ListAlertsResult struct {
	Alerts   []AlertInfo `json:"alerts"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ListAuditsInput contains query parameters for the audit log
type ListAuditsInput struct {
	EventType  *pricing.AuditEventType `form:"event_type"`
	ActorID    *uuid.UUID              `form:"actor_id"`
	SKUID      *uuid.UUID              `form:"sku_id"`
	RetailerID *uuid.UUID              `form:"retailer_id"`
	Since      *time.Time              `form:"since"`
	Until      *time.Time              `form:"until"`
	Page       int                     `form:"page"`
	PageSize   int                     `form:"page_size"`
}

// AuditInfo is the audit record representation returned to clients
type AuditInfo struct {
	ID         uuid.UUID              `json:"id"`
	EventType  pricing.AuditEventType `json:"event_type"`
	ActorID    *uuid.UUID             `json:"actor_id,omitempty"`
	SKUID      *uuid.UUID             `json:"sku_id,omitempty"`
	RetailerID *uuid.UUID             `json:"retailer_id,omitempty"`
	DistrictID *uuid.UUID             `json:"district_id,omitempty"`
	Detail     string                 `json:"detail"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewAuditInfo maps an audit record to its client representation
func NewAuditInfo(a *pricing.PriceAudit) AuditInfo {
	return AuditInfo{
		ID:         a.ID,
		EventType:  a.EventType,
		ActorID:    a.ActorID,
		SKUID:      a.SKUID,
		RetailerID: a.RetailerID,
		DistrictID: a.DistrictID,
		Detail:     a.Detail,
		CreatedAt:  a.CreatedAt,
	}
}

// ListAuditsResult is a page of audit records
type ListAuditsResult struct {
	Audits   []AuditInfo `json:"audits"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
