package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferencePriceRepository defines persistence for reference prices
type ReferencePriceRepository interface {
	// Create creates a new reference price
	Create(ctx context.Context, rp *ReferencePrice) error

	// Update updates an existing reference price
	Update(ctx context.Context, rp *ReferencePrice) error

	// Delete soft-deletes a reference price
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a reference price by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReferencePrice, error)

	// FindAll returns reference prices matching the filter with pagination
	FindAll(ctx context.Context, filter ReferencePriceFilter) ([]*ReferencePrice, int64, error)

	// FindApplicable resolves the reference price for a SKU on a date.
	// districtIDs is the lookup chain, innermost district first; the global
	// scope (nil district) is consulted last. Returns shared.ErrNoReferencePrice
	// wrapped in a domain error when nothing matches.
	FindApplicable(ctx context.Context, skuID uuid.UUID, districtIDs []uuid.UUID, date time.Time) (*ReferencePrice, error)

	// FindOverlapping returns active prices for the same (sku, district) scope
	// whose windows overlap [from, until). excludeID skips a price being updated.
	FindOverlapping(ctx context.Context, skuID uuid.UUID, districtID *uuid.UUID, from time.Time, until *time.Time, excludeID *uuid.UUID) ([]*ReferencePrice, error)

	// CountByDistrict returns active reference prices scoped to a district
	CountByDistrict(ctx context.Context, districtID uuid.UUID) (int64, error)
}

// PublishedPriceRepository defines persistence for published prices
type PublishedPriceRepository interface {
	// Create creates a new published price
	Create(ctx context.Context, pp *PublishedPrice) error

	// Update updates an existing published price
	Update(ctx context.Context, pp *PublishedPrice) error

	// Delete deletes a published price
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a published price by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PublishedPrice, error)

	// FindAll returns published prices matching the filter with pagination
	FindAll(ctx context.Context, filter PublishedPriceFilter) ([]*PublishedPrice, int64, error)

	// FindCurrentByRetailerAndSKU finds a retailer's latest price for a SKU
	FindCurrentByRetailerAndSKU(ctx context.Context, retailerID, skuID uuid.UUID) (*PublishedPrice, error)

	// FindCheapestCompliant returns the cheapest approved compliant prices
	// for a SKU within a district, ordered by price ascending
	FindCheapestCompliant(ctx context.Context, skuID, districtID uuid.UUID, limit int) ([]*PublishedPrice, error)

	// Stats returns aggregate compliance statistics for the dashboard
	Stats(ctx context.Context, since time.Time) (*ComplianceStats, error)
}

// PriceAlertRepository defines persistence for price alerts
type PriceAlertRepository interface {
	// Create creates a new alert
	Create(ctx context.Context, alert *PriceAlert) error

	// Update updates an alert (acknowledgement)
	Update(ctx context.Context, alert *PriceAlert) error

	// FindByID finds an alert by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PriceAlert, error)

	// FindAll returns alerts matching the filter with pagination
	FindAll(ctx context.Context, filter AlertFilter) ([]*PriceAlert, int64, error)

	// CountSince returns alert counts grouped by severity since a time
	CountSince(ctx context.Context, since time.Time) (map[AlertSeverity]int64, error)
}

// PriceAuditRepository defines persistence for the append-only audit log
type PriceAuditRepository interface {
	// Create appends an audit record
	Create(ctx context.Context, audit *PriceAudit) error

	// FindAll returns audit records matching the filter with pagination
	FindAll(ctx context.Context, filter AuditFilter) ([]*PriceAudit, int64, error)
}

// ReferencePriceFilter contains filter options for reference prices
type ReferencePriceFilter struct {
	SKUID      *uuid.UUID
	DistrictID *uuid.UUID
	GlobalOnly bool
	ActiveOnly bool
	ActiveOn   *time.Time

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewReferencePriceFilter creates a filter with default values
func NewReferencePriceFilter() ReferencePriceFilter {
	return ReferencePriceFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "effective_from",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f ReferencePriceFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ReferencePriceFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// PublishedPriceFilter contains filter options for published prices
type PublishedPriceFilter struct {
	RetailerID *uuid.UUID
	SKUID      *uuid.UUID
	DistrictID *uuid.UUID
	Severity   *ViolationSeverity
	Approval   *ApprovalStatus
	Compliant  *bool

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewPublishedPriceFilter creates a filter with default values
func NewPublishedPriceFilter() PublishedPriceFilter {
	return PublishedPriceFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f PublishedPriceFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f PublishedPriceFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// AlertFilter contains filter options for price alerts
type AlertFilter struct {
	Severity     *AlertSeverity
	RetailerID   *uuid.UUID
	SKUID        *uuid.UUID
	DistrictID   *uuid.UUID
	Acknowledged *bool
	Since        *time.Time

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewAlertFilter creates a filter with default values
func NewAlertFilter() AlertFilter {
	return AlertFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f AlertFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f AlertFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// AuditFilter contains filter options for the audit log
type AuditFilter struct {
	EventType  *AuditEventType
	ActorID    *uuid.UUID
	SKUID      *uuid.UUID
	RetailerID *uuid.UUID
	Since      *time.Time
	Until      *time.Time

	Page     int
	PageSize int
}

// NewAuditFilter creates a filter with default values
func NewAuditFilter() AuditFilter {
	return AuditFilter{
		Page:     1,
		PageSize: 50,
	}
}

// Offset returns the offset for pagination
func (f AuditFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f AuditFilter) Limit() int {
	if f.PageSize <= 0 {
		return 50
	}
	if f.PageSize > 200 {
		return 200
	}
	return f.PageSize
}

// ComplianceStats aggregates compliance numbers for the admin dashboard
type ComplianceStats struct {
	TotalPrices       int64
	CompliantPrices   int64
	ComplianceRate    decimal.Decimal
	BySeverity        map[ViolationSeverity]int64
	TopViolators      []RetailerViolationCount
	DistrictBreakdown []DistrictComplianceCount
}

// RetailerViolationCount counts violations per retailer
type RetailerViolationCount struct {
	RetailerID uuid.UUID
	Violations int64
}

// DistrictComplianceCount summarises compliance per district
type DistrictComplianceCount struct {
	DistrictID uuid.UUID
	Total      int64
	Compliant  int64
}
