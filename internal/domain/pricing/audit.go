package pricing

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditEventType enumerates the recorded pricing events
type AuditEventType string

const (
	AuditPriceCreated      AuditEventType = "price_created"
	AuditPriceUpdated      AuditEventType = "price_updated"
	AuditPriceDeleted      AuditEventType = "price_deleted"
	AuditValidationSuccess AuditEventType = "validation_success"
	AuditValidationFailure AuditEventType = "validation_failure"
	AuditComplianceCheck   AuditEventType = "compliance_check"
)

// PriceAudit is an append-only record of pricing activity. Rows are never
// updated or deleted.
type PriceAudit struct {
	shared.BaseEntity
	EventType  AuditEventType `gorm:"type:varchar(30);not null;index"`
	ActorID    *uuid.UUID     `gorm:"type:uuid;index"`
	SKUID      *uuid.UUID     `gorm:"type:uuid;index"`
	RetailerID *uuid.UUID     `gorm:"type:uuid;index"`
	DistrictID *uuid.UUID     `gorm:"type:uuid;index"`
	Detail     string         `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (PriceAudit) TableName() string {
	return "price_audits"
}

// NewPriceAudit creates an audit record. Detail must be a JSON document.
func NewPriceAudit(eventType AuditEventType, detail string) *PriceAudit {
	if detail == "" {
		detail = "{}"
	}
	return &PriceAudit{
		BaseEntity: shared.NewBaseEntity(),
		EventType:  eventType,
		Detail:     detail,
	}
}

// WithActor attaches the acting user
func (a *PriceAudit) WithActor(actorID uuid.UUID) *PriceAudit {
	a.ActorID = &actorID
	return a
}

// WithSKU attaches the affected SKU
func (a *PriceAudit) WithSKU(skuID uuid.UUID) *PriceAudit {
	a.SKUID = &skuID
	return a
}

// WithRetailer attaches the affected retailer
func (a *PriceAudit) WithRetailer(retailerID uuid.UUID) *PriceAudit {
	a.RetailerID = &retailerID
	return a
}

// WithDistrict attaches the affected district
func (a *PriceAudit) WithDistrict(districtID uuid.UUID) *PriceAudit {
	a.DistrictID = &districtID
	return a
}
