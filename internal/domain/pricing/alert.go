package pricing

import (
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PriceAlert is raised when a published price violates the compliance band.
type PriceAlert struct {
	shared.BaseEntity
	PublishedPriceID uuid.UUID         `gorm:"type:uuid;not null;index"`
	RetailerID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	SKUID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	DistrictID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Severity         AlertSeverity     `gorm:"type:varchar(20);not null;index"`
	Violation        ViolationSeverity `gorm:"type:varchar(20);not null"`
	Message          string            `gorm:"type:text;not null"`
	Acknowledged     bool              `gorm:"not null;default:false;index"`
	AcknowledgedBy   *uuid.UUID        `gorm:"type:uuid"`
	AcknowledgedAt   *time.Time
}

// TableName returns the table name for GORM
func (PriceAlert) TableName() string {
	return "price_alerts"
}

// NewPriceAlert creates an alert for a violating published price.
// Returns nil when the violation severity does not warrant an alert.
func NewPriceAlert(pp *PublishedPrice, message string) *PriceAlert {
	alertSeverity, ok := AlertSeverityFor(pp.Severity)
	if !ok {
		return nil
	}

	return &PriceAlert{
		BaseEntity:       shared.NewBaseEntity(),
		PublishedPriceID: pp.ID,
		RetailerID:       pp.RetailerID,
		SKUID:            pp.SKUID,
		DistrictID:       pp.DistrictID,
		Severity:         alertSeverity,
		Violation:        pp.Severity,
		Message:          message,
	}
}

// Acknowledge marks the alert as handled by an operator
func (a *PriceAlert) Acknowledge(by uuid.UUID) error {
	if a.Acknowledged {
		return shared.NewDomainError("ALREADY_ACKNOWLEDGED", "Alert is already acknowledged")
	}

	now := time.Now()
	a.Acknowledged = true
	a.AcknowledgedBy = &by
	a.AcknowledgedAt = &now
	a.UpdatedAt = now

	return nil
}
