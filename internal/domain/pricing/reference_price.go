package pricing

import (
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferencePrice is a government-mandated price for a SKU, optionally scoped
// to a district. A nil DistrictID means the price applies statewide unless a
// district-scoped price overrides it.
type ReferencePrice struct {
	shared.BaseAggregateRoot
	SKUID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_refprice_scope"`
	DistrictID     *uuid.UUID      `gorm:"type:uuid;index:idx_refprice_scope"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EffectiveFrom  time.Time       `gorm:"not null;index"`
	EffectiveUntil *time.Time      `gorm:"index"`
	SetBy          uuid.UUID       `gorm:"type:uuid;not null"`
	Notes          string          `gorm:"type:text"`
	Active         bool            `gorm:"not null;default:true"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (ReferencePrice) TableName() string {
	return "reference_prices"
}

// NewReferencePrice creates a new reference price
func NewReferencePrice(skuID uuid.UUID, districtID *uuid.UUID, price decimal.Decimal, effectiveFrom time.Time, effectiveUntil *time.Time, setBy uuid.UUID) (*ReferencePrice, error) {
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID is required")
	}
	if setBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Setting user is required")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Reference price must be greater than zero")
	}
	if effectiveFrom.IsZero() {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Effective-from date is required")
	}
	if effectiveUntil != nil && !effectiveUntil.After(effectiveFrom) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Effective-until must be after effective-from")
	}

	rp := &ReferencePrice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKUID:             skuID,
		DistrictID:        districtID,
		Price:             price.Round(2),
		EffectiveFrom:     effectiveFrom,
		EffectiveUntil:    effectiveUntil,
		SetBy:             setBy,
		Active:            true,
	}

	rp.AddDomainEvent(NewReferencePriceSetEvent(rp))

	return rp, nil
}

// UpdatePrice changes the mandated price
func (rp *ReferencePrice) UpdatePrice(price decimal.Decimal, updatedBy uuid.UUID) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Reference price must be greater than zero")
	}

	oldPrice := rp.Price
	rp.Price = price.Round(2)
	rp.SetBy = updatedBy
	rp.UpdatedAt = time.Now()
	rp.IncrementVersion()

	rp.AddDomainEvent(NewReferencePriceUpdatedEvent(rp, oldPrice))

	return nil
}

// CloseWindow ends the effective window at the given time
func (rp *ReferencePrice) CloseWindow(until time.Time) error {
	if !until.After(rp.EffectiveFrom) {
		return shared.NewDomainError("INVALID_WINDOW", "Effective-until must be after effective-from")
	}

	rp.EffectiveUntil = &until
	rp.UpdatedAt = time.Now()
	rp.IncrementVersion()

	return nil
}

// Retire deactivates the reference price
func (rp *ReferencePrice) Retire() error {
	if !rp.Active {
		return shared.NewDomainError("ALREADY_RETIRED", "Reference price is already retired")
	}

	rp.Active = false
	rp.UpdatedAt = time.Now()
	rp.IncrementVersion()

	rp.AddDomainEvent(NewReferencePriceRetiredEvent(rp))

	return nil
}

// CoversDate reports whether the effective window covers the given date
func (rp *ReferencePrice) CoversDate(date time.Time) bool {
	if date.Before(rp.EffectiveFrom) {
		return false
	}
	if rp.EffectiveUntil != nil && !date.Before(*rp.EffectiveUntil) {
		return false
	}
	return true
}

// IsGlobal reports whether this price applies statewide
func (rp *ReferencePrice) IsGlobal() bool {
	return rp.DistrictID == nil
}

// OverlapsWindow reports whether another window [from, until) overlaps this
// price's effective window. A nil until means open-ended.
func (rp *ReferencePrice) OverlapsWindow(from time.Time, until *time.Time) bool {
	if rp.EffectiveUntil != nil && !from.Before(*rp.EffectiveUntil) {
		return false
	}
	if until != nil && !rp.EffectiveFrom.Before(*until) {
		return false
	}
	return true
}
