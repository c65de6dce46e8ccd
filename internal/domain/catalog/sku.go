package catalog

import (
	"strings"
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SKUStatus represents the status of a fertilizer SKU
type SKUStatus string

const (
	SKUStatusActive       SKUStatus = "active"
	SKUStatusInactive     SKUStatus = "inactive"
	SKUStatusDiscontinued SKUStatus = "discontinued"
)

// SKU represents a fertilizer product in the governed catalog.
// It is the aggregate root for catalog operations.
type SKU struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Manufacturer string          `gorm:"type:varchar(200);not null"`
	PackSizeKg   decimal.Decimal `gorm:"type:decimal(10,3);not null"` // Pack size in kilograms
	Composition  string          `gorm:"type:varchar(200)"`           // Nutrient composition, e.g. "N:P:K 10:26:26"
	Description  string          `gorm:"type:text"`
	Status       SKUStatus       `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (SKU) TableName() string {
	return "skus"
}

// NewSKU creates a new fertilizer SKU
func NewSKU(code, name, manufacturer string, packSizeKg decimal.Decimal) (*SKU, error) {
	if err := validateSKUCode(code); err != nil {
		return nil, err
	}
	if err := validateSKUName(name); err != nil {
		return nil, err
	}
	if manufacturer == "" {
		return nil, shared.NewDomainError("INVALID_MANUFACTURER", "Manufacturer cannot be empty")
	}
	if len(manufacturer) > 200 {
		return nil, shared.NewDomainError("INVALID_MANUFACTURER", "Manufacturer cannot exceed 200 characters")
	}
	if !packSizeKg.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PACK_SIZE", "Pack size must be greater than zero")
	}

	sku := &SKU{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Manufacturer:      manufacturer,
		PackSizeKg:        packSizeKg,
		Status:            SKUStatusActive,
	}

	sku.AddDomainEvent(NewSKUCreatedEvent(sku))

	return sku, nil
}

// Update updates the SKU's basic information
func (s *SKU) Update(name, manufacturer, composition, description string) error {
	if err := validateSKUName(name); err != nil {
		return err
	}
	if manufacturer == "" {
		return shared.NewDomainError("INVALID_MANUFACTURER", "Manufacturer cannot be empty")
	}
	if len(composition) > 200 {
		return shared.NewDomainError("INVALID_COMPOSITION", "Composition cannot exceed 200 characters")
	}

	s.Name = name
	s.Manufacturer = manufacturer
	s.Composition = composition
	s.Description = description
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSKUUpdatedEvent(s))

	return nil
}

// UpdatePackSize updates the pack size
func (s *SKU) UpdatePackSize(packSizeKg decimal.Decimal) error {
	if !packSizeKg.IsPositive() {
		return shared.NewDomainError("INVALID_PACK_SIZE", "Pack size must be greater than zero")
	}

	s.PackSizeKg = packSizeKg
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSKUUpdatedEvent(s))

	return nil
}

// PricePerKg converts a pack price to a per-kilogram price, rounded to 2 places
func (s *SKU) PricePerKg(packPrice decimal.Decimal) decimal.Decimal {
	if !s.PackSizeKg.IsPositive() {
		return decimal.Zero
	}
	return packPrice.Div(s.PackSizeKg).Round(2)
}

// Activate activates the SKU
func (s *SKU) Activate() error {
	if s.Status == SKUStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "SKU is already active")
	}
	if s.Status == SKUStatusDiscontinued {
		return shared.NewDomainError("DISCONTINUED", "Discontinued SKU cannot be reactivated")
	}

	s.Status = SKUStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSKUStatusChangedEvent(s, SKUStatusInactive, SKUStatusActive))

	return nil
}

// Deactivate deactivates the SKU
func (s *SKU) Deactivate() error {
	if s.Status != SKUStatusActive {
		return shared.NewDomainError("NOT_ACTIVE", "Only active SKUs can be deactivated")
	}

	s.Status = SKUStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSKUStatusChangedEvent(s, SKUStatusActive, SKUStatusInactive))

	return nil
}

// Discontinue permanently retires the SKU from the catalog
func (s *SKU) Discontinue() error {
	if s.Status == SKUStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "SKU is already discontinued")
	}

	oldStatus := s.Status
	s.Status = SKUStatusDiscontinued
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSKUStatusChangedEvent(s, oldStatus, SKUStatusDiscontinued))

	return nil
}

// IsActive returns true if the SKU is active
func (s *SKU) IsActive() bool {
	return s.Status == SKUStatusActive
}

// validateSKUCode validates the SKU code
func validateSKUCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "SKU code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "SKU code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "SKU code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateSKUName validates the SKU name
func validateSKUName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "SKU name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "SKU name cannot exceed 200 characters")
	}
	return nil
}
