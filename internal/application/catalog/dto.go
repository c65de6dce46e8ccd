package catalog

import (
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSKUInput contains the data to register a fertilizer SKU
type CreateSKUInput struct {
	Code         string          `json:"code" binding:"required,max=50"`
	Name         string          `json:"name" binding:"required,max=200"`
	Manufacturer string          `json:"manufacturer" binding:"required,max=200"`
	PackSizeKg   decimal.Decimal `json:"pack_size_kg" binding:"required"`
	Composition  string          `json:"composition" binding:"max=200"`
	Description  string          `json:"description"`
}

// UpdateSKUInput contains the fields that can change on a SKU
type UpdateSKUInput struct {
	SKUID        uuid.UUID        `json:"-"`
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Manufacturer *string          `json:"manufacturer" binding:"omitempty,max=200"`
	Composition  *string          `json:"composition" binding:"omitempty,max=200"`
	Description  *string          `json:"description"`
	PackSizeKg   *decimal.Decimal `json:"pack_size_kg"`
}

// ListSKUsInput contains query parameters for listing SKUs
type ListSKUsInput struct {
	Keyword      string             `form:"keyword"`
	Manufacturer string             `form:"manufacturer"`
	Status       *catalog.SKUStatus `form:"status"`
	Page         int                `form:"page"`
	PageSize     int                `form:"page_size"`
	SortBy       string             `form:"sort_by"`
	SortOrder    string             `form:"sort_order"`
}

// SKUInfo is the SKU representation returned to clients
type SKUInfo struct {
	ID           uuid.UUID         `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Manufacturer string            `json:"manufacturer"`
	PackSizeKg   decimal.Decimal   `json:"pack_size_kg"`
	Composition  string            `json:"composition,omitempty"`
	Description  string            `json:"description,omitempty"`
	Status       catalog.SKUStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewSKUInfo maps a SKU aggregate to its client representation
func NewSKUInfo(s *catalog.SKU) SKUInfo {
	return SKUInfo{
		ID:           s.ID,
		Code:         s.Code,
		Name:         s.Name,
		Manufacturer: s.Manufacturer,
		PackSizeKg:   s.PackSizeKg,
		Composition:  s.Composition,
		Description:  s.Description,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ListSKUsResult is a page of SKUs
type ListSKUsResult struct {
	SKUs     []SKUInfo `json:"skus"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
