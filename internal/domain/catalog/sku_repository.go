package catalog

import (
	"context"

	"github.com/google/uuid"
)

// SKURepository defines the interface for SKU persistence
type SKURepository interface {
	// Create creates a new SKU
	Create(ctx context.Context, sku *SKU) error

	// Update updates an existing SKU
	Update(ctx context.Context, sku *SKU) error

	// Delete deletes a SKU by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a SKU by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SKU, error)

	// FindByCode finds a SKU by code
	FindByCode(ctx context.Context, code string) (*SKU, error)

	// FindByIDs finds SKUs by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*SKU, error)

	// FindAll returns all SKUs matching the filter with pagination
	FindAll(ctx context.Context, filter SKUFilter) ([]*SKU, int64, error)

	// ExistsByCode checks if a SKU code already exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Count returns the total number of SKUs
	Count(ctx context.Context) (int64, error)
}

// SKUFilter contains filter options for querying SKUs
type SKUFilter struct {
	// Search keyword for code, name, or composition
	Keyword string

	// Filter by manufacturer
	Manufacturer string

	// Filter by status
	Status *SKUStatus

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string
}

// NewSKUFilter creates a filter with default values
func NewSKUFilter() SKUFilter {
	return SKUFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "code",
		SortOrder: "asc",
	}
}

// Offset returns the offset for pagination
func (f SKUFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f SKUFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
