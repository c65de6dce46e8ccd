package district

import (
	"context"

	"github.com/google/uuid"
)

// DistrictRepository defines the interface for district persistence
type DistrictRepository interface {
	// Create creates a new district
	Create(ctx context.Context, d *District) error

	// Update updates an existing district
	Update(ctx context.Context, d *District) error

	// Delete deletes a district by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a district by ID
	FindByID(ctx context.Context, id uuid.UUID) (*District, error)

	// FindByCode finds a district by code
	FindByCode(ctx context.Context, code string) (*District, error)

	// FindByIDs finds districts by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*District, error)

	// FindAll returns all districts matching the filter with pagination
	FindAll(ctx context.Context, filter DistrictFilter) ([]*District, int64, error)

	// FindChildren returns the direct children of a district
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*District, error)

	// FindRoots returns all top-level districts
	FindRoots(ctx context.Context) ([]*District, error)

	// FindSubtree returns a district and all of its descendants
	FindSubtree(ctx context.Context, id uuid.UUID) ([]*District, error)

	// ExistsByCode checks if a district code already exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// RewritePaths replaces a path prefix across a subtree after a move and
	// shifts descendant levels by levelDelta
	RewritePaths(ctx context.Context, oldPrefix, newPrefix string, levelDelta int) error

	// HasChildren reports whether the district has direct children
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
}

// DistrictFilter contains filter options for querying districts
type DistrictFilter struct {
	// Search keyword for code or name
	Keyword string

	// Filter by parent
	ParentID *uuid.UUID

	// Filter by hierarchy level
	Level *int

	// Filter by status
	Status *DistrictStatus

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string
}

// NewDistrictFilter creates a filter with default values
func NewDistrictFilter() DistrictFilter {
	return DistrictFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "code",
		SortOrder: "asc",
	}
}

// Offset returns the offset for pagination
func (f DistrictFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f DistrictFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
