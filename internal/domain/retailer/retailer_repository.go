package retailer

import (
	"context"

	"github.com/google/uuid"
)

// RetailerRepository defines the interface for retailer persistence
type RetailerRepository interface {
	// Create creates a new retailer profile
	Create(ctx context.Context, r *Retailer) error

	// Update updates an existing retailer profile
	Update(ctx context.Context, r *Retailer) error

	// Delete deletes a retailer profile by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a retailer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Retailer, error)

	// FindByUserID finds the retailer profile owned by a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Retailer, error)

	// FindByLicenseNo finds a retailer by license number
	FindByLicenseNo(ctx context.Context, licenseNo string) (*Retailer, error)

	// FindAll returns all retailers matching the filter with pagination
	FindAll(ctx context.Context, filter RetailerFilter) ([]*Retailer, int64, error)

	// FindByDistrict returns all retailers in a district
	FindByDistrict(ctx context.Context, districtID uuid.UUID) ([]*Retailer, error)

	// ExistsByUserID checks if a user already has a retailer profile
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)

	// ExistsByLicenseNo checks if a license number is already registered
	ExistsByLicenseNo(ctx context.Context, licenseNo string) (bool, error)

	// CountByDistrict returns the number of retailers in a district
	CountByDistrict(ctx context.Context, districtID uuid.UUID) (int64, error)
}

// RetailerFilter contains filter options for querying retailers
type RetailerFilter struct {
	// Search keyword for business name or license number
	Keyword string

	// Filter by district
	DistrictID *uuid.UUID

	// Filter by verification status
	Verification *VerificationStatus

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string
}

// NewRetailerFilter creates a filter with default values
func NewRetailerFilter() RetailerFilter {
	return RetailerFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f RetailerFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f RetailerFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
