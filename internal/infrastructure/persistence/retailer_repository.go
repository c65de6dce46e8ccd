package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRetailerRepository implements RetailerRepository using GORM
type GormRetailerRepository struct {
	db *gorm.DB
}

// NewGormRetailerRepository creates a new GormRetailerRepository
func NewGormRetailerRepository(db *gorm.DB) *GormRetailerRepository {
	return &GormRetailerRepository{db: db}
}

// Create creates a new retailer profile
func (r *GormRetailerRepository) Create(ctx context.Context, ret *retailer.Retailer) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

// Update updates an existing retailer profile
func (r *GormRetailerRepository) Update(ctx context.Context, ret *retailer.Retailer) error {
	result := r.db.WithContext(ctx).Save(ret)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a retailer profile by ID
func (r *GormRetailerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&retailer.Retailer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a retailer by ID
func (r *GormRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*retailer.Retailer, error) {
	var ret retailer.Retailer
	if err := r.db.WithContext(ctx).First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByUserID finds the retailer profile owned by a user
func (r *GormRetailerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*retailer.Retailer, error) {
	var ret retailer.Retailer
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByLicenseNo finds a retailer by license number
func (r *GormRetailerRepository) FindByLicenseNo(ctx context.Context, licenseNo string) (*retailer.Retailer, error) {
	var ret retailer.Retailer
	if err := r.db.WithContext(ctx).
		Where("license_no = ?", strings.ToUpper(licenseNo)).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAll returns retailers matching the filter with pagination
func (r *GormRetailerRepository) FindAll(ctx context.Context, filter retailer.RetailerFilter) ([]*retailer.Retailer, int64, error) {
	var retailers []*retailer.Retailer
	var total int64

	query := r.db.WithContext(ctx).Model(&retailer.Retailer{})

	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("business_name ILIKE ? OR license_no ILIKE ?", searchPattern, searchPattern)
	}
	if filter.DistrictID != nil {
		query = query.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.Verification != nil {
		query = query.Where("verification = ?", *filter.Verification)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "business_name"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&retailers).Error; err != nil {
		return nil, 0, err
	}

	return retailers, total, nil
}

// FindByDistrict returns all retailers in a district
func (r *GormRetailerRepository) FindByDistrict(ctx context.Context, districtID uuid.UUID) ([]*retailer.Retailer, error) {
	var retailers []*retailer.Retailer
	if err := r.db.WithContext(ctx).
		Where("district_id = ?", districtID).
		Order("business_name asc").
		Find(&retailers).Error; err != nil {
		return nil, err
	}
	return retailers, nil
}

// ExistsByUserID checks if a user already has a retailer profile
func (r *GormRetailerRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&retailer.Retailer{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByLicenseNo checks if a license number is already registered
func (r *GormRetailerRepository) ExistsByLicenseNo(ctx context.Context, licenseNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&retailer.Retailer{}).
		Where("license_no = ?", strings.ToUpper(licenseNo)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByDistrict returns the number of retailers in a district
func (r *GormRetailerRepository) CountByDistrict(ctx context.Context, districtID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&retailer.Retailer{}).
		Where("district_id = ?", districtID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormRetailerRepository implements RetailerRepository
var _ retailer.RetailerRepository = (*GormRetailerRepository)(nil)
