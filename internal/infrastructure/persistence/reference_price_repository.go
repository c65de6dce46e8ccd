package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReferencePriceRepository implements ReferencePriceRepository using GORM
type GormReferencePriceRepository struct {
	db *gorm.DB
}

// NewGormReferencePriceRepository creates a new GormReferencePriceRepository
func NewGormReferencePriceRepository(db *gorm.DB) *GormReferencePriceRepository {
	return &GormReferencePriceRepository{db: db}
}

// Create creates a new reference price
func (r *GormReferencePriceRepository) Create(ctx context.Context, rp *pricing.ReferencePrice) error {
	return r.db.WithContext(ctx).Create(rp).Error
}

// Update updates an existing reference price
func (r *GormReferencePriceRepository) Update(ctx context.Context, rp *pricing.ReferencePrice) error {
	result := r.db.WithContext(ctx).Save(rp)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a reference price
func (r *GormReferencePriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pricing.ReferencePrice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a reference price by ID
func (r *GormReferencePriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.ReferencePrice, error) {
	var rp pricing.ReferencePrice
	if err := r.db.WithContext(ctx).First(&rp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rp, nil
}

// FindAll returns reference prices matching the filter with pagination
func (r *GormReferencePriceRepository) FindAll(ctx context.Context, filter pricing.ReferencePriceFilter) ([]*pricing.ReferencePrice, int64, error) {
	var prices []*pricing.ReferencePrice
	var total int64

	query := r.db.WithContext(ctx).Model(&pricing.ReferencePrice{})

	if filter.SKUID != nil {
		query = query.Where("sku_id = ?", *filter.SKUID)
	}
	if filter.GlobalOnly {
		query = query.Where("district_id IS NULL")
	} else if filter.DistrictID != nil {
		query = query.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.ActiveOn != nil {
		query = query.Where("effective_from <= ?", *filter.ActiveOn).
			Where("effective_until IS NULL OR effective_until > ?", *filter.ActiveOn)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "effective_from"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&prices).Error; err != nil {
		return nil, 0, err
	}

	return prices, total, nil
}

// FindApplicable resolves the reference price for a SKU on a date. The
// district chain is consulted innermost first, then the global scope.
func (r *GormReferencePriceRepository) FindApplicable(ctx context.Context, skuID uuid.UUID, districtIDs []uuid.UUID, date time.Time) (*pricing.ReferencePrice, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Where("sku_id = ?", skuID).
			Where("active = ?", true).
			Where("effective_from <= ?", date).
			Where("effective_until IS NULL OR effective_until > ?", date)
	}

	for _, districtID := range districtIDs {
		var rp pricing.ReferencePrice
		err := base().
			Where("district_id = ?", districtID).
			Order("effective_from desc").
			First(&rp).Error
		if err == nil {
			return &rp, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var rp pricing.ReferencePrice
	err := base().
		Where("district_id IS NULL").
		Order("effective_from desc").
		First(&rp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNoReferencePrice
		}
		return nil, err
	}
	return &rp, nil
}

// FindOverlapping returns active prices for the same scope whose windows
// overlap [from, until)
func (r *GormReferencePriceRepository) FindOverlapping(ctx context.Context, skuID uuid.UUID, districtID *uuid.UUID, from time.Time, until *time.Time, excludeID *uuid.UUID) ([]*pricing.ReferencePrice, error) {
	query := r.db.WithContext(ctx).
		Where("sku_id = ?", skuID).
		Where("active = ?", true).
		Where("effective_until IS NULL OR effective_until > ?", from)

	if districtID != nil {
		query = query.Where("district_id = ?", *districtID)
	} else {
		query = query.Where("district_id IS NULL")
	}
	if until != nil {
		query = query.Where("effective_from < ?", *until)
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var prices []*pricing.ReferencePrice
	if err := query.Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// CountByDistrict returns active reference prices scoped to a district
func (r *GormReferencePriceRepository) CountByDistrict(ctx context.Context, districtID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pricing.ReferencePrice{}).
		Where("district_id = ?", districtID).
		Where("active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormReferencePriceRepository implements ReferencePriceRepository
var _ pricing.ReferencePriceRepository = (*GormReferencePriceRepository)(nil)
