package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSKURepository implements SKURepository using GORM
type GormSKURepository struct {
	db *gorm.DB
}

// NewGormSKURepository creates a new GormSKURepository
func NewGormSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// Create creates a new SKU
func (r *GormSKURepository) Create(ctx context.Context, sku *catalog.SKU) error {
	return r.db.WithContext(ctx).Create(sku).Error
}

// Update updates an existing SKU
func (r *GormSKURepository) Update(ctx context.Context, sku *catalog.SKU) error {
	result := r.db.WithContext(ctx).Save(sku)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a SKU by ID
func (r *GormSKURepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.SKU{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a SKU by ID
func (r *GormSKURepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SKU, error) {
	var sku catalog.SKU
	if err := r.db.WithContext(ctx).First(&sku, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindByCode finds a SKU by code
func (r *GormSKURepository) FindByCode(ctx context.Context, code string) (*catalog.SKU, error) {
	var sku catalog.SKU
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindByIDs finds SKUs by a set of IDs
func (r *GormSKURepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.SKU, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var skus []*catalog.SKU
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// FindAll returns SKUs matching the filter with pagination
func (r *GormSKURepository) FindAll(ctx context.Context, filter catalog.SKUFilter) ([]*catalog.SKU, int64, error) {
	var skus []*catalog.SKU
	var total int64

	query := r.db.WithContext(ctx).Model(&catalog.SKU{})

	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"code ILIKE ? OR name ILIKE ? OR composition ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}
	if filter.Manufacturer != "" {
		query = query.Where("manufacturer ILIKE ?", "%"+filter.Manufacturer+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "code"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&skus).Error; err != nil {
		return nil, 0, err
	}

	return skus, total, nil
}

// ExistsByCode checks if a SKU code is taken
func (r *GormSKURepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.SKU{}).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of SKUs
func (r *GormSKURepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.SKU{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSKURepository implements SKURepository
var _ catalog.SKURepository = (*GormSKURepository)(nil)
