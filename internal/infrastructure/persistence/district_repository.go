package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDistrictRepository implements DistrictRepository using GORM
type GormDistrictRepository struct {
	db *gorm.DB
}

// NewGormDistrictRepository creates a new GormDistrictRepository
func NewGormDistrictRepository(db *gorm.DB) *GormDistrictRepository {
	return &GormDistrictRepository{db: db}
}

// Create creates a new district
func (r *GormDistrictRepository) Create(ctx context.Context, d *district.District) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Update updates an existing district
func (r *GormDistrictRepository) Update(ctx context.Context, d *district.District) error {
	result := r.db.WithContext(ctx).Save(d)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a district by ID
func (r *GormDistrictRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&district.District{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a district by ID
func (r *GormDistrictRepository) FindByID(ctx context.Context, id uuid.UUID) (*district.District, error) {
	var d district.District
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByCode finds a district by its unique code
func (r *GormDistrictRepository) FindByCode(ctx context.Context, code string) (*district.District, error) {
	var d district.District
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByIDs finds districts by a set of IDs
func (r *GormDistrictRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*district.District, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var districts []*district.District
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

// FindAll returns districts matching the filter with pagination
func (r *GormDistrictRepository) FindAll(ctx context.Context, filter district.DistrictFilter) ([]*district.District, int64, error) {
	var districts []*district.District
	var total int64

	query := r.db.WithContext(ctx).Model(&district.District{})

	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "path"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&districts).Error; err != nil {
		return nil, 0, err
	}

	return districts, total, nil
}

// FindChildren returns the direct children of a district
func (r *GormDistrictRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*district.District, error) {
	var districts []*district.District
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name asc").
		Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

// FindRoots returns all top-level districts
func (r *GormDistrictRepository) FindRoots(ctx context.Context) ([]*district.District, error) {
	var districts []*district.District
	if err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("name asc").
		Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

// FindSubtree returns a district and all its descendants ordered by path
func (r *GormDistrictRepository) FindSubtree(ctx context.Context, id uuid.UUID) ([]*district.District, error) {
	root, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var districts []*district.District
	if err := r.db.WithContext(ctx).
		Where("path = ? OR path LIKE ?", root.Path, root.Path+"/%").
		Order("path asc").
		Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

// ExistsByCode checks if a district code is taken
func (r *GormDistrictRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&district.District{}).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RewritePaths rewrites the path prefix and shifts levels for a moved subtree
func (r *GormDistrictRepository) RewritePaths(ctx context.Context, oldPrefix, newPrefix string, levelDelta int) error {
	return r.db.WithContext(ctx).
		Model(&district.District{}).
		Where("path = ? OR path LIKE ?", oldPrefix, oldPrefix+"/%").
		Updates(map[string]interface{}{
			"path":  gorm.Expr("REPLACE(path, ?, ?)", oldPrefix, newPrefix),
			"level": gorm.Expr("level + ?", levelDelta),
		}).Error
}

// HasChildren checks whether a district has direct children
func (r *GormDistrictRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&district.District{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormDistrictRepository implements DistrictRepository
var _ district.DistrictRepository = (*GormDistrictRepository)(nil)
