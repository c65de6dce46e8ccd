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

// GormPriceAlertRepository implements PriceAlertRepository using GORM
type GormPriceAlertRepository struct {
	db *gorm.DB
}

// NewGormPriceAlertRepository creates a new GormPriceAlertRepository
func NewGormPriceAlertRepository(db *gorm.DB) *GormPriceAlertRepository {
	return &GormPriceAlertRepository{db: db}
}

// Create creates a new alert
func (r *GormPriceAlertRepository) Create(ctx context.Context, alert *pricing.PriceAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// Update updates an alert (acknowledgement)
func (r *GormPriceAlertRepository) Update(ctx context.Context, alert *pricing.PriceAlert) error {
	result := r.db.WithContext(ctx).Save(alert)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an alert by ID
func (r *GormPriceAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceAlert, error) {
	var alert pricing.PriceAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindAll returns alerts matching the filter with pagination
func (r *GormPriceAlertRepository) FindAll(ctx context.Context, filter pricing.AlertFilter) ([]*pricing.PriceAlert, int64, error) {
	var alerts []*pricing.PriceAlert
	var total int64

	query := r.db.WithContext(ctx).Model(&pricing.PriceAlert{})

	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.RetailerID != nil {
		query = query.Where("retailer_id = ?", *filter.RetailerID)
	}
	if filter.SKUID != nil {
		query = query.Where("sku_id = ?", *filter.SKUID)
	}
	if filter.DistrictID != nil {
		query = query.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.Acknowledged != nil {
		query = query.Where("acknowledged = ?", *filter.Acknowledged)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&alerts).Error; err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}

// CountSince returns alert counts grouped by severity since a time
func (r *GormPriceAlertRepository) CountSince(ctx context.Context, since time.Time) (map[pricing.AlertSeverity]int64, error) {
	var rows []struct {
		Severity pricing.AlertSeverity
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&pricing.PriceAlert{}).
		Select("severity, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[pricing.AlertSeverity]int64, len(rows))
	for _, row := range rows {
		counts[row.Severity] = row.Count
	}
	return counts, nil
}

// Ensure GormPriceAlertRepository implements PriceAlertRepository
var _ pricing.PriceAlertRepository = (*GormPriceAlertRepository)(nil)
