package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// topViolatorLimit bounds the retailer ranking in dashboard stats.
const topViolatorLimit = 10

// GormPublishedPriceRepository implements PublishedPriceRepository using GORM
type GormPublishedPriceRepository struct {
	db *gorm.DB
}

// NewGormPublishedPriceRepository creates a new GormPublishedPriceRepository
func NewGormPublishedPriceRepository(db *gorm.DB) *GormPublishedPriceRepository {
	return &GormPublishedPriceRepository{db: db}
}

// Create creates a new published price
func (r *GormPublishedPriceRepository) Create(ctx context.Context, pp *pricing.PublishedPrice) error {
	return r.db.WithContext(ctx).Create(pp).Error
}

// Update updates an existing published price
func (r *GormPublishedPriceRepository) Update(ctx context.Context, pp *pricing.PublishedPrice) error {
	result := r.db.WithContext(ctx).Save(pp)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a published price
func (r *GormPublishedPriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pricing.PublishedPrice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a published price by ID
func (r *GormPublishedPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PublishedPrice, error) {
	var pp pricing.PublishedPrice
	if err := r.db.WithContext(ctx).First(&pp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pp, nil
}

// FindAll returns published prices matching the filter with pagination
func (r *GormPublishedPriceRepository) FindAll(ctx context.Context, filter pricing.PublishedPriceFilter) ([]*pricing.PublishedPrice, int64, error) {
	var prices []*pricing.PublishedPrice
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&pricing.PublishedPrice{}), filter)

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

	if err := query.Find(&prices).Error; err != nil {
		return nil, 0, err
	}

	return prices, total, nil
}

// FindCurrentByRetailerAndSKU finds a retailer's latest price for a SKU
func (r *GormPublishedPriceRepository) FindCurrentByRetailerAndSKU(ctx context.Context, retailerID, skuID uuid.UUID) (*pricing.PublishedPrice, error) {
	var pp pricing.PublishedPrice
	err := r.db.WithContext(ctx).
		Where("retailer_id = ?", retailerID).
		Where("sku_id = ?", skuID).
		Order("effective_date desc, created_at desc").
		First(&pp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pp, nil
}

// FindCheapestCompliant returns the cheapest approved compliant prices
// for a SKU within a district, ordered by price ascending
func (r *GormPublishedPriceRepository) FindCheapestCompliant(ctx context.Context, skuID, districtID uuid.UUID, limit int) ([]*pricing.PublishedPrice, error) {
	if limit <= 0 {
		limit = 3
	}

	var prices []*pricing.PublishedPrice
	err := r.db.WithContext(ctx).
		Where("sku_id = ?", skuID).
		Where("district_id = ?", districtID).
		Where("compliant = ?", true).
		Where("approval IN ?", []pricing.ApprovalStatus{pricing.ApprovalAutoApproved, pricing.ApprovalApproved}).
		Order("price asc").
		Limit(limit).
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// Stats returns aggregate compliance statistics for the dashboard
func (r *GormPublishedPriceRepository) Stats(ctx context.Context, since time.Time) (*pricing.ComplianceStats, error) {
	stats := &pricing.ComplianceStats{
		BySeverity: make(map[pricing.ViolationSeverity]int64),
	}

	base := r.db.WithContext(ctx).
		Model(&pricing.PublishedPrice{}).
		Where("created_at >= ?", since)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalPrices).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("compliant = ?", true).
		Count(&stats.CompliantPrices).Error; err != nil {
		return nil, err
	}
	if stats.TotalPrices > 0 {
		stats.ComplianceRate = decimal.NewFromInt(stats.CompliantPrices).
			Div(decimal.NewFromInt(stats.TotalPrices)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	var severityRows []struct {
		Severity pricing.ViolationSeverity
		Count    int64
	}
	if err := base.Session(&gorm.Session{}).
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&severityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range severityRows {
		stats.BySeverity[row.Severity] = row.Count
	}

	if err := base.Session(&gorm.Session{}).
		Select("retailer_id, COUNT(*) AS violations").
		Where("compliant = ?", false).
		Group("retailer_id").
		Order("violations desc").
		Limit(topViolatorLimit).
		Scan(&stats.TopViolators).Error; err != nil {
		return nil, err
	}

	if err := base.Session(&gorm.Session{}).
		Select("district_id, COUNT(*) AS total, COUNT(*) FILTER (WHERE compliant) AS compliant").
		Group("district_id").
		Order("total desc").
		Scan(&stats.DistrictBreakdown).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *GormPublishedPriceRepository) applyFilter(query *gorm.DB, filter pricing.PublishedPriceFilter) *gorm.DB {
	if filter.RetailerID != nil {
		query = query.Where("retailer_id = ?", *filter.RetailerID)
	}
	if filter.SKUID != nil {
		query = query.Where("sku_id = ?", *filter.SKUID)
	}
	if filter.DistrictID != nil {
		query = query.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.Approval != nil {
		query = query.Where("approval = ?", *filter.Approval)
	}
	if filter.Compliant != nil {
		query = query.Where("compliant = ?", *filter.Compliant)
	}
	return query
}

// Ensure GormPublishedPriceRepository implements PublishedPriceRepository
var _ pricing.PublishedPriceRepository = (*GormPublishedPriceRepository)(nil)
