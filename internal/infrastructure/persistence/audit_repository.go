package persistence

import (
	"context"

	"github.com/fertigov/backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// GormPriceAuditRepository implements PriceAuditRepository using GORM.
// The audit log is append-only so there is no update or delete path.
type GormPriceAuditRepository struct {
	db *gorm.DB
}

// NewGormPriceAuditRepository creates a new GormPriceAuditRepository
func NewGormPriceAuditRepository(db *gorm.DB) *GormPriceAuditRepository {
	return &GormPriceAuditRepository{db: db}
}

// Create appends an audit record
func (r *GormPriceAuditRepository) Create(ctx context.Context, audit *pricing.PriceAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// FindAll returns audit records matching the filter with pagination,
// newest first
func (r *GormPriceAuditRepository) FindAll(ctx context.Context, filter pricing.AuditFilter) ([]*pricing.PriceAudit, int64, error) {
	var audits []*pricing.PriceAudit
	var total int64

	query := r.db.WithContext(ctx).Model(&pricing.PriceAudit{})

	if filter.EventType != nil {
		query = query.Where("event_type = ?", *filter.EventType)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.SKUID != nil {
		query = query.Where("sku_id = ?", *filter.SKUID)
	}
	if filter.RetailerID != nil {
		query = query.Where("retailer_id = ?", *filter.RetailerID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at < ?", *filter.Until)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&audits).Error; err != nil {
		return nil, 0, err
	}

	return audits, total, nil
}

// Ensure GormPriceAuditRepository implements PriceAuditRepository
var _ pricing.PriceAuditRepository = (*GormPriceAuditRepository)(nil)
