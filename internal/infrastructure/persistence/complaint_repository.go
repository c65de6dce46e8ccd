package persistence

import (
	"context"
	"errors"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormComplaintRepository implements ComplaintRepository using GORM
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewGormComplaintRepository creates a new GormComplaintRepository
func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Create creates a new complaint
func (r *GormComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update updates an existing complaint
func (r *GormComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a complaint
func (r *GormComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&complaint.Complaint{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a complaint by ID
func (r *GormComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaint.Complaint, error) {
	var c complaint.Complaint
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCode finds a complaint by its reference code
func (r *GormComplaintRepository) FindByCode(ctx context.Context, code string) (*complaint.Complaint, error) {
	var c complaint.Complaint
	if err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns complaints matching the filter with pagination
func (r *GormComplaintRepository) FindAll(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, int64, error) {
	var complaints []*complaint.Complaint
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&complaint.Complaint{}), filter)

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

	if err := query.Find(&complaints).Error; err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// ExistsByCode checks if a reference code is taken
func (r *GormComplaintRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&complaint.Complaint{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Stats returns aggregate complaint statistics
func (r *GormComplaintRepository) Stats(ctx context.Context) (*complaint.Stats, error) {
	stats := &complaint.Stats{
		ByStatus:   make(map[complaint.ComplaintStatus]int64),
		ByType:     make(map[complaint.ComplaintType]int64),
		ByPriority: make(map[complaint.ComplaintPriority]int64),
	}

	model := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&complaint.Complaint{})
	}

	if err := model().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var statusRows []struct {
		Status complaint.ComplaintStatus
		Count  int64
	}
	if err := model().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	var typeRows []struct {
		Type  complaint.ComplaintType
		Count int64
	}
	if err := model().
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&typeRows).Error; err != nil {
		return nil, err
	}
	for _, row := range typeRows {
		stats.ByType[row.Type] = row.Count
	}

	var priorityRows []struct {
		Priority complaint.ComplaintPriority
		Count    int64
	}
	if err := model().
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&priorityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		stats.ByPriority[row.Priority] = row.Count
	}

	// Average wall time from filing to resolution over resolved complaints
	var avg struct {
		Seconds *float64
	}
	if err := model().
		Select("AVG(EXTRACT(EPOCH FROM (resolved_at - created_at))) AS seconds").
		Where("resolved_at IS NOT NULL").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg.Seconds != nil {
		stats.AvgResolutionSeconds = *avg.Seconds
	}

	return stats, nil
}

func (r *GormComplaintRepository) applyFilter(query *gorm.DB, filter complaint.Filter) *gorm.DB {
	if filter.ComplainantID != nil {
		query = query.Where("complainant_id = ?", *filter.ComplainantID)
	}
	if filter.RetailerID != nil {
		query = query.Where("retailer_id = ?", *filter.RetailerID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.DistrictID != nil {
		query = query.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	return query
}

// Ensure GormComplaintRepository implements ComplaintRepository
var _ complaint.ComplaintRepository = (*GormComplaintRepository)(nil)
