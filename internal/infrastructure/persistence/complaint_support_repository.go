package persistence

import (
	"context"
	"errors"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStatusHistoryRepository implements StatusHistoryRepository using GORM
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GormStatusHistoryRepository
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Create appends a transition record
func (r *GormStatusHistoryRepository) Create(ctx context.Context, h *complaint.StatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// FindByComplaint returns the transition history, oldest first
func (r *GormStatusHistoryRepository) FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]*complaint.StatusHistory, error) {
	var history []*complaint.StatusHistory
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GormEvidenceRepository implements EvidenceRepository using GORM
type GormEvidenceRepository struct {
	db *gorm.DB
}

// NewGormEvidenceRepository creates a new GormEvidenceRepository
func NewGormEvidenceRepository(db *gorm.DB) *GormEvidenceRepository {
	return &GormEvidenceRepository{db: db}
}

// Create attaches evidence metadata
func (r *GormEvidenceRepository) Create(ctx context.Context, e *complaint.Evidence) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// FindByComplaint returns evidence rows for a complaint
func (r *GormEvidenceRepository) FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]*complaint.Evidence, error) {
	var evidence []*complaint.Evidence
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&evidence).Error
	if err != nil {
		return nil, err
	}
	return evidence, nil
}

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create writes a notification row
func (r *GormNotificationRepository) Create(ctx context.Context, n *complaint.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// Update updates a notification (read state)
func (r *GormNotificationRepository) Update(ctx context.Context, n *complaint.Notification) error {
	result := r.db.WithContext(ctx).Save(n)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaint.Notification, error) {
	var n complaint.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByUser returns a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*complaint.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := r.db.WithContext(ctx).
		Model(&complaint.Notification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*complaint.Notification
	err := query.
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// CountUnread returns the user's unread notification count
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&complaint.Notification{}).
		Where("user_id = ?", userID).
		Where("read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Interface compliance checks
var (
	_ complaint.StatusHistoryRepository = (*GormStatusHistoryRepository)(nil)
	_ complaint.EvidenceRepository      = (*GormEvidenceRepository)(nil)
	_ complaint.NotificationRepository  = (*GormNotificationRepository)(nil)
)
