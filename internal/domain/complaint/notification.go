package complaint

import (
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Notification is a per-user notification row written when a complaint is
// assigned or changes status.
type Notification struct {
	shared.BaseEntity
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Body        string    `gorm:"type:text"`
	Read        bool      `gorm:"not null;default:false;index"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "complaint_notifications"
}

// NewNotification creates a notification for a user
func NewNotification(userID, complaintID uuid.UUID, title, body string) *Notification {
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		ComplaintID: complaintID,
		Title:       title,
		Body:        body,
	}
}

// MarkRead marks the notification as read. Idempotent.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
