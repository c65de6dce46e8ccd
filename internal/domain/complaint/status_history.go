package complaint

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StatusHistory is an append-only record of a complaint status transition
type StatusHistory struct {
	shared.BaseEntity
	ComplaintID uuid.UUID       `gorm:"type:uuid;not null;index"`
	FromStatus  ComplaintStatus `gorm:"type:varchar(20);not null"`
	ToStatus    ComplaintStatus `gorm:"type:varchar(20);not null"`
	ActorID     uuid.UUID       `gorm:"type:uuid;not null"`
	Note        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StatusHistory) TableName() string {
	return "complaint_status_history"
}

// NewStatusHistory records a status transition
func NewStatusHistory(complaintID uuid.UUID, from, to ComplaintStatus, actorID uuid.UUID, note string) *StatusHistory {
	return &StatusHistory{
		BaseEntity:  shared.NewBaseEntity(),
		ComplaintID: complaintID,
		FromStatus:  from,
		ToStatus:    to,
		ActorID:     actorID,
		Note:        note,
	}
}
