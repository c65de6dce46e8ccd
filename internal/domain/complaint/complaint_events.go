package complaint

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeComplaint is the aggregate type for complaint events
const AggregateTypeComplaint = "Complaint"

// Complaint domain event types
const (
	EventTypeComplaintFiled         = "ComplaintFiled"
	EventTypeComplaintAssigned      = "ComplaintAssigned"
	EventTypeComplaintStatusChanged = "ComplaintStatusChanged"
)

// ComplaintFiledEvent is published when a complaint is filed
type ComplaintFiledEvent struct {
	shared.BaseDomainEvent
	Code          string        `json:"code"`
	ComplainantID uuid.UUID     `json:"complainant_id"`
	RetailerID    *uuid.UUID    `json:"retailer_id,omitempty"`
	Type          ComplaintType `json:"type"`
}

// NewComplaintFiledEvent creates a new ComplaintFiledEvent
func NewComplaintFiledEvent(c *Complaint) *ComplaintFiledEvent {
	return &ComplaintFiledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComplaintFiled, AggregateTypeComplaint, c.ID),
		Code:            c.Code,
		ComplainantID:   c.ComplainantID,
		RetailerID:      c.RetailerID,
		Type:            c.Type,
	}
}

// ComplaintAssignedEvent is published when a complaint is assigned
type ComplaintAssignedEvent struct {
	shared.BaseDomainEvent
	Code       string    `json:"code"`
	AssigneeID uuid.UUID `json:"assignee_id"`
}

// NewComplaintAssignedEvent creates a new ComplaintAssignedEvent
func NewComplaintAssignedEvent(c *Complaint, assigneeID uuid.UUID) *ComplaintAssignedEvent {
	return &ComplaintAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComplaintAssigned, AggregateTypeComplaint, c.ID),
		Code:            c.Code,
		AssigneeID:      assigneeID,
	}
}

// ComplaintStatusChangedEvent is published when a complaint moves through
// the workflow
type ComplaintStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code       string          `json:"code"`
	FromStatus ComplaintStatus `json:"from_status"`
	ToStatus   ComplaintStatus `json:"to_status"`
	ActorID    uuid.UUID       `json:"actor_id"`
	Note       string          `json:"note,omitempty"`
}

// NewComplaintStatusChangedEvent creates a new ComplaintStatusChangedEvent
func NewComplaintStatusChangedEvent(c *Complaint, from, to ComplaintStatus, actorID uuid.UUID, note string) *ComplaintStatusChangedEvent {
	return &ComplaintStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComplaintStatusChanged, AggregateTypeComplaint, c.ID),
		Code:            c.Code,
		FromStatus:      from,
		ToStatus:        to,
		ActorID:         actorID,
		Note:            note,
	}
}
