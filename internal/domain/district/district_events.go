package district

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for District
const AggregateTypeDistrict = "District"

// District domain event types
const (
	EventTypeDistrictCreated       = "DistrictCreated"
	EventTypeDistrictUpdated       = "DistrictUpdated"
	EventTypeDistrictMoved         = "DistrictMoved"
	EventTypeDistrictStatusChanged = "DistrictStatusChanged"
)

// DistrictCreatedEvent is published when a district is created
type DistrictCreatedEvent struct {
	shared.BaseDomainEvent
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Level    int        `json:"level"`
}

// NewDistrictCreatedEvent creates a new DistrictCreatedEvent
func NewDistrictCreatedEvent(d *District) *DistrictCreatedEvent {
	return &DistrictCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDistrictCreated, AggregateTypeDistrict, d.ID),
		Code:            d.Code,
		Name:            d.Name,
		ParentID:        d.ParentID,
		Level:           d.Level,
	}
}

// DistrictUpdatedEvent is published when a district is updated
type DistrictUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewDistrictUpdatedEvent creates a new DistrictUpdatedEvent
func NewDistrictUpdatedEvent(d *District) *DistrictUpdatedEvent {
	return &DistrictUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDistrictUpdated, AggregateTypeDistrict, d.ID),
		Code:            d.Code,
		Name:            d.Name,
	}
}

// DistrictMovedEvent is published when a district is re-parented
type DistrictMovedEvent struct {
	shared.BaseDomainEvent
	Code     string     `json:"code"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Path     string     `json:"path"`
}

// NewDistrictMovedEvent creates a new DistrictMovedEvent
func NewDistrictMovedEvent(d *District) *DistrictMovedEvent {
	return &DistrictMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDistrictMoved, AggregateTypeDistrict, d.ID),
		Code:            d.Code,
		ParentID:        d.ParentID,
		Path:            d.Path,
	}
}

// DistrictStatusChangedEvent is published when a district's status changes
type DistrictStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string         `json:"code"`
	OldStatus DistrictStatus `json:"old_status"`
	NewStatus DistrictStatus `json:"new_status"`
}

// NewDistrictStatusChangedEvent creates a new DistrictStatusChangedEvent
func NewDistrictStatusChangedEvent(d *District, oldStatus, newStatus DistrictStatus) *DistrictStatusChangedEvent {
	return &DistrictStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDistrictStatusChanged, AggregateTypeDistrict, d.ID),
		Code:            d.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
