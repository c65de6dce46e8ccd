package catalog

import (
	"github.com/fertigov/backend/internal/domain/shared"
)

// Aggregate type constant for SKU
const AggregateTypeSKU = "SKU"

// SKU domain event types
const (
	EventTypeSKUCreated       = "SKUCreated"
	EventTypeSKUUpdated       = "SKUUpdated"
	EventTypeSKUStatusChanged = "SKUStatusChanged"
)

// SKUCreatedEvent is published when a SKU is created
type SKUCreatedEvent struct {
	shared.BaseDomainEvent
	Code         string `json:"code"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
}

// NewSKUCreatedEvent creates a new SKUCreatedEvent
func NewSKUCreatedEvent(s *SKU) *SKUCreatedEvent {
	return &SKUCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSKUCreated, AggregateTypeSKU, s.ID),
		Code:            s.Code,
		Name:            s.Name,
		Manufacturer:    s.Manufacturer,
	}
}

// SKUUpdatedEvent is published when a SKU is updated
type SKUUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSKUUpdatedEvent creates a new SKUUpdatedEvent
func NewSKUUpdatedEvent(s *SKU) *SKUUpdatedEvent {
	return &SKUUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSKUUpdated, AggregateTypeSKU, s.ID),
		Code:            s.Code,
		Name:            s.Name,
	}
}

// SKUStatusChangedEvent is published when a SKU's status changes
type SKUStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string    `json:"code"`
	OldStatus SKUStatus `json:"old_status"`
	NewStatus SKUStatus `json:"new_status"`
}

// NewSKUStatusChangedEvent creates a new SKUStatusChangedEvent
func NewSKUStatusChangedEvent(s *SKU, oldStatus, newStatus SKUStatus) *SKUStatusChangedEvent {
	return &SKUStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSKUStatusChanged, AggregateTypeSKU, s.ID),
		Code:            s.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
