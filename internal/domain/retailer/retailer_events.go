package retailer

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Retailer
const AggregateTypeRetailer = "Retailer"

// Retailer domain event types
const (
	EventTypeRetailerRegistered = "RetailerRegistered"
	EventTypeRetailerVerified   = "RetailerVerified"
	EventTypeRetailerSuspended  = "RetailerSuspended"
)

// RetailerRegisteredEvent is published when a retailer profile is created
type RetailerRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	DistrictID   uuid.UUID `json:"district_id"`
	BusinessName string    `json:"business_name"`
	LicenseNo    string    `json:"license_no"`
}

// NewRetailerRegisteredEvent creates a new RetailerRegisteredEvent
func NewRetailerRegisteredEvent(r *Retailer) *RetailerRegisteredEvent {
	return &RetailerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRetailerRegistered, AggregateTypeRetailer, r.ID),
		UserID:          r.UserID,
		DistrictID:      r.DistrictID,
		BusinessName:    r.BusinessName,
		LicenseNo:       r.LicenseNo,
	}
}

// RetailerVerifiedEvent is published when a retailer license is verified
type RetailerVerifiedEvent struct {
	shared.BaseDomainEvent
	LicenseNo  string     `json:"license_no"`
	VerifiedBy *uuid.UUID `json:"verified_by,omitempty"`
}

// NewRetailerVerifiedEvent creates a new RetailerVerifiedEvent
func NewRetailerVerifiedEvent(r *Retailer) *RetailerVerifiedEvent {
	return &RetailerVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRetailerVerified, AggregateTypeRetailer, r.ID),
		LicenseNo:       r.LicenseNo,
		VerifiedBy:      r.VerifiedBy,
	}
}

// RetailerSuspendedEvent is published when a retailer is suspended
type RetailerSuspendedEvent struct {
	shared.BaseDomainEvent
	LicenseNo string `json:"license_no"`
	Reason    string `json:"reason"`
}

// NewRetailerSuspendedEvent creates a new RetailerSuspendedEvent
func NewRetailerSuspendedEvent(r *Retailer, reason string) *RetailerSuspendedEvent {
	return &RetailerSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRetailerSuspended, AggregateTypeRetailer, r.ID),
		LicenseNo:       r.LicenseNo,
		Reason:          reason,
	}
}
