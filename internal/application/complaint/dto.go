package complaint

import (
	"time"

	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caller identifies the authenticated user a complaint operation runs for.
// Non-staff callers are restricted to complaints they filed.
type Caller struct {
	UserID uuid.UUID
	Role   identity.Role
}

// FileComplaintInput contains the data to file a complaint
type FileComplaintInput struct {
	ComplainantID uuid.UUID               `json:"-"`
	Type          complaint.ComplaintType `json:"type" binding:"required"`
	Subject       string                  `json:"subject" binding:"required,min=5,max=200"`
	Description   string                  `json:"description" binding:"required,min=20"`
	RetailerID    *uuid.UUID              `json:"retailer_id"`
	SKUID         *uuid.UUID              `json:"sku_id"`
	DistrictID    *uuid.UUID              `json:"district_id"`
	ReportedPrice *decimal.Decimal        `json:"reported_price"`
	ExpectedPrice *decimal.Decimal        `json:"expected_price"`
}

// AssignComplaintInput contains the data to assign a complaint
type AssignComplaintInput struct {
	ComplaintID uuid.UUID `json:"-"`
	AssigneeID  uuid.UUID `json:"assignee_id" binding:"required"`
	ActorID     uuid.UUID `json:"-"`
}

// ChangeStatusInput contains the data for a status transition
type ChangeStatusInput struct {
	ComplaintID uuid.UUID                 `json:"-"`
	Target      complaint.ComplaintStatus `json:"status" binding:"required"`
	ActorID     uuid.UUID                 `json:"-"`
	Note        string                    `json:"note"`
}

// SetPriorityInput contains the data to change triage priority
type SetPriorityInput struct {
	ComplaintID uuid.UUID                   `json:"-"`
	Priority    complaint.ComplaintPriority `json:"priority" binding:"required"`
}

// AddEvidenceInput contains the data to attach evidence metadata
type AddEvidenceInput struct {
	ComplaintID uuid.UUID `json:"-"`
	URL         string    `json:"url" binding:"required,max=500"`
	Caption     string    `json:"caption" binding:"max=200"`
	AddedBy     uuid.UUID `json:"-"`
}

// ListComplaintsInput contains query parameters for complaints
type ListComplaintsInput struct {
	ComplainantID *uuid.UUID                   `form:"complainant_id"`
	RetailerID    *uuid.UUID                   `form:"retailer_id"`
	AssigneeID    *uuid.UUID                   `form:"assignee_id"`
	DistrictID    *uuid.UUID                   `form:"district_id"`
	Status        *complaint.ComplaintStatus   `form:"status"`
	Type          *complaint.ComplaintType     `form:"type"`
	Priority      *complaint.ComplaintPriority `form:"priority"`
	Since         *time.Time                   `form:"since"`
	Page          int                          `form:"page"`
	PageSize      int                          `form:"page_size"`
	SortBy        string                       `form:"sort_by"`
	SortOrder     string                       `form:"sort_order"`
}

// ComplaintInfo is the complaint representation returned to clients
type ComplaintInfo struct {
	ID              uuid.UUID                   `json:"id"`
	Code            string                      `json:"code"`
	ComplainantID   uuid.UUID                   `json:"complainant_id"`
	RetailerID      *uuid.UUID                  `json:"retailer_id,omitempty"`
	SKUID           *uuid.UUID                  `json:"sku_id,omitempty"`
	DistrictID      *uuid.UUID                  `json:"district_id,omitempty"`
	Type            complaint.ComplaintType     `json:"type"`
	Subject         string                      `json:"subject"`
	Description     string                      `json:"description"`
	ReportedPrice   *decimal.Decimal            `json:"reported_price,omitempty"`
	ExpectedPrice   *decimal.Decimal            `json:"expected_price,omitempty"`
	PriceDifference *decimal.Decimal            `json:"price_difference,omitempty"`
	Status          complaint.ComplaintStatus   `json:"status"`
	Priority        complaint.ComplaintPriority `json:"priority"`
	AssigneeID      *uuid.UUID                  `json:"assignee_id,omitempty"`
	ResolutionNote  string                      `json:"resolution_note,omitempty"`
	ResolvedAt      *time.Time                  `json:"resolved_at,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// NewComplaintInfo maps a complaint to its client representation
func NewComplaintInfo(c *complaint.Complaint) ComplaintInfo {
	return ComplaintInfo{
		ID:              c.ID,
		Code:            c.Code,
		ComplainantID:   c.ComplainantID,
		RetailerID:      c.RetailerID,
		SKUID:           c.SKUID,
		DistrictID:      c.DistrictID,
		Type:            c.Type,
		Subject:         c.Subject,
		Description:     c.Description,
		ReportedPrice:   c.ReportedPrice,
		ExpectedPrice:   c.ExpectedPrice,
		PriceDifference: c.PriceDifference,
		Status:          c.Status,
		Priority:        c.Priority,
		AssigneeID:      c.AssigneeID,
		ResolutionNote:  c.ResolutionNote,
		ResolvedAt:      c.ResolvedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ListComplaintsResult is a page of complaints
type ListComplaintsResult struct {
	Complaints []ComplaintInfo `json:"complaints"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// StatusHistoryInfo is a status transition returned to clients
type StatusHistoryInfo struct {
	FromStatus complaint.ComplaintStatus `json:"from_status"`
	ToStatus   complaint.ComplaintStatus `json:"to_status"`
	ActorID    uuid.UUID                 `json:"actor_id"`
	Note       string                    `json:"note,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// EvidenceInfo is an evidence row returned to clients
type EvidenceInfo struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	AddedBy   uuid.UUID `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationInfo is a notification returned to clients
type NotificationInfo struct {
	ID          uuid.UUID  `json:"id"`
	ComplaintID uuid.UUID  `json:"complaint_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListNotificationsResult is a page of notifications
type ListNotificationsResult struct {
	Notifications []NotificationInfo `json:"notifications"`
	Total         int64              `json:"total"`
	Unread        int64              `json:"unread"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

// StatsInfo is the complaint statistics response
type StatsInfo struct {
	Total                int64                                 `json:"total"`
	ByStatus             map[complaint.ComplaintStatus]int64   `json:"by_status"`
	ByType               map[complaint.ComplaintType]int64     `json:"by_type"`
	ByPriority           map[complaint.ComplaintPriority]int64 `json:"by_priority"`
	AvgResolutionSeconds float64                               `json:"avg_resolution_seconds"`
}
