package complaint

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ComplaintRepository defines persistence for complaints
type ComplaintRepository interface {
	// Create creates a new complaint
	Create(ctx context.Context, c *Complaint) error

	// Update updates an existing complaint
	Update(ctx context.Context, c *Complaint) error

	// Delete soft-deletes a complaint
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a complaint by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Complaint, error)

	// FindByCode finds a complaint by its reference code
	FindByCode(ctx context.Context, code string) (*Complaint, error)

	// FindAll returns complaints matching the filter with pagination
	FindAll(ctx context.Context, filter Filter) ([]*Complaint, int64, error)

	// ExistsByCode checks if a reference code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Stats returns aggregate complaint statistics
	Stats(ctx context.Context) (*Stats, error)
}

// StatusHistoryRepository defines persistence for status transitions
type StatusHistoryRepository interface {
	// Create appends a transition record
	Create(ctx context.Context, h *StatusHistory) error

	// FindByComplaint returns the transition history, oldest first
	FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]*StatusHistory, error)
}

// EvidenceRepository defines persistence for evidence metadata
type EvidenceRepository interface {
	// Create attaches evidence metadata
	Create(ctx context.Context, e *Evidence) error

	// FindByComplaint returns evidence rows for a complaint
	FindByComplaint(ctx context.Context, complaintID uuid.UUID) ([]*Evidence, error)
}

// NotificationRepository defines persistence for complaint notifications
type NotificationRepository interface {
	// Create writes a notification row
	Create(ctx context.Context, n *Notification) error

	// Update updates a notification (read state)
	Update(ctx context.Context, n *Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByUser returns a user's notifications, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*Notification, int64, error)

	// CountUnread returns the user's unread notification count
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Filter contains filter options for complaint queries
type Filter struct {
	ComplainantID *uuid.UUID
	RetailerID    *uuid.UUID
	AssigneeID    *uuid.UUID
	DistrictID    *uuid.UUID
	Status        *ComplaintStatus
	Type          *ComplaintType
	Priority      *ComplaintPriority
	Since         *time.Time

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewFilter creates a filter with default values
func NewFilter() Filter {
	return Filter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f Filter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// Stats aggregates complaint counts for the statistics endpoint
type Stats struct {
	Total                int64
	ByStatus             map[ComplaintStatus]int64
	ByType               map[ComplaintType]int64
	ByPriority           map[ComplaintPriority]int64
	AvgResolutionSeconds float64
}
