package complaint

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ComplaintType classifies what the complaint is about
type ComplaintType string

const (
	TypePriceViolation ComplaintType = "price_violation"
	TypeServiceIssue   ComplaintType = "service_issue"
	TypeProductQuality ComplaintType = "product_quality"
	TypeOther          ComplaintType = "other"
)

// AllComplaintTypes lists every valid complaint type
var AllComplaintTypes = []ComplaintType{TypePriceViolation, TypeServiceIssue, TypeProductQuality, TypeOther}

// IsValid checks if the complaint type is valid
func (t ComplaintType) IsValid() bool {
	for _, ct := range AllComplaintTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// ComplaintStatus is the workflow state of a complaint
type ComplaintStatus string

const (
	StatusPending         ComplaintStatus = "pending"
	StatusUnderReview     ComplaintStatus = "under_review"
	StatusInvestigation   ComplaintStatus = "investigation"
	StatusWaitingResponse ComplaintStatus = "waiting_response"
	StatusResolved        ComplaintStatus = "resolved"
	StatusRejected        ComplaintStatus = "rejected"
	StatusClosed          ComplaintStatus = "closed"
)

// allowedTransitions defines the complaint status machine. Rejection is
// additionally allowed from any open state.
var allowedTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusPending:         {StatusUnderReview},
	StatusUnderReview:     {StatusInvestigation},
	StatusInvestigation:   {StatusWaitingResponse, StatusResolved},
	StatusWaitingResponse: {StatusInvestigation, StatusResolved},
	StatusResolved:        {StatusClosed},
	StatusRejected:        {StatusClosed},
	StatusClosed:          {},
}

// IsOpen reports whether the complaint is still being worked
func (s ComplaintStatus) IsOpen() bool {
	switch s {
	case StatusResolved, StatusRejected, StatusClosed:
		return false
	default:
		return true
	}
}

// IsTerminal reports whether ordinary edits are no longer allowed
func (s ComplaintStatus) IsTerminal() bool {
	return !s.IsOpen()
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s ComplaintStatus) CanTransitionTo(target ComplaintStatus) bool {
	if target == StatusRejected {
		return s.IsOpen()
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ComplaintPriority is the triage priority of a complaint
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

// IsValid checks if the priority is valid
func (p ComplaintPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Complaint is a grievance filed against a retailer or the scheme at large.
type Complaint struct {
	shared.BaseAggregateRoot
	Code          string        `gorm:"type:varchar(20);uniqueIndex;not null"`
	ComplainantID uuid.UUID     `gorm:"type:uuid;not null;index"`
	RetailerID    *uuid.UUID    `gorm:"type:uuid;index"`
	SKUID         *uuid.UUID    `gorm:"type:uuid;index"`
	DistrictID    *uuid.UUID    `gorm:"type:uuid;index"`
	Type          ComplaintType `gorm:"type:varchar(20);not null;index"`
	Subject       string        `gorm:"type:varchar(200);not null"`
	Description   string        `gorm:"type:text;not null"`

	// Price fields are set for price_violation complaints
	ReportedPrice   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedPrice   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PriceDifference *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Status         ComplaintStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority       ComplaintPriority `gorm:"type:varchar(10);not null;default:'medium';index"`
	AssigneeID     *uuid.UUID        `gorm:"type:uuid;index"`
	ResolutionNote string            `gorm:"type:text"`
	ResolvedAt     *time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Complaint) TableName() string {
	return "complaints"
}

// GenerateCode builds a complaint reference code for the given day, e.g.
// COMP-20260829-4271. Uniqueness is enforced by the database; callers retry
// on collision.
func GenerateCode(now time.Time) string {
	return fmt.Sprintf("COMP-%s-%04d", now.Format("20060102"), rand.Intn(10000))
}

// NewComplaint files a new complaint
func NewComplaint(complainantID uuid.UUID, complaintType ComplaintType, subject, description string) (*Complaint, error) {
	if complainantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPLAINANT", "Complainant is required")
	}
	if !complaintType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COMPLAINT_TYPE", "Invalid complaint type")
	}
	if len(subject) < 5 || len(subject) > 200 {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject must be 5-200 characters")
	}
	if len(description) < 20 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description must be at least 20 characters")
	}

	c := &Complaint{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              GenerateCode(time.Now()),
		ComplainantID:     complainantID,
		Type:              complaintType,
		Subject:           subject,
		Description:       description,
		Status:            StatusPending,
		Priority:          PriorityMedium,
	}

	c.AddDomainEvent(NewComplaintFiledEvent(c))

	return c, nil
}

// AgainstRetailer links the complaint to a retailer
func (c *Complaint) AgainstRetailer(retailerID uuid.UUID) *Complaint {
	c.RetailerID = &retailerID
	return c
}

// AboutSKU links the complaint to a SKU
func (c *Complaint) AboutSKU(skuID uuid.UUID) *Complaint {
	c.SKUID = &skuID
	return c
}

// InDistrict links the complaint to a district
func (c *Complaint) InDistrict(districtID uuid.UUID) *Complaint {
	c.DistrictID = &districtID
	return c
}

// SetPrices records the reported and expected price on a price-violation
// complaint and computes the difference.
func (c *Complaint) SetPrices(reported, expected decimal.Decimal) error {
	if c.Type != TypePriceViolation {
		return shared.NewDomainError("INVALID_COMPLAINT_TYPE", "Prices apply only to price-violation complaints")
	}
	if !reported.IsPositive() || !expected.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Reported and expected prices must be greater than zero")
	}

	reported = reported.Round(2)
	expected = expected.Round(2)
	diff := reported.Sub(expected)

	c.ReportedPrice = &reported
	c.ExpectedPrice = &expected
	c.PriceDifference = &diff

	return nil
}

// SetPriority changes the triage priority
func (c *Complaint) SetPriority(priority ComplaintPriority) error {
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid complaint priority")
	}
	if c.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Complaint is no longer open")
	}

	c.Priority = priority
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Assign hands the complaint to an officer or inspector. Assigning a pending
// complaint moves it under review.
func (c *Complaint) Assign(assigneeID, actorID uuid.UUID) error {
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required")
	}
	if c.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Complaint is no longer open")
	}

	c.AssigneeID = &assigneeID
	if c.Status == StatusPending {
		if err := c.transition(StatusUnderReview, actorID, "assigned"); err != nil {
			return err
		}
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewComplaintAssignedEvent(c, assigneeID))

	return nil
}

// ChangeStatus moves the complaint through the workflow. Resolve and reject
// require a note which becomes the resolution note.
func (c *Complaint) ChangeStatus(target ComplaintStatus, actorID uuid.UUID, note string) error {
	if target == StatusResolved || target == StatusRejected {
		if note == "" {
			return shared.NewDomainError("INVALID_INPUT", "A note is required to resolve or reject a complaint")
		}
	}
	if err := c.transition(target, actorID, note); err != nil {
		return err
	}

	if target == StatusResolved || target == StatusRejected {
		now := time.Now()
		c.ResolutionNote = note
		c.ResolvedAt = &now
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

func (c *Complaint) transition(target ComplaintStatus, actorID uuid.UUID, note string) error {
	if !c.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot move complaint from %s to %s", c.Status, target))
	}

	from := c.Status
	c.Status = target
	c.AddDomainEvent(NewComplaintStatusChangedEvent(c, from, target, actorID, note))

	return nil
}

// ResolutionDuration returns how long the complaint took to resolve.
// Returns zero for unresolved complaints.
func (c *Complaint) ResolutionDuration() time.Duration {
	if c.ResolvedAt == nil {
		return 0
	}
	return c.ResolvedAt.Sub(c.CreatedAt)
}

// IsAssignedTo reports whether the complaint is assigned to the given user
func (c *Complaint) IsAssignedTo(userID uuid.UUID) bool {
	return c.AssigneeID != nil && *c.AssigneeID == userID
}
