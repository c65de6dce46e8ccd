package district

import (
	"fmt"
	"strings"
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxDistrictDepth is the maximum depth of the administrative hierarchy
// (state -> district -> block -> village)
const MaxDistrictDepth = 4

// DistrictStatus represents the status of a district
type DistrictStatus string

const (
	DistrictStatusActive   DistrictStatus = "active"
	DistrictStatusInactive DistrictStatus = "inactive"
)

// District represents an administrative area in the governance hierarchy.
// It supports a parent-child tree via a materialized path.
type District struct {
	shared.BaseAggregateRoot
	Code     string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string         `gorm:"type:varchar(100);not null"`
	ParentID *uuid.UUID     `gorm:"type:uuid;index"`
	Path     string         `gorm:"type:varchar(500);not null;index"` // Materialized path for tree queries
	Level    int            `gorm:"not null;default:0"`
	Status   DistrictStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (District) TableName() string {
	return "districts"
}

// NewDistrict creates a new top-level district
func NewDistrict(code, name string) (*District, error) {
	if err := validateDistrictCode(code); err != nil {
		return nil, err
	}
	if err := validateDistrictName(name); err != nil {
		return nil, err
	}

	d := &District{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            DistrictStatusActive,
		Level:             0,
	}
	// Root path is just the ID
	d.Path = d.ID.String()

	d.AddDomainEvent(NewDistrictCreatedEvent(d))

	return d, nil
}

// NewChildDistrict creates a new district under a parent
func NewChildDistrict(code, name string, parent *District) (*District, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent district is required")
	}
	if !parent.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_PARENT", "Parent district is not active")
	}
	if parent.Level >= MaxDistrictDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("District depth cannot exceed %d levels", MaxDistrictDepth))
	}

	if err := validateDistrictCode(code); err != nil {
		return nil, err
	}
	if err := validateDistrictName(name); err != nil {
		return nil, err
	}

	d := &District{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		ParentID:          &parent.ID,
		Level:             parent.Level + 1,
		Status:            DistrictStatusActive,
	}
	// Child path is parent path + separator + child ID
	d.Path = parent.Path + "/" + d.ID.String()

	d.AddDomainEvent(NewDistrictCreatedEvent(d))

	return d, nil
}

// Update updates the district's name
func (d *District) Update(name string) error {
	if err := validateDistrictName(name); err != nil {
		return err
	}

	d.Name = name
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDistrictUpdatedEvent(d))

	return nil
}

// UpdateCode updates the district's code
// Retailers and prices reference districts by ID, so this is safe
func (d *District) UpdateCode(code string) error {
	if err := validateDistrictCode(code); err != nil {
		return err
	}

	d.Code = strings.ToUpper(code)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDistrictUpdatedEvent(d))

	return nil
}

// MoveTo re-parents the district under a new parent. The caller is
// responsible for rewriting descendant paths through the repository.
func (d *District) MoveTo(parent *District) error {
	if parent == nil {
		return shared.NewDomainError("INVALID_PARENT", "Parent district is required")
	}
	if parent.ID == d.ID {
		return shared.NewDomainError("INVALID_PARENT", "District cannot be its own parent")
	}
	if d.IsAncestorOf(parent) {
		return shared.NewDomainError("INVALID_PARENT", "District cannot be moved under its own descendant")
	}
	if parent.Level >= MaxDistrictDepth-1 {
		return shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("District depth cannot exceed %d levels", MaxDistrictDepth))
	}

	d.ParentID = &parent.ID
	d.Level = parent.Level + 1
	d.Path = parent.Path + "/" + d.ID.String()
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDistrictMovedEvent(d))

	return nil
}

// Activate activates the district
func (d *District) Activate() error {
	if d.Status == DistrictStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "District is already active")
	}

	d.Status = DistrictStatusActive
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDistrictStatusChangedEvent(d, DistrictStatusInactive, DistrictStatusActive))

	return nil
}

// Deactivate deactivates the district
func (d *District) Deactivate() error {
	if d.Status == DistrictStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "District is already inactive")
	}

	d.Status = DistrictStatusInactive
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDistrictStatusChangedEvent(d, DistrictStatusActive, DistrictStatusInactive))

	return nil
}

// IsActive returns true if the district is active
func (d *District) IsActive() bool {
	return d.Status == DistrictStatusActive
}

// IsRoot returns true if this is a top-level district
func (d *District) IsRoot() bool {
	return d.ParentID == nil
}

// GetAncestorIDs returns the IDs of all ancestor districts, outermost first
func (d *District) GetAncestorIDs() []uuid.UUID {
	if d.Path == "" {
		return nil
	}

	parts := strings.Split(d.Path, "/")
	if len(parts) <= 1 {
		return nil
	}

	// Exclude the last element which is this district's ID
	ancestors := make([]uuid.UUID, 0, len(parts)-1)
	for i := 0; i < len(parts)-1; i++ {
		if id, err := uuid.Parse(parts[i]); err == nil {
			ancestors = append(ancestors, id)
		}
	}

	return ancestors
}

// IsAncestorOf returns true if this district is an ancestor of the given district
func (d *District) IsAncestorOf(other *District) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, d.Path+"/")
}

// IsDescendantOf returns true if this district is a descendant of the given district
func (d *District) IsDescendantOf(other *District) bool {
	if other == nil {
		return false
	}
	return other.IsAncestorOf(d)
}

// validateDistrictCode validates the district code
func validateDistrictCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "District code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "District code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "District code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateDistrictName validates the district name
func validateDistrictName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "District name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "District name cannot exceed 100 characters")
	}
	return nil
}
