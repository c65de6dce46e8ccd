package district

import (
	"time"

	"github.com/fertigov/backend/internal/domain/district"
	"github.com/google/uuid"
)

// CreateDistrictInput contains the input for creating a district
type CreateDistrictInput struct {
	Code     string
	Name     string
	ParentID *uuid.UUID // nil for a top-level district
}

// UpdateDistrictInput contains the mutable district fields
type UpdateDistrictInput struct {
	DistrictID uuid.UUID
	Name       *string
	Code       *string
}

// MoveDistrictInput contains the input for re-parenting a district
type MoveDistrictInput struct {
	DistrictID  uuid.UUID
	NewParentID uuid.UUID
}

// ListDistrictsInput contains query options for listing districts
type ListDistrictsInput struct {
	Keyword   string
	ParentID  *uuid.UUID
	Level     *int
	Status    *district.DistrictStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// DistrictInfo is the transport representation of a district
type DistrictInfo struct {
	ID        uuid.UUID               `json:"id"`
	Code      string                  `json:"code"`
	Name      string                  `json:"name"`
	ParentID  *uuid.UUID              `json:"parent_id,omitempty"`
	Path      string                  `json:"path"`
	Level     int                     `json:"level"`
	Status    district.DistrictStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewDistrictInfo maps a district aggregate to the transport representation
func NewDistrictInfo(d *district.District) DistrictInfo {
	return DistrictInfo{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		ParentID:  d.ParentID,
		Path:      d.Path,
		Level:     d.Level,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

// ListDistrictsResult contains a page of districts
type ListDistrictsResult struct {
	Districts []DistrictInfo
	Total     int64
	Page      int
	PageSize  int
}

// TreeNode is a district with its nested children
type TreeNode struct {
	DistrictInfo
	Children []*TreeNode `json:"children"`
}

// DeletionImpact summarises what blocks a district deletion
type DeletionImpact struct {
	DistrictID      uuid.UUID `json:"district_id"`
	ChildDistricts  int64     `json:"child_districts"`
	Retailers       int64     `json:"retailers"`
	ReferencePrices int64     `json:"reference_prices"`
	CanDelete       bool      `json:"can_delete"`
}
