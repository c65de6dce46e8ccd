package complaint

import (
	"net/url"
	"strings"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Evidence is a metadata row pointing at externally hosted evidence.
// The service stores URLs and captions only, never file contents.
type Evidence struct {
	shared.BaseEntity
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL         string    `gorm:"type:varchar(500);not null"`
	Caption     string    `gorm:"type:varchar(200)"`
	AddedBy     uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Evidence) TableName() string {
	return "complaint_evidence"
}

// NewEvidence attaches an evidence URL to a complaint
func NewEvidence(complaintID uuid.UUID, rawURL, caption string, addedBy uuid.UUID) (*Evidence, error) {
	if complaintID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPLAINT", "Complaint ID is required")
	}
	if addedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Adding user is required")
	}
	if len(rawURL) > 500 {
		return nil, shared.NewDomainError("INVALID_URL", "Evidence URL is too long")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, shared.NewDomainError("INVALID_URL", "Evidence URL must be a valid http(s) URL")
	}

	return &Evidence{
		BaseEntity:  shared.NewBaseEntity(),
		ComplaintID: complaintID,
		URL:         rawURL,
		Caption:     strings.TrimSpace(caption),
		AddedBy:     addedBy,
	}, nil
}
