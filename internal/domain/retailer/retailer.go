package retailer

import (
	"regexp"
	"strings"
	"time"

	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VerificationStatus represents the license verification state of a retailer
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationVerified  VerificationStatus = "verified"
	VerificationSuspended VerificationStatus = "suspended"
)

// Retailer represents a licensed fertilizer retailer.
// Each retailer profile belongs to exactly one user account and one district.
type Retailer struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex"`
	DistrictID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	BusinessName string             `gorm:"type:varchar(200);not null"`
	LicenseNo    string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Address      string             `gorm:"type:text"`
	Latitude     *float64           `gorm:"type:decimal(9,6)"`
	Longitude    *float64           `gorm:"type:decimal(9,6)"`
	Verification VerificationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	VerifiedBy   *uuid.UUID         `gorm:"type:uuid"`
	VerifiedAt   *time.Time
	SuspendedReason string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Retailer) TableName() string {
	return "retailers"
}

// NewRetailer creates a new retailer profile
func NewRetailer(userID, districtID uuid.UUID, businessName, licenseNo string) (*Retailer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if districtID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISTRICT", "District ID is required")
	}
	if err := validateBusinessName(businessName); err != nil {
		return nil, err
	}
	if err := validateLicenseNo(licenseNo); err != nil {
		return nil, err
	}

	r := &Retailer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		DistrictID:        districtID,
		BusinessName:      strings.TrimSpace(businessName),
		LicenseNo:         strings.ToUpper(strings.TrimSpace(licenseNo)),
		Verification:      VerificationPending,
	}

	r.AddDomainEvent(NewRetailerRegisteredEvent(r))

	return r, nil
}

// Update updates the retailer's profile details
func (r *Retailer) Update(businessName, address string) error {
	if err := validateBusinessName(businessName); err != nil {
		return err
	}

	r.BusinessName = strings.TrimSpace(businessName)
	r.Address = address
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetLocation sets the retailer's geographic coordinates
func (r *Retailer) SetLocation(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return shared.NewDomainError("INVALID_LOCATION", "Latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return shared.NewDomainError("INVALID_LOCATION", "Longitude must be between -180 and 180")
	}

	r.Latitude = &latitude
	r.Longitude = &longitude
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// MoveToDistrict reassigns the retailer to another district
func (r *Retailer) MoveToDistrict(districtID uuid.UUID) error {
	if districtID == uuid.Nil {
		return shared.NewDomainError("INVALID_DISTRICT", "District ID is required")
	}
	if districtID == r.DistrictID {
		return shared.NewDomainError("DISTRICT_UNCHANGED", "Retailer is already in this district")
	}

	r.DistrictID = districtID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Verify marks the retailer license as verified by an administrator
func (r *Retailer) Verify(verifiedBy uuid.UUID) error {
	if r.Verification == VerificationVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Retailer is already verified")
	}

	now := time.Now()
	r.Verification = VerificationVerified
	r.VerifiedBy = &verifiedBy
	r.VerifiedAt = &now
	r.SuspendedReason = ""
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRetailerVerifiedEvent(r))

	return nil
}

// Suspend suspends the retailer, blocking further price publication
func (r *Retailer) Suspend(reason string) error {
	if r.Verification == VerificationSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Retailer is already suspended")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Suspension reason is required")
	}

	r.Verification = VerificationSuspended
	r.SuspendedReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRetailerSuspendedEvent(r, reason))

	return nil
}

// IsVerified returns true if the retailer license is verified
func (r *Retailer) IsVerified() bool {
	return r.Verification == VerificationVerified
}

// IsSuspended returns true if the retailer is suspended
func (r *Retailer) IsSuspended() bool {
	return r.Verification == VerificationSuspended
}

// CanPublishPrices returns true if the retailer may publish prices
func (r *Retailer) CanPublishPrices() bool {
	return r.Verification == VerificationVerified
}

func validateBusinessName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
	}
	return nil
}

var licenseNoRegex = regexp.MustCompile(`^[A-Za-z0-9\-/]+$`)

func validateLicenseNo(licenseNo string) error {
	licenseNo = strings.TrimSpace(licenseNo)
	if licenseNo == "" {
		return shared.NewDomainError("INVALID_LICENSE", "License number cannot be empty")
	}
	if len(licenseNo) < 5 || len(licenseNo) > 50 {
		return shared.NewDomainError("INVALID_LICENSE", "License number must be between 5 and 50 characters")
	}
	if !licenseNoRegex.MatchString(licenseNo) {
		return shared.NewDomainError("INVALID_LICENSE", "License number can only contain letters, numbers, hyphens, and slashes")
	}
	return nil
}
