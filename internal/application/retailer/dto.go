package retailer

import (
	"time"

	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/google/uuid"
)

// RegisterRetailerInput contains the data to create a retailer profile
type RegisterRetailerInput struct {
	UserID       uuid.UUID `json:"-"`
	DistrictID   uuid.UUID `json:"district_id" binding:"required"`
	BusinessName string    `json:"business_name" binding:"required,max=200"`
	LicenseNo    string    `json:"license_no" binding:"required,min=5,max=50"`
	Address      string    `json:"address"`
}

// UpdateRetailerInput contains the profile fields a retailer may change.
// ActorID is the authenticated user and must own the profile.
type UpdateRetailerInput struct {
	RetailerID   uuid.UUID `json:"-"`
	ActorID      uuid.UUID `json:"-"`
	BusinessName *string   `json:"business_name" binding:"omitempty,max=200"`
	Address      *string   `json:"address"`
	Latitude     *float64  `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude    *float64  `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// ListRetailersInput contains query parameters for listing retailers
type ListRetailersInput struct {
	Keyword      string                       `form:"keyword"`
	DistrictID   *uuid.UUID                   `form:"district_id"`
	Verification *retailer.VerificationStatus `form:"verification"`
	Page         int                          `form:"page"`
	PageSize     int                          `form:"page_size"`
	SortBy       string                       `form:"sort_by"`
	SortOrder    string                       `form:"sort_order"`
}

// SuspendRetailerInput contains the data to suspend a retailer
type SuspendRetailerInput struct {
	RetailerID uuid.UUID `json:"-"`
	Reason     string    `json:"reason" binding:"required"`
}

// RetailerInfo is the retailer representation returned to clients
type RetailerInfo struct {
	ID              uuid.UUID                   `json:"id"`
	UserID          uuid.UUID                   `json:"user_id"`
	DistrictID      uuid.UUID                   `json:"district_id"`
	BusinessName    string                      `json:"business_name"`
	LicenseNo       string                      `json:"license_no"`
	Address         string                      `json:"address,omitempty"`
	Latitude        *float64                    `json:"latitude,omitempty"`
	Longitude       *float64                    `json:"longitude,omitempty"`
	Verification    retailer.VerificationStatus `json:"verification"`
	VerifiedAt      *time.Time                  `json:"verified_at,omitempty"`
	SuspendedReason string                      `json:"suspended_reason,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
}

// NewRetailerInfo maps a retailer aggregate to its client representation
func NewRetailerInfo(r *retailer.Retailer) RetailerInfo {
	return RetailerInfo{
		ID:              r.ID,
		UserID:          r.UserID,
		DistrictID:      r.DistrictID,
		BusinessName:    r.BusinessName,
		LicenseNo:       r.LicenseNo,
		Address:         r.Address,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Verification:    r.Verification,
		VerifiedAt:      r.VerifiedAt,
		SuspendedReason: r.SuspendedReason,
		CreatedAt:       r.CreatedAt,
	}
}

// ListRetailersResult is a page of retailers
type ListRetailersResult struct {
	Retailers []RetailerInfo `json:"retailers"`
	Total     int64          `json:"total"`
	Page      int            `json:"page"`
	PageSize  int            `json:"page_size"`
}
