package identity

import (
	"time"

	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the input for public signup
type RegisterInput struct {
	Username   string
	Password   string
	Email      string
	Phone      string
	FullName   string
	Role       identity.Role // Only farmer and retailer may self-register
	DistrictID *uuid.UUID
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned to clients
type UserInfo struct {
	ID         uuid.UUID
	Username   string
	Email      string
	Phone      string
	FullName   string
	Role       identity.Role
	DistrictID *uuid.UUID
	IsVerified bool
	Status     identity.UserStatus
	CreatedAt  time.Time
}

// NewUserInfo maps a user aggregate to the transport representation
func NewUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Phone:      user.Phone,
		FullName:   user.GetFullNameOrUsername(),
		Role:       user.Role,
		DistrictID: user.DistrictID,
		IsVerified: user.IsVerified,
		Status:     user.Status,
		CreatedAt:  user.CreatedAt,
	}
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string        // Access token JWT ID, revoked until the token expires
	TokenTTL time.Duration // Remaining lifetime of the access token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserInput contains the input for an admin-created account
type CreateUserInput struct {
	Username   string
	Password   string
	Email      string
	Phone      string
	FullName   string
	Role       identity.Role
	DistrictID *uuid.UUID
}

// UpdateUserInput contains the mutable profile fields
type UpdateUserInput struct {
	UserID   uuid.UUID
	Email    *string
	Phone    *string
	FullName *string
}

// ChangeRoleInput contains the input for a role change
type ChangeRoleInput struct {
	UserID     uuid.UUID
	Role       identity.Role
	DistrictID *uuid.UUID // Required scope for district officers
}

// ListUsersInput contains query options for listing users
type ListUsersInput struct {
	Keyword    string
	Status     *identity.UserStatus
	Role       *identity.Role
	DistrictID *uuid.UUID
	IsVerified *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// ListUsersResult contains a page of users
type ListUsersResult struct {
	Users    []UserInfo
	Total    int64
	Page     int
	PageSize int
}
