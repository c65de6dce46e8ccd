package retailer

import (
	"context"

	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages retailer profiles and license verification
type Service struct {
	retailerRepo retailer.RetailerRepository
	userRepo     identity.UserRepository
	districtRepo district.DistrictRepository
	logger       *zap.Logger
}

// NewService creates a new retailer service
func NewService(
	retailerRepo retailer.RetailerRepository,
	userRepo identity.UserRepository,
	districtRepo district.DistrictRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		retailerRepo: retailerRepo,
		userRepo:     userRepo,
		districtRepo: districtRepo,
		logger:       logger,
	}
}

// RegisterRetailer creates a retailer profile for a user account
func (s *Service) RegisterRetailer(ctx context.Context, input RegisterRetailerInput) (*RetailerInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User account not found")
	}
	if user.Role != identity.RoleRetailer {
		return nil, shared.NewDomainError("NOT_A_RETAILER", "Only retailer accounts can register a retailer profile")
	}

	exists, err := s.retailerRepo.ExistsByUserID(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to check retailer profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check retailer profile")
	}
	if exists {
		return nil, shared.NewDomainError("PROFILE_EXISTS", "User already has a retailer profile")
	}

	licenseTaken, err := s.retailerRepo.ExistsByLicenseNo(ctx, input.LicenseNo)
	if err != nil {
		s.logger.Error("Failed to check license number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check license number")
	}
	if licenseTaken {
		return nil, shared.NewDomainError("LICENSE_TAKEN", "License number is already registered")
	}

	if _, err := s.districtRepo.FindByID(ctx, input.DistrictID); err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	r, err := retailer.NewRetailer(input.UserID, input.DistrictID, input.BusinessName, input.LicenseNo)
	if err != nil {
		return nil, err
	}
	r.Address = input.Address

	if err := s.retailerRepo.Create(ctx, r); err != nil {
		s.logger.Error("Failed to create retailer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create retailer profile")
	}

	s.logger.Info("Retailer registered",
		zap.String("retailer_id", r.ID.String()),
		zap.String("license_no", r.LicenseNo),
		zap.String("district_id", r.DistrictID.String()))

	info := NewRetailerInfo(r)
	return &info, nil
}

// GetRetailer retrieves a retailer by ID
func (s *Service) GetRetailer(ctx context.Context, id uuid.UUID) (*RetailerInfo, error) {
	r, err := s.retailerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer not found")
	}

	info := NewRetailerInfo(r)
	return &info, nil
}

// GetRetailerByUser retrieves the retailer profile attached to a user account
func (s *Service) GetRetailerByUser(ctx context.Context, userID uuid.UUID) (*RetailerInfo, error) {
	r, err := s.retailerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer profile not found")
	}

	info := NewRetailerInfo(r)
	return &info, nil
}

// ListRetailers returns a page of retailers matching the query
func (s *Service) ListRetailers(ctx context.Context, input ListRetailersInput) (*ListRetailersResult, error) {
	filter := retailer.NewRetailerFilter()
	filter.Keyword = input.Keyword
	filter.DistrictID = input.DistrictID
	filter.Verification = input.Verification
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	retailers, total, err := s.retailerRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list retailers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list retailers")
	}

	infos := make([]RetailerInfo, 0, len(retailers))
	for _, r := range retailers {
		infos = append(infos, NewRetailerInfo(r))
	}

	return &ListRetailersResult{
		Retailers: infos,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

// UpdateRetailer updates a retailer's own profile details. The acting user
// must be the owner of the profile.
func (s *Service) UpdateRetailer(ctx context.Context, input UpdateRetailerInput) (*RetailerInfo, error) {
	r, err := s.retailerRepo.FindByID(ctx, input.RetailerID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer not found")
	}
	if r.UserID != input.ActorID {
		return nil, shared.ErrForbidden
	}

	businessName := r.BusinessName
	if input.BusinessName != nil {
		businessName = *input.BusinessName
	}
	address := r.Address
	if input.Address != nil {
		address = *input.Address
	}
	if err := r.Update(businessName, address); err != nil {
		return nil, err
	}

	if input.Latitude != nil && input.Longitude != nil {
		if err := r.SetLocation(*input.Latitude, *input.Longitude); err != nil {
			return nil, err
		}
	}

	if err := s.retailerRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to update retailer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update retailer")
	}

	info := NewRetailerInfo(r)
	return &info, nil
}

// MoveRetailer reassigns a retailer to another district
func (s *Service) MoveRetailer(ctx context.Context, retailerID, districtID uuid.UUID) (*RetailerInfo, error) {
	r, err := s.retailerRepo.FindByID(ctx, retailerID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer not found")
	}

	if _, err := s.districtRepo.FindByID(ctx, districtID); err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	if err := r.MoveToDistrict(districtID); err != nil {
		return nil, err
	}

	if err := s.retailerRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to move retailer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to move retailer")
	}

	info := NewRetailerInfo(r)
	return &info, nil
}

// VerifyRetailer marks a retailer license as verified.
// A suspended retailer is reinstated by verifying again.
func (s *Service) VerifyRetailer(ctx context.Context, retailerID, verifiedBy uuid.UUID) (*RetailerInfo, error) {
	r, err := s.retailerRepo.FindByID(ctx, retailerID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer not found")
	}

	if err := r.Verify(verifiedBy); err != nil {
		return nil, err
	}

	if err := s.retailerRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to verify retailer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify retailer")
	}

	s.logger.Info("Retailer verified",
		zap.String("retailer_id", r.ID.String()),
		zap.String("verified_by", verifiedBy.String()))

	info := NewRetailerInfo(r)
	return &info, nil
}

// SuspendRetailer suspends a retailer, blocking further price publication
func (s *Service) SuspendRetailer(ctx context.Context, input SuspendRetailerInput) (*RetailerInfo, error) {
	r, err := s.retailerRepo.FindByID(ctx, input.RetailerID)
	if err != nil {
		return nil, shared.NewDomainError("RETAILER_NOT_FOUND", "Retailer not found")
	}

	if err := r.Suspend(input.Reason); err != nil {
		return nil, err
	}

	if err := s.retailerRepo.Update(ctx, r); err != nil {
		s.logger.Error("Failed to suspend retailer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to suspend retailer")
	}

	s.logger.Warn("Retailer suspended",
		zap.String("retailer_id", r.ID.String()),
		zap.String("reason", input.Reason))

	info := NewRetailerInfo(r)
	return &info, nil
}
