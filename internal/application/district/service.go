package district

import (
	"context"

	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages the administrative district hierarchy
type Service struct {
	districtRepo district.DistrictRepository
	retailerRepo retailer.RetailerRepository
	refPriceRepo pricing.ReferencePriceRepository
	logger       *zap.Logger
}

// NewService creates a new district service
func NewService(
	districtRepo district.DistrictRepository,
	retailerRepo retailer.RetailerRepository,
	refPriceRepo pricing.ReferencePriceRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		districtRepo: districtRepo,
		retailerRepo: retailerRepo,
		refPriceRepo: refPriceRepo,
		logger:       logger,
	}
}

// CreateDistrict creates a district, either top-level or under a parent
func (s *Service) CreateDistrict(ctx context.Context, input CreateDistrictInput) (*DistrictInfo, error) {
	taken, err := s.districtRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Failed to check district code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check district code")
	}
	if taken {
		return nil, shared.NewDomainError("CODE_TAKEN", "District code is already in use")
	}

	var d *district.District
	if input.ParentID == nil {
		d, err = district.NewDistrict(input.Code, input.Name)
	} else {
		var parent *district.District
		parent, err = s.districtRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent district not found")
		}
		d, err = district.NewChildDistrict(input.Code, input.Name, parent)
	}
	if err != nil {
		return nil, err
	}

	if err := s.districtRepo.Create(ctx, d); err != nil {
		s.logger.Error("Failed to create district", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create district")
	}

	s.logger.Info("District created",
		zap.String("code", d.Code),
		zap.Int("level", d.Level))

	info := NewDistrictInfo(d)
	return &info, nil
}

// GetDistrict retrieves a district by ID
func (s *Service) GetDistrict(ctx context.Context, id uuid.UUID) (*DistrictInfo, error) {
	d, err := s.districtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	info := NewDistrictInfo(d)
	return &info, nil
}

// GetDistrictByCode retrieves a district by its code
func (s *Service) GetDistrictByCode(ctx context.Context, code string) (*DistrictInfo, error) {
	d, err := s.districtRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	info := NewDistrictInfo(d)
	return &info, nil
}

// ListDistricts returns a page of districts matching the query
func (s *Service) ListDistricts(ctx context.Context, input ListDistrictsInput) (*ListDistrictsResult, error) {
	filter := district.NewDistrictFilter()
	filter.Keyword = input.Keyword
	filter.ParentID = input.ParentID
	filter.Level = input.Level
	filter.Status = input.Status
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

	districts, total, err := s.districtRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list districts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list districts")
	}

	infos := make([]DistrictInfo, 0, len(districts))
	for _, d := range districts {
		infos = append(infos, NewDistrictInfo(d))
	}

	return &ListDistrictsResult{
		Districts: infos,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

// GetTree returns the whole district hierarchy as nested nodes
func (s *Service) GetTree(ctx context.Context) ([]*TreeNode, error) {
	roots, err := s.districtRepo.FindRoots(ctx)
	if err != nil {
		s.logger.Error("Failed to load district roots", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load district tree")
	}

	tree := make([]*TreeNode, 0, len(roots))
	for _, root := range roots {
		node, err := s.GetSubtree(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		tree = append(tree, node)
	}
	return tree, nil
}

// GetSubtree returns a district and its descendants as a nested node
func (s *Service) GetSubtree(ctx context.Context, rootID uuid.UUID) (*TreeNode, error) {
	districts, err := s.districtRepo.FindSubtree(ctx, rootID)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	return buildTree(rootID, districts), nil
}

// buildTree assembles nested nodes from a flat subtree listing
func buildTree(rootID uuid.UUID, districts []*district.District) *TreeNode {
	nodes := make(map[uuid.UUID]*TreeNode, len(districts))
	for _, d := range districts {
		nodes[d.ID] = &TreeNode{
			DistrictInfo: NewDistrictInfo(d),
			Children:     []*TreeNode{},
		}
	}

	var root *TreeNode
	for _, d := range districts {
		node := nodes[d.ID]
		if d.ID == rootID {
			root = node
			continue
		}
		if d.ParentID != nil {
			if parent, ok := nodes[*d.ParentID]; ok {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	return root
}

// UpdateDistrict updates the name or code of a district
func (s *Service) UpdateDistrict(ctx context.Context, input UpdateDistrictInput) (*DistrictInfo, error) {
	d, err := s.districtRepo.FindByID(ctx, input.DistrictID)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	if input.Name != nil {
		if err := d.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Code != nil && *input.Code != d.Code {
		taken, err := s.districtRepo.ExistsByCode(ctx, *input.Code)
		if err != nil {
			s.logger.Error("Failed to check district code", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check district code")
		}
		if taken {
			return nil, shared.NewDomainError("CODE_TAKEN", "District code is already in use")
		}
		if err := d.UpdateCode(*input.Code); err != nil {
			return nil, err
		}
	}

	if err := s.districtRepo.Update(ctx, d); err != nil {
		s.logger.Error("Failed to update district", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update district")
	}

	info := NewDistrictInfo(d)
	return &info, nil
}

// MoveDistrict re-parents a district and rewrites descendant paths
func (s *Service) MoveDistrict(ctx context.Context, input MoveDistrictInput) (*DistrictInfo, error) {
	d, err := s.districtRepo.FindByID(ctx, input.DistrictID)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	parent, err := s.districtRepo.FindByID(ctx, input.NewParentID)
	if err != nil {
		return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent district not found")
	}

	oldPath := d.Path
	oldLevel := d.Level

	if err := d.MoveTo(parent); err != nil {
		return nil, err
	}

	if err := s.districtRepo.Update(ctx, d); err != nil {
		s.logger.Error("Failed to update moved district", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to move district")
	}

	// Descendants still carry the old prefix; the moved row itself was
	// already saved with the new path and is not matched again.
	if err := s.districtRepo.RewritePaths(ctx, oldPath, d.Path, d.Level-oldLevel); err != nil {
		s.logger.Error("Failed to rewrite descendant paths", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to move district subtree")
	}

	s.logger.Info("District moved",
		zap.String("district_id", d.ID.String()),
		zap.String("old_path", oldPath),
		zap.String("new_path", d.Path))

	info := NewDistrictInfo(d)
	return &info, nil
}

// ActivateDistrict activates a district
func (s *Service) ActivateDistrict(ctx context.Context, id uuid.UUID) (*DistrictInfo, error) {
	d, err := s.districtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	if err := d.Activate(); err != nil {
		return nil, err
	}

	if err := s.districtRepo.Update(ctx, d); err != nil {
		s.logger.Error("Failed to activate district", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate district")
	}

	info := NewDistrictInfo(d)
	return &info, nil
}

// DeactivateDistrict deactivates a district
func (s *Service) DeactivateDistrict(ctx context.Context, id uuid.UUID) (*DistrictInfo, error) {
	d, err := s.districtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	if err := d.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.districtRepo.Update(ctx, d); err != nil {
		s.logger.Error("Failed to deactivate district", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate district")
	}

	info := NewDistrictInfo(d)
	return &info, nil
}

// GetDeletionImpact reports what would block deleting a district
func (s *Service) GetDeletionImpact(ctx context.Context, id uuid.UUID) (*DeletionImpact, error) {
	if _, err := s.districtRepo.FindByID(ctx, id); err != nil {
		return nil, shared.NewDomainError("DISTRICT_NOT_FOUND", "District not found")
	}

	descendants, err := s.districtRepo.FindSubtree(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load district subtree", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assess deletion impact")
	}
	childCount := int64(len(descendants) - 1) // exclude the district itself

	retailerCount, err := s.retailerRepo.CountByDistrict(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count retailers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assess deletion impact")
	}

	priceCount, err := s.refPriceRepo.CountByDistrict(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count reference prices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assess deletion impact")
	}

	return &DeletionImpact{
		DistrictID:      id,
		ChildDistricts:  childCount,
		Retailers:       retailerCount,
		ReferencePrices: priceCount,
		CanDelete:       childCount == 0 && retailerCount == 0 && priceCount == 0,
	}, nil
}

// DeleteDistrict deletes a district that nothing references
func (s *Service) DeleteDistrict(ctx context.Context, id uuid.UUID) error {
	impact, err := s.GetDeletionImpact(ctx, id)
	if err != nil {
		return err
	}
	if !impact.CanDelete {
		return shared.NewDomainError("DISTRICT_IN_USE", "District has children, retailers, or reference prices and cannot be deleted")
	}

	if err := s.districtRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete district", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete district")
	}

	s.logger.Info("District deleted", zap.String("district_id", id.String()))

	return nil
}
