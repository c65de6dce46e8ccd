package catalog

import (
	"context"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages the governed fertilizer SKU catalog
type Service struct {
	skuRepo catalog.SKURepository
	logger  *zap.Logger
}

// NewService creates a new catalog service
func NewService(skuRepo catalog.SKURepository, logger *zap.Logger) *Service {
	return &Service{
		skuRepo: skuRepo,
		logger:  logger,
	}
}

// CreateSKU registers a new fertilizer SKU in the catalog
func (s *Service) CreateSKU(ctx context.Context, input CreateSKUInput) (*SKUInfo, error) {
	taken, err := s.skuRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Failed to check SKU code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check SKU code")
	}
	if taken {
		return nil, shared.NewDomainError("CODE_TAKEN", "SKU code is already in use")
	}

	sku, err := catalog.NewSKU(input.Code, input.Name, input.Manufacturer, input.PackSizeKg)
	if err != nil {
		return nil, err
	}
	sku.Composition = input.Composition
	sku.Description = input.Description

	if err := s.skuRepo.Create(ctx, sku); err != nil {
		s.logger.Error("Failed to create SKU", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create SKU")
	}

	s.logger.Info("SKU created",
		zap.String("code", sku.Code),
		zap.String("manufacturer", sku.Manufacturer))

	info := NewSKUInfo(sku)
	return &info, nil
}

// GetSKU retrieves a SKU by ID
func (s *Service) GetSKU(ctx context.Context, id uuid.UUID) (*SKUInfo, error) {
	sku, err := s.skuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}

	info := NewSKUInfo(sku)
	return &info, nil
}

// GetSKUByCode retrieves a SKU by its catalog code
func (s *Service) GetSKUByCode(ctx context.Context, code string) (*SKUInfo, error) {
	sku, err := s.skuRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}

	info := NewSKUInfo(sku)
	return &info, nil
}

// ListSKUs returns a page of SKUs matching the query
func (s *Service) ListSKUs(ctx context.Context, input ListSKUsInput) (*ListSKUsResult, error) {
	filter := catalog.NewSKUFilter()
	filter.Keyword = input.Keyword
	filter.Manufacturer = input.Manufacturer
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

	skus, total, err := s.skuRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list SKUs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list SKUs")
	}

	infos := make([]SKUInfo, 0, len(skus))
	for _, sku := range skus {
		infos = append(infos, NewSKUInfo(sku))
	}

	return &ListSKUsResult{
		SKUs:     infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UpdateSKU updates the mutable fields of a SKU
func (s *Service) UpdateSKU(ctx context.Context, input UpdateSKUInput) (*SKUInfo, error) {
	sku, err := s.skuRepo.FindByID(ctx, input.SKUID)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}

	name := sku.Name
	if input.Name != nil {
		name = *input.Name
	}
	manufacturer := sku.Manufacturer
	if input.Manufacturer != nil {
		manufacturer = *input.Manufacturer
	}
	composition := sku.Composition
	if input.Composition != nil {
		composition = *input.Composition
	}
	description := sku.Description
	if input.Description != nil {
		description = *input.Description
	}

	if err := sku.Update(name, manufacturer, composition, description); err != nil {
		return nil, err
	}

	if input.PackSizeKg != nil {
		if err := sku.UpdatePackSize(*input.PackSizeKg); err != nil {
			return nil, err
		}
	}

	if err := s.skuRepo.Update(ctx, sku); err != nil {
		s.logger.Error("Failed to update SKU", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update SKU")
	}

	info := NewSKUInfo(sku)
	return &info, nil
}

// ActivateSKU reactivates an inactive SKU
func (s *Service) ActivateSKU(ctx context.Context, id uuid.UUID) (*SKUInfo, error) {
	return s.changeStatus(ctx, id, (*catalog.SKU).Activate)
}

// DeactivateSKU takes an active SKU off the catalog temporarily
func (s *Service) DeactivateSKU(ctx context.Context, id uuid.UUID) (*SKUInfo, error) {
	return s.changeStatus(ctx, id, (*catalog.SKU).Deactivate)
}

// DiscontinueSKU permanently retires a SKU
func (s *Service) DiscontinueSKU(ctx context.Context, id uuid.UUID) (*SKUInfo, error) {
	return s.changeStatus(ctx, id, (*catalog.SKU).Discontinue)
}

func (s *Service) changeStatus(ctx context.Context, id uuid.UUID, change func(*catalog.SKU) error) (*SKUInfo, error) {
	sku, err := s.skuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("SKU_NOT_FOUND", "SKU not found")
	}

	if err := change(sku); err != nil {
		return nil, err
	}

	if err := s.skuRepo.Update(ctx, sku); err != nil {
		s.logger.Error("Failed to update SKU status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update SKU status")
	}

	s.logger.Info("SKU status changed",
		zap.String("sku_id", sku.ID.String()),
		zap.String("status", string(sku.Status)))

	info := NewSKUInfo(sku)
	return &info, nil
}
