package catalog

import (
	"context"
	"testing"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSKURepository is a mock implementation of catalog.SKURepository
type MockSKURepository struct {
	mock.Mock
}

func (m *MockSKURepository) Create(ctx context.Context, sku *catalog.SKU) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

func (m *MockSKURepository) Update(ctx context.Context, sku *catalog.SKU) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

func (m *MockSKURepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSKURepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SKU, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindByCode(ctx context.Context, code string) (*catalog.SKU, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.SKU, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindAll(ctx context.Context, filter catalog.SKUFilter) ([]*catalog.SKU, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.SKU), args.Get(1).(int64), args.Error(2)
}

func (m *MockSKURepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSKURepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ catalog.SKURepository = (*MockSKURepository)(nil)

func mustSKU(t *testing.T, code string) *catalog.SKU {
	t.Helper()
	sku, err := catalog.NewSKU(code, "DAP 18-46-0", "GreenGrow Ltd", decimal.NewFromInt(50))
	require.NoError(t, err)
	return sku
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestService_CreateSKU(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a SKU with normalized code", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("ExistsByCode", ctx, "dap-50").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*catalog.SKU")).Return(nil)

		info, err := svc.CreateSKU(ctx, CreateSKUInput{
			Code:         "dap-50",
			Name:         "DAP 18-46-0",
			Manufacturer: "GreenGrow Ltd",
			PackSizeKg:   decimal.NewFromInt(50),
			Composition:  "N:P:K 18:46:0",
		})

		require.NoError(t, err)
		assert.Equal(t, "DAP-50", info.Code)
		assert.Equal(t, catalog.SKUStatusActive, info.Status)
		assert.Equal(t, "N:P:K 18:46:0", info.Composition)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("ExistsByCode", ctx, "DAP-50").Return(true, nil)

		_, err := svc.CreateSKU(ctx, CreateSKUInput{
			Code:         "DAP-50",
			Name:         "DAP 18-46-0",
			Manufacturer: "GreenGrow Ltd",
			PackSizeKg:   decimal.NewFromInt(50),
		})

		assertDomainErrorCode(t, err, "CODE_TAKEN")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a non-positive pack size", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("ExistsByCode", ctx, "UREA-45").Return(false, nil)

		_, err := svc.CreateSKU(ctx, CreateSKUInput{
			Code:         "UREA-45",
			Name:         "Urea",
			Manufacturer: "GreenGrow Ltd",
			PackSizeKg:   decimal.Zero,
		})

		assertDomainErrorCode(t, err, "INVALID_PACK_SIZE")
	})
}

func TestService_UpdateSKU(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the provided fields", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		sku := mustSKU(t, "DAP-50")
		repo.On("FindByID", ctx, sku.ID).Return(sku, nil)
		repo.On("Update", ctx, sku).Return(nil)

		newName := "DAP Premium 18-46-0"
		info, err := svc.UpdateSKU(ctx, UpdateSKUInput{
			SKUID: sku.ID,
			Name:  &newName,
		})

		require.NoError(t, err)
		assert.Equal(t, newName, info.Name)
		assert.Equal(t, "GreenGrow Ltd", info.Manufacturer)
	})

	t.Run("changes pack size", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		sku := mustSKU(t, "DAP-50")
		repo.On("FindByID", ctx, sku.ID).Return(sku, nil)
		repo.On("Update", ctx, sku).Return(nil)

		size := decimal.NewFromInt(25)
		info, err := svc.UpdateSKU(ctx, UpdateSKUInput{
			SKUID:      sku.ID,
			PackSizeKg: &size,
		})

		require.NoError(t, err)
		assert.True(t, info.PackSizeKg.Equal(size))
	})

	t.Run("returns not found for an unknown SKU", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.UpdateSKU(ctx, UpdateSKUInput{SKUID: id})

		assertDomainErrorCode(t, err, "SKU_NOT_FOUND")
	})
}

func TestService_StatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate then reactivate", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		sku := mustSKU(t, "DAP-50")
		repo.On("FindByID", ctx, sku.ID).Return(sku, nil)
		repo.On("Update", ctx, sku).Return(nil)

		info, err := svc.DeactivateSKU(ctx, sku.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.SKUStatusInactive, info.Status)

		info, err = svc.ActivateSKU(ctx, sku.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.SKUStatusActive, info.Status)
	})

	t.Run("discontinued SKU cannot come back", func(t *testing.T) {
		repo := new(MockSKURepository)
		svc := NewService(repo, zap.NewNop())

		sku := mustSKU(t, "DAP-50")
		repo.On("FindByID", ctx, sku.ID).Return(sku, nil)
		repo.On("Update", ctx, sku).Return(nil)

		_, err := svc.DiscontinueSKU(ctx, sku.ID)
		require.NoError(t, err)

		_, err = svc.ActivateSKU(ctx, sku.ID)
		assertDomainErrorCode(t, err, "DISCONTINUED")
	})
}

func TestService_ListSKUs(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSKURepository)
	svc := NewService(repo, zap.NewNop())

	skus := []*catalog.SKU{mustSKU(t, "DAP-50"), mustSKU(t, "UREA-45")}
	repo.On("FindAll", ctx, mock.MatchedBy(func(f catalog.SKUFilter) bool {
		return f.Keyword == "dap" && f.Page == 2 && f.PageSize == 10
	})).Return(skus, int64(12), nil)

	result, err := svc.ListSKUs(ctx, ListSKUsInput{Keyword: "dap", Page: 2, PageSize: 10})

	require.NoError(t, err)
	assert.Len(t, result.SKUs, 2)
	assert.Equal(t, int64(12), result.Total)
	assert.Equal(t, 2, result.Page)
}
