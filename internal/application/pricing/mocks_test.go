package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/district"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/retailer"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReferencePriceRepository is a mock implementation of pricing.ReferencePriceRepository
type MockReferencePriceRepository struct {
	mock.Mock
}

func (m *MockReferencePriceRepository) Create(ctx context.Context, rp *pricing.ReferencePrice) error {
	args := m.Called(ctx, rp)
	return args.Error(0)
}

func (m *MockReferencePriceRepository) Update(ctx context.Context, rp *pricing.ReferencePrice) error {
	args := m.Called(ctx, rp)
	return args.Error(0)
}

func (m *MockReferencePriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReferencePriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.ReferencePrice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ReferencePrice), args.Error(1)
}

func (m *MockReferencePriceRepository) FindAll(ctx context.Context, filter pricing.ReferencePriceFilter) ([]*pricing.ReferencePrice, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pricing.ReferencePrice), args.Get(1).(int64), args.Error(2)
}

func (m *MockReferencePriceRepository) FindApplicable(ctx context.Context, skuID uuid.UUID, districtIDs []uuid.UUID, date time.Time) (*pricing.ReferencePrice, error) {
	args := m.Called(ctx, skuID, districtIDs, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ReferencePrice), args.Error(1)
}

func (m *MockReferencePriceRepository) FindOverlapping(ctx context.Context, skuID uuid.UUID, districtID *uuid.UUID, from time.Time, until *time.Time, excludeID *uuid.UUID) ([]*pricing.ReferencePrice, error) {
	args := m.Called(ctx, skuID, districtID, from, until, excludeID)
	return args.Get(0).([]*pricing.ReferencePrice), args.Error(1)
}

func (m *MockReferencePriceRepository) CountByDistrict(ctx context.Context, districtID uuid.UUID) (int64, error) {
	args := m.Called(ctx, districtID)
	return args.Get(0).(int64), args.Error(1)
}

var _ pricing.ReferencePriceRepository = (*MockReferencePriceRepository)(nil)

// MockPublishedPriceRepository is a mock implementation of pricing.PublishedPriceRepository
type MockPublishedPriceRepository struct {
	mock.Mock
}

func (m *MockPublishedPriceRepository) Create(ctx context.Context, pp *pricing.PublishedPrice) error {
	args := m.Called(ctx, pp)
	return args.Error(0)
}

func (m *MockPublishedPriceRepository) Update(ctx context.Context, pp *pricing.PublishedPrice) error {
	args := m.Called(ctx, pp)
	return args.Error(0)
}

func (m *MockPublishedPriceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPublishedPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PublishedPrice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PublishedPrice), args.Error(1)
}

func (m *MockPublishedPriceRepository) FindAll(ctx context.Context, filter pricing.PublishedPriceFilter) ([]*pricing.PublishedPrice, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pricing.PublishedPrice), args.Get(1).(int64), args.Error(2)
}

func (m *MockPublishedPriceRepository) FindCurrentByRetailerAndSKU(ctx context.Context, retailerID, skuID uuid.UUID) (*pricing.PublishedPrice, error) {
	args := m.Called(ctx, retailerID, skuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PublishedPrice), args.Error(1)
}

func (m *MockPublishedPriceRepository) FindCheapestCompliant(ctx context.Context, skuID, districtID uuid.UUID, limit int) ([]*pricing.PublishedPrice, error) {
	args := m.Called(ctx, skuID, districtID, limit)
	return args.Get(0).([]*pricing.PublishedPrice), args.Error(1)
}

func (m *MockPublishedPriceRepository) Stats(ctx context.Context, since time.Time) (*pricing.ComplianceStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ComplianceStats), args.Error(1)
}

var _ pricing.PublishedPriceRepository = (*MockPublishedPriceRepository)(nil)

// MockPriceAlertRepository is a mock implementation of pricing.PriceAlertRepository
type MockPriceAlertRepository struct {
	mock.Mock
}

func (m *MockPriceAlertRepository) Create(ctx context.Context, alert *pricing.PriceAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockPriceAlertRepository) Update(ctx context.Context, alert *pricing.PriceAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockPriceAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PriceAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PriceAlert), args.Error(1)
}

func (m *MockPriceAlertRepository) FindAll(ctx context.Context, filter pricing.AlertFilter) ([]*pricing.PriceAlert, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pricing.PriceAlert), args.Get(1).(int64), args.Error(2)
}

func (m *MockPriceAlertRepository) CountSince(ctx context.Context, since time.Time) (map[pricing.AlertSeverity]int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(map[pricing.AlertSeverity]int64), args.Error(1)
}

var _ pricing.PriceAlertRepository = (*MockPriceAlertRepository)(nil)

// MockPriceAuditRepository is a mock implementation of pricing.PriceAuditRepository
type MockPriceAuditRepository struct {
	mock.Mock
}

func (m *MockPriceAuditRepository) Create(ctx context.Context, audit *pricing.PriceAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockPriceAuditRepository) FindAll(ctx context.Context, filter pricing.AuditFilter) ([]*pricing.PriceAudit, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*pricing.PriceAudit), args.Get(1).(int64), args.Error(2)
}

var _ pricing.PriceAuditRepository = (*MockPriceAuditRepository)(nil)

// stubRetailerFinder satisfies retailer.RetailerRepository for profile lookups
type stubRetailerFinder struct {
	retailer.RetailerRepository
	byUser map[uuid.UUID]*retailer.Retailer
}

func (s *stubRetailerFinder) FindByUserID(ctx context.Context, userID uuid.UUID) (*retailer.Retailer, error) {
	if r, ok := s.byUser[userID]; ok {
		return r, nil
	}
	return nil, shared.ErrNotFound
}

// stubSKUFinder satisfies catalog.SKURepository for SKU lookups
type stubSKUFinder struct {
	catalog.SKURepository
	skus map[uuid.UUID]*catalog.SKU
}

func (s *stubSKUFinder) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SKU, error) {
	if sku, ok := s.skus[id]; ok {
		return sku, nil
	}
	return nil, shared.ErrNotFound
}

// stubDistrictFinder satisfies district.DistrictRepository for chain lookups
type stubDistrictFinder struct {
	district.DistrictRepository
	known map[uuid.UUID]*district.District
}

func (s *stubDistrictFinder) FindByID(ctx context.Context, id uuid.UUID) (*district.District, error) {
	if d, ok := s.known[id]; ok {
		return d, nil
	}
	return nil, shared.ErrNotFound
}

// recordingPublisher captures published domain events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func mustEval(t *testing.T, price, reference decimal.Decimal) pricing.Evaluation {
	t.Helper()
	eval, err := pricing.Evaluate(price, reference)
	require.NoError(t, err)
	return eval
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
