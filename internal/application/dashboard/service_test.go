package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPriceStats struct {
	pricing.PublishedPriceRepository
	stats *pricing.ComplianceStats
	since time.Time
}

func (s *stubPriceStats) Stats(ctx context.Context, since time.Time) (*pricing.ComplianceStats, error) {
	s.since = since
	return s.stats, nil
}

type stubAlertCounts struct {
	pricing.PriceAlertRepository
	counts map[pricing.AlertSeverity]int64
}

func (s *stubAlertCounts) CountSince(ctx context.Context, since time.Time) (map[pricing.AlertSeverity]int64, error) {
	return s.counts, nil
}

type stubComplaintStats struct {
	complaint.ComplaintRepository
	stats *complaint.Stats
}

func (s *stubComplaintStats) Stats(ctx context.Context) (*complaint.Stats, error) {
	return s.stats, nil
}

type stubUserCount struct {
	identity.UserRepository
	count int64
}

func (s *stubUserCount) Count(ctx context.Context) (int64, error) { return s.count, nil }

type stubSKUCount struct {
	catalog.SKURepository
	count int64
}

func (s *stubSKUCount) Count(ctx context.Context) (int64, error) { return s.count, nil }

func TestService_GetOverview(t *testing.T) {
	ctx := context.Background()

	violator := uuid.New()
	districtID := uuid.New()

	prices := &stubPriceStats{stats: &pricing.ComplianceStats{
		TotalPrices:     200,
		CompliantPrices: 180,
		ComplianceRate:  decimal.NewFromInt(90),
		BySeverity: map[pricing.ViolationSeverity]int64{
			pricing.SeverityModerate: 12,
			pricing.SeveritySevere:   8,
		},
		TopViolators: []pricing.RetailerViolationCount{
			{RetailerID: violator, Violations: 5},
		},
		DistrictBreakdown: []pricing.DistrictComplianceCount{
			{DistrictID: districtID, Total: 40, Compliant: 36},
		},
	}}
	alerts := &stubAlertCounts{counts: map[pricing.AlertSeverity]int64{
		pricing.AlertMedium:   12,
		pricing.AlertCritical: 8,
	}}
	complaints := &stubComplaintStats{stats: &complaint.Stats{
		Total: 31,
		ByStatus: map[complaint.ComplaintStatus]int64{
			complaint.StatusPending:  10,
			complaint.StatusResolved: 21,
		},
		AvgResolutionSeconds: 86400,
	}}

	svc := NewService(prices, alerts, complaints,
		&stubUserCount{count: 1200}, &stubSKUCount{count: 45}, zap.NewNop())

	overview, err := svc.GetOverview(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1200), overview.TotalUsers)
	assert.Equal(t, int64(45), overview.TotalSKUs)
	assert.Equal(t, int64(20), overview.TotalAlerts)
	assert.True(t, overview.Compliance.ComplianceRate.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, int64(21), overview.Complaints.ByStatus[complaint.StatusResolved])

	require.Len(t, overview.TopViolators, 1)
	assert.Equal(t, violator, overview.TopViolators[0].RetailerID)

	require.Len(t, overview.DistrictStats, 1)
	assert.Equal(t, int64(36), overview.DistrictStats[0].Compliant)

	// the trailing window covers the last seven days
	window := overview.GeneratedAt.Sub(prices.since)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), window.Seconds(), 1)
}
