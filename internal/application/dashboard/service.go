package dashboard

import (
	"context"
	"time"

	"github.com/fertigov/backend/internal/domain/catalog"
	"github.com/fertigov/backend/internal/domain/complaint"
	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// alertWindow is how far back the dashboard looks for alerts and compliance
const alertWindow = 7 * 24 * time.Hour

// Overview is the admin dashboard payload
type Overview struct {
	GeneratedAt    time.Time                           `json:"generated_at"`
	WindowStart    time.Time                           `json:"window_start"`
	TotalUsers     int64                               `json:"total_users"`
	TotalSKUs      int64                               `json:"total_skus"`
	Compliance     ComplianceOverview                  `json:"compliance"`
	AlertsBySev    map[pricing.AlertSeverity]int64     `json:"alerts_by_severity"`
	TotalAlerts    int64                               `json:"total_alerts"`
	Complaints     ComplaintOverview                   `json:"complaints"`
	TopViolators   []ViolatorEntry                     `json:"top_violators"`
	DistrictStats  []DistrictEntry                     `json:"district_compliance"`
}

// ComplianceOverview summarises published-price compliance in the window
type ComplianceOverview struct {
	TotalPrices     int64                               `json:"total_prices"`
	CompliantPrices int64                               `json:"compliant_prices"`
	ComplianceRate  decimal.Decimal                     `json:"compliance_rate"`
	BySeverity      map[pricing.ViolationSeverity]int64 `json:"by_severity"`
}

// ComplaintOverview summarises complaint workload
type ComplaintOverview struct {
	Total                int64                                    `json:"total"`
	ByStatus             map[complaint.ComplaintStatus]int64      `json:"by_status"`
	ByPriority           map[complaint.ComplaintPriority]int64    `json:"by_priority"`
	AvgResolutionSeconds float64                                  `json:"avg_resolution_seconds"`
}

// ViolatorEntry is a retailer ranked by violation count
type ViolatorEntry struct {
	RetailerID uuid.UUID `json:"retailer_id"`
	Violations int64     `json:"violations"`
}

// DistrictEntry summarises compliance within one district
type DistrictEntry struct {
	DistrictID uuid.UUID `json:"district_id"`
	Total      int64     `json:"total"`
	Compliant  int64     `json:"compliant"`
}

// Service assembles the admin dashboard from the pricing, alert, complaint,
// and catalog aggregates.
type Service struct {
	pubPriceRepo  pricing.PublishedPriceRepository
	alertRepo     pricing.PriceAlertRepository
	complaintRepo complaint.ComplaintRepository
	userRepo      identity.UserRepository
	skuRepo       catalog.SKURepository
	logger        *zap.Logger
}

// NewService creates a new dashboard service
func NewService(
	pubPriceRepo pricing.PublishedPriceRepository,
	alertRepo pricing.PriceAlertRepository,
	complaintRepo complaint.ComplaintRepository,
	userRepo identity.UserRepository,
	skuRepo catalog.SKURepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		pubPriceRepo:  pubPriceRepo,
		alertRepo:     alertRepo,
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		skuRepo:       skuRepo,
		logger:        logger,
	}
}

// GetOverview builds the admin dashboard for the trailing seven days
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	now := time.Now()
	since := now.Add(-alertWindow)

	compliance, err := s.pubPriceRepo.Stats(ctx, since)
	if err != nil {
		s.logger.Error("Failed to load compliance stats", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load compliance statistics")
	}

	alerts, err := s.alertRepo.CountSince(ctx, since)
	if err != nil {
		s.logger.Error("Failed to count alerts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count alerts")
	}
	var totalAlerts int64
	for _, n := range alerts {
		totalAlerts += n
	}

	complaints, err := s.complaintRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("Failed to load complaint stats", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load complaint statistics")
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count users")
	}

	skus, err := s.skuRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count skus", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count products")
	}

	violators := make([]ViolatorEntry, 0, len(compliance.TopViolators))
	for _, v := range compliance.TopViolators {
		violators = append(violators, ViolatorEntry{RetailerID: v.RetailerID, Violations: v.Violations})
	}
	districts := make([]DistrictEntry, 0, len(compliance.DistrictBreakdown))
	for _, d := range compliance.DistrictBreakdown {
		districts = append(districts, DistrictEntry{DistrictID: d.DistrictID, Total: d.Total, Compliant: d.Compliant})
	}

	return &Overview{
		GeneratedAt: now,
		WindowStart: since,
		TotalUsers:  users,
		TotalSKUs:   skus,
		Compliance: ComplianceOverview{
			TotalPrices:     compliance.TotalPrices,
			CompliantPrices: compliance.CompliantPrices,
			ComplianceRate:  compliance.ComplianceRate,
			BySeverity:      compliance.BySeverity,
		},
		AlertsBySev: alerts,
		TotalAlerts: totalAlerts,
		Complaints: ComplaintOverview{
			Total:                complaints.Total,
			ByStatus:             complaints.ByStatus,
			ByPriority:           complaints.ByPriority,
			AvgResolutionSeconds: complaints.AvgResolutionSeconds,
		},
		TopViolators:  violators,
		DistrictStats: districts,
	}, nil
}
