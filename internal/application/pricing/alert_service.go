package pricing

import (
	"context"

	"github.com/fertigov/backend/internal/domain/pricing"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService exposes price alerts and the pricing audit trail to operators
type AlertService struct {
	alertRepo pricing.PriceAlertRepository
	auditRepo pricing.PriceAuditRepository
	logger    *zap.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(
	alertRepo pricing.PriceAlertRepository,
	auditRepo pricing.PriceAuditRepository,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ListAlerts returns a page of alerts matching the query
func (s *AlertService) ListAlerts(ctx context.Context, input ListAlertsInput) (*ListAlertsResult, error) {
	filter := pricing.NewAlertFilter()
	filter.Severity = input.Severity
	filter.RetailerID = input.RetailerID
	filter.SKUID = input.SKUID
	filter.DistrictID = input.DistrictID
	filter.Acknowledged = input.Acknowledged
	filter.Since = input.Since
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	alerts, total, err := s.alertRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list alerts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list alerts")
	}

	infos := make([]AlertInfo, 0, len(alerts))
	for _, a := range alerts {
		infos = append(infos, NewAlertInfo(a))
	}

	return &ListAlertsResult{
		Alerts:   infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// AcknowledgeAlert marks an alert as handled by an operator
func (s *AlertService) AcknowledgeAlert(ctx context.Context, alertID, acknowledgedBy uuid.UUID) (*AlertInfo, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, shared.NewDomainError("ALERT_NOT_FOUND", "Alert not found")
	}

	if err := alert.Acknowledge(acknowledgedBy); err != nil {
		return nil, err
	}

	if err := s.alertRepo.Update(ctx, alert); err != nil {
		s.logger.Error("Failed to acknowledge alert", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to acknowledge alert")
	}

	info := NewAlertInfo(alert)
	return &info, nil
}

// ListAudits returns a page of audit records matching the query
func (s *AlertService) ListAudits(ctx context.Context, input ListAuditsInput) (*ListAuditsResult, error) {
	filter := pricing.NewAuditFilter()
	filter.EventType = input.EventType
	filter.ActorID = input.ActorID
	filter.SKUID = input.SKUID
	filter.RetailerID = input.RetailerID
	filter.Since = input.Since
	filter.Until = input.Until
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	audits, total, err := s.auditRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list audit records", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list audit records")
	}

	infos := make([]AuditInfo, 0, len(audits))
	for _, a := range audits {
		infos = append(infos, NewAuditInfo(a))
	}

	return &ListAuditsResult{
		Audits:   infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
