package handler

import (
	"github.com/fertigov/backend/internal/application/pricing"
	domainpricing "github.com/fertigov/backend/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// AlertHandler handles price alert and audit log HTTP requests
type AlertHandler struct {
	BaseHandler
	alertService *pricing.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertService *pricing.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// ListAlertsRequest contains query parameters for price alerts
type ListAlertsRequest struct {
	Severity     string `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	RetailerID   string `form:"retailer_id" binding:"omitempty,uuid"`
	SKUID        string `form:"sku_id" binding:"omitempty,uuid"`
	DistrictID   string `form:"district_id" binding:"omitempty,uuid"`
	Acknowledged *bool  `form:"acknowledged"`
	Since        string `form:"since"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// ListAuditsRequest contains query parameters for the pricing audit log
type ListAuditsRequest struct {
	EventType  string `form:"event_type" binding:"omitempty,oneof=price_created price_updated price_deleted validation_success validation_failure compliance_check"`
	ActorID    string `form:"actor_id" binding:"omitempty,uuid"`
	SKUID      string `form:"sku_id" binding:"omitempty,uuid"`
	RetailerID string `form:"retailer_id" binding:"omitempty,uuid"`
	Since      string `form:"since"`
	Until      string `form:"until"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ListAlerts returns a page of price alerts matching the query
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	var req ListAlertsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := pricing.ListAlertsInput{
		Acknowledged: req.Acknowledged,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}
	if req.Severity != "" {
		s := domainpricing.AlertSeverity(req.Severity)
		input.Severity = &s
	}
	retailerID, err := parseOptionalUUID(req.RetailerID)
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}
	input.RetailerID = retailerID
	skuID, err := parseOptionalUUID(req.SKUID)
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}
	input.SKUID = skuID
	districtID, err := parseOptionalUUID(req.DistrictID)
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}
	input.DistrictID = districtID
	since, err := parseOptionalTime(req.Since)
	if err != nil {
		h.BadRequest(c, "Invalid since timestamp")
		return
	}
	input.Since = since

	result, err := h.alertService.ListAlerts(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Alerts, result.Total, result.Page, result.PageSize)
}

// Acknowledge marks an alert as seen by the acting officer
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.alertService.AcknowledgeAlert(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ListAudits returns a page of pricing audit records
func (h *AlertHandler) ListAudits(c *gin.Context) {
	var req ListAuditsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := pricing.ListAuditsInput{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.EventType != "" {
		e := domainpricing.AuditEventType(req.EventType)
		input.EventType = &e
	}
	actorID, err := parseOptionalUUID(req.ActorID)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}
	input.ActorID = actorID
	skuID, err := parseOptionalUUID(req.SKUID)
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}
	input.SKUID = skuID
	retailerID, err := parseOptionalUUID(req.RetailerID)
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}
	input.RetailerID = retailerID
	since, err := parseOptionalTime(req.Since)
	if err != nil {
		h.BadRequest(c, "Invalid since timestamp")
		return
	}
	input.Since = since
	until, err := parseOptionalTime(req.Until)
	if err != nil {
		h.BadRequest(c, "Invalid until timestamp")
		return
	}
	input.Until = until

	result, err := h.alertService.ListAudits(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Audits, result.Total, result.Page, result.PageSize)
}
