package handler

import (
	"time"

	"github.com/fertigov/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// ReferencePriceHandler handles government reference price HTTP requests
type ReferencePriceHandler struct {
	BaseHandler
	refService *pricing.ReferencePriceService
}

// NewReferencePriceHandler creates a new reference price handler
func NewReferencePriceHandler(refService *pricing.ReferencePriceService) *ReferencePriceHandler {
	return &ReferencePriceHandler{
		refService: refService,
	}
}

// ListReferencePricesRequest contains query parameters for reference prices
type ListReferencePricesRequest struct {
	SKUID      string `form:"sku_id" binding:"omitempty,uuid"`
	DistrictID string `form:"district_id" binding:"omitempty,uuid"`
	GlobalOnly bool   `form:"global_only"`
	ActiveOnly bool   `form:"active_only"`
	ActiveOn   string `form:"active_on"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

// parseOptionalTime parses an RFC 3339 timestamp, mapping "" to nil
func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Set mandates a new reference price for a SKU
func (h *ReferencePriceHandler) Set(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input pricing.SetReferencePriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.SetBy = userID

	info, err := h.refService.SetReferencePrice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// GetByID returns a single reference price
func (h *ReferencePriceHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reference price ID")
		return
	}

	info, err := h.refService.GetReferencePrice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns a page of reference prices matching the query
func (h *ReferencePriceHandler) List(c *gin.Context) {
	var req ListReferencePricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := pricing.ListReferencePricesInput{
		GlobalOnly: req.GlobalOnly,
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
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
	activeOn, err := parseOptionalTime(req.ActiveOn)
	if err != nil {
		h.BadRequest(c, "Invalid active_on timestamp")
		return
	}
	input.ActiveOn = activeOn

	result, err := h.refService.ListReferencePrices(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Prices, result.Total, result.Page, result.PageSize)
}

// Update modifies an active reference price
func (h *ReferencePriceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reference price ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input pricing.UpdateReferencePriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.ReferencePriceID = id
	input.UpdatedBy = userID

	info, err := h.refService.UpdateReferencePrice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Retire ends a reference price's effective window
func (h *ReferencePriceHandler) Retire(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid reference price ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.refService.RetireReferencePrice(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}
