package handler

import (
	"context"

	"github.com/fertigov/backend/internal/application/pricing"
	domainpricing "github.com/fertigov/backend/internal/domain/pricing"
	"github.com/gin-gonic/gin"
)

// PublishedPriceHandler handles retailer price publication HTTP requests
type PublishedPriceHandler struct {
	BaseHandler
	publishService *pricing.PublishService
}

// NewPublishedPriceHandler creates a new published price handler
func NewPublishedPriceHandler(publishService *pricing.PublishService) *PublishedPriceHandler {
	return &PublishedPriceHandler{
		publishService: publishService,
	}
}

// UpdateStockRequest is the request body for a stock-only update
type UpdateStockRequest struct {
	StockQuantity int `json:"stock_quantity" binding:"min=0"`
}

// ListPublishedPricesRequest contains query parameters for published prices
type ListPublishedPricesRequest struct {
	RetailerID string `form:"retailer_id" binding:"omitempty,uuid"`
	SKUID      string `form:"sku_id" binding:"omitempty,uuid"`
	DistrictID string `form:"district_id" binding:"omitempty,uuid"`
	Severity   string `form:"severity" binding:"omitempty,oneof=none minor moderate major severe"`
	Approval   string `form:"approval" binding:"omitempty,oneof=auto_approved pending_review approved rejected"`
	Compliant  *bool  `form:"compliant"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

// ReviewQueueRequest contains query parameters for the review queue
type ReviewQueueRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Publish submits a new retail price for the authenticated retailer
func (h *PublishedPriceHandler) Publish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input pricing.PublishPriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.UserID = userID

	info, err := h.publishService.PublishPrice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// Update re-submits a published price with a new amount
func (h *PublishedPriceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid price ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input pricing.UpdatePublishedPriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.PriceID = id
	input.UserID = userID

	info, err := h.publishService.UpdatePrice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateStock changes the stock level without re-evaluating compliance
func (h *PublishedPriceHandler) UpdateStock(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid price ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.publishService.UpdateStock(c.Request.Context(), userID, id, req.StockQuantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Delete withdraws a published price
func (h *PublishedPriceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid price ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.publishService.DeletePrice(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Validate checks a candidate price against the reference without publishing
func (h *PublishedPriceHandler) Validate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input pricing.ValidatePriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.UserID = userID

	result, err := h.publishService.ValidatePrice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID returns a single published price
func (h *PublishedPriceHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid price ID")
		return
	}

	info, err := h.publishService.GetPrice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns a page of published prices matching the query
func (h *PublishedPriceHandler) List(c *gin.Context) {
	var req ListPublishedPricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := pricing.ListPublishedPricesInput{
		Compliant: req.Compliant,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
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
	if req.Severity != "" {
		s := domainpricing.ViolationSeverity(req.Severity)
		input.Severity = &s
	}
	if req.Approval != "" {
		a := domainpricing.ApprovalStatus(req.Approval)
		input.Approval = &a
	}

	result, err := h.publishService.ListPrices(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Prices, result.Total, result.Page, result.PageSize)
}

// ListReviewQueue returns prices awaiting officer review
func (h *PublishedPriceHandler) ListReviewQueue(c *gin.Context) {
	var req ReviewQueueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.publishService.ListReviewQueue(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Prices, result.Total, result.Page, result.PageSize)
}

// Approve resolves a pending review in the retailer's favor
func (h *PublishedPriceHandler) Approve(c *gin.Context) {
	h.review(c, h.publishService.ApprovePrice)
}

// Reject resolves a pending review against the retailer
func (h *PublishedPriceHandler) Reject(c *gin.Context) {
	h.review(c, h.publishService.RejectPrice)
}

func (h *PublishedPriceHandler) review(c *gin.Context, resolve func(context.Context, pricing.ReviewPriceInput) (*pricing.PublishedPriceInfo, error)) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid price ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input pricing.ReviewPriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.PriceID = id
	input.ReviewerID = userID

	info, err := resolve(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}
