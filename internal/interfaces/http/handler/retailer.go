package handler

import (
	"github.com/fertigov/backend/internal/application/retailer"
	domainretailer "github.com/fertigov/backend/internal/domain/retailer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RetailerHandler handles retailer profile HTTP requests
type RetailerHandler struct {
	BaseHandler
	retailerService *retailer.Service
}

// NewRetailerHandler creates a new retailer handler
func NewRetailerHandler(retailerService *retailer.Service) *RetailerHandler {
	return &RetailerHandler{
		retailerService: retailerService,
	}
}

// MoveRetailerRequest is the request body for reassigning a retailer's district
type MoveRetailerRequest struct {
	DistrictID uuid.UUID `json:"district_id" binding:"required"`
}

// ListRetailersRequest contains query parameters for listing retailers
type ListRetailersRequest struct {
	Keyword      string `form:"keyword"`
	DistrictID   string `form:"district_id" binding:"omitempty,uuid"`
	Verification string `form:"verification" binding:"omitempty,oneof=pending verified suspended"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
}

// Register creates a retailer profile for the authenticated user
func (h *RetailerHandler) Register(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input retailer.RegisterRetailerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.UserID = userID

	info, err := h.retailerService.RegisterRetailer(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// GetByID returns a single retailer profile
func (h *RetailerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}

	info, err := h.retailerService.GetRetailer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// GetMine returns the authenticated user's retailer profile
func (h *RetailerHandler) GetMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.retailerService.GetRetailerByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns a page of retailers matching the query
func (h *RetailerHandler) List(c *gin.Context) {
	var req ListRetailersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := retailer.ListRetailersInput{
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	districtID, err := parseOptionalUUID(req.DistrictID)
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}
	input.DistrictID = districtID
	if req.Verification != "" {
		v := domainretailer.VerificationStatus(req.Verification)
		input.Verification = &v
	}

	result, err := h.retailerService.ListRetailers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Retailers, result.Total, result.Page, result.PageSize)
}

// Update modifies a retailer's profile fields
func (h *RetailerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input retailer.UpdateRetailerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.RetailerID = id
	input.ActorID = userID

	info, err := h.retailerService.UpdateRetailer(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Move reassigns a retailer to another district
func (h *RetailerHandler) Move(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}

	var req MoveRetailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.retailerService.MoveRetailer(c.Request.Context(), id, req.DistrictID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Verify marks a retailer's license as verified
func (h *RetailerHandler) Verify(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.retailerService.VerifyRetailer(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Suspend blocks a retailer from publishing prices
func (h *RetailerHandler) Suspend(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid retailer ID")
		return
	}

	var input retailer.SuspendRetailerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.RetailerID = id

	info, err := h.retailerService.SuspendRetailer(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}
