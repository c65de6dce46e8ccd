package handler

import (
	"github.com/fertigov/backend/internal/application/district"
	domaindistrict "github.com/fertigov/backend/internal/domain/district"
	"github.com/gin-gonic/gin"
)

// DistrictHandler handles district hierarchy HTTP requests
type DistrictHandler struct {
	BaseHandler
	districtService *district.Service
}

// NewDistrictHandler creates a new district handler
func NewDistrictHandler(districtService *district.Service) *DistrictHandler {
	return &DistrictHandler{
		districtService: districtService,
	}
}

// CreateDistrictRequest represents the request body for creating a district
type CreateDistrictRequest struct {
	Code     string `json:"code" binding:"required,max=50"`
	Name     string `json:"name" binding:"required,max=200"`
	ParentID string `json:"parent_id" binding:"omitempty,uuid"`
}

// UpdateDistrictRequest represents the mutable district fields
type UpdateDistrictRequest struct {
	Name *string `json:"name" binding:"omitempty,max=200"`
	Code *string `json:"code" binding:"omitempty,max=50"`
}

// MoveDistrictRequest represents the request body for re-parenting a district
type MoveDistrictRequest struct {
	NewParentID string `json:"new_parent_id" binding:"required,uuid"`
}

// ListDistrictsRequest represents query parameters for listing districts
type ListDistrictsRequest struct {
	Keyword   string `form:"keyword"`
	ParentID  string `form:"parent_id" binding:"omitempty,uuid"`
	Level     *int   `form:"level" binding:"omitempty,min=0"`
	Status    string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Create handles creating a district
func (h *DistrictHandler) Create(c *gin.Context) {
	var req CreateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		h.BadRequest(c, "Invalid parent ID")
		return
	}

	info, err := h.districtService.CreateDistrict(c.Request.Context(), district.CreateDistrictInput{
		Code:     req.Code,
		Name:     req.Name,
		ParentID: parentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// GetByID returns a single district
func (h *DistrictHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	info, err := h.districtService.GetDistrict(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// GetByCode returns a district by its administrative code
func (h *DistrictHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Missing district code")
		return
	}

	info, err := h.districtService.GetDistrictByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns a page of districts matching the query
func (h *DistrictHandler) List(c *gin.Context) {
	var req ListDistrictsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		h.BadRequest(c, "Invalid parent ID")
		return
	}

	input := district.ListDistrictsInput{
		Keyword:   req.Keyword,
		ParentID:  parentID,
		Level:     req.Level,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != "" {
		status := domaindistrict.DistrictStatus(req.Status)
		input.Status = &status
	}

	result, err := h.districtService.ListDistricts(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Districts, result.Total, result.Page, result.PageSize)
}

// GetTree returns the full district hierarchy as nested nodes
func (h *DistrictHandler) GetTree(c *gin.Context) {
	tree, err := h.districtService.GetTree(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}

// GetSubtree returns the hierarchy rooted at one district
func (h *DistrictHandler) GetSubtree(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	node, err := h.districtService.GetSubtree(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, node)
}

// Update modifies a district's name or code
func (h *DistrictHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	var req UpdateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.districtService.UpdateDistrict(c.Request.Context(), district.UpdateDistrictInput{
		DistrictID: id,
		Name:       req.Name,
		Code:       req.Code,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Move re-parents a district within the hierarchy
func (h *DistrictHandler) Move(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	var req MoveDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	newParentID, err := parseOptionalUUID(req.NewParentID)
	if err != nil || newParentID == nil {
		h.BadRequest(c, "Invalid parent ID")
		return
	}

	info, err := h.districtService.MoveDistrict(c.Request.Context(), district.MoveDistrictInput{
		DistrictID:  id,
		NewParentID: *newParentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Activate re-enables a district
func (h *DistrictHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	info, err := h.districtService.ActivateDistrict(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Deactivate disables a district
func (h *DistrictHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	info, err := h.districtService.DeactivateDistrict(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// GetDeletionImpact reports what blocks a district's deletion
func (h *DistrictHandler) GetDeletionImpact(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	impact, err := h.districtService.GetDeletionImpact(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, impact)
}

// Delete removes an unused district
func (h *DistrictHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	if err := h.districtService.DeleteDistrict(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
