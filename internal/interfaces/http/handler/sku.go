package handler

import (
	"github.com/fertigov/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// SKUHandler handles fertilizer catalog HTTP requests
type SKUHandler struct {
	BaseHandler
	skuService *catalog.Service
}

// NewSKUHandler creates a new SKU handler
func NewSKUHandler(skuService *catalog.Service) *SKUHandler {
	return &SKUHandler{
		skuService: skuService,
	}
}

// Create registers a new fertilizer SKU
func (h *SKUHandler) Create(c *gin.Context) {
	var input catalog.CreateSKUInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.skuService.CreateSKU(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// GetByID returns a single SKU
func (h *SKUHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	info, err := h.skuService.GetSKU(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// GetByCode returns a SKU by its catalog code
func (h *SKUHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Missing SKU code")
		return
	}

	info, err := h.skuService.GetSKUByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// List returns a page of SKUs matching the query
func (h *SKUHandler) List(c *gin.Context) {
	var input catalog.ListSKUsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.skuService.ListSKUs(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.SKUs, result.Total, result.Page, result.PageSize)
}

// Update modifies a SKU's mutable fields
func (h *SKUHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	var input catalog.UpdateSKUInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}
	input.SKUID = id

	info, err := h.skuService.UpdateSKU(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Activate moves a SKU into the active catalog
func (h *SKUHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	info, err := h.skuService.ActivateSKU(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Deactivate takes a SKU out of the active catalog
func (h *SKUHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	info, err := h.skuService.DeactivateSKU(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Discontinue permanently retires a SKU
func (h *SKUHandler) Discontinue(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}

	info, err := h.skuService.DiscontinueSKU(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}
