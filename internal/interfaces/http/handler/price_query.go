package handler

import (
	"github.com/fertigov/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PriceQueryHandler serves the public price lookup endpoint
type PriceQueryHandler struct {
	BaseHandler
	queryService *pricing.QueryService
}

// NewPriceQueryHandler creates a new price query handler
func NewPriceQueryHandler(queryService *pricing.QueryService) *PriceQueryHandler {
	return &PriceQueryHandler{
		queryService: queryService,
	}
}

// QueryPricesRequest contains the parameters of a public price lookup
type QueryPricesRequest struct {
	SKUID      string `form:"sku_id" binding:"required,uuid"`
	DistrictID string `form:"district_id" binding:"required,uuid"`
}

// Query returns the applicable reference price and the cheapest compliant
// published prices for a SKU in a district
func (h *PriceQueryHandler) Query(c *gin.Context) {
	var req QueryPricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	skuID, err := uuid.Parse(req.SKUID)
	if err != nil {
		h.BadRequest(c, "Invalid SKU ID")
		return
	}
	districtID, err := uuid.Parse(req.DistrictID)
	if err != nil {
		h.BadRequest(c, "Invalid district ID")
		return
	}

	result, err := h.queryService.QueryPrices(c.Request.Context(), pricing.QueryPricesInput{
		SKUID:      skuID,
		DistrictID: districtID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
