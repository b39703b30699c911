package handler

import (
	appavailability "github.com/comercial/backend/internal/application/availability"
	"github.com/comercial/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailabilityHandler handles sellability checks, combo capacity, and
// order-driven reservation
type AvailabilityHandler struct {
	BaseHandler
	availabilityService *appavailability.AvailabilityService
	capacityCalculator  *appavailability.CapacityCalculator
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(
	availabilityService *appavailability.AvailabilityService,
	capacityCalculator *appavailability.CapacityCalculator,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		capacityCalculator:  capacityCalculator,
	}
}

// Check answers whether a requested quantity can be sold right now. Works
// uniformly for simple products and combos; a shortfall is a normal result,
// not an error.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	requested := decimal.NewFromInt(1)
	if raw := c.Query("quantity"); raw != "" {
		requested, err = decimal.NewFromString(raw)
		if err != nil || !requested.IsPositive() {
			h.BadRequest(c, "Quantity must be a positive number")
			return
		}
	}

	result, err := h.availabilityService.CheckAvailability(c.Request.Context(), productID, warehouseID, requested)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ComboCapacity reports how many complete combos can be assembled from
// current ingredient stock and which ingredients are bottlenecks
func (h *AvailabilityHandler) ComboCapacity(c *gin.Context) {
	comboProductID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid combo product ID format")
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	capacity, err := h.capacityCalculator.Capacity(c.Request.Context(), comboProductID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, capacity)
}

// ReserveForOrder reserves stock for an order line. Repeating the call with
// the same originating reference returns the existing reservation instead
// of double-reserving.
func (h *AvailabilityHandler) ReserveForOrder(c *gin.Context) {
	var req appavailability.ReserveForOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	reservation, err := h.availabilityService.ReserveForOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reservation)
}
