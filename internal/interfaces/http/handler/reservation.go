package handler

import (
	appinventory "github.com/comercial/backend/internal/application/inventory"
	"github.com/comercial/backend/internal/interfaces/http/dto"
	"github.com/comercial/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReservationHandler handles reservation lifecycle endpoints
type ReservationHandler struct {
	BaseHandler
	reservationService *appinventory.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *appinventory.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// Reserve places a hold on available stock
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req appinventory.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	reservation, err := h.reservationService.Reserve(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reservation)
}

// GetByID returns a single reservation
func (h *ReservationHandler) GetByID(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// List returns a page of reservations, optionally filtered by status,
// product, or warehouse
func (h *ReservationHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := toFilter(listReq)
	filter.Filters = map[string]interface{}{}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		filter.Filters["warehouse_id"] = warehouseID
	}

	page, err := h.reservationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListBySource returns the reservations created for an originating document
func (h *ReservationHandler) ListBySource(c *gin.Context) {
	sourceType := c.Query("source_type")
	sourceID := c.Query("source_id")
	if sourceType == "" || sourceID == "" {
		h.BadRequest(c, "source_type and source_id are required")
		return
	}

	reservations, err := h.reservationService.ListBySource(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservations)
}

// Consume fulfills a reservation, deducting on-hand stock
func (h *ReservationHandler) Consume(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.Consume(c.Request.Context(), reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// Release cancels a reservation, returning its quantity to available stock
func (h *ReservationHandler) Release(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	reservation, err := h.reservationService.Release(c.Request.Context(), reservationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reservation)
}

// releaseBySourceRequest identifies the originating document whose active
// reservations should be released
type releaseBySourceRequest struct {
	SourceType string `json:"source_type" binding:"required"`
	SourceID   string `json:"source_id" binding:"required"`
}

// ReleaseBySource releases all active reservations of an originating document
func (h *ReservationHandler) ReleaseBySource(c *gin.Context) {
	var req releaseBySourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	released, err := h.reservationService.ReleaseBySource(c.Request.Context(), req.SourceType, req.SourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"released": released})
}
