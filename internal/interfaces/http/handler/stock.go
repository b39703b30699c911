package handler

import (
	appinventory "github.com/comercial/backend/internal/application/inventory"
	"github.com/comercial/backend/internal/domain/shared"
	"github.com/comercial/backend/internal/interfaces/http/dto"
	"github.com/comercial/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	BaseHandler
	ledgerService *appinventory.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *appinventory.StockLedgerService) *StockHandler {
	return &StockHandler{ledgerService: ledgerService}
}

// GetStock returns the stock record for a product-warehouse pair. Pairs
// with no history read as zero quantities.
func (h *StockHandler) GetStock(c *gin.Context) {
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

	record, err := h.ledgerService.GetStock(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetStockByProduct returns all stock records for a product across warehouses
func (h *StockHandler) GetStockByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	records, err := h.ledgerService.GetStockByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// ListByWarehouse returns a page of stock records in a warehouse
func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.ledgerService.ListByWarehouse(c.Request.Context(), warehouseID, toFilter(listReq))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListBelowThreshold returns stock records below their reorder threshold
func (h *StockHandler) ListBelowThreshold(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	records, err := h.ledgerService.ListBelowThreshold(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// AdjustStock applies a signed delta to on-hand stock
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledgerService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// SetStockCount replaces on-hand stock with a counted quantity
func (h *StockHandler) SetStockCount(c *gin.Context) {
	var req appinventory.SetStockCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledgerService.SetStockCount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// SetThreshold sets the reorder threshold on a stock record
func (h *StockHandler) SetThreshold(c *gin.Context) {
	var req appinventory.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledgerService.SetThreshold(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListMovements returns the audit trail for a stock record
func (h *StockHandler) ListMovements(c *gin.Context) {
	stockRecordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock record ID format")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.ledgerService.ListMovements(c.Request.Context(), stockRecordID, toFilter(listReq))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

func toFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	return filter
}
