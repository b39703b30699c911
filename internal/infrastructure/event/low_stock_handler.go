package event

import (
	"context"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs a warning whenever available stock drops below
// the reorder threshold. Downstream alerting (email, purchasing) hangs off
// the same event type.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates the handler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlertHandler{logger: logger.Named("low_stock")}
}

// EventTypes implements shared.EventHandler
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle implements shared.EventHandler
func (h *LowStockAlertHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	threshold, ok := ev.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("stock below reorder threshold",
		zap.String("product_id", threshold.ProductID.String()),
		zap.String("warehouse_id", threshold.WarehouseID.String()),
		zap.String("available", threshold.Available.String()),
		zap.String("min_quantity", threshold.MinQuantity.String()),
	)
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
