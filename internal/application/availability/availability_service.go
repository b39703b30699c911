package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/comercial/backend/internal/application/inventory"
	"github.com/comercial/backend/internal/domain/catalog"
	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// DefaultIdempotencyTTL bounds how long a processed reservation reference is
// remembered for retry deduplication
const DefaultIdempotencyTTL = 24 * time.Hour

// AvailabilityService is the entry point order flows call before accepting an
// order line. Checks are read-only snapshots; reservations go through the
// reservation service and its locking transaction.
type AvailabilityService struct {
	productRepo        catalog.ProductRepository
	stockRepo          inventory.StockRecordRepository
	calculator         *CapacityCalculator
	ledgerService      *appinventory.StockLedgerService
	reservationService *appinventory.ReservationService
	idempotencyStore   shared.IdempotencyStore
	logger             *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockRecordRepository,
	calculator *CapacityCalculator,
	ledgerService *appinventory.StockLedgerService,
	reservationService *appinventory.ReservationService,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		productRepo:        productRepo,
		stockRepo:          stockRepo,
		calculator:         calculator,
		ledgerService:      ledgerService,
		reservationService: reservationService,
		logger:             logger,
	}
}

// SetIdempotencyStore enables reservation deduplication by originating reference
func (s *AvailabilityService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotencyStore = store
}

// CheckAvailability answers whether the requested quantity of a product can
// be sold from a warehouse right now. Shortfall is a normal result value;
// the only errors are unknown products and infrastructure failures.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, productID, warehouseID uuid.UUID, requested decimal.Decimal) (*AvailabilityResult, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		ProductID:         productID,
		WarehouseID:       warehouseID,
		IsCombo:           product.IsCombo,
		RequestedQuantity: requested,
	}

	if product.IsCombo {
		capacity, err := s.calculator.Capacity(ctx, productID, warehouseID)
		if err != nil {
			return nil, err
		}

		// Active combo reservations hold part of the capacity; only the
		// remainder can be promised to a new order.
		reserved, err := s.comboReserved(ctx, productID, warehouseID)
		if err != nil {
			return nil, err
		}
		capacityQty := decimal.NewFromInt(capacity.Capacity)
		available := capacityQty.Sub(reserved)
		if available.LessThan(decimal.Zero) {
			available = decimal.Zero
		}

		result.OnHandQuantity = capacityQty
		result.ReservedQuantity = reserved
		result.AvailableQuantity = available
		result.Ingredients = capacity.Ingredients
		result.IsAvailable = requested.LessThanOrEqual(available)
		return result, nil
	}

	stock, err := s.ledgerService.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	result.OnHandQuantity = stock.OnHandQuantity
	result.ReservedQuantity = stock.ReservedQuantity
	result.AvailableQuantity = stock.AvailableQuantity
	result.IsAvailable = requested.LessThanOrEqual(stock.AvailableQuantity)
	return result, nil
}

// ReserveForOrder reserves stock for an order line. For combos the combo's
// own stock row is treated as a derived value: it is refreshed from current
// ingredient capacity immediately before the reservation attempt, and the
// reservation then holds that row like any simple product's. Unlike
// CheckAvailability, insufficient stock propagates as an error here.
func (s *AvailabilityService) ReserveForOrder(ctx context.Context, req ReserveForOrderRequest) (*appinventory.ReservationResponse, error) {
	if existing, done, err := s.findProcessed(ctx, req); err != nil {
		return nil, err
	} else if done {
		return existing, nil
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if product.IsCombo {
		if err := s.refreshComboStock(ctx, req.ProductID, req.WarehouseID); err != nil {
			return nil, err
		}
	}

	reservation, err := s.reservationService.Reserve(ctx, appinventory.ReserveStockRequest{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		TTL:         req.TTL,
	})
	if err != nil {
		if errors.Is(err, shared.ErrReservationInvariantViolation) {
			s.logger.Error("Reservation invariant violation",
				zap.String("product_id", req.ProductID.String()),
				zap.String("warehouse_id", req.WarehouseID.String()),
				zap.String("source_id", req.SourceID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.markProcessed(ctx, req)
	return reservation, nil
}

// refreshComboStock recomputes capacity and rewrites the combo's synthetic
// on-hand quantity so that on-hand equals current capacity and available is
// capacity minus what active reservations already hold. Concurrent combo
// orders therefore compete for the same capacity. When ingredient stock has
// dropped below the reserved quantity, on-hand floors at reserved so existing
// holds stay physically backed.
func (s *AvailabilityService) refreshComboStock(ctx context.Context, comboProductID, warehouseID uuid.UUID) error {
	capacity, err := s.calculator.Capacity(ctx, comboProductID, warehouseID)
	if err != nil {
		return err
	}

	reserved, err := s.comboReserved(ctx, comboProductID, warehouseID)
	if err != nil {
		return err
	}

	target := decimal.NewFromInt(capacity.Capacity)
	if target.LessThan(reserved) {
		target = reserved
	}

	_, err = s.ledgerService.SetStockCount(ctx, appinventory.SetStockCountRequest{
		ProductID:   comboProductID,
		WarehouseID: warehouseID,
		Quantity:    target,
		Reason:      "combo capacity refresh",
	})
	return err
}

// comboReserved reads the reserved quantity on the combo's synthetic stock
// row, treating a missing row as zero.
func (s *AvailabilityService) comboReserved(ctx context.Context, comboProductID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	stock, err := s.stockRepo.FindByProductAndWarehouse(ctx, comboProductID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return stock.ReservedQuantity, nil
}

func idempotencyKey(req ReserveForOrderRequest) string {
	return fmt.Sprintf("reserve:%s:%s:%s", req.SourceType, req.SourceID, req.ProductID)
}

// findProcessed returns the reservation already created for this reference,
// if the reference was seen before
func (s *AvailabilityService) findProcessed(ctx context.Context, req ReserveForOrderRequest) (*appinventory.ReservationResponse, bool, error) {
	if s.idempotencyStore == nil {
		return nil, false, nil
	}

	processed, err := s.idempotencyStore.IsProcessed(ctx, idempotencyKey(req))
	if err != nil || !processed {
		// A degraded idempotency store must not block reservations.
		return nil, false, nil
	}

	reservations, err := s.reservationService.ListBySource(ctx, req.SourceType, req.SourceID)
	if err != nil {
		return nil, false, err
	}
	for _, r := range reservations {
		if r.ProductID == req.ProductID && r.WarehouseID == req.WarehouseID {
			return r, true, nil
		}
	}
	return nil, false, nil
}

func (s *AvailabilityService) markProcessed(ctx context.Context, req ReserveForOrderRequest) {
	if s.idempotencyStore == nil {
		return
	}
	if _, err := s.idempotencyStore.MarkProcessed(ctx, idempotencyKey(req), DefaultIdempotencyTTL); err != nil {
		s.logger.Warn("Failed to record reservation idempotency key",
			zap.String("source_id", req.SourceID),
			zap.Error(err),
		)
	}
}
