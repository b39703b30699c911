package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// StockLedgerService handles stock level queries and on-hand adjustments.
// Reservation lifecycle changes go through ReservationService; this service
// covers everything else that touches a stock record.
type StockLedgerService struct {
	stockRepo      inventory.StockRecordRepository
	movementRepo   inventory.StockMovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(
	stockRepo inventory.StockRecordRepository,
	movementRepo inventory.StockMovementRepository,
	txScope TransactionScope,
) *StockLedgerService {
	return &StockLedgerService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockLedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetStock returns the stock position for a product at a warehouse. A pair
// that has never had stock reads as all-zero rather than an error.
func (s *StockLedgerService) GetStock(ctx context.Context, productID, warehouseID uuid.UUID) (*StockRecordResponse, error) {
	record, err := s.stockRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ZeroStockRecordResponse(productID, warehouseID), nil
		}
		return nil, err
	}
	return NewStockRecordResponse(record), nil
}

// GetStockByProduct returns stock positions for a product across warehouses
func (s *StockLedgerService) GetStockByProduct(ctx context.Context, productID uuid.UUID) ([]*StockRecordResponse, error) {
	records, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]*StockRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewStockRecordResponse(record))
	}
	return responses, nil
}

// ListByWarehouse returns paginated stock positions at a warehouse
func (s *StockLedgerService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockRecordResponse], error) {
	page, err := s.stockRepo.FindByWarehouse(ctx, warehouseID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*StockRecordResponse, 0, len(page.Items))
	for _, record := range page.Items {
		responses = append(responses, NewStockRecordResponse(record))
	}
	return shared.NewPaginated(responses, page.Total, filter.Page, filter.PageSize), nil
}

// ListBelowThreshold returns stock positions that need reordering
func (s *StockLedgerService) ListBelowThreshold(ctx context.Context, warehouseID uuid.UUID) ([]*StockRecordResponse, error) {
	records, err := s.stockRepo.FindBelowThreshold(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	responses := make([]*StockRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewStockRecordResponse(record))
	}
	return responses, nil
}

// AdjustStock applies a signed delta to on-hand stock, creating the stock
// record on first receipt. The adjustment and its movement record commit
// atomically.
func (s *StockLedgerService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockRecordResponse, error) {
	var response *StockRecordResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := s.findOrCreateForUpdate(ctx, repos, req.ProductID, req.WarehouseID)
		if err != nil {
			return err
		}

		before := record.AvailableQuantity()
		if err := record.AdjustOnHand(req.Delta); err != nil {
			return err
		}

		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(record, inventory.MovementTypeAdjustment, req.Delta, before)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Save(ctx, movement.WithReason(req.Reason)); err != nil {
			return err
		}

		events = collectDomainEvents(record)
		response = NewStockRecordResponse(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return response, nil
}

// SetStockCount replaces on-hand stock with a counted quantity. The delta is
// computed against the locked row inside the transaction, so a concurrent
// adjustment cannot slip in between read and write.
func (s *StockLedgerService) SetStockCount(ctx context.Context, req SetStockCountRequest) (*StockRecordResponse, error) {
	if req.Quantity.LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "counted quantity cannot be negative")
	}

	var response *StockRecordResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := s.findOrCreateForUpdate(ctx, repos, req.ProductID, req.WarehouseID)
		if err != nil {
			return err
		}

		delta := req.Quantity.Sub(record.OnHandQuantity)
		before := record.AvailableQuantity()
		if err := record.SetOnHand(req.Quantity); err != nil {
			return err
		}
		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}

		if !delta.IsZero() {
			movement, err := inventory.NewStockMovement(record, inventory.MovementTypeAdjustment, delta, before)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Save(ctx, movement.WithReason(req.Reason)); err != nil {
				return err
			}
		}

		events = collectDomainEvents(record)
		response = NewStockRecordResponse(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return response, nil
}

// SetThreshold sets the reorder threshold for a product at a warehouse
func (s *StockLedgerService) SetThreshold(ctx context.Context, req SetThresholdRequest) (*StockRecordResponse, error) {
	var response *StockRecordResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := s.findOrCreateForUpdate(ctx, repos, req.ProductID, req.WarehouseID)
		if err != nil {
			return err
		}
		if err := record.SetMinQuantity(req.MinQuantity); err != nil {
			return err
		}
		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}
		response = NewStockRecordResponse(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListMovements returns the audit trail for a stock record, newest first
func (s *StockLedgerService) ListMovements(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockMovementResponse], error) {
	page, err := s.movementRepo.FindByStockRecord(ctx, stockRecordID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*StockMovementResponse, 0, len(page.Items))
	for _, movement := range page.Items {
		responses = append(responses, NewStockMovementResponse(movement))
	}
	return shared.NewPaginated(responses, page.Total, filter.Page, filter.PageSize), nil
}

// findOrCreateForUpdate locks the stock record row, creating a zero record
// when none exists. The insert happens inside the transaction so a concurrent
// first receipt becomes a unique-constraint conflict rather than a duplicate.
func (s *StockLedgerService) findOrCreateForUpdate(ctx context.Context, repos TransactionalRepositories, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	record, err := repos.StockRepo().FindForUpdate(ctx, productID, warehouseID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err = inventory.NewStockRecord(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := repos.StockRepo().Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *StockLedgerService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	publishDomainEvents(ctx, s.eventPublisher, events)
}
