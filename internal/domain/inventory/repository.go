package inventory

import (
	"context"
	"time"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockRecordRepository provides access to stock records
type StockRecordRepository interface {
	// FindByID retrieves a stock record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByProductAndWarehouse retrieves the stock record for a product at a warehouse.
	// Returns shared.ErrNotFound when no record exists yet.
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*StockRecord, error)

	// FindForUpdate retrieves the stock record for a product at a warehouse with a
	// row-level write lock. Must be called within a transaction scope.
	FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*StockRecord, error)

	// FindByProduct retrieves stock records for a product across all warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*StockRecord, error)

	// FindByWarehouse retrieves stock records at a warehouse with pagination
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockRecord], error)

	// FindByProducts retrieves stock records for a set of products at a warehouse
	FindByProducts(ctx context.Context, productIDs []uuid.UUID, warehouseID uuid.UUID) ([]*StockRecord, error)

	// FindBelowThreshold retrieves records whose available quantity is below
	// their configured minimum
	FindBelowThreshold(ctx context.Context, warehouseID uuid.UUID) ([]*StockRecord, error)

	// Save persists a stock record with optimistic concurrency on its version
	Save(ctx context.Context, record *StockRecord) error

	// Delete removes a stock record
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReservationRepository provides access to reservations
type ReservationRepository interface {
	// FindByID retrieves a reservation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindBySource retrieves reservations originating from a source document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID string) ([]*Reservation, error)

	// FindActiveByProduct retrieves active reservations for a product at a warehouse
	FindActiveByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]*Reservation, error)

	// FindExpired retrieves active reservations whose deadline passed before
	// the given instant, up to limit rows
	FindExpired(ctx context.Context, before time.Time, limit int) ([]*Reservation, error)

	// FindAll retrieves reservations with pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Reservation], error)

	// Save persists a reservation
	Save(ctx context.Context, reservation *Reservation) error

	// Delete removes a reservation
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockMovementRepository provides append-only access to the movement audit trail
type StockMovementRepository interface {
	// Save appends a movement record
	Save(ctx context.Context, movement *StockMovement) error

	// FindByStockRecord retrieves movements for a stock record, newest first
	FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockMovement], error)

	// FindBySource retrieves movements tied to a source document
	FindBySource(ctx context.Context, sourceType, sourceID string) ([]*StockMovement, error)
}
