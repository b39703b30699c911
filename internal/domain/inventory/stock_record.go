package inventory

import (
	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecord tracks the quantity of a product held at a warehouse.
// On-hand is the physical quantity, reserved is the portion committed to
// pending orders, and available is always derived as on-hand minus reserved.
type StockRecord struct {
	shared.BaseAggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:1"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse,priority:2;index:idx_stock_warehouse"`
	OnHandQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Reorder threshold, zero disables alerts
}

// TableName returns the database table name
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a zero-quantity stock record for a product at a warehouse
func NewStockRecord(productID, warehouseID uuid.UUID) (*StockRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "product ID is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE_ID", "warehouse ID is required")
	}

	return &StockRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		OnHandQuantity:    decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		MinQuantity:       decimal.Zero,
	}, nil
}

// AvailableQuantity returns the quantity free for new reservations
func (s *StockRecord) AvailableQuantity() decimal.Decimal {
	return s.OnHandQuantity.Sub(s.ReservedQuantity)
}

// HasSufficientStock returns true if the available quantity covers the requested quantity
func (s *StockRecord) HasSufficientStock(quantity decimal.Decimal) bool {
	return s.AvailableQuantity().GreaterThanOrEqual(quantity)
}

// IsBelowThreshold returns true if a threshold is configured and available
// quantity has fallen below it
func (s *StockRecord) IsBelowThreshold() bool {
	return s.MinQuantity.GreaterThan(decimal.Zero) && s.AvailableQuantity().LessThan(s.MinQuantity)
}

// AdjustOnHand applies a signed delta to the on-hand quantity. A negative
// delta that would push on-hand below the reserved quantity is rejected
// because reserved stock must always remain physically backed.
func (s *StockRecord) AdjustOnHand(delta decimal.Decimal) error {
	newOnHand := s.OnHandQuantity.Add(delta)
	if newOnHand.LessThan(decimal.Zero) {
		return shared.ErrInsufficientStock
	}
	if newOnHand.LessThan(s.ReservedQuantity) {
		return shared.ErrInsufficientStock
	}

	before := s.AvailableQuantity()
	s.OnHandQuantity = newOnHand
	s.AddDomainEvent(NewStockAdjustedEvent(s, delta, before, s.AvailableQuantity()))
	if s.IsBelowThreshold() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}
	return nil
}

// SetOnHand replaces the on-hand quantity outright, as after a stock count.
// The new quantity must still cover outstanding reservations.
func (s *StockRecord) SetOnHand(quantity decimal.Decimal) error {
	return s.AdjustOnHand(quantity.Sub(s.OnHandQuantity))
}

// SetMinQuantity sets the reorder threshold
func (s *StockRecord) SetMinQuantity(quantity decimal.Decimal) error {
	if quantity.LessThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_THRESHOLD", "minimum quantity cannot be negative")
	}
	s.MinQuantity = quantity
	return nil
}

// Reserve moves quantity from available into reserved. Fails with
// ErrInsufficientStock when available cannot cover the request.
func (s *StockRecord) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "reservation quantity must be positive")
	}
	if !s.HasSufficientStock(quantity) {
		return shared.ErrInsufficientStock
	}

	s.ReservedQuantity = s.ReservedQuantity.Add(quantity)
	if s.IsBelowThreshold() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}
	return nil
}

// ReleaseReserved returns quantity from reserved back to available.
// Releasing more than is currently reserved indicates a bookkeeping bug
// rather than a recoverable business condition.
func (s *StockRecord) ReleaseReserved(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "release quantity must be positive")
	}
	if s.ReservedQuantity.LessThan(quantity) {
		return shared.ErrReservationInvariantViolation
	}

	s.ReservedQuantity = s.ReservedQuantity.Sub(quantity)
	return nil
}

// ConsumeReserved removes quantity from both reserved and on-hand when a
// reservation is fulfilled. The quantity must have been reserved first.
func (s *StockRecord) ConsumeReserved(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "consume quantity must be positive")
	}
	if s.ReservedQuantity.LessThan(quantity) {
		return shared.ErrReservationInvariantViolation
	}
	if s.OnHandQuantity.LessThan(quantity) {
		return shared.ErrReservationInvariantViolation
	}

	s.ReservedQuantity = s.ReservedQuantity.Sub(quantity)
	s.OnHandQuantity = s.OnHandQuantity.Sub(quantity)
	if s.IsBelowThreshold() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}
	return nil
}
