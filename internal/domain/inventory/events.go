package inventory

import (
	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the inventory domain
const (
	EventTypeStockAdjusted       = "inventory.stock.adjusted"
	EventTypeStockBelowThreshold = "inventory.stock.below_threshold"
	EventTypeStockReserved       = "inventory.reservation.created"
	EventTypeStockReleased       = "inventory.reservation.released"
	EventTypeReservationConsumed = "inventory.reservation.consumed"
	EventTypeReservationExpired  = "inventory.reservation.expired"
)

// StockAdjustedEvent is emitted when on-hand stock changes outside the
// reservation lifecycle
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID       `json:"product_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Delta           decimal.Decimal `json:"delta"`
	AvailableBefore decimal.Decimal `json:"available_before"`
	AvailableAfter  decimal.Decimal `json:"available_after"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(record *StockRecord, delta, before, after decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "StockRecord", record.GetID()),
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		Delta:           delta,
		AvailableBefore: before,
		AvailableAfter:  after,
	}
}

// StockBelowThresholdEvent is emitted when available stock drops below the
// configured reorder threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Available   decimal.Decimal `json:"available"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewStockBelowThresholdEvent creates a StockBelowThresholdEvent
func NewStockBelowThresholdEvent(record *StockRecord) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "StockRecord", record.GetID()),
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		Available:       record.AvailableQuantity(),
		MinQuantity:     record.MinQuantity,
	}
}

// StockReservedEvent is emitted when a reservation is created
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	SourceType  string          `json:"source_type"`
	SourceID    string          `json:"source_id"`
}

// NewStockReservedEvent creates a StockReservedEvent
func NewStockReservedEvent(r *Reservation) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, "Reservation", r.GetID()),
		ProductID:       r.ProductID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
		SourceType:      r.SourceType.String(),
		SourceID:        r.SourceID,
	}
}

// StockReleasedEvent is emitted when a reservation is cancelled
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewStockReleasedEvent creates a StockReleasedEvent
func NewStockReleasedEvent(r *Reservation) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, "Reservation", r.GetID()),
		ProductID:       r.ProductID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
	}
}

// ReservationConsumedEvent is emitted when a reservation is fulfilled
type ReservationConsumedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	SourceType  string          `json:"source_type"`
	SourceID    string          `json:"source_id"`
}

// NewReservationConsumedEvent creates a ReservationConsumedEvent
func NewReservationConsumedEvent(r *Reservation) *ReservationConsumedEvent {
	return &ReservationConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationConsumed, "Reservation", r.GetID()),
		ProductID:       r.ProductID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
		SourceType:      r.SourceType.String(),
		SourceID:        r.SourceID,
	}
}

// ReservationExpiredEvent is emitted when the sweeper expires an overdue reservation
type ReservationExpiredEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewReservationExpiredEvent creates a ReservationExpiredEvent
func NewReservationExpiredEvent(r *Reservation) *ReservationExpiredEvent {
	return &ReservationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationExpired, "Reservation", r.GetID()),
		ProductID:       r.ProductID,
		WarehouseID:     r.WarehouseID,
		Quantity:        r.Quantity,
	}
}
