package inventory

import (
	"time"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement entry
type MovementType string

const (
	// MovementTypeAdjustment is a manual or counted change to on-hand stock
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	// MovementTypeReserve is stock moving from available into a reservation
	MovementTypeReserve MovementType = "RESERVE"
	// MovementTypeRelease is a cancelled reservation returning to available
	MovementTypeRelease MovementType = "RELEASE"
	// MovementTypeConsume is a fulfilled reservation leaving on-hand stock
	MovementTypeConsume MovementType = "CONSUME"
	// MovementTypeExpire is an expired reservation returning to available
	MovementTypeExpire MovementType = "EXPIRE"
)

// String returns the string representation of MovementType
func (m MovementType) String() string {
	return string(m)
}

// IsValid returns true if the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementTypeAdjustment, MovementTypeReserve, MovementTypeRelease, MovementTypeConsume, MovementTypeExpire:
		return true
	}
	return false
}

// StockMovement is an immutable audit record of a change to a stock record.
// Corrections are made with new movements, never by editing existing rows.
type StockMovement struct {
	shared.BaseEntity
	StockRecordID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_record"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_product"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_warehouse"`
	MovementType    MovementType    `gorm:"type:varchar(20);not null;index:idx_movement_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed delta to available quantity
	AvailableBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AvailableAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReservationID   *uuid.UUID      `gorm:"type:uuid;index"` // set for reservation lifecycle movements
	SourceType      string          `gorm:"type:varchar(30)"`
	SourceID        string          `gorm:"type:varchar(50);index:idx_movement_source"`
	Reason          string          `gorm:"type:varchar(255)"`
	MovementDate    time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_date"`
}

// TableName returns the database table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a change against a stock record
func NewStockMovement(record *StockRecord, movementType MovementType, quantity, availableBefore decimal.Decimal) (*StockMovement, error) {
	if record == nil {
		return nil, shared.NewDomainError("INVALID_STOCK_RECORD", "stock record is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "invalid movement type")
	}

	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		StockRecordID:   record.GetID(),
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		MovementType:    movementType,
		Quantity:        quantity,
		AvailableBefore: availableBefore,
		AvailableAfter:  record.AvailableQuantity(),
		MovementDate:    time.Now(),
	}, nil
}

// WithReservation links the movement to the reservation that caused it
func (m *StockMovement) WithReservation(r *Reservation) *StockMovement {
	id := r.GetID()
	m.ReservationID = &id
	m.SourceType = r.SourceType.String()
	m.SourceID = r.SourceID
	return m
}

// WithReason attaches a free-form reason, typically for manual adjustments
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}
