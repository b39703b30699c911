package inventory

import (
	"time"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// ReservationStatusActive means the quantity is held against available stock
	ReservationStatusActive ReservationStatus = "ACTIVE"
	// ReservationStatusConsumed means the reservation was fulfilled and stock shipped
	ReservationStatusConsumed ReservationStatus = "CONSUMED"
	// ReservationStatusReleased means the reservation was cancelled and stock returned
	ReservationStatusReleased ReservationStatus = "RELEASED"
	// ReservationStatusExpired means the reservation passed its deadline and was swept
	ReservationStatusExpired ReservationStatus = "EXPIRED"
)

// String returns the string representation of ReservationStatus
func (s ReservationStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusActive,
		ReservationStatusConsumed,
		ReservationStatusReleased,
		ReservationStatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s ReservationStatus) IsTerminal() bool {
	return s != ReservationStatusActive
}

// SourceType identifies the kind of document a reservation originates from
type SourceType string

const (
	// SourceTypeSalesOrder is a customer sales order
	SourceTypeSalesOrder SourceType = "SALES_ORDER"
	// SourceTypeQuote is a quotation held pending confirmation
	SourceTypeQuote SourceType = "QUOTE"
	// SourceTypeTransfer is an outbound warehouse transfer
	SourceTypeTransfer SourceType = "TRANSFER"
	// SourceTypeManual is an ad hoc hold placed by an operator
	SourceTypeManual SourceType = "MANUAL"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeSalesOrder, SourceTypeQuote, SourceTypeTransfer, SourceTypeManual:
		return true
	}
	return false
}

// Reservation is a hold of stock for a source document. An active
// reservation keeps its quantity out of the available pool until it is
// consumed, released, or expires.
type Reservation struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservation_product"`
	WarehouseID uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservation_warehouse"`
	Quantity    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status      ReservationStatus `gorm:"type:varchar(20);not null;index:idx_reservation_status"`
	SourceType  SourceType        `gorm:"type:varchar(30);not null;index:idx_reservation_source,priority:1"`
	SourceID    string            `gorm:"type:varchar(50);not null;index:idx_reservation_source,priority:2"`
	ExpiresAt   *time.Time        `gorm:"type:timestamptz;index:idx_reservation_expires"` // nil means the hold never expires
	ResolvedAt  *time.Time        `gorm:"type:timestamptz"`                               // when a terminal state was reached
}

// TableName returns the database table name
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates an active reservation. A zero ttl produces a
// reservation that is already due for expiry; a negative ttl means no
// deadline at all.
func NewReservation(productID, warehouseID uuid.UUID, quantity decimal.Decimal, sourceType SourceType, sourceID string, ttl time.Duration) (*Reservation, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "product ID is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE_ID", "warehouse ID is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "reservation quantity must be positive")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "invalid reservation source type")
	}
	if sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "source document ID is required")
	}

	r := &Reservation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          quantity,
		Status:            ReservationStatusActive,
		SourceType:        sourceType,
		SourceID:          sourceID,
	}
	if ttl >= 0 {
		expiresAt := time.Now().Add(ttl)
		r.ExpiresAt = &expiresAt
	}

	r.AddDomainEvent(NewStockReservedEvent(r))
	return r, nil
}

// IsActive returns true if the reservation still holds stock
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsExpiredAt returns true if the reservation is active and its deadline
// has passed at the given instant
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.IsActive() && r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

// Consume marks the reservation fulfilled. Only active reservations can
// be consumed.
func (r *Reservation) Consume() error {
	if err := r.transition(ReservationStatusConsumed); err != nil {
		return err
	}
	r.AddDomainEvent(NewReservationConsumedEvent(r))
	return nil
}

// Release cancels the reservation and frees its quantity
func (r *Reservation) Release() error {
	if err := r.transition(ReservationStatusReleased); err != nil {
		return err
	}
	r.AddDomainEvent(NewStockReleasedEvent(r))
	return nil
}

// Expire marks the reservation expired. Callers decide due-ness via
// IsExpiredAt; this only enforces the state machine.
func (r *Reservation) Expire() error {
	if err := r.transition(ReservationStatusExpired); err != nil {
		return err
	}
	r.AddDomainEvent(NewReservationExpiredEvent(r))
	return nil
}

func (r *Reservation) transition(target ReservationStatus) error {
	if r.Status != ReservationStatusActive {
		return shared.ErrInvalidReservationState
	}
	now := time.Now()
	r.Status = target
	r.ResolvedAt = &now
	return nil
}
