package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comercial/backend/internal/domain/inventory"
)

// StockRecordResponse represents a stock record in API responses
type StockRecordResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	OnHandQuantity    decimal.Decimal `json:"on_hand_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	IsBelowThreshold  bool            `json:"is_below_threshold"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// NewStockRecordResponse maps a stock record to its response form
func NewStockRecordResponse(record *inventory.StockRecord) *StockRecordResponse {
	return &StockRecordResponse{
		ID:                record.GetID(),
		ProductID:         record.ProductID,
		WarehouseID:       record.WarehouseID,
		OnHandQuantity:    record.OnHandQuantity,
		ReservedQuantity:  record.ReservedQuantity,
		AvailableQuantity: record.AvailableQuantity(),
		MinQuantity:       record.MinQuantity,
		IsBelowThreshold:  record.IsBelowThreshold(),
		UpdatedAt:         record.GetUpdatedAt(),
		Version:           record.GetVersion(),
	}
}

// ZeroStockRecordResponse is returned for product-warehouse pairs that have
// never had stock. Absence of a row reads as zero everywhere.
func ZeroStockRecordResponse(productID, warehouseID uuid.UUID) *StockRecordResponse {
	return &StockRecordResponse{
		ProductID:         productID,
		WarehouseID:       warehouseID,
		OnHandQuantity:    decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		AvailableQuantity: decimal.Zero,
		MinQuantity:       decimal.Zero,
	}
}

// AdjustStockRequest represents a change to on-hand stock
type AdjustStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Delta       decimal.Decimal `json:"delta" binding:"required"`
	Reason      string          `json:"reason"`
}

// SetStockCountRequest replaces on-hand stock with a counted quantity
type SetStockCountRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reason      string          `json:"reason"`
}

// SetThresholdRequest sets the reorder threshold on a stock record
type SetThresholdRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// ReserveStockRequest places a hold on available stock
type ReserveStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	SourceType  string          `json:"source_type" binding:"required"`
	SourceID    string          `json:"source_id" binding:"required"`
	// TTL controls the reservation deadline: nil applies the configured
	// default, a negative value creates a hold with no deadline, and zero
	// makes the reservation immediately due for expiry.
	TTL *time.Duration `json:"ttl,omitempty"`
}

// ReservationResponse represents a reservation in API responses
type ReservationResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status"`
	SourceType  string          `json:"source_type"`
	SourceID    string          `json:"source_id"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewReservationResponse maps a reservation to its response form
func NewReservationResponse(r *inventory.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:          r.GetID(),
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Quantity:    r.Quantity,
		Status:      r.Status.String(),
		SourceType:  r.SourceType.String(),
		SourceID:    r.SourceID,
		ExpiresAt:   r.ExpiresAt,
		ResolvedAt:  r.ResolvedAt,
		CreatedAt:   r.GetCreatedAt(),
	}
}

// StockMovementResponse represents an audit trail entry in API responses
type StockMovementResponse struct {
	ID              uuid.UUID       `json:"id"`
	StockRecordID   uuid.UUID       `json:"stock_record_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	AvailableBefore decimal.Decimal `json:"available_before"`
	AvailableAfter  decimal.Decimal `json:"available_after"`
	ReservationID   *uuid.UUID      `json:"reservation_id,omitempty"`
	SourceType      string          `json:"source_type,omitempty"`
	SourceID        string          `json:"source_id,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	MovementDate    time.Time       `json:"movement_date"`
}

// NewStockMovementResponse maps a movement to its response form
func NewStockMovementResponse(m *inventory.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:              m.GetID(),
		StockRecordID:   m.StockRecordID,
		ProductID:       m.ProductID,
		WarehouseID:     m.WarehouseID,
		MovementType:    m.MovementType.String(),
		Quantity:        m.Quantity,
		AvailableBefore: m.AvailableBefore,
		AvailableAfter:  m.AvailableAfter,
		ReservationID:   m.ReservationID,
		SourceType:      m.SourceType,
		SourceID:        m.SourceID,
		Reason:          m.Reason,
		MovementDate:    m.MovementDate,
	}
}
