package availability

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientCapacity is the per-ingredient detail of a combo capacity
// computation
type IngredientCapacity struct {
	IngredientProductID uuid.UUID       `json:"ingredient_product_id"`
	Available           decimal.Decimal `json:"available"`
	RequiredPerUnit     decimal.Decimal `json:"required_per_unit"`
	Possible            int64           `json:"possible"`
	Mandatory           bool            `json:"mandatory"`
	IsBottleneck        bool            `json:"is_bottleneck"`
}

// ComboCapacity reports how many complete combos can be assembled right now
// and which ingredients are the binding constraint
type ComboCapacity struct {
	ComboProductID uuid.UUID            `json:"combo_product_id"`
	WarehouseID    uuid.UUID            `json:"warehouse_id"`
	Capacity       int64                `json:"capacity"`
	Ingredients    []IngredientCapacity `json:"ingredients"`
}

// AvailabilityResult is the uniform answer to "can I sell this much". A
// shortfall is carried in the result, never as an error.
type AvailabilityResult struct {
	ProductID         uuid.UUID            `json:"product_id"`
	WarehouseID       uuid.UUID            `json:"warehouse_id"`
	IsCombo           bool                 `json:"is_combo"`
	RequestedQuantity decimal.Decimal      `json:"requested_quantity"`
	OnHandQuantity    decimal.Decimal      `json:"on_hand_quantity"`
	ReservedQuantity  decimal.Decimal      `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal      `json:"available_quantity"`
	IsAvailable       bool                 `json:"is_available"`
	Ingredients       []IngredientCapacity `json:"ingredients,omitempty"` // combo bottleneck detail
}

// ReserveForOrderRequest places a reservation on behalf of an order line
type ReserveForOrderRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	SourceType  string          `json:"source_type" binding:"required"`
	SourceID    string          `json:"source_id" binding:"required"`
	// TTL follows the reservation encoding: nil means the configured
	// default, negative means no deadline, zero means immediately due.
	TTL *time.Duration `json:"ttl,omitempty"`
}
