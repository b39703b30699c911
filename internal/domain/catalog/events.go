package catalog

import (
	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for the catalog context
const (
	EventTypeProductCreated = "catalog.product.created"
	EventTypeComboDefined   = "catalog.combo.defined"
)

// ProductCreatedEvent is emitted when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsCombo   bool      `json:"is_combo"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		IsCombo:         product.IsCombo,
	}
}

// ComboDefinedEvent is emitted when a combo recipe is created or replaced
type ComboDefinedEvent struct {
	shared.BaseDomainEvent
	ComboProductID  uuid.UUID `json:"combo_product_id"`
	IngredientCount int       `json:"ingredient_count"`
}

// NewComboDefinedEvent creates a new ComboDefinedEvent
func NewComboDefinedEvent(def *ComboDefinition) *ComboDefinedEvent {
	return &ComboDefinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComboDefined, "ComboDefinition", def.ID),
		ComboProductID:  def.ComboProductID,
		IngredientCount: len(def.Ingredients),
	}
}
