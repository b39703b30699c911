package catalog

import (
	"time"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComboIngredient is a single line of a combo recipe: one unit of the combo
// consumes QuantityPerCombo units of the ingredient product. Only mandatory
// ingredients constrain how many combos can be assembled; optional ones are
// informational (garnishes, freebies).
type ComboIngredient struct {
	shared.BaseEntity
	ComboDefinitionID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_combo_ingredient,priority:1"`
	IngredientProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_combo_ingredient,priority:2"`
	QuantityPerCombo    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Mandatory           bool            `gorm:"not null;default:true"`
	Position            int             `gorm:"not null;default:0"` // Preserves recipe order
}

// TableName returns the table name for GORM
func (ComboIngredient) TableName() string {
	return "combo_ingredients"
}

// ComboDefinition is the recipe of a combo product: an ordered list of
// ingredient requirements. It is the aggregate root for recipe operations;
// ingredients are child entities persisted through it.
type ComboDefinition struct {
	shared.BaseAggregateRoot
	ComboProductID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	Ingredients    []ComboIngredient `gorm:"foreignKey:ComboDefinitionID;references:ID"`
}

// TableName returns the table name for GORM
func (ComboDefinition) TableName() string {
	return "combo_definitions"
}

// IngredientSpec describes one ingredient line when defining a combo
type IngredientSpec struct {
	IngredientProductID uuid.UUID
	QuantityPerCombo    decimal.Decimal
	Mandatory           bool
}

// NewComboDefinition creates a validated combo recipe. A well-formed recipe
// has at least one mandatory ingredient, positive per-combo quantities, no
// duplicate ingredient lines, and never references the combo itself.
func NewComboDefinition(comboProductID uuid.UUID, specs []IngredientSpec) (*ComboDefinition, error) {
	if comboProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Combo product ID cannot be empty")
	}
	if len(specs) == 0 {
		return nil, shared.ErrInvalidComboDefinition
	}

	seen := make(map[uuid.UUID]bool, len(specs))
	hasMandatory := false
	for _, spec := range specs {
		if spec.IngredientProductID == uuid.Nil {
			return nil, shared.ErrInvalidComboDefinition
		}
		if spec.IngredientProductID == comboProductID {
			// Direct self-reference; transitive cycles are caught by the
			// capacity calculator's visited-set traversal.
			return nil, shared.ErrInvalidComboDefinition
		}
		if spec.QuantityPerCombo.LessThanOrEqual(decimal.Zero) {
			return nil, shared.ErrInvalidComboDefinition
		}
		if seen[spec.IngredientProductID] {
			return nil, shared.ErrInvalidComboDefinition
		}
		seen[spec.IngredientProductID] = true
		if spec.Mandatory {
			hasMandatory = true
		}
	}
	if !hasMandatory {
		// A combo assembled only from optional parts is invalid at creation
		// time; capacity computation tolerates it (yields 0) for legacy rows.
		return nil, shared.ErrInvalidComboDefinition
	}

	def := &ComboDefinition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ComboProductID:    comboProductID,
		Ingredients:       make([]ComboIngredient, 0, len(specs)),
	}

	for i, spec := range specs {
		def.Ingredients = append(def.Ingredients, ComboIngredient{
			BaseEntity:          shared.NewBaseEntity(),
			ComboDefinitionID:   def.ID,
			IngredientProductID: spec.IngredientProductID,
			QuantityPerCombo:    spec.QuantityPerCombo,
			Mandatory:           spec.Mandatory,
			Position:            i,
		})
	}

	def.AddDomainEvent(NewComboDefinedEvent(def))

	return def, nil
}

// MandatoryIngredients returns the recipe lines that constrain capacity
func (d *ComboDefinition) MandatoryIngredients() []ComboIngredient {
	mandatory := make([]ComboIngredient, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if ing.Mandatory {
			mandatory = append(mandatory, ing)
		}
	}
	return mandatory
}

// HasIngredient returns true if the recipe references the given product
func (d *ComboDefinition) HasIngredient(productID uuid.UUID) bool {
	for _, ing := range d.Ingredients {
		if ing.IngredientProductID == productID {
			return true
		}
	}
	return false
}

// ReplaceIngredients swaps the recipe for a new validated ingredient list
func (d *ComboDefinition) ReplaceIngredients(specs []IngredientSpec) error {
	replacement, err := NewComboDefinition(d.ComboProductID, specs)
	if err != nil {
		return err
	}

	for i := range replacement.Ingredients {
		replacement.Ingredients[i].ComboDefinitionID = d.ID
	}
	d.Ingredients = replacement.Ingredients
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}
