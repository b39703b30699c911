package catalog

import (
	"context"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its unique code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ComboDefinitionRepository defines the interface for combo recipe persistence.
//
// ComboIngredient is a child entity within the ComboDefinition aggregate and
// has no independent repository; ingredients are persisted through the
// aggregate root via GORM association handling.
type ComboDefinitionRepository interface {
	// FindByID finds a combo definition by its ID (ingredients preloaded)
	FindByID(ctx context.Context, id uuid.UUID) (*ComboDefinition, error)

	// FindByComboProduct finds the recipe owned by a combo product
	// (ingredients preloaded, recipe order preserved)
	FindByComboProduct(ctx context.Context, comboProductID uuid.UUID) (*ComboDefinition, error)

	// ExistsByComboProduct checks whether a combo product has a recipe
	ExistsByComboProduct(ctx context.Context, comboProductID uuid.UUID) (bool, error)

	// Save creates or updates a combo definition with its ingredients
	Save(ctx context.Context, def *ComboDefinition) error

	// Delete deletes a combo definition and its ingredients
	Delete(ctx context.Context, id uuid.UUID) error
}
