package availability

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comercial/backend/internal/domain/catalog"
	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// CapacityCalculator computes how many complete combos can be assembled from
// available ingredient stock. It is read-only: it answers "how many could I
// reserve", it never reserves anything.
type CapacityCalculator struct {
	productRepo catalog.ProductRepository
	comboRepo   catalog.ComboDefinitionRepository
	stockRepo   inventory.StockRecordRepository
}

// NewCapacityCalculator creates a new CapacityCalculator
func NewCapacityCalculator(
	productRepo catalog.ProductRepository,
	comboRepo catalog.ComboDefinitionRepository,
	stockRepo inventory.StockRecordRepository,
) *CapacityCalculator {
	return &CapacityCalculator{
		productRepo: productRepo,
		comboRepo:   comboRepo,
		stockRepo:   stockRepo,
	}
}

// Capacity computes the current combo capacity at a warehouse.
//
// capacity = min over mandatory ingredients of floor(available / per-combo),
// 0 when the recipe is empty or has no mandatory line. Every mandatory
// ingredient sitting at the minimum is flagged as a bottleneck, ties included.
func (c *CapacityCalculator) Capacity(ctx context.Context, comboProductID, warehouseID uuid.UUID) (*ComboCapacity, error) {
	product, err := c.productRepo.FindByID(ctx, comboProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsCombo {
		return nil, shared.NewDomainError("NOT_A_COMBO", "product is not a combo")
	}

	result := &ComboCapacity{
		ComboProductID: comboProductID,
		WarehouseID:    warehouseID,
		Ingredients:    []IngredientCapacity{},
	}

	definition, err := c.comboRepo.FindByComboProduct(ctx, comboProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// No recipe, nothing can be assembled.
			return result, nil
		}
		return nil, err
	}
	if len(definition.Ingredients) == 0 {
		return result, nil
	}

	if err := c.rejectNestedOrCyclic(ctx, comboProductID, definition); err != nil {
		return nil, err
	}

	available, err := c.availableByIngredient(ctx, definition, warehouseID)
	if err != nil {
		return nil, err
	}

	// First pass: per-ingredient possible counts and the mandatory minimum.
	capacity := int64(-1)
	for _, ing := range definition.Ingredients {
		avail := available[ing.IngredientProductID]
		possible := avail.Div(ing.QuantityPerCombo).Floor().IntPart()

		result.Ingredients = append(result.Ingredients, IngredientCapacity{
			IngredientProductID: ing.IngredientProductID,
			Available:           avail,
			RequiredPerUnit:     ing.QuantityPerCombo,
			Possible:            possible,
			Mandatory:           ing.Mandatory,
		})

		if ing.Mandatory && (capacity < 0 || possible < capacity) {
			capacity = possible
		}
	}
	if capacity < 0 {
		// Only optional parts; a combo cannot be assembled from those.
		capacity = 0
	}
	result.Capacity = capacity

	// Second pass: flag every mandatory ingredient at the minimum.
	for i := range result.Ingredients {
		if result.Ingredients[i].Mandatory && result.Ingredients[i].Possible == capacity {
			result.Ingredients[i].IsBottleneck = true
		}
	}

	return result, nil
}

// rejectNestedOrCyclic walks the recipe with a visited set. Ingredients are
// expected to be simple stock-backed products; an ingredient that is itself a
// combo means either unsupported nesting or a definition cycle, and both fail
// loudly instead of recursing.
func (c *CapacityCalculator) rejectNestedOrCyclic(ctx context.Context, comboProductID uuid.UUID, definition *catalog.ComboDefinition) error {
	visited := map[uuid.UUID]bool{comboProductID: true}

	ids := make([]uuid.UUID, 0, len(definition.Ingredients))
	for _, ing := range definition.Ingredients {
		if visited[ing.IngredientProductID] {
			return shared.ErrInvalidComboDefinition
		}
		visited[ing.IngredientProductID] = true
		ids = append(ids, ing.IngredientProductID)
	}

	products, err := c.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.IsCombo {
			return shared.ErrInvalidComboDefinition
		}
	}
	return nil
}

// availableByIngredient batch-reads ingredient stock. Pairs with no stock
// record read as zero available.
func (c *CapacityCalculator) availableByIngredient(ctx context.Context, definition *catalog.ComboDefinition, warehouseID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(definition.Ingredients))
	for _, ing := range definition.Ingredients {
		ids = append(ids, ing.IngredientProductID)
	}

	records, err := c.stockRepo.FindByProducts(ctx, ids, warehouseID)
	if err != nil {
		return nil, err
	}

	available := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for _, id := range ids {
		available[id] = decimal.Zero
	}
	for _, record := range records {
		available[record.ProductID] = record.AvailableQuantity()
	}
	return available, nil
}
