package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comercial/backend/internal/domain/catalog"
	"github.com/comercial/backend/internal/domain/shared"
)

// GormComboDefinitionRepository implements ComboDefinitionRepository using
// GORM. Ingredients are a child association of the definition aggregate and
// are always loaded in recipe order.
type GormComboDefinitionRepository struct {
	db *gorm.DB
}

// NewGormComboDefinitionRepository creates a new GormComboDefinitionRepository
func NewGormComboDefinitionRepository(db *gorm.DB) *GormComboDefinitionRepository {
	return &GormComboDefinitionRepository{db: db}
}

func (r *GormComboDefinitionRepository) withIngredients(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

// FindByID finds a combo definition by its ID
func (r *GormComboDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ComboDefinition, error) {
	var def catalog.ComboDefinition
	if err := r.withIngredients(ctx).First(&def, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &def, nil
}

// FindByComboProduct finds the recipe owned by a combo product
func (r *GormComboDefinitionRepository) FindByComboProduct(ctx context.Context, comboProductID uuid.UUID) (*catalog.ComboDefinition, error) {
	var def catalog.ComboDefinition
	if err := r.withIngredients(ctx).First(&def, "combo_product_id = ?", comboProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &def, nil
}

// ExistsByComboProduct checks whether a combo product has a recipe
func (r *GormComboDefinitionRepository) ExistsByComboProduct(ctx context.Context, comboProductID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.ComboDefinition{}).
		Where("combo_product_id = ?", comboProductID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a combo definition. Replaced ingredient rows are
// removed so the stored recipe always matches the aggregate exactly.
func (r *GormComboDefinitionRepository) Save(ctx context.Context, def *catalog.ComboDefinition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_definition_id = ?", def.ID).
			Delete(&catalog.ComboIngredient{}).Error; err != nil {
			return err
		}
		return tx.Save(def).Error
	})
}

// Delete deletes a combo definition and its ingredients
func (r *GormComboDefinitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_definition_id = ?", id).
			Delete(&catalog.ComboIngredient{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.ComboDefinition{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure interface compliance
var _ catalog.ComboDefinitionRepository = (*GormComboDefinitionRepository)(nil)
