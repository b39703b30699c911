package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are append-only; there is no update path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Save appends a movement record
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByStockRecord finds movements for a stock record, newest first
func (r *GormStockMovementRepository) FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockMovement], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("stock_record_id = ?", stockRecordID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "movement_date"
	}
	var movements []*inventory.StockMovement
	if err := applyFilter(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}
	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}

// FindBySource finds movements tied to a source document
func (r *GormStockMovementRepository) FindBySource(ctx context.Context, sourceType, sourceID string) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("movement_date").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure interface compliance
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
