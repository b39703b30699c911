package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProductAndWarehouse finds the stock record for a product-warehouse pair
func (r *GormStockRecordRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindForUpdate locks the stock record row with SELECT ... FOR UPDATE.
// Callers must run inside a transaction scope; concurrent reservers for the
// same pair serialize here.
func (r *GormStockRecordRepository) FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds stock records for a product across all warehouses
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.StockRecord, error) {
	var records []*inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByWarehouse finds stock records at a warehouse with pagination
func (r *GormStockRecordRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockRecord], error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("warehouse_id = ?", warehouseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []*inventory.StockRecord
	if err := applyFilter(query, filter).Find(&records).Error; err != nil {
		return nil, err
	}
	return shared.NewPaginated(records, total, filter.Page, filter.PageSize), nil
}

// FindByProducts finds stock records for a set of products at a warehouse
func (r *GormStockRecordRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var records []*inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id IN ? AND warehouse_id = ?", productIDs, warehouseID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindBelowThreshold finds records below their reorder threshold
func (r *GormStockRecordRepository) FindBelowThreshold(ctx context.Context, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	var records []*inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND min_quantity > 0 AND (on_hand_quantity - reserved_quantity) < min_quantity", warehouseID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save persists a stock record. Existing rows are updated with an optimistic
// version check; a stale version fails with ErrConcurrencyConflict instead of
// overwriting another transaction's write.
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	currentVersion := record.GetVersion()
	now := time.Now()

	result := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("id = ? AND version = ?", record.ID, currentVersion).
		Updates(map[string]interface{}{
			"on_hand_quantity":  record.OnHandQuantity,
			"reserved_quantity": record.ReservedQuantity,
			"min_quantity":      record.MinQuantity,
			"version":           currentVersion + 1,
			"updated_at":        now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		record.IncrementVersion()
		record.UpdatedAt = now
		return nil
	}

	// No row matched: either the record is new or the version is stale.
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
		Where("id = ?", record.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// Delete removes a stock record
func (r *GormStockRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)
