package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by its ID
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	var reservation inventory.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// FindBySource finds reservations originating from a source document
func (r *GormReservationRepository) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]*inventory.Reservation, error) {
	var reservations []*inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActiveByProduct finds active reservations for a product at a warehouse
func (r *GormReservationRepository) FindActiveByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]*inventory.Reservation, error) {
	var reservations []*inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ? AND status = ?", productID, warehouseID, inventory.ReservationStatusActive).
		Order("created_at").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindExpired finds active reservations whose deadline passed before the
// given instant, oldest deadline first
func (r *GormReservationRepository) FindExpired(ctx context.Context, before time.Time, limit int) ([]*inventory.Reservation, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", inventory.ReservationStatusActive, before).
		Order("expires_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reservations []*inventory.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindAll finds reservations with pagination. Filter keys "status",
// "product_id", and "warehouse_id" narrow the result.
func (r *GormReservationRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.Reservation], error) {
	query := r.db.WithContext(ctx).Model(&inventory.Reservation{})

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if warehouseID, ok := filter.Filters["warehouse_id"]; ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reservations []*inventory.Reservation
	if err := applyFilter(query, filter).Find(&reservations).Error; err != nil {
		return nil, err
	}
	return shared.NewPaginated(reservations, total, filter.Page, filter.PageSize), nil
}

// Save persists a reservation
func (r *GormReservationRepository) Save(ctx context.Context, reservation *inventory.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// Delete removes a reservation
func (r *GormReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Reservation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
