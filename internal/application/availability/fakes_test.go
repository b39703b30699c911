package availability

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appinventory "github.com/comercial/backend/internal/application/inventory"
	"github.com/comercial/backend/internal/domain/catalog"
	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// fakeProductRepo is an in-memory catalog.ProductRepository
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.GetID()] = product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

// fakeComboRepo is an in-memory catalog.ComboDefinitionRepository
type fakeComboRepo struct {
	mu          sync.Mutex
	definitions map[uuid.UUID]*catalog.ComboDefinition // keyed by combo product
}

func newFakeComboRepo() *fakeComboRepo {
	return &fakeComboRepo{definitions: make(map[uuid.UUID]*catalog.ComboDefinition)}
}

func (f *fakeComboRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ComboDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.definitions {
		if d.GetID() == id {
			return d, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeComboRepo) FindByComboProduct(ctx context.Context, comboProductID uuid.UUID) (*catalog.ComboDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.definitions[comboProductID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return d, nil
}

func (f *fakeComboRepo) ExistsByComboProduct(ctx context.Context, comboProductID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.definitions[comboProductID]
	return ok, nil
}

func (f *fakeComboRepo) Save(ctx context.Context, def *catalog.ComboDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.definitions[def.ComboProductID] = def
	return nil
}

func (f *fakeComboRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, d := range f.definitions {
		if d.GetID() == id {
			delete(f.definitions, key)
		}
	}
	return nil
}

type stockKey struct {
	productID   uuid.UUID
	warehouseID uuid.UUID
}

// fakeStockRepo is an in-memory inventory.StockRecordRepository
type fakeStockRepo struct {
	mu      sync.Mutex
	records map[stockKey]*inventory.StockRecord
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{records: make(map[stockKey]*inventory.StockRecord)}
}

func copyRecord(r *inventory.StockRecord) *inventory.StockRecord {
	c := *r
	c.ClearDomainEvents()
	return &c
}

func (f *fakeStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.GetID() == id {
			return copyRecord(r), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeStockRepo) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[stockKey{productID, warehouseID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyRecord(r), nil
}

func (f *fakeStockRepo) FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	return f.FindByProductAndWarehouse(ctx, productID, warehouseID)
}

func (f *fakeStockRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.StockRecord
	for k, r := range f.records {
		if k.productID == productID {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (f *fakeStockRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockRecord], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.StockRecord
	for k, r := range f.records {
		if k.warehouseID == warehouseID {
			out = append(out, copyRecord(r))
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (f *fakeStockRepo) FindByProducts(ctx context.Context, productIDs []uuid.UUID, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.StockRecord
	for _, id := range productIDs {
		if r, ok := f.records[stockKey{id, warehouseID}]; ok {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (f *fakeStockRepo) FindBelowThreshold(ctx context.Context, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.StockRecord
	for k, r := range f.records {
		if k.warehouseID == warehouseID && r.IsBelowThreshold() {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (f *fakeStockRepo) Save(ctx context.Context, record *inventory.StockRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[stockKey{record.ProductID, record.WarehouseID}] = copyRecord(record)
	return nil
}

func (f *fakeStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, r := range f.records {
		if r.GetID() == id {
			delete(f.records, k)
			return nil
		}
	}
	return shared.ErrNotFound
}

// fakeReservationRepo is an in-memory inventory.ReservationRepository
type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*inventory.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*inventory.Reservation)}
}

func copyReservation(r *inventory.Reservation) *inventory.Reservation {
	c := *r
	c.ClearDomainEvents()
	return &c
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyReservation(r), nil
}

func (f *fakeReservationRepo) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]*inventory.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.Reservation
	for _, r := range f.reservations {
		if r.SourceType == sourceType && r.SourceID == sourceID {
			out = append(out, copyReservation(r))
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindActiveByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]*inventory.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.Reservation
	for _, r := range f.reservations {
		if r.ProductID == productID && r.WarehouseID == warehouseID && r.IsActive() {
			out = append(out, copyReservation(r))
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindExpired(ctx context.Context, before time.Time, limit int) ([]*inventory.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.Reservation
	for _, r := range f.reservations {
		if r.IsExpiredAt(before) {
			out = append(out, copyReservation(r))
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.Reservation], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*inventory.Reservation, 0, len(f.reservations))
	for _, r := range f.reservations {
		out = append(out, copyReservation(r))
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (f *fakeReservationRepo) Save(ctx context.Context, reservation *inventory.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations[reservation.GetID()] = copyReservation(reservation)
	return nil
}

func (f *fakeReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reservations, id)
	return nil
}

// fakeMovementRepo is an in-memory inventory.StockMovementRepository
type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*inventory.StockMovement
}

func (f *fakeMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = append(f.movements, movement)
	return nil
}

func (f *fakeMovementRepo) FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockMovement], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.StockMovement
	for _, m := range f.movements {
		if m.StockRecordID == stockRecordID {
			out = append(out, m)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (f *fakeMovementRepo) FindBySource(ctx context.Context, sourceType, sourceID string) ([]*inventory.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*inventory.StockMovement
	for _, m := range f.movements {
		if m.SourceType == sourceType && m.SourceID == sourceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeTxScope serializes transactions with one mutex
type fakeTxScope struct {
	mu    sync.Mutex
	repos *appinventory.NoOpTransactionScope
}

func (s *fakeTxScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.repos)
}

// fakeIdempotencyStore is an in-memory shared.IdempotencyStore
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeIdempotencyStore) Close() error { return nil }
