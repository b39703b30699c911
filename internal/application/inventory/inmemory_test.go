package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]shared.DomainEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

type stockKey struct {
	productID   uuid.UUID
	warehouseID uuid.UUID
}

// memStockRepo is an in-memory StockRecordRepository. Returned records are
// copies so uncommitted mutations never leak into the store.
type memStockRepo struct {
	mu      sync.Mutex
	records map[stockKey]*inventory.StockRecord
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{records: make(map[stockKey]*inventory.StockRecord)}
}

func copyRecord(r *inventory.StockRecord) *inventory.StockRecord {
	c := *r
	c.ClearDomainEvents()
	return &c
}

func (m *memStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.GetID() == id {
			return copyRecord(r), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memStockRepo) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[stockKey{productID, warehouseID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyRecord(r), nil
}

func (m *memStockRepo) FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.StockRecord, error) {
	// Row locking is emulated by memTxScope serializing whole transactions.
	return m.FindByProductAndWarehouse(ctx, productID, warehouseID)
}

func (m *memStockRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockRecord
	for k, r := range m.records {
		if k.productID == productID {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (m *memStockRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockRecord], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockRecord
	for k, r := range m.records {
		if k.warehouseID == warehouseID {
			out = append(out, copyRecord(r))
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (m *memStockRepo) FindByProducts(ctx context.Context, productIDs []uuid.UUID, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockRecord
	for _, id := range productIDs {
		if r, ok := m.records[stockKey{id, warehouseID}]; ok {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (m *memStockRepo) FindBelowThreshold(ctx context.Context, warehouseID uuid.UUID) ([]*inventory.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockRecord
	for k, r := range m.records {
		if k.warehouseID == warehouseID && r.IsBelowThreshold() {
			out = append(out, copyRecord(r))
		}
	}
	return out, nil
}

func (m *memStockRepo) Save(ctx context.Context, record *inventory.StockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[stockKey{record.ProductID, record.WarehouseID}] = copyRecord(record)
	return nil
}

func (m *memStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, r := range m.records {
		if r.GetID() == id {
			delete(m.records, k)
			return nil
		}
	}
	return shared.ErrNotFound
}

// memReservationRepo is an in-memory ReservationRepository
type memReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*inventory.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: make(map[uuid.UUID]*inventory.Reservation)}
}

func copyReservation(r *inventory.Reservation) *inventory.Reservation {
	c := *r
	c.ClearDomainEvents()
	return &c
}

func (m *memReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyReservation(r), nil
}

func (m *memReservationRepo) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]*inventory.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.Reservation
	for _, r := range m.reservations {
		if r.SourceType == sourceType && r.SourceID == sourceID {
			out = append(out, copyReservation(r))
		}
	}
	return out, nil
}

func (m *memReservationRepo) FindActiveByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]*inventory.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.Reservation
	for _, r := range m.reservations {
		if r.ProductID == productID && r.WarehouseID == warehouseID && r.IsActive() {
			out = append(out, copyReservation(r))
		}
	}
	return out, nil
}

func (m *memReservationRepo) FindExpired(ctx context.Context, before time.Time, limit int) ([]*inventory.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.Reservation
	for _, r := range m.reservations {
		if r.IsExpiredAt(before) {
			out = append(out, copyReservation(r))
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memReservationRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*inventory.Reservation], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*inventory.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, copyReservation(r))
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (m *memReservationRepo) Save(ctx context.Context, reservation *inventory.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[reservation.GetID()] = copyReservation(reservation)
	return nil
}

func (m *memReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reservations, id)
	return nil
}

// memMovementRepo is an in-memory append-only StockMovementRepository
type memMovementRepo struct {
	mu        sync.Mutex
	movements []*inventory.StockMovement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (m *memMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

func (m *memMovementRepo) FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.StockMovement], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockMovement
	for _, mv := range m.movements {
		if mv.StockRecordID == stockRecordID {
			out = append(out, mv)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (m *memMovementRepo) FindBySource(ctx context.Context, sourceType, sourceID string) ([]*inventory.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockMovement
	for _, mv := range m.movements {
		if mv.SourceType == sourceType && mv.SourceID == sourceID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memMovementRepo) byType(movementType inventory.MovementType) []*inventory.StockMovement {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*inventory.StockMovement
	for _, mv := range m.movements {
		if mv.MovementType == movementType {
			out = append(out, mv)
		}
	}
	return out
}

// memTxScope serializes transactions with a single mutex, standing in for the
// row locks a real database would take
type memTxScope struct {
	mu    sync.Mutex
	repos *NoOpTransactionScope
}

func newMemTxScope(stock *memStockRepo, reservations *memReservationRepo, movements *memMovementRepo) *memTxScope {
	return &memTxScope{
		repos: NewNoOpTransactionScope(stock, reservations, movements),
	}
}

func (s *memTxScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.repos)
}

// testFixture bundles the fakes every service test needs
type testFixture struct {
	stock        *memStockRepo
	reservations *memReservationRepo
	movements    *memMovementRepo
	txScope      *memTxScope
	publisher    *MockEventPublisher
}

func newTestFixture() *testFixture {
	stock := newMemStockRepo()
	reservations := newMemReservationRepo()
	movements := newMemMovementRepo()
	return &testFixture{
		stock:        stock,
		reservations: reservations,
		movements:    movements,
		txScope:      newMemTxScope(stock, reservations, movements),
		publisher:    NewMockEventPublisher(),
	}
}

func (f *testFixture) ledgerService() *StockLedgerService {
	s := NewStockLedgerService(f.stock, f.movements, f.txScope)
	s.SetEventPublisher(f.publisher)
	return s
}

func (f *testFixture) reservationService(defaultTTL time.Duration) *ReservationService {
	s := NewReservationService(f.reservations, f.stock, f.txScope, defaultTTL)
	s.SetEventPublisher(f.publisher)
	return s
}
