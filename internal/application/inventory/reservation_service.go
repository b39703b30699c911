package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

const (
	// DefaultReservationTTL is applied when a reserve request carries no TTL
	DefaultReservationTTL = 30 * time.Minute
)

// ReservationService manages the reservation lifecycle. Every transition runs
// inside a transaction that locks the stock record row first, so concurrent
// reservers serialize on the row and available quantity can never go negative.
type ReservationService struct {
	reservationRepo inventory.ReservationRepository
	stockRepo       inventory.StockRecordRepository
	txScope         TransactionScope
	defaultTTL      time.Duration
	eventPublisher  shared.EventPublisher
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	reservationRepo inventory.ReservationRepository,
	stockRepo inventory.StockRecordRepository,
	txScope TransactionScope,
	defaultTTL time.Duration,
) *ReservationService {
	if defaultTTL == 0 {
		defaultTTL = DefaultReservationTTL
	}
	return &ReservationService{
		reservationRepo: reservationRepo,
		stockRepo:       stockRepo,
		txScope:         txScope,
		defaultTTL:      defaultTTL,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Reserve places a hold on available stock. A product-warehouse pair with no
// stock record reads as zero available, so the request fails with
// ErrInsufficientStock rather than creating a record.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveStockRequest) (*ReservationResponse, error) {
	sourceType := inventory.SourceType(req.SourceType)
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "invalid reservation source type")
	}

	ttl := s.defaultTTL
	if req.TTL != nil {
		ttl = *req.TTL
	}

	var response *ReservationResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.StockRepo().FindForUpdate(ctx, req.ProductID, req.WarehouseID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrInsufficientStock
			}
			return err
		}

		before := record.AvailableQuantity()
		if err := record.Reserve(req.Quantity); err != nil {
			return err
		}

		reservation, err := inventory.NewReservation(req.ProductID, req.WarehouseID, req.Quantity, sourceType, req.SourceID, ttl)
		if err != nil {
			return err
		}

		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}
		if err := repos.ReservationRepo().Save(ctx, reservation); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(record, inventory.MovementTypeReserve, req.Quantity.Neg(), before)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Save(ctx, movement.WithReservation(reservation)); err != nil {
			return err
		}

		events = collectDomainEvents(record, reservation)
		response = NewReservationResponse(reservation)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishDomainEvents(ctx, s.eventPublisher, events)
	return response, nil
}

// Consume fulfills an active reservation, removing its quantity from both
// reserved and on-hand stock
func (s *ReservationService) Consume(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	return s.resolve(ctx, reservationID, func(reservation *inventory.Reservation, record *inventory.StockRecord) (inventory.MovementType, error) {
		if err := reservation.Consume(); err != nil {
			return "", err
		}
		if err := record.ConsumeReserved(reservation.Quantity); err != nil {
			return "", err
		}
		return inventory.MovementTypeConsume, nil
	})
}

// Release cancels an active reservation, returning its quantity to available
func (s *ReservationService) Release(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	return s.resolve(ctx, reservationID, func(reservation *inventory.Reservation, record *inventory.StockRecord) (inventory.MovementType, error) {
		if err := reservation.Release(); err != nil {
			return "", err
		}
		if err := record.ReleaseReserved(reservation.Quantity); err != nil {
			return "", err
		}
		return inventory.MovementTypeRelease, nil
	})
}

// Expire transitions an overdue reservation to expired and frees its stock.
// The deadline check happens inside the transaction against a single clock
// reading, so a reservation is expired at most once.
func (s *ReservationService) Expire(ctx context.Context, reservationID uuid.UUID, now time.Time) (*ReservationResponse, error) {
	return s.resolve(ctx, reservationID, func(reservation *inventory.Reservation, record *inventory.StockRecord) (inventory.MovementType, error) {
		if !reservation.IsExpiredAt(now) {
			return "", shared.ErrInvalidReservationState
		}
		if err := reservation.Expire(); err != nil {
			return "", err
		}
		if err := record.ReleaseReserved(reservation.Quantity); err != nil {
			return "", err
		}
		return inventory.MovementTypeExpire, nil
	})
}

// resolve applies a terminal transition to a reservation and its stock record
// atomically. The stock row is locked before the reservation is re-read so the
// transition races neither other resolvers nor the expiry sweeper.
func (s *ReservationService) resolve(
	ctx context.Context,
	reservationID uuid.UUID,
	transition func(*inventory.Reservation, *inventory.StockRecord) (inventory.MovementType, error),
) (*ReservationResponse, error) {
	var response *ReservationResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		reservation, err := repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}

		record, err := repos.StockRepo().FindForUpdate(ctx, reservation.ProductID, reservation.WarehouseID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// An active reservation without a backing stock record is a
				// bookkeeping bug, not a recoverable condition.
				return shared.ErrReservationInvariantViolation
			}
			return err
		}

		// Re-read under the row lock; another transaction may have resolved
		// the reservation while we waited.
		reservation, err = repos.ReservationRepo().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}

		before := record.AvailableQuantity()
		quantity := reservation.Quantity

		movementType, err := transition(reservation, record)
		if err != nil {
			return err
		}

		if err := repos.ReservationRepo().Save(ctx, reservation); err != nil {
			return err
		}
		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}

		delta := quantity
		if movementType == inventory.MovementTypeConsume {
			// Consuming removes reserved stock; available is unchanged.
			delta = decimal.Zero
		}
		movement, err := inventory.NewStockMovement(record, movementType, delta, before)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Save(ctx, movement.WithReservation(reservation)); err != nil {
			return err
		}

		events = collectDomainEvents(record, reservation)
		response = NewReservationResponse(reservation)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishDomainEvents(ctx, s.eventPublisher, events)
	return response, nil
}

// GetByID returns a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return NewReservationResponse(reservation), nil
}

// ListBySource returns reservations for a source document
func (s *ReservationService) ListBySource(ctx context.Context, sourceType, sourceID string) ([]*ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindBySource(ctx, inventory.SourceType(sourceType), sourceID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ReservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		responses = append(responses, NewReservationResponse(reservation))
	}
	return responses, nil
}

// List returns reservations with pagination
func (s *ReservationService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ReservationResponse], error) {
	page, err := s.reservationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*ReservationResponse, 0, len(page.Items))
	for _, reservation := range page.Items {
		responses = append(responses, NewReservationResponse(reservation))
	}
	return shared.NewPaginated(responses, page.Total, filter.Page, filter.PageSize), nil
}

// ReleaseBySource releases all active reservations for a source document,
// as when an order is cancelled. Returns the number released.
func (s *ReservationService) ReleaseBySource(ctx context.Context, sourceType, sourceID string) (int, error) {
	reservations, err := s.reservationRepo.FindBySource(ctx, inventory.SourceType(sourceType), sourceID)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, reservation := range reservations {
		if !reservation.IsActive() {
			continue
		}
		if _, err := s.Release(ctx, reservation.GetID()); err != nil {
			// A reservation resolved concurrently is not a failure of this call.
			if errors.Is(err, shared.ErrInvalidReservationState) {
				continue
			}
			return released, err
		}
		released++
	}
	return released, nil
}
