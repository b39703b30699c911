package inventory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/comercial/backend/internal/domain/inventory"
	"github.com/comercial/backend/internal/domain/shared"
)

// DefaultExpirationBatchSize caps how many reservations one sweep processes
const DefaultExpirationBatchSize = 100

// ReservationExpirationService sweeps overdue reservations and returns their
// quantity to available stock
type ReservationExpirationService struct {
	reservationRepo    inventory.ReservationRepository
	reservationService *ReservationService
	batchSize          int
	logger             *zap.Logger
}

// NewReservationExpirationService creates a new ReservationExpirationService
func NewReservationExpirationService(
	reservationRepo inventory.ReservationRepository,
	reservationService *ReservationService,
	logger *zap.Logger,
) *ReservationExpirationService {
	return &ReservationExpirationService{
		reservationRepo:    reservationRepo,
		reservationService: reservationService,
		batchSize:          DefaultExpirationBatchSize,
		logger:             logger,
	}
}

// SetBatchSize caps how many due reservations a single sweep processes.
// Values below one keep the current batch size.
func (s *ReservationExpirationService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// ExpiredReservationStats contains statistics about one expiry sweep
type ExpiredReservationStats struct {
	TotalDue       int       `json:"total_due"`
	SuccessExpired int       `json:"success_expired"`
	FailedExpiries int       `json:"failed_expiries"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// ExpireDueReservations finds overdue active reservations and expires each in
// its own transaction. One bad reservation never blocks the rest of the sweep,
// and a reservation resolved concurrently is skipped, not failed.
func (s *ReservationExpirationService) ExpireDueReservations(ctx context.Context) (*ExpiredReservationStats, error) {
	now := time.Now()
	stats := &ExpiredReservationStats{
		ProcessedAt: now,
	}

	due, err := s.reservationRepo.FindExpired(ctx, now, s.batchSize)
	if err != nil {
		s.logger.Error("Failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalDue = len(due)
	if stats.TotalDue == 0 {
		s.logger.Debug("No expired reservations found")
		return stats, nil
	}

	s.logger.Info("Found expired reservations",
		zap.Int("count", stats.TotalDue),
	)

	for _, reservation := range due {
		_, err := s.reservationService.Expire(ctx, reservation.GetID(), now)
		if err != nil {
			if errors.Is(err, shared.ErrInvalidReservationState) {
				// Consumed, released, or already expired since the query ran.
				continue
			}

			logFn := s.logger.Error
			if errors.Is(err, shared.ErrReservationInvariantViolation) {
				// Stock bookkeeping is inconsistent for this reservation.
				// Loud log, manual intervention needed.
				logFn = s.logger.DPanic
			}
			logFn("Failed to expire reservation",
				zap.String("reservation_id", reservation.GetID().String()),
				zap.String("source_type", reservation.SourceType.String()),
				zap.String("source_id", reservation.SourceID),
				zap.Error(err),
			)
			stats.FailedExpiries++
			continue
		}
		stats.SuccessExpired++
	}

	s.logger.Info("Completed reservation expiry sweep",
		zap.Int("total", stats.TotalDue),
		zap.Int("expired", stats.SuccessExpired),
		zap.Int("failed", stats.FailedExpiries),
	)

	return stats, nil
}
