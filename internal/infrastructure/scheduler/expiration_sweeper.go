package scheduler

import (
	"context"
	"sync"
	"time"

	appinventory "github.com/comercial/backend/internal/application/inventory"
	"go.uber.org/zap"
)

// ExpirationSweeperConfig holds configuration for the reservation sweeper
type ExpirationSweeperConfig struct {
	// Interval is how often due reservations are swept
	Interval time.Duration
}

// DefaultExpirationSweeperConfig returns the default sweeper configuration
func DefaultExpirationSweeperConfig() ExpirationSweeperConfig {
	return ExpirationSweeperConfig{
		Interval: time.Minute,
	}
}

// ExpirationSweeper periodically releases reservation holds whose deadline
// has passed. Each sweep delegates to the expiration service, which expires
// reservations one transaction at a time.
type ExpirationSweeper struct {
	config  ExpirationSweeperConfig
	service *appinventory.ReservationExpirationService
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpirationSweeper creates a new sweeper
func NewExpirationSweeper(
	config ExpirationSweeperConfig,
	service *appinventory.ReservationExpirationService,
	logger *zap.Logger,
) *ExpirationSweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultExpirationSweeperConfig().Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpirationSweeper{
		config:  config,
		service: service,
		logger:  logger.Named("expiration_sweeper"),
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a no-op.
func (s *ExpirationSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("reservation expiration sweeper started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop stops the sweeper, waiting for an in-flight sweep to finish or the
// context to expire
func (s *ExpirationSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("reservation expiration sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ExpirationSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirationSweeper) sweep(ctx context.Context) {
	stats, err := s.service.ExpireDueReservations(ctx)
	if err != nil {
		s.logger.Error("reservation sweep failed", zap.Error(err))
		return
	}
	if stats.TotalDue > 0 {
		s.logger.Info("reservation sweep completed",
			zap.Int("due", stats.TotalDue),
			zap.Int("expired", stats.SuccessExpired),
			zap.Int("failed", stats.FailedExpiries),
		)
	}
}
