package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/tailor/backend/internal/application/payment"
	"go.uber.org/zap"
)

// ReminderSchedulerConfig holds configuration for the payment
// reminder scheduler
type ReminderSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// SweepInterval is how often due installments are checked
	SweepInterval time.Duration

	// SweepTimeout is the maximum time for a single sweep
	SweepTimeout time.Duration
}

// DefaultReminderSchedulerConfig returns default configuration
func DefaultReminderSchedulerConfig() ReminderSchedulerConfig {
	return ReminderSchedulerConfig{
		Enabled:       true,
		SweepInterval: time.Hour,
		SweepTimeout:  5 * time.Minute,
	}
}

// ReminderScheduler periodically sweeps due installments and sends
// payment reminders. A reminder already sent today is skipped, so the
// sweep is safe to run as often as configured.
type ReminderScheduler struct {
	service   *payment.Service
	logger    *zap.Logger
	config    ReminderSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReminderScheduler creates a new reminder scheduler
func NewReminderScheduler(
	service *payment.Service,
	logger *zap.Logger,
	config ReminderSchedulerConfig,
) *ReminderScheduler {
	return &ReminderScheduler{
		service: service,
		logger:  logger,
		config:  config,
	}
}

// Start starts the reminder scheduler
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("payment reminder scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("payment reminder scheduler started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *ReminderScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("payment reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("payment reminder scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	// First sweep right after startup so restarts never miss a day
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReminderScheduler) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	result, err := s.service.SendDueReminders(sweepCtx, time.Now())
	if err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
		return
	}

	if result.Due > 0 {
		s.logger.Info("reminder sweep completed",
			zap.Int("due", result.Due),
			zap.Int("sent", result.Sent),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}
}
