package scheduler

import (
	"context"
	"sync"
	"time"

	billingUsecases "sokogate/internal/application/billing/usecases"
	"sokogate/internal/shared/logger"
)

// BillingScheduler runs the billing sweep on a fixed interval. Each run
// settles every subscription whose period has ended or whose retry is due.
type BillingScheduler struct {
	sweepUC  *billingUsecases.RunBillingSweepUseCase
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	interval time.Duration
}

func NewBillingScheduler(
	sweepUC *billingUsecases.RunBillingSweepUseCase,
	interval time.Duration,
	logger logger.Interface,
) *BillingScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BillingScheduler{
		sweepUC:  sweepUC,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start begins the sweep loop.
func (s *BillingScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting billing scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully, waiting for an in-flight sweep.
func (s *BillingScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping billing scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("billing scheduler stopped")
	})
}

func (s *BillingScheduler) runLoop(ctx context.Context) {
	// Sweep immediately on startup to settle anything that came due while
	// the process was down.
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("billing scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *BillingScheduler) runSweep(ctx context.Context) {
	startTime := time.Now()

	result, err := s.sweepUC.Execute(ctx, billingUsecases.RunBillingSweepCommand{Now: time.Now().UTC()})
	if err != nil {
		s.logger.Errorw("billing sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Processed > 0 {
		s.logger.Infow("billing sweep run finished",
			"processed", result.Processed,
			"renewed", result.Renewed,
			"past_due", result.MarkedPastDue,
			"cancelled", result.Cancelled,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no due subscriptions", "duration", time.Since(startTime))
	}
}
