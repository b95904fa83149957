package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueSweeper marks expired active leases overdue. Implemented by the
// ledger application service.
type OverdueSweeper interface {
	MarkOverdueLeases(ctx context.Context, asOf time.Time) (int, error)
}

// OverdueSchedulerConfig holds overdue sweep configuration
type OverdueSchedulerConfig struct {
	Enabled       bool
	SweepInterval time.Duration
}

// DefaultOverdueSchedulerConfig returns the default sweep configuration
func DefaultOverdueSchedulerConfig() OverdueSchedulerConfig {
	return OverdueSchedulerConfig{
		Enabled:       true,
		SweepInterval: time.Hour,
	}
}

// OverdueScheduler periodically runs the overdue-lease sweep.
// The sweep is idempotent, so overlapping deployments running it
// concurrently at most contend on individual lease rows.
type OverdueScheduler struct {
	sweeper OverdueSweeper
	config  OverdueSchedulerConfig
	logger  *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewOverdueScheduler creates a new OverdueScheduler
func NewOverdueScheduler(sweeper OverdueSweeper, config OverdueSchedulerConfig, logger *zap.Logger) *OverdueScheduler {
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Hour
	}
	return &OverdueScheduler{
		sweeper: sweeper,
		config:  config,
		logger:  logger.Named("overdue-scheduler"),
	}
}

// Start begins the periodic sweep. It returns immediately; the sweep
// loop runs in a background goroutine until Stop is called.
func (s *OverdueScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("overdue sweep disabled")
		return nil
	}
	if s.running {
		return nil
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.wg.Add(1)

	go s.run(ctx)

	s.logger.Info("overdue sweep started",
		zap.Duration("interval", s.config.SweepInterval),
	)
	return nil
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (s *OverdueScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("overdue sweep stopped")
}

// RunOnce executes a single sweep immediately.
func (s *OverdueScheduler) RunOnce(ctx context.Context) error {
	marked, err := s.sweeper.MarkOverdueLeases(ctx, time.Now())
	if err != nil {
		s.logger.Error("overdue sweep failed", zap.Error(err))
		return err
	}
	if marked > 0 {
		s.logger.Info("overdue sweep completed", zap.Int("leases_marked", marked))
	} else {
		s.logger.Debug("overdue sweep completed, nothing to mark")
	}
	return nil
}

func (s *OverdueScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	// Sweep once at startup so a long-stopped deployment catches up
	// without waiting a full interval.
	_ = s.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
