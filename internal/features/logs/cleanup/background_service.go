package logs_cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"logstream/internal/config"
)

const DefaultCleanupInterval = 1 * time.Minute

// LogPruner is the part of the persistent store the cleanup workers need.
type LogPruner interface {
	IsEnabled() bool
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteBeyondNewest(ctx context.Context, keep int64) (int64, error)
}

// LogCleanupBackgroundService applies the store's own retention policy: a
// maximum record age and a maximum record count. A zero limit disables that
// policy.
type LogCleanupBackgroundService struct {
	pruner     LogPruner
	retention  time.Duration
	maxRecords int64
	interval   time.Duration
	logger     *slog.Logger
	now        func() time.Time

	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewLogCleanupBackgroundService(
	pruner LogPruner,
	retention time.Duration,
	maxRecords int64,
	interval time.Duration,
	logger *slog.Logger,
) *LogCleanupBackgroundService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	return &LogCleanupBackgroundService{
		pruner:     pruner,
		retention:  retention,
		maxRecords: maxRecords,
		interval:   interval,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *LogCleanupBackgroundService) IsEnabled() bool {
	return s.pruner.IsEnabled() && (s.retention > 0 || s.maxRecords > 0)
}

func (s *LogCleanupBackgroundService) StartWorkers() {
	if !s.IsEnabled() {
		s.logger.Info("Store cleanup is not configured, workers not started")
		return
	}

	s.startOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(context.Background())

		s.logger.Info("Starting log cleanup background workers",
			slog.Duration("interval", s.interval),
			slog.Duration("retention", s.retention),
			slog.Int64("maxRecords", s.maxRecords))

		s.wg.Add(2)
		go s.quotaEnforcerWorker()
		go s.retentionWorker()

		s.logger.Info("Log cleanup workers started successfully")
	})
}

// Stop cancels the workers and waits for them until ctx expires.
func (s *LogCleanupBackgroundService) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *LogCleanupBackgroundService) ExecuteAllTasksForTest() error {
	ctx := context.Background()

	if err := s.enforceCountQuota(ctx); err != nil {
		s.logger.Error("Error during quota enforcement in test execution", slog.String("error", err.Error()))
		return err
	}

	if err := s.enforceRetention(ctx); err != nil {
		s.logger.Error("Error during retention cleanup in test execution", slog.String("error", err.Error()))
		return err
	}

	return nil
}

func (s *LogCleanupBackgroundService) quotaEnforcerWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Quota enforcer worker started", slog.Duration("interval", s.interval))

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Quota enforcer worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Quota enforcer worker shutting down")
			return

		case <-ticker.C:
			if err := s.enforceCountQuota(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Error during quota enforcement", slog.String("error", err.Error()))
			}
		}
	}
}

func (s *LogCleanupBackgroundService) retentionWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Retention cleanup worker started", slog.Duration("interval", s.interval))

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Retention cleanup worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Retention cleanup worker shutting down")
			return

		case <-ticker.C:
			if err := s.enforceRetention(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Error during retention cleanup", slog.String("error", err.Error()))
			}
		}
	}
}

func (s *LogCleanupBackgroundService) enforceCountQuota(ctx context.Context) error {
	if s.maxRecords <= 0 || !s.pruner.IsEnabled() {
		return nil
	}

	deleted, err := s.pruner.DeleteBeyondNewest(ctx, s.maxRecords)
	if err != nil {
		return fmt.Errorf("failed to enforce count quota: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Deleted logs to enforce count quota",
			slog.Int64("deletedLogs", deleted),
			slog.Int64("maxRecords", s.maxRecords))
	}

	return nil
}

func (s *LogCleanupBackgroundService) enforceRetention(ctx context.Context) error {
	if s.retention <= 0 || !s.pruner.IsEnabled() {
		return nil
	}

	cutoffTime := s.now().UTC().Add(-s.retention)

	deleted, err := s.pruner.DeleteOlderThan(ctx, cutoffTime)
	if err != nil {
		return fmt.Errorf("failed to delete old logs: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Deleted logs past retention",
			slog.Int64("deletedLogs", deleted),
			slog.Time("cutoff", cutoffTime))
	}

	return nil
}
