package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/tasks"
)

// CleanupEnqueuer hands a cleanup run to the task queue.
type CleanupEnqueuer interface {
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error)
}

// AuditCleanupScheduler periodically removes old audit events. With a task
// queue the run is enqueued so it gets retries; without one the cleaner is
// called inline.
type AuditCleanupScheduler struct {
	enqueuer CleanupEnqueuer
	cleaner  tasks.AuditEventCleaner
	config   config.Audit
	logger   *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	schedule  cron.Schedule
	mu        sync.RWMutex
	isRunning bool
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NewAuditCleanupScheduler creates a scheduler. enqueuer may be nil when the
// task queue is disabled.
func NewAuditCleanupScheduler(enqueuer CleanupEnqueuer, cleaner tasks.AuditEventCleaner, cfg config.Audit, logger *zap.Logger) *AuditCleanupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditCleanupScheduler{
		enqueuer: enqueuer,
		cleaner:  cleaner,
		config:   cfg,
		logger:   logger.Named("audit_cleanup"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// ValidateCronSchedule validates a 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start begins the scheduler if cleanup is enabled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.CleanupEnabled {
		s.logger.Info("audit cleanup scheduler disabled")
		return nil
	}

	schedule, err := parser.Parse(s.config.CleanupSchedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.CleanupSchedule, err)
	}

	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.run(ctx)
	}))
	s.schedule = schedule

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("audit cleanup scheduler started",
		zap.String("schedule", s.config.CleanupSchedule),
		zap.Int("retention_days", s.config.RetentionDays),
		zap.Time("next_run", schedule.Next(time.Now())))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.logger.Info("audit cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur.
func (s *AuditCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.schedule.Next(time.Now())
	return &next
}

// RunNow performs one cleanup immediately.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) {
	s.run(ctx)
}

func (s *AuditCleanupScheduler) run(ctx context.Context) {
	if s.enqueuer != nil {
		id, err := s.enqueuer.EnqueueAuditCleanup(ctx, s.config.RetentionDays)
		if err != nil {
			s.logger.Error("failed to enqueue audit cleanup", zap.Error(err))
			return
		}
		s.logger.Info("audit cleanup enqueued", zap.String("task_id", id))
		return
	}

	if s.cleaner == nil {
		s.logger.Warn("audit cleanup skipped, no cleaner configured")
		return
	}

	err := tasks.CleanupAuditEventsProcessor(s.cleaner, s.logger)(ctx, tasks.CleanupAuditEventsTask{
		RetentionDays: s.config.RetentionDays,
	})
	if err != nil {
		s.logger.Error("audit cleanup failed", zap.Error(err))
	}
}
