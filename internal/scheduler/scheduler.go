package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yonatan12121/TMS/internal/config"
)

// runTimeout bounds a single maintenance run.
const runTimeout = 5 * time.Minute

// TokenSweeper clears expired one-time tokens.
type TokenSweeper interface {
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

// JobPurger deletes finished background jobs.
type JobPurger interface {
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler wraps cron-based maintenance jobs.
type Scheduler struct {
	cron      *cron.Cron
	sweeper   TokenSweeper
	purger    JobPurger
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// New creates a Scheduler. Panics inside a job are recovered and logged.
func New(sweeper TokenSweeper, purger JobPurger, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "scheduler"))
	cl := cronLogger{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper: sweeper,
		purger:  purger,
		now:     time.Now,
		logger:  logger,
	}
}

// Register adds the maintenance jobs on the schedules of cfg.
func (s *Scheduler) Register(cfg config.SchedulerConfig) error {
	s.retention = time.Duration(cfg.JobRetentionDays) * 24 * time.Hour

	if _, err := s.cron.AddFunc(cfg.TokenSweepSpec, s.run("token_sweep", s.SweepTokens)); err != nil {
		return fmt.Errorf("invalid token sweep schedule %q: %w", cfg.TokenSweepSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.JobPurgeSpec, s.run("job_purge", s.PurgeJobs)); err != nil {
		return fmt.Errorf("invalid job purge schedule %q: %w", cfg.JobPurgeSpec, err)
	}

	s.logger.Info("maintenance jobs scheduled",
		slog.String("token_sweep", cfg.TokenSweepSpec),
		slog.String("job_purge", cfg.JobPurgeSpec))
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepTokens clears expired verification and reset tokens.
func (s *Scheduler) SweepTokens(ctx context.Context) error {
	n, err := s.sweeper.SweepExpiredTokens(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("token sweep finished", slog.Int64("users", n))
	return nil
}

// PurgeJobs deletes completed and failed jobs older than the retention period.
func (s *Scheduler) PurgeJobs(ctx context.Context) error {
	before := s.now().UTC().Add(-s.retention)
	n, err := s.purger.DeleteFinishedBefore(ctx, before)
	if err != nil {
		return err
	}
	s.logger.Debug("job purge finished",
		slog.Int64("deleted", n),
		slog.Time("before", before))
	return nil
}

func (s *Scheduler) run(name string, fn func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("scheduled job failed",
				slog.String("job", name),
				slog.String("error", err.Error()))
		}
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)
	l.logger.Error(msg, args...)
}
