package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/config"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// StuckJobAge defines how long a job can be in processing state
	// before it's considered stuck and reset. Pending jobs left out of
	// the queue for this long are queued again.
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs.
	// If zero, defaults to 5 minutes
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// NewRunnerConfig converts application configuration into a RunnerConfig.
func NewRunnerConfig(cfg config.JobsConfig) RunnerConfig {
	rc := DefaultRunnerConfig()
	rc.WorkerCount = cfg.WorkerCount
	rc.QueueSize = cfg.QueueSize
	rc.StuckJobAge = time.Duration(cfg.StuckJobAgeMinutes) * time.Minute
	return rc
}

// Runner manages background job processing
type Runner struct {
	store      JobStore
	queue      *Queue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)

	mu        sync.RWMutex
	factories map[string]Factory

	// queued holds the IDs currently waiting in the queue.
	queuedMu sync.Mutex
	queued   map[uuid.UUID]struct{}
}

// NewRunner creates a new Runner
func NewRunner(store JobStore, cfg RunnerConfig, logger *slog.Logger) *Runner {
	if cfg.StuckJobCheckInterval == 0 {
		cfg.StuckJobCheckInterval = 5 * time.Minute
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "job_runner"))

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		queue:      NewQueue(cfg.QueueSize, logger),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     cfg,
		logger:     logger,
		errHandler: func(job Job, err error) {},
		factories:  make(map[string]Factory),
		queued:     make(map[uuid.UUID]struct{}),
	}
}

// SetErrorHandler allows setting a custom error handler function,
// called after a job has been marked failed.
func (r *Runner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Register adds the factory used to rebuild jobs of jobType on recovery.
func (r *Runner) Register(jobType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[jobType] = factory
}

// Submit persists the job and then queues it.
// If the queue is full the job stays pending in the store; the stuck job
// monitor queues it again once it is older than StuckJobAge.
func (r *Runner) Submit(ctx context.Context, job Job) error {
	if err := r.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	if err := r.enqueue(job); err != nil {
		return fmt.Errorf("failed to queue job %s: %w", job.ID(), err)
	}
	return nil
}

func (r *Runner) enqueue(job Job) error {
	r.queuedMu.Lock()
	r.queued[job.ID()] = struct{}{}
	r.queuedMu.Unlock()

	if err := r.queue.Enqueue(job); err != nil {
		r.dequeued(job.ID())
		return err
	}
	return nil
}

func (r *Runner) dequeued(id uuid.UUID) {
	r.queuedMu.Lock()
	delete(r.queued, id)
	r.queuedMu.Unlock()
}

func (r *Runner) isQueued(id uuid.UUID) bool {
	r.queuedMu.Lock()
	defer r.queuedMu.Unlock()
	_, ok := r.queued[id]
	return ok
}

// Start recovers unfinished jobs, then starts the workers and the stuck job monitor.
func (r *Runner) Start() error {
	if err := r.Recover(r.ctx); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	r.logger.Info("job runner started", slog.Int("worker_count", r.config.WorkerCount))
	return nil
}

// Stop gracefully shuts down the runner. Jobs still queued remain pending
// in the store.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	r.queue.Close()
	r.logger.Info("job runner stopped")
}

// Recover loads unfinished jobs from the store and queues them again.
// Jobs left in processing by a crash are reset to pending first.
func (r *Runner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		slog.Int("pending_count", len(pending)),
		slog.Int("processing_count", len(processing)))

	for _, rec := range pending {
		r.requeue(ctx, rec)
	}

	for _, rec := range processing {
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing job status",
				slog.String("job_id", rec.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(ctx, rec)
	}

	return nil
}

// requeue rebuilds a persisted job and queues it. A job whose type has no
// factory or whose payload cannot be decoded is marked failed.
func (r *Runner) requeue(ctx context.Context, rec Record) {
	log := r.logger.With(
		slog.String("job_id", rec.ID.String()),
		slog.String("job_type", rec.Type))

	job, err := r.rebuild(rec)
	if err != nil {
		log.Error("failed to rebuild job", slog.String("error", err.Error()))
		if updateErr := r.store.UpdateJobStatus(ctx, rec.ID, StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to mark job failed", slog.String("error", updateErr.Error()))
		}
		return
	}

	if err := r.enqueue(job); err != nil {
		log.Error("failed to requeue job", slog.String("error", err.Error()))
		return
	}
	log.Debug("job requeued")
}

func (r *Runner) rebuild(rec Record) (Job, error) {
	r.mu.RLock()
	factory, ok := r.factories[rec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, rec.Type)
	}
	return factory(rec)
}

// worker processes jobs from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case job, ok := <-r.queue.Channel():
			if !ok {
				return
			}
			r.dequeued(job.ID())
			r.processJob(job, id)
		}
	}
}

// processJob handles execution of a single job. The job runs on a context
// detached from Stop so an in-flight send is not cut off half way.
func (r *Runner) processJob(job Job, workerID int) {
	ctx := context.WithoutCancel(r.ctx)
	log := r.logger.With(
		slog.String("job_id", job.ID().String()),
		slog.String("job_type", job.Type()),
		slog.Int("worker_id", workerID),
	)

	if err := r.store.UpdateJobStatus(ctx, job.ID(), StatusProcessing, ""); err != nil {
		log.Error("failed to update job status to processing", slog.String("error", err.Error()))
		return
	}

	log.Debug("processing job")

	if err := job.Execute(ctx); err != nil {
		log.Error("job execution failed", slog.String("error", err.Error()))
		if updateErr := r.store.UpdateJobStatus(ctx, job.ID(), StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update job status to failed", slog.String("error", updateErr.Error()))
		}
		r.errHandler(job, err)
		return
	}

	if err := r.store.UpdateJobStatus(ctx, job.ID(), StatusCompleted, ""); err != nil {
		log.Error("failed to update job status to completed", slog.String("error", err.Error()))
		return
	}
	log.Info("job completed")
}

// stuckJobMonitor periodically resets jobs that have been in "processing"
// state for too long and queues them again, along with old pending jobs
// that are not in the queue
func (r *Runner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.resetStuckJobs(r.ctx)
			r.requeueStalePending(r.ctx)
		}
	}
}

func (r *Runner) resetStuckJobs(ctx context.Context) {
	stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to check for stuck jobs", slog.String("error", err.Error()))
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Info("found stuck jobs", slog.Int("count", len(stuck)))
	for _, rec := range stuck {
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending,
			"Reset after being stuck in processing state"); err != nil {
			r.logger.Error("failed to reset stuck job status",
				slog.String("job_id", rec.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(ctx, rec)
	}
}

// requeueStalePending queues pending jobs older than StuckJobAge that are
// not already waiting in the queue, such as jobs Submit could not queue.
func (r *Runner) requeueStalePending(ctx context.Context) {
	pending, err := r.store.GetPendingJobs(ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to check for stale pending jobs", slog.String("error", err.Error()))
		return
	}

	var requeued int
	for _, rec := range pending {
		if r.isQueued(rec.ID) {
			continue
		}
		r.requeue(ctx, rec)
		requeued++
	}
	if requeued > 0 {
		r.logger.Info("requeued stale pending jobs", slog.Int("count", requeued))
	}
}
