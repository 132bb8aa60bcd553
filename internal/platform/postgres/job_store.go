package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/jobs"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/store"
)

// PostgresJobStore implements the jobs.JobStore interface using PostgreSQL
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgresJobStore
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

var _ jobs.JobStore = (*PostgresJobStore)(nil)

// SaveJob persists a job in the pending state
func (s *PostgresJobStore) SaveJob(ctx context.Context, job jobs.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO email_jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query,
		job.ID(),
		job.Type(),
		job.Payload(),
		string(jobs.StatusPending),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save job",
			slog.String("job_id", job.ID().String()),
			slog.String("job_type", job.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save job to database: %w", MapError(err))
	}

	return nil
}

// UpdateJobStatus updates the status of a job
func (s *PostgresJobStore) UpdateJobStatus(
	ctx context.Context,
	id uuid.UUID,
	status jobs.Status,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE email_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, string(status), errorMsg, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update job status",
			slog.String("job_id", id.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update job status: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrJobNotFound)
}

// GetPendingJobs retrieves jobs with "pending" status
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context, olderThan time.Duration) ([]jobs.Record, error) {
	return s.getJobsByStatus(ctx, jobs.StatusPending, olderThan)
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *PostgresJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]jobs.Record, error) {
	return s.getJobsByStatus(ctx, jobs.StatusProcessing, olderThan)
}

// DeleteFinishedBefore removes completed and failed jobs last updated before the given time
func (s *PostgresJobStore) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM email_jobs
		WHERE status IN ($1, $2) AND updated_at < $3
	`
	result, err := s.db.ExecContext(ctx, query,
		string(jobs.StatusCompleted), string(jobs.StatusFailed), before.UTC())
	if err != nil {
		log.Error("failed to purge finished jobs", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to purge finished jobs: %w", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// getJobsByStatus is a helper method to get jobs by status with optional age filter
func (s *PostgresJobStore) getJobsByStatus(
	ctx context.Context,
	status jobs.Status,
	olderThan time.Duration,
) ([]jobs.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM email_jobs
		WHERE status = $1
		ORDER BY created_at ASC
	`
	args := []any{string(status)}
	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status, error_message, created_at, updated_at
			FROM email_jobs
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query jobs by status: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := make([]jobs.Record, 0)
	for rows.Next() {
		var (
			rec          jobs.Record
			jobStatus    string
			errorMessage sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Type,
			&rec.Payload,
			&jobStatus,
			&errorMessage,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		rec.Status = jobs.Status(jobStatus)
		rec.ErrorMessage = errorMessage.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return records, nil
}
