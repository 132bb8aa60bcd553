package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a job
type Status string

// Possible job status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrUnknownJobType is returned when a persisted job has no registered factory.
var ErrUnknownJobType = errors.New("unknown job type")

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier used to find its factory on recovery
	Type() string

	// Payload returns the job data as JSON
	Payload() []byte

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// Record is a job as persisted in the store.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Factory rebuilds an executable Job from its persisted record.
type Factory func(rec Record) (Job, error)

// JobStore defines the interface for persisting jobs
type JobStore interface {
	// SaveJob persists a job in the pending state
	SaveJob(ctx context.Context, job Job) error

	// UpdateJobStatus updates the status of a job
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status Status, errorMsg string) error

	// GetPendingJobs retrieves jobs with "pending" status, oldest first.
	// If olderThan is non-zero, only jobs last updated more than olderThan
	// ago are returned.
	GetPendingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error)

	// GetProcessingJobs retrieves jobs with "processing" status.
	// If olderThan is non-zero, only jobs that have been in this state
	// longer than olderThan are returned.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error)

	// DeleteFinishedBefore removes completed and failed jobs last updated
	// before the given time and returns how many were removed.
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
}
