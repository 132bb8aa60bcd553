package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
)

// TaskStore defines the interface for task, assignee and comment persistence.
//
// Methods taking an ownerID only see tasks owned by that user. A task owned
// by someone else is reported as ErrTaskNotFound, exactly like a missing one.
type TaskStore interface {
	// Create saves a new task together with its assignee links.
	// It MUST be run within a transaction for the task and its links to be
	// written atomically.
	// Returns ErrInvalidEntity if the owner, category or an assignee does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its assignees, regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetOwned retrieves a task with its assignees if ownerID owns it.
	GetOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListOwned returns the tasks owned by ownerID, newest first.
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)

	// Filter returns owned tasks matching every set predicate of filter.
	Filter(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, error)

	// ListVisible returns every task the user owns or is assigned to,
	// each task once.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)

	// Update writes the mutable fields of an owned task
	// (title, description, due date, priority, status, category).
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStatus sets the status of an owned task and returns the updated task.
	UpdateStatus(ctx context.Context, ownerID, taskID uuid.UUID, status domain.Status) (*domain.Task, error)

	// Delete removes an owned task. Assignee links and comments are removed
	// by cascade; notifications keep a null task_id.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error

	// AddAssignee links userID to the task. It reports false when the link
	// already existed, which makes the operation idempotent.
	AddAssignee(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	// AddComment saves a comment.
	AddComment(ctx context.Context, comment *domain.Comment) error

	// ListComments returns the comments of a task, oldest first.
	ListComments(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
