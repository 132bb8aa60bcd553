package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/store"
)

// taskColumns selects a task row plus its assignee ids, comma-joined in
// assignment order. Every query aliases tasks as t.
const taskColumns = `
	t.id, t.owner_id, t.category_id, t.title, t.description, t.due_date,
	t.priority, t.status, t.created_at, t.updated_at,
	(SELECT COALESCE(string_agg(ta.user_id::text, ',' ORDER BY ta.created_at, ta.user_id), '')
		FROM task_assignees ta WHERE ta.task_id = t.id) AS assignees`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, category_id, title, description, due_date,
			priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Priority),
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	for _, userID := range task.Assignees {
		if _, err := s.AddAssignee(ctx, task.ID, userID); err != nil {
			return err
		}
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.Int("assignee_count", len(task.Assignees)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	return s.getOne(ctx, query, id)
}

// GetOwned implements store.TaskStore.GetOwned
func (s *PostgresTaskStore) GetOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1 AND t.owner_id = $2`
	return s.getOne(ctx, query, taskID, ownerID)
}

// ListOwned implements store.TaskStore.ListOwned
func (s *PostgresTaskStore) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.owner_id = $1 ORDER BY t.created_at DESC, t.id`
	return s.list(ctx, query, ownerID)
}

// Filter implements store.TaskStore.Filter
func (s *PostgresTaskStore) Filter(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]domain.Task, error) {
	query, args := buildFilterQuery(ownerID, filter)
	return s.list(ctx, query, args...)
}

// buildFilterQuery ANDs the set predicates of filter onto the owner scope.
func buildFilterQuery(ownerID uuid.UUID, filter domain.TaskFilter) (string, []any) {
	conds := []string{"t.owner_id = $1"}
	args := []any{ownerID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CategoryID != nil {
		add("t.category_id = $%d", *filter.CategoryID)
	}
	if filter.Priority != nil {
		add("t.priority = $%d", string(*filter.Priority))
	}
	if filter.Status != nil {
		add("t.status = $%d", string(*filter.Status))
	}
	if filter.DueBefore != nil {
		add("t.due_date <= $%d", filter.DueBefore.UTC())
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE ` +
		strings.Join(conds, " AND ") +
		` ORDER BY t.created_at DESC, t.id`
	return query, args
}

// ListVisible implements store.TaskStore.ListVisible
func (s *PostgresTaskStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.owner_id = $1
			OR EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id = $1)
		ORDER BY t.created_at DESC, t.id`
	return s.list(ctx, query, userID)
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, priority = $4,
			status = $5, category_id = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Priority),
		string(task.Status),
		task.CategoryID,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	status domain.Status,
) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "is not a known status", domain.ErrInvalidStatus)
	}

	query := `
		UPDATE tasks t
		SET status = $1, updated_at = $2
		WHERE t.id = $3 AND t.owner_id = $4
		RETURNING ` + taskColumns
	return s.getOne(ctx, query, string(status), time.Now().UTC(), taskID, ownerID)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// AddAssignee implements store.TaskStore.AddAssignee
func (s *PostgresTaskStore) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO task_assignees (task_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (task_id, user_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, taskID, userID, time.Now().UTC())
	if err != nil {
		log.Error("failed to add assignee",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// AddComment implements store.TaskStore.AddComment
func (s *PostgresTaskStore) AddComment(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO comments (id, task_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		log.Error("failed to add comment",
			slog.String("error", err.Error()),
			slog.String("task_id", comment.TaskID.String()))
		mapped := MapError(err)
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrTaskNotFound, mapped)
		}
		return mapped
	}

	return nil
}

// ListComments implements store.TaskStore.ListComments
func (s *PostgresTaskStore) ListComments(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, author_id, text, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC, id
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query comments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

func (s *PostgresTaskStore) getOne(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to load task", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return task, nil
}

func (s *PostgresTaskStore) list(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t          domain.Task
		categoryID uuid.NullUUID
		dueDate    sql.NullTime
		priority   string
		status     string
		assignees  string
	)
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&categoryID,
		&t.Title,
		&t.Description,
		&dueDate,
		&priority,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
		&assignees,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.UUID
		t.CategoryID = &id
	}
	t.DueDate = nullTimePtr(dueDate)
	t.Priority = domain.Priority(priority)
	t.Status = domain.Status(status)

	t.Assignees, err = parseIDList(assignees)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseIDList splits the comma-joined assignee column.
func parseIDList(s string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	if s == "" {
		return ids, nil
	}
	for _, part := range strings.Split(s, ",") {
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid assignee id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
