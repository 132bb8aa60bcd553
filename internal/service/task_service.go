package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/events"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/store"
)

// TaskService manages the task lifecycle.
//
// Operations taking an ownerID act only on tasks that user owns; a task owned
// by someone else is reported as store.ErrTaskNotFound, exactly like a missing one.
// Read, share and comment operations also accept assignees.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)
	GetTask(ctx context.Context, requesterID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*domain.Task, error)
	MarkCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	MarkForReview(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
	AssignTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) (*domain.Task, error)
	ShareTask(ctx context.Context, requesterID, taskID, userID uuid.UUID) (*domain.Task, error)
	FilterTasks(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, error)
	AddComment(ctx context.Context, authorID, taskID uuid.UUID, text string) (*domain.Comment, error)
	ListComments(ctx context.Context, requesterID, taskID uuid.UUID) ([]domain.Comment, error)
}

// CreateTaskInput holds the fields of a new task. An empty Priority means Medium.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    domain.Priority
	CategoryID  *uuid.UUID
	Assignees   []uuid.UUID
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
// ClearDueDate and ClearCategory remove the value instead.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	ClearDueDate  bool
	Priority      *domain.Priority
	Status        *domain.Status
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	db         store.TxBeginner
	tasks      store.TaskStore
	categories store.CategoryStore
	users      store.UserStore
	emitter    events.EventEmitter
	now        func() time.Time
	logger     *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskServiceImpl. db starts the transaction that
// writes a task together with its assignees.
func NewTaskService(
	db store.TxBeginner,
	tasks store.TaskStore,
	categories store.CategoryStore,
	users store.UserStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) *TaskServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &TaskServiceImpl{
		db:         db,
		tasks:      tasks,
		categories: categories,
		users:      users,
		emitter:    emitter,
		now:        time.Now,
		logger:     log.With(slog.String("component", "task_service")),
	}
}

// CreateTask implements TaskService.CreateTask
// Every initial assignee receives a TaskAssigned notification.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	in CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkCategory(ctx, ownerID, in.CategoryID); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(ownerID, in.Title, in.Description, in.DueDate, in.Priority, in.CategoryID, in.Assignees)
	if err != nil {
		return nil, err
	}

	if err := s.checkUsersExist(ctx, task.Assignees); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewValidationError("assignees", "contains an unknown user", nil)
		}
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, NewServiceError("task", "create", err)
	}

	if len(task.Assignees) > 0 {
		s.emit(ctx, events.NewTaskEvent(domain.NotificationTaskAssigned, task.ID, ownerID, task.Assignees...))
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *TaskServiceImpl) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	tasks, err := s.tasks.ListOwned(ctx, ownerID)
	if err != nil {
		return nil, NewServiceError("task", "list", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *TaskServiceImpl) GetTask(ctx context.Context, requesterID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.visibleTask(ctx, "get", requesterID, taskID)
	if err != nil {
		return nil, err
	}

	comments, err := s.tasks.ListComments(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("task", "get", err)
	}
	task.Comments = comments
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// Any status may be set from any status; the value itself must be valid.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	in UpdateTaskInput,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, "update", ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	switch {
	case in.ClearDueDate:
		task.DueDate = nil
	case in.DueDate != nil:
		d := in.DueDate.UTC()
		task.DueDate = &d
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		if in.Status.Valid() && !domain.CanTransition(task.Status, *in.Status) {
			logger.FromContextOrDefault(ctx, s.logger).Info("status change outside the normal workflow",
				slog.String("task_id", task.ID.String()),
				slog.String("from", string(task.Status)),
				slog.String("to", string(*in.Status)))
		}
		task.Status = *in.Status
	}
	switch {
	case in.ClearCategory:
		task.CategoryID = nil
	case in.CategoryID != nil:
		if err := s.checkCategory(ctx, ownerID, in.CategoryID); err != nil {
			return nil, err
		}
		id := *in.CategoryID
		task.CategoryID = &id
	}
	task.UpdatedAt = s.now().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, s.wrap("update", err)
	}

	s.emit(ctx, events.NewTaskEvent(domain.NotificationTaskUpdated, task.ID, ownerID, task.OwnerID))
	return task, nil
}

// MarkCompleted implements TaskService.MarkCompleted
func (s *TaskServiceImpl) MarkCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.setStatus(ctx, "mark_completed", ownerID, taskID, domain.StatusCompleted, domain.NotificationTaskCompleted)
}

// MarkForReview implements TaskService.MarkForReview
func (s *TaskServiceImpl) MarkForReview(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.setStatus(ctx, "mark_for_review", ownerID, taskID, domain.StatusForReview, domain.NotificationTaskForReview)
}

func (s *TaskServiceImpl) setStatus(
	ctx context.Context,
	op string,
	ownerID, taskID uuid.UUID,
	status domain.Status,
	notification domain.NotificationType,
) (*domain.Task, error) {
	task, err := s.tasks.UpdateStatus(ctx, ownerID, taskID, status)
	if err != nil {
		return nil, s.wrap(op, err)
	}

	s.emit(ctx, events.NewTaskEvent(notification, task.ID, ownerID, task.OwnerID))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return s.wrap("delete", err)
	}
	return nil
}

// AssignTask implements TaskService.AssignTask
// Assigning an existing assignee is a no-op and sends no notification.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, "assign", ownerID, taskID)
	if err != nil {
		return nil, err
	}
	return s.addAssignee(ctx, "assign", task, ownerID, userID)
}

// ShareTask implements TaskService.ShareTask
// The owner and every current assignee may share a task.
func (s *TaskServiceImpl) ShareTask(ctx context.Context, requesterID, taskID, userID uuid.UUID) (*domain.Task, error) {
	task, err := s.visibleTask(ctx, "share", requesterID, taskID)
	if err != nil {
		return nil, err
	}
	return s.addAssignee(ctx, "share", task, requesterID, userID)
}

func (s *TaskServiceImpl) addAssignee(
	ctx context.Context,
	op string,
	task *domain.Task,
	actorID, userID uuid.UUID,
) (*domain.Task, error) {
	if err := s.checkUsersExist(ctx, []uuid.UUID{userID}); err != nil {
		return nil, err
	}

	added, err := s.tasks.AddAssignee(ctx, task.ID, userID)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	if !added {
		return task, nil
	}

	task.Assignees = append(task.Assignees, userID)
	s.emit(ctx, events.NewTaskEvent(domain.NotificationTaskAssigned, task.ID, actorID, userID))

	logger.FromContextOrDefault(ctx, s.logger).Info("task assigned",
		slog.String("task_id", task.ID.String()),
		slog.String("assignee_id", userID.String()))
	return task, nil
}

// FilterTasks implements TaskService.FilterTasks
func (s *TaskServiceImpl) FilterTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]domain.Task, error) {
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, domain.NewValidationError("priority", "must be one of Low, Medium, High", domain.ErrInvalidPriority)
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of Pending, Completed, For Review", domain.ErrInvalidStatus)
	}

	tasks, err := s.tasks.Filter(ctx, ownerID, filter)
	if err != nil {
		return nil, NewServiceError("task", "filter", err)
	}
	return tasks, nil
}

// AddComment implements TaskService.AddComment
func (s *TaskServiceImpl) AddComment(
	ctx context.Context,
	authorID, taskID uuid.UUID,
	text string,
) (*domain.Comment, error) {
	if _, err := s.visibleTask(ctx, "add_comment", authorID, taskID); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(taskID, authorID, text)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.AddComment(ctx, comment); err != nil {
		return nil, s.wrap("add_comment", err)
	}
	return comment, nil
}

// ListComments implements TaskService.ListComments
func (s *TaskServiceImpl) ListComments(ctx context.Context, requesterID, taskID uuid.UUID) ([]domain.Comment, error) {
	if _, err := s.visibleTask(ctx, "list_comments", requesterID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.tasks.ListComments(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("task", "list_comments", err)
	}
	return comments, nil
}

func (s *TaskServiceImpl) ownedTask(ctx context.Context, op string, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	return task, nil
}

// visibleTask loads a task the requester owns or is assigned to.
func (s *TaskServiceImpl) visibleTask(ctx context.Context, op string, requesterID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	if !task.CanView(requesterID) {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// checkCategory rejects a category the owner does not have.
func (s *TaskServiceImpl) checkCategory(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetOwned(ctx, ownerID, *categoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return domain.NewValidationError("category_id", "does not exist", nil)
		}
		return NewServiceError("task", "check_category", err)
	}
	return nil
}

func (s *TaskServiceImpl) checkUsersExist(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return NewServiceError("task", "check_user", err)
		}
		if !ok {
			return store.ErrUserNotFound
		}
	}
	return nil
}

// wrap passes not-found errors through so callers can map them, and wraps
// everything else.
func (s *TaskServiceImpl) wrap(op string, err error) error {
	if errors.Is(err, store.ErrTaskNotFound) || domain.IsValidationError(err) {
		return err
	}
	return NewServiceError("task", op, err)
}

// emit publishes event. Notification failures never fail the task operation.
func (s *TaskServiceImpl) emit(ctx context.Context, event *events.TaskEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			slog.String("event_type", string(event.Type)),
			slog.String("task_id", event.TaskID.String()),
			slog.String("error", err.Error()))
	}
}
