package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/mocks"
	"github.com/yonatan12121/TMS/internal/store"
)

type taskFixture struct {
	svc        *TaskServiceImpl
	sql        sqlmock.Sqlmock
	tasks      *mocks.MockTaskStore
	categories *mocks.MockCategoryStore
	users      *mocks.MockUserStore
	emitter    *mocks.MockEventEmitter
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	db, sm, err := sqlmock.New()
	require.NoError(t, err)

	f := &taskFixture{
		sql:        sm,
		tasks:      new(mocks.MockTaskStore),
		categories: new(mocks.MockCategoryStore),
		users:      new(mocks.MockUserStore),
		emitter:    &mocks.MockEventEmitter{},
	}
	f.svc = NewTaskService(db, f.tasks, f.categories, f.users, f.emitter, testLogger())
	f.svc.now = clock

	t.Cleanup(func() {
		f.tasks.AssertExpectations(t)
		f.categories.AssertExpectations(t)
		f.users.AssertExpectations(t)
		assert.NoError(t, sm.ExpectationsWereMet())
		_ = db.Close()
	})
	return f
}

func ownedTask(t *testing.T, owner uuid.UUID, assignees ...uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, "Write report", "quarterly", nil, domain.PriorityHigh, nil, assignees)
	require.NoError(t, err)
	return task
}

func TestCreateTask(t *testing.T) {
	f := newTaskFixture(t)
	owner, a1, a2 := uuid.New(), uuid.New(), uuid.New()

	f.users.On("Exists", mock.Anything, a1).Return(true, nil)
	f.users.On("Exists", mock.Anything, a2).Return(true, nil)
	f.sql.ExpectBegin()
	f.tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)
	f.sql.ExpectCommit()

	task, err := f.svc.CreateTask(context.Background(), owner, CreateTaskInput{
		Title:     "  Write report ",
		Assignees: []uuid.UUID{a1, a2, a1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, []uuid.UUID{a1, a2}, task.Assignees)

	emitted := f.emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.NotificationTaskAssigned, emitted[0].Type)
	assert.Equal(t, []uuid.UUID{a1, a2}, emitted[0].Recipients)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.CreateTask(context.Background(), uuid.New(), CreateTaskInput{Title: "   "})
	assert.True(t, domain.IsValidationError(err))

	_, err = f.svc.CreateTask(context.Background(), uuid.New(), CreateTaskInput{Title: "x", Priority: "Urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestCreateTaskForeignCategory(t *testing.T) {
	f := newTaskFixture(t)
	owner, category := uuid.New(), uuid.New()

	f.categories.On("GetOwned", mock.Anything, owner, category).Return(nil, store.ErrCategoryNotFound)

	_, err := f.svc.CreateTask(context.Background(), owner, CreateTaskInput{Title: "x", CategoryID: &category})
	assert.True(t, domain.IsValidationError(err))
}

func TestCreateTaskUnknownAssignee(t *testing.T) {
	f := newTaskFixture(t)
	ghost := uuid.New()
	f.users.On("Exists", mock.Anything, ghost).Return(false, nil)

	_, err := f.svc.CreateTask(context.Background(), uuid.New(), CreateTaskInput{Title: "x", Assignees: []uuid.UUID{ghost}})
	assert.True(t, domain.IsValidationError(err))
}

func TestCreateTaskRollsBackOnStoreError(t *testing.T) {
	f := newTaskFixture(t)

	f.sql.ExpectBegin()
	f.tasks.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	f.sql.ExpectRollback()

	_, err := f.svc.CreateTask(context.Background(), uuid.New(), CreateTaskInput{Title: "x"})
	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Empty(t, f.emitter.Events())
}

func TestGetTaskVisibility(t *testing.T) {
	f := newTaskFixture(t)
	owner, assignee, stranger := uuid.New(), uuid.New(), uuid.New()
	task := ownedTask(t, owner, assignee)

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	f.tasks.On("ListComments", mock.Anything, task.ID).Return([]domain.Comment{{Text: "hi"}}, nil)

	got, err := f.svc.GetTask(context.Background(), assignee, task.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 1)

	_, err = f.svc.GetTask(context.Background(), stranger, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	task := ownedTask(t, owner)
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	f.tasks.On("GetOwned", mock.Anything, owner, task.ID).Return(task, nil)
	f.tasks.On("Update", mock.Anything, task).Return(nil)

	title := "Renamed"
	status := domain.StatusForReview
	got, err := f.svc.UpdateTask(context.Background(), owner, task.ID, UpdateTaskInput{
		Title:   &title,
		DueDate: &due,
		Status:  &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, domain.StatusForReview, got.Status)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)
	assert.Equal(t, fixedNow, got.UpdatedAt)

	emitted := f.emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, domain.NotificationTaskUpdated, emitted[0].Type)
	assert.Equal(t, []uuid.UUID{owner}, emitted[0].Recipients)
}

func TestUpdateTaskLogsOffWorkflowStatus(t *testing.T) {
	tests := []struct {
		name     string
		from, to domain.Status
		logged   bool
	}{
		{"pending to completed", domain.StatusPending, domain.StatusCompleted, false},
		{"completed to pending", domain.StatusCompleted, domain.StatusPending, false},
		{"completed to for review", domain.StatusCompleted, domain.StatusForReview, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTaskFixture(t)
			var logs bytes.Buffer
			f.svc.logger = slog.New(slog.NewTextHandler(&logs, nil))

			owner := uuid.New()
			task := ownedTask(t, owner)
			task.Status = tc.from
			f.tasks.On("GetOwned", mock.Anything, owner, task.ID).Return(task, nil)
			f.tasks.On("Update", mock.Anything, task).Return(nil)

			to := tc.to
			got, err := f.svc.UpdateTask(context.Background(), owner, task.ID, UpdateTaskInput{Status: &to})
			require.NoError(t, err)
			assert.Equal(t, tc.to, got.Status)
			assert.Equal(t, tc.logged, strings.Contains(logs.String(), "status change outside the normal workflow"))
		})
	}
}

func TestUpdateTaskClearsFields(t *testing.T) {
	f := newTaskFixture(t)
	owner, category := uuid.New(), uuid.New()
	due := fixedNow
	task := ownedTask(t, owner)
	task.CategoryID = &category
	task.DueDate = &due

	f.tasks.On("GetOwned", mock.Anything, owner, task.ID).Return(task, nil)
	f.tasks.On("Update", mock.Anything, task).Return(nil)

	got, err := f.svc.UpdateTask(context.Background(), owner, task.ID, UpdateTaskInput{
		ClearDueDate:  true,
		ClearCategory: true,
	})
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.CategoryID)
}

func TestUpdateTaskRejectsInvalidStatus(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	task := ownedTask(t, owner)
	f.tasks.On("GetOwned", mock.Anything, owner, task.ID).Return(task, nil)

	status := domain.Status("Archived")
	_, err := f.svc.UpdateTask(context.Background(), owner, task.ID, UpdateTaskInput{Status: &status})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Empty(t, f.emitter.Events())
}

func TestUpdateTaskNotOwned(t *testing.T) {
	f := newTaskFixture(t)
	owner, taskID := uuid.New(), uuid.New()
	f.tasks.On("GetOwned", mock.Anything, owner, taskID).Return(nil, store.ErrTaskNotFound)

	_, err := f.svc.UpdateTask(context.Background(), owner, taskID, UpdateTaskInput{})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestMarkCompletedAndForReview(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	task := ownedTask(t, owner)

	completed := *task
	completed.Status = domain.StatusCompleted
	review := *task
	review.Status = domain.StatusForReview

	f.tasks.On("UpdateStatus", mock.Anything, owner, task.ID, domain.StatusCompleted).Return(&completed, nil)
	f.tasks.On("UpdateStatus", mock.Anything, owner, task.ID, domain.StatusForReview).Return(&review, nil)

	got, err := f.svc.MarkCompleted(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	got, err = f.svc.MarkForReview(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusForReview, got.Status)

	emitted := f.emitter.Events()
	require.Len(t, emitted, 2)
	assert.Equal(t, domain.NotificationTaskCompleted, emitted[0].Type)
	assert.Equal(t, domain.NotificationTaskForReview, emitted[1].Type)
}

func TestDeleteTaskOfAnotherOwner(t *testing.T) {
	f := newTaskFixture(t)
	intruder, taskID := uuid.New(), uuid.New()
	f.tasks.On("Delete", mock.Anything, intruder, taskID).Return(store.ErrTaskNotFound)

	err := f.svc.DeleteTask(context.Background(), intruder, taskID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestAssignTaskIsIdempotent(t *testing.T) {
	f := newTaskFixture(t)
	owner, user := uuid.New(), uuid.New()
	task := ownedTask(t, owner)

	f.tasks.On("GetOwned", mock.Anything, owner, task.ID).Return(task, nil)
	f.users.On("Exists", mock.Anything, user).Return(true, nil)
	f.tasks.On("AddAssignee", mock.Anything, task.ID, user).Return(true, nil).Once()
	f.tasks.On("AddAssignee", mock.Anything, task.ID, user).Return(false, nil).Once()

	got, err := f.svc.AssignTask(context.Background(), owner, task.ID, user)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{user}, got.Assignees)

	task.Assignees = []uuid.UUID{user}
	got, err = f.svc.AssignTask(context.Background(), owner, task.ID, user)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{user}, got.Assignees)

	// Only the first assignment notifies.
	emitted := f.emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, []uuid.UUID{user}, emitted[0].Recipients)
}

func TestAssignTaskUnknownUser(t *testing.T) {
	f := newTaskFixture(t)
	owner, ghost := uuid.New(), uuid.New()
	task := ownedTask(t, owner)

	f.tasks.On("GetOwned", mock.Anything, owner, task.ID).Return(task, nil)
	f.users.On("Exists", mock.Anything, ghost).Return(false, nil)

	_, err := f.svc.AssignTask(context.Background(), owner, task.ID, ghost)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestShareTask(t *testing.T) {
	owner, assignee, friend, stranger := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	t.Run("assignee may share", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, owner, assignee)
		f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		f.users.On("Exists", mock.Anything, friend).Return(true, nil)
		f.tasks.On("AddAssignee", mock.Anything, task.ID, friend).Return(true, nil)

		got, err := f.svc.ShareTask(context.Background(), assignee, task.ID, friend)
		require.NoError(t, err)
		assert.True(t, got.HasAssignee(friend))
		require.Len(t, f.emitter.Events(), 1)
		assert.Equal(t, assignee, f.emitter.Events()[0].ActorID)
	})

	t.Run("stranger may not", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, owner, assignee)
		f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		_, err := f.svc.ShareTask(context.Background(), stranger, task.ID, friend)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestFilterTasks(t *testing.T) {
	f := newTaskFixture(t)
	owner := uuid.New()
	completed := domain.StatusCompleted

	f.tasks.On("Filter", mock.Anything, owner, domain.TaskFilter{}).Return([]domain.Task{*ownedTask(t, owner), *ownedTask(t, owner)}, nil)
	f.tasks.On("Filter", mock.Anything, owner, domain.TaskFilter{Status: &completed}).Return([]domain.Task{}, nil)

	all, err := f.svc.FilterTasks(context.Background(), owner, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := f.svc.FilterTasks(context.Background(), owner, domain.TaskFilter{Status: &completed})
	require.NoError(t, err)
	assert.Empty(t, done)

	bad := domain.Priority("Urgent")
	_, err = f.svc.FilterTasks(context.Background(), owner, domain.TaskFilter{Priority: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestAddComment(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()

	t.Run("owner comments", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, owner)
		f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		f.tasks.On("AddComment", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

		c, err := f.svc.AddComment(context.Background(), owner, task.ID, "  looks good ")
		require.NoError(t, err)
		assert.Equal(t, "looks good", c.Text)
		assert.Equal(t, owner, c.AuthorID)
	})

	t.Run("empty text", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, owner)
		f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		_, err := f.svc.AddComment(context.Background(), owner, task.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})

	t.Run("invisible task", func(t *testing.T) {
		f := newTaskFixture(t)
		task := ownedTask(t, owner)
		f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

		_, err := f.svc.AddComment(context.Background(), stranger, task.ID, "hi")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("missing task", func(t *testing.T) {
		f := newTaskFixture(t)
		id := uuid.New()
		f.tasks.On("GetByID", mock.Anything, id).Return(nil, store.ErrTaskNotFound)

		_, err := f.svc.AddComment(context.Background(), owner, id, "hi")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestEmitterFailureDoesNotFailOperation(t *testing.T) {
	f := newTaskFixture(t)
	f.emitter.Err = errors.New("handler down")
	owner := uuid.New()
	task := ownedTask(t, owner)

	completed := *task
	completed.Status = domain.StatusCompleted
	f.tasks.On("UpdateStatus", mock.Anything, owner, task.ID, domain.StatusCompleted).Return(&completed, nil)

	_, err := f.svc.MarkCompleted(context.Background(), owner, task.ID)
	assert.NoError(t, err)
}
