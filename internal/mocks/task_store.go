package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/store"
)

// MockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return taskResult(m.Called(ctx, id))
}

func (m *MockTaskStore) GetOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID))
}

func (m *MockTaskStore) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID))
}

func (m *MockTaskStore) Filter(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, filter))
}

func (m *MockTaskStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	return tasksResult(m.Called(ctx, userID))
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) UpdateStatus(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	status domain.Status,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID, status))
}

func (m *MockTaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return m.Called(ctx, ownerID, taskID).Error(0)
}

func (m *MockTaskStore) AddAssignee(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) AddComment(ctx context.Context, comment *domain.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockTaskStore) ListComments(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error) {
	args := m.Called(ctx, taskID)
	if comments, ok := args.Get(0).([]domain.Comment); ok {
		return comments, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself so expectations apply inside transactions too.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func taskResult(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func tasksResult(args mock.Arguments) ([]domain.Task, error) {
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}
