package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/service"
)

type mockAccountService struct {
	mock.Mock
}

var _ service.AccountService = (*mockAccountService)(nil)

func (m *mockAccountService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	args := m.Called(ctx, name, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockAccountService) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAccountService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.LoginResult)
	return res, args.Error(1)
}

func (m *mockAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *mockAccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockAccountService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) task(args mock.Arguments) (*domain.Task, error) {
	t, _ := args.Get(0).(*domain.Task)
	return t, args.Error(1)
}

func (m *mockTaskService) tasks(args mock.Arguments) ([]domain.Task, error) {
	list, _ := args.Get(0).([]domain.Task)
	return list, args.Error(1)
}

func (m *mockTaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, in service.CreateTaskInput) (*domain.Task, error) {
	return m.task(m.Called(ctx, ownerID, in))
}

func (m *mockTaskService) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	return m.tasks(m.Called(ctx, ownerID))
}

func (m *mockTaskService) GetTask(ctx context.Context, requesterID, taskID uuid.UUID) (*domain.Task, error) {
	return m.task(m.Called(ctx, requesterID, taskID))
}

func (m *mockTaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	in service.UpdateTaskInput,
) (*domain.Task, error) {
	return m.task(m.Called(ctx, ownerID, taskID, in))
}

func (m *mockTaskService) MarkCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return m.task(m.Called(ctx, ownerID, taskID))
}

func (m *mockTaskService) MarkForReview(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return m.task(m.Called(ctx, ownerID, taskID))
}

func (m *mockTaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return m.Called(ctx, ownerID, taskID).Error(0)
}

func (m *mockTaskService) AssignTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) (*domain.Task, error) {
	return m.task(m.Called(ctx, ownerID, taskID, userID))
}

func (m *mockTaskService) ShareTask(ctx context.Context, requesterID, taskID, userID uuid.UUID) (*domain.Task, error) {
	return m.task(m.Called(ctx, requesterID, taskID, userID))
}

func (m *mockTaskService) FilterTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter domain.TaskFilter,
) ([]domain.Task, error) {
	return m.tasks(m.Called(ctx, ownerID, filter))
}

func (m *mockTaskService) AddComment(
	ctx context.Context,
	authorID, taskID uuid.UUID,
	text string,
) (*domain.Comment, error) {
	args := m.Called(ctx, authorID, taskID, text)
	c, _ := args.Get(0).(*domain.Comment)
	return c, args.Error(1)
}

func (m *mockTaskService) ListComments(ctx context.Context, requesterID, taskID uuid.UUID) ([]domain.Comment, error) {
	args := m.Called(ctx, requesterID, taskID)
	list, _ := args.Get(0).([]domain.Comment)
	return list, args.Error(1)
}

type mockReportService struct {
	mock.Mock
}

var _ service.ReportService = (*mockReportService)(nil)

func (m *mockReportService) Generate(ctx context.Context, userID uuid.UUID, sendEmail bool) (*domain.Report, error) {
	args := m.Called(ctx, userID, sendEmail)
	r, _ := args.Get(0).(*domain.Report)
	return r, args.Error(1)
}

type mockCategoryService struct {
	mock.Mock
}

var _ service.CategoryService = (*mockCategoryService)(nil)

func (m *mockCategoryService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, name, description)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]domain.Category)
	return list, args.Error(1)
}

func (m *mockCategoryService) Update(
	ctx context.Context,
	ownerID, categoryID uuid.UUID,
	name, description string,
) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, categoryID, name, description)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	return m.Called(ctx, ownerID, categoryID).Error(0)
}

type mockNotificationService struct {
	mock.Mock
}

var _ service.NotificationService = (*mockNotificationService)(nil)

func (m *mockNotificationService) Record(ctx context.Context, t domain.NotificationType, userID, taskID uuid.UUID) {
	m.Called(ctx, t, userID, taskID)
}

func (m *mockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Notification)
	return list, args.Error(1)
}

func (m *mockNotificationService) MarkRead(
	ctx context.Context,
	userID, notificationID uuid.UUID,
) (*domain.Notification, error) {
	args := m.Called(ctx, userID, notificationID)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}
