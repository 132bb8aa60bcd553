package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/store"
)

// MockNotificationStore is a mock of store.NotificationStore interface for use with testify/mock
type MockNotificationStore struct {
	mock.Mock
}

var _ store.NotificationStore = (*MockNotificationStore)(nil)

func (m *MockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]domain.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationStore) MarkRead(
	ctx context.Context,
	userID, notificationID uuid.UUID,
) (*domain.Notification, error) {
	args := m.Called(ctx, userID, notificationID)
	if n, ok := args.Get(0).(*domain.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
