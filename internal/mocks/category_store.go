package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/store"
)

// MockCategoryStore is a mock of store.CategoryStore interface for use with testify/mock
type MockCategoryStore struct {
	mock.Mock
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

func (m *MockCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryStore) GetOwned(ctx context.Context, ownerID, categoryID uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, categoryID)
	if c, ok := args.Get(0).(*domain.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryStore) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]domain.Category, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]domain.Category); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryStore) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	return m.Called(ctx, ownerID, categoryID).Error(0)
}
