package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/store"
)

// MockUserStore is a mock of store.UserStore interface for use with testify/mock
type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userResult(args)
}

// GetByEmail is a mock implementation of store.UserStore.GetByEmail
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userResult(args)
}

// Exists is a mock implementation of store.UserStore.Exists
func (m *MockUserStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ConsumeVerificationToken is a mock implementation of store.UserStore.ConsumeVerificationToken
func (m *MockUserStore) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	args := m.Called(ctx, token, now)
	return userResult(args)
}

// SetResetToken is a mock implementation of store.UserStore.SetResetToken
func (m *MockUserStore) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

// ConsumeResetToken is a mock implementation of store.UserStore.ConsumeResetToken
func (m *MockUserStore) ConsumeResetToken(
	ctx context.Context,
	token, hashedPassword string,
	now time.Time,
) (*domain.User, error) {
	args := m.Called(ctx, token, hashedPassword, now)
	return userResult(args)
}

// ClearExpiredTokens is a mock implementation of store.UserStore.ClearExpiredTokens
func (m *MockUserStore) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// WithTx returns the mock itself so expectations apply inside transactions too.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

func userResult(args mock.Arguments) (*domain.User, error) {
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
