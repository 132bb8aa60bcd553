package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store, including any verification token.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their (normalized) email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Exists reports whether a user with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// ConsumeVerificationToken marks the holder of token as verified and clears
	// the token, provided the token has not expired at now. The check and the
	// write are a single statement, so a token can be consumed at most once.
	// Returns ErrUserNotFound if no user holds a live token.
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error)

	// SetResetToken stores a password reset token for the user, replacing any
	// earlier one. Returns ErrUserNotFound if the user does not exist.
	SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// ConsumeResetToken replaces the password hash of the holder of token and
	// clears the token, provided it has not expired at now.
	// Returns ErrUserNotFound if no user holds a live token.
	ConsumeResetToken(ctx context.Context, token, hashedPassword string, now time.Time) (*domain.User, error)

	// ClearExpiredTokens removes verification and reset tokens that expired
	// before now and returns the number of users touched.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
