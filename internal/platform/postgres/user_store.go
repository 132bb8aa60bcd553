package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/store"
)

const userColumns = `
	id, name, email, hashed_password, verified,
	verification_token, verification_token_expires_at,
	reset_token, reset_token_expires_at,
	created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that is managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.Verified,
		user.VerificationToken,
		user.VerificationTokenExpiresAt,
		user.ResetToken,
		user.ResetTokenExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrEmailExists) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return mapped
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return mapped
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.getOne(ctx, query, domain.NormalizeEmail(email))
}

// Exists implements store.UserStore.Exists
func (s *PostgresUserStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).
		Scan(&exists)
	if err != nil {
		log.Error("failed to check user existence",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return false, MapError(err)
	}
	return exists, nil
}

// ConsumeVerificationToken implements store.UserStore.ConsumeVerificationToken
func (s *PostgresUserStore) ConsumeVerificationToken(
	ctx context.Context,
	token string,
	now time.Time,
) (*domain.User, error) {
	query := `
		UPDATE users
		SET verified = TRUE,
			verification_token = NULL,
			verification_token_expires_at = NULL,
			updated_at = $2
		WHERE verification_token = $1
			AND verification_token_expires_at > $2
		RETURNING ` + userColumns
	return s.getOne(ctx, query, token, now.UTC())
}

// SetResetToken implements store.UserStore.SetResetToken
func (s *PostgresUserStore) SetResetToken(
	ctx context.Context,
	userID uuid.UUID,
	token string,
	expiresAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET reset_token = $1, reset_token_expires_at = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, token, expiresAt.UTC(), time.Now().UTC(), userID)
	if err != nil {
		log.Error("failed to store reset token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ConsumeResetToken implements store.UserStore.ConsumeResetToken
func (s *PostgresUserStore) ConsumeResetToken(
	ctx context.Context,
	token, hashedPassword string,
	now time.Time,
) (*domain.User, error) {
	query := `
		UPDATE users
		SET hashed_password = $2,
			reset_token = NULL,
			reset_token_expires_at = NULL,
			updated_at = $3
		WHERE reset_token = $1
			AND reset_token_expires_at > $3
		RETURNING ` + userColumns
	return s.getOne(ctx, query, token, hashedPassword, now.UTC())
}

// ClearExpiredTokens implements store.UserStore.ClearExpiredTokens
func (s *PostgresUserStore) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET verification_token = CASE WHEN verification_token_expires_at <= $1 THEN NULL ELSE verification_token END,
			verification_token_expires_at = CASE WHEN verification_token_expires_at <= $1 THEN NULL ELSE verification_token_expires_at END,
			reset_token = CASE WHEN reset_token_expires_at <= $1 THEN NULL ELSE reset_token END,
			reset_token_expires_at = CASE WHEN reset_token_expires_at <= $1 THEN NULL ELSE reset_token_expires_at END,
			updated_at = $1
		WHERE verification_token_expires_at <= $1 OR reset_token_expires_at <= $1
	`
	result, err := s.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		log.Error("failed to clear expired tokens", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to load user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u               domain.User
		verifyToken     sql.NullString
		verifyExpiresAt sql.NullTime
		resetToken      sql.NullString
		resetExpiresAt  sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.HashedPassword,
		&u.Verified,
		&verifyToken,
		&verifyExpiresAt,
		&resetToken,
		&resetExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.VerificationToken = nullStringPtr(verifyToken)
	u.VerificationTokenExpiresAt = nullTimePtr(verifyExpiresAt)
	u.ResetToken = nullStringPtr(resetToken)
	u.ResetTokenExpiresAt = nullTimePtr(resetExpiresAt)
	return &u, nil
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
