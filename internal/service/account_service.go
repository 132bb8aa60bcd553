package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/platform/mail"
	"github.com/yonatan12121/TMS/internal/service/auth"
	"github.com/yonatan12121/TMS/internal/store"
)

// AccountService manages user accounts and their credentials.
type AccountService interface {
	// Register creates an unverified user and mails a verification link.
	// Returns store.ErrEmailExists if the email is already registered.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// VerifyEmail consumes a verification token and marks its user verified.
	VerifyEmail(ctx context.Context, token string) error

	// Login checks credentials and returns the user with a session token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// RequestPasswordReset stores a reset token for the user and mails a reset link.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the user's password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// GetProfile returns the user with the given ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// SweepExpiredTokens clears verification and reset tokens past their expiry.
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User  *domain.User
	Token string
}

// AccountConfig holds the settings AccountService needs.
type AccountConfig struct {
	// BaseURL is the public origin used to build links in emails.
	BaseURL                   string
	VerificationTokenLifetime time.Duration
	ResetTokenLifetime        time.Duration
}

// AccountServiceImpl implements AccountService.
type AccountServiceImpl struct {
	users        store.UserStore
	hasher       auth.PasswordHasher
	jwt          auth.JWTService
	mailer       MailQueue
	verifyTokens *auth.TokenIssuer
	resetTokens  *auth.TokenIssuer
	baseURL      string
	now          func() time.Time
	logger       *slog.Logger
}

var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates an AccountServiceImpl.
func NewAccountService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	jwt auth.JWTService,
	mailer MailQueue,
	cfg AccountConfig,
	log *slog.Logger,
) *AccountServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &AccountServiceImpl{
		users:        users,
		hasher:       hasher,
		jwt:          jwt,
		mailer:       mailer,
		verifyTokens: auth.NewTokenIssuer(cfg.VerificationTokenLifetime),
		resetTokens:  auth.NewTokenIssuer(cfg.ResetTokenLifetime),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		now:          time.Now,
		logger:       log.With(slog.String("component", "account_service")),
	}
}

// SetClock replaces the time source used for token expiry.
func (s *AccountServiceImpl) SetClock(now func() time.Time) {
	s.now = now
	s.verifyTokens = s.verifyTokens.WithClock(now)
	s.resetTokens = s.resetTokens.WithClock(now)
}

// Register implements AccountService.Register
func (s *AccountServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(domain.NormalizeEmail(email)); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError("account", "register", err)
	}

	user, err := domain.NewUser(name, email, hash)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.verifyTokens.Issue()
	if err != nil {
		return nil, NewServiceError("account", "register", err)
	}
	user.VerificationToken = &token
	user.VerificationTokenExpiresAt = &expiresAt

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email rejected")
			return nil, err
		}
		return nil, NewServiceError("account", "register", err)
	}

	enqueueMail(ctx, s.mailer, s.logger,
		mail.RegistrationMessage(user.Email, user.Name, s.baseURL+"/api/auth/verify/"+token))

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// VerifyEmail implements AccountService.VerifyEmail
func (s *AccountServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidVerificationToken
	}

	user, err := s.users.ConsumeVerificationToken(ctx, token, s.now().UTC())
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrInvalidVerificationToken
		}
		return NewServiceError("account", "verify_email", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("email verified",
		slog.String("user_id", user.ID.String()))
	return nil
}

// Login implements AccountService.Login
// An unverified account is rejected before the password is checked.
func (s *AccountServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("account", "login", err)
	}

	if !user.Verified {
		log.Debug("login rejected for unverified user", slog.String("user_id", user.ID.String()))
		return nil, ErrNotVerified
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError("account", "login", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResult{User: user, Token: token}, nil
}

// RequestPasswordReset implements AccountService.RequestPasswordReset
// Returns store.ErrUserNotFound if no account uses the email.
func (s *AccountServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrUserNotFound
		}
		return NewServiceError("account", "request_password_reset", err)
	}

	token, expiresAt, err := s.resetTokens.Issue()
	if err != nil {
		return NewServiceError("account", "request_password_reset", err)
	}

	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrUserNotFound
		}
		return NewServiceError("account", "request_password_reset", err)
	}

	enqueueMail(ctx, s.mailer, s.logger,
		mail.PasswordResetMessage(user.Email, s.baseURL+"/api/auth/reset-password?token="+token))

	logger.FromContextOrDefault(ctx, s.logger).Info("password reset requested",
		slog.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword implements AccountService.ResetPassword
func (s *AccountServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return NewServiceError("account", "reset_password", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, token, hash, s.now().UTC())
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrInvalidResetToken
		}
		return NewServiceError("account", "reset_password", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("password reset",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetProfile implements AccountService.GetProfile
func (s *AccountServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		return nil, NewServiceError("account", "get_profile", err)
	}
	return user, nil
}

// SweepExpiredTokens implements AccountService.SweepExpiredTokens
func (s *AccountServiceImpl) SweepExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.users.ClearExpiredTokens(ctx, s.now().UTC())
	if err != nil {
		return 0, NewServiceError("account", "sweep_expired_tokens", err)
	}
	if n > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Info("expired tokens cleared", slog.Int64("users", n))
	}
	return n, nil
}
