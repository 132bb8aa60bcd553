package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxNameLength bounds user and category names.
	MaxNameLength = 100

	// MaxPasswordLength is bcrypt's input limit. Any non-empty password is
	// accepted below it.
	MaxPasswordLength = 72
)

// User represents a registered account.
// Verification and reset tokens are single-use and are cleared once consumed.
type User struct {
	ID                         uuid.UUID  `json:"id"`
	Name                       string     `json:"name"`
	Email                      string     `json:"email"`
	HashedPassword             string     `json:"-"`
	Verified                   bool       `json:"verified"`
	VerificationToken          *string    `json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	ResetToken                 *string    `json:"-"`
	ResetTokenExpiresAt        *time.Time `json:"-"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// NewUser creates an unverified User with a normalized email.
// The caller must hash the password before calling; hashedPassword is stored as-is.
func NewUser(name, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "hash cannot be empty", ErrInvalidPassword)
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
// Emails are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}
	if len(name) > MaxNameLength {
		return NewValidationError("name", "is too long", nil)
	}
	return nil
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return NewValidationError("email", "is not a valid address", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword checks plaintext password length.
func ValidatePassword(password string) error {
	if password == "" {
		return NewValidationError("password", "cannot be empty", ErrInvalidPassword)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "is too long", ErrInvalidPassword)
	}
	return nil
}
