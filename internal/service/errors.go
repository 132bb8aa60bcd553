package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// Both cases share one error so a caller cannot discover which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotVerified indicates a login attempt by a user who has not verified their email.
	ErrNotVerified = errors.New("email address not verified")

	// ErrInvalidToken is the parent of every one-time token failure.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidVerificationToken indicates an unknown, used or expired verification token.
	ErrInvalidVerificationToken = fmt.Errorf("%w: verification", ErrInvalidToken)

	// ErrInvalidResetToken indicates an unknown, used or expired password reset token.
	ErrInvalidResetToken = fmt.Errorf("%w: password reset", ErrInvalidToken)
)

// ServiceError wraps an unexpected failure with the service and operation it
// happened in.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
