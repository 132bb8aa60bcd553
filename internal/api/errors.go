package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/yonatan12121/TMS/internal/api/shared"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/service"
	"github.com/yonatan12121/TMS/internal/service/auth"
	"github.com/yonatan12121/TMS/internal/store"
)

// Error kinds reported in the "kind" field of error responses.
const (
	KindBadRequest         = "BadRequest"
	KindConflict           = "Conflict"
	KindNotFound           = "NotFound"
	KindInvalidCredentials = "InvalidCredentials"
	KindNotVerified        = "NotVerified"
	KindInvalidToken       = "InvalidToken"
	KindUnauthorized       = "Unauthorized"
	KindInternal           = "Internal"
)

// ErrorKind classifies err into one of the error kinds.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, service.ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, service.ErrNotVerified):
		return KindNotVerified
	case errors.Is(err, service.ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, store.ErrDuplicate):
		return KindConflict
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity),
		isRequestValidationError(err):
		return KindBadRequest
	default:
		return KindInternal
	}
}

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Conflicts and credential failures are client errors and share 400.
func MapErrorToStatusCode(err error) int {
	switch ErrorKind(err) {
	case KindBadRequest, KindConflict, KindInvalidCredentials, KindNotVerified, KindInvalidToken:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	case isRequestValidationError(err):
		return SanitizeValidationError(err)

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, service.ErrNotVerified):
		return "Email address not verified"
	case errors.Is(err, service.ErrInvalidToken):
		return "Invalid or expired token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case ErrorKind(err) == KindUnauthorized:
		return "Invalid token"

	case errors.Is(err, store.ErrEmailExists):
		return "User already exists"
	case errors.Is(err, store.ErrCategoryNameExists):
		return "Category name already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required", "notblank":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid", "dive":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}

func isRequestValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// HandleAPIError writes the error response for err. An empty fallback keeps
// the safe message; otherwise fallback replaces it for 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if errors.Is(err, service.ErrInvalidCredentials) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	kind := ErrorKind(err)
	if kind == "" {
		kind = KindInternal
	}
	shared.RespondWithErrorAndLog(w, r, status, kind, message, err, opts...)
}
