package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"notblank,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

// ForgotPasswordRequest defines the payload for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for the password reset endpoint.
// Token may instead be given as the "token" query parameter.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateTaskRequest defines the payload for creating a task.
// DueDate accepts RFC 3339 or YYYY-MM-DD.
type CreateTaskRequest struct {
	Title       string      `json:"title"       validate:"notblank,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	DueDate     *string     `json:"dueDate"`
	Priority    string      `json:"priority"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Category    *uuid.UUID  `json:"category"`
}

// UpdateTaskRequest defines a partial task update. Absent fields are left
// unchanged; clearDueDate and clearCategory remove the value.
type UpdateTaskRequest struct {
	Title         *string    `json:"title"       validate:"omitempty,notblank,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=5000"`
	DueDate       *string    `json:"dueDate"`
	ClearDueDate  bool       `json:"clearDueDate"`
	Priority      *string    `json:"priority"`
	Status        *string    `json:"status"`
	Category      *uuid.UUID `json:"category"`
	ClearCategory bool       `json:"clearCategory"`
}

// CommentRequest defines the payload for adding a comment to a task.
type CommentRequest struct {
	Content string `json:"content" validate:"notblank,max=5000"`
}

// CategoryRequest defines the payload for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"        validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
