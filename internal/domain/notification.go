package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType names the task event that produced a notification.
type NotificationType string

// Possible notification types
const (
	NotificationTaskAssigned  NotificationType = "TaskAssigned"
	NotificationTaskUpdated   NotificationType = "TaskUpdated"
	NotificationTaskCompleted NotificationType = "TaskCompleted"
	NotificationTaskForReview NotificationType = "TaskForReview"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTaskAssigned, NotificationTaskUpdated, NotificationTaskCompleted, NotificationTaskForReview:
		return true
	}
	return false
}

// Notification tells a user that something happened to a task.
// Only the Read flag changes after creation, except that TaskID becomes
// null once the task is deleted.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	UserID    uuid.UUID        `json:"user_id"`
	TaskID    uuid.NullUUID    `json:"task_id"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewNotification creates an unread Notification.
func NewNotification(t NotificationType, userID, taskID uuid.UUID) (*Notification, error) {
	now := time.Now().UTC()
	n := &Notification{
		ID:        uuid.New(),
		Type:      t,
		UserID:    userID,
		TaskID:    uuid.NullUUID{UUID: taskID, Valid: taskID != uuid.Nil},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil || n.UserID == uuid.Nil || !n.TaskID.Valid {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if !n.Type.Valid() {
		return NewValidationError("type", "is not a known notification type", ErrInvalidNotificationType)
	}
	return nil
}
