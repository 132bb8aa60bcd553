package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create appends a notification.
	Create(ctx context.Context, n *domain.Notification) error

	// ListForUser returns the user's notifications, most recent first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)

	// MarkRead sets the read flag of a notification addressed to userID and
	// returns it. Returns ErrNotificationNotFound otherwise.
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*domain.Notification, error)
}
