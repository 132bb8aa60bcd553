package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/events"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/store"
)

// NotificationService records and serves per-user task notifications.
type NotificationService interface {
	// Record appends a notification. Failures are logged, never returned.
	Record(ctx context.Context, t domain.NotificationType, userID, taskID uuid.UUID)

	// List returns the user's notifications, most recent first.
	List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)

	// MarkRead marks a notification addressed to userID as read.
	// Returns store.ErrNotificationNotFound for a notification of another user.
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*domain.Notification, error)
}

// NotificationServiceImpl implements NotificationService and consumes task
// events as an events.EventHandler.
type NotificationServiceImpl struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

var (
	_ NotificationService = (*NotificationServiceImpl)(nil)
	_ events.EventHandler = (*NotificationServiceImpl)(nil)
)

// NewNotificationService creates a NotificationServiceImpl.
func NewNotificationService(notifications store.NotificationStore, log *slog.Logger) *NotificationServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationServiceImpl{
		notifications: notifications,
		logger:        log.With(slog.String("component", "notification_service")),
	}
}

// HandleEvent records one notification per recipient of event.
func (s *NotificationServiceImpl) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	for _, userID := range event.Recipients {
		s.Record(ctx, event.Type, userID, event.TaskID)
	}
	return nil
}

// Record implements NotificationService.Record
func (s *NotificationServiceImpl) Record(ctx context.Context, t domain.NotificationType, userID, taskID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("notification_type", string(t)),
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))

	n, err := domain.NewNotification(t, userID, taskID)
	if err != nil {
		log.Error("invalid notification", slog.String("error", err.Error()))
		return
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		log.Error("failed to record notification", slog.String("error", err.Error()))
		return
	}
	log.Debug("notification recorded")
}

// List implements NotificationService.List
func (s *NotificationServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	list, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("notification", "list", err)
	}
	return list, nil
}

// MarkRead implements NotificationService.MarkRead
func (s *NotificationServiceImpl) MarkRead(
	ctx context.Context,
	userID, notificationID uuid.UUID,
) (*domain.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, userID, notificationID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, NewServiceError("notification", "mark_read", err)
	}
	return n, nil
}
