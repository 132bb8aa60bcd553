package api

import (
	"log/slog"
	"net/http"

	"github.com/yonatan12121/TMS/internal/api/shared"
	"github.com/yonatan12121/TMS/internal/service"
)

// NotificationHandler handles notification requests.
type NotificationHandler struct {
	notifications service.NotificationService
	logger        *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications service.NotificationService, log *slog.Logger) *NotificationHandler {
	if notifications == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("notifications cannot be nil for NotificationHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &NotificationHandler{
		notifications: notifications,
		logger:        log.With(slog.String("component", "notification_handler")),
	}
}

// ListNotifications handles GET /notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	notifications, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notifications")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// MarkRead handles PATCH /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, notificationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	notification, err := h.notifications.MarkRead(r.Context(), userID, notificationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update notification")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notification)
}
