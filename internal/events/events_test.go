package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yonatan12121/TMS/internal/domain"
)

func TestNewTaskEvent(t *testing.T) {
	taskID, actor := uuid.New(), uuid.New()
	a, b := uuid.New(), uuid.New()

	event := NewTaskEvent(domain.NotificationTaskAssigned, taskID, actor, a, b, a, uuid.Nil)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, domain.NotificationTaskAssigned, event.Type)
	assert.Equal(t, taskID, event.TaskID)
	assert.Equal(t, actor, event.ActorID)
	assert.Equal(t, []uuid.UUID{a, b}, event.Recipients)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)
}

func TestNewTaskEventWithoutRecipients(t *testing.T) {
	event := NewTaskEvent(domain.NotificationTaskUpdated, uuid.New(), uuid.New())
	assert.NotNil(t, event.Recipients)
	assert.Empty(t, event.Recipients)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *TaskEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}
