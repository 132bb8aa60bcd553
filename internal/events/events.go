package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/domain"
)

// TaskEvent describes a change to a task that its recipients should be told about.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is the notification kind the event produces
	Type domain.NotificationType `json:"type"`

	// TaskID identifies the task the event is about
	TaskID uuid.UUID `json:"task_id"`

	// ActorID is the user whose request caused the event
	ActorID uuid.UUID `json:"actor_id"`

	// Recipients are the users to notify, without duplicates
	Recipients []uuid.UUID `json:"recipients"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskEvent creates a TaskEvent. Duplicate and nil recipients are dropped.
func NewTaskEvent(
	eventType domain.NotificationType,
	taskID, actorID uuid.UUID,
	recipients ...uuid.UUID,
) *TaskEvent {
	ids := make([]uuid.UUID, 0, len(recipients))
	for _, id := range domain.DedupeIDs(recipients) {
		if id != uuid.Nil {
			ids = append(ids, id)
		}
	}

	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     taskID,
		ActorID:    actorID,
		Recipients: ids,
		CreatedAt:  time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}
