package mocks

import (
	"context"
	"sync"

	"github.com/yonatan12121/TMS/internal/events"
)

// MockEventEmitter records emitted events.
type MockEventEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent

	// Err is returned from EmitEvent after the event is recorded
	Err error
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent records event and returns m.Err.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns a copy of the recorded events.
func (m *MockEventEmitter) Events() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskEvent, len(m.events))
	copy(out, m.events)
	return out
}
