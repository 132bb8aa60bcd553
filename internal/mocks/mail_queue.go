package mocks

import (
	"context"
	"sync"

	"github.com/yonatan12121/TMS/internal/platform/mail"
)

// MockMailQueue records queued messages. It satisfies service.MailQueue.
type MockMailQueue struct {
	mu       sync.Mutex
	messages []mail.Message

	// Err is returned from Enqueue after the message is recorded
	Err error
}

// Enqueue records msg and returns m.Err.
func (m *MockMailQueue) Enqueue(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.Err
}

// Messages returns a copy of everything queued so far.
func (m *MockMailQueue) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mail.Message, len(m.messages))
	copy(out, m.messages)
	return out
}
