package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment is an immutable note left on a task by its owner or an assignee.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a Comment. Text is trimmed and must not be empty.
func NewComment(taskID, authorID uuid.UUID, text string) (*Comment, error) {
	c := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil || c.TaskID == uuid.Nil || c.AuthorID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(c.Text) == "" {
		return NewValidationError("content", "cannot be empty", ErrEmptyContent)
	}
	return nil
}
