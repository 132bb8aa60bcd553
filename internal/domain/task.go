package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 200

// Priority is the urgency of a task.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts a wire value into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", NewValidationError("priority", "must be one of Low, Medium, High", ErrInvalidPriority)
	}
	return p, nil
}

// Status is the lifecycle state of a task.
type Status string

// Possible status values
const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusForReview Status = "For Review"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusForReview:
		return true
	}
	return false
}

// ParseStatus converts a wire value into a Status. "ForReview" is accepted
// as another spelling of StatusForReview.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if st == "ForReview" {
		st = StatusForReview
	}
	if !st.Valid() {
		return "", NewValidationError("status", "must be one of Pending, Completed, For Review", ErrInvalidStatus)
	}
	return st, nil
}

// transitions lists the status changes a task normally goes through.
// Status assignment is not restricted to this table; updates outside it
// are logged.
var transitions = map[Status][]Status{
	StatusPending:   {StatusForReview, StatusCompleted},
	StatusForReview: {StatusPending, StatusCompleted},
	StatusCompleted: {StatusPending},
}

// CanTransition reports whether from -> to is part of the normal workflow.
// Setting the current status again is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return from.Valid()
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Task is a unit of work owned by one user and visible to its assignees.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	CategoryID  *uuid.UUID  `json:"category_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	Assignees   []uuid.UUID `json:"assignees"`
	Comments    []Comment   `json:"comments,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewTask creates a Pending task. An empty priority defaults to Medium.
// Assignees are de-duplicated, keeping first-seen order.
func NewTask(
	ownerID uuid.UUID,
	title, description string,
	dueDate *time.Time,
	priority Priority,
	categoryID *uuid.UUID,
	assignees []uuid.UUID,
) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	if dueDate != nil {
		d := dueDate.UTC()
		dueDate = &d
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		Title:       strings.TrimSpace(title),
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      StatusPending,
		Assignees:   DedupeIDs(assignees),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of Low, Medium, High", ErrInvalidPriority)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be one of Pending, Completed, For Review", ErrInvalidStatus)
	}
	for _, id := range t.Assignees {
		if id == uuid.Nil {
			return NewValidationError("assignees", "contains an empty id", ErrInvalidID)
		}
	}
	return nil
}

// IsOverdue reports whether the task is still pending past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status == StatusPending && t.DueDate != nil && t.DueDate.Before(now)
}

// HasAssignee reports whether userID is among the task's assignees.
func (t *Task) HasAssignee(userID uuid.UUID) bool {
	for _, id := range t.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

// CanView reports whether userID may read and comment on the task.
func (t *Task) CanView(userID uuid.UUID) bool {
	return t.OwnerID == userID || t.HasAssignee(userID)
}

// ValidateTitle checks a task title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyContent)
	}
	if len(title) > MaxTitleLength {
		return NewValidationError("title", "is too long", nil)
	}
	return nil
}

// DedupeIDs returns ids without duplicates or nil UUIDs, preserving order.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// TaskFilter narrows a set of owned tasks. Nil fields do not filter.
// All set fields must match.
type TaskFilter struct {
	CategoryID *uuid.UUID
	Priority   *Priority
	Status     *Status
	// DueBefore matches tasks with a due date at or before this instant.
	DueBefore *time.Time
}

// Matches reports whether t satisfies every set predicate.
func (f TaskFilter) Matches(t *Task) bool {
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*f.DueBefore)) {
		return false
	}
	return true
}
