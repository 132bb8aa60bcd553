package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/service"
	"github.com/yonatan12121/TMS/internal/store"
)

func newTaskHandler() (*TaskHandler, *mockTaskService, *mockReportService) {
	tasks := &mockTaskService{}
	reports := &mockReportService{}
	return NewTaskHandler(tasks, reports, testLogger()), tasks, reports
}

func sampleTask(ownerID uuid.UUID) *domain.Task {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     "Write report",
		Priority:  domain.PriorityMedium,
		Status:    domain.StatusPending,
		Assignees: []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	assignee := uuid.New()
	categoryID := uuid.New()

	t.Run("parses fields", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()

		due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
		expected := service.CreateTaskInput{
			Title:       "Write report",
			Description: "quarterly",
			DueDate:     &due,
			Priority:    domain.PriorityHigh,
			CategoryID:  &categoryID,
			Assignees:   []uuid.UUID{assignee},
		}
		tasks.On("CreateTask", mock.Anything, ownerID, expected).Return(sampleTask(ownerID), nil)

		dueStr := "2025-04-01"
		rec := serve(t, ownerID, http.MethodPost, "/tasks", "/tasks", CreateTaskRequest{
			Title:       "Write report",
			Description: "quarterly",
			DueDate:     &dueStr,
			Priority:    "High",
			AssignedTo:  []uuid.UUID{assignee},
			Category:    &categoryID,
		}, h.CreateTask)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var task domain.Task
		decodeBody(t, rec, &task)
		assert.Equal(t, ownerID, task.OwnerID)
		tasks.AssertExpectations(t)
	})

	bad := []struct {
		name    string
		payload interface{}
	}{
		{"missing title", CreateTaskRequest{}},
		{"invalid priority", CreateTaskRequest{Title: "x", Priority: "Urgent"}},
		{"invalid due date", map[string]interface{}{"title": "x", "dueDate": "next week"}},
		{"invalid assignee id", map[string]interface{}{"title": "x", "assignedTo": []string{"bob"}}},
	}
	for _, tt := range bad {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, tasks, _ := newTaskHandler()

			rec := serve(t, ownerID, http.MethodPost, "/tasks", "/tasks", tt.payload, h.CreateTask)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("foreign category", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("CreateTask", mock.Anything, ownerID, mock.Anything).
			Return(nil, domain.NewValidationError("category", "does not exist", nil))

		rec := serve(t, ownerID, http.MethodPost, "/tasks", "/tasks",
			CreateTaskRequest{Title: "x", Category: &categoryID}, h.CreateTask)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid category: does not exist", decodeError(t, rec).Error)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	h, tasks, _ := newTaskHandler()
	tasks.On("ListTasks", mock.Anything, ownerID).Return([]domain.Task{*sampleTask(ownerID)}, nil)

	rec := serve(t, ownerID, http.MethodGet, "/tasks", "/tasks", nil, h.ListTasks)

	assert.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Task
	decodeBody(t, rec, &list)
	assert.Len(t, list, 1)
}

func TestFilterTasks(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	categoryID := uuid.New()

	t.Run("no filters", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("FilterTasks", mock.Anything, ownerID, domain.TaskFilter{}).Return([]domain.Task{}, nil)

		rec := serve(t, ownerID, http.MethodGet, "/tasks/filter", "/tasks/filter", nil, h.FilterTasks)
		assert.Equal(t, http.StatusOK, rec.Code)
		tasks.AssertExpectations(t)
	})

	t.Run("all filters", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("FilterTasks", mock.Anything, ownerID, mock.MatchedBy(func(f domain.TaskFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == categoryID &&
				f.Priority != nil && *f.Priority == domain.PriorityLow &&
				f.Status != nil && *f.Status == domain.StatusForReview &&
				f.DueBefore != nil && f.DueBefore.Equal(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
		})).Return([]domain.Task{}, nil)

		target := "/tasks/filter?category=" + categoryID.String() +
			"&priority=Low&status=For+Review&dueDate=2025-05-01T12:00:00Z"
		rec := serve(t, ownerID, http.MethodGet, "/tasks/filter", target, nil, h.FilterTasks)
		assert.Equal(t, http.StatusOK, rec.Code)
		tasks.AssertExpectations(t)
	})

	t.Run("ForReview spelling", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("FilterTasks", mock.Anything, ownerID, mock.MatchedBy(func(f domain.TaskFilter) bool {
			return f.Status != nil && *f.Status == domain.StatusForReview
		})).Return([]domain.Task{}, nil)

		rec := serve(t, ownerID, http.MethodGet, "/tasks/filter", "/tasks/filter?status=ForReview", nil, h.FilterTasks)
		assert.Equal(t, http.StatusOK, rec.Code)
		tasks.AssertExpectations(t)
	})

	for _, query := range []string{"status=Done", "priority=urgent", "category=abc", "dueDate=tomorrow"} {
		query := query
		t.Run("bad "+query, func(t *testing.T) {
			t.Parallel()
			h, tasks, _ := newTaskHandler()

			rec := serve(t, ownerID, http.MethodGet, "/tasks/filter", "/tasks/filter?"+query, nil, h.FilterTasks)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			tasks.AssertNotCalled(t, "FilterTasks", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h, _, reports := newTaskHandler()
	report := &domain.Report{TotalTasks: 1, CompletedTasks: 1, CompletionRate: 100}
	reports.On("Generate", mock.Anything, userID, true).Return(report, nil)
	reports.On("Generate", mock.Anything, userID, false).Return(&domain.Report{}, nil)

	rec := serve(t, userID, http.MethodGet, "/tasks/reports", "/tasks/reports?sendEmail=true", nil, h.Report)
	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.Report
	decodeBody(t, rec, &got)
	assert.Equal(t, 100.0, got.CompletionRate)

	rec = serve(t, userID, http.MethodGet, "/tasks/reports", "/tasks/reports", nil, h.Report)
	assert.Equal(t, http.StatusOK, rec.Code)
	reports.AssertExpectations(t)
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := sampleTask(userID)
	h, tasks, _ := newTaskHandler()
	tasks.On("GetTask", mock.Anything, userID, task.ID).Return(task, nil)
	missing := uuid.New()
	tasks.On("GetTask", mock.Anything, userID, missing).Return(nil, store.ErrTaskNotFound)

	rec := serve(t, userID, http.MethodGet, "/tasks/{taskID}", "/tasks/"+task.ID.String(), nil, h.GetTask)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, userID, http.MethodGet, "/tasks/{taskID}", "/tasks/"+missing.String(), nil, h.GetTask)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, KindNotFound, resp.Kind)
	assert.Equal(t, "Task not found", resp.Error)

	rec = serve(t, userID, http.MethodGet, "/tasks/{taskID}", "/tasks/not-a-uuid", nil, h.GetTask)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid taskID: has invalid format", decodeError(t, rec).Error)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	taskID := uuid.New()

	t.Run("partial update", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("UpdateTask", mock.Anything, ownerID, taskID, mock.MatchedBy(func(in service.UpdateTaskInput) bool {
			return in.Title != nil && *in.Title == "New title" &&
				in.Status != nil && *in.Status == domain.StatusCompleted &&
				in.Priority == nil && in.Description == nil &&
				in.ClearDueDate && !in.ClearCategory
		})).Return(sampleTask(ownerID), nil)

		rec := serve(t, ownerID, http.MethodPut, "/tasks/{taskID}", "/tasks/"+taskID.String(),
			map[string]interface{}{"title": "New title", "status": "Completed", "clearDueDate": true}, h.UpdateTask)

		assert.Equal(t, http.StatusOK, rec.Code)
		tasks.AssertExpectations(t)
	})

	t.Run("ForReview spelling", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("UpdateTask", mock.Anything, ownerID, taskID, mock.MatchedBy(func(in service.UpdateTaskInput) bool {
			return in.Status != nil && *in.Status == domain.StatusForReview
		})).Return(sampleTask(ownerID), nil)

		rec := serve(t, ownerID, http.MethodPut, "/tasks/{taskID}", "/tasks/"+taskID.String(),
			map[string]interface{}{"status": "ForReview"}, h.UpdateTask)

		assert.Equal(t, http.StatusOK, rec.Code)
		tasks.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()

		rec := serve(t, ownerID, http.MethodPut, "/tasks/{taskID}", "/tasks/"+taskID.String(),
			map[string]interface{}{"status": "Archived"}, h.UpdateTask)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		tasks.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not owner", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTaskHandler()
		tasks.On("UpdateTask", mock.Anything, ownerID, taskID, mock.Anything).Return(nil, store.ErrTaskNotFound)

		rec := serve(t, ownerID, http.MethodPut, "/tasks/{taskID}", "/tasks/"+taskID.String(),
			map[string]interface{}{"title": "x"}, h.UpdateTask)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	mine := uuid.New()
	theirs := uuid.New()
	h, tasks, _ := newTaskHandler()
	tasks.On("DeleteTask", mock.Anything, ownerID, mine).Return(nil)
	tasks.On("DeleteTask", mock.Anything, ownerID, theirs).Return(store.ErrTaskNotFound)

	rec := serve(t, ownerID, http.MethodDelete, "/tasks/{taskID}", "/tasks/"+mine.String(), nil, h.DeleteTask)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, ownerID, http.MethodDelete, "/tasks/{taskID}", "/tasks/"+theirs.String(), nil, h.DeleteTask)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignAndShareTask(t *testing.T) {
	t.Parallel()

	requester := uuid.New()
	taskID := uuid.New()
	target := uuid.New()
	h, tasks, _ := newTaskHandler()
	tasks.On("AssignTask", mock.Anything, requester, taskID, target).Return(sampleTask(requester), nil)
	tasks.On("ShareTask", mock.Anything, requester, taskID, target).Return(nil, store.ErrUserNotFound)

	path := "/tasks/" + taskID.String()
	rec := serve(t, requester, http.MethodPut, "/tasks/{taskID}/assign/{userID}",
		path+"/assign/"+target.String(), nil, h.AssignTask)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, requester, http.MethodPut, "/tasks/{taskID}/share/{userID}",
		path+"/share/"+target.String(), nil, h.ShareTask)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Error)

	rec = serve(t, requester, http.MethodPut, "/tasks/{taskID}/assign/{userID}",
		path+"/assign/nope", nil, h.AssignTask)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	tasks.AssertExpectations(t)
}

func TestCompleteAndReviewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	taskID := uuid.New()
	h, tasks, _ := newTaskHandler()

	completed := sampleTask(ownerID)
	completed.Status = domain.StatusCompleted
	tasks.On("MarkCompleted", mock.Anything, ownerID, taskID).Return(completed, nil)
	tasks.On("MarkForReview", mock.Anything, ownerID, taskID).Return(nil, store.ErrTaskNotFound)

	rec := serve(t, ownerID, http.MethodPost, "/tasks/{taskID}/complete",
		"/tasks/"+taskID.String()+"/complete", nil, h.CompleteTask)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Task
	decodeBody(t, rec, &got)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	rec = serve(t, ownerID, http.MethodPost, "/tasks/{taskID}/review",
		"/tasks/"+taskID.String()+"/review", nil, h.ReviewTask)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	h, tasks, _ := newTaskHandler()

	comment := &domain.Comment{ID: uuid.New(), TaskID: taskID, AuthorID: userID, Text: "Looks good"}
	tasks.On("AddComment", mock.Anything, userID, taskID, "Looks good").Return(comment, nil)
	tasks.On("ListComments", mock.Anything, userID, taskID).Return([]domain.Comment{*comment}, nil)

	pattern := "/tasks/{taskID}/comments"
	target := "/tasks/" + taskID.String() + "/comments"

	rec := serve(t, userID, http.MethodPost, pattern, target, CommentRequest{Content: "Looks good"}, h.AddComment)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, userID, http.MethodPost, pattern, target, CommentRequest{Content: "   "}, h.AddComment)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Content: required field", decodeError(t, rec).Error)

	rec = serve(t, userID, http.MethodGet, pattern, target, nil, h.ListComments)
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Comment
	decodeBody(t, rec, &list)
	assert.Len(t, list, 1)

	tasks.AssertExpectations(t)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := parseDate("dueDate", "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, 999999999, time.UTC), got)

	got, err = parseDate("dueDate", "2025-06-30T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC), got)

	_, err = parseDate("dueDate", "30/06/2025")
	assert.True(t, domain.IsValidationError(err))
}
