package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/api/shared"
	"github.com/yonatan12121/TMS/internal/domain"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/service"
)

// dateOnlyLayout is accepted for due dates besides RFC 3339.
const dateOnlyLayout = "2006-01-02"

// TaskHandler handles task, comment and report requests.
type TaskHandler struct {
	tasks   service.TaskService
	reports service.ReportService
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, reports service.ReportService, log *slog.Logger) *TaskHandler {
	if tasks == nil || reports == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tasks and reports cannot be nil for TaskHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:   tasks,
		reports: reports,
		logger:  log.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.Category,
		Assignees:   req.AssignedTo,
	}
	if req.Priority != "" {
		p, err := domain.ParsePriority(req.Priority)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		in.Priority = p
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		in.DueDate = &due
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// FilterTasks handles GET /tasks/filter?category=&priority=&status=&dueDate=.
func (h *TaskHandler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.tasks.FilterTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to filter tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Report handles GET /tasks/reports?sendEmail=true.
func (h *TaskHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	sendEmail := r.URL.Query().Get("sendEmail") == "true"
	report, err := h.reports.Generate(r.Context(), userID, sendEmail)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate report")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GetTask handles GET /tasks/{taskID}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", h.logger)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", h.logger)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", h.logger)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Task deleted successfully")
}

// AssignTask handles PUT /tasks/{taskID}/assign/{userID}.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	h.addAssignee(w, r, h.tasks.AssignTask, "Failed to assign task")
}

// ShareTask handles PUT /tasks/{taskID}/share/{userID}.
func (h *TaskHandler) ShareTask(w http.ResponseWriter, r *http.Request) {
	h.addAssignee(w, r, h.tasks.ShareTask, "Failed to share task")
}

type assignFunc func(ctx context.Context, requesterID, taskID, userID uuid.UUID) (*domain.Task, error)

type statusFunc func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

func (h *TaskHandler) addAssignee(w http.ResponseWriter, r *http.Request, op assignFunc, failure string) {
	requesterID, ids, ok := handleUserIDAndPathUUIDs(w, r, h.logger, "taskID", "userID")
	if !ok {
		return
	}

	task, err := op(r.Context(), requesterID, ids[0], ids[1])
	if err != nil {
		HandleAPIError(w, r, err, failure)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CompleteTask handles POST /tasks/{taskID}/complete.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.tasks.MarkCompleted, "Failed to complete task")
}

// ReviewTask handles POST /tasks/{taskID}/review.
func (h *TaskHandler) ReviewTask(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.tasks.MarkForReview, "Failed to mark task for review")
}

func (h *TaskHandler) setStatus(w http.ResponseWriter, r *http.Request, op statusFunc, failure string) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", h.logger)
	if !ok {
		return
	}

	task, err := op(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, failure)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// AddComment handles POST /tasks/{taskID}/comments.
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", h.logger)
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.tasks.AddComment(r.Context(), userID, taskID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// ListComments handles GET /tasks/{taskID}/comments.
func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", h.logger)
	if !ok {
		return
	}

	comments, err := h.tasks.ListComments(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}

func (req UpdateTaskRequest) toInput() (service.UpdateTaskInput, error) {
	in := service.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		ClearDueDate:  req.ClearDueDate,
		CategoryID:    req.Category,
		ClearCategory: req.ClearCategory,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			return in, err
		}
		in.DueDate = &due
	}
	if req.Priority != nil {
		p, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return in, err
		}
		in.Priority = &p
	}
	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return in, err
		}
		in.Status = &st
	}
	return in, nil
}

func parseTaskFilter(r *http.Request) (domain.TaskFilter, error) {
	var filter domain.TaskFilter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("category")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("category", "has invalid format", domain.ErrInvalidID)
		}
		filter.CategoryID = &id
	}
	if v := strings.TrimSpace(q.Get("priority")); v != "" {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return filter, err
		}
		filter.Priority = &p
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st, err := domain.ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &st
	}
	if v := strings.TrimSpace(q.Get("dueDate")); v != "" {
		due, err := parseDate("dueDate", v)
		if err != nil {
			return filter, err
		}
		filter.DueBefore = &due
	}
	return filter, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain date means
// the end of that day in UTC, so a task due that day is included.
func parseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return time.Time{}, domain.NewValidationError(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp", domain.ErrValidation)
}
