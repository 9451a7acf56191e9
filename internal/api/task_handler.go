package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark-api/internal/api/shared"
	"github.com/shelfmark/shelfmark-api/internal/domain"
)

// TaskService is the slice of the task engine the HTTP handlers need.
// Implemented by *task.Engine.
type TaskService interface {
	// Submit persists a new task and schedules it for execution.
	Submit(ctx context.Context, kind string, payload any, ownerID uuid.UUID) (uuid.UUID, error)

	// GetTask returns the task only if it belongs to ownerID.
	GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// Retry re-initializes a terminal task and schedules it again.
	Retry(ctx context.Context, id, ownerID uuid.UUID) error
}

// TaskHandler handles the background task API requests.
type TaskHandler struct {
	tasks     TaskService
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{
		tasks:     tasks,
		validator: validator.New(),
	}
}

// Submit handles POST /tasks. The task is persisted and queued; the response
// returns 202 Accepted with the ID to poll.
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SubmitTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// The raw JSON payload is stored on the task untouched; the handler for
	// this kind interprets it at execution time.
	taskID, err := h.tasks.Submit(r.Context(), req.Kind, string(req.Payload), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitTaskResponse{
		TaskID: taskID,
		Status: string(domain.TaskStatusPending),
	})
}

// GetTask handles GET /tasks/{id}. Tasks owned by other users are reported
// as not found.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tasks.GetTask(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(t))
}

// Retry handles POST /tasks/{id}/retry. Only tasks in a terminal state can
// be retried; retrying a pending or running task returns 409.
func (h *TaskHandler) Retry(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.tasks.Retry(r.Context(), taskID, userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitTaskResponse{
		TaskID: taskID,
		Status: string(domain.TaskStatusPending),
	})
}
