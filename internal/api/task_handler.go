package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// TaskHandler handles task requests. Every operation is scoped to the
// authenticated user.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, service.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{
		Message: "task created successfully",
		Task:    task,
	})
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	query := parseTaskQuery(r)
	tasks, err := h.tasks.List(r.Context(), user.ID, query)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed tasks",
		slog.String("sort_by", query.SortBy),
		slog.Int("limit", query.Limit),
		slog.Int("skip", query.Skip),
		slog.Int("count", len(tasks)))

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Message: "successfully fetched all the tasks",
		Count:   len(tasks),
		Tasks:   tasks,
	})
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id", store.ErrTaskNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.Get(r.Context(), id, user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Message: "successfully fetched the task",
		Task:    task,
	})
}

// Update handles PATCH /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id", store.ErrTaskNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	raw, err := shared.DecodeObject(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.Update(r.Context(), id, user.ID, raw)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{
		Message: "task updated successfully",
		Task:    task,
	})
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id", store.ErrTaskNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.tasks.Delete(r.Context(), id, user.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "task deleted successfully")
}
