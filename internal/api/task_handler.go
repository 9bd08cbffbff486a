package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service/tasks"
)

// TaskHandler handles task HTTP requests. All write paths go through the
// task service so label resolution stays transactional.
type TaskHandler struct {
	taskService tasks.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService tasks.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /api/tasks requests. The status, executor, creator and
// label query parameters narrow the result; blank or non-numeric values are
// ignored. With mine=true only the actor's own tasks are returned, overriding
// any explicit creator parameter.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	criteria := tasks.ListCriteria{
		StatusID:   parseOptionalIntQuery(r, "status"),
		ExecutorID: parseOptionalIntQuery(r, "executor"),
		CreatorID:  parseOptionalIntQuery(r, "creator"),
		LabelID:    parseOptionalIntQuery(r, "label"),
		Mine:       r.URL.Query().Get("mine") == "true",
		ActorID:    actorID,
	}

	result, err := h.taskService.List(r.Context(), criteria)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]TaskResponse, 0, len(result))
	for _, task := range result {
		response = append(response, NewTaskResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Create handles POST /api/tasks requests.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actorID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	input, ok := h.decodeTaskInput(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Create(r.Context(), actorID, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created via API",
		slog.Int64("task_id", task.ID),
		slog.Int64("actor_id", actorID))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// Get handles GET /api/tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PUT /api/tasks/{id} requests.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	input, ok := h.decodeTaskInput(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Update(r.Context(), id, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /api/tasks/{id} requests.
// Only the task's creator may delete it.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	actorID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.taskService.Delete(r.Context(), id, actorID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted via API",
		slog.Int64("task_id", id),
		slog.Int64("actor_id", actorID))
	w.WriteHeader(http.StatusNoContent)
}

// decodeTaskInput decodes and validates a task payload, parsing the raw label
// references. On failure it writes the error response and returns ok=false.
func (h *TaskHandler) decodeTaskInput(
	w http.ResponseWriter,
	r *http.Request,
) (tasks.TaskInput, bool) {
	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return tasks.TaskInput{}, false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return tasks.TaskInput{}, false
	}

	labelRefs, err := domain.ParseLabelRefs(req.Labels)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLabelRef) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid label reference", err)
		} else {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		}
		return tasks.TaskInput{}, false
	}

	return tasks.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
		ExecutorID:  req.ExecutorID,
		LabelRefs:   labelRefs,
	}, true
}
