package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// StatusHandler handles task status HTTP requests.
type StatusHandler struct {
	statusStore store.StatusStore
	logger      *slog.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusStore store.StatusStore, log *slog.Logger) *StatusHandler {
	if log == nil {
		log = slog.Default()
	}
	return &StatusHandler{
		statusStore: statusStore,
		logger:      log.With(slog.String("component", "status_handler")),
	}
}

// List handles GET /api/statuses requests.
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statusStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statuses)
}

// Create handles POST /api/statuses requests.
func (h *StatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	status, err := domain.NewTaskStatus(req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	if err := h.statusStore.Create(r.Context(), status); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("status created", slog.Int64("status_id", status.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, status)
}

// Get handles GET /api/statuses/{id} requests.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status ID")
		return
	}

	status, err := h.statusStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// Update handles PUT /api/statuses/{id} requests.
func (h *StatusHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status ID")
		return
	}

	var req StatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	status, err := h.statusStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status.Name = req.Name
	status.UpdatedAt = time.Now().UTC()

	if err := h.statusStore.Update(r.Context(), status); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("status updated", slog.Int64("status_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// Delete handles DELETE /api/statuses/{id} requests.
// A status referenced by any task cannot be deleted.
func (h *StatusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status ID")
		return
	}

	if err := h.statusStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("status deleted", slog.Int64("status_id", id))
	w.WriteHeader(http.StatusNoContent)
}
