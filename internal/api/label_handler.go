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

// LabelHandler handles label HTTP requests.
type LabelHandler struct {
	labelStore store.LabelStore
	logger     *slog.Logger
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(labelStore store.LabelStore, log *slog.Logger) *LabelHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LabelHandler{
		labelStore: labelStore,
		logger:     log.With(slog.String("component", "label_handler")),
	}
}

// List handles GET /api/labels requests.
func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	labels, err := h.labelStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, labels)
}

// Create handles POST /api/labels requests.
func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LabelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	label, err := domain.NewLabel(req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	if err := h.labelStore.Create(r.Context(), label); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("label created", slog.Int64("label_id", label.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, label)
}

// Get handles GET /api/labels/{id} requests.
func (h *LabelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid label ID")
		return
	}

	label, err := h.labelStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, label)
}

// Update handles PUT /api/labels/{id} requests.
func (h *LabelHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid label ID")
		return
	}

	var req LabelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	label, err := h.labelStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	label.Name = req.Name
	label.UpdatedAt = time.Now().UTC()

	if err := h.labelStore.Update(r.Context(), label); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("label updated", slog.Int64("label_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, label)
}

// Delete handles DELETE /api/labels/{id} requests.
// A label still associated with any task cannot be deleted.
func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid label ID")
		return
	}

	if err := h.labelStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("label deleted", slog.Int64("label_id", id))
	w.WriteHeader(http.StatusNoContent)
}
