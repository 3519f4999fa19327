package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// SettingsHandler serves the saved generator settings of the caller.
type SettingsHandler struct {
	settings  *service.SettingsService
	generator *service.GeneratorService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService, generator *service.GeneratorService) *SettingsHandler {
	return &SettingsHandler{settings: settings, generator: generator}
}

// HandleGet handles GET /api/v1/settings requests.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		slog.Error("loading settings", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /api/v1/settings requests.
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	req := model.SettingsRequest{Settings: model.DefaultSettings()}
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.settings.Update(r.Context(), userID, req)
	if err != nil {
		switch {
		case service.IsValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrVersionConflict):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			slog.Error("saving settings", "user_id", userID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleReset handles DELETE /api/v1/settings requests.
func (h *SettingsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.settings.Reset(r.Context(), userID); err != nil {
		slog.Error("resetting settings", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerate handles POST /api/v1/settings/generate requests, generating
// with the caller's saved settings.
func (h *SettingsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	saved, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		slog.Error("loading settings", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	resp, err := h.generator.GenerateFromSettings(saved.Settings, nil)
	writeGenerateResult(w, resp, err)
}
