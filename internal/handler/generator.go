package handler

import (
	"errors"
	"net/http"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerateChars handles POST /api/v1/generate/chars requests.
func (h *GeneratorHandler) HandleGenerateChars(w http.ResponseWriter, r *http.Request) {
	var req model.CharGenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.GenerateChars(r.Context(), req)
	writeGenerateResult(w, resp, err)
}

// HandleGenerateWords handles POST /api/v1/generate/words requests.
func (h *GeneratorHandler) HandleGenerateWords(w http.ResponseWriter, r *http.Request) {
	var req model.WordGenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.GenerateWords(r.Context(), req)
	writeGenerateResult(w, resp, err)
}

func writeGenerateResult(w http.ResponseWriter, resp model.GenerateResponse, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	switch {
	case errors.Is(err, crypto.ErrGenerationExhausted), errors.Is(err, crypto.ErrPassphraseTooLong):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case service.IsGenerationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
