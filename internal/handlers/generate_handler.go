package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
	"github.com/ternarybob/scribo/internal/pipeline"
)

// GenerateHandler handles README generation requests
type GenerateHandler struct {
	generateService *pipeline.GenerateService
	logger          arbor.ILogger
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(generateService *pipeline.GenerateService, logger arbor.ILogger) *GenerateHandler {
	return &GenerateHandler{
		generateService: generateService,
		logger:          logger,
	}
}

// GenerateHandler handles POST /api/generate
func (h *GenerateHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode generate request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.generateService.Generate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "No analysis found for repository; run analyze first")
			return
		}
		h.logger.Error().Err(err).
			Str("repo", req.Owner+"/"+req.Repo).
			Msg("Generate stage failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, http.StatusOK, result)
}
