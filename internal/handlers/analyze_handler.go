package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/models"
	"github.com/ternarybob/scribo/internal/pipeline"
)

// AnalyzeHandler handles repository analysis requests
type AnalyzeHandler struct {
	analyzeService *pipeline.AnalyzeService
	logger         arbor.ILogger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(analyzeService *pipeline.AnalyzeService, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzeService: analyzeService,
		logger:         logger,
	}
}

// AnalyzeHandler handles POST /api/analyze
func (h *AnalyzeHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode analyze request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	analysis, err := h.analyzeService.Analyze(r.Context(), &req)
	if err != nil {
		var duplicate *pipeline.DuplicateError
		if errors.As(err, &duplicate) {
			WriteError(w, http.StatusConflict, fmt.Sprintf(
				"Repository already processed as request %s; set force to regenerate",
				duplicate.Existing.RequestID))
			return
		}
		h.logger.Error().Err(err).Str("repo_url", req.RepoURL).Msg("Analyze stage failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, http.StatusOK, analysis)
}
