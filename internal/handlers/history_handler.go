package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
)

// HistoryHandler handles generation history requests
type HistoryHandler struct {
	history interfaces.HistoryStorage
	logger  arbor.ILogger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(history interfaces.HistoryStorage, logger arbor.ILogger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// HistoryRoutes handles GET /api/history/{userId} and
// GET /api/history/{userId}/{requestId}
func (h *HistoryHandler) HistoryRoutes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/history/"), "/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "User ID required")
		return
	}

	parts := strings.SplitN(path, "/", 2)
	userID := parts[0]

	if len(parts) == 2 {
		h.getRecord(w, r, userID, parts[1])
		return
	}
	h.listRecords(w, r, userID)
}

func (h *HistoryHandler) getRecord(w http.ResponseWriter, r *http.Request, userID, requestID string) {
	record, err := h.history.Get(r.Context(), userID, requestID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "History record not found")
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Str("request_id", requestID).Msg("History lookup failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, http.StatusOK, record)
}

func (h *HistoryHandler) listRecords(w http.ResponseWriter, r *http.Request, userID string) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	records, err := h.history.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("History list failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"userId":  userID,
		"count":   len(records),
		"history": records,
	})
}
