package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// ReviewHandler handles human review status requests
type ReviewHandler struct {
	reviewService interfaces.ReviewService
	logger        arbor.ILogger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService interfaces.ReviewService, logger arbor.ILogger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// ReviewRoutes handles /api/review/{loopName} for GET (status) and
// DELETE (cancel)
func (h *ReviewHandler) ReviewRoutes(w http.ResponseWriter, r *http.Request) {
	loopName := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/review/"), "/")
	if loopName == "" || strings.Contains(loopName, "/") {
		WriteError(w, http.StatusBadRequest, "Loop name required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.checkReview(w, r, loopName)
	case http.MethodDelete:
		h.cancelReview(w, r, loopName)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ReviewHandler) checkReview(w http.ResponseWriter, r *http.Request, loopName string) {
	result, err := h.reviewService.CheckReview(r.Context(), loopName)
	if err != nil {
		if errors.Is(err, interfaces.ErrReviewPending) {
			WriteSuccess(w, http.StatusAccepted, map[string]string{
				"loopName": loopName,
				"status":   models.ReviewStatusPending,
			})
			return
		}
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Review loop not found")
			return
		}
		h.logger.Error().Err(err).Str("loop_name", loopName).Msg("Review check failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, http.StatusOK, result)
}

func (h *ReviewHandler) cancelReview(w http.ResponseWriter, r *http.Request, loopName string) {
	if err := h.reviewService.CancelReview(r.Context(), loopName); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Review loop not found")
			return
		}
		h.logger.Error().Err(err).Str("loop_name", loopName).Msg("Review cancel failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{
		"loopName": loopName,
		"status":   models.ReviewStatusStopped,
	})
}
