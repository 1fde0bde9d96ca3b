package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/common"
	"github.com/ternarybob/scribo/internal/interfaces"
)

// healthTimeout bounds each component probe so one slow backend cannot
// stall the whole status response
const healthTimeout = 10 * time.Second

// StatusHandler reports application version and component health
type StatusHandler struct {
	llm     interfaces.LLMService
	nlp     interfaces.TextAnalyzer
	review  interfaces.ReviewService
	storage interfaces.StorageManager
	started time.Time
	logger  arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(llm interfaces.LLMService, nlp interfaces.TextAnalyzer, review interfaces.ReviewService, storage interfaces.StorageManager, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		llm:     llm,
		nlp:     nlp,
		review:  review,
		storage: storage,
		started: time.Now(),
		logger:  logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	components := map[string]string{
		"llm":     h.componentHealth(ctx, h.llm.HealthCheck),
		"nlp":     h.componentHealth(ctx, h.nlp.HealthCheck),
		"review":  h.componentHealth(ctx, h.review.HealthCheck),
		"storage": h.storageHealth(ctx),
	}

	healthy := true
	for _, state := range components {
		if state != "ok" {
			healthy = false
			break
		}
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetFullVersion(),
		"healthy":    healthy,
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"components": components,
	})
}

// VersionHandler handles GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}

func (h *StatusHandler) componentHealth(ctx context.Context, check func(context.Context) error) string {
	if err := check(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

// storageHealth probes the KV store with a read of a key that may not
// exist; only infrastructure failures count as unhealthy
func (h *StatusHandler) storageHealth(ctx context.Context) string {
	_, err := h.storage.KeyValueStorage().Get(ctx, "health-probe")
	if err != nil && !errors.Is(err, interfaces.ErrKeyNotFound) {
		return err.Error()
	}
	return "ok"
}
