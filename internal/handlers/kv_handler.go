package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
)

// KVHandler handles API key and setting storage HTTP requests
type KVHandler struct {
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger
}

// NewKVHandler creates a new KV handler
func NewKVHandler(kv interfaces.KeyValueStorage, logger arbor.ILogger) *KVHandler {
	return &KVHandler{
		kv:     kv,
		logger: logger,
	}
}

// KeysHandler handles /api/keys for GET (list) and POST (set)
func (h *KVHandler) KeysHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listKeys(w, r)
	case http.MethodPost:
		h.setKey(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// KeyRoutes handles DELETE /api/keys/{key}
func (h *KVHandler) KeyRoutes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/keys/"), "/")
	if key == "" {
		WriteError(w, http.StatusBadRequest, "Key required")
		return
	}

	if err := h.kv.Delete(r.Context(), key); err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			WriteError(w, http.StatusNotFound, "Key not found")
			return
		}
		h.logger.Error().Err(err).Str("key", key).Msg("Failed to delete key")
		WriteError(w, http.StatusInternalServerError, "Failed to delete key")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"key": key})
}

// listKeys returns all stored pairs with masked values
func (h *KVHandler) listKeys(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.kv.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list keys")
		WriteError(w, http.StatusInternalServerError, "Failed to list keys")
		return
	}

	masked := make([]map[string]interface{}, len(pairs))
	for i, pair := range pairs {
		masked[i] = map[string]interface{}{
			"key":         pair.Key,
			"value":       maskValue(pair.Value),
			"description": pair.Description,
			"created_at":  pair.CreatedAt,
			"updated_at":  pair.UpdatedAt,
		}
	}

	WriteSuccess(w, http.StatusOK, masked)
}

func (h *KVHandler) setKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key         string `json:"key"`
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Key == "" || req.Value == "" {
		WriteError(w, http.StatusBadRequest, "Key and value are required")
		return
	}

	if err := h.kv.Set(r.Context(), req.Key, req.Value, req.Description); err != nil {
		h.logger.Error().Err(err).Str("key", req.Key).Msg("Failed to set key")
		WriteError(w, http.StatusInternalServerError, "Failed to set key")
		return
	}

	h.logger.Info().Str("key", req.Key).Msg("Stored key/value pair")
	WriteSuccess(w, http.StatusOK, map[string]string{"key": req.Key})
}

// maskValue hides all but the last four characters of a stored secret
func maskValue(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + value[len(value)-4:]
}
