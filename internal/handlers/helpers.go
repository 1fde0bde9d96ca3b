package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/scribo/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteEnvelope applies an envelope's headers and status code and writes
// its body as JSON.
func WriteEnvelope(w http.ResponseWriter, envelope *models.Envelope) error {
	for key, value := range envelope.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(envelope.StatusCode)
	return json.NewEncoder(w).Encode(envelope.Body)
}

// WriteSuccess writes a success envelope with the given data.
func WriteSuccess(w http.ResponseWriter, statusCode int, data interface{}) error {
	return WriteEnvelope(w, models.NewSuccessEnvelope(statusCode, data))
}

// WriteError writes an error envelope with the given message.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteEnvelope(w, models.NewErrorEnvelope(statusCode, message))
}
