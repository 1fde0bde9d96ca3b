package models

import "time"

// ResponseBody is the JSON body every API endpoint returns. Exactly one
// of Data and Error is set, driven by Success.
type ResponseBody struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Envelope pairs a response body with its HTTP status code and headers.
// Pipeline stages build envelopes; the HTTP layer serializes the body and
// applies the status and headers.
type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       ResponseBody      `json:"body"`
}

// corsHeaders are attached to every envelope so browser clients can call
// the API from any origin
func corsHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// NewSuccessEnvelope builds a success envelope with CORS headers
func NewSuccessEnvelope(statusCode int, data interface{}) *Envelope {
	return &Envelope{
		StatusCode: statusCode,
		Headers:    corsHeaders(),
		Body: ResponseBody{
			Success:   true,
			Data:      data,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// NewErrorEnvelope builds an error envelope with CORS headers
func NewErrorEnvelope(statusCode int, message string) *Envelope {
	return &Envelope{
		StatusCode: statusCode,
		Headers:    corsHeaders(),
		Body: ResponseBody{
			Success:   false,
			Error:     message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
