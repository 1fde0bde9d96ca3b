package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeStub indicates the service returns canned responses (tests)
	LLMModeStub LLMMode = "stub"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model chat completions.
// The generation pipeline drives every reasoning, drafting, and refinement
// step through this interface so the agent loop can be tested with a stub.
type LLMService interface {
	// Chat generates a completion for the conversation history in
	// chronological order, including system prompts, user messages, and
	// previous assistant responses.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is operational
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode
	GetMode() LLMMode

	// Close releases resources
	Close() error
}
