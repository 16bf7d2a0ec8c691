// Package llm provides clients for hosted chat-completion APIs. The rest
// of the application only sees the Completer interface; a failed call
// never touches persisted state.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message roles as sent to the completion APIs.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one element of the rolling conversational context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer answers a free-text message, optionally informed by a short
// window of prior messages.
type Completer interface {
	Complete(ctx context.Context, message string, history []Message) (string, error)
}

// Failure modes callers must be able to distinguish from transport errors.
var (
	// ErrEmptyResponse means the upstream returned a body with no usable text.
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrNoChoices means the upstream answered but produced no candidates.
	ErrNoChoices = errors.New("llm: no choices returned")
)

// UpstreamError is a structured error payload returned by the provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm: upstream error (status %d): %s", e.Status, e.Message)
}

// systemPrompt frames every completion request.
const systemPrompt = "You are a helpful AI assistant specializing in explaining complex scientific and mathematical concepts. Provide detailed, step-by-step explanations with mathematical notation when possible."

// ContextWindow is the number of trailing messages forwarded as
// conversational context.
const ContextWindow = 6

// Window returns the last ContextWindow messages of history.
func Window(history []Message) []Message {
	if len(history) <= ContextWindow {
		return history
	}
	return history[len(history)-ContextWindow:]
}
