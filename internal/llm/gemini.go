package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini completion model used when none is
// configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient answers questions through the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// Ensure GeminiClient implements Completer.
var _ Completer = (*GeminiClient)(nil)

// NewGemini creates a Gemini-backed completer.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: Gemini API key is not configured")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model, logger: logger}, nil
}

// Complete sends the message, preceded by the rolling context window, and
// returns the generated text. Assistant-authored history maps to the
// "model" role the Gemini API expects.
func (g *GeminiClient) Complete(ctx context.Context, message string, history []Message) (string, error) {
	window := Window(history)
	contents := make([]*genai.Content, 0, len(window)+1)
	for _, m := range window {
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoChoices
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
