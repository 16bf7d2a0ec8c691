package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OpenAI API settings.
const (
	// DefaultOpenAIURL is the base URL for the OpenAI-compatible API.
	DefaultOpenAIURL = "https://api.openai.com/v1"

	// DefaultOpenAIModel is the completion model used when none is configured.
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultTimeout bounds a single completion round trip.
	DefaultTimeout = 60 * time.Second

	// defaultMaxRetries is the number of retry attempts for transient errors.
	defaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 10 * 1024 * 1024

	completionMaxTokens   = 1000
	completionTemperature = 0.7
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

// Ensure OpenAIClient implements Completer.
var _ Completer = (*OpenAIClient)(nil)

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIBaseURL overrides the API base URL (for compatible providers
// and tests).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithOpenAIModel overrides the completion model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIClient) { c.model = model }
}

// WithOpenAIHTTPClient overrides the HTTP client.
func WithOpenAIHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient = hc }
}

// NewOpenAI creates a client for the OpenAI chat-completions API.
func NewOpenAI(apiKey string, logger *zap.Logger, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: OpenAI API key is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    DefaultOpenAIURL,
		model:      DefaultOpenAIModel,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		maxRetries: defaultMaxRetries,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the message, framed by the system prompt and the rolling
// window of prior messages, and returns the assistant's answer text.
// Transient failures (429, 5xx, transport errors) are retried with
// exponential backoff; everything else surfaces immediately.
func (c *OpenAIClient) Complete(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, Window(history)...)
	messages = append(messages, Message{Role: RoleUser, Content: message})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			c.logger.Debug("retrying completion request",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		answer, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", lastErr
}

// doRequest performs one round trip. The second return value reports
// whether the failure is worth retrying.
func (c *OpenAIClient) doRequest(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}
	if len(raw) == 0 {
		return "", resp.StatusCode >= 500, ErrEmptyResponse
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w: %w", ErrEmptyResponse, err)
	}
	if parsed.Error != nil {
		uerr := &UpstreamError{Status: resp.StatusCode, Message: parsed.Error.Message}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, uerr
	}
	if resp.StatusCode != http.StatusOK {
		uerr := &UpstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		return "", resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, uerr
	}
	if len(parsed.Choices) == 0 {
		return "", false, ErrNoChoices
	}
	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", false, ErrEmptyResponse
	}
	return content, false, nil
}
