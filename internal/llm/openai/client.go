package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"legalteam-backend/internal/llm"
)

const (
	defaultTimeout = 90 * time.Second
	maxAttempts    = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client implements llm.Client on the OpenAI chat completions protocol.
// A custom base URL points it at any compatible provider (Groq by default).
type Client struct {
	api     openai.Client
	timeout time.Duration
}

// NewClient constructs a Client. baseURL may be empty for the default
// OpenAI endpoint.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	timeout := defaultTimeout
	if raw := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	// Rate-limit retries are handled here so backoff is observable and
	// bounded; the SDK's own retry loop is disabled.
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		api:     openai.NewClient(opts...),
		timeout: timeout,
	}, nil
}

// Complete runs a single chat completion, retrying on 429 with exponential
// backoff. An empty assistant message is returned as-is, not as an error.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return llm.Response{}, fmt.Errorf("model is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	var (
		completion *openai.ChatCompletion
		err        error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return llm.Response{}, ctx.Err()
			case <-time.After(delay):
			}
		}
		completion, err = c.api.Chat.Completions.New(ctx, params)
		if err == nil || !isRateLimited(err) {
			break
		}
	}
	if err != nil {
		return llm.Response{}, fmt.Errorf("chat completion model=%s: %w", req.Model, err)
	}
	if len(completion.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("chat completion model=%s: no choices returned", req.Model)
	}

	resp := llm.Response{
		Content:     completion.Choices[0].Message.Content,
		Model:       completion.Model,
		TotalTokens: completion.Usage.TotalTokens,
	}
	logUsage(req.Model, resp.TotalTokens, time.Since(start))
	return resp, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func logUsage(model string, totalTokens int64, elapsed time.Duration) {
	if totalTokens > 0 {
		log.Printf("llm response model=%s total_tokens=%d duration_ms=%d", model, totalTokens, elapsed.Milliseconds())
		return
	}
	log.Printf("llm response model=%s duration_ms=%d", model, elapsed.Milliseconds())
}
