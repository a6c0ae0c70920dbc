package llm

import (
	"context"
	"errors"
)

// Request describes a single chat completion call.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response carries the completion text plus token accounting when the
// backend reports it. Content may be empty: providers occasionally return
// a choice with no text and callers treat that as "no response".
type Response struct {
	Content     string
	Model       string
	TotalTokens int64
}

// Client abstracts chat completion providers. Implementations must be safe
// for concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (Response, error) {
	_ = ctx
	_ = req
	return Response{}, ErrNotConfigured
}

// PlaceholderEmbedder is the embeddings counterpart of PlaceholderClient.
type PlaceholderEmbedder struct{}

// Embed returns ErrNotConfigured.
func (PlaceholderEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return nil, ErrNotConfigured
}

// EmbedBatch returns ErrNotConfigured.
func (PlaceholderEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	_ = ctx
	_ = texts
	return nil, ErrNotConfigured
}
