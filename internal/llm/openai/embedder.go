package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/errgroup"
)

const (
	// The embeddings endpoint caps the number of inputs per request.
	maxEmbedBatchSize = 100
	maxEmbedInFlight  = 4
)

// Embedder produces embedding vectors via an OpenAI-compatible endpoint.
// Chat and embeddings are configured separately because Groq serves chat
// but not embeddings.
type Embedder struct {
	api   openai.Client
	model string
	dims  int
}

// NewEmbedder constructs an Embedder. dims <= 0 leaves the model default.
func NewEmbedder(apiKey, baseURL, model string, dims int) (*Embedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("EMBED_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("EMBED_MODEL is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Embedder{
		api:   openai.NewClient(opts...),
		model: model,
		dims:  dims,
	}, nil
}

// Embed returns the vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts, splitting them into API-sized batches that
// run with bounded concurrency. The result preserves input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxEmbedInFlight)

	for start := 0; start < len(texts); start += maxEmbedBatchSize {
		end := start + maxEmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		offset, batch := start, texts[start:end]
		g.Go(func() error {
			vectors, err := e.embedOnce(gctx, batch)
			if err != nil {
				return err
			}
			for i, v := range vectors {
				out[offset+i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Embedder) embedOnce(ctx context.Context, batch []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
	}
	if e.dims > 0 {
		params.Dimensions = openai.Int(int64(e.dims))
	}

	var (
		resp *openai.CreateEmbeddingResponse
		err  error
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
		resp, err = e.api.Embeddings.New(ctx, params)
		if err == nil || !isRateLimited(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("embed batch model=%s size=%d: %w", e.model, len(batch), err)
	}
	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("embed batch model=%s: got %d vectors for %d inputs", e.model, len(resp.Data), len(batch))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(vectors) {
			return nil, fmt.Errorf("embed batch model=%s: vector index %d out of range", e.model, item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for j, val := range item.Embedding {
			vec[j] = float32(val)
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}
