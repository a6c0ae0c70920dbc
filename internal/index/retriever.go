package index

import (
	"context"
	"errors"
	"fmt"
)

// Retriever embeds a query and searches the session's chunks, dropping
// hits below the similarity floor.
type Retriever struct {
	Embedder Embedder
	Store    Store
	TopK     int
	MinScore float64
}

// Retrieve returns the session's most similar chunks for the query. An
// empty index yields an empty result, not an error, so callers can fall
// back to other sources.
func (r *Retriever) Retrieve(ctx context.Context, sessionID, query string) ([]ScoredChunk, error) {
	embedding, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve session=%s: embed query: %w", sessionID, err)
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 5
	}
	hits, err := r.Store.Search(ctx, sessionID, embedding, topK)
	if err != nil {
		if errors.Is(err, ErrEmptyIndex) {
			return nil, nil
		}
		return nil, fmt.Errorf("retrieve session=%s: %w", sessionID, err)
	}
	if r.MinScore <= 0 {
		return hits, nil
	}

	kept := make([]ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= r.MinScore {
			kept = append(kept, hit)
		}
	}
	return kept, nil
}
