package index

import (
	"context"
	"errors"
)

// Chunk is one indexed slice of a document.
type Chunk struct {
	Ordinal int
	Text    string
}

// ScoredChunk is a search hit with its cosine similarity to the query.
type ScoredChunk struct {
	Ordinal int
	Text    string
	Score   float64
}

// ErrEmptyIndex indicates a search against a session with no indexed chunks.
var ErrEmptyIndex = errors.New("session has no indexed chunks")

// Store persists chunk embeddings per session. Replace discards whatever
// the session held before inserting, so a re-upload never mixes chunks
// from two documents.
type Store interface {
	Replace(ctx context.Context, sessionID string, chunks []Chunk, embeddings [][]float32) error
	Search(ctx context.Context, sessionID string, embedding []float32, topK int) ([]ScoredChunk, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Count(ctx context.Context, sessionID string) (int, error)
}

// Embedder turns text into vectors. Implementations live next to the chat
// client since both speak the same provider protocol.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
