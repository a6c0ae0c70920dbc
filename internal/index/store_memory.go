package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

type memoryEntry struct {
	chunk     Chunk
	embedding []float32
}

// MemoryStore is a mutex-guarded brute-force cosine store used when no
// database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]memoryEntry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]memoryEntry)}
}

// Replace swaps the session's chunks for the given set.
func (s *MemoryStore) Replace(ctx context.Context, sessionID string, chunks []Chunk, embeddings [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("replace session=%s: %d chunks with %d embeddings", sessionID, len(chunks), len(embeddings))
	}

	entries := make([]memoryEntry, len(chunks))
	for i := range chunks {
		entries[i] = memoryEntry{chunk: chunks[i], embedding: embeddings[i]}
	}

	s.mu.Lock()
	s.data[sessionID] = entries
	s.mu.Unlock()
	return nil
}

// Search scores every chunk against the query vector and returns the topK
// by descending similarity, ties broken by ordinal.
func (s *MemoryStore) Search(ctx context.Context, sessionID string, embedding []float32, topK int) ([]ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	entries := s.data[sessionID]
	s.mu.RUnlock()
	if len(entries) == 0 {
		return nil, ErrEmptyIndex
	}

	scored := make([]ScoredChunk, 0, len(entries))
	for _, entry := range entries {
		scored = append(scored, ScoredChunk{
			Ordinal: entry.chunk.Ordinal,
			Text:    entry.chunk.Text,
			Score:   cosineSimilarity(embedding, entry.embedding),
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Ordinal < scored[j].Ordinal
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// DeleteSession drops all chunks for the session.
func (s *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.data, sessionID)
	s.mu.Unlock()
	return nil
}

// Count reports how many chunks the session holds.
func (s *MemoryStore) Count(ctx context.Context, sessionID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	n := len(s.data[sessionID])
	s.mu.RUnlock()
	return n, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
