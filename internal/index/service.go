package index

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"legalteam-backend/internal/extract"
	"legalteam-backend/internal/shared/metrics"
	"legalteam-backend/internal/shared/telemetry"
)

// Service rebuilds a session's retrieval index from a document file on
// disk. The caller owns the file and removes it whether or not the
// rebuild succeeds.
type Service struct {
	Embedder Embedder
	Store    Store
}

// Rebuild extracts text from the file at path, chunks it, embeds the
// chunks, and replaces the session's stored set. It returns the number of
// chunks indexed. A document with no extractable text is a rebuild
// failure.
func (s *Service) Rebuild(ctx context.Context, sessionID, path string, chunkSize, overlap int) (int, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		metrics.IncIndexFailed()
		return 0, fmt.Errorf("rebuild session=%s: read %s: %w", sessionID, filepath.Base(path), err)
	}

	mimeType := http.DetectContentType(data)
	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, filepath.Base(path))
	if err != nil {
		metrics.IncIndexFailed()
		return 0, fmt.Errorf("rebuild session=%s: %w", sessionID, err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.IncIndexFailed()
		return 0, fmt.Errorf("rebuild session=%s: %w", sessionID, extract.ErrNoText)
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}

	pieces := SplitText(text, chunkSize, overlap)
	chunks := make([]Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = Chunk{Ordinal: i, Text: piece}
	}

	embeddings, err := s.Embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		metrics.IncIndexFailed()
		return 0, fmt.Errorf("rebuild session=%s: %w", sessionID, err)
	}

	if err := s.Store.Replace(ctx, sessionID, chunks, embeddings); err != nil {
		metrics.IncIndexFailed()
		return 0, fmt.Errorf("rebuild session=%s: %w", sessionID, err)
	}

	metrics.IncDocumentIndexed(len(chunks))
	telemetry.Info("index.rebuilt", map[string]any{
		"session_id":  sessionID,
		"chunks":      len(chunks),
		"chunk_size":  chunkSize,
		"overlap":     overlap,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return len(chunks), nil
}
