package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

// newEmbeddingServer echoes one small vector per input so ordering and
// batching behavior can be asserted.
func newEmbeddingServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var data []string
		for i := range req.Input {
			data = append(data, fmt.Sprintf(`{"object": "embedding", "index": %d, "embedding": [%d.0, 1.0]}`, i, i))
		}
		body := fmt.Sprintf(`{
			"object": "list",
			"model": %q,
			"data": [%s],
			"usage": {"prompt_tokens": 1, "total_tokens": 1}
		}`, req.Model, strings.Join(data, ","))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbedBatchPreservesOrder(t *testing.T) {
	var calls atomic.Int64
	srv := newEmbeddingServer(t, &calls)

	embedder, err := NewEmbedder("test-key", srv.URL, "text-embedding-3-small", 2)
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"alpha", "beta", "gamma"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 2 {
			t.Fatalf("vector %d has %d dims, want 2", i, len(vec))
		}
		if vec[0] != float32(i) {
			t.Fatalf("vector %d first component = %v, want %v", i, vec[0], float32(i))
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestEmbedBatchSplitsLargeInput(t *testing.T) {
	var calls atomic.Int64
	srv := newEmbeddingServer(t, &calls)

	embedder, err := NewEmbedder("test-key", srv.URL, "text-embedding-3-small", 0)
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}

	texts := make([]string, maxEmbedBatchSize+1)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}

	vectors, err := embedder.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(texts))
	}
	for i, vec := range vectors {
		if vec == nil {
			t.Fatalf("vector %d missing", i)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	embedder, err := NewEmbedder("test-key", "", "text-embedding-3-small", 0)
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}
	vectors, err := embedder.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if vectors != nil {
		t.Fatalf("vectors = %v, want nil", vectors)
	}
}

func TestEmbedSingle(t *testing.T) {
	var calls atomic.Int64
	srv := newEmbeddingServer(t, &calls)

	embedder, err := NewEmbedder("test-key", srv.URL, "text-embedding-3-small", 2)
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}

	vec, err := embedder.Embed(context.Background(), "single text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("vector has %d dims, want 2", len(vec))
	}
}

func TestNewEmbedderValidation(t *testing.T) {
	if _, err := NewEmbedder("", "", "text-embedding-3-small", 0); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewEmbedder("key", "", "", 0); err == nil {
		t.Fatal("expected error for missing model")
	}
}
