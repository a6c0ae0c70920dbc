package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"legalteam-backend/internal/llm"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gemma2-9b-it",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "Hi there."}, "finish_reason": "stop"}
	],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func newCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteParsesChoiceAndUsage(t *testing.T) {
	var calls atomic.Int64
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(completionBody))
	})

	client, err := NewClient("test-key", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Complete(context.Background(), llm.Request{
		Model:  "gemma2-9b-it",
		System: "You are terse.",
		Prompt: "Say hi.",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "Hi there." {
		t.Fatalf("content = %q, want %q", resp.Content, "Hi there.")
	}
	if resp.TotalTokens != 15 {
		t.Fatalf("total tokens = %d, want 15", resp.TotalTokens)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestCompleteRetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int64
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(completionBody))
	})

	client, err := NewClient("test-key", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Complete(context.Background(), llm.Request{Model: "gemma2-9b-it", Prompt: "Say hi."})
	if err != nil {
		t.Fatalf("Complete after retry: %v", err)
	}
	if resp.Content != "Hi there." {
		t.Fatalf("content = %q, want %q", resp.Content, "Hi there.")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestCompleteDoesNotRetryServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request", "type": "invalid_request_error"}}`))
	})

	client, err := NewClient("test-key", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Complete(context.Background(), llm.Request{Model: "gemma2-9b-it", Prompt: "Say hi."}); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestCompleteEmptyContentIsNotAnError(t *testing.T) {
	srv := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"id": "chatcmpl-2",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gemma2-9b-it",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 4, "completion_tokens": 0, "total_tokens": 4}
		}`))
	})

	client, err := NewClient("test-key", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Complete(context.Background(), llm.Request{Model: "gemma2-9b-it", Prompt: "Say nothing."})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "" {
		t.Fatalf("content = %q, want empty", resp.Content)
	}
}

func TestCompleteRequiresModel(t *testing.T) {
	client, err := NewClient("test-key", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Complete(context.Background(), llm.Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("  ", ""); err == nil {
		t.Fatal("expected error for blank api key")
	}
}
