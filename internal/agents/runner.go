package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legalteam-backend/internal/index"
	"legalteam-backend/internal/llm"
	"legalteam-backend/internal/search"
	"legalteam-backend/internal/shared/metrics"
	"legalteam-backend/internal/shared/telemetry"
)

// Retriever returns the session's most relevant document chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, sessionID, query string) ([]index.ScoredChunk, error)
}

// Searcher looks up supplementary references on the public web.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

// Runner executes roles. Retrieval-enabled roles get the session's top
// chunks trimmed to TokenBudget; roles that also allow web search fall
// back to it when the index yields nothing.
type Runner struct {
	LLM         llm.Client
	Retriever   Retriever
	Searcher    Searcher
	TokenBudget int
	MaxResults  int
}

// Run executes one role and returns the model's trimmed answer. An empty
// answer is not an error; callers choose their own fallback text.
func (r *Runner) Run(ctx context.Context, role Role, sessionID, query string) (string, error) {
	start := time.Now()

	var passages []index.ScoredChunk
	if role.Retrieval && r.Retriever != nil {
		var err error
		passages, err = r.Retriever.Retrieve(ctx, sessionID, query)
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", role.Name, err)
		}
		passages = fitToBudget(passages, r.TokenBudget, countTokens)
	}

	// Web search supplements an empty index, it never replaces document
	// context, and a search outage must not fail the whole analysis.
	var results []search.Result
	if role.WebSearch && r.Searcher != nil && len(passages) == 0 {
		found, err := r.Searcher.Search(ctx, query, r.MaxResults)
		if err != nil {
			telemetry.Warn("agent.search_failed", map[string]any{
				"role":  role.Name,
				"error": err.Error(),
			})
		} else {
			results = found
		}
	}

	resp, err := r.LLM.Complete(ctx, llm.Request{
		Model:  role.Model,
		System: systemPrompt(role),
		Prompt: userPrompt(query, passages, results),
	})
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", role.Name, err)
	}

	metrics.IncLLMCall()
	telemetry.Info("agent.completed", map[string]any{
		"role":        role.Name,
		"model":       role.Model,
		"passages":    len(passages),
		"web_results": len(results),
		"tokens":      resp.TotalTokens,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return strings.TrimSpace(resp.Content), nil
}
