package main

// Try the legal team against a document without running the server:
//   go run ./cmd/prompttest -doc contract.docx -type contract_review
//   go run ./cmd/prompttest -doc contract.docx -type custom -query "Which party can terminate early?"

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"legalteam-backend/internal/agents"
	"legalteam-backend/internal/analyses"
	"legalteam-backend/internal/index"
	openaiclient "legalteam-backend/internal/llm/openai"
	"legalteam-backend/internal/search"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/config"
)

const sessionID = "prompttest"

func main() {
	cfg := config.Load()

	docPath := flag.String("doc", "", "Path to the document (pdf or docx)")
	analysisType := flag.String("type", "contract_review", "Analysis type (contract_review, legal_research, risk_assessment, compliance_check, custom)")
	query := flag.String("query", "", "Query text when -type is custom")
	chunkSize := flag.Int("chunk-size", index.DefaultChunkSize, "Chunk size in characters")
	overlap := flag.Int("overlap", index.DefaultOverlap, "Chunk overlap in characters")
	flag.Parse()

	if strings.TrimSpace(*docPath) == "" {
		exitErr("document path is required")
	}

	parsedType, err := analyses.ParseType(*analysisType)
	if err != nil {
		exitErr(err.Error())
	}

	if strings.TrimSpace(cfg.LLMAPIKey) == "" || strings.TrimSpace(cfg.EmbedAPIKey) == "" {
		exitErr("LLM_API_KEY and EMBED_API_KEY are required")
	}

	llmClient, err := openaiclient.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL)
	if err != nil {
		exitErr(err.Error())
	}
	embedder, err := openaiclient.NewEmbedder(cfg.EmbedAPIKey, cfg.EmbedBaseURL, cfg.EmbedModel, cfg.EmbedDims)
	if err != nil {
		exitErr(err.Error())
	}

	store := index.NewMemoryStore()
	indexer := &index.Service{Embedder: embedder, Store: store}

	ctx := context.Background()
	chunks, err := indexer.Rebuild(ctx, sessionID, *docPath, *chunkSize, *overlap)
	if err != nil {
		exitErr(fmt.Sprintf("index document: %v", err))
	}
	fmt.Fprintf(os.Stderr, "indexed %d chunks from %s\n", chunks, filepath.Base(*docPath))

	runner := &agents.Runner{
		LLM: llmClient,
		Retriever: &index.Retriever{
			Embedder: embedder,
			Store:    store,
			TopK:     cfg.RetrievalTopK,
			MinScore: cfg.RetrievalMinScore,
		},
		Searcher:    search.NewClient(cfg.SearchBaseURL),
		TokenBudget: cfg.ContextTokenBudget,
		MaxResults:  cfg.SearchMaxResults,
	}

	svc := analyses.NewService(staticSession{chunks: chunks}, nil, runner, agents.BuildTeam(cfg))

	report, err := svc.Analyze(ctx, "cli", sessionID, parsedType, *query)
	if err != nil {
		exitErr(fmt.Sprintf("analysis: %v", err))
	}

	fmt.Println("# Report")
	fmt.Println()
	fmt.Println(report.Report)
	fmt.Println()
	fmt.Println("# Key Points")
	fmt.Println()
	fmt.Println(report.KeyPoints)
	fmt.Println()
	fmt.Println("# Recommendations")
	fmt.Println()
	fmt.Println(report.Recommendations)
}

// staticSession satisfies the analysis service's session lookup with a
// single always-ready in-memory session.
type staticSession struct {
	chunks int
}

func (s staticSession) Get(ctx context.Context, userID, id string) (sessions.Session, error) {
	_ = ctx
	return sessions.Session{ID: id, UserID: userID, IndexReady: true, ChunkCount: s.chunks}, nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
