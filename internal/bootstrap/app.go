package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/account"
	"legalteam-backend/internal/agents"
	"legalteam-backend/internal/analyses"
	googleauth "legalteam-backend/internal/auth"
	"legalteam-backend/internal/compare"
	"legalteam-backend/internal/index"
	"legalteam-backend/internal/llm"
	openaiclient "legalteam-backend/internal/llm/openai"
	"legalteam-backend/internal/search"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/config"
	"legalteam-backend/internal/shared/server"
	"legalteam-backend/internal/shared/storage/db"
	"legalteam-backend/internal/shared/storage/object"
	localstore "legalteam-backend/internal/shared/storage/object/local"
	s3store "legalteam-backend/internal/shared/storage/object/s3"
	"legalteam-backend/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Store       object.ObjectStore
	LLM         llm.Client
	VectorStore index.Store
	SessionRepo sessions.Repo
	Team        agents.Team

	SessionService  *sessions.Service
	UsageService    *usage.Service
	AnalysisService *analyses.Service
	CompareService  *compare.Service
	AccountService  *account.Service

	SessionHandler  *sessions.Handler
	AnalysisHandler *analyses.Handler
	CompareHandler  *compare.Handler
	UsageHandler    *usage.Handler
	AccountHandler  *account.Handler
	GoogleAuth      *googleauth.GoogleService

	sweeper     *sessions.Sweeper
	sweepCancel context.CancelFunc
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		SessionHandler:  app.SessionHandler,
		AnalysisHandler: app.AnalysisHandler,
		CompareHandler:  app.CompareHandler,
		UsageHandler:    app.UsageHandler,
		AccountHandler:  app.AccountHandler,
		GoogleAuth:      app.GoogleAuth,
	})
	return app, nil
}

// StartSweeper launches the background session sweeper. Close stops it.
func (a *App) StartSweeper() {
	if a.sweeper == nil || a.sweepCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.sweepCancel = cancel
	go a.sweeper.Run(ctx)
}

// Close stops background work and releases the database pool.
func (a *App) Close() error {
	if a.sweepCancel != nil {
		a.sweepCancel()
		a.sweepCancel = nil
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory stores")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory stores: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory stores: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	llmClient := llm.Client(llm.PlaceholderClient{})
	if strings.TrimSpace(cfg.LLMAPIKey) != "" {
		client, err := openaiclient.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL)
		if err != nil {
			return err
		}
		llmClient = client
	} else {
		log.Printf("bootstrap: LLM_API_KEY empty; agent routes return 503 until configured")
	}

	embedder := index.Embedder(llm.PlaceholderEmbedder{})
	if strings.TrimSpace(cfg.EmbedAPIKey) != "" {
		e, err := openaiclient.NewEmbedder(cfg.EmbedAPIKey, cfg.EmbedBaseURL, cfg.EmbedModel, cfg.EmbedDims)
		if err != nil {
			return err
		}
		embedder = e
	} else {
		log.Printf("bootstrap: EMBED_API_KEY empty; document indexing returns 503 until configured")
	}

	var vectorStore index.Store
	if app.DB != nil {
		vectorStore = &index.PGStore{DB: app.DB}
	} else {
		vectorStore = index.NewMemoryStore()
	}

	indexer := &index.Service{Embedder: embedder, Store: vectorStore}
	retriever := &index.Retriever{
		Embedder: embedder,
		Store:    vectorStore,
		TopK:     cfg.RetrievalTopK,
		MinScore: cfg.RetrievalMinScore,
	}

	sessionRepo := sessions.NewMemoryRepo()
	sessionSvc := &sessions.Service{
		Repo:    sessionRepo,
		Store:   app.Store,
		Indexer: indexer,
		Chunks:  vectorStore,
		TTL:     cfg.SessionTTL,
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	team := agents.BuildTeam(cfg)
	runner := &agents.Runner{
		LLM:         llmClient,
		Retriever:   retriever,
		Searcher:    search.NewClient(cfg.SearchBaseURL),
		TokenBudget: cfg.ContextTokenBudget,
		MaxResults:  cfg.SearchMaxResults,
	}

	app.LLM = llmClient
	app.VectorStore = vectorStore
	app.SessionRepo = sessionRepo
	app.Team = team
	app.SessionService = sessionSvc
	app.UsageService = usageSvc
	app.AnalysisService = analyses.NewService(sessionSvc, usageSvc, runner, team)
	app.CompareService = compare.NewService(sessionSvc, usageSvc, runner, team, cfg.SummaryInputLimit)
	app.AccountService = account.NewService(sessionRepo)

	app.SessionHandler = sessions.NewHandler(sessionSvc, cfg.MaxUploadBytes)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysisService)
	app.CompareHandler = compare.NewHandler(app.CompareService)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.GoogleAuth = googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL)

	app.sweeper = &sessions.Sweeper{Repo: sessionRepo, Chunks: vectorStore}
	return nil
}
