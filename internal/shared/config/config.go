package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default model ids match the Groq-hosted models the assistant ships with.
const (
	DefaultResearchModel = "gemma2-9b-it"
	DefaultScoutModel    = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	// Chat completions endpoint (Groq by default, any OpenAI-compatible API).
	LLMAPIKey  string
	LLMBaseURL string

	ModelAdvisor    string
	ModelAnalyst    string
	ModelStrategist string
	ModelLead       string
	ModelSummarizer string
	ModelComparator string

	// Embeddings endpoint; separate from chat because Groq does not serve
	// embeddings, so the default points at OpenAI.
	EmbedAPIKey  string
	EmbedBaseURL string
	EmbedModel   string
	EmbedDims    int

	RetrievalTopK      int
	RetrievalMinScore  float64
	ContextTokenBudget int

	SearchBaseURL    string
	SearchMaxResults int

	SummaryInputLimit int
	MaxUploadBytes    int64
	SessionTTL        time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	llmKey := getEnv("LLM_API_KEY", os.Getenv("GROQ_API_KEY"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	if env == "production" && llmKey == "" {
		log.Printf("LLM_API_KEY is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		LLMAPIKey:  llmKey,
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),

		ModelAdvisor:    getEnv("LLM_MODEL_ADVISOR", DefaultResearchModel),
		ModelAnalyst:    getEnv("LLM_MODEL_ANALYST", DefaultScoutModel),
		ModelStrategist: getEnv("LLM_MODEL_STRATEGIST", DefaultResearchModel),
		ModelLead:       getEnv("LLM_MODEL_LEAD", DefaultScoutModel),
		ModelSummarizer: getEnv("LLM_MODEL_SUMMARIZER", DefaultScoutModel),
		ModelComparator: getEnv("LLM_MODEL_COMPARATOR", DefaultResearchModel),

		EmbedAPIKey:  getEnv("EMBED_API_KEY", os.Getenv("OPENAI_API_KEY")),
		EmbedBaseURL: getEnv("EMBED_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-3-small"),
		EmbedDims:    getEnvInt("EMBED_DIMENSIONS", 1536),

		RetrievalTopK:      getEnvInt("RETRIEVAL_TOP_K", 5),
		RetrievalMinScore:  getEnvFloat("RETRIEVAL_MIN_SCORE", 0.25),
		ContextTokenBudget: getEnvInt("CONTEXT_TOKEN_BUDGET", 3000),

		SearchBaseURL:    getEnv("SEARCH_BASE_URL", "https://api.duckduckgo.com"),
		SearchMaxResults: getEnvInt("SEARCH_MAX_RESULTS", 5),

		SummaryInputLimit: getEnvInt("SUMMARY_INPUT_LIMIT", 7500),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		SessionTTL:        getEnvDuration("SESSION_TTL", 12*time.Hour),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getEnvInt64(key string, def int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return f
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
