package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/account"
	"legalteam-backend/internal/analyses"
	googleauth "legalteam-backend/internal/auth"
	"legalteam-backend/internal/compare"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/config"
	"legalteam-backend/internal/shared/metrics"
	"legalteam-backend/internal/shared/server/middleware"
	"legalteam-backend/internal/shared/server/respond"
	"legalteam-backend/internal/usage"
)

// Rate limit groups. Model-backed routes burn money per request, so they
// get a much tighter budget than plain API traffic.
const (
	rateGroupDefault = "DEFAULT"
	rateGroupLLM     = "LLM"
	rateGroupUpload  = "UPLOAD"
)

// RouterDeps carries the constructed handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	SessionHandler  *sessions.Handler
	AnalysisHandler *analyses.Handler
	CompareHandler  *compare.Handler
	UsageHandler    *usage.Handler
	AccountHandler  *account.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)
	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.CompareHandler != nil {
		deps.CompareHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.Config.Env == "dev" && deps.UsageHandler != nil {
		dev := api.Group("/dev")
		deps.UsageHandler.RegisterDevRoutes(dev)
	}

	return r
}

func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor:     rateGroupFor,
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: 10, Burst: 30},
			rateGroupUpload:  {Rate: 0.5, Burst: 5},
			rateGroupLLM:     {Rate: 0.2, Burst: 3},
		},
	}
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return rateGroupDefault
	}
	switch c.FullPath() {
	case "/api/v1/sessions/:id/analyses", "/api/v1/sessions/:id/comparison":
		return rateGroupLLM
	case "/api/v1/sessions/:id/documents/original", "/api/v1/sessions/:id/documents/updated":
		return rateGroupUpload
	default:
		return rateGroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
