package analyses

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/llm"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/server/middleware"
	"legalteam-backend/internal/shared/server/respond"
	"legalteam-backend/internal/usage"
)

// Handler exposes the analysis endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes registers analysis routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions/:id/analyses", h.create)
}

type createRequest struct {
	AnalysisType string `json:"analysisType"`
	Query        string `json:"query"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	analysisType, err := ParseType(strings.TrimSpace(req.AnalysisType))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
			{"field": "analysisType", "issue": "must be one of contract_review, legal_research, risk_assessment, compliance_check, custom"},
		})
		return
	}

	// Request log enrichment, read back by the logging middleware.
	c.Set("sessionId", c.Param("id"))
	c.Set("analysisType", string(analysisType))

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	report, err := h.Svc.Analyze(ctx, userID, c.Param("id"), analysisType, req.Query)
	if err != nil {
		h.analysisError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(report))
}

func (h *Handler) analysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrQueryRequired):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please enter a custom query or select a predefined analysis type.", nil)
	case errors.Is(err, ErrInvalidType):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrIndexNotReady):
		respond.Error(c, http.StatusConflict, "index_not_ready", "upload an original document before requesting analysis", nil)
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "usage limit reached for this period", nil)
	case errors.Is(err, ErrEmptyReport):
		respond.Error(c, http.StatusBadGateway, "empty_report", "Analysis failed or returned no content. Please check the document or try a different query.", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "language model is not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to run analysis", nil)
	}
}
