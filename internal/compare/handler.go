package compare

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/llm"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/server/middleware"
	"legalteam-backend/internal/shared/server/respond"
	"legalteam-backend/internal/usage"
)

// Handler exposes the document comparison endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes registers comparison routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions/:id/comparison", h.create)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}

	sessionID := c.Param("id")
	c.Set("sessionId", sessionID)

	result, err := h.Svc.Compare(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.comparisonError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(sessionID, result))
}

func (h *Handler) comparisonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrDocumentsRequired):
		respond.Error(c, http.StatusConflict, "comparison_unavailable", "upload an original and an updated document first", nil)
	case errors.Is(err, ErrTextUnavailable):
		respond.Error(c, http.StatusConflict, "comparison_unavailable", "text extraction failed for one of the documents, so comparison is unavailable", nil)
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "usage limit reached for this period", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "language model is not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compare documents", nil)
	}
}
