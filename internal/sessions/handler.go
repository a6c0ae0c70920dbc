package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/extract"
	"legalteam-backend/internal/index"
	"legalteam-backend/internal/llm"
	"legalteam-backend/internal/shared/server/middleware"
	"legalteam-backend/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.create)
	rg.GET("/sessions/:id", h.get)
	rg.DELETE("/sessions/:id", h.delete)
	rg.POST("/sessions/:id/documents/original", h.uploadOriginal)
	rg.POST("/sessions/:id/documents/updated", h.uploadUpdated)
	rg.GET("/sessions/:id/documents/:kind/raw", h.downloadRaw)
}

func (h *Handler) maxUpload() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	sess, err := h.Svc.Create(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create session", nil)
		}
		return
	}

	respond.Created(c, gin.H{
		"sessionId": sess.ID,
		"expiresAt": sess.ExpiresAt,
	})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	sess, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch session", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete session", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadOriginal(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.formFileError(c, err)
		return
	}

	chunkSize, err := formInt(c, "chunkSize", index.DefaultChunkSize)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "chunkSize must be an integer", nil)
		return
	}
	overlap, err := formInt(c, "overlap", index.DefaultOverlap)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "overlap must be an integer", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.UploadOriginal(c.Request.Context(), userID, c.Param("id"), fileHeader.Filename, file, chunkSize, overlap)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	respond.Created(c, toUploadResponse("original", result))
}

func (h *Handler) uploadUpdated(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.formFileError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	result, err := h.Svc.UploadUpdated(c.Request.Context(), userID, c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	respond.Created(c, toUploadResponse("updated", result))
}

func (h *Handler) downloadRaw(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, body, err := h.Svc.OpenRaw(c.Request.Context(), userID, c.Param("id"), c.Param("kind"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open document", nil)
		}
		return
	}
	defer body.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Name),
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.MimeType, body, extraHeaders)
}

func (h *Handler) formFileError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respond.Error(c, http.StatusRequestEntityTooLarge, "upload_too_large",
			fmt.Sprintf("upload exceeds %d bytes", h.maxUpload()), nil)
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNoOriginal):
		respond.Error(c, http.StatusConflict, "original_required", "upload an original document first", nil)
	case errors.Is(err, ErrOriginalTextMissing):
		respond.Error(c, http.StatusConflict, "comparison_unavailable",
			"Original document processed for analysis, but text extraction failed. Comparison unavailable.", nil)
	case errors.Is(err, extract.ErrNoText):
		respond.Error(c, http.StatusBadRequest, "document_unreadable", "no extractable text in document", nil)
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", err.Error(), nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "document indexing is not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process document", nil)
	}
}

func formInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
