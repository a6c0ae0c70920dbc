package compare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/sessions"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test")
		c.Set("isGuest", true)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postComparison(t *testing.T, router *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/sess-1/comparison", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body.Error.Code
}

func TestCompareOverHTTP(t *testing.T) {
	runner := &stubRunner{fn: summarizeByMarker("likely differences")}
	sess := sessionWithDocs(doc("contract-v1.docx", "alpha clauses"), doc("contract-v2.docx", "beta clauses"))
	router := newTestRouter(newCompareService(sess, runner))

	resp := postComparison(t, router)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body ComparisonResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.SessionID != "sess-1" || body.Identical {
		t.Fatalf("unexpected response: %+v", body)
	}
	if body.Comparison != "likely differences" || body.SummaryOriginal != "summary A" || body.SummaryUpdated != "summary B" {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestCompareIdenticalOverHTTP(t *testing.T) {
	sess := sessionWithDocs(doc("a.docx", "same text"), doc("b.docx", "same text"))
	router := newTestRouter(newCompareService(sess, &stubRunner{}))

	resp := postComparison(t, router)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body ComparisonResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Identical {
		t.Fatalf("expected identical response: %+v", body)
	}
	if body.Comparison != "The document texts appear to be identical." {
		t.Fatalf("unexpected comparison %q", body.Comparison)
	}
}

func TestCompareWithoutDocumentsIs409(t *testing.T) {
	router := newTestRouter(newCompareService(sessionWithDocs(nil, nil), &stubRunner{}))

	resp := postComparison(t, router)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "comparison_unavailable" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCompareUnknownSessionIs404(t *testing.T) {
	svc := NewService(&stubSessions{err: sessions.ErrNotFound}, nil, &stubRunner{}, testTeam(), 0)
	router := newTestRouter(svc)

	resp := postComparison(t, router)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "not_found" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCompareAtLimitIs429(t *testing.T) {
	sess := sessionWithDocs(doc("a.docx", "alpha"), doc("b.docx", "beta"))
	svc := newCompareService(sess, &stubRunner{})
	router := newTestRouter(svc)

	if _, err := svc.Usage.Consume(context.Background(), "guest:test", 10); err != nil {
		t.Fatalf("seed usage: %v", err)
	}

	resp := postComparison(t, router)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "limit_reached" {
		t.Fatalf("unexpected error code %q", code)
	}
}
