package analyses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

func postAnalysis(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/sess-1/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorEnvelope(t *testing.T, resp *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body.Error.Code, body.Error.Message
}

func TestCreateAnalysisOverHTTP(t *testing.T) {
	runner := &fakeRunner{fn: teamFn(
		"research notes", "contract notes", "strategy notes",
		leadDispatch("full report", "- key point", "- recommendation"),
	)}
	router := newTestRouter(newAnalysisService(runner))

	resp := postAnalysis(t, router, `{"analysisType":"contract_review"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body AnalysisResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.AnalysisID == "" || body.SessionID != "sess-1" {
		t.Fatalf("unexpected identity fields: %+v", body)
	}
	if body.AnalysisType != "contract_review" {
		t.Fatalf("unexpected analysis type %q", body.AnalysisType)
	}
	if body.Report != "full report" || body.KeyPoints != "- key point" || body.Recommendations != "- recommendation" {
		t.Fatalf("unexpected report payload: %+v", body)
	}
}

func TestCreateAnalysisRejectsUnknownType(t *testing.T) {
	router := newTestRouter(newAnalysisService(&fakeRunner{}))

	resp := postAnalysis(t, router, `{"analysisType":"weather_forecast"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if code, _ := errorEnvelope(t, resp); code != "validation_error" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCreateAnalysisRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(newAnalysisService(&fakeRunner{}))

	resp := postAnalysis(t, router, `{"analysisType":`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateAnalysisCustomNeedsQuery(t *testing.T) {
	router := newTestRouter(newAnalysisService(&fakeRunner{}))

	resp := postAnalysis(t, router, `{"analysisType":"custom","query":"   "}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	code, message := errorEnvelope(t, resp)
	if code != "validation_error" {
		t.Fatalf("unexpected error code %q", code)
	}
	if message != "Please enter a custom query or select a predefined analysis type." {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestCreateAnalysisUnknownSessionIs404(t *testing.T) {
	svc := newAnalysisService(&fakeRunner{})
	svc.Sessions = &fakeSessions{err: sessions.ErrNotFound}
	router := newTestRouter(svc)

	resp := postAnalysis(t, router, `{"analysisType":"legal_research"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if code, _ := errorEnvelope(t, resp); code != "not_found" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCreateAnalysisBeforeIndexIs409(t *testing.T) {
	svc := newAnalysisService(&fakeRunner{})
	svc.Sessions = &fakeSessions{sess: sessions.Session{ID: "sess-1", UserID: "guest:test"}}
	router := newTestRouter(svc)

	resp := postAnalysis(t, router, `{"analysisType":"risk_assessment"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if code, _ := errorEnvelope(t, resp); code != "index_not_ready" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCreateAnalysisAtLimitIs429(t *testing.T) {
	svc := newAnalysisService(&fakeRunner{fn: teamFn("a", "b", "c", leadDispatch("report", "k", "r"))})
	router := newTestRouter(svc)

	for i := 0; i < 10; i++ {
		if resp := postAnalysis(t, router, `{"analysisType":"contract_review"}`); resp.Code != http.StatusOK {
			t.Fatalf("analysis %d: expected 200, got %d", i, resp.Code)
		}
	}

	resp := postAnalysis(t, router, `{"analysisType":"contract_review"}`)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if code, _ := errorEnvelope(t, resp); code != "limit_reached" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestCreateAnalysisEmptyReportIs502(t *testing.T) {
	svc := newAnalysisService(&fakeRunner{fn: teamFn("a", "b", "c", leadDispatch("", "k", "r"))})
	router := newTestRouter(svc)

	resp := postAnalysis(t, router, `{"analysisType":"contract_review"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	code, message := errorEnvelope(t, resp)
	if code != "empty_report" {
		t.Fatalf("unexpected error code %q", code)
	}
	if message != "Analysis failed or returned no content. Please check the document or try a different query." {
		t.Fatalf("unexpected message %q", message)
	}
}
