package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legalteam-backend/internal/sessions"
)

func newClaimRouter(repo sessions.Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	NewHandler(NewService(repo)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func seedGuestSession(t *testing.T, repo sessions.Repo, id, guestUserID string) {
	t.Helper()
	now := time.Now().UTC()
	err := repo.Create(context.Background(), sessions.Session{
		ID:        id,
		UserID:    guestUserID,
		ChunkSize: 1000,
		Overlap:   200,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func postClaim(t *testing.T, router *gin.Engine, guestID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	if guestID != "" {
		req.Header.Set("X-Guest-Id", guestID)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestClaimGuestMigratesSessions(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	router := newClaimRouter(repo)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID
	seedGuestSession(t, repo, "sess-1", guestUserID)
	seedGuestSession(t, repo, "sess-2", guestUserID)

	resp := postClaim(t, router, guestID)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result ClaimResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MigratedSessions != 2 {
		t.Fatalf("expected 2 migrated sessions, got %d", result.MigratedSessions)
	}

	for _, id := range []string{"sess-1", "sess-2"} {
		if _, err := repo.GetByID(context.Background(), "user-1", id); err != nil {
			t.Fatalf("session %s not owned by user-1 after claim: %v", id, err)
		}
		if _, err := repo.GetByID(context.Background(), guestUserID, id); err == nil {
			t.Fatalf("session %s still visible to the guest after claim", id)
		}
	}
}

func TestClaimGuestIsIdempotent(t *testing.T) {
	repo := sessions.NewMemoryRepo()
	router := newClaimRouter(repo)

	guestID := "22222222-2222-2222-2222-222222222222"
	seedGuestSession(t, repo, "sess-1", "guest:"+guestID)

	if resp := postClaim(t, router, guestID); resp.Code != http.StatusOK {
		t.Fatalf("first claim: expected 200, got %d", resp.Code)
	}

	resp := postClaim(t, router, guestID)
	if resp.Code != http.StatusOK {
		t.Fatalf("second claim: expected 200, got %d", resp.Code)
	}
	var result ClaimResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MigratedSessions != 0 {
		t.Fatalf("second claim should migrate nothing, got %d", result.MigratedSessions)
	}
}

func TestClaimGuestRejectsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:33333333-3333-3333-3333-333333333333")
		c.Set("isGuest", true)
		c.Next()
	})
	NewHandler(NewService(sessions.NewMemoryRepo())).RegisterRoutes(router.Group("/api/v1"))

	resp := postClaim(t, router, "11111111-1111-1111-1111-111111111111")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestClaimGuestValidatesHeader(t *testing.T) {
	router := newClaimRouter(sessions.NewMemoryRepo())

	if resp := postClaim(t, router, ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing header: expected 400, got %d", resp.Code)
	}
	if resp := postClaim(t, router, "not-a-uuid"); resp.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: expected 400, got %d", resp.Code)
	}
}
