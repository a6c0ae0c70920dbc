package sessions

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestSession(id, userID string, expiresAt time.Time) Session {
	now := time.Now().UTC()
	return Session{
		ID:        id,
		UserID:    userID,
		ChunkSize: 1000,
		Overlap:   200,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: expiresAt,
	}
}

func TestMemoryRepoScopesByOwner(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	if err := repo.Create(ctx, newTestSession("s1", "guest:a", future)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, "guest:a", "s1"); err != nil {
		t.Fatalf("GetByID owner: %v", err)
	}
	if _, err := repo.GetByID(ctx, "guest:b", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign session err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoExpiredSessionIsGone(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, newTestSession("s1", "guest:a", time.Now().UTC().Add(-time.Minute))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.GetByID(ctx, "guest:a", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoSetOriginalResetsDerivedState(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	sess := newTestSession("s1", "guest:a", future)
	sess.Updated = &Document{Name: "old-updated.pdf"}
	sess.IndexReady = true
	sess.ChunkCount = 9
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.SetOriginal(ctx, "guest:a", "s1", Document{Name: "contract.pdf"}, 500, 50)
	if err != nil {
		t.Fatalf("SetOriginal: %v", err)
	}
	if got.Original == nil || got.Original.Name != "contract.pdf" {
		t.Fatalf("original = %+v", got.Original)
	}
	if got.Updated != nil {
		t.Fatalf("updated should be cleared, got %+v", got.Updated)
	}
	if got.IndexReady || got.ChunkCount != 0 {
		t.Fatalf("index state not reset: ready=%v count=%d", got.IndexReady, got.ChunkCount)
	}
	if got.ChunkSize != 500 || got.Overlap != 50 {
		t.Fatalf("chunk params = %d/%d, want 500/50", got.ChunkSize, got.Overlap)
	}

	indexed, err := repo.SetIndexed(ctx, "guest:a", "s1", 7)
	if err != nil {
		t.Fatalf("SetIndexed: %v", err)
	}
	if !indexed.IndexReady || indexed.ChunkCount != 7 {
		t.Fatalf("indexed state = ready=%v count=%d", indexed.IndexReady, indexed.ChunkCount)
	}
}

func TestMemoryRepoClearOriginalRollsBack(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	if err := repo.Create(ctx, newTestSession("s1", "guest:a", future)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.SetOriginal(ctx, "guest:a", "s1", Document{Name: "contract.pdf"}, 1000, 200); err != nil {
		t.Fatalf("SetOriginal: %v", err)
	}
	if err := repo.ClearOriginal(ctx, "guest:a", "s1"); err != nil {
		t.Fatalf("ClearOriginal: %v", err)
	}

	got, err := repo.GetByID(ctx, "guest:a", "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Original != nil || got.IndexReady || got.ChunkCount != 0 {
		t.Fatalf("session not rolled back: %+v", got)
	}
}

func TestMemoryRepoPurgeExpired(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := repo.Create(ctx, newTestSession("live", "guest:a", now.Add(time.Hour))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newTestSession("dead", "guest:a", now.Add(-time.Hour))); err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := repo.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if len(removed) != 1 || removed[0] != "dead" {
		t.Fatalf("removed = %v, want [dead]", removed)
	}
	if _, err := repo.GetByID(ctx, "guest:a", "live"); err != nil {
		t.Fatalf("live session should survive: %v", err)
	}
}

func TestMemoryRepoClaimGuest(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	if err := repo.Create(ctx, newTestSession("s1", "guest:abc", future)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newTestSession("s2", "guest:abc", future)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newTestSession("s3", "guest:other", future)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	moved, err := repo.ClaimGuest(ctx, "guest:abc", "user-1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if _, err := repo.GetByID(ctx, "user-1", "s1"); err != nil {
		t.Fatalf("claimed session not readable by new owner: %v", err)
	}
	if _, err := repo.GetByID(ctx, "guest:abc", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old owner still sees session: %v", err)
	}
	if _, err := repo.GetByID(ctx, "guest:other", "s3"); err != nil {
		t.Fatalf("unrelated guest affected: %v", err)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	future := time.Now().UTC().Add(time.Hour)

	if err := repo.Create(ctx, newTestSession("s1", "guest:a", future)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.SetOriginal(ctx, "guest:a", "s1", Document{Name: "contract.pdf", Text: "body"}, 1000, 200); err != nil {
		t.Fatalf("SetOriginal: %v", err)
	}

	first, err := repo.GetByID(ctx, "guest:a", "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	first.Original.Text = "tampered"

	second, err := repo.GetByID(ctx, "guest:a", "s1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if second.Original.Text != "body" {
		t.Fatalf("stored session mutated through returned copy")
	}
}
