package sessions

import (
	"context"
	"time"
)

// Repo defines persistence operations for sessions. Every read and write
// is scoped by owner; a session another user owns behaves like a missing
// one. Writes go through one named mutation per field group so invariants
// (a new original clears the updated document and the index state) live in
// a single place.
type Repo interface {
	Create(ctx context.Context, sess Session) error
	GetByID(ctx context.Context, userID, id string) (Session, error)

	// SetOriginal installs the original document and the chunk parameters
	// it will be indexed with. It clears any updated document and marks the
	// index not ready until SetIndexed confirms the rebuild.
	SetOriginal(ctx context.Context, userID, id string, doc Document, chunkSize, overlap int) (Session, error)
	// SetIndexed marks the index ready with the number of chunks stored.
	SetIndexed(ctx context.Context, userID, id string, chunkCount int) (Session, error)
	// ClearOriginal rolls the session back to its empty state after an
	// index build failure.
	ClearOriginal(ctx context.Context, userID, id string) error

	SetUpdated(ctx context.Context, userID, id string, doc Document) (Session, error)
	ClearUpdated(ctx context.Context, userID, id string) error

	Delete(ctx context.Context, userID, id string) error
	// PurgeExpired removes every session past its expiry and returns the
	// removed ids so callers can drop derived state (index chunks).
	PurgeExpired(ctx context.Context, now time.Time) ([]string, error)
	// ClaimGuest moves every session owned by guestUserID to authedUserID
	// and reports how many moved.
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
