package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is the in-memory implementation of Repo. Sessions are
// deliberately not persisted; a restart starts everyone fresh.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Session // session id -> session
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Session)}
}

// Create stores a new session.
func (r *MemoryRepo) Create(ctx context.Context, sess Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[sess.ID] = sess.clone()
	return nil
}

// GetByID returns the session if it exists, belongs to userID, and has not
// expired. Expired sessions are dropped on sight.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, err := r.lookup(userID, id, time.Now().UTC())
	if err != nil {
		return Session{}, err
	}
	return sess.clone(), nil
}

// lookup must be called with the lock held.
func (r *MemoryRepo) lookup(userID, id string, now time.Time) (Session, error) {
	sess, ok := r.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if now.After(sess.ExpiresAt) {
		delete(r.data, id)
		return Session{}, ErrNotFound
	}
	if sess.UserID != userID {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (r *MemoryRepo) mutate(ctx context.Context, userID, id string, fn func(*Session)) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, err := r.lookup(userID, id, time.Now().UTC())
	if err != nil {
		return Session{}, err
	}
	fn(&sess)
	sess.UpdatedAt = time.Now().UTC()
	r.data[id] = sess
	return sess.clone(), nil
}

// SetOriginal installs the original document, resets the updated document
// and the index state, and records the chunk parameters for the rebuild.
func (r *MemoryRepo) SetOriginal(ctx context.Context, userID, id string, doc Document, chunkSize, overlap int) (Session, error) {
	return r.mutate(ctx, userID, id, func(sess *Session) {
		sess.Original = &doc
		sess.Updated = nil
		sess.ChunkSize = chunkSize
		sess.Overlap = overlap
		sess.IndexReady = false
		sess.ChunkCount = 0
	})
}

// SetIndexed marks the index ready.
func (r *MemoryRepo) SetIndexed(ctx context.Context, userID, id string, chunkCount int) (Session, error) {
	return r.mutate(ctx, userID, id, func(sess *Session) {
		sess.IndexReady = true
		sess.ChunkCount = chunkCount
	})
}

// ClearOriginal rolls back to the empty state after a failed index build.
func (r *MemoryRepo) ClearOriginal(ctx context.Context, userID, id string) error {
	_, err := r.mutate(ctx, userID, id, func(sess *Session) {
		sess.Original = nil
		sess.Updated = nil
		sess.IndexReady = false
		sess.ChunkCount = 0
	})
	return err
}

// SetUpdated installs the updated document.
func (r *MemoryRepo) SetUpdated(ctx context.Context, userID, id string, doc Document) (Session, error) {
	return r.mutate(ctx, userID, id, func(sess *Session) {
		sess.Updated = &doc
	})
}

// ClearUpdated removes the updated document.
func (r *MemoryRepo) ClearUpdated(ctx context.Context, userID, id string) error {
	_, err := r.mutate(ctx, userID, id, func(sess *Session) {
		sess.Updated = nil
	})
	return err
}

// Delete removes the session.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookup(userID, id, time.Now().UTC()); err != nil {
		return err
	}
	delete(r.data, id)
	return nil
}

// PurgeExpired removes expired sessions and returns their ids.
func (r *MemoryRepo) PurgeExpired(ctx context.Context, now time.Time) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []string
	for id, sess := range r.data {
		if now.After(sess.ExpiresAt) {
			delete(r.data, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

// ClaimGuest reassigns every live session owned by guestUserID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	count := 0
	for id, sess := range r.data {
		if sess.UserID != guestUserID {
			continue
		}
		if now.After(sess.ExpiresAt) {
			delete(r.data, id)
			continue
		}
		sess.UserID = authedUserID
		sess.UpdatedAt = now
		r.data[id] = sess
		count++
	}
	return count, nil
}
