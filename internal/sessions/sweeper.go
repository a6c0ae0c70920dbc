package sessions

import (
	"context"
	"time"

	"legalteam-backend/internal/shared/telemetry"
)

// ChunkPurger drops a session's derived index state.
type ChunkPurger interface {
	DeleteSession(ctx context.Context, sessionID string) error
}

// Sweeper periodically removes expired sessions and their index chunks.
type Sweeper struct {
	Repo     Repo
	Chunks   ChunkPurger
	Interval time.Duration
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ids, err := s.Repo.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		telemetry.Error("session.sweep_failed", map[string]any{"error": err.Error()})
		return
	}
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		if s.Chunks == nil {
			continue
		}
		if err := s.Chunks.DeleteSession(ctx, id); err != nil {
			telemetry.Warn("session.sweep_chunks_failed", map[string]any{
				"session_id": id,
				"error":      err.Error(),
			})
		}
	}
	telemetry.Info("session.swept", map[string]any{"count": len(ids)})
}
