package usage

import "context"

// usageStore persists per-user consumption. EnsurePeriod rolls an expired
// window forward; Consume must do the same check-and-spend atomically.
type usageStore interface {
	EnsurePeriod(ctx context.Context, userID string) (Usage, error)
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service manages usage data via an underlying store.
type Service struct {
	store usageStore
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(store usageStore) *Service {
	return &Service{store: store}
}

// EnsurePeriod returns current usage, rolling the window if it expired.
func (s *Service) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.store.EnsurePeriod(ctx, userID)
}

// Consume spends n units, failing with ErrLimitReached when over limit.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.store.Consume(ctx, userID, n)
}

// Reset sets usage to zero and starts a fresh window.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.store.Reset(ctx, userID)
}
