package account

import (
	"context"
	"errors"
	"strings"

	"legalteam-backend/internal/shared/telemetry"
)

// SessionClaimer re-owns a guest's sessions. Implemented by the sessions
// repository.
type SessionClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

type Service struct {
	Sessions SessionClaimer
}

type ClaimResult struct {
	MigratedSessions int `json:"migratedSessions"`
}

func NewService(sessionRepo SessionClaimer) *Service {
	return &Service{Sessions: sessionRepo}
}

// ClaimGuest moves every live session owned by the guest principal to the
// authenticated user. Usage counters are not merged; each principal keeps
// its own period.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	moved, err := s.Sessions.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}

	telemetry.Info("account.guest_claimed", map[string]any{
		"guest_user_id": guestUserID,
		"user_id":       authedUserID,
		"sessions":      moved,
	})
	return ClaimResult{MigratedSessions: moved}, nil
}
