package compare

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legalteam-backend/internal/agents"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/metrics"
	"legalteam-backend/internal/shared/telemetry"
	"legalteam-backend/internal/usage"
)

// Client-visible texts for the degraded paths.
const (
	identicalNotice    = "The document texts appear to be identical."
	comparisonWarning  = "Could not generate an AI comparison based on summaries. Check summaries below."
	summaryPlaceholder = "_Summary failed or not generated._"

	defaultSummaryInputLimit = 7500
)

// SessionSource provides the session whose documents are compared.
type SessionSource interface {
	Get(ctx context.Context, userID, id string) (sessions.Session, error)
}

// AgentRunner executes a single team role against a session.
type AgentRunner interface {
	Run(ctx context.Context, role agents.Role, sessionID, query string) (string, error)
}

// Service compares the original and updated documents by summarizing each
// and asking the comparator model for the likely differences. Comparison is
// summary based only; the full texts never reach the models.
type Service struct {
	Sessions SessionSource
	Usage    *usage.Service
	Runner   AgentRunner
	Team     agents.Team

	// SummaryInputLimit caps how many runes of each document feed the
	// summarizer. Zero means the default.
	SummaryInputLimit int
}

func NewService(sessionSource SessionSource, usageSvc *usage.Service, runner AgentRunner, team agents.Team, summaryInputLimit int) *Service {
	return &Service{
		Sessions:          sessionSource,
		Usage:             usageSvc,
		Runner:            runner,
		Team:              team,
		SummaryInputLimit: summaryInputLimit,
	}
}

// Compare runs the comparison pipeline for a session. Identical texts short
// circuit before any model call and consume no usage credit. Once models are
// involved the run consumes one credit, and every later failure degrades
// into a Warning on the result rather than an error.
func (s *Service) Compare(ctx context.Context, userID, sessionID string) (Result, error) {
	sess, err := s.Sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return Result{}, err
	}
	if sess.Original == nil || sess.Updated == nil {
		return Result{}, ErrDocumentsRequired
	}
	if !sess.Original.TextOK || !sess.Updated.TextOK {
		return Result{}, ErrTextUnavailable
	}

	originalText := strings.TrimSpace(sess.Original.Text)
	updatedText := strings.TrimSpace(sess.Updated.Text)
	if originalText == updatedText {
		metrics.IncComparisonIdentical()
		telemetry.Info("comparison.identical", map[string]any{
			"session_id": sessionID,
		})
		return Result{Identical: true, Comparison: identicalNotice}, nil
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Result{}, err
		}
	}

	metrics.IncComparisonStarted()
	start := time.Now()

	result := Result{
		SummaryOriginal: summaryPlaceholder,
		SummaryUpdated:  summaryPlaceholder,
	}

	summaryOriginal, err := s.summarize(ctx, sessionID, originalText)
	if err != nil || summaryOriginal == "" {
		return s.degrade(sessionID, "original", err, result, start), nil
	}
	result.SummaryOriginal = summaryOriginal

	summaryUpdated, err := s.summarize(ctx, sessionID, updatedText)
	if err != nil || summaryUpdated == "" {
		return s.degrade(sessionID, "updated", err, result, start), nil
	}
	result.SummaryUpdated = summaryUpdated

	comparison, err := s.Runner.Run(ctx, s.Team.Comparator, sessionID,
		comparisonPrompt(sess.Original.Name, summaryOriginal, sess.Updated.Name, summaryUpdated))
	if err != nil || comparison == "" {
		return s.degrade(sessionID, "comparison", err, result, start), nil
	}
	result.Comparison = comparison

	elapsed := time.Since(start)
	metrics.IncComparisonCompleted()
	metrics.ObserveComparisonDurationMs(float64(elapsed.Milliseconds()))
	telemetry.Info("comparison.completed", map[string]any{
		"session_id":  sessionID,
		"duration_ms": elapsed.Milliseconds(),
	})
	return result, nil
}

// summarize asks the summarizer for a summary of one document's text,
// truncated to the configured input limit.
func (s *Service) summarize(ctx context.Context, sessionID, text string) (string, error) {
	limit := s.SummaryInputLimit
	if limit <= 0 {
		limit = defaultSummaryInputLimit
	}
	if runes := []rune(text); len(runes) > limit {
		text = string(runes[:limit])
	}
	return s.Runner.Run(ctx, s.Team.Summarizer, sessionID, summaryPrompt(text))
}

// degrade records a failed stage and returns the result accumulated so far
// with the fixed warning attached.
func (s *Service) degrade(sessionID, stage string, err error, result Result, start time.Time) Result {
	fields := map[string]any{
		"session_id": sessionID,
		"stage":      stage,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("comparison.stage_failed", fields)

	metrics.IncComparisonFailed()
	metrics.ObserveComparisonDurationMs(float64(time.Since(start).Milliseconds()))

	result.Warning = comparisonWarning
	return result
}

func summaryPrompt(text string) string {
	return fmt.Sprintf("Summarize the following legal document text:\n\n```\n%s\n```", text)
}

func comparisonPrompt(originalName, summaryOriginal, updatedName, summaryUpdated string) string {
	return fmt.Sprintf(`Summary A (Original: %s):
%s

Summary B (Updated: %s):
%s

Based ONLY on the two summaries above, what are the likely key differences between the original and updated full documents? State clearly this is summary-based.`,
		originalName, summaryOriginal, updatedName, summaryUpdated)
}
