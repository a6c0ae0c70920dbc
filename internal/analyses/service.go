package analyses

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"legalteam-backend/internal/agents"
	"legalteam-backend/internal/sessions"
	"legalteam-backend/internal/shared/metrics"
	"legalteam-backend/internal/shared/telemetry"
	"legalteam-backend/internal/usage"
)

// SessionSource provides the session state an analysis runs against.
type SessionSource interface {
	Get(ctx context.Context, userID, id string) (sessions.Session, error)
}

// AgentRunner executes a single team role against a session.
type AgentRunner interface {
	Run(ctx context.Context, role agents.Role, sessionID, query string) (string, error)
}

// Service orchestrates the legal team: three specialists in parallel, then
// the team lead synthesizes their insights into the final report.
type Service struct {
	Sessions SessionSource
	Usage    *usage.Service
	Runner   AgentRunner
	Team     agents.Team
}

func NewService(sessionSource SessionSource, usageSvc *usage.Service, runner AgentRunner, team agents.Team) *Service {
	return &Service{Sessions: sessionSource, Usage: usageSvc, Runner: runner, Team: team}
}

// Analyze runs the full team against the session's indexed document and
// returns the synthesized report. One analysis consumes one usage credit,
// charged before any model call.
func (s *Service) Analyze(ctx context.Context, userID, sessionID string, analysisType Type, query string) (Report, error) {
	resolved, err := resolveQuery(analysisType, query)
	if err != nil {
		return Report{}, err
	}

	sess, err := s.Sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return Report{}, err
	}
	if !sess.IndexReady {
		return Report{}, ErrIndexNotReady
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Report{}, err
		}
	}

	metrics.IncAnalysisStarted()
	start := time.Now()

	var research, contract, strategy string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		research, err = s.Runner.Run(gctx, s.Team.Advisor, sessionID, resolved)
		return err
	})
	g.Go(func() error {
		var err error
		contract, err = s.Runner.Run(gctx, s.Team.Analyst, sessionID, resolved)
		return err
	})
	g.Go(func() error {
		var err error
		strategy, err = s.Runner.Run(gctx, s.Team.Strategist, sessionID, resolved)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.IncAnalysisFailed()
		return Report{}, err
	}

	if research == "" {
		research = noAdvisorResponse
	}
	if contract == "" {
		contract = noAnalystResponse
	}
	if strategy == "" {
		strategy = noStrategistResponse
	}

	report, err := s.Runner.Run(ctx, s.Team.Lead, sessionID, synthesisPrompt(resolved, research, contract, strategy))
	if err != nil {
		metrics.IncAnalysisFailed()
		return Report{}, err
	}
	if report == "" {
		metrics.IncAnalysisFailed()
		return Report{}, ErrEmptyReport
	}

	keyPoints, recommendations := s.summarizeReport(ctx, sessionID, report)

	elapsed := time.Since(start)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"session_id":  sessionID,
		"type":        string(analysisType),
		"duration_ms": elapsed.Milliseconds(),
	})

	return Report{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		Type:            analysisType,
		Query:           resolved,
		Report:          report,
		KeyPoints:       keyPoints,
		Recommendations: recommendations,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// resolveQuery maps predefined analysis types to their canned queries.
// Custom analyses require a non-empty query of their own.
func resolveQuery(analysisType Type, query string) (string, error) {
	if analysisType == TypeCustom {
		trimmed := strings.TrimSpace(query)
		if trimmed == "" {
			return "", ErrQueryRequired
		}
		return trimmed, nil
	}
	template, ok := queryTemplates[analysisType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, analysisType)
	}
	return template, nil
}

// summarizeReport extracts key points and recommendations from the report
// with two independent team lead passes. Either pass failing degrades to a
// fixed fallback text; it never fails the analysis.
func (s *Service) summarizeReport(ctx context.Context, sessionID, report string) (string, string) {
	keyPoints := keyPointsFallback
	recommendations := recommendationsFallback

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := s.Runner.Run(ctx, s.Team.Lead, sessionID, keyPointsPrompt(report))
		if err != nil {
			telemetry.Warn("analysis.key_points_failed", map[string]any{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			return
		}
		if out != "" {
			keyPoints = out
		}
	}()
	go func() {
		defer wg.Done()
		out, err := s.Runner.Run(ctx, s.Team.Lead, sessionID, recommendationsPrompt(report))
		if err != nil {
			telemetry.Warn("analysis.recommendations_failed", map[string]any{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			return
		}
		if out != "" {
			recommendations = out
		}
	}()
	wg.Wait()

	return keyPoints, recommendations
}
