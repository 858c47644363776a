package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
	"github.com/yanqian/mood-engine/internal/domain/mood"
	apperrors "github.com/yanqian/mood-engine/pkg/errors"
)

const defaultHistoryLimit = 20

// Service owns the analysis/selection view-state.
type Service interface {
	Analyze(ctx context.Context) (mood.Analysis, error)
	Select(id string) (mood.Recommendation, error)
	ClearSelection()
	Snapshot() Snapshot
	History(ctx context.Context, limit int) ([]mood.Analysis, error)
}

type service struct {
	cfg      Config
	readings ReadingSource
	analyzer mood.Service
	history  HistoryStore
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	state      State
	analysis   *mood.Analysis
	selectedID string
	lastErr    *Failure
}

// NewService constructs the session in the Idle state.
func NewService(cfg Config, readings ReadingSource, analyzer mood.Service, history HistoryStore, logger *slog.Logger) Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &service{
		cfg:      cfg,
		readings: readings,
		analyzer: analyzer,
		history:  history,
		logger:   logger.With("component", "session.service"),
		now:      time.Now,
		state:    StateIdle,
	}
}

// Analyze moves to Loading, clearing the current analysis and selection,
// and then to Ready or back to Idle. Only one analysis may be in flight.
func (s *service) Analyze(ctx context.Context) (mood.Analysis, error) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return mood.Analysis{}, apperrors.Wrap(CodeInFlight, "an analysis is already in progress", nil)
	}
	s.state = StateLoading
	s.analysis = nil
	s.selectedID = ""
	s.lastErr = nil
	reading := s.readings.Current()
	s.mu.Unlock()

	result, err := s.analyzer.Analyze(ctx, reading)

	s.mu.Lock()
	if err != nil {
		s.state = StateIdle
		s.lastErr = &Failure{Kind: mood.KindOf(err), Message: FailureMessage, At: s.now().UTC()}
		s.mu.Unlock()
		s.logger.Error("analysis failed", "kind", mood.KindOf(err), "error", err)
		return mood.Analysis{}, apperrors.Wrap(CodeAnalysisFailed, FailureMessage, err)
	}
	current := result.Clone()
	s.state = StateReady
	s.analysis = &current
	s.mu.Unlock()

	if s.history != nil {
		if err := s.history.Append(ctx, result); err != nil {
			s.logger.Warn("failed to record analysis history", "analysis_id", result.ID, "error", err)
		}
	}
	return result, nil
}

// Select marks a recommendation of the current analysis as selected.
// Ids that do not belong to the current analysis are rejected.
func (s *service) Select(id string) (mood.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.analysis == nil {
		return mood.Recommendation{}, apperrors.Wrap(CodeInvalidSelection, "no analysis is ready", nil)
	}
	rec, ok := s.analysis.Recommendation(id)
	if !ok {
		return mood.Recommendation{}, apperrors.Wrap(CodeInvalidSelection, "recommendation "+id+" is not part of the current analysis", nil)
	}
	s.selectedID = id
	return rec, nil
}

func (s *service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:   s.state,
		Reading: s.readings.Current(),
	}
	if s.analysis != nil {
		copied := s.analysis.Clone()
		snap.Analysis = &copied
	}
	if s.selectedID != "" {
		id := s.selectedID
		snap.SelectedID = &id
	}
	if s.lastErr != nil {
		failure := *s.lastErr
		snap.LastError = &failure
	}
	return snap
}

func (s *service) History(ctx context.Context, limit int) ([]mood.Analysis, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	if s.history == nil {
		return nil, nil
	}
	items, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load analysis history", err)
	}
	return items, nil
}

var _ ReadingSource = (*biometrics.Holder)(nil)
