package session

import (
	"context"
	"time"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
	"github.com/yanqian/mood-engine/internal/domain/mood"
)

// State is the presentation state of the analysis panel.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Error codes surfaced by the session.
const (
	CodeInFlight         = "analysis_in_flight"
	CodeAnalysisFailed   = "analysis_failed"
	CodeInvalidSelection = "invalid_selection"
)

// FailureMessage is the only failure text shown to users.
const FailureMessage = "analysis failed, try again"

// Snapshot is a consistent copy of the view-state.
type Snapshot struct {
	State      State              `json:"state"`
	Reading    biometrics.Reading `json:"reading"`
	Analysis   *mood.Analysis     `json:"analysis"`
	SelectedID *string            `json:"selectedId"`
	LastError  *Failure           `json:"lastError,omitempty"`
}

// Failure records why the most recent analysis attempt failed.
type Failure struct {
	Kind    mood.Kind `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// ReadingSource exposes the reading an analysis is built from.
type ReadingSource interface {
	Current() biometrics.Reading
}

// HistoryStore keeps completed analyses, newest first.
type HistoryStore interface {
	Append(ctx context.Context, analysis mood.Analysis) error
	Recent(ctx context.Context, limit int) ([]mood.Analysis, error)
}

// Config drives session behaviour.
type Config struct {
	HistoryLimit int
}
