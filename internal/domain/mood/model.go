package mood

import (
	"context"
	"time"

	"github.com/yanqian/mood-engine/internal/domain/biometrics"
	"github.com/yanqian/mood-engine/pkg/metrics"
)

// Category is the fixed bucket a recommendation belongs to.
type Category string

const (
	CategoryFood     Category = "Food"
	CategoryMedia    Category = "Media"
	CategoryWellness Category = "Wellness"
)

// Categories returns the categories in the order recommendations are presented.
func Categories() []Category {
	return []Category{CategoryFood, CategoryMedia, CategoryWellness}
}

// Recommendation is one actionable suggestion of an analysis.
type Recommendation struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Reasoning   string   `json:"reasoning"`
	Icon        string   `json:"icon"`
}

// Analysis is the structured result produced for one reading.
type Analysis struct {
	ID              string              `json:"id"`
	Summary         string              `json:"summary"`
	DominantMood    string              `json:"dominantMood"`
	Recommendations []Recommendation    `json:"recommendations"`
	Reading         biometrics.Reading  `json:"reading"`
	Model           string              `json:"model,omitempty"`
	Usage           *metrics.TokenUsage `json:"usage,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// Recommendation looks up a recommendation by id.
func (a Analysis) Recommendation(id string) (Recommendation, bool) {
	for _, rec := range a.Recommendations {
		if rec.ID == id {
			return rec, true
		}
	}
	return Recommendation{}, false
}

// Clone returns a deep copy safe to hand to other goroutines.
func (a Analysis) Clone() Analysis {
	out := a
	out.Recommendations = append([]Recommendation(nil), a.Recommendations...)
	if a.Usage != nil {
		usage := *a.Usage
		out.Usage = &usage
	}
	return out
}

// Config wires runtime settings for the analysis client.
type Config struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
	Retry       RetryConfig
}

// RetryConfig bounds retries of transient backend failures.
type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// GenerateRequest is a single structured-output call to a generative backend.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Schema      *Schema
	Temperature float32
}

// GenerateResult carries the raw response text of a backend call.
type GenerateResult struct {
	Text  string
	Model string
	Usage metrics.TokenUsage
}

// Generator is implemented by each generative inference backend.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// ResponseCache stores raw backend responses keyed by model and prompt.
type ResponseCache interface {
	Get(key string) (string, bool)
	Set(key, text string)
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(string) (string, bool) { return "", false }
func (NopCache) Set(string, string)        {}
