package mood

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type analysisWire struct {
	Summary         *string               `json:"summary"`
	DominantMood    *string               `json:"dominantMood"`
	Recommendations *[]recommendationWire `json:"recommendations"`
}

type recommendationWire struct {
	ID          *string `json:"id"`
	Category    *string `json:"category"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Reasoning   *string `json:"reasoning"`
	Icon        *string `json:"icon"`
}

// ParseAnalysis decodes a backend response into an Analysis. Empty text is
// treated as an empty object and fails like any other missing field.
func ParseAnalysis(raw string) (Analysis, error) {
	text := stripFences(raw)
	if text == "" {
		text = "{}"
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Analysis{}, SchemaError("response is not valid JSON", err)
	}
	if wire.Summary == nil {
		return Analysis{}, missingField("summary")
	}
	if wire.DominantMood == nil {
		return Analysis{}, missingField("dominantMood")
	}
	if wire.Recommendations == nil {
		return Analysis{}, missingField("recommendations")
	}

	recs := make([]Recommendation, 0, len(*wire.Recommendations))
	for i, item := range *wire.Recommendations {
		rec, err := item.toRecommendation()
		if err != nil {
			return Analysis{}, SchemaError(fmt.Sprintf("recommendation %d malformed", i), err)
		}
		recs = append(recs, rec)
	}

	return Analysis{
		Summary:         strings.TrimSpace(*wire.Summary),
		DominantMood:    strings.TrimSpace(*wire.DominantMood),
		Recommendations: recs,
	}, nil
}

func (w recommendationWire) toRecommendation() (Recommendation, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"id", w.ID},
		{"category", w.Category},
		{"title", w.Title},
		{"description", w.Description},
		{"reasoning", w.Reasoning},
		{"icon", w.Icon},
	}
	for _, f := range fields {
		if f.value == nil {
			return Recommendation{}, fmt.Errorf("field %s missing", f.name)
		}
	}
	return Recommendation{
		ID:          strings.TrimSpace(*w.ID),
		Category:    canonicalCategory(*w.Category),
		Title:       strings.TrimSpace(*w.Title),
		Description: strings.TrimSpace(*w.Description),
		Reasoning:   strings.TrimSpace(*w.Reasoning),
		Icon:        strings.TrimSpace(*w.Icon),
	}, nil
}

// canonicalCategory maps "food", "Media (Watch/Listen)" and similar onto the
// fixed categories. Unknown values are returned trimmed and unchanged.
func canonicalCategory(raw string) Category {
	clean := strings.TrimSpace(raw)
	head := clean
	if idx := strings.IndexAny(head, " (/"); idx > 0 {
		head = head[:idx]
	}
	for _, c := range Categories() {
		if strings.EqualFold(head, string(c)) {
			return c
		}
	}
	return Category(clean)
}

func stripFences(raw string) string {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimPrefix(sanitized, "```")
	sanitized = strings.TrimSuffix(sanitized, "```")
	return strings.TrimSpace(sanitized)
}

func missingField(name string) error {
	return SchemaError("response missing required field", errors.New(name))
}
