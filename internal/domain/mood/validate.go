package mood

import (
	"fmt"
	"strings"
)

// normalizeRecommendations enforces one recommendation per category in
// Food, Media, Wellness order. Empty or duplicate ids are replaced with
// generated ones.
func normalizeRecommendations(recs []Recommendation, newID func() string) ([]Recommendation, error) {
	categories := Categories()
	if len(recs) != len(categories) {
		return nil, SchemaError("unexpected recommendation count", fmt.Errorf("want %d, got %d", len(categories), len(recs)))
	}

	byCategory := make(map[Category]Recommendation, len(recs))
	for _, rec := range recs {
		if _, dup := byCategory[rec.Category]; dup {
			return nil, SchemaError("duplicate recommendation category", fmt.Errorf("category %q repeated", rec.Category))
		}
		byCategory[rec.Category] = rec
	}

	out := make([]Recommendation, 0, len(categories))
	seenIDs := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		rec, ok := byCategory[c]
		if !ok {
			return nil, SchemaError("recommendation category missing", fmt.Errorf("no %s recommendation", c))
		}
		if _, dup := seenIDs[rec.ID]; dup || strings.TrimSpace(rec.ID) == "" {
			rec.ID = newID()
		}
		seenIDs[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}
