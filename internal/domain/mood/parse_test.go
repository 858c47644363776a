package mood

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAnalysisWellFormed(t *testing.T) {
	raw := `{"summary":"S","dominantMood":"M","recommendations":[{"id":"a","category":"Food","title":"T","description":"D","reasoning":"R","icon":"🍜"}]}`

	got, err := ParseAnalysis(raw)
	require.NoError(t, err)
	require.Equal(t, Analysis{
		Summary:      "S",
		DominantMood: "M",
		Recommendations: []Recommendation{
			{ID: "a", Category: CategoryFood, Title: "T", Description: "D", Reasoning: "R", Icon: "🍜"},
		},
	}, got)
}

func TestParseAnalysisEmptyBodyIsSchemaError(t *testing.T) {
	for _, raw := range []string{"", "   ", "{}", "null"} {
		_, err := ParseAnalysis(raw)
		require.Error(t, err, "input %q", raw)
		require.Equal(t, KindSchema, KindOf(err), "input %q", raw)
	}
}

func TestParseAnalysisInvalidJSON(t *testing.T) {
	_, err := ParseAnalysis(`{"summary":`)
	require.Equal(t, KindSchema, KindOf(err))

	_, err = ParseAnalysis(`[]`)
	require.Equal(t, KindSchema, KindOf(err))
}

func TestParseAnalysisMissingRecommendationField(t *testing.T) {
	raw := `{"summary":"S","dominantMood":"M","recommendations":[{"id":"a","category":"Food","title":"T","description":"D","reasoning":"R"}]}`
	_, err := ParseAnalysis(raw)
	require.Equal(t, KindSchema, KindOf(err))
	require.Contains(t, err.Error(), "icon")
}

func TestParseAnalysisStripsFences(t *testing.T) {
	raw := "```json\n{\"summary\":\"S\",\"dominantMood\":\"M\",\"recommendations\":[]}\n```"
	got, err := ParseAnalysis(raw)
	require.NoError(t, err)
	require.Equal(t, "S", got.Summary)
	require.Empty(t, got.Recommendations)
}

func TestCanonicalCategory(t *testing.T) {
	require.Equal(t, CategoryFood, canonicalCategory(" food "))
	require.Equal(t, CategoryMedia, canonicalCategory("Media (Watch/Listen)"))
	require.Equal(t, CategoryWellness, canonicalCategory("WELLNESS"))
	require.Equal(t, Category("Travel"), canonicalCategory("Travel"))
}

func TestNormalizeRecommendations(t *testing.T) {
	ids := []string{"gen-1", "gen-2"}
	newID := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	recs := []Recommendation{
		{ID: "w", Category: CategoryWellness},
		{ID: "", Category: CategoryFood},
		{ID: "w", Category: CategoryMedia},
	}

	got, err := normalizeRecommendations(recs, newID)
	require.NoError(t, err)
	require.Equal(t, []Category{CategoryFood, CategoryMedia, CategoryWellness}, []Category{got[0].Category, got[1].Category, got[2].Category})
	require.Equal(t, "gen-1", got[0].ID)
	require.Equal(t, "w", got[1].ID)
	require.Equal(t, "gen-2", got[2].ID)
}

func TestNormalizeRecommendationsRejectsBadShapes(t *testing.T) {
	newID := func() string { return "x" }

	_, err := normalizeRecommendations([]Recommendation{{ID: "a", Category: CategoryFood}}, newID)
	require.Equal(t, KindSchema, KindOf(err))

	_, err = normalizeRecommendations([]Recommendation{
		{ID: "a", Category: CategoryFood},
		{ID: "b", Category: CategoryFood},
		{ID: "c", Category: CategoryWellness},
	}, newID)
	require.Equal(t, KindSchema, KindOf(err))

	_, err = normalizeRecommendations([]Recommendation{
		{ID: "a", Category: CategoryFood},
		{ID: "b", Category: "Travel"},
		{ID: "c", Category: CategoryWellness},
	}, newID)
	require.Equal(t, KindSchema, KindOf(err))
}

func TestResponseSchemaRequiresEveryField(t *testing.T) {
	schema := ResponseSchema()
	require.Equal(t, []string{"summary", "dominantMood", "recommendations"}, schema.Required)
	items := schema.Properties["recommendations"].Items
	require.ElementsMatch(t, []string{"id", "category", "title", "description", "reasoning", "icon"}, items.Required)
	require.Equal(t, []string{"Food", "Media", "Wellness"}, items.Properties["category"].Enum)
}
