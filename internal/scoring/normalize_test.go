// internal/scoring/normalize_test.go
package scoring

import (
	"testing"

	"contextual-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

func baselineHeuristic() Heuristic {
	return Heuristic{
		SemanticSimilarity: 0.4,
		IntentScore:        0.5,
		InterestScore:      0.6,
		EmotionScore:       0.7,
		Sentiment:          models.SentimentNeutral,
		Tone:               "promotional and enticing",
		KeyTopics:          []string{"phones", "tech"},
		KeyEntities:        []string{"acme"},
		IntentType:         models.IntentEntertainment,
		InterestTopics:     []string{"tech"},
		EmotionType:        "neutral",
	}
}

func TestNormalizePayloadFullResponse(t *testing.T) {
	raw := map[string]interface{}{
		"semantic_similarity_score": 0.9,
		"intent_score":              0.8,
		"interest_score":            0.7,
		"emotion_score":             0.6,
		"contextual_score":          0.85,
		"intent_type":               "commercial",
		"interest_topics":           []interface{}{"phones", "cameras"},
		"emotion_type":              "excited",
		"brand_safety_status":       "safe",
		"brand_suitability":         "high",
		"sentiment":                 "positive",
		"tone":                      "enthusiastic and informative",
		"key_entities":              []interface{}{"acme", "widget"},
		"key_topics":                []interface{}{"phones"},
		"targeting_recommendation":  "strong_match",
		"suggested_bid_modifier":    1.35,
		"reasoning":                 "Strong topical overlap.",
	}

	p := NormalizePayload(raw, baselineHeuristic())

	assert.Equal(t, 0.9, p.SemanticSimilarity)
	assert.Equal(t, 0.85, p.ContextualScore)
	assert.Equal(t, models.IntentCommercial, p.IntentType)
	assert.Equal(t, []string{"phones", "cameras"}, p.InterestTopics)
	assert.Equal(t, "excited", p.EmotionType)
	assert.Equal(t, models.StrongMatch, p.Recommendation)
	assert.Equal(t, 1.35, p.BidModifier)
	assert.Equal(t, "Strong topical overlap.", p.Reasoning)
}

func TestNormalizePayloadClampsOutOfRange(t *testing.T) {
	raw := map[string]interface{}{
		"semantic_similarity_score": 1.7,
		"intent_score":              -0.3,
		"contextual_score":          2.0,
		"targeting_recommendation":  "strong_match",
		"suggested_bid_modifier":    5.0,
	}

	p := NormalizePayload(raw, baselineHeuristic())

	assert.Equal(t, 1.0, p.SemanticSimilarity)
	assert.Equal(t, 0.0, p.IntentScore)
	assert.Equal(t, 1.0, p.ContextualScore)
	assert.Equal(t, 2.0, p.BidModifier)
}

func TestNormalizePayloadMissingFieldsFallBack(t *testing.T) {
	h := baselineHeuristic()
	p := NormalizePayload(map[string]interface{}{}, h)

	assert.Equal(t, h.SemanticSimilarity, p.SemanticSimilarity)
	assert.Equal(t, h.IntentScore, p.IntentScore)
	assert.Equal(t, h.Sentiment, p.Sentiment)
	assert.Equal(t, h.IntentType, p.IntentType)
	assert.Equal(t, h.InterestTopics, p.InterestTopics)
	assert.Equal(t, h.KeyEntities, p.KeyEntities)
	assert.Equal(t, h.KeyTopics, p.KeyTopics)
	assert.Equal(t, h.Tone, p.Tone)

	// Missing contextual_score blends the component scores.
	expected := 0.4*0.40 + 0.5*0.25 + 0.6*0.20 + 0.7*0.15
	assert.InDelta(t, expected, p.ContextualScore, 1e-9)
	assert.NotEmpty(t, p.Reasoning)
}

func TestNormalizePayloadNumericStrings(t *testing.T) {
	raw := map[string]interface{}{
		"semantic_similarity_score": "0.42",
		"contextual_score":          "not a number",
	}

	p := NormalizePayload(raw, baselineHeuristic())

	assert.InDelta(t, 0.42, p.SemanticSimilarity, 1e-9)
	// Unparseable contextual score falls back to the blend.
	assert.Greater(t, p.ContextualScore, 0.0)
}

func TestNormalizeEmotionSynonyms(t *testing.T) {
	tests := []struct {
		input    string
		fallback string
		expected string
	}{
		{"joyful", "neutral", "joyful"},
		{"Happy", "neutral", "joyful"},
		{"ENERGETIC", "neutral", "excited"},
		{"sales", "neutral", "persuasive"},
		{"informative", "neutral", "serious"},
		{"made-up-feeling", "calm", "calm"},
		{"made-up-feeling", "also-invalid", "neutral"},
		{"", "serious", "serious"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeEmotion(tt.input, tt.fallback),
			"input=%q fallback=%q", tt.input, tt.fallback)
	}
}

func TestCoerceTopics(t *testing.T) {
	fallback := []string{"fb"}

	assert.Equal(t, []string{"a", "b", "c"},
		coerceTopics([]interface{}{"a", "b", "c", "d"}, fallback))
	assert.Equal(t, []string{"x", "y"},
		coerceTopics("x, y", fallback))
	assert.Equal(t, fallback, coerceTopics(nil, fallback))
	assert.Equal(t, fallback, coerceTopics(42, fallback))
	assert.Equal(t, fallback, coerceTopics([]interface{}{}, fallback))
}

func TestNormalizePayloadRecommendationDerivedWhenMissing(t *testing.T) {
	raw := map[string]interface{}{
		"contextual_score":    0.85,
		"sentiment":           "positive",
		"brand_safety_status": "safe",
		"brand_suitability":   "high",
	}

	p := NormalizePayload(raw, baselineHeuristic())

	assert.Equal(t, models.StrongMatch, p.Recommendation)
	assert.Equal(t, 1.35, p.BidModifier)
}

func TestFallbackPayloadUnsafeVideo(t *testing.T) {
	campaign := &models.Campaign{Name: "Acme Launch"}
	video := &models.Video{Title: "Casino gambling highlights"}
	h := ExtractFeatures(campaign, video)

	p := FallbackPayload(campaign, video, h)

	assert.Equal(t, models.SafetyUnsafe, p.BrandSafetyStatus)
	assert.Equal(t, models.SuitabilityLow, p.BrandSuitability)
	assert.Equal(t, models.Avoid, p.Recommendation)
	assert.Equal(t, 0.0, p.BidModifier)
	assert.Contains(t, p.Reasoning, "Casino gambling highlights")
	assert.Contains(t, p.Reasoning, "Acme Launch")
}

func TestFallbackPayloadTruncatesLongTitleInReasoning(t *testing.T) {
	longTitle := ""
	for i := 0; i < 10; i++ {
		longTitle += "abcdefgh "
	}
	campaign := &models.Campaign{Name: "c"}
	video := &models.Video{Title: longTitle}
	h := ExtractFeatures(campaign, video)

	p := FallbackPayload(campaign, video, h)

	assert.Contains(t, p.Reasoning, longTitle[:60])
	assert.NotContains(t, p.Reasoning, longTitle)
}

func TestReasoningPlaceholderSpellsOutRecommendation(t *testing.T) {
	got := reasoningPlaceholder(0.72, models.ModerateMatch)
	assert.Contains(t, got, "0.72")
	assert.Contains(t, got, "moderate match")
	assert.NotContains(t, got, "moderate_match")
}
