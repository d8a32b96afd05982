// internal/scoring/normalize.go
package scoring

import (
	"fmt"
	"math"
	"strings"

	"contextual-pipeline/internal/models"
)

// Payload is a fully normalized score: every field is in range and drawn
// from its closed vocabulary, regardless of what the model returned.
type Payload struct {
	SemanticSimilarity float64
	IntentScore        float64
	InterestScore      float64
	EmotionScore       float64
	ContextualScore    float64

	IntentType     models.IntentType
	InterestTopics []string
	EmotionType    string

	BrandSafetyStatus models.BrandSafetyStatus
	BrandSuitability  models.BrandSuitability
	Sentiment         models.Sentiment
	Tone              string
	KeyEntities       []string
	KeyTopics         []string

	Recommendation models.TargetingRecommendation
	BidModifier    float64
	Reasoning      string
}

// contextualBlend is the default score combination when the model does not
// return a usable contextual_score.
func contextualBlend(semantic, intent, interest, emotion float64) float64 {
	return semantic*0.40 + intent*0.25 + interest*0.20 + emotion*0.15
}

var emotionSynonyms = map[string]string{
	"happy":       "joyful",
	"cheerful":    "joyful",
	"exciting":    "excited",
	"energetic":   "excited",
	"motivated":   "inspired",
	"emotional":   "nostalgic",
	"relaxed":     "calm",
	"informative": "serious",
	"negative":    "critical",
	"sales":       "persuasive",
}

// NormalizePayload merges a raw model response with the heuristic baseline.
// Out-of-range numbers are clamped, missing fields fall back to the
// baseline, and open-vocabulary strings are folded onto closed enums.
func NormalizePayload(raw map[string]interface{}, heuristic Heuristic) Payload {
	semantic := coerceFloat(raw["semantic_similarity_score"], heuristic.SemanticSimilarity, 0, 1)
	intent := coerceFloat(raw["intent_score"], heuristic.IntentScore, 0, 1)
	interest := coerceFloat(raw["interest_score"], heuristic.InterestScore, 0, 1)
	emotion := coerceFloat(raw["emotion_score"], heuristic.EmotionScore, 0, 1)
	contextual := coerceFloat(raw["contextual_score"], contextualBlend(semantic, intent, interest, emotion), 0, 1)

	safety, ok := models.ParseBrandSafety(stringOf(raw["brand_safety_status"]))
	if !ok {
		safety = models.SafetySafe
	}
	sentiment, ok := models.ParseSentiment(stringOf(raw["sentiment"]))
	if !ok {
		sentiment = heuristic.Sentiment
	}
	suitability, ok := models.ParseBrandSuitability(stringOf(raw["brand_suitability"]))
	if !ok {
		suitability = DetermineBrandSuitability(contextual, safety, sentiment)
	}

	bid := coerceFloat(raw["suggested_bid_modifier"], 1.0, 0, 2)
	recommendation, ok := models.ParseRecommendation(stringOf(raw["targeting_recommendation"]))
	if !ok {
		recommendation, bid = DetermineRecommendation(contextual, suitability, safety)
	}

	intentType, ok := parseIntentType(stringOf(raw["intent_type"]))
	if !ok {
		intentType = heuristic.IntentType
	}

	reasoning := stringOf(raw["reasoning"])
	if reasoning == "" {
		reasoning = reasoningPlaceholder(contextual, recommendation)
	}

	tone := stringOf(raw["tone"])
	if tone == "" {
		tone = heuristic.Tone
	}

	return Payload{
		SemanticSimilarity: semantic,
		IntentScore:        intent,
		InterestScore:      interest,
		EmotionScore:       emotion,
		ContextualScore:    contextual,
		IntentType:         intentType,
		InterestTopics:     coerceTopics(raw["interest_topics"], heuristic.InterestTopics),
		EmotionType:        normalizeEmotion(stringOf(raw["emotion_type"]), heuristic.EmotionType),
		BrandSafetyStatus:  safety,
		BrandSuitability:   suitability,
		Sentiment:          sentiment,
		Tone:               tone,
		KeyEntities:        stringsOrFallback(raw["key_entities"], heuristic.KeyEntities),
		KeyTopics:          stringsOrFallback(raw["key_topics"], heuristic.KeyTopics),
		Recommendation:     recommendation,
		BidModifier:        round2(bid),
		Reasoning:          reasoning,
	}
}

// FallbackPayload builds the pure-heuristic score used when no model
// response is available.
func FallbackPayload(campaign *models.Campaign, video *models.Video, heuristic Heuristic) Payload {
	safety := ClassifyBrandSafety(video, heuristic.Sentiment)
	contextual := contextualBlend(
		heuristic.SemanticSimilarity,
		heuristic.IntentScore,
		heuristic.InterestScore,
		heuristic.EmotionScore,
	)
	suitability := DetermineBrandSuitability(contextual, safety, heuristic.Sentiment)
	recommendation, bid := DetermineRecommendation(contextual, suitability, safety)

	return Payload{
		SemanticSimilarity: heuristic.SemanticSimilarity,
		IntentScore:        heuristic.IntentScore,
		InterestScore:      heuristic.InterestScore,
		EmotionScore:       heuristic.EmotionScore,
		ContextualScore:    round3(contextual),
		IntentType:         heuristic.IntentType,
		InterestTopics:     heuristic.InterestTopics,
		EmotionType:        normalizeEmotion(heuristic.EmotionType, "neutral"),
		BrandSafetyStatus:  safety,
		BrandSuitability:   suitability,
		Sentiment:          heuristic.Sentiment,
		Tone:               heuristic.Tone,
		KeyEntities:        heuristic.KeyEntities,
		KeyTopics:          heuristic.KeyTopics,
		Recommendation:     recommendation,
		BidModifier:        bid,
		Reasoning:          fallbackReasoning(campaign, video, contextual, recommendation),
	}
}

func reasoningPlaceholder(contextualScore float64, recommendation models.TargetingRecommendation) string {
	return fmt.Sprintf(
		"Contextual score %.2f justifies %s based on semantic overlap, intent alignment, and emotional fit.",
		contextualScore,
		strings.ReplaceAll(string(recommendation), "_", " "),
	)
}

func fallbackReasoning(campaign *models.Campaign, video *models.Video, contextualScore float64, recommendation models.TargetingRecommendation) string {
	title := video.Title
	if len(title) > 60 {
		title = title[:60]
	}
	return fmt.Sprintf(
		"Video '%s' aligns %.0f%% with campaign '%s'. Recommendation: %s based on topical and sentiment fit.",
		title,
		contextualScore*100,
		campaign.Name,
		strings.ReplaceAll(string(recommendation), "_", " "),
	)
}

// normalizeEmotion folds a free-form emotion label onto the closed
// vocabulary, mapping common synonyms before giving up on the value.
func normalizeEmotion(value, fallback string) string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	for _, option := range models.EmotionOptions {
		if cleaned == option {
			return option
		}
	}
	if mapped, ok := emotionSynonyms[cleaned]; ok {
		return mapped
	}
	for _, option := range models.EmotionOptions {
		if fallback == option {
			return fallback
		}
	}
	return "neutral"
}

func parseIntentType(value string) (models.IntentType, bool) {
	switch models.IntentType(strings.ToLower(strings.TrimSpace(value))) {
	case models.IntentCommercial:
		return models.IntentCommercial, true
	case models.IntentInformational:
		return models.IntentInformational, true
	case models.IntentEntertainment:
		return models.IntentEntertainment, true
	}
	return "", false
}

// coerceFloat accepts JSON numbers or numeric strings and clamps the
// result; anything else yields the default.
func coerceFloat(value interface{}, def, min, max float64) float64 {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &parsed); err != nil {
			return def
		}
		num = parsed
	default:
		return def
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return def
	}
	return math.Max(min, math.Min(max, num))
}

// coerceTopics accepts a list or a comma-separated string, truncated to
// three entries.
func coerceTopics(value interface{}, fallback []string) []string {
	switch v := value.(type) {
	case []interface{}:
		var cleaned []string
		for _, item := range v {
			if s := stringOf(item); s != "" {
				cleaned = append(cleaned, s)
			}
		}
		if len(cleaned) > 0 {
			return firstN(cleaned, 3)
		}
	case string:
		var parts []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return firstN(parts, 3)
		}
	}
	return fallback
}

func stringsOrFallback(value interface{}, fallback []string) []string {
	items, ok := value.([]interface{})
	if !ok {
		return fallback
	}
	var cleaned []string
	for _, item := range items {
		if s := stringOf(item); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return cleaned
}

func stringOf(value interface{}) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
