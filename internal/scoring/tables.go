// internal/scoring/tables.go
package scoring

import (
	"strings"

	"contextual-pipeline/internal/models"
)

var riskyTerms = []string{
	"violence", "fight", "gun", "weapon", "leak", "politics", "nsfw", "accident", "gambling", "adult", "hate",
}

var reviewTerms = []string{"prank", "drama", "controversy"}

// ClassifyBrandSafety screens the video's combined text. Risky terms match
// as substrings so compounds like "gunfight" are caught too.
func ClassifyBrandSafety(video *models.Video, sentiment models.Sentiment) models.BrandSafetyStatus {
	text := strings.ToLower(video.CombinedText())
	for _, term := range riskyTerms {
		if strings.Contains(text, term) {
			return models.SafetyUnsafe
		}
	}
	for _, term := range reviewTerms {
		if strings.Contains(text, term) {
			return models.SafetyReview
		}
	}
	if sentiment == models.SentimentNegative {
		return models.SafetyReview
	}
	return models.SafetySafe
}

// DetermineBrandSuitability maps the contextual score and safety screen to
// a suitability tier.
func DetermineBrandSuitability(contextualScore float64, safety models.BrandSafetyStatus, sentiment models.Sentiment) models.BrandSuitability {
	if safety == models.SafetyUnsafe {
		return models.SuitabilityLow
	}
	if contextualScore >= 0.75 && sentiment == models.SentimentPositive {
		return models.SuitabilityHigh
	}
	if contextualScore >= 0.5 {
		return models.SuitabilityMedium
	}
	return models.SuitabilityLow
}

// DetermineRecommendation maps score and suitability to a targeting action
// and its bid modifier. Unsafe content is always avoided.
func DetermineRecommendation(contextualScore float64, suitability models.BrandSuitability, safety models.BrandSafetyStatus) (models.TargetingRecommendation, float64) {
	if safety == models.SafetyUnsafe {
		return models.Avoid, 0.0
	}
	if contextualScore >= 0.8 && suitability == models.SuitabilityHigh {
		return models.StrongMatch, 1.35
	}
	if contextualScore >= 0.6 && (suitability == models.SuitabilityHigh || suitability == models.SuitabilityMedium) {
		return models.ModerateMatch, 1.1
	}
	if contextualScore >= 0.4 {
		return models.WeakMatch, 0.9
	}
	return models.Avoid, 0.0
}

func inferIntentType(tokens map[string]bool) models.IntentType {
	if anyIn(tokens, "buy", "deal", "sale", "price", "review", "vs") {
		return models.IntentCommercial
	}
	if anyIn(tokens, "how", "guide", "tips", "tutorial") {
		return models.IntentInformational
	}
	return models.IntentEntertainment
}

// inferEmotionType applies ordered rules; the first match wins.
func inferEmotionType(sentiment models.Sentiment, tokens map[string]bool) string {
	switch {
	case sentiment == models.SentimentNegative:
		return "critical"
	case anyIn(tokens, "unboxing", "launch", "premiere", "event", "live"):
		return "excited"
	case anyIn(tokens, "deal", "offer", "sale", "discount", "buy", "best"):
		return "persuasive"
	case anyIn(tokens, "how", "guide", "tutorial", "learn", "tips"):
		return "inspired"
	case anyIn(tokens, "history", "retro", "throwback", "classic", "nostalgia"):
		return "nostalgic"
	case anyIn(tokens, "relax", "relaxing", "meditation", "ambient", "calm"):
		return "calm"
	case anyIn(tokens, "analysis", "review", "breakdown", "comparison", "vs"):
		return "serious"
	case sentiment == models.SentimentPositive:
		return "joyful"
	default:
		return "neutral"
	}
}

// inferTone applies ordered rules; note the rules check tokens before
// sentiment except for the negative case.
func inferTone(sentiment models.Sentiment, tokens map[string]bool) string {
	switch {
	case anyIn(tokens, "unboxing", "launch", "event", "live"):
		return "enthusiastic and informative"
	case anyIn(tokens, "deal", "offer", "sale", "discount", "buy"):
		return "urgent and persuasive"
	case anyIn(tokens, "review", "analysis", "breakdown", "comparison", "vs"):
		return "analytical and balanced"
	case anyIn(tokens, "history", "retro", "classic", "nostalgia"):
		return "nostalgic and emotive"
	case anyIn(tokens, "calm", "relax", "meditation", "ambient"):
		return "calm and reflective"
	case sentiment == models.SentimentNegative:
		return "critical and candid"
	case anyIn(tokens, "tips", "guide", "tutorial", "learn"):
		return "warm and conversational"
	default:
		return "promotional and enticing"
	}
}

func anyIn(tokens map[string]bool, terms ...string) bool {
	for _, t := range terms {
		if tokens[t] {
			return true
		}
	}
	return false
}
