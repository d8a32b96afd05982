// internal/models/enums.go
package models

import "strings"

// KeywordCategory is the strategic classification of a search keyword.
type KeywordCategory string

const (
	KeywordCore        KeywordCategory = "core"
	KeywordLongTail    KeywordCategory = "long_tail"
	KeywordRelated     KeywordCategory = "related"
	KeywordIntentBased KeywordCategory = "intent_based"
)

// KeywordCategoryPriority is the fixed emission/tie-break order for
// rotation selection. Categories not listed here sort after these,
// alphabetically.
var KeywordCategoryPriority = []KeywordCategory{
	KeywordCore,
	KeywordRelated,
	KeywordIntentBased,
	KeywordLongTail,
}

type KeywordStatus string

const (
	KeywordActive   KeywordStatus = "active"
	KeywordInactive KeywordStatus = "inactive"
)

type KeywordSource string

const (
	SourceAIGenerated KeywordSource = "ai_generated"
	SourceManual      KeywordSource = "manual"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// BrandSafetyStatus classifies whether a video is safe to place ads against.
type BrandSafetyStatus string

const (
	SafetySafe   BrandSafetyStatus = "safe"
	SafetyReview BrandSafetyStatus = "review"
	SafetyUnsafe BrandSafetyStatus = "unsafe"
)

type BrandSuitability string

const (
	SuitabilityHigh   BrandSuitability = "high"
	SuitabilityMedium BrandSuitability = "medium"
	SuitabilityLow    BrandSuitability = "low"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// TargetingRecommendation is the action suggested for a scored video.
type TargetingRecommendation string

const (
	StrongMatch   TargetingRecommendation = "strong_match"
	ModerateMatch TargetingRecommendation = "moderate_match"
	WeakMatch     TargetingRecommendation = "weak_match"
	Avoid         TargetingRecommendation = "avoid"
)

type IntentType string

const (
	IntentCommercial    IntentType = "commercial"
	IntentInformational IntentType = "informational"
	IntentEntertainment IntentType = "entertainment"
)

// EmotionOptions is the closed vocabulary accepted for emotion_type.
var EmotionOptions = []string{
	"joyful",
	"excited",
	"inspired",
	"nostalgic",
	"calm",
	"serious",
	"critical",
	"persuasive",
	"neutral",
}

// ParseKeywordCategory matches a string against the closed category enum,
// case-insensitively. The second return reports whether the value matched.
func ParseKeywordCategory(value string) (KeywordCategory, bool) {
	switch KeywordCategory(strings.ToLower(strings.TrimSpace(value))) {
	case KeywordCore:
		return KeywordCore, true
	case KeywordLongTail:
		return KeywordLongTail, true
	case KeywordRelated:
		return KeywordRelated, true
	case KeywordIntentBased:
		return KeywordIntentBased, true
	}
	return "", false
}

// ParseBrandSafety matches case-insensitively against the closed enum.
func ParseBrandSafety(value string) (BrandSafetyStatus, bool) {
	switch BrandSafetyStatus(strings.ToLower(strings.TrimSpace(value))) {
	case SafetySafe:
		return SafetySafe, true
	case SafetyReview:
		return SafetyReview, true
	case SafetyUnsafe:
		return SafetyUnsafe, true
	}
	return "", false
}

// ParseBrandSuitability matches case-insensitively against the closed enum.
func ParseBrandSuitability(value string) (BrandSuitability, bool) {
	switch BrandSuitability(strings.ToLower(strings.TrimSpace(value))) {
	case SuitabilityHigh:
		return SuitabilityHigh, true
	case SuitabilityMedium:
		return SuitabilityMedium, true
	case SuitabilityLow:
		return SuitabilityLow, true
	}
	return "", false
}

// ParseSentiment matches case-insensitively against the closed enum.
func ParseSentiment(value string) (Sentiment, bool) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(value))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentNegative:
		return SentimentNegative, true
	}
	return "", false
}

// ParseRecommendation matches case-insensitively against the closed enum.
func ParseRecommendation(value string) (TargetingRecommendation, bool) {
	switch TargetingRecommendation(strings.ToLower(strings.TrimSpace(value))) {
	case StrongMatch:
		return StrongMatch, true
	case ModerateMatch:
		return ModerateMatch, true
	case WeakMatch:
		return WeakMatch, true
	case Avoid:
		return Avoid, true
	}
	return "", false
}
