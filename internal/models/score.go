// internal/models/score.go
package models

import "time"

// VideoScore is the persisted result of scoring one video against one
// campaign. The (CampaignID, VideoID) pair is unique; re-scoring overwrites
// the existing row in place.
type VideoScore struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	VideoID    string `json:"video_id"`

	SemanticSimilarity float64 `json:"semantic_similarity_score"`
	IntentMatchScore   float64 `json:"intent_score"`
	InterestMatchScore float64 `json:"interest_score"`
	EmotionAlignment   float64 `json:"emotion_score"`
	ContextualScore    float64 `json:"contextual_score"`

	IntentType     IntentType `json:"intent_type"`
	InterestTopics []string   `json:"interest_topics"`
	EmotionType    string     `json:"emotion_type"`

	BrandSafetyStatus BrandSafetyStatus `json:"brand_safety_status"`
	BrandSuitability  BrandSuitability  `json:"brand_suitability"`

	Sentiment   Sentiment `json:"sentiment"`
	Tone        string    `json:"tone"`
	KeyEntities []string  `json:"key_entities"`
	KeyTopics   []string  `json:"key_topics"`

	TargetingRecommendation TargetingRecommendation `json:"targeting_recommendation"`
	SuggestedBidModifier    float64                 `json:"suggested_bid_modifier"`
	Reasoning               string                  `json:"reasoning,omitempty"`

	ModelUsed string    `json:"model_used,omitempty"`
	ScoredAt  time.Time `json:"scored_at"`
}

// RotationMix reports how a fetch cycle's keyword budget was allocated
// across categories. Keys are categories that had at least one eligible
// keyword in the pool.
type RotationMix map[KeywordCategory]int

// Total returns the number of selection slots in the mix.
func (m RotationMix) Total() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}
