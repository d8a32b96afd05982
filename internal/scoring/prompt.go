// internal/scoring/prompt.go
package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"contextual-pipeline/internal/common/validation"
	"contextual-pipeline/internal/models"
)

// SystemPrompt is the analyst persona sent with every scoring request.
const SystemPrompt = "You are a contextual marketing analyst."

// TruncateTranscript caps a transcript excerpt at maxChars, marking the cut.
func TruncateTranscript(text string, maxChars int) string {
	if text == "" {
		return ""
	}
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "..."
}

// BuildPrompt renders the scoring request: campaign brief, video metadata,
// transcript excerpt, and the heuristic baseline for reference.
func BuildPrompt(campaign *models.Campaign, video *models.Video, transcript string, heuristic Heuristic, transcriptMaxChars int) string {
	transcriptExcerpt := TruncateTranscript(transcript, transcriptMaxChars)
	if transcriptExcerpt == "" {
		transcriptExcerpt = "Transcript unavailable"
	}

	brandContext := campaign.BrandContextText
	if brandContext == "" {
		brandContext = "Not provided"
	}

	published := ""
	if video.PublishedAt != nil {
		published = video.PublishedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	tags := strings.Join(video.Tags, ", ")
	if len(tags) > 500 {
		tags = tags[:500]
	}
	metadataLines := []string{
		fmt.Sprintf("Title: %s", video.Title),
		fmt.Sprintf("Channel: %s", video.ChannelTitle),
		fmt.Sprintf("Views: %d", video.ViewCount),
		fmt.Sprintf("Likes: %d", video.LikeCount),
		fmt.Sprintf("Comments: %d", video.CommentCount),
		fmt.Sprintf("Published: %s", published),
		fmt.Sprintf("Duration: %s", video.Duration),
		fmt.Sprintf("Tags: %s", tags),
	}

	baseline, _ := json.Marshal(map[string]interface{}{
		"baseline_semantic_similarity": heuristic.SemanticSimilarity,
		"baseline_intent_score":        heuristic.IntentScore,
		"baseline_interest_score":      heuristic.InterestScore,
		"baseline_emotion_score":       heuristic.EmotionScore,
		"baseline_sentiment":           heuristic.Sentiment,
		"baseline_tone":                heuristic.Tone,
	})

	return fmt.Sprintf(`You are an expert contextual advertising analyst.
Use the campaign brief, video metadata, and transcript excerpt to rate the video.

Campaign:
- Name: %s
- Brand: %s
- Goal: %s
- Product Category: %s
- Definition: %s
- Brand Context: %s

Video Metadata:
%s

Transcript Excerpt:
%s

Baseline signals (for reference only, do not copy):
%s

Return STRICT JSON with these keys and ranges:
{
  "semantic_similarity_score": 0-1 float,
  "intent_score": 0-1 float,
  "interest_score": 0-1 float,
  "emotion_score": 0-1 float,
  "intent_type": "commercial|informational|entertainment",
  "interest_topics": ["topic", ... up to 3 entries],
  "emotion_type": "joyful|excited|inspired|nostalgic|calm|serious|critical|persuasive|neutral",
  "contextual_score": 0-1 float,
  "brand_safety_status": "safe|review|unsafe",
  "brand_suitability": "high|medium|low",
  "sentiment": "positive|neutral|negative",
  "tone": "short descriptive string (choose from or blend: enthusiastic and informative, promotional and enticing, analytical and balanced, critical and candid, warm and conversational, urgent and persuasive, calm and reflective, nostalgic and emotive)",
  "key_entities": ["entity", ...],
  "key_topics": ["topic", ...],
  "targeting_recommendation": "strong_match|moderate_match|weak_match|avoid",
  "suggested_bid_modifier": float between 0 and 2,
  "reasoning": "2-3 concise sentences"
}
No additional commentary.`,
		campaign.Name,
		campaign.BrandName,
		campaign.CampaignGoal,
		campaign.ProductCategory,
		campaign.CampaignDefinition,
		brandContext,
		strings.Join(metadataLines, "\n"),
		transcriptExcerpt,
		string(baseline),
	)
}

// responseSchema is a diagnostic pre-check on model output. Violations are
// logged, never fatal: normalization repairs every field regardless.
const responseSchema = `{
  "type": "object",
  "properties": {
    "semantic_similarity_score": {"type": "number", "minimum": 0, "maximum": 1},
    "intent_score": {"type": "number", "minimum": 0, "maximum": 1},
    "interest_score": {"type": "number", "minimum": 0, "maximum": 1},
    "emotion_score": {"type": "number", "minimum": 0, "maximum": 1},
    "contextual_score": {"type": "number", "minimum": 0, "maximum": 1},
    "intent_type": {"type": "string", "enum": ["commercial", "informational", "entertainment"]},
    "interest_topics": {"type": "array", "items": {"type": "string"}},
    "emotion_type": {"type": "string"},
    "brand_safety_status": {"type": "string", "enum": ["safe", "review", "unsafe"]},
    "brand_suitability": {"type": "string", "enum": ["high", "medium", "low"]},
    "sentiment": {"type": "string", "enum": ["positive", "neutral", "negative"]},
    "tone": {"type": "string"},
    "key_entities": {"type": "array", "items": {"type": "string"}},
    "key_topics": {"type": "array", "items": {"type": "string"}},
    "targeting_recommendation": {"type": "string", "enum": ["strong_match", "moderate_match", "weak_match", "avoid"]},
    "suggested_bid_modifier": {"type": "number", "minimum": 0, "maximum": 2},
    "reasoning": {"type": "string"}
  },
  "required": ["contextual_score"]
}`

// NewResponseValidator compiles the response schema.
func NewResponseValidator() (*validation.Validator, error) {
	return validation.NewValidator(responseSchema)
}
