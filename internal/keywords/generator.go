// internal/keywords/generator.go

// Package keywords generates and persists campaign search keywords.
package keywords

import (
	"context"
	"fmt"
	"strings"

	"contextual-pipeline/internal/common/config"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/models"
)

// CompletionProvider produces a JSON object from a prompt pair.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (map[string]interface{}, error)
	Model() string
}

// CampaignReader loads the campaign brief being generated for.
type CampaignReader interface {
	Get(ctx context.Context, campaignID string) (*models.Campaign, error)
}

// KeywordWriter persists generated keywords.
type KeywordWriter interface {
	InsertBatch(ctx context.Context, campaignID string, keywords []models.Keyword) ([]models.Keyword, error)
}

// Result summarizes one generation run.
type Result struct {
	CampaignID     string                         `json:"campaign_id"`
	TotalKeywords  int                            `json:"total_keywords"`
	KeywordsByType map[models.KeywordCategory]int `json:"keywords_by_type"`
	Keywords       []models.Keyword               `json:"keywords"`
}

// Generator asks the completion provider for categorized keywords and
// stores the accepted ones.
type Generator struct {
	completion CompletionProvider
	campaigns  CampaignReader
	store      KeywordWriter
	counts     Counts
	logger     logger.Logger
}

func NewGenerator(completion CompletionProvider, campaigns CampaignReader, store KeywordWriter, cfg config.KeywordsConfig, log logger.Logger) *Generator {
	return &Generator{
		completion: completion,
		campaigns:  campaigns,
		store:      store,
		counts: Counts{
			Core:        cfg.CoreCount,
			LongTail:    cfg.LongTailCount,
			Related:     cfg.RelatedCount,
			IntentBased: cfg.IntentBasedCount,
		},
		logger: log,
	}
}

// categoryKeys maps the response object's keys to keyword categories.
var categoryKeys = []struct {
	key      string
	category models.KeywordCategory
}{
	{"core_keywords", models.KeywordCore},
	{"long_tail_keywords", models.KeywordLongTail},
	{"related_topics", models.KeywordRelated},
	{"intent_based_keywords", models.KeywordIntentBased},
}

// GenerateForCampaign generates keywords for one campaign and saves them.
// Entries without usable text are dropped; scores outside [0, 1] are
// clamped.
func (g *Generator) GenerateForCampaign(ctx context.Context, campaignID string) (*Result, error) {
	campaign, err := g.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Starting keyword generation", map[string]interface{}{
		"campaignId":   campaign.ID,
		"campaignName": campaign.Name,
	})

	payload, err := g.completion.Complete(ctx, SystemPrompt, BuildPrompt(campaign, g.counts))
	if err != nil {
		return nil, apperrors.NewKeywordGenerationFailedError(err).
			WithMetadata("campaignId", campaign.ID)
	}

	parsed := parseKeywordPayload(payload)
	if len(parsed) == 0 {
		return nil, apperrors.NewKeywordGenerationFailedError(
			fmt.Errorf("response contained no usable keywords")).
			WithMetadata("campaignId", campaign.ID)
	}

	inserted, err := g.store.InsertBatch(ctx, campaign.ID, parsed)
	if err != nil {
		return nil, err
	}

	byType := make(map[models.KeywordCategory]int, len(categoryKeys))
	for _, k := range inserted {
		byType[k.Category]++
	}

	g.logger.Info("Keyword generation completed", map[string]interface{}{
		"campaignId": campaign.ID,
		"generated":  len(parsed),
		"inserted":   len(inserted),
		"model":      g.completion.Model(),
	})

	return &Result{
		CampaignID:     campaign.ID,
		TotalKeywords:  len(inserted),
		KeywordsByType: byType,
		Keywords:       inserted,
	}, nil
}

func parseKeywordPayload(payload map[string]interface{}) []models.Keyword {
	var out []models.Keyword
	for _, ck := range categoryKeys {
		entries, ok := payload[ck.key].([]interface{})
		if !ok {
			continue
		}
		for _, raw := range entries {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			text, _ := entry["keyword"].(string)
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			out = append(out, models.Keyword{
				Text:           text,
				Category:       ck.category,
				RelevanceScore: clampScore(entry["relevance_score"]),
				Source:         models.SourceAIGenerated,
				Status:         models.KeywordActive,
			})
		}
	}
	return out
}

func clampScore(raw interface{}) float64 {
	score, ok := raw.(float64)
	if !ok {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
