// internal/keywords/prompt_test.go
package keywords

import (
	"strings"
	"testing"

	"contextual-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptLocaleSteering(t *testing.T) {
	campaign := &models.Campaign{
		Name:               "Verano Launch",
		BrandName:          "Acme",
		ProductCategory:    "beverages",
		CampaignGoal:       "awareness",
		CampaignDefinition: "Promote the summer drink line",
		PrimaryLanguage:    "es",
		PrimaryMarket:      "MX",
	}

	prompt := BuildPrompt(campaign, Counts{Core: 10, LongTail: 15, Related: 10, IntentBased: 10})

	assert.Contains(t, prompt, "**Primary Language:** Spanish (ES)")
	assert.Contains(t, prompt, "**Primary Market:** Mexico (MX)")
	assert.Contains(t, prompt, "written in Spanish (ES)")
	assert.Contains(t, prompt, "common in Mexico (MX)")
}

func TestBuildPromptDefaultsLocale(t *testing.T) {
	campaign := &models.Campaign{Name: "c", CampaignDefinition: "d"}

	prompt := BuildPrompt(campaign, Counts{Core: 5, LongTail: 5, Related: 5, IntentBased: 5})

	assert.Contains(t, prompt, "**Primary Language:** English (EN)")
	assert.Contains(t, prompt, "**Primary Market:** United States (US)")
}

func TestBuildPromptUnknownLocaleFallsBackToCode(t *testing.T) {
	campaign := &models.Campaign{
		Name:            "c",
		PrimaryLanguage: "sw",
		PrimaryMarket:   "KE",
	}

	prompt := BuildPrompt(campaign, Counts{})

	assert.Contains(t, prompt, "**Primary Language:** sw (SW)")
	assert.Contains(t, prompt, "**Primary Market:** KE (KE)")
}

func TestBuildPromptCounts(t *testing.T) {
	campaign := &models.Campaign{Name: "c"}

	prompt := BuildPrompt(campaign, Counts{Core: 7, LongTail: 12, Related: 9, IntentBased: 4})

	assert.Contains(t, prompt, "Generate exactly 7 core keywords")
	assert.Contains(t, prompt, "Generate exactly 12 long-tail keywords")
	assert.Contains(t, prompt, "Generate exactly 9 related topic keywords")
	assert.Contains(t, prompt, "Generate exactly 4 intent-based keywords")
}

func TestBuildPromptBrandContextOptional(t *testing.T) {
	campaign := &models.Campaign{Name: "c"}
	assert.NotContains(t, BuildPrompt(campaign, Counts{}), "Brand Context & Guidelines")

	campaign.BrandContextText = "Never mention competitors."
	withContext := BuildPrompt(campaign, Counts{})
	assert.Contains(t, withContext, "Brand Context & Guidelines")
	assert.Contains(t, withContext, "Never mention competitors.")
}

func TestSystemPromptContract(t *testing.T) {
	for _, key := range []string{"core_keywords", "long_tail_keywords", "related_topics", "intent_based_keywords"} {
		assert.Contains(t, SystemPrompt, key)
	}
	assert.Contains(t, SystemPrompt, "relevance_score")
	assert.True(t, strings.Contains(SystemPrompt, "valid JSON"))
}
