// internal/keywords/prompt.go
package keywords

import (
	"fmt"
	"strings"

	"contextual-pipeline/internal/models"
)

// SystemPrompt fixes the generation contract: four categories, each entry
// carrying a relevance score, JSON only.
const SystemPrompt = `You are an expert keyword strategist for YouTube programmatic video campaigns.

Your role is to generate high-quality, targeted keywords that will help discover relevant YouTube videos for programmatic ad placement.

Always follow the user's locale instructions. When a primary language or market is provided, generate keywords in that language and favor terminology familiar to audiences in that market.

You must generate four categories of keywords:

1. **Core Keywords** (5-20 keywords): Fundamental, high-volume terms directly related to the campaign topic
   - Should be 1-3 words
   - Highly relevant to the product/service
   - Example: "smartphone", "tech review", "mobile phone"

2. **Long-Tail Keywords** (10-30 keywords): Specific, lower-volume phrases with higher intent
   - Should be 3-6 words
   - More specific and targeted
   - Example: "best budget smartphone 2024", "flagship phone camera test"

3. **Related Topics** (5-20 keywords): Adjacent topics and themes
   - Connected but not directly about the product
   - Helps expand reach to relevant audiences
   - Example: "mobile gaming", "phone accessories", "tech unboxing"

4. **Intent-Based Keywords** (5-20 keywords): Keywords that capture user intent
   - Focus on what users want to do or learn
   - Include modifiers like "how to", "best", "review", "comparison"
   - Example: "how to choose a smartphone", "best phones for photography"

For each keyword, assign a relevance_score (0.0 to 1.0) based on:
- Relevance to campaign goal (40%)
- Alignment with brand/product (30%)
- Search volume potential (20%)
- Targeting precision (10%)

Respond ONLY with valid JSON in this exact format:
{
  "core_keywords": [
    {"keyword": "keyword text", "relevance_score": 0.95},
    ...
  ],
  "long_tail_keywords": [
    {"keyword": "keyword text", "relevance_score": 0.85},
    ...
  ],
  "related_topics": [
    {"keyword": "keyword text", "relevance_score": 0.75},
    ...
  ],
  "intent_based_keywords": [
    {"keyword": "keyword text", "relevance_score": 0.80},
    ...
  ]
}`

var languageLabels = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"hi": "Hindi",
	"ar": "Arabic",
}

var marketLabels = map[string]string{
	"US": "United States",
	"MX": "Mexico",
	"CO": "Colombia",
	"AR": "Argentina",
	"CL": "Chile",
	"BR": "Brazil",
	"ES": "Spain",
	"GB": "United Kingdom",
	"FR": "France",
	"DE": "Germany",
	"IT": "Italy",
	"CA": "Canada",
	"AU": "Australia",
	"JP": "Japan",
	"KR": "South Korea",
	"SG": "Singapore",
	"AE": "United Arab Emirates",
	"NL": "Netherlands",
	"BE": "Belgium",
	"SE": "Sweden",
	"NO": "Norway",
	"DK": "Denmark",
	"IE": "Ireland",
	"NZ": "New Zealand",
}

// Counts sets how many keywords each category must contain.
type Counts struct {
	Core        int
	LongTail    int
	Related     int
	IntentBased int
}

// BuildPrompt renders the campaign brief and per-category counts into the
// generation request.
func BuildPrompt(campaign *models.Campaign, counts Counts) string {
	languageCode := strings.ToLower(campaign.PrimaryLanguage)
	if languageCode == "" {
		languageCode = "en"
	}
	marketCode := strings.ToUpper(campaign.PrimaryMarket)
	if marketCode == "" {
		marketCode = "US"
	}

	languageLabel, ok := languageLabels[languageCode]
	if !ok {
		languageLabel = languageCode
	}
	marketLabel, ok := marketLabels[marketCode]
	if !ok {
		marketLabel = marketCode
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Generate keywords for this programmatic video campaign:

**Campaign Name:** %s
**Brand:** %s
**Product Category:** %s
**Campaign Goal:** %s
**Primary Language:** %s (%s)
**Primary Market:** %s (%s)

**Campaign Description:**
%s
`,
		campaign.Name,
		campaign.BrandName,
		campaign.ProductCategory,
		campaign.CampaignGoal,
		languageLabel, strings.ToUpper(languageCode),
		marketLabel, marketCode,
		campaign.CampaignDefinition,
	)

	if campaign.BrandContextText != "" {
		fmt.Fprintf(&b, `
**Brand Context & Guidelines:**
%s
`, campaign.BrandContextText)
	}

	fmt.Fprintf(&b, `
**Requirements:**
- Generate exactly %d core keywords
- Generate exactly %d long-tail keywords
- Generate exactly %d related topic keywords
- Generate exactly %d intent-based keywords
- Each keyword must have a relevance_score between 0.0 and 1.0
- Keywords should be optimized for YouTube video discovery
- Consider YouTube search patterns and video content themes
- Ensure diversity within each category
- All keywords must be written in %s (%s) with correct accents and casing.
- Prioritize terminology and search behaviour common in %s (%s).

Respond with JSON only, no additional text.`,
		counts.Core, counts.LongTail, counts.Related, counts.IntentBased,
		languageLabel, strings.ToUpper(languageCode),
		marketLabel, marketCode,
	)

	return b.String()
}
