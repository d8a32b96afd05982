// internal/models/campaign.go
package models

import "time"

// Campaign is a programmatic video campaign brief. It is read-only to the
// scoring core; one snapshot is used for the whole of a scoring call.
type Campaign struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	BrandName          string         `json:"brand_name"`
	BrandURL           string         `json:"brand_url,omitempty"`
	ProductCategory    string         `json:"product_category"`
	CampaignGoal       string         `json:"campaign_goal"`
	CampaignDefinition string         `json:"campaign_definition"`
	BrandContextText   string         `json:"brand_context_text,omitempty"`
	PrimaryLanguage    string         `json:"primary_language,omitempty"`
	PrimaryMarket      string         `json:"primary_market,omitempty"`
	Status             CampaignStatus `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// BriefText concatenates the campaign's free-text fields into the single
// document used for lexical comparison against video text.
func (c *Campaign) BriefText() string {
	parts := []string{
		c.Name,
		c.BrandName,
		c.ProductCategory,
		c.CampaignGoal,
		c.CampaignDefinition,
		c.BrandContextText,
	}
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
