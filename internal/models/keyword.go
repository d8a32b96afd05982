// internal/models/keyword.go
package models

import "time"

// Keyword is a search term attached to a campaign. The rotation-tracking
// fields (LastFetchedAt, FetchCount, TotalResults) are mutated only by the
// discovery fetch cycle, and only after that cycle's results are persisted.
type Keyword struct {
	ID             string          `json:"id"`
	CampaignID     string          `json:"campaign_id"`
	Text           string          `json:"keyword"`
	Category       KeywordCategory `json:"keyword_type"`
	RelevanceScore float64         `json:"relevance_score"`
	Source         KeywordSource   `json:"source"`
	Status         KeywordStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	LastFetchedAt  *time.Time      `json:"last_fetched_at,omitempty"`
	FetchCount     int             `json:"fetch_count"`
	TotalResults   int             `json:"total_results"`
}

// LastFetchedOrZero treats a never-fetched keyword as fetched at the
// earliest possible instant so it sorts ahead of any fetched keyword.
func (k *Keyword) LastFetchedOrZero() time.Time {
	if k.LastFetchedAt == nil {
		return time.Time{}
	}
	return *k.LastFetchedAt
}
