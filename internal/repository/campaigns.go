// internal/repository/campaigns.go
package repository

import (
	"context"
	"database/sql"

	"contextual-pipeline/internal/common/database"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/models"
)

// CampaignStore reads campaign briefs.
type CampaignStore struct {
	db *database.PostgresClient
}

func NewCampaignStore(db *database.PostgresClient) *CampaignStore {
	return &CampaignStore{db: db}
}

const campaignColumns = `id, name, brand_name, brand_url, product_category, campaign_goal,
	campaign_definition, brand_context_text, primary_language, primary_market,
	status, created_at, updated_at`

// Get returns a campaign by ID.
func (s *CampaignStore) Get(ctx context.Context, campaignID string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	var c models.Campaign
	var brandURL, brandContext, primaryLanguage, primaryMarket sql.NullString
	err := s.db.QueryRow(ctx, query, campaignID).Scan(
		&c.ID, &c.Name, &c.BrandName, &brandURL, &c.ProductCategory, &c.CampaignGoal,
		&c.CampaignDefinition, &brandContext, &primaryLanguage, &primaryMarket,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewCampaignNotFoundError(campaignID)
	}
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("get_campaign", err)
	}

	c.BrandURL = brandURL.String
	c.BrandContextText = brandContext.String
	c.PrimaryLanguage = primaryLanguage.String
	c.PrimaryMarket = primaryMarket.String
	return &c, nil
}

// ListActive returns campaigns eligible for fetch cycles.
func (s *CampaignStore) ListActive(ctx context.Context) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE status = $1 ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, models.CampaignActive)
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_active_campaigns", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var brandURL, brandContext, primaryLanguage, primaryMarket sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Name, &c.BrandName, &brandURL, &c.ProductCategory, &c.CampaignGoal,
			&c.CampaignDefinition, &brandContext, &primaryLanguage, &primaryMarket,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewPersistenceFailedError("list_active_campaigns", err)
		}
		c.BrandURL = brandURL.String
		c.BrandContextText = brandContext.String
		c.PrimaryLanguage = primaryLanguage.String
		c.PrimaryMarket = primaryMarket.String
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_active_campaigns", err)
	}
	return campaigns, nil
}
