// internal/repository/keywords.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"contextual-pipeline/internal/common/database"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/models"

	"github.com/google/uuid"
)

// KeywordStore manages campaign keywords and their rotation counters.
type KeywordStore struct {
	db *database.PostgresClient
}

func NewKeywordStore(db *database.PostgresClient) *KeywordStore {
	return &KeywordStore{db: db}
}

const keywordColumns = `id, campaign_id, keyword, keyword_type, relevance_score, source,
	status, created_at, last_fetched_at, fetch_count, total_results`

func scanKeyword(scan func(...interface{}) error) (*models.Keyword, error) {
	var k models.Keyword
	var lastFetched sql.NullTime
	if err := scan(
		&k.ID, &k.CampaignID, &k.Text, &k.Category, &k.RelevanceScore, &k.Source,
		&k.Status, &k.CreatedAt, &lastFetched, &k.FetchCount, &k.TotalResults,
	); err != nil {
		return nil, err
	}
	if lastFetched.Valid {
		t := lastFetched.Time
		k.LastFetchedAt = &t
	}
	return &k, nil
}

// ListActive returns the active keyword pool for a campaign.
func (s *KeywordStore) ListActive(ctx context.Context, campaignID string) ([]models.Keyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM campaign_keywords
		WHERE campaign_id = $1 AND status = $2
		ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, campaignID, models.KeywordActive)
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_active_keywords", err)
	}
	defer rows.Close()

	var keywords []models.Keyword
	for rows.Next() {
		k, err := scanKeyword(rows.Scan)
		if err != nil {
			return nil, apperrors.NewPersistenceFailedError("list_active_keywords", err)
		}
		keywords = append(keywords, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_active_keywords", err)
	}
	return keywords, nil
}

// InsertBatch stores generated keywords for a campaign. Duplicate texts in
// the same campaign are skipped via the unique constraint.
func (s *KeywordStore) InsertBatch(ctx context.Context, campaignID string, keywords []models.Keyword) ([]models.Keyword, error) {
	query := `INSERT INTO campaign_keywords
		(id, campaign_id, keyword, keyword_type, relevance_score, source, status, created_at, fetch_count, total_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0)
		ON CONFLICT (campaign_id, keyword) DO NOTHING`

	now := time.Now().UTC()
	inserted := make([]models.Keyword, 0, len(keywords))
	for _, k := range keywords {
		k.ID = uuid.NewString()
		k.CampaignID = campaignID
		k.CreatedAt = now
		if k.Status == "" {
			k.Status = models.KeywordActive
		}
		if k.Source == "" {
			k.Source = models.SourceAIGenerated
		}

		res, err := s.db.Exec(ctx, query,
			k.ID, k.CampaignID, k.Text, k.Category, k.RelevanceScore, k.Source, k.Status, k.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewPersistenceFailedError("insert_keywords", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted = append(inserted, k)
		}
	}
	return inserted, nil
}

// touchRotationCounters updates rotation-tracking fields inside the fetch
// cycle transaction. uniqueResults is the count of videos this keyword's
// search contributed after deduplication.
func touchRotationCounters(ctx context.Context, tx *sql.Tx, keywordID string, fetchedAt time.Time, uniqueResults int) error {
	query := `UPDATE campaign_keywords
		SET last_fetched_at = $2, fetch_count = fetch_count + 1, total_results = total_results + $3
		WHERE id = $1`

	_, err := tx.ExecContext(ctx, query, keywordID, fetchedAt, uniqueResults)
	return err
}
