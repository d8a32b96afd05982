// internal/repository/scores.go
package repository

import (
	"context"
	"database/sql"

	"contextual-pipeline/internal/common/database"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ScoreStore persists video scores. Upsert keeps exactly one row per
// (campaign, video) pair regardless of concurrent writers.
type ScoreStore struct {
	db *database.PostgresClient
}

func NewScoreStore(db *database.PostgresClient) *ScoreStore {
	return &ScoreStore{db: db}
}

const scoreColumns = `id, campaign_id, video_id, semantic_similarity_score, intent_score,
	interest_score, emotion_score, contextual_score,
	intent_type, interest_topics, emotion_type, brand_safety_status, brand_suitability,
	sentiment, tone, key_entities, key_topics, targeting_recommendation,
	suggested_bid_modifier, reasoning, model_used, scored_at`

func scanScore(scan func(...interface{}) error) (*models.VideoScore, error) {
	var sc models.VideoScore
	var reasoning, modelUsed sql.NullString
	if err := scan(
		&sc.ID, &sc.CampaignID, &sc.VideoID, &sc.SemanticSimilarity, &sc.IntentMatchScore,
		&sc.InterestMatchScore, &sc.EmotionAlignment, &sc.ContextualScore,
		&sc.IntentType, pq.Array(&sc.InterestTopics), &sc.EmotionType, &sc.BrandSafetyStatus, &sc.BrandSuitability,
		&sc.Sentiment, &sc.Tone, pq.Array(&sc.KeyEntities), pq.Array(&sc.KeyTopics), &sc.TargetingRecommendation,
		&sc.SuggestedBidModifier, &reasoning, &modelUsed, &sc.ScoredAt,
	); err != nil {
		return nil, err
	}
	sc.Reasoning = reasoning.String
	sc.ModelUsed = modelUsed.String
	return &sc, nil
}

// Get returns the score for one (campaign, video) pair, or nil when absent.
func (s *ScoreStore) Get(ctx context.Context, campaignID, videoID string) (*models.VideoScore, error) {
	query := `SELECT ` + scoreColumns + ` FROM video_scores WHERE campaign_id = $1 AND video_id = $2`

	sc, err := scanScore(s.db.QueryRow(ctx, query, campaignID, videoID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("get_score", err)
	}
	return sc, nil
}

// Upsert stores a score, overwriting any existing row for the same
// (campaign, video) pair. A unique-violation race against a concurrent
// insert is resolved by overwriting the row that won. The refreshed row is
// returned.
func (s *ScoreStore) Upsert(ctx context.Context, score *models.VideoScore) (*models.VideoScore, error) {
	existing, err := s.Get(ctx, score.CampaignID, score.VideoID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.update(ctx, existing.ID, score); err != nil {
			return nil, err
		}
		return s.Get(ctx, score.CampaignID, score.VideoID)
	}

	score.ID = uuid.NewString()
	err = s.insert(ctx, score)
	if apperrors.IsUniqueViolation(err) {
		// A concurrent writer inserted first. Re-read its row and overwrite.
		winner, getErr := s.Get(ctx, score.CampaignID, score.VideoID)
		if getErr != nil {
			return nil, getErr
		}
		if winner == nil {
			return nil, apperrors.NewScoreConflictError(score.CampaignID, score.VideoID)
		}
		if err := s.update(ctx, winner.ID, score); err != nil {
			return nil, err
		}
		return s.Get(ctx, score.CampaignID, score.VideoID)
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, score.CampaignID, score.VideoID)
}

func (s *ScoreStore) insert(ctx context.Context, sc *models.VideoScore) error {
	query := `INSERT INTO video_scores
		(id, campaign_id, video_id, semantic_similarity_score, intent_score,
		 interest_score, emotion_score, contextual_score,
		 intent_type, interest_topics, emotion_type, brand_safety_status, brand_suitability,
		 sentiment, tone, key_entities, key_topics, targeting_recommendation,
		 suggested_bid_modifier, reasoning, model_used, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err := s.db.Exec(ctx, query,
		sc.ID, sc.CampaignID, sc.VideoID, sc.SemanticSimilarity, sc.IntentMatchScore,
		sc.InterestMatchScore, sc.EmotionAlignment, sc.ContextualScore,
		sc.IntentType, pq.Array(sc.InterestTopics), sc.EmotionType, sc.BrandSafetyStatus, sc.BrandSuitability,
		sc.Sentiment, sc.Tone, pq.Array(sc.KeyEntities), pq.Array(sc.KeyTopics), sc.TargetingRecommendation,
		sc.SuggestedBidModifier, sc.Reasoning, sc.ModelUsed, sc.ScoredAt,
	)
	if err != nil && !apperrors.IsUniqueViolation(err) {
		return apperrors.NewPersistenceFailedError("insert_score", err)
	}
	return err
}

func (s *ScoreStore) update(ctx context.Context, id string, sc *models.VideoScore) error {
	query := `UPDATE video_scores SET
		semantic_similarity_score = $2, intent_score = $3, interest_score = $4,
		emotion_score = $5, contextual_score = $6,
		intent_type = $7, interest_topics = $8, emotion_type = $9,
		brand_safety_status = $10, brand_suitability = $11, sentiment = $12, tone = $13,
		key_entities = $14, key_topics = $15, targeting_recommendation = $16,
		suggested_bid_modifier = $17, reasoning = $18, model_used = $19, scored_at = $20
		WHERE id = $1`

	_, err := s.db.Exec(ctx, query,
		id, sc.SemanticSimilarity, sc.IntentMatchScore, sc.InterestMatchScore,
		sc.EmotionAlignment, sc.ContextualScore,
		sc.IntentType, pq.Array(sc.InterestTopics), sc.EmotionType,
		sc.BrandSafetyStatus, sc.BrandSuitability, sc.Sentiment, sc.Tone,
		pq.Array(sc.KeyEntities), pq.Array(sc.KeyTopics), sc.TargetingRecommendation,
		sc.SuggestedBidModifier, sc.Reasoning, sc.ModelUsed, sc.ScoredAt,
	)
	if err != nil {
		return apperrors.NewPersistenceFailedError("update_score", err)
	}
	return err
}

// ListByCampaign returns all scores for a campaign ordered by contextual
// score, highest first.
func (s *ScoreStore) ListByCampaign(ctx context.Context, campaignID string) ([]models.VideoScore, error) {
	query := `SELECT ` + scoreColumns + ` FROM video_scores
		WHERE campaign_id = $1 ORDER BY contextual_score DESC, scored_at DESC`

	rows, err := s.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_scores", err)
	}
	defer rows.Close()

	var scores []models.VideoScore
	for rows.Next() {
		sc, err := scanScore(rows.Scan)
		if err != nil {
			return nil, apperrors.NewPersistenceFailedError("list_scores", err)
		}
		scores = append(scores, *sc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_scores", err)
	}
	return scores, nil
}
