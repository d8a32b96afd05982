// internal/repository/videos.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"contextual-pipeline/internal/common/database"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// VideoStore manages discovered videos and channels, and commits whole
// fetch cycles atomically.
type VideoStore struct {
	db *database.PostgresClient
}

func NewVideoStore(db *database.PostgresClient) *VideoStore {
	return &VideoStore{db: db}
}

const videoColumns = `id, campaign_id, video_id, channel_id, title, description, channel_title,
	tags, category, duration, published_at, view_count, like_count, comment_count,
	channel_view_count, channel_subscriber_count, thumbnail_url, fetched_at`

func scanVideo(scan func(...interface{}) error) (*models.Video, error) {
	var v models.Video
	var description, channelTitle, category, duration, thumbnail sql.NullString
	var publishedAt sql.NullTime
	var channelViews, channelSubs sql.NullInt64
	if err := scan(
		&v.ID, &v.CampaignID, &v.VideoID, &v.ChannelID, &v.Title, &description, &channelTitle,
		pq.Array(&v.Tags), &category, &duration, &publishedAt, &v.ViewCount, &v.LikeCount, &v.CommentCount,
		&channelViews, &channelSubs, &thumbnail, &v.FetchedAt,
	); err != nil {
		return nil, err
	}
	v.Description = description.String
	v.ChannelTitle = channelTitle.String
	v.Category = category.String
	v.Duration = duration.String
	v.ThumbnailURL = thumbnail.String
	if publishedAt.Valid {
		t := publishedAt.Time
		v.PublishedAt = &t
	}
	if channelViews.Valid {
		n := channelViews.Int64
		v.ChannelViewCount = &n
	}
	if channelSubs.Valid {
		n := channelSubs.Int64
		v.ChannelSubscriberCount = &n
	}
	return &v, nil
}

// Get returns a stored video by its row ID.
func (s *VideoStore) Get(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM campaign_videos WHERE id = $1`

	v, err := scanVideo(s.db.QueryRow(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewVideoNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("get_video", err)
	}
	return v, nil
}

// ListByCampaign returns all stored videos for a campaign.
func (s *VideoStore) ListByCampaign(ctx context.Context, campaignID string) ([]models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM campaign_videos WHERE campaign_id = $1 ORDER BY fetched_at`

	rows, err := s.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_videos", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		v, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, apperrors.NewPersistenceFailedError("list_videos", err)
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceFailedError("list_videos", err)
	}
	return videos, nil
}

// KeywordResult associates one selected keyword with the number of unique
// videos its search contributed in this cycle.
type KeywordResult struct {
	KeywordID     string
	UniqueResults int
}

// CommitFetchCycle stores a cycle's videos, channels, and keyword rotation
// counter updates in one transaction. Counters never advance unless the
// videos that justify them are stored too.
func (s *VideoStore) CommitFetchCycle(ctx context.Context, videos []models.Video, channels []models.Channel, results []KeywordResult, fetchedAt time.Time) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceFailedError("commit_fetch_cycle", err)
	}
	defer tx.Rollback()

	for i := range videos {
		if err := upsertVideoTx(ctx, tx, &videos[i]); err != nil {
			return apperrors.NewPersistenceFailedError("commit_fetch_cycle", err)
		}
	}
	for i := range channels {
		if err := upsertChannelTx(ctx, tx, &channels[i]); err != nil {
			return apperrors.NewPersistenceFailedError("commit_fetch_cycle", err)
		}
	}
	for _, r := range results {
		if err := touchRotationCounters(ctx, tx, r.KeywordID, fetchedAt, r.UniqueResults); err != nil {
			return apperrors.NewPersistenceFailedError("commit_fetch_cycle", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewPersistenceFailedError("commit_fetch_cycle", err)
	}
	return nil
}

func upsertVideoTx(ctx context.Context, tx *sql.Tx, v *models.Video) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	query := `INSERT INTO campaign_videos
		(id, campaign_id, video_id, channel_id, title, description, channel_title,
		 tags, category, duration, published_at, view_count, like_count, comment_count,
		 channel_view_count, channel_subscriber_count, thumbnail_url, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (campaign_id, video_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			channel_title = EXCLUDED.channel_title,
			tags = EXCLUDED.tags,
			category = EXCLUDED.category,
			duration = EXCLUDED.duration,
			published_at = EXCLUDED.published_at,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			channel_view_count = EXCLUDED.channel_view_count,
			channel_subscriber_count = EXCLUDED.channel_subscriber_count,
			thumbnail_url = EXCLUDED.thumbnail_url,
			fetched_at = EXCLUDED.fetched_at`

	_, err := tx.ExecContext(ctx, query,
		v.ID, v.CampaignID, v.VideoID, v.ChannelID, v.Title, v.Description, v.ChannelTitle,
		pq.Array(v.Tags), v.Category, v.Duration, v.PublishedAt, v.ViewCount, v.LikeCount, v.CommentCount,
		v.ChannelViewCount, v.ChannelSubscriberCount, v.ThumbnailURL, v.FetchedAt,
	)
	return err
}

func upsertChannelTx(ctx context.Context, tx *sql.Tx, c *models.Channel) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `INSERT INTO campaign_channels
		(id, campaign_id, channel_id, title, description, country, published_at,
		 subscriber_count, view_count, video_count, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (campaign_id, channel_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			country = EXCLUDED.country,
			subscriber_count = EXCLUDED.subscriber_count,
			view_count = EXCLUDED.view_count,
			video_count = EXCLUDED.video_count,
			fetched_at = EXCLUDED.fetched_at`

	_, err := tx.ExecContext(ctx, query,
		c.ID, c.CampaignID, c.ChannelID, c.Title, c.Description, c.Country, c.PublishedAt,
		c.SubscriberCount, c.ViewCount, c.VideoCount, c.FetchedAt,
	)
	return err
}
