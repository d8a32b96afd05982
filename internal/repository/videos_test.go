// internal/repository/videos_test.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"contextual-pipeline/internal/common/database"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoStore(t *testing.T) (*VideoStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewVideoStore(&database.PostgresClient{DB: db}), mock
}

var videoColumnNames = []string{
	"id", "campaign_id", "video_id", "channel_id", "title", "description", "channel_title",
	"tags", "category", "duration", "published_at", "view_count", "like_count", "comment_count",
	"channel_view_count", "channel_subscriber_count", "thumbnail_url", "fetched_at",
}

func videoRow(id, videoID string) *sqlmock.Rows {
	published := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	fetched := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(videoColumnNames).AddRow(
		id, "camp-1", videoID, "chan-1", "Phone review", "desc", "TechTube",
		"{phones,tech}", "28", "PT10M", published, int64(1000), int64(50), int64(5),
		nil, nil, "https://i.ytimg.com/vi/x/default.jpg", fetched,
	)
}

func TestVideoStoreGet(t *testing.T) {
	store, mock := newVideoStore(t)

	mock.ExpectQuery("FROM campaign_videos").
		WithArgs("row-1").
		WillReturnRows(videoRow("row-1", "vid-1"))

	video, err := store.Get(context.Background(), "row-1")

	require.NoError(t, err)
	assert.Equal(t, "vid-1", video.VideoID)
	assert.Equal(t, []string{"phones", "tech"}, video.Tags)
	assert.Nil(t, video.ChannelViewCount)
	require.NotNil(t, video.PublishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoStoreGetNotFound(t *testing.T) {
	store, mock := newVideoStore(t)

	mock.ExpectQuery("FROM campaign_videos").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeVideoNotFound, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoStoreListByCampaign(t *testing.T) {
	store, mock := newVideoStore(t)

	mock.ExpectQuery("FROM campaign_videos").
		WithArgs("camp-1").
		WillReturnRows(videoRow("row-1", "vid-1"))

	videos, err := store.ListByCampaign(context.Background(), "camp-1")

	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "vid-1", videos[0].VideoID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFetchCycle(t *testing.T) {
	store, mock := newVideoStore(t)
	fetchedAt := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	videos := []models.Video{
		{CampaignID: "camp-1", VideoID: "vid-1", ChannelID: "chan-1", Title: "first", FetchedAt: fetchedAt},
		{CampaignID: "camp-1", VideoID: "vid-2", ChannelID: "chan-1", Title: "second", FetchedAt: fetchedAt},
	}
	channels := []models.Channel{
		{CampaignID: "camp-1", ChannelID: "chan-1", Title: "TechTube", FetchedAt: fetchedAt},
	}
	results := []KeywordResult{{KeywordID: "kw-1", UniqueResults: 2}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO campaign_videos").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_videos").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_channels").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE campaign_keywords").
		WithArgs("kw-1", fetchedAt, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.CommitFetchCycle(context.Background(), videos, channels, results, fetchedAt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	// Row IDs are assigned inside the transaction.
	assert.NotEmpty(t, videos[0].ID)
	assert.NotEmpty(t, channels[0].ID)
}

func TestCommitFetchCycleRollsBackOnFailure(t *testing.T) {
	store, mock := newVideoStore(t)
	fetchedAt := time.Now().UTC()

	videos := []models.Video{
		{CampaignID: "camp-1", VideoID: "vid-1", ChannelID: "chan-1", Title: "first", FetchedAt: fetchedAt},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO campaign_videos").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.CommitFetchCycle(context.Background(), videos, nil, nil, fetchedAt)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePersistenceFailed, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitFetchCycleEmptyCycle(t *testing.T) {
	store, mock := newVideoStore(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := store.CommitFetchCycle(context.Background(), nil, nil, nil, time.Now().UTC())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
