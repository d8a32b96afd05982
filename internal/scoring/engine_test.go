// internal/scoring/engine_test.go
package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"

	"contextual-pipeline/internal/common/config"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeCompletion struct {
	mu      sync.Mutex
	payload map[string]interface{}
	err     error
	calls   int
}

func (f *fakeCompletion) Complete(ctx context.Context, systemPrompt, userPrompt string) (map[string]interface{}, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func (f *fakeCompletion) Model() string { return "test-model" }

type fakeTranscripts struct {
	text      string
	err       error
	languages []string
}

func (f *fakeTranscripts) GetTranscript(ctx context.Context, videoID string, languages []string) (string, error) {
	f.languages = languages
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeScoreWriter struct {
	mu     sync.Mutex
	stored []*models.VideoScore
	failOn map[string]error
}

func (f *fakeScoreWriter) Upsert(ctx context.Context, score *models.VideoScore) (*models.VideoScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[score.VideoID]; ok {
		return nil, err
	}
	f.stored = append(f.stored, score)
	return score, nil
}

func newTestEngine(t *testing.T, completion CompletionProvider, transcripts TranscriptProvider, scores ScoreWriter, cfg config.ScoringConfig) *Engine {
	t.Helper()
	engine, err := NewEngine(completion, transcripts, scores, cfg, logger.NewNoOpLogger())
	require.NoError(t, err)
	return engine
}

func testCampaign() *models.Campaign {
	return &models.Campaign{
		ID:              "camp-1",
		Name:            "Phone Launch",
		BrandName:       "Acme",
		PrimaryLanguage: "en",
		Status:          models.CampaignActive,
	}
}

func testVideo(rowID, videoID, title string) models.Video {
	return models.Video{ID: rowID, VideoID: videoID, Title: title}
}

// ============================================================================
// Transcript language fallback
// ============================================================================

func TestTranscriptLanguages(t *testing.T) {
	assert.Equal(t, []string{"pt", "pt-PT", "en", "en-US"}, TranscriptLanguages("pt"))
	assert.Equal(t, []string{"en", "en-EN", "en-US"}, TranscriptLanguages("en"))
	assert.Equal(t, []string{"en", "en-US"}, TranscriptLanguages(""))
	assert.Equal(t, []string{"de", "de-DE", "en", "en-US"}, TranscriptLanguages("DE"))
}

// ============================================================================
// ScoreVideo
// ============================================================================

func TestScoreVideoUsesCompletionPayload(t *testing.T) {
	completion := &fakeCompletion{payload: map[string]interface{}{
		"contextual_score":    0.82,
		"sentiment":           "positive",
		"brand_safety_status": "safe",
		"brand_suitability":   "high",
	}}
	transcripts := &fakeTranscripts{text: "great phone overview"}
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, completion, transcripts, writer, config.ScoringConfig{TranscriptMaxChars: 5000})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	score, err := engine.ScoreVideo(context.Background(), campaign, &video, true)

	require.NoError(t, err)
	assert.Equal(t, 1, completion.calls)
	assert.Equal(t, "test-model", score.ModelUsed)
	assert.Equal(t, 0.82, score.ContextualScore)
	assert.Equal(t, models.StrongMatch, score.TargetingRecommendation)
	assert.Equal(t, "camp-1", score.CampaignID)
	assert.Equal(t, "row-1", score.VideoID)
	assert.False(t, score.ScoredAt.IsZero())
	assert.Equal(t, []string{"en", "en-EN", "en-US"}, transcripts.languages)
	require.Len(t, writer.stored, 1)
}

func TestScoreVideoFallsBackOnCompletionError(t *testing.T) {
	completion := &fakeCompletion{err: errors.New("upstream unavailable")}
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, completion, &fakeTranscripts{}, writer, config.ScoringConfig{})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	score, err := engine.ScoreVideo(context.Background(), campaign, &video, true)

	require.NoError(t, err)
	assert.Equal(t, 1, completion.calls)
	assert.Empty(t, score.ModelUsed)
	assert.NotEmpty(t, score.Reasoning)
	assert.Greater(t, score.ContextualScore, 0.0)
}

func TestScoreVideoHeuristicOnlySkipsCompletion(t *testing.T) {
	completion := &fakeCompletion{payload: map[string]interface{}{"contextual_score": 0.9}}
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, completion, &fakeTranscripts{}, writer, config.ScoringConfig{HeuristicOnly: true})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	score, err := engine.ScoreVideo(context.Background(), campaign, &video, true)

	require.NoError(t, err)
	assert.Equal(t, 0, completion.calls)
	assert.Empty(t, score.ModelUsed)
}

func TestScoreVideoWithoutCompletionProvider(t *testing.T) {
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, nil, nil, writer, config.ScoringConfig{})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	score, err := engine.ScoreVideo(context.Background(), campaign, &video, true)

	require.NoError(t, err)
	assert.Empty(t, score.ModelUsed)
	require.Len(t, writer.stored, 1)
}

func TestScoreVideoSkipsTranscriptWhenDisabled(t *testing.T) {
	completion := &fakeCompletion{payload: map[string]interface{}{"contextual_score": 0.7}}
	transcripts := &fakeTranscripts{text: "should not be fetched"}
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, completion, transcripts, writer, config.ScoringConfig{})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	score, err := engine.ScoreVideo(context.Background(), campaign, &video, false)

	require.NoError(t, err)
	assert.Nil(t, transcripts.languages)
	assert.Equal(t, "test-model", score.ModelUsed)
}

func TestScoreVideoToleratesTranscriptError(t *testing.T) {
	completion := &fakeCompletion{payload: map[string]interface{}{"contextual_score": 0.7}}
	transcripts := &fakeTranscripts{err: errors.New("captions endpoint down")}
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, completion, transcripts, writer, config.ScoringConfig{})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	score, err := engine.ScoreVideo(context.Background(), campaign, &video, true)

	require.NoError(t, err)
	assert.Equal(t, "test-model", score.ModelUsed)
}

func TestScoreVideoPersistenceFailureSurfaces(t *testing.T) {
	writer := &fakeScoreWriter{failOn: map[string]error{"row-1": errors.New("db down")}}
	engine := newTestEngine(t, nil, nil, writer, config.ScoringConfig{})

	campaign := testCampaign()
	video := testVideo("row-1", "vid-1", "Phone review")
	_, err := engine.ScoreVideo(context.Background(), campaign, &video, true)

	assert.Error(t, err)
}

// ============================================================================
// ScoreCampaignVideos
// ============================================================================

func TestScoreCampaignVideosReturnsInputOrder(t *testing.T) {
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, nil, nil, writer, config.ScoringConfig{Concurrency: 4})

	campaign := testCampaign()
	videos := []models.Video{
		testVideo("row-1", "vid-1", "first"),
		testVideo("row-2", "vid-2", "second"),
		testVideo("row-3", "vid-3", "third"),
	}

	result, err := engine.ScoreCampaignVideos(context.Background(), campaign, videos)

	require.NoError(t, err)
	require.Len(t, result.Scores, 3)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "row-1", result.Scores[0].VideoID)
	assert.Equal(t, "row-2", result.Scores[1].VideoID)
	assert.Equal(t, "row-3", result.Scores[2].VideoID)
}

func TestScoreCampaignVideosReportsFailedUpserts(t *testing.T) {
	upsertErr := errors.New("db down")
	writer := &fakeScoreWriter{failOn: map[string]error{"row-2": upsertErr}}
	engine := newTestEngine(t, nil, nil, writer, config.ScoringConfig{Concurrency: 2})

	campaign := testCampaign()
	videos := []models.Video{
		testVideo("row-1", "vid-1", "first"),
		testVideo("row-2", "vid-2", "second"),
		testVideo("row-3", "vid-3", "third"),
	}

	result, err := engine.ScoreCampaignVideos(context.Background(), campaign, videos)

	require.NoError(t, err)
	require.Len(t, result.Scores, 2)
	assert.Equal(t, "row-1", result.Scores[0].VideoID)
	assert.Equal(t, "row-3", result.Scores[1].VideoID)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "vid-2", result.Errors[0].VideoID)
	assert.ErrorIs(t, result.Errors[0].Err, upsertErr)
}

func TestScoreCampaignVideosEmptyInput(t *testing.T) {
	engine := newTestEngine(t, nil, nil, &fakeScoreWriter{}, config.ScoringConfig{})

	result, err := engine.ScoreCampaignVideos(context.Background(), testCampaign(), nil)

	require.NoError(t, err)
	assert.Empty(t, result.Scores)
	assert.Empty(t, result.Errors)
}

func TestScoreCampaignVideosDefaultsConcurrency(t *testing.T) {
	writer := &fakeScoreWriter{}
	engine := newTestEngine(t, nil, nil, writer, config.ScoringConfig{Concurrency: 0})

	campaign := testCampaign()
	videos := []models.Video{testVideo("row-1", "vid-1", "only")}

	result, err := engine.ScoreCampaignVideos(context.Background(), campaign, videos)

	require.NoError(t, err)
	assert.Len(t, result.Scores, 1)
}
