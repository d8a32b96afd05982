// internal/discovery/service.go

// Package discovery runs keyword fetch cycles: it rotates a campaign's
// keyword pool, searches the video provider, and persists the discovered
// videos together with the rotation counter updates.
package discovery

import (
	"context"
	"time"

	"contextual-pipeline/internal/common/config"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/common/metrics"
	"contextual-pipeline/internal/models"
	"contextual-pipeline/internal/providers/youtube"
	"contextual-pipeline/internal/repository"
	"contextual-pipeline/internal/rotation"
)

// VideoProvider is the discovery side of the YouTube client.
type VideoProvider interface {
	SearchVideos(ctx context.Context, keywords []string, opts youtube.SearchOptions) ([]string, map[string][]string, error)
	GetVideoDetails(ctx context.Context, videoIDs []string) ([]youtube.VideoDetails, error)
	Quota() *youtube.QuotaTracker
}

// CampaignReader loads the campaigns cycles run for.
type CampaignReader interface {
	Get(ctx context.Context, campaignID string) (*models.Campaign, error)
	ListActive(ctx context.Context) ([]models.Campaign, error)
}

// KeywordReader loads the rotation pool.
type KeywordReader interface {
	ListActive(ctx context.Context, campaignID string) ([]models.Keyword, error)
}

// CycleWriter persists one fetch cycle atomically.
type CycleWriter interface {
	CommitFetchCycle(ctx context.Context, videos []models.Video, channels []models.Channel, results []repository.KeywordResult, fetchedAt time.Time) error
}

// CycleSummary reports what one fetch cycle did.
type CycleSummary struct {
	CampaignID       string             `json:"campaign_id"`
	KeywordsSelected int                `json:"keywords_selected"`
	Mix              models.RotationMix `json:"rotation_mix"`
	UniqueVideos     int                `json:"unique_videos"`
	VideosStored     int                `json:"videos_stored"`
	ChannelsStored   int                `json:"channels_stored"`
	QuotaUnitsUsed   int                `json:"quota_units_used"`
	QuotaExhausted   bool               `json:"quota_exhausted"`
	FetchedAt        time.Time          `json:"fetched_at"`
}

// Service orchestrates fetch cycles.
type Service struct {
	campaigns   CampaignReader
	keywords    KeywordReader
	videos      CycleWriter
	provider    VideoProvider
	selector    *rotation.Selector
	budget      int
	maxPerCycle int
	region      string
	logger      logger.Logger
}

func NewService(
	campaigns CampaignReader,
	keywords KeywordReader,
	videos CycleWriter,
	provider VideoProvider,
	selector *rotation.Selector,
	rotationCfg config.RotationConfig,
	youtubeCfg config.YouTubeConfig,
	log logger.Logger,
) *Service {
	return &Service{
		campaigns:   campaigns,
		keywords:    keywords,
		videos:      videos,
		provider:    provider,
		selector:    selector,
		budget:      rotationCfg.MaxKeywordBudget,
		maxPerCycle: youtubeCfg.MaxResultsPerCycle,
		region:      youtubeCfg.Region,
		logger:      log,
	}
}

// FetchVideosForCampaign runs one cycle for a campaign: select keywords,
// search, fetch details, persist. Quota exhaustion mid-cycle is not an
// error; whatever was fetched before the budget ran out is still stored.
func (s *Service) FetchVideosForCampaign(ctx context.Context, campaignID string) (*CycleSummary, error) {
	campaign, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		metrics.FetchCycles.WithLabelValues("error").Inc()
		return nil, err
	}
	if campaign.Status != models.CampaignActive {
		metrics.FetchCycles.WithLabelValues("skipped").Inc()
		return nil, apperrors.NewValidationFailedError(
			"campaign is not active: " + string(campaign.Status))
	}

	pool, err := s.keywords.ListActive(ctx, campaign.ID)
	if err != nil {
		metrics.FetchCycles.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(pool) == 0 {
		metrics.FetchCycles.WithLabelValues("error").Inc()
		return nil, apperrors.NewSelectionFailedError("campaign has no active keywords")
	}

	selection, err := s.selector.Select(pool, s.budget)
	if err != nil {
		metrics.FetchCycles.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.KeywordsSelected.WithLabelValues(string(campaign.Status)).
		Observe(float64(len(selection.Keywords)))

	s.logger.Info("Rotation selection completed", map[string]interface{}{
		"campaignId": campaign.ID,
		"poolSize":   len(pool),
		"selected":   len(selection.Keywords),
		"mix":        selection.Mix,
	})

	fetchedAt := time.Now().UTC()
	summary := &CycleSummary{
		CampaignID:       campaign.ID,
		KeywordsSelected: len(selection.Keywords),
		Mix:              selection.Mix,
		FetchedAt:        fetchedAt,
	}

	quotaBefore := s.provider.Quota().Used()

	maxPerKeyword := s.maxPerCycle / len(selection.Keywords)
	if maxPerKeyword < 1 {
		maxPerKeyword = 1
	}

	texts := make([]string, len(selection.Keywords))
	for i, k := range selection.Keywords {
		texts[i] = k.Text
	}

	opts := youtube.SearchOptions{
		MaxResultsPerKeyword: maxPerKeyword,
		Language:             campaign.PrimaryLanguage,
		Region:               s.searchRegion(campaign),
	}
	videoIDs, keywordHits, err := s.provider.SearchVideos(ctx, texts, opts)
	if err != nil {
		if apperrors.CodeOf(err) != apperrors.ErrCodeQuotaExhausted {
			metrics.FetchCycles.WithLabelValues("error").Inc()
			return nil, err
		}
		summary.QuotaExhausted = true
		s.logger.Warn("Quota exhausted during search, persisting partial cycle", map[string]interface{}{
			"campaignId": campaign.ID,
			"videos":     len(videoIDs),
		})
	}
	summary.UniqueVideos = len(videoIDs)

	details, err := s.provider.GetVideoDetails(ctx, videoIDs)
	if err != nil {
		if apperrors.CodeOf(err) != apperrors.ErrCodeQuotaExhausted {
			metrics.FetchCycles.WithLabelValues("error").Inc()
			return nil, err
		}
		summary.QuotaExhausted = true
		s.logger.Warn("Quota exhausted during detail fetch, persisting partial cycle", map[string]interface{}{
			"campaignId": campaign.ID,
			"details":    len(details),
		})
	}

	videos, channels := buildRecords(campaign.ID, details, fetchedAt)
	results := keywordResults(selection.Keywords, keywordHits)

	if err := s.videos.CommitFetchCycle(ctx, videos, channels, results, fetchedAt); err != nil {
		metrics.FetchCycles.WithLabelValues("error").Inc()
		return nil, err
	}

	summary.VideosStored = len(videos)
	summary.ChannelsStored = len(channels)
	summary.QuotaUnitsUsed = s.provider.Quota().Used() - quotaBefore
	metrics.FetchCycles.WithLabelValues("success").Inc()

	s.logger.Info("Fetch cycle committed", map[string]interface{}{
		"campaignId":     campaign.ID,
		"videosStored":   summary.VideosStored,
		"channelsStored": summary.ChannelsStored,
		"quotaUnits":     summary.QuotaUnitsUsed,
	})
	return summary, nil
}

// RunActiveCampaigns executes one fetch cycle per active campaign. A failed
// campaign is logged and does not stop the rest.
func (s *Service) RunActiveCampaigns(ctx context.Context) ([]CycleSummary, error) {
	campaigns, err := s.campaigns.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var summaries []CycleSummary
	for _, c := range campaigns {
		summary, err := s.FetchVideosForCampaign(ctx, c.ID)
		if err != nil {
			s.logger.Error("Fetch cycle failed", map[string]interface{}{
				"campaignId": c.ID,
				"error":      err.Error(),
			})
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *Service) searchRegion(campaign *models.Campaign) string {
	if campaign.PrimaryMarket != "" {
		return campaign.PrimaryMarket
	}
	return s.region
}

func buildRecords(campaignID string, details []youtube.VideoDetails, fetchedAt time.Time) ([]models.Video, []models.Channel) {
	videos := make([]models.Video, 0, len(details))
	channelSeen := map[string]bool{}
	var channels []models.Channel

	for _, d := range details {
		videos = append(videos, models.Video{
			CampaignID:             campaignID,
			VideoID:                d.VideoID,
			ChannelID:              d.ChannelID,
			Title:                  d.Title,
			Description:            d.Description,
			ChannelTitle:           d.ChannelTitle,
			Tags:                   d.Tags,
			Category:               d.Category,
			Duration:               d.Duration,
			PublishedAt:            d.PublishedAt,
			ViewCount:              d.ViewCount,
			LikeCount:              d.LikeCount,
			CommentCount:           d.CommentCount,
			ChannelViewCount:       d.ChannelViewCount,
			ChannelSubscriberCount: d.ChannelSubscriberCount,
			ThumbnailURL:           d.ThumbnailURL,
			FetchedAt:              fetchedAt,
		})

		if d.ChannelID == "" || channelSeen[d.ChannelID] {
			continue
		}
		channelSeen[d.ChannelID] = true
		channels = append(channels, models.Channel{
			CampaignID:      campaignID,
			ChannelID:       d.ChannelID,
			Title:           d.ChannelTitle,
			SubscriberCount: d.ChannelSubscriberCount,
			ViewCount:       d.ChannelViewCount,
			FetchedAt:       fetchedAt,
		})
	}
	return videos, channels
}

// keywordResults credits each selected keyword with the videos its search
// contributed first, in selection order.
func keywordResults(selected []models.Keyword, keywordHits map[string][]string) []repository.KeywordResult {
	credited := map[string]bool{}
	results := make([]repository.KeywordResult, 0, len(selected))

	for _, k := range selected {
		unique := 0
		for _, id := range keywordHits[k.Text] {
			if !credited[id] {
				credited[id] = true
				unique++
			}
		}
		results = append(results, repository.KeywordResult{
			KeywordID:     k.ID,
			UniqueResults: unique,
		})
	}
	return results
}
