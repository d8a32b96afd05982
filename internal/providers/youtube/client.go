// internal/providers/youtube/client.go

// Package youtube implements the discovery provider against the YouTube
// Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contextual-pipeline/internal/common/cache"
	"contextual-pipeline/internal/common/config"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/common/metrics"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// detailsBatchSize is the Data API's id-list limit for videos.list.
const detailsBatchSize = 50

// VideoDetails is one decoded videos.list item plus its channel's
// statistics.
type VideoDetails struct {
	VideoID                string
	ChannelID              string
	Title                  string
	Description            string
	ChannelTitle           string
	Tags                   []string
	Category               string
	Duration               string
	PublishedAt            *time.Time
	ViewCount              int64
	LikeCount              int64
	CommentCount           int64
	ChannelViewCount       *int64
	ChannelSubscriberCount *int64
	ThumbnailURL           string
}

// SearchOptions narrows a search.list call.
type SearchOptions struct {
	MaxResultsPerKeyword int
	Language             string
	Region               string
	Order                string
	PublishedAfter       *time.Time
	PublishedBefore      *time.Time
	VideoDuration        string
	VideoDefinition      string
}

// Client calls the Data API with quota accounting and a Redis-backed
// channel statistics cache.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	quota   *QuotaTracker
	cache   *cache.ChannelCache
	logger  logger.Logger
}

func NewClient(cfg config.YouTubeConfig, quota *QuotaTracker, channelCache *cache.ChannelCache, log logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		quota:   quota,
		cache:   channelCache,
		logger:  log,
	}
}

// Quota exposes the tracker for cycle reporting.
func (c *Client) Quota() *QuotaTracker {
	return c.quota
}

// SearchVideos runs one search.list call per keyword and returns the
// deduplicated video IDs plus the per-keyword hit lists. A failed keyword
// search is logged and skipped; quota exhaustion aborts the whole pass.
func (c *Client) SearchVideos(ctx context.Context, keywords []string, opts SearchOptions) ([]string, map[string][]string, error) {
	seen := map[string]bool{}
	var allIDs []string
	keywordHits := make(map[string][]string, len(keywords))

	for _, keyword := range keywords {
		if err := c.quota.Spend("search", CostSearch); err != nil {
			return allIDs, keywordHits, err
		}

		ids, err := c.searchOne(ctx, keyword, opts)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.ErrCodeQuotaExhausted {
				return allIDs, keywordHits, err
			}
			c.logger.Error("Search failed for keyword, skipping", map[string]interface{}{
				"keyword": keyword,
				"error":   err.Error(),
			})
			keywordHits[keyword] = nil
			continue
		}

		keywordHits[keyword] = ids
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				allIDs = append(allIDs, id)
			}
		}
	}
	return allIDs, keywordHits, nil
}

func (c *Client) searchOne(ctx context.Context, keyword string, opts SearchOptions) ([]string, error) {
	maxResults := opts.MaxResultsPerKeyword
	if maxResults < 1 {
		maxResults = 10
	}
	if maxResults > 50 {
		maxResults = 50
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("q", keyword)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("videoEmbeddable", "true")
	params.Set("videoSyndicated", "true")
	if opts.Language != "" {
		params.Set("relevanceLanguage", opts.Language)
	}
	if opts.Region != "" {
		params.Set("regionCode", opts.Region)
	}
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	if opts.VideoDuration != "" && opts.VideoDuration != "any" {
		params.Set("videoDuration", opts.VideoDuration)
	}
	if opts.VideoDefinition != "" && opts.VideoDefinition != "any" {
		params.Set("videoDefinition", opts.VideoDefinition)
	}
	if opts.PublishedAfter != nil {
		params.Set("publishedAfter", opts.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if opts.PublishedBefore != nil {
		params.Set("publishedBefore", opts.PublishedBefore.UTC().Format(time.RFC3339))
	}

	var response searchResponse
	if err := c.get(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range response.Items {
		if item.ID.Kind == "youtube#video" && item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// GetVideoDetails fetches snippet, contentDetails, and statistics in
// batches of 50, enriching each item with cached channel statistics.
func (c *Client) GetVideoDetails(ctx context.Context, videoIDs []string) ([]VideoDetails, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	var details []VideoDetails
	for start := 0; start < len(videoIDs); start += detailsBatchSize {
		end := start + detailsBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[start:end]

		if err := c.quota.Spend("videos", CostVideosList*len(batch)); err != nil {
			return details, err
		}

		params := url.Values{}
		params.Set("part", "snippet,contentDetails,statistics")
		params.Set("id", strings.Join(batch, ","))

		var response videosResponse
		if err := c.get(ctx, "/videos", params, &response); err != nil {
			return details, err
		}

		for _, item := range response.Items {
			d := decodeVideoItem(item)
			if d.ChannelID != "" {
				stats, err := c.GetChannelStatistics(ctx, d.ChannelID)
				if err == nil && stats != nil {
					subs, views := stats.SubscriberCount, stats.ViewCount
					d.ChannelSubscriberCount = &subs
					d.ChannelViewCount = &views
				}
			}
			details = append(details, d)
		}
	}
	return details, nil
}

// GetChannelStatistics returns channel statistics, served from the cache
// when possible.
func (c *Client) GetChannelStatistics(ctx context.Context, channelID string) (*cache.ChannelStats, error) {
	if c.cache != nil {
		if stats, _ := c.cache.Get(ctx, channelID); stats != nil {
			return stats, nil
		}
	}

	if err := c.quota.Spend("channels", CostChannelsList); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", channelID)

	var response channelsResponse
	if err := c.get(ctx, "/channels", params, &response); err != nil {
		return nil, err
	}
	if len(response.Items) == 0 {
		return nil, nil
	}

	raw := response.Items[0].Statistics
	stats := &cache.ChannelStats{
		SubscriberCount: parseStatCount(raw.SubscriberCount),
		ViewCount:       parseStatCount(raw.ViewCount),
		VideoCount:      parseStatCount(raw.VideoCount),
	}
	if c.cache != nil {
		c.cache.Set(ctx, channelID, *stats)
	}
	return stats, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewProviderUnavailableError("youtube", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("youtube", "error").Inc()
		if ctx.Err() != nil {
			return apperrors.NewProviderTimeoutError("youtube")
		}
		return apperrors.NewProviderUnavailableError("youtube", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("youtube", "error").Inc()
		return apperrors.NewProviderUnavailableError("youtube", err)
	}

	if resp.StatusCode == http.StatusForbidden {
		metrics.ProviderRequests.WithLabelValues("youtube", "quota").Inc()
		return apperrors.NewQuotaExhaustedError("youtube", 0, 0).
			WithMetadata("status", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		metrics.ProviderRequests.WithLabelValues("youtube", "error").Inc()
		return apperrors.NewProviderUnavailableError("youtube",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.ProviderRequests.WithLabelValues("youtube", "error").Inc()
		return apperrors.NewProviderUnavailableError("youtube", err)
	}
	metrics.ProviderRequests.WithLabelValues("youtube", "success").Inc()
	return nil
}

func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
