// internal/common/cache/channel_cache.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"contextual-pipeline/internal/common/database"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// ChannelStats is the cached subset of channel statistics reused across
// fetch cycles so repeated channels.list calls can be skipped.
type ChannelStats struct {
	SubscriberCount int64 `json:"subscriber_count"`
	ViewCount       int64 `json:"view_count"`
	VideoCount      int64 `json:"video_count"`
}

// ChannelCache stores channel statistics in Redis with a TTL.
type ChannelCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewChannelCache(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *ChannelCache {
	return &ChannelCache{
		redis:  redis,
		ttl:    ttl,
		logger: log,
	}
}

func cacheKey(channelID string) string {
	return "channel_stats:" + channelID
}

// Get returns the cached statistics for a channel, or (nil, nil) on a miss.
// Redis failures degrade to a miss so the fetch cycle is never blocked.
func (c *ChannelCache) Get(ctx context.Context, channelID string) (*ChannelStats, error) {
	raw, err := c.redis.Get(ctx, cacheKey(channelID))
	if err == redis.Nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheHits.WithLabelValues("error").Inc()
		c.logger.Warn("Channel cache read failed", map[string]interface{}{
			"channelId": channelID,
			"error":     err.Error(),
		})
		return nil, nil
	}

	var stats ChannelStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		metrics.CacheHits.WithLabelValues("error").Inc()
		return nil, nil
	}

	metrics.CacheHits.WithLabelValues("hit").Inc()
	return &stats, nil
}

// Set stores statistics for a channel. Failures are logged and swallowed.
func (c *ChannelCache) Set(ctx context.Context, channelID string, stats ChannelStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(channelID), string(raw), c.ttl); err != nil {
		c.logger.Warn("Channel cache write failed", map[string]interface{}{
			"channelId": channelID,
			"error":     err.Error(),
		})
	}
}

// Invalidate removes a channel's cached statistics.
func (c *ChannelCache) Invalidate(ctx context.Context, channelID string) error {
	return c.redis.Del(ctx, cacheKey(channelID))
}
