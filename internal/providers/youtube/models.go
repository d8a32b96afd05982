// internal/providers/youtube/models.go
package youtube

import (
	"strconv"
	"time"
)

// Wire types for the Data API responses this client consumes.

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		ChannelID    string   `json:"channelId"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		ChannelTitle string   `json:"channelTitle"`
		Tags         []string `json:"tags"`
		CategoryID   string   `json:"categoryId"`
		PublishedAt  string   `json:"publishedAt"`
		Thumbnails   struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

type channelsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount       string `json:"viewCount"`
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func decodeVideoItem(item videoItem) VideoDetails {
	d := VideoDetails{
		VideoID:      item.ID,
		ChannelID:    item.Snippet.ChannelID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		Tags:         item.Snippet.Tags,
		Category:     item.Snippet.CategoryID,
		Duration:     item.ContentDetails.Duration,
		ViewCount:    parseStatCount(item.Statistics.ViewCount),
		LikeCount:    parseStatCount(item.Statistics.LikeCount),
		CommentCount: parseStatCount(item.Statistics.CommentCount),
		ThumbnailURL: item.Snippet.Thumbnails.High.URL,
	}
	if item.Snippet.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			d.PublishedAt = &t
		}
	}
	return d
}

func parseStatCount(raw string) int64 {
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}
