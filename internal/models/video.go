// internal/models/video.go
package models

import "time"

// Video is a stored snapshot of a discovered YouTube video. It is immutable
// for the duration of one scoring call.
type Video struct {
	ID                     string     `json:"id"`
	CampaignID             string     `json:"campaign_id"`
	VideoID                string     `json:"video_id"`
	ChannelID              string     `json:"channel_id"`
	Title                  string     `json:"title"`
	Description            string     `json:"description,omitempty"`
	ChannelTitle           string     `json:"channel_title,omitempty"`
	Tags                   []string   `json:"tags,omitempty"`
	Category               string     `json:"category,omitempty"`
	Duration               string     `json:"duration,omitempty"`
	PublishedAt            *time.Time `json:"published_at,omitempty"`
	ViewCount              int64      `json:"view_count"`
	LikeCount              int64      `json:"like_count"`
	CommentCount           int64      `json:"comment_count"`
	ChannelViewCount       *int64     `json:"channel_view_count,omitempty"`
	ChannelSubscriberCount *int64     `json:"channel_subscriber_count,omitempty"`
	ThumbnailURL           string     `json:"thumbnail_url,omitempty"`
	FetchedAt              time.Time  `json:"fetched_at"`
}

// CombinedText joins title, description and tags into the single document
// used for lexical comparison against the campaign brief.
func (v *Video) CombinedText() string {
	out := v.Title
	if v.Description != "" {
		out += " " + v.Description
	}
	for _, tag := range v.Tags {
		out += " " + tag
	}
	return out
}

// Channel is a stored snapshot of a discovered YouTube channel.
type Channel struct {
	ID              string     `json:"id"`
	CampaignID      string     `json:"campaign_id"`
	ChannelID       string     `json:"channel_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Country         string     `json:"country,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	SubscriberCount *int64     `json:"subscriber_count,omitempty"`
	ViewCount       *int64     `json:"view_count,omitempty"`
	VideoCount      *int64     `json:"video_count,omitempty"`
	FetchedAt       time.Time  `json:"fetched_at"`
}
