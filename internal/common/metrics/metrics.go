// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_videos_scored_total",
			Help: "Total number of videos scored, by scoring mode",
		},
		[]string{"mode"},
	)

	ScoringFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_scoring_failed_total",
			Help: "Total number of scoring failures",
		},
		[]string{"error_code"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_scoring_duration_seconds",
			Help: "Duration of scoring one video in seconds",
		},
		[]string{"mode"},
	)

	FetchCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_fetch_cycles_total",
			Help: "Total number of discovery fetch cycles, by outcome",
		},
		[]string{"outcome"},
	)

	KeywordsSelected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_keywords_selected",
			Help:    "Number of keywords selected per fetch cycle",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
		[]string{"campaign_status"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_provider_requests_total",
			Help: "Total external provider requests, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	QuotaUnitsSpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_quota_units_spent_total",
			Help: "YouTube Data API quota units consumed, by endpoint",
		},
		[]string{"endpoint"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_cache_hits_total",
			Help: "Channel statistics cache lookups, by result",
		},
		[]string{"result"},
	)
)
