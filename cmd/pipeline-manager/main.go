// cmd/pipeline-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"contextual-pipeline/internal/common/cache"
	"contextual-pipeline/internal/common/config"
	"contextual-pipeline/internal/common/database"
	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/common/observability"
	"contextual-pipeline/internal/discovery"
	"contextual-pipeline/internal/providers/openai"
	"contextual-pipeline/internal/providers/youtube"
	"contextual-pipeline/internal/repository"
	"contextual-pipeline/internal/rotation"
	"contextual-pipeline/internal/scoring"
	"contextual-pipeline/internal/search"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting pipeline manager...")

	obs := observability.New("pipeline-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var esClient *database.ElasticsearchClient
	if cfg.Search.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Stores ---
	campaignStore := repository.NewCampaignStore(pg)
	keywordStore := repository.NewKeywordStore(pg)
	videoStore := repository.NewVideoStore(pg)
	scoreStore := repository.NewScoreStore(pg)

	// --- Providers ---
	var channelCache *cache.ChannelCache
	if cfg.Cache.Enabled {
		channelCache = cache.NewChannelCache(redis, config.GetDuration(cfg.Cache.TTL), log)
	}

	quota := youtube.NewQuotaTracker(cfg.YouTube.DailyQuotaUnits)
	ytClient := youtube.NewClient(cfg.YouTube, quota, channelCache, log)
	transcripts := youtube.NewTranscriptClient(cfg.YouTube.TranscriptBaseURL, config.GetDuration(cfg.YouTube.Timeout), log)

	var completion scoring.CompletionProvider
	if !cfg.Scoring.HeuristicOnly {
		completion = openai.NewClient(cfg.OpenAI, log)
	}

	// --- Scoring engine ---
	var scoreWriter scoring.ScoreWriter = scoreStore
	if cfg.Search.Enabled && esClient != nil {
		indexer := search.NewIndexer(esClient, cfg.Search.ScoreIndex, log)
		scoreWriter = search.NewIndexingWriter(scoreStore, indexer, log)
	}

	engine, err := scoring.NewEngine(completion, transcripts, scoreWriter, cfg.Scoring, log)
	if err != nil {
		zapLog.Fatal("scoring engine init failed", zap.Error(err))
	}

	// --- Discovery service ---
	selector := rotation.NewSelector(cfg.Rotation.CategoryWeights)
	discoverer := discovery.NewService(campaignStore, keywordStore, videoStore, ytClient, selector, cfg.Rotation, cfg.YouTube, log)

	zapLog.Info("All pipeline components initialized")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Pipeline loop ---
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	interval := config.GetDuration(cfg.App.CycleInterval)
	done := make(chan struct{})
	go func() {
		defer close(done)
		runPipelineCycle(runCtx, discoverer, engine, campaignStore, videoStore, cfg, log)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		quotaWindowStart := time.Now()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if time.Since(quotaWindowStart) >= 24*time.Hour {
					quota.Reset()
					quotaWindowStart = time.Now()
					log.Info("Quota window reset", map[string]interface{}{})
				}
				runPipelineCycle(runCtx, discoverer, engine, campaignStore, videoStore, cfg, log)
			}
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping pipeline...")
	cancel()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		zapLog.Warn("Pipeline loop did not stop within grace period")
	}

	zapLog.Info("Pipeline manager stopped gracefully")
}

// runPipelineCycle fetches videos for every active campaign and scores the
// campaign's stored videos. Per-campaign failures are logged and skipped.
func runPipelineCycle(
	ctx context.Context,
	discoverer *discovery.Service,
	engine *scoring.Engine,
	campaigns *repository.CampaignStore,
	videos *repository.VideoStore,
	cfg *config.Config,
	log logger.Logger,
) {
	errs := apperrors.NewHandler(log)

	summaries, err := discoverer.RunActiveCampaigns(ctx)
	if err != nil {
		errs.Handle("discovery_pass", err)
		return
	}

	for _, summary := range summaries {
		campaign, err := campaigns.Get(ctx, summary.CampaignID)
		if err != nil {
			errs.Handle("campaign_reload", err)
			continue
		}

		stored, err := videos.ListByCampaign(ctx, campaign.ID)
		if err != nil {
			errs.Handle("list_campaign_videos", err)
			continue
		}

		scoringCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Scoring.Timeout))
		batch, err := engine.ScoreCampaignVideos(scoringCtx, campaign, stored)
		cancel()
		if err != nil {
			scored := 0
			if batch != nil {
				scored = len(batch.Scores)
			}
			log.Warn("Scoring pass ended early", map[string]interface{}{
				"campaignId": campaign.ID,
				"scored":     scored,
				"error":      err.Error(),
			})
			continue
		}
		if len(batch.Errors) > 0 {
			log.Warn("Some videos failed to score", map[string]interface{}{
				"campaignId": campaign.ID,
				"failed":     len(batch.Errors),
			})
		}

		log.Info("Campaign cycle completed", map[string]interface{}{
			"campaignId":   campaign.ID,
			"videosStored": summary.VideosStored,
			"videosScored": len(batch.Scores),
			"videosFailed": len(batch.Errors),
			"quotaUnits":   summary.QuotaUnitsUsed,
		})
	}
}
