// internal/scoring/engine.go
package scoring

import (
	"context"
	"strings"
	"sync"
	"time"

	"contextual-pipeline/internal/common/config"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/common/metrics"
	"contextual-pipeline/internal/common/validation"
	"contextual-pipeline/internal/models"
)

// CompletionProvider produces a raw JSON scoring payload from a prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (map[string]interface{}, error)
	Model() string
}

// TranscriptProvider fetches video transcripts with language fallbacks.
type TranscriptProvider interface {
	GetTranscript(ctx context.Context, videoID string, languages []string) (string, error)
}

// ScoreWriter persists score payloads.
type ScoreWriter interface {
	Upsert(ctx context.Context, score *models.VideoScore) (*models.VideoScore, error)
}

// Engine scores videos against campaign briefs. The heuristic baseline is
// always computed; the completion provider refines it when configured and
// reachable, and every model response is normalized before persisting.
type Engine struct {
	completion  CompletionProvider
	transcripts TranscriptProvider
	scores      ScoreWriter
	validator   *validation.Validator
	cfg         config.ScoringConfig
	logger      logger.Logger
}

func NewEngine(completion CompletionProvider, transcripts TranscriptProvider, scores ScoreWriter, cfg config.ScoringConfig, log logger.Logger) (*Engine, error) {
	validator, err := NewResponseValidator()
	if err != nil {
		return nil, err
	}
	return &Engine{
		completion:  completion,
		transcripts: transcripts,
		scores:      scores,
		validator:   validator,
		cfg:         cfg,
		logger:      log,
	}, nil
}

// TranscriptLanguages returns the fallback order for transcript lookup:
// the campaign's primary language, its regional variant, then English.
func TranscriptLanguages(primaryLanguage string) []string {
	var candidates []string
	if primaryLanguage != "" {
		primary := strings.ToLower(primaryLanguage)
		candidates = append(candidates, primary, primary+"-"+strings.ToUpper(primaryLanguage))
	}
	candidates = append(candidates, "en", "en-US")

	seen := map[string]bool{}
	var ordered []string
	for _, lang := range candidates {
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		ordered = append(ordered, lang)
	}
	return ordered
}

// ScoreVideo scores one video and persists the result. The transcript is
// fetched only when useTranscript is set and a provider is wired.
// Transcript and completion failures degrade to the heuristic payload; only
// persistence failures surface as errors.
func (e *Engine) ScoreVideo(ctx context.Context, campaign *models.Campaign, video *models.Video, useTranscript bool) (*models.VideoScore, error) {
	start := time.Now()
	heuristic := ExtractFeatures(campaign, video)

	transcript := ""
	if useTranscript && e.transcripts != nil {
		text, err := e.transcripts.GetTranscript(ctx, video.VideoID, TranscriptLanguages(campaign.PrimaryLanguage))
		if err != nil {
			e.logger.Warn("Transcript fetch failed, scoring without it", map[string]interface{}{
				"videoId": video.VideoID,
				"error":   err.Error(),
			})
		} else {
			transcript = text
		}
	}

	mode := "heuristic"
	modelUsed := ""
	var payload Payload
	if e.completion != nil && !e.cfg.HeuristicOnly {
		raw, err := e.completion.Complete(ctx, SystemPrompt, BuildPrompt(campaign, video, transcript, heuristic, e.cfg.TranscriptMaxChars))
		if err != nil {
			e.logger.Warn("Completion failed, falling back to heuristics", map[string]interface{}{
				"videoId":    video.VideoID,
				"campaignId": campaign.ID,
				"error":      err.Error(),
			})
		} else {
			e.checkResponseShape(raw, video.VideoID)
			payload = NormalizePayload(raw, heuristic)
			mode = "llm"
			modelUsed = e.completion.Model()
		}
	}
	if mode == "heuristic" {
		payload = FallbackPayload(campaign, video, heuristic)
	}

	score := payloadToScore(campaign.ID, video.ID, payload)
	score.ModelUsed = modelUsed

	stored, err := e.scores.Upsert(ctx, score)
	if err != nil {
		metrics.ScoringFailed.WithLabelValues("PERSISTENCE_FAILED").Inc()
		return nil, err
	}

	metrics.VideosScored.WithLabelValues(mode).Inc()
	metrics.ScoringDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	e.logger.Info("Video scored", map[string]interface{}{
		"videoId":         video.VideoID,
		"campaignId":      campaign.ID,
		"mode":            mode,
		"contextualScore": stored.ContextualScore,
		"recommendation":  string(stored.TargetingRecommendation),
	})
	return stored, nil
}

// ScoreError records one video in a batch that could not be scored.
type ScoreError struct {
	VideoID string
	Err     error
}

// BatchResult is the outcome of a batch scoring pass: the stored scores and
// the per-video failures, each in input order.
type BatchResult struct {
	Scores []models.VideoScore
	Errors []ScoreError
}

// ScoreCampaignVideos scores videos with bounded concurrency. A failing
// video does not stop the batch; its error is reported in the result so
// callers can tell a partial batch from a full one.
func (e *Engine) ScoreCampaignVideos(ctx context.Context, campaign *models.Campaign, videos []models.Video) (*BatchResult, error) {
	if len(videos) == 0 {
		return &BatchResult{}, nil
	}

	workers := e.cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(videos) {
		workers = len(videos)
	}

	results := make([]*models.VideoScore, len(videos))
	failures := make([]error, len(videos))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				score, err := e.ScoreVideo(ctx, campaign, &videos[i], true)
				if err != nil {
					e.logger.Error("Scoring failed for video", map[string]interface{}{
						"videoId":    videos[i].VideoID,
						"campaignId": campaign.ID,
						"error":      err.Error(),
					})
					failures[i] = err
					continue
				}
				results[i] = score
			}
		}()
	}

	for i := range videos {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return collectBatch(videos, results, failures), ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	return collectBatch(videos, results, failures), nil
}

func collectBatch(videos []models.Video, results []*models.VideoScore, failures []error) *BatchResult {
	batch := &BatchResult{}
	for i, r := range results {
		if r != nil {
			batch.Scores = append(batch.Scores, *r)
			continue
		}
		if failures[i] != nil {
			batch.Errors = append(batch.Errors, ScoreError{VideoID: videos[i].VideoID, Err: failures[i]})
		}
	}
	return batch
}

// checkResponseShape logs schema violations in the raw model output.
// Normalization repairs the payload either way.
func (e *Engine) checkResponseShape(raw map[string]interface{}, videoID string) {
	result, err := e.validator.ValidateMap(raw)
	if err != nil || result == nil {
		return
	}
	if !result.Valid {
		e.logger.Debug("Model response violated schema, normalizing", map[string]interface{}{
			"videoId":    videoID,
			"violations": result.GetErrorMessages(),
		})
	}
}

func payloadToScore(campaignID, videoRowID string, p Payload) *models.VideoScore {
	return &models.VideoScore{
		CampaignID:              campaignID,
		VideoID:                 videoRowID,
		SemanticSimilarity:      p.SemanticSimilarity,
		IntentMatchScore:        p.IntentScore,
		InterestMatchScore:      p.InterestScore,
		EmotionAlignment:        p.EmotionScore,
		ContextualScore:         p.ContextualScore,
		IntentType:              p.IntentType,
		InterestTopics:          p.InterestTopics,
		EmotionType:             p.EmotionType,
		BrandSafetyStatus:       p.BrandSafetyStatus,
		BrandSuitability:        p.BrandSuitability,
		Sentiment:               p.Sentiment,
		Tone:                    p.Tone,
		KeyEntities:             p.KeyEntities,
		KeyTopics:               p.KeyTopics,
		TargetingRecommendation: p.Recommendation,
		SuggestedBidModifier:    p.BidModifier,
		Reasoning:               p.Reasoning,
		ScoredAt:                time.Now().UTC(),
	}
}
