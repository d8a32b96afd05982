// internal/search/indexer.go

// Package search maintains an optional Elasticsearch index of video scores
// for ad-hoc querying. Indexing is best effort; the Postgres row is always
// the source of truth.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"contextual-pipeline/internal/common/database"
	"contextual-pipeline/internal/common/logger"
	"contextual-pipeline/internal/models"
)

// Indexer writes scored videos into the configured index.
type Indexer struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *Indexer {
	return &Indexer{es: es, index: index, logger: log}
}

// ScoreWriter is the persistence operation the indexing decorator wraps.
type ScoreWriter interface {
	Upsert(ctx context.Context, score *models.VideoScore) (*models.VideoScore, error)
}

// IndexingWriter stores a score and then mirrors it into the search index.
// Index failures are logged and swallowed.
type IndexingWriter struct {
	next    ScoreWriter
	indexer *Indexer
	logger  logger.Logger
}

func NewIndexingWriter(next ScoreWriter, indexer *Indexer, log logger.Logger) *IndexingWriter {
	return &IndexingWriter{next: next, indexer: indexer, logger: log}
}

func (w *IndexingWriter) Upsert(ctx context.Context, score *models.VideoScore) (*models.VideoScore, error) {
	stored, err := w.next.Upsert(ctx, score)
	if err != nil {
		return nil, err
	}
	if err := w.indexer.IndexScore(ctx, stored); err != nil {
		w.logger.Warn("Score indexing failed", map[string]interface{}{
			"campaignId": stored.CampaignID,
			"videoId":    stored.VideoID,
			"error":      err.Error(),
		})
	}
	return stored, nil
}

// IndexScore upserts one score document keyed by campaign and video so a
// re-score replaces the previous document.
func (i *Indexer) IndexScore(ctx context.Context, score *models.VideoScore) error {
	if i == nil || i.es == nil {
		return nil
	}

	body, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score document: %w", err)
	}

	docID := score.CampaignID + ":" + score.VideoID
	res, err := i.es.Client.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Client.Index.WithContext(ctx),
		i.es.Client.Index.WithDocumentID(docID),
	)
	if err != nil {
		return fmt.Errorf("index score document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index score document: %s", res.Status())
	}

	i.logger.Debug("Score document indexed", map[string]interface{}{
		"index": i.index,
		"docId": docID,
	})
	return nil
}
