package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/askdoc"
)

// Ensure LoggingKnowledgeBase implements askdoc.KnowledgeBase.
var _ askdoc.KnowledgeBase = (*LoggingKnowledgeBase)(nil)

// LoggingKnowledgeBase wraps a KnowledgeBase with debug logging for
// searches. Upserts are not logged individually; the indexer reports
// them in aggregate.
type LoggingKnowledgeBase struct {
	next   askdoc.KnowledgeBase
	logger *slog.Logger
}

// NewLoggingKnowledgeBase creates a new LoggingKnowledgeBase.
func NewLoggingKnowledgeBase(next askdoc.KnowledgeBase, logger *slog.Logger) *LoggingKnowledgeBase {
	return &LoggingKnowledgeBase{next: next, logger: logger}
}

// UpsertChunk delegates to the wrapped knowledge base.
func (kb *LoggingKnowledgeBase) UpsertChunk(ctx context.Context, chunk *askdoc.Chunk) (bool, error) {
	return kb.next.UpsertChunk(ctx, chunk)
}

// VectorSearch delegates to the wrapped knowledge base and logs the operation.
func (kb *LoggingKnowledgeBase) VectorSearch(ctx context.Context, query string, threshold float64, limit int) (hits []askdoc.ScoredChunk, err error) {
	defer func(begin time.Time) {
		kb.logger.Info("vector search",
			"threshold", threshold,
			"hits", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return kb.next.VectorSearch(ctx, query, threshold, limit)
}

// TextSearch delegates to the wrapped knowledge base and logs the operation.
func (kb *LoggingKnowledgeBase) TextSearch(ctx context.Context, query string, limit int) (hits []askdoc.ScoredChunk, err error) {
	defer func(begin time.Time) {
		kb.logger.Info("text search",
			"hits", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return kb.next.TextSearch(ctx, query, limit)
}

// ListChunks delegates to the wrapped knowledge base.
func (kb *LoggingKnowledgeBase) ListChunks(ctx context.Context, filter askdoc.ChunkFilter) ([]*askdoc.Chunk, error) {
	return kb.next.ListChunks(ctx, filter)
}
