package mock

import (
	"context"

	"github.com/fwojciec/askdoc"
)

var _ askdoc.KnowledgeBase = (*KnowledgeBase)(nil)

// KnowledgeBase is a mock implementation of askdoc.KnowledgeBase.
type KnowledgeBase struct {
	UpsertChunkFn  func(ctx context.Context, chunk *askdoc.Chunk) (bool, error)
	VectorSearchFn func(ctx context.Context, query string, threshold float64, limit int) ([]askdoc.ScoredChunk, error)
	TextSearchFn   func(ctx context.Context, query string, limit int) ([]askdoc.ScoredChunk, error)
	ListChunksFn   func(ctx context.Context, filter askdoc.ChunkFilter) ([]*askdoc.Chunk, error)
}

func (kb *KnowledgeBase) UpsertChunk(ctx context.Context, chunk *askdoc.Chunk) (bool, error) {
	return kb.UpsertChunkFn(ctx, chunk)
}

func (kb *KnowledgeBase) VectorSearch(ctx context.Context, query string, threshold float64, limit int) ([]askdoc.ScoredChunk, error) {
	return kb.VectorSearchFn(ctx, query, threshold, limit)
}

func (kb *KnowledgeBase) TextSearch(ctx context.Context, query string, limit int) ([]askdoc.ScoredChunk, error) {
	return kb.TextSearchFn(ctx, query, limit)
}

func (kb *KnowledgeBase) ListChunks(ctx context.Context, filter askdoc.ChunkFilter) ([]*askdoc.Chunk, error) {
	return kb.ListChunksFn(ctx, filter)
}

var _ askdoc.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of askdoc.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}
