package askdoc

import (
	"context"
	"time"
)

// Chunk represents a bounded-length slice of a page's text, the unit
// of indexing and retrieval. The content-derived hash is its unique
// key in the knowledge base; chunks are never mutated, only superseded
// by re-indexing under a new hash.
type Chunk struct {
	Hash      string    `json:"hash"` // content-derived, unique
	Text      string    `json:"text"`
	SourceURL string    `json:"sourceUrl"`
	Position  int       `json:"position"` // chunk index within the source page
	Title     string    `json:"title,omitempty"`
	CrawledAt time.Time `json:"crawledAt"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.Hash == "" {
		return Errorf(EINVALID, "chunk hash required")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	if c.SourceURL == "" {
		return Errorf(EINVALID, "chunk source URL required")
	}
	return nil
}

// ScoredChunk pairs a chunk with a search score. Vector scores are
// cosine similarities in [0,1]; text scores are backend-specific
// relevance values where higher is better.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// ChunkFilter represents a filter for ListChunks.
type ChunkFilter struct {
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// KnowledgeBase stores chunks and serves vector and text searches over
// them. Implementations own the persisted layout; the core only relies
// on hash-keyed idempotent upserts and the two search operations.
type KnowledgeBase interface {
	// UpsertChunk stores a chunk keyed by its content hash.
	// Returns created=false when the hash already exists with the same
	// text (idempotent re-index). Returns ECONFLICT when the hash
	// exists with different text. The upsert is atomic: on any
	// failure nothing is committed for the chunk.
	UpsertChunk(ctx context.Context, chunk *Chunk) (created bool, err error)

	// VectorSearch returns chunks by embedding similarity to the
	// query, highest first. Matches with similarity strictly below
	// threshold are excluded.
	VectorSearch(ctx context.Context, query string, threshold float64, limit int) ([]ScoredChunk, error)

	// TextSearch returns chunks by lexical relevance to the query,
	// highest first.
	TextSearch(ctx context.Context, query string, limit int) ([]ScoredChunk, error)

	// ListChunks retrieves stored chunks matching the filter, used for
	// dedup and incremental re-index checks.
	ListChunks(ctx context.Context, filter ChunkFilter) ([]*Chunk, error)
}

// Embedder produces embedding vectors for text.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
