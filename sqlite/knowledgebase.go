package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/askdoc"
)

// Compile-time interface verification.
var _ askdoc.KnowledgeBase = (*KnowledgeBase)(nil)

// KnowledgeBase implements askdoc.KnowledgeBase using SQLite. Text
// search uses an FTS5 index; vector search embeds the query and scans
// stored embeddings with cosine similarity.
type KnowledgeBase struct {
	db       *DB
	embedder askdoc.Embedder
}

// NewKnowledgeBase creates a new KnowledgeBase. The embedder may be
// nil, in which case chunks are stored without embeddings and
// VectorSearch returns EUNAVAILABLE.
func NewKnowledgeBase(db *DB, embedder askdoc.Embedder) *KnowledgeBase {
	return &KnowledgeBase{db: db, embedder: embedder}
}

// UpsertChunk stores a chunk keyed by its content hash. The embed and
// the insert commit together: a failure at any point leaves no partial
// row behind.
func (kb *KnowledgeBase) UpsertChunk(ctx context.Context, chunk *askdoc.Chunk) (bool, error) {
	if err := chunk.Validate(); err != nil {
		return false, err
	}

	// The hash lookup comes first: re-indexing an unchanged chunk must
	// resolve without touching the embedder at all.
	if created, done, err := kb.checkExisting(ctx, kb.db, chunk); done {
		return created, err
	}

	// Embedding happens before the transaction so the write lock is
	// not held across a network call.
	var embedding []float32
	if kb.embedder != nil {
		var err error
		embedding, err = kb.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return false, err
		}
	}

	tx, err := kb.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// Re-check inside the transaction: another writer may have stored
	// the hash between the pre-check and here.
	if created, done, err := kb.checkExisting(ctx, tx, chunk); done {
		return created, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO chunks (hash, text, source_url, position, title, embedding, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, chunk.Hash, chunk.Text, chunk.SourceURL, chunk.Position, chunk.Title,
		encodeVector(embedding), chunk.CrawledAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}

	rowid, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO chunks_fts (rowid, text) VALUES (?, ?)`, rowid, chunk.Text); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// querier abstracts the row lookup so the existence check runs both
// against the bare connection and inside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkExisting reports whether the upsert can resolve without an
// insert: done is true for the idempotent no-op (same hash, same
// text) and for a hash conflict.
func (kb *KnowledgeBase) checkExisting(ctx context.Context, q querier, chunk *askdoc.Chunk) (created, done bool, err error) {
	var existingText string
	err = q.QueryRowContext(ctx, `SELECT text FROM chunks WHERE hash = ?`, chunk.Hash).Scan(&existingText)
	switch {
	case err == sql.ErrNoRows:
		return false, false, nil
	case err != nil:
		return false, true, err
	case existingText == chunk.Text:
		return false, true, nil
	default:
		return false, true, askdoc.Errorf(askdoc.ECONFLICT, "chunk %q already stored with different text", chunk.Hash)
	}
}

// VectorSearch embeds the query and returns chunks by cosine
// similarity, highest first. Chunks with similarity strictly below
// threshold are excluded.
func (kb *KnowledgeBase) VectorSearch(ctx context.Context, query string, threshold float64, limit int) ([]askdoc.ScoredChunk, error) {
	if kb.embedder == nil {
		return nil, askdoc.Errorf(askdoc.EUNAVAILABLE, "no embedder configured")
	}

	queryVec, err := kb.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := kb.db.QueryContext(ctx, `
		SELECT hash, text, source_url, position, title, embedding, crawled_at
		FROM chunks
		WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []askdoc.ScoredChunk
	for rows.Next() {
		chunk, embedding, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		vec, err := decodeVector(embedding)
		if err != nil {
			return nil, err
		}
		score := cosineSimilarity(queryVec, vec)
		if score < threshold {
			continue
		}
		hits = append(hits, askdoc.ScoredChunk{Chunk: chunk, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Hash < hits[j].Chunk.Hash
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// TextSearch returns chunks by BM25 relevance to the query, highest
// first. BM25 ranks are negated so higher means more relevant, in line
// with the vector leg.
func (kb *KnowledgeBase) TextSearch(ctx context.Context, query string, limit int) ([]askdoc.ScoredChunk, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT c.hash, c.text, c.source_url, c.position, c.title, c.embedding, c.crawled_at,
			-bm25(chunks_fts) AS score
		FROM chunks_fts
		JOIN chunks c ON c.rowid = chunks_fts.rowid
		WHERE chunks_fts MATCH ?
		ORDER BY bm25(chunks_fts) ASC, c.hash ASC
	`)
	args := []any{match}
	appendPagination(&sb, &args, limit, 0)

	rows, err := kb.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []askdoc.ScoredChunk
	for rows.Next() {
		var chunk askdoc.Chunk
		var embedding []byte
		var crawledAt string
		var score float64
		if err := rows.Scan(&chunk.Hash, &chunk.Text, &chunk.SourceURL, &chunk.Position,
			&chunk.Title, &embedding, &crawledAt, &score); err != nil {
			return nil, err
		}
		if chunk.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at"); err != nil {
			return nil, err
		}
		hits = append(hits, askdoc.ScoredChunk{Chunk: &chunk, Score: score})
	}
	return hits, rows.Err()
}

// ListChunks retrieves stored chunks matching the filter, ordered by
// source URL then position.
func (kb *KnowledgeBase) ListChunks(ctx context.Context, filter askdoc.ChunkFilter) ([]*askdoc.Chunk, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT hash, text, source_url, position, title, embedding, crawled_at FROM chunks WHERE 1=1")

	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY source_url ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := kb.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*askdoc.Chunk
	for rows.Next() {
		chunk, _, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// scanChunk reads one chunk row in column order hash, text,
// source_url, position, title, embedding, crawled_at.
func scanChunk(rows *sql.Rows) (*askdoc.Chunk, []byte, error) {
	var chunk askdoc.Chunk
	var embedding []byte
	var crawledAt string
	if err := rows.Scan(&chunk.Hash, &chunk.Text, &chunk.SourceURL, &chunk.Position,
		&chunk.Title, &embedding, &crawledAt); err != nil {
		return nil, nil, err
	}
	var err error
	if chunk.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at"); err != nil {
		return nil, nil, err
	}
	return &chunk, embedding, nil
}
