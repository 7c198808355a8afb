package index

import (
	"context"
	"sync"

	"github.com/fwojciec/askdoc"
	"golang.org/x/sync/errgroup"
)

// Result summarizes an indexing run.
type Result struct {
	Pages     int // pages consumed from the crawl
	Submitted int // chunks newly stored
	Skipped   int // chunks already present with identical content
	Failed    int // chunks that could not be stored
	Tokens    int // total tokens across submitted chunks, if counted
}

// Indexer consumes crawled pages and submits their chunks to the
// knowledge base. Submission is idempotent: re-indexing an unchanged
// page stores nothing and counts every chunk as skipped.
type Indexer struct {
	KB      askdoc.KnowledgeBase
	Chunker *Chunker

	// TokenCounter, when set, accumulates Result.Tokens for submitted
	// chunks. Counting failures are ignored; token totals are
	// informational.
	TokenCounter askdoc.TokenCounter

	// Concurrency bounds parallel chunk submission. Defaults to 8.
	Concurrency int

	// Logf receives per-chunk failure notes. Optional.
	Logf func(format string, args ...any)
}

// Index drains the page channel and indexes every page. A chunk
// failure is counted, logged, and skipped; it never aborts the run.
// Index returns early only when the context is cancelled.
func (ix *Indexer) Index(ctx context.Context, pages <-chan askdoc.Page) (*Result, error) {
	chunker := ix.Chunker
	if chunker == nil {
		chunker = &Chunker{}
	}

	var (
		mu     sync.Mutex
		result Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency())

	for {
		var page askdoc.Page
		var ok bool
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return &result, ctx.Err()
		case page, ok = <-pages:
			if !ok {
				err := g.Wait()
				return &result, err
			}
		}

		mu.Lock()
		result.Pages++
		mu.Unlock()

		for _, chunk := range chunker.ChunkPage(&page) {
			g.Go(func() error {
				created, err := ix.KB.UpsertChunk(gctx, chunk)

				var tokens int
				if err == nil && created && ix.TokenCounter != nil {
					tokens, _ = ix.TokenCounter.CountTokens(gctx, chunk.Text)
				}

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					result.Failed++
					if ix.Logf != nil {
						ix.Logf("index failed %s chunk %d: %v", chunk.SourceURL, chunk.Position, err)
					}
				case created:
					result.Submitted++
					result.Tokens += tokens
				default:
					result.Skipped++
				}
				return nil
			})
		}
	}
}

func (ix *Indexer) concurrency() int {
	if ix.Concurrency <= 0 {
		return 8
	}
	return ix.Concurrency
}
