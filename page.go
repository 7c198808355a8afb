package askdoc

import (
	"context"
	"time"
)

// Page represents a fetched documentation page. Pages are created by
// the crawler on successful fetch and are immutable after creation;
// ownership transfers to the consumer (typically the indexer).
type Page struct {
	URL       string // normalized, unique within a crawl
	Depth     int    // distance from the seed URL
	Title     string
	Content   string   // Markdown
	Links     []string // normalized URLs discovered on the page
	FetchedAt time.Time
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Depth < 0 {
		return Errorf(EINVALID, "page depth must be non-negative")
	}
	return nil
}

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use plain HTTP or browser automation for
// JavaScript-rendered content. Fetch errors carry EUNAVAILABLE for
// network/status failures and ERATELIMITED when the remote throttles.
type Fetcher interface {
	// Fetch retrieves the HTML content of the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// LinkExtractor extracts hyperlinks from an HTML page.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute URLs in document
	// order. The baseURL is used to resolve relative references.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
