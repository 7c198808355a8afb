package askdoc

import "context"

// FrontierEntry is a discovered-but-not-yet-fetched URL with its
// distance from the seed.
type FrontierEntry struct {
	URL   string
	Depth int
}

// URLFrontier manages a crawl queue with enqueue-time deduplication.
// Pop order is FIFO so that a breadth-first traversal emits shallower
// pages before deeper ones.
type URLFrontier interface {
	// Push adds an entry to the frontier.
	// Returns false if the URL has already been seen.
	Push(e FrontierEntry) bool

	// Pop returns the next entry in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of entries in the queue.
	Len() int

	// Seen returns true if the URL has been queued at some point.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
