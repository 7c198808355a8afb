package crawl

import (
	"sync"

	"github.com/fwojciec/askdoc"
	"github.com/fwojciec/askdoc/bloom"
)

// Compile-time interface verification.
var _ askdoc.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier with Bloom filter
// deduplication. FIFO order preserves breadth-first traversal: entries
// discovered at depth d are queued behind every entry of depth <= d.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.SeenSet
	queue []askdoc.FrontierEntry
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewSeenSet(n, fpRate),
	}
}

// Push adds an entry to the frontier.
// Returns false if the URL has already been seen. Dedup happens at
// enqueue time: a URL is queued at most once per crawl regardless of
// how many pages link to it.
func (f *Frontier) Push(e askdoc.FrontierEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Seen(e.URL) {
		return false
	}
	f.seen.Record(e.URL)
	f.queue = append(f.queue, e)
	return true
}

// Pop returns the next entry in FIFO order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (askdoc.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return askdoc.FrontierEntry{}, false
	}
	e := f.queue[0]
	f.queue = f.queue[1:]
	return e, true
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued at some point.
// Popped URLs remain seen for the lifetime of the frontier.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Seen(url)
}
