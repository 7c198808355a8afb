// Package crawl provides breadth-first documentation crawling.
// It coordinates fetching, link discovery, content extraction, and
// markdown conversion, emitting pages as a lazy sequence while a
// bounded worker pool fetches in parallel.
package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/askdoc"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Request describes a single crawl run.
type Request struct {
	// SeedURL is where traversal starts, at depth 0.
	SeedURL string

	// MaxPages bounds the number of pages emitted.
	MaxPages int

	// MaxDepth bounds traversal depth; links at depth MaxDepth are not
	// followed further.
	MaxDepth int

	// AllowedDomains restricts which hosts are crawled. Empty defaults
	// to the seed URL's host. Subdomains of an allowed domain pass.
	AllowedDomains []string

	// Filter narrows sitemap seeding by URL pattern. Nil admits every
	// sitemap URL. Link-following is not filtered; discovered links
	// are bounded by depth and the domain allowlist instead.
	Filter *askdoc.URLFilter
}

// Validate returns EINVALID for a malformed request. Configuration
// errors are fatal before any fetching begins.
func (r *Request) Validate() error {
	if r.MaxPages <= 0 {
		return askdoc.Errorf(askdoc.EINVALID, "max pages must be positive, got %d", r.MaxPages)
	}
	if r.MaxDepth < 0 {
		return askdoc.Errorf(askdoc.EINVALID, "max depth must be non-negative, got %d", r.MaxDepth)
	}
	if _, err := NormalizeURL(r.SeedURL); err != nil {
		return err
	}
	return nil
}

// Summary holds the outcome of a crawl run.
type Summary struct {
	Emitted int // pages successfully fetched and emitted
	Failed  int // fetch or parse failures, skipped without aborting
	Bytes   int // total markdown bytes emitted
}

// Run is a crawl in progress. Pages is a finite, non-restartable
// sequence intended for a single consumer; it closes when the crawl
// completes, is cancelled, or hits its page budget.
type Run struct {
	Pages <-chan askdoc.Page

	mu      sync.Mutex
	summary Summary
	done    chan struct{}
}

// Summary blocks until the crawl has finished and returns its counts.
// Pages already emitted remain valid if the crawl was cancelled:
// cancellation truncates the frontier, it does not roll back work.
func (r *Run) Summary() Summary {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Crawler orchestrates breadth-first crawling of documentation sites.
type Crawler struct {
	Fetcher   askdoc.Fetcher
	Links     askdoc.LinkExtractor
	Extractor askdoc.Extractor
	Converter askdoc.Converter

	// Sitemaps optionally pre-seeds the frontier from the site's
	// sitemap before link-following begins. Sitemap URLs enter at
	// depth 1.
	Sitemaps askdoc.SitemapService

	// RateLimiter throttles fetches per domain. Optional.
	RateLimiter askdoc.DomainLimiter

	// Concurrency bounds the fetch worker pool. Defaults to 10.
	Concurrency int

	// RetryDelays configures fetch retry backoff. Defaults to
	// DefaultRetryDelays.
	RetryDelays []time.Duration

	// Logf receives per-page failure notes. Optional.
	Logf LogFunc
}

// fetchResult holds the outcome of processing one frontier entry.
type fetchResult struct {
	entry askdoc.FrontierEntry
	page  *askdoc.Page
	err   error
}

// Crawl starts a breadth-first crawl and returns immediately. Pages
// arrive on run.Pages as they are fetched; the caller may begin
// indexing before the crawl completes. A single page failure is never
// fatal: it is counted and traversal continues.
func (c *Crawler) Crawl(ctx context.Context, req Request) (*Run, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seed, err := NormalizeURL(req.SeedURL)
	if err != nil {
		return nil, err
	}

	allowed := req.AllowedDomains
	if len(allowed) == 0 {
		allowed = []string{hostOf(seed)}
	}

	pages := make(chan askdoc.Page)
	run := &Run{Pages: pages, done: make(chan struct{})}

	go c.crawl(ctx, req, seed, allowed, pages, run)

	return run, nil
}

// crawl is the coordinator goroutine. It is the only writer to the
// frontier: workers fetch in parallel but discovered links are pushed
// here, so enqueue-time dedup needs no cross-goroutine coordination
// beyond the frontier's own lock.
func (c *Crawler) crawl(ctx context.Context, req Request, seed string, allowed []string, pages chan<- askdoc.Page, run *Run) {
	defer close(run.done)
	defer close(pages)

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(askdoc.FrontierEntry{URL: seed, Depth: 0})

	if c.Sitemaps != nil {
		c.seedFromSitemap(ctx, seed, allowed, req.MaxDepth, req.Filter, frontier)
	}

	var summary Summary

	// Each round drains up to the remaining page budget from the
	// frontier and fetches those entries in parallel. FIFO order is
	// preserved round to round, so breadth-first emission holds even
	// though fetches overlap.
	for summary.Emitted < req.MaxPages && frontier.Len() > 0 && ctx.Err() == nil {
		budget := req.MaxPages - summary.Emitted
		wave := popN(frontier, budget)

		results := make([]fetchResult, len(wave))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency())
		for i, entry := range wave {
			g.Go(func() error {
				results[i] = c.process(gctx, entry)
				return nil
			})
		}
		_ = g.Wait()

		for _, res := range results {
			if res.err != nil {
				summary.Failed++
				if c.Logf != nil {
					c.Logf("crawl failed %s: %v", res.entry.URL, res.err)
				}
				continue
			}

			// Discovered links enter the frontier before emission so a
			// consumer that blocks cannot stall discovery bookkeeping.
			if res.entry.Depth+1 <= req.MaxDepth {
				for _, link := range res.page.Links {
					if hostAllowed(hostOf(link), allowed) {
						frontier.Push(askdoc.FrontierEntry{URL: link, Depth: res.entry.Depth + 1})
					}
				}
			}

			select {
			case pages <- *res.page:
				summary.Emitted++
				summary.Bytes += len(res.page.Content)
			case <-ctx.Done():
				run.setSummary(summary)
				return
			}

			if summary.Emitted == req.MaxPages {
				break
			}
		}
	}

	// Leftover frontier entries are discarded, not an error.
	run.setSummary(summary)
}

func (r *Run) setSummary(s Summary) {
	r.mu.Lock()
	r.summary = s
	r.mu.Unlock()
}

// process fetches one URL and converts it into a Page.
func (c *Crawler) process(ctx context.Context, entry askdoc.FrontierEntry) fetchResult {
	res := fetchResult{entry: entry}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, hostOf(entry.URL)); err != nil {
			res.err = err
			return res
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, entry.URL, c.Fetcher.Fetch, c.Logf, delays)
	if err != nil {
		res.err = err
		return res
	}

	// Link extraction failures lose outgoing links but not the page.
	var links []string
	if c.Links != nil {
		raw, err := c.Links.ExtractLinks(html, entry.URL)
		if err == nil {
			for _, l := range raw {
				if norm, err := NormalizeURL(l); err == nil {
					links = append(links, norm)
				}
			}
		}
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		res.err = askdoc.Errorf(askdoc.EINVALID, "extract %s: %v", entry.URL, err)
		return res
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		res.err = askdoc.Errorf(askdoc.EINVALID, "convert %s: %v", entry.URL, err)
		return res
	}

	res.page = &askdoc.Page{
		URL:       entry.URL,
		Depth:     entry.Depth,
		Title:     extracted.Title,
		Content:   markdown,
		Links:     links,
		FetchedAt: time.Now().UTC(),
	}
	return res
}

// seedFromSitemap pushes sitemap URLs into the frontier at depth 1.
func (c *Crawler) seedFromSitemap(ctx context.Context, seed string, allowed []string, maxDepth int, filter *askdoc.URLFilter, frontier *Frontier) {
	if maxDepth < 1 {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, filter)
	if err != nil {
		if c.Logf != nil {
			c.Logf("sitemap discovery failed: %v", err)
		}
		return
	}
	for _, u := range urls {
		norm, err := NormalizeURL(u)
		if err != nil {
			continue
		}
		if hostAllowed(hostOf(norm), allowed) {
			frontier.Push(askdoc.FrontierEntry{URL: norm, Depth: 1})
		}
	}
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return 10
	}
	return c.Concurrency
}

// popN drains up to n entries from the frontier in FIFO order.
func popN(f *Frontier, n int) []askdoc.FrontierEntry {
	var entries []askdoc.FrontierEntry
	for len(entries) < n {
		e, ok := f.Pop()
		if !ok {
			break
		}
		entries = append(entries, e)
	}
	return entries
}
