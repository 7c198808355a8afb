// Package rod fetches rendered HTML from documentation sites with a
// headless Chrome browser, so JavaScript-built pages and Web
// Components serialize the way a reader sees them.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/askdoc"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page fetch when the caller's
// context carries no deadline.
const DefaultFetchTimeout = 30 * time.Second

// Compile-time interface verification.
var _ askdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Each fetch waits for the page load event before serializing, and
// shadow DOM content is inlined so link extraction sees Web Component
// navigation. Fetcher is safe for concurrent use.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	recycleAfter int64
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout overrides DefaultFetchTimeout for fetches whose
// context has no deadline of its own.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter overrides how many pages the underlying browser
// serves before it is recycled.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called
// when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		recycleAfter: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.recycleAfter))
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", askdoc.Errorf(askdoc.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := serializePage(page)
	if err != nil {
		return "", err
	}

	f.manager.IncrementPageCount()

	return html, nil
}

// Close releases browser resources. Close is idempotent; a Fetch
// after Close fails with EINVALID.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher, or zero
// after Close.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// serializeJS inlines every open shadow root into its host element so
// outerHTML carries Web Component content. document.documentElement
// alone drops shadow trees, which hides navigation links rendered by
// custom elements.
const serializeJS = `() => {
	const inline = (root) => {
		for (const host of root.querySelectorAll('*')) {
			if (host.shadowRoot) {
				inline(host.shadowRoot);
				host.insertAdjacentHTML('beforeend', host.shadowRoot.innerHTML);
			}
		}
	};
	inline(document);
	const doctype = document.doctype ? '<!DOCTYPE html>\n' : '';
	return doctype + document.documentElement.outerHTML;
}`

func serializePage(page *rod.Page) (string, error) {
	obj, err := page.Eval(serializeJS)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}
