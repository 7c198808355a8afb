package mock

import (
	"context"

	"github.com/fwojciec/askdoc"
)

var _ askdoc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of askdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ askdoc.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of askdoc.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
