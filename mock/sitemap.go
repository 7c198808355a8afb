package mock

import (
	"context"

	"github.com/fwojciec/askdoc"
)

var _ askdoc.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of askdoc.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *askdoc.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *askdoc.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ askdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of askdoc.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ askdoc.Asker = (*Asker)(nil)

// Asker is a mock implementation of askdoc.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, results []askdoc.RetrievalResult) (string, error)
}

func (a *Asker) Ask(ctx context.Context, question string, results []askdoc.RetrievalResult) (string, error) {
	return a.AskFn(ctx, question, results)
}

var _ askdoc.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of askdoc.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
