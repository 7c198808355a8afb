package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/askdoc"
)

// Compile-time interface verification.
var _ askdoc.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService decorates a SitemapService with per-discovery
// logging: seed URL, whether a filter was applied, URL count, and
// duration.
type LoggingSitemapService struct {
	next   askdoc.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a LoggingSitemapService.
func NewLoggingSitemapService(next askdoc.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the outcome.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *askdoc.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
