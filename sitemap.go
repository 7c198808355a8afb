package askdoc

import (
	"context"
	"regexp"
)

// SitemapService discovers URLs from website sitemaps. The crawler
// uses it to pre-seed the frontier; discovered URLs still go through
// normalization, dedup, and the domain allowlist.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// A nil filter admits every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter narrows a URL set by regular expression. A URL passes
// when it matches at least one Include pattern (or Include is empty)
// and matches no Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether the URL passes the filter. A nil filter
// passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchesAny(f.Include, url) {
		return false
	}
	return !matchesAny(f.Exclude, url)
}

func matchesAny(patterns []*regexp.Regexp, url string) bool {
	for _, re := range patterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}
