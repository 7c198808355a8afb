package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/askdoc"
)

// Compile-time interface verification.
var _ askdoc.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs for frontier seeding from a site's
// sitemaps. Discovery follows robots.txt Sitemap directives when
// present and falls back to /sitemap.xml; sitemap indexes are walked
// recursively.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a SitemapService using the given HTTP
// client, or http.DefaultClient if nil.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the sitemap URLs eligible for seeding, in
// sitemap order, deduplicated. A missing sitemap is not an error; the
// result is simply empty and the crawl proceeds by link-following.
//
// When baseURL carries a non-root path (a docs subtree like
// https://example.com/docs/), only URLs under that path are returned.
// The optional filter narrows the result further.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *askdoc.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, askdoc.Errorf(askdoc.EINVALID, "invalid base URL %q", baseURL)
	}

	scope := base.Path
	if scope == "/" {
		scope = ""
	}

	// Sitemaps live at the domain root regardless of where the seed
	// points.
	root := *base
	root.Path = ""

	sitemaps, err := s.locateSitemaps(ctx, &root)
	if err != nil {
		return nil, err
	}
	if len(sitemaps) == 0 {
		return []string{}, nil
	}

	seeds := []string{}
	visited := make(map[string]bool)
	emitted := make(map[string]bool)
	for _, sm := range sitemaps {
		urls, err := s.walkSitemap(ctx, sm, visited)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if emitted[u] || !inScope(u, scope) || !filter.Match(u) {
				continue
			}
			emitted[u] = true
			seeds = append(seeds, u)
		}
	}

	return seeds, nil
}

// locateSitemaps finds sitemap URLs via robots.txt, falling back to a
// HEAD probe of /sitemap.xml.
func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	if sitemaps, err := s.sitemapsFromRobots(ctx, robots.String()); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	ok, err := s.exists(ctx, fallback.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback.String()}, nil
}

// sitemapsFromRobots extracts Sitemap directives from robots.txt.
// The directive name is case-insensitive per the robots spec.
func (s *SitemapService) sitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if sm := strings.TrimSpace(line[len(directive):]); sm != "" {
			sitemaps = append(sitemaps, sm)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, askdoc.Errorf(askdoc.EINTERNAL, "reading robots.txt: %v", err)
	}

	return sitemaps, nil
}

// walkSitemap fetches one sitemap and returns its URLs, recursing
// through <sitemapindex> entries. visited guards against sitemap
// cycles across the whole discovery.
func (s *SitemapService) walkSitemap(ctx context.Context, sitemapURL string, visited map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if visited[sitemapURL] {
		return nil, nil
	}
	visited[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, askdoc.Errorf(askdoc.EINTERNAL, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, askdoc.Errorf(askdoc.EINTERNAL, "sitemap %s is empty", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, child := range locValues(root, "sitemap") {
			nested, err := s.walkSitemap(ctx, child, visited)
			if err != nil {
				return nil, err
			}
			urls = append(urls, nested...)
		}
		return urls, nil
	}

	return locValues(root, "url"), nil
}

// locValues collects non-empty <loc> texts from the named child
// elements of a sitemap root.
func locValues(root *etree.Element, tag string) []string {
	var values []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// inScope reports whether the URL's path sits under the scope prefix.
// Matching respects path boundaries: scope /docs covers /docs/intro
// but not /documentation. An empty scope covers everything.
func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(scope, "/") {
		scope += "/"
	}
	return strings.HasPrefix(parsed.Path, scope)
}

func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, askdoc.Errorf(askdoc.EINVALID, "invalid URL %q", targetURL)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, askdoc.Errorf(askdoc.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, askdoc.Errorf(askdoc.EINVALID, "invalid URL %q", targetURL)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
