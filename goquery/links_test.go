package goquery_test

import (
	"testing"

	"github.com/fwojciec/askdoc"
	"github.com/fwojciec/askdoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<nav><a href="/guide">Guide</a></nav>
			<main>
				<a href="/api">API</a>
				<a href="/changelog">Changelog</a>
			</main>
		</body></html>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(html, "https://example.com/docs")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"https://example.com/guide",
			"https://example.com/api",
			"https://example.com/changelog",
		}, links)
	})

	t.Run("resolves relative links against base URL", func(t *testing.T) {
		t.Parallel()

		html := `<a href="getting-started">Start</a>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(html, "https://example.com/docs/")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/docs/getting-started"}, links)
	})

	t.Run("deduplicates anchor variants", func(t *testing.T) {
		t.Parallel()

		html := `
			<a href="/page">Page</a>
			<a href="/page#intro">Intro</a>
			<a href="/page#usage">Usage</a>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(html, "https://example.com/docs")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/page"}, links)
	})

	t.Run("filters external hosts", func(t *testing.T) {
		t.Parallel()

		html := `
			<a href="https://example.com/internal">Internal</a>
			<a href="https://other.com/external">External</a>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(html, "https://example.com/docs")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/internal"}, links)
	})

	t.Run("skips non-HTTP links", func(t *testing.T) {
		t.Parallel()

		html := `
			<a href="javascript:void(0)">JS</a>
			<a href="mailto:team@example.com">Mail</a>
			<a href="tel:+1234567890">Call</a>
			<a href="/real">Real</a>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(html, "https://example.com/docs")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/real"}, links)
	})

	t.Run("drops self-referential links", func(t *testing.T) {
		t.Parallel()

		html := `
			<a href="#top">Top</a>
			<a href="/docs">Self</a>`

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks(html, "https://example.com/docs")
		require.NoError(t, err)

		assert.Empty(t, links)
	})

	t.Run("returns error for invalid base URL", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewLinkExtractor()
		_, err := e.ExtractLinks("<a href=\"/x\">x</a>", "://bad")
		require.Error(t, err)
		assert.Equal(t, askdoc.EINVALID, askdoc.ErrorCode(err))
	})

	t.Run("empty page yields no links", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewLinkExtractor()
		links, err := e.ExtractLinks("<html><body></body></html>", "https://example.com")
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
