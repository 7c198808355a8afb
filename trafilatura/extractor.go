// Package trafilatura is the default content extraction engine. It
// strips navigation, headers, and footers from a documentation page so
// only the article body reaches chunking.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/askdoc"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var _ askdoc.Extractor = (*Extractor)(nil)

// Extractor extracts the main content of an HTML page with
// go-trafilatura. Fallback extraction is enabled: pages that defeat
// the primary algorithm still yield their readable body.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{EnableFallback: true},
	}
}

// Extract returns the page title and the main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*askdoc.ExtractResult, error) {
	if rawHTML == "" {
		return nil, askdoc.Errorf(askdoc.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &askdoc.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
