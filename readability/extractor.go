// Package readability is the alternative content extraction engine,
// selected with --extractor=readability. Mozilla's Readability
// heuristics handle some article-style sites better than the default
// engine.
package readability

import (
	"strings"

	"github.com/fwojciec/askdoc"
	"github.com/go-shiori/go-readability"
)

// Compile-time interface verification.
var _ askdoc.Extractor = (*Extractor)(nil)

// Extractor extracts the main content of an HTML page with
// go-readability.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*askdoc.ExtractResult, error) {
	if rawHTML == "" {
		return nil, askdoc.Errorf(askdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &askdoc.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
