// Package htmltomarkdown converts extracted page content to Markdown,
// the form pages are chunked, indexed, and exported in.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/askdoc"
)

// Compile-time interface verification.
var _ askdoc.Converter = (*Converter)(nil)

// Converter renders HTML as CommonMark. The table plugin keeps API
// reference tables intact instead of flattening them to text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", askdoc.Errorf(askdoc.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}
