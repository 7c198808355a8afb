package mock

import "github.com/fwojciec/askdoc"

var _ askdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of askdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*askdoc.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*askdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ askdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of askdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
