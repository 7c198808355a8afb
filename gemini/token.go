package gemini

import (
	"context"

	"github.com/fwojciec/askdoc"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// Compile-time interface verification.
var _ askdoc.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens with the local Gemini tokenizer. The
// indexer uses it to report the token volume of newly stored chunks
// without any API calls.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model. The
// local tokenizer only ships vocabularies for some models; an
// unsupported model is an error here rather than at count time.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens in text. Empty text counts
// as zero without touching the tokenizer.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{genai.NewContentFromText(text, "user")}
	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
