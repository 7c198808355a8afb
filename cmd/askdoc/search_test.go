package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/askdoc"
	main "github.com/fwojciec/askdoc/cmd/askdoc"
	"github.com/fwojciec/askdoc/mock"
	"github.com/fwojciec/askdoc/retrieve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchChunk(hash, title, url string) *askdoc.Chunk {
	return &askdoc.Chunk{
		Hash:      hash,
		Text:      "content for " + hash,
		SourceURL: url,
		Title:     title,
		CrawledAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints ranked results with titles and source URLs", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			VectorSearchFn: func(_ context.Context, _ string, _ float64, _ int) ([]askdoc.ScoredChunk, error) {
				return []askdoc.ScoredChunk{
					{Chunk: searchChunk("aaa", "Authentication", "https://docs.example.com/auth"), Score: 0.9},
					{Chunk: searchChunk("bbb", "Deployment", "https://docs.example.com/deploy"), Score: 0.8},
				}, nil
			},
			TextSearchFn: func(_ context.Context, _ string, _ int) ([]askdoc.ScoredChunk, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    stderr,
			Retriever: &retrieve.Retriever{KB: kb},
		}

		cmd := &main.SearchCmd{
			Query:     "how do I authenticate",
			Mode:      "hybrid",
			Threshold: 0.7,
			Alpha:     0.5,
			MMR:       1,
			Limit:     15,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Authentication")
		assert.Contains(t, output, "https://docs.example.com/auth")
		assert.Contains(t, output, "Deployment")
		assert.Contains(t, output, "https://docs.example.com/deploy")
	})

	t.Run("shows message when nothing matches", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			VectorSearchFn: func(_ context.Context, _ string, _ float64, _ int) ([]askdoc.ScoredChunk, error) {
				return nil, nil
			},
			TextSearchFn: func(_ context.Context, _ string, _ int) ([]askdoc.ScoredChunk, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Retriever: &retrieve.Retriever{KB: kb},
		}

		cmd := &main.SearchCmd{
			Query:     "nonexistent topic",
			Mode:      "hybrid",
			Threshold: 0.7,
			Alpha:     0.5,
			MMR:       0.7,
			Limit:     15,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No results.")
	})

	t.Run("rejects out-of-range threshold", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Retriever: &retrieve.Retriever{KB: &mock.KnowledgeBase{}},
		}

		cmd := &main.SearchCmd{
			Query:     "anything",
			Mode:      "hybrid",
			Threshold: 1.5,
			Alpha:     0.5,
			MMR:       0.7,
			Limit:     15,
		}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, askdoc.EINVALID, askdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
