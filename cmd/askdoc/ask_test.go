package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/askdoc"
	main "github.com/fwojciec/askdoc/cmd/askdoc"
	"github.com/fwojciec/askdoc/mock"
	"github.com/fwojciec/askdoc/retrieve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers with retrieved context", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			VectorSearchFn: func(_ context.Context, _ string, _ float64, _ int) ([]askdoc.ScoredChunk, error) {
				return []askdoc.ScoredChunk{
					{Chunk: searchChunk("aaa", "Authentication", "https://docs.example.com/auth"), Score: 0.9},
				}, nil
			},
			TextSearchFn: func(_ context.Context, _ string, _ int) ([]askdoc.ScoredChunk, error) {
				return nil, nil
			},
		}

		var askedQuestion string
		var askedResults []askdoc.RetrievalResult
		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string, results []askdoc.RetrievalResult) (string, error) {
				askedQuestion = question
				askedResults = results
				return "Use an API token.", nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Retriever: &retrieve.Retriever{KB: kb},
			Asker:     asker,
		}

		cmd := &main.AskCmd{
			Question:  "how do I authenticate",
			Threshold: 0.7,
			Limit:     15,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Use an API token.")
		assert.Equal(t, "how do I authenticate", askedQuestion)
		require.Len(t, askedResults, 1)
		assert.Equal(t, "aaa", askedResults[0].Chunk.Hash)
	})

	t.Run("reports not found when retrieval returns nothing", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			VectorSearchFn: func(_ context.Context, _ string, _ float64, _ int) ([]askdoc.ScoredChunk, error) {
				return nil, nil
			},
			TextSearchFn: func(_ context.Context, _ string, _ int) ([]askdoc.ScoredChunk, error) {
				return nil, nil
			},
		}

		askerCalled := false
		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string, _ []askdoc.RetrievalResult) (string, error) {
				askerCalled = true
				return "", nil
			},
		}

		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Retriever: &retrieve.Retriever{KB: kb},
			Asker:     asker,
		}

		cmd := &main.AskCmd{
			Question:  "completely unrelated question",
			Threshold: 0.7,
			Limit:     15,
		}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, askdoc.ENOTFOUND, askdoc.ErrorCode(err))
		assert.False(t, askerCalled, "Asker should not run without context")
		assert.Contains(t, stderr.String(), "no indexed documentation")
	})
}
