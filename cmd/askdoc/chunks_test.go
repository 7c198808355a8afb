package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/askdoc"
	main "github.com/fwojciec/askdoc/cmd/askdoc"
	"github.com/fwojciec/askdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunksCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists chunk hashes and sources", func(t *testing.T) {
		t.Parallel()

		var gotFilter askdoc.ChunkFilter
		kb := &mock.KnowledgeBase{
			ListChunksFn: func(_ context.Context, filter askdoc.ChunkFilter) ([]*askdoc.Chunk, error) {
				gotFilter = filter
				return []*askdoc.Chunk{
					searchChunk("aaa", "Authentication", "https://docs.example.com/auth"),
					searchChunk("bbb", "Deployment", "https://docs.example.com/deploy"),
				}, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			KB:     kb,
		}

		cmd := &main.ChunksCmd{Source: "https://docs.example.com/auth", Limit: 50}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.SourceURL)
		assert.Equal(t, "https://docs.example.com/auth", *gotFilter.SourceURL)
		assert.Equal(t, 50, gotFilter.Limit)

		output := stdout.String()
		assert.Contains(t, output, "aaa")
		assert.Contains(t, output, "bbb")
		assert.Contains(t, output, "https://docs.example.com/deploy")
		// Text only shows with --full
		assert.NotContains(t, output, "content for aaa")
	})

	t.Run("full flag includes chunk text", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			ListChunksFn: func(_ context.Context, _ askdoc.ChunkFilter) ([]*askdoc.Chunk, error) {
				return []*askdoc.Chunk{
					searchChunk("aaa", "Authentication", "https://docs.example.com/auth"),
				}, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			KB:     kb,
		}

		cmd := &main.ChunksCmd{Limit: 50, Full: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "content for aaa")
	})

	t.Run("shows helpful message when nothing is indexed", func(t *testing.T) {
		t.Parallel()

		kb := &mock.KnowledgeBase{
			ListChunksFn: func(_ context.Context, _ askdoc.ChunkFilter) ([]*askdoc.Chunk, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			KB:     kb,
		}

		cmd := &main.ChunksCmd{Limit: 50}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No chunks found")
	})
}
