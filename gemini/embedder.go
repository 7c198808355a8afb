package gemini

import (
	"context"

	"github.com/fwojciec/askdoc"
	"google.golang.org/genai"
)

// embeddingModel is the Gemini embedding model used for chunks and
// queries.
const embeddingModel = "gemini-embedding-001"

var _ askdoc.Embedder = (*Embedder)(nil)

// Embedder implements askdoc.Embedder using the Gemini embedding API.
type Embedder struct {
	client   *genai.Client
	taskType string
}

// NewEmbedder creates an Embedder for documents. Chunks stored in the
// knowledge base should use this variant.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client, taskType: "RETRIEVAL_DOCUMENT"}
}

// NewQueryEmbedder creates an Embedder tuned for retrieval queries.
func NewQueryEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client, taskType: "RETRIEVAL_QUERY"}
}

// Embed returns the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, askdoc.Errorf(askdoc.EINVALID, "text required")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents,
		&genai.EmbedContentConfig{
			TaskType: e.taskType,
		},
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, askdoc.Errorf(askdoc.EINTERNAL, "gemini returned no embeddings")
	}

	return result.Embeddings[0].Values, nil
}
