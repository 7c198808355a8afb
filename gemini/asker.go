package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/askdoc"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Asker implements askdoc.Asker at compile time.
var _ askdoc.Asker = (*Asker)(nil)

// Asker implements askdoc.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client) *Asker {
	return &Asker{client: client}
}

// Ask answers a natural language question grounded in the retrieved
// chunks. The model is instructed to answer only from the provided
// context.
func (a *Asker) Ask(ctx context.Context, question string, results []askdoc.RetrievalResult) (string, error) {
	if question == "" {
		return "", askdoc.Errorf(askdoc.EINVALID, "question required")
	}
	if len(results) == 0 {
		return "", askdoc.Errorf(askdoc.ENOTFOUND, "no documentation context for question")
	}

	prompt := BuildUserPrompt(results, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", askdoc.Errorf(askdoc.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about software documentation. Answer based only on the documentation excerpts provided. Cite the source URL of the excerpts you used. If the answer is not in the excerpts, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing retrieved excerpts
// and the question. Excerpts appear in rank order.
func BuildUserPrompt(results []askdoc.RetrievalResult, question string) string {
	var sb strings.Builder
	sb.WriteString("<excerpts>\n")
	for _, res := range results {
		title := res.Chunk.Title
		if title == "" {
			title = res.Chunk.SourceURL
		}
		sb.WriteString("<excerpt>\n")
		fmt.Fprintf(&sb, "<rank>%d</rank>\n", res.Rank)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<source>%s</source>\n", res.Chunk.SourceURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", res.Chunk.Text)
		sb.WriteString("</excerpt>\n")
	}
	sb.WriteString("</excerpts>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
