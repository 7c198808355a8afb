package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/askdoc"
	"google.golang.org/genai"
)

var _ askdoc.ConfidenceScorer = (*Scorer)(nil)

// Scorer implements askdoc.ConfidenceScorer using Google Gemini. It
// asks the model how trustworthy a feedback signal is and expects a
// JSON verdict back.
type Scorer struct {
	client *genai.Client
}

// NewScorer creates a new Scorer.
func NewScorer(client *genai.Client) *Scorer {
	return &Scorer{client: client}
}

// verdict is the JSON shape the model is asked to produce.
type verdict struct {
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Score rates the feedback event's trustworthiness in [0,1].
func (s *Scorer) Score(ctx context.Context, event askdoc.FeedbackEvent) (float64, error) {
	prompt := BuildScorerPrompt(event)

	temp := float32(0.0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You rate the reliability of user feedback on documentation answers. Respond with JSON: {\"confidence\": <number between 0 and 1>, \"reason\": <short string>}. High confidence means the feedback is specific, consistent with the conversation, and actionable.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, askdoc.Errorf(askdoc.EINTERNAL, "gemini returned nil result")
	}

	return ParseVerdict(result.Text())
}

// BuildScorerPrompt renders the feedback event for the scoring model.
func BuildScorerPrompt(event askdoc.FeedbackEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<rating>%s</rating>\n", event.Rating)
	if event.FreeText != "" {
		fmt.Fprintf(&sb, "<comment>%s</comment>\n", event.FreeText)
	}
	if event.Question != "" {
		fmt.Fprintf(&sb, "<question>%s</question>\n", event.Question)
	}
	if event.Answer != "" {
		fmt.Fprintf(&sb, "<answer>%s</answer>\n", event.Answer)
	}
	sb.WriteString("\nRate this feedback.")
	return sb.String()
}

// ParseVerdict extracts the confidence from the model's JSON response.
// Out-of-range values are clamped rather than rejected; the model
// occasionally rounds past the bounds.
func ParseVerdict(text string) (float64, error) {
	var v verdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return 0, askdoc.Errorf(askdoc.EINTERNAL, "malformed scorer verdict: %v", err)
	}
	if v.Confidence < 0 {
		return 0, nil
	}
	if v.Confidence > 1 {
		return 1, nil
	}
	return v.Confidence, nil
}
