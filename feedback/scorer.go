package feedback

import (
	"context"

	"github.com/fwojciec/askdoc"
)

var _ askdoc.ConfidenceScorer = (*HeuristicScorer)(nil)

// HeuristicScorer scores feedback without calling a model. An explicit
// rating is the strongest signal; substantive free text and attached
// conversation context each add confidence on top.
type HeuristicScorer struct{}

func (s *HeuristicScorer) Score(ctx context.Context, event askdoc.FeedbackEvent) (float64, error) {
	score := 0.4

	// Thumbs up/down is a deliberate action; a bare comment is not.
	if event.Rating == askdoc.RatingPositive || event.Rating == askdoc.RatingNegative {
		score += 0.3
	}

	if event.FreeText != "" {
		score += 0.1
		if len([]rune(event.FreeText)) >= 40 {
			score += 0.1
		}
	}

	if event.Question != "" && event.Answer != "" {
		score += 0.1
	}

	return clamp(score), nil
}
