package mock

import (
	"context"

	"github.com/fwojciec/askdoc"
)

var _ askdoc.ConfidenceScorer = (*ConfidenceScorer)(nil)

// ConfidenceScorer is a mock implementation of askdoc.ConfidenceScorer.
type ConfidenceScorer struct {
	ScoreFn func(ctx context.Context, event askdoc.FeedbackEvent) (float64, error)
}

func (s *ConfidenceScorer) Score(ctx context.Context, event askdoc.FeedbackEvent) (float64, error) {
	return s.ScoreFn(ctx, event)
}

var _ askdoc.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore is a mock implementation of askdoc.FeedbackStore.
type FeedbackStore struct {
	PersistFn func(ctx context.Context, entry *askdoc.FeedbackEntry) (*askdoc.FeedbackEntry, bool, error)
}

func (s *FeedbackStore) Persist(ctx context.Context, entry *askdoc.FeedbackEntry) (*askdoc.FeedbackEntry, bool, error) {
	return s.PersistFn(ctx, entry)
}
