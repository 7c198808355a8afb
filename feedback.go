package askdoc

import (
	"context"
	"time"
)

// Rating classifies a feedback event.
type Rating string

// Supported feedback ratings.
const (
	RatingPositive Rating = "positive"
	RatingNegative Rating = "negative"
	RatingComment  Rating = "comment"
)

// DefaultAcceptanceThreshold is the minimum confidence for a feedback
// event to be persisted. The boundary is inclusive.
const DefaultAcceptanceThreshold = 0.7

// FeedbackEvent is a raw user feedback signal as handed over by the
// chat surface.
type FeedbackEvent struct {
	SessionID string `json:"sessionId"`
	MessageID string `json:"messageId"`
	Rating    Rating `json:"rating"`
	FreeText  string `json:"freeText,omitempty"`

	// Question and Answer give the scorer the conversation context the
	// feedback refers to. Optional.
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// Validate returns an error if the event is malformed. Validation runs
// before confidence scoring.
func (e *FeedbackEvent) Validate() error {
	if e.SessionID == "" {
		return Errorf(EINVALID, "feedback session ID required")
	}
	if e.MessageID == "" {
		return Errorf(EINVALID, "feedback message ID required")
	}
	switch e.Rating {
	case RatingPositive, RatingNegative, RatingComment:
	default:
		return Errorf(EINVALID, "unknown feedback rating %q", e.Rating)
	}
	return nil
}

// FeedbackEntry is the gate's verdict on a feedback event. Accepted is
// computed exactly once at submission time and never changes.
type FeedbackEntry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	MessageID  string    `json:"messageId"`
	Rating     Rating    `json:"rating"`
	Confidence float64   `json:"confidence"`
	FreeText   string    `json:"freeText,omitempty"`
	Accepted   bool      `json:"accepted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ConfidenceScorer assigns a confidence in [0,1] to a feedback event.
// The scoring mechanism is a black box; callers must not assume any
// particular algorithm beyond the output range.
type ConfidenceScorer interface {
	Score(ctx context.Context, event FeedbackEvent) (float64, error)
}

// FeedbackStore persists accepted feedback entries. Persist is called
// only for accepted entries and must be idempotent on
// (session ID, message ID, rating): re-persisting an identical entry
// returns the stored one without creating a duplicate.
type FeedbackStore interface {
	// Persist stores the entry. Returns created=false when an entry
	// with the same (session, message, rating) key already exists, in
	// which case the stored entry is returned.
	Persist(ctx context.Context, entry *FeedbackEntry) (stored *FeedbackEntry, created bool, err error)
}
