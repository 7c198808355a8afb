// Package feedback implements the confidence gate in front of the
// feedback store: every event is scored, but only events whose
// confidence clears the acceptance threshold are persisted.
package feedback

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/fwojciec/askdoc"
	"github.com/google/uuid"
)

// lockStripes is the number of mutexes duplicate submissions are
// spread over.
const lockStripes = 64

// Gate scores incoming feedback and persists what clears the
// threshold. Safe for concurrent use.
type Gate struct {
	Scorer askdoc.ConfidenceScorer
	Store  askdoc.FeedbackStore

	// Threshold is the minimum confidence for persistence, inclusive.
	// Nil means DefaultAcceptanceThreshold; an explicit zero accepts
	// every valid event.
	Threshold *float64

	// Logf receives notes about rejected and duplicate submissions.
	// Optional.
	Logf func(format string, args ...any)

	locks [lockStripes]sync.Mutex
}

func (g *Gate) threshold() float64 {
	if g.Threshold == nil {
		return askdoc.DefaultAcceptanceThreshold
	}
	return *g.Threshold
}

// Submit scores one feedback event and returns the resulting entry.
// The entry is always returned, accepted or not; only accepted entries
// reach the store. Submitting the same (session, message, rating)
// twice persists a single entry: concurrent duplicates serialize on a
// striped lock and the store's key constraint absorbs the rest.
func (g *Gate) Submit(ctx context.Context, event askdoc.FeedbackEvent) (*askdoc.FeedbackEntry, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	confidence, err := g.Scorer.Score(ctx, event)
	if err != nil {
		return nil, err
	}
	confidence = clamp(confidence)

	entry := &askdoc.FeedbackEntry{
		ID:         uuid.New().String(),
		SessionID:  event.SessionID,
		MessageID:  event.MessageID,
		Rating:     event.Rating,
		Confidence: confidence,
		FreeText:   event.FreeText,
		Accepted:   confidence >= g.threshold(),
		CreatedAt:  time.Now().UTC(),
	}

	if !entry.Accepted {
		if g.Logf != nil {
			g.Logf("feedback rejected: session=%s message=%s confidence=%.2f", event.SessionID, event.MessageID, confidence)
		}
		return entry, nil
	}

	lock := &g.locks[stripe(event)]
	lock.Lock()
	defer lock.Unlock()

	stored, created, err := g.Store.Persist(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !created && g.Logf != nil {
		g.Logf("feedback duplicate: session=%s message=%s rating=%s", event.SessionID, event.MessageID, event.Rating)
	}
	return stored, nil
}

func stripe(event askdoc.FeedbackEvent) int {
	h := fnv.New32a()
	h.Write([]byte(event.SessionID))
	h.Write([]byte{0})
	h.Write([]byte(event.MessageID))
	h.Write([]byte{0})
	h.Write([]byte(event.Rating))
	return int(h.Sum32() % lockStripes)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
