package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/askdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ askdoc.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore implements askdoc.FeedbackStore using SQLite. The
// unique key on (session_id, message_id, rating) makes Persist
// idempotent even across processes.
type FeedbackStore struct {
	db *DB
}

// NewFeedbackStore creates a new FeedbackStore.
func NewFeedbackStore(db *DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Persist stores the entry. An entry that already exists under the
// same (session, message, rating) key is returned unchanged with
// created=false.
func (s *FeedbackStore) Persist(ctx context.Context, entry *askdoc.FeedbackEntry) (*askdoc.FeedbackEntry, bool, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, session_id, message_id, rating, confidence, free_text, accepted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, message_id, rating) DO NOTHING
	`, entry.ID, entry.SessionID, entry.MessageID, string(entry.Rating), entry.Confidence,
		entry.FreeText, boolToInt(entry.Accepted), entry.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if affected > 0 {
		return entry, true, nil
	}

	stored, err := s.find(ctx, entry.SessionID, entry.MessageID, entry.Rating)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (s *FeedbackStore) find(ctx context.Context, sessionID, messageID string, rating askdoc.Rating) (*askdoc.FeedbackEntry, error) {
	var entry askdoc.FeedbackEntry
	var accepted int
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, message_id, rating, confidence, free_text, accepted, created_at
		FROM feedback
		WHERE session_id = ? AND message_id = ? AND rating = ?
	`, sessionID, messageID, string(rating)).Scan(&entry.ID, &entry.SessionID, &entry.MessageID,
		&entry.Rating, &entry.Confidence, &entry.FreeText, &accepted, &createdAt)
	if err != nil {
		return nil, err
	}

	entry.Accepted = accepted != 0
	if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &entry, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
