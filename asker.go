package askdoc

import "context"

// Asker generates a natural language answer from ranked retrieval
// results. Answer generation is an external collaborator consuming
// retrieval output; the core only defines the handoff.
type Asker interface {
	// Ask answers a question using the supplied ranked results.
	// Returns ENOTFOUND if results is empty.
	Ask(ctx context.Context, question string, results []RetrievalResult) (string, error)
}
