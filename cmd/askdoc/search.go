package main

import (
	"fmt"

	"github.com/fwojciec/askdoc"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	cfg := askdoc.RetrievalConfig{
		Mode:                askdoc.RetrievalMode(c.Mode),
		ConfidenceThreshold: c.Threshold,
		Alpha:               c.Alpha,
		MMRStrength:         c.MMR,
		Limit:               c.Limit,
	}

	results, err := deps.Retriever.Retrieve(deps.Ctx, c.Query, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}

	for _, r := range results {
		title := r.Chunk.Title
		if title == "" {
			title = r.Chunk.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "%2d. [%.3f] %s\n    %s\n", r.Rank, r.CombinedScore, title, r.Chunk.SourceURL)
	}
	return nil
}
