package main

import (
	"fmt"

	"github.com/fwojciec/askdoc"
)

// Run executes the chunks command.
func (c *ChunksCmd) Run(deps *Dependencies) error {
	filter := askdoc.ChunkFilter{
		Offset: c.Offset,
		Limit:  c.Limit,
	}
	if c.Source != "" {
		filter.SourceURL = &c.Source
	}

	chunks, err := deps.KB.ListChunks(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	if len(chunks) == 0 {
		fmt.Fprintln(deps.Stdout, "No chunks found. Use 'askdoc crawl' to index a site.")
		return nil
	}

	for _, chunk := range chunks {
		fmt.Fprintf(deps.Stdout, "%s  %s #%d\n", chunk.Hash, chunk.SourceURL, chunk.Position)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "%s\n\n", chunk.Text)
		}
	}
	return nil
}
