package main

import (
	"fmt"

	"github.com/fwojciec/askdoc"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	cfg := askdoc.DefaultRetrievalConfig()
	cfg.ConfidenceThreshold = c.Threshold
	cfg.Limit = c.Limit

	results, err := deps.Retriever.Retrieve(deps.Ctx, c.Question, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no indexed documentation matches the question. Run 'askdoc crawl <url>' first, or lower --threshold.")
		return askdoc.Errorf(askdoc.ENOTFOUND, "no documentation context for question")
	}

	answer, err := deps.Asker.Ask(deps.Ctx, c.Question, results)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
