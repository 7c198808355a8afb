package main

import (
	"fmt"

	"github.com/fwojciec/askdoc"
)

// Run executes the feedback command.
func (c *FeedbackCmd) Run(deps *Dependencies) error {
	event := askdoc.FeedbackEvent{
		SessionID: c.Session,
		MessageID: c.Message,
		Rating:    askdoc.Rating(c.Rating),
		FreeText:  c.Text,
		Question:  c.Question,
		Answer:    c.Answer,
	}

	entry, err := deps.Gate.Submit(deps.Ctx, event)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	if !entry.Accepted {
		fmt.Fprintf(deps.Stdout, "Feedback rejected (confidence %.2f below threshold)\n", entry.Confidence)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Feedback recorded as %s (confidence %.2f)\n", entry.ID, entry.Confidence)
	return nil
}
