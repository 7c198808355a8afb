package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/askdoc"
	"github.com/fwojciec/askdoc/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	req := crawl.Request{
		SeedURL:        c.URL,
		MaxPages:       c.MaxPages,
		MaxDepth:       c.MaxDepth,
		AllowedDomains: c.Domain,
		Filter:         filter,
	}

	run, err := deps.Crawler.Crawl(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	// Index pages as they arrive rather than waiting for the crawl to
	// finish. When an export directory is set, pages pass through the
	// store on the way to the indexer.
	pages := run.Pages
	if deps.Pages != nil {
		pages = c.export(deps, run.Pages)
	}

	result, err := deps.Indexer.Index(deps.Ctx, pages)
	if deps.Pages != nil {
		if err != nil {
			_ = deps.Pages.Abort()
		} else if commitErr := deps.Pages.Commit(); commitErr != nil {
			fmt.Fprintf(deps.Stderr, "error exporting pages: %s\n", askdoc.ErrorMessage(commitErr))
			return commitErr
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error indexing: %s\n", askdoc.ErrorMessage(err))
		return err
	}

	summary := run.Summary()
	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed, %s)\n",
		summary.Emitted, summary.Failed, crawl.FormatBytes(summary.Bytes))
	fmt.Fprintf(deps.Stdout, "Indexed %d chunks (%d unchanged, %d failed, %s)\n",
		result.Submitted, result.Skipped, result.Failed, crawl.FormatTokens(result.Tokens))
	return nil
}

// filter compiles the --include/--exclude patterns into a URL filter
// for sitemap seeding. Returns nil when no patterns are set.
func (c *CrawlCmd) filter() (*askdoc.URLFilter, error) {
	if len(c.Include) == 0 && len(c.Exclude) == 0 {
		return nil, nil
	}
	filter := &askdoc.URLFilter{}
	for _, p := range c.Include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, askdoc.Errorf(askdoc.EINVALID, "invalid include pattern %q: %v", p, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, p := range c.Exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, askdoc.Errorf(askdoc.EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}

// export saves each page to the page store before forwarding it to the
// indexer. A save failure is reported but never stops indexing.
func (c *CrawlCmd) export(deps *Dependencies, in <-chan askdoc.Page) <-chan askdoc.Page {
	out := make(chan askdoc.Page)
	go func() {
		defer close(out)
		for page := range in {
			if err := deps.Pages.Save(deps.Ctx, &page); err != nil {
				fmt.Fprintf(deps.Stderr, "  export %s: %s\n", page.URL, askdoc.ErrorMessage(err))
			}
			select {
			case out <- page:
			case <-deps.Ctx.Done():
				return
			}
		}
	}()
	return out
}
