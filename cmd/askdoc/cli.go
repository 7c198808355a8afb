package main

import (
	"context"
	"io"

	"github.com/fwojciec/askdoc"
	"github.com/fwojciec/askdoc/crawl"
	"github.com/fwojciec/askdoc/feedback"
	"github.com/fwojciec/askdoc/index"
	"github.com/fwojciec/askdoc/retrieve"
	"github.com/fwojciec/askdoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	KB        askdoc.KnowledgeBase
	Pages     askdoc.PageStore
	Crawler   *crawl.Crawler
	Indexer   *index.Indexer
	Retriever *retrieve.Retriever
	Asker     askdoc.Asker
	Gate      *feedback.Gate
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service calls to stderr"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl a documentation site and index its pages"`
	Search   SearchCmd   `cmd:"" help:"Search indexed documentation"`
	Ask      AskCmd      `cmd:"" help:"Ask a question about indexed documentation"`
	Feedback FeedbackCmd `cmd:"" help:"Submit feedback on an answer"`
	Chunks   ChunksCmd   `cmd:"" help:"List indexed chunks"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL          string   `arg:"" help:"Seed documentation URL"`
	MaxPages     int      `short:"n" default:"100" help:"Maximum pages to crawl"`
	MaxDepth     int      `short:"d" default:"3" help:"Maximum link depth from the seed"`
	Domain       []string `short:"D" name:"domain" help:"Allowed domain (repeatable, defaults to seed host)"`
	ChunkSize    int      `default:"1200" help:"Chunk window size in characters"`
	ChunkOverlap int      `default:"200" help:"Overlap between adjacent chunks in characters"`
	Concurrency  int      `short:"c" default:"10" help:"Concurrent fetch limit"`
	Rate         float64  `short:"r" default:"1" help:"Requests per second per domain"`
	Browser      bool     `default:"true" negatable:"" help:"Fetch with a headless browser (--no-browser uses plain HTTP)"`
	Extractor    string   `default:"trafilatura" enum:"trafilatura,readability" help:"Content extraction engine"`
	Out          string   `short:"o" help:"Also export crawled pages as markdown to this directory"`
	NoSitemap    bool     `help:"Skip sitemap pre-seeding"`
	Include      []string `help:"Regex a sitemap URL must match to be seeded (repeatable)"`
	Exclude      []string `help:"Regex that removes matching sitemap URLs from seeding (repeatable)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query     string  `arg:"" help:"Search query"`
	Mode      string  `default:"hybrid" enum:"hybrid,vector,text" help:"Retrieval mode"`
	Threshold float64 `name:"confidence" default:"0.7" help:"Minimum vector similarity for a candidate"`
	Alpha     float64 `default:"0.5" help:"Vector weight in hybrid scoring"`
	MMR       float64 `name:"mmr" default:"0.7" help:"Relevance vs diversity trade-off"`
	Limit     int     `short:"l" default:"15" help:"Maximum results"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question  string  `arg:"" help:"Question to ask about the documentation"`
	Threshold float64 `name:"confidence" default:"0.7" help:"Minimum vector similarity for retrieved context"`
	Limit     int     `short:"l" default:"15" help:"Maximum context chunks"`
}

// FeedbackCmd is the "feedback" subcommand.
type FeedbackCmd struct {
	Session  string `arg:"" help:"Chat session ID"`
	Message  string `arg:"" help:"Message ID the feedback refers to"`
	Rating   string `arg:"" enum:"positive,negative,comment" help:"Feedback rating"`
	Text     string `arg:"" optional:"" help:"Free-text comment"`
	Question string `help:"Question the feedback refers to"`
	Answer   string `help:"Answer the feedback refers to"`

	Acceptance float64 `name:"acceptance-threshold" default:"0.7" help:"Minimum confidence for feedback to be persisted"`
}

// ChunksCmd is the "chunks" subcommand.
type ChunksCmd struct {
	Source string `short:"s" help:"Filter by source URL"`
	Offset int    `default:"0" help:"Pagination offset"`
	Limit  int    `short:"l" default:"50" help:"Maximum chunks listed"`
	Full   bool   `help:"Show full chunk text"`
}
