package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/askdoc"
	"github.com/fwojciec/askdoc/crawl"
	"github.com/fwojciec/askdoc/feedback"
	"github.com/fwojciec/askdoc/fs"
	"github.com/fwojciec/askdoc/gemini"
	"github.com/fwojciec/askdoc/goquery"
	"github.com/fwojciec/askdoc/htmltomarkdown"
	askdochttp "github.com/fwojciec/askdoc/http"
	"github.com/fwojciec/askdoc/index"
	"github.com/fwojciec/askdoc/readability"
	"github.com/fwojciec/askdoc/retrieve"
	"github.com/fwojciec/askdoc/rod"
	askdocslog "github.com/fwojciec/askdoc/slog"
	"github.com/fwojciec/askdoc/sqlite"
	"github.com/fwojciec/askdoc/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("askdoc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'askdoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// With --verbose, service calls are logged to stderr through the
	// slog decorators.
	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set ASKDOC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB

	// The Gemini client serves embeddings, answer generation, and
	// feedback scoring. Commands that can run without it degrade to
	// text-only search or heuristic scoring.
	var client *genai.Client
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
	}

	switch cmd {
	case "crawl":
		if client == nil {
			fmt.Fprintln(stderr, "GEMINI_API_KEY not set: pages will be indexed for text search only")
		}

		var fetcher askdoc.Fetcher
		if cli.Crawl.Browser {
			fetcher, err = rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		} else {
			fetcher = askdochttp.NewFetcher()
		}
		defer fetcher.Close()
		if logger != nil {
			fetcher = askdocslog.NewLoggingFetcher(fetcher, logger)
		}

		var extractor askdoc.Extractor
		if cli.Crawl.Extractor == "readability" {
			extractor = readability.NewExtractor()
		} else {
			extractor = trafilatura.NewExtractor()
		}

		deps.Crawler = &crawl.Crawler{
			Fetcher:     fetcher,
			Links:       goquery.NewLinkExtractor(),
			Extractor:   extractor,
			Converter:   htmltomarkdown.NewConverter(),
			RateLimiter: crawl.NewDomainLimiter(cli.Crawl.Rate),
			Concurrency: cli.Crawl.Concurrency,
			Logf: func(format string, a ...any) {
				fmt.Fprintf(stderr, "  "+format+"\n", a...)
			},
		}
		if !cli.Crawl.NoSitemap {
			var sitemaps askdoc.SitemapService = askdochttp.NewSitemapService(nil)
			if logger != nil {
				sitemaps = askdocslog.NewLoggingSitemapService(sitemaps, logger)
			}
			deps.Crawler.Sitemaps = sitemaps
		}

		tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		var indexKB askdoc.KnowledgeBase = sqlite.NewKnowledgeBase(m.DB, documentEmbedder(client))
		if logger != nil {
			indexKB = askdocslog.NewLoggingKnowledgeBase(indexKB, logger)
		}

		deps.Indexer = &index.Indexer{
			KB: indexKB,
			Chunker: &index.Chunker{
				Size:    cli.Crawl.ChunkSize,
				Overlap: cli.Crawl.ChunkOverlap,
			},
			TokenCounter: tokenCounter,
			Logf: func(format string, a ...any) {
				fmt.Fprintf(stderr, "  "+format+"\n", a...)
			},
		}

		if cli.Crawl.Out != "" {
			deps.Pages = fs.NewFileStore(cli.Crawl.Out, exportName(cli.Crawl.URL))
		}

	case "search", "ask":
		var kb askdoc.KnowledgeBase = sqlite.NewKnowledgeBase(m.DB, queryEmbedder(client))
		if logger != nil {
			kb = askdocslog.NewLoggingKnowledgeBase(kb, logger)
		}
		deps.KB = kb
		deps.Retriever = &retrieve.Retriever{
			KB: kb,
			Logf: func(format string, a ...any) {
				fmt.Fprintf(stderr, "warning: "+format+"\n", a...)
			},
		}
		if cmd == "ask" {
			if client == nil {
				fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
				return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
			}
			deps.Asker = gemini.NewAsker(client)
		}

	case "feedback":
		deps.Gate = &feedback.Gate{
			Scorer:    confidenceScorer(client),
			Store:     sqlite.NewFeedbackStore(m.DB),
			Threshold: &cli.Feedback.Acceptance,
		}

	case "chunks":
		var kb askdoc.KnowledgeBase = sqlite.NewKnowledgeBase(m.DB, nil)
		if logger != nil {
			kb = askdocslog.NewLoggingKnowledgeBase(kb, logger)
		}
		deps.KB = kb
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting. The local tokenizer
// supports gemini-2.5-flash; counts are close enough for the other
// Gemini models.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("ASKDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "askdoc.db"
	}
	dir := filepath.Join(home, ".askdoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "askdoc.db")
}

// documentEmbedder returns the embedder used at indexing time, or nil
// when no client is available (chunks are then stored without vectors).
func documentEmbedder(client *genai.Client) askdoc.Embedder {
	if client == nil {
		return nil
	}
	return gemini.NewEmbedder(client)
}

// queryEmbedder returns the embedder used at query time, or nil when
// no client is available (vector search then reports unavailable).
func queryEmbedder(client *genai.Client) askdoc.Embedder {
	if client == nil {
		return nil
	}
	return gemini.NewQueryEmbedder(client)
}

// confidenceScorer prefers the LLM scorer and falls back to the
// heuristic one when no client is available.
func confidenceScorer(client *genai.Client) askdoc.ConfidenceScorer {
	if client == nil {
		return &feedback.HeuristicScorer{}
	}
	return gemini.NewScorer(client)
}

// exportName derives a directory name for page exports from the seed
// URL's host.
func exportName(seedURL string) string {
	u, err := url.Parse(seedURL)
	if err != nil || u.Host == "" {
		return "site"
	}
	return u.Host
}
