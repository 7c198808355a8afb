// Package index turns crawled pages into deduplicated, searchable
// chunks. Chunking is deterministic: the same page content always
// produces the same chunks with the same content hashes, which makes
// re-indexing an unchanged page a no-op at the storage layer.
package index

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/askdoc"
)

// Chunking defaults, in runes.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
)

// Chunker splits page markdown into fixed-size overlapping chunks.
// Boundaries are aligned to word breaks so a word is never split
// across two chunks.
type Chunker struct {
	// Size is the maximum chunk length in runes. Defaults to
	// DefaultChunkSize.
	Size int

	// Overlap is how many runes consecutive chunks share. Defaults to
	// DefaultChunkOverlap. Must be smaller than Size.
	Overlap int
}

func (c *Chunker) size() int {
	if c.Size <= 0 {
		return DefaultChunkSize
	}
	return c.Size
}

func (c *Chunker) overlap() int {
	if c.Overlap <= 0 {
		return DefaultChunkOverlap
	}
	if c.Overlap >= c.size() {
		return c.size() / 4
	}
	return c.Overlap
}

// ChunkPage splits a page into chunks. Each chunk carries the title of
// the markdown section it starts in and its position within the page.
// Empty or whitespace-only pages produce no chunks.
func (c *Chunker) ChunkPage(page *askdoc.Page) []*askdoc.Chunk {
	content := page.Content
	if strings.TrimSpace(content) == "" {
		return nil
	}

	sections := askdoc.ExtractSections(content)

	runes := []rune(content)
	size := c.size()
	overlap := c.overlap()

	// byteOff[i] is the byte offset of runes[i] in content, used to
	// map rune positions back to section offsets.
	byteOff := make([]int, len(runes)+1)
	for i, r := range runes {
		byteOff[i+1] = byteOff[i] + len(string(r))
	}

	var chunks []*askdoc.Chunk
	position := 0
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = alignToWordBoundary(runes, start, end)
		}

		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			chunks = append(chunks, &askdoc.Chunk{
				Hash:      HashText(text),
				Text:      text,
				SourceURL: page.URL,
				Position:  position,
				Title:     askdoc.SectionAt(sections, byteOff[start]),
				CrawledAt: page.FetchedAt,
			})
			position++
		}

		if end == len(runes) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// alignToWordBoundary moves end back to the nearest word break. If no
// break exists in the second half of the window the cut stays put
// rather than producing a degenerate chunk.
func alignToWordBoundary(runes []rune, start, end int) int {
	floor := start + (end-start)/2
	for i := end; i > floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

// HashText returns the content hash for a chunk: xxhash over the
// whitespace-normalized text, so formatting-only differences do not
// produce distinct chunks.
func HashText(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	return fmt.Sprintf("%016x", xxhash.Sum64String(normalized))
}
