package askdoc

import (
	"regexp"
	"strings"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Offset int    `json:"offset"` // byte offset of the heading line
}

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// ExtractSections parses markdown and returns all headings (H1-H6)
// with their byte offsets. Headings inside fenced code blocks are
// ignored.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	fences := codeBlockRanges(markdown)
	matches := headingRe.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for _, m := range matches {
		start := m[0]
		if inRanges(start, fences) {
			continue
		}
		level := m[3] - m[2]
		title := strings.TrimSpace(markdown[m[4]:m[5]])
		sections = append(sections, Section{
			Level:  level,
			Title:  title,
			Offset: start,
		})
	}

	if len(sections) == 0 {
		return nil
	}
	return sections
}

// SectionAt returns the title of the last section starting at or
// before offset, or "" if offset precedes every heading.
func SectionAt(sections []Section, offset int) string {
	title := ""
	for _, s := range sections {
		if s.Offset > offset {
			break
		}
		title = s.Title
	}
	return title
}

var codeBlockRe = regexp.MustCompile("(?s)```.*?```")

// codeBlockRanges returns the [start,end) ranges of fenced code blocks.
func codeBlockRanges(s string) [][]int {
	return codeBlockRe.FindAllStringIndex(s, -1)
}

func inRanges(offset int, ranges [][]int) bool {
	for _, r := range ranges {
		if offset >= r[0] && offset < r[1] {
			return true
		}
	}
	return false
}
