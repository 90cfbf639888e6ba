package textflow

import (
	"strings"
	"unicode/utf8"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
	"github.com/a3tai/pdftextflow/internal/pdf/wrapper"
)

// Headline matching thresholds.
const (
	defaultMinHeadlineLength     = 8
	defaultHeadlineSizeTolerance = 1
)

// HeadlineDetector marks text lines that reproduce an entry of the
// document outline. Each outline entry matches at most once, so repeated
// chapter titles in running headers cannot all become headlines.
type HeadlineDetector struct {
	entries       []*content.TOCEntry
	bodySize      float64
	minLength     int
	sizeTolerance float64
}

// NewHeadlineDetector returns a detector matching against the given
// outline entries. bodySize is the document body font size; candidates
// smaller than bodySize minus the tolerance are rejected.
func NewHeadlineDetector(entries []*content.TOCEntry, bodySize float64) *HeadlineDetector {
	return &HeadlineDetector{
		entries:       entries,
		bodySize:      bodySize,
		minLength:     defaultMinHeadlineLength,
		sizeTolerance: defaultHeadlineSizeTolerance,
	}
}

// BuildTOCEntries converts outline items into cleaned, unconsumed TOC
// entries, preserving declaration order.
func BuildTOCEntries(items []wrapper.OutlineItem) []*content.TOCEntry {
	entries := make([]*content.TOCEntry, len(items))
	for i, item := range items {
		entries[i] = content.NewTOCEntry(item.Title, item.Page)
	}
	return entries
}

// MarkPage sets the headline flag on the page's lines. Each block is
// first checked as a whole, so outline titles wrapped over several lines
// are caught; only when the block as a whole does not match are its
// lines checked one by one.
func (d *HeadlineDetector) MarkPage(pc *content.PageContent) {
	for _, block := range pc.Blocks {
		combined := strings.TrimSpace(blockText(block))
		if combined != "" {
			if key, ok := block.DominantKey(); ok && d.matches(combined, key.Size) {
				block.SetHeadline(true)
				continue
			}
		}
		for i := range block.Lines {
			line := &block.Lines[i]
			line.Headline = d.matches(lineText(line), line.Size)
		}
	}
}

// matches reports whether text is an unconsumed outline entry rendered
// at headline size, and consumes the entry on success.
func (d *HeadlineDetector) matches(text string, size float64) bool {
	if !d.hasUnusedEntries() {
		return false
	}

	cleaned := content.CleanText(text)
	if utf8.RuneCountInString(cleaned) < d.minLength {
		return false
	}
	if size < d.bodySize-d.sizeTolerance {
		return false
	}

	for _, entry := range d.entries {
		if !entry.Used && entry.Cleaned == cleaned {
			entry.Used = true
			return true
		}
	}
	return false
}

func (d *HeadlineDetector) hasUnusedEntries() bool {
	for _, entry := range d.entries {
		if !entry.Used {
			return true
		}
	}
	return false
}

// lineText joins the line's stripped span fragments with single spaces.
func lineText(line *content.TextLine) string {
	parts := make([]string, 0, len(line.Spans))
	for _, s := range line.Spans {
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}

// blockText joins the block's line texts with single spaces.
func blockText(block *content.TextBlock) string {
	parts := make([]string, 0, len(block.Lines))
	for i := range block.Lines {
		parts = append(parts, lineText(&block.Lines[i]))
	}
	return strings.Join(parts, " ")
}
