// Package content defines the data model flowing through the extraction
// pipeline: spans, lines, blocks, per-page content and document-wide
// aggregates, plus the font statistics derived from them.
package content

import (
	"strings"
	"unicode"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// Span is a run of text sharing one font name and size. Font is the raw
// name reported by the backend; Root is the clustered root it resolves to,
// filled in when the line is built.
type Span struct {
	Text string  `json:"text"`
	Font string  `json:"font"`
	Root string  `json:"root"`
	Size float64 `json:"size"`
}

// Key returns the span's (font root, normalized size) pair.
func (s Span) Key() FontKey {
	return FontKey{Root: s.Root, Size: NormalizeSize(s.Size)}
}

// TextLine is one laid-out line of text. Font and Size hold the dominant
// (font root, normalized size) pair of the line: the pair with the greatest
// cumulative character count over the line's spans, whitespace excluded.
// A line belongs to exactly one TextBlock.
type TextLine struct {
	Spans    []Span        `json:"spans"`
	BBox     geometry.Rect `json:"bbox"`
	Font     string        `json:"font"`
	Size     float64       `json:"size"`
	Headline bool          `json:"headline"`
}

// NewTextLine builds a line from its spans, deriving the dominant font pair.
// roots maps raw font names to their clustered root; names missing from the
// map are used verbatim.
func NewTextLine(spans []Span, bbox geometry.Rect, roots map[string]string) TextLine {
	line := TextLine{Spans: make([]Span, len(spans)), BBox: bbox}

	counts := make(map[FontKey]int)
	var order []FontKey
	for i, s := range spans {
		if root, ok := roots[s.Font]; ok {
			s.Root = root
		} else {
			s.Root = s.Font
		}
		line.Spans[i] = s

		key := s.Key()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key] += strippedLen(s.Text)
	}

	best := -1
	for _, key := range order {
		if counts[key] > best {
			best = counts[key]
			line.Font = key.Root
			line.Size = key.Size
		}
	}
	return line
}

// Text returns the concatenated span fragments. Span boundaries mark style
// changes, not word boundaries, so no separator is inserted.
func (l *TextLine) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsBlank reports whether the line contains only whitespace.
func (l *TextLine) IsBlank() bool {
	return strings.TrimSpace(l.Text()) == ""
}

// Key returns the line's dominant font pair.
func (l *TextLine) Key() FontKey {
	return FontKey{Root: l.Font, Size: l.Size}
}

// TextBlock is an ordered list of lines. Blocks are mutated in place by the
// bounding-box pipeline (merges append line lists) and the font filter
// (non-body lines are removed).
type TextBlock struct {
	Lines []TextLine `json:"lines"`
}

// BBox returns the union of the block's non-blank line boxes. The second
// return value is false when every line is blank.
func (b *TextBlock) BBox() (geometry.Rect, bool) {
	var box geometry.Rect
	found := false
	for i := range b.Lines {
		if b.Lines[i].IsBlank() {
			continue
		}
		if !found {
			box = b.Lines[i].BBox
			found = true
			continue
		}
		box = box.Union(b.Lines[i].BBox)
	}
	return box, found
}

// Text returns the block's lines joined by newlines, blank lines included.
func (b *TextBlock) Text() string {
	parts := make([]string, len(b.Lines))
	for i := range b.Lines {
		parts[i] = b.Lines[i].Text()
	}
	return strings.Join(parts, "\n")
}

// DominantKey returns the block's dominant (font root, normalized size)
// pair: the pair with the greatest cumulative character count over all
// spans of all lines, whitespace excluded. Ties keep the first pair seen.
// The second return value is false when the block holds no countable text.
func (b *TextBlock) DominantKey() (FontKey, bool) {
	counts := make(map[FontKey]int)
	var order []FontKey
	for i := range b.Lines {
		for _, s := range b.Lines[i].Spans {
			key := s.Key()
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key] += strippedLen(s.Text)
		}
	}

	var dominant FontKey
	best := 0
	found := false
	for _, key := range order {
		if counts[key] > best {
			best = counts[key]
			dominant = key
			found = true
		}
	}
	return dominant, found
}

// AllHeadline reports whether every line of the block carries the headline
// flag. True for empty blocks.
func (b *TextBlock) AllHeadline() bool {
	for i := range b.Lines {
		if !b.Lines[i].Headline {
			return false
		}
	}
	return true
}

// NoneHeadline reports whether no line of the block carries the headline
// flag. True for empty blocks.
func (b *TextBlock) NoneHeadline() bool {
	for i := range b.Lines {
		if b.Lines[i].Headline {
			return false
		}
	}
	return true
}

// SetHeadline sets the headline flag on every line of the block.
func (b *TextBlock) SetHeadline(v bool) {
	for i := range b.Lines {
		b.Lines[i].Headline = v
	}
}

// PageContent holds everything the pipeline derives from one page. Blocks
// and BBoxes are parallel, index-aligned slices; every mutation must keep
// them the same length.
type PageContent struct {
	Page        int              `json:"page"`
	Geometry    geometry.Rect    `json:"geometry"`
	Blocks      []*TextBlock     `json:"blocks"`
	BBoxes      []geometry.IRect `json:"bboxes"`
	Obstacles   []geometry.IRect `json:"obstacles"`
	Backgrounds []geometry.IRect `json:"backgrounds"`
	Fonts       Histogram        `json:"fonts"`
}

// NewPageContent returns an empty page with an initialized histogram.
func NewPageContent(page int, geom geometry.Rect) *PageContent {
	return &PageContent{
		Page:     page,
		Geometry: geom,
		Fonts:    make(Histogram),
	}
}

// Append adds a block and its bounding box, preserving the parallel-slice
// invariant.
func (p *PageContent) Append(block *TextBlock, bbox geometry.IRect) {
	p.Blocks = append(p.Blocks, block)
	p.BBoxes = append(p.BBoxes, bbox)
}

// Len returns the number of blocks on the page.
func (p *PageContent) Len() int { return len(p.Blocks) }

// DocumentContent is the per-document arena of page content plus the
// aggregated font statistics that gate the second pipeline pass.
type DocumentContent struct {
	Pages []*PageContent `json:"pages"`
	Fonts Histogram      `json:"fonts"`
	Body  FontKey        `json:"body"`
}

// NewDocumentContent returns an empty document aggregate.
func NewDocumentContent() *DocumentContent {
	return &DocumentContent{Fonts: make(Histogram)}
}

// AddPage appends a page and folds its histogram into the document total.
func (d *DocumentContent) AddPage(p *PageContent) {
	d.Pages = append(d.Pages, p)
	d.Fonts.Merge(p.Fonts)
}

// Finalize derives the document body font pair from the aggregate
// histogram. It must run after the last AddPage and before headline
// detection or filtering.
func (d *DocumentContent) Finalize() {
	if key, ok := d.Fonts.MostFrequent(); ok {
		d.Body = key
	}
}

// BodySize returns the dominant body font size, zero before Finalize.
func (d *DocumentContent) BodySize() float64 { return d.Body.Size }

// TOCEntry is one table-of-contents title prepared for headline matching.
// Used flips to true when a headline consumes the entry; at most one
// headline may consume a given entry.
type TOCEntry struct {
	Title   string `json:"title"`
	Cleaned string `json:"cleaned"`
	Page    int    `json:"page"`
	Used    bool   `json:"used"`
}

// NewTOCEntry builds an entry with its pre-cleaned matching text.
func NewTOCEntry(title string, page int) *TOCEntry {
	return &TOCEntry{Title: title, Cleaned: CleanText(title), Page: page}
}

// CleanText canonicalizes text for headline/TOC comparison: lowercased,
// with digits, whitespace, punctuation and underscores removed. Only
// letters survive.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// strippedLen counts the characters of s excluding all whitespace.
func strippedLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
