package textflow

import (
	"strings"
	"unicode"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
)

// wordBreakChars are the characters that continue a word across a line
// break: soft hyphen, hyphen-minus, zero width space, word joiner and
// zero width no-break space.
const wordBreakChars = "­-​⁠\uFEFF"

// Spans rendered below this fraction of the body size are footnote and
// reference markers, not text.
const minSpanSizeRatio = 0.75

// TextAssembler flattens the filtered document content into paragraph
// strings. Lines are joined with hyphenation undone, tiny spans such as
// footnote markers are dropped while fusing their neighbours, and
// headline blocks break the paragraph flow as standalone fragments.
type TextAssembler struct {
	bodySize float64
}

// NewTextAssembler returns an assembler for a document whose body font
// renders at bodySize.
func NewTextAssembler(bodySize float64) *TextAssembler {
	return &TextAssembler{bodySize: bodySize}
}

// Assemble walks the document in page order and returns the flattened
// fragments: accumulated paragraphs and standalone headlines, in reading
// order.
func (a *TextAssembler) Assemble(doc *content.DocumentContent) []string {
	var fragments []string
	var pending []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		fragments = append(fragments, joinFragments(pending))
		pending = pending[:0]
	}

	for _, pc := range doc.Pages {
		for _, block := range pc.Blocks {
			text := a.blockText(block)

			if !block.NoneHeadline() {
				flush()
				if text != "" {
					fragments = append(fragments, text)
				}
				continue
			}
			if text != "" {
				pending = append(pending, text)
			}
		}
	}
	flush()

	return fragments
}

// blockText renders one block: spans below the size threshold are
// dropped, fusing the spans around them without a space, the surviving
// spans of a line join with single spaces, and lines ending in a word
// break character concatenate with the next line.
func (a *TextAssembler) blockText(block *content.TextBlock) string {
	lines := make([]string, 0, len(block.Lines))
	for i := range block.Lines {
		if text := a.lineText(&block.Lines[i]); text != "" {
			lines = append(lines, text)
		}
	}
	return joinFragments(lines)
}

func (a *TextAssembler) lineText(line *content.TextLine) string {
	var parts []string
	spans := line.Spans
	for i := 0; i < len(spans); i++ {
		text := strings.TrimSpace(spans[i].Text)

		if spans[i].Size < minSpanSizeRatio*a.bodySize {
			// Marker span. Its text is dropped; the spans around it are
			// fused directly so "word" + "¹" + "." reads "word.".
			if len(parts) > 0 && i+1 < len(spans) {
				parts[len(parts)-1] += strings.TrimSpace(spans[i+1].Text)
				i++
			}
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// joinFragments folds text fragments into one string. A fragment ending
// in a word break character fuses with the next one, all break
// characters removed; otherwise fragments join with a single space.
func joinFragments(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	merged := fragments[0]
	for _, f := range fragments[1:] {
		trimmed := strings.TrimRight(merged, wordBreakChars)
		if merged != "" && trimmed != merged {
			merged = trimmed + strings.TrimLeftFunc(f, unicode.IsSpace)
			continue
		}
		merged += " " + f
	}
	return merged
}
