package textflow

import (
	"github.com/a3tai/pdftextflow/internal/pdf/content"
)

// FontSizeFilter reduces a document to its body text: only lines whose
// dominant font pair belongs to the most frequent pairs survive, except
// lines already marked as headlines.
type FontSizeFilter struct {
	maxFonts int
}

// NewFontSizeFilter returns a filter keeping the maxFonts most frequent
// font pairs. Values below one keep a single pair.
func NewFontSizeFilter(maxFonts int) *FontSizeFilter {
	if maxFonts < 1 {
		maxFonts = 1
	}
	return &FontSizeFilter{maxFonts: maxFonts}
}

// Select returns the font pairs to keep, most frequent first.
func (f *FontSizeFilter) Select(hist content.Histogram) []content.FontKey {
	return hist.TopKeys(f.maxFonts)
}

// FilterPage removes all lines not set in selected and not marked as
// headlines. Blocks left without lines are dropped together with their
// bounding boxes; surviving boxes keep their extent.
func (f *FontSizeFilter) FilterPage(pc *content.PageContent, selected []content.FontKey) {
	keep := make(map[content.FontKey]struct{}, len(selected))
	for _, key := range selected {
		keep[key] = struct{}{}
	}

	blocks := pc.Blocks[:0]
	boxes := pc.BBoxes[:0]
	for i, block := range pc.Blocks {
		lines := block.Lines[:0]
		for _, line := range block.Lines {
			if line.Headline {
				lines = append(lines, line)
				continue
			}
			if _, ok := keep[line.Key()]; ok {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		block.Lines = lines
		blocks = append(blocks, block)
		boxes = append(boxes, pc.BBoxes[i])
	}
	pc.Blocks = blocks
	pc.BBoxes = boxes
}
