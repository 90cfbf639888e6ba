// Package textflow turns the raw page data of a PDF backend into clean
// running text. Extraction walks each page once to collect styled text
// blocks, obstacles and font statistics; a second pass over the collected
// pages marks headlines against the document outline, filters the text
// down to the body font, and assembles paragraphs that are finally split
// into sentences.
package textflow

import (
	"github.com/a3tai/pdftextflow/internal/pdf/content"
	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
	"github.com/a3tai/pdftextflow/internal/pdf/layout"
	"github.com/a3tai/pdftextflow/internal/pdf/wrapper"
)

// PageContentExtractor reads one page of a document into the content
// model: text blocks clipped to the page margins, classified obstacle
// boxes, and the page's font statistics.
type PageContentExtractor struct {
	classifier      *layout.ObstacleClassifier
	tables          *layout.TableDetector
	backgroundAware bool
}

// NewPageContentExtractor returns an extractor. With backgroundAware set,
// background drawings are added to the obstacle list so text never extends
// across shaded areas.
func NewPageContentExtractor(backgroundAware bool) *PageContentExtractor {
	return &PageContentExtractor{
		classifier:      layout.NewObstacleClassifier(),
		tables:          layout.NewTableDetector(),
		backgroundAware: backgroundAware,
	}
}

// Extract collects the content of a page, keeping only text inside the
// margin-clipped area. Margins are given as left, top, right, bottom.
func (e *PageContentExtractor) Extract(page wrapper.PDFPage, margins [4]int) (*content.PageContent, error) {
	size, err := page.GetSize()
	if err != nil {
		return nil, err
	}
	clip := geometry.Rect{
		X0: float64(margins[0]),
		Y0: float64(margins[1]),
		X1: size.Width - float64(margins[2]),
		Y1: size.Height - float64(margins[3]),
	}

	blocks, err := page.GetTextBlocks()
	if err != nil {
		return nil, err
	}

	images, err := page.GetImages()
	if err != nil {
		return nil, err
	}
	imageBoxes := roundAll(images)

	drawings, err := page.GetDrawings()
	if err != nil {
		return nil, err
	}
	classified := e.classifier.Classify(drawings)

	// Table regions are only fetched when the drawings suggest a table.
	var tableBoxes []geometry.IRect
	if e.tables.Detect(classified.VerticalLines, classified.Backgrounds) {
		regions, err := page.GetTableRegions()
		if err != nil {
			return nil, err
		}
		tableBoxes = roundAll(regions)
	}

	// First walk: split the clipped blocks into relevant text and
	// obstacles. Blocks sitting inside an image, decoration or table box
	// carry captions or cell text and are dropped.
	var nonHorizontal []geometry.IRect
	var relevant []wrapper.BlockElement
	for _, block := range blocks {
		if len(block.Lines) == 0 {
			continue
		}
		if !clip.Contains(block.Position) {
			continue
		}
		box := block.Position.Round()
		if !block.Lines[0].Horizontal() {
			nonHorizontal = append(nonHorizontal, box)
			continue
		}
		if withinAny(box, imageBoxes) || withinAny(box, classified.Decorations) || withinAny(box, tableBoxes) {
			continue
		}
		relevant = append(relevant, block)
	}

	// Cluster the page's font names so style variants of one face count
	// as the same font.
	var names []string
	for _, block := range relevant {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				names = append(names, span.Font)
			}
		}
	}
	roots := content.ClusterFontNames(names)

	pc := content.NewPageContent(page.GetNumber(), clip)
	pc.Backgrounds = classified.Backgrounds

	pc.Obstacles = append(pc.Obstacles, nonHorizontal...)
	pc.Obstacles = append(pc.Obstacles, tableBoxes...)
	pc.Obstacles = append(pc.Obstacles, imageBoxes...)
	pc.Obstacles = append(pc.Obstacles, classified.Decorations...)
	if e.backgroundAware {
		pc.Obstacles = append(pc.Obstacles, classified.Backgrounds...)
	}

	// Second walk: build the line model and accumulate the font histogram.
	for _, block := range relevant {
		tb := &content.TextBlock{Lines: make([]content.TextLine, 0, len(block.Lines))}
		for _, line := range block.Lines {
			spans := make([]content.Span, len(line.Spans))
			for i, s := range line.Spans {
				spans[i] = content.Span{Text: s.Text, Font: s.Font, Size: s.Size}
			}
			tl := content.NewTextLine(spans, line.Position, roots)
			for _, s := range tl.Spans {
				pc.Fonts.AddSpan(s)
			}
			tb.Lines = append(tb.Lines, tl)
		}

		box, ok := tb.BBox()
		if !ok {
			// Every line is blank; fall back to the first line's box so
			// the block keeps its place on the page.
			box = tb.Lines[0].BBox
		}
		pc.Append(tb, box.Round())
	}

	return pc, nil
}

// withinAny reports whether the box lies fully inside any of the outers.
func withinAny(box geometry.IRect, outers []geometry.IRect) bool {
	for _, outer := range outers {
		if outer.Contains(box) {
			return true
		}
	}
	return false
}

func roundAll(rects []geometry.Rect) []geometry.IRect {
	if len(rects) == 0 {
		return nil
	}
	out := make([]geometry.IRect, len(rects))
	for i, r := range rects {
		out[i] = r.Round()
	}
	return out
}
