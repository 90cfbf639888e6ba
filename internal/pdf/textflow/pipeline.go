package textflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
	"github.com/a3tai/pdftextflow/internal/pdf/layout"
	"github.com/a3tai/pdftextflow/internal/pdf/wrapper"
)

// Default page margins in points, applied when no override is given:
// left, top, right, bottom.
var DefaultMargins = [4]int{10, 10, 10, 10}

// Options configures a text extraction run.
type Options struct {
	// Margins is the default page clip margin (left, top, right, bottom).
	Margins [4]int
	// MarginOverrides maps 1-based page numbers to their margins.
	MarginOverrides map[int][4]int
	// Pages restricts extraction to the given 1-based pages. Empty means
	// all pages.
	Pages []int
	// Abbreviations suppress sentence boundaries after matching tokens.
	Abbreviations []string
	// KeepHeadlines preserves outline titles as standalone fragments
	// instead of filtering them out with the other non-body text.
	KeepHeadlines bool
	// BackgroundAware treats background drawings as obstacles and orders
	// text on shaded areas behind the plain text.
	BackgroundAware bool
	// MaxBodyFonts is the number of font pairs kept by the body filter.
	MaxBodyFonts int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Margins:       DefaultMargins,
		KeepHeadlines: true,
		MaxBodyFonts:  1,
	}
}

// Pipeline extracts the running text of a document in two passes: the
// first pass collects and shapes every page's content and the document
// font statistics; the second pass marks headlines, filters to the body
// font, re-merges the surviving blocks and assembles the output text.
type Pipeline struct {
	opts      Options
	extractor *PageContentExtractor
	boxes     *layout.BoundingBoxPipeline
	filter    *FontSizeFilter
	segmenter *SentenceSegmenter
}

// NewPipeline returns a pipeline for the given options.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{
		opts:      opts,
		extractor: NewPageContentExtractor(opts.BackgroundAware),
		boxes:     layout.NewBoundingBoxPipeline(opts.BackgroundAware),
		filter:    NewFontSizeFilter(opts.MaxBodyFonts),
		segmenter: NewSentenceSegmenter(opts.Abbreviations),
	}
}

// ExtractDocument runs the full pipeline over doc and returns the
// extracted text: sentences separated by blank lines, empty for
// documents without body text.
func (p *Pipeline) ExtractDocument(ctx context.Context, doc wrapper.PDFDocument) (string, error) {
	_, sentences, err := p.Run(ctx, doc)
	if err != nil {
		return "", err
	}
	return strings.Join(sentences, "\n\n"), nil
}

// Run executes both passes and returns the document arena alongside the
// assembled sentences, for callers that also need the intermediate
// geometry (statistics, layout reports). The arena reflects the final
// state: filtered blocks, merged boxes, headline flags set.
func (p *Pipeline) Run(ctx context.Context, doc wrapper.PDFDocument) (*content.DocumentContent, []string, error) {
	pageCount, err := doc.GetPageCount()
	if err != nil {
		return nil, nil, fmt.Errorf("reading page count: %w", err)
	}

	relevant := make(map[int]bool, len(p.opts.Pages))
	for _, n := range p.opts.Pages {
		relevant[n] = true
	}

	docContent := content.NewDocumentContent()
	for n := 1; n <= pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if len(relevant) > 0 && !relevant[n] {
			continue
		}

		page, err := doc.GetPage(n)
		if err != nil {
			return nil, nil, fmt.Errorf("reading page %d: %w", n, err)
		}
		pc, err := p.extractor.Extract(page, p.marginsFor(n))
		if err != nil {
			return nil, nil, fmt.Errorf("extracting page %d: %w", n, err)
		}
		p.boxes.Run(pc)
		docContent.AddPage(pc)
	}

	docContent.Finalize()
	if docContent.Fonts.Total() == 0 {
		return docContent, nil, nil
	}

	if p.opts.KeepHeadlines {
		outline, err := doc.GetOutline()
		if err == nil && len(outline) > 0 {
			detector := NewHeadlineDetector(BuildTOCEntries(outline), docContent.BodySize())
			for _, pc := range docContent.Pages {
				detector.MarkPage(pc)
			}
		}
	}

	selected := p.filter.Select(docContent.Fonts)
	for _, pc := range docContent.Pages {
		p.filter.FilterPage(pc, selected)
		p.boxes.Merge(pc)
	}

	assembler := NewTextAssembler(docContent.BodySize())
	fragments := assembler.Assemble(docContent)

	var sentences []string
	for _, fragment := range fragments {
		sentences = append(sentences, p.segmenter.Split(fragment)...)
	}
	return docContent, sentences, nil
}

// marginsFor resolves the clip margins of a 1-based page number.
func (p *Pipeline) marginsFor(page int) [4]int {
	if m, ok := p.opts.MarginOverrides[page]; ok {
		return m
	}
	return p.opts.Margins
}
