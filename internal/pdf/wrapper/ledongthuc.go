package wrapper

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// Text layout reconstruction thresholds. ledongthuc/pdf reports one entry
// per text-showing operator, so lines and word gaps have to be rebuilt
// from the raw positions.
const (
	lineBaselineTolerance = 2.0
	wordGapFactor         = 0.3
	fallbackTextHeight    = 12.0
	letterWidth           = 612.0
	letterHeight          = 792.0

	// maxTreeDepth bounds outline recursion and page tree walks so
	// cyclic references in broken files cannot hang the reader.
	maxTreeDepth = 32
)

// LedongthucLibrary implements PDFLibrary using ledongthuc/pdf. It is the
// text backend: positioned spans, page geometry and the document outline.
type LedongthucLibrary struct {
	config FactoryConfig
	closed bool
}

// NewLedongthucLibrary creates a new ledongthuc library wrapper
func NewLedongthucLibrary(config FactoryConfig) *LedongthucLibrary {
	return &LedongthucLibrary{
		config: config,
		closed: false,
	}
}

// OpenFile opens a PDF from a file path
func (l *LedongthucLibrary) OpenFile(path string) (doc PDFDocument, err error) {
	if l.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "open_file", Err: ErrDocumentClosed.Err}
	}
	defer recoverLedongthuc("open_file", &err)

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}

	return &LedongthucDocument{
		reader:   pdfReader,
		config:   l.config,
		filePath: path,
		file:     f,
	}, nil
}

// Validate opens the file and checks that its page tree is readable.
func (l *LedongthucLibrary) Validate(path string) (err error) {
	if l.closed {
		return &WrapperError{Library: LibraryLedongthuc, Op: "validate", Err: ErrDocumentClosed.Err}
	}
	defer recoverLedongthuc("validate", &err)

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "validate",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}
	defer f.Close()

	if pdfReader.NumPage() < 1 {
		return &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "validate",
			Err:     fmt.Errorf("document has no pages"),
		}
	}
	return nil
}

// Close closes the library and releases resources
func (l *LedongthucLibrary) Close() error {
	l.closed = true
	return nil
}

// GetLibraryType returns the library type
func (l *LedongthucLibrary) GetLibraryType() LibraryType {
	return LibraryLedongthuc
}

// GetVersion returns the ledongthuc/pdf version
func (l *LedongthucLibrary) GetVersion() string {
	return "ledongthuc/pdf-0.0.0-20250511"
}

// LedongthucDocument implements PDFDocument using ledongthuc/pdf
type LedongthucDocument struct {
	reader   *pdf.Reader
	config   FactoryConfig
	closed   bool
	filePath string
	file     *os.File
}

// GetPageCount returns the number of pages in the document
func (d *LedongthucDocument) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryLedongthuc, Op: "get_page_count", Err: ErrDocumentClosed.Err}
	}
	return d.reader.NumPage(), nil
}

// GetPage returns a specific page
func (d *LedongthucDocument) GetPage(pageNum int) (page PDFPage, err error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "get_page", Err: ErrDocumentClosed.Err}
	}
	defer recoverLedongthuc("get_page", &err)

	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "get_page",
			Err:     fmt.Errorf("invalid page number %d (document has %d pages)", pageNum, d.reader.NumPage()),
		}
	}

	raw := d.reader.Page(pageNum)
	if raw.V.IsNull() {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "get_page",
			Err:     fmt.Errorf("page %d is missing from the page tree", pageNum),
		}
	}

	width, height := pageDimensions(raw.V)
	return &LedongthucPage{
		page:    raw,
		pageNum: pageNum,
		width:   width,
		height:  height,
	}, nil
}

// GetMetadata extracts document metadata from the trailer info dictionary.
func (d *LedongthucDocument) GetMetadata() (metadata *Metadata, err error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "get_metadata", Err: ErrDocumentClosed.Err}
	}
	defer recoverLedongthuc("get_metadata", &err)

	trailer := d.reader.Trailer()
	metadata = &Metadata{
		Encrypted:  !trailer.Key("Encrypt").IsNull(),
		PDFVersion: d.headerVersion(),
	}

	info := trailer.Key("Info")
	if info.IsNull() {
		return metadata, nil
	}

	metadata.Title = infoText(info, "Title")
	metadata.Author = infoText(info, "Author")
	metadata.Subject = infoText(info, "Subject")
	metadata.Keywords = infoText(info, "Keywords")
	metadata.Creator = infoText(info, "Creator")
	metadata.Producer = infoText(info, "Producer")
	if date, ok := infoDate(info, "CreationDate"); ok {
		metadata.CreationDate = &date
	}
	if date, ok := infoDate(info, "ModDate"); ok {
		metadata.ModDate = &date
	}
	return metadata, nil
}

// GetOutline returns the flattened document outline. ledongthuc/pdf does
// not resolve outline destinations, so Page stays zero.
func (d *LedongthucDocument) GetOutline() (items []OutlineItem, err error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryLedongthuc, Op: "get_outline", Err: ErrDocumentClosed.Err}
	}
	defer recoverLedongthuc("get_outline", &err)

	var walk func(node pdf.Outline, level int)
	walk = func(node pdf.Outline, level int) {
		if level > maxTreeDepth {
			return
		}
		if title := strings.TrimSpace(node.Title); title != "" {
			items = append(items, OutlineItem{Title: title, Level: level})
		}
		for _, child := range node.Child {
			walk(child, level+1)
		}
	}
	walk(d.reader.Outline(), 0)
	return items, nil
}

// Close closes the document
func (d *LedongthucDocument) Close() error {
	d.closed = true
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// headerVersion reads the PDF version from the file header.
func (d *LedongthucDocument) headerVersion() string {
	var header [16]byte
	n, _ := d.file.ReadAt(header[:], 0)
	s := string(header[:n])
	if !strings.HasPrefix(s, "%PDF-") {
		return ""
	}
	s = s[len("%PDF-"):]
	if i := strings.IndexAny(s, "\r\n \t%"); i >= 0 {
		s = s[:i]
	}
	return s
}

// LedongthucPage implements PDFPage using ledongthuc/pdf. All returned
// coordinates are flipped to the top-left origin the extraction pipeline
// works in.
type LedongthucPage struct {
	page    pdf.Page
	pageNum int
	width   float64
	height  float64
}

// GetNumber returns the page number
func (p *LedongthucPage) GetNumber() int {
	return p.pageNum
}

// GetSize returns the page size
func (p *LedongthucPage) GetSize() (*PageSize, error) {
	return &PageSize{Width: p.width, Height: p.height}, nil
}

// GetTextBlocks rebuilds lines from the page's raw text runs: runs are
// bucketed by baseline, sorted left to right and fused into spans per
// font face. Every rebuilt line becomes its own block; grouping lines
// into paragraphs is the layout pipeline's job.
func (p *LedongthucPage) GetTextBlocks() (blocks []BlockElement, err error) {
	defer recoverLedongthuc("get_text_blocks", &err)

	texts := p.page.Content().Text
	if len(texts) == 0 {
		return nil, nil
	}

	pieces := make([]pdf.Text, len(texts))
	copy(pieces, texts)
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].Y > pieces[j].Y
	})

	var rows [][]pdf.Text
	for _, t := range pieces {
		if t.S == "" {
			continue
		}
		if n := len(rows); n > 0 && math.Abs(t.Y-rows[n-1][0].Y) <= lineBaselineTolerance {
			rows[n-1] = append(rows[n-1], t)
			continue
		}
		rows = append(rows, []pdf.Text{t})
	}

	blocks = make([]BlockElement, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
		line, ok := p.buildLine(row)
		if !ok {
			continue
		}
		blocks = append(blocks, BlockElement{
			Lines:    []LineElement{line},
			Position: line.Position,
		})
	}
	return blocks, nil
}

// buildLine fuses one baseline's text runs into spans. A new span starts
// on every font or size change; a space is inserted where the horizontal
// gap between runs exceeds the word gap threshold.
func (p *LedongthucPage) buildLine(row []pdf.Text) (LineElement, bool) {
	var spans []SpanElement
	var text strings.Builder
	var font string
	var size, x0, x1, top, bottom float64

	flush := func() {
		if text.Len() == 0 {
			return
		}
		spans = append(spans, SpanElement{
			Text:     norm.NFC.String(text.String()),
			Font:     font,
			Size:     size,
			Position: geometry.NewRect(x0, top, x1, bottom),
		})
		text.Reset()
	}

	for _, t := range row {
		h := t.FontSize
		if h == 0 {
			h = fallbackTextHeight
		}
		runTop := p.height - (t.Y + h)
		runBottom := p.height - t.Y

		if text.Len() > 0 && (t.Font != font || t.FontSize != size) {
			flush()
		}
		if text.Len() == 0 {
			font, size = t.Font, t.FontSize
			x0, x1 = t.X, t.X+t.W
			top, bottom = runTop, runBottom
			text.WriteString(t.S)
			continue
		}

		if gap := t.X - x1; gap > wordGapFactor*h {
			text.WriteString(" ")
		}
		text.WriteString(t.S)
		if end := t.X + t.W; end > x1 {
			x1 = end
		}
		if runTop < top {
			top = runTop
		}
		if runBottom > bottom {
			bottom = runBottom
		}
	}
	flush()

	if len(spans) == 0 {
		return LineElement{}, false
	}
	pos := spans[0].Position
	for _, s := range spans[1:] {
		pos = pos.Union(s.Position)
	}
	return LineElement{Spans: spans, Position: pos, Dir: [2]float64{1, 0}}, true
}

// GetImages returns image boxes; ledongthuc/pdf does not expose images.
func (p *LedongthucPage) GetImages() ([]geometry.Rect, error) {
	return nil, nil
}

// GetDrawings returns drawing boxes; ledongthuc/pdf does not expose
// vector graphics.
func (p *LedongthucPage) GetDrawings() ([]geometry.Rect, error) {
	return nil, nil
}

// GetTableRegions returns table boxes; ledongthuc/pdf has no table
// detection.
func (p *LedongthucPage) GetTableRegions() ([]geometry.Rect, error) {
	return nil, nil
}

// pageDimensions resolves the page's MediaBox, walking up the page tree
// for inherited values. Pages without a resolvable MediaBox fall back to
// US Letter.
func pageDimensions(v pdf.Value) (float64, float64) {
	box := inheritedAttr(v, "MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return letterWidth, letterHeight
	}
	x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
	x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
	width, height := math.Abs(x1-x0), math.Abs(y1-y0)
	if width == 0 || height == 0 {
		return letterWidth, letterHeight
	}
	return width, height
}

// inheritedAttr looks up key on the page node or any of its ancestors.
func inheritedAttr(v pdf.Value, key string) pdf.Value {
	for depth := 0; !v.IsNull() && depth < maxTreeDepth; depth++ {
		if attr := v.Key(key); !attr.IsNull() {
			return attr
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// infoText reads a string entry of the trailer info dictionary.
func infoText(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// infoDate reads and parses a date entry of the trailer info dictionary.
func infoDate(info pdf.Value, key string) (time.Time, bool) {
	raw := infoText(info, key)
	if raw == "" {
		return time.Time{}, false
	}
	date, err := parsePDFDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// recoverLedongthuc converts the panics ledongthuc/pdf raises on
// malformed objects into wrapper errors.
func recoverLedongthuc(op string, err *error) {
	if r := recover(); r != nil {
		*err = &WrapperError{
			Library: LibraryLedongthuc,
			Op:      op,
			Err:     fmt.Errorf("malformed PDF object: %v", r),
		}
	}
}
