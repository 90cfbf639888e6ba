package wrapper

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// maxOutlineNodes caps the outline walk so cyclic First/Next chains in
// broken files terminate.
const maxOutlineNodes = 4096

// PDFCPULibrary implements PDFLibrary using pdfcpu. It is the structure
// backend: validation, metadata, page geometry and the outline. pdfcpu
// exposes no positioned text model, so text extraction stays with the
// ledongthuc backend.
type PDFCPULibrary struct {
	config FactoryConfig
	closed bool
}

// NewPDFCPULibrary creates a new pdfcpu library wrapper
func NewPDFCPULibrary(config FactoryConfig) *PDFCPULibrary {
	return &PDFCPULibrary{
		config: config,
		closed: false,
	}
}

// OpenFile opens a PDF from a file path
func (p *PDFCPULibrary) OpenFile(path string) (PDFDocument, error) {
	if p.closed {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "open_file", Err: ErrDocumentClosed.Err}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to open file: %w", err),
		}
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "open_file",
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	return &PDFCPUDocument{
		ctx:    ctx,
		config: p.config,
		closed: false,
	}, nil
}

// Validate runs pdfcpu's relaxed validation on the file.
func (p *PDFCPULibrary) Validate(path string) error {
	if p.closed {
		return &WrapperError{Library: LibraryPDFCPU, Op: "validate", Err: ErrDocumentClosed.Err}
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "validate",
			Err:     fmt.Errorf("validation failed: %w", err),
		}
	}
	return nil
}

// Close closes the library and releases resources
func (p *PDFCPULibrary) Close() error {
	p.closed = true
	return nil
}

// GetLibraryType returns the library type
func (p *PDFCPULibrary) GetLibraryType() LibraryType {
	return LibraryPDFCPU
}

// GetVersion returns the pdfcpu version
func (p *PDFCPULibrary) GetVersion() string {
	return "pdfcpu-" + model.VersionStr
}

// PDFCPUDocument implements PDFDocument using pdfcpu
type PDFCPUDocument struct {
	ctx    *model.Context
	config FactoryConfig
	closed bool
}

// GetPageCount returns the number of pages in the document
func (d *PDFCPUDocument) GetPageCount() (int, error) {
	if d.closed {
		return 0, &WrapperError{Library: LibraryPDFCPU, Op: "get_page_count", Err: ErrDocumentClosed.Err}
	}
	return d.ctx.PageCount, nil
}

// GetPage returns a specific page
func (d *PDFCPUDocument) GetPage(pageNum int) (PDFPage, error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "get_page", Err: ErrDocumentClosed.Err}
	}

	if pageNum < 1 || pageNum > d.ctx.PageCount {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "get_page",
			Err:     fmt.Errorf("invalid page number %d (document has %d pages)", pageNum, d.ctx.PageCount),
		}
	}

	dims, err := d.ctx.PageDims()
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "get_page",
			Err:     fmt.Errorf("failed to read page dimensions: %w", err),
		}
	}

	size := PageSize{Width: letterWidth, Height: letterHeight}
	if pageNum <= len(dims) {
		size = PageSize{Width: dims[pageNum-1].Width, Height: dims[pageNum-1].Height}
	}

	return &PDFCPUPage{
		pageNum: pageNum,
		size:    size,
	}, nil
}

// GetMetadata extracts document metadata from the info dictionary.
func (d *PDFCPUDocument) GetMetadata() (*Metadata, error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "get_metadata", Err: ErrDocumentClosed.Err}
	}

	metadata := &Metadata{
		Encrypted:  d.ctx.Encrypt != nil,
		PDFVersion: d.ctx.HeaderVersion.String(),
	}

	if d.ctx.Info == nil {
		return metadata, nil
	}
	infoDict, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil || infoDict == nil {
		return metadata, nil
	}

	metadata.Title = d.dictString(infoDict, "Title")
	metadata.Author = d.dictString(infoDict, "Author")
	metadata.Subject = d.dictString(infoDict, "Subject")
	metadata.Keywords = d.dictString(infoDict, "Keywords")
	metadata.Creator = d.dictString(infoDict, "Creator")
	metadata.Producer = d.dictString(infoDict, "Producer")
	if date, ok := d.dictDate(infoDict, "CreationDate"); ok {
		metadata.CreationDate = &date
	}
	if date, ok := d.dictDate(infoDict, "ModDate"); ok {
		metadata.ModDate = &date
	}
	return metadata, nil
}

// GetOutline returns the flattened document outline, walking the
// First/Next chains of the outline tree. Destinations are not resolved,
// so Page stays zero.
func (d *PDFCPUDocument) GetOutline() ([]OutlineItem, error) {
	if d.closed {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "get_outline", Err: ErrDocumentClosed.Err}
	}

	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "get_outline",
			Err:     fmt.Errorf("failed to get catalog: %w", err),
		}
	}

	outlinesObj, found := rootDict.Find("Outlines")
	if !found {
		return nil, nil
	}
	outlinesDict, err := d.ctx.DereferenceDict(outlinesObj)
	if err != nil || outlinesDict == nil {
		return nil, nil
	}
	firstObj, found := outlinesDict.Find("First")
	if !found {
		return nil, nil
	}

	var items []OutlineItem
	d.appendOutline(&items, firstObj, 1, maxOutlineNodes)
	return items, nil
}

// appendOutline walks one sibling chain, recursing into children. The
// budget shrinks with every visited node and stops the walk at zero.
func (d *PDFCPUDocument) appendOutline(items *[]OutlineItem, node types.Object, level, budget int) int {
	for node != nil && budget > 0 {
		dict, err := d.ctx.DereferenceDict(node)
		if err != nil || dict == nil {
			break
		}
		budget--

		if title := d.dictString(dict, "Title"); title != "" {
			*items = append(*items, OutlineItem{Title: title, Level: level})
		}
		if firstObj, found := dict.Find("First"); found {
			budget = d.appendOutline(items, firstObj, level+1, budget)
		}

		next, found := dict.Find("Next")
		if !found {
			break
		}
		node = next
	}
	return budget
}

// Close closes the document
func (d *PDFCPUDocument) Close() error {
	d.closed = true
	return nil
}

// dictString reads a text entry from a dictionary, empty when missing or
// not a string.
func (d *PDFCPUDocument) dictString(dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	s, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// dictDate reads and parses a date entry from a dictionary.
func (d *PDFCPUDocument) dictDate(dict types.Dict, key string) (time.Time, bool) {
	raw := d.dictString(dict, key)
	if raw == "" {
		return time.Time{}, false
	}
	date, err := parsePDFDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// PDFCPUPage implements PDFPage using pdfcpu
type PDFCPUPage struct {
	pageNum int
	size    PageSize
}

// GetNumber returns the page number
func (p *PDFCPUPage) GetNumber() int {
	return p.pageNum
}

// GetSize returns the page size
func (p *PDFCPUPage) GetSize() (*PageSize, error) {
	size := p.size
	return &size, nil
}

// GetTextBlocks returns the page text; pdfcpu has no positioned text
// extraction, the ledongthuc backend covers it.
func (p *PDFCPUPage) GetTextBlocks() ([]BlockElement, error) {
	return nil, nil
}

// GetImages returns image boxes; not exposed through this backend.
func (p *PDFCPUPage) GetImages() ([]geometry.Rect, error) {
	return nil, nil
}

// GetDrawings returns drawing boxes; not exposed through this backend.
func (p *PDFCPUPage) GetDrawings() ([]geometry.Rect, error) {
	return nil, nil
}

// GetTableRegions returns table boxes; not exposed through this backend.
func (p *PDFCPUPage) GetTableRegions() ([]geometry.Rect, error) {
	return nil, nil
}

// parsePDFDate parses PDF date strings of the form D:YYYYMMDDHHmmSSOHH'mm'.
func parsePDFDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimPrefix(dateStr, "D:")

	formats := []string{
		"20060102150405-07'00'",
		"20060102150405+07'00'",
		"20060102150405Z",
		"20060102150405",
		"200601021504",
		"20060102",
	}

	for _, format := range formats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse PDF date: %s", dateStr)
}
