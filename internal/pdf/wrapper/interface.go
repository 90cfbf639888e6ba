package wrapper

import (
	"fmt"
	"time"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// PDFLibrary defines the unified interface for PDF operations across different libraries
type PDFLibrary interface {
	// Core operations
	OpenFile(path string) (PDFDocument, error)
	Validate(path string) error
	Close() error

	// Library identification
	GetLibraryType() LibraryType
	GetVersion() string
}

// PDFDocument represents a PDF document with unified operations
type PDFDocument interface {
	// Basic document operations
	GetPageCount() (int, error)
	GetPage(pageNum int) (PDFPage, error)
	GetMetadata() (*Metadata, error)
	Close() error

	// GetOutline returns the document outline (table of contents) as a
	// flat list in declaration order. Returns an empty slice when the
	// document carries no outline.
	GetOutline() ([]OutlineItem, error)
}

// PDFPage represents a single page in a PDF document.
//
// All coordinates returned by a page use a top-left origin: y grows
// downwards, x grows rightwards, measured in points. Implementations
// convert from the PDF-native bottom-left origin where necessary.
type PDFPage interface {
	GetNumber() int
	GetSize() (*PageSize, error)

	// GetTextBlocks returns the page text grouped into blocks, lines and
	// styled spans, in the backend's natural order.
	GetTextBlocks() ([]BlockElement, error)

	// GetImages returns the bounding boxes of raster images on the page.
	GetImages() ([]geometry.Rect, error)

	// GetDrawings returns the bounding boxes of vector drawings on the
	// page. Backends without drawing support return an empty slice.
	GetDrawings() ([]geometry.Rect, error)

	// GetTableRegions returns the bounding boxes of detected table areas.
	// Backends without table detection return an empty slice.
	GetTableRegions() ([]geometry.Rect, error)
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
	LibraryAuto       LibraryType = "auto" // Automatically select best library
)

// Common data structures used across all implementations

// Metadata contains PDF document metadata
type Metadata struct {
	Title        string     `json:"title,omitempty"`
	Author       string     `json:"author,omitempty"`
	Subject      string     `json:"subject,omitempty"`
	Keywords     string     `json:"keywords,omitempty"`
	Creator      string     `json:"creator,omitempty"`
	Producer     string     `json:"producer,omitempty"`
	CreationDate *time.Time `json:"creation_date,omitempty"`
	ModDate      *time.Time `json:"modification_date,omitempty"`
	Encrypted    bool       `json:"encrypted,omitempty"`
	PDFVersion   string     `json:"pdf_version,omitempty"`
}

// PageSize represents the dimensions of a PDF page in points
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SpanElement is a run of text sharing one font face and size
type SpanElement struct {
	Text     string        `json:"text"`
	Font     string        `json:"font"`
	Size     float64       `json:"size"`
	Position geometry.Rect `json:"position"`
}

// LineElement is a sequence of spans sharing a baseline
type LineElement struct {
	Spans    []SpanElement `json:"spans"`
	Position geometry.Rect `json:"position"`
	// Dir is the writing direction unit vector. Horizontal text is
	// (1, 0); anything else is treated as rotated.
	Dir [2]float64 `json:"dir"`
}

// Horizontal reports whether the line runs in normal reading direction.
func (l LineElement) Horizontal() bool {
	return l.Dir[0] == 1 && l.Dir[1] == 0
}

// BlockElement is a group of lines the backend considers one paragraph
// or column fragment
type BlockElement struct {
	Lines    []LineElement `json:"lines"`
	Position geometry.Rect `json:"position"`
}

// OutlineItem is one entry of the document outline
type OutlineItem struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

// Error types for wrapper operations
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrUnsupportedLibrary = &WrapperError{Op: "factory", Err: fmt.Errorf("unsupported library type")}
	ErrDocumentClosed     = &WrapperError{Op: "document", Err: fmt.Errorf("document is closed")}
	ErrInvalidPage        = &WrapperError{Op: "page", Err: fmt.Errorf("invalid page number")}
	ErrEncrypted          = &WrapperError{Op: "security", Err: fmt.Errorf("document is encrypted")}
)
