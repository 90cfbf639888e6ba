package pdf

import "time"

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// OutlineEntry is one flattened document outline item.
type OutlineEntry struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Page  int    `json:"page,omitempty"`
}

// Request Types

// PDFExtractTextRequest represents a request to extract the running text
// of a PDF file. Pages optionally restricts extraction to a page
// selection like "6-11,14"; empty processes every page.
type PDFExtractTextRequest struct {
	Path  string `json:"path"`
	Pages string `json:"pages,omitempty"`
}

// PDFDocumentInfoRequest represents a request for document metadata
type PDFDocumentInfoRequest struct {
	Path string `json:"path"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// PDFServerInfoRequest represents a request to get server information and capabilities
type PDFServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// PDFExtractTextResult represents the result of a text extraction run:
// the reconstructed sentences plus the run's key statistics.
type PDFExtractTextResult struct {
	Path       string  `json:"path"`
	Text       string  `json:"text"`
	PageCount  int     `json:"page_count"`
	PagesUsed  []int   `json:"pages_used"`
	Sentences  int     `json:"sentences"`
	Headlines  int     `json:"headlines"`
	BodyFont   string  `json:"body_font,omitempty"`
	BodySize   float64 `json:"body_size,omitempty"`
	Cached     bool    `json:"cached"`
	RunID      string  `json:"run_id"`
	DurationMS int64   `json:"duration_ms"`
}

// PDFDocumentInfoResult represents document structure and metadata
type PDFDocumentInfoResult struct {
	Path             string         `json:"path"`
	Size             int64          `json:"size"`
	Pages            int            `json:"pages"`
	Version          string         `json:"version,omitempty"`
	Encrypted        bool           `json:"encrypted"`
	Title            string         `json:"title,omitempty"`
	Author           string         `json:"author,omitempty"`
	Subject          string         `json:"subject,omitempty"`
	Keywords         string         `json:"keywords,omitempty"`
	Creator          string         `json:"creator,omitempty"`
	Producer         string         `json:"producer,omitempty"`
	CreationDate     string         `json:"creation_date,omitempty"`
	ModificationDate string         `json:"modification_date,omitempty"`
	Outline          []OutlineEntry `json:"outline,omitempty"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	OutputDirectory   string     `json:"output_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// Statistics Types

// FontCount is one histogram entry of the stats sidecar.
type FontCount struct {
	Font  string  `json:"font"`
	Size  float64 `json:"size"`
	Count int     `json:"count"`
}

// DocumentStats is the JSON sidecar written next to each extracted
// document, summarizing what the run saw and produced.
type DocumentStats struct {
	Path       string      `json:"path"`
	RunID      string      `json:"run_id"`
	PageCount  int         `json:"page_count"`
	PagesUsed  []int       `json:"pages_used"`
	BodyFont   string      `json:"body_font,omitempty"`
	BodySize   float64     `json:"body_size,omitempty"`
	TopFonts   []FontCount `json:"top_fonts,omitempty"`
	Headlines  int         `json:"headlines"`
	Sentences  int         `json:"sentences"`
	Characters int         `json:"characters"`
	Cached     bool        `json:"cached"`
	DurationMS int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}

// BatchSummary reports the outcome of a directory extraction run.
type BatchSummary struct {
	Directory  string `json:"directory"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
	Cached     int    `json:"cached"`
	Sentences  int    `json:"sentences"`
	DurationMS int64  `json:"duration_ms"`
}

// DirectoryStats summarizes the PDF files found under a directory,
// reported at the end of batch runs.
type DirectoryStats struct {
	Directory        string `json:"directory"`
	TotalFiles       int    `json:"total_files"`
	TotalSize        int64  `json:"total_size"`
	LargestFileSize  int64  `json:"largest_file_size"`
	LargestFileName  string `json:"largest_file_name"`
	SmallestFileSize int64  `json:"smallest_file_size"`
	SmallestFileName string `json:"smallest_file_name"`
	AverageFileSize  int64  `json:"average_file_size"`
}
