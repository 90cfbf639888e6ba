package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phuslu/log"

	"github.com/a3tai/pdftextflow/internal/cache"
	"github.com/a3tai/pdftextflow/internal/pdf/security"
	"github.com/a3tai/pdftextflow/internal/pdf/textflow"
	"github.com/a3tai/pdftextflow/internal/pdf/wrapper"
)

// ServiceConfig carries the settings the service needs from the caller.
type ServiceConfig struct {
	// MaxFileSize is the per-document size cap in bytes.
	MaxFileSize int64
	// PDFDirectory confines tool-originated paths.
	PDFDirectory string
	// OutputDir receives the extracted text and stats sidecars.
	OutputDir string
	// CacheDir holds the results cache. Empty disables caching.
	CacheDir string
	// ReportDir receives layout-overlay PDFs. Empty disables reports.
	ReportDir string
	// Extraction configures the text reconstruction pipeline.
	Extraction textflow.Options
}

// Service handles PDF operations by orchestrating the extraction components
type Service struct {
	maxFileSize   int64
	outputDir     string
	factory       *wrapper.PDFLibraryFactory
	extractor     *Extractor
	validator     *Validator
	stats         *Stats
	search        *Search
	serverInfo    *PDFServerInfo
	cache         *cache.Store
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(cfg ServiceConfig) (*Service, error) {
	pathValidator, err := security.NewPathValidator(cfg.PDFDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	var store *cache.Store
	if cfg.CacheDir != "" {
		store, err = cache.Open(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open results cache: %w", err)
		}
	}

	factory := wrapper.NewPDFLibraryFactoryWithConfig(wrapper.FactoryConfig{
		PreferredLibrary:    wrapper.LibraryLedongthuc,
		EnableAutoSelection: true,
		MaxFileSize:         cfg.MaxFileSize,
	})

	validator := NewValidator(cfg.MaxFileSize, factory)

	s := &Service{
		maxFileSize:   cfg.MaxFileSize,
		outputDir:     cfg.OutputDir,
		factory:       factory,
		extractor:     NewExtractor(factory, cfg.Extraction, store, cfg.ReportDir),
		validator:     validator,
		stats:         NewStats(validator),
		search:        NewSearch(validator),
		cache:         store,
		pathValidator: pathValidator,
	}
	s.serverInfo = NewPDFServerInfo(s)

	return s, nil
}

// Close releases the service's persistent resources
func (s *Service) Close() error {
	return s.cache.Close()
}

// ResolvePath sanitizes a tool-provided path and resolves relative paths
// against the configured directory
func (s *Service) ResolvePath(path string) (string, error) {
	return s.pathValidator.SanitizePath(path)
}

// PDFExtractText reconstructs the running text of a PDF file
func (s *Service) PDFExtractText(ctx context.Context, req PDFExtractTextRequest) (*PDFExtractTextResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	result, _, err := s.extractor.ExtractText(ctx, req)
	return result, err
}

// PDFDocumentInfo returns document structure and metadata
func (s *Service) PDFDocumentInfo(req PDFDocumentInfoRequest) (*PDFDocumentInfoResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	fileInfo, err := os.Stat(req.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	lib, err := s.factory.CreateForOperation(wrapper.OperationMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF library: %w", err)
	}
	defer lib.Close()

	doc, err := lib.OpenFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount, err := doc.GetPageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to read page count: %w", err)
	}

	meta, err := doc.GetMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	result := &PDFDocumentInfoResult{
		Path:      req.Path,
		Size:      fileInfo.Size(),
		Pages:     pageCount,
		Version:   meta.PDFVersion,
		Encrypted: meta.Encrypted,
		Title:     meta.Title,
		Author:    meta.Author,
		Subject:   meta.Subject,
		Keywords:  meta.Keywords,
		Creator:   meta.Creator,
		Producer:  meta.Producer,
	}

	if meta.CreationDate != nil {
		result.CreationDate = meta.CreationDate.Format(time.RFC3339)
	}
	if meta.ModDate != nil {
		result.ModificationDate = meta.ModDate.Format(time.RFC3339)
	}

	// Outline failures are not fatal; many documents simply have none
	if outline, err := doc.GetOutline(); err == nil {
		for _, item := range outline {
			result.Outline = append(result.Outline, OutlineEntry{
				Title: item.Title,
				Level: item.Level,
				Page:  item.Page,
			})
		}
	}

	return result, nil
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	// If no directory specified, use configured directory
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	// Validate directory is within configured bounds
	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// PDFServerInfo returns comprehensive server information and usage guidance
func (s *Service) PDFServerInfo(ctx context.Context, req PDFServerInfoRequest, serverName, version,
	defaultDirectory string,
) (*PDFServerInfoResult, error) {
	_ = req
	return s.serverInfo.GetServerInfo(ctx, serverName, version, defaultDirectory)
}

// ExtractFile runs one document through the pipeline and writes the text
// and its stats sidecar to the output directory. Unlike the tool
// operations, paths come from the operator, so they are not confined to
// the configured directory. An empty pages selection extracts every page.
func (s *Service) ExtractFile(ctx context.Context, path, pages string) (*PDFExtractTextResult, error) {
	result, arena, err := s.extractor.ExtractText(ctx, PDFExtractTextRequest{Path: path, Pages: pages})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	stem := documentStem(path)

	data := []byte(result.Text)
	if len(data) > 0 {
		data = append(data, '\n')
	}
	textPath := filepath.Join(s.outputDir, stem+".txt")
	if err := os.WriteFile(textPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write text output: %w", err)
	}

	// The text is already on disk; a sidecar failure is not fatal
	stats := s.stats.BuildDocumentStats(result, arena)
	if err := s.stats.WriteSidecar(SidecarPath(s.outputDir, stem), stats); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write stats sidecar")
	}

	return result, nil
}

// ExtractDirectory runs every PDF under dir through the pipeline. The
// pages selection applies to each document. Individual document failures
// are logged and counted, not fatal.
func (s *Service) ExtractDirectory(ctx context.Context, dir, pages string) (*BatchSummary, error) {
	start := time.Now()

	files, err := s.search.FindPDFsInDirectory(dir)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{Directory: dir}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := s.ExtractFile(ctx, file.Path, pages)
		if err != nil {
			summary.Failed++
			log.Error().Err(err).Str("path", file.Path).Msg("extraction failed")
			continue
		}

		summary.Processed++
		summary.Sentences += result.Sentences
		if result.Cached {
			summary.Cached++
		}
		log.Info().
			Str("path", file.Path).
			Int("sentences", result.Sentences).
			Int("headlines", result.Headlines).
			Bool("cached", result.Cached).
			Str("run_id", result.RunID).
			Msg("document extracted")
	}

	if dirStats, err := s.stats.GetDirectoryStats(dir); err == nil {
		log.Info().
			Int("total_files", dirStats.TotalFiles).
			Int64("total_size", dirStats.TotalSize).
			Int64("average_size", dirStats.AverageFileSize).
			Str("largest", dirStats.LargestFileName).
			Msg("directory statistics")
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	return summary, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// CountPDFsInDirectory counts the number of valid PDF files in a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}

// FindPDFsInDirectory finds all PDF files in a directory without filtering
func (s *Service) FindPDFsInDirectory(directory string) ([]FileInfo, error) {
	return s.search.FindPDFsInDirectory(directory)
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	return nil
}
