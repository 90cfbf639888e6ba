package pdf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
)

// topFontCount bounds the font histogram slice in the stats sidecar.
const topFontCount = 5

// Stats builds per-run extraction statistics and directory summaries
type Stats struct {
	validator *Validator
}

// NewStats creates a new stats builder sharing the given validator
func NewStats(validator *Validator) *Stats {
	return &Stats{
		validator: validator,
	}
}

// BuildDocumentStats summarizes one extraction run. The document arena is
// optional; without it the font histogram is left empty.
func (s *Stats) BuildDocumentStats(result *PDFExtractTextResult, doc *content.DocumentContent) *DocumentStats {
	stats := &DocumentStats{
		Path:       result.Path,
		RunID:      result.RunID,
		PageCount:  result.PageCount,
		PagesUsed:  result.PagesUsed,
		BodyFont:   result.BodyFont,
		BodySize:   result.BodySize,
		Headlines:  result.Headlines,
		Sentences:  result.Sentences,
		Characters: utf8.RuneCountInString(result.Text),
		Cached:     result.Cached,
		DurationMS: result.DurationMS,
		CreatedAt:  time.Now().UTC(),
	}

	if doc != nil {
		for _, key := range doc.Fonts.TopKeys(topFontCount) {
			stats.TopFonts = append(stats.TopFonts, FontCount{
				Font:  key.Root,
				Size:  key.Size,
				Count: doc.Fonts[key],
			})
		}
	}

	return stats
}

// SidecarPath returns the stats file path for a document stem inside dir.
func SidecarPath(dir, stem string) string {
	return filepath.Join(dir, stem+".json")
}

// WriteSidecar writes the stats as indented JSON next to the extracted text
func (s *Stats) WriteSidecar(path string, stats *DocumentStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document stats: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write document stats: %w", err)
	}

	return nil
}

// GetDirectoryStats returns statistics about PDF files in a directory
func (s *Stats) GetDirectoryStats(directory string) (*DirectoryStats, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	// Check if directory exists
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	var totalFiles int
	var totalSize int64
	var largestFile int64
	var largestFileName string
	var smallestFile int64 = int64(^uint64(0) >> 1) // Max int64
	var smallestFileName string

	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Continue despite errors
		}

		if info.IsDir() {
			return nil
		}

		if strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			// Quick validation without opening the file
			if s.validator.ValidateFileInfo(path, info) == nil {
				totalFiles++
				totalSize += info.Size()

				if info.Size() > largestFile {
					largestFile = info.Size()
					largestFileName = info.Name()
				}

				if info.Size() < smallestFile {
					smallestFile = info.Size()
					smallestFileName = info.Name()
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	var averageSize int64
	if totalFiles > 0 {
		averageSize = totalSize / int64(totalFiles)
	}

	// If no files found, reset smallest file size
	if totalFiles == 0 {
		smallestFile = 0
	}

	result := &DirectoryStats{
		Directory:        directory,
		TotalFiles:       totalFiles,
		TotalSize:        totalSize,
		LargestFileSize:  largestFile,
		LargestFileName:  largestFileName,
		SmallestFileSize: smallestFile,
		SmallestFileName: smallestFileName,
		AverageFileSize:  averageSize,
	}

	return result, nil
}
