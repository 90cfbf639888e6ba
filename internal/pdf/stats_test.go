package pdf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
)

func TestStats_BuildDocumentStats(t *testing.T) {
	stats := NewStats(newTestValidator(1024 * 1024))

	result := &PDFExtractTextResult{
		Path:       "/docs/paper.pdf",
		Text:       "Héllo. Wörld.",
		PageCount:  12,
		PagesUsed:  []int{6, 7, 8},
		Sentences:  2,
		Headlines:  1,
		BodyFont:   "Times",
		BodySize:   10,
		RunID:      "run-1",
		DurationMS: 42,
	}

	fonts := content.Histogram{}
	fonts.Add(content.FontKey{Root: "Times", Size: 10}, 600)
	fonts.Add(content.FontKey{Root: "Helvetica", Size: 9}, 120)
	fonts.Add(content.FontKey{Root: "Courier", Size: 8}, 40)
	doc := &content.DocumentContent{Fonts: fonts}

	got := stats.BuildDocumentStats(result, doc)

	if got.Path != result.Path || got.RunID != result.RunID {
		t.Errorf("identity fields not copied: %+v", got)
	}
	if got.PageCount != 12 || !reflect.DeepEqual(got.PagesUsed, []int{6, 7, 8}) {
		t.Errorf("page fields not copied: %+v", got)
	}
	// Rune count, not byte count
	if got.Characters != 13 {
		t.Errorf("Characters = %d, want 13", got.Characters)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if len(got.TopFonts) != 3 {
		t.Fatalf("expected 3 top fonts, got %d", len(got.TopFonts))
	}
	first := got.TopFonts[0]
	if first.Font != "Times" || first.Size != 10 || first.Count != 600 {
		t.Errorf("top font = %+v, want Times 10 with 600 chars", first)
	}
	if got.TopFonts[2].Font != "Courier" {
		t.Errorf("fonts should be ordered by frequency, got %+v", got.TopFonts)
	}
}

func TestStats_BuildDocumentStatsWithoutDocument(t *testing.T) {
	stats := NewStats(newTestValidator(1024 * 1024))

	got := stats.BuildDocumentStats(&PDFExtractTextResult{Path: "/docs/hit.pdf", Cached: true}, nil)
	if len(got.TopFonts) != 0 {
		t.Errorf("expected no fonts without a document, got %+v", got.TopFonts)
	}
	if !got.Cached {
		t.Error("Cached flag not copied")
	}
}

func TestSidecarPath(t *testing.T) {
	got := SidecarPath("/out", "paper")
	want := filepath.Join("/out", "paper.json")
	if got != want {
		t.Errorf("SidecarPath = %q, want %q", got, want)
	}
}

func TestStats_WriteSidecar(t *testing.T) {
	stats := NewStats(newTestValidator(1024 * 1024))
	tempDir := t.TempDir()

	in := stats.BuildDocumentStats(&PDFExtractTextResult{
		Path:      "/docs/paper.pdf",
		Text:      "One. Two.",
		PageCount: 3,
		PagesUsed: []int{1, 2, 3},
		Sentences: 2,
		BodyFont:  "Times",
		BodySize:  10,
		RunID:     "run-2",
	}, nil)

	path := SidecarPath(tempDir, "paper")
	if err := stats.WriteSidecar(path, in); err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read sidecar: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("sidecar should end with a newline")
	}

	var out DocumentStats
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to unmarshal sidecar: %v", err)
	}
	if out.Path != in.Path || out.RunID != in.RunID || out.Sentences != in.Sentences {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", out, in)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("CreatedAt roundtrip mismatch: got %v, want %v", out.CreatedAt, in.CreatedAt)
	}
}

func TestStats_GetDirectoryStats(t *testing.T) {
	stats := NewStats(newTestValidator(1024 * 1024))

	tempDir := t.TempDir()

	testFiles := map[string]int{
		"small.pdf":  512,
		"medium.pdf": 1024,
		"large.pdf":  2048,
	}
	for filename, size := range testFiles {
		filePath := filepath.Join(tempDir, filename)
		if err := os.WriteFile(filePath, make([]byte, size), 0o644); err != nil {
			t.Fatalf("failed to create test file %s: %v", filename, err)
		}
	}
	// Ignored by the walk
	if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create text file: %v", err)
	}

	result, err := stats.GetDirectoryStats(tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", result.TotalFiles)
	}
	if result.TotalSize != 3584 {
		t.Errorf("TotalSize = %d, want 3584", result.TotalSize)
	}
	if result.LargestFileName != "large.pdf" || result.LargestFileSize != 2048 {
		t.Errorf("largest = %s (%d), want large.pdf (2048)",
			result.LargestFileName, result.LargestFileSize)
	}
	if result.SmallestFileName != "small.pdf" || result.SmallestFileSize != 512 {
		t.Errorf("smallest = %s (%d), want small.pdf (512)",
			result.SmallestFileName, result.SmallestFileSize)
	}
	if result.AverageFileSize != 3584/3 {
		t.Errorf("AverageFileSize = %d, want %d", result.AverageFileSize, 3584/3)
	}
}

func TestStats_GetDirectoryStatsEmptyDirectory(t *testing.T) {
	stats := NewStats(newTestValidator(1024 * 1024))

	result, err := stats.GetDirectoryStats(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", result.TotalFiles)
	}
	if result.SmallestFileSize != 0 {
		t.Errorf("SmallestFileSize = %d, want 0 for empty directory", result.SmallestFileSize)
	}
}

func TestStats_GetDirectoryStatsErrors(t *testing.T) {
	stats := NewStats(newTestValidator(1024 * 1024))

	if _, err := stats.GetDirectoryStats(""); err == nil {
		t.Error("expected error for empty directory path")
	}
	if _, err := stats.GetDirectoryStats("/non/existent/path"); err == nil {
		t.Error("expected error for missing directory")
	}
}
