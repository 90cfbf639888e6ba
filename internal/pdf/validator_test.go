package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/pdftextflow/internal/pdf/wrapper"
)

// newTestValidator builds a validator backed by the real library factory.
func newTestValidator(maxFileSize int64) *Validator {
	factory := wrapper.NewPDFLibraryFactoryWithConfig(wrapper.FactoryConfig{
		PreferredLibrary:    wrapper.LibraryAuto,
		EnableAutoSelection: true,
		MaxFileSize:         maxFileSize,
	})
	return NewValidator(maxFileSize, factory)
}

func TestValidator_ValidateFile(t *testing.T) {
	tempDir := t.TempDir()

	garbageFile := filepath.Join(tempDir, "garbage.pdf")
	if err := os.WriteFile(garbageFile, make([]byte, 512), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	emptyFile := filepath.Join(tempDir, "empty.pdf")
	if err := os.WriteFile(emptyFile, nil, 0o644); err != nil {
		t.Fatalf("failed to create empty file: %v", err)
	}

	textFile := filepath.Join(tempDir, "notes.txt")
	if err := os.WriteFile(textFile, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("failed to create text file: %v", err)
	}

	largeFile := filepath.Join(tempDir, "large.pdf")
	if err := os.WriteFile(largeFile, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("failed to create large file: %v", err)
	}

	validator := newTestValidator(1024)

	tests := []struct {
		name        string
		path        string
		wantMessage string
	}{
		{
			name:        "empty path",
			path:        "",
			wantMessage: "path cannot be empty",
		},
		{
			name:        "missing file",
			path:        filepath.Join(tempDir, "missing.pdf"),
			wantMessage: "file does not exist",
		},
		{
			name:        "directory instead of file",
			path:        tempDir,
			wantMessage: "path is a directory",
		},
		{
			name:        "wrong extension",
			path:        textFile,
			wantMessage: "file is not a PDF",
		},
		{
			name:        "empty file",
			path:        emptyFile,
			wantMessage: "file is empty",
		},
		{
			name:        "file over size limit",
			path:        largeFile,
			wantMessage: "file too large",
		},
		{
			name:        "structurally invalid file",
			path:        garbageFile,
			wantMessage: "invalid PDF file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			if err != nil {
				t.Fatalf("ValidateFile returned processing error: %v", err)
			}
			if result.Valid {
				t.Error("expected validation to fail")
			}
			if !strings.Contains(result.Message, tt.wantMessage) {
				t.Errorf("message = %q, want substring %q", result.Message, tt.wantMessage)
			}
			if result.Path != tt.path {
				t.Errorf("result path = %q, want %q", result.Path, tt.path)
			}
		})
	}
}

func TestValidator_IsValidPDF(t *testing.T) {
	tempDir := t.TempDir()

	garbageFile := filepath.Join(tempDir, "garbage.pdf")
	if err := os.WriteFile(garbageFile, make([]byte, 512), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	validator := newTestValidator(1024 * 1024)

	if validator.IsValidPDF(garbageFile) {
		t.Error("garbage bytes should not validate as a PDF")
	}
	if validator.IsValidPDF(filepath.Join(tempDir, "missing.pdf")) {
		t.Error("missing file should not validate as a PDF")
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	tempDir := t.TempDir()

	okFile := filepath.Join(tempDir, "doc.pdf")
	if err := os.WriteFile(okFile, make([]byte, 512), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	emptyFile := filepath.Join(tempDir, "empty.pdf")
	if err := os.WriteFile(emptyFile, nil, 0o644); err != nil {
		t.Fatalf("failed to create empty file: %v", err)
	}

	largeFile := filepath.Join(tempDir, "large.pdf")
	if err := os.WriteFile(largeFile, make([]byte, 4096), 0o644); err != nil {
		t.Fatalf("failed to create large file: %v", err)
	}

	validator := newTestValidator(1024)

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "acceptable file", path: okFile},
		{name: "directory", path: tempDir, wantError: true},
		{name: "empty file", path: emptyFile, wantError: true},
		{name: "file over size limit", path: largeFile, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := os.Stat(tt.path)
			if err != nil {
				t.Fatalf("stat failed: %v", err)
			}

			err = validator.ValidateFileInfo(tt.path, info)
			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
