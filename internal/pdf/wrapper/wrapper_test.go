package wrapper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

func TestPDFLibraryFactory_Creation(t *testing.T) {
	factory := NewPDFLibraryFactory()
	assert.NotNil(t, factory)
	assert.Equal(t, LibraryAuto, factory.GetDefaultLibrary())
	assert.Equal(t, LibraryLedongthuc, factory.GetConfig().PreferredLibrary)
	assert.True(t, factory.GetConfig().EnableAutoSelection)
	assert.Equal(t, int64(100*1024*1024), factory.GetConfig().MaxFileSize)
}

func TestPDFLibraryFactory_CreateWithConfig(t *testing.T) {
	config := FactoryConfig{
		PreferredLibrary:    LibraryPDFCPU,
		EnableAutoSelection: false,
		MaxFileSize:         50 * 1024 * 1024,
	}

	factory := NewPDFLibraryFactoryWithConfig(config)
	assert.NotNil(t, factory)
	assert.Equal(t, LibraryPDFCPU, factory.GetDefaultLibrary())
	assert.False(t, factory.GetConfig().EnableAutoSelection)

	// An unset preferred library falls back to the text backend
	factory = NewPDFLibraryFactoryWithConfig(FactoryConfig{})
	assert.Equal(t, LibraryLedongthuc, factory.GetDefaultLibrary())
}

func TestPDFLibraryFactory_CreateLibraries(t *testing.T) {
	factory := NewPDFLibraryFactory()

	tests := []struct {
		name        string
		libType     LibraryType
		expected    LibraryType
		expectError bool
	}{
		{
			name:     "create_pdfcpu_library",
			libType:  LibraryPDFCPU,
			expected: LibraryPDFCPU,
		},
		{
			name:     "create_ledongthuc_library",
			libType:  LibraryLedongthuc,
			expected: LibraryLedongthuc,
		},
		{
			name:     "create_auto_library",
			libType:  LibraryAuto,
			expected: LibraryLedongthuc,
		},
		{
			name:        "create_invalid_library",
			libType:     LibraryType("invalid"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := factory.Create(tt.libType)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, lib)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, lib)
				assert.Equal(t, tt.expected, lib.GetLibraryType())
				assert.NotEmpty(t, lib.GetVersion())
				assert.NoError(t, lib.Close())
			}
		})
	}
}

func TestPDFLibraryFactory_ValidateLibraryType(t *testing.T) {
	factory := NewPDFLibraryFactory()

	validTypes := []LibraryType{
		LibraryPDFCPU,
		LibraryLedongthuc,
		LibraryAuto,
	}

	for _, libType := range validTypes {
		assert.NoError(t, factory.ValidateLibraryType(libType))
	}

	assert.Error(t, factory.ValidateLibraryType(LibraryType("invalid")))
}

func TestPDFLibraryFactory_GetSupportedLibraries(t *testing.T) {
	factory := NewPDFLibraryFactory()
	supported := factory.GetSupportedLibraries()

	assert.Contains(t, supported, LibraryPDFCPU)
	assert.Contains(t, supported, LibraryLedongthuc)
	assert.Contains(t, supported, LibraryAuto)
	assert.Len(t, supported, 3)
}

func TestPDFLibraryFactory_GetLibraryCapabilities(t *testing.T) {
	factory := NewPDFLibraryFactory()
	capabilities := factory.GetLibraryCapabilities()

	pdfcpuCaps := capabilities[LibraryPDFCPU]
	assert.False(t, pdfcpuCaps.TextExtraction)
	assert.True(t, pdfcpuCaps.OutlineExtraction)
	assert.True(t, pdfcpuCaps.Metadata)
	assert.True(t, pdfcpuCaps.Validation)
	assert.True(t, pdfcpuCaps.Encryption)
	assert.True(t, pdfcpuCaps.PureGo)

	ledongthucCaps := capabilities[LibraryLedongthuc]
	assert.True(t, ledongthucCaps.TextExtraction)
	assert.True(t, ledongthucCaps.OutlineExtraction)
	assert.True(t, ledongthucCaps.Metadata)
	assert.False(t, ledongthucCaps.Validation)
	assert.False(t, ledongthucCaps.Encryption)
	assert.True(t, ledongthucCaps.PureGo)
}

func TestPDFLibraryFactory_GetRecommendedLibrary(t *testing.T) {
	factory := NewPDFLibraryFactory()

	tests := []struct {
		name         string
		requirements LibraryRequirements
		expected     LibraryType
	}{
		{
			name: "text_extraction_required",
			requirements: LibraryRequirements{
				TextExtraction: true,
			},
			expected: LibraryLedongthuc,
		},
		{
			name: "validation_required",
			requirements: LibraryRequirements{
				Validation: true,
			},
			expected: LibraryPDFCPU,
		},
		{
			name: "encryption_required",
			requirements: LibraryRequirements{
				Encryption: true,
			},
			expected: LibraryPDFCPU,
		},
		{
			name: "outline_only",
			requirements: LibraryRequirements{
				OutlineExtraction: true,
			},
			expected: LibraryLedongthuc,
		},
		{
			name: "impossible_requirements",
			requirements: LibraryRequirements{
				TextExtraction: true,
				Encryption:     true,
			},
			expected: LibraryLedongthuc, // Falls back to preferred
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recommended := factory.GetRecommendedLibrary(tt.requirements)
			assert.Equal(t, tt.expected, recommended)
		})
	}
}

func TestPDFLibraryFactory_SelectLibraryForOperation(t *testing.T) {
	factory := NewPDFLibraryFactory()

	tests := []struct {
		operation OperationType
		expected  LibraryType
	}{
		{OperationTextExtraction, LibraryLedongthuc},
		{OperationMetadata, LibraryPDFCPU},
		{OperationValidation, LibraryPDFCPU},
		{OperationGeneral, LibraryLedongthuc}, // Falls back to preferred
	}

	for _, tt := range tests {
		t.Run(string(tt.operation), func(t *testing.T) {
			lib, err := factory.CreateForOperation(tt.operation)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, lib.GetLibraryType())
		})
	}
}

func TestPDFLibraryFactory_OperationIgnoredWithoutAutoSelection(t *testing.T) {
	factory := NewPDFLibraryFactoryWithConfig(FactoryConfig{
		PreferredLibrary:    LibraryPDFCPU,
		EnableAutoSelection: false,
	})

	lib, err := factory.CreateForOperation(OperationTextExtraction)
	require.NoError(t, err)
	assert.Equal(t, LibraryPDFCPU, lib.GetLibraryType())
}

func TestPDFLibraryFactory_CreateForFile(t *testing.T) {
	factory := NewPDFLibraryFactory()
	tempDir := t.TempDir()

	// Missing file fails analysis
	_, err := factory.CreateForFile(filepath.Join(tempDir, "nonexistent.pdf"))
	assert.Error(t, err)

	// Wrong extension fails analysis
	txtFile := filepath.Join(tempDir, "test.txt")
	require.NoError(t, os.WriteFile(txtFile, []byte("not a pdf"), 0644))
	_, err = factory.CreateForFile(txtFile)
	assert.Error(t, err)

	// A readable .pdf path selects the text backend; the file itself is
	// not opened here
	pdfFile := filepath.Join(tempDir, "doc.pdf")
	require.NoError(t, os.WriteFile(pdfFile, []byte("%PDF-1.4"), 0644))
	lib, err := factory.CreateForFile(pdfFile)
	require.NoError(t, err)
	assert.Equal(t, LibraryLedongthuc, lib.GetLibraryType())

	// Files over the size limit are rejected
	factory.SetConfig(FactoryConfig{
		PreferredLibrary:    LibraryLedongthuc,
		EnableAutoSelection: true,
		MaxFileSize:         10,
	})
	largePDF := filepath.Join(tempDir, "large.pdf")
	require.NoError(t, os.WriteFile(largePDF, make([]byte, 100), 0644))
	_, err = factory.CreateForFile(largePDF)
	assert.Error(t, err)

	// Disabled auto selection skips analysis entirely
	factory.SetConfig(FactoryConfig{
		PreferredLibrary:    LibraryPDFCPU,
		EnableAutoSelection: false,
		MaxFileSize:         10,
	})
	lib, err = factory.CreateForFile(largePDF)
	require.NoError(t, err)
	assert.Equal(t, LibraryPDFCPU, lib.GetLibraryType())
}

func TestPDFCPULibrary_Basic(t *testing.T) {
	lib := NewPDFCPULibrary(FactoryConfig{})

	assert.Equal(t, LibraryPDFCPU, lib.GetLibraryType())
	assert.Contains(t, lib.GetVersion(), "pdfcpu")

	assert.NoError(t, lib.Close())

	// Operations after close fail
	assert.Error(t, lib.Validate("any.pdf"))
	_, err := lib.OpenFile("any.pdf")
	assert.Error(t, err)
}

func TestLedongthucLibrary_Basic(t *testing.T) {
	lib := NewLedongthucLibrary(FactoryConfig{})

	assert.Equal(t, LibraryLedongthuc, lib.GetLibraryType())
	assert.Contains(t, lib.GetVersion(), "ledongthuc")

	assert.NoError(t, lib.Close())

	// Operations after close fail
	assert.Error(t, lib.Validate("any.pdf"))
	_, err := lib.OpenFile("any.pdf")
	assert.Error(t, err)
}

func TestLibraries_RejectMissingAndGarbageFiles(t *testing.T) {
	tempDir := t.TempDir()
	garbage := filepath.Join(tempDir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not a pdf at all"), 0644))

	libs := []PDFLibrary{
		NewPDFCPULibrary(FactoryConfig{}),
		NewLedongthucLibrary(FactoryConfig{}),
	}
	for _, lib := range libs {
		t.Run(string(lib.GetLibraryType()), func(t *testing.T) {
			_, err := lib.OpenFile(filepath.Join(tempDir, "missing.pdf"))
			assert.Error(t, err)

			_, err = lib.OpenFile(garbage)
			assert.Error(t, err)

			assert.Error(t, lib.Validate(garbage))
		})
	}
}

func TestWrapperError(t *testing.T) {
	err := &WrapperError{
		Library: LibraryPDFCPU,
		Op:      "test_operation",
		Err:     assert.AnError,
	}

	assert.Contains(t, err.Error(), "pdfcpu")
	assert.Contains(t, err.Error(), "test_operation")
	assert.Equal(t, assert.AnError, err.Unwrap())
}

func TestFactoryConfig_SetAndGet(t *testing.T) {
	factory := NewPDFLibraryFactory()

	newConfig := FactoryConfig{
		PreferredLibrary:    LibraryLedongthuc,
		EnableAutoSelection: false,
		MaxFileSize:         200 * 1024 * 1024,
	}

	factory.SetConfig(newConfig)
	assert.Equal(t, newConfig, factory.GetConfig())
	assert.Equal(t, LibraryLedongthuc, factory.GetDefaultLibrary())

	factory.SetDefaultLibrary(LibraryPDFCPU)
	assert.Equal(t, LibraryPDFCPU, factory.GetDefaultLibrary())
	assert.Equal(t, LibraryPDFCPU, factory.GetConfig().PreferredLibrary)
}

func TestOperationType_Constants(t *testing.T) {
	operations := []OperationType{
		OperationTextExtraction,
		OperationMetadata,
		OperationValidation,
		OperationGeneral,
	}

	for _, op := range operations {
		assert.NotEmpty(t, string(op))
	}
}

func TestLibraryType_Constants(t *testing.T) {
	types := []LibraryType{
		LibraryPDFCPU,
		LibraryLedongthuc,
		LibraryAuto,
	}

	for _, libType := range types {
		assert.NotEmpty(t, string(libType))
	}
}

func TestLedongthucPage_BuildLine(t *testing.T) {
	page := &LedongthucPage{pageNum: 1, width: 612, height: 792}

	t.Run("inserts_word_gaps", func(t *testing.T) {
		row := []pdf.Text{
			{Font: "Times-Roman", FontSize: 10, X: 50, Y: 700, W: 30, S: "Hello"},
			{Font: "Times-Roman", FontSize: 10, X: 85, Y: 700, W: 28, S: "world"},
		}

		line, ok := page.buildLine(row)
		require.True(t, ok)
		require.Len(t, line.Spans, 1)
		assert.Equal(t, "Hello world", line.Spans[0].Text)
		assert.Equal(t, "Times-Roman", line.Spans[0].Font)
		assert.Equal(t, 10.0, line.Spans[0].Size)
		assert.Equal(t, geometry.NewRect(50, 82, 113, 92), line.Spans[0].Position)
		assert.True(t, line.Horizontal())
	})

	t.Run("fuses_kerned_runs_without_space", func(t *testing.T) {
		row := []pdf.Text{
			{Font: "Times-Roman", FontSize: 10, X: 50, Y: 700, W: 30, S: "Hel"},
			{Font: "Times-Roman", FontSize: 10, X: 81, Y: 700, W: 20, S: "lo"},
		}

		line, ok := page.buildLine(row)
		require.True(t, ok)
		require.Len(t, line.Spans, 1)
		assert.Equal(t, "Hello", line.Spans[0].Text)
	})

	t.Run("splits_spans_on_font_change", func(t *testing.T) {
		row := []pdf.Text{
			{Font: "Times-Roman", FontSize: 10, X: 50, Y: 700, W: 30, S: "Hello"},
			{Font: "Times-Bold", FontSize: 10, X: 85, Y: 700, W: 40, S: "world"},
		}

		line, ok := page.buildLine(row)
		require.True(t, ok)
		require.Len(t, line.Spans, 2)
		assert.Equal(t, "Hello", line.Spans[0].Text)
		assert.Equal(t, "world", line.Spans[1].Text)
		assert.Equal(t, "Times-Bold", line.Spans[1].Font)
		assert.Equal(t, geometry.NewRect(50, 82, 125, 92), line.Position)
	})

	t.Run("zero_font_size_uses_fallback_height", func(t *testing.T) {
		row := []pdf.Text{
			{Font: "Times-Roman", FontSize: 0, X: 50, Y: 700, W: 30, S: "x"},
		}

		line, ok := page.buildLine(row)
		require.True(t, ok)
		assert.Equal(t, geometry.NewRect(50, 80, 80, 92), line.Position)
	})

	t.Run("empty_row_yields_nothing", func(t *testing.T) {
		_, ok := page.buildLine(nil)
		assert.False(t, ok)
	})
}

func TestParsePDFDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		year    int
		month   time.Month
		day     int
	}{
		{
			name:  "full_with_negative_offset",
			input: "D:20240315120000-05'00'",
			year:  2024, month: time.March, day: 15,
		},
		{
			name:  "full_with_positive_offset",
			input: "D:20240315120000+02'00'",
			year:  2024, month: time.March, day: 15,
		},
		{
			name:  "utc_suffix",
			input: "D:20240315120000Z",
			year:  2024, month: time.March, day: 15,
		},
		{
			name:  "date_only",
			input: "D:20240101",
			year:  2024, month: time.January, day: 1,
		},
		{
			name:  "without_prefix",
			input: "20240315120000",
			year:  2024, month: time.March, day: 15,
		},
		{
			name:    "garbage",
			input:   "not a date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := parsePDFDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, date.Year())
			assert.Equal(t, tt.month, date.Month())
			assert.Equal(t, tt.day, date.Day())
		})
	}
}

func BenchmarkPDFLibraryFactory_Create(b *testing.B) {
	factory := NewPDFLibraryFactory()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lib, err := factory.Create(LibraryLedongthuc)
		if err != nil {
			b.Fatal(err)
		}
		lib.Close()
	}
}

func BenchmarkPDFLibraryFactory_GetRecommendedLibrary(b *testing.B) {
	factory := NewPDFLibraryFactory()
	requirements := LibraryRequirements{
		TextExtraction:    true,
		OutlineExtraction: true,
		PureGo:            true,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = factory.GetRecommendedLibrary(requirements)
	}
}

// Example tests demonstrating usage
func ExamplePDFLibraryFactory_Create() {
	factory := NewPDFLibraryFactory()

	// Create a ledongthuc library instance
	lib, err := factory.Create(LibraryLedongthuc)
	if err != nil {
		panic(err)
	}
	defer lib.Close()

	// Use the library
	// doc, err := lib.OpenFile("example.pdf")
	// ...
}

func ExamplePDFLibraryFactory_CreateForOperation() {
	factory := NewPDFLibraryFactory()

	// Create the best library for text extraction
	lib, err := factory.CreateForOperation(OperationTextExtraction)
	if err != nil {
		panic(err)
	}
	defer lib.Close()

	// This will automatically select the positioned-text backend
	// doc, err := lib.OpenFile("report.pdf")
	// blocks, err := doc.GetPage(1)
	// ...
}
