package wrapper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PDFLibraryFactory creates PDF library instances with unified interface
type PDFLibraryFactory struct {
	defaultLibrary LibraryType
	config         FactoryConfig
}

// FactoryConfig contains configuration options for the factory
type FactoryConfig struct {
	// PreferredLibrary is the default library to use when LibraryAuto is specified
	PreferredLibrary LibraryType `json:"preferred_library"`

	// EnableAutoSelection allows the factory to automatically choose the best library
	// based on the operation type and file characteristics
	EnableAutoSelection bool `json:"enable_auto_selection"`

	// MaxFileSize limits the file size for certain operations (in bytes)
	MaxFileSize int64 `json:"max_file_size"`
}

// NewPDFLibraryFactory creates a new factory with default configuration
func NewPDFLibraryFactory() *PDFLibraryFactory {
	return &PDFLibraryFactory{
		defaultLibrary: LibraryAuto,
		config: FactoryConfig{
			PreferredLibrary:    LibraryLedongthuc,
			EnableAutoSelection: true,
			MaxFileSize:         100 * 1024 * 1024, // 100MB
		},
	}
}

// NewPDFLibraryFactoryWithConfig creates a factory with custom configuration
func NewPDFLibraryFactoryWithConfig(config FactoryConfig) *PDFLibraryFactory {
	if config.PreferredLibrary == "" {
		config.PreferredLibrary = LibraryLedongthuc
	}
	return &PDFLibraryFactory{
		defaultLibrary: config.PreferredLibrary,
		config:         config,
	}
}

// Create instantiates a PDF library of the specified type
func (f *PDFLibraryFactory) Create(libType LibraryType) (PDFLibrary, error) {
	switch libType {
	case LibraryPDFCPU:
		return NewPDFCPULibrary(f.config), nil
	case LibraryLedongthuc:
		return NewLedongthucLibrary(f.config), nil
	case LibraryAuto:
		return f.Create(f.config.PreferredLibrary)
	default:
		return nil, &WrapperError{
			Library: libType,
			Op:      "create",
			Err:     fmt.Errorf("unknown library type: %s", libType),
		}
	}
}

// CreateForFile creates the best library instance for a specific file
func (f *PDFLibraryFactory) CreateForFile(filePath string) (PDFLibrary, error) {
	if !f.config.EnableAutoSelection {
		return f.Create(f.defaultLibrary)
	}

	libType, err := f.analyzeFile(filePath)
	if err != nil {
		return nil, err
	}
	return f.Create(libType)
}

// CreateForOperation creates the best library for a specific operation type
func (f *PDFLibraryFactory) CreateForOperation(operation OperationType) (PDFLibrary, error) {
	if !f.config.EnableAutoSelection {
		return f.Create(f.defaultLibrary)
	}

	libType := f.selectLibraryForOperation(operation)
	return f.Create(libType)
}

// OperationType represents different types of PDF operations
type OperationType string

const (
	OperationTextExtraction OperationType = "text_extraction"
	OperationMetadata       OperationType = "metadata"
	OperationValidation     OperationType = "validation"
	OperationGeneral        OperationType = "general"
)

// selectLibraryForOperation chooses the best library for specific operations
func (f *PDFLibraryFactory) selectLibraryForOperation(operation OperationType) LibraryType {
	switch operation {
	case OperationTextExtraction:
		// ledongthuc exposes positioned text runs
		return LibraryLedongthuc
	case OperationMetadata:
		// pdfcpu resolves the info dictionary and encryption state
		return LibraryPDFCPU
	case OperationValidation:
		// pdfcpu has a real validator
		return LibraryPDFCPU
	default:
		return f.config.PreferredLibrary
	}
}

// analyzeFile examines a PDF file to determine the best library to use
func (f *PDFLibraryFactory) analyzeFile(filePath string) (LibraryType, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", &WrapperError{
			Library: LibraryAuto,
			Op:      "analyze",
			Err:     fmt.Errorf("cannot access file: %w", err),
		}
	}

	if info.Size() > f.config.MaxFileSize {
		return "", &WrapperError{
			Library: LibraryAuto,
			Op:      "analyze",
			Err:     fmt.Errorf("file size %d exceeds maximum %d", info.Size(), f.config.MaxFileSize),
		}
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".pdf" {
		return "", &WrapperError{
			Library: LibraryAuto,
			Op:      "analyze",
			Err:     fmt.Errorf("file does not have .pdf extension: %s", ext),
		}
	}

	// Text extraction drives this tool, so any readable file gets the
	// text backend.
	return LibraryLedongthuc, nil
}

// SetDefaultLibrary changes the default library type
func (f *PDFLibraryFactory) SetDefaultLibrary(libType LibraryType) {
	f.defaultLibrary = libType
	f.config.PreferredLibrary = libType
}

// GetDefaultLibrary returns the current default library type
func (f *PDFLibraryFactory) GetDefaultLibrary() LibraryType {
	return f.defaultLibrary
}

// SetConfig updates the factory configuration
func (f *PDFLibraryFactory) SetConfig(config FactoryConfig) {
	f.config = config
	f.defaultLibrary = config.PreferredLibrary
}

// GetConfig returns the current factory configuration
func (f *PDFLibraryFactory) GetConfig() FactoryConfig {
	return f.config
}

// GetSupportedLibraries returns a list of all supported library types
func (f *PDFLibraryFactory) GetSupportedLibraries() []LibraryType {
	return []LibraryType{
		LibraryPDFCPU,
		LibraryLedongthuc,
		LibraryAuto,
	}
}

// ValidateLibraryType checks if a library type is supported
func (f *PDFLibraryFactory) ValidateLibraryType(libType LibraryType) error {
	for _, supported := range f.GetSupportedLibraries() {
		if libType == supported {
			return nil
		}
	}
	return &WrapperError{
		Library: libType,
		Op:      "validate",
		Err:     fmt.Errorf("unsupported library type: %s", libType),
	}
}

// GetLibraryCapabilities returns the capabilities of each library
func (f *PDFLibraryFactory) GetLibraryCapabilities() map[LibraryType]LibraryCapabilities {
	return map[LibraryType]LibraryCapabilities{
		LibraryPDFCPU: {
			TextExtraction:    false,
			OutlineExtraction: true,
			Metadata:          true,
			Validation:        true,
			Encryption:        true,
			Performance:       "high",
			PureGo:            true,
		},
		LibraryLedongthuc: {
			TextExtraction:    true,
			OutlineExtraction: true,
			Metadata:          true,
			Validation:        false,
			Encryption:        false,
			Performance:       "fast",
			PureGo:            true,
		},
	}
}

// LibraryCapabilities describes what each library can do
type LibraryCapabilities struct {
	TextExtraction    bool   `json:"text_extraction"`
	OutlineExtraction bool   `json:"outline_extraction"`
	Metadata          bool   `json:"metadata"`
	Validation        bool   `json:"validation"`
	Encryption        bool   `json:"encryption"`
	Performance       string `json:"performance"` // "fast", "medium", "high"
	PureGo            bool   `json:"pure_go"`
}

// GetRecommendedLibrary returns the recommended library for given requirements
func (f *PDFLibraryFactory) GetRecommendedLibrary(requirements LibraryRequirements) LibraryType {
	capabilities := f.GetLibraryCapabilities()

	for _, libType := range []LibraryType{LibraryLedongthuc, LibraryPDFCPU} {
		caps := capabilities[libType]

		if requirements.TextExtraction && !caps.TextExtraction {
			continue
		}
		if requirements.OutlineExtraction && !caps.OutlineExtraction {
			continue
		}
		if requirements.Validation && !caps.Validation {
			continue
		}
		if requirements.Encryption && !caps.Encryption {
			continue
		}
		if requirements.PureGo && !caps.PureGo {
			continue
		}

		return libType
	}

	return f.config.PreferredLibrary
}

// LibraryRequirements specifies requirements for library selection
type LibraryRequirements struct {
	TextExtraction    bool `json:"text_extraction"`
	OutlineExtraction bool `json:"outline_extraction"`
	Validation        bool `json:"validation"`
	Encryption        bool `json:"encryption"`
	PureGo            bool `json:"pure_go"`
}
