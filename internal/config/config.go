package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeExtract = "extract"
	ModeStdio   = "stdio"
	ModeServer  = "server"
	ModeWatch   = "watch"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultLanguage     = "en"
	DefaultMargins      = "10,10,10,10"
	DefaultMaxBodyFonts = 1

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the text extraction tool
type Config struct {
	// Run mode: "extract", "stdio", "server" or "watch"
	Mode string
	Host string
	Port int

	// Extraction input and output
	InputPath    string
	OutputDir    string
	PDFDirectory string

	// Extraction behaviour
	Pages             string
	Margins           string
	MarginOverrides   string
	AbbreviationsFile string
	Language          string
	KeepHeadlines     bool
	BackgroundAware   bool
	MaxBodyFonts      int

	// Optional sinks
	CacheDir  string
	ReportDir string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:          ModeExtract,
		Host:          DefaultHost,
		Port:          DefaultPort,
		OutputDir:     currentDir,
		PDFDirectory:  currentDir,
		Margins:       DefaultMargins,
		Language:      DefaultLanguage,
		KeepHeadlines: true,
		MaxBodyFonts:  DefaultMaxBodyFonts,
		Version:       "1.0.0",
		ServerName:    "pdftextflow",
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.InputPath, &cfg.OutputDir, &cfg.PDFDirectory} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PDFTEXTFLOW")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("outputdir", cfg.OutputDir)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("pages", cfg.Pages)
	viper.SetDefault("margins", cfg.Margins)
	viper.SetDefault("marginoverrides", cfg.MarginOverrides)
	viper.SetDefault("abbreviations", cfg.AbbreviationsFile)
	viper.SetDefault("language", cfg.Language)
	viper.SetDefault("keepheadlines", cfg.KeepHeadlines)
	viper.SetDefault("backgroundaware", cfg.BackgroundAware)
	viper.SetDefault("maxbodyfonts", cfg.MaxBodyFonts)
	viper.SetDefault("cachedir", cfg.CacheDir)
	viper.SetDefault("reportdir", cfg.ReportDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode,
		"Run mode: 'extract' for one-shot extraction, 'stdio' for MCP standard I/O, "+
			"'server' for HTTP server, 'watch' to process new files in a directory")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("input", cfg.InputPath, "PDF file to extract (extract mode; empty processes --dir)")
	pflag.String("outputdir", cfg.OutputDir, "Directory for extracted text and stats files")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing PDF files")
	pflag.String("pages", cfg.Pages, "Pages to extract, e.g. '6-11,14' (empty = all)")
	pflag.String("margins", cfg.Margins, "Page clip margins: one value or 'left,top,right,bottom'")
	pflag.String("marginoverrides", cfg.MarginOverrides,
		"Per-page margins: '<pages>:<margins>;...', e.g. '1-3,5:20;7:10,10,20,20'")
	pflag.String("abbreviations", cfg.AbbreviationsFile, "YAML file with per-language abbreviation lists")
	pflag.String("language", cfg.Language, "Abbreviation language to merge with the common list")
	pflag.Bool("keepheadlines", cfg.KeepHeadlines, "Keep outline headlines as standalone fragments")
	pflag.Bool("backgroundaware", cfg.BackgroundAware, "Treat background drawings as layout obstacles")
	pflag.Int("maxbodyfonts", cfg.MaxBodyFonts, "Number of font/size pairs counted as body text")
	pflag.String("cachedir", cfg.CacheDir, "Directory for the results cache (empty disables caching)")
	pflag.String("reportdir", cfg.ReportDir, "Directory for layout report PDFs (empty disables reports)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "input", "outputdir", "dir",
		"pages", "margins", "marginoverrides", "abbreviations", "language",
		"keepheadlines", "backgroundaware", "maxbodyfonts",
		"cachedir", "reportdir", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npdftextflow - reading-order text extraction for PDF files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input=paper.pdf                        "+
			"# extract one file to the current directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs --outputdir=out      "+
			"# extract every PDF in a directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=paper.pdf --pages=6-11,14        # restrict to pages\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs         # MCP server on stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=watch --dir=/inbox                # extract new files as they appear\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_DIR          PDF directory\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_OUTPUTDIR    Output directory\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_PAGES        Page selection\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_MARGINS      Default margins\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  PDFTEXTFLOW_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.InputPath = viper.GetString("input")
	cfg.OutputDir = viper.GetString("outputdir")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.Pages = viper.GetString("pages")
	cfg.Margins = viper.GetString("margins")
	cfg.MarginOverrides = viper.GetString("marginoverrides")
	cfg.AbbreviationsFile = viper.GetString("abbreviations")
	cfg.Language = viper.GetString("language")
	cfg.KeepHeadlines = viper.GetBool("keepheadlines")
	cfg.BackgroundAware = viper.GetBool("backgroundaware")
	cfg.MaxBodyFonts = viper.GetInt("maxbodyfonts")
	cfg.CacheDir = viper.GetString("cachedir")
	cfg.ReportDir = viper.GetString("reportdir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	switch c.Mode {
	case ModeExtract, ModeStdio, ModeServer, ModeWatch:
	default:
		return errors.New("mode must be one of 'extract', 'stdio', 'server' or 'watch'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// An explicit input file must exist up front
	if c.InputPath != "" {
		info, err := os.Stat(c.InputPath)
		if err != nil {
			return fmt.Errorf("cannot access input file %s: %w", c.InputPath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("input path %s is a directory, use --dir for batch extraction", c.InputPath)
		}
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	// The default margins must parse on their own; page lists and per-page
	// overrides are checked against each document when it is opened.
	if _, err := ParseMarginValues(c.Margins); err != nil {
		return fmt.Errorf("invalid margins: %w", err)
	}

	if c.MaxBodyFonts < 1 {
		return errors.New("maxbodyfonts must be at least 1")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputPath: %s, OutputDir: %s, PDFDirectory: %s, "+
		"Pages: %q, Margins: %q, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.InputPath, c.OutputDir, c.PDFDirectory,
		c.Pages, c.Margins, c.LogLevel, c.MaxFileSize)
}

// IsExtractMode returns true for one-shot extraction runs
func (c *Config) IsExtractMode() bool {
	return c.Mode == ModeExtract
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsWatchMode returns true if the tool watches a directory for new files
func (c *Config) IsWatchMode() bool {
	return c.Mode == ModeWatch
}
