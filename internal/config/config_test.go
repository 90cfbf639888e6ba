package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeExtract {
		t.Errorf("Expected default mode to be 'extract', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "pdftextflow" {
		t.Errorf("Expected default server name to be 'pdftextflow', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.Margins != DefaultMargins {
		t.Errorf("Expected default margins to be '%s', got '%s'", DefaultMargins, cfg.Margins)
	}

	if cfg.Language != DefaultLanguage {
		t.Errorf("Expected default language to be '%s', got '%s'", DefaultLanguage, cfg.Language)
	}

	if !cfg.KeepHeadlines {
		t.Error("Expected headlines to be kept by default")
	}

	if cfg.MaxBodyFonts != 1 {
		t.Errorf("Expected default max body fonts to be 1, got %d", cfg.MaxBodyFonts)
	}

	// PDF directory and output directory default to the current working directory
	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
	if cfg.OutputDir != currentDir {
		t.Errorf("Expected default output directory to be '%s', got '%s'", currentDir, cfg.OutputDir)
	}
}

// validConfig returns a configuration that passes Validate, rooted in a
// fresh temp directory.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name:   "valid config - extract mode",
			mutate: func(t *testing.T, cfg *Config) {},
		},
		{
			name: "valid config - server mode",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Mode = ModeServer
			},
		},
		{
			name: "valid config - watch mode",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Mode = ModeWatch
			},
		},
		{
			name: "valid config - existing input file",
			mutate: func(t *testing.T, cfg *Config) {
				input := filepath.Join(t.TempDir(), "doc.pdf")
				if err := os.WriteFile(input, []byte("%PDF-1.4"), 0o644); err != nil {
					t.Fatal(err)
				}
				cfg.InputPath = input
			},
		},
		{
			name: "invalid mode",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Mode = "invalid"
			},
			wantErr: "mode must be one of",
		},
		{
			name: "invalid port - too low (server mode)",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Mode = ModeServer
				cfg.Port = 0
			},
			wantErr: "port must be between",
		},
		{
			name: "invalid port - too high (server mode)",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Mode = ModeServer
				cfg.Port = 70000
			},
			wantErr: "port must be between",
		},
		{
			name: "invalid port ignored in stdio mode",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Mode = ModeStdio
				cfg.Port = 0
			},
		},
		{
			name: "missing input file",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.InputPath = filepath.Join(t.TempDir(), "missing.pdf")
			},
			wantErr: "cannot access input file",
		},
		{
			name: "input path is a directory",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.InputPath = t.TempDir()
			},
			wantErr: "is a directory",
		},
		{
			name: "empty PDF directory",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.PDFDirectory = ""
			},
			wantErr: "PDF directory cannot be empty",
		},
		{
			name: "empty output directory",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.OutputDir = ""
			},
			wantErr: "output directory cannot be empty",
		},
		{
			name: "malformed margins",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.Margins = "1,2,3"
			},
			wantErr: "margins need 1 or 4 values",
		},
		{
			name: "zero body fonts",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.MaxBodyFonts = 0
			},
			wantErr: "maxbodyfonts must be at least 1",
		},
		{
			name: "invalid log level",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.LogLevel = "invalid"
			},
			wantErr: "invalid log level",
		},
		{
			name: "invalid max file size",
			mutate: func(t *testing.T, cfg *Config) {
				cfg.MaxFileSize = 0
			},
			wantErr: "maximum file size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(t, cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Config.Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     bool
	}{
		{
			name:     "debug level",
			logLevel: "debug",
			want:     true,
		},
		{
			name:     "info level",
			logLevel: "info",
			want:     false,
		},
		{
			name:     "warn level",
			logLevel: "warn",
			want:     false,
		},
		{
			name:     "error level",
			logLevel: "error",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:         "extract",
		InputPath:    "/home/user/paper.pdf",
		OutputDir:    "/home/user/out",
		PDFDirectory: "/home/user/pdfs",
		Pages:        "6-11,14",
		Margins:      "10,10,10,10",
		LogLevel:     "debug",
		MaxFileSize:  1024,
	}

	result := cfg.String()

	expectedSubstrings := []string{
		"Mode: extract",
		"InputPath: /home/user/paper.pdf",
		"OutputDir: /home/user/out",
		"PDFDirectory: /home/user/pdfs",
		`Pages: "6-11,14"`,
		`Margins: "10,10,10,10"`,
		"LogLevel: debug",
		"MaxFileSize: 1024",
	}

	for _, substr := range expectedSubstrings {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}

func TestConfigValidateCreatesPDFDirectory(t *testing.T) {
	tempParent := t.TempDir()
	newDir := filepath.Join(tempParent, "incoming", "pdfs")

	cfg := validConfig(t)
	cfg.PDFDirectory = newDir

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() unexpected error: %v", err)
	}

	info, err := os.Stat(newDir)
	if err != nil {
		t.Fatalf("expected PDF directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", newDir)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error"}
	invalidLevels := []string{"DEBUG", "INFO", "trace", "fatal", ""}

	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LogLevel = level

			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LogLevel = level

			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

func TestConfigModeHelpers(t *testing.T) {
	tests := []struct {
		mode        string
		wantExtract bool
		wantStdio   bool
		wantServer  bool
		wantWatch   bool
	}{
		{mode: ModeExtract, wantExtract: true},
		{mode: ModeStdio, wantStdio: true},
		{mode: ModeServer, wantServer: true},
		{mode: ModeWatch, wantWatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsExtractMode(); got != tt.wantExtract {
				t.Errorf("Config.IsExtractMode() = %v, want %v", got, tt.wantExtract)
			}
			if got := cfg.IsStdioMode(); got != tt.wantStdio {
				t.Errorf("Config.IsStdioMode() = %v, want %v", got, tt.wantStdio)
			}
			if got := cfg.IsServerMode(); got != tt.wantServer {
				t.Errorf("Config.IsServerMode() = %v, want %v", got, tt.wantServer)
			}
			if got := cfg.IsWatchMode(); got != tt.wantWatch {
				t.Errorf("Config.IsWatchMode() = %v, want %v", got, tt.wantWatch)
			}
		})
	}
}
