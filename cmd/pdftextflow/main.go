package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phuslu/log"

	"github.com/a3tai/pdftextflow/internal/config"
	"github.com/a3tai/pdftextflow/internal/mcp"
	"github.com/a3tai/pdftextflow/internal/pdf"
	"github.com/a3tai/pdftextflow/internal/pdf/textflow"
)

// Build-time variables set by ldflags
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// watchSettleDelay is how long a file must sit unchanged before watch
// mode extracts it, so documents are not picked up mid-copy.
const watchSettleDelay = time.Second

func main() {
	// Check for version flag before parsing the full configuration
	if versionRequested(os.Args[1:]) {
		printVersion()
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use --help for usage information\n")
		os.Exit(1)
	}

	setupLogging(cfg)

	// Prefer the version stamped at build time
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	}

	os.Exit(run(cfg))
}

// run wires the service and dispatches on the configured mode. It
// returns an exit code instead of calling os.Exit so deferred cleanup
// still runs.
func run(cfg *config.Config) int {
	extraction, err := extractionOptions(cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid extraction options")
		return 1
	}

	service, err := pdf.NewService(pdf.ServiceConfig{
		MaxFileSize:  cfg.MaxFileSize,
		PDFDirectory: cfg.PDFDirectory,
		OutputDir:    cfg.OutputDir,
		CacheDir:     cfg.CacheDir,
		ReportDir:    cfg.ReportDir,
		Extraction:   extraction,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize PDF service")
		return 1
	}
	defer service.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case cfg.IsExtractMode():
		return runExtractMode(ctx, cfg, service)
	case cfg.IsWatchMode():
		return runWatchMode(ctx, cancel, cfg, service)
	default:
		server, err := mcp.NewServer(cfg, service)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize MCP server")
			return 1
		}
		if cfg.IsServerMode() {
			return runServerMode(ctx, cancel, cfg, server)
		}
		return runStdioMode(ctx, server)
	}
}

// extractionOptions builds the pipeline options from the configuration.
// Page selections are parsed later, against each document's page count.
func extractionOptions(cfg *config.Config) (textflow.Options, error) {
	opts := textflow.DefaultOptions()

	margins, err := config.ParseMarginValues(cfg.Margins)
	if err != nil {
		return opts, fmt.Errorf("invalid margins: %w", err)
	}
	opts.Margins = margins

	overrides, err := config.ParseMarginSpec(cfg.MarginOverrides, 0)
	if err != nil {
		return opts, fmt.Errorf("invalid margin overrides: %w", err)
	}
	opts.MarginOverrides = overrides

	abbreviations, err := config.LoadAbbreviations(cfg.AbbreviationsFile, cfg.Language)
	if err != nil {
		return opts, fmt.Errorf("failed to load abbreviations: %w", err)
	}
	opts.Abbreviations = abbreviations

	opts.KeepHeadlines = cfg.KeepHeadlines
	opts.BackgroundAware = cfg.BackgroundAware
	opts.MaxBodyFonts = cfg.MaxBodyFonts
	return opts, nil
}

// setupLogging configures the default logger for the selected mode. In
// stdio mode stdout carries protocol traffic, so logs go to stderr and
// are silenced entirely unless debug logging is requested.
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		writer := io.Discard
		if cfg.IsDebug() {
			writer = os.Stderr
		}
		log.DefaultLogger = log.Logger{
			Level:  log.ParseLevel(cfg.LogLevel),
			Writer: &log.IOWriter{Writer: writer},
		}
		return
	}

	logger := log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    log.IsTerminal(os.Stderr.Fd()),
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}
	if cfg.IsServerMode() {
		logger.Caller = 1
	}
	log.DefaultLogger = logger
}

// runExtractMode performs a one-shot extraction of a single file or of
// every PDF in the configured directory.
func runExtractMode(ctx context.Context, cfg *config.Config, service *pdf.Service) int {
	if cfg.InputPath != "" {
		result, err := service.ExtractFile(ctx, cfg.InputPath, cfg.Pages)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.InputPath).Msg("extraction failed")
			return 1
		}
		log.Info().
			Str("path", cfg.InputPath).
			Int("pages", result.PageCount).
			Int("sentences", result.Sentences).
			Int("headlines", result.Headlines).
			Bool("cached", result.Cached).
			Str("outputdir", cfg.OutputDir).
			Msg("document extracted")
		return 0
	}

	summary, err := service.ExtractDirectory(ctx, cfg.PDFDirectory, cfg.Pages)
	if err != nil {
		log.Error().Err(err).Str("dir", cfg.PDFDirectory).Msg("batch extraction failed")
		return 1
	}
	log.Info().
		Int("processed", summary.Processed).
		Int("failed", summary.Failed).
		Int("cached", summary.Cached).
		Int("sentences", summary.Sentences).
		Int64("duration_ms", summary.DurationMS).
		Str("outputdir", cfg.OutputDir).
		Msg("batch extraction finished")
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// runWatchMode extracts the directory backlog and then keeps extracting
// PDFs as they appear, until a shutdown signal arrives.
func runWatchMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, service *pdf.Service) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	go func() {
		sig := <-signalCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if err := watchDirectory(ctx, cfg, service); err != nil {
		log.Error().Err(err).Str("dir", cfg.PDFDirectory).Msg("watch mode failed")
		return 1
	}
	return 0
}

// watchDirectory processes the existing directory contents, then reacts
// to create and write events. Events are debounced per file so a
// document is only extracted once it has settled on disk.
func watchDirectory(ctx context.Context, cfg *config.Config, service *pdf.Service) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.PDFDirectory); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.PDFDirectory, err)
	}

	summary, err := service.ExtractDirectory(ctx, cfg.PDFDirectory, cfg.Pages)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	log.Info().
		Int("processed", summary.Processed).
		Int("failed", summary.Failed).
		Msg("directory backlog extracted")
	log.Info().Str("dir", cfg.PDFDirectory).Msg("watching for new PDF files")

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchSettleDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isPDFPath(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-ticker.C:
			for path, last := range pending {
				if time.Since(last) < watchSettleDelay {
					continue
				}
				delete(pending, path)
				result, err := service.ExtractFile(ctx, path, cfg.Pages)
				if err != nil {
					log.Error().Err(err).Str("path", path).Msg("extraction failed")
					continue
				}
				log.Info().
					Str("path", path).
					Int("sentences", result.Sentences).
					Bool("cached", result.Cached).
					Str("run_id", result.RunID).
					Msg("document extracted")
			}
		}
	}
}

// runServerMode starts the HTTP server and blocks until a shutdown
// signal arrives or the server fails.
func runServerMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, server *mcp.Server) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx)
	}()

	log.Info().Str("address", cfg.Address()).Msg("server mode started")

	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		if err := <-errCh; err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
			return 1
		}
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return 1
		}
	}
	return 0
}

// runStdioMode serves MCP requests over stdin and stdout until the
// client disconnects.
func runStdioMode(ctx context.Context, server *mcp.Server) int {
	log.Debug().Msg("starting MCP server on stdio")
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("stdio server failed")
		return 1
	}
	return 0
}

// versionRequested reports whether a version flag appears in the
// arguments, before pflag parsing has happened.
func versionRequested(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// isPDFPath reports whether a path names a PDF file by extension.
func isPDFPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func printVersion() {
	fmt.Printf("pdftextflow\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
