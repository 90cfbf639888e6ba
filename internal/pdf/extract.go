package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/a3tai/pdftextflow/internal/cache"
	"github.com/a3tai/pdftextflow/internal/config"
	"github.com/a3tai/pdftextflow/internal/pdf/content"
	"github.com/a3tai/pdftextflow/internal/pdf/report"
	"github.com/a3tai/pdftextflow/internal/pdf/textflow"
	"github.com/a3tai/pdftextflow/internal/pdf/wrapper"
)

// Extractor runs the text reconstruction pipeline against single
// documents, consulting the results cache and emitting the optional
// layout report.
type Extractor struct {
	factory   *wrapper.PDFLibraryFactory
	opts      textflow.Options
	cache     *cache.Store
	reportDir string
}

// NewExtractor creates an extractor. store may be nil (caching off) and
// reportDir may be empty (no layout reports).
func NewExtractor(factory *wrapper.PDFLibraryFactory, opts textflow.Options, store *cache.Store, reportDir string) *Extractor {
	return &Extractor{
		factory:   factory,
		opts:      opts,
		cache:     store,
		reportDir: reportDir,
	}
}

// ExtractText reconstructs the running text of one document. The second
// return value is the document arena for callers that also need the
// run's geometry; it is nil when the result was served from the cache.
func (e *Extractor) ExtractText(ctx context.Context, req PDFExtractTextRequest) (*PDFExtractTextResult, *content.DocumentContent, error) {
	if req.Path == "" {
		return nil, nil, fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(req.Path); err != nil {
		return nil, nil, fmt.Errorf("cannot access file: %w", err)
	}

	start := time.Now()

	var key string
	if e.cache != nil {
		var err error
		key, err = e.cacheKey(req)
		if err != nil {
			return nil, nil, err
		}

		entry, ok, err := e.cache.Get(key)
		if err != nil {
			log.Warn().Err(err).Str("path", req.Path).Msg("cache lookup failed")
		}
		if ok {
			result := &PDFExtractTextResult{
				Path:       req.Path,
				Text:       entry.Text,
				PageCount:  entry.PageCount,
				PagesUsed:  entry.PagesUsed,
				Sentences:  entry.Sentences,
				Headlines:  entry.Headlines,
				BodyFont:   entry.BodyFont,
				BodySize:   entry.BodySize,
				Cached:     true,
				RunID:      entry.RunID,
				DurationMS: time.Since(start).Milliseconds(),
			}
			return result, nil, nil
		}
	}

	lib, err := e.factory.CreateForOperation(wrapper.OperationTextExtraction)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create PDF library: %w", err)
	}
	defer lib.Close()

	pdoc, err := lib.OpenFile(req.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer pdoc.Close()

	pageCount, err := pdoc.GetPageCount()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read page count: %w", err)
	}

	opts := e.opts
	if strings.TrimSpace(req.Pages) != "" {
		pages, err := config.ParsePageList(req.Pages, pageCount)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid page selection: %w", err)
		}
		opts.Pages = pages
	}

	runID := uuid.NewString()

	arena, sentences, err := textflow.NewPipeline(opts).Run(ctx, pdoc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract text: %w", err)
	}

	result := &PDFExtractTextResult{
		Path:       req.Path,
		Text:       strings.Join(sentences, "\n\n"),
		PageCount:  pageCount,
		PagesUsed:  pagesProcessed(arena),
		Sentences:  len(sentences),
		Headlines:  countHeadlineLines(arena),
		BodyFont:   arena.Body.Root,
		BodySize:   arena.Body.Size,
		RunID:      runID,
		DurationMS: time.Since(start).Milliseconds(),
	}

	if e.cache != nil {
		entry := cache.Entry{
			Text:      result.Text,
			PageCount: result.PageCount,
			PagesUsed: result.PagesUsed,
			Sentences: result.Sentences,
			Headlines: result.Headlines,
			BodyFont:  result.BodyFont,
			BodySize:  result.BodySize,
			RunID:     runID,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.cache.Put(key, entry); err != nil {
			log.Warn().Err(err).Str("path", req.Path).Msg("failed to cache extraction result")
		}
	}

	if e.reportDir != "" {
		if err := e.writeLayoutReport(pdoc, arena, req.Path); err != nil {
			log.Warn().Err(err).Str("path", req.Path).Msg("failed to write layout report")
		}
	}

	return result, arena, nil
}

// cacheKey derives the cache key for a request, combining the document
// content hash with the extraction options in effect.
func (e *Extractor) cacheKey(req PDFExtractTextRequest) (string, error) {
	fingerprint := fmt.Sprintf("%+v|pages=%s", e.opts, req.Pages)

	key, err := cache.DocumentKey(req.Path, fingerprint)
	if err != nil {
		return "", fmt.Errorf("failed to derive cache key: %w", err)
	}
	return key, nil
}

// writeLayoutReport draws the run's geometry onto per-page overlays.
func (e *Extractor) writeLayoutReport(pdoc wrapper.PDFDocument, arena *content.DocumentContent, path string) error {
	if len(arena.Pages) == 0 {
		return nil
	}

	views := make([]report.PageView, 0, len(arena.Pages))
	for _, pc := range arena.Pages {
		page, err := pdoc.GetPage(pc.Page)
		if err != nil {
			return fmt.Errorf("failed to read page %d: %w", pc.Page, err)
		}
		size, err := page.GetSize()
		if err != nil {
			return fmt.Errorf("failed to read page %d size: %w", pc.Page, err)
		}
		views = append(views, report.PageView{
			Number:  pc.Page,
			Width:   size.Width,
			Height:  size.Height,
			Content: pc,
		})
	}

	if err := os.MkdirAll(e.reportDir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	return report.Write(report.DocumentPath(e.reportDir, documentStem(path)), views)
}

// documentStem returns the file name without its extension.
func documentStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// pagesProcessed lists the page numbers present in the arena.
func pagesProcessed(arena *content.DocumentContent) []int {
	pages := make([]int, 0, len(arena.Pages))
	for _, pc := range arena.Pages {
		pages = append(pages, pc.Page)
	}
	return pages
}

// countHeadlineLines counts the lines the headline detector marked.
func countHeadlineLines(arena *content.DocumentContent) int {
	count := 0
	for _, pc := range arena.Pages {
		for _, block := range pc.Blocks {
			for i := range block.Lines {
				if block.Lines[i].Headline {
					count++
				}
			}
		}
	}
	return count
}
