// Package report renders layout-overlay PDFs for visual inspection of
// the pipeline's geometry decisions: where blocks ended up, which areas
// were treated as obstacles, and which backgrounds reordered text.
package report

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

const (
	labelFont  = "Helvetica"
	labelSize  = 6.0
	headerSize = 8.0
)

// PageView pairs one page's pipeline artifacts with its physical size,
// so the overlay is drawn at the source document's scale.
type PageView struct {
	Number  int
	Width   float64
	Height  float64
	Content *content.PageContent
}

// DocumentPath returns the overlay file name for a document stem inside
// the report directory.
func DocumentPath(dir, stem string) string {
	return filepath.Join(dir, stem+".layout.pdf")
}

// Write renders one overlay page per view and writes the document to
// path. Views are drawn in the order given.
func Write(path string, pages []PageView) error {
	if len(pages) == 0 {
		return errors.New("no pages to render")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pages[0].Width, Ht: pages[0].Height},
	})
	pdf.SetAutoPageBreak(false, 0)

	for _, page := range pages {
		drawPage(pdf, page)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write layout report: %w", err)
	}
	return nil
}

func drawPage(pdf *fpdf.Fpdf, page PageView) {
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
	pc := page.Content

	// Backgrounds go down first so every outline stays visible on top.
	pdf.SetFillColor(255, 243, 205)
	for _, bg := range pc.Backgrounds {
		drawRect(pdf, bg.Rect(), "F")
	}

	// Clip area after margins, dashed.
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.4)
	pdf.SetDashPattern([]float64{3, 3}, 0)
	drawRect(pdf, pc.Geometry, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetDrawColor(220, 53, 69)
	pdf.SetLineWidth(0.8)
	for _, obs := range pc.Obstacles {
		drawRect(pdf, obs.Rect(), "D")
	}

	// Text blocks carry their slice index so a box on paper can be traced
	// back to the arena. Headline blocks get their own color.
	pdf.SetFont(labelFont, "", labelSize)
	for i, bbox := range pc.BBoxes {
		headline := len(pc.Blocks[i].Lines) > 0 && pc.Blocks[i].AllHeadline()
		if headline {
			pdf.SetDrawColor(111, 66, 193)
			pdf.SetTextColor(111, 66, 193)
		} else {
			pdf.SetDrawColor(13, 110, 253)
			pdf.SetTextColor(13, 110, 253)
		}

		r := bbox.Rect()
		drawRect(pdf, r, "D")

		labelY := r.Y0 - 2
		if labelY < labelSize {
			labelY = r.Y0 + labelSize
		}
		pdf.Text(r.X0, labelY, fmt.Sprintf("b%d %s", i, bbox))
	}

	pdf.SetFont(labelFont, "", headerSize)
	pdf.SetTextColor(90, 90, 90)
	pdf.Text(4, headerSize+2, fmt.Sprintf("page %d: %d blocks, %d obstacles, %d backgrounds",
		page.Number, len(pc.Blocks), len(pc.Obstacles), len(pc.Backgrounds)))
}

func drawRect(pdf *fpdf.Fpdf, r geometry.Rect, style string) {
	if r.IsEmpty() {
		return
	}
	pdf.Rect(r.X0, r.Y0, r.Width(), r.Height(), style)
}
