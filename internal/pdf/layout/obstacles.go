// Package layout analyzes the geometry of a PDF page. It classifies
// vector drawings into backgrounds, decorations and vertical lines,
// detects table grids from those drawings, and shapes text block boxes
// into reading order through sorting, extension and merging.
package layout

import (
	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// Thresholds for classifying page drawings, in page units.
const (
	defaultMinBackgroundArea     = 100
	defaultMinBackgroundSide     = 10
	defaultMaxVerticalLineWidth  = 5
	defaultMinVerticalLineHeight = 20
)

// ObstacleClassifier sorts the vector drawings of a page into the groups
// the box pipeline treats differently: large filled areas acting as
// backgrounds, small decorations acting as obstacles, and thin vertical
// lines hinting at table columns.
type ObstacleClassifier struct {
	minBackgroundArea     int
	minBackgroundSide     int
	maxVerticalLineWidth  int
	minVerticalLineHeight int
}

// NewObstacleClassifier returns a classifier with the default thresholds.
func NewObstacleClassifier() *ObstacleClassifier {
	return &ObstacleClassifier{
		minBackgroundArea:     defaultMinBackgroundArea,
		minBackgroundSide:     defaultMinBackgroundSide,
		maxVerticalLineWidth:  defaultMaxVerticalLineWidth,
		minVerticalLineHeight: defaultMinVerticalLineHeight,
	}
}

// Classification holds the classified drawing boxes of a single page.
type Classification struct {
	// Backgrounds are large filled areas, typically shading behind
	// sidebars or table cells. They are never counted as vertical lines.
	Backgrounds []geometry.IRect
	// Decorations are the remaining small drawings. They stay obstacles
	// for box extension.
	Decorations []geometry.IRect
	// VerticalLines are the thin tall decorations, usually table column
	// separators. Every vertical line also appears in Decorations.
	VerticalLines []geometry.IRect
}

// Classify buckets the drawing rectangles of a page. A drawing whose
// area and both sides exceed the background thresholds becomes a
// background; everything else is a decoration, and decorations at most
// maxVerticalLineWidth wide and at least minVerticalLineHeight tall are
// additionally recorded as vertical lines. Duplicate boxes are dropped,
// first occurrence wins.
func (c *ObstacleClassifier) Classify(drawings []geometry.Rect) Classification {
	var result Classification
	for _, d := range drawings {
		box := d.Round()
		if box.Area() > c.minBackgroundArea && min(box.Width(), box.Height()) > c.minBackgroundSide {
			result.Backgrounds = append(result.Backgrounds, box)
			continue
		}
		result.Decorations = append(result.Decorations, box)
		if box.Width() <= c.maxVerticalLineWidth && box.Height() >= c.minVerticalLineHeight {
			result.VerticalLines = append(result.VerticalLines, box)
		}
	}
	result.Backgrounds = dedupeBoxes(result.Backgrounds)
	result.Decorations = dedupeBoxes(result.Decorations)
	result.VerticalLines = dedupeBoxes(result.VerticalLines)
	return result
}

// dedupeBoxes removes duplicate rectangles preserving first-seen order.
func dedupeBoxes(boxes []geometry.IRect) []geometry.IRect {
	if len(boxes) < 2 {
		return boxes
	}
	seen := make(map[geometry.IRect]struct{}, len(boxes))
	out := boxes[:0]
	for _, b := range boxes {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
