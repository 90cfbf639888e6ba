package layout

import (
	"sort"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// Table detection thresholds.
const (
	defaultTablePositionTolerance = 5
	defaultMinParallelLines       = 3
	defaultMinTableRows           = 2
	defaultMinTableCols           = 2
)

// TableDetector decides from a page's classified drawings whether the
// page carries a table. Two independent signals are checked: several
// vertical lines spanning the same vertical band, and background boxes
// arranged as an aligned cell grid.
type TableDetector struct {
	positionTolerance int
	minParallelLines  int
	minRows           int
	minCols           int
}

// NewTableDetector returns a detector with the default thresholds.
func NewTableDetector() *TableDetector {
	return &TableDetector{
		positionTolerance: defaultTablePositionTolerance,
		minParallelLines:  defaultMinParallelLines,
		minRows:           defaultMinTableRows,
		minCols:           defaultMinTableCols,
	}
}

// Detect reports whether the vertical lines or the background boxes of a
// page arrange into a table-like structure.
func (d *TableDetector) Detect(verticalLines, backgrounds []geometry.IRect) bool {
	return d.hasParallelVerticalLines(verticalLines) || d.hasAlignedCellGrid(backgrounds)
}

// hasParallelVerticalLines reports whether at least minParallelLines
// vertical lines share their top and bottom edges within the position
// tolerance.
func (d *TableDetector) hasParallelVerticalLines(lines []geometry.IRect) bool {
	for i := range lines {
		count := 1
		for j := i + 1; j < len(lines); j++ {
			if intAbs(lines[i].Y0-lines[j].Y0) <= d.positionTolerance &&
				intAbs(lines[i].Y1-lines[j].Y1) <= d.positionTolerance {
				count++
			}
		}
		if count >= d.minParallelLines {
			return true
		}
	}
	return false
}

// hasAlignedCellGrid reports whether the background boxes form at least
// minRows stacked rows of minCols column-aligned cells.
func (d *TableDetector) hasAlignedCellGrid(boxes []geometry.IRect) bool {
	if len(boxes) < d.minRows*d.minCols {
		return false
	}

	sorted := make([]geometry.IRect, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y0 < sorted[j].Y0 })

	// Group boxes into rows. A box joins the current row when its top
	// and bottom edges match the row's first box within tolerance; rows
	// with fewer than minCols cells are discarded.
	var rows [][]geometry.IRect
	row := []geometry.IRect{sorted[0]}
	for _, b := range sorted[1:] {
		if d.sameRow(row[0], b) {
			row = append(row, b)
			continue
		}
		if len(row) >= d.minCols {
			rows = append(rows, row)
		}
		row = []geometry.IRect{b}
	}
	if len(row) >= d.minCols {
		rows = append(rows, row)
	}
	if len(rows) < d.minRows {
		return false
	}
	for _, r := range rows {
		sort.Slice(r, func(i, j int) bool { return r[i].X0 < r[j].X0 })
	}

	// Walk runs of consecutive rows that sit directly below one another
	// and carry the same number of cells. A run long enough with all
	// columns aligned is a table.
	start := 0
	for start < len(rows) {
		end := start + 1
		for end < len(rows) &&
			len(rows[end]) == len(rows[end-1]) &&
			intAbs(rows[end][0].Y0-rows[end-1][0].Y1) <= d.positionTolerance {
			end++
		}
		if end-start >= d.minRows && d.columnsAligned(rows[start:end]) {
			return true
		}
		start = end
	}
	return false
}

// sameRow reports whether b shares the vertical band of the row anchor.
func (d *TableDetector) sameRow(anchor, b geometry.IRect) bool {
	return intAbs(anchor.Y0-b.Y0) <= d.positionTolerance &&
		intAbs(anchor.Y1-b.Y1) <= d.positionTolerance
}

// columnsAligned reports whether every consecutive row pair in the group
// has all cells left- and right-aligned within tolerance. Rows in a
// group always have equal length.
func (d *TableDetector) columnsAligned(group [][]geometry.IRect) bool {
	for i := 1; i < len(group); i++ {
		prev, cur := group[i-1], group[i]
		for c := range cur {
			if intAbs(cur[c].X0-prev[c].X0) > d.positionTolerance ||
				intAbs(cur[c].X1-prev[c].X1) > d.positionTolerance {
				return false
			}
		}
	}
	return true
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
