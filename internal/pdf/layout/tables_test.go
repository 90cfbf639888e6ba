package layout

import (
	"testing"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

func TestDetectParallelVerticalLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []geometry.IRect
		want  bool
	}{
		{
			name: "three lines in the same band",
			lines: []geometry.IRect{
				{X0: 10, Y0: 100, X1: 12, Y1: 300},
				{X0: 80, Y0: 102, X1: 82, Y1: 298},
				{X0: 150, Y0: 99, X1: 152, Y1: 303},
			},
			want: true,
		},
		{
			name: "only two parallel lines",
			lines: []geometry.IRect{
				{X0: 10, Y0: 100, X1: 12, Y1: 300},
				{X0: 80, Y0: 100, X1: 82, Y1: 300},
			},
			want: false,
		},
		{
			name: "edge offsets at tolerance still count",
			lines: []geometry.IRect{
				{X0: 10, Y0: 100, X1: 12, Y1: 300},
				{X0: 80, Y0: 105, X1: 82, Y1: 295},
				{X0: 150, Y0: 95, X1: 152, Y1: 305},
			},
			want: true,
		},
		{
			name: "edge offsets beyond tolerance break the band",
			lines: []geometry.IRect{
				{X0: 10, Y0: 100, X1: 12, Y1: 300},
				{X0: 80, Y0: 106, X1: 82, Y1: 300},
				{X0: 150, Y0: 94, X1: 152, Y1: 300},
			},
			want: false,
		},
		{
			name: "scattered lines in distinct bands",
			lines: []geometry.IRect{
				{X0: 10, Y0: 0, X1: 12, Y1: 50},
				{X0: 80, Y0: 100, X1: 82, Y1: 150},
				{X0: 150, Y0: 200, X1: 152, Y1: 250},
			},
			want: false,
		},
		{
			name:  "no lines",
			lines: nil,
			want:  false,
		},
	}

	detector := NewTableDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(tt.lines, nil); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectAlignedCellGrid(t *testing.T) {
	grid := func(rows, cols int, rowGap, colShift int) []geometry.IRect {
		var boxes []geometry.IRect
		for r := 0; r < rows; r++ {
			y0 := r * (20 + rowGap)
			for c := 0; c < cols; c++ {
				x0 := c*60 + r*colShift
				boxes = append(boxes, geometry.IRect{X0: x0, Y0: y0, X1: x0 + 50, Y1: y0 + 20})
			}
		}
		return boxes
	}

	tests := []struct {
		name  string
		boxes []geometry.IRect
		want  bool
	}{
		{
			name:  "two by two aligned grid",
			boxes: grid(2, 2, 2, 0),
			want:  true,
		},
		{
			name:  "three by three aligned grid",
			boxes: grid(3, 3, 0, 0),
			want:  true,
		},
		{
			name:  "row gap beyond tolerance",
			boxes: grid(2, 2, 6, 0),
			want:  false,
		},
		{
			name:  "columns shifted beyond tolerance",
			boxes: grid(2, 2, 2, 20),
			want:  false,
		},
		{
			name:  "columns shifted within tolerance",
			boxes: grid(2, 2, 2, 4),
			want:  true,
		},
		{
			name:  "too few boxes",
			boxes: grid(1, 3, 0, 0),
			want:  false,
		},
		{
			name: "single wide row plus stray box",
			boxes: []geometry.IRect{
				{X0: 0, Y0: 0, X1: 50, Y1: 20},
				{X0: 60, Y0: 0, X1: 110, Y1: 20},
				{X0: 120, Y0: 0, X1: 170, Y1: 20},
				{X0: 0, Y0: 200, X1: 50, Y1: 220},
			},
			want: false,
		},
		{
			name: "rows with differing cell counts do not stack",
			boxes: []geometry.IRect{
				{X0: 0, Y0: 0, X1: 50, Y1: 20},
				{X0: 60, Y0: 0, X1: 110, Y1: 20},
				{X0: 120, Y0: 0, X1: 170, Y1: 20},
				{X0: 0, Y0: 22, X1: 50, Y1: 42},
				{X0: 60, Y0: 22, X1: 110, Y1: 42},
			},
			want: false,
		},
		{
			name:  "no boxes",
			boxes: nil,
			want:  false,
		},
	}

	detector := NewTableDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(nil, tt.boxes); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectEitherSignalSuffices(t *testing.T) {
	detector := NewTableDetector()
	lines := []geometry.IRect{
		{X0: 10, Y0: 100, X1: 12, Y1: 300},
		{X0: 80, Y0: 100, X1: 82, Y1: 300},
		{X0: 150, Y0: 100, X1: 152, Y1: 300},
	}
	cells := []geometry.IRect{
		{X0: 0, Y0: 0, X1: 50, Y1: 20},
		{X0: 60, Y0: 0, X1: 110, Y1: 20},
		{X0: 0, Y0: 22, X1: 50, Y1: 42},
		{X0: 60, Y0: 22, X1: 110, Y1: 42},
	}
	if !detector.Detect(lines, nil) {
		t.Error("vertical line signal alone should detect a table")
	}
	if !detector.Detect(nil, cells) {
		t.Error("cell grid signal alone should detect a table")
	}
	if detector.Detect(nil, nil) {
		t.Error("empty page should not detect a table")
	}
}
