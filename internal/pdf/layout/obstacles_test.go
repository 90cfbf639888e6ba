package layout

import (
	"reflect"
	"testing"

	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		drawings      []geometry.Rect
		backgrounds   []geometry.IRect
		decorations   []geometry.IRect
		verticalLines []geometry.IRect
	}{
		{
			name:        "large filled area becomes background",
			drawings:    []geometry.Rect{{X0: 0, Y0: 0, X1: 40, Y1: 40}},
			backgrounds: []geometry.IRect{{X0: 0, Y0: 0, X1: 40, Y1: 40}},
		},
		{
			name:        "area at threshold stays decoration",
			drawings:    []geometry.Rect{{X0: 0, Y0: 0, X1: 20, Y1: 5}},
			decorations: []geometry.IRect{{X0: 0, Y0: 0, X1: 20, Y1: 5}},
		},
		{
			name:        "thin side stays decoration despite large area",
			drawings:    []geometry.Rect{{X0: 0, Y0: 0, X1: 200, Y1: 10}},
			decorations: []geometry.IRect{{X0: 0, Y0: 0, X1: 200, Y1: 10}},
		},
		{
			name:          "thin tall drawing is decoration and vertical line",
			drawings:      []geometry.Rect{{X0: 10, Y0: 0, X1: 14, Y1: 100}},
			decorations:   []geometry.IRect{{X0: 10, Y0: 0, X1: 14, Y1: 100}},
			verticalLines: []geometry.IRect{{X0: 10, Y0: 0, X1: 14, Y1: 100}},
		},
		{
			name:          "vertical line width and height at thresholds",
			drawings:      []geometry.Rect{{X0: 0, Y0: 0, X1: 5, Y1: 20}},
			decorations:   []geometry.IRect{{X0: 0, Y0: 0, X1: 5, Y1: 20}},
			verticalLines: []geometry.IRect{{X0: 0, Y0: 0, X1: 5, Y1: 20}},
		},
		{
			name:        "short thin drawing is plain decoration",
			drawings:    []geometry.Rect{{X0: 0, Y0: 0, X1: 5, Y1: 19}},
			decorations: []geometry.IRect{{X0: 0, Y0: 0, X1: 5, Y1: 19}},
		},
		{
			name: "duplicates collapse to first occurrence",
			drawings: []geometry.Rect{
				{X0: 0, Y0: 0, X1: 40, Y1: 40},
				{X0: 0, Y0: 0, X1: 40, Y1: 40},
				{X0: 1, Y0: 1, X1: 3, Y1: 3},
				{X0: 1, Y0: 1, X1: 3, Y1: 3},
			},
			backgrounds: []geometry.IRect{{X0: 0, Y0: 0, X1: 40, Y1: 40}},
			decorations: []geometry.IRect{{X0: 1, Y0: 1, X1: 3, Y1: 3}},
		},
		{
			name: "mixed page",
			drawings: []geometry.Rect{
				{X0: 50, Y0: 50, X1: 300, Y1: 200},
				{X0: 10, Y0: 10, X1: 12, Y1: 90},
				{X0: 20, Y0: 20, X1: 26, Y1: 24},
			},
			backgrounds: []geometry.IRect{{X0: 50, Y0: 50, X1: 300, Y1: 200}},
			decorations: []geometry.IRect{
				{X0: 10, Y0: 10, X1: 12, Y1: 90},
				{X0: 20, Y0: 20, X1: 26, Y1: 24},
			},
			verticalLines: []geometry.IRect{{X0: 10, Y0: 10, X1: 12, Y1: 90}},
		},
	}

	classifier := NewObstacleClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.drawings)
			if !equalBoxes(got.Backgrounds, tt.backgrounds) {
				t.Errorf("backgrounds = %v, want %v", got.Backgrounds, tt.backgrounds)
			}
			if !equalBoxes(got.Decorations, tt.decorations) {
				t.Errorf("decorations = %v, want %v", got.Decorations, tt.decorations)
			}
			if !equalBoxes(got.VerticalLines, tt.verticalLines) {
				t.Errorf("verticalLines = %v, want %v", got.VerticalLines, tt.verticalLines)
			}
		})
	}
}

func TestClassifyBackgroundNeverVerticalLine(t *testing.T) {
	// Tall and wide enough for both rules, but the background rule wins.
	classifier := NewObstacleClassifier()
	got := classifier.Classify([]geometry.Rect{{X0: 0, Y0: 0, X1: 11, Y1: 100}})
	if len(got.Backgrounds) != 1 {
		t.Fatalf("backgrounds = %v, want one box", got.Backgrounds)
	}
	if len(got.VerticalLines) != 0 || len(got.Decorations) != 0 {
		t.Errorf("background leaked into other groups: %+v", got)
	}
}

func equalBoxes(got, want []geometry.IRect) bool {
	if len(got) == 0 && len(want) == 0 {
		return true
	}
	return reflect.DeepEqual(got, want)
}
