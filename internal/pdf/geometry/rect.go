// Package geometry provides the rectangle primitives shared by the layout
// and text extraction stages. Rects follow PDF page conventions with the
// origin at the top-left of the page: X0/Y0 is the upper-left corner, X1/Y1
// the lower-right, so a valid rect satisfies X0 <= X1 and Y0 <= Y1.
package geometry

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewRect returns the rect spanning the two corner points, normalizing the
// coordinate order so the result is valid.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rect.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns the rect area, zero for empty rects.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty reports whether the rect encloses no area.
func (r Rect) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Contains reports whether other lies fully inside r, boundaries included.
func (r Rect) Contains(other Rect) bool {
	return other.X0 >= r.X0 && other.Y0 >= r.Y0 && other.X1 <= r.X1 && other.Y1 <= r.Y1
}

// ContainsPoint reports whether the point (x, y) lies inside r, boundaries
// included.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Intersects reports whether r and other share interior area. Rects that
// only touch at an edge or corner do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 && r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Intersection returns the overlapping region of r and other, or a zero
// rect if they do not intersect.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		X0: math.Max(r.X0, other.X0),
		Y0: math.Max(r.Y0, other.Y0),
		X1: math.Min(r.X1, other.X1),
		Y1: math.Min(r.Y1, other.Y1),
	}
}

// Union returns the smallest rect enclosing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Inset shrinks the rect by the given insets (left, top, right, bottom).
// Used to derive the clip region of a page from its margins.
func (r Rect) Inset(left, top, right, bottom float64) Rect {
	return Rect{X0: r.X0 + left, Y0: r.Y0 + top, X1: r.X1 - right, Y1: r.Y1 - bottom}
}

// Round converts the rect to its integer form, rounding each coordinate
// half away from zero.
func (r Rect) Round() IRect {
	return IRect{
		X0: int(math.Round(r.X0)),
		Y0: int(math.Round(r.Y0)),
		X1: int(math.Round(r.X1)),
		Y1: int(math.Round(r.Y1)),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f, %.2f)", r.X0, r.Y0, r.X1, r.Y1)
}

// IRect is the integer-rounded form of Rect. Obstacle and bounding-box
// comparisons in the layout pipeline run on IRects so tolerance checks are
// stable across backends emitting slightly different float coordinates.
type IRect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Width returns the horizontal extent of the rect.
func (r IRect) Width() int { return r.X1 - r.X0 }

// Height returns the vertical extent of the rect.
func (r IRect) Height() int { return r.Y1 - r.Y0 }

// Area returns the rect area, zero for empty rects.
func (r IRect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty reports whether the rect encloses no area.
func (r IRect) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Contains reports whether other lies fully inside r, boundaries included.
func (r IRect) Contains(other IRect) bool {
	return other.X0 >= r.X0 && other.Y0 >= r.Y0 && other.X1 <= r.X1 && other.Y1 <= r.Y1
}

// Intersects reports whether r and other share interior area.
func (r IRect) Intersects(other IRect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 && r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Union returns the smallest rect enclosing both r and other.
func (r IRect) Union(other IRect) IRect {
	return IRect{
		X0: min(r.X0, other.X0),
		Y0: min(r.Y0, other.Y0),
		X1: max(r.X1, other.X1),
		Y1: max(r.Y1, other.Y1),
	}
}

// Rect converts back to the float form.
func (r IRect) Rect() Rect {
	return Rect{X0: float64(r.X0), Y0: float64(r.Y0), X1: float64(r.X1), Y1: float64(r.Y1)}
}

func (r IRect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X0, r.Y0, r.X1, r.Y1)
}

// LeftAligned reports whether the left edges of a and b differ by at most
// tol.
func LeftAligned(a, b IRect, tol int) bool {
	d := a.X0 - b.X0
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// VerticalOverlap returns the length of the shared vertical interval of a
// and b, zero when they do not overlap vertically.
func VerticalOverlap(a, b IRect) int {
	top := max(a.Y0, b.Y0)
	bottom := min(a.Y1, b.Y1)
	if bottom <= top {
		return 0
	}
	return bottom - top
}
