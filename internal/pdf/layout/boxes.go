package layout

import (
	"sort"

	"github.com/a3tai/pdftextflow/internal/pdf/content"
	"github.com/a3tai/pdftextflow/internal/pdf/geometry"
)

// Box shaping thresholds.
const (
	defaultMaxLineVerticalSpacing   = 5
	defaultLeftAlignmentTolerance   = 2
	defaultVerticalOverlapTolerance = 3
	defaultColumnGapTolerance       = 1
)

// BoundingBoxPipeline shapes the text block boxes of a page: it orders
// them into reading order, grows each box rightward up to the nearest
// obstacle or neighbouring column, and merges boxes that continue one
// another vertically.
type BoundingBoxPipeline struct {
	maxLineSpacing   int
	leftTolerance    int
	overlapTolerance int
	columnGap        int
	backgroundAware  bool
}

// NewBoundingBoxPipeline returns a pipeline with the default thresholds.
// With backgroundAware set, blocks sitting on a shaded background are
// ordered behind the plain ones so sidebars read after the body text.
func NewBoundingBoxPipeline(backgroundAware bool) *BoundingBoxPipeline {
	return &BoundingBoxPipeline{
		maxLineSpacing:   defaultMaxLineVerticalSpacing,
		leftTolerance:    defaultLeftAlignmentTolerance,
		overlapTolerance: defaultVerticalOverlapTolerance,
		columnGap:        defaultColumnGapTolerance,
		backgroundAware:  backgroundAware,
	}
}

// Run applies the full shaping sequence used during extraction: sort,
// extend, re-sort, merge.
func (p *BoundingBoxPipeline) Run(pc *content.PageContent) {
	p.Sort(pc)
	p.Extend(pc)
	p.Sort(pc)
	p.Merge(pc)
}

// Sort orders the blocks of a page by column then vertical position. In
// background-aware mode the blocks lying fully on a background are moved
// behind the plain ones, each group sorted on its own.
func (p *BoundingBoxPipeline) Sort(pc *content.PageContent) {
	n := pc.Len()
	if n < 2 {
		return
	}

	shaded := make([]bool, n)
	if p.backgroundAware && len(pc.Backgrounds) > 0 {
		for i, bb := range pc.BBoxes {
			shaded[i] = onBackground(bb, pc.Backgrounds)
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if shaded[a] != shaded[b] {
			return !shaded[a]
		}
		if pc.BBoxes[a].X0 != pc.BBoxes[b].X0 {
			return pc.BBoxes[a].X0 < pc.BBoxes[b].X0
		}
		return pc.BBoxes[a].Y0 < pc.BBoxes[b].Y0
	})

	blocks := make([]*content.TextBlock, n)
	boxes := make([]geometry.IRect, n)
	for i, idx := range order {
		blocks[i] = pc.Blocks[idx]
		boxes[i] = pc.BBoxes[idx]
	}
	pc.Blocks, pc.BBoxes = blocks, boxes
}

// Extend grows each box rightward to the right edge of the page text
// area. The extension stops at obstacles overlapping the box vertically
// by more than the overlap tolerance, and at the left edge of any box
// lying right of the original box with a gap above the column tolerance.
// Left edges never move, so reading order is preserved.
func (p *BoundingBoxPipeline) Extend(pc *content.PageContent) {
	textRight := pc.Geometry.Round().X1

	for i := range pc.BBoxes {
		orig := pc.BBoxes[i]
		ext := orig
		ext.X1 = textRight

		for _, obs := range pc.Obstacles {
			if !ext.Intersects(obs) {
				continue
			}
			overlapTop := obs.Y1 - ext.Y0
			overlapBottom := ext.Y1 - obs.Y0
			if overlapTop > p.overlapTolerance && overlapBottom > p.overlapTolerance {
				ext.X1 = min(ext.X1, obs.X0)
			}
		}

		for j, other := range pc.BBoxes {
			if j == i {
				continue
			}
			if other.X0 > orig.X1+p.columnGap {
				ext.X1 = min(ext.X1, other.X0)
			}
		}

		pc.BBoxes[i] = ext
	}
}

// Merge folds the page's blocks left to right: a block joins the
// previously merged one when their boxes intersect, or when they are
// left-aligned within tolerance and vertically closer than the line
// spacing limit. Blocks only merge when both carry a uniform headline
// state and the states agree, so headings never fuse with body text.
func (p *BoundingBoxPipeline) Merge(pc *content.PageContent) {
	if pc.Len() < 2 {
		return
	}

	mergedBlocks := []*content.TextBlock{pc.Blocks[0]}
	mergedBoxes := []geometry.IRect{pc.BBoxes[0]}

	for i := 1; i < pc.Len(); i++ {
		last := len(mergedBoxes) - 1
		if p.shouldMerge(mergedBoxes[last], pc.BBoxes[i], mergedBlocks[last], pc.Blocks[i]) {
			mergedBoxes[last] = mergedBoxes[last].Union(pc.BBoxes[i])
			mergedBlocks[last].Lines = append(mergedBlocks[last].Lines, pc.Blocks[i].Lines...)
			continue
		}
		mergedBlocks = append(mergedBlocks, pc.Blocks[i])
		mergedBoxes = append(mergedBoxes, pc.BBoxes[i])
	}

	pc.Blocks, pc.BBoxes = mergedBlocks, mergedBoxes
}

func (p *BoundingBoxPipeline) shouldMerge(prevBox, curBox geometry.IRect, prev, cur *content.TextBlock) bool {
	if !headlineAgreement(prev, cur) {
		return false
	}
	if prevBox.Intersects(curBox) {
		return true
	}
	return geometry.LeftAligned(prevBox, curBox, p.leftTolerance) &&
		intAbs(curBox.Y0-prevBox.Y1) <= p.maxLineSpacing
}

// headlineAgreement reports whether the two blocks carry the same
// uniform headline state across all their lines.
func headlineAgreement(a, b *content.TextBlock) bool {
	if a.AllHeadline() && b.AllHeadline() {
		return true
	}
	return a.NoneHeadline() && b.NoneHeadline()
}

// onBackground reports whether the box lies fully inside any background.
func onBackground(box geometry.IRect, backgrounds []geometry.IRect) bool {
	for _, bg := range backgrounds {
		if bg.Contains(box) {
			return true
		}
	}
	return false
}
