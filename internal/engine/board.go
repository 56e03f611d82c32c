package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/nestcut/internal/model"
)

// exactFitTolerance is the dimensional slack allowed when a part exactly
// fills an empty board.
const exactFitTolerance = 0.1

// Board is one stock sheet instance being filled. It owns the ordered list
// of placed instances and the free-space tracker: a set of maximal free
// rectangles that may overlap each other but never claim area covered by a
// placed part's kerf-expanded footprint.
type Board struct {
	ID       int
	Material string
	Width    float64
	Height   float64
	Placed   []*model.PartInstance

	freeRects []rect
}

// NewBoard creates an empty board with a single free rectangle covering the
// whole sheet.
func NewBoard(id int, material string, width, height float64) *Board {
	return &Board{
		ID:        id,
		Material:  material,
		Width:     width,
		Height:    height,
		freeRects: []rect{{0, 0, width, height}},
	}
}

// FindPosition searches for a bottom-left position that accommodates a part
// of the given dimensions plus kerf clearance against already-placed
// neighbors. No clearance is required against the outer board boundary.
// Returns ok=false when no free rectangle fits the part.
func (b *Board) FindPosition(w, h, kerf float64) (x, y float64, ok bool) {
	// A part that exactly fills an empty board needs no kerf gap at all.
	if len(b.Placed) == 0 &&
		math.Abs(w-b.Width) < exactFitTolerance &&
		math.Abs(h-b.Height) < exactFitTolerance {
		return 0, 0, true
	}

	// Free rectangles are kept sorted by lowest y then lowest x, so the
	// first fit is the bottom-left-most one.
	for _, r := range b.freeRects {
		if b.fits(r, w, h, kerf) {
			return r.x, r.y, true
		}
	}
	return 0, 0, false
}

// fits reports whether a part of size w x h fits into the free rectangle r
// with kerf clearance. The kerf margin is waived on a side where the free
// rectangle reaches the board boundary: edge-filling pieces need no gap
// from the sheet edge.
func (b *Board) fits(r rect, w, h, kerf float64) bool {
	widthOK := w+kerf <= r.w+epsilon ||
		(r.right() >= b.Width-epsilon && w <= r.w+epsilon)
	heightOK := h+kerf <= r.h+epsilon ||
		(r.top() >= b.Height-epsilon && h <= r.h+epsilon)
	return widthOK && heightOK
}

// Place records the instance at (x, y) and carves its kerf-expanded
// footprint out of the free-space tracker. The instance's position and
// board assignment are set here, exactly once.
func (b *Board) Place(inst *model.PartInstance, x, y, kerf float64) {
	inst.X = x
	inst.Y = y
	inst.BoardID = b.ID
	b.Placed = append(b.Placed, inst)

	footprint := rect{x: x, y: y, w: inst.Width + kerf, h: inst.Height + kerf}

	var updated []rect
	for _, free := range b.freeRects {
		if intersects(free, footprint) {
			updated = append(updated, subtractRect(free, footprint)...)
		} else {
			updated = append(updated, free)
		}
	}

	b.freeRects = pruneContained(updated)
	b.sortFreeRects()
}

// sortFreeRects orders free rectangles by lowest y then lowest x so the
// position search prefers the bottom-left corner.
func (b *Board) sortFreeRects() {
	sort.Slice(b.freeRects, func(i, j int) bool {
		a, c := b.freeRects[i], b.freeRects[j]
		if math.Abs(a.y-c.y) < 0.01 {
			return a.x < c.x
		}
		return a.y < c.y
	})
}

// UsedArea returns the total area covered by placed parts in square mm.
func (b *Board) UsedArea() float64 {
	var total float64
	for _, pi := range b.Placed {
		total += pi.Area()
	}
	return total
}

// WastePercentage returns the unused share of the sheet in percent.
func (b *Board) WastePercentage() float64 {
	total := b.Width * b.Height
	if total == 0 {
		return 0
	}
	return (total - b.UsedArea()) / total * 100.0
}

// Result converts the board into its exported result form.
func (b *Board) Result() model.BoardResult {
	return model.BoardResult{
		ID:       b.ID,
		Material: b.Material,
		Width:    b.Width,
		Height:   b.Height,
		Parts:    b.Placed,
	}
}
