// Package engine implements the in-process nesting algorithm: per-board
// free-space tracking with maximal rectangles, the bottom-left placement
// heuristic and the per-material orchestration loop.
package engine

// epsilon absorbs floating point noise in geometric comparisons.
const epsilon = 0.001

// rect is an axis-aligned rectangle with the origin in the bottom-left
// corner of the board, all values in mm.
type rect struct {
	x, y, w, h float64
}

func (r rect) right() float64 { return r.x + r.w }
func (r rect) top() float64   { return r.y + r.h }
func (r rect) area() float64  { return r.w * r.h }

// valid reports whether the rectangle has usable extent in both axes.
func (r rect) valid() bool {
	return r.w > epsilon && r.h > epsilon
}

// intersects reports whether two rectangles share interior area.
// Rectangles that merely touch along an edge do not intersect.
func intersects(a, b rect) bool {
	return a.x < b.right()-epsilon && a.right() > b.x+epsilon &&
		a.y < b.top()-epsilon && a.top() > b.y+epsilon
}

// containsRect reports whether outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+epsilon && outer.y <= inner.y+epsilon &&
		outer.right() >= inner.right()-epsilon &&
		outer.top() >= inner.top()-epsilon
}

// subtractRect removes sub from base, returning up to four residue
// rectangles: left and right strips spanning the full base height, and
// bottom and top strips clamped to the intersection's x-span. Degenerate
// residues are dropped. If the rectangles do not overlap, base is returned
// unchanged.
func subtractRect(base, sub rect) []rect {
	ix1 := maxf(base.x, sub.x)
	iy1 := maxf(base.y, sub.y)
	ix2 := minf(base.right(), sub.right())
	iy2 := minf(base.top(), sub.top())

	if ix2 <= ix1 || iy2 <= iy1 {
		return []rect{base}
	}

	var result []rect
	appendValid := func(r rect) {
		if r.valid() {
			result = append(result, r)
		}
	}

	// Left strip
	if base.x < ix1 {
		appendValid(rect{base.x, base.y, ix1 - base.x, base.h})
	}
	// Right strip
	if base.right() > ix2 {
		appendValid(rect{ix2, base.y, base.right() - ix2, base.h})
	}
	// Bottom strip, clamped to the intersection x-span
	if base.y < iy1 {
		appendValid(rect{ix1, base.y, ix2 - ix1, iy1 - base.y})
	}
	// Top strip, clamped to the intersection x-span
	if base.top() > iy2 {
		appendValid(rect{ix1, iy2, ix2 - ix1, base.top() - iy2})
	}

	return result
}

// pruneContained removes any rectangle fully contained within another,
// keeping only maximal free regions.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i != j && containsRect(b, a) {
				// Identical rectangles contain each other; keep the first.
				if containsRect(a, b) && i < j {
					continue
				}
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
