package engine

import (
	"sort"

	"github.com/piwi3910/nestcut/internal/model"
)

// OrderStrategy reorders the expanded instances before placement begins.
// The ordering must be deterministic for identical input.
type OrderStrategy func([]*model.PartInstance)

// LargestAreaFirst sorts descending by area with a stable tie-break that
// preserves original discovery order. Placing large parts first reduces
// fragmentation of the free space.
func LargestAreaFirst(instances []*model.PartInstance) {
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Area() > instances[j].Area()
	})
}

// tryPlace attempts to place the instance on the board: first in its
// current orientation, then rotated 90° when settings, grain and the
// rotatable flag allow it. On failure the instance is restored to its exact
// pre-attempt dimensions and rotation state.
func tryPlace(inst *model.PartInstance, b *Board, settings model.NestSettings) bool {
	origW, origH, origRotated := inst.Width, inst.Height, inst.Rotated

	if x, y, ok := b.FindPosition(inst.Width, inst.Height, settings.KerfWidth); ok {
		b.Place(inst, x, y, settings.KerfWidth)
		return true
	}

	if settings.AllowRotation && inst.CanRotate() && !inst.Rotated {
		inst.Rotate()
		if x, y, ok := b.FindPosition(inst.Width, inst.Height, settings.KerfWidth); ok {
			b.Place(inst, x, y, settings.KerfWidth)
			return true
		}
	}

	inst.Width, inst.Height, inst.Rotated = origW, origH, origRotated
	return false
}
