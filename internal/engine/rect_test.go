package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractRect_NoOverlapReturnsBase(t *testing.T) {
	base := rect{0, 0, 100, 100}
	sub := rect{200, 200, 50, 50}

	result := subtractRect(base, sub)

	require.Len(t, result, 1)
	assert.Equal(t, base, result[0])
}

func TestSubtractRect_CenterHoleYieldsFourResidues(t *testing.T) {
	base := rect{0, 0, 100, 100}
	sub := rect{25, 25, 50, 50}

	result := subtractRect(base, sub)

	require.Len(t, result, 4)
	// Left and right strips span the full base height.
	assert.Contains(t, result, rect{0, 0, 25, 100})
	assert.Contains(t, result, rect{75, 0, 25, 100})
	// Bottom and top strips are clamped to the intersection x-span.
	assert.Contains(t, result, rect{25, 0, 50, 25})
	assert.Contains(t, result, rect{25, 75, 50, 25})
}

func TestSubtractRect_CornerCutYieldsTwoResidues(t *testing.T) {
	base := rect{0, 0, 100, 100}
	sub := rect{0, 0, 40, 30}

	result := subtractRect(base, sub)

	require.Len(t, result, 2)
	assert.Contains(t, result, rect{40, 0, 60, 100})
	assert.Contains(t, result, rect{0, 30, 40, 70})
}

func TestSubtractRect_FullCoverageRemovesBase(t *testing.T) {
	base := rect{10, 10, 50, 50}
	sub := rect{0, 0, 100, 100}

	result := subtractRect(base, sub)

	assert.Empty(t, result)
}

func TestSubtractRect_DropsDegenerateResidues(t *testing.T) {
	// The cut reaches the left and bottom edges exactly, so only the right
	// and top strips remain.
	base := rect{0, 0, 100, 100}
	sub := rect{0, 0, 100, 60}

	result := subtractRect(base, sub)

	require.Len(t, result, 1)
	assert.Equal(t, rect{0, 60, 100, 40}, result[0])
}

func TestIntersects_TouchingEdgesDoNotIntersect(t *testing.T) {
	a := rect{0, 0, 50, 50}
	b := rect{50, 0, 50, 50}

	assert.False(t, intersects(a, b))
	assert.False(t, intersects(b, a))
}

func TestIntersects_OverlappingInteriors(t *testing.T) {
	a := rect{0, 0, 50, 50}
	b := rect{40, 40, 50, 50}

	assert.True(t, intersects(a, b))
	assert.True(t, intersects(b, a))
}

func TestContainsRect(t *testing.T) {
	outer := rect{0, 0, 100, 100}

	assert.True(t, containsRect(outer, rect{10, 10, 50, 50}))
	assert.True(t, containsRect(outer, outer))
	assert.False(t, containsRect(outer, rect{90, 90, 20, 20}))
	assert.False(t, containsRect(rect{10, 10, 50, 50}, outer))
}

func TestPruneContained_RemovesNestedRects(t *testing.T) {
	rects := []rect{
		{0, 0, 100, 100},
		{10, 10, 20, 20},
		{50, 0, 200, 50},
	}

	kept := pruneContained(rects)

	require.Len(t, kept, 2)
	assert.Contains(t, kept, rect{0, 0, 100, 100})
	assert.Contains(t, kept, rect{50, 0, 200, 50})
}

func TestPruneContained_IdenticalRectsKeepOne(t *testing.T) {
	rects := []rect{
		{0, 0, 50, 50},
		{0, 0, 50, 50},
	}

	kept := pruneContained(rects)

	require.Len(t, kept, 1)
	assert.Equal(t, rect{0, 0, 50, 50}, kept[0])
}
