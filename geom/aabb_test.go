package geom

import (
	"testing"

	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAABBTranslatePreservesInvariant(t *testing.T) {
	b := NewAABB(vecmath.Vec3{-1, -1, -1}, vecmath.Vec3{1, 1, 1})
	delta := vecmath.Vec3{2, 3, 4}
	moved := b.Translate(delta)
	assert.Equal(t, b.Min.Add(delta), moved.Min)
	assert.Equal(t, b.Max.Add(delta), moved.Max)
}

func TestAABBOverlapMTV(t *testing.T) {
	a := NewAABB(vecmath.Vec3{-1, -1, -1}, vecmath.Vec3{1, 1, 1})
	b := NewAABB(vecmath.Vec3{0.5, -0.5, -0.5}, vecmath.Vec3{2.5, 1.5, 1.5})
	axis, normal, depth, ok := OverlapMTV(a, b)
	require.True(t, ok)
	assert.Equal(t, 0, axis)
	assert.InDelta(t, 1, normal.X(), 1e-5)
	assert.InDelta(t, 0.5, depth, 1e-5)
}

func TestAABBOverlapMTVDisjoint(t *testing.T) {
	a := NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 1, 1})
	b := NewAABB(vecmath.Vec3{5, 5, 5}, vecmath.Vec3{6, 6, 6})
	_, _, _, ok := OverlapMTV(a, b)
	assert.False(t, ok)
}

func TestAABBRayIntersectSlab(t *testing.T) {
	box := NewAABB(vecmath.Vec3{-1, -1, -1}, vecmath.Vec3{1, 1, 1})
	t_, point, normal, ok := box.RayIntersect(vecmath.Vec3{-2, 0, 0}, vecmath.Vec3{1, 0, 0}, 10, 1e-6, 1e-3)
	require.True(t, ok)
	assert.InDelta(t, 1, t_, 1e-5)
	assert.InDelta(t, -1, point.X(), 1e-4)
	assert.InDelta(t, -1, normal.X(), 1e-5)
}

func TestAABBRayIntersectParallelMiss(t *testing.T) {
	box := NewAABB(vecmath.Vec3{-1, -1, -1}, vecmath.Vec3{1, 1, 1})
	// Ray travels parallel to X outside the box's Y slab.
	_, _, _, ok := box.RayIntersect(vecmath.Vec3{-5, 5, 0}, vecmath.Vec3{1, 0, 0}, 100, 1e-6, 1e-3)
	assert.False(t, ok)
}

func TestClosestFaceNormalPicksNearestAxis(t *testing.T) {
	box := NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{10, 10, 10})
	n := box.ClosestFaceNormal(vecmath.Vec3{9, 5, 5})
	assert.Equal(t, vecmath.Vec3{1, 0, 0}, n)
}
