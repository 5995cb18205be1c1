package geom

import (
	"testing"

	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestPointsSegmentsParallel(t *testing.T) {
	// Parallel capsule axes 2 apart.
	c1, c2, _, _ := ClosestPointsSegments(
		vecmath.Vec3{0, 0, 0}, vecmath.Vec3{0, 10, 0},
		vecmath.Vec3{2, 0, 0}, vecmath.Vec3{2, 10, 0},
	)
	d := c2.Sub(c1)
	assert.InDelta(t, 2, d.Len(), 1e-4)
}

func TestClosestPointOnTriangleFaceRegion(t *testing.T) {
	a := vecmath.Vec3{0, 0, 0}
	b := vecmath.Vec3{1, 0, 0}
	c := vecmath.Vec3{0, 1, 0}
	p := vecmath.Vec3{0.25, 0.25, 1}
	cp := ClosestPointOnTriangle(p, a, b, c)
	assert.InDelta(t, 0.25, cp.X(), 1e-5)
	assert.InDelta(t, 0.25, cp.Y(), 1e-5)
	assert.InDelta(t, 0, cp.Z(), 1e-5)
}

func TestClosestPointOnTriangleVertexRegion(t *testing.T) {
	a := vecmath.Vec3{0, 0, 0}
	b := vecmath.Vec3{1, 0, 0}
	c := vecmath.Vec3{0, 1, 0}
	p := vecmath.Vec3{-5, -5, 0}
	cp := ClosestPointOnTriangle(p, a, b, c)
	assert.Equal(t, a, cp)
}

func TestRayTriangleMollerTrumbore(t *testing.T) {
	a := vecmath.Vec3{0, 0, 0}
	b := vecmath.Vec3{1, 0, 0}
	c := vecmath.Vec3{0, 1, 0}
	hit := RayTriangle(vecmath.Vec3{0.25, 0.25, 1}, vecmath.Vec3{0, 0, -1}, a, b, c, 10, 1e-6)
	require.True(t, hit.Hit)
	assert.InDelta(t, 1, hit.T, 1e-5)
	assert.InDelta(t, 1, hit.Normal.Z(), 1e-5)
}

func TestRayTriangleOutsideMisses(t *testing.T) {
	a := vecmath.Vec3{0, 0, 0}
	b := vecmath.Vec3{1, 0, 0}
	c := vecmath.Vec3{0, 1, 0}
	hit := RayTriangle(vecmath.Vec3{5, 5, 1}, vecmath.Vec3{0, 0, -1}, a, b, c, 10, 1e-6)
	assert.False(t, hit.Hit)
}

func TestTriangleAABBOverlap(t *testing.T) {
	box := NewAABB(vecmath.Vec3{-0.5, -0.5, -0.5}, vecmath.Vec3{0.5, 0.5, 0.5})
	a := vecmath.Vec3{-2, 0, 0}
	b := vecmath.Vec3{2, 0, 0}
	c := vecmath.Vec3{0, 2, 0}
	assert.True(t, TriangleAABBOverlap(a, b, c, box))

	far := NewAABB(vecmath.Vec3{10, 10, 10}, vecmath.Vec3{11, 11, 11})
	assert.False(t, TriangleAABBOverlap(a, b, c, far))
}
