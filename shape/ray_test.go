package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRay(t *testing.T, origin, dir vecmath.Vec3, maxDist float32) geom.Ray3 {
	t.Helper()
	r, ok := geom.NewRay(origin, dir, maxDist)
	require.True(t, ok)
	return r
}

func TestSphereRayRoundTrip(t *testing.T) {
	s, _ := NewSphere(vecmath.Vec3{0, 0, 0}, 1)
	hit := s.RayIntersect(mustRay(t, vecmath.Vec3{-3, 0, 0}, vecmath.Vec3{1, 0, 0}, 10), DefaultEpsilons())
	require.True(t, hit.Hit)
	assert.InDelta(t, 2, hit.T, 1e-4)
	assert.InDelta(t, -1, hit.Point.X(), 1e-3)
	assert.InDelta(t, -1, hit.Normal.X(), 1e-4)
}

func TestSphereRayFromInsideUsesFarRoot(t *testing.T) {
	s, _ := NewSphere(vecmath.Vec3{0, 0, 0}, 1)
	hit := s.RayIntersect(mustRay(t, vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 0, 0}, 10), DefaultEpsilons())
	require.True(t, hit.Hit)
	assert.InDelta(t, 1, hit.T, 1e-4)
}

func TestSphereRayBeyondMaxDistanceMisses(t *testing.T) {
	s, _ := NewSphere(vecmath.Vec3{100, 0, 0}, 1)
	hit := s.RayIntersect(mustRay(t, vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 0, 0}, 10), DefaultEpsilons())
	assert.False(t, hit.Hit)
}

func TestOBBRayRotated(t *testing.T) {
	rot := mgl32.Rotate3DZ(float32(math.Pi / 4))
	o, err := NewOBB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 1, 1}, rot)
	require.NoError(t, err)

	hit := o.RayIntersect(mustRay(t, vecmath.Vec3{-5, 0, 0}, vecmath.Vec3{1, 0, 0}, 20), DefaultEpsilons())
	require.True(t, hit.Hit)
	// The rotated box's silhouette reaches sqrt(2) along x at y=0.
	sqrt2 := float32(math.Sqrt2)
	assert.InDelta(t, 5-sqrt2, hit.T, 1e-3)
	assert.InDelta(t, -sqrt2, hit.Point.X(), 1e-3)
}

func TestCapsuleRayHitsCylinderWall(t *testing.T) {
	c, _ := NewCapsule(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{0, 2, 0}, 0.5)
	hit := c.RayIntersect(mustRay(t, vecmath.Vec3{2, 1, 0}, vecmath.Vec3{-1, 0, 0}, 10), DefaultEpsilons())
	require.True(t, hit.Hit)
	assert.InDelta(t, 1.5, hit.T, 1e-4)
	assert.InDelta(t, 1, hit.Normal.X(), 1e-4)
}

func TestCapsuleRayHitsEndCap(t *testing.T) {
	c, _ := NewCapsule(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{0, 2, 0}, 0.5)
	hit := c.RayIntersect(mustRay(t, vecmath.Vec3{0, 5, 0}, vecmath.Vec3{0, -1, 0}, 10), DefaultEpsilons())
	require.True(t, hit.Hit)
	assert.InDelta(t, 2.5, hit.T, 1e-4)
	assert.InDelta(t, 1, hit.Normal.Y(), 1e-4)
}

func TestConvexHullRayHitsFace(t *testing.T) {
	verts := []vecmath.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	h, err := NewConvexHull(verts, []HullFace{{A: 0, B: 1, C: 2, Normal: vecmath.Vec3{0, 0, 1}}})
	require.NoError(t, err)
	hit := h.RayIntersect(mustRay(t, vecmath.Vec3{0.25, 0.25, 5}, vecmath.Vec3{0, 0, -1}, 10), DefaultEpsilons())
	require.True(t, hit.Hit)
	assert.InDelta(t, 5, hit.T, 1e-4)
}

func TestHeightmapRayRoundTrip(t *testing.T) {
	heights := make([]float32, 25)
	hm, err := NewHeightmap(vecmath.Vec3{0, 0, 0}, 5, 5, 1, heights)
	require.NoError(t, err)

	hit := hm.RayIntersect(mustRay(t, vecmath.Vec3{2, 5, 2}, vecmath.Vec3{0, -1, 0}, 20), DefaultEpsilons())
	require.True(t, hit.Hit)
	assert.InDelta(t, 5, hit.T, 1e-2)
	assert.InDelta(t, 0, hit.Point.Y(), 1e-2)
	assert.InDelta(t, 1, hit.Normal.Y(), 1e-4)
}

func TestHeightmapRayMissesAboveTerrain(t *testing.T) {
	heights := make([]float32, 25)
	hm, _ := NewHeightmap(vecmath.Vec3{0, 0, 0}, 5, 5, 1, heights)
	hit := hm.RayIntersect(mustRay(t, vecmath.Vec3{0, 5, 0}, vecmath.Vec3{1, 0, 0}, 20), DefaultEpsilons())
	assert.False(t, hit.Hit)
}
