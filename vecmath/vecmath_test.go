package vecmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerpendicularIsOrthogonalAndUnit(t *testing.T) {
	// Both reference branches: |a.x| < 0.9 crosses with {1,0,0}, otherwise
	// with {0,1,0}.
	for _, a := range []Vec3{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
		{0.6, 0.8, 0},
	} {
		p := Perpendicular(a)
		assert.InDelta(t, 0, float64(a.Dot(p)), 1e-5, "axis %v", a)
		assert.InDelta(t, 1, float64(p.Len()), 1e-5, "axis %v", a)
	}
}

func TestClosestPointOnSegmentClampsToEndpoints(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 0, 0}

	mid := ClosestPointOnSegment(Vec3{5, 3, 0}, a, b)
	assert.InDelta(t, 5, mid.X(), 1e-5)
	assert.InDelta(t, 0, mid.Y(), 1e-5)

	before := ClosestPointOnSegment(Vec3{-5, 0, 0}, a, b)
	assert.Equal(t, a, before)

	after := ClosestPointOnSegment(Vec3{15, 0, 0}, a, b)
	assert.Equal(t, b, after)
}

func TestClosestPointOnSegmentDegenerate(t *testing.T) {
	a := Vec3{1, 2, 3}
	assert.Equal(t, a, ClosestPointOnSegment(Vec3{9, 9, 9}, a, a))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(-1, 0, 1))
	assert.Equal(t, float32(1), Clamp(2, 0, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0, 1))
}
