// Package vecmath is the vector math kernel. It builds on
// github.com/go-gl/mathgl/mgl32, adding only the handful of operations
// the collision and indexing code needs that mgl32 doesn't already
// provide verbatim.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 serves as both point and vector; the distinction is in how a
// value is used, not its representation. mgl32.Vec3 is a [3]float32, so
// component access by index and by accessor method are both available.
type Vec3 = mgl32.Vec3

// Mat3 is a 3x3 matrix, column-major per mgl32's convention (column vectors,
// v' = M*v).
type Mat3 = mgl32.Mat3

// Zero3 is the zero vector.
func Zero3() Vec3 { return Vec3{0, 0, 0} }

// Perpendicular returns a unit vector orthogonal to the unit vector a,
// crossing with {1,0,0} when |a.x| < 0.9 and {0,1,0} otherwise.
func Perpendicular(a Vec3) Vec3 {
	var ref Vec3
	if mgl32.Abs(a.X()) < 0.9 {
		ref = Vec3{1, 0, 0}
	} else {
		ref = Vec3{0, 1, 0}
	}
	p := a.Cross(ref)
	if l := p.Len(); l > 1e-8 {
		return p.Mul(1 / l)
	}
	// a was (anti)parallel to ref in spite of the 0.9 guard (shouldn't
	// happen for a genuinely unit a); fall back to the other reference.
	return a.Cross(Vec3{0, 0, 1}).Normalize()
}

// ClosestPointOnSegment projects p onto the segment [a,b] and clamps t to
// [0,1].
func ClosestPointOnSegment(p, a, b Vec3) Vec3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-12 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = Clamp(t, 0, 1)
	return a.Add(ab.Mul(t))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs32 is a float32 absolute value without the float64 round-trip
// math.Abs forces.
func Abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Min32 and Max32 avoid the float64 round-trip of math.Min/Max.
func Min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Sqrt32 is a float32 square root without forcing a float64 round-trip at
// call sites.
func Sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
