package geom

import "github.com/lattice3d/lattice/vecmath"

// Ray3 is an origin + unit direction + optional maximum distance.
// Construct with NewRay so Direction is always normalized.
type Ray3 struct {
	Origin      vecmath.Vec3
	Direction   vecmath.Vec3
	MaxDistance float32
}

// Infinite is the MaxDistance sentinel meaning "unbounded".
const Infinite = float32(1e30)

// NewRay normalizes dir. ok is false when dir has (near) zero length;
// a zero ray direction is refused here rather than checked per query.
func NewRay(origin, dir vecmath.Vec3, maxDistance float32) (r Ray3, ok bool) {
	l := dir.Len()
	if l < 1e-12 {
		return Ray3{}, false
	}
	if maxDistance <= 0 {
		maxDistance = Infinite
	}
	return Ray3{Origin: origin, Direction: dir.Mul(1 / l), MaxDistance: maxDistance}, true
}

// PointAt returns origin + t*direction.
func (r Ray3) PointAt(t float32) vecmath.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RayHit is either a miss (Hit=false) or {T, Point, Normal}.
type RayHit struct {
	Hit    bool
	T      float32
	Point  vecmath.Vec3
	Normal vecmath.Vec3
}

// Miss is the canonical "no hit" RayHit.
var Miss = RayHit{}
