// Package geom holds the shape-independent geometric types (AABB, Ray3) and
// the geometry kernels the narrow phase is built from: closest-point
// routines, segment and triangle closest points, ray-vs-triangle
// (Moller-Trumbore), AABB overlap and minimum-translation-vector, and the
// separating-axis helper used by the AABB-vs-OBB pair test.
package geom

import (
	"github.com/lattice3d/lattice/vecmath"
)

// AABB is an axis-aligned box with Min <= Max componentwise.
type AABB struct {
	Min, Max vecmath.Vec3
}

// NewAABB builds an AABB from two corners, normalizing so Min <= Max
// componentwise regardless of argument order.
func NewAABB(a, b vecmath.Vec3) AABB {
	return AABB{
		Min: vecmath.Vec3{vecmath.Min32(a.X(), b.X()), vecmath.Min32(a.Y(), b.Y()), vecmath.Min32(a.Z(), b.Z())},
		Max: vecmath.Vec3{vecmath.Max32(a.X(), b.X()), vecmath.Max32(a.Y(), b.Y()), vecmath.Max32(a.Z(), b.Z())},
	}
}

// Translate returns the AABB shifted by delta. Preserves the Min<=Max
// invariant: min(Δ)+min, max(Δ)+max.
func (b AABB) Translate(delta vecmath.Vec3) AABB {
	return AABB{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// Center returns the AABB's midpoint.
func (b AABB) Center() vecmath.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtents returns (Max-Min)/2.
func (b AABB) HalfExtents() vecmath.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Contains reports whether p lies within the (closed) box.
func (b AABB) Contains(p vecmath.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Overlaps reports whether two AABBs intersect (touching counts as overlap).
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() <= o.Max.X() && b.Max.X() >= o.Min.X() &&
		b.Min.Y() <= o.Max.Y() && b.Max.Y() >= o.Min.Y() &&
		b.Min.Z() <= o.Max.Z() && b.Max.Z() >= o.Min.Z()
}

// Union returns the smallest AABB containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: vecmath.Vec3{vecmath.Min32(b.Min.X(), o.Min.X()), vecmath.Min32(b.Min.Y(), o.Min.Y()), vecmath.Min32(b.Min.Z(), o.Min.Z())},
		Max: vecmath.Vec3{vecmath.Max32(b.Max.X(), o.Max.X()), vecmath.Max32(b.Max.Y(), o.Max.Y()), vecmath.Max32(b.Max.Z(), o.Max.Z())},
	}
}

// ClosestPoint clamps p's components into [Min,Max].
func (b AABB) ClosestPoint(p vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{
		vecmath.Clamp(p.X(), b.Min.X(), b.Max.X()),
		vecmath.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
		vecmath.Clamp(p.Z(), b.Min.Z(), b.Max.Z()),
	}
}

// ClosestFaceNormal picks the axis with the smallest distance among
// (p-min, max-p) and returns the corresponding signed unit axis. Used for
// interior contacts.
func (b AABB) ClosestFaceNormal(p vecmath.Vec3) vecmath.Vec3 {
	n, _ := b.ClosestFaceNormalAndDistance(p)
	return n
}

// ClosestFaceNormalAndDistance is ClosestFaceNormal plus the distance to
// that face. For p inside the box this distance is the interior
// penetration depth narrow-phase pair tests need when a sphere/capsule
// center lands inside a box.
func (b AABB) ClosestFaceNormalAndDistance(p vecmath.Vec3) (vecmath.Vec3, float32) {
	dists := [6]float32{
		p.X() - b.Min.X(), b.Max.X() - p.X(),
		p.Y() - b.Min.Y(), b.Max.Y() - p.Y(),
		p.Z() - b.Min.Z(), b.Max.Z() - p.Z(),
	}
	best := 0
	for i := 1; i < 6; i++ {
		if dists[i] < dists[best] {
			best = i
		}
	}
	switch best {
	case 0:
		return vecmath.Vec3{-1, 0, 0}, dists[0]
	case 1:
		return vecmath.Vec3{1, 0, 0}, dists[1]
	case 2:
		return vecmath.Vec3{0, -1, 0}, dists[2]
	case 3:
		return vecmath.Vec3{0, 1, 0}, dists[3]
	case 4:
		return vecmath.Vec3{0, 0, -1}, dists[4]
	default:
		return vecmath.Vec3{0, 0, 1}, dists[5]
	}
}

// OverlapMTV returns the minimum-translation-vector axis (0,1,2), the
// signed push-out normal, and the penetration depth for two overlapping
// AABBs. ok is false when the
// boxes are disjoint.
func OverlapMTV(a, b AABB) (axis int, normal vecmath.Vec3, depth float32, ok bool) {
	if !a.Overlaps(b) {
		return 0, vecmath.Vec3{}, 0, false
	}
	overlapX := vecmath.Min32(a.Max.X(), b.Max.X()) - vecmath.Max32(a.Min.X(), b.Min.X())
	overlapY := vecmath.Min32(a.Max.Y(), b.Max.Y()) - vecmath.Max32(a.Min.Y(), b.Min.Y())
	overlapZ := vecmath.Min32(a.Max.Z(), b.Max.Z()) - vecmath.Max32(a.Min.Z(), b.Min.Z())

	axis = 0
	depth = overlapX
	if overlapY < depth {
		axis, depth = 1, overlapY
	}
	if overlapZ < depth {
		axis, depth = 2, overlapZ
	}

	centerA, centerB := a.Center(), b.Center()
	var dir float32
	switch axis {
	case 0:
		dir = centerB.X() - centerA.X()
	case 1:
		dir = centerB.Y() - centerA.Y()
	default:
		dir = centerB.Z() - centerA.Z()
	}
	sign := float32(1)
	if dir < 0 {
		sign = -1
	}
	switch axis {
	case 0:
		normal = vecmath.Vec3{sign, 0, 0}
	case 1:
		normal = vecmath.Vec3{0, sign, 0}
	default:
		normal = vecmath.Vec3{0, 0, sign}
	}
	return axis, normal, depth, true
}

// RayIntersect is the slab method.
// Parallel axes (|dir[i]| < epsParallel) are rejected unless the origin
// already lies within the slab. Returns ok=false on a miss.
func (b AABB) RayIntersect(origin, dir vecmath.Vec3, maxDistance, epsParallel, epsFaceSelect float32) (t float32, point, normal vecmath.Vec3, ok bool) {
	tMin, tMax := float32(0), maxDistance
	o := [3]float32{origin.X(), origin.Y(), origin.Z()}
	d := [3]float32{dir.X(), dir.Y(), dir.Z()}
	lo := [3]float32{b.Min.X(), b.Min.Y(), b.Min.Z()}
	hi := [3]float32{b.Max.X(), b.Max.Y(), b.Max.Z()}

	for i := 0; i < 3; i++ {
		if vecmath.Abs32(d[i]) < epsParallel {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, vecmath.Vec3{}, vecmath.Vec3{}, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, vecmath.Vec3{}, vecmath.Vec3{}, false
		}
	}
	t = tMin
	point = origin.Add(dir.Mul(t))
	normal = b.faceNormalAt(point, epsFaceSelect)
	return t, point, normal, true
}

func (b AABB) faceNormalAt(p vecmath.Vec3, eps float32) vecmath.Vec3 {
	if vecmath.Abs32(p.X()-b.Min.X()) < eps {
		return vecmath.Vec3{-1, 0, 0}
	}
	if vecmath.Abs32(p.X()-b.Max.X()) < eps {
		return vecmath.Vec3{1, 0, 0}
	}
	if vecmath.Abs32(p.Y()-b.Min.Y()) < eps {
		return vecmath.Vec3{0, -1, 0}
	}
	if vecmath.Abs32(p.Y()-b.Max.Y()) < eps {
		return vecmath.Vec3{0, 1, 0}
	}
	if vecmath.Abs32(p.Z()-b.Min.Z()) < eps {
		return vecmath.Vec3{0, 0, -1}
	}
	return b.ClosestFaceNormal(p)
}

// SquaredDistanceToPoint returns the squared distance from p to the
// closest point on the box (0 if p is inside). Used by the BVH's sphere
// query rejection test.
func (b AABB) SquaredDistanceToPoint(p vecmath.Vec3) float32 {
	q := b.ClosestPoint(p)
	d := p.Sub(q)
	return d.Dot(d)
}
