package shape

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// Box is an axis-aligned box: center + halfExtents >= 0 componentwise,
// with a cached world AABB kept in lock-step by Translate.
type Box struct {
	center      vecmath.Vec3
	halfExtents vecmath.Vec3
	aabb        geom.AABB
}

// NewBox refuses negative half-extents at construction.
func NewBox(center, halfExtents vecmath.Vec3) (*Box, error) {
	if halfExtents.X() < 0 || halfExtents.Y() < 0 || halfExtents.Z() < 0 {
		return nil, invalidParameterf("box halfExtents must be >= 0 componentwise, got %v", halfExtents)
	}
	b := &Box{center: center, halfExtents: halfExtents}
	b.refreshAABB()
	return b, nil
}

func (b *Box) refreshAABB() {
	b.aabb = geom.AABB{Min: b.center.Sub(b.halfExtents), Max: b.center.Add(b.halfExtents)}
}

func (b *Box) Kind() Kind                { return KindBox }
func (b *Box) Position() vecmath.Vec3    { return b.center }
func (b *Box) HalfExtents() vecmath.Vec3 { return b.halfExtents }

func (b *Box) Translate(delta vecmath.Vec3) {
	b.center = b.center.Add(delta)
	b.refreshAABB()
}

func (b *Box) AABB() geom.AABB { return b.aabb }

// Support picks the corner of greatest projection onto d: each
// half-extent signed by d's component sign.
func (b *Box) Support(d vecmath.Vec3) (vecmath.Vec3, bool) {
	return vecmath.Vec3{
		b.center.X() + signedExtent(d.X(), b.halfExtents.X()),
		b.center.Y() + signedExtent(d.Y(), b.halfExtents.Y()),
		b.center.Z() + signedExtent(d.Z(), b.halfExtents.Z()),
	}, true
}

func signedExtent(d, h float32) float32 {
	if d < 0 {
		return -h
	}
	return h
}

func (b *Box) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	t, point, normal, ok := b.aabb.RayIntersect(ray.Origin, ray.Direction, ray.MaxDistance, eps.Parallel, eps.FaceSelectAABB)
	if !ok {
		return geom.Miss
	}
	return geom.RayHit{Hit: true, T: t, Point: point, Normal: normal}
}
