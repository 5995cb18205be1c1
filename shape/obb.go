package shape

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// OBB is an oriented bounding box: center, halfExtents >= 0, and an
// orthonormal orientation R. The inverse orientation R^-1 (= R^T for a
// rotation matrix) is cached alongside R and kept in lock-step; the
// orientation is fixed at construction, so re-create the box to rotate it.
type OBB struct {
	center      vecmath.Vec3
	halfExtents vecmath.Vec3
	orientation vecmath.Mat3
	invOrient   vecmath.Mat3
}

// NewOBB refuses negative half-extents. The caller must guarantee
// orientation is orthonormal.
func NewOBB(center, halfExtents vecmath.Vec3, orientation vecmath.Mat3) (*OBB, error) {
	if halfExtents.X() < 0 || halfExtents.Y() < 0 || halfExtents.Z() < 0 {
		return nil, invalidParameterf("OBB halfExtents must be >= 0 componentwise, got %v", halfExtents)
	}
	return &OBB{
		center:      center,
		halfExtents: halfExtents,
		orientation: orientation,
		invOrient:   orientation.Transpose(),
	}, nil
}

func (o *OBB) Kind() Kind                       { return KindOBB }
func (o *OBB) Position() vecmath.Vec3           { return o.center }
func (o *OBB) HalfExtents() vecmath.Vec3        { return o.halfExtents }
func (o *OBB) Orientation() vecmath.Mat3        { return o.orientation }
func (o *OBB) InverseOrientation() vecmath.Mat3 { return o.invOrient }

func (o *OBB) Translate(delta vecmath.Vec3) {
	o.center = o.center.Add(delta)
}

// AABB computes the world-space bounding box of the rotated box: for each
// axis, the projected extent is Sum(|R_ij| * h_j).
func (o *OBB) AABB() geom.AABB {
	ext := vecmath.Vec3{
		geom.ProjectOBBOntoAxis(o.halfExtents, o.orientation, vecmath.Vec3{1, 0, 0}),
		geom.ProjectOBBOntoAxis(o.halfExtents, o.orientation, vecmath.Vec3{0, 1, 0}),
		geom.ProjectOBBOntoAxis(o.halfExtents, o.orientation, vecmath.Vec3{0, 0, 1}),
	}
	return geom.AABB{Min: o.center.Sub(ext), Max: o.center.Add(ext)}
}

// ToLocal maps a world-space point into the box's local frame.
func (o *OBB) ToLocal(p vecmath.Vec3) vecmath.Vec3 {
	return o.invOrient.Mul3x1(p.Sub(o.center))
}

// ToWorld maps a local-space point back into world space.
func (o *OBB) ToWorld(p vecmath.Vec3) vecmath.Vec3 {
	return o.orientation.Mul3x1(p).Add(o.center)
}

// Support maps d into local space, picks the signed-extent corner there
// (as Box.Support does), and maps back to world.
func (o *OBB) Support(d vecmath.Vec3) (vecmath.Vec3, bool) {
	localD := o.invOrient.Mul3x1(d)
	local := vecmath.Vec3{
		signedExtent(localD.X(), o.halfExtents.X()),
		signedExtent(localD.Y(), o.halfExtents.Y()),
		signedExtent(localD.Z(), o.halfExtents.Z()),
	}
	return o.ToWorld(local), true
}

// RayIntersect transforms the ray into local space, applies the slab
// method, then maps the hit point and normal back to world.
func (o *OBB) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	localOrigin := o.ToLocal(ray.Origin)
	localDir := o.invOrient.Mul3x1(ray.Direction)
	box := geom.AABB{Min: mgl32.Vec3{-o.halfExtents.X(), -o.halfExtents.Y(), -o.halfExtents.Z()}, Max: o.halfExtents}
	t, localPoint, localNormal, ok := box.RayIntersect(localOrigin, localDir, ray.MaxDistance, eps.Parallel, eps.FaceSelectOBB)
	if !ok {
		return geom.Miss
	}
	return geom.RayHit{Hit: true, T: t, Point: o.ToWorld(localPoint), Normal: o.orientation.Mul3x1(localNormal)}
}
