package shape

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// HullFace is a triangular face: three vertex indices into the hull's
// vertex table and a unit outward normal.
type HullFace struct {
	A, B, C int
	Normal  vecmath.Vec3
}

// ConvexHull is a list of world-space vertices plus triangular faces, each
// carrying a unit outward normal. Hull construction from a point cloud is
// left to the caller: the shape assumes a pre-triangulated hull.
type ConvexHull struct {
	vertices []vecmath.Vec3
	faces    []HullFace
	aabb     geom.AABB
	centroid vecmath.Vec3
}

// NewConvexHull takes ownership of vertices/faces (not copied; callers
// must not mutate them afterward). Zero vertices/faces is allowed: such a
// hull reports no collision in every subsequent pair test.
func NewConvexHull(vertices []vecmath.Vec3, faces []HullFace) (*ConvexHull, error) {
	for _, f := range faces {
		if f.A < 0 || f.A >= len(vertices) || f.B < 0 || f.B >= len(vertices) || f.C < 0 || f.C >= len(vertices) {
			return nil, invalidParameterf("hull face references out-of-range vertex index")
		}
	}
	h := &ConvexHull{vertices: vertices, faces: faces}
	h.refresh()
	return h, nil
}

func (h *ConvexHull) refresh() {
	if len(h.vertices) == 0 {
		h.aabb = geom.AABB{}
		h.centroid = vecmath.Vec3{}
		return
	}
	lo, hi := h.vertices[0], h.vertices[0]
	sum := vecmath.Vec3{}
	for _, v := range h.vertices {
		lo = vecmath.Vec3{vecmath.Min32(lo.X(), v.X()), vecmath.Min32(lo.Y(), v.Y()), vecmath.Min32(lo.Z(), v.Z())}
		hi = vecmath.Vec3{vecmath.Max32(hi.X(), v.X()), vecmath.Max32(hi.Y(), v.Y()), vecmath.Max32(hi.Z(), v.Z())}
		sum = sum.Add(v)
	}
	h.aabb = geom.AABB{Min: lo, Max: hi}
	h.centroid = sum.Mul(1 / float32(len(h.vertices)))
}

func (h *ConvexHull) Kind() Kind               { return KindConvexHull }
func (h *ConvexHull) Position() vecmath.Vec3   { return h.centroid }
func (h *ConvexHull) Vertices() []vecmath.Vec3 { return h.vertices }
func (h *ConvexHull) Faces() []HullFace        { return h.faces }
func (h *ConvexHull) Centroid() vecmath.Vec3   { return h.centroid }

// Translate shifts every vertex and the cached AABB/centroid (face
// normals are rotation-invariant under pure translation, so they are left
// untouched).
func (h *ConvexHull) Translate(delta vecmath.Vec3) {
	for i := range h.vertices {
		h.vertices[i] = h.vertices[i].Add(delta)
	}
	h.refresh()
}

func (h *ConvexHull) AABB() geom.AABB { return h.aabb }

// Support is the argmax vertex over projection onto d.
func (h *ConvexHull) Support(d vecmath.Vec3) (vecmath.Vec3, bool) {
	if len(h.vertices) == 0 {
		return vecmath.Vec3{}, false
	}
	best := h.vertices[0]
	bestDot := best.Dot(d)
	for _, v := range h.vertices[1:] {
		if dot := v.Dot(d); dot > bestDot {
			best, bestDot = v, dot
		}
	}
	return best, true
}

// IsPointInside reports whether p is on the interior side of every face
// plane (all face normals point outward).
func (h *ConvexHull) IsPointInside(p vecmath.Vec3) bool {
	if len(h.faces) == 0 {
		return false
	}
	for _, f := range h.faces {
		a := h.vertices[f.A]
		if f.Normal.Dot(p.Sub(a)) > 0 {
			return false
		}
	}
	return true
}

// RayIntersect tests the ray against each face, keeping the smallest
// positive t whose hit point lies inside that face; point-in-triangle is
// the Moller-Trumbore barycentric test, not a face-plane-only check.
func (h *ConvexHull) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	best := geom.Miss
	for _, f := range h.faces {
		a, b, c := h.vertices[f.A], h.vertices[f.B], h.vertices[f.C]
		hit := geom.RayTriangle(ray.Origin, ray.Direction, a, b, c, ray.MaxDistance, eps.Parallel)
		if hit.Hit && (!best.Hit || hit.T < best.T) {
			best = hit
		}
	}
	return best
}
