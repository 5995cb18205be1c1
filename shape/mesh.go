package shape

import (
	"github.com/lattice3d/lattice/bvh"
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// TriangleMesh is an immutable triangle soup plus an owned BVH; nothing
// outside this type holds a reference to the tree.
type TriangleMesh struct {
	vertices []vecmath.Vec3
	indices  [][3]int
	tree     *bvh.Tree
	aabb     geom.AABB
	offset   vecmath.Vec3 // accumulated translation, applied lazily to queries
}

// NewTriangleMesh builds the owned BVH immediately. Zero triangles is
// allowed: the mesh is simply inert for all
// narrow-phase tests.
func NewTriangleMesh(vertices []vecmath.Vec3, indices [][3]int, maxTrisPerLeaf int) *TriangleMesh {
	tris := make([]bvh.Triangle, len(indices))
	for i, tri := range indices {
		tris[i] = bvh.Triangle{A: vertices[tri[0]], B: vertices[tri[1]], C: vertices[tri[2]]}
	}
	m := &TriangleMesh{vertices: vertices, indices: indices, tree: bvh.Build(tris, maxTrisPerLeaf)}
	m.refreshAABB()
	return m
}

func (m *TriangleMesh) refreshAABB() {
	if len(m.vertices) == 0 {
		m.aabb = geom.AABB{}
		return
	}
	lo, hi := m.vertices[0], m.vertices[0]
	for _, v := range m.vertices {
		lo = vecmath.Vec3{vecmath.Min32(lo.X(), v.X()), vecmath.Min32(lo.Y(), v.Y()), vecmath.Min32(lo.Z(), v.Z())}
		hi = vecmath.Vec3{vecmath.Max32(hi.X(), v.X()), vecmath.Max32(hi.Y(), v.Y()), vecmath.Max32(hi.Z(), v.Z())}
	}
	m.aabb = geom.AABB{Min: lo, Max: hi}
}

func (m *TriangleMesh) Kind() Kind             { return KindTriangleMesh }
func (m *TriangleMesh) Position() vecmath.Vec3 { return m.offset }
func (m *TriangleMesh) BVH() *bvh.Tree         { return m.tree }
func (m *TriangleMesh) Offset() vecmath.Vec3   { return m.offset }

// Triangle returns the i'th world-space triangle (vertex data plus the
// accumulated translation offset).
func (m *TriangleMesh) Triangle(i int32) (a, b, c vecmath.Vec3) {
	t := m.tree.Triangles[i]
	return t.A.Add(m.offset), t.B.Add(m.offset), t.C.Add(m.offset)
}

// Translate accumulates an offset applied to every query; mesh
// vertex data is immutable after construction, so the BVH
// itself is never rebuilt.
func (m *TriangleMesh) Translate(delta vecmath.Vec3) {
	m.offset = m.offset.Add(delta)
	m.aabb = m.aabb.Translate(delta)
}

func (m *TriangleMesh) AABB() geom.AABB { return m.aabb }

// Support is not required for mesh narrow-phase dispatch.
func (m *TriangleMesh) Support(d vecmath.Vec3) (vecmath.Vec3, bool) { return vecmath.Vec3{}, false }

func (m *TriangleMesh) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	localOrigin := ray.Origin.Sub(m.offset)
	hit, found := m.tree.IntersectRay(localOrigin, ray.Direction, ray.MaxDistance, eps.Parallel)
	if !found {
		return geom.Miss
	}
	hit.Point = hit.Point.Add(m.offset)
	return hit.RayHit
}
