package narrow

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

// meshCandidates returns the candidate triangle indices overlapping
// localBox, where localBox is already expressed in the mesh's unoffset
// vertex space.
func meshCandidates(m *shape.TriangleMesh, localBox geom.AABB) []int32 {
	return m.BVH().TrianglesInAABB(localBox)
}

// sphereMesh tests the sphere against every BVH-candidate triangle with an
// exact closest-point-on-triangle solve, keeping the globally closest
// one.
func sphereMesh(s *shape.Sphere, m *shape.TriangleMesh, cfg Config) Contact {
	offset := m.Offset()
	localCenter := s.Position().Sub(offset)
	candidates := m.BVH().TrianglesIntersectingSphere(localCenter, s.Radius())
	if len(candidates) == 0 {
		return NoContact
	}
	bestDistSq := float32(-1)
	var bestPoint, bestNormal vecmath.Vec3
	for _, idx := range candidates {
		tri := m.BVH().Triangles[idx]
		cp := geom.ClosestPointOnTriangle(localCenter, tri.A, tri.B, tri.C)
		d := localCenter.Sub(cp)
		distSq := d.Dot(d)
		if bestDistSq < 0 || distSq < bestDistSq {
			bestDistSq = distSq
			bestPoint = cp
			n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
			if nl := n.Len(); nl > 1e-12 {
				n = n.Mul(1 / nl)
			}
			bestNormal = n
		}
	}
	dist := vecmath.Sqrt32(bestDistSq)
	if dist >= s.Radius() {
		return NoContact
	}
	normal := bestNormal
	if dist > 1e-8 {
		normal = localCenter.Sub(bestPoint).Mul(1 / dist)
	}
	return Contact{
		Collides: true,
		Point:    bestPoint.Add(offset),
		Normal:   normal,
		Depth:    s.Radius() - dist,
	}
}

// aabbMeshApprox is the shared box-like-shape-vs-mesh kernel used by
// boxMesh and obbMesh (using the OBB's world AABB): find any
// BVH-candidate triangle truly overlapping localBox (Akenine-Moller
// triangle/box SAT), then report a constant small penetration along the
// triangle's face normal rather than solving an exact box/triangle
// manifold.
func aabbMeshApprox(worldBox geom.AABB, m *shape.TriangleMesh, cfg Config) Contact {
	offset := m.Offset()
	localBox := worldBox.Translate(offset.Mul(-1))
	for _, idx := range meshCandidates(m, localBox) {
		tri := m.BVH().Triangles[idx]
		if !geom.TriangleAABBOverlap(tri.A, tri.B, tri.C, localBox) {
			continue
		}
		n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
		if nl := n.Len(); nl > 1e-12 {
			n = n.Mul(1 / nl)
		}
		centroid := tri.A.Add(tri.B).Add(tri.C).Mul(1.0 / 3.0)
		return Contact{
			Collides: true,
			Point:    centroid.Add(offset),
			Normal:   n,
			Depth:    cfg.MeshContactDepth,
		}
	}
	return NoContact
}

func obbMesh(o *shape.OBB, m *shape.TriangleMesh, cfg Config) Contact {
	// The BVH only accelerates AABB/sphere queries, so the OBB is
	// conservatively approximated by its own world AABB for candidate
	// gathering.
	return aabbMeshApprox(o.AABB(), m, cfg)
}

func capsuleMesh(c *shape.Capsule, m *shape.TriangleMesh, cfg Config) Contact {
	offset := m.Offset()
	p1, p2 := c.Endpoints()
	localP1, localP2 := p1.Sub(offset), p2.Sub(offset)
	localBox := geom.NewAABB(localP1, localP2)
	r := vecmath.Vec3{c.Radius(), c.Radius(), c.Radius()}
	localBox = geom.AABB{Min: localBox.Min.Sub(r), Max: localBox.Max.Add(r)}

	candidates := meshCandidates(m, localBox)
	bestDistSq := float32(-1)
	var bestPoint, bestNormal vecmath.Vec3
	for _, idx := range candidates {
		tri := m.BVH().Triangles[idx]
		axisPoint := vecmath.ClosestPointOnSegment(tri.A, localP1, localP2) // seed
		cp := geom.ClosestPointOnTriangle(axisPoint, tri.A, tri.B, tri.C)
		axisPoint = vecmath.ClosestPointOnSegment(cp, localP1, localP2)
		cp = geom.ClosestPointOnTriangle(axisPoint, tri.A, tri.B, tri.C)
		d := axisPoint.Sub(cp)
		distSq := d.Dot(d)
		if bestDistSq < 0 || distSq < bestDistSq {
			bestDistSq = distSq
			bestPoint = cp
			n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
			if nl := n.Len(); nl > 1e-12 {
				n = n.Mul(1 / nl)
			}
			bestNormal = n
		}
	}
	if bestDistSq < 0 {
		return NoContact
	}
	dist := vecmath.Sqrt32(bestDistSq)
	if dist >= c.Radius() {
		return NoContact
	}
	normal := bestNormal
	return Contact{Collides: true, Point: bestPoint.Add(offset), Normal: normal, Depth: c.Radius() - dist}
}

// meshMesh returns no contact unless the two meshes' world AABBs overlap;
// it then queries each mesh's BVH with that mesh's own AABB (so every
// triangle is a candidate) and reports the first triangle pair whose
// approximate distance is below the contact depth constant; exact
// mesh-mesh manifolds are not attempted.
func meshMesh(a, b *shape.TriangleMesh, cfg Config) Contact {
	if !a.AABB().Overlaps(b.AABB()) {
		return NoContact
	}
	offsetA, offsetB := a.Offset(), b.Offset()
	localBoxA := a.AABB().Translate(offsetA.Mul(-1))
	candidatesA := meshCandidates(a, localBoxA)
	localBoxB := b.AABB().Translate(offsetB.Mul(-1))
	candidatesB := meshCandidates(b, localBoxB)

	for _, ia := range candidatesA {
		triA := a.BVH().Triangles[ia]
		worldA := [3]vecmath.Vec3{triA.A.Add(offsetA), triA.B.Add(offsetA), triA.C.Add(offsetA)}
		for _, ib := range candidatesB {
			triB := b.BVH().Triangles[ib]
			worldB := [3]vecmath.Vec3{triB.A.Add(offsetB), triB.B.Add(offsetB), triB.C.Add(offsetB)}
			if d, p := triangleTriangleApproxDistance(worldA, worldB); d < cfg.MeshContactDepth {
				n := worldA[1].Sub(worldA[0]).Cross(worldA[2].Sub(worldA[0]))
				if nl := n.Len(); nl > 1e-12 {
					n = n.Mul(1 / nl)
				}
				return Contact{Collides: true, Point: p, Normal: n, Depth: cfg.MeshContactDepth}
			}
		}
	}
	return NoContact
}

// triangleTriangleApproxDistance approximates the distance between two
// triangles by the minimum over each vertex of one projected onto the
// other; edge-edge distances are not solved, so two triangles crossing
// only through their edges read farther apart than they are.
func triangleTriangleApproxDistance(a, b [3]vecmath.Vec3) (float32, vecmath.Vec3) {
	best := float32(-1)
	var bestPoint vecmath.Vec3
	for _, v := range a {
		cp := geom.ClosestPointOnTriangle(v, b[0], b[1], b[2])
		d := v.Sub(cp)
		if distSq := d.Dot(d); best < 0 || distSq < best {
			best, bestPoint = distSq, cp
		}
	}
	for _, v := range b {
		cp := geom.ClosestPointOnTriangle(v, a[0], a[1], a[2])
		d := v.Sub(cp)
		if distSq := d.Dot(d); best < 0 || distSq < best {
			best, bestPoint = distSq, cp
		}
	}
	return vecmath.Sqrt32(best), bestPoint
}

func meshHeightmap(m *shape.TriangleMesh, h *shape.Heightmap, cfg Config) Contact {
	// Sample the mesh AABB's lower corners against the terrain surface,
	// mirroring the sphere/box-vs-heightmap tests rather than an exact
	// mesh/terrain clip.
	box := m.AABB()
	corners := []vecmath.Vec3{
		{box.Min.X(), box.Min.Y(), box.Min.Z()},
		{box.Max.X(), box.Min.Y(), box.Min.Z()},
		{box.Min.X(), box.Min.Y(), box.Max.Z()},
		{box.Max.X(), box.Min.Y(), box.Max.Z()},
	}
	for _, c := range corners {
		terrain := h.HeightAt(c.X(), c.Z())
		if c.Y() < terrain {
			normal := h.NormalAt(c.X(), c.Z())
			point := vecmath.Vec3{c.X(), terrain, c.Z()}
			return Contact{Collides: true, Point: point, Normal: normal, Depth: terrain - c.Y()}
		}
	}
	return NoContact
}
