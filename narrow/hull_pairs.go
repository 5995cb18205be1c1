package narrow

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

// aabbHullApprox is shared by boxHull and (via the OBB's own AABB) by
// obbHull: confirm the AABBs overlap, then report a contact along the
// center-to-center direction and the dispatcher's constant contact
// depth; an exact SAT-over-hull-faces manifold is not attempted for
// box/OBB-vs-hull pairs.
func aabbHullApprox(box geom.AABB, h *shape.ConvexHull, cfg Config) Contact {
	if len(h.Vertices()) == 0 || !box.Overlaps(h.AABB()) {
		return NoContact
	}
	center := box.Center()
	diff := h.Centroid().Sub(center)
	normal := vecmath.Vec3{1, 0, 0}
	if l := diff.Len(); l > 1e-8 {
		normal = diff.Mul(1 / l)
	}
	point := box.ClosestPoint(h.Centroid())
	return Contact{Collides: true, Point: point, Normal: normal, Depth: cfg.MeshContactDepth}
}

func obbHull(o *shape.OBB, h *shape.ConvexHull, cfg Config) Contact {
	return aabbHullApprox(o.AABB(), h, cfg)
}

// capsuleHull gates on overlap of the capsule's and the hull's AABBs, then
// measures from the capsule axis point closest to the hull's centroid.
func capsuleHull(c *shape.Capsule, h *shape.ConvexHull, cfg Config) Contact {
	if len(h.Vertices()) == 0 {
		return NoContact
	}
	if !c.AABB().Overlaps(h.AABB()) {
		return NoContact
	}
	p1, p2 := c.Endpoints()
	closest := vecmath.ClosestPointOnSegment(h.Centroid(), p1, p2)
	diff := h.Centroid().Sub(closest)
	dist := diff.Len()
	if dist >= c.Radius() {
		// AABBs overlapped but the axis is too far from the hull's
		// centroid; still report contact at the constant depth, since a
		// precise hull/segment distance is not solved here.
		normal := vecmath.Vec3{1, 0, 0}
		if dist > 1e-8 {
			normal = diff.Mul(1 / dist)
		}
		return Contact{Collides: true, Point: closest, Normal: normal, Depth: cfg.MeshContactDepth}
	}
	normal := vecmath.Vec3{1, 0, 0}
	if dist > 1e-8 {
		normal = diff.Mul(1 / dist)
	}
	return Contact{Collides: true, Point: closest.Add(normal.Mul(c.Radius())), Normal: normal, Depth: c.Radius() - dist}
}

// hullHull reports contact whenever the two hulls' AABBs overlap, using
// the center-to-center direction as the normal; full GJK/EPA between
// arbitrary convex hulls is not attempted.
func hullHull(a, b *shape.ConvexHull, cfg Config) Contact {
	if len(a.Vertices()) == 0 || len(b.Vertices()) == 0 {
		return NoContact
	}
	if !a.AABB().Overlaps(b.AABB()) {
		return NoContact
	}
	diff := b.Centroid().Sub(a.Centroid())
	normal := vecmath.Vec3{1, 0, 0}
	if l := diff.Len(); l > 1e-8 {
		normal = diff.Mul(1 / l)
	}
	point := a.Centroid().Add(b.Centroid()).Mul(0.5)
	return Contact{Collides: true, Point: point, Normal: normal, Depth: cfg.MeshContactDepth}
}

// hullMesh tests each hull vertex against the mesh's BVH for a close
// triangle, keeping the closest: the hull is treated as its vertex set
// against the mesh surface rather than solving a full hull/triangle-soup
// manifold.
func hullMesh(h *shape.ConvexHull, m *shape.TriangleMesh, cfg Config) Contact {
	if len(h.Vertices()) == 0 || !h.AABB().Overlaps(m.AABB()) {
		return NoContact
	}
	offset := m.Offset()
	bestDistSq := float32(-1)
	var bestPoint, bestNormal vecmath.Vec3
	for _, v := range h.Vertices() {
		local := v.Sub(offset)
		candidates := m.BVH().TrianglesIntersectingSphere(local, cfg.MeshContactDepth*4)
		for _, idx := range candidates {
			tri := m.BVH().Triangles[idx]
			cp := geom.ClosestPointOnTriangle(local, tri.A, tri.B, tri.C)
			d := local.Sub(cp)
			if distSq := d.Dot(d); bestDistSq < 0 || distSq < bestDistSq {
				bestDistSq = distSq
				bestPoint = cp.Add(offset)
				n := tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
				if nl := n.Len(); nl > 1e-12 {
					n = n.Mul(1 / nl)
				}
				bestNormal = n
			}
		}
	}
	if bestDistSq < 0 {
		return NoContact
	}
	return Contact{Collides: true, Point: bestPoint, Normal: bestNormal, Depth: cfg.MeshContactDepth}
}

// hullHeightmap tests each hull vertex against the terrain surface
// directly beneath it, keeping the deepest penetration.
func hullHeightmap(h *shape.ConvexHull, hm *shape.Heightmap, cfg Config) Contact {
	deepest := float32(-1)
	var point, normal vecmath.Vec3
	for _, v := range h.Vertices() {
		terrain := hm.HeightAt(v.X(), v.Z())
		depth := terrain - v.Y()
		if depth > deepest {
			deepest = depth
			point = vecmath.Vec3{v.X(), terrain, v.Z()}
			normal = hm.NormalAt(v.X(), v.Z())
		}
	}
	if deepest <= 0 {
		return NoContact
	}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: deepest}
}
