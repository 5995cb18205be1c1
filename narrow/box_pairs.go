package narrow

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

const degenerateAxisEps = 1e-6

func boxBox(a, b *shape.Box) Contact {
	_, normal, depth, ok := geom.OverlapMTV(a.AABB(), b.AABB())
	if !ok {
		return NoContact
	}
	closest := a.AABB().ClosestPoint(b.Position())
	return Contact{Collides: true, Point: closest, Normal: normal, Depth: depth}
}

// satBoxes runs the full 15-axis SAT
// over two general oriented boxes, returning the minimum-penetration axis
// as the contact normal. Used for both AABB-vs-OBB (orientA = identity)
// and OBB-vs-OBB.
func satBoxes(centerA, halfA vecmath.Vec3, orientA vecmath.Mat3, centerB, halfB vecmath.Vec3, orientB vecmath.Mat3) Contact {
	centerDiff := centerB.Sub(centerA)
	axes := geom.BoxAxes15(orientA, orientB, degenerateAxisEps)

	bestSep := float32(-1)
	bestAxis := vecmath.Vec3{}
	found := false
	for _, r := range axes {
		if !r.Valid {
			continue
		}
		projA := geom.ProjectOBBOntoAxis(halfA, orientA, r.Axis)
		projB := geom.ProjectOBBOntoAxis(halfB, orientB, r.Axis)
		sep := geom.AxisSeparation(centerDiff, r.Axis, projA, projB)
		if sep <= 0 {
			// A separating axis exists: the boxes do not overlap.
			return NoContact
		}
		if !found || sep < bestSep {
			bestSep, bestAxis, found = sep, r.Axis, true
		}
	}
	if !found {
		return NoContact
	}
	normal := bestAxis
	if normal.Dot(centerDiff) < 0 {
		normal = normal.Mul(-1)
	}
	// Contact point: the midpoint between centers; an exact
	// clipped-polygon manifold is not attempted for box-vs-box pairs.
	point := centerA.Add(centerB).Mul(0.5)
	return Contact{Collides: true, Point: point, Normal: normal, Depth: bestSep}
}

func boxOBB(b *shape.Box, o *shape.OBB) Contact {
	return satBoxes(b.Position(), b.HalfExtents(), mgl32.Ident3(), o.Position(), o.HalfExtents(), o.Orientation())
}

func obbOBB(a, b *shape.OBB) Contact {
	return satBoxes(a.Position(), a.HalfExtents(), a.Orientation(), b.Position(), b.HalfExtents(), b.Orientation())
}

func boxCapsule(b *shape.Box, c *shape.Capsule) Contact {
	p1, p2 := c.Endpoints()
	closest := closestPointOnSegmentToBox(b.AABB(), p1, p2)
	collides, point, normal, depth := sphereVsLocalBox(closest, c.Radius(), b.AABB())
	if !collides {
		return NoContact
	}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: depth}
}

// closestPointOnSegmentToBox samples the capsule axis at its own closest
// point to the box center, a cheap stand-in for a true segment-vs-box
// closest-point solve: the box-sphere kernel above is then run against
// that single axis sample, which is exact whenever the deepest
// penetration occurs near the axis point nearest the box.
func closestPointOnSegmentToBox(box geom.AABB, p1, p2 vecmath.Vec3) vecmath.Vec3 {
	center := box.Center()
	return vecmath.ClosestPointOnSegment(center, p1, p2)
}

func obbCapsule(o *shape.OBB, c *shape.Capsule) Contact {
	p1, p2 := c.Endpoints()
	center := o.Position()
	axisPoint := vecmath.ClosestPointOnSegment(center, p1, p2)
	local := o.ToLocal(axisPoint)
	h := o.HalfExtents()
	localBox := geom.AABB{Min: vecmath.Vec3{-h.X(), -h.Y(), -h.Z()}, Max: h}
	collides, point, normal, depth := sphereVsLocalBox(local, c.Radius(), localBox)
	if !collides {
		return NoContact
	}
	return Contact{Collides: true, Point: o.ToWorld(point), Normal: o.Orientation().Mul3x1(normal), Depth: depth}
}

func boxHull(b *shape.Box, h *shape.ConvexHull, cfg Config) Contact {
	return aabbHullApprox(b.AABB(), h, cfg)
}

func boxMesh(b *shape.Box, m *shape.TriangleMesh, cfg Config) Contact {
	return aabbMeshApprox(b.AABB(), m, cfg)
}

func boxHeightmap(b *shape.Box, h *shape.Heightmap) Contact {
	center := b.Position()
	terrain := h.HeightAt(center.X(), center.Z())
	bottom := b.AABB().Min.Y()
	if bottom >= terrain {
		return NoContact
	}
	normal := h.NormalAt(center.X(), center.Z())
	point := vecmath.Vec3{center.X(), terrain, center.Z()}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: terrain - bottom}
}
