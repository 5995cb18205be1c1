package narrow

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

// sphereSphere compares center distance to the sum of radii.
func sphereSphere(a, b *shape.Sphere) Contact {
	d := b.Position().Sub(a.Position())
	dist := d.Len()
	sumR := a.Radius() + b.Radius()
	if dist >= sumR {
		return NoContact
	}
	normal := vecmath.Vec3{1, 0, 0}
	if dist > 1e-8 {
		normal = d.Mul(1 / dist)
	}
	return Contact{
		Collides: true,
		Point:    a.Position().Add(normal.Mul(a.Radius())),
		Normal:   normal,
		Depth:    sumR - dist,
	}
}

// sphereVsLocalBox is the shared sphere-vs-axis-aligned-box kernel used
// (in world space) by sphereBox and (in the OBB's local frame) by
// sphereOBB: find the closest point on the box to the sphere center, fall
// back to the closest face when the center lies inside the box.
func sphereVsLocalBox(center vecmath.Vec3, radius float32, box geom.AABB) (collides bool, point, normal vecmath.Vec3, depth float32) {
	closest := box.ClosestPoint(center)
	diff := center.Sub(closest)
	dist := diff.Len()
	if dist > 1e-8 {
		if dist >= radius {
			return false, vecmath.Vec3{}, vecmath.Vec3{}, 0
		}
		normal = diff.Mul(1 / dist)
		return true, closest, normal, radius - dist
	}
	// Sphere center is inside the box: push out through the nearest face.
	n, faceDist := box.ClosestFaceNormalAndDistance(center)
	return true, closest, n, radius + faceDist
}

func sphereBox(s *shape.Sphere, b *shape.Box) Contact {
	collides, point, normal, depth := sphereVsLocalBox(s.Position(), s.Radius(), b.AABB())
	if !collides {
		return NoContact
	}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: depth}
}

func sphereOBB(s *shape.Sphere, o *shape.OBB) Contact {
	local := o.ToLocal(s.Position())
	h := o.HalfExtents()
	localBox := geom.AABB{Min: vecmath.Vec3{-h.X(), -h.Y(), -h.Z()}, Max: h}
	collides, point, normal, depth := sphereVsLocalBox(local, s.Radius(), localBox)
	if !collides {
		return NoContact
	}
	return Contact{
		Collides: true,
		Point:    o.ToWorld(point),
		Normal:   o.Orientation().Mul3x1(normal),
		Depth:    depth,
	}
}

func sphereCapsule(s *shape.Sphere, c *shape.Capsule) Contact {
	closest := c.ClosestPointOnAxis(s.Position())
	d := s.Position().Sub(closest)
	dist := d.Len()
	sumR := s.Radius() + c.Radius()
	if dist >= sumR {
		return NoContact
	}
	normal := c.Perpendicular()
	if dist > 1e-8 {
		normal = d.Mul(1 / dist)
	}
	return Contact{
		Collides: true,
		Point:    closest.Add(normal.Mul(c.Radius())),
		Normal:   normal,
		Depth:    sumR - dist,
	}
}

// sphereHull distinguishes the interior case (center inside every face
// plane: push out along the nearest face) from the exterior case (closest
// point among the faces via the triangle closest-point solve).
func sphereHull(s *shape.Sphere, h *shape.ConvexHull) Contact {
	faces := h.Faces()
	if len(faces) == 0 {
		return NoContact
	}
	center := s.Position()
	verts := h.Vertices()

	if h.IsPointInside(center) {
		nearest := faces[0]
		nearestDist := -nearest.Normal.Dot(center.Sub(verts[nearest.A]))
		for _, f := range faces[1:] {
			if d := -f.Normal.Dot(center.Sub(verts[f.A])); d < nearestDist {
				nearest, nearestDist = f, d
			}
		}
		return Contact{
			Collides: true,
			Point:    center.Add(nearest.Normal.Mul(nearestDist)),
			Normal:   nearest.Normal,
			Depth:    s.Radius() + nearestDist,
		}
	}

	bestDistSq := float32(-1)
	var bestPoint, bestFaceNormal vecmath.Vec3
	for _, f := range faces {
		cp := geom.ClosestPointOnTriangle(center, verts[f.A], verts[f.B], verts[f.C])
		d := center.Sub(cp)
		if distSq := d.Dot(d); bestDistSq < 0 || distSq < bestDistSq {
			bestDistSq = distSq
			bestPoint = cp
			bestFaceNormal = f.Normal
		}
	}
	dist := vecmath.Sqrt32(bestDistSq)
	if dist >= s.Radius() {
		return NoContact
	}
	normal := bestFaceNormal
	if dist > 1e-8 {
		normal = center.Sub(bestPoint).Mul(1 / dist)
	}
	return Contact{Collides: true, Point: bestPoint, Normal: normal, Depth: s.Radius() - dist}
}

func sphereHeightmap(s *shape.Sphere, h *shape.Heightmap) Contact {
	terrain := h.HeightAt(s.Position().X(), s.Position().Z())
	dist := s.Position().Y() - terrain
	if dist >= s.Radius() {
		return NoContact
	}
	normal := h.NormalAt(s.Position().X(), s.Position().Z())
	point := vecmath.Vec3{s.Position().X(), terrain, s.Position().Z()}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: s.Radius() - dist}
}
