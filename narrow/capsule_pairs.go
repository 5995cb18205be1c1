package narrow

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

// capsuleCapsule reduces to the segment-segment closest-points solve plus
// the sum-of-radii test.
func capsuleCapsule(a, b *shape.Capsule) Contact {
	p1, q1 := a.Endpoints()
	p2, q2 := b.Endpoints()
	c1, c2, _, _ := geom.ClosestPointsSegments(p1, q1, p2, q2)
	d := c2.Sub(c1)
	dist := d.Len()
	sumR := a.Radius() + b.Radius()
	if dist >= sumR {
		return NoContact
	}
	normal := a.Perpendicular()
	if dist > 1e-8 {
		normal = d.Mul(1 / dist)
	}
	return Contact{Collides: true, Point: c1.Add(normal.Mul(a.Radius())), Normal: normal, Depth: sumR - dist}
}

// capsuleHeightmap samples the terrain under both endpoints (the deepest
// penetration of the two dominates, matching how the axis's lowest
// segment point would behave for a capsule resting on sloped terrain).
func capsuleHeightmap(c *shape.Capsule, h *shape.Heightmap) Contact {
	p1, p2 := c.Endpoints()
	deepest := float32(-1)
	var point, normal vecmath.Vec3
	for _, p := range [2]vecmath.Vec3{p1, p2} {
		terrain := h.HeightAt(p.X(), p.Z())
		depth := c.Radius() - (p.Y() - terrain)
		if depth > deepest {
			deepest = depth
			point = vecmath.Vec3{p.X(), terrain, p.Z()}
			normal = h.NormalAt(p.X(), p.Z())
		}
	}
	if deepest <= 0 {
		return NoContact
	}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: deepest}
}
