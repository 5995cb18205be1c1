package shape

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// Capsule is a swept sphere along a segment: endpoint1, endpoint2, radius
// > 0. Position() is the segment midpoint; Translate moves
// both endpoints.
type Capsule struct {
	p1, p2 vecmath.Vec3
	radius float32
}

// NewCapsule refuses non-positive radii at construction.
func NewCapsule(p1, p2 vecmath.Vec3, radius float32) (*Capsule, error) {
	if radius <= 0 {
		return nil, invalidParameterf("capsule radius must be positive, got %v", radius)
	}
	return &Capsule{p1: p1, p2: p2, radius: radius}, nil
}

func (c *Capsule) Kind() Kind                              { return KindCapsule }
func (c *Capsule) Position() vecmath.Vec3                  { return c.p1.Add(c.p2).Mul(0.5) }
func (c *Capsule) Radius() float32                         { return c.radius }
func (c *Capsule) Endpoints() (vecmath.Vec3, vecmath.Vec3) { return c.p1, c.p2 }
func (c *Capsule) Height() float32                         { return c.p2.Sub(c.p1).Len() }

func (c *Capsule) Translate(delta vecmath.Vec3) {
	c.p1 = c.p1.Add(delta)
	c.p2 = c.p2.Add(delta)
}

func (c *Capsule) AABB() geom.AABB {
	r := vecmath.Vec3{c.radius, c.radius, c.radius}
	seg := geom.NewAABB(c.p1, c.p2)
	return geom.AABB{Min: seg.Min.Sub(r), Max: seg.Max.Add(r)}
}

// Support picks the endpoint with the larger projection onto d, offset by
// radius*d.
func (c *Capsule) Support(d vecmath.Vec3) (vecmath.Vec3, bool) {
	var base vecmath.Vec3
	if c.p1.Dot(d) >= c.p2.Dot(d) {
		base = c.p1
	} else {
		base = c.p2
	}
	l := d.Len()
	if l < 1e-12 {
		return base.Add(vecmath.Vec3{c.radius, 0, 0}), true
	}
	return base.Add(d.Mul(c.radius / l)), true
}

// ClosestPointOnAxis is the closest point on the capsule's segment to p.
func (c *Capsule) ClosestPointOnAxis(p vecmath.Vec3) vecmath.Vec3 {
	return vecmath.ClosestPointOnSegment(p, c.p1, c.p2)
}

// Perpendicular returns a unit vector orthogonal to the capsule's axis,
// used as the zero-distance fallback normal in pair tests.
func (c *Capsule) Perpendicular() vecmath.Vec3 {
	axis := c.p2.Sub(c.p1)
	if axis.Len() < 1e-12 {
		return vecmath.Vec3{1, 0, 0}
	}
	return vecmath.Perpendicular(axis.Normalize())
}

// RayIntersect tests the ray against the infinite cylinder restricted to
// segment parameter s in [0,1], plus the two end-sphere caps, returning
// the smallest valid t.
func (c *Capsule) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	axis := c.p2.Sub(c.p1)
	axisLen := axis.Len()
	if axisLen < 1e-12 {
		sphere := Sphere{center: c.p1, radius: c.radius}
		return sphere.RayIntersect(ray, eps)
	}
	axisDir := axis.Mul(1 / axisLen)

	best := geom.Miss
	consider := func(hit geom.RayHit) {
		if hit.Hit && (!best.Hit || hit.T < best.T) {
			best = hit
		}
	}

	// Infinite-cylinder quadratic, restricted to s in [0,1] along the axis.
	oc := ray.Origin.Sub(c.p1)
	dPerp := ray.Direction.Sub(axisDir.Mul(ray.Direction.Dot(axisDir)))
	ocPerp := oc.Sub(axisDir.Mul(oc.Dot(axisDir)))
	a := dPerp.Dot(dPerp)
	if a > 1e-12 {
		b := 2 * dPerp.Dot(ocPerp)
		cc := ocPerp.Dot(ocPerp) - c.radius*c.radius
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := vecmath.Sqrt32(disc)
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t < 0 || t > ray.MaxDistance {
					continue
				}
				point := ray.PointAt(t)
				s := point.Sub(c.p1).Dot(axisDir) / axisLen
				if s < 0 || s > 1 {
					continue
				}
				axisPoint := c.p1.Add(axisDir.Mul(s * axisLen))
				normal := point.Sub(axisPoint).Mul(1 / c.radius)
				consider(geom.RayHit{Hit: true, T: t, Point: point, Normal: normal})
			}
		}
	}

	sphere1 := Sphere{center: c.p1, radius: c.radius}
	sphere2 := Sphere{center: c.p2, radius: c.radius}
	consider(sphere1.RayIntersect(ray, eps))
	consider(sphere2.RayIntersect(ray, eps))
	return best
}
