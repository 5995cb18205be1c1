package shape

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// Sphere is a center plus a positive radius.
type Sphere struct {
	center vecmath.Vec3
	radius float32
}

// NewSphere refuses non-positive radii at construction.
func NewSphere(center vecmath.Vec3, radius float32) (*Sphere, error) {
	if radius <= 0 {
		return nil, invalidParameterf("sphere radius must be positive, got %v", radius)
	}
	return &Sphere{center: center, radius: radius}, nil
}

func (s *Sphere) Kind() Kind             { return KindSphere }
func (s *Sphere) Position() vecmath.Vec3 { return s.center }
func (s *Sphere) Radius() float32        { return s.radius }

func (s *Sphere) Translate(delta vecmath.Vec3) {
	s.center = s.center.Add(delta)
}

func (s *Sphere) AABB() geom.AABB {
	r := vecmath.Vec3{s.radius, s.radius, s.radius}
	return geom.AABB{Min: s.center.Sub(r), Max: s.center.Add(r)}
}

// Support returns center + radius*d.
func (s *Sphere) Support(d vecmath.Vec3) (vecmath.Vec3, bool) {
	l := d.Len()
	if l < 1e-12 {
		return s.center.Add(vecmath.Vec3{s.radius, 0, 0}), true
	}
	return s.center.Add(d.Mul(s.radius / l)), true
}

// RayIntersect solves the sphere quadratic, returning the smallest
// non-negative root within maxDistance.
func (s *Sphere) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	oc := ray.Origin.Sub(s.center)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.radius*s.radius
	disc := b*b - c
	if disc < 0 {
		return geom.Miss
	}
	sq := vecmath.Sqrt32(disc)
	t0 := -b - sq
	t1 := -b + sq
	var t float32
	switch {
	case t0 >= 0:
		t = t0
	case t1 >= 0:
		t = t1
	default:
		return geom.Miss
	}
	if t > ray.MaxDistance {
		return geom.Miss
	}
	point := ray.PointAt(t)
	normal := point.Sub(s.center).Mul(1 / s.radius)
	return geom.RayHit{Hit: true, T: t, Point: point, Normal: normal}
}
