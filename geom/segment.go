package geom

import "github.com/lattice3d/lattice/vecmath"

// ClosestPointsSegments finds the closest points between segments [p1,q1]
// and [p2,q2]. Follows Ericson's "Real-Time Collision
// Detection" formulation: degenerate-segment special cases, then the
// 2-parameter quadratic with s fixed at 0 when the denominator is
// near-singular (parallel segments).
func ClosestPointsSegments(p1, q1, p2, q2 vecmath.Vec3) (c1, c2 vecmath.Vec3, s, t float32) {
	const eps = 1e-10

	d1 := q1.Sub(p1) // direction of segment 1
	d2 := q2.Sub(p2) // direction of segment 2
	r := p1.Sub(p2)

	a := d1.Dot(d1) // squared length of segment 1
	e := d2.Dot(d2) // squared length of segment 2
	f := d2.Dot(r)

	if a <= eps && e <= eps {
		// Both degenerate to points.
		return p1, p2, 0, 0
	}
	if a <= eps {
		// Segment 1 is a point.
		s = 0
		t = vecmath.Clamp(f/e, 0, 1)
	} else {
		c := d1.Dot(r)
		if e <= eps {
			// Segment 2 is a point.
			t = 0
			s = vecmath.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > eps {
				s = vecmath.Clamp((b*f-c*e)/denom, 0, 1)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = vecmath.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = vecmath.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	c1 = p1.Add(d1.Mul(s))
	c2 = p2.Add(d2.Mul(t))
	return c1, c2, s, t
}

// ClosestPointOnTriangle returns the closest point to p on triangle (a,b,c)
// using Ericson's seven-Voronoi-region method: three vertex regions, three
// edge regions, one face region, all sharing the same dot-product
// subexpressions.
func ClosestPointOnTriangle(p, a, b, c vecmath.Vec3) vecmath.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a // vertex region a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b // vertex region b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)) // edge region ab
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c // vertex region c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)) // edge region ac
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)) // edge region bc
	}

	// face region
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// RayTriangle implements Moller-Trumbore. Rejects near-parallel rays
// (|det|<epsParallel), requires barycentrics u in [0,1], u+v<=1, and
// t>epsParallel.
func RayTriangle(origin, dir, a, b, c vecmath.Vec3, maxDistance, epsParallel float32) (hit RayHit) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if vecmath.Abs32(det) < epsParallel {
		return Miss
	}
	invDet := 1 / det
	tvec := origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return Miss
	}
	qvec := tvec.Cross(edge1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return Miss
	}
	t := edge2.Dot(qvec) * invDet
	if t <= epsParallel || t > maxDistance {
		return Miss
	}
	normal := edge1.Cross(edge2).Normalize()
	if det < 0 {
		normal = normal.Mul(-1)
	}
	return RayHit{Hit: true, T: t, Point: origin.Add(dir.Mul(t)), Normal: normal}
}

// TriangleAABBOverlap tests a triangle against an AABB using the
// separating-axis theorem over the triangle's edge normals and face
// normal, in addition to the standard box axes (Akenine-Moller's
// triangle-box test). Used by the box/OBB-vs-mesh narrow-phase tests.
func TriangleAABBOverlap(a, b, c vecmath.Vec3, box AABB) bool {
	center := box.Center()
	extents := box.HalfExtents()

	v0 := a.Sub(center)
	v1 := b.Sub(center)
	v2 := c.Sub(center)

	// Box-axis tests (triangle AABB vs box AABB on x/y/z).
	triMin := vecmath.Vec3{
		vecmath.Min32(v0.X(), vecmath.Min32(v1.X(), v2.X())),
		vecmath.Min32(v0.Y(), vecmath.Min32(v1.Y(), v2.Y())),
		vecmath.Min32(v0.Z(), vecmath.Min32(v1.Z(), v2.Z())),
	}
	triMax := vecmath.Vec3{
		vecmath.Max32(v0.X(), vecmath.Max32(v1.X(), v2.X())),
		vecmath.Max32(v0.Y(), vecmath.Max32(v1.Y(), v2.Y())),
		vecmath.Max32(v0.Z(), vecmath.Max32(v1.Z(), v2.Z())),
	}
	if triMin.X() > extents.X() || triMax.X() < -extents.X() ||
		triMin.Y() > extents.Y() || triMax.Y() < -extents.Y() ||
		triMin.Z() > extents.Z() || triMax.Z() < -extents.Z() {
		return false
	}

	// Face-normal test.
	normal := v1.Sub(v0).Cross(v2.Sub(v0))
	if !planeBoxOverlap(normal, v0, extents) {
		return false
	}

	// 9 edge-cross-axis tests.
	edges := [3]vecmath.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}
	axesBox := [3]vecmath.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	verts := [3]vecmath.Vec3{v0, v1, v2}
	for _, e := range edges {
		for _, axis := range axesBox {
			a := axis.Cross(e)
			if a.Dot(a) < 1e-12 {
				continue
			}
			lo, hi := axis2Project(verts, a)
			r := extents.X()*vecmath.Abs32(a.X()) + extents.Y()*vecmath.Abs32(a.Y()) + extents.Z()*vecmath.Abs32(a.Z())
			if lo > r || hi < -r {
				return false
			}
		}
	}
	return true
}

func axis2Project(verts [3]vecmath.Vec3, axis vecmath.Vec3) (lo, hi float32) {
	lo, hi = 1e30, -1e30
	for _, v := range verts {
		p := v.Dot(axis)
		lo = vecmath.Min32(lo, p)
		hi = vecmath.Max32(hi, p)
	}
	return
}

func planeBoxOverlap(normal, vert, extents vecmath.Vec3) bool {
	extentArr := [3]float32{extents.X(), extents.Y(), extents.Z()}
	normalArr := [3]float32{normal.X(), normal.Y(), normal.Z()}
	vertArr := [3]float32{vert.X(), vert.Y(), vert.Z()}
	var vminArr, vmaxArr [3]float32
	for i := 0; i < 3; i++ {
		v := vertArr[i]
		e := extentArr[i]
		if normalArr[i] > 0 {
			vminArr[i] = -e - v
			vmaxArr[i] = e - v
		} else {
			vminArr[i] = e - v
			vmaxArr[i] = -e - v
		}
	}
	vmin := vecmath.Vec3{vminArr[0], vminArr[1], vminArr[2]}
	vmax := vecmath.Vec3{vmaxArr[0], vmaxArr[1], vmaxArr[2]}
	if normal.Dot(vmin) > 0 {
		return false
	}
	if normal.Dot(vmax) >= 0 {
		return true
	}
	return false
}
