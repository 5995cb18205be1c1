// Package shape implements the tagged-variant collision shape model:
// Sphere, Box, OBB, Capsule, ConvexHull, TriangleMesh, and Heightmap, each
// exposing a uniform capability set (position, translate, world AABB,
// support, ray-intersect). Shapes are immutable in structure: translate
// moves positions and refreshes cached AABBs/matrices in place (a convex
// hull's vertices are moved with it), but face/triangle indices, grid data
// and OBB orientation are fixed at construction.
package shape

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// Kind tags the seven shape variants.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindOBB
	KindCapsule
	KindConvexHull
	KindTriangleMesh
	KindHeightmap
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "Sphere"
	case KindBox:
		return "Box"
	case KindOBB:
		return "OrientedBox"
	case KindCapsule:
		return "Capsule"
	case KindConvexHull:
		return "ConvexHull"
	case KindTriangleMesh:
		return "TriangleMesh"
	case KindHeightmap:
		return "Heightmap"
	default:
		return "Unknown"
	}
}

// Shape is the common capability set every variant exposes. Mesh and
// Heightmap return ok=false from Support (pair dispatch never needs a
// support point for them).
type Shape interface {
	Kind() Kind
	Position() vecmath.Vec3
	Translate(delta vecmath.Vec3)
	AABB() geom.AABB
	Support(d vecmath.Vec3) (vecmath.Vec3, bool)
	RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit
}

// Epsilons bundles the tolerances RayIntersect implementations need,
// threaded in rather than read from a package-level Config so shapes stay
// free of a dependency on the root package.
type Epsilons struct {
	Parallel       float32
	FaceSelectAABB float32
	FaceSelectOBB  float32
}

// DefaultEpsilons mirrors Config.DefaultConfig's values without importing
// the root package (which itself depends on shape transitively via the
// narrow-phase wiring).
func DefaultEpsilons() Epsilons {
	return Epsilons{Parallel: 1e-6, FaceSelectAABB: 1e-3, FaceSelectOBB: 1e-4}
}
