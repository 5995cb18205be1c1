// Package narrow implements the narrow-phase pair dispatcher: a symmetric
// 7x7 shape-pair dispatch yielding a contact manifold or "no contact".
// Exactly one canonical ordered implementation exists per unordered
// shape-kind pair; the opposite order is derived by negating the contact
// normal (flipNormal).
package narrow

import (
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

// Contact is either "no collision" (Collides == false, all other fields
// zero) or a single-point manifold of {Point, Normal, Depth}. The normal
// is oriented relative to the arguments passed to Detect, not the
// internal canonical order: flipping the argument order negates it.
type Contact struct {
	Collides bool
	Point    vecmath.Vec3
	Normal   vecmath.Vec3
	Depth    float32
}

// NoContact is the canonical "no collision" Contact.
var NoContact = Contact{}

// flipNormal returns r unchanged if it didn't collide, else negates the
// normal, leaving Point and Depth unchanged.
func flipNormal(r Contact) Contact {
	if !r.Collides {
		return r
	}
	r.Normal = r.Normal.Mul(-1)
	return r
}

// rank gives the canonical-order position of each shape kind. For any
// unordered pair (A,B), the lower-ranked shape is always the first
// argument to its canonical implementation; sphere (rank 0) is always
// "first" against every other variant.
func rank(k shape.Kind) int {
	switch k {
	case shape.KindSphere:
		return 0
	case shape.KindBox:
		return 1
	case shape.KindOBB:
		return 2
	case shape.KindCapsule:
		return 3
	case shape.KindConvexHull:
		return 4
	case shape.KindTriangleMesh:
		return 5
	case shape.KindHeightmap:
		return 6
	default:
		return 7
	}
}

// Config bundles the tolerances the dispatcher needs: the shared shape
// epsilons plus the constant depth reported by the approximate mesh/hull
// pair tests.
type Config struct {
	Epsilons shape.Epsilons
	// MeshContactDepth is the small positive constant reported as the
	// penetration depth by the mesh/hull pair tests that don't solve an
	// exact contact point.
	MeshContactDepth float32
}

// DefaultConfig mirrors the root package's Config defaults without
// introducing an import cycle (root imports narrow to build the World
// facade).
func DefaultConfig() Config {
	return Config{Epsilons: shape.DefaultEpsilons(), MeshContactDepth: 0.1}
}

// Detect is the total function over the 7x7 shape-pair matrix. It never
// panics and never returns an error; unhandled cases (none should remain)
// fall back to NoContact.
func Detect(a, b shape.Shape, cfg Config) Contact {
	if rank(a.Kind()) <= rank(b.Kind()) {
		return dispatch(a, b, cfg)
	}
	return flipNormal(dispatch(b, a, cfg))
}

// dispatch assumes rank(a.Kind()) <= rank(b.Kind()) and resolves the
// canonical implementation.
func dispatch(a, b shape.Shape, cfg Config) Contact {
	switch x := a.(type) {
	case *shape.Sphere:
		switch y := b.(type) {
		case *shape.Sphere:
			return sphereSphere(x, y)
		case *shape.Box:
			return sphereBox(x, y)
		case *shape.OBB:
			return sphereOBB(x, y)
		case *shape.Capsule:
			return sphereCapsule(x, y)
		case *shape.ConvexHull:
			return sphereHull(x, y)
		case *shape.TriangleMesh:
			return sphereMesh(x, y, cfg)
		case *shape.Heightmap:
			return sphereHeightmap(x, y)
		}
	case *shape.Box:
		switch y := b.(type) {
		case *shape.Box:
			return boxBox(x, y)
		case *shape.OBB:
			return boxOBB(x, y)
		case *shape.Capsule:
			return boxCapsule(x, y)
		case *shape.ConvexHull:
			return boxHull(x, y, cfg)
		case *shape.TriangleMesh:
			return boxMesh(x, y, cfg)
		case *shape.Heightmap:
			return boxHeightmap(x, y)
		}
	case *shape.OBB:
		switch y := b.(type) {
		case *shape.OBB:
			return obbOBB(x, y)
		case *shape.Capsule:
			return obbCapsule(x, y)
		case *shape.ConvexHull:
			return obbHull(x, y, cfg)
		case *shape.TriangleMesh:
			return obbMesh(x, y, cfg)
		case *shape.Heightmap:
			return obbHeightmap(x, y)
		}
	case *shape.Capsule:
		switch y := b.(type) {
		case *shape.Capsule:
			return capsuleCapsule(x, y)
		case *shape.ConvexHull:
			return capsuleHull(x, y, cfg)
		case *shape.TriangleMesh:
			return capsuleMesh(x, y, cfg)
		case *shape.Heightmap:
			return capsuleHeightmap(x, y)
		}
	case *shape.ConvexHull:
		switch y := b.(type) {
		case *shape.ConvexHull:
			return hullHull(x, y, cfg)
		case *shape.TriangleMesh:
			return hullMesh(x, y, cfg)
		case *shape.Heightmap:
			return hullHeightmap(x, y, cfg)
		}
	case *shape.TriangleMesh:
		switch y := b.(type) {
		case *shape.TriangleMesh:
			return meshMesh(x, y, cfg)
		case *shape.Heightmap:
			return meshHeightmap(x, y, cfg)
		}
	case *shape.Heightmap:
		switch b.(type) {
		case *shape.Heightmap:
			return NoContact
		}
	}
	return NoContact
}
