package narrow

import (
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
)

// obbHeightmap samples the terrain beneath the OBB's world-space center,
// the same simplified single-sample test boxHeightmap uses.
func obbHeightmap(o *shape.OBB, h *shape.Heightmap) Contact {
	center := o.Position()
	terrain := h.HeightAt(center.X(), center.Z())
	bottom := o.AABB().Min.Y()
	if bottom >= terrain {
		return NoContact
	}
	normal := h.NormalAt(center.X(), center.Z())
	point := vecmath.Vec3{center.X(), terrain, center.Z()}
	return Contact{Collides: true, Point: point, Normal: normal, Depth: terrain - bottom}
}
