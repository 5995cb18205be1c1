package shape

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// Heightmap is a width x depth grid of heights on a uniform cellSize,
// anchored at origin. Terrain surface is bilinear
// interpolation per cell. The (minHeight, maxHeight) cache bounds the
// AABB.
type Heightmap struct {
	origin       vecmath.Vec3
	width, depth int
	cellSize     float32
	heights      []float32 // row-major, width*depth
	minHeight    float32
	maxHeight    float32
}

// NewHeightmap refuses a grid whose dimensions don't match len(heights),
// and a non-positive cellSize.
func NewHeightmap(origin vecmath.Vec3, width, depth int, cellSize float32, heights []float32) (*Heightmap, error) {
	if width <= 0 || depth <= 0 {
		return nil, invalidParameterf("heightmap width/depth must be positive")
	}
	if cellSize <= 0 {
		return nil, invalidParameterf("heightmap cellSize must be positive")
	}
	if len(heights) != width*depth {
		return nil, invalidParameterf("heightmap expects %d samples, got %d", width*depth, len(heights))
	}
	h := &Heightmap{origin: origin, width: width, depth: depth, cellSize: cellSize, heights: heights}
	h.refreshBounds()
	return h, nil
}

func (h *Heightmap) refreshBounds() {
	if len(h.heights) == 0 {
		return
	}
	h.minHeight, h.maxHeight = h.heights[0], h.heights[0]
	for _, v := range h.heights[1:] {
		h.minHeight = vecmath.Min32(h.minHeight, v)
		h.maxHeight = vecmath.Max32(h.maxHeight, v)
	}
}

func (h *Heightmap) Kind() Kind             { return KindHeightmap }
func (h *Heightmap) Position() vecmath.Vec3 { return h.origin }
func (h *Heightmap) Width() int             { return h.width }
func (h *Heightmap) Depth() int             { return h.depth }
func (h *Heightmap) CellSize() float32      { return h.cellSize }

func (h *Heightmap) Translate(delta vecmath.Vec3) {
	h.origin = h.origin.Add(delta)
}

func (h *Heightmap) AABB() geom.AABB {
	width := float32(h.width-1) * h.cellSize
	depth := float32(h.depth-1) * h.cellSize
	return geom.AABB{
		Min: vecmath.Vec3{h.origin.X(), h.origin.Y() + h.minHeight, h.origin.Z()},
		Max: vecmath.Vec3{h.origin.X() + width, h.origin.Y() + h.maxHeight, h.origin.Z() + depth},
	}
}

// Support is not required for heightmap narrow-phase dispatch.
func (h *Heightmap) Support(d vecmath.Vec3) (vecmath.Vec3, bool) { return vecmath.Vec3{}, false }

func (h *Heightmap) sample(ix, iz int) float32 {
	ix = clampInt(ix, 0, h.width-1)
	iz = clampInt(iz, 0, h.depth-1)
	return h.heights[iz*h.width+ix]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HeightAt bilinearly interpolates the terrain height at world (x,z).
func (h *Heightmap) HeightAt(x, z float32) float32 {
	lx := (x - h.origin.X()) / h.cellSize
	lz := (z - h.origin.Z()) / h.cellSize
	ix, iz := int(lx), int(lz)
	fx, fz := lx-float32(ix), lz-float32(iz)

	h00 := h.sample(ix, iz)
	h10 := h.sample(ix+1, iz)
	h01 := h.sample(ix, iz+1)
	h11 := h.sample(ix+1, iz+1)

	top := h00 + (h10-h00)*fx
	bot := h01 + (h11-h01)*fx
	return h.origin.Y() + top + (bot-top)*fz
}

// NormalAt returns the bilinear surface normal at world (x,z), derived
// from the local height gradient.
func (h *Heightmap) NormalAt(x, z float32) vecmath.Vec3 {
	eps := h.cellSize * 0.5
	hL := h.HeightAt(x-eps, z)
	hR := h.HeightAt(x+eps, z)
	hD := h.HeightAt(x, z-eps)
	hU := h.HeightAt(x, z+eps)
	n := vecmath.Vec3{hL - hR, 2 * eps, hD - hU}
	return n.Normalize()
}

// RayIntersect clips the ray to the heightmap's AABB, steps along it with
// fixed-fraction cell steps until ray.y <= heightAt(x,z), then refines t
// with a 10-iteration binary search between the last "above" sample and
// the first "below" sample. Fixed-step marching can skip ridges narrower
// than half a cell between two samples; a DDA cell walk would be exact.
func (h *Heightmap) RayIntersect(ray geom.Ray3, eps Epsilons) geom.RayHit {
	bounds := h.AABB()
	tEnter, _, _, ok := bounds.RayIntersect(ray.Origin, ray.Direction, ray.MaxDistance, eps.Parallel, eps.FaceSelectAABB)
	if !ok {
		tEnter = 0
	}
	// A ray whose origin lies inside the bounds marches from t=0; a ray
	// from outside that misses the bounds is a miss.
	if bounds.Contains(ray.Origin) {
		tEnter = 0
	} else if !ok {
		return geom.Miss
	}

	maxT := vecmath.Min32(ray.MaxDistance, tEnter+(bounds.Max.X()-bounds.Min.X()+bounds.Max.Z()-bounds.Min.Z())*4)
	step := h.cellSize * 0.5
	if step <= 0 {
		step = 0.1
	}

	prevT := tEnter
	t := tEnter
	for t <= maxT {
		p := ray.PointAt(t)
		terrain := h.HeightAt(p.X(), p.Z())
		above := p.Y() > terrain
		if !above {
			loT, hiT := prevT, t
			for i := 0; i < 10; i++ {
				mid := (loT + hiT) * 0.5
				mp := ray.PointAt(mid)
				if mp.Y() > h.HeightAt(mp.X(), mp.Z()) {
					loT = mid
				} else {
					hiT = mid
				}
			}
			finalT := hiT
			point := ray.PointAt(finalT)
			normal := h.NormalAt(point.X(), point.Z())
			return geom.RayHit{Hit: true, T: finalT, Point: point, Normal: normal}
		}
		prevT = t
		t += step
	}
	return geom.Miss
}
