package spatial

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// candidateIds returns the deduplicated union of every entity id living
// in any node the given CellsQ intervals touch, at level.
func (ix *Index) candidateIds(intervals []Interval, level uint8) []EntityId {
	ix.mu.RLock()
	lb, ok := ix.levels[level]
	ix.mu.RUnlock()
	if !ok {
		return nil
	}

	seen := make(map[EntityId]struct{})
	var out []EntityId
	ix.mu.RLock()
	for _, iv := range intervals {
		for _, e := range lb.rangeCodes(iv.Start, iv.End) {
			if e.n == nil {
				continue
			}
			for _, id := range e.n.snapshot() {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	ix.mu.RUnlock()
	return out
}

// entityIntersects reports whether the registered entity id's own
// position/bounds actually intersects q — the false-positive filter that
// removes the duplicates and misses coarse cell coverage introduces.
func (ix *Index) entityIntersects(id EntityId, q geom.AABB) bool {
	ix.mu.RLock()
	rec, ok := ix.entities[id]
	ix.mu.RUnlock()
	if !ok {
		return false
	}
	if rec.hasBounds {
		return rec.bounds.Overlaps(q)
	}
	if rec.hasPos {
		return q.Contains(rec.pos)
	}
	return false
}

// QueryRange returns every entity id whose position or bounds intersects
// bounds, at level. Queries against an empty index return an empty
// result, never an error.
func (ix *Index) QueryRange(bounds geom.AABB, level uint8) []EntityId {
	intervals := ix.CellsQ(bounds, level)
	candidates := ix.candidateIds(intervals, level)
	out := make([]EntityId, 0, len(candidates))
	for _, id := range candidates {
		if ix.entityIntersects(id, bounds) {
			out = append(out, id)
		}
	}
	return out
}

// Neighbors returns up to 26 adjacent cell keys at the same level as key,
// offsetting the cell coordinate by +/-1 on each axis independently and
// discarding out-of-domain results.
func (ix *Index) Neighbors(key MortonKey) []MortonKey {
	x, y, z := decodeMorton(key.Code)
	maxCoord := cellCoordAtLevel(int64(ix.cfg.MaxCoord/ix.cfg.CellSize), key.Level, ix.cfg.MaxLevel)

	var out []MortonKey
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				nx, ny, nz := x+dx, y+dy, z+dz
				if nx < 0 || ny < 0 || nz < 0 || nx > maxCoord || ny > maxCoord || nz > maxCoord {
					continue
				}
				out = append(out, MortonKey{Level: key.Level, Code: encodeMorton(nx, ny, nz)})
			}
		}
	}
	return out
}

// cellAABB recovers a key's world-space bounds (for distance math in
// k-NN/ray/frustum/plane queries).
func (ix *Index) cellAABB(key MortonKey) geom.AABB {
	lo, hi := cellBounds(key, ix.cfg.MaxLevel, ix.cfg.CellSize)
	return geom.AABB{Min: lo, Max: hi}
}

// Frustum is six half-space planes, each with inward-facing unit normal and
// signed distance d such that a point p is inside the half-space when
// Normal.Dot(p) + D >= 0.
type Frustum struct {
	Planes [6]Plane
}

// Plane is a half-space boundary: Normal.Dot(p) + D >= 0 is "in front".
type Plane struct {
	Normal vecmath.Vec3
	D      float32
}

// aabbOutsidePlane reports whether box lies entirely on the negative
// side of plane (standard positive-vertex / p-vertex test).
func aabbOutsidePlane(box geom.AABB, pl Plane) bool {
	p := vecmath.Vec3{box.Min.X(), box.Min.Y(), box.Min.Z()}
	if pl.Normal.X() >= 0 {
		p[0] = box.Max.X()
	}
	if pl.Normal.Y() >= 0 {
		p[1] = box.Max.Y()
	}
	if pl.Normal.Z() >= 0 {
		p[2] = box.Max.Z()
	}
	return pl.Normal.Dot(p)+pl.D < 0
}
