package spatial

import (
	"container/heap"

	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// cellItem is one entry in the best-first search frontier used by
// QueryKnn and QueryRay: a cell key plus the priority (closest-point
// distance for k-NN, ray entry distance for ray queries) it was queued
// with.
type cellItem struct {
	key      MortonKey
	priority float32
	index    int
}

type cellHeap []*cellItem

func (h cellHeap) Len() int           { return len(h) }
func (h cellHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h cellHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *cellHeap) Push(x any)        { item := x.(*cellItem); item.index = len(*h); *h = append(*h, item) }
func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	item.index = -1
	*h = old[:n-1]
	return item
}

// closestPointDistance returns the distance from p to the nearest point
// of box (0 if p is inside).
func closestPointDistance(box geom.AABB, p vecmath.Vec3) float32 {
	return vecmath.Sqrt32(box.SquaredDistanceToPoint(p))
}

// knnCandidate is one scored entity during a k-NN search.
type knnCandidate struct {
	id   EntityId
	dist float32
}

// QueryKnn is a best-first k-nearest-neighbor search: expand a cell only
// when its closest-point distance to p is no greater than the current
// k-th-best entity distance, so the k entities kept are exact nearest
// neighbors, ties broken by ascending EntityId. Only entities inserted
// with a point position are considered; bounded-only entities are skipped.
func (ix *Index) QueryKnn(p vecmath.Vec3, k int, level uint8) []EntityId {
	if k <= 0 {
		return nil
	}

	ix.mu.RLock()
	lb, ok := ix.levels[level]
	ix.mu.RUnlock()
	if !ok {
		return nil
	}

	frontier := &cellHeap{}
	heap.Init(frontier)
	ix.mu.RLock()
	for _, code := range lb.codes {
		key := MortonKey{Level: level, Code: code}
		d := closestPointDistance(ix.cellAABB(key), p)
		heap.Push(frontier, &cellItem{key: key, priority: d})
	}
	ix.mu.RUnlock()

	const unbounded = float32(1e30)
	var best []knnCandidate
	worstAccepted := func() float32 {
		if len(best) < k {
			return unbounded
		}
		return best[len(best)-1].dist
	}

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(*cellItem)
		if len(best) >= k && item.priority > worstAccepted() {
			break
		}
		ix.mu.RLock()
		n, ok := lb.nodes[item.key.Code]
		ix.mu.RUnlock()
		if !ok {
			continue
		}
		for _, id := range n.snapshot() {
			ix.mu.RLock()
			rec, ok := ix.entities[id]
			ix.mu.RUnlock()
			if !ok || !rec.hasPos {
				continue
			}
			d := rec.pos.Sub(p).Len()
			best = insertSortedCandidate(best, knnCandidate{id: id, dist: d}, k)
		}
	}

	out := make([]EntityId, len(best))
	for i, c := range best {
		out[i] = c.id
	}
	return out
}

// insertSortedCandidate inserts c into best (kept sorted by ascending
// distance, ties broken by ascending id) and truncates to at most k
// entries.
func insertSortedCandidate(best []knnCandidate, c knnCandidate, k int) []knnCandidate {
	i := 0
	for i < len(best) && (best[i].dist < c.dist || (best[i].dist == c.dist && best[i].id < c.id)) {
		i++
	}
	best = append(best, knnCandidate{})
	copy(best[i+1:], best[i:])
	best[i] = c
	if len(best) > k {
		best = best[:k]
	}
	return best
}

// QueryRay traverses nodes in order of ray-vs-cell-AABB entry distance,
// stopping once entry distance exceeds the ray's maxDistance, and returns
// entities ordered by ascending t. This reports cell-level candidates;
// narrow-phase ray-vs-shape tests are left to the caller.
func (ix *Index) QueryRay(ray geom.Ray3, level uint8) []EntityId {
	ix.mu.RLock()
	lb, ok := ix.levels[level]
	ix.mu.RUnlock()
	if !ok {
		return nil
	}

	seen := make(map[EntityId]float32)

	frontier := &cellHeap{}
	heap.Init(frontier)
	ix.mu.RLock()
	for _, code := range lb.codes {
		key := MortonKey{Level: level, Code: code}
		box := ix.cellAABB(key)
		if t, _, _, ok := box.RayIntersect(ray.Origin, ray.Direction, ray.MaxDistance, 1e-6, 1e-3); ok {
			heap.Push(frontier, &cellItem{key: key, priority: t})
		}
	}
	ix.mu.RUnlock()

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(*cellItem)
		if item.priority > ray.MaxDistance {
			break
		}
		ix.mu.RLock()
		n, ok := lb.nodes[item.key.Code]
		ix.mu.RUnlock()
		if !ok {
			continue
		}
		for _, id := range n.snapshot() {
			if prev, dup := seen[id]; dup && prev <= item.priority {
				continue
			}
			seen[id] = item.priority
		}
	}

	hits := make([]rayHit, 0, len(seen))
	for id, t := range seen {
		hits = append(hits, rayHit{id: id, t: t})
	}
	sortHitsByT(hits)
	out := make([]EntityId, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

// rayHit pairs an entity id with the cell entry distance QueryRay found
// it at, used only to sort the result by ascending t.
type rayHit struct {
	id EntityId
	t  float32
}

func sortHitsByT(hits []rayHit) {
	for i := 1; i < len(hits); i++ {
		j := i
		for j > 0 && hits[j-1].t > hits[j].t {
			hits[j-1], hits[j] = hits[j], hits[j-1]
			j--
		}
	}
}

// QueryFrustum returns every entity whose position/bounds lies within
// every half-space of f, scanning all populated cells at level and
// rejecting whole cells that fall entirely outside any one plane before
// falling back to the same per-entity filter QueryRange uses.
func (ix *Index) QueryFrustum(f Frustum, level uint8) []EntityId {
	ix.mu.RLock()
	lb, ok := ix.levels[level]
	ix.mu.RUnlock()
	if !ok {
		return nil
	}

	seen := make(map[EntityId]struct{})
	var out []EntityId
	ix.mu.RLock()
	codes := append([]uint64(nil), lb.codes...)
	ix.mu.RUnlock()

	for _, code := range codes {
		key := MortonKey{Level: level, Code: code}
		box := ix.cellAABB(key)
		inside := true
		for _, pl := range f.Planes {
			if aabbOutsidePlane(box, pl) {
				inside = false
				break
			}
		}
		if !inside {
			continue
		}
		ix.mu.RLock()
		n, ok := lb.nodes[code]
		ix.mu.RUnlock()
		if !ok {
			continue
		}
		for _, id := range n.snapshot() {
			if _, dup := seen[id]; dup {
				continue
			}
			if ix.entityPassesFrustum(id, f) {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

func (ix *Index) entityPassesFrustum(id EntityId, f Frustum) bool {
	ix.mu.RLock()
	rec, ok := ix.entities[id]
	ix.mu.RUnlock()
	if !ok {
		return false
	}
	var box geom.AABB
	if rec.hasBounds {
		box = rec.bounds
	} else if rec.hasPos {
		box = geom.AABB{Min: rec.pos, Max: rec.pos}
	} else {
		return false
	}
	for _, pl := range f.Planes {
		if aabbOutsidePlane(box, pl) {
			return false
		}
	}
	return true
}

// QueryPlane returns every entity whose position/bounds lies in front of
// (or touching) plane pl, i.e. not entirely on its negative side.
func (ix *Index) QueryPlane(pl Plane, level uint8) []EntityId {
	return ix.QueryFrustum(Frustum{Planes: [6]Plane{pl, pl, pl, pl, pl, pl}}, level)
}
