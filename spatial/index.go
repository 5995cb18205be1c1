package spatial

import (
	"sort"
	"sync"

	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/logx"
	"github.com/lattice3d/lattice/vecmath"
)

// levelBucket is the per-level slice of the index: a sorted list of the
// codes currently populated at this level, plus the node for each. The
// sorted slice gives CellsQ its per-interval range scans; binary-search
// insert keeps it ordered through mutation.
type levelBucket struct {
	codes []uint64
	nodes map[uint64]*node
}

func newLevelBucket() *levelBucket {
	return &levelBucket{nodes: make(map[uint64]*node)}
}

// indexOf returns the position of code in the sorted slice, and whether
// it's present.
func (lb *levelBucket) indexOf(code uint64) (int, bool) {
	i := sort.Search(len(lb.codes), func(i int) bool { return lb.codes[i] >= code })
	if i < len(lb.codes) && lb.codes[i] == code {
		return i, true
	}
	return i, false
}

func (lb *levelBucket) insertCode(code uint64) {
	i, found := lb.indexOf(code)
	if found {
		return
	}
	lb.codes = append(lb.codes, 0)
	copy(lb.codes[i+1:], lb.codes[i:])
	lb.codes[i] = code
}

func (lb *levelBucket) removeCode(code uint64) {
	i, found := lb.indexOf(code)
	if !found {
		return
	}
	lb.codes = append(lb.codes[:i], lb.codes[i+1:]...)
}

// rangeCodes returns every code in [start, end] currently present, along
// with its node, in ascending order.
func (lb *levelBucket) rangeCodes(start, end uint64) []struct {
	code uint64
	n    *node
} {
	lo := sort.Search(len(lb.codes), func(i int) bool { return lb.codes[i] >= start })
	var out []struct {
		code uint64
		n    *node
	}
	for i := lo; i < len(lb.codes) && lb.codes[i] <= end; i++ {
		out = append(out, struct {
			code uint64
			n    *node
		}{lb.codes[i], lb.nodes[lb.codes[i]]})
	}
	return out
}

// entityRecord is the index's view of one registered entity: its
// content (position and/or bounds), its insertion level, and the set of
// keys it currently lives at. moveState tracks the four-phase move
// protocol.
type entityRecord struct {
	id        EntityId
	hasPos    bool
	pos       vecmath.Vec3
	hasBounds bool
	bounds    geom.AABB
	level     uint8
	keys      []MortonKey
	state     moveState
}

type moveState int

const (
	stateStable moveState = iota
	statePrepare
	stateInsert
	stateUpdate
	stateRemove
)

// Index is the SFC spatial index. It exclusively owns the node map
// (organized per level for CellsQ's single-level range scans); entities
// are identified by integer id, and the node stores a set of ids, never
// entity content.
type Index struct {
	mu       sync.RWMutex
	cfg      Config
	levels   map[uint8]*levelBucket
	entities map[EntityId]*entityRecord
	log      logx.Logger
}

// NewIndex builds an empty index. A zero-value cfg.CellSize or
// cfg.MaxLevel is replaced by DefaultConfig()'s values, so queries and
// mutations on a fresh index never fail.
func NewIndex(cfg Config, log logx.Logger) *Index {
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultConfig().CellSize
	}
	if cfg.MaxLevel == 0 {
		cfg.MaxLevel = DefaultConfig().MaxLevel
	}
	if cfg.MaxCoord <= 0 {
		cfg.MaxCoord = DefaultConfig().MaxCoord
	}
	if log == nil {
		log = logx.NewNopLogger()
	}
	return &Index{
		cfg:      cfg,
		levels:   make(map[uint8]*levelBucket),
		entities: make(map[EntityId]*entityRecord),
		log:      log,
	}
}

func (ix *Index) bucket(level uint8) *levelBucket {
	lb, ok := ix.levels[level]
	if !ok {
		lb = newLevelBucket()
		ix.levels[level] = lb
	}
	return lb
}

// nodeFor returns the node at (level, code), creating it if absent, and
// allocating a fresh node if the existing one was just retired by a
// concurrent remove (a retired node rejects further adds).
func (ix *Index) nodeFor(level uint8, code uint64) *node {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	lb := ix.bucket(level)
	if n, ok := lb.nodes[code]; ok && !n.isRetired() {
		return n
	}
	n := newNode()
	lb.nodes[code] = n
	lb.insertCode(code)
	return n
}

// addToCell adds id to the node at key, retrying against node retirement
// races under the index lock.
func (ix *Index) addToCell(key MortonKey, id EntityId) {
	for {
		n := ix.nodeFor(key.Level, key.Code)
		if n.add(id) {
			return
		}
	}
}

// removeFromCell removes id from the node at key and drops the node's
// map/slice entry if that retired it.
func (ix *Index) removeFromCell(key MortonKey, id EntityId) {
	ix.mu.Lock()
	lb, ok := ix.levels[key.Level]
	ix.mu.Unlock()
	if !ok {
		return
	}
	ix.mu.RLock()
	n, ok := lb.nodes[key.Code]
	ix.mu.RUnlock()
	if !ok {
		return
	}
	if n.remove(id) {
		ix.log.Debugf("spatial: retiring empty node level=%d code=%d", key.Level, key.Code)
		ix.mu.Lock()
		delete(lb.nodes, key.Code)
		lb.removeCode(key.Code)
		ix.mu.Unlock()
	}
}

// keysForPoint returns the single key a point entity occupies at level.
func (ix *Index) keysForPoint(p vecmath.Vec3, level uint8) []MortonKey {
	return []MortonKey{encodeKey(p, level, ix.cfg.MaxLevel, ix.cfg.CellSize)}
}

// keysForBounds enumerates every cell key whose cell overlaps bounds at
// level, using the same cell-range enumeration CellsQ uses: a spanning
// entity is inserted into every cell its bounds touch.
func (ix *Index) keysForBounds(bounds geom.AABB, level uint8) []MortonKey {
	minX, maxX, minY, maxY, minZ, maxZ := ix.cellRange(bounds, level)
	keys := make([]MortonKey, 0, (maxX-minX+1)*(maxY-minY+1)*(maxZ-minZ+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				keys = append(keys, MortonKey{Level: level, Code: encodeMorton(x, y, z)})
			}
		}
	}
	return keys
}

// cellRange computes the inclusive cell-coordinate range at level that
// covers bounds, clamped to the [0, MaxCoord] domain.
func (ix *Index) cellRange(bounds geom.AABB, level uint8) (minX, maxX, minY, maxY, minZ, maxZ int64) {
	clamp := func(v float32) float32 {
		if v < 0 {
			return 0
		}
		if v > ix.cfg.MaxCoord {
			return ix.cfg.MaxCoord
		}
		return v
	}
	lo := vecmath.Vec3{clamp(bounds.Min.X()), clamp(bounds.Min.Y()), clamp(bounds.Min.Z())}
	hi := vecmath.Vec3{clamp(bounds.Max.X()), clamp(bounds.Max.Y()), clamp(bounds.Max.Z())}

	cell := func(v float32) int64 {
		fine := quantize(v, ix.cfg.CellSize)
		return cellCoordAtLevel(fine, level, ix.cfg.MaxLevel)
	}
	minX, maxX = cell(lo.X()), cell(hi.X())
	minY, maxY = cell(lo.Y()), cell(hi.Y())
	minZ, maxZ = cell(lo.Z()), cell(hi.Z())
	return
}

// Interval is one contiguous run of Morton codes at a fixed level,
// returned by CellsQ.
type Interval struct {
	Level      uint8
	Start, End uint64
}

// CellsQ decomposes an axis-aligned query region into contiguous key
// intervals: compute the cell range covering bounds at level, enumerate
// every cell's code into a sorted set, then coalesce adjacent runs
// (code[i+1] == code[i]+1) into intervals.
func (ix *Index) CellsQ(bounds geom.AABB, level uint8) []Interval {
	minX, maxX, minY, maxY, minZ, maxZ := ix.cellRange(bounds, level)
	codes := make([]uint64, 0, (maxX-minX+1)*(maxY-minY+1)*(maxZ-minZ+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				codes = append(codes, encodeMorton(x, y, z))
			}
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var intervals []Interval
	i := 0
	for i < len(codes) {
		start := codes[i]
		end := start
		j := i + 1
		for j < len(codes) && codes[j] == end+1 {
			end = codes[j]
			j++
		}
		intervals = append(intervals, Interval{Level: level, Start: start, End: end})
		i = j
	}
	return intervals
}
