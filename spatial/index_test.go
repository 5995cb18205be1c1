package spatial

import (
	"testing"

	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitConfig() Config {
	return Config{CellSize: 1, MaxLevel: 4, MaxCoord: 1024}
}

// TestCellsQCoalescesAdjacentCells: with cellSize=1, Q=[0,2)x[0,1)x[0,1)
// covers cells (0,0,0) and (1,0,0), whose Morton codes are 0 and 1 and
// coalesce to a single interval [0,1].
func TestCellsQCoalescesAdjacentCells(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	q := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1.999, 0.999, 0.999})
	intervals := ix.CellsQ(q, ix.cfg.MaxLevel)
	require.Len(t, intervals, 1)
	assert.Equal(t, uint64(0), intervals[0].Start)
	assert.Equal(t, uint64(1), intervals[0].End)
}

// TestCellsQCoverage: every cell overlapping Q appears in some returned
// interval, and intervals are non-overlapping/non-adjacent (by
// construction of the coalescing scan).
func TestCellsQCoverage(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	q := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{3.5, 2.5, 0.5})
	level := ix.cfg.MaxLevel
	intervals := ix.CellsQ(q, level)

	minX, maxX, minY, maxY, minZ, maxZ := ix.cellRange(q, level)
	expected := make(map[uint64]bool)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				expected[encodeMorton(x, y, z)] = true
			}
		}
	}

	covered := make(map[uint64]bool)
	for _, iv := range intervals {
		for c := iv.Start; c <= iv.End; c++ {
			covered[c] = true
		}
	}
	for code := range expected {
		assert.True(t, covered[code], "code %d should be covered", code)
	}

	for i := 1; i < len(intervals); i++ {
		assert.Greater(t, intervals[i].Start, intervals[i-1].End+1, "intervals must not be adjacent or overlapping")
	}
}

func TestInsertPointAndQueryRange(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel

	require.True(t, ix.InsertPoint(1, vecmath.Vec3{0.5, 0.5, 0.5}, level))
	require.True(t, ix.InsertPoint(2, vecmath.Vec3{10, 10, 10}, level))

	q := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 1, 1})
	hits := ix.QueryRange(q, level)
	assert.ElementsMatch(t, []EntityId{1}, hits)
}

func TestInsertBoundedSpansMultipleCells(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	bounds := geom.NewAABB(vecmath.Vec3{0.5, 0.5, 0.5}, vecmath.Vec3{2.5, 0.5, 0.5})
	require.True(t, ix.InsertBounded(1, bounds, level))

	// The entity should be discoverable from any cell its bounds spans,
	// even a query box that only overlaps the far end of the span.
	q := geom.NewAABB(vecmath.Vec3{2, 0, 0}, vecmath.Vec3{3, 1, 1})
	hits := ix.QueryRange(q, level)
	assert.Contains(t, hits, EntityId(1))
}

func TestQueryRangeFiltersFalsePositives(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	// An entity whose bounds only touch one corner of a cell shouldn't be
	// reported for a query box overlapping a different corner once the
	// per-entity filter runs, even if cell-level candidate search is
	// coarser than the true bounds.
	bounds := geom.NewAABB(vecmath.Vec3{0.01, 0.01, 0.01}, vecmath.Vec3{0.1, 0.1, 0.1})
	require.True(t, ix.InsertBounded(1, bounds, level))

	q := geom.NewAABB(vecmath.Vec3{0.5, 0.5, 0.5}, vecmath.Vec3{0.9, 0.9, 0.9})
	hits := ix.QueryRange(q, level)
	assert.Empty(t, hits)
}

func TestRemoveUnknownIdReturnsFalse(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	assert.False(t, ix.Remove(42))
}

func TestRemoveDropsEntityFromSubsequentQueries(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{0.5, 0.5, 0.5}, level))
	require.True(t, ix.Remove(1))

	q := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 1, 1})
	assert.Empty(t, ix.QueryRange(q, level))
}

// TestMoveToFindableAtOldOrNewPosition: after a completed move, the
// entity is findable at its new position and not at its old one (and
// never at neither).
func TestMoveToFindableAtOldOrNewPosition(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{0.5, 0.5, 0.5}, level))

	require.True(t, ix.MoveTo(1, vecmath.Vec3{5.5, 5.5, 5.5}))

	oldQ := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 1, 1})
	newQ := geom.NewAABB(vecmath.Vec3{5, 5, 5}, vecmath.Vec3{6, 6, 6})
	assert.Empty(t, ix.QueryRange(oldQ, level))
	assert.Contains(t, ix.QueryRange(newQ, level), EntityId(1))
}

func TestMoveBoundedToFindableAtNewBoundsOnly(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	bounds := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{1, 1, 1})
	require.True(t, ix.InsertBounded(1, bounds, level))

	newBounds := geom.NewAABB(vecmath.Vec3{9, 9, 9}, vecmath.Vec3{10, 10, 10})
	require.True(t, ix.MoveBoundedTo(1, newBounds))

	assert.Empty(t, ix.QueryRange(bounds, level))
	assert.Contains(t, ix.QueryRange(newBounds, level), EntityId(1))
}

func TestQueryKnnOrdersByDistanceWithIdTiebreak(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(3, vecmath.Vec3{2, 0, 0}, level))
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{1, 0, 0}, level))
	require.True(t, ix.InsertPoint(2, vecmath.Vec3{1, 0, 0}, level))

	hits := ix.QueryKnn(vecmath.Vec3{0, 0, 0}, 2, level)
	require.Len(t, hits, 2)
	assert.Equal(t, []EntityId{1, 2}, hits)
}

func TestQueryKnnOnEmptyIndexReturnsEmpty(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	assert.Empty(t, ix.QueryKnn(vecmath.Vec3{0, 0, 0}, 3, ix.cfg.MaxLevel))
}

func TestQueryRayOrdersByT(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{5.5, 0.5, 0.5}, level))
	require.True(t, ix.InsertPoint(2, vecmath.Vec3{2.5, 0.5, 0.5}, level))

	ray, ok := geom.NewRay(vecmath.Vec3{0, 0.5, 0.5}, vecmath.Vec3{1, 0, 0}, 100)
	require.True(t, ok)
	hits := ix.QueryRay(ray, level)
	require.Len(t, hits, 2)
	assert.Equal(t, EntityId(2), hits[0])
	assert.Equal(t, EntityId(1), hits[1])
}

func TestNeighborsExcludesSelfAndOutOfDomain(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	key := MortonKey{Level: ix.cfg.MaxLevel, Code: encodeMorton(0, 0, 0)}
	neighbors := ix.Neighbors(key)
	for _, n := range neighbors {
		assert.NotEqual(t, key, n)
	}
	// Corner cell (0,0,0) only has 7 of 26 neighbors inside the domain.
	assert.Len(t, neighbors, 7)
}

func TestCandidatePairsFindsCoLocatedEntities(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{0.1, 0.1, 0.1}, level))
	require.True(t, ix.InsertPoint(2, vecmath.Vec3{0.2, 0.2, 0.2}, level))
	require.True(t, ix.InsertPoint(3, vecmath.Vec3{10, 10, 10}, level))

	pairs := ix.CandidatePairs(level)
	require.Len(t, pairs, 1)
	assert.Equal(t, Pair{A: 1, B: 2}, pairs[0])
}

func TestQueryFrustumRejectsOutsideEntities(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{0.5, 0.5, 0.5}, level))
	require.True(t, ix.InsertPoint(2, vecmath.Vec3{100, 100, 100}, level))

	f := Frustum{Planes: [6]Plane{
		{Normal: vecmath.Vec3{1, 0, 0}, D: 0},
		{Normal: vecmath.Vec3{-1, 0, 0}, D: 10},
		{Normal: vecmath.Vec3{0, 1, 0}, D: 0},
		{Normal: vecmath.Vec3{0, -1, 0}, D: 10},
		{Normal: vecmath.Vec3{0, 0, 1}, D: 0},
		{Normal: vecmath.Vec3{0, 0, -1}, D: 10},
	}}
	hits := ix.QueryFrustum(f, level)
	assert.Equal(t, []EntityId{1}, hits)
}

func TestQueryPlaneKeepsEntitiesInFrontOnly(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{5, 0, 0}, level))
	require.True(t, ix.InsertPoint(2, vecmath.Vec3{-5, 0, 0}, level))

	pl := Plane{Normal: vecmath.Vec3{1, 0, 0}, D: 0}
	hits := ix.QueryPlane(pl, level)
	assert.Contains(t, hits, EntityId(1))
	assert.NotContains(t, hits, EntityId(2))
}
