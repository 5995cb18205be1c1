package spatial

import (
	"testing"

	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMoveKeepsEntityDiscoverableUnderConcurrentQueries drives the
// four-phase move protocol from one goroutine while another queries a
// region covering both endpoints: at every intermediate visible state the
// entity must be found, since it is a member of the union of its old and
// new cell sets between INSERT and REMOVE, never neither.
func TestMoveKeepsEntityDiscoverableUnderConcurrentQueries(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel

	posA := vecmath.Vec3{0.5, 0.5, 0.5}
	posB := vecmath.Vec3{7.5, 7.5, 7.5}
	require.True(t, ix.InsertPoint(1, posA, level))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				ix.MoveTo(1, posB)
			} else {
				ix.MoveTo(1, posA)
			}
		}
	}()

	q := geom.NewAABB(vecmath.Vec3{0, 0, 0}, vecmath.Vec3{8, 8, 8})
	for {
		select {
		case <-done:
			assert.Contains(t, ix.QueryRange(q, level), EntityId(1))
			return
		default:
			require.Contains(t, ix.QueryRange(q, level), EntityId(1))
		}
	}
}

func TestMoveToUnknownIdReturnsFalse(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	assert.False(t, ix.MoveTo(99, vecmath.Vec3{1, 1, 1}))
	assert.False(t, ix.MoveBoundedTo(99, geom.NewAABB(vecmath.Vec3{}, vecmath.Vec3{1, 1, 1})))
}

func TestInsertDuplicateIdReturnsFalse(t *testing.T) {
	ix := NewIndex(unitConfig(), nil)
	level := ix.cfg.MaxLevel
	require.True(t, ix.InsertPoint(1, vecmath.Vec3{0.5, 0.5, 0.5}, level))
	assert.False(t, ix.InsertPoint(1, vecmath.Vec3{5, 5, 5}, level))
	assert.False(t, ix.InsertBounded(1, geom.NewAABB(vecmath.Vec3{}, vecmath.Vec3{1, 1, 1}), level))
	assert.Equal(t, 1, ix.Len())
}
