package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
)

func TestProjectAABBOntoAxis(t *testing.T) {
	h := vecmath.Vec3{1, 2, 3}
	assert.InDelta(t, 1, ProjectAABBOntoAxis(h, vecmath.Vec3{1, 0, 0}), 1e-5)
	assert.InDelta(t, 6, ProjectAABBOntoAxis(h, vecmath.Vec3{1, -1, 1}), 1e-5)
}

func TestProjectOBBOntoAxisMatchesAABBWhenAligned(t *testing.T) {
	h := vecmath.Vec3{1, 2, 3}
	n := vecmath.Vec3{0.6, 0.8, 0}
	assert.InDelta(t, ProjectAABBOntoAxis(h, n), ProjectOBBOntoAxis(h, mgl32.Ident3(), n), 1e-5)
}

func TestAxisSeparationSign(t *testing.T) {
	// Two unit boxes 3 apart on x: separated by 1 on the x axis.
	sep := AxisSeparation(vecmath.Vec3{3, 0, 0}, vecmath.Vec3{1, 0, 0}, 1, 1)
	assert.InDelta(t, -1, sep, 1e-5)

	// 1.5 apart: overlapping by 0.5.
	pen := AxisSeparation(vecmath.Vec3{1.5, 0, 0}, vecmath.Vec3{1, 0, 0}, 1, 1)
	assert.InDelta(t, 0.5, pen, 1e-5)
}

func TestBoxAxes15SkipsParallelEdgeCrosses(t *testing.T) {
	// Identical orientations make the 3 same-axis edge-cross products
	// (A_i x B_i) degenerate; the 6 face axes and the other 6 crosses stay
	// valid.
	axes := BoxAxes15(mgl32.Ident3(), mgl32.Ident3(), 1e-6)
	valid := 0
	for _, a := range axes {
		if a.Valid {
			valid++
		}
	}
	assert.Equal(t, 12, valid)
}

func TestBoxAxes15EnumerationOrder(t *testing.T) {
	rot := mgl32.Rotate3DZ(float32(math.Pi / 4))
	axes := BoxAxes15(mgl32.Ident3(), rot, 1e-6)
	for i, a := range axes {
		assert.Equal(t, i, a.Index)
	}
	// First three axes are A's columns, next three are B's.
	assert.InDelta(t, 1, axes[0].Axis.X(), 1e-5)
	assert.InDelta(t, rot.Col(0).X(), axes[3].Axis.X(), 1e-5)
}
