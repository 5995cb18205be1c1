package geom

import "github.com/lattice3d/lattice/vecmath"

// SATAxisResult reports the penetration along a single candidate
// separating axis, tagged by its enumeration index so dispatchers can
// break penetration-depth ties by axis order (face axes of A, then face
// axes of B, then the edge crosses in enumeration order).
type SATAxisResult struct {
	Index       int
	Axis        vecmath.Vec3 // unit, or zero for a degenerate (skipped) axis
	Penetration float32      // negative means separated on this axis
	Valid       bool
}

// ProjectAABBOntoAxis projects an AABB's half-extents onto axis n, giving
// Sum(|n_i|*h_i).
func ProjectAABBOntoAxis(halfExtents vecmath.Vec3, n vecmath.Vec3) float32 {
	return halfExtents.X()*vecmath.Abs32(n.X()) + halfExtents.Y()*vecmath.Abs32(n.Y()) + halfExtents.Z()*vecmath.Abs32(n.Z())
}

// ProjectOBBOntoAxis projects an oriented box's half-extents onto axis n
// using its orientation columns: Sum(|n . R_j| * h_j).
func ProjectOBBOntoAxis(halfExtents vecmath.Vec3, orientation vecmath.Mat3, n vecmath.Vec3) float32 {
	c0 := orientation.Col(0)
	c1 := orientation.Col(1)
	c2 := orientation.Col(2)
	return halfExtents.X()*vecmath.Abs32(n.Dot(c0)) +
		halfExtents.Y()*vecmath.Abs32(n.Dot(c1)) +
		halfExtents.Z()*vecmath.Abs32(n.Dot(c2))
}

// AxisSeparation projects centerDiff (centerB - centerA) onto axis n and
// returns (projA + projB) - |centerDiff . n|: positive is the overlap
// depth along n, negative means n is a separating axis.
func AxisSeparation(centerDiff, n vecmath.Vec3, projA, projB float32) float32 {
	return projA + projB - vecmath.Abs32(centerDiff.Dot(n))
}

// BoxAxes15 enumerates the 15 SAT axes for two oriented boxes: 3 face
// normals of A, 3 face normals of B, and the 9 pairwise edge-cross
// products, in the canonical tie-breaking order. Axes whose cross product
// has squared length below degenerateEps are returned with Valid=false
// (parallel edges).
func BoxAxes15(orientA, orientB vecmath.Mat3, degenerateEps float32) [15]SATAxisResult {
	var axes [15]SATAxisResult
	colsA := [3]vecmath.Vec3{orientA.Col(0), orientA.Col(1), orientA.Col(2)}
	colsB := [3]vecmath.Vec3{orientB.Col(0), orientB.Col(1), orientB.Col(2)}

	idx := 0
	for i := 0; i < 3; i++ {
		axes[idx] = SATAxisResult{Index: idx, Axis: colsA[i], Valid: true}
		idx++
	}
	for j := 0; j < 3; j++ {
		axes[idx] = SATAxisResult{Index: idx, Axis: colsB[j], Valid: true}
		idx++
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cross := colsA[i].Cross(colsB[j])
			lenSq := cross.Dot(cross)
			if lenSq < degenerateEps {
				axes[idx] = SATAxisResult{Index: idx, Valid: false}
			} else {
				axes[idx] = SATAxisResult{Index: idx, Axis: cross.Mul(1 / vecmath.Sqrt32(lenSq)), Valid: true}
			}
			idx++
		}
	}
	return axes
}
