// Package bvh implements an axis-aligned bounding-volume hierarchy over a
// triangle soup. Nodes are stored in a contiguous arena (an index slice,
// not a pointer graph), keeping the tree trivially movable and
// cache-friendly.
package bvh

import (
	"sort"

	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// Triangle is a single world-space triangle, referenced by the mesh that
// owns this BVH; the BVH itself stores only bounds and the triangle index.
type Triangle struct {
	A, B, C vecmath.Vec3
}

func (t Triangle) aabb() geom.AABB {
	return geom.AABB{
		Min: vecmath.Vec3{
			vecmath.Min32(t.A.X(), vecmath.Min32(t.B.X(), t.C.X())),
			vecmath.Min32(t.A.Y(), vecmath.Min32(t.B.Y(), t.C.Y())),
			vecmath.Min32(t.A.Z(), vecmath.Min32(t.B.Z(), t.C.Z())),
		},
		Max: vecmath.Vec3{
			vecmath.Max32(t.A.X(), vecmath.Max32(t.B.X(), t.C.X())),
			vecmath.Max32(t.A.Y(), vecmath.Max32(t.B.Y(), t.C.Y())),
			vecmath.Max32(t.A.Z(), vecmath.Max32(t.B.Z(), t.C.Z())),
		},
	}
}

func (t Triangle) centroid() vecmath.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// node is one arena entry. Leaves have left == -1 and a nonempty
// triIndices slice into the owning Tree's Triangles; internal nodes have
// left/right >= 0 indices into Tree.nodes.
type node struct {
	bounds     geom.AABB
	left       int32
	right      int32
	triIndices []int32
}

func (n *node) isLeaf() bool { return n.left < 0 }

// Tree is the mesh BVH. Triangles is the triangle soup it was built over;
// callers index into it with the values TrianglesInAABB/... return.
type Tree struct {
	Triangles []Triangle
	nodes     []node
	root      int32
	maxLeaf   int
}

// Build constructs a BVH over tris by recursive median split on the
// longest axis of each node's AABB, partitioning by centroid against the
// node's mean coordinate on that axis; a leaf is created once a node
// holds maxLeaf or fewer triangles, or the split is degenerate (all
// triangles landed on one side).
func Build(tris []Triangle, maxLeaf int) *Tree {
	if maxLeaf <= 0 {
		maxLeaf = 4
	}
	t := &Tree{Triangles: tris, maxLeaf: maxLeaf}
	if len(tris) == 0 {
		t.root = -1
		return t
	}
	indices := make([]int32, len(tris))
	for i := range indices {
		indices[i] = int32(i)
	}
	t.root = t.build(indices)
	return t
}

func (t *Tree) build(indices []int32) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{})

	bounds := t.Triangles[indices[0]].aabb()
	for _, i := range indices[1:] {
		bounds = bounds.Union(t.Triangles[i].aabb())
	}
	t.nodes[idx].bounds = bounds

	if len(indices) <= t.maxLeaf {
		t.nodes[idx].left = -1
		t.nodes[idx].triIndices = indices
		return idx
	}

	extent := bounds.Max.Sub(bounds.Min)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}

	mean := float32(0)
	for _, i := range indices {
		mean += geom.Component(t.Triangles[i].centroid(), axis)
	}
	mean /= float32(len(indices))

	sorted := append([]int32(nil), indices...)
	sort.Slice(sorted, func(i, j int) bool {
		return geom.Component(t.Triangles[sorted[i]].centroid(), axis) < geom.Component(t.Triangles[sorted[j]].centroid(), axis)
	})

	var left, right []int32
	for _, i := range sorted {
		if geom.Component(t.Triangles[i].centroid(), axis) < mean {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		// Degenerate split: all triangles coincide on this axis. Terminate
		// as a leaf rather than recursing forever.
		t.nodes[idx].left = -1
		t.nodes[idx].triIndices = indices
		return idx
	}

	leftIdx := t.build(left)
	rightIdx := t.build(right)
	t.nodes[idx].left = leftIdx
	t.nodes[idx].right = rightIdx
	return idx
}

// TrianglesInAABB returns the indices (into Triangles) of every triangle
// whose own AABB overlaps box.
func (t *Tree) TrianglesInAABB(box geom.AABB) []int32 {
	if t.root < 0 {
		return nil
	}
	var out []int32
	t.walkAABB(t.root, box, &out)
	return out
}

func (t *Tree) walkAABB(n int32, box geom.AABB, out *[]int32) {
	nd := &t.nodes[n]
	if !nd.bounds.Overlaps(box) {
		return
	}
	if nd.isLeaf() {
		for _, i := range nd.triIndices {
			if t.Triangles[i].aabb().Overlaps(box) {
				*out = append(*out, i)
			}
		}
		return
	}
	t.walkAABB(nd.left, box, out)
	t.walkAABB(nd.right, box, out)
}

// TrianglesIntersectingSphere rejects whole nodes using the sum of
// squared clamped distances against r^2, and runs a closest-point-on-
// triangle test at leaves.
func (t *Tree) TrianglesIntersectingSphere(center vecmath.Vec3, r float32) []int32 {
	if t.root < 0 {
		return nil
	}
	var out []int32
	rSq := r * r
	t.walkSphere(t.root, center, rSq, &out)
	return out
}

func (t *Tree) walkSphere(n int32, center vecmath.Vec3, rSq float32, out *[]int32) {
	nd := &t.nodes[n]
	if nd.bounds.SquaredDistanceToPoint(center) > rSq {
		return
	}
	if nd.isLeaf() {
		for _, i := range nd.triIndices {
			tri := t.Triangles[i]
			cp := geom.ClosestPointOnTriangle(center, tri.A, tri.B, tri.C)
			d := center.Sub(cp)
			if d.Dot(d) <= rSq {
				*out = append(*out, i)
			}
		}
		return
	}
	t.walkSphere(nd.left, center, rSq, out)
	t.walkSphere(nd.right, center, rSq, out)
}

// RayHit is a BVH-level ray hit: T/Point/Normal plus which triangle
// (index into Triangles) was struck.
type RayHit struct {
	geom.RayHit
	TriIndex int32
}

// IntersectRay rejects nodes via the slab test then runs Moller-Trumbore
// per candidate triangle, returning the closest hit across both
// children.
func (t *Tree) IntersectRay(origin, dir vecmath.Vec3, maxDistance, epsParallel float32) (RayHit, bool) {
	if t.root < 0 {
		return RayHit{}, false
	}
	best := RayHit{}
	bestT := maxDistance
	found := false
	t.walkRay(t.root, origin, dir, epsParallel, &bestT, &best, &found)
	return best, found
}

func (t *Tree) walkRay(n int32, origin, dir vecmath.Vec3, epsParallel float32, bestT *float32, best *RayHit, found *bool) {
	nd := &t.nodes[n]
	if _, _, _, ok := nd.bounds.RayIntersect(origin, dir, *bestT, epsParallel, 1e-3); !ok {
		return
	}
	if nd.isLeaf() {
		for _, i := range nd.triIndices {
			tri := t.Triangles[i]
			hit := geom.RayTriangle(origin, dir, tri.A, tri.B, tri.C, *bestT, epsParallel)
			if hit.Hit && hit.T < *bestT {
				*bestT = hit.T
				*best = RayHit{RayHit: hit, TriIndex: i}
				*found = true
			}
		}
		return
	}
	t.walkRay(nd.left, origin, dir, epsParallel, bestT, best, found)
	t.walkRay(nd.right, origin, dir, epsParallel, bestT, best, found)
}
