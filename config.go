// Package lattice is a 3D spatial indexing and narrow-phase collision
// library: a space-filling-curve spatial index feeding a tagged-variant
// shape/collision engine.
package lattice

// Config holds the tunable constants recognized by the implementation.
// A nil *Config anywhere in this module means "use DefaultConfig()";
// constructors never require callers to build one.
type Config struct {
	// MaxTrisPerLeaf bounds the triangle count of a mesh BVH leaf.
	MaxTrisPerLeaf int
	// EpsParallel rejects near-parallel ray/axis directions.
	EpsParallel float32
	// EpsFaceSelectAABB is the face-selection tolerance for ray-vs-AABB hits.
	EpsFaceSelectAABB float32
	// EpsFaceSelectOBB is the face-selection tolerance for ray-vs-OBB hits.
	EpsFaceSelectOBB float32
	// PositionCorrectionSlop is the penetration slop a resolver collaborator
	// is expected to apply; the core only carries the constant.
	PositionCorrectionSlop float32
	// DefaultMaxEntitiesPerNode is an advisory split threshold for index
	// nodes backed by a future adaptive-level strategy (not required by
	// the current flat-level index, kept as a recognized constant).
	DefaultMaxEntitiesPerNode int
	// DefaultNeighborSearchRadius is a neighbor radius (in cells) kept as a
	// recognized constant; nothing reads it, and Index.Neighbors always
	// uses a radius of one cell.
	DefaultNeighborSearchRadius int
	// MaxCoord bounds the cells(Q) domain: coordinates are clamped to
	// [0, MaxCoord] before cell-range computation.
	MaxCoord int64
}

// DefaultConfig returns the library defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxTrisPerLeaf:              4,
		EpsParallel:                 1e-6,
		EpsFaceSelectAABB:           1e-3,
		EpsFaceSelectOBB:            1e-4,
		PositionCorrectionSlop:      0.01,
		DefaultMaxEntitiesPerNode:   10,
		DefaultNeighborSearchRadius: 1,
		MaxCoord:                    1 << 20,
	}
}

// withDefaults returns c, or DefaultConfig() if c is nil.
func withDefaults(c *Config) *Config {
	if c == nil {
		return DefaultConfig()
	}
	return c
}

// Validate checks that a caller-built Config has sane values; bad values
// are refused here rather than surfacing later inside a query.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.MaxTrisPerLeaf <= 0 {
		return &ConstructionError{Kind: InvalidParameter, Msg: "MaxTrisPerLeaf must be positive"}
	}
	if c.EpsParallel <= 0 || c.EpsFaceSelectAABB <= 0 || c.EpsFaceSelectOBB <= 0 {
		return &ConstructionError{Kind: InvalidParameter, Msg: "epsilon constants must be positive"}
	}
	if c.MaxCoord <= 0 {
		return &ConstructionError{Kind: InvalidParameter, Msg: "MaxCoord must be positive"}
	}
	return nil
}
