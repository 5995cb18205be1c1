package lattice

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/shape"
)

// ErrorKind, ConstructionError, and UnsupportedAxisIndex live with their
// producers (shape constructors and geom's axis-indexed helpers); they are
// aliased here so callers working against the root package see one error
// surface.
type ErrorKind = shape.ErrorKind

const (
	InvalidParameter = shape.InvalidParameter
	NotFound         = shape.NotFound
)

type ConstructionError = shape.ConstructionError

type UnsupportedAxisIndex = geom.UnsupportedAxisIndex
