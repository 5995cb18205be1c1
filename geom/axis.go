package geom

import (
	"fmt"

	"github.com/lattice3d/lattice/vecmath"
)

// UnsupportedAxisIndex is the panic value raised when an axis-indexed
// helper is handed an axis outside {0,1,2}: a programmer error, not a
// runtime condition.
type UnsupportedAxisIndex struct {
	Axis int
}

func (e UnsupportedAxisIndex) String() string {
	return fmt.Sprintf("lattice: unsupported axis index %d (want 0, 1, or 2)", e.Axis)
}

// Component returns v's component along axis (0=x, 1=y, 2=z), panicking
// with UnsupportedAxisIndex on any other value.
func Component(v vecmath.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	case 2:
		return v.Z()
	}
	panic(UnsupportedAxisIndex{Axis: axis})
}
