package lattice

import (
	"testing"

	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructionErrorMessage(t *testing.T) {
	err := &ConstructionError{Kind: InvalidParameter, Msg: "radius must be positive"}
	assert.Contains(t, err.Error(), "InvalidParameter")
	assert.Contains(t, err.Error(), "radius must be positive")
}

// TestShapeConstructorsReturnTypedError pins the constructor contract:
// refused input surfaces as a *ConstructionError, not a bare string error.
func TestShapeConstructorsReturnTypedError(t *testing.T) {
	_, err := shape.NewSphere(vecmath.Vec3{}, -1)
	require.Error(t, err)
	var ce *ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, InvalidParameter, ce.Kind)
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	bad := DefaultConfig()
	bad.MaxTrisPerLeaf = 0
	assert.Error(t, bad.Validate())

	good := DefaultConfig()
	assert.NoError(t, good.Validate())
}
