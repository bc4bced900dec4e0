package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvflow/matrix"
)

func TestHouseholder_Orthogonal(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 20; seed++ {
		v := randVec(seed, 3, -5, 5)
		q, err := matrix.Householder(v)
		require.NoError(t, err)

		assert.Less(t, orthogonalityResidual(t, q), 1e-6)

		// a single reflection has determinant −1
		assert.InDelta(t, -1.0, mat.Det(mat.NewDense(3, 3, q.RawCopy())), 1e-9)
	}
}

func TestHouseholder_ReflectsVectorToNegative(t *testing.T) {
	v := []float64{1, 2, 2}
	q, err := matrix.Householder(v)
	require.NoError(t, err)
	qv, err := matrix.MatVec(q, v)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, -2, -2}, qv, 1e-12)

	x := []float64{0.3, -0.7, 1.1}
	rx, err := matrix.Reflect(v, x)
	require.NoError(t, err)
	qx, err := matrix.MatVec(q, x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, qx, rx, 1e-12)
	assert.InDelta(t, floats.Norm(x, 2), floats.Norm(rx, 2), 1e-12)
}

func TestHouseholder_ZeroVectorIsIdentity(t *testing.T) {
	q, err := matrix.Householder([]float64{0, 0, 0})
	require.NoError(t, err)
	id, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	CompareClose(t, q, id, 0, 0)

	x, err := matrix.Reflect([]float64{0, 0}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, x)
}

func TestHouseholder_Errors(t *testing.T) {
	_, err := matrix.Householder(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.Householder([]float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	_, err = matrix.Reflect([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestReflect_IsInvolution(t *testing.T) {
	v := randVec(5, 4, -2, 2)
	x := randVec(6, 4, -1, 1)
	once, err := matrix.Reflect(v, x)
	require.NoError(t, err)
	twice, err := matrix.Reflect(v, once)
	require.NoError(t, err)
	assert.InDeltaSlice(t, x, twice, 1e-12)
}
