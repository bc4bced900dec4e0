// SPDX-License-Identifier: MIT

package sphere_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/rootfind"
	"github.com/katalvlaran/lvflow/sphere"
)

// grid returns n evenly spaced points of [0, 2π).
func grid(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = twoPi * float64(i) / float64(n)
	}

	return out
}

// density evaluates the closed-form direction of a circular flow.
func density(t *testing.T, b sphere.Bound, x float64) (float64, float64) {
	t.Helper()
	y, ld, err := b.Inverse([]float64{x})
	require.NoError(t, err)

	return y[0], ld
}

func TestMoebius_Shape(t *testing.T) {
	m := mustMoebius(t, sphere.DefaultBases)
	assert.Equal(t, 1, m.Dim())
	assert.Equal(t, 5, m.Bases())
	assert.Equal(t, 15, m.NumParams())
	assert.Equal(t, "moebius", m.Name())
	assert.Len(t, m.DesiredInitParams(), 15)
	assert.Equal(t, sphere.DesiredInitValue, m.DesiredInitParams()[7])

	xy := mustMoebius(t, 3, sphere.WithXYParametrization())
	assert.Equal(t, 12, xy.NumParams())
}

func TestMoebius_MonotoneAndPinned(t *testing.T) {
	for _, opts := range [][]sphere.MoebiusOption{nil, {sphere.WithXYParametrization()}} {
		m := mustMoebius(t, 4, opts...)
		b := mustBind(t, m, randParams(21, m.NumParams()))

		prev := -1.0
		for _, x := range grid(1000) {
			y, ld := density(t, b, x)
			require.Greater(t, y, prev, "x=%v", x)
			require.False(t, math.IsNaN(ld))
			prev = y
		}
		y0, _ := density(t, b, 0)
		y1, _ := density(t, b, twoPi)
		assert.InDelta(t, 0, y0, 1e-12)
		assert.InDelta(t, twoPi, y1, 1e-12)
	}
}

func TestMoebius_RoundTripAndClosure(t *testing.T) {
	m := mustMoebius(t, 5)
	b := mustBind(t, m, randParams(22, m.NumParams()))

	xs := append(grid(1000), 1e-4, math.Pi-1e-4, math.Pi+1e-4, twoPi-1e-4)
	for _, x := range xs {
		y, ld := density(t, b, x)
		back, ldBack, err := b.Forward([]float64{y})
		require.NoError(t, err)
		require.Less(t, angleDist(x, back[0]), 1e-8, "x=%v", x)
		require.InDelta(t, 0, ld+ldBack, 1e-7, "x=%v", x)
	}
}

func TestMoebius_LogDerivMatchesFiniteDifference(t *testing.T) {
	m := mustMoebius(t, 3)
	b := mustBind(t, m, randParams(23, m.NumParams()))
	const h = 1e-6
	for _, x := range []float64{0.3, 1.7, math.Pi, 4.2, 6} {
		_, ld := density(t, b, x)
		lo, _ := density(t, b, x-h)
		hi, _ := density(t, b, x+h)
		assert.InDelta(t, math.Log((hi-lo)/(2*h)), ld, 1e-5, "x=%v", x)
	}
}

func TestMoebius_ClosedFormAllocatesOnlyResult(t *testing.T) {
	m := mustMoebius(t, 8)
	b := mustBind(t, m, randParams(24, m.NumParams()))
	in := []float64{2.5}

	allocs := testing.AllocsPerRun(100, func() {
		_, _, _ = b.Inverse(in)
	})
	assert.LessOrEqual(t, allocs, 1.0)
}

func TestMoebius_SmallRadiusIsNearIdentity(t *testing.T) {
	m := mustMoebius(t, 2)
	// angle, length logit, log weight per basis
	b := mustBind(t, m, []float64{0.4, -30, 0, 2.1, -30, 0})
	for _, x := range grid(50) {
		y, ld := density(t, b, x)
		assert.InDelta(t, x, y, 5e-3)
		assert.InDelta(t, 0, ld, 5e-3)
	}
}

func TestMoebius_NaturalDirectionSwaps(t *testing.T) {
	p := randParams(24, 9)
	def := mustBind(t, mustMoebius(t, 3), p)
	nat := mustBind(t, mustMoebius(t, 3, sphere.WithNaturalDirection(true),
		sphere.WithSolverOptions(rootfind.WithTolerance(1e-12))), p)

	for _, x := range []float64{0.1, 2, 5.5} {
		y1, ld1, err := def.Inverse([]float64{x})
		require.NoError(t, err)
		y2, ld2, err := nat.Forward([]float64{x})
		require.NoError(t, err)
		assert.Equal(t, y1, y2)
		assert.Equal(t, ld1, ld2)

		back, _, err := nat.Inverse(y2)
		require.NoError(t, err)
		assert.InDelta(t, x, back[0], 1e-10)
	}
}

func TestMoebius_XYZeroDirection(t *testing.T) {
	m := mustMoebius(t, 1, sphere.WithXYParametrization())
	b := mustBind(t, m, []float64{0, 0, 1, 0})
	y, ld := density(t, b, 1)
	assert.False(t, math.IsNaN(y) || math.IsNaN(ld))
}

func TestMoebius_Errors(t *testing.T) {
	_, err := sphere.NewMoebius(0)
	require.ErrorIs(t, err, sphere.ErrBasisCount)
	_, err = mustMoebius(t, 2).Bind([]float64{1, 2})
	require.ErrorIs(t, err, layer.ErrParamCount)
}
