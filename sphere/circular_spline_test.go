// SPDX-License-Identifier: MIT

package sphere_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/spline"
	"github.com/katalvlaran/lvflow/sphere"
)

func TestCircularSpline_Shape(t *testing.T) {
	s := mustSpline(t, sphere.DefaultBases)
	assert.Equal(t, 1, s.Dim())
	assert.Equal(t, 5, s.Bins())
	assert.Equal(t, 15, s.NumParams())
	assert.Equal(t, "spline", s.Name())
	for _, v := range s.DesiredInitParams() {
		assert.Equal(t, sphere.DesiredInitValue, v)
	}
	_, err := s.Bind(s.DesiredInitParams())
	require.NoError(t, err)
}

func TestCircularSpline_MonotoneAndRoundTrip(t *testing.T) {
	s := mustSpline(t, 6)
	b := mustBind(t, s, randParams(31, s.NumParams()))

	prev := -1.0
	xs := append(grid(1000), 1e-4, math.Pi-1e-4, math.Pi+1e-4, twoPi-1e-4)
	for i, x := range xs {
		y, ld := density(t, b, x)
		if i < 1000 {
			require.Greater(t, y, prev, "x=%v", x)
			prev = y
		}
		back, ldBack, err := b.Forward([]float64{y})
		require.NoError(t, err)
		require.InDelta(t, x, back[0], 1e-9, "x=%v", x)
		require.InDelta(t, 0, ld+ldBack, 1e-8, "x=%v", x)
	}
}

// The mirrored last derivative closes the circle: equal slopes at 0 and 2π.
func TestCircularSpline_SlopeClosesCircle(t *testing.T) {
	s := mustSpline(t, 4)
	b := mustBind(t, s, randParams(32, s.NumParams()))
	y0, ld0 := density(t, b, 0)
	y1, ld1 := density(t, b, twoPi)
	assert.InDelta(t, 0, y0, 1e-12)
	assert.InDelta(t, twoPi, y1, 1e-12)
	assert.InDelta(t, ld0, ld1, 1e-12)
}

func TestCircularSpline_Errors(t *testing.T) {
	_, err := sphere.NewCircularSpline(0)
	require.ErrorIs(t, err, sphere.ErrBasisCount)
	_, err = mustSpline(t, 2).Bind([]float64{1})
	require.ErrorIs(t, err, layer.ErrParamCount)

	big, err := sphere.NewCircularSpline(10, spline.WithMinBinWidth(0.2))
	require.NoError(t, err)
	_, err = big.Bind(make([]float64, big.NumParams()))
	require.ErrorIs(t, err, spline.ErrMinBinTooLarge)
}

func TestAzimuthalFlow(t *testing.T) {
	inner := mustSpline(t, 3)
	a, err := sphere.NewAzimuthalFlow(inner)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Dim())
	assert.Equal(t, inner.NumParams(), a.NumParams())
	assert.Equal(t, "spline", a.Name())
	assert.Equal(t, inner.DesiredInitParams(), a.DesiredInitParams())

	p := randParams(33, a.NumParams())
	lifted := mustBind(t, a, p)
	plain := mustBind(t, inner, p)

	out, ld, err := lifted.Inverse([]float64{1.2, 4})
	require.NoError(t, err)
	phi, ldPhi, err := plain.Inverse([]float64{4})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.2, phi[0]}, out)
	assert.Equal(t, ldPhi, ld)

	_, err = sphere.NewAzimuthalFlow(a)
	require.ErrorIs(t, err, sphere.ErrFlowDimension)
	_, err = sphere.NewAzimuthalFlow(nil)
	require.ErrorIs(t, err, sphere.ErrFlowDimension)
}
