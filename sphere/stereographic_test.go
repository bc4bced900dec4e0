// SPDX-License-Identifier: MIT

package sphere_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/sphere"
)

func mustProjector(t *testing.T, dim int, cylinder bool) *sphere.Projector {
	t.Helper()
	p, err := sphere.NewProjector(dim, cylinder)
	require.NoError(t, err)

	return p
}

// circle: 0 ↦ π, +∞ ↦ 0, −∞ ↦ 2π
func TestProjector_CircleScenarios(t *testing.T) {
	p := mustProjector(t, 1, false)
	for _, tc := range []struct {
		x, want float64
	}{
		{0, math.Pi},
		{math.Inf(1), 0},
		{math.Inf(-1), twoPi},
	} {
		a, _, err := p.PlaneToSphere([]float64{tc.x})
		require.NoError(t, err)
		assert.InDelta(t, tc.want, a[0], 1e-9, "x=%v", tc.x)
	}

	// sign of x picks the half circle
	a, _, err := p.PlaneToSphere([]float64{0.5})
	require.NoError(t, err)
	assert.Less(t, a[0], math.Pi)
	a, _, err = p.PlaneToSphere([]float64{-0.5})
	require.NoError(t, err)
	assert.Greater(t, a[0], math.Pi)
}

func TestProjector_RoundTripAndClosure(t *testing.T) {
	for _, tc := range []struct {
		name     string
		dim      int
		cylinder bool
	}{
		{"circle", 1, false},
		{"sphere", 2, false},
		{"cylinder", 2, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := mustProjector(t, tc.dim, tc.cylinder)
			for _, x := range randNormal(7, 300, tc.dim, 1.5) {
				a, ld, err := p.PlaneToSphere(x)
				require.NoError(t, err)
				back, ldInv, err := p.SphereToPlane(a)
				require.NoError(t, err)
				require.InDeltaSlice(t, x, back, 1e-8*(1+math.Abs(x[0])))
				require.InDelta(t, 0, ld+ldInv, 1e-9)
			}
		})
	}
}

func TestProjector_CircleLogDetMatchesDerivative(t *testing.T) {
	p := mustProjector(t, 1, false)
	const h = 1e-6
	for _, x := range []float64{-2, -0.7, 0.3, 1.1, 2.4} {
		_, ld, err := p.PlaneToSphere([]float64{x})
		require.NoError(t, err)
		lo, _, _ := p.PlaneToSphere([]float64{x - h})
		hi, _, _ := p.PlaneToSphere([]float64{x + h})
		fd := math.Abs(hi[0]-lo[0]) / (2 * h)
		assert.InDelta(t, math.Log(fd), ld, 1e-6, "x=%v", x)
	}
}

// The 2-sphere log-det is log(1 − cos θ), the area element relative to the
// plane's Cartesian measure.
func TestProjector_SphereLogDet(t *testing.T) {
	p := mustProjector(t, 2, false)
	a, ld, err := p.PlaneToSphere([]float64{0.8, -0.4})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1-math.Cos(a[0])), ld, 1e-12)

	c := mustProjector(t, 2, true)
	ac, ldc, err := c.PlaneToSphere([]float64{0.8, -0.4})
	require.NoError(t, err)
	assert.InDelta(t, -0.5*0.8, ac[0], 1e-12) // −r²/2 with r² = 0.8
	assert.InDelta(t, ac[0], ldc, 1e-15)
	assert.InDelta(t, a[1], ac[1], 1e-15)
	assert.InDelta(t, ld, ldc+math.Ln2, 1e-12)
}

func TestProjector_CosineNudge(t *testing.T) {
	p := mustProjector(t, 2, false)
	x, ld, err := p.SphereToPlane([]float64{0, 1})
	require.NoError(t, err)
	assert.False(t, math.IsInf(x[0], 0) || math.IsNaN(x[0]))
	assert.InDelta(t, -math.Log(sphere.CosineNudge), ld, 1e-12)

	x, _, err = p.SphereToPlane([]float64{math.Pi, 1})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(x[0]))
}

func TestProjector_LargeRadiusRoundTrip(t *testing.T) {
	p := mustProjector(t, 2, false)
	for _, r := range []float64{5, 8.5, 9, 12} {
		x := []float64{r * math.Cos(0.7), r * math.Sin(0.7)}
		a, ld, err := p.PlaneToSphere(x)
		require.NoError(t, err)
		require.Greater(t, a[0], 0.0, "r=%v", r)
		// cos θ already rounds to 1 here
		if r >= 9 {
			require.Equal(t, 1.0, math.Cos(a[0]), "r=%v", r)
		}

		back, ldBack, err := p.SphereToPlane(a)
		require.NoError(t, err)
		assert.InDeltaSlice(t, x, back, 1e-9*r, "r=%v", r)
		assert.InDelta(t, 0, ld+ldBack, 1e-9, "r=%v", r)
	}
}

func TestCylinderExtra_Regimes(t *testing.T) {
	exact := func(r float64) float64 { return math.Log(-math.Expm1(-0.5 * r * r)) }
	for _, r := range []float64{1e-4, sphere.CylinderSmallRadius, 0.5, 3, sphere.CylinderLargeRadius, 12} {
		assert.InDelta(t, exact(r), sphere.CylinderExtra(r), 1e-6*(1+math.Abs(exact(r))), "r=%v", r)
	}

	p := mustProjector(t, 2, true)
	_, _, extra, err := p.PlaneToSphereExtra([]float64{0.3, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, exact(0.5), extra, 1e-12)

	_, _, extra, err = mustProjector(t, 2, false).PlaneToSphereExtra([]float64{0.3, 0.4})
	require.NoError(t, err)
	assert.Zero(t, extra)
}

func TestNewProjector_Errors(t *testing.T) {
	_, err := sphere.NewProjector(3, false)
	require.ErrorIs(t, err, sphere.ErrUnsupportedGeometry)
	_, err = sphere.NewProjector(0, false)
	require.ErrorIs(t, err, sphere.ErrUnsupportedGeometry)
	_, err = sphere.NewProjector(1, true)
	require.ErrorIs(t, err, sphere.ErrCylinderNeedsSphere)

	p := mustProjector(t, 2, false)
	_, _, err = p.PlaneToSphere([]float64{1})
	require.ErrorIs(t, err, layer.ErrBatchShape)
	_, _, err = p.SphereToPlane([]float64{1, 2, 3})
	require.ErrorIs(t, err, layer.ErrBatchShape)
}
