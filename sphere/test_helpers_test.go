// SPDX-License-Identifier: MIT

package sphere_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/sphere"
)

const twoPi = 2 * math.Pi

// angleDist is the distance of two azimuths on the circle.
func angleDist(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), twoPi)

	return math.Min(d, twoPi-d)
}

// requireAnglesClose compares intrinsic points; the last coordinate is an
// azimuth and compared modulo 2π.
func requireAnglesClose(t *testing.T, want, got [][]float64, tol float64, msgAndArgs ...any) {
	t.Helper()
	require.Len(t, got, len(want), msgAndArgs...)
	for i := range want {
		n := len(want[i])
		for j := 0; j < n-1; j++ {
			require.InDelta(t, want[i][j], got[i][j], tol, msgAndArgs...)
		}
		require.Less(t, angleDist(want[i][n-1], got[i][n-1]), tol, msgAndArgs...)
	}
}

func randNormal(seed int64, n, dim int, scale float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := layer.NewBatch(n, dim)
	for i := range out {
		for j := range out[i] {
			out[i][j] = scale * rng.NormFloat64()
		}
	}

	return out
}

func randParams(seed int64, n int) []float64 {
	return randNormal(seed, 1, n, 1)[0]
}

// randSphere draws intrinsic points of a D-sphere, D ∈ {1, 2}.
func randSphere(seed int64, n, dim int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := layer.NewBatch(n, dim)
	for i := range out {
		if dim == 2 {
			out[i][0] = 0.05 + (math.Pi-0.1)*rng.Float64()
		}
		out[i][dim-1] = twoPi * rng.Float64()
	}

	return out
}

// edgeSphere returns intrinsic points within 1e-4 of 0, π and 2π.
func edgeSphere(dim int) [][]float64 {
	const eps = 1e-4
	if dim == 1 {
		return [][]float64{{eps}, {math.Pi - eps}, {math.Pi + eps}, {twoPi - eps}, {1}}
	}

	return [][]float64{
		{eps, 1}, {math.Pi - eps, 2}, {1, eps}, {1, twoPi - eps},
		{eps, twoPi - eps}, {math.Pi - eps, eps}, {math.Pi / 2, math.Pi},
	}
}

func mustMoebius(t testing.TB, k int, opts ...sphere.MoebiusOption) *sphere.Moebius {
	t.Helper()
	m, err := sphere.NewMoebius(k, opts...)
	require.NoError(t, err)

	return m
}

func mustSpline(t testing.TB, k int) *sphere.CircularSpline {
	t.Helper()
	s, err := sphere.NewCircularSpline(k)
	require.NoError(t, err)

	return s
}

// mustFlow returns a flow of dimension dim built from a circular flow.
func mustFlow(t testing.TB, dim int, circ sphere.Flow) sphere.Flow {
	t.Helper()
	if dim == 1 {
		return circ
	}
	a, err := sphere.NewAzimuthalFlow(circ)
	require.NoError(t, err)

	return a
}

func mustBind(t testing.TB, f sphere.Flow, p []float64) sphere.Bound {
	t.Helper()
	b, err := f.Bind(p)
	require.NoError(t, err)

	return b
}
