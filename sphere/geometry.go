// SPDX-License-Identifier: MIT

package sphere

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvflow/internal/numeric"
)

const (
	// AngleEpsilon is the distance from 0 and π below which a polar angle is
	// replaced by the nearest safe value.
	AngleEpsilon = 1e-10

	// RadiusFloor is the smallest in-plane radius.
	RadiusFloor = 1e-10

	// CosineNudge replaces 1 − cos θ when it is exactly 0 or 2 in the
	// inverse stereographic map. 1 − cos θ is taken as 2·sin²(θ/2), so
	// only the poles themselves are nudged.
	CosineNudge = 1e-5

	twoPi = 2 * math.Pi
)

// SafeAngle clamps a polar angle into [AngleEpsilon, π − AngleEpsilon].
func SafeAngle(theta float64) float64 {
	theta = numeric.Select(theta < AngleEpsilon, AngleEpsilon, theta)

	return numeric.Select(theta > math.Pi-AngleEpsilon, math.Pi-AngleEpsilon, theta)
}

// IntrinsicToEmbedding maps n hyperspherical angles to a unit vector with
// n+1 coordinates:
//
//	e_0 = cos a_0
//	e_k = sin a_0 ⋯ sin a_{k−1} · cos a_k     (0 < k < n)
//	e_n = sin a_0 ⋯ sin a_{n−1}
//
// which is (cos φ, sin φ) on the circle and (cos θ, sin θ cos φ, sin θ sin φ)
// on the 2-sphere.
func IntrinsicToEmbedding(angles []float64) []float64 {
	n := len(angles)
	switch n {
	case 0:
		return []float64{1}
	case 1:
		return []float64{math.Cos(angles[0]), math.Sin(angles[0])}
	case 2:
		st := math.Sin(angles[0])
		return []float64{math.Cos(angles[0]), st * math.Cos(angles[1]), st * math.Sin(angles[1])}
	}

	out := make([]float64, n+1)
	prod := 1.0
	for k, a := range angles {
		out[k] = prod * math.Cos(a)
		prod *= math.Sin(a)
	}
	out[n] = prod

	return out
}

// EmbeddingToIntrinsic inverts IntrinsicToEmbedding. Angle k is the angle
// between e_k and the norm of the remaining tail, i.e.
// acos(e_k / ‖e_{k:}‖), evaluated as atan2(‖e_{k+1:}‖, e_k) which keeps full
// precision near the poles. The last angle uses the sign of the last
// coordinate to cover [0, 2π). An all-zero tail yields 0.
func EmbeddingToIntrinsic(e []float64) []float64 {
	n := len(e) - 1
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for k := 0; k < n-1; k++ {
		out[k] = math.Atan2(floats.Norm(e[k+1:], 2), e[k])
	}
	last := math.Atan2(e[n], e[n-1])
	if last < 0 {
		last += twoPi
	}
	if last >= twoPi {
		last -= twoPi
	}
	out[n-1] = last

	return out
}

// InplaneEuclideanToSpherical splits a point of the plane under a D-sphere
// into (radius, angles). The radius is floored at RadiusFloor.
//
//   - D = 1: returns ([|x|], sign) with sign = +1 for x ≥ 0, −1 otherwise.
//   - D = 2: returns ([r, φ], +1) with φ ∈ [0, 2π).
//
// Errors:
//   - ErrUnsupportedGeometry for D > 2 (or D = 0).
func InplaneEuclideanToSpherical(x []float64) ([]float64, float64, error) {
	switch len(x) {
	case 1:
		sign := numeric.Select(x[0] >= 0, 1, -1)
		return []float64{math.Max(math.Abs(x[0]), RadiusFloor)}, sign, nil
	case 2:
		r := math.Max(math.Hypot(x[0], x[1]), RadiusFloor)
		phi := math.Acos(numeric.Clamp(x[0]/r, -1, 1))
		phi = numeric.Select(x[1] < 0, twoPi-phi, phi)
		return []float64{r, phi}, 1, nil
	default:
		return nil, 0, sphereErrorf(opInplaneToSph, ErrUnsupportedGeometry)
	}
}

// InplaneSphericalToEuclidean inverts InplaneEuclideanToSpherical; sign is
// only used for D = 1.
//
// Errors:
//   - ErrUnsupportedGeometry for D > 2 (or D = 0).
func InplaneSphericalToEuclidean(s []float64, sign float64) ([]float64, error) {
	switch len(s) {
	case 1:
		return []float64{s[0] * sign}, nil
	case 2:
		return []float64{s[0] * math.Cos(s[1]), s[0] * math.Sin(s[1])}, nil
	default:
		return nil, sphereErrorf(opInplaneToEuc, ErrUnsupportedGeometry)
	}
}
