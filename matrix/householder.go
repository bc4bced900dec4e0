// SPDX-License-Identifier: MIT
// Package matrix - Householder reflections.
//
// Householder builds the single reflection Q = I − 2·v̂v̂ᵀ from a vector v.
// Q is symmetric and orthogonal by construction (QᵀQ = I, det Q = −1), so
// applying it never changes volume.

package matrix

import (
	"gonum.org/v1/gonum/floats"
)

// Householder returns the n×n reflection Q = I − 2·vvᵀ/‖v‖², n = len(v).
// Implementation:
//   - Stage 1: Validate n>0 and finite entries.
//   - Stage 2: Compute β = vᵀv; a zero vector yields Q = I (no reflection).
//   - Stage 3: Fill Q[i,j] = δ_ij − τ·v_i·v_j with τ = 2/β.
//
// Errors:
//   - ErrInvalidDimensions (len(v) == 0), ErrNaNInf (non-finite entry).
//
// Complexity:
//   - Time O(n²), Space O(n²).
func Householder(v []float64) (*Dense, error) {
	n := len(v)
	if n == 0 {
		return nil, matrixErrorf(opHouseholder, ErrInvalidDimensions)
	}
	if err := ValidateFinite(v); err != nil {
		return nil, matrixErrorf(opHouseholder, err)
	}
	q, err := NewIdentity(n)
	if err != nil {
		return nil, matrixErrorf(opHouseholder, err)
	}

	// β = vᵀv
	beta := floats.Dot(v, v)
	if beta == NormZero {
		return q, nil
	}
	tau := 2.0 / beta

	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			q.data[i*n+j] -= tau * v[i] * v[j]
		}
	}

	return q, nil
}

// Reflect applies I − 2·vvᵀ/‖v‖² to x without materializing the matrix.
// The reflection is its own inverse, so the same call undoes it.
// A zero v returns a copy of x.
// Errors:
//   - ErrDimensionMismatch (len(v) != len(x)).
//
// Complexity:
//   - Time O(n), Space O(n).
func Reflect(v, x []float64) ([]float64, error) {
	if len(v) != len(x) {
		return nil, matrixErrorf(opReflect, ErrDimensionMismatch)
	}
	out := make([]float64, len(x))
	copy(out, x)
	beta := floats.Dot(v, v)
	if beta == NormZero {
		return out, nil
	}
	floats.AddScaled(out, -2.0*floats.Dot(v, x)/beta, v)

	return out, nil
}
