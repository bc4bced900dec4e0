// SPDX-License-Identifier: MIT
// Package matrix provides the matrix-vector kernel the flow layers need.
// It performs strict fail-fast validation and returns clear errors on
// dimension mismatches.
//
// Notes:
//   - MatVec has a *Dense fast path over the flat buffer and a generic
//     At fallback with a fixed i→j order.
//   - Errors are wrapped with matrixErrorf(op, err) using the op* tags below.

package matrix

import (
	"fmt"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for forward substitution and similar.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for detecting a zero pivot in triangular solves.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMatVec       = "MatVec"
	opHouseholder  = "Householder"
	opReflect      = "Reflect"
	opLowerTri     = "LowerTriangular"
	opInvLowerTri  = "InverseLowerTriangular"
	opSolveLowerTr = "SolveLowerTriangular"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m·x.
// Errors:
//   - ErrNilMatrix (m or x nil), ErrDimensionMismatch (len(x) != m.Cols()).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	var (
		i, j, base int
		acc, mv    float64
		err        error
	)
	// Fast-path: *Dense allows flat, row-major dot-products.
	if d, ok := m.(*Dense); ok {
		for i = 0; i < rows; i++ {
			acc = ZeroSum
			base = i * cols
			for j = 0; j < cols; j++ {
				acc += d.data[base+j] * x[j]
			}
			y[i] = acc
		}

		return y, nil
	}

	for i = 0; i < rows; i++ {
		acc = ZeroSum
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			acc += mv * x[j]
		}
		y[i] = acc
	}

	return y, nil
}
