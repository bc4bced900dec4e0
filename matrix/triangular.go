// SPDX-License-Identifier: MIT
// Package matrix - lower-triangular factors.
//
// LowerTriangular assembles L from log-diagonal entries and strictly-lower
// entries (row-major: (1,0), (2,0), (2,1), (3,0), ...), returning log|det L|
// alongside. InverseLowerTriangular computes L⁻¹ column by column with
// forward substitution, never going through a general inversion.

package matrix

import (
	"fmt"
	"math"
)

// LowerCount returns the number of strictly-lower entries of an n×n matrix.
func LowerCount(n int) int { return n * (n - 1) / 2 }

// LowerTriangular builds L with L[i,i] = exp(logDiag[i]) and the strictly
// lower triangle filled from lower in row-major order. lower may be nil, in
// which case L is diagonal.
//
// Implementation:
//   - Stage 1: Validate len(logDiag) > 0, len(lower) ∈ {0, n(n−1)/2}, finite inputs.
//   - Stage 2: Write exp(logDiag) on the diagonal, accumulate log det = Σ logDiag.
//   - Stage 3: Fill the strict lower triangle.
//
// Returns:
//   - *Dense: L (n×n).
//   - float64: log|det L| = Σ logDiag (diagonal is positive by construction).
//
// Errors:
//   - ErrInvalidDimensions, ErrDimensionMismatch, ErrNaNInf.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func LowerTriangular(logDiag, lower []float64) (*Dense, float64, error) {
	n := len(logDiag)
	if n == 0 {
		return nil, 0, matrixErrorf(opLowerTri, ErrInvalidDimensions)
	}
	if len(lower) != 0 && len(lower) != LowerCount(n) {
		return nil, 0, matrixErrorf(opLowerTri, fmt.Errorf("lower entries %d, want %d: %w", len(lower), LowerCount(n), ErrDimensionMismatch))
	}
	if err := ValidateFinite(logDiag); err != nil {
		return nil, 0, matrixErrorf(opLowerTri, err)
	}
	if err := ValidateFinite(lower); err != nil {
		return nil, 0, matrixErrorf(opLowerTri, err)
	}
	l, err := NewDense(n, n)
	if err != nil {
		return nil, 0, matrixErrorf(opLowerTri, err)
	}

	logDet := ZeroSum
	var i, j, k int
	for i = 0; i < n; i++ {
		l.data[i*n+i] = math.Exp(logDiag[i])
		logDet += logDiag[i]
	}
	if len(lower) > 0 {
		for i = 1; i < n; i++ {
			for j = 0; j < i; j++ {
				l.data[i*n+j] = lower[k]
				k++
			}
		}
	}

	return l, logDet, nil
}

// InverseLowerTriangular returns L⁻¹ for a lower-triangular L.
// Blueprint:
//
//	Stage 1 (Validate): L non-nil, square, zero strict upper triangle.
//	Stage 2 (Execute): for each identity column e_c solve L·x = e_c by forward substitution.
//	Stage 3 (Finalize): the result is itself lower triangular.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNotLowerTriangular, ErrSingular (zero pivot).
//
// Complexity: O(n³) time, O(n²) memory.
func InverseLowerTriangular(l Matrix) (*Dense, error) {
	if err := ValidateLowerTriangular(l); err != nil {
		return nil, matrixErrorf(opInvLowerTri, err)
	}
	n := l.Rows()
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInvLowerTri, err)
	}

	var (
		col, i, k  int
		sum, pivot float64
		aVal       float64
	)
	for col = 0; col < n; col++ {
		// Forward substitution: L·x = e_col; entries above col stay 0.
		for i = col; i < n; i++ {
			sum = ZeroSum
			for k = col; k < i; k++ {
				if aVal, err = l.At(i, k); err != nil {
					return nil, matrixErrorf(opInvLowerTri, err)
				}
				sum += aVal * inv.data[k*n+col]
			}
			if pivot, err = l.At(i, i); err != nil {
				return nil, matrixErrorf(opInvLowerTri, err)
			}
			if pivot == ZeroPivot {
				return nil, matrixErrorf(opInvLowerTri, fmt.Errorf("zero pivot at %d: %w", i, ErrSingular))
			}
			if i == col {
				inv.data[i*n+col] = (1.0 - sum) / pivot
			} else {
				inv.data[i*n+col] = -sum / pivot
			}
		}
	}

	return inv, nil
}

// SolveLowerTriangular solves L·x = b by forward substitution.
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch, ErrSingular.
//
// Complexity: O(n²).
func SolveLowerTriangular(l Matrix, b []float64) ([]float64, error) {
	if err := ValidateNotNil(l); err != nil {
		return nil, matrixErrorf(opSolveLowerTr, err)
	}
	if err := ValidateSquare(l); err != nil {
		return nil, matrixErrorf(opSolveLowerTr, err)
	}
	n := l.Rows()
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opSolveLowerTr, err)
	}
	x := make([]float64, n)

	var (
		i, k       int
		sum, pivot float64
		aVal       float64
		err        error
	)
	for i = 0; i < n; i++ {
		sum = ZeroSum
		for k = 0; k < i; k++ {
			if aVal, err = l.At(i, k); err != nil {
				return nil, matrixErrorf(opSolveLowerTr, err)
			}
			sum += aVal * x[k]
		}
		if pivot, err = l.At(i, i); err != nil {
			return nil, matrixErrorf(opSolveLowerTr, err)
		}
		if pivot == ZeroPivot {
			return nil, matrixErrorf(opSolveLowerTr, fmt.Errorf("zero pivot at %d: %w", i, ErrSingular))
		}
		x[i] = (b[i] - sum) / pivot
	}

	return x, nil
}
