// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for the kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvflow/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the At/Set fallback path of the kernel under test.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// MustDenseFrom builds a *Dense from a 2D literal or fails the test.
func MustDenseFrom(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m := MustDense(t, len(rows), len(rows[0]))
	for i, row := range rows {
		for j, v := range row {
			if err := m.Set(i, j, v); err != nil {
				t.Fatalf("Set(%d,%d): %v", i, j, err)
			}
		}
	}

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// toGonum copies any Matrix into a gonum *mat.Dense via At.
func toGonum(t *testing.T, m matrix.Matrix) *mat.Dense {
	t.Helper()
	out := mat.NewDense(m.Rows(), m.Cols(), nil)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			out.Set(i, j, MustAt(t, m, i, j))
		}
	}

	return out
}

// CompareClose asserts |a_ij − b_ij| ≤ atol + rtol·|b_ij| entrywise.
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		t.Fatalf("shape %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			av, bv := MustAt(t, a, i, j), MustAt(t, b, i, j)
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				t.Fatalf("matrices differ at (%d,%d) beyond rtol=%g atol=%g:\n%v\nvs\n%v", i, j, rtol, atol, a, b)
			}
		}
	}
}

// orthogonalityResidual returns max_ij |(QᵀQ − I)_ij|.
func orthogonalityResidual(t *testing.T, q matrix.Matrix) float64 {
	t.Helper()
	g := toGonum(t, q)
	var prod mat.Dense
	prod.Mul(g.T(), g)
	worst := 0.0
	r, _ := prod.Dims()
	for i := 0; i < r; i++ {
		prod.Set(i, i, prod.At(i, i)-1)
	}
	for _, v := range prod.RawMatrix().Data {
		worst = math.Max(worst, math.Abs(v))
	}

	return worst
}

// randVec returns n deterministic values in U(lo,hi).
func randVec(seed int64, n int, lo, hi float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*rng.Float64()
	}

	return out
}

// ---------- bench helpers ----------

func mustLower(b *testing.B, n int, seed int64) *matrix.Dense {
	l, _, err := matrix.LowerTriangular(randVec(seed, n, -0.5, 0.5), randVec(seed+1, matrix.LowerCount(n), -1, 1))
	if err != nil {
		b.Fatalf("LowerTriangular(%d): %v", n, err)
	}

	return l
}
