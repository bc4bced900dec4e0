// SPDX-License-Identifier: MIT

package sphere

import (
	"fmt"

	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/matrix"
)

// Rotation is the orthogonal map of the embedding space R^{D+1} of a
// D-sphere. It is parametrized by a (D+1)×(D+1) block whose first row,
// normalized, is the Householder vector v̂ of Q = I − 2·v̂v̂ᵀ. The log-det
// contribution is 0 in both directions.
type Rotation struct {
	n int
}

// NewRotation returns the rotation for a D-sphere.
//
// Errors:
//   - matrix.ErrInvalidDimensions (dim ≤ 0).
func NewRotation(dim int) (*Rotation, error) {
	if dim <= 0 {
		return nil, sphereErrorf(opNewRotation, fmt.Errorf("dim %d: %w", dim, matrix.ErrInvalidDimensions))
	}

	return &Rotation{n: dim + 1}, nil
}

// EmbeddingDim returns D+1.
func (r *Rotation) EmbeddingDim() int { return r.n }

// NumParams returns (D+1)².
func (r *Rotation) NumParams() int { return r.n * r.n }

// Vector returns the Householder vector of a block of NumParams values:
// the first row of the row-major block. Q itself is never formed on the
// evaluation path; Reflect applies it per point.
//
// Errors:
//   - layer.ErrParamCount, matrix.ErrNaNInf.
func (r *Rotation) Vector(p []float64) ([]float64, error) {
	if len(p) != r.NumParams() {
		return nil, sphereErrorf(opRotVector, fmt.Errorf("got %d, want %d: %w", len(p), r.NumParams(), layer.ErrParamCount))
	}
	if err := matrix.ValidateFinite(p[:r.n]); err != nil {
		return nil, sphereErrorf(opRotVector, err)
	}

	return p[:r.n:r.n], nil
}

// Matrix assembles Q from a block of NumParams values, for inspection.
// Only the first row of the block enters Q; a zero row yields Q = I.
//
// Errors:
//   - layer.ErrParamCount, matrix.ErrNaNInf.
func (r *Rotation) Matrix(p []float64) (*matrix.Dense, error) {
	if len(p) != r.NumParams() {
		return nil, sphereErrorf(opRotMatrix, fmt.Errorf("got %d, want %d: %w", len(p), r.NumParams(), layer.ErrParamCount))
	}
	q, err := matrix.Householder(p[:r.n])
	if err != nil {
		return nil, sphereErrorf(opRotMatrix, err)
	}

	return q, nil
}

// reflect maps intrinsic angles through the embedding by the reflection
// with vector v. Q is symmetric, so Qᵀ = Q and the call serves both
// directions.
func reflect(v, angles []float64) ([]float64, error) {
	out, err := matrix.Reflect(v, IntrinsicToEmbedding(angles))
	if err != nil {
		return nil, err
	}

	return EmbeddingToIntrinsic(out), nil
}
