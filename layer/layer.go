// SPDX-License-Identifier: MIT

// Package layer defines the contract shared by every bijective flow layer
// and the plumbing around it: parameter sources, batch validation, the
// batch-parallel driver and sequential composition.
//
// Direction convention: Forward is the sampling direction (base → target),
// Inverse is the density direction (target → base). Both return fresh
// slices and add their log|det J| contribution to a copy of the running
// log-determinant; for any layer the two contributions at corresponding
// points are exact negatives.
//
// Batches are [][]float64 of shape N×D. Results for element i never depend
// on element j, which is what lets Apply split a batch across goroutines.
package layer

// Layer is a bijection with a tractable log-determinant.
//
// cond carries per-element parameter rows for conditional layers and must
// be nil for layers that own their parameters.
type Layer interface {
	Forward(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error)
	Inverse(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error)
	NumParams() int
	InitParams(p []float64) error
}

// Conditional is implemented by layers that read per-call parameter rows.
// CondParams is the expected row length (0 for owned-parameter layers).
type Conditional interface {
	CondParams() int
}

// CondParams returns the conditional row length of l, 0 if l owns its
// parameters.
func CondParams(l Layer) int {
	if c, ok := l.(Conditional); ok {
		return c.CondParams()
	}

	return 0
}

// CheckBatch validates an N×dim batch and its running log-determinant and
// returns a copy of logDet (zeros when logDet is nil).
//
// Errors:
//   - ErrBatchShape.
func CheckBatch(x [][]float64, logDet []float64, dim int) ([]float64, error) {
	if logDet != nil && len(logDet) != len(x) {
		return nil, layerErrorf(opCheckBatch, ErrBatchShape)
	}
	for _, row := range x {
		if len(row) != dim {
			return nil, layerErrorf(opCheckBatch, ErrBatchShape)
		}
	}
	out := make([]float64, len(x))
	copy(out, logDet)

	return out, nil
}

// NewBatch allocates an n×dim batch over one contiguous buffer.
func NewBatch(n, dim int) [][]float64 {
	buf := make([]float64, n*dim)
	out := make([][]float64, n)
	for i := range out {
		out[i] = buf[i*dim : (i+1)*dim : (i+1)*dim]
	}

	return out
}
