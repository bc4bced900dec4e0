// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"slices"
)

// Params is the parameter store of one layer.
//
// Owned params are the layer's own values, set through Init. Conditional
// params come per call: each element supplies a row of Len() values which
// is added to the stored offset (zero unless Init was called), so a
// conditional layer with a zero row behaves exactly like an owned layer
// holding the offset.
//
// Params are read-only during evaluation; Init must not run concurrently
// with Forward/Inverse.
type Params struct {
	values      []float64
	conditional bool
}

// NewOwned returns an owned store of n zeros.
func NewOwned(n int) *Params {
	return &Params{values: make([]float64, n)}
}

// NewConditional returns a conditional store of n values with a zero
// offset. A store of zero values is never conditional.
func NewConditional(n int) *Params {
	return &Params{values: make([]float64, n), conditional: n > 0}
}

// Len returns the number of parameters.
func (p *Params) Len() int { return len(p.values) }

// IsConditional reports whether per-call rows are required.
func (p *Params) IsConditional() bool { return p.conditional }

// CondLen returns the expected conditional row length (0 when owned).
func (p *Params) CondLen() int {
	if p.conditional {
		return len(p.values)
	}

	return 0
}

// Init copies v into the store.
// Errors:
//   - ErrParamCount.
func (p *Params) Init(v []float64) error {
	if len(v) != len(p.values) {
		return layerErrorf(opInit, fmt.Errorf("got %d, want %d: %w", len(v), len(p.values), ErrParamCount))
	}
	copy(p.values, v)

	return nil
}

// Values returns a copy of the stored values.
func (p *Params) Values() []float64 { return slices.Clone(p.values) }

// CheckCond validates the conditional batch against a point batch of n rows.
// Errors:
//   - ErrMissingConditional, ErrUnexpectedConditional, ErrBatchShape, ErrParamCount.
func (p *Params) CheckCond(n int, cond [][]float64) error {
	if !p.conditional {
		if cond != nil {
			return layerErrorf(opCheckCond, ErrUnexpectedConditional)
		}

		return nil
	}
	if cond == nil {
		return layerErrorf(opCheckCond, ErrMissingConditional)
	}
	if len(cond) != n {
		return layerErrorf(opCheckCond, fmt.Errorf("%d rows for %d points: %w", len(cond), n, ErrBatchShape))
	}
	for i, row := range cond {
		if len(row) != len(p.values) {
			return layerErrorf(opCheckCond, fmt.Errorf("row %d has %d, want %d: %w", i, len(row), len(p.values), ErrParamCount))
		}
	}

	return nil
}

// Resolve returns the effective parameter vector for one element.
// Owned stores ignore row and return the stored slice itself, which callers
// must treat as read-only. Conditional stores return offset + row.
//
// Errors:
//   - ErrParamCount (conditional row of the wrong length).
func (p *Params) Resolve(row []float64) ([]float64, error) {
	if !p.conditional {
		return p.values, nil
	}
	if len(row) != len(p.values) {
		return nil, layerErrorf(opResolve, fmt.Errorf("got %d, want %d: %w", len(row), len(p.values), ErrParamCount))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = p.values[i] + v
	}

	return out, nil
}

// ResolveAt is Resolve on cond[i], tolerating a nil cond for owned stores.
func (p *Params) ResolveAt(cond [][]float64, i int) ([]float64, error) {
	var row []float64
	if cond != nil {
		row = cond[i]
	}

	return p.Resolve(row)
}
