// SPDX-License-Identifier: MIT

// Package euclidean provides the covariance (linear) flow layer on R^D.
//
// The layer maps y = L·x with L lower triangular and a strictly positive
// diagonal, so log|det J| = Σ log L_ii. The diagonal is produced by a
// positive.Transform from unconstrained parameters, the strictly-lower
// entries are free. The inverse applies L⁻¹ obtained by forward
// substitution. Parameters are laid out
//
//	[log-diagonal (1 | D values) | strictly-lower row-major (D(D−1)/2, full only)]
package euclidean

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/matrix"
	"github.com/katalvlaran/lvflow/positive"
)

// ErrBadDimension is returned for a non-positive dimension.
var ErrBadDimension = errors.New("euclidean: dimension must be > 0")

const (
	opNew       = "euclidean.NewGaussian"
	opForward   = "Gaussian.Forward"
	opInverse   = "Gaussian.Inverse"
	opFactor    = "Gaussian.Factor"
	opStructure = "Gaussian.ParamStructure"
)

// Gaussian is the covariance layer. Construction fixes the covariance
// strategy, evaluation never dispatches on strings.
type Gaussian struct {
	dim    int
	cov    CovType
	strat  covariance
	pos    *positive.Transform
	params *layer.Params
}

var (
	_ layer.Layer       = (*Gaussian)(nil)
	_ layer.Conditional = (*Gaussian)(nil)
)

// NewGaussian builds a covariance layer on R^dim.
//
// Errors:
//   - ErrBadDimension, ErrUnknownCovType, positive.Err* (positivity options).
func NewGaussian(dim int, cov CovType, opts ...Option) (*Gaussian, error) {
	var o options
	for _, apply := range opts {
		apply(&o)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("%s: %d: %w", opNew, dim, ErrBadDimension)
	}
	strat, err := newCovariance(cov)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}
	pos, err := positive.New(o.positivity...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opNew, err)
	}

	n := strat.numParams(dim)
	params := layer.NewOwned(n)
	if o.conditional {
		params = layer.NewConditional(n)
	}

	return &Gaussian{dim: dim, cov: cov, strat: strat, pos: pos, params: params}, nil
}

// Dim returns the dimension D.
func (g *Gaussian) Dim() int { return g.dim }

// CovType returns the covariance structure.
func (g *Gaussian) CovType() CovType { return g.cov }

// NumParams returns 0, 1, D or D + D(D−1)/2 by covariance type.
func (g *Gaussian) NumParams() int { return g.params.Len() }

// CondParams returns NumParams for a conditional layer, 0 otherwise.
func (g *Gaussian) CondParams() int { return g.params.CondLen() }

// InitParams stores p (the offset in conditional mode).
func (g *Gaussian) InitParams(p []float64) error { return g.params.Init(p) }

// DesiredInitParams returns the recommended initial vector: all zeros.
func (g *Gaussian) DesiredInitParams() []float64 { return make([]float64, g.params.Len()) }

// Factor assembles L from a resolved parameter vector and returns it with
// log|det L|.
//
// Errors:
//   - layer.ErrParamCount, matrix.ErrNaNInf.
func (g *Gaussian) Factor(p []float64) (*matrix.Dense, float64, error) {
	if len(p) != g.params.Len() {
		return nil, 0, fmt.Errorf("%s: got %d, want %d: %w", opFactor, len(p), g.params.Len(), layer.ErrParamCount)
	}
	l, logDet, err := matrix.LowerTriangular(g.strat.logDiagonal(g.dim, p, g.pos), g.strat.lower(g.dim, p))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", opFactor, err)
	}

	return l, logDet, nil
}

// ParamStructure names the parameter blocks of the stored values, or of the
// given conditional row when row is non-nil.
func (g *Gaussian) ParamStructure(row []float64) (map[string][]float64, error) {
	p := g.params.Values()
	if row != nil {
		if len(row) != len(p) {
			return nil, fmt.Errorf("%s: got %d, want %d: %w", opStructure, len(row), len(p), layer.ErrParamCount)
		}
		p = row
	}

	return g.strat.structure(g.dim, p), nil
}

// Forward maps x ↦ L·x and adds Σ log L_ii.
func (g *Gaussian) Forward(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error) {
	return g.run(opForward, x, logDet, cond, false)
}

// Inverse maps y ↦ L⁻¹·y and subtracts Σ log L_ii.
func (g *Gaussian) Inverse(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error) {
	return g.run(opInverse, x, logDet, cond, true)
}

// linearMap is one resolved L with its signed log-det. For the inverse
// it holds either L⁻¹ (applied by MatVec) or L itself with solve set
// (applied by forward substitution).
type linearMap struct {
	m      *matrix.Dense
	logDet float64
	solve  bool
}

// resolve assembles the map for p. A factor shared by the whole batch is
// inverted once; a per-element factor is solved against directly.
func (g *Gaussian) resolve(p []float64, inverse, shared bool) (linearMap, error) {
	l, logDet, err := g.Factor(p)
	if err != nil {
		return linearMap{}, err
	}
	switch {
	case !inverse:
		return linearMap{m: l, logDet: logDet}, nil
	case !shared:
		return linearMap{m: l, logDet: -logDet, solve: true}, nil
	}
	inv, err := matrix.InverseLowerTriangular(l)
	if err != nil {
		return linearMap{}, err
	}

	return linearMap{m: inv, logDet: -logDet}, nil
}

func (m linearMap) apply(x []float64) ([]float64, error) {
	if m.solve {
		return matrix.SolveLowerTriangular(m.m, x)
	}

	return matrix.MatVec(m.m, x)
}

func (g *Gaussian) run(op string, x [][]float64, logDet []float64, cond [][]float64, inverse bool) ([][]float64, []float64, error) {
	ld, err := layer.CheckBatch(x, logDet, g.dim)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = g.params.CheckCond(len(x), cond); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	out := layer.NewBatch(len(x), g.dim)

	if g.cov == UnitGaussian {
		for i, row := range x {
			copy(out[i], row)
		}

		return out, ld, nil
	}

	// owned parameters: one factor for the whole batch
	var shared *linearMap
	if !g.params.IsConditional() {
		m, err := g.resolve(g.params.Values(), inverse, true)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		shared = &m
	}

	err = layer.Apply(len(x), func(i int) error {
		m := shared
		if m == nil {
			p, err := g.params.ResolveAt(cond, i)
			if err != nil {
				return err
			}
			local, err := g.resolve(p, inverse, false)
			if err != nil {
				return err
			}
			m = &local
		}
		y, err := m.apply(x[i])
		if err != nil {
			return err
		}
		copy(out[i], y)
		ld[i] += m.logDet

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, ld, nil
}
