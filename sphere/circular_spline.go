// SPDX-License-Identifier: MIT

package sphere

import (
	"fmt"

	"github.com/katalvlaran/lvflow/internal/numeric"
	"github.com/katalvlaran/lvflow/spline"
)

// CircularSpline is a rational-quadratic spline flow of the circle: K bins
// over [0, 2π] on both axes. The K knot derivatives are extended by a copy
// of the first one, so the slope at 0 equals the slope at 2π and the map
// is smooth across the seam.
//
// Parameters, per bin, row-major: [width logit, height logit, derivative
// logit]. Both directions are closed form. The density (Inverse) direction
// evaluates the spline, the sampling (Forward) direction its inverse.
type CircularSpline struct {
	k    int
	opts []spline.Option
}

var _ Flow = (*CircularSpline)(nil)

// NewCircularSpline returns a circular spline of k bins. Extra spline
// options (minimum bin sizes and derivative) are forwarded; the interval
// is always [0, 2π]².
//
// Errors:
//   - ErrBasisCount (k ≤ 0).
func NewCircularSpline(k int, opts ...spline.Option) (*CircularSpline, error) {
	if k <= 0 {
		return nil, sphereErrorf(opNewSpline, fmt.Errorf("k=%d: %w", k, ErrBasisCount))
	}
	all := make([]spline.Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, spline.WithInterval(0, twoPi, 0, twoPi))

	return &CircularSpline{k: k, opts: all}, nil
}

// Dim returns 1.
func (c *CircularSpline) Dim() int { return 1 }

// Bins returns K.
func (c *CircularSpline) Bins() int { return c.k }

// NumParams returns 3K.
func (c *CircularSpline) NumParams() int { return 3 * c.k }

// DesiredInitParams fills every parameter with DesiredInitValue.
func (c *CircularSpline) DesiredInitParams() []float64 {
	out := make([]float64, c.NumParams())
	for i := range out {
		out[i] = DesiredInitValue
	}

	return out
}

// Name returns "spline".
func (c *CircularSpline) Name() string { return "spline" }

// Bind builds the spline for p.
//
// Errors:
//   - layer.ErrParamCount, spline.Err* (minimum bin sizes too large for K).
func (c *CircularSpline) Bind(p []float64) (Bound, error) {
	if err := checkParams(opSplineBind, p, c.NumParams()); err != nil {
		return nil, err
	}

	var (
		i       int
		widths  = make([]float64, c.k)
		heights = make([]float64, c.k)
		derivs  = make([]float64, c.k+1)
	)
	for i = 0; i < c.k; i++ {
		widths[i] = p[3*i]
		heights[i] = p[3*i+1]
		derivs[i] = p[3*i+2]
	}
	derivs[c.k] = derivs[0]

	s, err := spline.New(widths, heights, derivs, c.opts...)
	if err != nil {
		return nil, sphereErrorf(opSplineBind, err)
	}

	return boundSpline{s: s}, nil
}

type boundSpline struct {
	s *spline.Spline
}

func (b boundSpline) Forward(angles []float64) ([]float64, float64, error) {
	x, logDeriv := b.s.Inverse(numeric.Clamp(angles[0], 0, twoPi))

	return []float64{x}, -logDeriv, nil
}

func (b boundSpline) Inverse(angles []float64) ([]float64, float64, error) {
	y, logDeriv := b.s.Forward(numeric.Clamp(angles[0], 0, twoPi))

	return []float64{y}, logDeriv, nil
}
