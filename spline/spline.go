// SPDX-License-Identifier: MIT

// Package spline implements the monotone rational-quadratic spline (RQS):
// a piecewise bijection of [left, right] onto [bottom, top] built from K
// bins. Each bin is a ratio of quadratics fixed by the bin's width, height
// and the derivatives at its two knots, so both directions and the
// derivative are available in closed form.
//
// Parameters are unconstrained logits:
//
//	widths  = minW + (1 − K·minW)·softmax(widthLogits)     (relative to right−left)
//	heights = minH + (1 − K·minH)·softmax(heightLogits)    (relative to top−bottom)
//	derivs  = minD + softplus(derivLogits)                 (K+1 knots)
//
// Out-of-domain inputs are clamped to the domain element by element.
package spline

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvflow/internal/numeric"
)

var (
	// ErrKnotCount is returned when the logit slices do not describe K ≥ 1
	// bins with K+1 knot derivatives.
	ErrKnotCount = errors.New("spline: inconsistent knot count")

	// ErrBadInterval is returned for non-finite or empty domain/codomain.
	ErrBadInterval = errors.New("spline: invalid interval")

	// ErrMinBinTooLarge is returned when K·minBin ≥ 1.
	ErrMinBinTooLarge = errors.New("spline: minimal bin size too large for bin count")
)

const opNew = "spline.New"

// Spline is an immutable RQS. Safe for concurrent use.
type Spline struct {
	cumW   []float64 // K+1 knot abscissae, cumW[0]=left, cumW[K]=right
	cumH   []float64 // K+1 knot ordinates, cumH[0]=bottom, cumH[K]=top
	derivs []float64 // K+1 knot derivatives
}

// New builds a spline from K width logits, K height logits and K+1
// derivative logits.
//
// Errors:
//   - ErrKnotCount, ErrBadInterval, ErrMinBinTooLarge.
//
// Complexity:
//   - Time O(K), Space O(K).
func New(widthLogits, heightLogits, derivLogits []float64, opts ...Option) (*Spline, error) {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	k := len(widthLogits)
	if k == 0 || len(heightLogits) != k || len(derivLogits) != k+1 {
		return nil, fmt.Errorf("%s: widths=%d heights=%d derivs=%d: %w",
			opNew, len(widthLogits), len(heightLogits), len(derivLogits), ErrKnotCount)
	}
	if !validInterval(o.left, o.right) || !validInterval(o.bottom, o.top) {
		return nil, fmt.Errorf("%s: [%g,%g]×[%g,%g]: %w", opNew, o.left, o.right, o.bottom, o.top, ErrBadInterval)
	}
	if o.minWidth*float64(k) >= 1 || o.minHeight*float64(k) >= 1 {
		return nil, fmt.Errorf("%s: K=%d: %w", opNew, k, ErrMinBinTooLarge)
	}

	s := &Spline{
		cumW:   knots(widthLogits, o.minWidth, o.left, o.right),
		cumH:   knots(heightLogits, o.minHeight, o.bottom, o.top),
		derivs: make([]float64, k+1),
	}
	for i, d := range derivLogits {
		s.derivs[i] = o.minDeriv + numeric.Softplus(d)
	}

	return s, nil
}

func validInterval(lo, hi float64) bool {
	return numeric.IsFinite(lo) && numeric.IsFinite(hi) && lo < hi
}

// knots turns logits into K+1 monotone knot positions on [lo, hi].
func knots(logits []float64, minBin, lo, hi float64) []float64 {
	k := len(logits)
	lse := floats.LogSumExp(logits)
	scale := 1 - minBin*float64(k)

	out := make([]float64, k+1)
	acc := 0.0
	for i, l := range logits {
		acc += minBin + scale*math.Exp(l-lse)
		out[i+1] = lo + (hi-lo)*acc
	}
	// pin the ends exactly
	out[0], out[k] = lo, hi

	return out
}

// Bins returns the number of bins K.
func (s *Spline) Bins() int { return len(s.cumW) - 1 }

// Knots returns copies of the knot abscissae, ordinates and derivatives.
func (s *Spline) Knots() (xs, ys, derivs []float64) {
	return slices.Clone(s.cumW), slices.Clone(s.cumH), slices.Clone(s.derivs)
}

// bin returns the index k with cum[k] ≤ v ≤ cum[k+1].
func bin(cum []float64, v float64) int {
	idx, _ := slices.BinarySearch(cum[1:], v)

	return min(idx, len(cum)-2)
}

// Forward evaluates y = f(x) and log f′(x).
func (s *Spline) Forward(x float64) (y, logDeriv float64) {
	k := len(s.cumW) - 1
	x = numeric.Clamp(x, s.cumW[0], s.cumW[k])
	i := bin(s.cumW, x)

	w := s.cumW[i+1] - s.cumW[i]
	h := s.cumH[i+1] - s.cumH[i]
	delta := h / w
	d0, d1 := s.derivs[i], s.derivs[i+1]

	theta := (x - s.cumW[i]) / w
	t1mt := theta * (1 - theta)

	numerator := h * (delta*theta*theta + d0*t1mt)
	denominator := delta + (d0+d1-2*delta)*t1mt
	y = s.cumH[i] + numerator/denominator

	derivNum := delta * delta * (d1*theta*theta + 2*delta*t1mt + d0*(1-theta)*(1-theta))
	logDeriv = math.Log(derivNum) - 2*math.Log(denominator)

	return y, logDeriv
}

// Inverse evaluates x = f⁻¹(y) and log f′(x), the log-derivative of the
// forward map at the returned point (negate it for the inverse map).
func (s *Spline) Inverse(y float64) (x, logDeriv float64) {
	k := len(s.cumH) - 1
	y = numeric.Clamp(y, s.cumH[0], s.cumH[k])
	i := bin(s.cumH, y)

	w := s.cumW[i+1] - s.cumW[i]
	h := s.cumH[i+1] - s.cumH[i]
	delta := h / w
	d0, d1 := s.derivs[i], s.derivs[i+1]
	dy := y - s.cumH[i]
	curv := d0 + d1 - 2*delta

	a := h*(delta-d0) + dy*curv
	b := h*d0 - dy*curv
	c := -delta * dy
	disc := math.Max(b*b-4*a*c, 0)

	theta := 0.0
	if den := -b - math.Sqrt(disc); den != 0 {
		theta = numeric.Clamp(2*c/den, 0, 1)
	}
	x = s.cumW[i] + theta*w

	t1mt := theta * (1 - theta)
	denominator := delta + curv*t1mt
	derivNum := delta * delta * (d1*theta*theta + 2*delta*t1mt + d0*(1-theta)*(1-theta))
	logDeriv = math.Log(derivNum) - 2*math.Log(denominator)

	return x, logDeriv
}
