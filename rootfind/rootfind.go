// SPDX-License-Identifier: MIT

// Package rootfind inverts monotone scalar maps that have no closed-form
// inverse. Solve runs a safeguarded Newton iteration: a Newton step is
// taken whenever it stays strictly inside the current bracket and shrinks
// the residual fast enough, otherwise the bracket is bisected. The bracket
// only ever shrinks, so the method converges for any continuous map whose
// value crosses the target inside [lo, hi].
package rootfind

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadBracket is returned when lo/hi are non-finite or lo ≥ hi.
	ErrBadBracket = errors.New("rootfind: invalid bracket")

	// ErrNotBracketed is returned when fn(lo)−target and fn(hi)−target share a sign.
	ErrNotBracketed = errors.New("rootfind: target not bracketed")

	// ErrNoConvergence is returned when the iteration budget is exhausted.
	ErrNoConvergence = errors.New("rootfind: no convergence")
)

const opSolve = "rootfind.Solve"

// Func evaluates the map and its derivative at x.
type Func func(x float64) (value, deriv float64)

// Solve returns x ∈ [lo, hi] with fn(x) = target within the configured
// tolerance on x.
//
// Implementation:
//   - Stage 1: Validate the bracket and evaluate both ends; an exact hit
//     returns immediately.
//   - Stage 2: Start at the bracket midpoint; on every step keep the
//     sub-interval whose ends straddle the target.
//   - Stage 3: Accept the Newton step x − (f−target)/f′ when it lands
//     inside the bracket, otherwise bisect.
//
// Errors:
//   - ErrBadBracket, ErrNotBracketed, ErrNoConvergence.
//
// Complexity:
//   - At most MaxIterations evaluations of fn.
func Solve(fn Func, target, lo, hi float64, opts ...Option) (float64, error) {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo >= hi {
		return 0, fmt.Errorf("%s: [%g, %g]: %w", opSolve, lo, hi, ErrBadBracket)
	}

	fLo, _ := fn(lo)
	fHi, _ := fn(hi)
	fLo -= target
	fHi -= target
	if fLo == 0 {
		return lo, nil
	}
	if fHi == 0 {
		return hi, nil
	}
	if (fLo > 0) == (fHi > 0) {
		return 0, fmt.Errorf("%s: f(lo)=%g f(hi)=%g target=%g: %w", opSolve, fLo+target, fHi+target, target, ErrNotBracketed)
	}
	// orient so that residual(lo) < 0 < residual(hi)
	if fLo > 0 {
		lo, hi = hi, lo
	}

	var (
		x         = 0.5 * (lo + hi)
		step      = math.Abs(hi - lo)
		prevStep  = step
		val, der  float64
		iteration int
	)
	for iteration = 0; iteration < o.maxIter; iteration++ {
		val, der = fn(x)
		val -= target
		if val == 0 {
			return x, nil
		}
		if val < 0 {
			lo = x
		} else {
			hi = x
		}

		newton := x - val/der
		inside := der != 0 && !math.IsNaN(newton) && (newton-lo)*(newton-hi) < 0
		if inside && math.Abs(2*val) < math.Abs(prevStep*der) {
			prevStep = step
			step = newton - x
			x = newton
		} else {
			prevStep = step
			step = 0.5 * (hi - lo)
			x = lo + step
		}

		if math.Abs(step) < o.tol || math.Abs(hi-lo) < o.tol {
			return x, nil
		}
	}

	return 0, fmt.Errorf("%s: %d iterations, bracket width %g: %w", opSolve, o.maxIter, math.Abs(hi-lo), ErrNoConvergence)
}
