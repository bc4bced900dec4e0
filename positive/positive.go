// SPDX-License-Identifier: MIT

// Package positive maps unconstrained reals to strictly positive widths.
//
// Every kind returns the LOG of the width, so callers can both exponentiate
// (to build a scale) and sum (to build a log-determinant) without a second
// transcendental call. The width is always strictly above the lower bound.
//
//	softplus:               log(softplus(x) + lower)
//	exponential:            log(exp(x) + lower)
//	saturating exponential: logsumexp(ln upper − logsumexp(0, center − x), ln lower)
//
// All forms are evaluated through LogAddExp and never exponentiate a value
// that could overflow.
package positive

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvflow/internal/numeric"
)

var (
	// ErrBadLowerBound is returned when the lower bound is not strictly positive.
	ErrBadLowerBound = errors.New("positive: lower bound must be > 0")

	// ErrMissingUpperBound is returned when the saturating kind has no upper bound.
	ErrMissingUpperBound = errors.New("positive: saturating transform requires an upper bound")

	// ErrBadUpperBound is returned when the upper bound does not exceed the lower bound.
	ErrBadUpperBound = errors.New("positive: upper bound must exceed lower bound")

	// ErrUnknownKind is returned for a Kind outside the enumeration.
	ErrUnknownKind = errors.New("positive: unknown kind")
)

const opNew = "positive.New"

// Transform is an immutable positivity transform.
type Transform struct {
	kind     Kind
	lower    float64
	upper    float64
	lnLower  float64
	lnUpper  float64
	center   float64
	clamp    bool
	clampLo  float64
	clampHi  float64 // NaN ⇒ no upper clamp
	hasUpper bool
}

// New validates the options and returns a Transform.
//
// Errors:
//   - ErrBadLowerBound, ErrMissingUpperBound, ErrBadUpperBound, ErrUnknownKind.
func New(opts ...Option) (*Transform, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if o.lower <= 0 {
		return nil, fmt.Errorf("%s: %w", opNew, ErrBadLowerBound)
	}
	hasUpper := o.upper > 0
	if hasUpper && o.upper <= o.lower {
		return nil, fmt.Errorf("%s: %w", opNew, ErrBadUpperBound)
	}

	t := &Transform{
		kind:     o.kind,
		lower:    o.lower,
		upper:    o.upper,
		lnLower:  math.Log(o.lower),
		clamp:    o.clamp,
		clampLo:  math.Log(0.01 * o.lower),
		clampHi:  math.NaN(),
		hasUpper: hasUpper,
	}
	if hasUpper {
		t.lnUpper = math.Log(o.upper)
		t.clampHi = t.lnUpper
	}

	switch o.kind {
	case Softplus, Exponential:
	case SaturatingExponential:
		if !hasUpper {
			return nil, fmt.Errorf("%s: %w", opNew, ErrMissingUpperBound)
		}
		if o.centered {
			t.center = t.lnUpper
		}
		// three times the log upper bound covers the whole useful range
		t.clampHi = 3.0 * t.lnUpper
	default:
		return nil, fmt.Errorf("%s: %d: %w", opNew, o.kind, ErrUnknownKind)
	}

	return t, nil
}

// MustNew is New that panics on error; intended for package-level defaults.
func MustNew(opts ...Option) *Transform {
	t, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return t
}

// Kind returns the configured functional form.
func (t *Transform) Kind() Kind { return t.kind }

// LowerBound returns the lower width bound.
func (t *Transform) LowerBound() float64 { return t.lower }

// UpperBound returns the upper bound and whether one is set.
func (t *Transform) UpperBound() (float64, bool) { return t.upper, t.hasUpper }

// Log returns log(width(x)). The result is always > log(lower).
func (t *Transform) Log(x float64) float64 {
	if t.clamp {
		x = numeric.Clamp(x, t.clampLo, t.clampHi)
	}

	switch t.kind {
	case Softplus:
		// log(softplus(x) + lower) = logaddexp(log softplus(x), ln lower)
		return numeric.LogAddExp(math.Log(numeric.Softplus(x)), t.lnLower)
	case Exponential:
		return numeric.LogAddExp(x, t.lnLower)
	default:
		first := t.lnUpper - numeric.LogAddExp(0, t.center-x)
		return numeric.LogAddExp(first, t.lnLower)
	}
}

// Width returns exp(Log(x)).
func (t *Transform) Width(x float64) float64 {
	return math.Exp(t.Log(x))
}

// LogVec applies Log elementwise into a fresh slice.
func (t *Transform) LogVec(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = t.Log(v)
	}

	return out
}
