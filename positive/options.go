// SPDX-License-Identifier: MIT

// Package positive: functional configuration for the positivity transform.
// This file defines:
//   - Option (functional option writing into an unexported options struct),
//   - documented defaults (constants),
//   - WithX constructors (panic only on NaN/Inf arguments, a programmer error).
//
// Validation of combinations (lower ≤ 0, missing upper bound for the
// saturating kind) happens in New and is reported as a sentinel error.
package positive

import (
	"fmt"
	"math"
)

// Kind selects the functional form of the transform.
type Kind int

const (
	// Softplus maps x to log(softplus(x) + lower).
	Softplus Kind = iota
	// Exponential maps x to log(exp(x) + lower); unbounded growth.
	Exponential
	// SaturatingExponential grows like exp(x) for small x and saturates at
	// the upper bound for large x.
	SaturatingExponential
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case Softplus:
		return "softplus"
	case Exponential:
		return "exponential"
	case SaturatingExponential:
		return "saturating_exponential"
	default:
		return "unknown"
	}
}

// ParseKind returns the Kind named by s (see Kind.String).
// Errors:
//   - ErrUnknownKind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Softplus, Exponential, SaturatingExponential} {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("positive.ParseKind: %q: %w", s, ErrUnknownKind)
}

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultKind mirrors the width function used by the Gaussian layer.
	DefaultKind = SaturatingExponential

	// DefaultLowerBound is the smallest reachable width.
	DefaultLowerBound = 0.01

	// DefaultUpperBound is the saturation level; 0 means "no upper bound".
	DefaultUpperBound = 100.0

	// DefaultCentered centers the saturating curve at ln(upper) so that it
	// coincides with exp(x) for small x.
	DefaultCentered = true

	// DefaultClamp disables pre-transform clamping.
	DefaultClamp = false
)

const (
	panicBoundInvalid = "positive: bound must be finite"
)

// Option mutates internal options.
type Option func(*options)

type options struct {
	kind     Kind
	lower    float64
	upper    float64 // 0 ⇒ unset
	centered bool
	clamp    bool
}

func defaultOptions() options {
	return options{
		kind:     DefaultKind,
		lower:    DefaultLowerBound,
		upper:    DefaultUpperBound,
		centered: DefaultCentered,
		clamp:    DefaultClamp,
	}
}

// WithKind selects the functional form.
func WithKind(k Kind) Option {
	return func(o *options) { o.kind = k }
}

// WithLowerBound sets the strictly positive lower bound of the width.
func WithLowerBound(lower float64) Option {
	if math.IsNaN(lower) || math.IsInf(lower, 0) {
		panic(panicBoundInvalid)
	}

	return func(o *options) { o.lower = lower }
}

// WithUpperBound sets the saturation level / clamp ceiling.
// Pass 0 to remove the upper bound.
func WithUpperBound(upper float64) Option {
	if math.IsNaN(upper) || math.IsInf(upper, 0) {
		panic(panicBoundInvalid)
	}

	return func(o *options) { o.upper = upper }
}

// WithCentered chooses the saturation center: ln(upper) when true, 0 otherwise.
func WithCentered(centered bool) Option {
	return func(o *options) { o.centered = centered }
}

// WithClamp enables clamping of the raw input before the transform.
func WithClamp() Option {
	return func(o *options) { o.clamp = true }
}
