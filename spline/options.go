// SPDX-License-Identifier: MIT

package spline

import "math"

const (
	// DefaultMinBinWidth is the minimal relative bin width.
	DefaultMinBinWidth = 1e-3
	// DefaultMinBinHeight is the minimal relative bin height.
	DefaultMinBinHeight = 1e-3
	// DefaultMinDerivative keeps every knot slope strictly positive.
	DefaultMinDerivative = 1e-3
)

const (
	panicIntervalNaN = "spline: interval bounds must not be NaN"
	panicMinInvalid  = "spline: minimal bin size / derivative must be finite and > 0"
)

// Option configures New.
type Option func(*options)

type options struct {
	left, right, bottom, top float64
	minWidth, minHeight      float64
	minDeriv                 float64
}

func defaultOptions() options {
	return options{
		left: 0, right: 1, bottom: 0, top: 1,
		minWidth:  DefaultMinBinWidth,
		minHeight: DefaultMinBinHeight,
		minDeriv:  DefaultMinDerivative,
	}
}

// WithInterval sets the domain [left, right] and codomain [bottom, top].
// Validity (finite, non-empty) is checked by New.
func WithInterval(left, right, bottom, top float64) Option {
	if math.IsNaN(left) || math.IsNaN(right) || math.IsNaN(bottom) || math.IsNaN(top) {
		panic(panicIntervalNaN)
	}

	return func(o *options) {
		o.left, o.right, o.bottom, o.top = left, right, bottom, top
	}
}

// WithMinBinWidth sets the minimal relative bin width.
func WithMinBinWidth(v float64) Option {
	mustPositive(v)

	return func(o *options) { o.minWidth = v }
}

// WithMinBinHeight sets the minimal relative bin height.
func WithMinBinHeight(v float64) Option {
	mustPositive(v)

	return func(o *options) { o.minHeight = v }
}

// WithMinDerivative sets the additive floor on knot derivatives.
func WithMinDerivative(v float64) Option {
	mustPositive(v)

	return func(o *options) { o.minDeriv = v }
}

func mustPositive(v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		panic(panicMinInvalid)
	}
}
