// SPDX-License-Identifier: MIT

// Package numeric holds the scalar kernels shared by the layer packages:
// overflow-free log-sum-exp forms, softplus, sigmoid and an elementwise
// select combinator. Everything here is pure and allocation-free.
package numeric

import "math"

// LogAddExp returns log(exp(a) + exp(b)) without exponentiating large values.
// Infinite operands of the same sign are passed through (a+b) so that
// LogAddExp(-Inf, -Inf) == -Inf instead of NaN.
func LogAddExp(a, b float64) float64 {
	delta := a - b
	if math.IsNaN(delta) {
		// both infinite with the same sign, or a NaN operand
		return a + b
	}
	hi := math.Max(a, b)

	return hi + math.Log1p(math.Exp(-math.Abs(delta)))
}

// Softplus returns log(1 + exp(x)).
func Softplus(x float64) float64 {
	return LogAddExp(x, 0)
}

// Sigmoid returns 1/(1+exp(-x)) computed as exp(-logaddexp(0, -x)).
func Sigmoid(x float64) float64 {
	return math.Exp(-LogAddExp(0, -x))
}

// Select returns a when cond holds and b otherwise.
func Select(cond bool, a, b float64) float64 {
	if cond {
		return a
	}

	return b
}

// Clamp limits x to [lo, hi]. A NaN bound disables that side.
func Clamp(x, lo, hi float64) float64 {
	if !math.IsNaN(lo) && x < lo {
		return lo
	}
	if !math.IsNaN(hi) && x > hi {
		return hi
	}

	return x
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
