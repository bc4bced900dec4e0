// SPDX-License-Identifier: MIT

package rootfind

import "math"

const (
	// DefaultTolerance is the absolute tolerance on x.
	DefaultTolerance = 1e-10

	// DefaultMaxIterations bounds the number of map evaluations per solve.
	DefaultMaxIterations = 100
)

const (
	panicTolInvalid  = "rootfind: tolerance must be finite and > 0"
	panicIterInvalid = "rootfind: max iterations must be > 0"
)

// Option configures Solve.
type Option func(*options)

type options struct {
	tol     float64
	maxIter int
}

func defaultOptions() options {
	return options{tol: DefaultTolerance, maxIter: DefaultMaxIterations}
}

// WithTolerance sets the absolute tolerance on the root.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicTolInvalid)
	}

	return func(o *options) { o.tol = tol }
}

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic(panicIterInvalid)
	}

	return func(o *options) { o.maxIter = n }
}
