// SPDX-License-Identifier: MIT

package euclidean

import "github.com/katalvlaran/lvflow/positive"

// Option configures NewGaussian.
type Option func(*options)

type options struct {
	positivity  []positive.Option
	conditional bool
}

// WithPositivity configures the transform that maps diagonal parameters to
// log-widths. Defaults are the positive package defaults.
func WithPositivity(opts ...positive.Option) Option {
	return func(o *options) { o.positivity = append(o.positivity, opts...) }
}

// WithConditional makes the layer read its parameters from per-call rows.
func WithConditional() Option {
	return func(o *options) { o.conditional = true }
}
