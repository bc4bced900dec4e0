// SPDX-License-Identifier: MIT

package sphere

import "github.com/katalvlaran/lvflow/rootfind"

// DefaultPoleDistance is the default polar-angle margin of PoleProximity.
const DefaultPoleDistance = 0.02

// MoebiusOption configures NewMoebius.
type MoebiusOption func(*Moebius)

// WithXYParametrization places each centre ω by (x, y) direction instead of
// an angle (4 parameters per basis).
func WithXYParametrization() MoebiusOption {
	return func(m *Moebius) { m.xy = true }
}

// WithNaturalDirection(true) evaluates the mixture in closed form in the
// sampling direction and root-finds in the density direction.
func WithNaturalDirection(natural bool) MoebiusOption {
	return func(m *Moebius) { m.natural = natural }
}

// WithSolverOptions forwards options to rootfind.Solve.
func WithSolverOptions(opts ...rootfind.Option) MoebiusOption {
	return func(m *Moebius) { m.solve = append(m.solve, opts...) }
}

// LayerOption configures NewLayer.
type LayerOption func(*layerOptions)

type layerOptions struct {
	euclidean   bool
	householder bool
	cylinder    bool
	conditional bool
}

func defaultLayerOptions() layerOptions {
	return layerOptions{euclidean: true, householder: true}
}

// WithEuclideanInput selects whether the layer's base side is the plane
// under the sphere (default) or the sphere itself.
func WithEuclideanInput(on bool) LayerOption {
	return func(o *layerOptions) { o.euclidean = on }
}

// WithHouseholder toggles the embedding-space rotation (default on).
func WithHouseholder(on bool) LayerOption {
	return func(o *layerOptions) { o.householder = on }
}

// WithCylinder selects the cylinder parametrization of the 2-sphere
// projection.
func WithCylinder() LayerOption {
	return func(o *layerOptions) { o.cylinder = true }
}

// WithConditional makes the layer read its parameters from per-call rows.
func WithConditional() LayerOption {
	return func(o *layerOptions) { o.conditional = true }
}
