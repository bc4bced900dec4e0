// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/samber/lo"

	"github.com/katalvlaran/lvflow/euclidean"
	"github.com/katalvlaran/lvflow/internal/numeric"
	"github.com/katalvlaran/lvflow/layer"
	"github.com/katalvlaran/lvflow/positive"
	"github.com/katalvlaran/lvflow/sphere"
)

// RandomInitScale is the standard deviation of the "random" init policy.
const RandomInitScale = 0.1

const opBuild = "config.Build"

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to the chain and used for per-layer
// debug records. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// desiredIniter is implemented by layers that recommend initial values.
type desiredIniter interface {
	DesiredInitParams() []float64
}

// Build validates c, builds every layer, composes them into a chain and
// initializes the chain's owned parameters according to c.Init.
//
// Errors:
//   - the Validate errors, then any layer construction error
//     (euclidean.Err*, positive.Err*, sphere.Err*).
func Build(c *Config, opts ...Option) (*layer.Chain, error) {
	o := buildOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, apply := range opts {
		apply(&o)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}

	layers := make([]layer.Layer, 0, len(c.Layers))
	for i, lc := range c.Layers {
		l, err := buildLayer(c.Dim, lc)
		if err != nil {
			return nil, fmt.Errorf("%s: layer %d (%s): %w", opBuild, i, lc.Type, err)
		}
		o.logger.Debug("flow layer built",
			slog.Int("index", i),
			slog.String("type", lc.Type),
			slog.Int("params", l.NumParams()),
			slog.Bool("conditional", lc.Conditional))
		layers = append(layers, l)
	}

	chain, err := layer.NewChain(layers, layer.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	if err = chain.InitParams(InitVector(c, layers)); err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}

	return chain, nil
}

// InitVector returns the concatenated initial parameters of layers under
// c.Init: each layer's DesiredInitParams, zeros, or N(0, RandomInitScale²)
// draws seeded by c.Seed.
func InitVector(c *Config, layers []layer.Layer) []float64 {
	n := lo.SumBy(layers, func(l layer.Layer) int { return l.NumParams() })

	switch c.Init {
	case InitDesired:
		return lo.FlatMap(layers, func(l layer.Layer, _ int) []float64 {
			if d, ok := l.(desiredIniter); ok {
				return d.DesiredInitParams()
			}
			return make([]float64, l.NumParams())
		})
	case InitRandom:
		rng := rand.New(rand.NewSource(c.Seed))
		return lo.Times(n, func(int) float64 { return RandomInitScale * rng.NormFloat64() })
	default:
		return make([]float64, n)
	}
}

func buildLayer(dim int, lc LayerConfig) (layer.Layer, error) {
	if lc.Type == TypeGaussian {
		return buildGaussian(dim, lc)
	}

	return buildSphere(dim, lc)
}

func buildGaussian(dim int, lc LayerConfig) (*euclidean.Gaussian, error) {
	cov := euclidean.Full
	if lc.Covariance != "" {
		var err error
		if cov, err = euclidean.ParseCovType(lc.Covariance); err != nil {
			return nil, err
		}
	}

	var opts []euclidean.Option
	if lc.Positivity != nil {
		pos, err := lc.Positivity.options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, euclidean.WithPositivity(pos...))
	}
	if lc.Conditional {
		opts = append(opts, euclidean.WithConditional())
	}

	return euclidean.NewGaussian(dim, cov, opts...)
}

// options converts the YAML block; non-finite bounds are reported as
// errors here because the positive.With* constructors panic on them.
func (p *PositivityConfig) options() ([]positive.Option, error) {
	var opts []positive.Option
	if p.Kind != "" {
		k, err := positive.ParseKind(p.Kind)
		if err != nil {
			return nil, err
		}
		opts = append(opts, positive.WithKind(k))
	}
	if p.Lower != nil {
		if !numeric.IsFinite(*p.Lower) {
			return nil, fmt.Errorf("lower %v: %w", *p.Lower, positive.ErrBadLowerBound)
		}
		opts = append(opts, positive.WithLowerBound(*p.Lower))
	}
	if p.Upper != nil {
		if !numeric.IsFinite(*p.Upper) {
			return nil, fmt.Errorf("upper %v: %w", *p.Upper, positive.ErrBadUpperBound)
		}
		opts = append(opts, positive.WithUpperBound(*p.Upper))
	}
	if p.Centered != nil {
		opts = append(opts, positive.WithCentered(*p.Centered))
	}
	if p.Clamp {
		opts = append(opts, positive.WithClamp())
	}

	return opts, nil
}

func buildSphere(dim int, lc LayerConfig) (*sphere.Layer, error) {
	if dim > 2 {
		return nil, fmt.Errorf("dim %d: %w", dim, sphere.ErrUnsupportedGeometry)
	}
	bases := lc.Bases
	if bases == 0 {
		bases = sphere.DefaultBases
	}

	var (
		flow sphere.Flow
		err  error
	)
	if lc.Flow == FlowMoebius {
		var mopts []sphere.MoebiusOption
		if lc.XYParametrized {
			mopts = append(mopts, sphere.WithXYParametrization())
		}
		flow, err = sphere.NewMoebius(bases, append(mopts, sphere.WithNaturalDirection(lc.NaturalDirection))...)
	} else {
		flow, err = sphere.NewCircularSpline(bases)
	}
	if err != nil {
		return nil, err
	}
	if dim == 2 {
		if flow, err = sphere.NewAzimuthalFlow(flow); err != nil {
			return nil, err
		}
	}

	opts := []sphere.LayerOption{
		sphere.WithEuclideanInput(lc.euclideanInput()),
		sphere.WithHouseholder(lc.householder()),
	}
	if lc.Cylinder {
		opts = append(opts, sphere.WithCylinder())
	}
	if lc.Conditional {
		opts = append(opts, sphere.WithConditional())
	}

	return sphere.NewLayer(dim, flow, opts...)
}
