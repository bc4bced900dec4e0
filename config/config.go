// SPDX-License-Identifier: MIT

// Package config describes a flow chain in YAML and builds it.
//
// A file lists the chain's layers in forward (sampling) order:
//
//	dim: 2
//	init: desired
//	seed: 1
//	layers:
//	  - type: gaussian
//	    covariance: full
//	  - type: sphere
//	    flow: moebius
//	    bases: 5
//
// Load reads a file over Default, so omitted keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrBadDimension is returned for a non-positive dimension.
	ErrBadDimension = errors.New("config: dim must be > 0")

	// ErrNoLayers is returned for an empty layer list.
	ErrNoLayers = errors.New("config: no layers")

	// ErrUnknownLayerType is returned for a type other than gaussian/sphere.
	ErrUnknownLayerType = errors.New("config: unknown layer type")

	// ErrUnknownFlow is returned for an intrinsic flow other than moebius/spline.
	ErrUnknownFlow = errors.New("config: unknown intrinsic flow")

	// ErrUnknownInit is returned for an init policy other than desired/zeros/random.
	ErrUnknownInit = errors.New("config: unknown init policy")

	// ErrLayerOrder is returned when a layer's input side does not match the
	// previous layer's output side (plane vs sphere).
	ErrLayerOrder = errors.New("config: incompatible layer order")
)

// Layer types.
const (
	TypeGaussian = "gaussian"
	TypeSphere   = "sphere"
)

// Intrinsic flows.
const (
	FlowMoebius = "moebius"
	FlowSpline  = "spline"
)

// Init policies.
const (
	InitDesired = "desired"
	InitZeros   = "zeros"
	InitRandom  = "random"
)

// Config is the root configuration structure.
type Config struct {
	Dim    int           `yaml:"dim"`
	Init   string        `yaml:"init"`
	Seed   int64         `yaml:"seed"`
	Layers []LayerConfig `yaml:"layers"`
}

// LayerConfig describes one layer. Keys that do not apply to Type are
// ignored.
type LayerConfig struct {
	Type        string `yaml:"type"`
	Conditional bool   `yaml:"conditional,omitempty"`

	// gaussian
	Covariance string            `yaml:"covariance,omitempty"`
	Positivity *PositivityConfig `yaml:"positivity,omitempty"`

	// sphere
	// EuclideanInput and Householder are pointers to tell "not set" (true)
	// from an explicit false.
	Flow             string `yaml:"flow,omitempty"`
	Bases            int    `yaml:"bases,omitempty"`
	EuclideanInput   *bool  `yaml:"euclidean_input,omitempty"`
	Householder      *bool  `yaml:"householder,omitempty"`
	Cylinder         bool   `yaml:"cylinder,omitempty"`
	XYParametrized   bool   `yaml:"xy_parametrization,omitempty"`
	NaturalDirection bool   `yaml:"natural_direction,omitempty"`
}

// PositivityConfig configures the width transform of a gaussian layer.
type PositivityConfig struct {
	Kind     string   `yaml:"kind,omitempty"`
	Lower    *float64 `yaml:"lower,omitempty"`
	Upper    *float64 `yaml:"upper,omitempty"`
	Centered *bool    `yaml:"centered,omitempty"`
	Clamp    bool     `yaml:"clamp,omitempty"`
}

// Default returns the default configuration: a full covariance layer
// feeding a Möbius layer on the 2-sphere.
func Default() *Config {
	return &Config{
		Dim:  2,
		Init: InitDesired,
		Seed: 1,
		Layers: []LayerConfig{
			{Type: TypeGaussian, Covariance: "full"},
			{Type: TypeSphere, Flow: FlowMoebius, Bases: 5},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default. A layers key replaces the default
// layer list as a whole.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns Default if path is
// empty or does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return Load(path)
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}

	return nil
}

// Validate checks the names, counts and layer order without building
// anything. Build calls it first.
//
// A gaussian layer lives on the plane; a sphere layer with Euclidean input
// maps the plane to the sphere, one without maps the sphere to itself. The
// chain must therefore be gaussians, then at most one plane-to-sphere
// layer, then sphere-to-sphere layers. A chain whose first layer is
// sphere-to-sphere starts on the sphere.
func (c *Config) Validate() error {
	if c.Dim <= 0 {
		return fmt.Errorf("dim %d: %w", c.Dim, ErrBadDimension)
	}
	if len(c.Layers) == 0 {
		return ErrNoLayers
	}
	switch c.Init {
	case InitDesired, InitZeros, InitRandom:
	default:
		return fmt.Errorf("%q: %w", c.Init, ErrUnknownInit)
	}

	// a chain may also start on the sphere
	onSphere := c.Layers[0].Type == TypeSphere && !c.Layers[0].euclideanInput()
	for i, l := range c.Layers {
		switch l.Type {
		case TypeGaussian:
			if onSphere {
				return fmt.Errorf("layer %d: gaussian after a sphere layer: %w", i, ErrLayerOrder)
			}
		case TypeSphere:
			if l.Flow != FlowMoebius && l.Flow != FlowSpline {
				return fmt.Errorf("layer %d: %q: %w", i, l.Flow, ErrUnknownFlow)
			}
			if l.euclideanInput() == onSphere {
				return fmt.Errorf("layer %d: euclidean_input=%v on the %s side: %w",
					i, l.euclideanInput(), side(onSphere), ErrLayerOrder)
			}
			onSphere = true
		default:
			return fmt.Errorf("layer %d: %q: %w", i, l.Type, ErrUnknownLayerType)
		}
	}

	return nil
}

func side(onSphere bool) string {
	if onSphere {
		return "sphere"
	}

	return "plane"
}

func (l LayerConfig) euclideanInput() bool { return l.EuclideanInput == nil || *l.EuclideanInput }

func (l LayerConfig) householder() bool { return l.Householder == nil || *l.Householder }
