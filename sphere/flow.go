// SPDX-License-Identifier: MIT

package sphere

import (
	"fmt"

	"github.com/katalvlaran/lvflow/layer"
)

// Flow is a bijection of the intrinsic angular coordinates of a D-sphere.
// A Flow only describes the family; Bind fixes one parameter vector.
type Flow interface {
	// Dim returns the sphere dimension D the flow acts on.
	Dim() int
	// NumParams returns the length of the parameter vector.
	NumParams() int
	// DesiredInitParams returns the recommended initial parameters.
	DesiredInitParams() []float64
	// Name labels the parameter block in ParamStructure.
	Name() string
	// Bind validates p and returns the bijection it parametrizes.
	Bind(p []float64) (Bound, error)
}

// Bound is a Flow with fixed parameters. Forward is the sampling
// direction, Inverse the density direction; each returns the new angles
// and the log|det J| of the map it applied. Bound values are read-only and
// safe for concurrent use.
type Bound interface {
	Forward(angles []float64) ([]float64, float64, error)
	Inverse(angles []float64) ([]float64, float64, error)
}

// checkParams is the shared length guard of the Bind implementations.
func checkParams(op string, p []float64, want int) error {
	if len(p) != want {
		return sphereErrorf(op, fmt.Errorf("got %d, want %d: %w", len(p), want, layer.ErrParamCount))
	}

	return nil
}

// AzimuthalFlow lifts a circular flow to the 2-sphere: the azimuth φ goes
// through the circular flow, the polar angle θ is passed through.
type AzimuthalFlow struct {
	inner Flow
}

var _ Flow = (*AzimuthalFlow)(nil)

// NewAzimuthalFlow wraps a circular (D = 1) flow.
//
// Errors:
//   - ErrFlowDimension (inner.Dim() != 1).
func NewAzimuthalFlow(inner Flow) (*AzimuthalFlow, error) {
	if inner == nil || inner.Dim() != 1 {
		return nil, sphereErrorf(opNewAzimuthal, ErrFlowDimension)
	}

	return &AzimuthalFlow{inner: inner}, nil
}

// Dim returns 2.
func (a *AzimuthalFlow) Dim() int { return 2 }

// NumParams returns the inner flow's count.
func (a *AzimuthalFlow) NumParams() int { return a.inner.NumParams() }

// DesiredInitParams returns the inner flow's defaults.
func (a *AzimuthalFlow) DesiredInitParams() []float64 { return a.inner.DesiredInitParams() }

// Name returns the inner flow's name.
func (a *AzimuthalFlow) Name() string { return a.inner.Name() }

// Bind binds the inner flow.
func (a *AzimuthalFlow) Bind(p []float64) (Bound, error) {
	b, err := a.inner.Bind(p)
	if err != nil {
		return nil, err
	}

	return azimuthal{inner: b}, nil
}

type azimuthal struct {
	inner Bound
}

func (a azimuthal) Forward(angles []float64) ([]float64, float64, error) {
	return a.apply(angles, a.inner.Forward)
}

func (a azimuthal) Inverse(angles []float64) ([]float64, float64, error) {
	return a.apply(angles, a.inner.Inverse)
}

func (a azimuthal) apply(angles []float64, fn func([]float64) ([]float64, float64, error)) ([]float64, float64, error) {
	phi, logDet, err := fn(angles[1:2])
	if err != nil {
		return nil, 0, err
	}

	return []float64{angles[0], phi[0]}, logDet, nil
}
