// SPDX-License-Identifier: MIT

// Package sphere provides bijective flow layers on the circle and the
// 2-sphere: the embedding geometry, the Gaussian stereographic projector
// between a sphere and the plane under it, the Householder rotation of the
// embedding space, intrinsic circular flows (Möbius mixtures and circular
// rational-quadratic splines) and the Layer that composes them.
//
// Coordinates: a D-sphere point is given by D intrinsic angles, the first
// D−1 polar angles in (0, π) and the last an azimuth in [0, 2π). The
// embedding is the unit vector in R^{D+1}.
//
// Layer.Forward (sampling) runs
//
//	plane ─PlaneToSphere→ angles ─flow→ angles ─SafeAngle→ ─Q→ angles
//
// and Layer.Inverse (density) runs the same stages backwards with Qᵀ.
package sphere

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/samber/lo"

	"github.com/katalvlaran/lvflow/layer"
)

// householderSeed fixes the pseudo-random Householder block of
// DesiredInitParams.
const householderSeed int64 = 1

// Layer is the composed spherical flow layer.
type Layer struct {
	dim    int
	flow   Flow
	proj   *Projector // nil: the base side is the sphere itself
	rot    *Rotation  // nil: no rotation
	nHH    int
	params *layer.Params
}

var (
	_ layer.Layer       = (*Layer)(nil)
	_ layer.Conditional = (*Layer)(nil)
)

// NewLayer builds a spherical layer of dimension dim around an intrinsic
// flow of the same dimension. Parameters are laid out
// [householder (D+1)² | flow].
//
// Errors:
//   - ErrBadDimension, ErrFlowDimension, ErrCylinderNeedsSphere,
//     ErrUnsupportedGeometry (Euclidean input for D > 2).
func NewLayer(dim int, flow Flow, opts ...LayerOption) (*Layer, error) {
	o := defaultLayerOptions()
	for _, apply := range opts {
		apply(&o)
	}
	if dim <= 0 {
		return nil, sphereErrorf(opNewLayer, fmt.Errorf("dim %d: %w", dim, ErrBadDimension))
	}
	if flow == nil || flow.Dim() != dim {
		return nil, sphereErrorf(opNewLayer, ErrFlowDimension)
	}
	if o.cylinder && dim != 2 {
		return nil, sphereErrorf(opNewLayer, ErrCylinderNeedsSphere)
	}

	l := &Layer{dim: dim, flow: flow}
	var err error
	if o.euclidean {
		if l.proj, err = NewProjector(dim, o.cylinder); err != nil {
			return nil, sphereErrorf(opNewLayer, err)
		}
	}
	if o.householder {
		if l.rot, err = NewRotation(dim); err != nil {
			return nil, sphereErrorf(opNewLayer, err)
		}
		l.nHH = l.rot.NumParams()
	}

	n := l.nHH + flow.NumParams()
	l.params = layer.NewOwned(n)
	if o.conditional {
		l.params = layer.NewConditional(n)
	}

	return l, nil
}

// Dim returns the sphere dimension D.
func (l *Layer) Dim() int { return l.dim }

// Flow returns the intrinsic flow.
func (l *Layer) Flow() Flow { return l.flow }

// NumParams returns (D+1)² (with Householder) + flow.NumParams().
func (l *Layer) NumParams() int { return l.params.Len() }

// CondParams returns NumParams for a conditional layer, 0 otherwise.
func (l *Layer) CondParams() int { return l.params.CondLen() }

// InitParams stores p (the offset in conditional mode).
func (l *Layer) InitParams(p []float64) error { return l.params.Init(p) }

// DesiredInitParams returns a deterministic standard-normal Householder
// block followed by the flow's defaults.
func (l *Layer) DesiredInitParams() []float64 {
	out := make([]float64, 0, l.params.Len())
	if l.rot != nil {
		rng := rand.New(rand.NewSource(householderSeed))
		for i := 0; i < l.nHH; i++ {
			out = append(out, rng.NormFloat64())
		}
	}

	return append(out, l.flow.DesiredInitParams()...)
}

// ParamStructure names the parameter blocks of the stored values, or of
// the given resolved row when row is non-nil.
//
// Errors:
//   - layer.ErrParamCount.
func (l *Layer) ParamStructure(row []float64) (map[string][]float64, error) {
	p := l.params.Values()
	if row != nil {
		if len(row) != len(p) {
			return nil, sphereErrorf(opStructure, fmt.Errorf("got %d, want %d: %w", len(row), len(p), layer.ErrParamCount))
		}
		p = slices.Clone(row)
	}
	out := map[string][]float64{l.flow.Name(): p[l.nHH:]}
	if l.rot != nil {
		q, err := l.rot.Matrix(p[:l.nHH])
		if err != nil {
			return nil, sphereErrorf(opStructure, err)
		}
		out["householder"] = p[:l.nHH]
		out["householder_matrix"] = q.RawCopy()
	}

	return out, nil
}

// bound is the layer with one resolved parameter vector.
type bound struct {
	v    []float64 // Householder vector; nil without rotation
	flow Bound
}

func (l *Layer) bind(p []float64) (*bound, error) {
	var (
		b   bound
		err error
	)
	if l.rot != nil {
		if b.v, err = l.rot.Vector(p[:l.nHH]); err != nil {
			return nil, err
		}
	}
	if b.flow, err = l.flow.Bind(p[l.nHH:]); err != nil {
		return nil, err
	}

	return &b, nil
}

// each validates the batch and runs fn per element with the element's
// bound parameters; owned parameters are bound once per call.
func (l *Layer) each(x [][]float64, cond [][]float64, fn func(i int, b *bound) error) error {
	if err := l.params.CheckCond(len(x), cond); err != nil {
		return err
	}

	var shared *bound
	if !l.params.IsConditional() {
		b, err := l.bind(l.params.Values())
		if err != nil {
			return err
		}
		shared = b
	}

	return layer.Apply(len(x), func(i int) error {
		b := shared
		if b == nil {
			p, err := l.params.ResolveAt(cond, i)
			if err != nil {
				return err
			}
			if b, err = l.bind(p); err != nil {
				return err
			}
		}

		return fn(i, b)
	})
}

// Forward maps base points (plane, or sphere without Euclidean input) to
// intrinsic sphere coordinates.
func (l *Layer) Forward(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error) {
	return l.run(opForward, x, logDet, cond, l.forwardPoint)
}

// Inverse maps intrinsic sphere coordinates back to the base side.
func (l *Layer) Inverse(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error) {
	return l.run(opInverse, x, logDet, cond, l.inversePoint)
}

func (l *Layer) run(op string, x [][]float64, logDet []float64, cond [][]float64,
	point func(*bound, []float64) ([]float64, float64, error)) ([][]float64, []float64, error) {
	ld, err := layer.CheckBatch(x, logDet, l.dim)
	if err != nil {
		return nil, nil, sphereErrorf(op, err)
	}
	out := layer.NewBatch(len(x), l.dim)
	err = l.each(x, cond, func(i int, b *bound) error {
		y, c, err := point(b, x[i])
		if err != nil {
			return err
		}
		copy(out[i], y)
		ld[i] += c

		return nil
	})
	if err != nil {
		return nil, nil, sphereErrorf(op, err)
	}

	return out, ld, nil
}

func (l *Layer) forwardPoint(b *bound, x []float64) ([]float64, float64, error) {
	var (
		a      []float64
		c      float64
		logDet float64
		err    error
	)
	if l.proj != nil {
		if a, logDet, err = l.proj.PlaneToSphere(x); err != nil {
			return nil, 0, err
		}
		if l.proj.Cylinder() {
			// lncyl = log sin²(θ/2)
			a[0] = 2 * math.Asin(math.Exp(0.5*a[0]))
			// constant bridge term; log-dets then equal the standard projection
			logDet += math.Ln2
		}
	} else {
		a = slices.Clone(x)
	}

	if a, c, err = b.flow.Forward(a); err != nil {
		return nil, 0, err
	}
	logDet += c
	if l.dim == 2 {
		a[0] = SafeAngle(a[0])
	}
	if b.v != nil {
		if a, err = reflect(b.v, a); err != nil {
			return nil, 0, err
		}
	}

	return a, logDet, nil
}

func (l *Layer) inversePoint(b *bound, x []float64) ([]float64, float64, error) {
	var (
		a      = slices.Clone(x)
		c      float64
		logDet float64
		err    error
	)
	if b.v != nil {
		if a, err = reflect(b.v, a); err != nil {
			return nil, 0, err
		}
	}
	if l.dim == 2 {
		a[0] = SafeAngle(a[0])
	}
	if a, logDet, err = b.flow.Inverse(a); err != nil {
		return nil, 0, err
	}
	if l.proj == nil {
		return a, logDet, nil
	}

	if l.proj.Cylinder() {
		a[0] = 2 * math.Log(math.Sin(0.5*a[0]))
		// undoes the constant bridge term of forwardPoint
		logDet -= math.Ln2
	}
	if a, c, err = l.proj.SphereToPlane(a); err != nil {
		return nil, 0, err
	}

	return a, logDet + c, nil
}

// PoleProximity returns, in ascending order, the indices of the points of
// x (sphere side) whose polar angle after undoing the rotation lies within
// dist of 0 or π. Those are the points where the azimuth is poorly
// conditioned. Without a rotation it returns nil.
//
// Errors:
//   - layer.ErrBatchShape, the conditional-row errors of layer.Params.
func (l *Layer) PoleProximity(x [][]float64, cond [][]float64, dist float64) ([]int, error) {
	if l.rot == nil {
		return nil, nil
	}
	if _, err := layer.CheckBatch(x, nil, l.dim); err != nil {
		return nil, sphereErrorf(opPole, err)
	}

	near := make([]bool, len(x))
	err := l.each(x, cond, func(i int, b *bound) error {
		a, err := reflect(b.v, x[i])
		if err != nil {
			return err
		}
		near[i] = a[0] < dist || a[0] > math.Pi-dist

		return nil
	})
	if err != nil {
		return nil, sphereErrorf(opPole, err)
	}

	return lo.Filter(lo.Range(len(x)), func(i, _ int) bool { return near[i] }), nil
}
