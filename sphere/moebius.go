// SPDX-License-Identifier: MIT

package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvflow/internal/numeric"
	"github.com/katalvlaran/lvflow/rootfind"
)

const (
	// DefaultBases is the default number of basis functions of the circular
	// flows.
	DefaultBases = 5

	// DesiredInitValue fills DesiredInitParams of the circular flows.
	DesiredInitValue = 0.54

	// moebiusMinRadius and moebiusRadiusSpan bound |ω| to [0.001, 0.999).
	moebiusMinRadius  = 0.001
	moebiusRadiusSpan = 0.998

	// near the ends of [0, 2π] a basis image that landed on the wrong side
	// of the seam is moved back by 2π
	seamTolerance = math.Pi * 1e-6
)

// Moebius is a convex mixture of K Möbius transformations of the circle.
//
// Basis k has a centre ω_k in the open unit disk and a weight w_k. On the
// unit circle z = e^{it} it maps z ↦ (z − ω)/(1 − ω̄z), which is a circle
// diffeomorphism; each image is rotated so that t = −π stays fixed. The
// mixture f(t) = Σ w_k·arg_k(t) is strictly increasing on (−π, π), and the
// flow is exposed on [0, 2π) as g(x) = f(x − π) + π with
//
//	g′(x) = Σ w_k (1 − |ω_k|²) / |e^{i(x−π)} − ω_k|².
//
// Parameters, per basis, row-major:
//
//	[angle of ω, length logit, log weight]        (default)
//	[x of ω, y of ω, length logit, log weight]    (WithXYParametrization)
//
// with |ω| = 0.001 + 0.998·sigmoid(length logit) and w = softmax(log weights).
//
// g has a closed form but g⁻¹ does not. By default the density (Inverse)
// direction evaluates g and the sampling (Forward) direction solves for
// g⁻¹ with rootfind.Solve; WithNaturalDirection(true) swaps them.
type Moebius struct {
	k       int
	xy      bool
	natural bool
	solve   []rootfind.Option
}

var _ Flow = (*Moebius)(nil)

// NewMoebius returns a Möbius mixture of k bases.
//
// Errors:
//   - ErrBasisCount (k ≤ 0).
func NewMoebius(k int, opts ...MoebiusOption) (*Moebius, error) {
	if k <= 0 {
		return nil, sphereErrorf(opNewMoebius, fmt.Errorf("k=%d: %w", k, ErrBasisCount))
	}
	m := &Moebius{k: k}
	for _, apply := range opts {
		apply(m)
	}

	return m, nil
}

// Dim returns 1.
func (m *Moebius) Dim() int { return 1 }

// Bases returns K.
func (m *Moebius) Bases() int { return m.k }

// NumParams returns 3K, or 4K in the xy parametrization.
func (m *Moebius) NumParams() int { return m.k * m.stride() }

func (m *Moebius) stride() int {
	if m.xy {
		return 4
	}

	return 3
}

// DesiredInitParams fills every parameter with DesiredInitValue.
func (m *Moebius) DesiredInitParams() []float64 {
	out := make([]float64, m.NumParams())
	for i := range out {
		out[i] = DesiredInitValue
	}

	return out
}

// Name returns "moebius".
func (m *Moebius) Name() string { return "moebius" }

// moebiusBasis holds one centre ω and the rotation that pins t = −π.
type moebiusBasis struct {
	wx, wy, r2     float64
	cosRot, sinRot float64
	logScale       float64 // log w + log(1 − |ω|²)
}

// image returns the unrotated automorphism image of (cos t, sin t) and
// |e^{it} − ω|².
func (b *moebiusBasis) image(c, s float64) (x, y, opo float64) {
	opo = 1 + b.r2 - 2*(c*b.wx+s*b.wy)
	x = (1-b.r2)*(c-b.wx) - b.wx*opo
	y = (1-b.r2)*(s-b.wy) - b.wy*opo

	return x, y, opo
}

// Bind validates p and precomputes the bases.
//
// Errors:
//   - layer.ErrParamCount.
func (m *Moebius) Bind(p []float64) (Bound, error) {
	if err := checkParams(opMoebiusBind, p, m.NumParams()); err != nil {
		return nil, err
	}
	stride := m.stride()

	var (
		k       int
		row     []float64
		logNorm = make([]float64, m.k)
		bases   = make([]moebiusBasis, m.k)
	)
	for k = 0; k < m.k; k++ {
		row = p[k*stride : (k+1)*stride]
		logNorm[k] = row[stride-1]
		radius := moebiusMinRadius + math.Exp(math.Log(moebiusRadiusSpan)-numeric.LogAddExp(0, -row[stride-2]))

		var dx, dy float64
		if m.xy {
			n := math.Hypot(row[0], row[1])
			dx, dy = numeric.Select(n == 0, 1, row[0]/n), numeric.Select(n == 0, 0, row[1]/n)
		} else {
			dx, dy = math.Cos(row[0]), math.Sin(row[0])
		}
		b := moebiusBasis{wx: radius * dx, wy: radius * dy, r2: radius * radius}

		// image of t = −π, i.e. z = −1
		x0, y0, _ := b.image(-1, 0)
		rot := -math.Pi - math.Atan2(y0, x0)
		b.cosRot, b.sinRot = math.Cos(rot), math.Sin(rot)
		bases[k] = b
	}

	lse := floats.LogSumExp(logNorm)
	weights := make([]float64, m.k)
	for k = range bases {
		weights[k] = math.Exp(logNorm[k] - lse)
		bases[k].logScale = logNorm[k] - lse + math.Log1p(-bases[k].r2)
	}

	return &boundMoebius{bases: bases, weights: weights, natural: m.natural, solve: m.solve}, nil
}

type boundMoebius struct {
	bases   []moebiusBasis
	weights []float64
	natural bool
	solve   []rootfind.Option
}

// eval returns g(x) and log g′(x) for x ∈ [0, 2π].
func (b *boundMoebius) eval(x float64) (float64, float64) {
	t := x - math.Pi
	c, s := math.Cos(t), math.Sin(t)

	g, logDeriv := 0.0, math.Inf(-1)
	for k := range b.bases {
		m := &b.bases[k]
		hx, hy, opo := m.image(c, s)
		arc := math.Atan2(hx*m.sinRot+hy*m.cosRot, hx*m.cosRot-hy*m.sinRot) + math.Pi
		switch {
		case x < seamTolerance && arc > math.Pi:
			arc -= twoPi
		case x > twoPi-seamTolerance && arc < math.Pi:
			arc += twoPi
		}
		g += b.weights[k] * arc
		logDeriv = numeric.LogAddExp(logDeriv, m.logScale-math.Log(opo))
	}

	return numeric.Clamp(g, 0, twoPi), logDeriv
}

func (b *boundMoebius) Forward(angles []float64) ([]float64, float64, error) {
	if b.natural {
		return b.apply(angles)
	}

	return b.invert(angles)
}

func (b *boundMoebius) Inverse(angles []float64) ([]float64, float64, error) {
	if b.natural {
		return b.invert(angles)
	}

	return b.apply(angles)
}

// apply evaluates g in closed form.
func (b *boundMoebius) apply(angles []float64) ([]float64, float64, error) {
	y, logDeriv := b.eval(numeric.Clamp(angles[0], 0, twoPi))

	return []float64{y}, logDeriv, nil
}

// invert solves g(x) = y; the log-det is −log g′(x).
func (b *boundMoebius) invert(angles []float64) ([]float64, float64, error) {
	y := numeric.Clamp(angles[0], 0, twoPi)
	gLo, _ := b.eval(0)
	gHi, _ := b.eval(twoPi)

	var x float64
	switch {
	case y <= gLo:
		x = 0
	case y >= gHi:
		x = twoPi
	default:
		fn := func(v float64) (float64, float64) {
			g, logDeriv := b.eval(v)
			return g, math.Exp(logDeriv)
		}
		var err error
		if x, err = rootfind.Solve(fn, y, 0, twoPi, b.solve...); err != nil {
			return nil, 0, sphereErrorf(opMoebiusSolve, err)
		}
	}
	_, logDeriv := b.eval(x)

	return []float64{x}, -logDeriv, nil
}
