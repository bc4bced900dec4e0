// SPDX-License-Identifier: MIT

package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvflow/layer"
)

const (
	// CylinderSmallRadius and CylinderLargeRadius delimit the three regimes
	// of CylinderExtra.
	CylinderSmallRadius = 0.001
	CylinderLargeRadius = 10.0
)

// log(2π) turns the unit-normal log-density into log √(2π) − r²/2.
var logTwoPi = math.Log(twoPi)

// Projector maps the plane under a D-sphere onto the sphere's intrinsic
// coordinates (PlaneToSphere) and back (SphereToPlane). The radial profile
// is Gaussian: a standard normal sample in the plane becomes a uniform
// sample on the sphere.
//
// Supported geometries:
//   - D = 1: x ∈ R ↦ angle ∈ [0, 2π), angle = π·erfc(|x|/√2), reflected to
//     2π − angle for x < 0. Hence 0 ↦ π, +∞ ↦ 0, −∞ ↦ 2π.
//   - D = 2, standard: (r, φ) ↦ (θ, φ) with θ = acos(1 − 2e^{−r²/2}).
//   - D = 2, cylinder: (r, φ) ↦ (lncyl, φ) with lncyl = −r²/2 = log sin²(θ/2).
//
// A Projector is immutable and safe for concurrent use.
type Projector struct {
	dim      int
	cylinder bool
}

// NewProjector returns the projector for a D-sphere.
//
// Errors:
//   - ErrUnsupportedGeometry (dim outside {1, 2}).
//   - ErrCylinderNeedsSphere (cylinder with dim != 2).
func NewProjector(dim int, cylinder bool) (*Projector, error) {
	if dim < 1 || dim > 2 {
		return nil, sphereErrorf(opNewProjector, fmt.Errorf("dim %d: %w", dim, ErrUnsupportedGeometry))
	}
	if cylinder && dim != 2 {
		return nil, sphereErrorf(opNewProjector, ErrCylinderNeedsSphere)
	}

	return &Projector{dim: dim, cylinder: cylinder}, nil
}

// Dim returns the sphere dimension D.
func (p *Projector) Dim() int { return p.dim }

// Cylinder reports whether the first intrinsic coordinate is lncyl.
func (p *Projector) Cylinder() bool { return p.cylinder }

// PlaneToSphere maps a plane point to intrinsic coordinates and returns the
// log|det J| of that map.
//
// Errors:
//   - layer.ErrBatchShape (len(x) != D).
func (p *Projector) PlaneToSphere(x []float64) ([]float64, float64, error) {
	a, logDet, _, err := p.PlaneToSphereExtra(x)

	return a, logDet, err
}

// PlaneToSphereExtra is PlaneToSphere that also reports the auxiliary
// cylinder term log(1 − e^{−r²/2}) (see CylinderExtra). Outside cylinder
// mode the extra term is 0.
func (p *Projector) PlaneToSphereExtra(x []float64) ([]float64, float64, float64, error) {
	if len(x) != p.dim {
		return nil, 0, 0, sphereErrorf(opPlaneToSph, layer.ErrBatchShape)
	}
	s, sign, err := InplaneEuclideanToSpherical(x)
	if err != nil {
		return nil, 0, 0, err
	}
	r := s[0]

	if p.dim == 1 {
		angle := math.Pi * math.Erfc(r/math.Sqrt2)
		if sign < 0 {
			angle = twoPi - angle
		}
		// |d angle / dr| = √(2π)·e^{−r²/2}
		return []float64{angle}, distuv.UnitNormal.LogProb(r) + logTwoPi, 0, nil
	}

	lncyl := -0.5 * r * r
	if p.cylinder {
		return []float64{lncyl, s[1]}, lncyl, CylinderExtra(r), nil
	}
	// sin²(θ/2) = e^{−r²/2}, and 1 − cos θ = 2e^{−r²/2}
	theta := 2 * math.Asin(math.Exp(0.5*lncyl))

	return []float64{theta, s[1]}, math.Ln2 + lncyl, 0, nil
}

// SphereToPlane inverts PlaneToSphere and returns the log|det J| of the
// inverse map (the negated forward contribution).
//
// Errors:
//   - layer.ErrBatchShape (len(a) != D).
func (p *Projector) SphereToPlane(a []float64) ([]float64, float64, error) {
	if len(a) != p.dim {
		return nil, 0, sphereErrorf(opSphToPlane, layer.ErrBatchShape)
	}

	if p.dim == 1 {
		angle, sign := a[0], 1.0
		if angle > math.Pi {
			angle, sign = twoPi-angle, -1
		}
		r := math.Sqrt2 * math.Erfcinv(angle/math.Pi)
		x, err := InplaneSphericalToEuclidean([]float64{r}, sign)

		return x, -(distuv.UnitNormal.LogProb(r) + logTwoPi), err
	}

	var r, logDet float64
	if p.cylinder {
		lncyl := a[0]
		r = math.Exp(0.5 * math.Log(-2*lncyl))
		logDet = -lncyl
	} else {
		oneMinusCos := 2 * math.Pow(math.Sin(0.5*a[0]), 2)
		switch oneMinusCos {
		case 0:
			oneMinusCos = CosineNudge
		case 2:
			oneMinusCos = 2 - CosineNudge
		}
		r = math.Sqrt(-2 * math.Log(0.5*oneMinusCos))
		logDet = -math.Log(oneMinusCos)
	}
	x, err := InplaneSphericalToEuclidean([]float64{r, a[1]}, 1)

	return x, logDet, err
}

// CylinderExtra is log(1 − e^{−r²/2}), the log survival term of the
// cylinder coordinate, evaluated in three regimes to stay finite:
//
//	r ≤ 0.001:      2·ln r − ln 2
//	0.001 < r < 10: log(1 − e^{−r²/2})
//	r ≥ 10:         −e^{−r²/2}
func CylinderExtra(r float64) float64 {
	switch {
	case r <= CylinderSmallRadius:
		return 2*math.Log(r) - math.Ln2
	case r >= CylinderLargeRadius:
		return -math.Exp(-0.5 * r * r)
	default:
		return math.Log(1 - math.Exp(-0.5*r*r))
	}
}
