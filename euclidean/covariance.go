// SPDX-License-Identifier: MIT

package euclidean

import (
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/lvflow/matrix"
	"github.com/katalvlaran/lvflow/positive"
)

// ErrUnknownCovType is returned for an unrecognized covariance type name.
var ErrUnknownCovType = errors.New("euclidean: unknown covariance type")

// CovType selects the structure of the lower-triangular factor L.
type CovType int

const (
	// UnitGaussian is the identity map.
	UnitGaussian CovType = iota
	// DiagonalSymmetric scales every dimension by one shared width.
	DiagonalSymmetric
	// Diagonal scales each dimension by its own width.
	Diagonal
	// Full uses a lower-triangular L with positive diagonal.
	Full
)

var covNames = [...]string{
	UnitGaussian:      "unit_gaussian",
	DiagonalSymmetric: "diagonal_symmetric",
	Diagonal:          "diagonal",
	Full:              "full",
}

// String returns the configuration name of c.
func (c CovType) String() string {
	if c < 0 || int(c) >= len(covNames) {
		return "unknown"
	}

	return covNames[c]
}

// ParseCovType maps a configuration name to its CovType.
// Errors:
//   - ErrUnknownCovType.
func ParseCovType(name string) (CovType, error) {
	if i := slices.Index(covNames[:], name); i >= 0 {
		return CovType(i), nil
	}

	return 0, fmt.Errorf("%q: %w", name, ErrUnknownCovType)
}

// covariance assembles L from a resolved parameter vector.
type covariance interface {
	numParams(dim int) int
	logDiagonal(dim int, p []float64, pos *positive.Transform) []float64
	lower(dim int, p []float64) []float64
	structure(dim int, p []float64) map[string][]float64
}

func newCovariance(c CovType) (covariance, error) {
	switch c {
	case UnitGaussian:
		return unitCov{}, nil
	case DiagonalSymmetric:
		return symmetricCov{}, nil
	case Diagonal:
		return diagonalCov{}, nil
	case Full:
		return fullCov{}, nil
	default:
		return nil, fmt.Errorf("%d: %w", int(c), ErrUnknownCovType)
	}
}

type unitCov struct{}

func (unitCov) numParams(int) int { return 0 }

func (unitCov) logDiagonal(dim int, _ []float64, _ *positive.Transform) []float64 {
	return make([]float64, dim)
}

func (unitCov) lower(int, []float64) []float64 { return nil }

func (unitCov) structure(int, []float64) map[string][]float64 {
	return map[string][]float64{}
}

type symmetricCov struct{}

func (symmetricCov) numParams(int) int { return 1 }

func (symmetricCov) logDiagonal(dim int, p []float64, pos *positive.Transform) []float64 {
	out := make([]float64, dim)
	v := pos.Log(p[0])
	for i := range out {
		out[i] = v
	}

	return out
}

func (symmetricCov) lower(int, []float64) []float64 { return nil }

func (symmetricCov) structure(_ int, p []float64) map[string][]float64 {
	return map[string][]float64{"log_diagonal_symmetric": slices.Clone(p)}
}

type diagonalCov struct{}

func (diagonalCov) numParams(dim int) int { return dim }

func (diagonalCov) logDiagonal(_ int, p []float64, pos *positive.Transform) []float64 {
	return pos.LogVec(p)
}

func (diagonalCov) lower(int, []float64) []float64 { return nil }

func (diagonalCov) structure(_ int, p []float64) map[string][]float64 {
	return map[string][]float64{"log_diagonal": slices.Clone(p)}
}

type fullCov struct{}

func (fullCov) numParams(dim int) int { return dim + matrix.LowerCount(dim) }

func (fullCov) logDiagonal(dim int, p []float64, pos *positive.Transform) []float64 {
	return pos.LogVec(p[:dim])
}

func (fullCov) lower(dim int, p []float64) []float64 { return p[dim:] }

func (fullCov) structure(dim int, p []float64) map[string][]float64 {
	return map[string][]float64{
		"log_diagonal":             slices.Clone(p[:dim]),
		"lower_triangular_entries": slices.Clone(p[dim:]),
	}
}
