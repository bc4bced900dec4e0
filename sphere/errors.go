// SPDX-License-Identifier: MIT
// Package sphere: sentinel error set.
//
// Messages carry the "sphere: ..." prefix; call sites wrap with
// sphereErrorf(op, ErrX) so that callers match with errors.Is.

package sphere

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedGeometry is returned for sphere dimensions the
	// stereographic projection and in-plane decomposition do not cover (> 2).
	ErrUnsupportedGeometry = errors.New("sphere: geometry not implemented for this dimension")

	// ErrCylinderNeedsSphere is returned when the cylinder parametrization is
	// requested for a dimension other than 2.
	ErrCylinderNeedsSphere = errors.New("sphere: cylinder parametrization requires dimension 2")

	// ErrFlowDimension is returned when an intrinsic flow's dimension differs
	// from the layer's sphere dimension.
	ErrFlowDimension = errors.New("sphere: intrinsic flow dimension mismatch")

	// ErrBasisCount is returned for a non-positive number of basis functions.
	ErrBasisCount = errors.New("sphere: basis count must be > 0")

	// ErrBadDimension is returned for a non-positive sphere dimension.
	ErrBadDimension = errors.New("sphere: dimension must be > 0")
)

const (
	opInplaneToSph = "InplaneEuclideanToSpherical"
	opInplaneToEuc = "InplaneSphericalToEuclidean"
	opNewProjector = "NewProjector"
	opPlaneToSph   = "Projector.PlaneToSphere"
	opSphToPlane   = "Projector.SphereToPlane"
	opNewRotation  = "NewRotation"
	opRotMatrix    = "Rotation.Matrix"
	opRotVector    = "Rotation.Vector"
	opNewMoebius   = "NewMoebius"
	opMoebiusBind  = "Moebius.Bind"
	opMoebiusSolve = "Moebius.solve"
	opNewSpline    = "NewCircularSpline"
	opSplineBind   = "CircularSpline.Bind"
	opNewAzimuthal = "NewAzimuthalFlow"
	opNewLayer     = "NewLayer"
	opForward      = "Layer.Forward"
	opInverse      = "Layer.Inverse"
	opPole         = "Layer.PoleProximity"
	opStructure    = "Layer.ParamStructure"
)

// sphereErrorf wraps err with an operation tag, preserving the cause via %w.
func sphereErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
