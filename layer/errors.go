// SPDX-License-Identifier: MIT
// Package layer: sentinel error set.
//
// Every message is prefixed with "layer: ...". Call sites wrap with
// layerErrorf(op, ErrX) so that callers still match with errors.Is.

package layer

import (
	"errors"
	"fmt"
)

var (
	// ErrParamCount indicates a parameter vector (InitParams argument or a
	// conditional row) whose length differs from the layer's parameter count.
	ErrParamCount = errors.New("layer: parameter count mismatch")

	// ErrBatchShape indicates ragged rows, a row of the wrong dimension, or a
	// log-det / conditional batch whose length differs from the point batch.
	ErrBatchShape = errors.New("layer: batch shape mismatch")

	// ErrMissingConditional is returned when a conditional layer is called
	// without per-call parameters.
	ErrMissingConditional = errors.New("layer: conditional parameters required")

	// ErrUnexpectedConditional is returned when per-call parameters are
	// handed to a layer that owns its parameters.
	ErrUnexpectedConditional = errors.New("layer: layer does not take conditional parameters")

	// ErrEmptyChain is returned when a Chain is built without layers.
	ErrEmptyChain = errors.New("layer: chain has no layers")

	// ErrNilLayer is returned when a Chain is built with a nil layer.
	ErrNilLayer = errors.New("layer: nil layer")
)

const (
	opInit       = "Params.Init"
	opResolve    = "Params.Resolve"
	opCheckCond  = "Params.CheckCond"
	opCheckBatch = "CheckBatch"
	opNewChain   = "NewChain"
	opChainInit  = "Chain.InitParams"
	opChainFwd   = "Chain.Forward"
	opChainInv   = "Chain.Inverse"
)

// layerErrorf wraps err with an operation tag, preserving the cause via %w.
func layerErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
