// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/lo"
)

// Chain composes layers sequentially. Forward runs them in order, Inverse
// in reverse order. Parameter vectors (InitParams) and conditional rows are
// concatenations of the per-layer blocks in chain order; owned-parameter
// layers contribute no block to a conditional row.
//
// A Chain is itself a Layer, so chains nest.
type Chain struct {
	layers []Layer
	counts []int // NumParams per layer
	conds  []int // CondParams per layer
	logger *slog.Logger
}

var (
	_ Layer       = (*Chain)(nil)
	_ Conditional = (*Chain)(nil)
)

// ChainOption configures NewChain.
type ChainOption func(*Chain)

// WithLogger sets the logger used for construction and initialization
// records (debug level). The default discards everything.
func WithLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChain builds a chain over layers.
// Errors:
//   - ErrEmptyChain, ErrNilLayer.
func NewChain(layers []Layer, opts ...ChainOption) (*Chain, error) {
	if len(layers) == 0 {
		return nil, layerErrorf(opNewChain, ErrEmptyChain)
	}
	for i, l := range layers {
		if l == nil {
			return nil, layerErrorf(opNewChain, fmt.Errorf("position %d: %w", i, ErrNilLayer))
		}
	}

	c := &Chain{
		layers: append([]Layer(nil), layers...),
		counts: lo.Map(layers, func(l Layer, _ int) int { return l.NumParams() }),
		conds:  lo.Map(layers, func(l Layer, _ int) int { return CondParams(l) }),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, apply := range opts {
		apply(c)
	}
	c.logger.Debug("flow chain built",
		slog.Int("layers", len(c.layers)),
		slog.Int("params", c.NumParams()),
		slog.Int("cond_params", c.CondParams()))

	return c, nil
}

// Layers returns the composed layers in chain order.
func (c *Chain) Layers() []Layer { return append([]Layer(nil), c.layers...) }

// NumParams returns the total parameter count.
func (c *Chain) NumParams() int { return lo.Sum(c.counts) }

// CondParams returns the conditional row length of the whole chain.
func (c *Chain) CondParams() int { return lo.Sum(c.conds) }

// InitParams splits p by NumParams and initializes every layer.
// Errors:
//   - ErrParamCount, or the first layer error.
func (c *Chain) InitParams(p []float64) error {
	if len(p) != c.NumParams() {
		return layerErrorf(opChainInit, fmt.Errorf("got %d, want %d: %w", len(p), c.NumParams(), ErrParamCount))
	}
	off := 0
	for i, l := range c.layers {
		if err := l.InitParams(p[off : off+c.counts[i]]); err != nil {
			return layerErrorf(opChainInit, fmt.Errorf("layer %d: %w", i, err))
		}
		off += c.counts[i]
	}
	c.logger.Debug("flow chain initialized", slog.Int("params", len(p)))

	return nil
}

// splitCond validates cond against n points and slices it per layer.
func (c *Chain) splitCond(tag string, n int, cond [][]float64) ([][][]float64, error) {
	total := c.CondParams()
	if total == 0 {
		if cond != nil {
			return nil, layerErrorf(tag, ErrUnexpectedConditional)
		}

		return make([][][]float64, len(c.layers)), nil
	}
	if cond == nil {
		return nil, layerErrorf(tag, ErrMissingConditional)
	}
	if len(cond) != n {
		return nil, layerErrorf(tag, fmt.Errorf("%d rows for %d points: %w", len(cond), n, ErrBatchShape))
	}
	for i, row := range cond {
		if len(row) != total {
			return nil, layerErrorf(tag, fmt.Errorf("row %d has %d, want %d: %w", i, len(row), total, ErrParamCount))
		}
	}

	out := make([][][]float64, len(c.layers))
	off := 0
	for li, width := range c.conds {
		if width == 0 {
			continue
		}
		from, to := off, off+width
		out[li] = make([][]float64, n)
		for r := range cond {
			out[li][r] = cond[r][from:to:to]
		}
		off = to
	}

	return out, nil
}

// Forward runs every layer's Forward in chain order.
func (c *Chain) Forward(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error) {
	parts, err := c.splitCond(opChainFwd, len(x), cond)
	if err != nil {
		return nil, nil, err
	}
	for i, l := range c.layers {
		if x, logDet, err = l.Forward(x, logDet, parts[i]); err != nil {
			return nil, nil, layerErrorf(opChainFwd, fmt.Errorf("layer %d: %w", i, err))
		}
	}

	return x, logDet, nil
}

// Inverse runs every layer's Inverse in reverse chain order.
func (c *Chain) Inverse(x [][]float64, logDet []float64, cond [][]float64) ([][]float64, []float64, error) {
	parts, err := c.splitCond(opChainInv, len(x), cond)
	if err != nil {
		return nil, nil, err
	}
	for i := len(c.layers) - 1; i >= 0; i-- {
		if x, logDet, err = c.layers[i].Inverse(x, logDet, parts[i]); err != nil {
			return nil, nil, layerErrorf(opChainInv, fmt.Errorf("layer %d: %w", i, err))
		}
	}

	return x, logDet, nil
}
