// SPDX-License-Identifier: MIT

package layer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest number of elements handed to one goroutine.
// Batches of at most MinChunk elements run on the calling goroutine.
const MinChunk = 64

// Apply runs fn(i) for every i in [0, n), splitting the range into
// contiguous chunks processed concurrently (at most GOMAXPROCS at a time).
// fn must only touch state owned by element i. The first error wins and
// is returned annotated with its element index; the other chunks stop at
// their next element.
func Apply(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers := min(runtime.GOMAXPROCS(0), (n+MinChunk-1)/MinChunk)
	if workers <= 1 {
		return applyRange(context.Background(), 0, n, fn)
	}

	chunk := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		start := start // per-iteration copy; go.mod targets go 1.21 loop semantics
		end := min(start+chunk, n)
		g.Go(func() error {
			return applyRange(ctx, start, end, fn)
		})
	}

	return g.Wait()
}

// applyRange runs fn over [start, end) until ctx is cancelled.
func applyRange(ctx context.Context, start, end int, fn func(i int) error) error {
	for i := start; i < end; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := fn(i); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	return nil
}
