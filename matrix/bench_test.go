// Package matrix_test provides benchmarks for the triangular and reflection
// kernels, using deterministic random fill.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/lvflow/matrix"
)

// benchSizes are the matrix sizes to benchmark.
var benchSizes = []int{4, 16, 64}

// sinks to defeat dead-code elimination
var (
	sinkM matrix.Matrix
	sinkV []float64
)

func BenchmarkInverseLowerTriangular(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			l := mustLower(b, n, 1337)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.InverseLowerTriangular(l)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}

func BenchmarkReflect(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			v := randVec(11, n, -1, 1)
			x := randVec(22, n, -1, 1)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				out, err := matrix.Reflect(v, x)
				if err != nil {
					b.Fatal(err)
				}
				sinkV = out
			}
		})
	}
}
