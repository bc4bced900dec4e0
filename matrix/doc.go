// Package matrix offers the dense linear-algebra kernels used by the flow layers.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with error-returning accessors.
//   - Triangular factors: LowerTriangular assembles L from log-diagonal and
//     strictly-lower parameters, InverseLowerTriangular and
//     SolveLowerTriangular apply L⁻¹ by forward substitution.
//   - Householder reflections: Householder assembles Q, Reflect applies it
//     to a vector without forming Q.
//   - MatVec, the matrix-vector product.
//
// Matrices here are small (embedding dimension plus one, or the Euclidean
// flow dimension), so every kernel favors clarity and strict validation
// over blocking or SIMD tricks.
package matrix
