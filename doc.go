// Package lvflow is a toolbox of bijective normalizing-flow layers that
// move probability densities between the Euclidean plane and the circle or
// 2-sphere, with exact log-determinants in both directions.
//
// What is in the box?
//
//	A pure-Go, batch-oriented library that brings together:
//		• Positivity transforms: softplus, exponential, saturating widths
//		• Euclidean covariance layer: unit, symmetric, diagonal, full L
//		• Sphere geometry: intrinsic angles ⇄ embedding, in-plane polar maps
//		• Stereographic projector: plane ⇄ circle / sphere / cylinder
//		• Householder rotation of the embedding space
//		• Intrinsic circle flows: Möbius mixtures, circular splines
//		• Layer plumbing: owned or conditional parameters, chains
//
// Conventions
//
//   - Forward samples: base space to target space.
//   - Inverse evaluates densities: target space back to base space.
//   - Each direction adds the log|det J| of the map it applies to the
//     running log-determinant of every batch element.
//
// Packages:
//
//	positive/  — positivity transforms for widths and scales
//	euclidean/ — Gaussian covariance layer on R^D
//	matrix/    — small dense helpers: triangular factors, Householder
//	rootfind/  — bracketed monotone inversion
//	spline/    — monotone rational-quadratic splines
//	sphere/    — projector, rotation, intrinsic flows and the sphere layer
//	layer/     — Layer contract, parameter stores, batch apply, Chain
//	config/    — YAML description of a chain and its builder
//	cmd/flowcheck — round-trip checker for a configured chain
//
// Quick example (2-sphere, Möbius flow):
//
//	circ, _ := sphere.NewMoebius(sphere.DefaultBases)
//	flow, _ := sphere.NewAzimuthalFlow(circ)
//	l, _ := sphere.NewLayer(2, flow)
//	_ = l.InitParams(l.DesiredInitParams())
//	y, logDet, _ := l.Forward(x, nil, nil) // x: [][]float64 of plane points
//
//	go get github.com/katalvlaran/lvflow
package lvflow
