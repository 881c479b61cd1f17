// Package vex is an analytic vector-graphics rasterizer.
//
// vex converts a tree of compositable render programs (colors, gradients,
// images, blends, path-boolean fills) clipped to arbitrary polygonal
// regions into a filtered pixel buffer. Rasterization is analytic: faces
// are clipped exactly against half-planes, stripes, grids and circles, and
// a piecewise-polynomial reconstruction filter is convolved with the
// clipped faces via Green's-theorem line integrals instead of point
// sampling.
//
// The root package holds the shared geometry and color primitives. The
// heavy machinery lives in sub-packages:
//
//   - face: the clippable-face algebra (polygonal, edged, edged-clipped)
//   - filter: reconstruction filters and the analytic image integrator
//   - render: render-program trees, the instruction stream and evaluator
//   - parallel: workgroup-model scan/reduce/sort/merge primitives
//   - pipeline: the two-pass (coarse/fine) rasterizer and binary codecs
package vex
