// Package render implements render programs: immutable trees of
// compositable paint nodes (colors, gradients, images, blends,
// path-boolean selections) that evaluate to a premultiplied color on a
// clipped face.
//
// A program can be evaluated directly (tree walk) or compiled to a flat
// little-endian u32 instruction stream executed by a stack machine; both
// paths agree up to the float32 rounding of the stream's immediate values.
// The face partitioner splits a program against its paths into renderable
// (face, program) pairs: path booleans on nonzero-rule paths are resolved
// by clipping, while those on even-odd paths stay in the program and
// resolve per evaluation.
package render
