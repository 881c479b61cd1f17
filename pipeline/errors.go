package pipeline

import "errors"

// Package errors for the two-pass rasterizer.
var (
	// ErrInvalidConfig is returned when a TwoPassConfig fails validation.
	ErrInvalidConfig = errors.New("pipeline: invalid config")

	// ErrCorruptFaceList is returned when a per-bin linked list references
	// an address outside the allocated face array. This is a consistency
	// error; the pass halts.
	ErrCorruptFaceList = errors.New("pipeline: fine face list address out of range")

	// ErrFaceListOverflow is returned when the coarse pass exhausts the
	// fine-face allocation. The frame cannot recover.
	ErrFaceListOverflow = errors.New("pipeline: fine face list overflow")

	// ErrSideCountRange is returned when a clipped chunk's side count
	// leaves the canonical {-1, 0, +1} range.
	ErrSideCountRange = errors.New("pipeline: side count outside canonical range")

	// ErrRecordTruncated is returned when decoding a fixed-layout record
	// from a short buffer.
	ErrRecordTruncated = errors.New("pipeline: record buffer too short")

	// ErrNilTarget is returned when rendering to a nil target.
	ErrNilTarget = errors.New("pipeline: nil render target")
)
