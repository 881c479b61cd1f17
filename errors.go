package vex

import "errors"

// Package errors shared by the face algebra and its consumers.
var (
	// ErrDegenerateEdge is returned when an edge's start and end coincide.
	ErrDegenerateEdge = errors.New("vex: degenerate edge (start equals end)")

	// ErrEmptyPolygon is returned when a polygon loop has fewer than three
	// vertices.
	ErrEmptyPolygon = errors.New("vex: polygon loop needs at least 3 vertices")
)
