package render

import "errors"

// Package errors for program construction and execution.
var (
	// ErrMissingCentroid names a program that requires the evaluation
	// centroid running in a context without one. The evaluators in this
	// package do not return it: a Context built without a centroid
	// evaluates at the center of its bounds.
	ErrMissingCentroid = errors.New("render: program needs centroid but context has none")

	// ErrUnknownOpcode is returned when decoding or executing meets an
	// opcode outside the instruction set.
	ErrUnknownOpcode = errors.New("render: unknown opcode")

	// ErrStackUnderflow is returned when an instruction pops an empty
	// evaluation stack. It indicates a miscompiled program.
	ErrStackUnderflow = errors.New("render: evaluation stack underflow")

	// ErrInstructionOverflow is returned when a compiled program exceeds
	// the executor's instruction buffer capacity.
	ErrInstructionOverflow = errors.New("render: instruction buffer overflow")

	// ErrBadJumpTarget is returned when a call or jump target lies
	// outside the instruction stream.
	ErrBadJumpTarget = errors.New("render: jump target out of range")

	// ErrUnknownImage is returned when an image instruction references an
	// index outside the executor's image table.
	ErrUnknownImage = errors.New("render: image index out of range")
)
