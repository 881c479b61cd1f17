package render

import (
	vex "github.com/gogpu/vex"
)

// Program is an immutable render-program node. A program evaluates to a
// premultiplied color for an evaluation context; trees of programs
// compose blends, gradients, images and path-boolean selections.
//
// Programs are built once per frame, simplified, and either evaluated
// directly or compiled to an instruction stream (see Compile).
type Program interface {
	// Name returns the node's type discriminant, also used by the JSON
	// serialization.
	Name() string

	// Children returns the child programs in evaluation order.
	Children() []Program

	// IsFullyTransparent reports whether the program always evaluates to
	// transparent black.
	IsFullyTransparent() bool

	// IsFullyOpaque reports whether the program always evaluates with
	// alpha 1.
	IsFullyOpaque() bool

	// NeedsCentroid reports whether evaluation reads the context
	// centroid.
	NeedsCentroid() bool

	// NeedsArea reports whether evaluation reads the context area.
	NeedsArea() bool

	// NeedsFace reports whether evaluation reads the clipped face itself.
	NeedsFace() bool

	// Simplified returns a semantically equivalent, possibly smaller
	// program. Simplification is a fixed point: simplifying a simplified
	// program returns it unchanged.
	Simplified() Program

	// Evaluate computes the program's premultiplied color for a context.
	Evaluate(ctx *Context) vex.Vec4

	// compile emits instruction words that leave the program's color on
	// the evaluation stack.
	compile(c *compiler)

	// serializeJSON returns the recursive JSON form with a "type"
	// discriminant.
	serializeJSON() map[string]any
}

// anyChild reports whether pred holds for any of the programs.
func anyChild(programs []Program, pred func(Program) bool) bool {
	for _, p := range programs {
		if pred(p) {
			return true
		}
	}
	return false
}

func childrenNeedCentroid(ps []Program) bool {
	return anyChild(ps, Program.NeedsCentroid)
}

func childrenNeedArea(ps []Program) bool {
	return anyChild(ps, Program.NeedsArea)
}

func childrenNeedFace(ps []Program) bool {
	return anyChild(ps, Program.NeedsFace)
}

// simplifyAll simplifies a child slice, reporting whether anything
// changed.
func simplifyAll(ps []Program) ([]Program, bool) {
	changed := false
	out := make([]Program, len(ps))
	for i, p := range ps {
		out[i] = p.Simplified()
		if out[i] != p {
			changed = true
		}
	}
	return out, changed
}
