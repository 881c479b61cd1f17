package render

import (
	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
)

// FillRule selects how the winding number maps to interior membership.
type FillRule uint8

const (
	// FillNonZero treats any nonzero winding as inside.
	FillNonZero FillRule = iota
	// FillEvenOdd treats odd winding as inside.
	FillEvenOdd
)

// String returns a human-readable name for the fill rule.
func (r FillRule) String() string {
	switch r {
	case FillNonZero:
		return "nonzero"
	case FillEvenOdd:
		return "evenodd"
	default:
		return "Unknown"
	}
}

// Path is a fillable region: polygon loops plus a fill rule.
type Path struct {
	FillRule FillRule
	Loops    [][]vex.Point
}

// NewPath creates a path from loops.
func NewPath(rule FillRule, loops [][]vex.Point) *Path {
	return &Path{FillRule: rule, Loops: loops}
}

// IsEmpty reports whether the path has no loop with at least 3 vertices.
func (p *Path) IsEmpty() bool {
	for _, loop := range p.Loops {
		if len(loop) >= 3 {
			return false
		}
	}
	return true
}

// Bounds returns the bound of all loop vertices.
func (p *Path) Bounds() vex.Bounds {
	b := vex.EmptyBounds()
	for _, loop := range p.Loops {
		for _, pt := range loop {
			b = b.UnionPoint(pt)
		}
	}
	return b
}

// ContainsPoint applies the fill rule to the winding number at pt.
func (p *Path) ContainsPoint(pt vex.Point) bool {
	w := vex.WindingNumberPolygons(p.Loops, pt)
	if p.FillRule == FillEvenOdd {
		return w%2 != 0
	}
	return w != 0
}

// Face converts the path to a polygonal face. For the even-odd rule the
// winding structure is preserved; consumers apply the rule through
// ContainsPoint.
func (p *Path) Face() *face.Polygonal {
	return face.NewPolygonal(p.Loops)
}
