package render

import (
	vex "github.com/gogpu/vex"
)

// PathBoolean selects between two programs by testing the evaluation
// position against a path: points inside the path (per its fill rule)
// evaluate the inside program.
type PathBoolean struct {
	Path            *Path
	Inside, Outside Program
}

// NewPathBoolean creates a path-boolean program.
func NewPathBoolean(path *Path, inside, outside Program) *PathBoolean {
	return &PathBoolean{Path: path, Inside: inside, Outside: outside}
}

func (p *PathBoolean) Name() string        { return "PathBoolean" }
func (p *PathBoolean) Children() []Program { return []Program{p.Inside, p.Outside} }

func (p *PathBoolean) IsFullyTransparent() bool {
	return p.Inside.IsFullyTransparent() && p.Outside.IsFullyTransparent()
}

func (p *PathBoolean) IsFullyOpaque() bool {
	return p.Inside.IsFullyOpaque() && p.Outside.IsFullyOpaque()
}

func (p *PathBoolean) NeedsCentroid() bool { return true }
func (p *PathBoolean) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *PathBoolean) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *PathBoolean) Simplified() Program {
	inside := p.Inside.Simplified()
	outside := p.Outside.Simplified()
	if p.Path == nil || p.Path.IsEmpty() {
		return outside
	}
	if inside == outside {
		return inside
	}
	if inside == p.Inside && outside == p.Outside {
		return p
	}
	return NewPathBoolean(p.Path, inside, outside)
}

func (p *PathBoolean) Evaluate(ctx *Context) vex.Vec4 {
	if p.Path.ContainsPoint(ctx.Center()) {
		return p.Inside.Evaluate(ctx)
	}
	return p.Outside.Evaluate(ctx)
}

func (p *PathBoolean) compile(c *compiler) {
	idx := c.addPath(p.Path)
	insideLoc := c.subprogram(p.Inside)
	outsideLoc := c.subprogram(p.Outside)

	c.emit(uint32(OpPathBoolean), idx)
	c.emitLabelRef(insideLoc)
	c.emitLabelRef(outsideLoc)
}

func (p *PathBoolean) serializeJSON() map[string]any {
	loops := make([][][]float64, len(p.Path.Loops))
	for i, loop := range p.Path.Loops {
		pts := make([][]float64, len(loop))
		for j, pt := range loop {
			pts[j] = []float64{pt.X, pt.Y}
		}
		loops[i] = pts
	}
	return map[string]any{
		"type":     p.Name(),
		"fillRule": p.Path.FillRule.String(),
		"loops":    loops,
		"inside":   p.Inside.serializeJSON(),
		"outside":  p.Outside.serializeJSON(),
	}
}

var _ Program = (*PathBoolean)(nil)
