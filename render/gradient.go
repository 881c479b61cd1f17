package render

import (
	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

// GradientStop pairs a ratio in [0, 1] with the program painted there.
type GradientStop struct {
	Ratio   float64
	Program Program
}

// gradientChildren extracts the stop programs.
func gradientChildren(stops []GradientStop) []Program {
	out := make([]Program, len(stops))
	for i, s := range stops {
		out[i] = s.Program
	}
	return out
}

// simplifyStops simplifies stop programs, reporting changes and whether
// every stop collapsed to the same program.
func simplifyStops(stops []GradientStop) ([]GradientStop, bool, bool) {
	out := make([]GradientStop, len(stops))
	changed := false
	uniform := true
	for i, s := range stops {
		out[i] = GradientStop{Ratio: s.Ratio, Program: s.Program.Simplified()}
		if out[i].Program != s.Program {
			changed = true
		}
		if i > 0 && out[i].Program != out[0].Program {
			uniform = false
		}
	}
	return out, changed, uniform
}

// evaluateStops selects the stop segment for a mapped ratio and blends the
// two bracketing programs.
func evaluateStops(stops []GradientStop, t float64, ctx *Context) vex.Vec4 {
	if len(stops) == 0 {
		return vex.Vec4{}
	}
	if t <= stops[0].Ratio {
		return stops[0].Program.Evaluate(ctx)
	}
	last := stops[len(stops)-1]
	if t >= last.Ratio {
		return last.Program.Evaluate(ctx)
	}
	for i := 0; i < len(stops)-1; i++ {
		lo, hi := stops[i], stops[i+1]
		if t <= hi.Ratio {
			span := hi.Ratio - lo.Ratio
			if span <= 0 {
				return hi.Program.Evaluate(ctx)
			}
			local := (t - lo.Ratio) / span
			return lo.Program.Evaluate(ctx).Mul(1 - local).
				Add(hi.Program.Evaluate(ctx).Mul(local))
		}
	}
	return last.Program.Evaluate(ctx)
}

// LinearGradient paints a multi-stop gradient along a line segment.
type LinearGradient struct {
	// Inverse maps evaluation space into gradient space.
	Inverse    vex.Matrix
	Start, End vex.Point
	Stops      []GradientStop
	Extend     filter.Extend
}

// NewLinearGradient creates a linear gradient. transform maps gradient
// space into evaluation space. Stop ratios must be ascending.
func NewLinearGradient(transform vex.Matrix, start, end vex.Point, stops []GradientStop, extend filter.Extend) *LinearGradient {
	return &LinearGradient{
		Inverse: transform.Invert(),
		Start:   start,
		End:     end,
		Stops:   stops,
		Extend:  extend,
	}
}

func (p *LinearGradient) Name() string        { return "LinearGradient" }
func (p *LinearGradient) Children() []Program { return gradientChildren(p.Stops) }

func (p *LinearGradient) IsFullyTransparent() bool {
	return !anyChild(p.Children(), func(c Program) bool { return !c.IsFullyTransparent() })
}

func (p *LinearGradient) IsFullyOpaque() bool {
	return !anyChild(p.Children(), func(c Program) bool { return !c.IsFullyOpaque() })
}

func (p *LinearGradient) NeedsCentroid() bool { return true }
func (p *LinearGradient) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *LinearGradient) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *LinearGradient) Simplified() Program {
	stops, changed, uniform := simplifyStops(p.Stops)
	if len(stops) == 0 {
		return Transparent
	}
	if uniform {
		return stops[0].Program
	}
	if !changed {
		return p
	}
	out := *p
	out.Stops = stops
	return &out
}

// ratio projects the context position onto the gradient axis.
func (p *LinearGradient) ratio(ctx *Context) float64 {
	local := p.Inverse.TransformPoint(ctx.Center())
	d := p.End.Sub(p.Start)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return 0
	}
	return local.Sub(p.Start).Dot(d) / lenSq
}

func (p *LinearGradient) Evaluate(ctx *Context) vex.Vec4 {
	return evaluateStops(p.Stops, p.Extend.Map(p.ratio(ctx)), ctx)
}

func (p *LinearGradient) compile(c *compiler) {
	blendLoc := c.newLabel()

	c.emit(uint32(OpComputeLinearGradientRatio) | uint32(p.Extend)<<8)
	m := p.Inverse
	c.emitF32(m.A, m.B, m.C, m.D, m.E, m.F)
	c.emitF32(p.Start.X, p.Start.Y, p.End.X, p.End.Y)
	c.emit(uint32(len(p.Stops)))
	for _, s := range p.Stops {
		c.emitF32(s.Ratio)
		c.emitLabelRef(c.subprogram(s.Program))
	}
	c.emitLabelRef(blendLoc)

	c.defineLabel(blendLoc)
	c.emit(uint32(OpLinearBlend))
}

func (p *LinearGradient) serializeJSON() map[string]any {
	stops := make([]map[string]any, len(p.Stops))
	for i, s := range p.Stops {
		stops[i] = map[string]any{"ratio": s.Ratio, "program": s.Program.serializeJSON()}
	}
	return map[string]any{
		"type":    p.Name(),
		"inverse": []float64{p.Inverse.A, p.Inverse.B, p.Inverse.C, p.Inverse.D, p.Inverse.E, p.Inverse.F},
		"start":   []float64{p.Start.X, p.Start.Y},
		"end":     []float64{p.End.X, p.End.Y},
		"extend":  p.Extend.String(),
		"stops":   stops,
	}
}

// RadialGradient paints a multi-stop gradient between two radii around a
// center.
type RadialGradient struct {
	Inverse          vex.Matrix
	Center           vex.Point
	Radius0, Radius1 float64
	Stops            []GradientStop
	Extend           filter.Extend
}

// NewRadialGradient creates a radial gradient. transform maps gradient
// space into evaluation space.
func NewRadialGradient(transform vex.Matrix, center vex.Point, radius0, radius1 float64, stops []GradientStop, extend filter.Extend) *RadialGradient {
	return &RadialGradient{
		Inverse: transform.Invert(),
		Center:  center,
		Radius0: radius0,
		Radius1: radius1,
		Stops:   stops,
		Extend:  extend,
	}
}

func (p *RadialGradient) Name() string        { return "RadialGradient" }
func (p *RadialGradient) Children() []Program { return gradientChildren(p.Stops) }

func (p *RadialGradient) IsFullyTransparent() bool {
	return !anyChild(p.Children(), func(c Program) bool { return !c.IsFullyTransparent() })
}

func (p *RadialGradient) IsFullyOpaque() bool {
	return !anyChild(p.Children(), func(c Program) bool { return !c.IsFullyOpaque() })
}

func (p *RadialGradient) NeedsCentroid() bool { return true }
func (p *RadialGradient) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *RadialGradient) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *RadialGradient) Simplified() Program {
	stops, changed, uniform := simplifyStops(p.Stops)
	if len(stops) == 0 {
		return Transparent
	}
	if uniform {
		return stops[0].Program
	}
	if !changed {
		return p
	}
	out := *p
	out.Stops = stops
	return &out
}

func (p *RadialGradient) ratio(ctx *Context) float64 {
	local := p.Inverse.TransformPoint(ctx.Center())
	return (local.Sub(p.Center).Length() - p.Radius0) / (p.Radius1 - p.Radius0)
}

func (p *RadialGradient) Evaluate(ctx *Context) vex.Vec4 {
	return evaluateStops(p.Stops, p.Extend.Map(p.ratio(ctx)), ctx)
}

func (p *RadialGradient) compile(c *compiler) {
	blendLoc := c.newLabel()

	c.emit(uint32(OpComputeRadialGradientRatio) | uint32(p.Extend)<<8)
	m := p.Inverse
	c.emitF32(m.A, m.B, m.C, m.D, m.E, m.F)
	c.emitF32(p.Center.X, p.Center.Y, p.Radius0, p.Radius1)
	c.emit(uint32(len(p.Stops)))
	for _, s := range p.Stops {
		c.emitF32(s.Ratio)
		c.emitLabelRef(c.subprogram(s.Program))
	}
	c.emitLabelRef(blendLoc)

	c.defineLabel(blendLoc)
	c.emit(uint32(OpLinearBlend))
}

func (p *RadialGradient) serializeJSON() map[string]any {
	stops := make([]map[string]any, len(p.Stops))
	for i, s := range p.Stops {
		stops[i] = map[string]any{"ratio": s.Ratio, "program": s.Program.serializeJSON()}
	}
	return map[string]any{
		"type":    p.Name(),
		"inverse": []float64{p.Inverse.A, p.Inverse.B, p.Inverse.C, p.Inverse.D, p.Inverse.E, p.Inverse.F},
		"center":  []float64{p.Center.X, p.Center.Y},
		"radius0": p.Radius0,
		"radius1": p.Radius1,
		"extend":  p.Extend.String(),
		"stops":   stops,
	}
}

var (
	_ Program = (*LinearGradient)(nil)
	_ Program = (*RadialGradient)(nil)
)
