package render

import (
	"math"

	vex "github.com/gogpu/vex"
)

// Stack composites its children back-to-front with source-over: the last
// child paints on top.
type Stack struct {
	Items []Program
}

// NewStack creates a stack program.
func NewStack(items ...Program) *Stack {
	return &Stack{Items: items}
}

func (p *Stack) Name() string        { return "Stack" }
func (p *Stack) Children() []Program { return p.Items }

func (p *Stack) IsFullyTransparent() bool {
	return !anyChild(p.Items, func(c Program) bool { return !c.IsFullyTransparent() })
}

func (p *Stack) IsFullyOpaque() bool {
	return anyChild(p.Items, Program.IsFullyOpaque)
}

func (p *Stack) NeedsCentroid() bool { return childrenNeedCentroid(p.Items) }
func (p *Stack) NeedsArea() bool     { return childrenNeedArea(p.Items) }
func (p *Stack) NeedsFace() bool     { return childrenNeedFace(p.Items) }

func (p *Stack) Simplified() Program {
	items, changed := simplifyAll(p.Items)

	// Drop transparent children and everything below a fully opaque one.
	kept := items[:0:len(items)]
	topOpaque := -1
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].IsFullyOpaque() {
			topOpaque = i
			break
		}
	}
	for i, item := range items {
		if topOpaque >= 0 && i < topOpaque {
			changed = true
			continue
		}
		if item.IsFullyTransparent() {
			changed = true
			continue
		}
		kept = append(kept, item)
	}

	switch len(kept) {
	case 0:
		return Transparent
	case 1:
		return kept[0]
	}

	// Fold runs of constant colors.
	if !anyChild(kept, func(c Program) bool { _, ok := c.(*Color); return !ok }) {
		out := vex.Vec4{}
		for _, item := range kept {
			out = BlendCompose(ComposeOver, BlendNormal, item.(*Color).Color, out)
		}
		return NewColor(out)
	}

	if !changed {
		return p
	}
	return NewStack(kept...)
}

func (p *Stack) Evaluate(ctx *Context) vex.Vec4 {
	out := vex.Vec4{}
	for _, item := range p.Items {
		out = BlendCompose(ComposeOver, BlendNormal, item.Evaluate(ctx), out)
	}
	return out
}

func (p *Stack) compile(c *compiler) {
	if len(p.Items) == 0 {
		Transparent.compile(c)
		return
	}
	p.Items[0].compile(c)
	for _, item := range p.Items[1:] {
		item.compile(c)
		c.emit(uint32(OpBlendCompose), uint32(ComposeOver)|uint32(BlendNormal)<<8)
	}
}

func (p *Stack) serializeJSON() map[string]any {
	children := make([]map[string]any, len(p.Items))
	for i, item := range p.Items {
		children[i] = item.serializeJSON()
	}
	return map[string]any{"type": p.Name(), "children": children}
}

// BlendComposeNode composites child A over/into child B with a Porter-Duff
// operator and a blend mode.
type BlendComposeNode struct {
	Compose ComposeType
	Blend   BlendType
	A, B    Program
}

// NewBlendCompose creates a blend-compose program; a is the source.
func NewBlendCompose(compose ComposeType, blend BlendType, a, b Program) *BlendComposeNode {
	return &BlendComposeNode{Compose: compose, Blend: blend, A: a, B: b}
}

func (p *BlendComposeNode) Name() string        { return "BlendCompose" }
func (p *BlendComposeNode) Children() []Program { return []Program{p.A, p.B} }

func (p *BlendComposeNode) IsFullyTransparent() bool {
	return p.A.IsFullyTransparent() && p.B.IsFullyTransparent()
}

func (p *BlendComposeNode) IsFullyOpaque() bool {
	if p.Compose == ComposeOver {
		return p.A.IsFullyOpaque() || p.B.IsFullyOpaque()
	}
	return false
}

func (p *BlendComposeNode) NeedsCentroid() bool { return childrenNeedCentroid(p.Children()) }
func (p *BlendComposeNode) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *BlendComposeNode) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *BlendComposeNode) Simplified() Program {
	a := p.A.Simplified()
	b := p.B.Simplified()

	ca, aConst := a.(*Color)
	cb, bConst := b.(*Color)
	if aConst && bConst {
		return NewColor(BlendCompose(p.Compose, p.Blend, ca.Color, cb.Color))
	}

	if p.Blend == BlendNormal {
		switch p.Compose {
		case ComposeOver:
			// Source-over with the normal blend is a stack.
			if a.IsFullyTransparent() {
				return b
			}
			if b.IsFullyTransparent() {
				return a
			}
			return NewStack(b, a).Simplified()
		case ComposeIn, ComposeOut:
			if a.IsFullyTransparent() {
				return Transparent
			}
		}
	}

	if a == p.A && b == p.B {
		return p
	}
	return NewBlendCompose(p.Compose, p.Blend, a, b)
}

func (p *BlendComposeNode) Evaluate(ctx *Context) vex.Vec4 {
	return BlendCompose(p.Compose, p.Blend, p.A.Evaluate(ctx), p.B.Evaluate(ctx))
}

func (p *BlendComposeNode) compile(c *compiler) {
	// The executor pops the source first: compile b, then a.
	p.B.compile(c)
	p.A.compile(c)
	c.emit(uint32(OpBlendCompose), uint32(p.Compose)|uint32(p.Blend)<<8)
}

func (p *BlendComposeNode) serializeJSON() map[string]any {
	return map[string]any{
		"type":    p.Name(),
		"compose": p.Compose.String(),
		"blend":   p.Blend.String(),
		"a":       p.A.serializeJSON(),
		"b":       p.B.serializeJSON(),
	}
}

// LinearBlend interpolates between two children along a direction:
// t = scaledNormal.p - offset, clamped to [0, 1]. Values outside (0, 1)
// evaluate only the winning child.
type LinearBlend struct {
	ScaledNormal vex.Point
	Offset       float64
	Zero, One    Program
}

// NewLinearBlend creates a linear blend program.
func NewLinearBlend(scaledNormal vex.Point, offset float64, zero, one Program) *LinearBlend {
	return &LinearBlend{ScaledNormal: scaledNormal, Offset: offset, Zero: zero, One: one}
}

func (p *LinearBlend) Name() string        { return "LinearBlend" }
func (p *LinearBlend) Children() []Program { return []Program{p.Zero, p.One} }

func (p *LinearBlend) IsFullyTransparent() bool {
	return p.Zero.IsFullyTransparent() && p.One.IsFullyTransparent()
}

func (p *LinearBlend) IsFullyOpaque() bool {
	return p.Zero.IsFullyOpaque() && p.One.IsFullyOpaque()
}

func (p *LinearBlend) NeedsCentroid() bool { return true }
func (p *LinearBlend) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *LinearBlend) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *LinearBlend) Simplified() Program {
	zero := p.Zero.Simplified()
	one := p.One.Simplified()
	if zero == one {
		return zero
	}
	if zero == p.Zero && one == p.One {
		return p
	}
	return NewLinearBlend(p.ScaledNormal, p.Offset, zero, one)
}

// ratio computes the raw blend parameter at the context position.
func (p *LinearBlend) ratio(ctx *Context) float64 {
	return p.ScaledNormal.Dot(ctx.Center()) - p.Offset
}

func (p *LinearBlend) Evaluate(ctx *Context) vex.Vec4 {
	t := p.ratio(ctx)
	if t <= 0 {
		return p.Zero.Evaluate(ctx)
	}
	if t >= 1 {
		return p.One.Evaluate(ctx)
	}
	return p.Zero.Evaluate(ctx).Mul(1 - t).Add(p.One.Evaluate(ctx).Mul(t))
}

func (p *LinearBlend) compile(c *compiler) {
	zeroLoc := c.subprogram(p.Zero)
	oneLoc := c.subprogram(p.One)
	blendLoc := c.newLabel()

	c.emit(uint32(OpComputeLinearBlendRatio))
	c.emitF32(p.ScaledNormal.X, p.ScaledNormal.Y, p.Offset)
	c.emitLabelRef(zeroLoc)
	c.emitLabelRef(oneLoc)
	c.emitLabelRef(blendLoc)

	c.defineLabel(blendLoc)
	c.emit(uint32(OpLinearBlend))
}

func (p *LinearBlend) serializeJSON() map[string]any {
	return map[string]any{
		"type":         p.Name(),
		"scaledNormal": []float64{p.ScaledNormal.X, p.ScaledNormal.Y},
		"offset":       p.Offset,
		"zero":         p.Zero.serializeJSON(),
		"one":          p.One.serializeJSON(),
	}
}

// RadialBlend interpolates between two children by distance from a
// transformed origin: t = (|inverse.p| - r0) / (r1 - r0).
type RadialBlend struct {
	// Inverse maps evaluation space into the blend's unit space.
	Inverse          vex.Matrix
	Radius0, Radius1 float64
	Zero, One        Program
}

// NewRadialBlend creates a radial blend program. transform maps the
// blend's unit space into evaluation space; it is inverted once here.
func NewRadialBlend(transform vex.Matrix, radius0, radius1 float64, zero, one Program) *RadialBlend {
	return &RadialBlend{
		Inverse: transform.Invert(),
		Radius0: radius0,
		Radius1: radius1,
		Zero:    zero,
		One:     one,
	}
}

func (p *RadialBlend) Name() string        { return "RadialBlend" }
func (p *RadialBlend) Children() []Program { return []Program{p.Zero, p.One} }

func (p *RadialBlend) IsFullyTransparent() bool {
	return p.Zero.IsFullyTransparent() && p.One.IsFullyTransparent()
}

func (p *RadialBlend) IsFullyOpaque() bool {
	return p.Zero.IsFullyOpaque() && p.One.IsFullyOpaque()
}

func (p *RadialBlend) NeedsCentroid() bool { return true }
func (p *RadialBlend) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *RadialBlend) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *RadialBlend) Simplified() Program {
	zero := p.Zero.Simplified()
	one := p.One.Simplified()
	if zero == one {
		return zero
	}
	if zero == p.Zero && one == p.One {
		return p
	}
	out := *p
	out.Zero = zero
	out.One = one
	return &out
}

func (p *RadialBlend) ratio(ctx *Context) float64 {
	local := p.Inverse.TransformPoint(ctx.Center())
	return (local.Length() - p.Radius0) / (p.Radius1 - p.Radius0)
}

func (p *RadialBlend) Evaluate(ctx *Context) vex.Vec4 {
	t := p.ratio(ctx)
	if t <= 0 {
		return p.Zero.Evaluate(ctx)
	}
	if t >= 1 {
		return p.One.Evaluate(ctx)
	}
	return p.Zero.Evaluate(ctx).Mul(1 - t).Add(p.One.Evaluate(ctx).Mul(t))
}

func (p *RadialBlend) compile(c *compiler) {
	zeroLoc := c.subprogram(p.Zero)
	oneLoc := c.subprogram(p.One)
	blendLoc := c.newLabel()

	c.emit(uint32(OpComputeRadialBlendRatio))
	m := p.Inverse
	c.emitF32(m.A, m.B, m.C, m.D, m.E, m.F, p.Radius0, p.Radius1)
	c.emitLabelRef(zeroLoc)
	c.emitLabelRef(oneLoc)
	c.emitLabelRef(blendLoc)

	c.defineLabel(blendLoc)
	c.emit(uint32(OpLinearBlend))
}

func (p *RadialBlend) serializeJSON() map[string]any {
	return map[string]any{
		"type":    p.Name(),
		"inverse": []float64{p.Inverse.A, p.Inverse.B, p.Inverse.C, p.Inverse.D, p.Inverse.E, p.Inverse.F},
		"radius0": p.Radius0,
		"radius1": p.Radius1,
		"zero":    p.Zero.serializeJSON(),
		"one":     p.One.serializeJSON(),
	}
}

// BarycentricBlend mixes three children by the barycentric weights of the
// evaluation position within a triangle.
type BarycentricBlend struct {
	PointA, PointB, PointC vex.Point
	A, B, C                Program
}

// NewBarycentricBlend creates a 2D barycentric blend program.
func NewBarycentricBlend(pa, pb, pc vex.Point, a, b, c Program) *BarycentricBlend {
	return &BarycentricBlend{PointA: pa, PointB: pb, PointC: pc, A: a, B: b, C: c}
}

func (p *BarycentricBlend) Name() string        { return "BarycentricBlend" }
func (p *BarycentricBlend) Children() []Program { return []Program{p.A, p.B, p.C} }

func (p *BarycentricBlend) IsFullyTransparent() bool {
	return !anyChild(p.Children(), func(c Program) bool { return !c.IsFullyTransparent() })
}

func (p *BarycentricBlend) IsFullyOpaque() bool {
	return p.A.IsFullyOpaque() && p.B.IsFullyOpaque() && p.C.IsFullyOpaque()
}

func (p *BarycentricBlend) NeedsCentroid() bool { return true }
func (p *BarycentricBlend) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *BarycentricBlend) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *BarycentricBlend) Simplified() Program {
	a := p.A.Simplified()
	b := p.B.Simplified()
	c := p.C.Simplified()
	if a == b && b == c {
		return a
	}
	if a == p.A && b == p.B && c == p.C {
		return p
	}
	return NewBarycentricBlend(p.PointA, p.PointB, p.PointC, a, b, c)
}

// barycentricWeights returns the (possibly negative) weights of pt with
// respect to the triangle. A degenerate triangle weights everything onto
// vertex A.
func barycentricWeights(pa, pb, pc, pt vex.Point) (wa, wb, wc float64) {
	det := (pb.Y-pc.Y)*(pa.X-pc.X) + (pc.X-pb.X)*(pa.Y-pc.Y)
	if math.Abs(det) < 1e-12 {
		return 1, 0, 0
	}
	wa = ((pb.Y-pc.Y)*(pt.X-pc.X) + (pc.X-pb.X)*(pt.Y-pc.Y)) / det
	wb = ((pc.Y-pa.Y)*(pt.X-pc.X) + (pa.X-pc.X)*(pt.Y-pc.Y)) / det
	wc = 1 - wa - wb
	return wa, wb, wc
}

func (p *BarycentricBlend) Evaluate(ctx *Context) vex.Vec4 {
	wa, wb, wc := barycentricWeights(p.PointA, p.PointB, p.PointC, ctx.Center())
	return p.A.Evaluate(ctx).Mul(wa).
		Add(p.B.Evaluate(ctx).Mul(wb)).
		Add(p.C.Evaluate(ctx).Mul(wc))
}

func (p *BarycentricBlend) compile(c *compiler) {
	p.A.compile(c)
	p.B.compile(c)
	p.C.compile(c)
	c.emit(uint32(OpBarycentricBlend))
	c.emitF32(p.PointA.X, p.PointA.Y, p.PointB.X, p.PointB.Y, p.PointC.X, p.PointC.Y)
}

func (p *BarycentricBlend) serializeJSON() map[string]any {
	return map[string]any{
		"type":   p.Name(),
		"pointA": []float64{p.PointA.X, p.PointA.Y},
		"pointB": []float64{p.PointB.X, p.PointB.Y},
		"pointC": []float64{p.PointC.X, p.PointC.Y},
		"a":      p.A.serializeJSON(),
		"b":      p.B.serializeJSON(),
		"c":      p.C.serializeJSON(),
	}
}

// BarycentricPerspectiveBlend mixes three children by perspective-correct
// barycentric weights: the planar weights are divided by each vertex's
// depth and renormalized.
type BarycentricPerspectiveBlend struct {
	PointA, PointB, PointC vex.Point
	ZA, ZB, ZC             float64
	A, B, C                Program
}

// NewBarycentricPerspectiveBlend creates a perspective-correct
// barycentric blend program. Depths must be positive.
func NewBarycentricPerspectiveBlend(pa, pb, pc vex.Point, za, zb, zc float64, a, b, c Program) *BarycentricPerspectiveBlend {
	return &BarycentricPerspectiveBlend{
		PointA: pa, PointB: pb, PointC: pc,
		ZA: za, ZB: zb, ZC: zc,
		A: a, B: b, C: c,
	}
}

func (p *BarycentricPerspectiveBlend) Name() string        { return "BarycentricPerspectiveBlend" }
func (p *BarycentricPerspectiveBlend) Children() []Program { return []Program{p.A, p.B, p.C} }

func (p *BarycentricPerspectiveBlend) IsFullyTransparent() bool {
	return !anyChild(p.Children(), func(c Program) bool { return !c.IsFullyTransparent() })
}

func (p *BarycentricPerspectiveBlend) IsFullyOpaque() bool {
	return p.A.IsFullyOpaque() && p.B.IsFullyOpaque() && p.C.IsFullyOpaque()
}

func (p *BarycentricPerspectiveBlend) NeedsCentroid() bool { return true }
func (p *BarycentricPerspectiveBlend) NeedsArea() bool     { return childrenNeedArea(p.Children()) }
func (p *BarycentricPerspectiveBlend) NeedsFace() bool     { return childrenNeedFace(p.Children()) }

func (p *BarycentricPerspectiveBlend) Simplified() Program {
	a := p.A.Simplified()
	b := p.B.Simplified()
	c := p.C.Simplified()
	if a == b && b == c {
		return a
	}
	if a == p.A && b == p.B && c == p.C {
		return p
	}
	out := *p
	out.A, out.B, out.C = a, b, c
	return &out
}

// perspectiveWeights divides planar weights by depth and renormalizes.
func perspectiveWeights(wa, wb, wc, za, zb, zc float64) (float64, float64, float64) {
	wa /= za
	wb /= zb
	wc /= zc
	sum := wa + wb + wc
	if math.Abs(sum) < 1e-12 {
		return 1, 0, 0
	}
	return wa / sum, wb / sum, wc / sum
}

func (p *BarycentricPerspectiveBlend) Evaluate(ctx *Context) vex.Vec4 {
	wa, wb, wc := barycentricWeights(p.PointA, p.PointB, p.PointC, ctx.Center())
	wa, wb, wc = perspectiveWeights(wa, wb, wc, p.ZA, p.ZB, p.ZC)
	return p.A.Evaluate(ctx).Mul(wa).
		Add(p.B.Evaluate(ctx).Mul(wb)).
		Add(p.C.Evaluate(ctx).Mul(wc))
}

func (p *BarycentricPerspectiveBlend) compile(c *compiler) {
	p.A.compile(c)
	p.B.compile(c)
	p.C.compile(c)
	c.emit(uint32(OpBarycentricPerspectiveBlend))
	c.emitF32(
		p.PointA.X, p.PointA.Y, p.PointB.X, p.PointB.Y, p.PointC.X, p.PointC.Y,
		p.ZA, p.ZB, p.ZC,
	)
}

func (p *BarycentricPerspectiveBlend) serializeJSON() map[string]any {
	return map[string]any{
		"type":   p.Name(),
		"pointA": []float64{p.PointA.X, p.PointA.Y},
		"pointB": []float64{p.PointB.X, p.PointB.Y},
		"pointC": []float64{p.PointC.X, p.PointC.Y},
		"depths": []float64{p.ZA, p.ZB, p.ZC},
		"a":      p.A.serializeJSON(),
		"b":      p.B.serializeJSON(),
		"c":      p.C.serializeJSON(),
	}
}

var (
	_ Program = (*Stack)(nil)
	_ Program = (*BlendComposeNode)(nil)
	_ Program = (*LinearBlend)(nil)
	_ Program = (*RadialBlend)(nil)
	_ Program = (*BarycentricBlend)(nil)
	_ Program = (*BarycentricPerspectiveBlend)(nil)
)
