package render

import (
	"fmt"

	vex "github.com/gogpu/vex"
)

// Color is a constant premultiplied color program.
type Color struct {
	Color vex.Vec4
}

// NewColor creates a constant color program.
func NewColor(c vex.Vec4) *Color {
	return &Color{Color: c}
}

// Transparent is the constant fully-transparent program, the identity for
// stacking and the result of collapsing transparent subtrees.
var Transparent = NewColor(vex.Vec4{})

func (p *Color) Name() string             { return "Color" }
func (p *Color) Children() []Program      { return nil }
func (p *Color) IsFullyTransparent() bool { return p.Color == (vex.Vec4{}) }
func (p *Color) IsFullyOpaque() bool      { return p.Color.W == 1 }
func (p *Color) NeedsCentroid() bool      { return false }
func (p *Color) NeedsArea() bool          { return false }
func (p *Color) NeedsFace() bool          { return false }
func (p *Color) Simplified() Program      { return p }

func (p *Color) Evaluate(ctx *Context) vex.Vec4 {
	return p.Color
}

func (p *Color) compile(c *compiler) {
	c.emit(uint32(OpPushColor))
	c.emitF32(p.Color.X, p.Color.Y, p.Color.Z, p.Color.W)
}

func (p *Color) serializeJSON() map[string]any {
	return map[string]any{
		"type":  p.Name(),
		"red":   p.Color.X,
		"green": p.Color.Y,
		"blue":  p.Color.Z,
		"alpha": p.Color.W,
	}
}

// Alpha scales its child's premultiplied color by a constant opacity.
type Alpha struct {
	Child Program
	Alpha float64
}

// NewAlpha creates an opacity program.
func NewAlpha(child Program, alpha float64) *Alpha {
	return &Alpha{Child: child, Alpha: alpha}
}

func (p *Alpha) Name() string             { return "Alpha" }
func (p *Alpha) Children() []Program      { return []Program{p.Child} }
func (p *Alpha) IsFullyTransparent() bool { return p.Alpha <= 0 || p.Child.IsFullyTransparent() }
func (p *Alpha) IsFullyOpaque() bool      { return p.Alpha >= 1 && p.Child.IsFullyOpaque() }
func (p *Alpha) NeedsCentroid() bool      { return p.Child.NeedsCentroid() }
func (p *Alpha) NeedsArea() bool          { return p.Child.NeedsArea() }
func (p *Alpha) NeedsFace() bool          { return p.Child.NeedsFace() }

func (p *Alpha) Simplified() Program {
	child := p.Child.Simplified()
	if p.Alpha <= 0 || child.IsFullyTransparent() {
		return Transparent
	}
	if p.Alpha >= 1 {
		return child
	}
	if color, ok := child.(*Color); ok {
		return NewColor(color.Color.Mul(p.Alpha))
	}
	if child == p.Child {
		return p
	}
	return NewAlpha(child, p.Alpha)
}

func (p *Alpha) Evaluate(ctx *Context) vex.Vec4 {
	return p.Child.Evaluate(ctx).Mul(p.Alpha)
}

func (p *Alpha) compile(c *compiler) {
	p.Child.compile(c)
	c.emit(uint32(OpAlpha))
	c.emitF32(p.Alpha)
}

func (p *Alpha) serializeJSON() map[string]any {
	return map[string]any{
		"type":  p.Name(),
		"alpha": p.Alpha,
		"child": p.Child.serializeJSON(),
	}
}

// Convert identifies a stack-top color conversion.
type Convert uint8

const (
	ConvertPremultiply Convert = iota
	ConvertUnpremultiply
	ConvertSRGBToLinearSRGB
	ConvertLinearSRGBToSRGB
	ConvertDisplayP3ToLinearSRGB
	ConvertLinearSRGBToDisplayP3
	ConvertOklabToLinearSRGB
	ConvertLinearSRGBToOklab
)

// String returns a human-readable name for the conversion.
func (cv Convert) String() string {
	names := [...]string{
		"Premultiply", "Unpremultiply",
		"SRGBToLinearSRGB", "LinearSRGBToSRGB",
		"DisplayP3ToLinearSRGB", "LinearSRGBToDisplayP3",
		"OklabToLinearSRGB", "LinearSRGBToOklab",
	}
	if int(cv) < len(names) {
		return names[cv]
	}
	return "Unknown"
}

// apply runs the conversion on one color.
func (cv Convert) apply(c vex.Vec4) vex.Vec4 {
	switch cv {
	case ConvertPremultiply:
		return vex.PremultiplyVec4(c)
	case ConvertUnpremultiply:
		return vex.UnpremultiplyVec4(c)
	case ConvertSRGBToLinearSRGB:
		return vex.SRGBToLinearSRGB(c)
	case ConvertLinearSRGBToSRGB:
		return vex.LinearSRGBToSRGB(c)
	case ConvertDisplayP3ToLinearSRGB:
		return vex.DisplayP3ToLinearSRGB(c)
	case ConvertLinearSRGBToDisplayP3:
		return vex.LinearSRGBToDisplayP3(c)
	case ConvertOklabToLinearSRGB:
		return vex.OklabToLinearSRGB(c)
	case ConvertLinearSRGBToOklab:
		return vex.LinearSRGBToOklab(c)
	default:
		return c
	}
}

// opcode maps the conversion to its instruction opcode.
func (cv Convert) opcode() Opcode {
	return Opcode(uint8(OpPremultiply) + uint8(cv))
}

// ColorConvert applies a color-space conversion or alpha (un)premultiply
// to its child's output.
type ColorConvert struct {
	Child   Program
	Convert Convert
}

// NewColorConvert creates a conversion program.
func NewColorConvert(child Program, convert Convert) *ColorConvert {
	return &ColorConvert{Child: child, Convert: convert}
}

// Convenience constructors for the conversion nodes.
func NewPremultiply(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertPremultiply)
}
func NewUnpremultiply(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertUnpremultiply)
}
func NewSRGBToLinearSRGB(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertSRGBToLinearSRGB)
}
func NewLinearSRGBToSRGB(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertLinearSRGBToSRGB)
}
func NewDisplayP3ToLinearSRGB(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertDisplayP3ToLinearSRGB)
}
func NewLinearSRGBToDisplayP3(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertLinearSRGBToDisplayP3)
}
func NewOklabToLinearSRGB(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertOklabToLinearSRGB)
}
func NewLinearSRGBToOklab(child Program) *ColorConvert {
	return NewColorConvert(child, ConvertLinearSRGBToOklab)
}

func (p *ColorConvert) Name() string             { return p.Convert.String() }
func (p *ColorConvert) Children() []Program      { return []Program{p.Child} }
func (p *ColorConvert) IsFullyTransparent() bool { return p.Child.IsFullyTransparent() }
func (p *ColorConvert) IsFullyOpaque() bool      { return p.Child.IsFullyOpaque() }
func (p *ColorConvert) NeedsCentroid() bool      { return p.Child.NeedsCentroid() }
func (p *ColorConvert) NeedsArea() bool          { return p.Child.NeedsArea() }
func (p *ColorConvert) NeedsFace() bool          { return p.Child.NeedsFace() }

func (p *ColorConvert) Simplified() Program {
	child := p.Child.Simplified()
	if child.IsFullyTransparent() {
		return Transparent
	}
	if color, ok := child.(*Color); ok {
		return NewColor(p.Convert.apply(color.Color))
	}
	if child == p.Child {
		return p
	}
	return NewColorConvert(child, p.Convert)
}

func (p *ColorConvert) Evaluate(ctx *Context) vex.Vec4 {
	return p.Convert.apply(p.Child.Evaluate(ctx))
}

func (p *ColorConvert) compile(c *compiler) {
	p.Child.compile(c)
	c.emit(uint32(p.Convert.opcode()))
}

func (p *ColorConvert) serializeJSON() map[string]any {
	return map[string]any{
		"type":  p.Name(),
		"child": p.Child.serializeJSON(),
	}
}

// FilterMatrix applies a 4x5 color matrix (4x4 plus a bias column) to the
// child's output.
type FilterMatrix struct {
	Child  Program
	Matrix [20]float64
}

// NewFilterMatrix creates a color-matrix filter program. The matrix is in
// row-major order; columns map (R, G, B, A, 1).
func NewFilterMatrix(child Program, matrix [20]float64) *FilterMatrix {
	return &FilterMatrix{Child: child, Matrix: matrix}
}

func (p *FilterMatrix) Name() string             { return "Filter" }
func (p *FilterMatrix) Children() []Program      { return []Program{p.Child} }
func (p *FilterMatrix) IsFullyTransparent() bool { return false }
func (p *FilterMatrix) IsFullyOpaque() bool      { return false }
func (p *FilterMatrix) NeedsCentroid() bool      { return p.Child.NeedsCentroid() }
func (p *FilterMatrix) NeedsArea() bool          { return p.Child.NeedsArea() }
func (p *FilterMatrix) NeedsFace() bool          { return p.Child.NeedsFace() }

func (p *FilterMatrix) apply(c vex.Vec4) vex.Vec4 {
	m := &p.Matrix
	return vex.Vec4{
		X: m[0]*c.X + m[1]*c.Y + m[2]*c.Z + m[3]*c.W + m[4],
		Y: m[5]*c.X + m[6]*c.Y + m[7]*c.Z + m[8]*c.W + m[9],
		Z: m[10]*c.X + m[11]*c.Y + m[12]*c.Z + m[13]*c.W + m[14],
		W: m[15]*c.X + m[16]*c.Y + m[17]*c.Z + m[18]*c.W + m[19],
	}
}

func (p *FilterMatrix) Simplified() Program {
	child := p.Child.Simplified()
	if color, ok := child.(*Color); ok {
		return NewColor(p.apply(color.Color))
	}
	if child == p.Child {
		return p
	}
	return NewFilterMatrix(child, p.Matrix)
}

func (p *FilterMatrix) Evaluate(ctx *Context) vex.Vec4 {
	return p.apply(p.Child.Evaluate(ctx))
}

func (p *FilterMatrix) compile(c *compiler) {
	p.Child.compile(c)
	c.emit(uint32(OpFilterMatrix))
	c.emitF32(p.Matrix[:]...)
}

func (p *FilterMatrix) serializeJSON() map[string]any {
	return map[string]any{
		"type":   p.Name(),
		"matrix": p.Matrix[:],
		"child":  p.Child.serializeJSON(),
	}
}

var (
	_ Program = (*Color)(nil)
	_ Program = (*Alpha)(nil)
	_ Program = (*ColorConvert)(nil)
	_ Program = (*FilterMatrix)(nil)
)

// formatProgram is used by debug logging.
func formatProgram(p Program) string {
	return fmt.Sprintf("%s(children=%d)", p.Name(), len(p.Children()))
}
