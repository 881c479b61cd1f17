package render

import (
	"math"

	vex "github.com/gogpu/vex"
)

// NormalDebug visualizes a normal-producing child program by remapping
// component ranges [-1, 1] to [0, 1] with full alpha.
type NormalDebug struct {
	Child Program
}

// NewNormalDebug creates a normal-visualization program.
func NewNormalDebug(child Program) *NormalDebug {
	return &NormalDebug{Child: child}
}

func (p *NormalDebug) Name() string             { return "NormalDebug" }
func (p *NormalDebug) Children() []Program      { return []Program{p.Child} }
func (p *NormalDebug) IsFullyTransparent() bool { return false }
func (p *NormalDebug) IsFullyOpaque() bool      { return true }
func (p *NormalDebug) NeedsCentroid() bool      { return p.Child.NeedsCentroid() }
func (p *NormalDebug) NeedsArea() bool          { return p.Child.NeedsArea() }
func (p *NormalDebug) NeedsFace() bool          { return p.Child.NeedsFace() }

func (p *NormalDebug) Simplified() Program {
	child := p.Child.Simplified()
	if child == p.Child {
		return p
	}
	return NewNormalDebug(child)
}

// normalDebugColor remaps a normal vector to a visualization color.
func normalDebugColor(n vex.Vec4) vex.Vec4 {
	return vex.Vec4{
		X: (n.X + 1) / 2,
		Y: (n.Y + 1) / 2,
		Z: (n.Z + 1) / 2,
		W: 1,
	}
}

func (p *NormalDebug) Evaluate(ctx *Context) vex.Vec4 {
	return normalDebugColor(p.Child.Evaluate(ctx))
}

func (p *NormalDebug) compile(c *compiler) {
	p.Child.compile(c)
	c.emit(uint32(OpNormalDebug))
}

func (p *NormalDebug) serializeJSON() map[string]any {
	return map[string]any{"type": p.Name(), "child": p.Child.serializeJSON()}
}

// Light is one directional light for Phong shading. The direction points
// from the surface toward the light and must be normalized; W is unused.
type Light struct {
	Direction vex.Vec4
	Color     vex.Vec4
}

// Phong shades with the Blinn-Phong model: children produce the surface
// normal and the ambient, diffuse and specular material colors. The view
// direction is fixed at +z.
type Phong struct {
	Shininess float64
	Lights    []Light

	Normal   Program
	Ambient  Program
	Diffuse  Program
	Specular Program
}

// NewPhong creates a Phong shading program.
func NewPhong(shininess float64, lights []Light, normal, ambient, diffuse, specular Program) *Phong {
	return &Phong{
		Shininess: shininess,
		Lights:    lights,
		Normal:    normal,
		Ambient:   ambient,
		Diffuse:   diffuse,
		Specular:  specular,
	}
}

func (p *Phong) Name() string { return "Phong" }

func (p *Phong) Children() []Program {
	return []Program{p.Normal, p.Ambient, p.Diffuse, p.Specular}
}

func (p *Phong) IsFullyTransparent() bool { return false }
func (p *Phong) IsFullyOpaque() bool      { return false }
func (p *Phong) NeedsCentroid() bool      { return childrenNeedCentroid(p.Children()) }
func (p *Phong) NeedsArea() bool          { return childrenNeedArea(p.Children()) }
func (p *Phong) NeedsFace() bool          { return childrenNeedFace(p.Children()) }

func (p *Phong) Simplified() Program {
	children, changed := simplifyAll(p.Children())
	if !changed {
		return p
	}
	out := *p
	out.Normal, out.Ambient, out.Diffuse, out.Specular = children[0], children[1], children[2], children[3]
	return &out
}

// phongShade combines material colors under the lights for a normal.
func phongShade(shininess float64, lights []Light, normal, ambient, diffuse, specular vex.Vec4) vex.Vec4 {
	out := ambient
	n := vex.Vec4{X: normal.X, Y: normal.Y, Z: normal.Z}
	view := vex.Vec4{Z: 1}

	for _, light := range lights {
		l := light.Direction
		nDotL := n.X*l.X + n.Y*l.Y + n.Z*l.Z
		if nDotL <= 0 {
			continue
		}
		out = out.Add(diffuse.MulVec(light.Color).Mul(nDotL))

		// Halfway vector for the Blinn specular term.
		h := vex.Vec4{X: l.X + view.X, Y: l.Y + view.Y, Z: l.Z + view.Z}
		hLen := math.Sqrt(h.X*h.X + h.Y*h.Y + h.Z*h.Z)
		if hLen == 0 {
			continue
		}
		nDotH := (n.X*h.X + n.Y*h.Y + n.Z*h.Z) / hLen
		if nDotH > 0 {
			out = out.Add(specular.MulVec(light.Color).Mul(math.Pow(nDotH, shininess)))
		}
	}
	out.W = ambient.W
	return out
}

func (p *Phong) Evaluate(ctx *Context) vex.Vec4 {
	return phongShade(
		p.Shininess, p.Lights,
		p.Normal.Evaluate(ctx),
		p.Ambient.Evaluate(ctx),
		p.Diffuse.Evaluate(ctx),
		p.Specular.Evaluate(ctx),
	)
}

func (p *Phong) compile(c *compiler) {
	p.Normal.compile(c)
	p.Ambient.compile(c)
	p.Diffuse.compile(c)
	p.Specular.compile(c)
	c.emit(uint32(OpPhong), uint32(len(p.Lights)))
	c.emitF32(p.Shininess)
	for _, l := range p.Lights {
		c.emitF32(l.Direction.X, l.Direction.Y, l.Direction.Z)
		c.emitF32(l.Color.X, l.Color.Y, l.Color.Z, l.Color.W)
	}
}

func (p *Phong) serializeJSON() map[string]any {
	lights := make([]map[string]any, len(p.Lights))
	for i, l := range p.Lights {
		lights[i] = map[string]any{
			"direction": []float64{l.Direction.X, l.Direction.Y, l.Direction.Z},
			"color":     []float64{l.Color.X, l.Color.Y, l.Color.Z, l.Color.W},
		}
	}
	return map[string]any{
		"type":      p.Name(),
		"shininess": p.Shininess,
		"lights":    lights,
		"normal":    p.Normal.serializeJSON(),
		"ambient":   p.Ambient.serializeJSON(),
		"diffuse":   p.Diffuse.serializeJSON(),
		"specular":  p.Specular.serializeJSON(),
	}
}

var (
	_ Program = (*NormalDebug)(nil)
	_ Program = (*Phong)(nil)
)
