package render

import (
	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
)

// Context carries the per-face evaluation state a program reads: the
// clipped face (nil means the entire bounds rectangle), its signed area,
// an optional centroid, and the bounds.
type Context struct {
	face        face.Clippable
	area        float64
	centroid    vex.Point
	hasCentroid bool
	bounds      vex.Bounds
}

// NewContext creates an evaluation context with a centroid.
func NewContext(f face.Clippable, area float64, centroid vex.Point, bounds vex.Bounds) *Context {
	return &Context{
		face:        f,
		area:        area,
		centroid:    centroid,
		hasCentroid: true,
		bounds:      bounds,
	}
}

// NewContextWithoutCentroid creates a context whose programs may only use
// the bounds center.
func NewContextWithoutCentroid(f face.Clippable, area float64, bounds vex.Bounds) *Context {
	return &Context{face: f, area: area, bounds: bounds}
}

// Face returns the clipped face, lazily constructing the full bounds
// rectangle when the face is nil.
func (c *Context) Face() face.Clippable {
	if c.face == nil {
		c.face = face.FullArea(c.bounds)
	}
	return c.face
}

// HasFace reports whether an explicit face was supplied.
func (c *Context) HasFace() bool {
	return c.face != nil
}

// Area returns the face's signed area.
func (c *Context) Area() float64 {
	return c.area
}

// Bounds returns the evaluation bounds.
func (c *Context) Bounds() vex.Bounds {
	return c.bounds
}

// HasCentroid reports whether a centroid was supplied.
func (c *Context) HasCentroid() bool {
	return c.hasCentroid
}

// CenterX returns the evaluation x position: the centroid when present,
// otherwise the bounds center.
func (c *Context) CenterX() float64 {
	if c.hasCentroid {
		return c.centroid.X
	}
	return (c.bounds.MinX + c.bounds.MaxX) / 2
}

// CenterY returns the evaluation y position.
func (c *Context) CenterY() float64 {
	if c.hasCentroid {
		return c.centroid.Y
	}
	return (c.bounds.MinY + c.bounds.MaxY) / 2
}

// Center returns the evaluation position as a point.
func (c *Context) Center() vex.Point {
	return vex.Point{X: c.CenterX(), Y: c.CenterY()}
}

// WriteBoundsCentroid stores the bounds center into out, for callers that
// need the fallback position regardless of the centroid.
func (c *Context) WriteBoundsCentroid(out *vex.Point) {
	out.X = (c.bounds.MinX + c.bounds.MaxX) / 2
	out.Y = (c.bounds.MinY + c.bounds.MaxY) / 2
}
