package vex

import "math"

// Bounds is an axis-aligned rectangle in face space.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns an inverted rectangle suitable as the identity for
// union operations.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// NewBounds creates a rectangle from its extents.
func NewBounds(minX, minY, maxX, maxY float64) Bounds {
	return Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// IsEmpty returns true if the rectangle has no area.
func (b Bounds) IsEmpty() bool {
	return b.MinX >= b.MaxX || b.MinY >= b.MaxY
}

// Width returns the width of the rectangle, or 0 when empty.
func (b Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the height of the rectangle, or 0 when empty.
func (b Bounds) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Area returns the rectangle's area, or 0 when empty.
func (b Bounds) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the rectangle's center point.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Union returns the smallest rectangle containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Intersection returns the overlap of b and other; the result may be empty.
func (b Bounds) Intersection(other Bounds) Bounds {
	return Bounds{
		MinX: math.Max(b.MinX, other.MinX),
		MinY: math.Max(b.MinY, other.MinY),
		MaxX: math.Min(b.MaxX, other.MaxX),
		MaxY: math.Min(b.MaxY, other.MaxY),
	}
}

// Intersects reports whether b and other overlap with positive area.
func (b Bounds) Intersects(other Bounds) bool {
	return !b.Intersection(other).IsEmpty()
}

// UnionPoint expands the rectangle to include the point.
func (b Bounds) UnionPoint(p Point) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X),
		MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// ContainsPoint reports whether the point lies inside or on the boundary.
func (b Bounds) ContainsPoint(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Dilated returns the rectangle expanded by amount on every side.
func (b Bounds) Dilated(amount float64) Bounds {
	return Bounds{
		MinX: b.MinX - amount,
		MinY: b.MinY - amount,
		MaxX: b.MaxX + amount,
		MaxY: b.MaxY + amount,
	}
}

// RoundedOut returns the rectangle with its extents rounded outward to
// integers.
func (b Bounds) RoundedOut() Bounds {
	return Bounds{
		MinX: math.Floor(b.MinX),
		MinY: math.Floor(b.MinY),
		MaxX: math.Ceil(b.MaxX),
		MaxY: math.Ceil(b.MaxY),
	}
}

// Corners returns the four corners in counter-clockwise order starting at
// (MinX, MinY).
func (b Bounds) Corners() [4]Point {
	return [4]Point{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	}
}

// Transformed returns the axis-aligned bound of the transformed corners.
func (b Bounds) Transformed(m Matrix) Bounds {
	out := EmptyBounds()
	for _, c := range b.Corners() {
		out = out.UnionPoint(m.TransformPoint(c))
	}
	return out
}
