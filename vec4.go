package vex

import "math"

// Vec4 is a 4-component vector. The render-program evaluator uses it for
// RGBA colors on its value stack; barycentric and filter nodes use it as a
// general 4-vector.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// Add returns the component-wise sum.
func (v Vec4) Add(u Vec4) Vec4 {
	return Vec4{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z, W: v.W + u.W}
}

// Sub returns the component-wise difference.
func (v Vec4) Sub(u Vec4) Vec4 {
	return Vec4{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z, W: v.W - u.W}
}

// Mul returns the vector scaled by a scalar.
func (v Vec4) Mul(s float64) Vec4 {
	return Vec4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

// MulVec returns the component-wise product.
func (v Vec4) MulVec(u Vec4) Vec4 {
	return Vec4{X: v.X * u.X, Y: v.Y * u.Y, Z: v.Z * u.Z, W: v.W * u.W}
}

// Dot returns the 4D dot product.
func (v Vec4) Dot(u Vec4) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z + v.W*u.W
}

// Lerp performs linear interpolation between two vectors.
func (v Vec4) Lerp(u Vec4, t float64) Vec4 {
	return v.Add(u.Sub(v).Mul(t))
}

// Clamp01 clamps every component to [0, 1].
func (v Vec4) Clamp01() Vec4 {
	return Vec4{
		X: clamp01(v.X),
		Y: clamp01(v.Y),
		Z: clamp01(v.Z),
		W: clamp01(v.W),
	}
}

// EqualsEpsilon reports whether two vectors are within eps in every component.
func (v Vec4) EqualsEpsilon(u Vec4, eps float64) bool {
	return math.Abs(v.X-u.X) <= eps && math.Abs(v.Y-u.Y) <= eps &&
		math.Abs(v.Z-u.Z) <= eps && math.Abs(v.W-u.W) <= eps
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
