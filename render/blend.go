package render

import (
	"math"

	vex "github.com/gogpu/vex"
)

// ComposeType is a Porter-Duff compositing operator. The source color is
// the first (a) operand, the destination the second (b).
type ComposeType uint8

const (
	ComposeOver ComposeType = iota
	ComposeIn
	ComposeOut
	ComposeAtop
	ComposeXor
	ComposePlus
	ComposePlusLighter
)

// String returns a human-readable name for the compose operator.
func (c ComposeType) String() string {
	switch c {
	case ComposeOver:
		return "Over"
	case ComposeIn:
		return "In"
	case ComposeOut:
		return "Out"
	case ComposeAtop:
		return "Atop"
	case ComposeXor:
		return "Xor"
	case ComposePlus:
		return "Plus"
	case ComposePlusLighter:
		return "PlusLighter"
	default:
		return "Unknown"
	}
}

// BlendType is a separable or non-separable blend mode per the W3C
// compositing and blending specification.
type BlendType uint8

const (
	BlendNormal BlendType = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// String returns a human-readable name for the blend mode.
func (b BlendType) String() string {
	names := [...]string{
		"Normal", "Multiply", "Screen", "Overlay", "Darken", "Lighten",
		"ColorDodge", "ColorBurn", "HardLight", "SoftLight", "Difference",
		"Exclusion", "Hue", "Saturation", "Color", "Luminosity",
	}
	if int(b) < len(names) {
		return names[b]
	}
	return "Unknown"
}

// composeCoefficients returns the Porter-Duff (fa, fb) pair for the
// operator given the two alphas.
func composeCoefficients(c ComposeType, aAlpha, bAlpha float64) (fa, fb float64) {
	switch c {
	case ComposeOver:
		return 1, 1 - aAlpha
	case ComposeIn:
		return bAlpha, 0
	case ComposeOut:
		return 1 - bAlpha, 0
	case ComposeAtop:
		return bAlpha, 1 - aAlpha
	case ComposeXor:
		return 1 - bAlpha, 1 - aAlpha
	default: // Plus, PlusLighter
		return 1, 1
	}
}

// BlendCompose combines two premultiplied colors: the blend mode mixes the
// unpremultiplied RGB channels, the result is re-premultiplied with a's
// alpha, and the Porter-Duff operator composites it with b:
//
//	c     = fa*blended(a, b) + fb*b
//	alpha = fa*aAlpha + fb*bAlpha
//
// PlusLighter saturates every channel at 1.
func BlendCompose(compose ComposeType, blend BlendType, a, b vex.Vec4) vex.Vec4 {
	blended := a
	if blend != BlendNormal {
		au := vex.UnpremultiplyVec4(a)
		bu := vex.UnpremultiplyVec4(b)
		br, bg, bb := blendRGB(blend, au.X, au.Y, au.Z, bu.X, bu.Y, bu.Z)
		blended = vex.PremultiplyVec4(vex.Vec4{X: br, Y: bg, Z: bb, W: a.W})
	}

	fa, fb := composeCoefficients(compose, a.W, b.W)
	out := blended.Mul(fa).Add(b.Mul(fb))
	if compose == ComposePlusLighter {
		out = out.Clamp01()
	}
	return out
}

// blendRGB applies a blend mode to unpremultiplied RGB triples.
func blendRGB(blend BlendType, ar, ag, ab, br, bg, bb float64) (float64, float64, float64) {
	switch blend {
	case BlendHue:
		r, g, b := setSat(ar, ag, ab, sat(br, bg, bb))
		return setLum(r, g, b, lum(br, bg, bb))
	case BlendSaturation:
		r, g, b := setSat(br, bg, bb, sat(ar, ag, ab))
		return setLum(r, g, b, lum(br, bg, bb))
	case BlendColor:
		return setLum(ar, ag, ab, lum(br, bg, bb))
	case BlendLuminosity:
		return setLum(br, bg, bb, lum(ar, ag, ab))
	}
	return blendChannel(blend, ar, br), blendChannel(blend, ag, bg), blendChannel(blend, ab, bb)
}

// blendChannel applies a separable blend mode to one channel pair, with s
// the source and d the destination (backdrop) value.
func blendChannel(blend BlendType, s, d float64) float64 {
	switch blend {
	case BlendMultiply:
		return s * d
	case BlendScreen:
		return s + d - s*d
	case BlendOverlay:
		return blendChannel(BlendHardLight, d, s)
	case BlendDarken:
		return math.Min(s, d)
	case BlendLighten:
		return math.Max(s, d)
	case BlendColorDodge:
		if d == 0 {
			return 0
		}
		if s >= 1 {
			return 1
		}
		return math.Min(1, d/(1-s))
	case BlendColorBurn:
		if d >= 1 {
			return 1
		}
		if s == 0 {
			return 0
		}
		return 1 - math.Min(1, (1-d)/s)
	case BlendHardLight:
		if s <= 0.5 {
			return blendChannel(BlendMultiply, 2*s, d)
		}
		return blendChannel(BlendScreen, 2*s-1, d)
	case BlendSoftLight:
		if s <= 0.5 {
			return d - (1-2*s)*d*(1-d)
		}
		var dd float64
		if d <= 0.25 {
			dd = ((16*d-12)*d + 4) * d
		} else {
			dd = math.Sqrt(d)
		}
		return d + (2*s-1)*(dd-d)
	case BlendDifference:
		return math.Abs(s - d)
	case BlendExclusion:
		return s + d - 2*s*d
	default:
		return s
	}
}

// Non-separable blend helpers per the W3C specification, using BT.601
// luminance coefficients.

func lum(r, g, b float64) float64 {
	return 0.3*r + 0.59*g + 0.11*b
}

func sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

func setLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

func setSat(r, g, b, s float64) (float64, float64, float64) {
	cMin := min(r, g, b)
	cMax := max(r, g, b)
	if cMax <= cMin {
		return 0, 0, 0
	}
	scale := func(c float64) float64 {
		return (c - cMin) * s / (cMax - cMin)
	}
	return scale(r), scale(g), scale(b)
}
