package render

import (
	"math"
	"testing"

	vex "github.com/gogpu/vex"
)

func almostEqual(a, b vex.Vec4, eps float64) bool {
	return a.EqualsEpsilon(b, eps)
}

func TestPorterDuffCompose(t *testing.T) {
	red := vex.Vec4{X: 1, W: 1}
	halfBlue := vex.Vec4{Z: 0.5, W: 0.5} // premultiplied

	tests := []struct {
		name    string
		compose ComposeType
		a, b    vex.Vec4
		want    vex.Vec4
	}{
		{"over opaque wins", ComposeOver, red, halfBlue, vex.Vec4{X: 1, W: 1}},
		{"over accumulates", ComposeOver, halfBlue, red, vex.Vec4{X: 0.5, Z: 0.5, W: 1}},
		{"in keeps backdrop alpha", ComposeIn, red, halfBlue, vex.Vec4{X: 0.5, W: 0.5}},
		{"out inverts backdrop", ComposeOut, red, halfBlue, vex.Vec4{X: 0.5, W: 0.5}},
		{"atop", ComposeAtop, red, halfBlue, vex.Vec4{X: 0.5, W: 0.5}},
		{"xor", ComposeXor, red, halfBlue, vex.Vec4{X: 0.5, W: 0.5}},
		{"plus", ComposePlus, halfBlue, halfBlue, vex.Vec4{Z: 1, W: 1}},
		{"in with transparent backdrop", ComposeIn, red, vex.Vec4{}, vex.Vec4{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BlendCompose(tt.compose, BlendNormal, tt.a, tt.b)
			if !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlusLighterSaturates(t *testing.T) {
	c := vex.Vec4{X: 0.8, Y: 0.8, Z: 0.8, W: 0.8}
	got := BlendCompose(ComposePlusLighter, BlendNormal, c, c)
	want := vex.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	if !almostEqual(got, want, 1e-12) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// Plain Plus does not clamp.
	got = BlendCompose(ComposePlus, BlendNormal, c, c)
	if math.Abs(got.X-1.6) > 1e-12 {
		t.Errorf("plus X = %v, want 1.6", got.X)
	}
}

func TestSeparableBlendModes(t *testing.T) {
	gray := vex.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 1}
	white := vex.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	black := vex.Vec4{W: 1}

	tests := []struct {
		name  string
		blend BlendType
		a, b  vex.Vec4
		wantX float64
	}{
		{"multiply with white is identity", BlendMultiply, gray, white, 0.5},
		{"multiply with black is black", BlendMultiply, gray, black, 0},
		{"screen with black is identity", BlendScreen, gray, black, 0.5},
		{"screen with white is white", BlendScreen, gray, white, 1},
		{"darken", BlendDarken, gray, white, 0.5},
		{"lighten", BlendLighten, gray, white, 1},
		{"difference", BlendDifference, gray, white, 0.5},
		{"exclusion", BlendExclusion, white, white, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Compose over an opaque backdrop isolates the blend result.
			got := BlendCompose(ComposeOver, tt.blend, tt.a, tt.b)
			if math.Abs(got.X-tt.wantX) > 1e-9 {
				t.Errorf("X = %v, want %v", got.X, tt.wantX)
			}
		})
	}
}

func TestHSLBlendLuminosity(t *testing.T) {
	// Luminosity of white onto opaque red takes white's luminosity with
	// red's hue; with full luminosity the result clips to white.
	red := vex.Vec4{X: 1, W: 1}
	white := vex.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	got := BlendCompose(ComposeOver, BlendLuminosity, white, red)
	if !almostEqual(got, white, 1e-9) {
		t.Errorf("got %+v, want white", got)
	}
}

func TestBlendPreservesAlphaFormula(t *testing.T) {
	a := vex.Vec4{X: 0.3, Y: 0.1, Z: 0, W: 0.6}
	b := vex.Vec4{X: 0.2, Y: 0.2, Z: 0.2, W: 0.4}
	for compose := ComposeOver; compose <= ComposePlusLighter; compose++ {
		fa, fb := composeCoefficients(compose, a.W, b.W)
		wantAlpha := fa*a.W + fb*b.W
		if compose == ComposePlusLighter && wantAlpha > 1 {
			wantAlpha = 1
		}
		got := BlendCompose(compose, BlendNormal, a, b)
		if math.Abs(got.W-wantAlpha) > 1e-12 {
			t.Errorf("%v alpha = %v, want %v", compose, got.W, wantAlpha)
		}
	}
}
