package vex

import (
	"math"
	"testing"
)

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 0.04045, 0.2, 0.5, 0.9, 1} {
		back := LinearToSRGB(SRGBToLinear(v))
		if math.Abs(back-v) > 1e-12 {
			t.Errorf("round trip of %v = %v", v, back)
		}
	}
}

func TestOklabWhite(t *testing.T) {
	white := Vec4{X: 1, Y: 1, Z: 1, W: 1}
	lab := LinearSRGBToOklab(white)
	if math.Abs(lab.X-1) > 1e-3 || math.Abs(lab.Y) > 1e-3 || math.Abs(lab.Z) > 1e-3 {
		t.Errorf("oklab white = %+v, want (1, 0, 0)", lab)
	}
	back := OklabToLinearSRGB(lab)
	if !back.EqualsEpsilon(white, 1e-6) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestXYZRoundTrip(t *testing.T) {
	c := Vec4{X: 0.3, Y: 0.6, Z: 0.1, W: 0.8}
	back := XYZToLinearSRGB(LinearSRGBToXYZ(c))
	if !back.EqualsEpsilon(c, 1e-9) {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}

func TestXyYRoundTrip(t *testing.T) {
	c := Vec4{X: 0.25, Y: 0.5, Z: 0.125, W: 1}
	xyY := XYZToXyY(c)
	back := XyYToXYZ(xyY)
	if !back.EqualsEpsilon(c, 1e-12) {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}

func TestDisplayP3RoundTrip(t *testing.T) {
	c := Vec4{X: 0.2, Y: 0.7, Z: 0.4, W: 1}
	back := DisplayP3ToLinearSRGB(LinearSRGBToDisplayP3(c))
	if !back.EqualsEpsilon(c, 1e-6) {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}

func TestPremultiplyRoundTrip(t *testing.T) {
	c := Vec4{X: 0.5, Y: 0.25, Z: 1, W: 0.5}
	pm := PremultiplyVec4(c)
	want := Vec4{X: 0.25, Y: 0.125, Z: 0.5, W: 0.5}
	if !pm.EqualsEpsilon(want, 1e-12) {
		t.Errorf("premultiply = %+v, want %+v", pm, want)
	}
	if back := UnpremultiplyVec4(pm); !back.EqualsEpsilon(c, 1e-12) {
		t.Errorf("unpremultiply = %+v, want %+v", back, c)
	}
	if got := UnpremultiplyVec4(Vec4{}); got != (Vec4{}) {
		t.Errorf("unpremultiply of zero = %+v", got)
	}
}

func TestColorSpaceInfo(t *testing.T) {
	for cs := ColorSpaceXYZ; cs <= ColorSpaceOklab; cs++ {
		info := cs.Info()
		if cs == ColorSpaceLinearSRGB {
			if info.ToLinearSRGB != nil || info.FromLinearSRGB != nil {
				t.Errorf("%v: linear sRGB should have nil conversions", cs)
			}
			continue
		}
		if info.ToLinearSRGB == nil || info.FromLinearSRGB == nil {
			t.Errorf("%v: missing conversions", cs)
			continue
		}
		c := Vec4{X: 0.4, Y: 0.3, Z: 0.2, W: 1}
		back := info.ToLinearSRGB(info.FromLinearSRGB(c))
		if !back.EqualsEpsilon(c, 1e-5) {
			t.Errorf("%v round trip = %+v, want %+v", cs, back, c)
		}
	}
}
