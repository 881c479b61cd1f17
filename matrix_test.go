package vex

import (
	"math"
	"testing"
)

func TestSignedScale(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want float64
	}{
		{"identity", Identity(), 1},
		{"uniform scale", Scale(3, 3), 3},
		{"non-uniform scale", Scale(2, 8), 4},
		{"rotation", Rotate(math.Pi / 3), 1},
		{"reflection", Scale(-1, 1), -1},
		{"reflected scale", Scale(-2, 2), -2},
		{"translation", Translate(5, -3), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.SignedScale()
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SignedScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translate(3, -2).Multiply(Rotate(0.7)).Multiply(Scale(2, 0.5))
	inv := m.Invert()
	p := Point{1.25, -4.5}
	back := inv.TransformPoint(m.TransformPoint(p))
	if !back.EqualsEpsilon(p, 1e-9) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestInvertSingular(t *testing.T) {
	if got := (Matrix{}).Invert(); !got.IsIdentity() {
		t.Errorf("singular inverse = %+v, want identity", got)
	}
}

func TestBoundsTransformed(t *testing.T) {
	b := NewBounds(0, 0, 2, 1)
	got := b.Transformed(Rotate(math.Pi / 2))
	want := NewBounds(-1, 0, 0, 2)
	if math.Abs(got.MinX-want.MinX) > 1e-12 || math.Abs(got.MaxY-want.MaxY) > 1e-12 {
		t.Errorf("transformed bounds = %+v, want %+v", got, want)
	}
}
