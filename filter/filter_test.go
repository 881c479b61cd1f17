package filter

import (
	"math"
	"testing"

	vex "github.com/gogpu/vex"
)

func TestNewUnknownFilter(t *testing.T) {
	if _, err := New(Type(99)); err == nil {
		t.Fatal("expected error for unknown filter type")
	}
}

// Every kernel must integrate to one over its full support.
func TestEvaluateFullNormalization(t *testing.T) {
	for _, typ := range []Type{Box, Bilinear, MitchellNetravali} {
		t.Run(typ.String(), func(t *testing.T) {
			f := MustNew(typ)
			minOff, maxOff := f.CellOffsets()
			sum := 0.0
			for py := minOff; py <= maxOff; py++ {
				for px := minOff; px <= maxOff; px++ {
					sum += f.EvaluateFull(0, 0, px, py)
				}
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("kernel integral = %v, want 1", sum)
			}
		})
	}
}

func TestBilinearFullValues(t *testing.T) {
	f := MustNew(Bilinear)
	for _, px := range []int{-1, 0} {
		for _, py := range []int{-1, 0} {
			if got := f.EvaluateFull(0, 0, px, py); math.Abs(got-0.25) > 1e-12 {
				t.Errorf("EvaluateFull(0,0,%d,%d) = %v, want 0.25", px, py, got)
			}
		}
	}
	if got := f.EvaluateFull(0, 0, 1, 0); got != 0 {
		t.Errorf("out-of-support value = %v, want 0", got)
	}
}

// unitCellEdges returns the closed boundary of cell (px, py).
func unitCellEdges(px, py int) []vex.LinearEdge {
	x := float64(px)
	y := float64(py)
	return vex.EdgesFromPolygon([]vex.Point{
		{X: x, Y: y}, {X: x + 1, Y: y}, {X: x + 1, Y: y + 1}, {X: x, Y: y + 1},
	})
}

// The Green's-theorem evaluation over a full cell must reproduce the
// closed-form full-cell value for every kernel piece: this pins the line
// integral against the analytic indefinite integral.
func TestEvaluateClippedMatchesFullCell(t *testing.T) {
	for _, typ := range []Type{Box, Bilinear, MitchellNetravali} {
		t.Run(typ.String(), func(t *testing.T) {
			f := MustNew(typ)
			minOff, maxOff := f.CellOffsets()
			for py := minOff; py <= maxOff; py++ {
				for px := minOff; px <= maxOff; px++ {
					want := f.EvaluateFull(0, 0, px, py)
					got := f.EvaluateClippedEdges(unitCellEdges(px, py), 0, 0, px, py)
					if math.Abs(got-want) > 1e-6 {
						t.Errorf("cell (%d,%d): clipped = %v, full = %v", px, py, got, want)
					}
				}
			}
		})
	}
}

// Splitting a cell in half must split the integral exactly.
func TestEvaluateClippedAdditivity(t *testing.T) {
	f := MustNew(MitchellNetravali)
	left := vex.EdgesFromPolygon([]vex.Point{
		{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 1}, {X: 0, Y: 1},
	})
	right := vex.EdgesFromPolygon([]vex.Point{
		{X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 1},
	})
	sum := f.EvaluateClippedEdges(left, 0, 0, 0, 0) +
		f.EvaluateClippedEdges(right, 0, 0, 0, 0)
	want := f.EvaluateFull(0, 0, 0, 0)
	if math.Abs(sum-want) > 1e-9 {
		t.Errorf("split integrals sum to %v, want %v", sum, want)
	}
}

func TestFilterGeometry(t *testing.T) {
	tests := []struct {
		typ         Type
		radius      float64
		boundsShift int
		minOff      int
		maxOff      int
	}{
		{Box, 0.5, -1, 0, 0},
		{Bilinear, 1, 0, -1, 0},
		{MitchellNetravali, 2, 0, -2, 1},
	}
	for _, tt := range tests {
		f := MustNew(tt.typ)
		if f.Radius() != tt.radius {
			t.Errorf("%v radius = %v, want %v", tt.typ, f.Radius(), tt.radius)
		}
		if f.BoundsShift() != tt.boundsShift {
			t.Errorf("%v boundsShift = %d, want %d", tt.typ, f.BoundsShift(), tt.boundsShift)
		}
		minOff, maxOff := f.CellOffsets()
		if minOff != tt.minOff || maxOff != tt.maxOff {
			t.Errorf("%v offsets = [%d, %d], want [%d, %d]", tt.typ, minOff, maxOff, tt.minOff, tt.maxOff)
		}
	}
}
