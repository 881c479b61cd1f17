package filter

import "testing"

func TestMapIntegerLiteralPatterns(t *testing.T) {
	// The literal patterns for size 4 over i = -8..7.
	tests := []struct {
		mode Extend
		want []int
	}{
		{ExtendPad, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 3, 3, 3, 3}},
		{ExtendRepeat, []int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}},
		{ExtendReflect, []int{0, 1, 2, 3, 3, 2, 1, 0, 0, 1, 2, 3, 3, 2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			for idx, want := range tt.want {
				i := idx - 8
				if got := tt.mode.MapInteger(i, 4); got != want {
					t.Errorf("MapInteger(%d, 4) = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestMapIntegerRepeatIdentity(t *testing.T) {
	// Repeat(size*k + r) == r for any integer k.
	for _, k := range []int{-3, -1, 0, 1, 7} {
		for r := 0; r < 5; r++ {
			if got := ExtendRepeat.MapInteger(5*k+r, 5); got != r {
				t.Errorf("Repeat(5*%d+%d) = %d, want %d", k, r, got, r)
			}
		}
	}
}

func TestMapAgreesWithMapIntegerAtBoundaries(t *testing.T) {
	// Real and integer variants agree where texels map to [0, 1):
	// Map(i/size) scaled back must land on MapInteger(i, size) for the
	// cell containing the coordinate.
	const size = 4
	for _, mode := range []Extend{ExtendPad, ExtendRepeat, ExtendReflect} {
		for i := -2 * size; i < 2*size; i++ {
			// Probe just inside cell i.
			u := (float64(i) + 0.25) / size
			mapped := mode.Map(u)
			cell := int(mapped * size)
			if cell == size {
				cell = size - 1
			}
			if got := mode.MapInteger(i, size); got != cell {
				t.Errorf("%v: cell of Map((%d+0.25)/4) = %d, MapInteger = %d", mode, i, cell, got)
			}
		}
	}
}

func TestMapReal(t *testing.T) {
	tests := []struct {
		mode Extend
		in   float64
		want float64
	}{
		{ExtendPad, -0.5, 0},
		{ExtendPad, 1.5, 1},
		{ExtendPad, 0.25, 0.25},
		{ExtendRepeat, 1.25, 0.25},
		{ExtendRepeat, -0.25, 0.75},
		{ExtendReflect, 1.25, 0.75},
		{ExtendReflect, -0.25, 0.25},
		{ExtendReflect, 2.25, 0.25},
	}
	for _, tt := range tests {
		if got := tt.mode.Map(tt.in); got != tt.want {
			t.Errorf("%v.Map(%v) = %v, want %v", tt.mode, tt.in, got, tt.want)
		}
	}
}
