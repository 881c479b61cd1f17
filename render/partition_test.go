package render

import (
	"math"
	"testing"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

func partitionBounds() vex.Bounds { return vex.NewBounds(0, 0, 10, 10) }

func totalArea(rfs []RenderableFace) float64 {
	sum := 0.0
	for _, rf := range rfs {
		sum += rf.Face.Area()
	}
	return sum
}

func TestPartitionSolidPath(t *testing.T) {
	program := NewPathBoolean(unitSquarePath(), red(), Transparent)
	rfs := Partition(program, partitionBounds(), PartitionOptions{})

	if len(rfs) != 1 {
		t.Fatalf("got %d renderable faces, want 1", len(rfs))
	}
	if got := rfs[0].Face.Area(); math.Abs(got-1) > 1e-6 {
		t.Errorf("face area = %v, want 1", got)
	}
	c, ok := rfs[0].Program.(*Color)
	if !ok {
		t.Fatalf("program = %T, want *Color", rfs[0].Program)
	}
	if !c.Color.EqualsEpsilon(vex.Vec4{X: 1, W: 1}, 1e-12) {
		t.Errorf("program color = %+v", c.Color)
	}
}

func TestPartitionDropsTransparentRegions(t *testing.T) {
	program := NewPathBoolean(unitSquarePath(), Transparent, Transparent)
	rfs := Partition(program, partitionBounds(), PartitionOptions{})
	if len(rfs) != 0 {
		t.Errorf("got %d faces, want 0", len(rfs))
	}
}

func TestPartitionNestedPaths(t *testing.T) {
	outer := NewPath(FillNonZero, [][]vex.Point{{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	}})
	inner := NewPath(FillNonZero, [][]vex.Point{{
		{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3},
	}})

	program := NewPathBoolean(outer,
		NewPathBoolean(inner, red(), blue()),
		Transparent)
	rfs := Partition(program, partitionBounds(), PartitionOptions{})

	areas := map[string]float64{}
	for _, rf := range rfs {
		c, ok := rf.Program.(*Color)
		if !ok {
			t.Fatalf("unresolved program %T", rf.Program)
		}
		switch {
		case c.Color.X == 1:
			areas["red"] += rf.Face.Area()
		case c.Color.Z == 1:
			areas["blue"] += rf.Face.Area()
		}
	}
	if math.Abs(areas["red"]-4) > 1e-6 {
		t.Errorf("inner area = %v, want 4", areas["red"])
	}
	if math.Abs(areas["blue"]-12) > 1e-6 {
		t.Errorf("ring area = %v, want 12", areas["blue"])
	}
}

func TestPartitionSplitsPadGradient(t *testing.T) {
	grad := NewLinearGradient(vex.Identity(),
		vex.Point{X: 2}, vex.Point{X: 8},
		[]GradientStop{
			{Ratio: 0, Program: red()},
			{Ratio: 0.5, Program: green()},
			{Ratio: 1, Program: blue()},
		}, filter.ExtendPad)

	rfs := Partition(grad, partitionBounds(), PartitionOptions{})
	if len(rfs) < 4 {
		t.Fatalf("got %d strips, want at least 4", len(rfs))
	}
	if got := totalArea(rfs); math.Abs(got-100) > 1e-6 {
		t.Errorf("strip areas sum to %v, want 100", got)
	}

	// No gradient survives partitioning; strips carry blends or colors.
	for _, rf := range rfs {
		if _, ok := rf.Program.(*LinearGradient); ok {
			t.Error("gradient not split")
		}
	}
}

func TestPartitionKeepsRepeatGradient(t *testing.T) {
	grad := NewLinearGradient(vex.Identity(),
		vex.Point{}, vex.Point{X: 4},
		[]GradientStop{
			{Ratio: 0, Program: red()},
			{Ratio: 1, Program: blue()},
		}, filter.ExtendRepeat)

	rfs := Partition(grad, partitionBounds(), PartitionOptions{})
	if len(rfs) != 1 {
		t.Fatalf("got %d faces, want 1", len(rfs))
	}
	if _, ok := rfs[0].Program.(*LinearGradient); !ok {
		t.Errorf("repeat gradient should evaluate at runtime, got %T", rfs[0].Program)
	}
}

func TestPartitionTileCut(t *testing.T) {
	program := red()
	rfs := Partition(program, partitionBounds(), PartitionOptions{TileSize: 4})
	if len(rfs) < 9 {
		t.Fatalf("got %d tiles, want at least 9", len(rfs))
	}
	if got := totalArea(rfs); math.Abs(got-100) > 1e-6 {
		t.Errorf("tile areas sum to %v, want 100", got)
	}
}

func TestPartitionEvenOddStaysRuntime(t *testing.T) {
	path := NewPath(FillEvenOdd, [][]vex.Point{{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4},
	}})
	program := NewPathBoolean(path, red(), Transparent)
	rfs := Partition(program, partitionBounds(), PartitionOptions{})
	if len(rfs) != 1 {
		t.Fatalf("got %d faces, want 1", len(rfs))
	}
	if _, ok := rfs[0].Program.(*PathBoolean); !ok {
		t.Errorf("even-odd path should stay a runtime decision, got %T", rfs[0].Program)
	}
}
