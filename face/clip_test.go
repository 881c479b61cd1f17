package face

import (
	"math"
	"testing"

	vex "github.com/gogpu/vex"
)

// testLoops returns the polygon loops used across the clipping tests,
// including a non-convex loop and a ring with a hole.
func testLoops() map[string][][]vex.Point {
	return map[string][][]vex.Point{
		"unitSquare": {{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
		"wideRect":   {{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 1}}},
		"triangle":   {{{X: 30, Y: 30}, {X: 130, Y: 45}, {X: 60, Y: 125}}},
		"concave": {{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 1.5}, {X: 0, Y: 4},
		}},
		"ring": {
			{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 6}, {X: 0, Y: 6}},
			{{X: 2, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 2}, {X: 2, Y: 2}},
		},
	}
}

// variants builds all three face representations of the same loops.
func variants(loops [][]vex.Point) map[string]Clippable {
	poly := NewPolygonal(loops)
	edged := EdgedFromPolygons(loops)
	b := poly.Bounds()
	clipped := edged.ToEdgedClipped(b.MinX-1, b.MinY-1, b.MaxX+1, b.MaxY+1)
	return map[string]Clippable{
		"polygonal":    poly,
		"edged":        edged,
		"edgedClipped": clipped,
	}
}

func TestAreaAgreesAcrossVariants(t *testing.T) {
	for name, loops := range testLoops() {
		t.Run(name, func(t *testing.T) {
			want := NewPolygonal(loops).Area()
			for variant, f := range variants(loops) {
				if got := f.Area(); math.Abs(got-want) > 1e-9 {
					t.Errorf("%s area = %v, want %v", variant, got, want)
				}
			}
		})
	}
}

func TestBinaryXClipConservesArea(t *testing.T) {
	splits := []float64{0.25, 0.5, 1, 2, 45, 100}
	for name, loops := range testLoops() {
		t.Run(name, func(t *testing.T) {
			for variant, f := range variants(loops) {
				area := f.Area()
				for _, x := range splits {
					minFace, maxFace := f.BinaryXClip(x, 0)
					sum := minFace.Area() + maxFace.Area()
					if math.Abs(sum-area) > 1e-4 {
						t.Errorf("%s split at %v: %v + %v != %v",
							variant, x, minFace.Area(), maxFace.Area(), area)
					}
				}
			}
		})
	}
}

func TestBinaryYClipConservesArea(t *testing.T) {
	for name, loops := range testLoops() {
		t.Run(name, func(t *testing.T) {
			for variant, f := range variants(loops) {
				area := f.Area()
				for _, y := range []float64{0.5, 1, 3, 40} {
					minFace, maxFace := f.BinaryYClip(y, 0)
					sum := minFace.Area() + maxFace.Area()
					if math.Abs(sum-area) > 1e-4 {
						t.Errorf("%s split at %v: sum %v, want %v", variant, y, sum, area)
					}
				}
			}
		})
	}
}

func TestBinaryLineClipHalfPlane(t *testing.T) {
	normal := vex.Point{X: 1, Y: 1}.Normalize()
	value := 0.7
	f := EdgedFromPolygons(testLoops()["unitSquare"])

	minFace, maxFace := f.BinaryLineClip(normal, value, 0)
	sum := minFace.Area() + maxFace.Area()
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("area sum = %v, want 1", sum)
	}

	// Every min-side vertex satisfies the half-plane inequality.
	minFace.ForEachEdge(func(e vex.LinearEdge) {
		for _, p := range [2]vex.Point{e.Start, e.End} {
			if normal.Dot(p) > value+1e-8 {
				t.Errorf("min-face vertex %v violates half-plane", p)
			}
		}
	})
	maxFace.ForEachEdge(func(e vex.LinearEdge) {
		for _, p := range [2]vex.Point{e.Start, e.End} {
			if normal.Dot(p) < value-1e-8 {
				t.Errorf("max-face vertex %v violates half-plane", p)
			}
		}
	})
}

func TestStripeClipPartition(t *testing.T) {
	normal := vex.Point{X: 1, Y: 0}
	values := []float64{40, 60, 80, 100}

	for variant, f := range variants(testLoops()["triangle"]) {
		area := f.Area()
		strips := f.StripeLineClip(normal, values, 0)
		if len(strips) != len(values)+1 {
			t.Fatalf("%s: %d strips, want %d", variant, len(strips), len(values)+1)
		}
		sum := 0.0
		for i, s := range strips {
			sum += s.Area()

			lo := math.Inf(-1)
			hi := math.Inf(1)
			if i > 0 {
				lo = values[i-1]
			}
			if i < len(values) {
				hi = values[i]
			}
			s.ForEachEdge(func(e vex.LinearEdge) {
				for _, p := range [2]vex.Point{e.Start, e.End} {
					d := normal.Dot(p)
					if d < lo-1e-8 || d > hi+1e-8 {
						t.Errorf("%s strip %d: vertex %v outside [%v, %v]", variant, i, p, lo, hi)
					}
				}
			})
		}
		if math.Abs(sum-area) > 1e-6 {
			t.Errorf("%s: stripe areas sum to %v, want %v", variant, sum, area)
		}
	}
}

func TestBinaryCircularClip(t *testing.T) {
	f := EdgedFromPolygons(testLoops()["unitSquare"])
	center := vex.Point{X: 0.5, Y: 0.5}
	inside, outside := f.BinaryCircularClip(center, 0.4, math.Pi/16)

	if diff := inside.Area() + outside.Area() - 1; math.Abs(diff) > 1e-5 {
		t.Errorf("partition defect = %v", diff)
	}
	if diff := inside.Area() - math.Pi*0.16; math.Abs(diff) > 1e-2 {
		t.Errorf("inside area = %v, want about %v", inside.Area(), math.Pi*0.16)
	}
}

func TestGridClipIterateConservesArea(t *testing.T) {
	for name, loops := range testLoops() {
		t.Run(name, func(t *testing.T) {
			for variant, f := range variants(loops) {
				area := f.Area()
				b := f.Bounds()
				minX := math.Floor(b.MinX)
				minY := math.Floor(b.MinY)
				nx := int(math.Ceil(b.MaxX-minX)) + 1
				ny := int(math.Ceil(b.MaxY-minY)) + 1

				sum := 0.0
				polyDone := false
				f.GridClipIterate(minX, minY, 1, 1, nx, ny,
					func(cellX, cellY int, e vex.LinearEdge) {
						sum += e.SignedAreaTerm()
					},
					func() { polyDone = true })

				if !polyDone {
					t.Errorf("%s: polygon callback not invoked", variant)
				}
				if math.Abs(sum-area) > 1e-6 {
					t.Errorf("%s: cell contributions sum to %v, want %v", variant, sum, area)
				}
			}
		})
	}
}

func TestClippedToRect(t *testing.T) {
	f := EdgedFromPolygons(testLoops()["wideRect"])
	clipped := f.Clipped(0.5, 0.25, 1.5, 0.75)
	if got := clipped.Area(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("clipped area = %v, want 0.5", got)
	}
}

func TestContainsPointAgreesAcrossVariants(t *testing.T) {
	loops := testLoops()["ring"]
	points := []vex.Point{
		{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 7, Y: 3}, {X: 3, Y: 5}, {X: -1, Y: -1},
	}
	want := []bool{true, false, false, true, false}

	for variant, f := range variants(loops) {
		for i, p := range points {
			if got := f.ContainsPoint(p); got != want[i] {
				t.Errorf("%s: ContainsPoint(%v) = %v, want %v", variant, p, got, want[i])
			}
		}
	}
}

func TestConversionsPreserveArea(t *testing.T) {
	for name, loops := range testLoops() {
		t.Run(name, func(t *testing.T) {
			poly := NewPolygonal(loops)
			area := poly.Area()
			b := poly.Bounds()

			edged := poly.ToEdged()
			if got := edged.Area(); math.Abs(got-area) > 1e-9 {
				t.Errorf("edged area = %v, want %v", got, area)
			}

			clipped := edged.ToEdgedClipped(b.MinX, b.MinY, b.MaxX, b.MaxY)
			if got := clipped.Area(); math.Abs(got-area) > 1e-9 {
				t.Errorf("edged-clipped area = %v, want %v", got, area)
			}

			back := clipped.ToEdged()
			if got := back.Area(); math.Abs(got-area) > 1e-9 {
				t.Errorf("back-converted area = %v, want %v", got, area)
			}

			restitched := edged.ToPolygonal(1e-8)
			if got := restitched.Area(); math.Abs(got-area) > 1e-6 {
				t.Errorf("restitched area = %v, want %v", got, area)
			}
		})
	}
}

func TestEdgedClippedFullArea(t *testing.T) {
	b := vex.NewBounds(2, 3, 7, 11)
	f := FullArea(b)
	if got, want := f.Area(), b.Area(); math.Abs(got-want) > 1e-12 {
		t.Errorf("full area = %v, want %v", got, want)
	}
	if !f.ContainsPoint(vex.Point{X: 4, Y: 5}) {
		t.Error("full-area face should contain interior point")
	}
	if f.ContainsPoint(vex.Point{X: 0, Y: 0}) {
		t.Error("full-area face should not contain exterior point")
	}
	minX, minY, maxX, maxY := f.SideCounts()
	if minX != 1 || minY != 1 || maxX != 1 || maxY != 1 {
		t.Errorf("counts = %d %d %d %d, want all 1", minX, minY, maxX, maxY)
	}
}

func TestEdgedClippedCanonicalization(t *testing.T) {
	// A square matching its bound exactly collapses to counts only.
	square := EdgedFromPolygons(testLoops()["unitSquare"])
	clipped := square.ToEdgedClipped(0, 0, 1, 1)
	if len(clipped.Edges()) != 0 {
		t.Errorf("stored edges = %d, want 0", len(clipped.Edges()))
	}
	minX, minY, maxX, maxY := clipped.SideCounts()
	if minX != 1 || minY != 1 || maxX != 1 || maxY != 1 {
		t.Errorf("counts = %d %d %d %d, want all 1", minX, minY, maxX, maxY)
	}
	if got := clipped.Area(); math.Abs(got-1) > 1e-12 {
		t.Errorf("area = %v, want 1", got)
	}
}

func TestWithReversedEdgesNegatesArea(t *testing.T) {
	for variant, f := range variants(testLoops()["concave"]) {
		area := f.Area()
		rev := f.WithReversedEdges()
		if got := rev.Area(); math.Abs(got+area) > 1e-9 {
			t.Errorf("%s reversed area = %v, want %v", variant, got, -area)
		}
	}
}

func TestTransformedScalesArea(t *testing.T) {
	f := EdgedFromPolygons(testLoops()["triangle"])
	area := f.Area()

	scaled := f.Transformed(vex.Scale(2, 3))
	if got := scaled.Area(); math.Abs(got-6*area) > 1e-6 {
		t.Errorf("scaled area = %v, want %v", got, 6*area)
	}

	// Reflections keep the sign consistent via edge reversal.
	mirrored := f.Transformed(vex.Scale(-1, 1))
	if got := mirrored.Area(); math.Abs(got-area) > 1e-6 {
		t.Errorf("mirrored area = %v, want %v", got, area)
	}
}

func TestRoundedSnapsVertices(t *testing.T) {
	f := NewPolygonal([][]vex.Point{{
		{X: 0.100001, Y: 0.2}, {X: 3.99999, Y: 0.1}, {X: 2, Y: 3.000004},
	}})
	rounded := f.Rounded(0.25).(*Polygonal)
	want := [][]vex.Point{{{X: 0, Y: 0.25}, {X: 4, Y: 0}, {X: 2, Y: 3}}}
	got := rounded.Loops()
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("loops = %v", got)
	}
	for i, p := range got[0] {
		if !p.EqualsEpsilon(want[0][i], 1e-12) {
			t.Errorf("vertex %d = %v, want %v", i, p, want[0][i])
		}
	}
}

func TestAverageDistanceUnitSquare(t *testing.T) {
	f := EdgedFromPolygons(testLoops()["unitSquare"])
	got := f.AverageDistance(vex.Point{X: 0, Y: 0}, 1)
	want := (math.Sqrt2 + math.Asinh(1)) / 3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("average distance = %v, want %v", got, want)
	}
}

func TestDistanceRanges(t *testing.T) {
	f := EdgedFromPolygons(testLoops()["unitSquare"])
	p := vex.Point{X: 0.5, Y: 0.5}

	lo, hi := f.DistanceRangeToEdges(p)
	if math.Abs(lo-0.5) > 1e-12 || math.Abs(hi-math.Sqrt2/2) > 1e-12 {
		t.Errorf("edge range = [%v, %v]", lo, hi)
	}

	lo, _ = f.DistanceRangeToInside(p)
	if lo != 0 {
		t.Errorf("inside range min = %v, want 0", lo)
	}

	outside := vex.Point{X: 3, Y: 0.5}
	lo, _ = f.DistanceRangeToInside(outside)
	if math.Abs(lo-2) > 1e-12 {
		t.Errorf("outside range min = %v, want 2", lo)
	}
}

func TestDotRange(t *testing.T) {
	f := EdgedFromPolygons(testLoops()["wideRect"])
	lo, hi := f.DotRange(vex.Point{X: 1, Y: 0})
	if lo != 0 || hi != 2 {
		t.Errorf("dot range = [%v, %v], want [0, 2]", lo, hi)
	}
}

func TestBuilderPooling(t *testing.T) {
	b := GetBuilder()
	b.AddPolygon(testLoops()["unitSquare"][0])
	if b.Len() != 4 {
		t.Fatalf("builder len = %d, want 4", b.Len())
	}
	f := b.Build()
	PutBuilder(b)

	if got := f.Area(); math.Abs(got-1) > 1e-12 {
		t.Errorf("built face area = %v, want 1", got)
	}

	b2 := GetBuilder()
	defer PutBuilder(b2)
	if b2.Len() != 0 {
		t.Errorf("pooled builder not reset: len = %d", b2.Len())
	}
}
