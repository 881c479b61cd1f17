package face

import (
	"math"

	vex "github.com/gogpu/vex"
)

// circularClipEdges splits an edge set by a circle approximated as an
// inscribed regular polygon whose chords subtend at most maxAngleSplit.
//
// The inside result is the intersection with the polygon, built by
// clipping against each chord's half-plane in turn; the clipped-away
// pieces accumulate into the outside result. The two results partition
// the input's signed area exactly (the partition is exact against the
// polygon; the polygon approximates the circle).
func circularClipEdges(edges []vex.LinearEdge, center vex.Point, radius, maxAngleSplit float64) (inside, outside []vex.LinearEdge) {
	sides := int(math.Ceil(2 * math.Pi / maxAngleSplit))
	if sides < 3 {
		sides = 3
	}
	apothem := radius * math.Cos(math.Pi/float64(sides))

	inside = edges
	for i := 0; i < sides; i++ {
		mid := (float64(i) + 0.5) * 2 * math.Pi / float64(sides)
		normal := vex.Point{X: math.Cos(mid), Y: math.Sin(mid)}
		value := normal.Dot(center) + apothem
		// Route fake corners through the chord midpoint's perpendicular
		// offset so they stay on the clip line near the circle.
		fakePerp := normal.Perpendicular().Dot(center)

		in, out := binaryLineClipEdges(inside, normal, value, fakePerp)
		inside = in
		outside = append(outside, out...)
	}
	return inside, outside
}
