// Package face implements the clippable face algebra: regions of the plane
// with an orientation, representable as polygon loops or directed edge
// sets, closed under clipping by axis-aligned half-planes, arbitrary
// half-planes, stripes, integer grids and circles.
//
// Three interchangeable representations implement the shared Clippable
// interface:
//
//   - Polygonal: ordered polygon loops (outer boundary counter-clockwise,
//     holes clockwise)
//   - Edged: an unordered set of directed edges whose shoelace sum equals
//     the face's signed area
//   - EdgedClipped: an edge set plus an axis-aligned bound with signed
//     per-side counts summarizing edges that lie exactly on the bound
//
// Conversions between the variants preserve signed area exactly for
// edged <-> edged-clipped, and up to epsilon-snapping when stitching edges
// back into polygon loops.
package face

import (
	"math"

	vex "github.com/gogpu/vex"
)

// GridCellCallback receives one contributing edge for a grid cell during
// GridClipIterate.
type GridCellCallback func(cellX, cellY int, edge vex.LinearEdge)

// Clippable is the capability shared by the three face representations.
//
// Clipping operations return faces of the same representation. Fake-corner
// edges synthesized by clips participate in area, centroid and winding
// computations but are excluded from bounds and dot ranges.
type Clippable interface {
	// Bounds returns the axis-aligned bound of the face's effective
	// vertices, excluding fake-corner edges.
	Bounds() vex.Bounds

	// Area returns the signed area. Counter-clockwise faces are positive.
	Area() float64

	// Centroid returns the centroid given a precomputed signed area.
	// Faces with near-zero area report their bounds center.
	Centroid(area float64) vex.Point

	// ContainsPoint reports whether the winding number at p is nonzero.
	ContainsPoint(p vex.Point) bool

	// DotRange returns the inclusive range of normal-dot-v over the face.
	DotRange(normal vex.Point) (min, max float64)

	// DistanceRangeToEdges returns the range of distances from p to the
	// face boundary.
	DistanceRangeToEdges(p vex.Point) (min, max float64)

	// DistanceRangeToInside is DistanceRangeToEdges with min forced to 0
	// when p lies inside the face.
	DistanceRangeToInside(p vex.Point) (min, max float64)

	// AverageDistance returns the area-weighted average distance from p
	// to points of the face, given a precomputed signed area.
	AverageDistance(p vex.Point, area float64) float64

	// Clipped intersects the face with an axis-aligned rectangle.
	Clipped(minX, minY, maxX, maxY float64) Clippable

	// BinaryXClip splits the face along the vertical line x. Fake-corner
	// edges are synthesized through (x, fakeCornerY) so both halves stay
	// closed.
	BinaryXClip(x, fakeCornerY float64) (minFace, maxFace Clippable)

	// BinaryYClip splits the face along the horizontal line y.
	BinaryYClip(y, fakeCornerX float64) (minFace, maxFace Clippable)

	// BinaryLineClip splits the face along the line normal-dot-p = value.
	// The minFace satisfies normal-dot-p <= value. The fake corner lies at
	// normal*value + perpendicular*fakeCornerPerpendicular.
	BinaryLineClip(normal vex.Point, value, fakeCornerPerpendicular float64) (minFace, maxFace Clippable)

	// StripeLineClip partitions the face into len(values)+1 strips
	// between consecutive values along the normal.
	StripeLineClip(normal vex.Point, values []float64, fakeCornerPerpendicular float64) []Clippable

	// BinaryCircularClip splits the face by a circle approximated with
	// chord angles of at most maxAngleSplit. The two results partition
	// the face's signed area.
	BinaryCircularClip(center vex.Point, radius, maxAngleSplit float64) (inside, outside Clippable)

	// GridClipIterate clips the face against every cell of an integer
	// grid anchored at (minX, minY) with the given steps and counts,
	// invoking cellCb for each contributing edge and polyCb once the
	// whole face has been processed.
	GridClipIterate(minX, minY, stepX, stepY float64, stepXCount, stepYCount int, cellCb GridCellCallback, polyCb func())

	// Transformed applies an affine transform to every vertex.
	Transformed(m vex.Matrix) Clippable

	// Rounded snaps every vertex to multiples of epsilon with symmetric
	// rounding.
	Rounded(epsilon float64) Clippable

	// WithReversedEdges flips the face's orientation; the area negates.
	WithReversedEdges() Clippable

	// ForEachEdge emits each real directed edge once. Fake-corner edges
	// are skipped; EdgedClipped faces also emit their implicit side edges.
	ForEachEdge(cb func(edge vex.LinearEdge))

	// ToPolygonal stitches the face into polygon loops, matching edge
	// endpoints within epsilon.
	ToPolygonal(epsilon float64) *Polygonal

	// ToEdged returns the face as a plain edge set.
	ToEdged() *Edged

	// ToEdgedClipped returns the face bounded by the given rectangle,
	// converting boundary-coincident edges to side counts.
	ToEdgedClipped(minX, minY, maxX, maxY float64) *EdgedClipped
}

// edgeSoupArea sums shoelace terms over an edge set.
func edgeSoupArea(edges []vex.LinearEdge) float64 {
	sum := 0.0
	for _, e := range edges {
		sum += e.SignedAreaTerm()
	}
	return sum
}

// edgeSoupCentroidPartial sums centroid partial terms over an edge set.
func edgeSoupCentroidPartial(edges []vex.LinearEdge) vex.Point {
	var partial vex.Point
	for _, e := range edges {
		partial = partial.Add(e.CentroidPartialTerm())
	}
	return partial
}

// edgeSoupBounds unions the endpoints of all non-fake edges.
func edgeSoupBounds(edges []vex.LinearEdge) vex.Bounds {
	b := vex.EmptyBounds()
	for _, e := range edges {
		if e.ContainsFakeCorner {
			continue
		}
		b = b.UnionPoint(e.Start)
		b = b.UnionPoint(e.End)
	}
	return b
}

// centroidFromPartial divides a centroid partial by 6*area, falling back
// to the bounds center for near-zero areas.
func centroidFromPartial(partial vex.Point, area float64, bounds vex.Bounds) vex.Point {
	if math.Abs(area) < 1e-12 {
		return bounds.Center()
	}
	return partial.Div(6 * area)
}

// dotRangeOverEdges scans normal-dot-v over the endpoints of non-fake
// edges.
func dotRangeOverEdges(edges []vex.LinearEdge, normal vex.Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range edges {
		if e.ContainsFakeCorner {
			continue
		}
		for _, p := range [2]vex.Point{e.Start, e.End} {
			d := normal.Dot(p)
			lo = math.Min(lo, d)
			hi = math.Max(hi, d)
		}
	}
	return lo, hi
}

// distanceRangeOverEdges scans min/max distance from p over an edge set.
func distanceRangeOverEdges(edges []vex.LinearEdge, p vex.Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range edges {
		if e.ContainsFakeCorner {
			continue
		}
		lo = math.Min(lo, vex.ClosestDistanceToOrigin(e.Start.Sub(p), e.End.Sub(p)))
		hi = math.Max(hi, vex.FarthestDistanceToOrigin(e.Start.Sub(p), e.End.Sub(p)))
	}
	return lo, hi
}

// averageDistanceOverEdges evaluates the Green's-theorem average distance,
// including fake-corner edges: they carry area contributions.
func averageDistanceOverEdges(edges []vex.LinearEdge, p vex.Point, area float64) float64 {
	if area == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range edges {
		sum += e.EvaluateLineIntegralDistance(p)
	}
	return sum / area
}

// roundToMultiple snaps v to the nearest multiple of epsilon, rounding
// half away from zero so that -v always snaps to the negation of v's snap.
func roundToMultiple(v, epsilon float64) float64 {
	return math.Round(v/epsilon) * epsilon
}

func roundPoint(p vex.Point, epsilon float64) vex.Point {
	return vex.Point{
		X: roundToMultiple(p.X, epsilon),
		Y: roundToMultiple(p.Y, epsilon),
	}
}
