package face

import (
	vex "github.com/gogpu/vex"
)

// EdgedClipped is an edged face bounded by an axis-aligned rectangle.
//
// Edges that span a full side of the rectangle are not stored; they are
// summarized per side as a signed count of canonical-direction edges. The
// canonical directions follow the counter-clockwise rectangle loop:
// minY runs +x, maxX runs +y, maxY runs -x, and minX runs -y. A face that
// fully covers its bound is therefore four counts of +1 with no stored
// edges. Counts stay in {-1, 0, +1} for consistently oriented input.
type EdgedClipped struct {
	edges  []vex.LinearEdge
	bounds vex.Bounds

	minXCount, minYCount, maxXCount, maxYCount int
}

// NewEdgedClipped creates a clipped face from stored edges, a bound, and
// explicit side counts.
func NewEdgedClipped(edges []vex.LinearEdge, bounds vex.Bounds, minXCount, minYCount, maxXCount, maxYCount int) *EdgedClipped {
	return &EdgedClipped{
		edges:     edges,
		bounds:    bounds,
		minXCount: minXCount,
		minYCount: minYCount,
		maxXCount: maxXCount,
		maxYCount: maxYCount,
	}
}

// FullArea returns the clipped face that covers its whole bound: all four
// side counts are +1 and no edges are stored.
func FullArea(bounds vex.Bounds) *EdgedClipped {
	return &EdgedClipped{
		bounds:    bounds,
		minXCount: 1,
		minYCount: 1,
		maxXCount: 1,
		maxYCount: 1,
	}
}

// newEdgedClippedFromEdges bounds an edge set by a rectangle, folding
// full-side edges into counts.
func newEdgedClippedFromEdges(edges []vex.LinearEdge, bounds vex.Bounds) *EdgedClipped {
	f := &EdgedClipped{bounds: bounds}
	for _, e := range edges {
		if side, dir, ok := f.classifyFullSideEdge(e); ok {
			switch side {
			case sideMinX:
				f.minXCount += dir
			case sideMinY:
				f.minYCount += dir
			case sideMaxX:
				f.maxXCount += dir
			case sideMaxY:
				f.maxYCount += dir
			}
			continue
		}
		f.edges = append(f.edges, e)
	}
	return f
}

type rectSide uint8

const (
	sideMinX rectSide = iota
	sideMinY
	sideMaxX
	sideMaxY
)

// classifyFullSideEdge reports whether the edge spans exactly one full
// side of the bound, and if so which side and whether it runs in the
// canonical (+1) or reversed (-1) direction.
func (f *EdgedClipped) classifyFullSideEdge(e vex.LinearEdge) (rectSide, int, bool) {
	b := f.bounds
	s, t := e.Start, e.End
	switch {
	case almostEquals(s.X, b.MinX) && almostEquals(t.X, b.MinX):
		// Canonical minX direction is -y.
		if almostEquals(s.Y, b.MaxY) && almostEquals(t.Y, b.MinY) {
			return sideMinX, 1, true
		}
		if almostEquals(s.Y, b.MinY) && almostEquals(t.Y, b.MaxY) {
			return sideMinX, -1, true
		}
	case almostEquals(s.X, b.MaxX) && almostEquals(t.X, b.MaxX):
		// Canonical maxX direction is +y.
		if almostEquals(s.Y, b.MinY) && almostEquals(t.Y, b.MaxY) {
			return sideMaxX, 1, true
		}
		if almostEquals(s.Y, b.MaxY) && almostEquals(t.Y, b.MinY) {
			return sideMaxX, -1, true
		}
	}
	switch {
	case almostEquals(s.Y, b.MinY) && almostEquals(t.Y, b.MinY):
		// Canonical minY direction is +x.
		if almostEquals(s.X, b.MinX) && almostEquals(t.X, b.MaxX) {
			return sideMinY, 1, true
		}
		if almostEquals(s.X, b.MaxX) && almostEquals(t.X, b.MinX) {
			return sideMinY, -1, true
		}
	case almostEquals(s.Y, b.MaxY) && almostEquals(t.Y, b.MaxY):
		// Canonical maxY direction is -x.
		if almostEquals(s.X, b.MaxX) && almostEquals(t.X, b.MinX) {
			return sideMaxY, 1, true
		}
		if almostEquals(s.X, b.MinX) && almostEquals(t.X, b.MaxX) {
			return sideMaxY, -1, true
		}
	}
	return 0, 0, false
}

// sideEdge returns the canonical edge of one side of the bound.
func (f *EdgedClipped) sideEdge(side rectSide) vex.LinearEdge {
	b := f.bounds
	switch side {
	case sideMinY:
		return vex.Edge(vex.Pt(b.MinX, b.MinY), vex.Pt(b.MaxX, b.MinY))
	case sideMaxX:
		return vex.Edge(vex.Pt(b.MaxX, b.MinY), vex.Pt(b.MaxX, b.MaxY))
	case sideMaxY:
		return vex.Edge(vex.Pt(b.MaxX, b.MaxY), vex.Pt(b.MinX, b.MaxY))
	default:
		return vex.Edge(vex.Pt(b.MinX, b.MaxY), vex.Pt(b.MinX, b.MinY))
	}
}

// appendSideEdges appends count copies of a side's canonical edge
// (reversed for negative counts).
func appendSideEdges(dst []vex.LinearEdge, e vex.LinearEdge, count int) []vex.LinearEdge {
	if count < 0 {
		e = e.Reversed()
		count = -count
	}
	for i := 0; i < count; i++ {
		dst = append(dst, e)
	}
	return dst
}

// EffectiveEdges materializes the stored edges plus the implicit side
// edges implied by the counts.
func (f *EdgedClipped) EffectiveEdges() []vex.LinearEdge {
	out := make([]vex.LinearEdge, 0, len(f.edges)+4)
	out = append(out, f.edges...)
	out = appendSideEdges(out, f.sideEdge(sideMinX), f.minXCount)
	out = appendSideEdges(out, f.sideEdge(sideMinY), f.minYCount)
	out = appendSideEdges(out, f.sideEdge(sideMaxX), f.maxXCount)
	out = appendSideEdges(out, f.sideEdge(sideMaxY), f.maxYCount)
	return out
}

// Edges returns the stored (non-implicit) edges.
func (f *EdgedClipped) Edges() []vex.LinearEdge {
	return f.edges
}

// SideCounts returns the four implicit side-edge counts in
// (minX, minY, maxX, maxY) order.
func (f *EdgedClipped) SideCounts() (minXCount, minYCount, maxXCount, maxYCount int) {
	return f.minXCount, f.minYCount, f.maxXCount, f.maxYCount
}

// Bounds returns the stored bound.
func (f *EdgedClipped) Bounds() vex.Bounds {
	return f.bounds
}

// Area returns the signed area: the stored edges' shoelace sum plus the
// implicit vertical side contributions. Horizontal side edges contribute
// nothing to the shoelace form used here.
func (f *EdgedClipped) Area() float64 {
	h := f.bounds.MaxY - f.bounds.MinY
	area := edgeSoupArea(f.edges)
	area += float64(f.maxXCount) * f.bounds.MaxX * h
	area -= float64(f.minXCount) * f.bounds.MinX * h
	return area
}

// Centroid returns the centroid for a precomputed area.
func (f *EdgedClipped) Centroid(area float64) vex.Point {
	return centroidFromPartial(edgeSoupCentroidPartial(f.EffectiveEdges()), area, f.bounds)
}

// ContainsPoint reports whether the winding number at p is nonzero,
// counting implicit side edges.
func (f *EdgedClipped) ContainsPoint(p vex.Point) bool {
	return vex.WindingNumberEdges(f.EffectiveEdges(), p) != 0
}

// DotRange scans normal-dot-v over stored edge endpoints and, when any
// side count is nonzero, the bound corners.
func (f *EdgedClipped) DotRange(normal vex.Point) (float64, float64) {
	edges := f.edges
	if f.minXCount != 0 || f.minYCount != 0 || f.maxXCount != 0 || f.maxYCount != 0 {
		edges = f.EffectiveEdges()
	}
	return dotRangeOverEdges(edges, normal)
}

// DistanceRangeToEdges returns the distance range from p to the boundary,
// including implicit side edges.
func (f *EdgedClipped) DistanceRangeToEdges(p vex.Point) (float64, float64) {
	return distanceRangeOverEdges(f.EffectiveEdges(), p)
}

// DistanceRangeToInside returns the distance range with min forced to 0
// for interior points.
func (f *EdgedClipped) DistanceRangeToInside(p vex.Point) (float64, float64) {
	lo, hi := f.DistanceRangeToEdges(p)
	if f.ContainsPoint(p) {
		lo = 0
	}
	return lo, hi
}

// AverageDistance returns the area-weighted average distance from p.
func (f *EdgedClipped) AverageDistance(p vex.Point, area float64) float64 {
	return averageDistanceOverEdges(f.EffectiveEdges(), p, area)
}

// Clipped intersects the face with an axis-aligned rectangle.
func (f *EdgedClipped) Clipped(minX, minY, maxX, maxY float64) Clippable {
	inter := f.bounds.Intersection(vex.NewBounds(minX, minY, maxX, maxY))
	if inter.IsEmpty() {
		return &EdgedClipped{bounds: inter}
	}
	clipped := clipEdgesToRect(f.EffectiveEdges(), inter.MinX, inter.MinY, inter.MaxX, inter.MaxY)
	return newEdgedClippedFromEdges(clipped, inter)
}

// BinaryXClip splits the face along the vertical line x. The two halves
// keep the original bound trimmed at x; full-side edges re-canonicalize
// into counts.
func (f *EdgedClipped) BinaryXClip(x, fakeCornerY float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryXClipEdges(f.EffectiveEdges(), x, fakeCornerY)
	minFace := newEdgedClippedFromEdges(minEdges, vex.NewBounds(f.bounds.MinX, f.bounds.MinY, x, f.bounds.MaxY))
	maxFace := newEdgedClippedFromEdges(maxEdges, vex.NewBounds(x, f.bounds.MinY, f.bounds.MaxX, f.bounds.MaxY))
	return minFace, maxFace
}

// BinaryYClip splits the face along the horizontal line y.
func (f *EdgedClipped) BinaryYClip(y, fakeCornerX float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryYClipEdges(f.EffectiveEdges(), y, fakeCornerX)
	minFace := newEdgedClippedFromEdges(minEdges, vex.NewBounds(f.bounds.MinX, f.bounds.MinY, f.bounds.MaxX, y))
	maxFace := newEdgedClippedFromEdges(maxEdges, vex.NewBounds(f.bounds.MinX, y, f.bounds.MaxX, f.bounds.MaxY))
	return minFace, maxFace
}

// BinaryLineClip splits the face along the half-plane normal.p = value.
// Both halves keep the full bound; the split is not axis-aligned, so the
// bound cannot tighten without a vertex scan.
func (f *EdgedClipped) BinaryLineClip(normal vex.Point, value, fakeCornerPerpendicular float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryLineClipEdges(f.EffectiveEdges(), normal, value, fakeCornerPerpendicular)
	return newEdgedClippedFromEdges(minEdges, f.bounds), newEdgedClippedFromEdges(maxEdges, f.bounds)
}

// StripeLineClip partitions the face into strips along the normal.
func (f *EdgedClipped) StripeLineClip(normal vex.Point, values []float64, fakeCornerPerpendicular float64) []Clippable {
	strips := stripeClipEdges(f.EffectiveEdges(), normal, values, fakeCornerPerpendicular)
	out := make([]Clippable, len(strips))
	for i, s := range strips {
		out[i] = newEdgedClippedFromEdges(s, f.bounds)
	}
	return out
}

// BinaryCircularClip splits the face by a polygonal circle approximation.
func (f *EdgedClipped) BinaryCircularClip(center vex.Point, radius, maxAngleSplit float64) (Clippable, Clippable) {
	inside, outside := circularClipEdges(f.EffectiveEdges(), center, radius, maxAngleSplit)
	return newEdgedClippedFromEdges(inside, f.bounds), newEdgedClippedFromEdges(outside, f.bounds)
}

// GridClipIterate clips the face against every cell of an integer grid in
// cell-major order.
func (f *EdgedClipped) GridClipIterate(minX, minY, stepX, stepY float64, stepXCount, stepYCount int, cellCb GridCellCallback, polyCb func()) {
	gridClipEdges(f.EffectiveEdges(), minX, minY, stepX, stepY, stepXCount, stepYCount, cellCb)
	if polyCb != nil {
		polyCb()
	}
}

// Transformed applies an affine transform. The implicit side edges are
// materialized and transformed with the stored edges, and the result is
// re-folded against the axis-aligned bound of the transformed bound: a
// rotated bound is no longer axis-aligned, so counts cannot survive an
// arbitrary transform.
func (f *EdgedClipped) Transformed(m vex.Matrix) Clippable {
	edged := (&Edged{edges: f.EffectiveEdges()}).Transformed(m).(*Edged)
	tb := f.bounds.Transformed(m)
	return newEdgedClippedFromEdges(edged.edges, tb)
}

// Rounded snaps vertices and the bound to multiples of epsilon.
func (f *EdgedClipped) Rounded(epsilon float64) Clippable {
	edged := (&Edged{edges: f.EffectiveEdges()}).Rounded(epsilon).(*Edged)
	b := vex.NewBounds(
		roundToMultiple(f.bounds.MinX, epsilon),
		roundToMultiple(f.bounds.MinY, epsilon),
		roundToMultiple(f.bounds.MaxX, epsilon),
		roundToMultiple(f.bounds.MaxY, epsilon),
	)
	return newEdgedClippedFromEdges(edged.edges, b)
}

// WithReversedEdges flips orientation: all stored edges reverse and the
// counts negate.
func (f *EdgedClipped) WithReversedEdges() Clippable {
	edges := make([]vex.LinearEdge, len(f.edges))
	for i, e := range f.edges {
		edges[i] = e.Reversed()
	}
	return &EdgedClipped{
		edges:     edges,
		bounds:    f.bounds,
		minXCount: -f.minXCount,
		minYCount: -f.minYCount,
		maxXCount: -f.maxXCount,
		maxYCount: -f.maxYCount,
	}
}

// ForEachEdge emits each non-fake stored edge and the implicit side edges.
func (f *EdgedClipped) ForEachEdge(cb func(edge vex.LinearEdge)) {
	for _, e := range f.EffectiveEdges() {
		if !e.ContainsFakeCorner {
			cb(e)
		}
	}
}

// ToPolygonal stitches the effective edges into polygon loops.
func (f *EdgedClipped) ToPolygonal(epsilon float64) *Polygonal {
	return stitchEdges(f.EffectiveEdges(), epsilon)
}

// ToEdged materializes the implicit side edges into a plain edge set.
func (f *EdgedClipped) ToEdged() *Edged {
	return &Edged{edges: f.EffectiveEdges()}
}

// ToEdgedClipped re-bounds the face by a new rectangle.
func (f *EdgedClipped) ToEdgedClipped(minX, minY, maxX, maxY float64) *EdgedClipped {
	return newEdgedClippedFromEdges(f.EffectiveEdges(), vex.NewBounds(minX, minY, maxX, maxY))
}

var _ Clippable = (*EdgedClipped)(nil)
