package face

import (
	"math"

	vex "github.com/gogpu/vex"
)

// Edged is a face represented as an unordered set of directed edges whose
// shoelace sum equals the face's signed area and whose winding function
// equals the face's winding. The edge set is not required to form closed
// loops.
type Edged struct {
	edges []vex.LinearEdge
}

// NewEdged creates an edged face from a set of directed edges. The slice
// is retained; callers that reuse their buffer should pass a copy.
func NewEdged(edges []vex.LinearEdge) *Edged {
	return &Edged{edges: edges}
}

// EdgedFromPolygons converts polygon loops to an edged face.
func EdgedFromPolygons(loops [][]vex.Point) *Edged {
	return &Edged{edges: vex.EdgesFromPolygons(loops)}
}

// Edges returns the underlying edge slice. The slice must not be mutated.
func (f *Edged) Edges() []vex.LinearEdge {
	return f.edges
}

// Bounds returns the bound of all non-fake edge endpoints.
func (f *Edged) Bounds() vex.Bounds {
	return edgeSoupBounds(f.edges)
}

// Area returns the signed area of the edge set.
func (f *Edged) Area() float64 {
	return edgeSoupArea(f.edges)
}

// Centroid returns the centroid for a precomputed area.
func (f *Edged) Centroid(area float64) vex.Point {
	return centroidFromPartial(edgeSoupCentroidPartial(f.edges), area, f.Bounds())
}

// ContainsPoint reports whether the winding number at p is nonzero.
func (f *Edged) ContainsPoint(p vex.Point) bool {
	return vex.WindingNumberEdges(f.edges, p) != 0
}

// DotRange returns the range of normal-dot-v over non-fake edge endpoints.
func (f *Edged) DotRange(normal vex.Point) (float64, float64) {
	return dotRangeOverEdges(f.edges, normal)
}

// DistanceRangeToEdges returns the distance range from p to the boundary.
func (f *Edged) DistanceRangeToEdges(p vex.Point) (float64, float64) {
	return distanceRangeOverEdges(f.edges, p)
}

// DistanceRangeToInside returns the distance range with min forced to 0
// for interior points.
func (f *Edged) DistanceRangeToInside(p vex.Point) (float64, float64) {
	lo, hi := f.DistanceRangeToEdges(p)
	if f.ContainsPoint(p) {
		lo = 0
	}
	return lo, hi
}

// AverageDistance returns the area-weighted average distance from p.
func (f *Edged) AverageDistance(p vex.Point, area float64) float64 {
	return averageDistanceOverEdges(f.edges, p, area)
}

// Clipped intersects the face with an axis-aligned rectangle.
func (f *Edged) Clipped(minX, minY, maxX, maxY float64) Clippable {
	return &Edged{edges: clipEdgesToRect(f.edges, minX, minY, maxX, maxY)}
}

// BinaryXClip splits the face along the vertical line x.
func (f *Edged) BinaryXClip(x, fakeCornerY float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryXClipEdges(f.edges, x, fakeCornerY)
	return &Edged{edges: minEdges}, &Edged{edges: maxEdges}
}

// BinaryYClip splits the face along the horizontal line y.
func (f *Edged) BinaryYClip(y, fakeCornerX float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryYClipEdges(f.edges, y, fakeCornerX)
	return &Edged{edges: minEdges}, &Edged{edges: maxEdges}
}

// BinaryLineClip splits the face along the half-plane normal.p = value.
func (f *Edged) BinaryLineClip(normal vex.Point, value, fakeCornerPerpendicular float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryLineClipEdges(f.edges, normal, value, fakeCornerPerpendicular)
	return &Edged{edges: minEdges}, &Edged{edges: maxEdges}
}

// StripeLineClip partitions the face into strips along the normal.
func (f *Edged) StripeLineClip(normal vex.Point, values []float64, fakeCornerPerpendicular float64) []Clippable {
	strips := stripeClipEdges(f.edges, normal, values, fakeCornerPerpendicular)
	out := make([]Clippable, len(strips))
	for i, s := range strips {
		out[i] = &Edged{edges: s}
	}
	return out
}

// BinaryCircularClip splits the face by a polygonal approximation of the
// circle with chord angles of at most maxAngleSplit.
func (f *Edged) BinaryCircularClip(center vex.Point, radius, maxAngleSplit float64) (Clippable, Clippable) {
	inside, outside := circularClipEdges(f.edges, center, radius, maxAngleSplit)
	return &Edged{edges: inside}, &Edged{edges: outside}
}

// GridClipIterate clips the face against every cell of an integer grid.
// Cells are visited in cell-major order (rows outer, columns inner) with
// no loop structure.
func (f *Edged) GridClipIterate(minX, minY, stepX, stepY float64, stepXCount, stepYCount int, cellCb GridCellCallback, polyCb func()) {
	gridClipEdges(f.edges, minX, minY, stepX, stepY, stepXCount, stepYCount, cellCb)
	if polyCb != nil {
		polyCb()
	}
}

// Transformed applies an affine transform to every edge.
// A reflecting transform reverses each edge to keep the signed-area sign
// consistent with the winding convention.
func (f *Edged) Transformed(m vex.Matrix) Clippable {
	edges := make([]vex.LinearEdge, 0, len(f.edges))
	flip := m.Determinant() < 0
	for _, e := range f.edges {
		te := e.Transformed(m)
		if flip {
			te = te.Reversed()
		}
		if !te.Start.Equals(te.End) {
			edges = append(edges, te)
		}
	}
	return &Edged{edges: edges}
}

// Rounded snaps every vertex to multiples of epsilon.
func (f *Edged) Rounded(epsilon float64) Clippable {
	edges := make([]vex.LinearEdge, 0, len(f.edges))
	for _, e := range f.edges {
		re := vex.LinearEdge{
			Start:              roundPoint(e.Start, epsilon),
			End:                roundPoint(e.End, epsilon),
			ContainsFakeCorner: e.ContainsFakeCorner,
		}
		if !re.Start.Equals(re.End) {
			edges = append(edges, re)
		}
	}
	return &Edged{edges: edges}
}

// WithReversedEdges flips the orientation of every edge.
func (f *Edged) WithReversedEdges() Clippable {
	edges := make([]vex.LinearEdge, len(f.edges))
	for i, e := range f.edges {
		edges[i] = e.Reversed()
	}
	return &Edged{edges: edges}
}

// ForEachEdge emits each non-fake edge.
func (f *Edged) ForEachEdge(cb func(edge vex.LinearEdge)) {
	for _, e := range f.edges {
		if !e.ContainsFakeCorner {
			cb(e)
		}
	}
}

// ToPolygonal stitches the edge set into polygon loops.
func (f *Edged) ToPolygonal(epsilon float64) *Polygonal {
	return stitchEdges(f.edges, epsilon)
}

// ToEdged returns the face itself.
func (f *Edged) ToEdged() *Edged {
	return f
}

// ToEdgedClipped bounds the face by a rectangle, folding full-side edges
// into counts.
func (f *Edged) ToEdgedClipped(minX, minY, maxX, maxY float64) *EdgedClipped {
	return newEdgedClippedFromEdges(f.edges, vex.NewBounds(minX, minY, maxX, maxY))
}

// ToEdgedClippedWithoutCheck bounds the face by a rectangle without the
// full-side canonicalization scan; all edges stay stored and the counts
// are zero.
func (f *Edged) ToEdgedClippedWithoutCheck(minX, minY, maxX, maxY float64) *EdgedClipped {
	return &EdgedClipped{
		edges:  f.edges,
		bounds: vex.NewBounds(minX, minY, maxX, maxY),
	}
}

var _ Clippable = (*Edged)(nil)

// almostEquals compares within 1e-12, used by canonicalization scans.
func almostEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}
