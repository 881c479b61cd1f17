package face

import (
	"math"

	vex "github.com/gogpu/vex"
)

// stitchEpsilon is the endpoint-matching tolerance used when a polygonal
// result must be reassembled from clipped edges.
const stitchEpsilon = 1e-8

// Polygonal is a face represented as ordered polygon loops. The outer
// boundary is counter-clockwise (positive signed area); holes are
// clockwise, lie inside the outer boundary, and do not overlap each
// other.
type Polygonal struct {
	loops [][]vex.Point
}

// NewPolygonal creates a polygonal face from loops. The slices are
// retained.
func NewPolygonal(loops [][]vex.Point) *Polygonal {
	return &Polygonal{loops: loops}
}

// Loops returns the underlying loops. The slices must not be mutated.
func (f *Polygonal) Loops() [][]vex.Point {
	return f.loops
}

// Bounds returns the bound of all loop vertices.
func (f *Polygonal) Bounds() vex.Bounds {
	b := vex.EmptyBounds()
	for _, loop := range f.loops {
		for _, p := range loop {
			b = b.UnionPoint(p)
		}
	}
	return b
}

// Area returns the signed area summed over loops.
func (f *Polygonal) Area() float64 {
	sum := 0.0
	for _, loop := range f.loops {
		sum += vex.PolygonSignedArea(loop)
	}
	return sum
}

// Centroid returns the centroid for a precomputed area.
func (f *Polygonal) Centroid(area float64) vex.Point {
	var partial vex.Point
	for _, loop := range f.loops {
		partial = partial.Add(vex.PolygonCentroidPartial(loop))
	}
	return centroidFromPartial(partial, area, f.Bounds())
}

// ContainsPoint reports whether the winding number at p is nonzero.
func (f *Polygonal) ContainsPoint(p vex.Point) bool {
	return vex.WindingNumberPolygons(f.loops, p) != 0
}

// DotRange returns the range of normal-dot-v over the loop vertices.
func (f *Polygonal) DotRange(normal vex.Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, loop := range f.loops {
		for _, p := range loop {
			d := normal.Dot(p)
			lo = math.Min(lo, d)
			hi = math.Max(hi, d)
		}
	}
	return lo, hi
}

// DistanceRangeToEdges returns the distance range from p to the boundary.
func (f *Polygonal) DistanceRangeToEdges(p vex.Point) (float64, float64) {
	return distanceRangeOverEdges(f.edges(), p)
}

// DistanceRangeToInside returns the distance range with min forced to 0
// for interior points.
func (f *Polygonal) DistanceRangeToInside(p vex.Point) (float64, float64) {
	lo, hi := f.DistanceRangeToEdges(p)
	if f.ContainsPoint(p) {
		lo = 0
	}
	return lo, hi
}

// AverageDistance returns the area-weighted average distance from p.
func (f *Polygonal) AverageDistance(p vex.Point, area float64) float64 {
	return averageDistanceOverEdges(f.edges(), p, area)
}

// edges converts the loops to a flat edge set.
func (f *Polygonal) edges() []vex.LinearEdge {
	return vex.EdgesFromPolygons(f.loops)
}

// viaEdged runs an edge-set operation and stitches the result back into a
// polygonal face.
func viaEdged(edges []vex.LinearEdge) *Polygonal {
	return stitchEdges(edges, stitchEpsilon)
}

// Clipped intersects the face with an axis-aligned rectangle.
func (f *Polygonal) Clipped(minX, minY, maxX, maxY float64) Clippable {
	return viaEdged(clipEdgesToRect(f.edges(), minX, minY, maxX, maxY))
}

// BinaryXClip splits the face along the vertical line x.
func (f *Polygonal) BinaryXClip(x, fakeCornerY float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryXClipEdges(f.edges(), x, fakeCornerY)
	return viaEdged(minEdges), viaEdged(maxEdges)
}

// BinaryYClip splits the face along the horizontal line y.
func (f *Polygonal) BinaryYClip(y, fakeCornerX float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryYClipEdges(f.edges(), y, fakeCornerX)
	return viaEdged(minEdges), viaEdged(maxEdges)
}

// BinaryLineClip splits the face along the half-plane normal.p = value.
func (f *Polygonal) BinaryLineClip(normal vex.Point, value, fakeCornerPerpendicular float64) (Clippable, Clippable) {
	minEdges, maxEdges := binaryLineClipEdges(f.edges(), normal, value, fakeCornerPerpendicular)
	return viaEdged(minEdges), viaEdged(maxEdges)
}

// StripeLineClip partitions the face into strips along the normal.
func (f *Polygonal) StripeLineClip(normal vex.Point, values []float64, fakeCornerPerpendicular float64) []Clippable {
	strips := stripeClipEdges(f.edges(), normal, values, fakeCornerPerpendicular)
	out := make([]Clippable, len(strips))
	for i, s := range strips {
		out[i] = viaEdged(s)
	}
	return out
}

// BinaryCircularClip splits the face by a polygonal circle approximation.
func (f *Polygonal) BinaryCircularClip(center vex.Point, radius, maxAngleSplit float64) (Clippable, Clippable) {
	inside, outside := circularClipEdges(f.edges(), center, radius, maxAngleSplit)
	return viaEdged(inside), viaEdged(outside)
}

// GridClipIterate clips the face against every cell of an integer grid.
// Cells are visited in cell-major order within loop-major order: each
// loop's contributions are emitted before the next loop begins.
func (f *Polygonal) GridClipIterate(minX, minY, stepX, stepY float64, stepXCount, stepYCount int, cellCb GridCellCallback, polyCb func()) {
	for _, loop := range f.loops {
		gridClipEdges(vex.EdgesFromPolygon(loop), minX, minY, stepX, stepY, stepXCount, stepYCount, cellCb)
	}
	if polyCb != nil {
		polyCb()
	}
}

// Transformed applies an affine transform to every vertex. A reflecting
// transform reverses each loop so outer boundaries stay counter-clockwise.
func (f *Polygonal) Transformed(m vex.Matrix) Clippable {
	flip := m.Determinant() < 0
	loops := make([][]vex.Point, len(f.loops))
	for i, loop := range f.loops {
		out := make([]vex.Point, len(loop))
		for j, p := range loop {
			out[j] = m.TransformPoint(p)
		}
		if flip {
			for a, b := 0, len(out)-1; a < b; a, b = a+1, b-1 {
				out[a], out[b] = out[b], out[a]
			}
		}
		loops[i] = out
	}
	return &Polygonal{loops: loops}
}

// Rounded snaps every vertex to multiples of epsilon, dropping vertices
// that collapse onto their predecessor.
func (f *Polygonal) Rounded(epsilon float64) Clippable {
	loops := make([][]vex.Point, 0, len(f.loops))
	for _, loop := range f.loops {
		out := make([]vex.Point, 0, len(loop))
		for _, p := range loop {
			rp := roundPoint(p, epsilon)
			if len(out) > 0 && out[len(out)-1].Equals(rp) {
				continue
			}
			out = append(out, rp)
		}
		if len(out) > 1 && out[0].Equals(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		if len(out) >= 3 {
			loops = append(loops, out)
		}
	}
	return &Polygonal{loops: loops}
}

// WithReversedEdges reverses every loop; the area negates.
func (f *Polygonal) WithReversedEdges() Clippable {
	loops := make([][]vex.Point, len(f.loops))
	for i, loop := range f.loops {
		out := make([]vex.Point, len(loop))
		for j := range loop {
			out[j] = loop[len(loop)-1-j]
		}
		loops[i] = out
	}
	return &Polygonal{loops: loops}
}

// ForEachEdge emits each loop edge once.
func (f *Polygonal) ForEachEdge(cb func(edge vex.LinearEdge)) {
	for _, e := range f.edges() {
		cb(e)
	}
}

// ToPolygonal returns the face itself; epsilon is ignored because the
// loops are already stitched.
func (f *Polygonal) ToPolygonal(epsilon float64) *Polygonal {
	return f
}

// ToEdged converts the loops to a plain edge set.
func (f *Polygonal) ToEdged() *Edged {
	return &Edged{edges: f.edges()}
}

// ToEdgedClipped bounds the face by a rectangle.
func (f *Polygonal) ToEdgedClipped(minX, minY, maxX, maxY float64) *EdgedClipped {
	return newEdgedClippedFromEdges(f.edges(), vex.NewBounds(minX, minY, maxX, maxY))
}

var _ Clippable = (*Polygonal)(nil)
