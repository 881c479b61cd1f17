package face

import (
	vex "github.com/gogpu/vex"
)

// edgeSink collects the two output edge sets of a binary clip.
type edgeSink struct {
	min, max []vex.LinearEdge
}

func (s *edgeSink) addMin(e vex.LinearEdge) {
	if !e.Start.Equals(e.End) {
		s.min = append(s.min, e)
	}
}

func (s *edgeSink) addMax(e vex.LinearEdge) {
	if !e.Start.Equals(e.End) {
		s.max = append(s.max, e)
	}
}

// binaryXClipEdges splits an edge set along the vertical line x.
//
// Crossing edges are split at their intersection with the line and closed
// through the fake corner (x, fakeCornerY). An edge lying entirely on the
// line is assigned to the side its face material is adjacent to: material
// lies to the left of a directed edge, so upward edges belong to the min
// side and downward edges to the max side. This keeps the split exact:
// minArea + maxArea equals the input area.
func binaryXClipEdges(edges []vex.LinearEdge, x, fakeCornerY float64) (minEdges, maxEdges []vex.LinearEdge) {
	var sink edgeSink
	corner := vex.Point{X: x, Y: fakeCornerY}

	for _, e := range edges {
		sx, ex := e.Start.X, e.End.X
		switch {
		case sx == x && ex == x:
			// Colinear with the split: assign by direction.
			if e.End.Y > e.Start.Y {
				sink.addMin(e)
			} else {
				sink.addMax(e)
			}
		case sx <= x && ex <= x:
			sink.addMin(e)
		case sx >= x && ex >= x:
			sink.addMax(e)
		default:
			t := (x - sx) / (ex - sx)
			p := vex.Point{X: x, Y: e.Start.Y + t*(e.End.Y-e.Start.Y)}
			if sx < x {
				// Leaves the min side at p.
				sink.addMin(vex.LinearEdge{Start: e.Start, End: p, ContainsFakeCorner: e.ContainsFakeCorner})
				sink.addMin(vex.LinearEdge{Start: p, End: corner, ContainsFakeCorner: true})
				sink.addMax(vex.LinearEdge{Start: corner, End: p, ContainsFakeCorner: true})
				sink.addMax(vex.LinearEdge{Start: p, End: e.End, ContainsFakeCorner: e.ContainsFakeCorner})
			} else {
				// Leaves the max side at p.
				sink.addMax(vex.LinearEdge{Start: e.Start, End: p, ContainsFakeCorner: e.ContainsFakeCorner})
				sink.addMax(vex.LinearEdge{Start: p, End: corner, ContainsFakeCorner: true})
				sink.addMin(vex.LinearEdge{Start: corner, End: p, ContainsFakeCorner: true})
				sink.addMin(vex.LinearEdge{Start: p, End: e.End, ContainsFakeCorner: e.ContainsFakeCorner})
			}
		}
	}
	return sink.min, sink.max
}

// binaryYClipEdges splits an edge set along the horizontal line y, closing
// both halves through the fake corner (fakeCornerX, y). Edges on the line
// are assigned by direction; material lies to the left, so edges running
// in -x belong to the min side and edges running in +x to the max side.
func binaryYClipEdges(edges []vex.LinearEdge, y, fakeCornerX float64) (minEdges, maxEdges []vex.LinearEdge) {
	var sink edgeSink
	corner := vex.Point{X: fakeCornerX, Y: y}

	for _, e := range edges {
		sy, ey := e.Start.Y, e.End.Y
		switch {
		case sy == y && ey == y:
			if e.End.X < e.Start.X {
				sink.addMin(e)
			} else {
				sink.addMax(e)
			}
		case sy <= y && ey <= y:
			sink.addMin(e)
		case sy >= y && ey >= y:
			sink.addMax(e)
		default:
			t := (y - sy) / (ey - sy)
			p := vex.Point{X: e.Start.X + t*(e.End.X-e.Start.X), Y: y}
			if sy < y {
				sink.addMin(vex.LinearEdge{Start: e.Start, End: p, ContainsFakeCorner: e.ContainsFakeCorner})
				sink.addMin(vex.LinearEdge{Start: p, End: corner, ContainsFakeCorner: true})
				sink.addMax(vex.LinearEdge{Start: corner, End: p, ContainsFakeCorner: true})
				sink.addMax(vex.LinearEdge{Start: p, End: e.End, ContainsFakeCorner: e.ContainsFakeCorner})
			} else {
				sink.addMax(vex.LinearEdge{Start: e.Start, End: p, ContainsFakeCorner: e.ContainsFakeCorner})
				sink.addMax(vex.LinearEdge{Start: p, End: corner, ContainsFakeCorner: true})
				sink.addMin(vex.LinearEdge{Start: corner, End: p, ContainsFakeCorner: true})
				sink.addMin(vex.LinearEdge{Start: p, End: e.End, ContainsFakeCorner: e.ContainsFakeCorner})
			}
		}
	}
	return sink.min, sink.max
}

// binaryLineClipEdges splits an edge set along the line normal.p = value.
// The min side satisfies normal.p <= value. The fake corner sits at
// (normal*value + perpendicular*fakeCornerPerpendicular) divided by the
// normal's squared length, where the perpendicular is the normal rotated
// 90 degrees counter-clockwise.
//
// normal is not required to be unit length; value scales with it.
func binaryLineClipEdges(edges []vex.LinearEdge, normal vex.Point, value, fakeCornerPerpendicular float64) (minEdges, maxEdges []vex.LinearEdge) {
	var sink edgeSink
	perp := normal.Perpendicular()
	lenSq := normal.LengthSquared()
	corner := normal.Mul(value / lenSq).Add(perp.Mul(fakeCornerPerpendicular / lenSq))

	for _, e := range edges {
		ds := normal.Dot(e.Start)
		de := normal.Dot(e.End)
		switch {
		case ds == value && de == value:
			// Colinear: material lies to the left of the edge direction,
			// which is the min half-plane when the edge runs along +perp.
			if e.Delta().Dot(perp) > 0 {
				sink.addMin(e)
			} else {
				sink.addMax(e)
			}
		case ds <= value && de <= value:
			sink.addMin(e)
		case ds >= value && de >= value:
			sink.addMax(e)
		default:
			t := (value - ds) / (de - ds)
			p := e.Start.Lerp(e.End, t)
			if ds < value {
				sink.addMin(vex.LinearEdge{Start: e.Start, End: p, ContainsFakeCorner: e.ContainsFakeCorner})
				sink.addMin(vex.LinearEdge{Start: p, End: corner, ContainsFakeCorner: true})
				sink.addMax(vex.LinearEdge{Start: corner, End: p, ContainsFakeCorner: true})
				sink.addMax(vex.LinearEdge{Start: p, End: e.End, ContainsFakeCorner: e.ContainsFakeCorner})
			} else {
				sink.addMax(vex.LinearEdge{Start: e.Start, End: p, ContainsFakeCorner: e.ContainsFakeCorner})
				sink.addMax(vex.LinearEdge{Start: p, End: corner, ContainsFakeCorner: true})
				sink.addMin(vex.LinearEdge{Start: corner, End: p, ContainsFakeCorner: true})
				sink.addMin(vex.LinearEdge{Start: p, End: e.End, ContainsFakeCorner: e.ContainsFakeCorner})
			}
		}
	}
	return sink.min, sink.max
}

// clipEdgesToRect intersects an edge set with an axis-aligned rectangle by
// four successive binary clips, keeping the inner half each time. Fake
// corners are routed through the rectangle's corners.
func clipEdgesToRect(edges []vex.LinearEdge, minX, minY, maxX, maxY float64) []vex.LinearEdge {
	_, inner := binaryXClipEdges(edges, minX, minY)
	inner, _ = binaryXClipEdges(inner, maxX, minY)
	_, inner = binaryYClipEdges(inner, minY, minX)
	inner, _ = binaryYClipEdges(inner, maxY, minX)
	return inner
}

// stripeClipEdges partitions an edge set into len(values)+1 strips along
// the normal by sequential binary line clips. values must be sorted in
// ascending order.
func stripeClipEdges(edges []vex.LinearEdge, normal vex.Point, values []float64, fakeCornerPerpendicular float64) [][]vex.LinearEdge {
	out := make([][]vex.LinearEdge, 0, len(values)+1)
	rest := edges
	for _, v := range values {
		var below []vex.LinearEdge
		below, rest = binaryLineClipEdges(rest, normal, v, fakeCornerPerpendicular)
		out = append(out, below)
	}
	return append(out, rest)
}
