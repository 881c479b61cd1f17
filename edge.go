package vex

import (
	"fmt"
	"math"
	"strings"
)

// LinearEdge is a directed line segment from Start to End.
//
// ContainsFakeCorner marks edges synthesized at a clipping-region corner to
// close an open contour after half-plane clipping. Fake-corner edges
// contribute to signed area and winding exactly like real edges, but they
// are excluded from bounds computations and from "real" edge iteration.
type LinearEdge struct {
	Start, End         Point
	ContainsFakeCorner bool
}

// NewLinearEdge creates a directed edge. It returns ErrDegenerateEdge when
// start and end coincide; degenerate edges are filtered by the callers that
// assemble faces.
func NewLinearEdge(start, end Point) (LinearEdge, error) {
	if start.Equals(end) {
		return LinearEdge{}, ErrDegenerateEdge
	}
	return LinearEdge{Start: start, End: end}, nil
}

// Edge creates a directed edge without degeneracy checking.
func Edge(start, end Point) LinearEdge {
	return LinearEdge{Start: start, End: end}
}

// FakeEdge creates a directed fake-corner edge.
func FakeEdge(start, end Point) LinearEdge {
	return LinearEdge{Start: start, End: end, ContainsFakeCorner: true}
}

// IsDegenerate reports whether the edge has zero length.
func (e LinearEdge) IsDegenerate() bool {
	return e.Start.Equals(e.End)
}

// Delta returns End - Start.
func (e LinearEdge) Delta() Point {
	return e.End.Sub(e.Start)
}

// Reversed returns the edge with its direction flipped.
// The fake-corner flag is preserved.
func (e LinearEdge) Reversed() LinearEdge {
	return LinearEdge{Start: e.End, End: e.Start, ContainsFakeCorner: e.ContainsFakeCorner}
}

// SignedAreaTerm returns the edge's contribution to the shoelace sum.
func (e LinearEdge) SignedAreaTerm() float64 {
	return EdgeSignedAreaTerm(e.Start, e.End)
}

// CentroidPartialTerm returns the edge's contribution to the centroid
// partial.
func (e LinearEdge) CentroidPartialTerm() Point {
	return EdgeCentroidPartialTerm(e.Start, e.End)
}

// EvaluateLineIntegralDistance returns the edge's Green's-theorem
// contribution to the area integral of distance from origin.
// See LineIntegralDistance.
func (e LinearEdge) EvaluateLineIntegralDistance(origin Point) float64 {
	return LineIntegralDistance(e.Start.Sub(origin), e.End.Sub(origin))
}

// EvaluateClosestDistanceToOrigin returns the minimum distance from the
// origin to the edge.
func (e LinearEdge) EvaluateClosestDistanceToOrigin() float64 {
	return ClosestDistanceToOrigin(e.Start, e.End)
}

// Transformed returns the edge with both endpoints mapped through m.
func (e LinearEdge) Transformed(m Matrix) LinearEdge {
	return LinearEdge{
		Start:              m.TransformPoint(e.Start),
		End:                m.TransformPoint(e.End),
		ContainsFakeCorner: e.ContainsFakeCorner,
	}
}

// windingContribution returns the edge's contribution to the winding
// number of point, using the horizontal-ray crossing-sign convention:
// an upward crossing right of the point counts +1, a downward crossing -1.
// The half-open vertex rule (start inclusive, end exclusive, per
// direction) means shared vertices are counted exactly once.
func (e LinearEdge) windingContribution(point Point) int {
	s, t := e.Start, e.End
	if s.Y <= point.Y {
		if t.Y > point.Y && t.Sub(s).Cross(point.Sub(s)) > 0 {
			return 1
		}
	} else if t.Y <= point.Y && t.Sub(s).Cross(point.Sub(s)) < 0 {
		return -1
	}
	return 0
}

// EdgesFromPolygon converts one polygon loop to a set of directed edges,
// filtering out degenerate segments.
func EdgesFromPolygon(loop []Point) []LinearEdge {
	edges := make([]LinearEdge, 0, len(loop))
	for i, p0 := range loop {
		p1 := loop[(i+1)%len(loop)]
		if p0.Equals(p1) {
			continue
		}
		edges = append(edges, LinearEdge{Start: p0, End: p1})
	}
	return edges
}

// EdgesFromPolygons converts polygon loops to a flat set of directed edges.
func EdgesFromPolygons(loops [][]Point) []LinearEdge {
	var edges []LinearEdge
	for _, loop := range loops {
		edges = append(edges, EdgesFromPolygon(loop)...)
	}
	return edges
}

// WindingNumberPolygons returns the winding number of point with respect
// to the polygon loops, by summing horizontal-ray crossing signs.
func WindingNumberPolygons(loops [][]Point, point Point) int {
	winding := 0
	for _, loop := range loops {
		for i, p0 := range loop {
			p1 := loop[(i+1)%len(loop)]
			winding += LinearEdge{Start: p0, End: p1}.windingContribution(point)
		}
	}
	return winding
}

// WindingNumberEdges returns the winding number of point with respect to a
// set of directed edges. Fake-corner edges participate like real edges.
func WindingNumberEdges(edges []LinearEdge, point Point) int {
	winding := 0
	for _, e := range edges {
		winding += e.windingContribution(point)
	}
	return winding
}

// BoundsOfPoints returns the axis-aligned bounding box of the points as
// (minX, minY, maxX, maxY). It returns inverted infinities for an empty
// slice, matching the empty-rectangle convention used by unions.
func BoundsOfPoints(points []Point) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

// PolygonsToPathData renders polygon loops as SVG path data, for debug
// export and golden-file diffs.
func PolygonsToPathData(loops [][]Point) string {
	var sb strings.Builder
	for _, loop := range loops {
		for i, p := range loop {
			if i == 0 {
				fmt.Fprintf(&sb, "M %g %g ", p.X, p.Y)
			} else {
				fmt.Fprintf(&sb, "L %g %g ", p.X, p.Y)
			}
		}
		if len(loop) > 0 {
			sb.WriteString("Z ")
		}
	}
	return strings.TrimSpace(sb.String())
}
