package face

import (
	"math"

	vex "github.com/gogpu/vex"
)

// Boolean combination of faces by edge classification: edges of each
// operand are split at their pairwise crossings, and each fragment is
// kept when the result region lies on its left (material) side but not
// on its right. Testing both sides regularizes the result, so operands
// that share boundary segments combine correctly: the shared fragment is
// kept once, from the first operand. The operands are consumed as
// regions (nonzero winding), not meshes.

// splitAtIntersections cuts every edge of a at its crossings with edges
// of b.
func splitAtIntersections(a, b []vex.LinearEdge) []vex.LinearEdge {
	out := make([]vex.LinearEdge, 0, len(a))
	for _, e := range a {
		ts := []float64{0, 1}
		for _, o := range b {
			if t, ok := segmentIntersection(e, o); ok {
				ts = append(ts, t)
			}
		}
		sortFloats(ts)
		for i := 0; i+1 < len(ts); i++ {
			t0, t1 := ts[i], ts[i+1]
			if t1-t0 < 1e-12 {
				continue
			}
			seg := vex.LinearEdge{
				Start:              e.Start.Lerp(e.End, t0),
				End:                e.Start.Lerp(e.End, t1),
				ContainsFakeCorner: e.ContainsFakeCorner,
			}
			if !seg.Start.Equals(seg.End) {
				out = append(out, seg)
			}
		}
	}
	return out
}

// segmentIntersection returns the parameter on e of a crossing with o,
// when the crossing lies strictly inside e.
func segmentIntersection(e, o vex.LinearEdge) (float64, bool) {
	d1 := e.Delta()
	d2 := o.Delta()
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-14 {
		return 0, false
	}
	diff := o.Start.Sub(e.Start)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	if t <= 1e-12 || t >= 1-1e-12 || u < -1e-12 || u > 1+1e-12 {
		return 0, false
	}
	return t, true
}

func sortFloats(v []float64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

// sidePoints returns probe points just left and right of the fragment's
// midpoint. The offset scales with the coordinate magnitude to stay
// above rounding noise.
func sidePoints(e vex.LinearEdge) (left, right vex.Point) {
	mid := e.Start.Lerp(e.End, 0.5)
	n := e.Delta().Perpendicular().Normalize()
	eps := 1e-7 * math.Max(1, math.Max(math.Abs(mid.X), math.Abs(mid.Y)))
	return mid.Add(n.Mul(eps)), mid.Sub(n.Mul(eps))
}

// keepBoundary filters fragments to those forming the boundary of the
// region defined by inResult: result material on the left, none on the
// right. When skipOnBoundaryOf is non-nil, fragments lying on that
// operand's own boundary are dropped (the operand's copy already
// supplies them).
func keepBoundary(frags []vex.LinearEdge, inResult func(p vex.Point) bool, skipOnBoundaryOf *Edged) []vex.LinearEdge {
	out := make([]vex.LinearEdge, 0, len(frags))
	for _, e := range frags {
		left, right := sidePoints(e)
		if !inResult(left) || inResult(right) {
			continue
		}
		if skipOnBoundaryOf != nil &&
			skipOnBoundaryOf.ContainsPoint(left) != skipOnBoundaryOf.ContainsPoint(right) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Intersection returns the region covered by both faces.
func Intersection(a, b *Edged) *Edged {
	aFrags := splitAtIntersections(a.Edges(), b.Edges())
	bFrags := splitAtIntersections(b.Edges(), a.Edges())

	in := func(p vex.Point) bool {
		return a.ContainsPoint(p) && b.ContainsPoint(p)
	}

	edges := keepBoundary(aFrags, in, nil)
	edges = append(edges, keepBoundary(bFrags, in, a)...)
	return &Edged{edges: edges}
}

// Difference returns the region covered by a but not b. Fragments of b's
// boundary inside a are reversed so the result stays consistently
// oriented.
func Difference(a, b *Edged) *Edged {
	aFrags := splitAtIntersections(a.Edges(), b.Edges())
	bFrags := splitAtIntersections(b.Edges(), a.Edges())
	for i, e := range bFrags {
		bFrags[i] = e.Reversed()
	}

	in := func(p vex.Point) bool {
		return a.ContainsPoint(p) && !b.ContainsPoint(p)
	}

	edges := keepBoundary(aFrags, in, nil)
	edges = append(edges, keepBoundary(bFrags, in, a)...)
	return &Edged{edges: edges}
}
