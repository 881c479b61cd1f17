package vex

import "math"

// PolygonSignedArea returns the signed area of a polygon loop using the
// shoelace sum
//
//	(1/2) * sum (x1+x0)*(y1-y0)
//
// over consecutive vertex pairs. Positive area means counter-clockwise
// orientation. Downstream side-count corrections in the face algebra assume
// this exact form of the sum, so other shoelace formulations must not be
// substituted.
func PolygonSignedArea(loop []Point) float64 {
	if len(loop) < 3 {
		return 0
	}
	sum := 0.0
	for i, p0 := range loop {
		p1 := loop[(i+1)%len(loop)]
		sum += (p1.X + p0.X) * (p1.Y - p0.Y)
	}
	return sum * 0.5
}

// EdgeSignedAreaTerm returns the contribution of one directed edge to the
// shoelace sum of PolygonSignedArea. Summing the terms of any closed edge
// set yields its signed area.
func EdgeSignedAreaTerm(p0, p1 Point) float64 {
	return 0.5 * (p1.X + p0.X) * (p1.Y - p0.Y)
}

// PolygonCentroidPartial returns the centroid partial of a polygon loop.
// The centroid is partial / (6 * area); callers accumulate partials across
// loops or edge sets before dividing.
func PolygonCentroidPartial(loop []Point) Point {
	var partial Point
	for i, p0 := range loop {
		p1 := loop[(i+1)%len(loop)]
		partial = partial.Add(EdgeCentroidPartialTerm(p0, p1))
	}
	return partial
}

// EdgeCentroidPartialTerm returns the contribution of one directed edge to
// the centroid partial.
func EdgeCentroidPartialTerm(p0, p1 Point) Point {
	base := p0.X*(2*p0.Y+p1.Y) + p1.X*(p0.Y+2*p1.Y)
	return Point{
		X: (p0.X - p1.X) * base,
		Y: (p1.Y - p0.Y) * base,
	}
}

// ClosestDistanceToOrigin returns the minimum distance from the origin to
// the segment p0-p1, using the clamped projection of the origin onto the
// segment's supporting line.
func ClosestDistanceToOrigin(p0, p1 Point) float64 {
	d := p1.Sub(p0)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return p0.Length()
	}
	t := -p0.Dot(d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p0.Add(d.Mul(t)).Length()
}

// FarthestDistanceToOrigin returns the maximum distance from the origin to
// the segment p0-p1. The maximum is always attained at an endpoint.
func FarthestDistanceToOrigin(p0, p1 Point) float64 {
	return math.Max(p0.Length(), p1.Length())
}

// LineIntegralDistance evaluates the Green's-theorem boundary contribution
// of one directed edge to the area integral of distance-to-origin,
//
//	(1/3) * integral |p(t)| * (p(t) x p'(t)) dt  over t in [0, 1],
//
// in closed form. Summed over a closed boundary this equals the double
// integral of |r| over the enclosed region; dividing by the signed area
// gives the area-weighted average distance to the origin.
func LineIntegralDistance(p0, p1 Point) float64 {
	d := p1.Sub(p0)
	a := d.LengthSquared()
	if a < 1e-30 {
		return 0
	}
	cross := p0.Cross(p1)
	if cross == 0 {
		// Edge is radial; it sweeps no area around the origin.
		return 0
	}
	b := 2 * p0.Dot(d)
	c := p0.LengthSquared()
	return cross / 3 * integrateSqrtQuadratic(a, b, c)
}

// integrateSqrtQuadratic evaluates the integral of sqrt(a*t^2 + b*t + c)
// over t in [0, 1] for a > 0 and a non-negative quadratic.
func integrateSqrtQuadratic(a, b, c float64) float64 {
	sqrtA := math.Sqrt(a)
	// Discriminant of the quadratic under the root. Non-positive when the
	// quadratic touches zero; tiny positive values are numerical noise from
	// a segment whose supporting line grazes the origin.
	disc := 4*a*c - b*b
	if disc <= 1e-12*a {
		// The root collapses: sqrt(a*t^2+b*t+c) = sqrt(a) * |t - t0|.
		t0 := -b / (2 * a)
		switch {
		case t0 <= 0:
			return sqrtA * (0.5 - t0)
		case t0 >= 1:
			return sqrtA * (t0 - 0.5)
		default:
			return sqrtA * (t0*t0 + (1-t0)*(1-t0)) / 2
		}
	}

	eval := func(t float64) float64 {
		q := math.Sqrt(a*t*t + b*t + c)
		return (2*a*t+b)/(4*a)*q +
			disc/(8*a*sqrtA)*math.Log(2*a*t+b+2*sqrtA*q)
	}
	return eval(1) - eval(0)
}
