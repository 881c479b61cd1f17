// Package filter implements the piecewise-polynomial reconstruction
// filters (box, bilinear, Mitchell-Netravali) and the analytic integrator
// that convolves them with clipped faces via Green's-theorem line
// integrals.
package filter

import (
	"errors"
	"fmt"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
)

// ErrUnknownFilter is returned when a filter type is out of range.
var ErrUnknownFilter = errors.New("filter: unknown filter type")

// Type identifies a reconstruction filter.
type Type uint8

const (
	// Box reconstructs with the unit box: the filter value of an image
	// cell is the signed area of the face inside it.
	Box Type = iota
	// Bilinear reconstructs with the separable tent (1-|x|)(1-|y|).
	Bilinear
	// MitchellNetravali reconstructs with the separable Mitchell cubic
	// (B = C = 1/3).
	MitchellNetravali
)

// String returns a human-readable name for the filter type.
func (t Type) String() string {
	switch t {
	case Box:
		return "Box"
	case Bilinear:
		return "Bilinear"
	case MitchellNetravali:
		return "MitchellNetravali"
	default:
		return "Unknown"
	}
}

// piece is one cubic polynomial piece of a separable kernel axis:
// f(a) = c0 + c1*a + c2*a^2 + c3*a^3 on the cell [k, k+1] it belongs to.
type piece struct {
	c0, c1, c2, c3 float64
}

// antiderivative evaluates the indefinite integral of the piece at a.
// The integration constant is irrelevant: the integrator only ever sums
// it over closed boundaries or takes differences.
func (p piece) antiderivative(a float64) float64 {
	return a * (p.c0 + a*(p.c1/2+a*(p.c2/3+a*p.c3/4)))
}

// Filter is a separable piecewise-cubic reconstruction kernel, described
// per integer cell offset. The kernel is nonzero on cells
// [x+minOffset, x+maxOffset+1) around a sample at integer position x.
type Filter struct {
	typ    Type
	pieces []piece // indexed by offset - minOffset
	minOff int
	maxOff int

	radius      float64
	boundsShift int
}

// New creates the filter for a type. It returns ErrUnknownFilter for
// values outside the enum.
func New(t Type) (*Filter, error) {
	switch t {
	case Box:
		return &Filter{
			typ:    Box,
			minOff: 0,
			maxOff: 0,
			// Constant 1 on [0, 1]: the sample's unit box is the image
			// cell itself.
			pieces:      []piece{{c0: 1}},
			radius:      0.5,
			boundsShift: -1,
		}, nil
	case Bilinear:
		return &Filter{
			typ:    Bilinear,
			minOff: -1,
			maxOff: 0,
			pieces: []piece{
				{c0: 1, c1: 1},  // 1+a on [-1, 0]
				{c0: 1, c1: -1}, // 1-a on [0, 1]
			},
			radius: 1,
		}, nil
	case MitchellNetravali:
		// Mitchell-Netravali with B = C = 1/3:
		//   inner |t| <= 1:      7/6|t|^3 - 2t^2 + 8/9
		//   outer 1 < |t| <= 2: -7/18|t|^3 + 2t^2 - 10/3|t| + 16/9
		return &Filter{
			typ:    MitchellNetravali,
			minOff: -2,
			maxOff: 1,
			pieces: []piece{
				{c0: 16.0 / 9, c1: 10.0 / 3, c2: 2, c3: 7.0 / 18},   // outer, a in [-2, -1]
				{c0: 8.0 / 9, c1: 0, c2: -2, c3: -7.0 / 6},          // inner, a in [-1, 0]
				{c0: 8.0 / 9, c1: 0, c2: -2, c3: 7.0 / 6},           // inner, a in [0, 1]
				{c0: 16.0 / 9, c1: -10.0 / 3, c2: 2, c3: -7.0 / 18}, // outer, a in [1, 2]
			},
			radius: 2,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFilter, t)
	}
}

// MustNew creates the filter for a type, panicking on unknown types.
// Intended for the fixed types used in tests and defaults.
func MustNew(t Type) *Filter {
	f, err := New(t)
	if err != nil {
		panic(err)
	}
	return f
}

// Type returns the filter's type.
func (f *Filter) Type() Type { return f.typ }

// Radius returns the kernel's support half-width in pixels.
func (f *Filter) Radius() float64 { return f.radius }

// BoundsShift returns the sample-iteration shift: -1 for the box filter
// (whose samples align with cell centers), 0 otherwise.
func (f *Filter) BoundsShift() int { return f.boundsShift }

// CellOffsets returns the inclusive range of integer cell offsets the
// kernel covers around a sample.
func (f *Filter) CellOffsets() (minOffset, maxOffset int) {
	return f.minOff, f.maxOff
}

// pieceFor returns the kernel piece covering cell offset k.
func (f *Filter) pieceFor(k int) (piece, bool) {
	if k < f.minOff || k > f.maxOff {
		return piece{}, false
	}
	return f.pieces[k-f.minOff], true
}

// EvaluateFull returns the kernel's integral over the full image cell
// (px, py) for a sample at (x, y). It is the product of the per-axis
// piece integrals and therefore a closed-form constant per offset.
func (f *Filter) EvaluateFull(x, y, px, py int) float64 {
	pa, okA := f.pieceFor(px - x)
	pb, okB := f.pieceFor(py - y)
	if !okA || !okB {
		return 0
	}
	a0 := float64(px - x)
	b0 := float64(py - y)
	return (pa.antiderivative(a0+1) - pa.antiderivative(a0)) *
		(pb.antiderivative(b0+1) - pb.antiderivative(b0))
}

// Gauss-Legendre nodes and weights on [0, 1], exact for polynomials up to
// degree 7. Edge integrands here are at most degree 7 (quartic
// antiderivative times cubic), so the quadrature equals the analytic
// integral to rounding error.
var gaussNodes = [4]float64{
	0.5 - 0.8611363115940526/2,
	0.5 - 0.3399810435848563/2,
	0.5 + 0.3399810435848563/2,
	0.5 + 0.8611363115940526/2,
}

var gaussWeights = [4]float64{
	0.3478548451374538 / 2,
	0.6521451548625461 / 2,
	0.6521451548625461 / 2,
	0.3478548451374538 / 2,
}

// EvaluateClippedEdges integrates the kernel over a partial cell given as
// a closed edge set (fake-corner edges included), using the Green's
// identity
//
//	integral f(a, b) dA = closed-integral F1(a) * f2(b) db
//
// where F1 is the per-axis antiderivative. Edges must already be clipped
// to the cell (px, py) so each axis stays on a single kernel piece.
func (f *Filter) EvaluateClippedEdges(edges []vex.LinearEdge, x, y, px, py int) float64 {
	pa, okA := f.pieceFor(px - x)
	pb, okB := f.pieceFor(py - y)
	if !okA || !okB {
		return 0
	}

	fx := float64(x)
	fy := float64(y)
	sum := 0.0
	for _, e := range edges {
		db := e.End.Y - e.Start.Y
		if db == 0 {
			continue
		}
		a0 := e.Start.X - fx
		b0 := e.Start.Y - fy
		da := e.End.X - e.Start.X

		edgeSum := 0.0
		for i := 0; i < 4; i++ {
			t := gaussNodes[i]
			a := a0 + t*da
			b := b0 + t*db
			f2 := pb.c0 + b*(pb.c1+b*(pb.c2+b*pb.c3))
			edgeSum += gaussWeights[i] * pa.antiderivative(a) * f2
		}
		sum += edgeSum * db
	}
	return sum
}

// EvaluateClipped integrates the kernel over a partial cell given as a
// face. The area argument mirrors the integrator's cached sub-face area
// contract; it is unused by the closed-form evaluation itself.
func (f *Filter) EvaluateClipped(fc face.Clippable, x, y, px, py int, area float64) float64 {
	_ = area
	return f.EvaluateClippedEdges(fc.ToEdged().Edges(), x, y, px, py)
}
