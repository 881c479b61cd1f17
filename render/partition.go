package render

import (
	"math"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
	"github.com/gogpu/vex/filter"
)

// RenderableFace pairs a clipped face with its program. Path booleans on
// nonzero-rule paths have been resolved by clipping; those on even-odd
// paths stay in the program and resolve per evaluation.
type RenderableFace struct {
	Face    face.Clippable
	Program Program
}

// PartitionOptions tunes the face partitioner.
type PartitionOptions struct {
	// TileSize, when positive, cuts faces larger than this along the tile
	// grid so downstream stages see bounded faces.
	TileSize float64

	// MinArea discards degenerate faces below this unsigned area.
	// Defaults to 1e-8.
	MinArea float64
}

// partitionAreaEpsilon is the default degenerate-face threshold.
const partitionAreaEpsilon = 1e-8

type workItem struct {
	face    face.Clippable
	program Program
}

// Partition splits a program against its paths over the clip bounds,
// producing renderable (face, program) pairs. Path booleans are pushed to
// the leaves by intersecting the face with each path; pad-extend linear
// gradients in evaluation space are cut into per-segment linear blends
// along their stop lines.
func Partition(program Program, bounds vex.Bounds, opts PartitionOptions) []RenderableFace {
	minArea := opts.MinArea
	if minArea <= 0 {
		minArea = partitionAreaEpsilon
	}

	root := face.EdgedFromPolygons([][]vex.Point{{
		{X: bounds.MinX, Y: bounds.MinY},
		{X: bounds.MaxX, Y: bounds.MinY},
		{X: bounds.MaxX, Y: bounds.MaxY},
		{X: bounds.MinX, Y: bounds.MaxY},
	}})

	queue := []workItem{{face: root, program: program.Simplified()}}
	var out []RenderableFace

	for len(queue) > 0 {
		item := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if item.program.IsFullyTransparent() {
			continue
		}
		area := item.face.Area()
		if math.Abs(area) < minArea {
			vex.Logger().Debug("partition: dropping degenerate face",
				"area", area, "program", formatProgram(item.program))
			continue
		}

		if pb := findPathBoolean(item.program); pb != nil {
			pathFace := face.EdgedFromPolygons(pb.Path.Loops)
			inFace := face.Intersection(item.face.ToEdged(), pathFace)
			outFace := face.Difference(item.face.ToEdged(), pathFace)
			queue = append(queue,
				workItem{face: inFace, program: replaceNode(item.program, pb, pb.Inside).Simplified()},
				workItem{face: outFace, program: replaceNode(item.program, pb, pb.Outside).Simplified()},
			)
			continue
		}

		if lg := findSplittableGradient(item.program); lg != nil {
			queue = append(queue, splitGradient(item, lg)...)
			continue
		}

		if opts.TileSize > 0 {
			fb := item.face.Bounds()
			if fb.Width() > opts.TileSize || fb.Height() > opts.TileSize {
				queue = append(queue, cutToTiles(item, fb, opts.TileSize)...)
				continue
			}
		}

		out = append(out, RenderableFace{Face: item.face, Program: item.program})
	}

	return out
}

// findPathBoolean returns the first path-boolean node in evaluation
// order that the partitioner can resolve geometrically, or nil.
// Even-odd paths stay in the program and resolve per evaluation: the
// edge-classification boolean consumes regions by nonzero winding.
func findPathBoolean(p Program) *PathBoolean {
	if pb, ok := p.(*PathBoolean); ok {
		if pb.Path != nil && pb.Path.FillRule == FillNonZero {
			return pb
		}
		return nil
	}
	for _, child := range p.Children() {
		if pb := findPathBoolean(child); pb != nil {
			return pb
		}
	}
	return nil
}

// findSplittableGradient returns the first linear gradient that can be
// cut along its stop lines: evaluation space must equal gradient space
// and the extend mode must be pad (repeat and reflect would need
// unbounded stripes).
func findSplittableGradient(p Program) *LinearGradient {
	if lg, ok := p.(*LinearGradient); ok {
		if lg.Inverse.IsIdentity() && lg.Extend == filter.ExtendPad && len(lg.Stops) >= 2 {
			return lg
		}
		return nil
	}
	for _, child := range p.Children() {
		if lg := findSplittableGradient(child); lg != nil {
			return lg
		}
	}
	return nil
}

// splitGradient stripe-clips the face along the gradient's stop lines and
// replaces the gradient with per-strip linear blends.
func splitGradient(item workItem, lg *LinearGradient) []workItem {
	d := lg.End.Sub(lg.Start)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return []workItem{{face: item.face, program: replaceNode(item.program, lg, lg.Stops[0].Program).Simplified()}}
	}
	normal := d.Div(lenSq)
	base := normal.Dot(lg.Start)

	values := make([]float64, len(lg.Stops))
	for i, s := range lg.Stops {
		values[i] = s.Ratio + base
	}

	fakePerp := normal.Perpendicular().Dot(lg.Start)
	strips := item.face.StripeLineClip(normal, values, fakePerp)

	out := make([]workItem, 0, len(strips))
	for i, strip := range strips {
		var repl Program
		switch {
		case i == 0:
			repl = lg.Stops[0].Program
		case i == len(strips)-1:
			repl = lg.Stops[len(lg.Stops)-1].Program
		default:
			lo, hi := lg.Stops[i-1], lg.Stops[i]
			span := hi.Ratio - lo.Ratio
			if span <= 0 {
				repl = hi.Program
				break
			}
			repl = NewLinearBlend(
				normal.Div(span),
				(lo.Ratio+base)/span,
				lo.Program, hi.Program,
			)
		}
		out = append(out, workItem{
			face:    strip,
			program: replaceNode(item.program, lg, repl).Simplified(),
		})
	}
	return out
}

// cutToTiles clips the face along a tile grid.
func cutToTiles(item workItem, fb vex.Bounds, tileSize float64) []workItem {
	nx := int(math.Ceil(fb.Width() / tileSize))
	ny := int(math.Ceil(fb.Height() / tileSize))
	out := make([]workItem, 0, nx*ny)
	for ty := 0; ty < ny; ty++ {
		for tx := 0; tx < nx; tx++ {
			minX := fb.MinX + float64(tx)*tileSize
			minY := fb.MinY + float64(ty)*tileSize
			clipped := item.face.Clipped(minX, minY, minX+tileSize, minY+tileSize)
			out = append(out, workItem{face: clipped, program: item.program})
		}
	}
	return out
}

// replaceNode rebuilds the tree with target swapped for repl. Nodes are
// immutable, so every ancestor along the path is recreated.
func replaceNode(p Program, target, repl Program) Program {
	if p == target {
		return repl
	}

	switch n := p.(type) {
	case *Color, *Image:
		return p
	case *Alpha:
		return NewAlpha(replaceNode(n.Child, target, repl), n.Alpha)
	case *ColorConvert:
		return NewColorConvert(replaceNode(n.Child, target, repl), n.Convert)
	case *FilterMatrix:
		return NewFilterMatrix(replaceNode(n.Child, target, repl), n.Matrix)
	case *NormalDebug:
		return NewNormalDebug(replaceNode(n.Child, target, repl))
	case *Stack:
		items := make([]Program, len(n.Items))
		for i, item := range n.Items {
			items[i] = replaceNode(item, target, repl)
		}
		return NewStack(items...)
	case *BlendComposeNode:
		return NewBlendCompose(n.Compose, n.Blend,
			replaceNode(n.A, target, repl), replaceNode(n.B, target, repl))
	case *PathBoolean:
		return NewPathBoolean(n.Path,
			replaceNode(n.Inside, target, repl), replaceNode(n.Outside, target, repl))
	case *LinearBlend:
		return NewLinearBlend(n.ScaledNormal, n.Offset,
			replaceNode(n.Zero, target, repl), replaceNode(n.One, target, repl))
	case *RadialBlend:
		out := *n
		out.Zero = replaceNode(n.Zero, target, repl)
		out.One = replaceNode(n.One, target, repl)
		return &out
	case *LinearGradient:
		out := *n
		out.Stops = replaceStops(n.Stops, target, repl)
		return &out
	case *RadialGradient:
		out := *n
		out.Stops = replaceStops(n.Stops, target, repl)
		return &out
	case *BarycentricBlend:
		return NewBarycentricBlend(n.PointA, n.PointB, n.PointC,
			replaceNode(n.A, target, repl),
			replaceNode(n.B, target, repl),
			replaceNode(n.C, target, repl))
	case *BarycentricPerspectiveBlend:
		out := *n
		out.A = replaceNode(n.A, target, repl)
		out.B = replaceNode(n.B, target, repl)
		out.C = replaceNode(n.C, target, repl)
		return &out
	case *Phong:
		out := *n
		out.Normal = replaceNode(n.Normal, target, repl)
		out.Ambient = replaceNode(n.Ambient, target, repl)
		out.Diffuse = replaceNode(n.Diffuse, target, repl)
		out.Specular = replaceNode(n.Specular, target, repl)
		return &out
	default:
		return p
	}
}

func replaceStops(stops []GradientStop, target, repl Program) []GradientStop {
	out := make([]GradientStop, len(stops))
	for i, s := range stops {
		out[i] = GradientStop{Ratio: s.Ratio, Program: replaceNode(s.Program, target, repl)}
	}
	return out
}
