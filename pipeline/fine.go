// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"math"
	"sync/atomic"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
	"github.com/gogpu/vex/filter"
	"github.com/gogpu/vex/parallel"
	"github.com/gogpu/vex/render"
)

// filterHandle bundles the reconstruction filter with its scale and the
// derived sample geometry used per pixel.
type filterHandle struct {
	filt   *filter.Filter
	scale  float64
	radius float64

	// shift recenters the kernel cells on the pixel center for filters
	// whose pieces are cell-aligned rather than sample-aligned (box).
	shift float64
}

func newFilterHandle(cfg TwoPassConfig) filterHandle {
	filt := filter.MustNew(cfg.Filter)
	h := filterHandle{
		filt:   filt,
		scale:  cfg.FilterScale,
		radius: filt.Radius() * cfg.FilterScale,
	}
	if filt.BoundsShift() == -1 {
		h.shift = 0.5
	}
	return h
}

// pixelCoverage integrates the scaled kernel centered on the pixel over
// the face. The face is mapped into the kernel's unit-cell frame (the
// scale normalizer cancels against the Jacobian), cut into cells, and
// each cell integrates in closed form.
func (h filterHandle) pixelCoverage(pixelFace face.Clippable, px, py int) float64 {
	cx := float64(px) + 0.5
	cy := float64(py) + 0.5
	toKernel := vex.Matrix{
		A: 1 / h.scale, B: 0, C: -cx/h.scale + h.shift,
		D: 0, E: 1 / h.scale, F: -cy/h.scale + h.shift,
	}
	kernelFace := pixelFace.Transformed(toKernel)

	minOff, maxOff := h.filt.CellOffsets()
	n := maxOff - minOff + 1

	cells := make([][]vex.LinearEdge, n*n)
	kernelFace.GridClipIterate(float64(minOff), float64(minOff), 1, 1, n, n,
		func(cellX, cellY int, e vex.LinearEdge) {
			cells[cellY*n+cellX] = append(cells[cellY*n+cellX], e)
		}, nil)

	sum := 0.0
	for iy := 0; iy < n; iy++ {
		for ix := 0; ix < n; ix++ {
			edges := cells[iy*n+ix]
			if len(edges) == 0 {
				continue
			}
			sum += h.filt.EvaluateClippedEdges(edges, 0, 0, minOff+ix, minOff+iy)
		}
	}
	return sum
}

// pixelSupport returns the pixel's filter support rectangle.
func (h filterHandle) pixelSupport(px, py int) vex.Bounds {
	cx := float64(px) + 0.5
	cy := float64(py) + 0.5
	return vex.NewBounds(cx-h.radius, cy-h.radius, cx+h.radius, cy+h.radius)
}

// evaluator abstracts the two program evaluation paths: the compiled
// stack machine for the fine pass, and direct tree evaluation for the
// reference path.
type evaluator interface {
	eval(ctx *render.Context) (vex.Vec4, error)
}

type compiledEvaluator struct {
	exec *render.Executor
}

func (e compiledEvaluator) eval(ctx *render.Context) (vex.Vec4, error) {
	return e.exec.Execute(ctx)
}

type treeEvaluator struct {
	program render.Program
}

func (e treeEvaluator) eval(ctx *render.Context) (vex.Vec4, error) {
	return e.program.Evaluate(ctx), nil
}

// pixelContribution clips the face to one pixel's filter support,
// weights it by the kernel, and evaluates the program.
func pixelContribution(h filterHandle, ev evaluator, entryFace face.Clippable, needsCentroid bool, px, py int) (vex.Vec4, error) {
	support := h.pixelSupport(px, py)
	pixelFace := entryFace.Clipped(support.MinX, support.MinY, support.MaxX, support.MaxY)
	area := pixelFace.Area()
	if math.Abs(area) < 1e-8 {
		return vex.Vec4{}, nil
	}

	coverage := h.pixelCoverage(pixelFace, px, py)
	if math.Abs(coverage) < 1e-8 {
		return vex.Vec4{}, nil
	}

	var ctx *render.Context
	if needsCentroid {
		ctx = render.NewContext(pixelFace, area, pixelFace.Centroid(area), support)
	} else {
		ctx = render.NewContextWithoutCentroid(pixelFace, area, support)
	}

	color, err := ev.eval(ctx)
	if err != nil {
		return vex.Vec4{}, err
	}
	return color.Mul(coverage), nil
}

// runFine walks each bin's linked list and accumulates per-pixel colors
// into a frame-sized buffer. One workgroup handles one bin; within the
// bin, the lanes are the pixels. Contributions accumulate in
// list-traversal order. The buffer reaches the target only after every
// bin has succeeded, so a failed frame leaves the target unchanged.
func runFine(fs *frameState, target RenderTarget, pool *parallel.Pool) error {
	if target == nil || target.Pixels() == nil {
		return ErrNilTarget
	}

	cfg := fs.config
	binW, binH := cfg.BinWidthCount(), cfg.BinHeightCount()
	bins := binW * binH

	colors := make([]vex.Vec4, cfg.RasterWidth*cfg.RasterHeight)
	var firstErr atomic.Value
	pool.Dispatch(bins, func(bin int) {
		if err := fs.fineBinInto(bin, colors); err != nil {
			firstErr.CompareAndSwap(nil, err)
		}
	})

	if err, ok := firstErr.Load().(error); ok && err != nil {
		return err
	}
	writePixels(target, cfg, colors, 0, 0, cfg.RasterWidth, cfg.RasterHeight)
	return nil
}

// fineBin processes one bin into a local buffer and writes it out.
func (fs *frameState) fineBin(bin int, target RenderTarget) error {
	cfg := fs.config
	binW := cfg.BinWidthCount()
	binX, binY := bin%binW, bin/binW

	px0 := binX * cfg.BinSize
	py0 := binY * cfg.BinSize
	px1 := min(px0+cfg.BinSize, cfg.RasterWidth)
	py1 := min(py0+cfg.BinSize, cfg.RasterHeight)
	if px0 >= px1 || py0 >= py1 {
		return nil
	}

	w := px1 - px0
	colors := make([]vex.Vec4, w*(py1-py0))
	add := func(px, py int, c vex.Vec4) {
		colors[(py-py0)*w+(px-px0)] = colors[(py-py0)*w+(px-px0)].Add(c)
	}

	if err := fs.walkBin(bin, px0, py0, px1, py1, add); err != nil {
		return err
	}

	writePixels(target, cfg, colors, px0, py0, px1, py1)
	return nil
}

// fineBinInto processes one bin, accumulating into a full-raster buffer.
func (fs *frameState) fineBinInto(bin int, colors []vex.Vec4) error {
	cfg := fs.config
	binW := cfg.BinWidthCount()
	binX, binY := bin%binW, bin/binW

	px0 := binX * cfg.BinSize
	py0 := binY * cfg.BinSize
	px1 := min(px0+cfg.BinSize, cfg.RasterWidth)
	py1 := min(py0+cfg.BinSize, cfg.RasterHeight)
	if px0 >= px1 || py0 >= py1 {
		return nil
	}

	add := func(px, py int, c vex.Vec4) {
		colors[py*cfg.RasterWidth+px] = colors[py*cfg.RasterWidth+px].Add(c)
	}
	return fs.walkBin(bin, px0, py0, px1, py1, add)
}

// walkBin traverses one bin's linked list in list order, accumulating
// every entry's per-pixel contribution through add.
func (fs *frameState) walkBin(bin, px0, py0, px1, py1 int, add func(px, py int, c vex.Vec4)) error {
	binW := fs.config.BinWidthCount()
	binX, binY := bin%binW, bin/binW
	bb := fs.expandedBinBounds(binX, binY)

	for addr := fs.addresses[bin]; addr != NilAddress; {
		if addr >= uint32(len(fs.faces)) {
			return ErrCorruptFaceList
		}
		entry := fs.faces[addr]
		prog := fs.programs[entry.ProgramIndex]
		entryFace := fs.entryFace(entry, bb)

		if entry.IsConstant && entry.IsFullArea {
			// Full-coverage constants skip clipping and evaluation: the
			// kernel integrates to one over a fully covered support.
			for py := py0; py < py1; py++ {
				for px := px0; px < px1; px++ {
					add(px, py, prog.constant)
				}
			}
			addr = entry.NextAddress
			continue
		}

		exec, err := render.NewExecutor(prog.compiled)
		if err != nil {
			return err
		}
		ev := compiledEvaluator{exec: exec}

		for py := py0; py < py1; py++ {
			for px := px0; px < px1; px++ {
				c, err := pixelContribution(fs.filter, ev, entryFace, entry.NeedsCentroid, px, py)
				if err != nil {
					return err
				}
				add(px, py, c)
			}
		}

		addr = entry.NextAddress
	}
	return nil
}

// writePixels converts accumulated working-space colors to the target
// color space and stores RGBA8.
func writePixels(target RenderTarget, cfg TwoPassConfig, colors []vex.Vec4, px0, py0, px1, py1 int) {
	pix := target.Pixels()
	stride := target.Stride()
	info := cfg.ColorSpace.Info()

	w := px1 - px0
	for py := py0; py < py1; py++ {
		for px := px0; px < px1; px++ {
			c := colors[(py-py0)*w+(px-px0)]

			// Encode in straight alpha, convert, then re-premultiply for
			// the RGBA8 store.
			straight := vex.UnpremultiplyVec4(c)
			if info.FromLinearSRGB != nil {
				straight = info.FromLinearSRGB(straight)
			}
			out := vex.PremultiplyVec4(straight).Clamp01()

			at := py*stride + px*4
			pix[at+0] = uint8(math.Round(out.X * 255))
			pix[at+1] = uint8(math.Round(out.Y * 255))
			pix[at+2] = uint8(math.Round(out.Z * 255))
			pix[at+3] = uint8(math.Round(out.W * 255))
		}
	}
}
