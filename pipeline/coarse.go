// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"math"
	"sync"
	"sync/atomic"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
	"github.com/gogpu/vex/parallel"
	"github.com/gogpu/vex/render"
)

// coarseAreaEpsilon drops bin-clipped faces below this area.
const coarseAreaEpsilon = 1e-4

// fullAreaEpsilon decides the full-bin shortcut, relative to bin area.
const fullAreaEpsilon = 1e-6

// maxFineFaces bounds the fine-face allocation per frame.
const maxFineFaces = 1 << 22

// programEntry is one slot of the frame's program table.
type programEntry struct {
	program  render.Program
	compiled *render.Compiled

	needsCentroid bool
	needsFace     bool
	isConstant    bool
	constant      vex.Vec4
}

// frameState carries the buffers shared between the coarse and fine
// passes of one frame.
type frameState struct {
	config TwoPassConfig
	filter filterHandle

	programs []programEntry

	mu    sync.Mutex
	faces []FineRenderableFace
	edges []vex.LinearEdge

	// addresses holds the per-bin linked-list heads, spliced with
	// compare-and-swap; NilAddress marks an empty bin.
	addresses []uint32

	// clippedChunks records one RasterClippedChunk per accepted
	// (face, bin) pair, the binary stream handed to consumers that want
	// the pipeline's intermediate state. Its areas, bounds and counts are
	// filled by a segmented reduce over reduceData after the bin loop.
	clippedChunks []RasterClippedChunk

	// reduceData holds the per-edge aggregation records, contiguous per
	// clipped chunk.
	reduceData []RasterChunkReduceData
}

// expandedBinBounds returns a bin's rectangle dilated by the filter
// expansion. Bins are half-open: min-inclusive, max-exclusive, so a face
// landing exactly on a bin boundary belongs to the higher bin only.
func (fs *frameState) expandedBinBounds(binX, binY int) vex.Bounds {
	s := float64(fs.config.BinSize)
	expand := fs.config.FilterRadius() - 0.5
	return vex.NewBounds(
		float64(binX)*s-expand,
		float64(binY)*s-expand,
		float64(binX+1)*s+expand,
		float64(binY+1)*s+expand,
	)
}

// runCoarse clips every renderable face against the bins it overlaps and
// splices accepted entries onto the per-bin linked lists. The pass is
// parallel over renderable faces; list heads are swapped atomically.
func runCoarse(cfg TwoPassConfig, renderables []render.RenderableFace, pool *parallel.Pool) (*frameState, error) {
	cfg = cfg.normalized()
	binW, binH := cfg.BinWidthCount(), cfg.BinHeightCount()

	fs := &frameState{
		config:    cfg,
		filter:    newFilterHandle(cfg),
		programs:  make([]programEntry, len(renderables)),
		addresses: make([]uint32, binW*binH),
	}
	for i := range fs.addresses {
		fs.addresses[i] = NilAddress
	}

	var compileErr atomic.Value
	pool.Dispatch(len(renderables), func(i int) {
		prog := renderables[i].Program
		compiled, err := render.Compile(prog)
		if err != nil {
			compileErr.Store(err)
			return
		}
		entry := programEntry{
			program:       prog,
			compiled:      compiled,
			needsCentroid: prog.NeedsCentroid(),
			needsFace:     prog.NeedsFace(),
		}
		if c, ok := prog.(*render.Color); ok {
			entry.isConstant = true
			entry.constant = c.Color
		}
		fs.programs[i] = entry
	})
	if err, ok := compileErr.Load().(error); ok && err != nil {
		return nil, err
	}

	binSize := float64(cfg.BinSize)
	expand := cfg.FilterRadius() - 0.5

	var overflow atomic.Bool
	pool.Dispatch(len(renderables), func(i int) {
		rf := renderables[i]
		fb := rf.Face.Bounds().Dilated(expand)
		if fb.IsEmpty() {
			return
		}

		loX := max(int(math.Floor(fb.MinX/binSize)), 0)
		loY := max(int(math.Floor(fb.MinY/binSize)), 0)
		hiX := min(int(math.Ceil(fb.MaxX/binSize)), binW)
		hiY := min(int(math.Ceil(fb.MaxY/binSize)), binH)

		for by := loY; by < hiY; by++ {
			for bx := loX; bx < hiX; bx++ {
				bb := fs.expandedBinBounds(bx, by)
				clipped := rf.Face.Clipped(bb.MinX, bb.MinY, bb.MaxX, bb.MaxY).
					ToEdgedClipped(bb.MinX, bb.MinY, bb.MaxX, bb.MaxY)
				area := clipped.Area()
				if area <= coarseAreaEpsilon {
					continue
				}
				if !fs.spliceEntry(uint32(i), bx, by, bb, clipped, area) {
					overflow.Store(true)
					return
				}
			}
		}
	})
	if overflow.Load() {
		return nil, ErrFaceListOverflow
	}

	if err := aggregateChunks(fs.reduceData, fs.clippedChunks); err != nil {
		return nil, err
	}

	vex.Logger().Debug("coarse pass complete",
		"renderables", len(renderables),
		"fineFaces", len(fs.faces),
		"edges", len(fs.edges))
	return fs, nil
}

// spliceEntry allocates a fine face entry and pushes it onto the head of
// its bin's list. Returns false on allocation overflow.
func (fs *frameState) spliceEntry(programIndex uint32, binX, binY int, bb vex.Bounds, clipped *face.EdgedClipped, area float64) bool {
	binArea := bb.Area()
	isFull := math.Abs(area-binArea) < fullAreaEpsilon*binArea

	entry := FineRenderableFace{
		ProgramIndex:  programIndex,
		NeedsCentroid: fs.programs[programIndex].needsCentroid,
		NeedsFace:     fs.programs[programIndex].needsFace,
		IsConstant:    fs.programs[programIndex].isConstant,
		IsFullArea:    isFull,
		NextAddress:   NilAddress,
	}

	minXC, minYC, maxXC, maxYC := clipped.SideCounts()
	if !isFull {
		entry.MinXCount = int32(minXC)
		entry.MinYCount = int32(minYC)
		entry.MaxXCount = int32(maxXC)
		entry.MaxYCount = int32(maxYC)
	}

	fs.mu.Lock()
	if len(fs.faces) >= maxFineFaces {
		fs.mu.Unlock()
		return false
	}
	if !isFull {
		entry.EdgesIndex = uint32(len(fs.edges))
		entry.NumEdges = uint32(len(clipped.Edges()))
		fs.edges = append(fs.edges, clipped.Edges()...)
	}
	addr := uint32(len(fs.faces))
	fs.faces = append(fs.faces, entry)

	// The chunk's area, bounds and counts are filled in by the frame's
	// segmented reduce over the per-edge records appended here.
	chunkIndex := uint32(len(fs.clippedChunks))
	fs.clippedChunks = append(fs.clippedChunks, RasterClippedChunk{
		ProgramIndex: programIndex,
		IsComplete:   true,
		IsFullArea:   isFull,
		NeedsFace:    entry.NeedsFace,
		IsConstant:   entry.IsConstant,
	})
	fs.reduceData = append(fs.reduceData, reduceDataForClipped(chunkIndex, clipped, bb)...)
	fs.mu.Unlock()

	// Atomic head swap: the only inter-workgroup coordination in the
	// coarse pass.
	binIndex := binY*fs.config.BinWidthCount() + binX
	for {
		old := atomic.LoadUint32(&fs.addresses[binIndex])
		fs.setNext(addr, old)
		if atomic.CompareAndSwapUint32(&fs.addresses[binIndex], old, addr) {
			return true
		}
	}
}

// setNext updates an entry's NextAddress between CAS attempts.
func (fs *frameState) setNext(addr, next uint32) {
	fs.mu.Lock()
	fs.faces[addr].NextAddress = next
	fs.mu.Unlock()
}

// entryFace reconstructs a fine face's clippable form.
func (fs *frameState) entryFace(entry FineRenderableFace, bb vex.Bounds) face.Clippable {
	if entry.IsFullArea {
		return face.FullArea(bb)
	}
	edges := fs.edges[entry.EdgesIndex : entry.EdgesIndex+entry.NumEdges]
	return face.NewEdgedClipped(edges, bb,
		int(entry.MinXCount), int(entry.MinYCount),
		int(entry.MaxXCount), int(entry.MaxYCount))
}

// ChunkSum is a frame-level diagnostic: the total clipped area per
// program, used by conservation checks.
func (fs *frameState) ChunkSum() float64 {
	sum := 0.0
	for _, c := range fs.clippedChunks {
		sum += float64(c.Area)
	}
	return sum
}
