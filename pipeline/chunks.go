// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"math"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
	"github.com/gogpu/vex/parallel"
)

// Per-chunk aggregation: every clipped chunk's area, bounds and side
// counts come from a segmented reduce over its per-edge records, keyed by
// clipped-chunk index. The reduce operator is associative but not
// commutative in its edge flags, so the segments combine in source order.

// reduceDataForClipped emits one RasterChunkReduceData per stored edge of
// a bin-clipped face, plus one record carrying the implicit side-edge
// contribution. Records of one chunk stay contiguous in the stream.
func reduceDataForClipped(chunkIndex uint32, clipped *face.EdgedClipped, bb vex.Bounds) []RasterChunkReduceData {
	edges := clipped.Edges()
	minXC, minYC, maxXC, maxYC := clipped.SideCounts()

	out := make([]RasterChunkReduceData, 0, len(edges)+1)
	for i, e := range edges {
		out = append(out, RasterChunkReduceData{
			ClippedChunkIndex: chunkIndex,
			IsFirstEdge:       i == 0,
			Area:              float32(e.SignedAreaTerm()),
			MinX:              float32(math.Min(e.Start.X, e.End.X)),
			MinY:              float32(math.Min(e.Start.Y, e.End.Y)),
			MaxX:              float32(math.Max(e.Start.X, e.End.X)),
			MaxY:              float32(math.Max(e.Start.Y, e.End.Y)),
		})
	}

	// The implicit side edges contribute through the counts: only the
	// vertical sides carry shoelace area.
	h := bb.MaxY - bb.MinY
	countArea := float64(maxXC)*bb.MaxX*h - float64(minXC)*bb.MinX*h
	out = append(out, RasterChunkReduceData{
		ClippedChunkIndex: chunkIndex,
		IsFirstEdge:       len(edges) == 0,
		IsLastEdge:        true,
		Area:              float32(countArea),
		MinX:              float32(bb.MinX),
		MinY:              float32(bb.MinY),
		MaxX:              float32(bb.MaxX),
		MaxY:              float32(bb.MaxY),
		MinXCount:         int32(minXC),
		MinYCount:         int32(minYC),
		MaxXCount:         int32(maxXC),
		MaxYCount:         int32(maxYC),
	})
	return out
}

// aggregateChunks reduces the per-edge stream into the clipped-chunk
// records: one segmented reduce per frame instead of per-chunk loops.
// Each segment's key is the chunk it belongs to.
func aggregateChunks(data []RasterChunkReduceData, chunks []RasterClippedChunk) error {
	if len(data) == 0 {
		return nil
	}

	keys := make([]uint32, len(data))
	for i, d := range data {
		keys[i] = d.ClippedChunkIndex
	}

	identity := RasterChunkReduceData{
		MinX: float32(math.Inf(1)),
		MinY: float32(math.Inf(1)),
		MaxX: float32(math.Inf(-1)),
		MaxY: float32(math.Inf(-1)),
	}
	combine := func(a, b RasterChunkReduceData) RasterChunkReduceData {
		return a.Combine(b)
	}

	reduced, err := parallel.SegmentedReduce(data, keys, combine, identity, parallel.Config{})
	if err != nil {
		return err
	}

	for _, agg := range reduced {
		idx := agg.ClippedChunkIndex
		if int(idx) >= len(chunks) {
			return ErrCorruptFaceList
		}
		chunks[idx].Area = agg.Area
		chunks[idx].MinX = agg.MinX
		chunks[idx].MinY = agg.MinY
		chunks[idx].MaxX = agg.MaxX
		chunks[idx].MaxY = agg.MaxY
		chunks[idx].MinXCount = agg.MinXCount
		chunks[idx].MinYCount = agg.MinYCount
		chunks[idx].MaxXCount = agg.MaxXCount
		chunks[idx].MaxYCount = agg.MaxYCount
	}
	return nil
}
