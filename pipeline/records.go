package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

// Fixed-layout little-endian records exchanged between pipeline stages.
// Encoders push sequentially; decoders read at 4-byte-aligned offsets.
// Bit-packed index words carry the index in the low 24 bits and flags in
// the high byte.

// NilAddress terminates a per-bin linked list.
const NilAddress = 0xFFFFFFFF

// indexMask extracts a 24-bit packed index.
const indexMask = 0x00FFFFFF

// RasterChunk is a contiguous run of edges sharing one program and
// bounds. 44 bytes.
type RasterChunk struct {
	ProgramIndex uint32 // 24 bits
	NeedsFace    bool
	IsConstant   bool

	EdgesOffset uint32
	NumEdges    uint32

	MinX, MinY, MaxX, MaxY float32

	MinXCount, MinYCount, MaxXCount, MaxYCount int32
}

// RasterChunkSize is the encoded size of a RasterChunk.
const RasterChunkSize = 44

const (
	chunkNeedsFaceBit  = 1 << 30
	chunkIsConstantBit = 1 << 31
)

// Encode appends the record little-endian.
func (r RasterChunk) Encode(out []byte) []byte {
	bits := r.ProgramIndex & indexMask
	if r.NeedsFace {
		bits |= chunkNeedsFaceBit
	}
	if r.IsConstant {
		bits |= chunkIsConstantBit
	}
	out = appendU32(out, bits, r.EdgesOffset, r.NumEdges)
	out = appendF32(out, r.MinX, r.MinY, r.MaxX, r.MaxY)
	return appendI32(out, r.MinXCount, r.MinYCount, r.MaxXCount, r.MaxYCount)
}

// DecodeRasterChunk reads a record at a 4-byte-aligned offset.
func DecodeRasterChunk(data []byte, offset int) (RasterChunk, error) {
	if err := checkRecord(data, offset, RasterChunkSize); err != nil {
		return RasterChunk{}, err
	}
	w := wordReader{data: data, at: offset}
	bits := w.u32()
	return RasterChunk{
		ProgramIndex: bits & indexMask,
		NeedsFace:    bits&chunkNeedsFaceBit != 0,
		IsConstant:   bits&chunkIsConstantBit != 0,
		EdgesOffset:  w.u32(),
		NumEdges:     w.u32(),
		MinX:         w.f32(),
		MinY:         w.f32(),
		MaxX:         w.f32(),
		MaxY:         w.f32(),
		MinXCount:    w.i32(),
		MinYCount:    w.i32(),
		MaxXCount:    w.i32(),
		MaxYCount:    w.i32(),
	}, nil
}

// RasterEdge is one directed edge of a chunk. 20 bytes.
type RasterEdge struct {
	ChunkIndex  uint32 // 24 bits
	IsFirstEdge bool
	IsLastEdge  bool

	StartX, StartY, EndX, EndY float32
}

// RasterEdgeSize is the encoded size of a RasterEdge.
const RasterEdgeSize = 20

const (
	edgeIsFirstBit = 1 << 30
	edgeIsLastBit  = 1 << 31
)

// Encode appends the record little-endian.
func (r RasterEdge) Encode(out []byte) []byte {
	bits := r.ChunkIndex & indexMask
	if r.IsFirstEdge {
		bits |= edgeIsFirstBit
	}
	if r.IsLastEdge {
		bits |= edgeIsLastBit
	}
	out = appendU32(out, bits)
	return appendF32(out, r.StartX, r.StartY, r.EndX, r.EndY)
}

// DecodeRasterEdge reads a record at a 4-byte-aligned offset.
func DecodeRasterEdge(data []byte, offset int) (RasterEdge, error) {
	if err := checkRecord(data, offset, RasterEdgeSize); err != nil {
		return RasterEdge{}, err
	}
	w := wordReader{data: data, at: offset}
	bits := w.u32()
	return RasterEdge{
		ChunkIndex:  bits & indexMask,
		IsFirstEdge: bits&edgeIsFirstBit != 0,
		IsLastEdge:  bits&edgeIsLastBit != 0,
		StartX:      w.f32(),
		StartY:      w.f32(),
		EndX:        w.f32(),
		EndY:        w.f32(),
	}, nil
}

// RasterEdgeClip is the result of clipping one edge against a binary
// split: up to three output segments through four points, belonging to
// one clipped chunk. 36 bytes.
type RasterEdgeClip struct {
	ClippedChunkIndex uint32 // 24 bits
	IsFirstEdge       bool
	IsLastEdge        bool

	// Point0..Point3 trace the clipped polyline; degenerate (repeated)
	// points encode unused segments.
	Point0X, Point0Y float32
	Point1X, Point1Y float32
	Point2X, Point2Y float32
	Point3X, Point3Y float32
}

// RasterEdgeClipSize is the encoded size of a RasterEdgeClip.
const RasterEdgeClipSize = 36

// Encode appends the record little-endian.
func (r RasterEdgeClip) Encode(out []byte) []byte {
	bits := r.ClippedChunkIndex & indexMask
	if r.IsFirstEdge {
		bits |= edgeIsFirstBit
	}
	if r.IsLastEdge {
		bits |= edgeIsLastBit
	}
	out = appendU32(out, bits)
	return appendF32(out,
		r.Point0X, r.Point0Y, r.Point1X, r.Point1Y,
		r.Point2X, r.Point2Y, r.Point3X, r.Point3Y,
	)
}

// DecodeRasterEdgeClip reads a record at a 4-byte-aligned offset.
func DecodeRasterEdgeClip(data []byte, offset int) (RasterEdgeClip, error) {
	if err := checkRecord(data, offset, RasterEdgeClipSize); err != nil {
		return RasterEdgeClip{}, err
	}
	w := wordReader{data: data, at: offset}
	bits := w.u32()
	return RasterEdgeClip{
		ClippedChunkIndex: bits & indexMask,
		IsFirstEdge:       bits&edgeIsFirstBit != 0,
		IsLastEdge:        bits&edgeIsLastBit != 0,
		Point0X:           w.f32(), Point0Y: w.f32(),
		Point1X: w.f32(), Point1Y: w.f32(),
		Point2X: w.f32(), Point2Y: w.f32(),
		Point3X: w.f32(), Point3Y: w.f32(),
	}, nil
}

// RasterChunkReduceData is the segment-associative aggregate carried by
// the segmented scan over edge clips. 40 bytes.
type RasterChunkReduceData struct {
	ClippedChunkIndex uint32 // 24 bits
	IsFirstEdge       bool   // bit 30
	IsLastEdge        bool   // bit 31

	Area float32

	MinX, MinY, MaxX, MaxY float32

	MinXCount, MinYCount, MaxXCount, MaxYCount int32
}

// RasterChunkReduceDataSize is the encoded size of a
// RasterChunkReduceData.
const RasterChunkReduceDataSize = 40

// Encode appends the record little-endian.
func (r RasterChunkReduceData) Encode(out []byte) []byte {
	bits := r.ClippedChunkIndex & indexMask
	if r.IsFirstEdge {
		bits |= edgeIsFirstBit
	}
	if r.IsLastEdge {
		bits |= edgeIsLastBit
	}
	out = appendU32(out, bits)
	out = appendF32(out, r.Area, r.MinX, r.MinY, r.MaxX, r.MaxY)
	return appendI32(out, r.MinXCount, r.MinYCount, r.MaxXCount, r.MaxYCount)
}

// DecodeRasterChunkReduceData reads a record at a 4-byte-aligned offset.
func DecodeRasterChunkReduceData(data []byte, offset int) (RasterChunkReduceData, error) {
	if err := checkRecord(data, offset, RasterChunkReduceDataSize); err != nil {
		return RasterChunkReduceData{}, err
	}
	w := wordReader{data: data, at: offset}
	bits := w.u32()
	return RasterChunkReduceData{
		ClippedChunkIndex: bits & indexMask,
		IsFirstEdge:       bits&edgeIsFirstBit != 0,
		IsLastEdge:        bits&edgeIsLastBit != 0,
		Area:              w.f32(),
		MinX:              w.f32(),
		MinY:              w.f32(),
		MaxX:              w.f32(),
		MaxY:              w.f32(),
		MinXCount:         w.i32(),
		MinYCount:         w.i32(),
		MaxXCount:         w.i32(),
		MaxYCount:         w.i32(),
	}, nil
}

// Combine merges two aggregates of the same clipped chunk: areas and
// counts sum, bounds union, and the edge flags keep the left's first and
// the right's last.
func (r RasterChunkReduceData) Combine(other RasterChunkReduceData) RasterChunkReduceData {
	return RasterChunkReduceData{
		ClippedChunkIndex: r.ClippedChunkIndex,
		IsFirstEdge:       r.IsFirstEdge,
		IsLastEdge:        other.IsLastEdge,
		Area:              r.Area + other.Area,
		MinX:              minF32(r.MinX, other.MinX),
		MinY:              minF32(r.MinY, other.MinY),
		MaxX:              maxF32(r.MaxX, other.MaxX),
		MaxY:              maxF32(r.MaxY, other.MaxY),
		MinXCount:         r.MinXCount + other.MinXCount,
		MinYCount:         r.MinYCount + other.MinYCount,
		MaxXCount:         r.MaxXCount + other.MaxXCount,
		MaxYCount:         r.MaxYCount + other.MaxYCount,
	}
}

// RasterChunkReducePair carries the min- and max-side aggregates of one
// chunk split. 80 bytes.
type RasterChunkReducePair struct {
	Min, Max RasterChunkReduceData
}

// RasterChunkReducePairSize is the encoded size of a
// RasterChunkReducePair.
const RasterChunkReducePairSize = 80

// Encode appends the record little-endian.
func (r RasterChunkReducePair) Encode(out []byte) []byte {
	out = r.Min.Encode(out)
	return r.Max.Encode(out)
}

// DecodeRasterChunkReducePair reads a record at a 4-byte-aligned offset.
func DecodeRasterChunkReducePair(data []byte, offset int) (RasterChunkReducePair, error) {
	lo, err := DecodeRasterChunkReduceData(data, offset)
	if err != nil {
		return RasterChunkReducePair{}, err
	}
	hi, err := DecodeRasterChunkReduceData(data, offset+RasterChunkReduceDataSize)
	if err != nil {
		return RasterChunkReducePair{}, err
	}
	return RasterChunkReducePair{Min: lo, Max: hi}, nil
}

// RasterChunkReduceQuad carries the leftmost and rightmost pairs of a
// workgroup's range, needed when a chunk spans a workgroup boundary.
// 160 bytes.
type RasterChunkReduceQuad struct {
	LeftMin, LeftMax, RightMin, RightMax RasterChunkReduceData
}

// RasterChunkReduceQuadSize is the encoded size of a
// RasterChunkReduceQuad.
const RasterChunkReduceQuadSize = 160

// Encode appends the record little-endian.
func (r RasterChunkReduceQuad) Encode(out []byte) []byte {
	out = r.LeftMin.Encode(out)
	out = r.LeftMax.Encode(out)
	out = r.RightMin.Encode(out)
	return r.RightMax.Encode(out)
}

// DecodeRasterChunkReduceQuad reads a record at a 4-byte-aligned offset.
func DecodeRasterChunkReduceQuad(data []byte, offset int) (RasterChunkReduceQuad, error) {
	var out RasterChunkReduceQuad
	fields := [4]*RasterChunkReduceData{&out.LeftMin, &out.LeftMax, &out.RightMin, &out.RightMax}
	for i, f := range fields {
		d, err := DecodeRasterChunkReduceData(data, offset+i*RasterChunkReduceDataSize)
		if err != nil {
			return RasterChunkReduceQuad{}, err
		}
		*f = d
	}
	return out, nil
}

// RasterClippedChunk is one half of a chunk after a binary split.
// 40 bytes.
type RasterClippedChunk struct {
	ProgramIndex uint32 // 24 bits
	IsReducible  bool   // bit 27
	IsComplete   bool   // bit 28
	IsFullArea   bool   // bit 29
	NeedsFace    bool   // bit 30
	IsConstant   bool   // bit 31

	Area float32

	MinX, MinY, MaxX, MaxY float32

	MinXCount, MinYCount, MaxXCount, MaxYCount int32
}

// RasterClippedChunkSize is the encoded size of a RasterClippedChunk.
const RasterClippedChunkSize = 40

const (
	clippedIsReducibleBit = 1 << 27
	clippedIsCompleteBit  = 1 << 28
	clippedIsFullAreaBit  = 1 << 29
	clippedNeedsFaceBit   = 1 << 30
	clippedIsConstantBit  = 1 << 31
)

// Encode appends the record little-endian.
func (r RasterClippedChunk) Encode(out []byte) []byte {
	bits := r.ProgramIndex & indexMask
	if r.IsReducible {
		bits |= clippedIsReducibleBit
	}
	if r.IsComplete {
		bits |= clippedIsCompleteBit
	}
	if r.IsFullArea {
		bits |= clippedIsFullAreaBit
	}
	if r.NeedsFace {
		bits |= clippedNeedsFaceBit
	}
	if r.IsConstant {
		bits |= clippedIsConstantBit
	}
	out = appendU32(out, bits)
	out = appendF32(out, r.Area, r.MinX, r.MinY, r.MaxX, r.MaxY)
	return appendI32(out, r.MinXCount, r.MinYCount, r.MaxXCount, r.MaxYCount)
}

// DecodeRasterClippedChunk reads a record at a 4-byte-aligned offset.
func DecodeRasterClippedChunk(data []byte, offset int) (RasterClippedChunk, error) {
	if err := checkRecord(data, offset, RasterClippedChunkSize); err != nil {
		return RasterClippedChunk{}, err
	}
	w := wordReader{data: data, at: offset}
	bits := w.u32()
	return RasterClippedChunk{
		ProgramIndex: bits & indexMask,
		IsReducible:  bits&clippedIsReducibleBit != 0,
		IsComplete:   bits&clippedIsCompleteBit != 0,
		IsFullArea:   bits&clippedIsFullAreaBit != 0,
		NeedsFace:    bits&clippedNeedsFaceBit != 0,
		IsConstant:   bits&clippedIsConstantBit != 0,
		Area:         w.f32(),
		MinX:         w.f32(),
		MinY:         w.f32(),
		MaxX:         w.f32(),
		MaxY:         w.f32(),
		MinXCount:    w.i32(),
		MinYCount:    w.i32(),
		MaxXCount:    w.i32(),
		MaxYCount:    w.i32(),
	}, nil
}

// ValidateCounts checks the canonical side-count range.
func (r RasterClippedChunk) ValidateCounts() error {
	for _, c := range [4]int32{r.MinXCount, r.MinYCount, r.MaxXCount, r.MaxYCount} {
		if c < -1 || c > 1 {
			return fmt.Errorf("%w: %d", ErrSideCountRange, c)
		}
	}
	return nil
}

// RasterSplitReduceData counts reducible and complete chunks for the
// split-allocation scan. 8 bytes.
type RasterSplitReduceData struct {
	NumReducible uint32
	NumComplete  uint32
}

// RasterSplitReduceDataSize is the encoded size of a
// RasterSplitReduceData.
const RasterSplitReduceDataSize = 8

// Encode appends the record little-endian.
func (r RasterSplitReduceData) Encode(out []byte) []byte {
	return appendU32(out, r.NumReducible, r.NumComplete)
}

// DecodeRasterSplitReduceData reads a record at a 4-byte-aligned offset.
func DecodeRasterSplitReduceData(data []byte, offset int) (RasterSplitReduceData, error) {
	if err := checkRecord(data, offset, RasterSplitReduceDataSize); err != nil {
		return RasterSplitReduceData{}, err
	}
	w := wordReader{data: data, at: offset}
	return RasterSplitReduceData{NumReducible: w.u32(), NumComplete: w.u32()}, nil
}

// Combine sums the allocation counts.
func (r RasterSplitReduceData) Combine(other RasterSplitReduceData) RasterSplitReduceData {
	return RasterSplitReduceData{
		NumReducible: r.NumReducible + other.NumReducible,
		NumComplete:  r.NumComplete + other.NumComplete,
	}
}

// FineRenderableFace is one entry of a per-bin linked list consumed by
// the fine pass. 32 bytes.
type FineRenderableFace struct {
	ProgramIndex  uint32 // 24 bits
	NeedsCentroid bool   // bit 28
	IsFullArea    bool   // bit 29
	NeedsFace     bool   // bit 30
	IsConstant    bool   // bit 31

	EdgesIndex uint32
	NumEdges   uint32

	MinXCount, MinYCount, MaxXCount, MaxYCount int32

	// NextAddress links to the next face of the bin; NilAddress ends the
	// list.
	NextAddress uint32
}

// FineRenderableFaceSize is the encoded size of a FineRenderableFace.
const FineRenderableFaceSize = 32

const (
	fineNeedsCentroidBit = 1 << 28
	fineIsFullAreaBit    = 1 << 29
	fineNeedsFaceBit     = 1 << 30
	fineIsConstantBit    = 1 << 31
)

// Encode appends the record little-endian.
func (r FineRenderableFace) Encode(out []byte) []byte {
	bits := r.ProgramIndex & indexMask
	if r.NeedsCentroid {
		bits |= fineNeedsCentroidBit
	}
	if r.IsFullArea {
		bits |= fineIsFullAreaBit
	}
	if r.NeedsFace {
		bits |= fineNeedsFaceBit
	}
	if r.IsConstant {
		bits |= fineIsConstantBit
	}
	out = appendU32(out, bits, r.EdgesIndex, r.NumEdges)
	out = appendI32(out, r.MinXCount, r.MinYCount, r.MaxXCount, r.MaxYCount)
	return appendU32(out, r.NextAddress)
}

// DecodeFineRenderableFace reads a record at a 4-byte-aligned offset.
func DecodeFineRenderableFace(data []byte, offset int) (FineRenderableFace, error) {
	if err := checkRecord(data, offset, FineRenderableFaceSize); err != nil {
		return FineRenderableFace{}, err
	}
	w := wordReader{data: data, at: offset}
	bits := w.u32()
	return FineRenderableFace{
		ProgramIndex:  bits & indexMask,
		NeedsCentroid: bits&fineNeedsCentroidBit != 0,
		IsFullArea:    bits&fineIsFullAreaBit != 0,
		NeedsFace:     bits&fineNeedsFaceBit != 0,
		IsConstant:    bits&fineIsConstantBit != 0,
		EdgesIndex:    w.u32(),
		NumEdges:      w.u32(),
		MinXCount:     w.i32(),
		MinYCount:     w.i32(),
		MaxXCount:     w.i32(),
		MaxYCount:     w.i32(),
		NextAddress:   w.u32(),
	}, nil
}

// EncodeConfig serializes the frame header. 44 bytes; producers and
// consumers share this layout.
func EncodeConfig(c TwoPassConfig, out []byte) []byte {
	c = c.normalized()
	out = appendU32(out,
		uint32(c.RasterWidth), uint32(c.RasterHeight),
		uint32(c.TileWidthCount()), uint32(c.TileHeightCount()),
		uint32(c.BinWidthCount()), uint32(c.BinHeightCount()),
		uint32(c.TileSize), uint32(c.BinSize),
		uint32(c.Filter),
	)
	out = appendF32(out, float32(c.FilterScale))
	return appendU32(out, uint32(c.ColorSpace))
}

// ConfigSize is the encoded size of the frame header.
const ConfigSize = 44

// DecodeConfig reads the frame header.
func DecodeConfig(data []byte, offset int) (TwoPassConfig, error) {
	if err := checkRecord(data, offset, ConfigSize); err != nil {
		return TwoPassConfig{}, err
	}
	w := wordReader{data: data, at: offset}
	c := TwoPassConfig{
		RasterWidth:  int(w.u32()),
		RasterHeight: int(w.u32()),
	}
	w.u32() // tile counts are derived on decode
	w.u32()
	w.u32()
	w.u32()
	c.TileSize = int(w.u32())
	c.BinSize = int(w.u32())
	c.Filter = filter.Type(w.u32())
	c.FilterScale = float64(w.f32())
	c.ColorSpace = vex.ColorSpace(w.u32())
	return c, nil
}

// Encoding helpers.

type wordReader struct {
	data []byte
	at   int
}

func (w *wordReader) u32() uint32 {
	v := binary.LittleEndian.Uint32(w.data[w.at:])
	w.at += 4
	return v
}

func (w *wordReader) i32() int32 {
	return int32(w.u32())
}

func (w *wordReader) f32() float32 {
	return math.Float32frombits(w.u32())
}

func appendU32(out []byte, vs ...uint32) []byte {
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func appendI32(out []byte, vs ...int32) []byte {
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out
}

func appendF32(out []byte, vs ...float32) []byte {
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func checkRecord(data []byte, offset, size int) error {
	if offset%4 != 0 {
		return fmt.Errorf("%w: offset %d not 4-byte aligned", ErrRecordTruncated, offset)
	}
	if offset < 0 || offset+size > len(data) {
		return fmt.Errorf("%w: need %d bytes at %d of %d", ErrRecordTruncated, size, offset, len(data))
	}
	return nil
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
