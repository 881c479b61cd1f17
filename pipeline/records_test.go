package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

func TestRasterChunkRoundTrip(t *testing.T) {
	r := RasterChunk{
		ProgramIndex: 0x123456,
		NeedsFace:    true,
		IsConstant:   true,
		EdgesOffset:  17,
		NumEdges:     5,
		MinX:         -1.5, MinY: 2.25, MaxX: 31.5, MaxY: 48,
		MinXCount: -1, MinYCount: 0, MaxXCount: 1, MaxYCount: -1,
	}
	buf := r.Encode(nil)
	require.Len(t, buf, RasterChunkSize)

	got, err := DecodeRasterChunk(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestRasterEdgeRoundTrip(t *testing.T) {
	r := RasterEdge{
		ChunkIndex:  42,
		IsFirstEdge: true,
		StartX:      1.5, StartY: -2, EndX: 3.25, EndY: 4,
	}
	buf := r.Encode(nil)
	require.Len(t, buf, RasterEdgeSize)

	got, err := DecodeRasterEdge(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestRasterEdgeClipRoundTrip(t *testing.T) {
	r := RasterEdgeClip{
		ClippedChunkIndex: 7,
		IsLastEdge:        true,
		Point0X:           0, Point0Y: 0,
		Point1X: 1, Point1Y: 0.5,
		Point2X: 1, Point2Y: 1,
		Point3X: 1, Point3Y: 1,
	}
	buf := r.Encode(nil)
	require.Len(t, buf, RasterEdgeClipSize)

	got, err := DecodeRasterEdgeClip(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestRasterChunkReduceDataRoundTrip(t *testing.T) {
	r := RasterChunkReduceData{
		ClippedChunkIndex: (1 << 24) - 1,
		IsFirstEdge:       true,
		IsLastEdge:        true,
		Area:              12.5,
		MinX:              0, MinY: 16, MaxX: 16, MaxY: 32,
		MinXCount: 1, MinYCount: -1, MaxXCount: 0, MaxYCount: 1,
	}
	buf := r.Encode(nil)
	require.Len(t, buf, RasterChunkReduceDataSize)

	got, err := DecodeRasterChunkReduceData(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestRasterChunkReducePairAndQuadRoundTrip(t *testing.T) {
	base := RasterChunkReduceData{ClippedChunkIndex: 3, Area: 1}
	other := RasterChunkReduceData{ClippedChunkIndex: 4, Area: 2, IsLastEdge: true}

	pair := RasterChunkReducePair{Min: base, Max: other}
	buf := pair.Encode(nil)
	require.Len(t, buf, RasterChunkReducePairSize)
	gotPair, err := DecodeRasterChunkReducePair(buf, 0)
	require.NoError(t, err)
	require.Equal(t, pair, gotPair)

	quad := RasterChunkReduceQuad{LeftMin: base, LeftMax: other, RightMin: other, RightMax: base}
	buf = quad.Encode(nil)
	require.Len(t, buf, RasterChunkReduceQuadSize)
	gotQuad, err := DecodeRasterChunkReduceQuad(buf, 0)
	require.NoError(t, err)
	require.Equal(t, quad, gotQuad)
}

func TestRasterClippedChunkRoundTrip(t *testing.T) {
	r := RasterClippedChunk{
		ProgramIndex: 99,
		IsReducible:  true,
		IsComplete:   true,
		IsFullArea:   true,
		NeedsFace:    true,
		IsConstant:   true,
		Area:         256,
		MinX:         0, MinY: 0, MaxX: 16, MaxY: 16,
		MinXCount: 1, MinYCount: 1, MaxXCount: 1, MaxYCount: 1,
	}
	buf := r.Encode(nil)
	require.Len(t, buf, RasterClippedChunkSize)

	got, err := DecodeRasterClippedChunk(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)
	require.NoError(t, got.ValidateCounts())

	bad := r
	bad.MaxXCount = 2
	require.ErrorIs(t, bad.ValidateCounts(), ErrSideCountRange)
}

func TestRasterSplitReduceDataRoundTrip(t *testing.T) {
	r := RasterSplitReduceData{NumReducible: 10, NumComplete: 32}
	buf := r.Encode(nil)
	require.Len(t, buf, RasterSplitReduceDataSize)

	got, err := DecodeRasterSplitReduceData(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)

	combined := r.Combine(RasterSplitReduceData{NumReducible: 1, NumComplete: 2})
	require.Equal(t, RasterSplitReduceData{NumReducible: 11, NumComplete: 34}, combined)
}

func TestFineRenderableFaceRoundTrip(t *testing.T) {
	r := FineRenderableFace{
		ProgramIndex:  5,
		NeedsCentroid: true,
		IsFullArea:    false,
		NeedsFace:     true,
		IsConstant:    false,
		EdgesIndex:    100,
		NumEdges:      7,
		MinXCount:     -1, MinYCount: 1, MaxXCount: 0, MaxYCount: 1,
		NextAddress: NilAddress,
	}
	buf := r.Encode(nil)
	require.Len(t, buf, FineRenderableFaceSize)

	got, err := DecodeFineRenderableFace(buf, 0)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestRecordsAtOffsets(t *testing.T) {
	// Sequential encode, aligned decode.
	a := RasterEdge{ChunkIndex: 1, StartX: 1}
	b := RasterEdge{ChunkIndex: 2, EndY: -3}
	buf := b.Encode(a.Encode(nil))

	gotA, err := DecodeRasterEdge(buf, 0)
	require.NoError(t, err)
	gotB, err := DecodeRasterEdge(buf, RasterEdgeSize)
	require.NoError(t, err)
	require.Equal(t, a, gotA)
	require.Equal(t, b, gotB)

	_, err = DecodeRasterEdge(buf, RasterEdgeSize+4)
	require.ErrorIs(t, err, ErrRecordTruncated)

	_, err = DecodeRasterEdge(buf, 2)
	require.ErrorIs(t, err, ErrRecordTruncated)
}

func TestReduceDataCombine(t *testing.T) {
	left := RasterChunkReduceData{
		ClippedChunkIndex: 8, IsFirstEdge: true,
		Area: 2, MinX: 0, MinY: 0, MaxX: 4, MaxY: 2,
		MinXCount: 1,
	}
	right := RasterChunkReduceData{
		ClippedChunkIndex: 8, IsLastEdge: true,
		Area: 3, MinX: 2, MinY: -1, MaxX: 6, MaxY: 1,
		MaxYCount: -1,
	}
	got := left.Combine(right)
	require.Equal(t, float32(5), got.Area)
	require.Equal(t, float32(0), got.MinX)
	require.Equal(t, float32(-1), got.MinY)
	require.Equal(t, float32(6), got.MaxX)
	require.Equal(t, float32(2), got.MaxY)
	require.True(t, got.IsFirstEdge)
	require.True(t, got.IsLastEdge)
	require.Equal(t, int32(1), got.MinXCount)
	require.Equal(t, int32(-1), got.MaxYCount)
}

func TestConfigHeaderRoundTrip(t *testing.T) {
	cfg := TwoPassConfig{
		RasterWidth:  640,
		RasterHeight: 480,
		BinSize:      16,
		TileSize:     256,
		Filter:       filter.Bilinear,
		FilterScale:  1.5,
		ColorSpace:   vex.ColorSpaceSRGB,
	}
	buf := EncodeConfig(cfg, nil)
	require.Len(t, buf, ConfigSize)

	got, err := DecodeConfig(buf, 0)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}
