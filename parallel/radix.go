package parallel

import (
	"golang.org/x/exp/constraints"
)

// BitOrder exposes the sort key of an element as extractable bit fields.
// Radix sort peels the key from least significant bits upward, so an
// order is fully described by its bit count and a windowed bit reader.
type BitOrder[T any] interface {
	// Bits returns the total key width.
	Bits() int

	// GetBits extracts count bits of the key starting at offset (0 is the
	// least significant bit).
	GetBits(value T, offset, count uint) uint32
}

// U32Order sorts uint32 values ascending.
type U32Order struct{}

func (U32Order) Bits() int { return 32 }

func (U32Order) GetBits(value uint32, offset, count uint) uint32 {
	return (value >> offset) & ((1 << count) - 1)
}

// U32ReverseOrder sorts uint32 values descending by complementing the
// extracted key bits.
type U32ReverseOrder struct{}

func (U32ReverseOrder) Bits() int { return 32 }

func (U32ReverseOrder) GetBits(value uint32, offset, count uint) uint32 {
	return (^value >> offset) & ((1 << count) - 1)
}

// Vec2u is an unsigned 2-vector sort element.
type Vec2u struct {
	X, Y uint32
}

// Vec2uLexicographicalOrder sorts Vec2u by X, then Y: X occupies the high
// half of the 64-bit key.
type Vec2uLexicographicalOrder struct{}

func (Vec2uLexicographicalOrder) Bits() int { return 64 }

func (Vec2uLexicographicalOrder) GetBits(value Vec2u, offset, count uint) uint32 {
	key := uint64(value.X)<<32 | uint64(value.Y)
	return uint32((key >> offset) & ((1 << count) - 1))
}

// UnsignedOrder sorts any unsigned integer type ascending.
type UnsignedOrder[T constraints.Unsigned] struct {
	// Width is the key width in bits; 0 means 64.
	Width int
}

func (o UnsignedOrder[T]) Bits() int {
	if o.Width == 0 {
		return 64
	}
	return o.Width
}

func (o UnsignedOrder[T]) GetBits(value T, offset, count uint) uint32 {
	return uint32((uint64(value) >> offset) & ((1 << count) - 1))
}

// radixBitsPerPass is the bucket width per scatter pass.
const radixBitsPerPass = 4

// RadixSort stably sorts data by the order's key, least significant bits
// first. Each pass histograms the current window per workgroup tile,
// scans the histograms into scatter offsets (bucket-major so stability
// holds across tiles), and scatters.
func RadixSort[T any](data []T, order BitOrder[T], cfg Config) ([]T, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	src := make([]T, len(data))
	copy(src, data)
	if len(src) < 2 {
		return src, nil
	}
	dst := make([]T, len(src))

	totalBits := order.Bits()
	passes := (totalBits + radixBitsPerPass - 1) / radixBitsPerPass

	tile := cfg.TileSize()
	tiles := (len(src) + tile - 1) / tile
	const buckets = 1 << radixBitsPerPass

	// histograms[tile][bucket], flattened bucket-major for the scan:
	// offsets[bucket*tiles + tile].
	counts := make([]uint32, tiles*buckets)

	for pass := 0; pass < passes; pass++ {
		offset := uint(pass * radixBitsPerPass)
		count := uint(radixBitsPerPass)
		if rem := uint(totalBits) - offset; rem < count {
			count = rem
		}

		// Phase 1: per-tile histograms.
		clear(counts)
		defaultPool.Dispatch(tiles, func(g int) {
			lo := g * tile
			hi := min(lo+tile, len(src))
			for _, v := range src[lo:hi] {
				b := order.GetBits(v, offset, count)
				counts[int(b)*tiles+g]++
			}
		})

		// Phase 2: exclusive scan of the bucket-major histogram gives
		// each (bucket, tile) its global scatter base.
		if err := ScanInPlace(counts, func(a, b uint32) uint32 { return a + b }, 0, Exclusive, cfg); err != nil {
			return nil, err
		}

		// Phase 3: stable scatter. Tiles write disjoint ranges; within a
		// tile, source order is preserved per bucket.
		defaultPool.Dispatch(tiles, func(g int) {
			local := make([]uint32, buckets)
			lo := g * tile
			hi := min(lo+tile, len(src))
			for _, v := range src[lo:hi] {
				b := order.GetBits(v, offset, count)
				pos := counts[int(b)*tiles+g] + local[b]
				local[b]++
				dst[pos] = v
			}
		})

		src, dst = dst, src
	}

	return src, nil
}
