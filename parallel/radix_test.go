package parallel

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// xorshift is a tiny deterministic generator for sort inputs.
type xorshift uint64

func (x *xorshift) next() uint32 {
	v := uint64(*x)
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	*x = xorshift(v)
	return uint32(v)
}

func randomU32(n int) []uint32 {
	gen := xorshift(0x9E3779B97F4A7C15)
	out := make([]uint32, n)
	for i := range out {
		out[i] = gen.next()
	}
	return out
}

func TestRadixSortU32(t *testing.T) {
	data := randomU32(2300)
	got, err := RadixSort(data, U32Order{}, Config{})
	require.NoError(t, err)
	require.Len(t, got, len(data))
	require.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))

	// Same multiset.
	want := append([]uint32(nil), data...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	require.Equal(t, want, got)
}

func TestRadixSortReverseOrder(t *testing.T) {
	data := randomU32(2300)
	got, err := RadixSort(data, U32ReverseOrder{}, Config{})
	require.NoError(t, err)
	require.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] > got[j] }))
}

func TestRadixSortVec2uLexicographic(t *testing.T) {
	gen := xorshift(42)
	data := make([]Vec2u, 1500)
	for i := range data {
		// Small ranges force plenty of ties on X.
		data[i] = Vec2u{X: gen.next() % 16, Y: gen.next() % 1024}
	}

	got, err := RadixSort(data, Vec2uLexicographicalOrder{}, Config{})
	require.NoError(t, err)

	want := append([]Vec2u(nil), data...)
	sort.SliceStable(want, func(i, j int) bool {
		if want[i].X != want[j].X {
			return want[i].X < want[j].X
		}
		return want[i].Y < want[j].Y
	})
	require.Equal(t, want, got)
}

// tagged pairs a small sort key with its input sequence number.
type tagged struct {
	key uint32
	seq int
}

type taggedOrder struct{}

func (taggedOrder) Bits() int { return 3 }

func (taggedOrder) GetBits(v tagged, offset, count uint) uint32 {
	return (v.key >> offset) & ((1 << count) - 1)
}

// Sorting by a partial key must keep equal-key elements in input order.
func TestRadixSortStability(t *testing.T) {
	gen := xorshift(7)
	data := make([]tagged, 600)
	for i := range data {
		data[i] = tagged{key: gen.next() % 8, seq: i}
	}

	order := taggedOrder{}
	got, err := RadixSort(data, order, Config{Workgroup: 16, Grain: 4})
	require.NoError(t, err)

	for i := 1; i < len(got); i++ {
		if got[i-1].key == got[i].key {
			require.Less(t, got[i-1].seq, got[i].seq, "equal keys out of input order at %d", i)
		} else {
			require.Less(t, got[i-1].key, got[i].key)
		}
	}
}

func TestUnsignedOrder(t *testing.T) {
	data := []uint16{9, 3, 7, 1, 1, 65535, 0}
	got, err := RadixSort(data, UnsignedOrder[uint16]{Width: 16}, Config{})
	require.NoError(t, err)
	require.Equal(t, []uint16{0, 1, 1, 3, 7, 9, 65535}, got)
}
