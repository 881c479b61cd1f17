package parallel

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func intCompare(a, b int) int { return a - b }

// The co-rank property: for every k, merging the first corank elements
// of A with the first k-corank of B yields the first k merged elements.
func TestCoRankProperty(t *testing.T) {
	a := []int{1, 3, 3, 7, 9, 12}
	b := []int{2, 3, 5, 8, 8, 10, 14}

	merged := append(append([]int(nil), a...), b...)
	sort.Ints(merged)

	compare := func(ai, bj int) int { return intCompare(a[ai], b[bj]) }
	for k := 0; k <= len(a)+len(b); k++ {
		i := CoRank(k, len(a), len(b), compare)
		j := k - i
		require.GreaterOrEqual(t, i, 0)
		require.LessOrEqual(t, i, len(a))
		require.GreaterOrEqual(t, j, 0)
		require.LessOrEqual(t, j, len(b))

		prefix := append(append(make([]int, 0, k), a[:i]...), b[:j]...)
		sort.Ints(prefix)
		require.Equal(t, merged[:k], prefix, "k=%d", k)
	}
}

func TestMergeSorted(t *testing.T) {
	gen := xorshift(99)
	a := make([]int, 700)
	b := make([]int, 450)
	for i := range a {
		a[i] = int(gen.next() % 10000)
	}
	for i := range b {
		b[i] = int(gen.next() % 10000)
	}
	sort.Ints(a)
	sort.Ints(b)

	got, err := Merge(a, b, intCompare, Config{Workgroup: 8, Grain: 4})
	require.NoError(t, err)

	want := append(append([]int(nil), a...), b...)
	sort.Ints(want)
	require.Equal(t, want, got)
}

func TestMergeEmpty(t *testing.T) {
	got, err := Merge(nil, []int{1, 2}, intCompare, Config{})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, got)

	got, err = Merge([]int{3}, nil, intCompare, Config{})
	require.NoError(t, err)
	require.Equal(t, []int{3}, got)
}

// Ties resolve toward the first sequence, keeping the merge stable.
func TestMergeStability(t *testing.T) {
	type item struct {
		key  int
		from int
	}
	a := []item{{1, 0}, {2, 0}, {2, 0}, {5, 0}}
	b := []item{{1, 1}, {2, 1}, {4, 1}}

	got, err := Merge(a, b, func(x, y item) int { return x.key - y.key }, Config{})
	require.NoError(t, err)

	for i := 1; i < len(got); i++ {
		require.LessOrEqual(t, got[i-1].key, got[i].key)
		if got[i-1].key == got[i].key {
			require.LessOrEqual(t, got[i-1].from, got[i].from)
		}
	}
	// The first of each tied pair comes from a.
	require.Equal(t, 0, got[0].from)
}
