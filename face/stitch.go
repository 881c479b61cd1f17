package face

import (
	"math"

	vex "github.com/gogpu/vex"
)

// stitchKey quantizes a point to an epsilon grid for endpoint matching.
type stitchKey struct {
	x, y int64
}

func makeStitchKey(p vex.Point, epsilon float64) stitchKey {
	return stitchKey{
		x: int64(math.Round(p.X / epsilon)),
		y: int64(math.Round(p.Y / epsilon)),
	}
}

// stitchEdges assembles an unordered edge set into closed polygon loops by
// matching edge endpoints within epsilon. Fake-corner edges participate in
// the walk like real edges; the loops they close are genuine face
// boundary. Chains that cannot be closed (dangling edges from numerically
// inconsistent input) are dropped.
func stitchEdges(edges []vex.LinearEdge, epsilon float64) *Polygonal {
	if epsilon <= 0 {
		epsilon = 1e-8
	}

	// Index edges by quantized start point.
	byStart := make(map[stitchKey][]int, len(edges))
	for i, e := range edges {
		if e.Start.EqualsEpsilon(e.End, epsilon) {
			continue
		}
		k := makeStitchKey(e.Start, epsilon)
		byStart[k] = append(byStart[k], i)
	}

	used := make([]bool, len(edges))
	takeFrom := func(k stitchKey) int {
		list := byStart[k]
		for len(list) > 0 {
			idx := list[len(list)-1]
			list = list[:len(list)-1]
			if !used[idx] {
				byStart[k] = list
				return idx
			}
		}
		byStart[k] = list
		return -1
	}

	var loops [][]vex.Point
	for i, e := range edges {
		if used[i] || e.Start.EqualsEpsilon(e.End, epsilon) {
			continue
		}

		used[i] = true
		loop := []vex.Point{e.Start}
		startKey := makeStitchKey(e.Start, epsilon)
		cursor := e.End

		closed := false
		for {
			k := makeStitchKey(cursor, epsilon)
			if k == startKey {
				closed = true
				break
			}
			next := takeFrom(k)
			if next < 0 {
				break
			}
			used[next] = true
			loop = append(loop, cursor)
			cursor = edges[next].End
		}

		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}

	return &Polygonal{loops: loops}
}
