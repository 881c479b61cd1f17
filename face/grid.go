package face

import (
	vex "github.com/gogpu/vex"
)

// gridClipEdges clips an edge set against every cell of an integer grid
// anchored at (minX, minY) with cell size stepX by stepY, invoking cellCb
// for every edge that contributes to a cell.
//
// The grid partitions the whole plane: the first row and column absorb
// everything below and left of the grid, the last ones everything above
// and right, so the per-cell contributions always sum back to the input
// edge set's area and winding.
func gridClipEdges(edges []vex.LinearEdge, minX, minY, stepX, stepY float64, stepXCount, stepYCount int, cellCb GridCellCallback) {
	if stepXCount <= 0 || stepYCount <= 0 {
		return
	}

	rest := edges
	for row := 0; row < stepYCount; row++ {
		rowBottom := minY + stepY*float64(row)
		rowEdges := rest
		if row < stepYCount-1 {
			rowTop := minY + stepY*float64(row+1)
			rowEdges, rest = binaryYClipEdges(rest, rowTop, minX)
		}

		colRest := rowEdges
		for col := 0; col < stepXCount; col++ {
			cell := colRest
			if col < stepXCount-1 {
				colRight := minX + stepX*float64(col+1)
				cell, colRest = binaryXClipEdges(colRest, colRight, rowBottom)
			}
			for _, e := range cell {
				cellCb(col, row, e)
			}
		}
	}
}
