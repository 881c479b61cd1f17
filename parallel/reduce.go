package parallel

// Reduce combines data under an associative (not necessarily commutative)
// operator. The reduction is multi-level: each workgroup reduces its
// W*G-item tile and writes one value; levels recurse until one value
// remains. Lanes combine their runs in logical order, so non-commutative
// operators see exactly the source order regardless of layout.
func Reduce[T any](data []T, op func(a, b T) T, identity T, cfg Config, layout Layout) (T, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return identity, err
	}
	if len(data) == 0 {
		return identity, nil
	}

	level := data
	for {
		tiles := (len(level) + cfg.TileSize() - 1) / cfg.TileSize()
		if tiles == 1 {
			return reduceTile(level, op, identity, cfg, layout), nil
		}
		out := make([]T, tiles)
		lv := level
		defaultPool.Dispatch(tiles, func(g int) {
			lo := g * cfg.TileSize()
			hi := min(lo+cfg.TileSize(), len(lv))
			out[g] = reduceTile(lv[lo:hi], op, identity, cfg, layout)
		})
		// Per-tile results are already in logical order; deeper levels
		// reduce them blocked.
		level = out
		layout = Blocked
	}
}

// reduceTile reduces one workgroup's tile. Emulating the lock-step
// workgroup on one goroutine: each lane folds its grain run, then the
// lane results fold in lane order (the in-workgroup tree a GPU would use
// is any association of the same ordered sequence).
func reduceTile[T any](tile []T, op func(a, b T) T, identity T, cfg Config, layout Layout) T {
	acc := identity
	first := true
	for lane := 0; lane < cfg.Workgroup; lane++ {
		laneAcc := identity
		laneHas := false
		for step := 0; step < cfg.Grain; step++ {
			idx := layout.physicalIndex(cfg, lane, step)
			if idx >= len(tile) {
				continue
			}
			if !laneHas {
				laneAcc = tile[idx]
				laneHas = true
			} else {
				laneAcc = op(laneAcc, tile[idx])
			}
		}
		if !laneHas {
			continue
		}
		if first {
			acc = laneAcc
			first = false
		} else {
			acc = op(acc, laneAcc)
		}
	}
	return acc
}
