package parallel

import "fmt"

// ScanKind selects inclusive or exclusive prefix semantics.
type ScanKind uint8

const (
	// Inclusive includes each element in its own prefix.
	Inclusive ScanKind = iota
	// Exclusive shifts prefixes by one, placing the identity first.
	Exclusive
)

// maxScanLevels bounds the recursion: three levels cover arrays up to
// (W*G)^3 items.
const maxScanLevels = 3

// Scan computes the prefix combination of data under an associative
// operator, in place over a copy. The scan is multi-level: per-tile scans
// produce tile totals, the totals scan recursively, and the scanned
// totals offset each tile. Non-commutative operators combine in source
// order throughout.
func Scan[T any](data []T, op func(a, b T) T, identity T, kind ScanKind, cfg Config) ([]T, error) {
	out := make([]T, len(data))
	copy(out, data)
	if err := ScanInPlace(out, op, identity, kind, cfg); err != nil {
		return nil, err
	}
	return out, nil
}

// ScanInPlace scans data in place.
func ScanInPlace[T any](data []T, op func(a, b T) T, identity T, kind ScanKind, cfg Config) error {
	cfg, err := cfg.normalize()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	tile := cfg.TileSize()
	levels := 0
	for n := len(data); n > tile; n = (n + tile - 1) / tile {
		levels++
		if levels >= maxScanLevels {
			return fmt.Errorf("parallel: scan of %d items exceeds %d levels at tile size %d",
				len(data), maxScanLevels, tile)
		}
	}

	return scanLevel(data, op, identity, kind, cfg)
}

// scanLevel performs one dispatch level plus the recursive totals scan.
func scanLevel[T any](data []T, op func(a, b T) T, identity T, kind ScanKind, cfg Config) error {
	tile := cfg.TileSize()
	tiles := (len(data) + tile - 1) / tile

	// Phase 1: scan each tile independently, collecting tile totals.
	totals := make([]T, tiles)
	defaultPool.Dispatch(tiles, func(g int) {
		lo := g * tile
		hi := min(lo+tile, len(data))
		totals[g] = scanTileInclusive(data[lo:hi], op)
	})

	if tiles == 1 {
		finalizeKind(data, identity, kind)
		return nil
	}

	// Phase 2: scan the totals (recursively for very large inputs).
	if err := scanLevel(totals, op, identity, Exclusive, cfg); err != nil {
		return err
	}

	// Phase 3: offset each tile by its scanned predecessor total.
	defaultPool.Dispatch(tiles, func(g int) {
		lo := g * tile
		hi := min(lo+tile, len(data))
		if g == 0 {
			return
		}
		prefix := totals[g]
		for i := lo; i < hi; i++ {
			data[i] = op(prefix, data[i])
		}
	})

	finalizeKind(data, identity, kind)
	return nil
}

// scanTileInclusive scans one tile inclusively in place and returns its
// total. Within the emulated workgroup the lanes run in order, so the
// sequential pass is the barriered Hillis-Steele result.
func scanTileInclusive[T any](tile []T, op func(a, b T) T) T {
	for i := 1; i < len(tile); i++ {
		tile[i] = op(tile[i-1], tile[i])
	}
	return tile[len(tile)-1]
}

// finalizeKind converts an inclusive scan to exclusive when requested.
func finalizeKind[T any](data []T, identity T, kind ScanKind) {
	if kind != Exclusive {
		return
	}
	prev := identity
	for i := range data {
		data[i], prev = prev, data[i]
	}
}
