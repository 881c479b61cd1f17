package parallel

import "fmt"

// Segmented scan and reduce: elements carry a segment key, and the
// operator only associates within runs of equal keys. The raster pipeline
// keys its edge records by clipped-chunk index, so one dispatch reduces
// every chunk's records without per-chunk loops.

// segmentedPair is the lifted element a segmented combination works on.
type segmentedPair[T any] struct {
	value T
	key   uint32
}

// liftOp turns op into a segment-aware associative operator: combining
// across a key boundary resets the accumulation to the right operand.
func liftOp[T any](op func(a, b T) T) func(a, b segmentedPair[T]) segmentedPair[T] {
	return func(a, b segmentedPair[T]) segmentedPair[T] {
		if a.key == b.key {
			return segmentedPair[T]{value: op(a.value, b.value), key: b.key}
		}
		return b
	}
}

// SegmentedScan computes per-segment inclusive prefixes: each output
// element combines the run of equal-keyed elements ending at it. Keys
// must group segments contiguously.
func SegmentedScan[T any](data []T, keys []uint32, op func(a, b T) T, identity T, cfg Config) ([]T, error) {
	if len(data) != len(keys) {
		return nil, errKeyLength(len(data), len(keys))
	}
	pairs := make([]segmentedPair[T], len(data))
	for i := range data {
		pairs[i] = segmentedPair[T]{value: data[i], key: keys[i]}
	}

	scanned, err := Scan(pairs, liftOp(op), segmentedPair[T]{value: identity, key: segmentIdentityKey}, Inclusive, cfg)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(data))
	for i, p := range scanned {
		out[i] = p.value
	}
	return out, nil
}

// SegmentedReduce reduces each contiguous equal-key run to one value, in
// segment order.
func SegmentedReduce[T any](data []T, keys []uint32, op func(a, b T) T, identity T, cfg Config) ([]T, error) {
	scanned, err := SegmentedScan(data, keys, op, identity, cfg)
	if err != nil {
		return nil, err
	}

	var out []T
	for i := range scanned {
		if i+1 == len(scanned) || keys[i+1] != keys[i] {
			out = append(out, scanned[i])
		}
	}
	return out, nil
}

// segmentIdentityKey is a key no real segment uses; the lifted identity
// never merges with data.
const segmentIdentityKey = 0xFFFFFFFF

func errKeyLength(data, keys int) error {
	return fmt.Errorf("parallel: %d values with %d segment keys", data, keys)
}
