package parallel

import "testing"

func TestSegmentedScan(t *testing.T) {
	data := []uint32{1, 2, 3, 4, 5, 6, 7}
	keys := []uint32{0, 0, 0, 1, 1, 2, 2}

	got, err := SegmentedScan(data, keys, addU32, 0, smallConfig)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{1, 3, 6, 4, 9, 6, 13}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSegmentedReduce(t *testing.T) {
	data := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	keys := []uint32{5, 5, 5, 9, 9, 11, 11, 11, 11}

	got, err := SegmentedReduce(data, keys, addU32, 0, smallConfig)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{6, 9, 30}
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSegmentedReduceCrossesTiles(t *testing.T) {
	// One segment spanning several workgroup tiles must still reduce to
	// a single value.
	n := smallConfig.TileSize()*3 + 5
	data := make([]uint32, n)
	keys := make([]uint32, n)
	for i := range data {
		data[i] = 1
	}

	got, err := SegmentedReduce(data, keys, addU32, 0, smallConfig)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != uint32(n) {
		t.Errorf("got %v, want [%d]", got, n)
	}
}

func TestSegmentedLengthMismatch(t *testing.T) {
	if _, err := SegmentedScan([]uint32{1}, []uint32{1, 2}, addU32, 0, smallConfig); err == nil {
		t.Error("expected length mismatch error")
	}
}
