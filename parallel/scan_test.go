package parallel

import (
	"testing"
)

var smallConfig = Config{Workgroup: 4, Grain: 2}

func iota32(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i + 1)
	}
	return out
}

func addU32(a, b uint32) uint32 { return a + b }

func TestScanInclusive(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 64, 65, 512} {
		data := iota32(n)
		got, err := Scan(data, addU32, 0, Inclusive, smallConfig)
		if err != nil {
			t.Fatal(err)
		}
		sum := uint32(0)
		for i, v := range data {
			sum += v
			if got[i] != sum {
				t.Fatalf("n=%d: inclusive[%d] = %d, want %d", n, i, got[i], sum)
			}
		}
	}
}

func TestScanExclusive(t *testing.T) {
	for _, n := range []int{1, 8, 9, 100} {
		data := iota32(n)
		got, err := Scan(data, addU32, 0, Exclusive, smallConfig)
		if err != nil {
			t.Fatal(err)
		}
		sum := uint32(0)
		for i, v := range data {
			if got[i] != sum {
				t.Fatalf("n=%d: exclusive[%d] = %d, want %d", n, i, got[i], sum)
			}
			sum += v
		}
	}
}

// A non-commutative operator must see elements in source order: string
// concatenation makes any reordering visible.
func TestScanNonCommutative(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	got, err := Scan(words, func(a, b string) string { return a + b }, "", Inclusive, smallConfig)
	if err != nil {
		t.Fatal(err)
	}
	prefix := ""
	for i, w := range words {
		prefix += w
		if got[i] != prefix {
			t.Fatalf("inclusive[%d] = %q, want %q", i, got[i], prefix)
		}
	}
}

func TestScanInPlace(t *testing.T) {
	data := iota32(20)
	if err := ScanInPlace(data, addU32, 0, Inclusive, smallConfig); err != nil {
		t.Fatal(err)
	}
	if data[19] != 210 {
		t.Errorf("last prefix = %d, want 210", data[19])
	}
}

func TestScanRejectsBadConfig(t *testing.T) {
	if _, err := Scan(iota32(4), addU32, 0, Inclusive, Config{Workgroup: 3, Grain: 1}); err == nil {
		t.Error("expected error for non-power-of-two workgroup")
	}
}

func TestReduceMatchesSequential(t *testing.T) {
	for _, layout := range []Layout{Blocked, Striped} {
		for _, n := range []int{1, 8, 64, 129} {
			// Striped layouts are defined for whole tiles.
			if layout == Striped && n%smallConfig.TileSize() != 0 {
				continue
			}
			data := iota32(n)
			stored := data
			if layout == Striped {
				stored = stripeU32(data, smallConfig)
			}
			got, err := Reduce(stored, addU32, 0, smallConfig, layout)
			if err != nil {
				t.Fatal(err)
			}
			want := uint32(0)
			for _, v := range data {
				want += v
			}
			if got != want {
				t.Errorf("layout %v n=%d: reduce = %d, want %d", layout, n, got, want)
			}
		}
	}
}

// stripeU32 stores logical items in striped order per tile.
func stripeU32(data []uint32, cfg Config) []uint32 {
	out := make([]uint32, len(data))
	tile := cfg.TileSize()
	for base := 0; base < len(data); base += tile {
		for lane := 0; lane < cfg.Workgroup; lane++ {
			for step := 0; step < cfg.Grain; step++ {
				logical := lane*cfg.Grain + step
				physical := step*cfg.Workgroup + lane
				if base+logical < len(data) && base+physical < len(data) {
					out[base+physical] = data[base+logical]
				}
			}
		}
	}
	return out
}

func TestReduceNonCommutative(t *testing.T) {
	words := make([]string, 40)
	want := ""
	for i := range words {
		words[i] = string(rune('a' + i%26))
		want += words[i]
	}
	got, err := Reduce(words, func(a, b string) string { return a + b }, "", smallConfig, Blocked)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("reduce = %q, want %q", got, want)
	}
}
