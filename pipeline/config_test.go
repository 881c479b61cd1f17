package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/vex/filter"
)

func TestConfigValidate(t *testing.T) {
	good := TwoPassConfig{RasterWidth: 256, RasterHeight: 256}
	require.NoError(t, good.Validate())

	tests := []struct {
		name string
		cfg  TwoPassConfig
	}{
		{"zero raster", TwoPassConfig{}},
		{"negative width", TwoPassConfig{RasterWidth: -1, RasterHeight: 4}},
		{"tile not multiple of bin", TwoPassConfig{RasterWidth: 64, RasterHeight: 64, BinSize: 24, TileSize: 100}},
		{"unknown filter", TwoPassConfig{RasterWidth: 8, RasterHeight: 8, Filter: filter.Type(40)}},
		{"negative filter scale", TwoPassConfig{RasterWidth: 8, RasterHeight: 8, FilterScale: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigGeometry(t *testing.T) {
	cfg := TwoPassConfig{RasterWidth: 250, RasterHeight: 100}
	require.Equal(t, 16, cfg.BinWidthCount())
	require.Equal(t, 7, cfg.BinHeightCount())
	require.Equal(t, 1, cfg.TileWidthCount())
	require.Equal(t, 1, cfg.TileHeightCount())
	require.Equal(t, 0.5, cfg.FilterRadius())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
raster_width = 512
raster_height = 384
bin_size = 16
tile_size = 256
filter = 1
filter_scale = 1.0
color_space = 2
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 512, cfg.RasterWidth)
	require.Equal(t, 384, cfg.RasterHeight)
	require.Equal(t, filter.Bilinear, cfg.Filter)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`raster_width = "wide"`), 0o644))
	_, err = LoadConfig(bad)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
