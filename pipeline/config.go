package pipeline

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

// Default geometry: bins are 16x16 pixels and tiles are 16x16 bins.
const (
	DefaultBinSize  = 16
	DefaultTileSize = 256
)

// TwoPassConfig describes one frame of the two-pass rasterizer.
type TwoPassConfig struct {
	// RasterWidth and RasterHeight are the output size in pixels.
	RasterWidth  int `toml:"raster_width"`
	RasterHeight int `toml:"raster_height"`

	// BinSize is the side of one fine-pass bin in pixels.
	// Zero selects DefaultBinSize.
	BinSize int `toml:"bin_size"`

	// TileSize is the side of one coarse-pass tile in pixels.
	// Zero selects DefaultTileSize.
	TileSize int `toml:"tile_size"`

	// Filter selects the reconstruction filter.
	Filter filter.Type `toml:"filter"`

	// FilterScale scales the filter's support. Zero selects 1.
	FilterScale float64 `toml:"filter_scale"`

	// ColorSpace is the target color space pixels are converted into.
	ColorSpace vex.ColorSpace `toml:"color_space"`
}

// normalized returns the config with defaults applied.
func (c TwoPassConfig) normalized() TwoPassConfig {
	if c.BinSize == 0 {
		c.BinSize = DefaultBinSize
	}
	if c.TileSize == 0 {
		c.TileSize = DefaultTileSize
	}
	if c.FilterScale == 0 {
		c.FilterScale = 1
	}
	return c
}

// Validate checks the config, returning ErrInvalidConfig with details.
func (c TwoPassConfig) Validate() error {
	c = c.normalized()
	if c.RasterWidth <= 0 || c.RasterHeight <= 0 {
		return fmt.Errorf("%w: raster %dx%d", ErrInvalidConfig, c.RasterWidth, c.RasterHeight)
	}
	if c.BinSize <= 0 || c.TileSize <= 0 || c.TileSize%c.BinSize != 0 {
		return fmt.Errorf("%w: tile %d not a multiple of bin %d", ErrInvalidConfig, c.TileSize, c.BinSize)
	}
	if _, err := filter.New(c.Filter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.FilterScale <= 0 {
		return fmt.Errorf("%w: filter scale %v", ErrInvalidConfig, c.FilterScale)
	}
	return nil
}

// BinWidthCount returns the number of bin columns.
func (c TwoPassConfig) BinWidthCount() int {
	c = c.normalized()
	return (c.RasterWidth + c.BinSize - 1) / c.BinSize
}

// BinHeightCount returns the number of bin rows.
func (c TwoPassConfig) BinHeightCount() int {
	c = c.normalized()
	return (c.RasterHeight + c.BinSize - 1) / c.BinSize
}

// TileWidthCount returns the number of tile columns.
func (c TwoPassConfig) TileWidthCount() int {
	c = c.normalized()
	return (c.RasterWidth + c.TileSize - 1) / c.TileSize
}

// TileHeightCount returns the number of tile rows.
func (c TwoPassConfig) TileHeightCount() int {
	c = c.normalized()
	return (c.RasterHeight + c.TileSize - 1) / c.TileSize
}

// FilterRadius returns the filter support half-width in output pixels.
func (c TwoPassConfig) FilterRadius() float64 {
	c = c.normalized()
	return filter.MustNew(c.Filter).Radius() * c.FilterScale
}

// Bounds returns the raster rectangle.
func (c TwoPassConfig) Bounds() vex.Bounds {
	return vex.NewBounds(0, 0, float64(c.RasterWidth), float64(c.RasterHeight))
}

// LoadConfig reads a TwoPassConfig from a TOML file.
func LoadConfig(path string) (TwoPassConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TwoPassConfig{}, fmt.Errorf("pipeline: reading config: %w", err)
	}
	var c TwoPassConfig
	if err := toml.Unmarshal(raw, &c); err != nil {
		return TwoPassConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c = c.normalized()
	if err := c.Validate(); err != nil {
		return TwoPassConfig{}, err
	}
	return c, nil
}
