// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline implements the two-pass rasterizer: a coarse pass
// that bins renderable faces into per-bin linked lists, and a fine pass
// that walks each bin's list and integrates the reconstruction filter
// per pixel. A direct per-pixel reference path provides ground truth.
package pipeline

import (
	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/parallel"
	"github.com/gogpu/vex/render"
)

// Renderer drives frames through partition, coarse and fine passes.
// A Renderer is safe for sequential reuse across frames; its worker pool
// persists.
type Renderer struct {
	config TwoPassConfig
	pool   *parallel.Pool
}

// NewRenderer creates a renderer for a validated config.
func NewRenderer(cfg TwoPassConfig) (*Renderer, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		config: cfg,
		pool:   parallel.NewPool(0),
	}, nil
}

// Config returns the renderer's normalized configuration.
func (r *Renderer) Config() TwoPassConfig {
	return r.config
}

// Render partitions the program over the raster bounds and rasterizes it
// into the target. The frame either completes or fails as a unit;
// partial output is not observable.
func (r *Renderer) Render(program render.Program, target RenderTarget) error {
	renderables := render.Partition(program, r.config.Bounds(), render.PartitionOptions{
		TileSize: float64(r.config.TileSize),
	})
	return r.RenderFaces(renderables, target)
}

// RenderFaces rasterizes pre-partitioned renderable faces.
func (r *Renderer) RenderFaces(renderables []render.RenderableFace, target RenderTarget) error {
	fs, err := runCoarse(r.config, renderables, r.pool)
	if err != nil {
		return err
	}
	if err := runFine(fs, target, r.pool); err != nil {
		return err
	}
	vex.Logger().Debug("frame complete",
		"width", r.config.RasterWidth,
		"height", r.config.RasterHeight,
		"faces", len(fs.faces))
	return nil
}

// TwoPassPixels runs coarse and fine passes and returns the accumulated
// working-space colors, for tests that compare against ReferencePixels.
func (r *Renderer) TwoPassPixels(renderables []render.RenderableFace) ([]vex.Vec4, error) {
	fs, err := runCoarse(r.config, renderables, r.pool)
	if err != nil {
		return nil, err
	}

	cfg := r.config
	colors := make([]vex.Vec4, cfg.RasterWidth*cfg.RasterHeight)
	binW, binH := cfg.BinWidthCount(), cfg.BinHeightCount()

	for bin := 0; bin < binW*binH; bin++ {
		if err := fs.fineBinInto(bin, colors); err != nil {
			return nil, err
		}
	}
	return colors, nil
}

// CoarseState exposes the frame's intermediate clipped-chunk records for
// diagnostics and conservation checks.
func (r *Renderer) CoarseState(renderables []render.RenderableFace) ([]RasterClippedChunk, error) {
	fs, err := runCoarse(r.config, renderables, r.pool)
	if err != nil {
		return nil, err
	}
	return fs.clippedChunks, nil
}
