package pipeline

import (
	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/render"
)

// RenderReference rasterizes renderable faces directly per pixel without
// binning: each face is clipped against every pixel's filter support and
// its program evaluated by tree walk. It is the ground truth the
// two-pass path is checked against.
func RenderReference(cfg TwoPassConfig, renderables []render.RenderableFace, target RenderTarget) error {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if target == nil || target.Pixels() == nil {
		return ErrNilTarget
	}

	h := newFilterHandle(cfg)
	colors := make([]vex.Vec4, cfg.RasterWidth*cfg.RasterHeight)

	for _, rf := range renderables {
		ev := treeEvaluator{program: rf.Program}
		needsCentroid := rf.Program.NeedsCentroid()

		fb := rf.Face.Bounds().Dilated(h.radius).RoundedOut()
		px0 := max(int(fb.MinX), 0)
		py0 := max(int(fb.MinY), 0)
		px1 := min(int(fb.MaxX), cfg.RasterWidth)
		py1 := min(int(fb.MaxY), cfg.RasterHeight)

		for py := py0; py < py1; py++ {
			for px := px0; px < px1; px++ {
				c, err := pixelContribution(h, ev, rf.Face, needsCentroid, px, py)
				if err != nil {
					return err
				}
				colors[py*cfg.RasterWidth+px] = colors[py*cfg.RasterWidth+px].Add(c)
			}
		}
	}

	writePixels(target, cfg, colors, 0, 0, cfg.RasterWidth, cfg.RasterHeight)
	return nil
}

// ReferencePixels rasterizes like RenderReference but returns the raw
// accumulated working-space colors, for tests that compare against the
// two-pass path before quantization.
func ReferencePixels(cfg TwoPassConfig, renderables []render.RenderableFace) ([]vex.Vec4, error) {
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := newFilterHandle(cfg)
	colors := make([]vex.Vec4, cfg.RasterWidth*cfg.RasterHeight)

	for _, rf := range renderables {
		ev := treeEvaluator{program: rf.Program}
		needsCentroid := rf.Program.NeedsCentroid()

		fb := rf.Face.Bounds().Dilated(h.radius).RoundedOut()
		px0 := max(int(fb.MinX), 0)
		py0 := max(int(fb.MinY), 0)
		px1 := min(int(fb.MaxX), cfg.RasterWidth)
		py1 := min(int(fb.MaxY), cfg.RasterHeight)

		for py := py0; py < py1; py++ {
			for px := px0; px < px1; px++ {
				c, err := pixelContribution(h, ev, rf.Face, needsCentroid, px, py)
				if err != nil {
					return nil, err
				}
				colors[py*cfg.RasterWidth+px] = colors[py*cfg.RasterWidth+px].Add(c)
			}
		}
	}
	return colors, nil
}
