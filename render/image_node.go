package render

import (
	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

// Resample selects how an image program samples its source.
type Resample uint8

const (
	// ResampleAnalytic convolves the reconstruction filter with the
	// clipped face via the analytic integrator.
	ResampleAnalytic Resample = iota
	// ResamplePoint point-samples the image at the evaluation position
	// with bilinear interpolation.
	ResamplePoint
)

// String returns a human-readable name for the resample mode.
func (r Resample) String() string {
	switch r {
	case ResampleAnalytic:
		return "Analytic"
	case ResamplePoint:
		return "Point"
	default:
		return "Unknown"
	}
}

// Image paints a sampleable 2D image.
type Image struct {
	Source filter.ImageSource

	// OutputToImage maps evaluation space into image texel space.
	OutputToImage vex.Matrix

	Filter   filter.Type
	Resample Resample
}

// NewImage creates an image program. transform maps image texel space into
// evaluation space; it is inverted once here.
func NewImage(source filter.ImageSource, transform vex.Matrix, filterType filter.Type, resample Resample) *Image {
	return &Image{
		Source:        source,
		OutputToImage: transform.Invert(),
		Filter:        filterType,
		Resample:      resample,
	}
}

func (p *Image) Name() string             { return "Image" }
func (p *Image) Children() []Program      { return nil }
func (p *Image) IsFullyTransparent() bool { return false }

func (p *Image) IsFullyOpaque() bool {
	return p.Source != nil && p.Source.IsFullyOpaque()
}

func (p *Image) NeedsCentroid() bool { return p.Resample == ResamplePoint }
func (p *Image) NeedsArea() bool     { return p.Resample == ResampleAnalytic }
func (p *Image) NeedsFace() bool     { return p.Resample == ResampleAnalytic }

func (p *Image) Simplified() Program {
	if p.Source == nil || p.Source.Width() == 0 || p.Source.Height() == 0 {
		return Transparent
	}
	return p
}

func (p *Image) Evaluate(ctx *Context) vex.Vec4 {
	if p.Source == nil {
		return vex.Vec4{}
	}
	if p.Resample == ResamplePoint {
		local := p.OutputToImage.TransformPoint(ctx.Center())
		return filter.SamplePoint(p.Source, local)
	}
	filt, err := filter.New(p.Filter)
	if err != nil {
		vex.Logger().Warn("image program with unknown filter", "filter", uint8(p.Filter))
		return vex.Vec4{}
	}
	return filter.Integrate(ctx.Face(), p.OutputToImage, filt, p.Source)
}

func (p *Image) compile(c *compiler) {
	idx := c.addImage(ImageResource{
		Source:        p.Source,
		OutputToImage: p.OutputToImage,
		Filter:        p.Filter,
		Resample:      p.Resample,
	})
	c.emit(uint32(OpImage), idx)
}

func (p *Image) serializeJSON() map[string]any {
	m := p.OutputToImage
	return map[string]any{
		"type":          p.Name(),
		"outputToImage": []float64{m.A, m.B, m.C, m.D, m.E, m.F},
		"filter":        p.Filter.String(),
		"resample":      p.Resample.String(),
	}
}

var _ Program = (*Image)(nil)
