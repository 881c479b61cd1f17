package filter

import (
	"math"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/face"
)

// ImageSource is an abstract sampleable 2D pixel array. Colors are
// premultiplied and already in the pipeline's working color space.
type ImageSource interface {
	Width() int
	Height() int

	// ColorAt returns the texel color at integer coordinates already
	// mapped into bounds.
	ColorAt(x, y int) vex.Vec4

	// IsFullyOpaque reports whether every texel has alpha 1. Fully opaque
	// images normalize by accumulated alpha, giving an exactly opaque
	// result.
	IsFullyOpaque() bool

	// ExtendX and ExtendY select the out-of-bounds behavior per axis.
	ExtendX() Extend
	ExtendY() Extend
}

// areaEpsilon is the threshold below which a sub-face is treated as empty
// and above 1-areaEpsilon as a full cell.
const areaEpsilon = 1e-8

// Integrate convolves the reconstruction filter with the face and image:
// the face is transformed into image space, cut into unit-cell sub-faces,
// and each image texel's weight is the kernel's closed-form integral over
// the sub-faces inside its support.
//
// outputToImage maps the face's space into image texel space. The
// returned color is premultiplied; it is normalized by accumulated alpha
// for fully opaque images and by the transformed face's signed area
// otherwise.
func Integrate(f face.Clippable, outputToImage vex.Matrix, filt *Filter, img ImageSource) vex.Vec4 {
	imageFace := f.Transformed(outputToImage)
	bounds := imageFace.Bounds()
	if bounds.IsEmpty() {
		return vex.Vec4{}
	}

	out := bounds.RoundedOut()
	lx, ly := int(out.MinX), int(out.MinY)
	hx, hy := int(out.MaxX), int(out.MaxY)
	nx, ny := hx-lx, hy-ly
	if nx <= 0 || ny <= 0 {
		return vex.Vec4{}
	}

	// Cut the face into unit-cell sub-faces and cache their edges and
	// signed areas.
	cells := make([][]vex.LinearEdge, nx*ny)
	imageFace.GridClipIterate(float64(lx), float64(ly), 1, 1, nx, ny,
		func(cx, cy int, e vex.LinearEdge) {
			idx := cy*nx + cx
			cells[idx] = append(cells[idx], e)
		}, nil)

	areas := make([]float64, nx*ny)
	for i, edges := range cells {
		sum := 0.0
		for _, e := range edges {
			sum += e.SignedAreaTerm()
		}
		areas[i] = sum
	}

	minOff, maxOff := filt.CellOffsets()
	shift := filt.BoundsShift()
	// Inflated sample iteration rectangle; samples outside the kernel's
	// reach of any sub-face contribute nothing and fall out via the
	// contribution threshold.
	sampleMinX := lx + minOff - shift - 1
	sampleMaxX := hx - minOff + shift
	sampleMinY := ly + minOff - shift - 1
	sampleMaxY := hy - minOff + shift

	extX, extY := img.ExtendX(), img.ExtendY()
	w, h := img.Width(), img.Height()

	var color vex.Vec4
	for y := sampleMinY; y <= sampleMaxY; y++ {
		for x := sampleMinX; x <= sampleMaxX; x++ {
			contribution := 0.0
			for py := max(y+minOff, ly); py <= min(y+maxOff, hy-1); py++ {
				for px := max(x+minOff, lx); px <= min(x+maxOff, hx-1); px++ {
					idx := (py-ly)*nx + (px - lx)
					area := areas[idx]
					switch {
					case math.Abs(area) < areaEpsilon:
						// Empty cell.
					case math.Abs(area) > 1-areaEpsilon:
						full := filt.EvaluateFull(x, y, px, py)
						if area < 0 {
							full = -full
						}
						contribution += full
					default:
						contribution += filt.EvaluateClippedEdges(cells[idx], x, y, px, py)
					}
				}
			}
			if math.Abs(contribution) > areaEpsilon {
				mx := extX.MapInteger(x, w)
				my := extY.MapInteger(y, h)
				color = color.Add(img.ColorAt(mx, my).Mul(contribution))
			}
		}
	}

	if img.IsFullyOpaque() {
		if color.W != 0 {
			return color.Mul(1 / color.W)
		}
		return color
	}
	area := imageFace.Area()
	if math.Abs(area) < areaEpsilon {
		return vex.Vec4{}
	}
	return color.Mul(1 / area)
}

// SamplePoint point-samples the image with bilinear interpolation at a
// continuous texel-space position, honoring the extend modes. Used by the
// non-analytic image path.
func SamplePoint(img ImageSource, p vex.Point) vex.Vec4 {
	w, h := img.Width(), img.Height()
	if w == 0 || h == 0 {
		return vex.Vec4{}
	}

	// Texel centers sit at integer+0.5.
	fx := p.X - 0.5
	fy := p.Y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	extX, extY := img.ExtendX(), img.ExtendY()
	c00 := img.ColorAt(extX.MapInteger(x0, w), extY.MapInteger(y0, h))
	c10 := img.ColorAt(extX.MapInteger(x0+1, w), extY.MapInteger(y0, h))
	c01 := img.ColorAt(extX.MapInteger(x0, w), extY.MapInteger(y0+1, h))
	c11 := img.ColorAt(extX.MapInteger(x0+1, w), extY.MapInteger(y0+1, h))

	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}
