package render

import (
	"fmt"
	"math"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

// maxInstructionWords bounds the instruction buffer an executor accepts.
const maxInstructionWords = 1 << 20

// tEntry is one pending blend ratio: the raw parameter plus whether both
// subprograms were called.
type tEntry struct {
	t       float64
	hasBoth bool
}

// Executor runs a compiled program on a fixed stack of color slots. It is
// strictly sequential and never recurses: subprogram calls push explicit
// return addresses. An executor is single-threaded; use one per lane.
type Executor struct {
	program *Compiled

	stack  []vex.Vec4
	calls  []int
	ratios []tEntry
}

// NewExecutor creates an executor for a compiled program.
func NewExecutor(program *Compiled) (*Executor, error) {
	if len(program.Words) > maxInstructionWords {
		return nil, fmt.Errorf("%w: %d words", ErrInstructionOverflow, len(program.Words))
	}
	return &Executor{
		program: program,
		stack:   make([]vex.Vec4, 0, 16),
		calls:   make([]int, 0, 8),
		ratios:  make([]tEntry, 0, 8),
	}, nil
}

func (e *Executor) push(c vex.Vec4) {
	e.stack = append(e.stack, c)
}

func (e *Executor) pop() (vex.Vec4, error) {
	if len(e.stack) == 0 {
		return vex.Vec4{}, ErrStackUnderflow
	}
	c := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return c, nil
}

// f32 reads an immediate float32 word as float64.
func (e *Executor) f32(pc int) float64 {
	return float64(math.Float32frombits(e.program.Words[pc]))
}

// call pushes a return address and jumps to target.
func (e *Executor) call(target uint32, returnTo int) (int, error) {
	if int(target) >= len(e.program.Words) {
		return 0, fmt.Errorf("%w: %d", ErrBadJumpTarget, target)
	}
	e.calls = append(e.calls, returnTo)
	return int(target), nil
}

// dispatchRatio implements the shared control flow of the blend and
// gradient ratio instructions: single-sided parameters call only the
// winning subprogram, interior parameters call both (one first, zero
// second, so zero ends on top), and control resumes at blendLoc.
func (e *Executor) dispatchRatio(t float64, zeroLoc, oneLoc, blendLoc uint32) (int, error) {
	switch {
	case t <= 0:
		e.ratios = append(e.ratios, tEntry{t: t})
		return e.call(zeroLoc, int(blendLoc))
	case t >= 1:
		e.ratios = append(e.ratios, tEntry{t: t})
		return e.call(oneLoc, int(blendLoc))
	default:
		e.ratios = append(e.ratios, tEntry{t: t, hasBoth: true})
		e.calls = append(e.calls, int(blendLoc))
		return e.call(oneLoc, int(zeroLoc))
	}
}

// selectStops maps a gradient parameter onto a stop segment: the local
// ratio within the segment plus the two bracketing subprogram locations.
// Outside the stop range only one location is used.
func selectStops(words []uint32, stopBase int, numStops int, t float64) (local float64, loLoc, hiLoc uint32) {
	ratioAt := func(i int) float64 {
		return float64(math.Float32frombits(words[stopBase+2*i]))
	}
	locAt := func(i int) uint32 {
		return words[stopBase+2*i+1]
	}

	if numStops == 0 {
		return 0, 0, 0
	}
	if t <= ratioAt(0) {
		return 0, locAt(0), locAt(0)
	}
	if t >= ratioAt(numStops-1) {
		return 1, locAt(numStops - 1), locAt(numStops - 1)
	}
	for i := 0; i < numStops-1; i++ {
		hi := ratioAt(i + 1)
		if t <= hi {
			lo := ratioAt(i)
			span := hi - lo
			if span <= 0 {
				return 1, locAt(i), locAt(i + 1)
			}
			return (t - lo) / span, locAt(i), locAt(i + 1)
		}
	}
	return 1, locAt(numStops - 1), locAt(numStops - 1)
}

// Execute runs the program for one evaluation context and returns the
// resulting premultiplied color.
func (e *Executor) Execute(ctx *Context) (vex.Vec4, error) {
	words := e.program.Words
	e.stack = e.stack[:0]
	e.calls = e.calls[:0]
	e.ratios = e.ratios[:0]

	pc := 0
	for {
		if pc < 0 || pc >= len(words) {
			return vex.Vec4{}, fmt.Errorf("%w: pc %d", ErrBadJumpTarget, pc)
		}
		word0 := words[pc]
		op := Opcode(word0 & 0xFF)

		switch op {
		case OpReturn:
			if len(e.calls) == 0 {
				return e.pop()
			}
			pc = e.calls[len(e.calls)-1]
			e.calls = e.calls[:len(e.calls)-1]

		case OpPushColor:
			e.push(vex.Vec4{X: e.f32(pc + 1), Y: e.f32(pc + 2), Z: e.f32(pc + 3), W: e.f32(pc + 4)})
			pc += 5

		case OpBlendCompose:
			a, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			b, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			w := words[pc+1]
			e.push(BlendCompose(ComposeType(w&0xFF), BlendType(w>>8&0xFF), a, b))
			pc += 2

		case OpLinearBlend:
			if len(e.ratios) == 0 {
				return vex.Vec4{}, ErrStackUnderflow
			}
			tr := e.ratios[len(e.ratios)-1]
			e.ratios = e.ratios[:len(e.ratios)-1]
			zero, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			if tr.hasBoth {
				one, err := e.pop()
				if err != nil {
					return vex.Vec4{}, err
				}
				t := clampRatio(tr.t)
				zero = zero.Mul(1 - t).Add(one.Mul(t))
			}
			e.push(zero)
			pc++

		case OpComputeLinearBlendRatio:
			sn := vex.Point{X: e.f32(pc + 1), Y: e.f32(pc + 2)}
			offset := e.f32(pc + 3)
			t := sn.Dot(ctx.Center()) - offset
			next, err := e.dispatchRatio(t, words[pc+4], words[pc+5], words[pc+6])
			if err != nil {
				return vex.Vec4{}, err
			}
			pc = next

		case OpComputeRadialBlendRatio:
			m := vex.Matrix{
				A: e.f32(pc + 1), B: e.f32(pc + 2), C: e.f32(pc + 3),
				D: e.f32(pc + 4), E: e.f32(pc + 5), F: e.f32(pc + 6),
			}
			r0 := e.f32(pc + 7)
			r1 := e.f32(pc + 8)
			local := m.TransformPoint(ctx.Center())
			t := (local.Length() - r0) / (r1 - r0)
			next, err := e.dispatchRatio(t, words[pc+9], words[pc+10], words[pc+11])
			if err != nil {
				return vex.Vec4{}, err
			}
			pc = next

		case OpComputeLinearGradientRatio, OpComputeRadialGradientRatio:
			m := vex.Matrix{
				A: e.f32(pc + 1), B: e.f32(pc + 2), C: e.f32(pc + 3),
				D: e.f32(pc + 4), E: e.f32(pc + 5), F: e.f32(pc + 6),
			}
			local := m.TransformPoint(ctx.Center())
			var t float64
			if op == OpComputeLinearGradientRatio {
				start := vex.Point{X: e.f32(pc + 7), Y: e.f32(pc + 8)}
				end := vex.Point{X: e.f32(pc + 9), Y: e.f32(pc + 10)}
				d := end.Sub(start)
				if lenSq := d.LengthSquared(); lenSq > 0 {
					t = local.Sub(start).Dot(d) / lenSq
				}
			} else {
				center := vex.Point{X: e.f32(pc + 7), Y: e.f32(pc + 8)}
				r0 := e.f32(pc + 9)
				r1 := e.f32(pc + 10)
				t = (local.Sub(center).Length() - r0) / (r1 - r0)
			}
			extend := filter.Extend(word0 >> 8 & 0xFF)
			t = extend.Map(t)

			numStops := int(words[pc+11])
			stopBase := pc + 12
			blendLoc := words[stopBase+2*numStops]
			localT, loLoc, hiLoc := selectStops(words, stopBase, numStops, t)
			if numStops == 0 {
				// A stopless gradient paints nothing; skip its blend.
				e.push(vex.Vec4{})
				pc = int(blendLoc) + 1
				break
			}
			next, err := e.dispatchRatio(localT, loLoc, hiLoc, blendLoc)
			if err != nil {
				return vex.Vec4{}, err
			}
			pc = next

		case OpBarycentricBlend, OpBarycentricPerspectiveBlend:
			cc, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			cb, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			ca, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			pa := vex.Point{X: e.f32(pc + 1), Y: e.f32(pc + 2)}
			pb := vex.Point{X: e.f32(pc + 3), Y: e.f32(pc + 4)}
			pcn := vex.Point{X: e.f32(pc + 5), Y: e.f32(pc + 6)}
			wa, wb, wc := barycentricWeights(pa, pb, pcn, ctx.Center())
			length := 7
			if op == OpBarycentricPerspectiveBlend {
				wa, wb, wc = perspectiveWeights(wa, wb, wc, e.f32(pc+7), e.f32(pc+8), e.f32(pc+9))
				length = 10
			}
			e.push(ca.Mul(wa).Add(cb.Mul(wb)).Add(cc.Mul(wc)))
			pc += length

		case OpAlpha:
			top, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			e.push(top.Mul(e.f32(pc + 1)))
			pc += 2

		case OpPremultiply, OpUnpremultiply, OpSRGBToLinearSRGB,
			OpLinearSRGBToSRGB, OpDisplayP3ToLinearSRGB,
			OpLinearSRGBToDisplayP3, OpOklabToLinearSRGB, OpLinearSRGBToOklab:
			top, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			e.push(Convert(uint8(op) - uint8(OpPremultiply)).apply(top))
			pc++

		case OpFilterMatrix:
			top, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			var m [20]float64
			for i := range m {
				m[i] = e.f32(pc + 1 + i)
			}
			fm := FilterMatrix{Matrix: m}
			e.push(fm.apply(top))
			pc += 21

		case OpNormalDebug:
			top, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			e.push(normalDebugColor(top))
			pc++

		case OpImage:
			idx := int(words[pc+1])
			if idx >= len(e.program.Images) {
				return vex.Vec4{}, fmt.Errorf("%w: %d of %d", ErrUnknownImage, idx, len(e.program.Images))
			}
			res := e.program.Images[idx]
			img := Image{
				Source:        res.Source,
				OutputToImage: res.OutputToImage,
				Filter:        res.Filter,
				Resample:      res.Resample,
			}
			e.push(img.Evaluate(ctx))
			pc += 2

		case OpPathBoolean:
			idx := int(words[pc+1])
			if idx >= len(e.program.Paths) {
				return vex.Vec4{}, fmt.Errorf("%w: path %d of %d", ErrBadJumpTarget, idx, len(e.program.Paths))
			}
			target := words[pc+3]
			if e.program.Paths[idx].ContainsPoint(ctx.Center()) {
				target = words[pc+2]
			}
			next, err := e.call(target, pc+4)
			if err != nil {
				return vex.Vec4{}, err
			}
			pc = next

		case OpPhong:
			numLights := int(words[pc+1])
			shininess := e.f32(pc + 2)
			lights := make([]Light, numLights)
			base := pc + 3
			for i := range lights {
				lights[i] = Light{
					Direction: vex.Vec4{X: e.f32(base), Y: e.f32(base + 1), Z: e.f32(base + 2)},
					Color:     vex.Vec4{X: e.f32(base + 3), Y: e.f32(base + 4), Z: e.f32(base + 5), W: e.f32(base + 6)},
				}
				base += 7
			}
			specular, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			diffuse, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			ambient, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			normal, err := e.pop()
			if err != nil {
				return vex.Vec4{}, err
			}
			e.push(phongShade(shininess, lights, normal, ambient, diffuse, specular))
			pc = base

		default:
			return vex.Vec4{}, fmt.Errorf("%w: %d at pc %d", ErrUnknownOpcode, word0&0xFF, pc)
		}
	}
}

func clampRatio(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
