package render

import (
	"encoding/binary"
	"fmt"
	"math"

	vex "github.com/gogpu/vex"
	"github.com/gogpu/vex/filter"
)

// Opcode identifies an instruction. It occupies the low 8 bits of an
// instruction's first word; some instructions pack small flags into the
// upper bits of that word.
type Opcode uint8

const (
	OpReturn Opcode = iota
	OpPushColor
	OpBlendCompose
	OpLinearBlend
	OpComputeLinearBlendRatio
	OpComputeRadialBlendRatio
	OpComputeLinearGradientRatio
	OpComputeRadialGradientRatio
	OpBarycentricBlend
	OpBarycentricPerspectiveBlend
	OpAlpha
	OpPremultiply
	OpUnpremultiply
	OpSRGBToLinearSRGB
	OpLinearSRGBToSRGB
	OpDisplayP3ToLinearSRGB
	OpLinearSRGBToDisplayP3
	OpOklabToLinearSRGB
	OpLinearSRGBToOklab
	OpFilterMatrix
	OpNormalDebug
	OpImage
	OpPathBoolean
	OpPhong

	opcodeCount
)

// String returns a human-readable opcode name.
func (op Opcode) String() string {
	names := [...]string{
		"Return", "PushColor", "BlendCompose", "LinearBlend",
		"ComputeLinearBlendRatio", "ComputeRadialBlendRatio",
		"ComputeLinearGradientRatio", "ComputeRadialGradientRatio",
		"BarycentricBlend", "BarycentricPerspectiveBlend", "Alpha",
		"Premultiply", "Unpremultiply", "SRGBToLinearSRGB",
		"LinearSRGBToSRGB", "DisplayP3ToLinearSRGB",
		"LinearSRGBToDisplayP3", "OklabToLinearSRGB", "LinearSRGBToOklab",
		"FilterMatrix", "NormalDebug", "Image", "PathBoolean", "Phong",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "Unknown"
}

// InstructionLength returns the length in 32-bit words of the instruction
// starting at pc. Decoding walks the stream by these lengths.
func InstructionLength(words []uint32, pc int) (int, error) {
	if pc < 0 || pc >= len(words) {
		return 0, fmt.Errorf("%w: pc %d of %d", ErrBadJumpTarget, pc, len(words))
	}
	switch Opcode(words[pc] & 0xFF) {
	case OpReturn, OpLinearBlend, OpPremultiply, OpUnpremultiply,
		OpSRGBToLinearSRGB, OpLinearSRGBToSRGB, OpDisplayP3ToLinearSRGB,
		OpLinearSRGBToDisplayP3, OpOklabToLinearSRGB, OpLinearSRGBToOklab,
		OpNormalDebug:
		return 1, nil
	case OpAlpha, OpBlendCompose, OpImage:
		return 2, nil
	case OpPathBoolean:
		return 4, nil
	case OpPushColor:
		return 5, nil
	case OpComputeLinearBlendRatio:
		return 7, nil
	case OpBarycentricBlend:
		return 7, nil
	case OpBarycentricPerspectiveBlend:
		return 10, nil
	case OpComputeRadialBlendRatio:
		return 12, nil
	case OpComputeLinearGradientRatio, OpComputeRadialGradientRatio:
		if pc+11 >= len(words) {
			return 0, fmt.Errorf("%w: truncated gradient at %d", ErrUnknownOpcode, pc)
		}
		n := int(words[pc+11])
		return 13 + 2*n, nil
	case OpFilterMatrix:
		return 21, nil
	case OpPhong:
		if pc+1 >= len(words) {
			return 0, fmt.Errorf("%w: truncated phong at %d", ErrUnknownOpcode, pc)
		}
		n := int(words[pc+1])
		return 3 + 7*n, nil
	default:
		return 0, fmt.Errorf("%w: opcode %d at %d", ErrUnknownOpcode, words[pc]&0xFF, pc)
	}
}

// ImageResource is a compiled image reference: the source plus its
// sampling parameters, stored in the executor's image table.
type ImageResource struct {
	Source        filter.ImageSource
	OutputToImage vex.Matrix
	Filter        filter.Type
	Resample      Resample
}

// Compiled is a program lowered to a flat little-endian u32 instruction
// stream plus the path and image tables it references.
type Compiled struct {
	Words  []uint32
	Paths  []*Path
	Images []ImageResource
}

// label identifies a forward-patchable stream location during compilation.
type label int

type patch struct {
	wordIndex int
	target    label
}

type deferredJob struct {
	target  label
	program Program
}

// compiler accumulates instruction words with label patching. Subprograms
// compile after the main stream, each terminated by a Return.
type compiler struct {
	words    []uint32
	labels   []int
	patches  []patch
	deferred []deferredJob
	subs     map[Program]label
	paths    []*Path
	images   []ImageResource
}

func (c *compiler) emit(ws ...uint32) {
	c.words = append(c.words, ws...)
}

// emitF32 appends float64 values as f32 bit patterns.
func (c *compiler) emitF32(vs ...float64) {
	for _, v := range vs {
		c.words = append(c.words, math.Float32bits(float32(v)))
	}
}

func (c *compiler) newLabel() label {
	c.labels = append(c.labels, -1)
	return label(len(c.labels) - 1)
}

func (c *compiler) defineLabel(l label) {
	c.labels[l] = len(c.words)
}

func (c *compiler) emitLabelRef(l label) {
	c.patches = append(c.patches, patch{wordIndex: len(c.words), target: l})
	c.words = append(c.words, 0)
}

// subprogram schedules a child program for out-of-line compilation and
// returns the label of its entry point. Identical child nodes share one
// subprogram.
func (c *compiler) subprogram(p Program) label {
	if l, ok := c.subs[p]; ok {
		return l
	}
	l := c.newLabel()
	c.subs[p] = l
	c.deferred = append(c.deferred, deferredJob{target: l, program: p})
	return l
}

func (c *compiler) addPath(p *Path) uint32 {
	for i, existing := range c.paths {
		if existing == p {
			return uint32(i)
		}
	}
	c.paths = append(c.paths, p)
	return uint32(len(c.paths) - 1)
}

func (c *compiler) addImage(r ImageResource) uint32 {
	c.images = append(c.images, r)
	return uint32(len(c.images) - 1)
}

// Compile lowers a program to its instruction stream. The main program
// starts at word 0; subprograms follow, each ending with a Return.
func Compile(p Program) (*Compiled, error) {
	c := &compiler{subs: make(map[Program]label)}
	p.compile(c)
	c.emit(uint32(OpReturn))

	// Subprograms may schedule further subprograms; drain in order.
	for len(c.deferred) > 0 {
		job := c.deferred[0]
		c.deferred = c.deferred[1:]
		c.defineLabel(job.target)
		job.program.compile(c)
		c.emit(uint32(OpReturn))
	}

	for _, pt := range c.patches {
		target := c.labels[pt.target]
		if target < 0 || target >= len(c.words) {
			return nil, fmt.Errorf("%w: label %d", ErrBadJumpTarget, pt.target)
		}
		c.words[pt.wordIndex] = uint32(target)
	}

	return &Compiled{Words: c.words, Paths: c.paths, Images: c.images}, nil
}

// EncodeBinary serializes the instruction words little-endian.
func (c *Compiled) EncodeBinary() []byte {
	out := make([]byte, 4*len(c.Words))
	for i, w := range c.Words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

// DecodeBinaryWords deserializes little-endian instruction words. The
// byte length must be a multiple of 4.
func DecodeBinaryWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not word-aligned", ErrUnknownOpcode, len(data))
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return out, nil
}

// WalkInstructions visits each instruction's pc and length, validating
// the stream structure.
func (c *Compiled) WalkInstructions(fn func(pc, length int, op Opcode)) error {
	pc := 0
	for pc < len(c.Words) {
		length, err := InstructionLength(c.Words, pc)
		if err != nil {
			return err
		}
		fn(pc, length, Opcode(c.Words[pc]&0xFF))
		pc += length
	}
	return nil
}
