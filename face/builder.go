package face

import (
	"sync"

	vex "github.com/gogpu/vex"
)

// Builder accumulates directed edges into a face. It replaces the shared
// scratch singleton a naive accumulator would use: every construction site
// gets its own builder, either freshly allocated or taken from the pool.
type Builder struct {
	edges []vex.LinearEdge
}

// NewBuilder returns a fresh, unpooled builder.
func NewBuilder() *Builder {
	return &Builder{edges: make([]vex.LinearEdge, 0, 16)}
}

// builderPool recycles builders between frames. Buffers keep their
// capacity across Reset, so steady-state accumulation does not allocate.
var builderPool = sync.Pool{
	New: func() any { return NewBuilder() },
}

// GetBuilder takes a reset builder from the pool.
func GetBuilder() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// PutBuilder returns a builder to the pool. The builder must not be used
// afterwards; faces built from it remain valid because Build copies.
func PutBuilder(b *Builder) {
	builderPool.Put(b)
}

// Reset clears the builder for reuse without deallocating.
func (b *Builder) Reset() {
	b.edges = b.edges[:0]
}

// AddEdge appends a directed edge, silently dropping degenerates.
func (b *Builder) AddEdge(e vex.LinearEdge) {
	if e.Start.Equals(e.End) {
		return
	}
	b.edges = append(b.edges, e)
}

// AddSegment appends a directed edge between two points.
func (b *Builder) AddSegment(start, end vex.Point) {
	b.AddEdge(vex.LinearEdge{Start: start, End: end})
}

// AddPolygon appends a polygon loop as directed edges.
func (b *Builder) AddPolygon(loop []vex.Point) {
	for i, p0 := range loop {
		b.AddSegment(p0, loop[(i+1)%len(loop)])
	}
}

// AddFace appends every effective edge of another face.
func (b *Builder) AddFace(f Clippable) {
	f.ForEachEdge(b.AddEdge)
}

// Len returns the number of accumulated edges.
func (b *Builder) Len() int {
	return len(b.edges)
}

// Build copies the accumulated edges into an immutable edged face. The
// builder may be reset and reused afterwards.
func (b *Builder) Build() *Edged {
	edges := make([]vex.LinearEdge, len(b.edges))
	copy(edges, b.edges)
	return &Edged{edges: edges}
}
