package tile

import (
	"encoding/binary"
	"math"
)

// Dynamic vertex layout: four float32 per vertex (x, y, z, angle), four
// vertices per glyph quad. Must match the a_projected_pos attribute layout
// of the symbol shaders.
const (
	// DynamicStride is the number of float32 components per vertex.
	DynamicStride = 4

	// VerticesPerGlyph is the number of dynamic vertices per glyph quad.
	VerticesPerGlyph = 4
)

// hiddenCoord parks suppressed glyphs far outside clip space. The shader
// never sees them; degenerate on purpose.
var hiddenCoord = float32(math.Inf(-1))

// DynamicVertexArray stages the per-frame dynamic vertex stream of one
// bucket kind. The array is cleared and refilled in placed-symbol order
// every frame a bucket participates in variable placement or
// line-following; partial updates are not supported.
type DynamicVertexArray struct {
	data []float32
}

// Reset clears the array, keeping capacity.
func (a *DynamicVertexArray) Reset() {
	a.data = a.data[:0]
}

// PushGlyphs appends glyph quads at the given projected position and
// orientation.
func (a *DynamicVertexArray) PushGlyphs(x, y, z, angle float32, glyphs int) {
	for range glyphs * VerticesPerGlyph {
		a.data = append(a.data, x, y, z, angle)
	}
}

// PushHidden appends the degenerate hidden state for glyph quads.
func (a *DynamicVertexArray) PushHidden(glyphs int) {
	for range glyphs * VerticesPerGlyph {
		a.data = append(a.data, hiddenCoord, hiddenCoord, 0, 0)
	}
}

// Len returns the number of staged vertices.
func (a *DynamicVertexArray) Len() int {
	return len(a.data) / DynamicStride
}

// Vertex returns the components of vertex i.
func (a *DynamicVertexArray) Vertex(i int) (x, y, z, angle float32) {
	o := i * DynamicStride
	return a.data[o], a.data[o+1], a.data[o+2], a.data[o+3]
}

// IsHidden reports whether vertex i carries the degenerate hidden state.
func (a *DynamicVertexArray) IsHidden(i int) bool {
	x, y, _, _ := a.Vertex(i)
	return x == hiddenCoord && y == hiddenCoord
}

// Bytes returns the staged data in GPU upload order (little endian, matching
// the wgpu buffer layout).
func (a *DynamicVertexArray) Bytes() []byte {
	out := make([]byte, len(a.data)*4)
	for i, f := range a.data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}
