package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"

	"github.com/gogpu/mapsym"
	"github.com/gogpu/mapsym/gfx"
)

var _ gfx.Context = (*Adapter)(nil)

// uniformSlotSize is the stride of the per-draw uniform ring buffer. Packed
// uniform bundles larger than this are rejected at draw time.
const uniformSlotSize = 1024

// uniformRingSlots is the number of in-flight draws the ring can hold
// before wrapping.
const uniformRingSlots = 1024

// Adapter implements gfx.Context using gogpu/wgpu/hal directly.
//
// Thread Safety: resource creation and destruction are safe for concurrent
// use; command recording (BindTexture, DrawIndexed) follows the pipeline's
// single-threaded contract and must stay on the frame thread.
type Adapter struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	nextID atomic.Uint64

	buffers  map[gfx.BufferID]hal.Buffer
	textures map[gfx.TextureID]texture

	programs *programCache

	// bound tracks the texture units set since the last draw.
	bound map[int]boundTexture

	// pass is the render pass draws are recorded into, nil between frames.
	pass *RenderPass

	// uniformBuf is the per-draw uniform ring.
	uniformBuf  hal.Buffer
	uniformSlot int

	droppedDrawWarn sync.Once
}

type texture struct {
	handle hal.Texture
	width  int
	height int
}

type boundTexture struct {
	id     gfx.TextureID
	filter gfx.Filter
}

// New creates an Adapter over an opened device and its queue. The shader
// catalog provides the compiled SPIR-V for each program kind.
func New(device hal.Device, queue hal.Queue, shaders ShaderCatalog) (*Adapter, error) {
	if device == nil {
		return nil, fmt.Errorf("wgpu: device is nil")
	}
	uniformDesc := &hal.BufferDescriptor{
		Label: "mapsym-uniforms",
		Size:  uint64(uniformSlotSize * uniformRingSlots),
		Usage: types.BufferUsageUniform | types.BufferUsageCopyDst,
	}
	uniformBuf, err := device.CreateBuffer(uniformDesc)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create uniform ring: %w", err)
	}

	a := &Adapter{
		device:     device,
		queue:      queue,
		buffers:    make(map[gfx.BufferID]hal.Buffer),
		textures:   make(map[gfx.TextureID]texture),
		programs:   newProgramCache(shaders),
		bound:      make(map[int]boundTexture),
		uniformBuf: uniformBuf,
	}
	a.nextID.Store(1)
	return a, nil
}

func (a *Adapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// BeginFrame attaches the render pass draw calls are recorded into until
// EndFrame. The driver opens the pass on its command encoder and hands it
// over before drawing any symbol layer.
func (a *Adapter) BeginFrame(pass *RenderPass) {
	a.pass = pass
	a.uniformSlot = 0
}

// EndFrame detaches the current render pass.
func (a *Adapter) EndFrame() {
	a.pass = nil
}

// Release destroys adapter-owned resources. Buffers and textures created
// through the adapter are owned by their creators and must be destroyed by
// them first.
func (a *Adapter) Release() {
	if a.uniformBuf != nil {
		a.device.DestroyBuffer(a.uniformBuf)
		a.uniformBuf = nil
	}
}

// === Programs ===

// Program resolves a compiled program variant, caching by (kind, flags).
func (a *Adapter) Program(kind gfx.ProgramKind, flags gfx.ProgramFlags) (gfx.ProgramID, error) {
	return a.programs.getOrCreate(a.device, kind, flags, a.newID)
}

// === Buffers ===

// CreateBuffer creates a GPU buffer of the given byte size.
func (a *Adapter) CreateBuffer(size int, usage gfx.BufferUsage) (gfx.BufferID, error) {
	if size <= 0 {
		return gfx.InvalidID, fmt.Errorf("wgpu: buffer size must be positive")
	}

	desc := &hal.BufferDescriptor{
		Label: "mapsym-buffer",
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	}
	buffer, err := a.device.CreateBuffer(desc)
	if err != nil {
		return gfx.InvalidID, fmt.Errorf("wgpu: create buffer: %w", err)
	}

	id := gfx.BufferID(a.newID())
	a.mu.Lock()
	a.buffers[id] = buffer
	a.mu.Unlock()
	return id, nil
}

// DestroyBuffer releases a GPU buffer.
func (a *Adapter) DestroyBuffer(id gfx.BufferID) {
	a.mu.Lock()
	buffer, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBuffer(buffer)
	}
}

// WriteBuffer writes data to a buffer at the given byte offset.
func (a *Adapter) WriteBuffer(id gfx.BufferID, offset uint64, data []byte) {
	a.mu.RLock()
	buffer, ok := a.buffers[id]
	a.mu.RUnlock()

	if ok && len(data) > 0 {
		a.queue.WriteBuffer(buffer, offset, data)
	}
}

// === Textures ===

// CreateTexture creates a 2D RGBA texture and uploads its pixels. Atlas
// textures enter the pipeline through this.
func (a *Adapter) CreateTexture(width, height int, pixels []byte) (gfx.TextureID, error) {
	if width <= 0 || height <= 0 {
		return gfx.InvalidID, fmt.Errorf("wgpu: texture dimensions must be positive")
	}

	desc := &hal.TextureDescriptor{
		Label: "mapsym-atlas",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        types.TextureFormatRGBA8Unorm,
		Usage:         types.TextureUsageCopySrc | types.TextureUsageCopyDst | types.TextureUsageStorageBinding,
	}
	handle, err := a.device.CreateTexture(desc)
	if err != nil {
		return gfx.InvalidID, fmt.Errorf("wgpu: create texture: %w", err)
	}

	id := gfx.TextureID(a.newID())
	a.mu.Lock()
	a.textures[id] = texture{handle: handle, width: width, height: height}
	a.mu.Unlock()

	if len(pixels) > 0 {
		a.writeTexture(id, pixels)
	}
	return id, nil
}

func (a *Adapter) writeTexture(id gfx.TextureID, data []byte) {
	a.mu.RLock()
	tex, ok := a.textures[id]
	a.mu.RUnlock()
	if !ok || len(data) == 0 {
		return
	}

	dst := &hal.ImageCopyTexture{
		Texture:  tex.handle,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(tex.width) * 4,
		RowsPerImage: uint32(tex.height),
	}
	size := &hal.Extent3D{
		Width:              uint32(tex.width),
		Height:             uint32(tex.height),
		DepthOrArrayLayers: 1,
	}
	a.queue.WriteTexture(dst, data, layout, size)
}

// BindTexture records a texture unit binding for subsequent draws.
func (a *Adapter) BindTexture(unit int, id gfx.TextureID, filter gfx.Filter) {
	a.bound[unit] = boundTexture{id: id, filter: filter}
}

// DestroyTexture releases a GPU texture.
func (a *Adapter) DestroyTexture(id gfx.TextureID) {
	a.mu.Lock()
	tex, ok := a.textures[id]
	if ok {
		delete(a.textures, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyTexture(tex.handle)
	}
}

// === Draw ===

// DrawIndexed records one indexed draw on the frame's render pass: the
// uniform bundle goes to the next ring slot and the pass encoder binds the
// entry's buffers before the draw.
func (a *Adapter) DrawIndexed(p *gfx.DrawParams) {
	if a.pass == nil {
		a.droppedDrawWarn.Do(func() {
			mapsym.Logger().Warn("wgpu: draw outside a frame dropped; call BeginFrame first")
		})
		return
	}

	packed, err := packUniforms(p.Uniforms)
	if err != nil {
		mapsym.Logger().Debug("wgpu: uniform packing failed", "error", err)
		return
	}
	if len(packed) > uniformSlotSize {
		mapsym.Logger().Debug("wgpu: uniform bundle too large", "size", len(packed))
		return
	}
	slot := a.uniformSlot % uniformRingSlots
	a.uniformSlot++
	a.queue.WriteBuffer(a.uniformBuf, uint64(slot*uniformSlotSize), packed)

	a.mu.RLock()
	vertex := a.buffers[p.VertexBuffer]
	dynamic := a.buffers[p.DynamicBuffer]
	index := a.buffers[p.IndexBuffer]
	a.mu.RUnlock()
	if vertex == nil || index == nil {
		return
	}

	if err := a.pass.SetPipeline(p.Program); err != nil {
		return
	}
	a.pass.SetFixedFunction(p.Depth, p.Stencil, p.Color)
	if err := a.pass.SetVertexBuffer(0, vertex, 0); err != nil {
		return
	}
	if dynamic != nil {
		if err := a.pass.SetVertexBuffer(1, dynamic, 0); err != nil {
			return
		}
	}
	if err := a.pass.SetIndexBuffer(index, IndexFormatUint16, 0); err != nil {
		return
	}
	a.pass.DrawIndexed(p.IndexCount, 1, p.FirstIndex, p.BaseVertex, 0)
}

// === Occlusion queries ===
//
// The HAL layer exposes no query API; report the capability missing so the
// pipeline skips occlusion testing.

// SupportsOcclusionQuery reports whether visibility queries are available.
func (a *Adapter) SupportsOcclusionQuery() bool { return false }

// CreateQuery always fails on this backend.
func (a *Adapter) CreateQuery() (gfx.QueryID, error) {
	return gfx.InvalidID, gfx.ErrQueryUnsupported
}

// DestroyQuery is a no-op.
func (a *Adapter) DestroyQuery(gfx.QueryID) {}

// BeginQuery always fails on this backend.
func (a *Adapter) BeginQuery(gfx.QueryID) error { return gfx.ErrQueryUnsupported }

// EndQuery is a no-op.
func (a *Adapter) EndQuery(gfx.QueryID) {}

// QueryAvailable always reports false.
func (a *Adapter) QueryAvailable(gfx.QueryID) bool { return false }

// QueryResult always fails on this backend.
func (a *Adapter) QueryResult(gfx.QueryID) (uint64, error) {
	return 0, gfx.ErrQueryUnsupported
}

// convertBufferUsage converts gfx.BufferUsage to types.BufferUsage.
func convertBufferUsage(usage gfx.BufferUsage) types.BufferUsage {
	var result types.BufferUsage
	if usage&gfx.BufferUsageVertex != 0 {
		result |= types.BufferUsageVertex
	}
	if usage&gfx.BufferUsageIndex != 0 {
		result |= types.BufferUsageIndex
	}
	if usage&gfx.BufferUsageUniform != 0 {
		result |= types.BufferUsageUniform
	}
	if usage&gfx.BufferUsageCopyDst != 0 {
		result |= types.BufferUsageCopyDst
	}
	return result
}
