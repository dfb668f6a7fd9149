package gfx

// Resource IDs
//
// These opaque IDs represent GPU resources. Each Context implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// ProgramID is an opaque handle to a compiled shader program variant.
type ProgramID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// QueryID is an opaque handle to a GPU occlusion query object.
type QueryID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// ProgramKind selects the base shader family. Together with ProgramFlags it
// fully determines a program variant.
type ProgramKind uint8

// Program kinds.
const (
	// ProgramSymbolIcon renders plain (non-SDF) icon quads.
	ProgramSymbolIcon ProgramKind = iota + 1

	// ProgramSymbolSDF renders signed-distance-field glyphs or icons.
	ProgramSymbolSDF

	// ProgramSymbolTextAndIcon renders SDF text together with plain icons
	// from a combined atlas pair in one pass.
	ProgramSymbolTextAndIcon

	// ProgramOccluderBox renders the axis-aligned quad used for occlusion
	// query sampling.
	ProgramOccluderBox

	// ProgramCollisionBox renders debug collision boxes.
	ProgramCollisionBox
)

// String returns the string representation of a ProgramKind.
func (k ProgramKind) String() string {
	switch k {
	case ProgramSymbolIcon:
		return "symbolIcon"
	case ProgramSymbolSDF:
		return "symbolSDF"
	case ProgramSymbolTextAndIcon:
		return "symbolTextAndIcon"
	case ProgramOccluderBox:
		return "occluderBox"
	case ProgramCollisionBox:
		return "collisionBox"
	default:
		return "unknown"
	}
}

// ProgramFlags is a bitset of named shader capabilities. Program variant
// selection is a pure function of (ProgramKind, ProgramFlags).
type ProgramFlags uint32

// Program capability flags.
const (
	// FlagColorAdjust enables per-icon color adjustment.
	FlagColorAdjust ProgramFlags = 1 << iota

	// FlagCrossFade enables raster cross-fade transitions.
	FlagCrossFade

	// FlagZOffset enables a per-instance vertical offset.
	FlagZOffset

	// FlagOcclusionQuery enables occlusion-query driven opacity.
	FlagOcclusionQuery

	// FlagElevatedPitch enables terrain-elevated pitch-aligned placement.
	FlagElevatedPitch

	// FlagGlobe enables spherical-projection vertex math.
	FlagGlobe

	// FlagDebug enables debug visualization output.
	FlagDebug
)

// Has reports whether all bits of other are set in f.
func (f ProgramFlags) Has(other ProgramFlags) bool { return f&other == other }

// String returns a "|"-joined list of set flag names, or "none".
func (f ProgramFlags) String() string {
	names := []struct {
		bit  ProgramFlags
		name string
	}{
		{FlagColorAdjust, "colorAdjust"},
		{FlagCrossFade, "crossFade"},
		{FlagZOffset, "zOffset"},
		{FlagOcclusionQuery, "occlusionQuery"},
		{FlagElevatedPitch, "elevatedPitch"},
		{FlagGlobe, "globe"},
		{FlagDebug, "debug"},
	}
	s := ""
	for _, n := range names {
		if f&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	if s == "" {
		return "none"
	}
	return s
}

// Filter selects texture sampling filtering.
type Filter uint8

// Texture filters.
const (
	// FilterNearest samples the nearest texel. Used for unscaled, static
	// atlases where it keeps glyph edges crisp.
	FilterNearest Filter = iota

	// FilterLinear interpolates between texels. Used whenever the atlas is
	// scaled, rotating, zooming or pitched.
	FilterLinear
)

// RenderPass identifies the renderer driver's current pass.
type RenderPass uint8

// Render passes.
const (
	// PassOpaque is the front-to-back opaque geometry pass.
	PassOpaque RenderPass = iota

	// PassTranslucent is the back-to-front translucent pass. Symbols draw
	// only during this pass.
	PassTranslucent

	// PassOffscreen is the offscreen prepass (terrain, raster fades).
	PassOffscreen
)

// CompareFunc is a depth comparison function.
type CompareFunc uint8

// Depth comparison functions.
const (
	CompareAlways CompareFunc = iota
	CompareLess
	CompareLessEqual
	CompareGreater
)

// DepthMode configures depth testing for a draw call.
type DepthMode struct {
	// Func is the depth comparison function.
	Func CompareFunc

	// Mask enables depth buffer writes.
	Mask bool
}

// DepthReadOnly returns a depth mode that tests but never writes.
func DepthReadOnly(f CompareFunc) DepthMode { return DepthMode{Func: f} }

// DepthDisabled returns a depth mode that neither tests nor writes.
func DepthDisabled() DepthMode { return DepthMode{Func: CompareAlways} }

// StencilMode configures stencil testing for a draw call.
type StencilMode struct {
	// Enabled turns stencil testing on.
	Enabled bool

	// Ref is the stencil reference value.
	Ref uint32
}

// StencilDisabled returns a stencil mode with testing off.
func StencilDisabled() StencilMode { return StencilMode{} }

// BlendFactor is a color blend factor.
type BlendFactor uint8

// Blend factors.
const (
	BlendOne BlendFactor = iota
	BlendZero
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// ColorMode configures color write and blending for a draw call.
type ColorMode struct {
	// Src and Dst are the blend factors. The default zero value (One, Zero)
	// is replace.
	Src, Dst BlendFactor

	// Mask enables color writes. Draws that only feed occlusion queries
	// leave it false.
	Mask bool
}

// ColorAlphaBlended returns the standard premultiplied-alpha color mode.
func ColorAlphaBlended() ColorMode {
	return ColorMode{Src: BlendOne, Dst: BlendOneMinusSrcAlpha, Mask: true}
}

// ColorDisabled returns a color mode with writes masked off.
func ColorDisabled() ColorMode { return ColorMode{} }

// UniformValues is the uniform bundle supplied with a draw call. Keys are
// shader uniform names; values are whatever the backend's uniform encoder
// accepts (float32/float64 scalars, [2]float32, mgl32.Mat4, ...).
type UniformValues map[string]any

// Clone returns a shallow copy. The draw batcher clones before flipping
// per-pass uniforms (halo flag) so shared bundles stay untouched.
func (u UniformValues) Clone() UniformValues {
	c := make(UniformValues, len(u))
	for k, v := range u {
		c[k] = v
	}
	return c
}

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << iota

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform

	// BufferUsageCopyDst indicates the buffer can be written from the CPU.
	BufferUsageCopyDst
)

// DrawParams describes one indexed draw call.
type DrawParams struct {
	// Program is the shader program variant to draw with.
	Program ProgramID

	// Depth, Stencil and Color configure the fixed-function state.
	Depth   DepthMode
	Stencil StencilMode
	Color   ColorMode

	// Uniforms is the uniform bundle for this call.
	Uniforms UniformValues

	// VertexBuffer holds the static layout vertex attributes.
	VertexBuffer BufferID

	// DynamicBuffer holds the per-frame rewritten dynamic attributes
	// (projected position and orientation). Zero when the program variant
	// has no dynamic stream.
	DynamicBuffer BufferID

	// IndexBuffer holds the triangle indices.
	IndexBuffer BufferID

	// FirstIndex and IndexCount select the index range to draw.
	FirstIndex uint32
	IndexCount uint32

	// BaseVertex is added to each index before vertex fetch.
	BaseVertex int32
}
