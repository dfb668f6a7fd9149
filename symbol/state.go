package symbol

import (
	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/tile"
)

// symbolDrawState carries everything the batcher needs to issue one kind's
// draw calls for one tile: resolved program variant, fixed-function modes,
// uniforms, atlas binding and halo eligibility.
type symbolDrawState struct {
	coord   tile.ID
	buffers *tile.SymbolBuffers

	program  gfx.ProgramID
	uniforms gfx.UniformValues

	atlas  tile.Atlas
	filter gfx.Filter

	// extraAtlas is the icon atlas bound alongside the glyph atlas for
	// combined text-and-icon geometry. Zero otherwise.
	extraAtlas tile.Atlas

	depth gfx.DepthMode
	color gfx.ColorMode

	// halo enables the outline pre-pass before the fill pass.
	halo bool
}

// renderState is the variant interface over the icon and text states. The
// two carry the same batching surface but are distinct types so the kind is
// explicit at construction.
type renderState interface {
	drawState() *symbolDrawState
}

type iconRenderState struct{ symbolDrawState }

type textRenderState struct{ symbolDrawState }

func (s *iconRenderState) drawState() *symbolDrawState { return &s.symbolDrawState }
func (s *textRenderState) drawState() *symbolDrawState { return &s.symbolDrawState }

// variantFlags resolves the program capability set shared by both kinds.
func (d *Drawer) variantFlags(frame *FrameState, layer *Layer) gfx.ProgramFlags {
	var flags gfx.ProgramFlags
	if layer.ColorAdjust {
		flags |= gfx.FlagColorAdjust
	}
	if layer.CrossFade {
		flags |= gfx.FlagCrossFade
	}
	if layer.ZOffset != 0 {
		flags |= gfx.FlagZOffset
	}
	if layer.OcclusionOpacity && d.ctx.SupportsOcclusionQuery() {
		flags |= gfx.FlagOcclusionQuery
	}
	if layer.PitchWithMap && d.cam.Elevation != nil {
		flags |= gfx.FlagElevatedPitch
	}
	if frame.Globe() {
		flags |= gfx.FlagGlobe
	}
	return flags
}

func (d *Drawer) symbolModes(layer *Layer) (gfx.DepthMode, gfx.ColorMode) {
	if layer.ZOffset != 0 {
		return gfx.DepthReadOnly(gfx.CompareLessEqual), gfx.ColorAlphaBlended()
	}
	return gfx.DepthDisabled(), gfx.ColorAlphaBlended()
}

// iconState builds the icon render state for one tile, or nil when there is
// nothing to draw (empty geometry, missing atlas).
func (d *Drawer) iconState(frame *FrameState, coord tile.ID, b *tile.SymbolBucket, layer *Layer) *iconRenderState {
	if b.Icon.Empty() || !b.IconAtlas.Valid() {
		return nil
	}
	kind := gfx.ProgramSymbolIcon
	if b.SDFIcons {
		kind = gfx.ProgramSymbolSDF
	}
	program, err := d.ctx.Program(kind, d.variantFlags(frame, layer))
	if err != nil {
		return nil
	}

	// Icons can render from unfiltered atlas texels only while nothing
	// moves them off the texel grid.
	filter := gfx.FilterNearest
	transformed := layer.PitchWithMap || d.cam.Pitch != 0
	if b.SDFIcons || b.IconScaled || b.IconSize.IsZoomDependent() ||
		transformed || frame.Rotating || frame.Zooming {
		filter = gfx.FilterLinear
	}

	depth, color := d.symbolModes(layer)
	return &iconRenderState{symbolDrawState{
		coord:    coord,
		buffers:  &b.Icon,
		program:  program,
		uniforms: d.symbolUniforms(frame, coord, b, layer, false),
		atlas:    b.IconAtlas,
		filter:   filter,
		depth:    depth,
		color:    color,
		halo:     b.SDFIcons && layer.HaloWidth > 0,
	}}
}

// textState builds the text render state for one tile, or nil when there is
// nothing to draw.
func (d *Drawer) textState(frame *FrameState, coord tile.ID, b *tile.SymbolBucket, layer *Layer) *textRenderState {
	if b.Text.Empty() || !b.GlyphAtlas.Valid() {
		return nil
	}
	kind := gfx.ProgramSymbolSDF
	var extra tile.Atlas
	if b.IconsInText {
		if !b.IconAtlas.Valid() {
			return nil
		}
		kind = gfx.ProgramSymbolTextAndIcon
		extra = b.IconAtlas
	}
	program, err := d.ctx.Program(kind, d.variantFlags(frame, layer))
	if err != nil {
		return nil
	}

	depth, color := d.symbolModes(layer)
	return &textRenderState{symbolDrawState{
		coord:      coord,
		buffers:    &b.Text,
		program:    program,
		uniforms:   d.symbolUniforms(frame, coord, b, layer, true),
		atlas:      b.GlyphAtlas,
		filter:     gfx.FilterLinear,
		extraAtlas: extra,
		depth:      depth,
		color:      color,
		halo:       layer.HaloWidth > 0,
	}}
}
