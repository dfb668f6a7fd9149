package symbol

import (
	"math"

	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/tile"
	"github.com/gogpu/mapsym/transform"
)

// symbolUniforms builds the shared uniform bundle of one kind within one
// tile. All matrices of the bundle are computed with the frame's transition
// value so flat and globe terms never mix within a draw call.
func (d *Drawer) symbolUniforms(frame *FrameState, coord tile.ID, b *tile.SymbolBucket, layer *Layer, isText bool) gfx.UniformValues {
	size := b.IconSize
	atlas := b.IconAtlas
	if isText {
		size = b.TextSize
		atlas = b.GlyphAtlas
	}

	u := gfx.UniformValues{
		"u_matrix":             d.matrices.Clip(d.cam, coord, frame.Transition),
		"u_label_plane_matrix": d.matrices.LabelPlane(d.cam, coord, layer.PitchWithMap, layer.RotateWithMap, frame.Transition),
		"u_coord_matrix":       d.matrices.GlyphCoord(d.cam, coord, layer.PitchWithMap, layer.RotateWithMap, frame.Transition),
		"u_texsize":            [2]float32{float32(atlas.Width), float32(atlas.Height)},
		"u_size":               float32(size.Evaluate(d.cam.Zoom)),
		"u_camera_to_center_distance": float32(d.cam.CameraToCenterDistance),
		"u_pixels_to_tile_units":      float32(transform.TileUnitsPerPixel(d.cam, coord)),
		"u_fade_change":               float32(frame.FadeChange),
		"u_pitch":                     float32(d.cam.Pitch),
		"u_rotate_symbol":             layer.RotateWithMap && !layer.PitchWithMap,
		"u_aspect_ratio":              float32(d.cam.Width / math.Max(d.cam.Height, 1)),
		"u_is_halo":                   false,
		"u_transition":                frame.Transition,
	}
	if isText && layer.HaloWidth > 0 {
		u["u_halo_width"] = float32(layer.HaloWidth)
	}
	if !isText && b.SDFIcons && layer.HaloWidth > 0 {
		u["u_halo_width"] = float32(layer.HaloWidth)
	}
	if layer.ZOffset != 0 {
		u["u_z_offset"] = float32(layer.ZOffset * transform.MetersToTileUnits(d.cam, coord, frame.Transition))
	}
	// In spherical mode a shared screen rotation is not enough; the shader
	// rebuilds per-instance rotation from the camera up vector.
	if frame.Globe() && !layer.RotateWithMap {
		u["u_camera_up"] = transform.GlobeCameraUp(d.cam)
	}
	return u
}
