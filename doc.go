// Package mapsym implements the per-frame symbol rendering pipeline of a
// tiled map renderer: screen-correct placement of pre-baked text labels and
// icons under flat (mercator) and spherical (globe) projection, GPU-query
// driven occlusion testing, variable-anchor text repositioning, and sort-key
// aware draw batching.
//
// # Overview
//
// A map renderer bakes the glyph and icon geometry of each tile into symbol
// buckets ahead of time (tile-local coordinates, GPU-ready vertex and index
// buffers). Every frame, this module takes the set of visible tiles for one
// symbol layer and turns those buckets into an ordered stream of draw calls:
//
//   - transform computes label-plane and clip-space matrices for each tile
//     under either projection model, including the smooth globe/mercator
//     transition and the camera-up vector globe text rotation needs.
//   - tile holds the bucket data model: symbol instances, placed glyph runs,
//     dynamic vertex arrays and atlas handles.
//   - symbol is the pipeline itself: the variable-anchor resolver rewrites
//     dynamic vertex data from externally computed candidate offsets, the
//     occlusion tracker runs windowed GPU visibility queries, and the draw
//     batcher builds per-tile render states and issues them sorted by
//     feature sort key when cross-feature ordering matters.
//   - gfx abstracts the graphics context (programs, textures, buffers,
//     queries) behind opaque resource IDs so the pipeline never touches a
//     GPU API directly. backend/wgpu provides an implementation over
//     gogpu/wgpu.
//
// Execution is strictly single-threaded and frame-synchronous: one pass per
// render frame on the thread driving the GPU command stream. Nothing blocks;
// query results that are not yet available are deferred to a later frame.
//
// # Quick Start
//
//	drawer := symbol.NewDrawer(ctx, camera, symbol.Config{})
//	frame := &symbol.FrameState{
//	    Counter:    frameCounter,
//	    Pass:       gfx.PassTranslucent,
//	    Transition: transform.GlobeTransition(camera.Zoom),
//	}
//	drawer.DrawLayer(frame, tiles, layer, visibleCoords, variableOffsets)
//
// Collaborators this module deliberately does not own: tile loading, style
// parsing, geometry baking, the collision/placement pass that decides which
// symbols are visible (mapsym only applies its decisions), and GPU resource
// lifecycle beyond the handles it is given.
package mapsym

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
