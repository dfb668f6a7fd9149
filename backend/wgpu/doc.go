// Package wgpu implements the pipeline's graphics context over gogpu/wgpu.
//
// The Adapter bridges gfx.Context to the HAL layer: opaque resource IDs map
// to hal handles, program variants are cached by descriptor hash, and draw
// calls are recorded into the render pass the driver opens for the frame.
//
// Occlusion queries are not exposed by the HAL layer; the adapter reports
// them unsupported and the pipeline degrades to always-visible symbols.
package wgpu
