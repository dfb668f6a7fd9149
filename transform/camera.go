// Package transform converts tile-local symbol anchors into label-plane and
// clip-space coordinates under two projection models, flat (mercator) and
// spherical (globe), with a smooth blended transition between them.
//
// Everything here is a pure function of (tile id, camera state, alignment
// flags); no state is mutated across frames. MatrixCache memoizes matrix
// products keyed by those inputs, which is an optimization, not a semantic
// requirement.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/tile"
)

// ElevationSampler exposes terrain height and the local surface up-vector at
// a tile-local offset. Implemented by the terrain subsystem; nil when the
// map has no terrain.
type ElevationSampler interface {
	// HeightAt returns the terrain height in meters at a tile-local
	// coordinate, and false when no terrain data is loaded there.
	HeightAt(id tile.ID, x, y float32) (float32, bool)

	// UpAt returns the local surface up-vector at a tile-local coordinate.
	UpAt(id tile.ID, x, y float32) mgl32.Vec3
}

// Camera is the snapshot of the map camera the pipeline renders one frame
// with. The renderer driver fills it at frame start; the pipeline never
// mutates it.
type Camera struct {
	// Zoom is the current map zoom.
	Zoom float64

	// Pitch and Bearing are in radians.
	Pitch   float64
	Bearing float64

	// Width, Height are the viewport dimensions in pixels.
	Width, Height float64

	// WorldSize is the pixel span of the full world at the current zoom
	// (tileSize * 2^zoom).
	WorldSize float64

	// CameraToCenterDistance is the pixel distance from the camera to the
	// map center, used for perspective size scaling.
	CameraToCenterDistance float64

	// LatitudeDeg is the map center latitude in degrees, used for
	// meters-per-tile-unit conversion.
	LatitudeDeg float64

	// MetersPerPixel is the ground resolution at the map center.
	MetersPerPixel float64

	// Projection maps flat world pixels to clip space (view x projection).
	Projection mgl32.Mat4

	// GlobeProjection maps world pixels to clip space under the spherical
	// model. Only read while the globe transition is active.
	GlobeProjection mgl32.Mat4

	// GlobeView is the view x globe matrix, used to derive the per-frame
	// camera-up vector for viewport-aligned rotation under globe.
	GlobeView mgl32.Mat4

	// Elevation samples terrain height; nil without terrain.
	Elevation ElevationSampler

	// Revision is bumped by the driver whenever any camera field changes.
	// It keys matrix memoization; a stale revision yields stale matrices.
	Revision uint64
}

// Angle is the label-plane rotation angle, the negated bearing.
func (c *Camera) Angle() float64 { return -c.Bearing }

// ClipToPixels maps clip space to screen pixels (origin top-left).
func (c *Camera) ClipToPixels() mgl32.Mat4 {
	return mgl32.Scale3D(float32(c.Width)/2, float32(-c.Height)/2, 1).
		Mul4(mgl32.Translate3D(1, -1, 0))
}

// PixelsToClip maps screen pixels back to clip space. Analytic inverse of
// ClipToPixels.
func (c *Camera) PixelsToClip() mgl32.Mat4 {
	return mgl32.Translate3D(-1, 1, 0).
		Mul4(mgl32.Scale3D(2/float32(c.Width), -2/float32(c.Height), 1))
}
