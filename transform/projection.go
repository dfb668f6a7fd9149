package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/tile"
)

// identityMatrix is the shared identity, constructed once and never mutated.
// Safe to read concurrently.
var identityMatrix = mgl32.Ident4()

// TileMatrix maps tile-local coordinates [0, tile.Extent) to flat world
// pixels for the tile's canonical coordinate.
func TileMatrix(c *Camera, id tile.ID) mgl32.Mat4 {
	s := float32(c.WorldSize / math.Exp2(float64(id.Canonical.Z)))
	m := mgl32.Translate3D(float32(id.Canonical.X)*s, float32(id.Canonical.Y)*s, 0)
	return m.Mul4(mgl32.Scale3D(s/tile.Extent, s/tile.Extent, 1))
}

// ClipMatrix returns the tile-local to clip-space matrix for the given
// globe transition value. At transition 0 it is the flat projection, at 1
// the spherical one; in between the two products are blended element-wise.
// The exact blend curve is a smoothness policy, not a correctness
// constraint, but every matrix built for one draw call must use the same
// transition value.
func ClipMatrix(c *Camera, id tile.ID, transition float32) mgl32.Mat4 {
	tm := TileMatrix(c, id)
	flat := c.Projection.Mul4(tm)
	if transition <= 0 {
		return flat
	}
	globe := c.GlobeProjection.Mul4(tm)
	if transition >= 1 {
		return globe
	}
	return lerpMat4(flat, globe, transition)
}

// TileUnitsPerPixel converts screen pixels into tile-local units for a tile.
func TileUnitsPerPixel(c *Camera, id tile.ID) float64 {
	s := c.WorldSize / math.Exp2(float64(id.Canonical.Z))
	return tile.Extent / s
}

// MetersToTileUnits converts meters (terrain heights) into tile-local units,
// blending the flat and spherical factors by the transition value.
func MetersToTileUnits(c *Camera, id tile.ID, transition float32) float64 {
	if c.MetersPerPixel <= 0 {
		return 0
	}
	flat := TileUnitsPerPixel(c, id) / c.MetersPerPixel
	if transition <= 0 {
		return flat
	}
	// On the sphere the mercator latitude stretch is undone.
	globe := flat * math.Cos(c.LatitudeDeg*math.Pi/180)
	return flat*(1-float64(transition)) + globe*float64(transition)
}

// LabelPlaneMatrix returns the rendering label-plane matrix: the space in
// which dynamic vertex positions are expressed when placement is computed on
// every vertex at render time.
//
// Pitch-aligned labels live in the tile plane scaled to pixels (optionally
// counter-rotated so viewport-aligned rotation holds); screen-aligned labels
// live directly in screen pixels.
func LabelPlaneMatrix(c *Camera, id tile.ID, pitchWithMap, rotateWithMap bool, transition float32) mgl32.Mat4 {
	if pitchWithMap {
		p2t := float32(TileUnitsPerPixel(c, id))
		m := mgl32.Scale3D(1/p2t, 1/p2t, 1)
		if !rotateWithMap {
			m = m.Mul4(mgl32.HomogRotate3DZ(float32(c.Angle())))
		}
		return m
	}
	return c.ClipToPixels().Mul4(ClipMatrix(c, id, transition))
}

// PlacementLabelPlaneMatrix returns the label-plane matrix used once per
// frame for placement decisions (line-following rotation, variable-anchor
// shifts). Screen-aligned placement is always decided in the flat
// projection: the spherical correction is per-vertex shader math, so CPU
// placement under an active transition would otherwise disagree with
// itself between neighboring symbols.
func PlacementLabelPlaneMatrix(c *Camera, id tile.ID, pitchWithMap, rotateWithMap bool, transition float32) mgl32.Mat4 {
	if pitchWithMap {
		return LabelPlaneMatrix(c, id, true, rotateWithMap, transition)
	}
	return c.ClipToPixels().Mul4(ClipMatrix(c, id, 0))
}

// GlyphCoordMatrix maps label-plane coordinates back to clip space. It is
// the counterpart of LabelPlaneMatrix for the vertex shader's final
// projection.
func GlyphCoordMatrix(c *Camera, id tile.ID, pitchWithMap, rotateWithMap bool, transition float32) mgl32.Mat4 {
	if pitchWithMap {
		p2t := float32(TileUnitsPerPixel(c, id))
		m := ClipMatrix(c, id, transition).Mul4(mgl32.Scale3D(p2t, p2t, 1))
		if !rotateWithMap {
			m = m.Mul4(mgl32.HomogRotate3DZ(float32(-c.Angle())))
		}
		return m
	}
	return c.PixelsToClip()
}

// GlobeCameraUp derives the per-frame camera-up vector for viewport-aligned
// rotation under the spherical model: the world-space up vector transformed
// through the inverse of (view x globe), normalized. In flat mode a single
// shared rotation suffices; on the globe every symbol's surface tangent
// differs, so the shader needs this vector for per-instance rotation.
func GlobeCameraUp(c *Camera) mgl32.Vec3 {
	inv := c.GlobeView.Inv()
	up := inv.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	n := up.Len()
	if n == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return up.Mul(1 / n)
}

// Project applies a matrix to a tile-local point with perspective divide.
// The second return is the signed distance from the camera (the w
// component before division), which feeds perspective size scaling.
func Project(m mgl32.Mat4, x, y, z float32) (mgl32.Vec3, float32) {
	v := m.Mul4x1(mgl32.Vec4{x, y, z, 1})
	w := v.W()
	d := w
	if w == 0 {
		d = 1
	}
	return mgl32.Vec3{v.X() / d, v.Y() / d, v.Z() / d}, w
}

// PerspectiveRatio scales symbol size with distance from the camera,
// clamped so symbols behind or very near the camera stay bounded.
func PerspectiveRatio(cameraToCenterDistance float64, signedDistance float32) float64 {
	if signedDistance <= 0 {
		return 4
	}
	r := 0.5 + 0.5*cameraToCenterDistance/float64(signedDistance)
	return math.Min(math.Max(r, 0), 4)
}

// lerpMat4 blends two matrices element-wise.
func lerpMat4(a, b mgl32.Mat4, t float32) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range a {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}
