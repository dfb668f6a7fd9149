package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/internal/cache"
	"github.com/gogpu/mapsym/tile"
)

// matrixKind discriminates the cached matrix products.
type matrixKind uint8

const (
	kindClip matrixKind = iota
	kindLabelPlane
	kindPlacementPlane
	kindGlyphCoord
)

const (
	flagPitchWithMap  = 1 << 0
	flagRotateWithMap = 1 << 1
)

// matrixKey identifies one matrix product by everything it is a function of.
type matrixKey struct {
	tile       uint64
	revision   uint64
	kind       matrixKind
	flags      uint8
	transition uint32
}

// MatrixCache memoizes per-tile matrix products within and across frames.
// Entries are keyed by (tile, camera revision, alignment flags, transition),
// so a stale camera revision is the only way to read a stale matrix.
type MatrixCache struct {
	c *cache.Cache[matrixKey, mgl32.Mat4]
}

// matrixCacheLimit bounds retained matrices; a generous multiple of the
// visible-tile count so intra-frame reuse never evicts.
const matrixCacheLimit = 512

// NewMatrixCache creates an empty matrix cache.
func NewMatrixCache() *MatrixCache {
	return &MatrixCache{c: cache.New[matrixKey, mgl32.Mat4](matrixCacheLimit)}
}

func alignFlags(pitchWithMap, rotateWithMap bool) uint8 {
	var f uint8
	if pitchWithMap {
		f |= flagPitchWithMap
	}
	if rotateWithMap {
		f |= flagRotateWithMap
	}
	return f
}

func (mc *MatrixCache) get(k matrixKey, compute func() mgl32.Mat4) mgl32.Mat4 {
	if m, ok := mc.c.Get(k); ok {
		return m
	}
	m := compute()
	mc.c.Set(k, m)
	return m
}

// Clip returns the memoized ClipMatrix.
func (mc *MatrixCache) Clip(c *Camera, id tile.ID, transition float32) mgl32.Mat4 {
	k := matrixKey{tile: id.Key(), revision: c.Revision, kind: kindClip, transition: math.Float32bits(transition)}
	return mc.get(k, func() mgl32.Mat4 { return ClipMatrix(c, id, transition) })
}

// LabelPlane returns the memoized LabelPlaneMatrix.
func (mc *MatrixCache) LabelPlane(c *Camera, id tile.ID, pitchWithMap, rotateWithMap bool, transition float32) mgl32.Mat4 {
	k := matrixKey{
		tile: id.Key(), revision: c.Revision, kind: kindLabelPlane,
		flags: alignFlags(pitchWithMap, rotateWithMap), transition: math.Float32bits(transition),
	}
	return mc.get(k, func() mgl32.Mat4 {
		return LabelPlaneMatrix(c, id, pitchWithMap, rotateWithMap, transition)
	})
}

// PlacementPlane returns the memoized PlacementLabelPlaneMatrix.
func (mc *MatrixCache) PlacementPlane(c *Camera, id tile.ID, pitchWithMap, rotateWithMap bool, transition float32) mgl32.Mat4 {
	k := matrixKey{
		tile: id.Key(), revision: c.Revision, kind: kindPlacementPlane,
		flags: alignFlags(pitchWithMap, rotateWithMap), transition: math.Float32bits(transition),
	}
	return mc.get(k, func() mgl32.Mat4 {
		return PlacementLabelPlaneMatrix(c, id, pitchWithMap, rotateWithMap, transition)
	})
}

// GlyphCoord returns the memoized GlyphCoordMatrix.
func (mc *MatrixCache) GlyphCoord(c *Camera, id tile.ID, pitchWithMap, rotateWithMap bool, transition float32) mgl32.Mat4 {
	k := matrixKey{
		tile: id.Key(), revision: c.Revision, kind: kindGlyphCoord,
		flags: alignFlags(pitchWithMap, rotateWithMap), transition: math.Float32bits(transition),
	}
	return mc.get(k, func() mgl32.Mat4 {
		return GlyphCoordMatrix(c, id, pitchWithMap, rotateWithMap, transition)
	})
}
