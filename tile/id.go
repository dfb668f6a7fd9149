// Package tile holds the tile-side data model of the symbol pipeline:
// tile coordinates, symbol buckets with their GPU buffer handles, per-symbol
// instance state and the dynamic vertex arrays that are rewritten every
// frame.
//
// Buckets are baked upstream (geometry, atlases, static buffers); this
// package only defines their shape and the small amount of per-frame mutable
// state the pipeline maintains on them.
package tile

import "github.com/paulmach/orb/maptile"

// Extent is the tile-local coordinate range. Anchor positions inside a
// bucket span [0, Extent) regardless of tile size on screen.
const Extent = 8192

// ID identifies one visible tile. The canonical tile names the data source;
// OverscaledZ may exceed the canonical zoom when a tile is rendered past its
// maximum source zoom.
type ID struct {
	// Canonical is the source tile coordinate.
	Canonical maptile.Tile

	// OverscaledZ is the zoom the tile is rendered at.
	OverscaledZ maptile.Zoom
}

// NewID builds an ID rendered at its canonical zoom.
func NewID(x, y uint32, z maptile.Zoom) ID {
	return ID{Canonical: maptile.New(x, y, z), OverscaledZ: z}
}

// Key returns a stable map key for the ID. Zoom levels fit in 5 bits
// (z <= 25), coordinates in 27.
func (id ID) Key() uint64 {
	return uint64(id.OverscaledZ)<<59 |
		uint64(id.Canonical.Z)<<54 |
		uint64(id.Canonical.X)<<27 |
		uint64(id.Canonical.Y)
}

// OverscaleFactor is how many times the canonical tile is magnified.
func (id ID) OverscaleFactor() float64 {
	return float64(uint64(1) << (id.OverscaledZ - id.Canonical.Z))
}
