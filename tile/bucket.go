package tile

import (
	"github.com/gogpu/mapsym/gfx"
)

// Segment is a contiguous drawable range of a bucket's GPU buffers. When
// cross-feature ordering matters, each segment becomes its own draw entry
// tagged with its sort key.
type Segment struct {
	// BaseVertex is added to indices before vertex fetch.
	BaseVertex int32

	// FirstIndex and IndexCount select the index range.
	FirstIndex uint32
	IndexCount uint32

	// SortKey is the feature sort key shared by everything in the segment.
	SortKey float64
}

// Atlas is a texture atlas handle with its pixel dimensions (needed for
// texel-size uniforms).
type Atlas struct {
	Texture gfx.TextureID
	Width   int
	Height  int
}

// Valid reports whether the atlas texture has been uploaded.
func (a Atlas) Valid() bool { return a.Texture != gfx.InvalidID }

// PlacedSymbol is one rendered glyph or icon run. It is immutable once baked
// except for Hidden, which the placement subsystem flips.
type PlacedSymbol struct {
	// AnchorX, AnchorY, AnchorZ are the tile-local anchor coordinates.
	AnchorX, AnchorY, AnchorZ float32

	// GlyphCount is the number of quads in the run.
	GlyphCount int

	// Hidden marks runs suppressed by the placement subsystem.
	Hidden bool

	// Vertical marks vertical-writing-mode runs.
	Vertical bool

	// Instance indexes the owning SymbolInstance in the bucket.
	Instance int
}

// SymbolInstance is the per-symbol cross-frame state. It is owned by the
// bucket and destroyed with it.
type SymbolInstance struct {
	// CrossTileID is the stable identity shared by copies of the same
	// symbol in neighboring tiles. The placement subsystem keys its
	// variable offsets and opacity decisions by it.
	CrossTileID uint64

	// AnchorX, AnchorY are the tile-local anchor coordinates.
	AnchorX, AnchorY float32

	// ElevationOffset is an extra vertical displacement in tile units.
	ElevationOffset float32

	// Vertical is the placed writing orientation.
	Vertical bool

	// IconIndex is the index of the paired icon run, -1 when the symbol
	// has no icon.
	IconIndex int

	// Hidden mirrors the placement subsystem's opacity decision. Hidden
	// instances are skipped by occlusion testing.
	Hidden bool

	// Occluded is the persisted occlusion result. It is updated only when
	// a query result is consumed; between updates the previous value is
	// authoritative. The zero value means visible.
	Occluded bool

	// Query is this instance's occlusion query slot, InvalidID until
	// allocated. QueryPending is true while a begun query has not had its
	// result consumed.
	Query        gfx.QueryID
	QueryPending bool
}

// SymbolBuffers is the GPU-side geometry of one kind (text or icon) within
// a bucket.
type SymbolBuffers struct {
	// Vertex, Index are the static baked buffers.
	Vertex gfx.BufferID
	Index  gfx.BufferID

	// Dynamic is the per-frame rewritten attribute buffer backing Array.
	Dynamic gfx.BufferID

	// Segments are the drawable ranges.
	Segments []Segment

	// Placed are the glyph/icon runs, in symbol-instance order.
	Placed []PlacedSymbol

	// Array is the CPU staging for the dynamic buffer. It is cleared and
	// refilled in placed-symbol order each frame; partial updates are not
	// supported.
	Array DynamicVertexArray
}

// UploadDynamic pushes the staged dynamic vertices to the GPU buffer.
func (b *SymbolBuffers) UploadDynamic(ctx gfx.Context) {
	if b.Dynamic == gfx.InvalidID || b.Array.Len() == 0 {
		return
	}
	ctx.WriteBuffer(b.Dynamic, 0, b.Array.Bytes())
}

// Empty reports whether there is nothing drawable.
func (b *SymbolBuffers) Empty() bool {
	return len(b.Segments) == 0 || b.Vertex == gfx.InvalidID || b.Index == gfx.InvalidID
}

// SymbolBucket is the pre-baked GPU-ready geometry and per-instance state
// for all symbols of one layer within one tile.
type SymbolBucket struct {
	// LayerID names the style layer this bucket was baked for.
	LayerID string

	// Text and Icon are the two geometry kinds.
	Text SymbolBuffers
	Icon SymbolBuffers

	// Instances is the per-symbol state, parallel to the placed runs'
	// Instance indices.
	Instances []SymbolInstance

	// GlyphAtlas and IconAtlas are the texture atlases referenced by the
	// baked texture coordinates.
	GlyphAtlas Atlas
	IconAtlas  Atlas

	// SDFIcons is set when icons were baked as signed distance fields.
	SDFIcons bool

	// IconsInText is set when icon quads were baked into the text geometry
	// (combined text-and-icon rendering).
	IconsInText bool

	// IconScaled is set when icons render at a size other than their
	// native pixels.
	IconScaled bool

	// CanOverlap is set when the layer permits overlapping symbols, which
	// makes cross-feature sort-key ordering observable.
	CanOverlap bool

	// AllowVerticalPlacement enables vertical writing mode runs.
	AllowVerticalPlacement bool

	// TilePixelRatio is the baked extent-to-pixel ratio of the tile.
	TilePixelRatio float64

	// TextSize and IconSize describe how symbol size responds to zoom.
	TextSize SizeData
	IconSize SizeData

	// queries is the occlusion query arena, slot-indexed by instance.
	// Allocated on first use, released with the bucket.
	queries []gfx.QueryID
}

// QuerySlot returns the occlusion query owned by instance slot i, allocating
// the arena entry on first use. The bucket owns the returned query; it is
// reused for this instance until ReleaseQueries.
func (b *SymbolBucket) QuerySlot(ctx gfx.Context, i int) (gfx.QueryID, error) {
	if i < 0 || i >= len(b.Instances) {
		panic("tile: query slot out of range")
	}
	if b.queries == nil {
		b.queries = make([]gfx.QueryID, len(b.Instances))
	}
	if b.queries[i] == gfx.InvalidID {
		q, err := ctx.CreateQuery()
		if err != nil {
			return gfx.InvalidID, err
		}
		b.queries[i] = q
		b.Instances[i].Query = q
	}
	return b.queries[i], nil
}

// ReleaseQueries destroys every allocated query in the arena. Outstanding
// results are abandoned. Called when the owning tile is evicted.
func (b *SymbolBucket) ReleaseQueries(ctx gfx.Context) {
	for i, q := range b.queries {
		if q == gfx.InvalidID {
			continue
		}
		ctx.DestroyQuery(q)
		b.queries[i] = gfx.InvalidID
		b.Instances[i].Query = gfx.InvalidID
		b.Instances[i].QueryPending = false
	}
	b.queries = nil
}

// HasSortKeys reports whether any segment carries a nonzero sort key in
// either kind.
func (b *SymbolBucket) HasSortKeys() bool {
	for _, s := range b.Text.Segments {
		if s.SortKey != 0 {
			return true
		}
	}
	for _, s := range b.Icon.Segments {
		if s.SortKey != 0 {
			return true
		}
	}
	return false
}
