package tile

// Store is the tile cache the renderer driver hands to the pipeline.
// GetTile returns nil for tiles that are not resident; the pipeline treats
// that as nothing to draw.
type Store interface {
	GetTile(id ID) *Tile
}

// Tile is one resident map tile with its per-layer symbol buckets.
type Tile struct {
	// ID is the tile's coordinate.
	ID ID

	buckets map[string]*SymbolBucket
}

// NewTile creates an empty tile.
func NewTile(id ID) *Tile {
	return &Tile{ID: id, buckets: make(map[string]*SymbolBucket)}
}

// SymbolBucket returns the bucket baked for the given layer, or nil when the
// layer has no symbols in this tile or baking has not finished.
func (t *Tile) SymbolBucket(layerID string) *SymbolBucket {
	if t == nil {
		return nil
	}
	return t.buckets[layerID]
}

// SetSymbolBucket installs a baked bucket for a layer. The tile takes
// ownership; the bucket lives until the tile is evicted.
func (t *Tile) SetSymbolBucket(layerID string, b *SymbolBucket) {
	t.buckets[layerID] = b
}
