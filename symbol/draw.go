package symbol

import (
	"cmp"
	"slices"

	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/tile"
)

// drawEntry is one batched unit of GPU work: a render state and the buffer
// segments it draws. In sort-key mode every entry holds a single segment
// tagged with its key; otherwise one entry covers a whole kind of a tile.
type drawEntry struct {
	state    renderState
	segments []tile.Segment
	sortKey  float64
}

// DrawLayer renders one symbol layer across the visible tiles. It performs
// the full per-frame sequence as a side effect: variable-anchor resolution
// for every tile, occlusion query scheduling, then the ordered draw pass.
// Symbols draw only during the translucent pass; other passes are no-ops.
func (d *Drawer) DrawLayer(frame *FrameState, store tile.Store, layer *Layer, coords []tile.ID, offsets map[uint64]VariableOffset) {
	if frame.Pass != gfx.PassTranslucent {
		return
	}
	if layer.IconOpacity <= 0 && layer.TextOpacity <= 0 {
		return
	}

	// Anchor resolution must finish for all tiles before any draw state is
	// built: icon-text-fit shifts cross-reference the full placed-icon set.
	if layer.VariableAnchor {
		d.updateVariableAnchors(frame, store, layer, coords, offsets)
	}
	d.updateOcclusion(frame, store, layer, coords)

	var iconEntries, textEntries, sorted []drawEntry
	for _, coord := range coords {
		t := store.GetTile(coord)
		if t == nil {
			continue
		}
		b := t.SymbolBucket(layer.ID)
		if b == nil {
			continue
		}
		// Cross-feature ordering is only observable when the layer both
		// declares sort keys and lets symbols overlap.
		bySortKey := layer.SortKeyOrdering && b.CanOverlap && b.HasSortKeys()

		if layer.IconOpacity > 0 {
			if st := d.iconState(frame, coord, b, layer); st != nil {
				if bySortKey {
					sorted = appendSegmentEntries(sorted, st, b.Icon.Segments)
				} else {
					iconEntries = append(iconEntries, drawEntry{state: st, segments: b.Icon.Segments})
				}
			}
		}
		if layer.TextOpacity > 0 {
			if st := d.textState(frame, coord, b, layer); st != nil {
				if bySortKey {
					sorted = appendSegmentEntries(sorted, st, b.Text.Segments)
				} else {
					textEntries = append(textEntries, drawEntry{state: st, segments: b.Text.Segments})
				}
			}
		}
	}

	// Icons for all tiles first, then text; sorted entries last in their
	// own total order. Stability keeps insertion order on equal keys.
	for i := range iconEntries {
		d.issueEntry(&iconEntries[i])
	}
	for i := range textEntries {
		d.issueEntry(&textEntries[i])
	}
	slices.SortStableFunc(sorted, func(a, b drawEntry) int {
		return cmp.Compare(a.sortKey, b.sortKey)
	})
	for i := range sorted {
		d.issueEntry(&sorted[i])
	}

	if d.cfg.ShowCollisionBoxes {
		d.drawCollisionBoxes(frame, store, layer, coords)
	}
}

// appendSegmentEntries explodes a state's segments into single-segment
// entries tagged with their sort keys.
func appendSegmentEntries(entries []drawEntry, st renderState, segments []tile.Segment) []drawEntry {
	for _, seg := range segments {
		entries = append(entries, drawEntry{
			state:    st,
			segments: []tile.Segment{seg},
			sortKey:  seg.SortKey,
		})
	}
	return entries
}

// issueEntry binds the entry's textures and issues its draw calls, halo
// pass first when eligible.
func (d *Drawer) issueEntry(e *drawEntry) {
	st := e.state.drawState()
	d.ctx.BindTexture(0, st.atlas.Texture, st.filter)
	if st.extraAtlas.Valid() {
		d.ctx.BindTexture(1, st.extraAtlas.Texture, gfx.FilterLinear)
	}
	if st.halo {
		halo := st.uniforms.Clone()
		halo["u_is_halo"] = true
		d.issuePass(st, e.segments, halo)
	}
	d.issuePass(st, e.segments, st.uniforms)
}

func (d *Drawer) issuePass(st *symbolDrawState, segments []tile.Segment, uniforms gfx.UniformValues) {
	for _, seg := range segments {
		d.ctx.DrawIndexed(&gfx.DrawParams{
			Program:       st.program,
			Depth:         st.depth,
			Stencil:       gfx.StencilDisabled(),
			Color:         st.color,
			Uniforms:      uniforms,
			VertexBuffer:  st.buffers.Vertex,
			DynamicBuffer: st.buffers.Dynamic,
			IndexBuffer:   st.buffers.Index,
			FirstIndex:    seg.FirstIndex,
			IndexCount:    seg.IndexCount,
			BaseVertex:    seg.BaseVertex,
		})
	}
}
