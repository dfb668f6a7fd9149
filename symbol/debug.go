package symbol

import (
	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/tile"
)

var collisionBoxColor = [4]float32{0, 0.6, 1, 0.6}

// DrawDebugCollisionBoxes draws the collision-candidate box of every
// non-hidden instance of the layer. Parallel debug entry point; a no-op
// unless the drawer was configured with ShowCollisionBoxes.
func (d *Drawer) DrawDebugCollisionBoxes(frame *FrameState, store tile.Store, layer *Layer, coords []tile.ID) {
	if !d.cfg.ShowCollisionBoxes || frame.Pass != gfx.PassTranslucent {
		return
	}
	d.drawCollisionBoxes(frame, store, layer, coords)
}

func (d *Drawer) drawCollisionBoxes(frame *FrameState, store tile.Store, layer *Layer, coords []tile.ID) {
	if err := d.ensureOccluderQuad(); err != nil {
		return
	}
	program, err := d.ctx.Program(gfx.ProgramCollisionBox, gfx.FlagDebug)
	if err != nil {
		return
	}
	for _, coord := range coords {
		t := store.GetTile(coord)
		if t == nil {
			continue
		}
		b := t.SymbolBucket(layer.ID)
		if b == nil {
			continue
		}
		posMatrix := d.matrices.Clip(d.cam, coord, frame.Transition)
		for i := range b.Instances {
			inst := &b.Instances[i]
			if inst.Hidden {
				continue
			}
			d.ctx.DrawIndexed(&gfx.DrawParams{
				Program: program,
				Depth:   gfx.DepthDisabled(),
				Stencil: gfx.StencilDisabled(),
				Color:   gfx.ColorAlphaBlended(),
				Uniforms: gfx.UniformValues{
					"u_matrix":    posMatrix,
					"u_anchor":    [3]float32{inst.AnchorX, inst.AnchorY, inst.ElevationOffset},
					"u_extent_px": float32(occluderSizePx),
					"u_color":     collisionBoxColor,
				},
				VertexBuffer: d.occluderVertex,
				IndexBuffer:  d.occluderIndex,
				IndexCount:   6,
			})
		}
	}
}
