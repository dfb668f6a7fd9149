package symbol

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym"
	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/tile"
)

// occluderSizePx is the half extent, in logical pixels, of the quad rendered
// against the depth buffer to test an anchor's visibility.
const occluderSizePx = 8.0

// Visualize-mode quad colors per test state.
var (
	occluderColorVisible  = [4]float32{0, 0.8, 0, 0.5}
	occluderColorOccluded = [4]float32{0.9, 0, 0, 0.5}
	occluderColorPending  = [4]float32{0.9, 0.8, 0, 0.5}
)

// updateOcclusion runs the query state machine for every instance of the
// layer's buckets. Results consumed this frame update the persisted
// Occluded flag; everything else keeps its prior value.
func (d *Drawer) updateOcclusion(frame *FrameState, store tile.Store, layer *Layer, coords []tile.ID) {
	if !layer.OcclusionOpacity {
		return
	}
	if frame.Globe() {
		d.globeOcclusionWarn.Do(func() {
			mapsym.Logger().Warn("occlusion testing is unsupported under spherical projection; skipping",
				"layer", layer.ID)
		})
		return
	}
	if !d.ctx.SupportsOcclusionQuery() {
		d.noQueryWarn.Do(func() {
			mapsym.Logger().Warn("backend has no occlusion queries; symbols are treated as visible",
				"layer", layer.ID)
		})
		return
	}

	window := uint64(d.cfg.OcclusionWindow)
	if d.cfg.OcclusionVisualize {
		window = 1
	}
	for _, coord := range coords {
		t := store.GetTile(coord)
		if t == nil {
			continue
		}
		b := t.SymbolBucket(layer.ID)
		if b == nil || len(b.Instances) == 0 {
			continue
		}
		d.occludeBucket(frame, coord, b, window)
	}
}

func (d *Drawer) occludeBucket(frame *FrameState, coord tile.ID, b *tile.SymbolBucket, window uint64) {
	posMatrix := d.matrices.Clip(d.cam, coord, frame.Transition)
	for i := range b.Instances {
		inst := &b.Instances[i]

		// Consume a landed result first, so the slot frees even when the
		// instance has since dropped out of the schedule.
		if inst.QueryPending && d.ctx.QueryAvailable(inst.Query) {
			if count, err := d.ctx.QueryResult(inst.Query); err == nil {
				inst.Occluded = count == 0
			}
			inst.QueryPending = false
		}

		if inst.Hidden {
			continue
		}
		if (frame.Counter+uint64(i))%window != 0 {
			continue
		}

		if d.cfg.OcclusionVisualize {
			// Visualize mode only paints the quads; no queries, no readback.
			d.drawOccluder(frame, posMatrix, inst, true)
			continue
		}
		if inst.QueryPending {
			continue
		}
		q, err := b.QuerySlot(d.ctx, i)
		if err != nil {
			mapsym.Logger().Debug("occlusion query allocation failed", "error", err)
			continue
		}
		if err := d.ctx.BeginQuery(q); err != nil {
			continue
		}
		d.drawOccluder(frame, posMatrix, inst, false)
		d.ctx.EndQuery(q)
		inst.QueryPending = true
	}
}

// drawOccluder issues the single draw call of one occlusion test: a unit
// quad expanded to occluderSizePx around the instance anchor, depth-tested
// against the scene, color writes off unless visualizing.
func (d *Drawer) drawOccluder(frame *FrameState, posMatrix mgl32.Mat4, inst *tile.SymbolInstance, visualize bool) {
	if err := d.ensureOccluderQuad(); err != nil {
		return
	}
	flags := gfx.FlagOcclusionQuery
	if visualize {
		flags |= gfx.FlagDebug
	}
	program, err := d.ctx.Program(gfx.ProgramOccluderBox, flags)
	if err != nil {
		return
	}

	uniforms := gfx.UniformValues{
		"u_matrix":    posMatrix,
		"u_anchor":    [3]float32{inst.AnchorX, inst.AnchorY, inst.ElevationOffset},
		"u_extent_px": float32(occluderSizePx),
	}
	color := gfx.ColorDisabled()
	if visualize {
		uniforms["u_color"] = occluderStateColor(inst)
		color = gfx.ColorAlphaBlended()
	}

	d.ctx.DrawIndexed(&gfx.DrawParams{
		Program:      program,
		Depth:        gfx.DepthReadOnly(gfx.CompareLessEqual),
		Stencil:      gfx.StencilDisabled(),
		Color:        color,
		Uniforms:     uniforms,
		VertexBuffer: d.occluderVertex,
		IndexBuffer:  d.occluderIndex,
		IndexCount:   6,
	})
}

func occluderStateColor(inst *tile.SymbolInstance) [4]float32 {
	switch {
	case inst.QueryPending:
		return occluderColorPending
	case inst.Occluded:
		return occluderColorOccluded
	default:
		return occluderColorVisible
	}
}

// ensureOccluderQuad lazily creates the shared quad geometry.
func (d *Drawer) ensureOccluderQuad() error {
	if d.occluderVertex != gfx.InvalidID {
		return nil
	}
	corners := []float32{-1, -1, 1, -1, 1, 1, -1, 1}
	vdata := make([]byte, 4*len(corners))
	for i, v := range corners {
		binary.LittleEndian.PutUint32(vdata[4*i:], math.Float32bits(v))
	}
	vb, err := d.ctx.CreateBuffer(len(vdata), gfx.BufferUsageVertex|gfx.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	d.ctx.WriteBuffer(vb, 0, vdata)

	indices := []uint16{0, 1, 2, 0, 2, 3}
	idata := make([]byte, 2*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint16(idata[2*i:], v)
	}
	ib, err := d.ctx.CreateBuffer(len(idata), gfx.BufferUsageIndex|gfx.BufferUsageCopyDst)
	if err != nil {
		d.ctx.DestroyBuffer(vb)
		return err
	}
	d.ctx.WriteBuffer(ib, 0, idata)

	d.occluderVertex, d.occluderIndex = vb, ib
	return nil
}
