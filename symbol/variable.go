package symbol

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/tile"
	"github.com/gogpu/mapsym/transform"
)

// placedShift is the resolved anchor of one text run, recorded so the icon
// pass can apply the identical shift to the paired icon.
type placedShift struct {
	pos   mgl32.Vec3
	angle float32
}

// updateVariableAnchors rewrites the dynamic vertex streams of every
// visible bucket from the frame's candidate offsets. It runs over all tiles
// before any draw state is built: icon-text-fit shifts are cross-referenced
// by index across the full placed-icon set.
func (d *Drawer) updateVariableAnchors(frame *FrameState, store tile.Store, layer *Layer, coords []tile.ID, offsets map[uint64]VariableOffset) {
	for _, coord := range coords {
		t := store.GetTile(coord)
		if t == nil {
			continue
		}
		b := t.SymbolBucket(layer.ID)
		if b == nil || len(b.Text.Segments) == 0 {
			continue
		}
		d.updateBucketAnchors(frame, coord, b, layer, offsets)
	}
}

func (d *Drawer) updateBucketAnchors(frame *FrameState, coord tile.ID, b *tile.SymbolBucket, layer *Layer, offsets map[uint64]VariableOffset) {
	posMatrix := d.matrices.Clip(d.cam, coord, frame.Transition)
	labelPlane := d.matrices.PlacementPlane(d.cam, coord, layer.PitchWithMap, layer.RotateWithMap, frame.Transition)
	zoomSize := b.TextSize.Evaluate(d.cam.Zoom)
	metersToUnits := transform.MetersToTileUnits(d.cam, coord, frame.Transition)
	// Overscale magnification between the frame zoom and the tile's
	// rendered zoom; converts the pixel shift into tile units for the
	// pitch-aligned path.
	tileScale := math.Exp2(d.cam.Zoom - float64(coord.OverscaledZ))

	updateFitIcon := layer.IconTextFit != IconTextFitNone && len(b.Icon.Placed) > 0
	var shifts map[int]placedShift
	if updateFitIcon {
		shifts = make(map[int]placedShift)
	}

	b.Text.Array.Reset()
	for i := range b.Text.Placed {
		sym := &b.Text.Placed[i]
		inst := &b.Instances[sym.Instance]

		off, ok := offsets[inst.CrossTileID]
		if !ok || sym.Hidden || sym.Vertical != inst.Vertical {
			b.Text.Array.PushHidden(sym.GlyphCount)
			continue
		}

		ax, ay := inst.AnchorX, inst.AnchorY
		az := inst.ElevationOffset
		if d.cam.Elevation != nil {
			if h, present := d.cam.Elevation.HeightAt(coord, ax, ay); present {
				az += h * float32(metersToUnits)
			}
		}

		_, dist := transform.Project(posMatrix, ax, ay, az)
		ratio := transform.PerspectiveRatio(d.cam.CameraToCenterDistance, dist)
		renderSize := zoomSize * ratio / oneEm
		if layer.PitchWithMap {
			renderSize *= b.TilePixelRatio / tileScale
		}
		shiftX, shiftY := variableShift(off, renderSize)

		var pos mgl32.Vec3
		if layer.PitchWithMap {
			// Pitch-aligned shifts must respect tile-plane geometry:
			// re-project the shifted tile-space anchor through the full
			// chain instead of shifting in pixel space.
			pos, _ = transform.Project(labelPlane, ax+float32(shiftX), ay+float32(shiftY), az)
		} else {
			pos, _ = transform.Project(labelPlane, ax, ay, az)
			if layer.RotateWithMap {
				shiftX, shiftY = rotate(shiftX, shiftY, -d.cam.Bearing)
			}
			pos = mgl32.Vec3{pos.X() + float32(shiftX), pos.Y() + float32(shiftY), pos.Z()}
		}

		// Vertical writing mode takes a fixed quarter turn, applied by the
		// shader after projection.
		var angle float32
		if b.AllowVerticalPlacement && inst.Vertical {
			angle = math.Pi / 2
		}

		b.Text.Array.PushGlyphs(pos.X(), pos.Y(), pos.Z(), angle, sym.GlyphCount)
		if updateFitIcon && inst.IconIndex >= 0 {
			shifts[inst.IconIndex] = placedShift{pos: pos, angle: angle}
		}
	}
	b.Text.UploadDynamic(d.ctx)

	if !updateFitIcon {
		return
	}
	// Second pass: icons consume the shift table. Icons whose paired text
	// run was hidden (or never shifted) become hidden themselves.
	b.Icon.Array.Reset()
	for i := range b.Icon.Placed {
		icon := &b.Icon.Placed[i]
		sh, ok := shifts[i]
		if icon.Hidden || !ok {
			b.Icon.Array.PushHidden(icon.GlyphCount)
			continue
		}
		b.Icon.Array.PushGlyphs(sh.pos.X(), sh.pos.Y(), sh.pos.Z(), sh.angle, icon.GlyphCount)
	}
	b.Icon.UploadDynamic(d.ctx)
}

// variableShift computes the pixel-space shift for a candidate offset: the
// measured box pulled toward its anchor corner, plus the style text offset,
// both scaled by the actually rendered text size.
func variableShift(off VariableOffset, renderSize float64) (x, y float64) {
	h, v := off.Anchor.alignment()
	shiftX := -(h - 0.5) * off.Width
	shiftY := -(v - 0.5) * off.Height
	scale := off.BoxScale
	if scale == 0 {
		scale = 1
	}
	return (shiftX/scale + off.TextOffset[0]) * renderSize,
		(shiftY/scale + off.TextOffset[1]) * renderSize
}

// rotate rotates a vector counter-clockwise by a radians.
func rotate(x, y, a float64) (float64, float64) {
	sin, cos := math.Sincos(a)
	return x*cos - y*sin, x*sin + y*cos
}
