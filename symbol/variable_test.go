package symbol

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/tile"
	"github.com/gogpu/mapsym/transform"
)

func TestVariableAnchorsHiddenStates(t *testing.T) {
	f := newFixture(t, Config{}, 3)
	layer := baseLayer()
	layer.VariableAnchor = true

	// Instance 0 gets no candidate, instance 2's run is suppressed
	// upstream; only instance 1 should come out visible.
	offsets := map[uint64]VariableOffset{
		2: {Width: 100, Height: 30, Anchor: AnchorTopLeft, BoxScale: 2},
	}
	f.bucket.Text.Placed[2].Hidden = true
	offsets[3] = offsets[2]

	f.drawer.updateVariableAnchors(testFrame(0), f.store, layer, []tile.ID{f.coord}, offsets)

	a := &f.bucket.Text.Array
	if got, want := a.Len(), 3*2*tile.VerticesPerGlyph; got != want {
		t.Fatalf("dynamic vertex count = %d, want %d", got, want)
	}
	if !runHidden(a, 0, 2) {
		t.Errorf("run without candidate offset not hidden")
	}
	if runHidden(a, 8, 2) {
		t.Errorf("run with candidate offset hidden")
	}
	if !runHidden(a, 16, 2) {
		t.Errorf("upstream-hidden run not hidden")
	}
}

func TestVariableAnchorsVerticalOrientation(t *testing.T) {
	f := newFixture(t, Config{}, 2)
	layer := baseLayer()
	f.bucket.AllowVerticalPlacement = true

	// Instance 0: placed run disagrees with the instance orientation.
	f.bucket.Text.Placed[0].Vertical = true
	// Instance 1: both vertical, gets the quarter turn.
	f.bucket.Text.Placed[1].Vertical = true
	f.bucket.Instances[1].Vertical = true

	offsets := allOffsets(f.bucket, VariableOffset{Width: 60, Height: 20, BoxScale: 1})
	f.drawer.updateVariableAnchors(testFrame(0), f.store, layer, []tile.ID{f.coord}, offsets)

	a := &f.bucket.Text.Array
	if !runHidden(a, 0, 2) {
		t.Errorf("orientation-mismatched run not hidden")
	}
	_, _, _, angle := a.Vertex(8)
	if math.Abs(float64(angle)-math.Pi/2) > 1e-6 {
		t.Errorf("vertical run angle = %v, want pi/2", angle)
	}
}

func TestVariableAnchorsPathSelection(t *testing.T) {
	off := VariableOffset{
		Width: 100, Height: 40,
		Anchor:     AnchorTopLeft,
		TextOffset: [2]float64{1, 0.5},
		BoxScale:   2,
	}

	resolve := func(pitchWithMap bool) (float32, float32, float32) {
		f := newFixture(t, Config{}, 1)
		f.bucket.Instances[0].AnchorX = 64
		f.bucket.Instances[0].AnchorY = 96
		layer := baseLayer()
		layer.PitchWithMap = pitchWithMap
		f.drawer.updateVariableAnchors(testFrame(0), f.store, layer, []tile.ID{f.coord}, allOffsets(f.bucket, off))
		x, y, z, _ := f.bucket.Text.Array.Vertex(0)
		return x, y, z
	}

	cam := testCamera()
	coord := tile.NewID(0, 0, 1)
	clip := transform.ClipMatrix(cam, coord, 0)
	_, dist := transform.Project(clip, 64, 96, 0)
	renderSize := 16 * transform.PerspectiveRatio(cam.CameraToCenterDistance, dist) / oneEm
	h, v := AnchorTopLeft.alignment()
	shiftX := (-(h-0.5)*off.Width/off.BoxScale + off.TextOffset[0]) * renderSize
	shiftY := (-(v-0.5)*off.Height/off.BoxScale + off.TextOffset[1]) * renderSize

	// Screen-aligned: project the anchor, then shift in pixel space.
	screenPlane := transform.PlacementLabelPlaneMatrix(cam, coord, false, false, 0)
	wantScreen, _ := transform.Project(screenPlane, 64, 96, 0)
	gx, gy, _ := resolve(false)
	if math.Abs(float64(gx)-float64(wantScreen.X())-shiftX) > 1e-3 ||
		math.Abs(float64(gy)-float64(wantScreen.Y())-shiftY) > 1e-3 {
		t.Errorf("screen path = (%v, %v), want (%v, %v)",
			gx, gy, float64(wantScreen.X())+shiftX, float64(wantScreen.Y())+shiftY)
	}

	// Pitch-aligned: shift the tile-space anchor, then project.
	pitchPlane := transform.PlacementLabelPlaneMatrix(cam, coord, true, false, 0)
	wantPitch, _ := transform.Project(pitchPlane, 64+float32(shiftX), 96+float32(shiftY), 0)
	px, py, _ := resolve(true)
	if math.Abs(float64(px-wantPitch.X())) > 1e-3 || math.Abs(float64(py-wantPitch.Y())) > 1e-3 {
		t.Errorf("pitch path = (%v, %v), want (%v, %v)", px, py, wantPitch.X(), wantPitch.Y())
	}

	if gx == px && gy == py {
		t.Errorf("pitch flag did not change the resolved position")
	}
}

func TestVariableAnchorsMapRotationShift(t *testing.T) {
	off := VariableOffset{Width: 100, Height: 40, Anchor: AnchorTopLeft, BoxScale: 2}

	resolve := func(rotateWithMap bool) (float64, float64) {
		f := newFixture(t, Config{}, 1)
		f.cam.Bearing = math.Pi / 2
		f.cam.Revision++
		f.bucket.Instances[0].AnchorX = 64
		f.bucket.Instances[0].AnchorY = 96
		layer := baseLayer()
		layer.RotateWithMap = rotateWithMap
		f.drawer.updateVariableAnchors(testFrame(0), f.store, layer, []tile.ID{f.coord}, allOffsets(f.bucket, off))
		x, y, _, _ := f.bucket.Text.Array.Vertex(0)

		plane := transform.PlacementLabelPlaneMatrix(f.cam, f.coord, false, rotateWithMap, 0)
		anchor, _ := transform.Project(plane, 64, 96, 0)
		return float64(x - anchor.X()), float64(y - anchor.Y())
	}

	ux, uy := resolve(false)
	rx, ry := resolve(true)

	// A quarter-turn bearing rotates the shift by -pi/2: (x, y) -> (y, -x).
	if math.Abs(rx-uy) > 1e-3 || math.Abs(ry+ux) > 1e-3 {
		t.Errorf("rotated shift = (%v, %v), want (%v, %v)", rx, ry, uy, -ux)
	}
}

func TestVariableAnchorsIconTextFit(t *testing.T) {
	f := newFixture(t, Config{}, 2)
	layer := baseLayer()
	layer.IconTextFit = IconTextFitBoth

	// Only instance 1 has a candidate; instance 0's icon must follow its
	// text into hiding.
	offsets := map[uint64]VariableOffset{
		2: {Width: 80, Height: 24, Anchor: AnchorBottomRight, BoxScale: 2},
	}
	f.drawer.updateVariableAnchors(testFrame(0), f.store, layer, []tile.ID{f.coord}, offsets)

	icons := &f.bucket.Icon.Array
	if got, want := icons.Len(), 2*tile.VerticesPerGlyph; got != want {
		t.Fatalf("icon dynamic vertex count = %d, want %d", got, want)
	}
	if !runHidden(icons, 0, 1) {
		t.Errorf("icon of hidden text not hidden")
	}

	tx, ty, tz, ta := f.bucket.Text.Array.Vertex(8)
	ix, iy, iz, ia := icons.Vertex(4)
	if tx != ix || ty != iy || tz != iz || ta != ia {
		t.Errorf("icon shift (%v,%v,%v,%v) != text shift (%v,%v,%v,%v)",
			ix, iy, iz, ia, tx, ty, tz, ta)
	}

	if got := f.ctx.BufferWrites(f.bucket.Text.Dynamic); got != 1 {
		t.Errorf("text dynamic buffer writes = %d, want 1", got)
	}
	if got := f.ctx.BufferWrites(f.bucket.Icon.Dynamic); got != 1 {
		t.Errorf("icon dynamic buffer writes = %d, want 1", got)
	}
}

func TestVariableAnchorsElevation(t *testing.T) {
	f := newFixture(t, Config{}, 1)
	f.cam.Elevation = flatSampler{height: 10}
	layer := baseLayer()

	f.drawer.updateVariableAnchors(testFrame(0), f.store, layer, []tile.ID{f.coord},
		allOffsets(f.bucket, VariableOffset{Width: 10, Height: 10, BoxScale: 1}))

	_, _, z, _ := f.bucket.Text.Array.Vertex(0)
	want := 10 * transform.MetersToTileUnits(f.cam, f.coord, 0)
	// Screen path: z passes through the screen-aligned placement matrix,
	// which leaves it unchanged for the identity projection.
	if math.Abs(float64(z)-want) > 1e-3 {
		t.Errorf("elevated z = %v, want %v", z, want)
	}
}

type flatSampler struct{ height float32 }

func (s flatSampler) HeightAt(tile.ID, float32, float32) (float32, bool) { return s.height, true }
func (s flatSampler) UpAt(tile.ID, float32, float32) mgl32.Vec3          { return mgl32.Vec3{0, 0, 1} }
