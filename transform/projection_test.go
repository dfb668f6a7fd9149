package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/tile"
)

const eps = 1e-4

func approxEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func matApproxEq(a, b mgl32.Mat4) bool {
	for i := range a {
		if !approxEq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// testCamera is a flat 512px world viewed straight down with an identity
// clip projection; numbers stay hand-checkable.
func testCamera() *Camera {
	return &Camera{
		Zoom:                   0,
		Width:                  512,
		Height:                 512,
		WorldSize:              512,
		CameraToCenterDistance: 768,
		MetersPerPixel:         2,
		Projection:             mgl32.Ident4(),
		GlobeProjection:        mgl32.Ident4(),
		GlobeView:              mgl32.Ident4(),
	}
}

func TestGlobeTransition(t *testing.T) {
	tests := []struct {
		zoom float64
		want float32
	}{
		{0, 1},
		{TransitionZoomStart, 1},
		{TransitionZoomStart + 0.5, 0.5},
		{TransitionZoomEnd, 0},
		{22, 0},
	}
	for _, tt := range tests {
		if got := GlobeTransition(tt.zoom); !approxEq(got, tt.want) {
			t.Errorf("GlobeTransition(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}

	// Monotonic non-increasing across the range.
	prev := GlobeTransition(TransitionZoomStart)
	for z := TransitionZoomStart; z <= TransitionZoomEnd; z += 0.05 {
		cur := GlobeTransition(z)
		if cur > prev {
			t.Fatalf("GlobeTransition not monotonic at zoom %v: %v > %v", z, cur, prev)
		}
		prev = cur
	}
}

func TestClipPixelRoundTrip(t *testing.T) {
	c := &Camera{Width: 800, Height: 600}

	corners := []struct {
		clip mgl32.Vec4
		px   mgl32.Vec2
	}{
		{mgl32.Vec4{-1, 1, 0, 1}, mgl32.Vec2{0, 0}},
		{mgl32.Vec4{1, -1, 0, 1}, mgl32.Vec2{800, 600}},
		{mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec2{400, 300}},
	}
	for _, tt := range corners {
		got := c.ClipToPixels().Mul4x1(tt.clip)
		if !approxEq(got.X(), tt.px.X()) || !approxEq(got.Y(), tt.px.Y()) {
			t.Errorf("ClipToPixels(%v) = (%v,%v), want %v", tt.clip, got.X(), got.Y(), tt.px)
		}
	}

	if !matApproxEq(c.PixelsToClip().Mul4(c.ClipToPixels()), mgl32.Ident4()) {
		t.Error("PixelsToClip is not the inverse of ClipToPixels")
	}
}

func TestTileMatrix(t *testing.T) {
	c := testCamera()

	// Zoom 0: the single tile spans the whole world.
	m := TileMatrix(c, tile.NewID(0, 0, 0))
	p := m.Mul4x1(mgl32.Vec4{tile.Extent, tile.Extent, 0, 1})
	if !approxEq(p.X(), 512) || !approxEq(p.Y(), 512) {
		t.Errorf("extent corner maps to (%v,%v), want (512,512)", p.X(), p.Y())
	}

	// Zoom 1, tile (1,0): origin at half the world width.
	m = TileMatrix(c, tile.NewID(1, 0, 1))
	p = m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !approxEq(p.X(), 256) || !approxEq(p.Y(), 0) {
		t.Errorf("tile (1,0,z1) origin maps to (%v,%v), want (256,0)", p.X(), p.Y())
	}
}

func TestClipMatrixTransitionBlend(t *testing.T) {
	c := testCamera()
	c.GlobeProjection = mgl32.Scale3D(2, 2, 1)
	id := tile.NewID(0, 0, 0)

	flat := ClipMatrix(c, id, 0)
	globe := ClipMatrix(c, id, 1)
	mid := ClipMatrix(c, id, 0.5)

	if !matApproxEq(flat, c.Projection.Mul4(TileMatrix(c, id))) {
		t.Error("transition 0 must be the flat product")
	}
	if !matApproxEq(globe, c.GlobeProjection.Mul4(TileMatrix(c, id))) {
		t.Error("transition 1 must be the spherical product")
	}
	for i := range mid {
		want := (flat[i] + globe[i]) / 2
		if !approxEq(mid[i], want) {
			t.Fatalf("transition 0.5 element %d = %v, want %v", i, mid[i], want)
		}
	}
}

func TestLabelPlaneMatrixPitchAligned(t *testing.T) {
	c := testCamera()
	id := tile.NewID(0, 0, 0)

	// 16 tile units per pixel at these dimensions; the label plane scales
	// tile units down to pixels.
	m := LabelPlaneMatrix(c, id, true, true, 0)
	p := m.Mul4x1(mgl32.Vec4{tile.Extent, 0, 0, 1})
	if !approxEq(p.X(), 512) || !approxEq(p.Y(), 0) {
		t.Errorf("pitch-aligned label plane maps extent to (%v,%v), want (512,0)", p.X(), p.Y())
	}

	// Viewport-aligned rotation counter-rotates by the bearing.
	c.Bearing = math.Pi / 2
	m = LabelPlaneMatrix(c, id, true, false, 0)
	p = m.Mul4x1(mgl32.Vec4{tile.Extent, 0, 0, 1})
	if !approxEq(p.X(), 0) || !approxEq(p.Y(), -512) {
		t.Errorf("rotated label plane maps extent to (%v,%v), want (0,-512)", p.X(), p.Y())
	}
}

func TestGlyphCoordInvertsLabelPlane(t *testing.T) {
	c := testCamera()
	c.Bearing = 0.3
	id := tile.NewID(0, 0, 0)

	for _, rotateWithMap := range []bool{true, false} {
		label := LabelPlaneMatrix(c, id, true, rotateWithMap, 0)
		coord := GlyphCoordMatrix(c, id, true, rotateWithMap, 0)
		// Going label plane -> clip must agree with the direct clip matrix.
		if !matApproxEq(coord.Mul4(label), ClipMatrix(c, id, 0)) {
			t.Errorf("rotateWithMap=%v: GlyphCoord*LabelPlane != ClipMatrix", rotateWithMap)
		}
	}

	// Screen-aligned: pixel space back to clip.
	if !matApproxEq(GlyphCoordMatrix(c, id, false, false, 0), c.PixelsToClip()) {
		t.Error("screen-aligned glyph coord matrix should be PixelsToClip")
	}
}

func TestGlobeCameraUp(t *testing.T) {
	c := testCamera()

	up := GlobeCameraUp(c)
	if !approxEq(up.X(), 0) || !approxEq(up.Y(), 1) || !approxEq(up.Z(), 0) {
		t.Errorf("identity view up = %v, want (0,1,0)", up)
	}

	// A roll of 90 degrees about Z tips the camera-up to -X (inverse
	// rotation applied to world up).
	c.GlobeView = mgl32.HomogRotate3DZ(math.Pi / 2)
	up = GlobeCameraUp(c)
	if !approxEq(up.X(), 1) || !approxEq(up.Y(), 0) {
		t.Errorf("rolled view up = %v, want (1,0,0)", up)
	}

	// Scaling must not leak into the normalized result.
	c.GlobeView = mgl32.Scale3D(3, 3, 3)
	up = GlobeCameraUp(c)
	if !approxEq(up.Len(), 1) {
		t.Errorf("up vector not normalized: |%v| = %v", up, up.Len())
	}
}

func TestProject(t *testing.T) {
	p, w := Project(mgl32.Ident4(), 3, 4, 5)
	if !approxEq(p.X(), 3) || !approxEq(p.Y(), 4) || !approxEq(p.Z(), 5) || !approxEq(w, 1) {
		t.Errorf("identity Project = %v w=%v", p, w)
	}

	// A matrix that doubles w halves the projected coordinates.
	m := mgl32.Ident4()
	m[15] = 2
	p, w = Project(m, 3, 4, 5)
	if !approxEq(p.X(), 1.5) || !approxEq(w, 2) {
		t.Errorf("Project with w=2 = %v w=%v", p, w)
	}
}

func TestPerspectiveRatio(t *testing.T) {
	tests := []struct {
		name   string
		center float64
		dist   float32
		want   float64
	}{
		{"at center distance", 768, 768, 1},
		{"twice as far", 768, 1536, 0.75},
		{"behind camera", 768, -1, 4},
		{"very close clamps", 768, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerspectiveRatio(tt.center, tt.dist)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("PerspectiveRatio(%v, %v) = %v, want %v", tt.center, tt.dist, got, tt.want)
			}
		})
	}
}

func TestMetersToTileUnits(t *testing.T) {
	c := testCamera()
	id := tile.NewID(0, 0, 0)

	// 16 units/px, 2 m/px: 8 units per meter in flat mode.
	if got := MetersToTileUnits(c, id, 0); math.Abs(got-8) > eps {
		t.Errorf("flat MetersToTileUnits = %v, want 8", got)
	}

	c.LatitudeDeg = 60
	want := 8 * math.Cos(60*math.Pi/180)
	if got := MetersToTileUnits(c, id, 1); math.Abs(got-want) > eps {
		t.Errorf("spherical MetersToTileUnits = %v, want %v", got, want)
	}

	c.MetersPerPixel = 0
	if got := MetersToTileUnits(c, id, 0); got != 0 {
		t.Errorf("MetersToTileUnits without resolution = %v, want 0", got)
	}
}

func TestMatrixCache(t *testing.T) {
	c := testCamera()
	c.Revision = 1
	id := tile.NewID(0, 0, 0)
	mc := NewMatrixCache()

	direct := ClipMatrix(c, id, 0)
	if got := mc.Clip(c, id, 0); !matApproxEq(got, direct) {
		t.Fatal("cached clip matrix differs from direct computation")
	}

	// Same revision: the memoized value is served even if the camera
	// changed underneath (the revision is the contract).
	c.WorldSize = 1024
	if got := mc.Clip(c, id, 0); !matApproxEq(got, direct) {
		t.Error("cache must serve the memoized matrix for an unchanged revision")
	}

	// Bumping the revision recomputes.
	c.Revision = 2
	if got := mc.Clip(c, id, 0); matApproxEq(got, direct) {
		t.Error("cache must recompute after a revision bump")
	}
}
