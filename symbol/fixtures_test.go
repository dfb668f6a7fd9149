package symbol

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/internal/gfxtest"
	"github.com/gogpu/mapsym/tile"
	"github.com/gogpu/mapsym/transform"
)

const testLayerID = "poi-label"

type fakeStore map[uint64]*tile.Tile

func (s fakeStore) GetTile(id tile.ID) *tile.Tile { return s[id.Key()] }

func testCamera() *transform.Camera {
	return &transform.Camera{
		Zoom:                   1,
		Width:                  512,
		Height:                 512,
		WorldSize:              512,
		CameraToCenterDistance: 768,
		MetersPerPixel:         2,
		Projection:             mgl32.Ident4(),
		GlobeProjection:        mgl32.Ident4(),
		GlobeView:              mgl32.Ident4(),
		Revision:               1,
	}
}

func baseLayer() *Layer {
	return &Layer{ID: testLayerID, IconOpacity: 1, TextOpacity: 1}
}

func testFrame(counter uint64) *FrameState {
	return &FrameState{Counter: counter, Pass: gfx.PassTranslucent}
}

// fixture wires a drawer, one tile and one bucket with n symbol instances.
type fixture struct {
	ctx    *gfxtest.Context
	cam    *transform.Camera
	drawer *Drawer
	store  fakeStore
	coord  tile.ID
	bucket *tile.SymbolBucket
}

func newFixture(t *testing.T, cfg Config, instances int) *fixture {
	t.Helper()
	ctx := gfxtest.New()
	cam := testCamera()
	coord := tile.NewID(0, 0, 1)
	b := makeBucket(t, ctx, instances)
	tl := tile.NewTile(coord)
	tl.SetSymbolBucket(testLayerID, b)
	return &fixture{
		ctx:    ctx,
		cam:    cam,
		drawer: NewDrawer(ctx, cam, cfg),
		store:  fakeStore{coord.Key(): tl},
		coord:  coord,
		bucket: b,
	}
}

// makeBucket bakes a minimal bucket: one two-glyph text run and one
// one-quad icon run per instance, one segment per kind.
func makeBucket(t *testing.T, ctx *gfxtest.Context, n int) *tile.SymbolBucket {
	t.Helper()
	b := &tile.SymbolBucket{
		LayerID:        testLayerID,
		TilePixelRatio: 1,
		TextSize:       tile.ConstantSize(16),
		IconSize:       tile.ConstantSize(1),
		GlyphAtlas:     tile.Atlas{Texture: ctx.NewTexture(), Width: 512, Height: 512},
		IconAtlas:      tile.Atlas{Texture: ctx.NewTexture(), Width: 256, Height: 256},
	}
	for i := range n {
		b.Instances = append(b.Instances, tile.SymbolInstance{
			CrossTileID: uint64(i + 1),
			AnchorX:     float32(100 * i),
			AnchorY:     float32(50 * i),
			IconIndex:   i,
		})
		b.Text.Placed = append(b.Text.Placed, tile.PlacedSymbol{GlyphCount: 2, Instance: i})
		b.Icon.Placed = append(b.Icon.Placed, tile.PlacedSymbol{GlyphCount: 1, Instance: i})
	}
	b.Text.Segments = []tile.Segment{{IndexCount: uint32(12 * n)}}
	b.Icon.Segments = []tile.Segment{{IndexCount: uint32(6 * n)}}
	makeBuffers(t, ctx, &b.Text)
	makeBuffers(t, ctx, &b.Icon)
	return b
}

func makeBuffers(t *testing.T, ctx *gfxtest.Context, sb *tile.SymbolBuffers) {
	t.Helper()
	var err error
	if sb.Vertex, err = ctx.CreateBuffer(1024, gfx.BufferUsageVertex|gfx.BufferUsageCopyDst); err != nil {
		t.Fatalf("vertex buffer: %v", err)
	}
	if sb.Index, err = ctx.CreateBuffer(1024, gfx.BufferUsageIndex|gfx.BufferUsageCopyDst); err != nil {
		t.Fatalf("index buffer: %v", err)
	}
	if sb.Dynamic, err = ctx.CreateBuffer(1024, gfx.BufferUsageVertex|gfx.BufferUsageCopyDst); err != nil {
		t.Fatalf("dynamic buffer: %v", err)
	}
}

// allOffsets gives every instance the same candidate offset.
func allOffsets(b *tile.SymbolBucket, off VariableOffset) map[uint64]VariableOffset {
	m := make(map[uint64]VariableOffset, len(b.Instances))
	for _, inst := range b.Instances {
		m[inst.CrossTileID] = off
	}
	return m
}

// drawsOfKind filters the recorded draws by program kind.
func drawsOfKind(ctx *gfxtest.Context, kind gfx.ProgramKind) []gfxtest.Draw {
	var out []gfxtest.Draw
	for _, d := range ctx.Draws {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// runHidden reports whether every vertex of text/icon run r (glyphs quads
// starting at vertex base) carries the hidden state.
func runHidden(a *tile.DynamicVertexArray, base, glyphs int) bool {
	for v := base; v < base+glyphs*tile.VerticesPerGlyph; v++ {
		if !a.IsHidden(v) {
			return false
		}
	}
	return true
}
