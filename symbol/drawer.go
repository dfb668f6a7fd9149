package symbol

import (
	"sync"

	"github.com/gogpu/mapsym/gfx"
	"github.com/gogpu/mapsym/transform"
)

// oneEm is the layout reference size: measured box dimensions and text
// offsets are expressed relative to a 24px em.
const oneEm = 24.0

// Config configures a Drawer.
type Config struct {
	// OcclusionWindow is the sampling window for occlusion queries: an
	// instance is eligible to start a new query every OcclusionWindow
	// frames. If 0, defaults to 8.
	OcclusionWindow int

	// OcclusionVisualize draws every eligible occluder quad each frame
	// with a distinct color per test state and skips query readback.
	// The window is forced to 1.
	OcclusionVisualize bool

	// ShowCollisionBoxes draws debug collision-candidate boxes.
	ShowCollisionBoxes bool
}

// FrameState is the per-frame input shared by all layers: the frame
// counter driving query scheduling, the driver's render pass and the globe
// transition value every matrix of the frame must agree on.
type FrameState struct {
	// Counter is the monotonically increasing frame counter.
	Counter uint64

	// Pass is the driver's current render pass. Symbols draw only during
	// the translucent pass.
	Pass gfx.RenderPass

	// Transition is the globe blend for this frame
	// (transform.GlobeTransition of the frame's zoom).
	Transition float32

	// FadeChange is the raster cross-fade parameter.
	FadeChange float64

	// Rotating and Zooming are set by the driver while the camera is
	// animating; they widen atlas filtering to linear.
	Rotating bool
	Zooming  bool
}

// Globe reports whether the spherical model is active at all this frame.
func (f *FrameState) Globe() bool { return f.Transition > 0 }

// Drawer renders symbol layers. One Drawer serves many layers and frames;
// it owns no GPU resources beyond the matrix memoization it keeps.
//
// Drawer is single-threaded by contract: all methods must be called from
// the thread driving the GPU command stream.
type Drawer struct {
	ctx      gfx.Context
	cam      *transform.Camera
	cfg      Config
	matrices *transform.MatrixCache

	// occluderVertex and occluderIndex hold the shared unit quad every
	// occlusion test draws, created on first use.
	occluderVertex gfx.BufferID
	occluderIndex  gfx.BufferID

	globeOcclusionWarn sync.Once
	noQueryWarn        sync.Once
}

// NewDrawer creates a Drawer over the given context and camera.
func NewDrawer(ctx gfx.Context, cam *transform.Camera, cfg Config) *Drawer {
	if cfg.OcclusionWindow <= 0 {
		cfg.OcclusionWindow = 8
	}
	return &Drawer{
		ctx:      ctx,
		cam:      cam,
		cfg:      cfg,
		matrices: transform.NewMatrixCache(),
	}
}
