// Package symbol is the per-frame symbol rendering pipeline: variable-anchor
// resolution, occlusion tracking and draw batching for one symbol layer over
// the set of visible tiles.
//
// The pipeline consumes decisions made elsewhere (which symbols are shown
// and their candidate anchor offsets come from the placement subsystem) and
// turns them into GPU work: rewritten dynamic vertex streams, windowed
// occlusion queries and an ordered draw-call sequence.
package symbol

// AnchorCorner names the corner or edge of the measured label box a
// variable offset is anchored to.
type AnchorCorner uint8

// Anchor corners.
const (
	AnchorCenter AnchorCorner = iota
	AnchorLeft
	AnchorRight
	AnchorTop
	AnchorBottom
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// alignment returns the horizontal and vertical alignment factors of a
// corner: 0 left/top, 0.5 center, 1 right/bottom.
func (a AnchorCorner) alignment() (h, v float64) {
	h, v = 0.5, 0.5
	switch a {
	case AnchorRight, AnchorTopRight, AnchorBottomRight:
		h = 1
	case AnchorLeft, AnchorTopLeft, AnchorBottomLeft:
		h = 0
	}
	switch a {
	case AnchorBottom, AnchorBottomLeft, AnchorBottomRight:
		v = 1
	case AnchorTop, AnchorTopLeft, AnchorTopRight:
		v = 0
	}
	return h, v
}

// VariableOffset is one symbol's candidate anchor placement, computed fresh
// each frame by the placement subsystem. The pipeline only reads it.
type VariableOffset struct {
	// Width, Height are the measured label box dimensions in pixels.
	Width, Height float64

	// Anchor is the box corner the symbol hangs from.
	Anchor AnchorCorner

	// TextOffset is the style's text offset in ems.
	TextOffset [2]float64

	// BoxScale converts the measured box from layout units to ems.
	BoxScale float64
}

// IconTextFit describes how a layer stretches icons around their text.
type IconTextFit uint8

// Icon-text-fit modes. Any mode other than IconTextFitNone visually ties
// icon position to text position, so variable-anchor shifts propagate from
// a text run to its paired icon.
const (
	IconTextFitNone IconTextFit = iota
	IconTextFitWidth
	IconTextFitHeight
	IconTextFitBoth
)

// Layer is the style snapshot of one symbol layer for a frame. The style
// evaluation happens upstream; the pipeline treats these as plain values.
type Layer struct {
	// ID is the style layer identifier, keying buckets inside tiles.
	ID string

	// PitchWithMap aligns label pitch to the tile plane instead of the
	// viewport.
	PitchWithMap bool

	// RotateWithMap aligns label rotation to the map instead of the
	// viewport.
	RotateWithMap bool

	// VariableAnchor enables variable-anchor text repositioning.
	VariableAnchor bool

	// IconTextFit ties icon geometry to text placement.
	IconTextFit IconTextFit

	// SortKeyOrdering is set when the layer declares a symbol sort key.
	SortKeyOrdering bool

	// IconOpacity and TextOpacity gate the icon and text passes entirely
	// when zero.
	IconOpacity float64
	TextOpacity float64

	// HaloWidth in pixels; a nonzero width on SDF geometry enables the
	// halo pre-pass.
	HaloWidth float64

	// OcclusionOpacity enables occlusion-query driven opacity for the
	// layer's symbols.
	OcclusionOpacity bool

	// ZOffset lifts symbols off the ground plane, in meters.
	ZOffset float64

	// ColorAdjust enables per-icon color adjustment.
	ColorAdjust bool

	// CrossFade enables raster cross-fade transitions.
	CrossFade bool
}
