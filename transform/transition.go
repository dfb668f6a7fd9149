package transform

// Globe transition zoom range. Below TransitionZoomStart the map is fully
// spherical; above TransitionZoomEnd it is fully flat. The curve between is
// a smoothstep. Treat it as a tunable parameter rather than a contract.
const (
	TransitionZoomStart = 11.0
	TransitionZoomEnd   = 12.0
)

// GlobeTransition returns the spherical blend factor for a zoom level:
// 1 fully globe, 0 fully flat.
func GlobeTransition(zoom float64) float32 {
	if zoom <= TransitionZoomStart {
		return 1
	}
	if zoom >= TransitionZoomEnd {
		return 0
	}
	t := (TransitionZoomEnd - zoom) / (TransitionZoomEnd - TransitionZoomStart)
	// Smoothstep.
	return float32(t * t * (3 - 2*t))
}
