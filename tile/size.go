package tile

// SizeKind tells how a bucket's symbol size responds to zoom.
type SizeKind uint8

// Size kinds.
const (
	// SizeConstant renders at a fixed size regardless of zoom.
	SizeConstant SizeKind = iota

	// SizeZoomInterpolated interpolates between two sizes across a zoom
	// range.
	SizeZoomInterpolated
)

// SizeData is the baked zoom response of a bucket's text or icon size,
// evaluated once per frame per bucket.
type SizeData struct {
	Kind SizeKind

	// Size is the fixed size for SizeConstant.
	Size float64

	// MinZoom, MaxZoom, MinSize, MaxSize define the interpolation range for
	// SizeZoomInterpolated.
	MinZoom, MaxZoom float64
	MinSize, MaxSize float64
}

// ConstantSize returns a SizeData that always evaluates to size.
func ConstantSize(size float64) SizeData {
	return SizeData{Kind: SizeConstant, Size: size}
}

// Evaluate returns the symbol size at the given zoom.
func (s SizeData) Evaluate(zoom float64) float64 {
	if s.Kind == SizeConstant {
		return s.Size
	}
	if s.MaxZoom <= s.MinZoom {
		return s.MinSize
	}
	t := (zoom - s.MinZoom) / (s.MaxZoom - s.MinZoom)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return s.MinSize + (s.MaxSize-s.MinSize)*t
}

// IsZoomDependent reports whether the size changes while zooming, which
// forces linear atlas filtering.
func (s SizeData) IsZoomDependent() bool {
	return s.Kind == SizeZoomInterpolated && s.MinSize != s.MaxSize
}
