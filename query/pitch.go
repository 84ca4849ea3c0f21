package query

// CorrectSize adjusts a hit radius for perspective foreshortening at a point
// whose homogeneous divisor is w.
//
// Only the two combinations where pitch alignment and pitch scale disagree
// need correction:
//
//	scale    alignment  result
//	viewport map        size * w / cameraToCenterDistance
//	map      viewport   size * cameraToCenterDistance / w
//	(equal)             size
//
// The caller guarantees w > 0.
func CorrectSize(size, w, cameraToCenterDistance float64, pitchScale, pitchAlignment Alignment) float64 {
	switch {
	case pitchScale == Viewport && pitchAlignment == Map:
		return size * w / cameraToCenterDistance
	case pitchScale == Map && pitchAlignment == Viewport:
		return size * cameraToCenterDistance / w
	default:
		return size
	}
}
