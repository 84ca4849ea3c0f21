package query

import "github.com/gogpu/mapstyle"

// Translate moves a query geometry by the inverse of a layer's translate
// offset, so that testing the moved query against untranslated features
// is equivalent to testing the original query against translated ones.
//
// offset is in screen pixels and is scaled to tile units by
// pixelsToTileUnits. With a Viewport anchor it is rotated by angle first;
// callers pass the negated camera bearing so the offset keeps its screen
// direction. A zero offset returns query itself.
func Translate(query []mapstyle.Point, offset mapstyle.Vec2, anchor Alignment, angle, pixelsToTileUnits float64) []mapstyle.Point {
	if offset.IsZero() {
		return query
	}
	d := offset.Mul(pixelsToTileUnits)
	if anchor == Viewport {
		d = d.Rotate(angle)
	}
	out := make([]mapstyle.Point, len(query))
	for i, p := range query {
		out[i] = p.Offset(d.Neg())
	}
	return out
}

// TranslateDistance returns the length of a translate offset.
func TranslateDistance(offset mapstyle.Vec2) float64 {
	return offset.Length()
}
