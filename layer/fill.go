package layer

import (
	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
)

var fillSchema = style.NewSchema(string(TypeFill),
	[]style.PropertySpec{
		{Name: "fill-sort-key", Type: style.TypeNumber, Default: 0.0, ZoomDependent: true, DataDriven: true},
		visibilitySpec,
	},
	[]style.PropertySpec{
		{Name: "fill-antialias", Type: style.TypeBool, Default: true, ZoomDependent: true},
		{Name: "fill-opacity", Type: style.TypeNumber, Default: 1.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0), Maximum: style.Bound(1)},
		{Name: "fill-color", Type: style.TypeColor, Default: mapstyle.Black, Transition: true, ZoomDependent: true, DataDriven: true},
		{Name: "fill-outline-color", Type: style.TypeColor, Default: mapstyle.Black, Transition: true, ZoomDependent: true, DataDriven: true},
		{Name: "fill-translate", Type: style.TypeOffset, Default: mapstyle.Vec2{}, Transition: true, ZoomDependent: true},
		anchorSpec("fill-translate-anchor", string(query.Map)),
	},
)

// Fill draws each feature as a polygon; rings follow the even-odd rule.
type Fill struct {
	base
}

// QueryRadius returns the length of fill-translate. Polygons have no extent
// beyond their geometry.
func (l *Fill) QueryRadius(snap *style.Snapshot, _ query.Bucket) float64 {
	snap = l.paint(snap, 0)
	return query.TranslateDistance(snap.Get("fill-translate").Offset(nil, nil))
}

// QueryIntersectsFeature reports whether the translated query overlaps the
// feature's polygon.
func (l *Fill) QueryIntersectsFeature(p query.Params) bool {
	snap := l.paint(p.Paint, p.Transform.Zoom)
	translated := query.Translate(p.QueryGeometry,
		snap.Get("fill-translate").Offset(p.Feature, p.State),
		alignment(snap, "fill-translate-anchor"),
		-p.Transform.BearingRadians, p.PixelsToTileUnits)
	return query.PolygonIntersectsMultiPolygon(translated, p.Geometry)
}
