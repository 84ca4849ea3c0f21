package layer

import (
	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/internal/telemetry"
	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
)

var circleSchema = style.NewSchema(string(TypeCircle),
	[]style.PropertySpec{
		{Name: "circle-sort-key", Type: style.TypeNumber, Default: 0.0, ZoomDependent: true, DataDriven: true},
		visibilitySpec,
	},
	[]style.PropertySpec{
		{Name: "circle-radius", Type: style.TypeNumber, Default: 5.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0)},
		{Name: "circle-color", Type: style.TypeColor, Default: mapstyle.Black, Transition: true, ZoomDependent: true, DataDriven: true},
		{Name: "circle-blur", Type: style.TypeNumber, Default: 0.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0)},
		{Name: "circle-opacity", Type: style.TypeNumber, Default: 1.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0), Maximum: style.Bound(1)},
		{Name: "circle-translate", Type: style.TypeOffset, Default: mapstyle.Vec2{}, Transition: true, ZoomDependent: true},
		anchorSpec("circle-translate-anchor", string(query.Map)),
		anchorSpec("circle-pitch-scale", string(query.Map)),
		anchorSpec("circle-pitch-alignment", string(query.Viewport)),
		{Name: "circle-stroke-width", Type: style.TypeNumber, Default: 0.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0)},
		{Name: "circle-stroke-color", Type: style.TypeColor, Default: mapstyle.Black, Transition: true, ZoomDependent: true, DataDriven: true},
		{Name: "circle-stroke-opacity", Type: style.TypeNumber, Default: 1.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0), Maximum: style.Bound(1)},
	},
)

var visibilitySpec = style.PropertySpec{
	Name: "visibility", Type: style.TypeEnum, Default: "visible", Values: []string{"visible", "none"},
}

func anchorSpec(name, def string) style.PropertySpec {
	return style.PropertySpec{
		Name:          name,
		Type:          style.TypeEnum,
		Default:       def,
		Values:        []string{string(query.Map), string(query.Viewport)},
		ZoomDependent: true,
	}
}

// Circle draws each feature point as a disc of circle-radius pixels with a
// circle-stroke-width ring.
type Circle struct {
	base
}

// QueryRadius returns the largest radius plus stroke width of any feature in
// bucket, plus the length of circle-translate. It never decreases when a
// feature's radius or stroke width grows.
func (l *Circle) QueryRadius(snap *style.Snapshot, bucket query.Bucket) float64 {
	snap = l.paint(snap, 0)
	return query.MaximumPaintValue("circle-radius", snap, bucket) +
		query.MaximumPaintValue("circle-stroke-width", snap, bucket) +
		query.TranslateDistance(snap.Get("circle-translate").Offset(nil, nil))
}

// QueryIntersectsFeature reports whether the query comes within the circle
// of any point of the feature.
//
// With map pitch alignment the test runs in tile space and the size is
// scaled to tile units. With viewport alignment the query and each point
// are projected to the screen. In both frames the size is then corrected
// for perspective using the w of the untransformed point. Points with
// w <= 0 are skipped.
func (l *Circle) QueryIntersectsFeature(p query.Params) bool {
	snap := l.paint(p.Paint, p.Transform.Zoom)

	translated := query.Translate(p.QueryGeometry,
		snap.Get("circle-translate").Offset(p.Feature, p.State),
		alignment(snap, "circle-translate-anchor"),
		-p.Transform.BearingRadians, p.PixelsToTileUnits)
	radius := snap.Get("circle-radius").Number(p.Feature, p.State)
	stroke := snap.Get("circle-stroke-width").Number(p.Feature, p.State)
	size := radius + stroke

	pitchAlignment := alignment(snap, "circle-pitch-alignment")
	pitchScale := alignment(snap, "circle-pitch-scale")
	alignWithMap := pitchAlignment == query.Map

	polygon, workingSize := translated, size*p.PixelsToTileUnits
	if !alignWithMap {
		var ok bool
		polygon, ok = query.ProjectQueryGeometry(translated, p.PixelPosMatrix)
		if !ok {
			telemetry.DegeneratePoints.WithLabelValues(l.Type()).Inc()
			mapstyle.Logger().Debug("layer: query behind camera plane", "layer", l.id)
			return false
		}
		workingSize = size
	}

	for _, ring := range p.Geometry {
		for _, point := range ring {
			w := p.PixelPosMatrix.Depth(point)
			if w <= 0 {
				telemetry.DegeneratePoints.WithLabelValues(l.Type()).Inc()
				continue
			}
			transformed := point
			if !alignWithMap {
				var ok bool
				if transformed, _, ok = query.ProjectPoint(point, p.PixelPosMatrix); !ok {
					telemetry.DegeneratePoints.WithLabelValues(l.Type()).Inc()
					continue
				}
			}
			adjusted := query.CorrectSize(workingSize, w, p.Transform.CameraToCenterDistance, pitchScale, pitchAlignment)
			if query.PolygonIntersectsBufferedPoint(polygon, transformed, adjusted) {
				return true
			}
		}
	}
	return false
}
