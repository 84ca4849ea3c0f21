package layer

import (
	"math"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
)

var lineSchema = style.NewSchema(string(TypeLine),
	[]style.PropertySpec{
		{Name: "line-cap", Type: style.TypeEnum, Default: "butt", Values: []string{"butt", "round", "square"}, ZoomDependent: true},
		{Name: "line-join", Type: style.TypeEnum, Default: "miter", Values: []string{"bevel", "round", "miter"}, ZoomDependent: true, DataDriven: true},
		{Name: "line-miter-limit", Type: style.TypeNumber, Default: 2.0, ZoomDependent: true},
		{Name: "line-round-limit", Type: style.TypeNumber, Default: 1.05, ZoomDependent: true},
		{Name: "line-sort-key", Type: style.TypeNumber, Default: 0.0, ZoomDependent: true, DataDriven: true},
		visibilitySpec,
	},
	[]style.PropertySpec{
		{Name: "line-opacity", Type: style.TypeNumber, Default: 1.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0), Maximum: style.Bound(1)},
		{Name: "line-color", Type: style.TypeColor, Default: mapstyle.Black, Transition: true, ZoomDependent: true, DataDriven: true},
		{Name: "line-translate", Type: style.TypeOffset, Default: mapstyle.Vec2{}, Transition: true, ZoomDependent: true},
		anchorSpec("line-translate-anchor", string(query.Map)),
		{Name: "line-width", Type: style.TypeNumber, Default: 1.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0)},
		{Name: "line-gap-width", Type: style.TypeNumber, Default: 0.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0)},
		{Name: "line-offset", Type: style.TypeNumber, Default: 0.0, Transition: true, ZoomDependent: true, DataDriven: true},
		{Name: "line-blur", Type: style.TypeNumber, Default: 0.0, Transition: true, ZoomDependent: true, DataDriven: true, Minimum: style.Bound(0)},
	},
)

// Line draws each feature ring as a polyline of line-width pixels, or as a
// pair of lines around a line-gap-width gap.
type Line struct {
	base
}

// QueryRadius returns half the widest stroke, plus the largest offset and
// the length of line-translate.
func (l *Line) QueryRadius(snap *style.Snapshot, bucket query.Bucket) float64 {
	snap = l.paint(snap, 0)
	width := lineWidth(
		query.MaximumPaintValue("line-width", snap, bucket),
		query.MaximumPaintValue("line-gap-width", snap, bucket))
	return width/2 + maximumAbsPaintValue("line-offset", snap, bucket) +
		query.TranslateDistance(snap.Get("line-translate").Offset(nil, nil))
}

// QueryIntersectsFeature reports whether the translated query comes within
// half the evaluated width of the offset feature lines.
func (l *Line) QueryIntersectsFeature(p query.Params) bool {
	snap := l.paint(p.Paint, p.Transform.Zoom)
	translated := query.Translate(p.QueryGeometry,
		snap.Get("line-translate").Offset(p.Feature, p.State),
		alignment(snap, "line-translate-anchor"),
		-p.Transform.BearingRadians, p.PixelsToTileUnits)

	halfWidth := p.PixelsToTileUnits / 2 * lineWidth(
		snap.Get("line-width").Number(p.Feature, p.State),
		snap.Get("line-gap-width").Number(p.Feature, p.State))

	geometry := p.Geometry
	if offset := snap.Get("line-offset").Number(p.Feature, p.State); offset != 0 {
		geometry = offsetLines(geometry, offset*p.PixelsToTileUnits)
	}
	return query.PolygonIntersectsBufferedMultiLine(translated, geometry, halfWidth)
}

// lineWidth is the full width covered by a line, counting both strokes of a
// gapped line.
func lineWidth(width, gapWidth float64) float64 {
	if gapWidth > 0 {
		return gapWidth + 2*width
	}
	return width
}

func maximumAbsPaintValue(name string, snap *style.Snapshot, bucket query.Bucket) float64 {
	pe := snap.Get(name)
	if pe.IsConstant() {
		return math.Abs(pe.Number(nil, nil))
	}
	var out float64
	for i := range bucket.Len() {
		c := bucket.At(i)
		out = max(out, math.Abs(pe.Number(c.Feature, c.State)))
	}
	return out
}

// offsetLines shifts every line sideways by offset, positive to the right of
// the direction of travel. Joins are extruded along the angle bisector.
func offsetLines(lines mapstyle.Geometry, offset float64) mapstyle.Geometry {
	out := make(mapstyle.Geometry, len(lines))
	for i, line := range lines {
		shifted := make(mapstyle.Ring, len(line))
		for j, p := range line {
			var in, next mapstyle.Vec2
			if j > 0 {
				in = perp(unit(mapstyle.Vec2(p.Sub(line[j-1]))))
			}
			if j < len(line)-1 {
				next = perp(unit(mapstyle.Vec2(line[j+1].Sub(p))))
			}
			extrude := unit(in.Add(next))
			if cos := extrude.X*next.X + extrude.Y*next.Y; cos != 0 {
				extrude = extrude.Mul(1 / cos)
			}
			shifted[j] = p.Offset(extrude.Mul(offset))
		}
		out[i] = shifted
	}
	return out
}

func unit(v mapstyle.Vec2) mapstyle.Vec2 {
	l := v.Length()
	if l == 0 {
		return mapstyle.Vec2{}
	}
	return v.Mul(1 / l)
}

func perp(v mapstyle.Vec2) mapstyle.Vec2 {
	return mapstyle.V2(-v.Y, v.X)
}
