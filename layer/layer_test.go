package layer

import (
	"fmt"
	"testing"
	"time"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestLayer(t *testing.T, typ Type, paint, layout map[string]any) Layer {
	t.Helper()
	l, err := New("test-"+string(typ), typ)
	require.NoError(t, err)
	require.NoError(t, l.Cascade().Apply(paint, layout))
	l.Resolve(10, t0)
	return l
}

func point(id string, x, y float64, props style.Attributes) Feature {
	return Feature{ID: id, Properties: props, Geometry: mapstyle.Geometry{{mapstyle.Pt(x, y)}}}
}

func params(q []mapstyle.Point, f Feature, m mapstyle.Mat4) query.Params {
	return queryParams(q, f, m, &mapstyle.CameraTransform{Zoom: 10, CameraToCenterDistance: 1})
}

func queryParams(q []mapstyle.Point, f Feature, m mapstyle.Mat4, tr *mapstyle.CameraTransform) query.Params {
	return query.Params{
		QueryGeometry:     q,
		Feature:           f.Properties,
		Geometry:          f.Geometry,
		Transform:         tr,
		PixelsToTileUnits: 1,
		PixelPosMatrix:    m,
	}
}

func pts(xy ...float64) []mapstyle.Point {
	out := make([]mapstyle.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, mapstyle.Pt(xy[i], xy[i+1]))
	}
	return out
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []Type{TypeCircle, TypeFill, TypeLine}, Types())

	for _, typ := range Types() {
		l, err := New("x", typ)
		require.NoError(t, err)
		schema, err := SchemaOf(typ)
		require.NoError(t, err)
		assert.Same(t, schema, l.Schema())
		assert.Equal(t, string(typ), l.Type())
		assert.Equal(t, "x", l.ID())
		assert.Nil(t, l.Snapshot())
	}

	_, err := New("x", "heatmap")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = SchemaOf("symbol")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestSchemasDeclareEveryProperty(t *testing.T) {
	tests := []struct {
		typ    Type
		layout []string
		paint  []string
	}{
		{
			typ:    TypeCircle,
			layout: []string{"circle-sort-key", "visibility"},
			paint: []string{
				"circle-radius", "circle-color", "circle-blur", "circle-opacity",
				"circle-translate", "circle-translate-anchor", "circle-pitch-scale",
				"circle-pitch-alignment", "circle-stroke-width", "circle-stroke-color",
				"circle-stroke-opacity",
			},
		},
		{
			typ:    TypeFill,
			layout: []string{"fill-sort-key", "visibility"},
			paint: []string{
				"fill-antialias", "fill-opacity", "fill-color", "fill-outline-color",
				"fill-translate", "fill-translate-anchor",
			},
		},
		{
			typ:    TypeLine,
			layout: []string{"line-cap", "line-join", "line-miter-limit", "line-round-limit", "line-sort-key", "visibility"},
			paint: []string{
				"line-opacity", "line-color", "line-translate", "line-translate-anchor",
				"line-width", "line-gap-width", "line-offset", "line-blur",
			},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			schema, err := SchemaOf(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.layout, schema.LayoutNames())
			assert.Equal(t, tt.paint, schema.PaintNames())
		})
	}
}

func TestCircleDefaults(t *testing.T) {
	l := newTestLayer(t, TypeCircle, nil, nil)
	snap := l.Snapshot()
	assert.Equal(t, 5.0, snap.Get("circle-radius").Number(nil, nil))
	assert.Equal(t, "map", snap.Get("circle-pitch-scale").Enum(nil, nil))
	assert.Equal(t, "viewport", snap.Get("circle-pitch-alignment").Enum(nil, nil))
	assert.Equal(t, "map", snap.Get("circle-translate-anchor").Enum(nil, nil))
	assert.Equal(t, 1.0, snap.Get("circle-stroke-opacity").Number(nil, nil))
}

func TestVisible(t *testing.T) {
	l := newTestLayer(t, TypeFill, nil, nil)
	assert.True(t, l.Visible(0))
	assert.True(t, l.Visible(23.9))
	assert.False(t, l.Visible(24))

	require.NoError(t, l.Cascade().SetLayoutProperty("visibility", "none"))
	assert.False(t, l.Visible(10))
}

func TestVisibleFollowsEvaluatedVisibility(t *testing.T) {
	hidden := style.NewExpression(func(style.EvaluationContext) (any, error) { return "none", nil }, false, false)
	l := newTestLayer(t, TypeCircle, nil, map[string]any{"visibility": hidden})

	snap := l.Resolve(10, t0)
	assert.Equal(t, "none", snap.Layout().Get("visibility").Enum(nil, nil))
	assert.False(t, l.Visible(10))
	assert.Zero(t, l.CreateBucket(snap, []Feature{point("a", 0, 0, nil)}).Len())

	shown := style.NewExpression(func(style.EvaluationContext) (any, error) { return "visible", nil }, false, false)
	require.NoError(t, l.Cascade().SetLayoutProperty("visibility", shown))
	assert.True(t, l.Visible(10))
	assert.Equal(t, 1, l.CreateBucket(l.Resolve(10, t0), []Feature{point("a", 0, 0, nil)}).Len())
}

func TestQueryWithForeignSnapshotPanics(t *testing.T) {
	circle := newTestLayer(t, TypeCircle, nil, nil)
	fill := newTestLayer(t, TypeFill, nil, nil)

	p := params(pts(0, 0), point("a", 0, 0, nil), mapstyle.IdentityMat4())
	p.Paint = fill.Snapshot()
	assert.PanicsWithError(t, fmt.Sprintf("style: contract violation in CheckSchema: %v", style.ErrSchemaMismatch),
		func() { circle.QueryIntersectsFeature(p) })
}
