package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dotSchema = style.NewSchema("dot", nil, []style.PropertySpec{
	{Name: "dot-radius", Type: style.TypeNumber, Default: 5.0, ZoomDependent: true, DataDriven: true},
})

// dotLayer hits features whose points lie within dot-radius pixels of the
// query, in tile space.
type dotLayer struct {
	cascade *style.Cascade
}

func newDotLayer(t *testing.T, radius any) *dotLayer {
	t.Helper()
	c := style.NewCascade("dots", dotSchema)
	require.NoError(t, c.Apply(map[string]any{"dot-radius": radius}, nil))
	c.Resolve(10, time.Now())
	return &dotLayer{cascade: c}
}

func (l *dotLayer) ID() string                { return "dots" }
func (l *dotLayer) Type() string              { return "dot" }
func (l *dotLayer) Schema() *style.Schema     { return dotSchema }
func (l *dotLayer) Snapshot() *style.Snapshot { return l.cascade.Snapshot() }
func (l *dotLayer) QueryRadius(snap *style.Snapshot, b Bucket) float64 {
	return MaximumPaintValue("dot-radius", snap, b)
}

func (l *dotLayer) QueryIntersectsFeature(p Params) bool {
	if _, ok := p.Feature.Property("explode"); ok {
		panic("malformed feature")
	}
	size := p.Paint.Get("dot-radius").Number(p.Feature, p.State) * p.PixelsToTileUnits
	for _, ring := range p.Geometry {
		for _, pt := range ring {
			if PolygonIntersectsBufferedPoint(p.QueryGeometry, pt, size) {
				return true
			}
		}
	}
	return false
}

type testBucket []Candidate

func (b testBucket) Len() int           { return len(b) }
func (b testBucket) At(i int) Candidate { return b[i] }

func pointFeature(i int, x, y float64, attrs style.Attributes) Candidate {
	if attrs == nil {
		attrs = style.Attributes{}
	}
	return Candidate{
		Index:    i,
		ID:       fmt.Sprintf("f%d", i),
		Feature:  attrs,
		Geometry: mapstyle.Geometry{{mapstyle.Pt(x, y)}},
	}
}

func hitIDs(hits []Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

func baseRequest(l Layer, b Bucket, query ...mapstyle.Point) Request {
	return Request{
		Layer:             l,
		Bucket:            b,
		QueryGeometry:     query,
		Transform:         &mapstyle.CameraTransform{Zoom: 10, CameraToCenterDistance: 1},
		PixelsToTileUnits: 1,
		PixelPosMatrix:    mapstyle.IdentityMat4(),
	}
}

func TestHitTesterQuery(t *testing.T) {
	h := NewHitTester(WithWorkers(2), WithChunkSize(3))
	defer h.Close()

	var bucket testBucket
	for i := range 20 {
		bucket = append(bucket, pointFeature(i, float64(i*10), 0, nil))
	}
	hits, err := h.Query(context.Background(), baseRequest(newDotLayer(t, 12), bucket, mapstyle.Pt(50, 0)))
	require.NoError(t, err)
	assert.Equal(t, []string{"f4", "f5", "f6"}, hitIDs(hits))
}

func TestHitTesterDataDrivenRadius(t *testing.T) {
	h := NewHitTester(WithWorkers(1))
	defer h.Close()

	fn := map[string]any{"property": "r", "stops": []any{[]any{0, 0}, []any{100, 100}}}
	bucket := testBucket{
		pointFeature(0, 0, 30, style.Attributes{"r": 40}),
		pointFeature(1, 0, 30, style.Attributes{"r": 20}),
		pointFeature(2, 0, 200, style.Attributes{"r": 20}),
	}
	hits, err := h.Query(context.Background(), baseRequest(newDotLayer(t, fn), bucket, mapstyle.Pt(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, []string{"f0"}, hitIDs(hits))
}

func TestHitTesterRecoversFeaturePanics(t *testing.T) {
	h := NewHitTester(WithWorkers(2), WithChunkSize(1))
	defer h.Close()

	bucket := testBucket{
		pointFeature(0, 0, 0, nil),
		pointFeature(1, 0, 0, style.Attributes{"explode": true}),
		pointFeature(2, 1, 1, nil),
	}
	hits, err := h.Query(context.Background(), baseRequest(newDotLayer(t, 5), bucket, mapstyle.Pt(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, []string{"f0", "f2"}, hitIDs(hits))
}

func TestHitTesterBroadPhaseRadiusInTileUnits(t *testing.T) {
	h := NewHitTester()
	defer h.Close()

	bucket := testBucket{pointFeature(0, 100, 0, nil)}
	req := baseRequest(newDotLayer(t, 5), bucket, mapstyle.Pt(0, 0))
	req.PixelsToTileUnits = 30 // 5px covers 150 tile units

	hits, err := h.Query(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	req.Transform = &mapstyle.CameraTransform{Zoom: 10, Pitch: 0.5, CameraToCenterDistance: 1}
	hits, err = h.Query(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestBroadPhaseScale(t *testing.T) {
	layer := newDotLayer(t, 5)
	bucket := testBucket{pointFeature(0, 0, 0, nil)}

	tests := []struct {
		name   string
		ptu    float64
		matrix mapstyle.Mat4
		ctcd   float64
		want   float64
		ok     bool
	}{
		{"tile units", 3, mapstyle.IdentityMat4(), 1, 3, true},
		{"perspective correction", 1, mapstyle.IdentityMat4(), 4, 4, true},
		{"pixel matrix shrinks", 2, mapstyle.ScaleMat4(0.25, 0.25, 1), 1, 4, true},
		{"no camera distance", 1, mapstyle.IdentityMat4(), 0, 0, false},
		{"projective matrix", 1, mapstyle.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0.01, 0, 1}, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(layer, bucket, mapstyle.Pt(0, 0))
			req.PixelsToTileUnits = tt.ptu
			req.PixelPosMatrix = tt.matrix
			req.Transform = &mapstyle.CameraTransform{Zoom: 10, CameraToCenterDistance: tt.ctcd}

			got, ok := broadPhaseScale(req)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHitTesterErrors(t *testing.T) {
	h := NewHitTester(WithWorkers(1))
	defer h.Close()
	layer := newDotLayer(t, 5)
	bucket := testBucket{pointFeature(0, 0, 0, nil)}

	_, err := h.Query(context.Background(), baseRequest(layer, bucket))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req := baseRequest(layer, bucket, mapstyle.Pt(0, 0))
	req.Transform = nil
	_, err = h.Query(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	unresolved := &dotLayer{cascade: style.NewCascade("dots", dotSchema)}
	_, err = h.Query(context.Background(), baseRequest(unresolved, bucket, mapstyle.Pt(0, 0)))
	assert.ErrorIs(t, err, ErrNoSnapshot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Query(ctx, baseRequest(layer, bucket, mapstyle.Pt(0, 0)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHitTesterSchemaMismatchPanics(t *testing.T) {
	h := NewHitTester(WithWorkers(1))
	defer h.Close()

	other := style.NewSchema("other", nil, []style.PropertySpec{
		{Name: "dot-radius", Type: style.TypeNumber, Default: 5.0},
	})
	foreign := style.NewCascade("x", other).Resolve(0, time.Now())

	req := baseRequest(newDotLayer(t, 5), testBucket{pointFeature(0, 0, 0, nil)}, mapstyle.Pt(0, 0))
	req.Paint = foreign
	assert.Panics(t, func() { _, _ = h.Query(context.Background(), req) })
}

func TestHitTesterAfterClose(t *testing.T) {
	h := NewHitTester(WithWorkers(2))
	h.Close()
	h.Close()

	hits, err := h.Query(context.Background(),
		baseRequest(newDotLayer(t, 5), testBucket{pointFeature(0, 1, 1, nil)}, mapstyle.Pt(0, 0)))
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestMaximumPaintValue(t *testing.T) {
	constant := newDotLayer(t, 7)
	assert.Equal(t, 7.0, MaximumPaintValue("dot-radius", constant.Snapshot(), testBucket{}))

	fn := map[string]any{"property": "r", "stops": []any{[]any{0, 0}, []any{100, 100}}}
	driven := newDotLayer(t, fn)
	bucket := testBucket{
		pointFeature(0, 0, 0, style.Attributes{"r": 3}),
		pointFeature(1, 0, 0, style.Attributes{"r": 9}),
		pointFeature(2, 0, 0, style.Attributes{"r": 4}),
	}
	assert.Equal(t, 9.0, MaximumPaintValue("dot-radius", driven.Snapshot(), bucket))
	assert.Equal(t, 0.0, MaximumPaintValue("dot-radius", driven.Snapshot(), testBucket{}))

	bucket[2].Feature = style.Attributes{"r": 50}
	assert.Equal(t, 50.0, MaximumPaintValue("dot-radius", driven.Snapshot(), bucket))
}
