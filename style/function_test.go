package style

import (
	"testing"

	"github.com/gogpu/mapstyle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stops(pairs ...[2]any) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = []any{p[0], p[1]}
	}
	return out
}

func TestCameraFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   map[string]any
		zoom float64
		want float64
	}{
		{"linear midpoint", map[string]any{"stops": stops([2]any{0, 0}, [2]any{10, 10})}, 5, 5},
		{"clamped below", map[string]any{"stops": stops([2]any{2, 1}, [2]any{10, 10})}, 0, 1},
		{"clamped above", map[string]any{"stops": stops([2]any{2, 1}, [2]any{10, 10})}, 22, 10},
		{"single stop", map[string]any{"stops": stops([2]any{4, 3})}, 9, 3},
		{"exponential base", map[string]any{"base": 2, "stops": stops([2]any{0, 0}, [2]any{2, 3})}, 1, 1},
		{"interval below step", map[string]any{"type": "interval", "stops": stops([2]any{0, 1}, [2]any{5, 2})}, 4.99, 1},
		{"interval at step", map[string]any{"type": "interval", "stops": stops([2]any{0, 1}, [2]any{5, 2})}, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, "radius", tt.fn)
			require.Equal(t, KindCamera, v.Kind())
			pe := v.possiblyEvaluate(tt.zoom)
			require.True(t, pe.IsConstant(), "camera functions fold to constants")
			assert.InDelta(t, tt.want, pe.Number(nil, nil), 1e-9)
		})
	}
}

func TestCameraColorFunction(t *testing.T) {
	v := mustParse(t, "color", map[string]any{"stops": stops([2]any{0, "#000000"}, [2]any{10, "#ffffff"})})
	c := v.possiblyEvaluate(5).Color(nil, nil)
	assert.InDelta(t, 0.5, c.R, 1e-9)
	assert.InDelta(t, 0.5, c.G, 1e-9)
	assert.InDelta(t, 0.5, c.B, 1e-9)
	assert.InDelta(t, 1.0, c.A, 1e-9)
}

func TestSourceFunctions(t *testing.T) {
	tests := []struct {
		name    string
		fn      map[string]any
		feature Attributes
		want    float64
	}{
		{
			name:    "exponential",
			fn:      map[string]any{"property": "size", "stops": stops([2]any{0, 0}, [2]any{10, 20})},
			feature: Attributes{"size": 5},
			want:    10,
		},
		{
			name:    "missing attribute uses property default",
			fn:      map[string]any{"property": "size", "stops": stops([2]any{0, 0}, [2]any{10, 20})},
			feature: Attributes{},
			want:    5,
		},
		{
			name:    "missing attribute uses function default",
			fn:      map[string]any{"property": "size", "default": 9, "stops": stops([2]any{0, 0}, [2]any{10, 20})},
			feature: Attributes{},
			want:    9,
		},
		{
			name:    "non-numeric input uses default",
			fn:      map[string]any{"property": "size", "stops": stops([2]any{0, 0}, [2]any{10, 20})},
			feature: Attributes{"size": "large"},
			want:    5,
		},
		{
			name:    "categorical inferred from string stops",
			fn:      map[string]any{"property": "kind", "stops": stops([2]any{"a", 1}, [2]any{"b", 2})},
			feature: Attributes{"kind": "b"},
			want:    2,
		},
		{
			name:    "categorical miss",
			fn:      map[string]any{"property": "kind", "default": 7, "stops": stops([2]any{"a", 1}, [2]any{"b", 2})},
			feature: Attributes{"kind": "c"},
			want:    7,
		},
		{
			name:    "categorical numbers match across types",
			fn:      map[string]any{"type": "categorical", "property": "rank", "stops": stops([2]any{1, 11}, [2]any{2, 22})},
			feature: Attributes{"rank": 2.0},
			want:    22,
		},
		{
			name:    "identity",
			fn:      map[string]any{"type": "identity", "property": "r"},
			feature: Attributes{"r": 8},
			want:    8,
		},
		{
			name:    "identity with wrong type",
			fn:      map[string]any{"type": "identity", "property": "r"},
			feature: Attributes{"r": "eight"},
			want:    5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, "radius", tt.fn)
			require.Equal(t, KindSource, v.Kind())
			pe := v.possiblyEvaluate(14)
			require.False(t, pe.IsConstant())
			assert.InDelta(t, tt.want, pe.Number(tt.feature, nil), 1e-9)
		})
	}
}

func TestCompositeFunction(t *testing.T) {
	zv := func(zoom, value float64) map[string]any { return map[string]any{"zoom": zoom, "value": value} }
	v := mustParse(t, "radius", map[string]any{
		"property": "size",
		"stops": []any{
			[]any{zv(0, 0), 0},
			[]any{zv(0, 10), 10},
			[]any{zv(10, 0), 0},
			[]any{zv(10, 10), 20},
		},
	})
	require.Equal(t, KindComposite, v.Kind())

	tests := []struct {
		zoom, size, want float64
	}{
		{0, 5, 5},
		{10, 5, 10},
		{5, 10, 15},
		{5, 5, 7.5},
		{20, 10, 20},
		{-1, 10, 10},
	}
	for _, tt := range tests {
		pe := v.possiblyEvaluate(tt.zoom)
		assert.InDelta(t, tt.want, pe.Number(Attributes{"size": tt.size}, nil), 1e-9,
			"zoom %v size %v", tt.zoom, tt.size)
	}
}

func TestInterpolationFactor(t *testing.T) {
	assert.InDelta(t, 0.5, interpolationFactor(5, 1, 0, 10), 1e-12)
	assert.InDelta(t, 1.0/3, interpolationFactor(1, 2, 0, 2), 1e-12)
	assert.Equal(t, 0.0, interpolationFactor(3, 1, 3, 3))
}

func TestInterpolateStepsNonInterpolatable(t *testing.T) {
	assert.Equal(t, "map", interpolate(TypeEnum, "map", "viewport", 0.99))
	assert.Equal(t, "viewport", interpolate(TypeEnum, "map", "viewport", 1))
	assert.Equal(t, mapstyle.V2(1, 2), interpolate(TypeOffset, mapstyle.V2(0, 0), mapstyle.V2(2, 4), 0.5))
}
